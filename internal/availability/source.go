package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cabins/pkg/client"
	"cabins/pkg/logger"
	"cabins/pkg/metrics"
	"cabins/pkg/model"
)

// BusySource reports the busy intervals of one cabin on one date. An empty
// result means nothing is busy. Any failure to learn the answer must be an
// error.
type BusySource interface {
	BusyIntervals(ctx context.Context, cabin model.Resource, date string) ([]model.BusyInterval, error)
}

// HTTPBusySource queries the cabin's AvailabilityEndpoint. Cabins without an
// endpoint report no busy intervals.
type HTTPBusySource struct {
	client *client.HttpClient
	log    *logger.Logger
}

type busyRequest struct {
	CabinID string `json:"cabin_id"`
	Date    string `json:"date"`
}

// Entries are kept raw so one malformed row does not fail the whole body.
type busyResponse struct {
	BusyIntervals []json.RawMessage `json:"busyIntervals"`
	BookedTimes   []json.RawMessage `json:"bookedTimes"`
}

func NewHTTPBusySource(timeout time.Duration, log *logger.Logger) *HTTPBusySource {
	return &HTTPBusySource{
		client: client.NewHttpClientWithTimeout("", timeout),
		log:    log,
	}
}

func (s *HTTPBusySource) BusyIntervals(ctx context.Context, cabin model.Resource, date string) ([]model.BusyInterval, error) {
	if cabin.AvailabilityEndpoint == "" {
		return nil, nil
	}

	intervals, err := s.fetch(ctx, cabin, date)
	metrics.RecordAvailabilityLookup(cabin.ID, err)
	if err != nil {
		s.log.Warn("Availability lookup failed",
			"cabin_id", cabin.ID,
			"date", date,
			"error", err,
		)
		return nil, &LookupError{CabinID: cabin.ID, Err: err}
	}
	return intervals, nil
}

func (s *HTTPBusySource) fetch(ctx context.Context, cabin model.Resource, date string) ([]model.BusyInterval, error) {
	resp, err := s.client.POST(ctx, cabin.AvailabilityEndpoint, busyRequest{CabinID: cabin.ID, Date: date})
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if len(resp.Body) == 0 {
		return nil, nil
	}

	var body busyResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	entries := body.BusyIntervals
	if entries == nil {
		entries = body.BookedTimes
	}
	return s.decodeIntervals(cabin.ID, date, entries), nil
}

func (s *HTTPBusySource) decodeIntervals(cabinID, date string, entries []json.RawMessage) []model.BusyInterval {
	if entries == nil {
		return nil
	}

	intervals := make([]model.BusyInterval, 0, len(entries))
	for i, raw := range entries {
		var interval model.BusyInterval
		if err := json.Unmarshal(raw, &interval); err != nil {
			s.log.Warn("Skipping malformed busy interval",
				"cabin_id", cabinID,
				"date", date,
				"index", i,
				"error", err,
			)
			continue
		}
		intervals = append(intervals, interval)
	}
	return intervals
}

// BookingLister is the read side of the booking store used for occupancy.
type BookingLister interface {
	ListConfirmed(ctx context.Context, cabinID, date string) ([]*model.Booking, error)
}

// BookingBusySource turns confirmed bookings into one-slot busy intervals.
type BookingBusySource struct {
	lister      BookingLister
	location    *time.Location
	granularity time.Duration
}

func NewBookingBusySource(lister BookingLister, loc *time.Location, slotMinutes int) *BookingBusySource {
	return &BookingBusySource{
		lister:      lister,
		location:    loc,
		granularity: time.Duration(slotMinutes) * time.Minute,
	}
}

func (s *BookingBusySource) BusyIntervals(ctx context.Context, cabin model.Resource, date string) ([]model.BusyInterval, error) {
	bookings, err := s.lister.ListConfirmed(ctx, cabin.ID, date)
	if err != nil {
		return nil, &LookupError{CabinID: cabin.ID, Err: err}
	}

	intervals := make([]model.BusyInterval, 0, len(bookings))
	for _, b := range bookings {
		start, err := time.ParseInLocation("2006-01-02 15:04", b.Date+" "+b.Time, s.location)
		if err != nil {
			continue
		}
		intervals = append(intervals, model.BusyInterval{
			Start: start.Format(time.RFC3339),
			End:   start.Add(s.granularity).Format(time.RFC3339),
		})
	}
	return intervals, nil
}

// MultiSource is the union of several sources. Any source failing fails the
// whole lookup.
type MultiSource []BusySource

func (m MultiSource) BusyIntervals(ctx context.Context, cabin model.Resource, date string) ([]model.BusyInterval, error) {
	var all []model.BusyInterval
	for _, src := range m {
		intervals, err := src.BusyIntervals(ctx, cabin, date)
		if err != nil {
			return nil, err
		}
		all = append(all, intervals...)
	}
	return all, nil
}
