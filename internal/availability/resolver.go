package availability

import (
	"context"
	"regexp"
	"time"

	"cabins/pkg/logger"
	"cabins/pkg/model"
)

const DateLayout = "2006-01-02"

var reClock = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type CabinLookup interface {
	Get(id string) (model.Resource, bool)
}

// Resolver merges a cabin's busy intervals with the generated slots.
type Resolver struct {
	generator *SlotGenerator
	catalog   CabinLookup
	source    BusySource
	location  *time.Location
	log       *logger.Logger
}

func NewResolver(generator *SlotGenerator, catalog CabinLookup, source BusySource, loc *time.Location, log *logger.Logger) *Resolver {
	return &Resolver{
		generator: generator,
		catalog:   catalog,
		source:    source,
		location:  loc,
		log:       log,
	}
}

func (r *Resolver) Generator() *SlotGenerator {
	return r.generator
}

// Resolve returns the slots for cabinID on date with availability marked. The
// source is read on every call.
func (r *Resolver) Resolve(ctx context.Context, cabinID, date string) ([]model.TimeSlot, error) {
	cabin, ok := r.catalog.Get(cabinID)
	if !ok {
		return nil, ErrUnknownCabin
	}

	day, err := time.ParseInLocation(DateLayout, date, r.location)
	if err != nil {
		return nil, ErrInvalidDate
	}

	intervals, err := r.source.BusyIntervals(ctx, cabin, date)
	if err != nil {
		return nil, err
	}

	slots := r.generator.Generate(date)
	if len(intervals) == 0 {
		return slots, nil
	}

	ranges := r.clip(cabin.ID, day, intervals)
	for i := range slots {
		for _, rg := range ranges {
			if slots[i].Time >= rg.from && slots[i].Time < rg.to {
				slots[i].Available = false
				break
			}
		}
	}
	return slots, nil
}

type clockRange struct {
	from, to string
}

// clip projects each interval onto day as a pair of HH:MM labels in the
// resolver's location. "24:00" stands for the end of the day so that a
// string comparison still works.
func (r *Resolver) clip(cabinID string, day time.Time, intervals []model.BusyInterval) []clockRange {
	dayStart := day
	dayEnd := day.AddDate(0, 0, 1)

	ranges := make([]clockRange, 0, len(intervals))
	for _, iv := range intervals {
		start, okStart := r.parseInstant(iv.Start, day)
		end, okEnd := r.parseInstant(iv.End, day)
		if !okStart || !okEnd || !end.After(start) {
			r.log.Warn("Skipping malformed busy interval",
				"cabin_id", cabinID,
				"start", iv.Start,
				"end", iv.End,
			)
			continue
		}
		if !end.After(dayStart) || !start.Before(dayEnd) {
			continue
		}

		rg := clockRange{from: "00:00", to: "24:00"}
		if start.After(dayStart) {
			rg.from = start.In(r.location).Format("15:04")
		}
		if end.Before(dayEnd) {
			rg.to = end.In(r.location).Format("15:04")
		}
		ranges = append(ranges, rg)
	}
	return ranges
}

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseInstant accepts ISO-8601 timestamps, with or without offset, and bare
// HH:MM clock times which are taken to be on day. Timestamps without an
// offset are read in the resolver's location.
func (r *Resolver) parseInstant(value string, day time.Time) (time.Time, bool) {
	if reClock.MatchString(value) {
		t, err := time.ParseInLocation(DateLayout+" 15:04", day.Format(DateLayout)+" "+value, r.location)
		return t, err == nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, value, r.location); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
