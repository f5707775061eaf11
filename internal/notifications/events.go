package notifications

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cabins/pkg/model"

	"github.com/google/uuid"
)

const (
	EventNewBooking    = "new_booking"
	EventCancelBooking = "cancel_booking"

	SchemaVersion = "1"
)

var (
	// ErrSkipped means the event had nowhere to go. It is not a failure.
	ErrSkipped = errors.New("notification skipped")

	ErrUnknownEvent = errors.New("unknown event type")
)

// Event is what subscribers receive after a booking is committed or cancelled.
type Event struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	Booking    model.Booking `json:"booking"`
	OccurredAt time.Time     `json:"occurred_at"`
	RequestID  string        `json:"request_id,omitempty"`
}

func NewEvent(eventType string, booking model.Booking) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Booking:    booking,
		OccurredAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}

	switch event.Type {
	case EventNewBooking, EventCancelBooking:
	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}
	if event.Booking.CabinID == "" {
		return Event{}, fmt.Errorf("decode event: booking has no cabin_id")
	}
	return event, nil
}
