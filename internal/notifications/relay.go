package notifications

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"cabins/pkg/logger"
	"cabins/pkg/metrics"
	"cabins/pkg/middleware"
	"cabins/pkg/model"
)

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Name() string
}

// Relay delivers booking events off the request path. Delivery is attempted
// once; the outcome is logged and counted but never reported to the caller.
type Relay struct {
	publisher Publisher
	timeout   time.Duration
	log       *logger.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewRelay(publisher Publisher, timeout time.Duration, log *logger.Logger) *Relay {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Relay{
		publisher: publisher,
		timeout:   timeout,
		log:       log.With("publisher", publisher.Name()),
	}
}

// Notify returns immediately. The booking is copied, so the caller may keep
// using it.
func (r *Relay) Notify(ctx context.Context, eventType string, booking *model.Booking) {
	event := NewEvent(eventType, *booking)
	event.RequestID = middleware.RequestIDFromContext(ctx)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.log.Warn("Relay closed, dropping notification", "event_type", eventType, "booking_id", booking.ID)
		metrics.RecordNotification(eventType, metrics.StatusSkipped)
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		r.deliver(context.WithoutCancel(ctx), event)
	}()
}

func (r *Relay) deliver(ctx context.Context, event Event) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.publisher.Publish(ctx, event)
	switch {
	case err == nil:
		metrics.RecordNotification(event.Type, metrics.StatusSuccess)
		r.log.Debug("Notification delivered",
			"event_id", event.ID,
			"event_type", event.Type,
			"booking_id", event.Booking.ID,
		)
	case errors.Is(err, ErrSkipped):
		metrics.RecordNotification(event.Type, metrics.StatusSkipped)
	default:
		metrics.RecordNotification(event.Type, metrics.StatusFailure)
		r.log.Warn("Notification delivery failed",
			"event_id", event.ID,
			"event_type", event.Type,
			"booking_id", event.Booking.ID,
			"cabin_id", event.Booking.CabinID,
			"error", err,
		)
	}
}

// Close stops accepting events, waits for in-flight deliveries or ctx, then
// closes the publisher if it holds resources.
func (r *Relay) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if closer, ok := r.publisher.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return ErrSkipped }

func (NopPublisher) Name() string { return "none" }
