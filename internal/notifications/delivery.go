package notifications

import (
	"context"
	"errors"

	"cabins/pkg/kafka"
	"cabins/pkg/logger"
)

// NewDeliveryHandler forwards events read from Kafka to publisher. Messages
// that cannot be decoded fail permanently and end up on the DLQ; delivery
// failures are logged and the offset moves on.
func NewDeliveryHandler(publisher Publisher, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		event, err := DecodeEvent(msg.Value)
		if err != nil {
			return kafka.NewPermanentError("undecodable booking event", err)
		}

		err = publisher.Publish(ctx, event)
		switch {
		case err == nil:
			log.Info("Booking event delivered",
				"event_id", event.ID,
				"event_type", event.Type,
				"cabin_id", event.Booking.CabinID,
				"publisher", publisher.Name(),
			)
		case errors.Is(err, ErrSkipped):
			log.Debug("No endpoint for booking event", "event_id", event.ID, "cabin_id", event.Booking.CabinID)
		default:
			log.Warn("Booking event delivery failed",
				"event_id", event.ID,
				"event_type", event.Type,
				"cabin_id", event.Booking.CabinID,
				"error", err,
			)
		}
		return nil
	}
}
