package notifications

import (
	"context"
	"fmt"

	"cabins/pkg/kafka"
)

type EventProducer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Topic() string
	Close() error
}

// KafkaPublisher keys messages by cabin so events for one cabin stay ordered.
type KafkaPublisher struct {
	producer EventProducer
	source   string
}

func NewKafkaPublisher(producer EventProducer, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source}
}

func (p *KafkaPublisher) Name() string {
	return "kafka:" + p.producer.Topic()
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := kafka.NewMessage().
		WithKey(event.Booking.CabinID).
		WithValue(event).
		WithHeader(kafka.HeaderEventID, event.ID).
		WithEventType(event.Type).
		WithCorrelationID(event.RequestID).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		Build()
	if err != nil {
		return fmt.Errorf("build %s message: %w", event.Type, err)
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", event.Type, p.producer.Topic(), err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
