package notifications

import (
	"context"
	"fmt"
	"time"

	"cabins/pkg/client"
	"cabins/pkg/model"
	"cabins/pkg/sealer"
)

const (
	HeaderEventType = "X-Event-Type"
	HeaderEventID   = "X-Event-ID"
)

type EndpointLookup interface {
	Get(id string) (model.Resource, bool)
}

// WebhookPublisher posts events to the cabin's own notification endpoint.
type WebhookPublisher struct {
	cabins EndpointLookup
	client *client.HttpClient
	secret []byte
}

func NewWebhookPublisher(cabins EndpointLookup, timeout time.Duration, secret string) *WebhookPublisher {
	p := &WebhookPublisher{
		cabins: cabins,
		client: client.NewHttpClientWithTimeout("", timeout),
	}
	if secret != "" {
		p.secret = []byte(secret)
	}
	return p
}

func (p *WebhookPublisher) Name() string {
	return "webhook"
}

func (p *WebhookPublisher) Publish(ctx context.Context, event Event) error {
	cabin, ok := p.cabins.Get(event.Booking.CabinID)
	if !ok || cabin.NotificationEndpoint == "" {
		return ErrSkipped
	}

	body, err := event.Encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.Type, err)
	}

	headers := map[string]string{
		HeaderEventType: event.Type,
		HeaderEventID:   event.ID,
	}
	if p.secret != nil {
		headers[sealer.SignatureHeader] = sealer.Sign(p.secret, body)
	}

	resp, err := p.client.POSTRaw(ctx, cabin.NotificationEndpoint, body, headers)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", cabin.ID, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("webhook %s: unexpected status %d", cabin.ID, resp.StatusCode)
	}
	return nil
}
