package notifications

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cabins/pkg/kafka"
	"cabins/pkg/logger"
	"cabins/pkg/model"
	"cabins/pkg/sealer"
)

type mockProducer struct {
	publishFunc func(ctx context.Context, msg kafka.Message) error
	messages    []kafka.Message
	closed      bool
}

func (m *mockProducer) Publish(ctx context.Context, msg kafka.Message) error {
	m.messages = append(m.messages, msg)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, msg)
	}
	return nil
}

func (m *mockProducer) Topic() string { return "booking-events" }

func (m *mockProducer) Close() error {
	m.closed = true
	return nil
}

type capturedRequest struct {
	body   []byte
	header http.Header
}

type cabinMap map[string]model.Resource

func (c cabinMap) Get(id string) (model.Resource, bool) {
	r, ok := c[id]
	return r, ok
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := &mockProducer{}
	pub := NewKafkaPublisher(producer, "cabins-api")

	event := NewEvent(EventNewBooking, *testBooking())
	event.RequestID = "req-1"
	if err := pub.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(producer.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(producer.messages))
	}
	msg := producer.messages[0]
	if msg.Key != "lying-1" {
		t.Errorf("key = %q, want cabin id", msg.Key)
	}
	if got := msg.GetEventType(); got != EventNewBooking {
		t.Errorf("event type header = %q", got)
	}
	if got := msg.GetEventID(); got != event.ID {
		t.Errorf("event id header = %q, want %q", got, event.ID)
	}
	if got := msg.GetCorrelationID(); got != "req-1" {
		t.Errorf("correlation id = %q", got)
	}
	if got := msg.Headers[kafka.HeaderSource]; got != "cabins-api" {
		t.Errorf("source = %q", got)
	}

	decoded, err := DecodeEvent(msg.Value)
	if err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if decoded.Booking.Time != "10:15" {
		t.Errorf("payload time = %q", decoded.Booking.Time)
	}
}

func TestRelay_ClosesKafkaPublisher(t *testing.T) {
	producer := &mockProducer{}
	r := NewRelay(NewKafkaPublisher(producer, "cabins-api"), time.Second, logger.Discard())

	r.Notify(context.Background(), EventNewBooking, testBooking())
	closeRelay(t, r)

	if len(producer.messages) != 1 {
		t.Errorf("expected in-flight event to be published before close, got %d", len(producer.messages))
	}
	if !producer.closed {
		t.Error("producer not closed")
	}
}

func TestKafkaPublisher_PropagatesFailure(t *testing.T) {
	producer := &mockProducer{publishFunc: func(context.Context, kafka.Message) error {
		return errors.New("leader not available")
	}}
	pub := NewKafkaPublisher(producer, "cabins-api")

	if err := pub.Publish(context.Background(), NewEvent(EventNewBooking, *testBooking())); err == nil {
		t.Fatal("expected error")
	}
}

func TestWebhookPublisher(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		status     int
		noEndpoint bool
		wantErr    error
		wantFail   bool
	}{
		{name: "signed delivery", secret: "s3cret", status: http.StatusOK},
		{name: "unsigned delivery", status: http.StatusNoContent},
		{name: "receiver error", status: http.StatusInternalServerError, wantFail: true},
		{name: "cabin without endpoint", noEndpoint: true, wantErr: ErrSkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := make(chan capturedRequest, 1)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				requests <- capturedRequest{body: body, header: r.Header.Clone()}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			cabin := model.Resource{ID: "lying-1"}
			if !tt.noEndpoint {
				cabin.NotificationEndpoint = server.URL + "/hooks/bookings"
			}
			pub := NewWebhookPublisher(cabinMap{"lying-1": cabin}, time.Second, tt.secret)

			event := NewEvent(EventCancelBooking, *testBooking())
			err := pub.Publish(context.Background(), event)

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if len(requests) != 0 {
					t.Error("expected no request")
				}
				return
			case tt.wantFail:
				if err == nil {
					t.Fatal("expected error")
				}
				return
			case err != nil:
				t.Fatalf("unexpected error: %v", err)
			}

			got := <-requests
			gotBody, gotHeader := got.body, got.header

			if gotHeader.Get(HeaderEventType) != EventCancelBooking {
				t.Errorf("event type header = %q", gotHeader.Get(HeaderEventType))
			}
			sig := gotHeader.Get(sealer.SignatureHeader)
			if tt.secret == "" {
				if sig != "" {
					t.Errorf("unexpected signature %q", sig)
				}
			} else if err := sealer.Verify([]byte(tt.secret), gotBody, sig); err != nil {
				t.Errorf("signature does not verify: %v", err)
			}
			if _, err := DecodeEvent(gotBody); err != nil {
				t.Errorf("body is not an event: %v", err)
			}
		})
	}
}

func TestWebhookPublisher_UnknownCabinSkipped(t *testing.T) {
	pub := NewWebhookPublisher(cabinMap{}, time.Second, "")
	if err := pub.Publish(context.Background(), NewEvent(EventNewBooking, *testBooking())); !errors.Is(err, ErrSkipped) {
		t.Errorf("expected ErrSkipped, got %v", err)
	}
}

func TestDeliveryHandler(t *testing.T) {
	valid, _ := NewEvent(EventNewBooking, *testBooking()).Encode()

	tests := []struct {
		name          string
		value         []byte
		publishErr    error
		wantPermanent bool
		wantCalls     int
	}{
		{name: "delivered", value: valid, wantCalls: 1},
		{name: "skipped", value: valid, publishErr: ErrSkipped, wantCalls: 1},
		{name: "delivery failure is not retried", value: valid, publishErr: errors.New("503"), wantCalls: 1},
		{name: "garbage goes to dlq", value: []byte("not-json"), wantPermanent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &mockPublisher{publishFunc: func(context.Context, Event) error { return tt.publishErr }}
			handler := NewDeliveryHandler(pub, logger.Discard())

			err := handler(context.Background(), kafka.Message{Key: "lying-1", Value: tt.value, Headers: map[string]string{}})

			if tt.wantPermanent {
				if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
					t.Errorf("expected permanent error, got %v", err)
				}
			} else if err != nil {
				t.Errorf("expected nil, got %v", err)
			}
			if n := len(pub.received()); n != tt.wantCalls {
				t.Errorf("publish calls = %d, want %d", n, tt.wantCalls)
			}
		})
	}
}
