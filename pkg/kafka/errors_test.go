package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"explicit transient", NewTransientError("webhook down", errors.New("x")), ErrorTypeTransient},
		{"explicit permanent", NewPermanentError("bad payload", errors.New("x")), ErrorTypePermanent},
		{"wrapped explicit", fmt.Errorf("outer: %w", NewTransientError("inner", nil)), ErrorTypeTransient},
		{"deadline", fmt.Errorf("send: %w", context.DeadlineExceeded), ErrorTypeTransient},
		{"connection refused", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"unrecognised", errors.New("schema mismatch"), ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := NewTransientError("flaky", nil)

	if !ShouldRetry(transient, 0, 2) {
		t.Error("expected retry below the limit")
	}
	if ShouldRetry(transient, 2, 2) {
		t.Error("expected no retry at the limit")
	}
	if ShouldRetry(NewPermanentError("bad", nil), 0, 2) {
		t.Error("expected no retry for permanent error")
	}
}

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("lying-1").
		WithValue(map[string]string{"type": "new_booking"}).
		WithEventType("new_booking").
		WithSource("bookings").
		Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	if msg.GetEventID() == "" {
		t.Error("expected generated event id")
	}
	if msg.GetEventType() != "new_booking" {
		t.Errorf("event type = %q", msg.GetEventType())
	}
	if msg.Headers[HeaderTimestamp] == "" {
		t.Error("expected timestamp header")
	}

	var decoded map[string]string
	if err := msg.DecodeValue(&decoded); err != nil || decoded["type"] != "new_booking" {
		t.Errorf("DecodeValue() = %v, %v", decoded, err)
	}
}

func TestMessageBuilder_EncodeError(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	if err == nil {
		t.Fatal("expected encode error")
	}
}

func TestRetryCount(t *testing.T) {
	msg := Message{Headers: map[string]string{}}
	for i := 0; i < 11; i++ {
		msg.IncrementRetryCount()
	}
	if got := msg.GetRetryCount(); got != 11 {
		t.Errorf("GetRetryCount() = %d, want 11", got)
	}
}
