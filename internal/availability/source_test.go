package availability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cabins/pkg/logger"
	"cabins/pkg/model"
)

func TestHTTPBusySource(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    int
		wantErr bool
	}{
		{"busy intervals", http.StatusOK, `{"busyIntervals":[{"start":"2025-06-01T10:00:00Z","end":"2025-06-01T10:30:00Z"}]}`, 1, false},
		{"legacy booked times", http.StatusOK, `{"bookedTimes":[{"start":"10:00","end":"10:30"},{"start":"12:00","end":"12:15"}]}`, 2, false},
		{"mixed valid and malformed entries", http.StatusOK, `{"busyIntervals":[{"start":"2025-06-01T10:00:00Z","end":"2025-06-01T10:30:00Z"},{"start":null,"end":12345},"10:45",{"start":"2025-06-01T11:00:00Z","end":"2025-06-01T11:15:00Z"}]}`, 2, false},
		{"only malformed entries", http.StatusOK, `{"bookedTimes":[42,{"start":true}]}`, 0, false},
		{"empty list", http.StatusOK, `{"busyIntervals":[]}`, 0, false},
		{"absent list", http.StatusOK, `{}`, 0, false},
		{"empty body", http.StatusOK, ``, 0, false},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, 0, true},
		{"not found", http.StatusNotFound, ``, 0, true},
		{"garbage", http.StatusOK, `<html>`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received busyRequest
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				_ = json.NewDecoder(r.Body).Decode(&received)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			src := NewHTTPBusySource(time.Second, logger.Discard())
			cabin := model.Resource{ID: "lying-1", AvailabilityEndpoint: server.URL + "/busy"}

			got, err := src.BusyIntervals(context.Background(), cabin, "2025-06-01")
			if tt.wantErr {
				if !errors.Is(err, ErrLookupFailed) {
					t.Fatalf("expected ErrLookupFailed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("expected %d intervals, got %d", tt.want, len(got))
			}
			if received.CabinID != "lying-1" || received.Date != "2025-06-01" {
				t.Errorf("unexpected request body: %+v", received)
			}
		})
	}
}

func TestHTTPBusySource_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	src := NewHTTPBusySource(time.Second, logger.Discard())
	_, err := src.BusyIntervals(context.Background(), model.Resource{ID: "lying-1", AvailabilityEndpoint: url}, "2025-06-01")

	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) || lookupErr.CabinID != "lying-1" {
		t.Fatalf("expected LookupError for lying-1, got %v", err)
	}
}

func TestHTTPBusySource_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	src := NewHTTPBusySource(20*time.Millisecond, logger.Discard())
	_, err := src.BusyIntervals(context.Background(), model.Resource{ID: "lying-1", AvailabilityEndpoint: server.URL}, "2025-06-01")
	if !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("expected ErrLookupFailed on timeout, got %v", err)
	}
}

func TestHTTPBusySource_NoEndpoint(t *testing.T) {
	src := NewHTTPBusySource(time.Second, logger.Discard())
	got, err := src.BusyIntervals(context.Background(), model.Resource{ID: "lying-1"}, "2025-06-01")
	if err != nil || got != nil {
		t.Errorf("expected nil, nil; got %v, %v", got, err)
	}
}

type mockLister struct {
	listFunc func(ctx context.Context, cabinID, date string) ([]*model.Booking, error)
}

func (m *mockLister) ListConfirmed(ctx context.Context, cabinID, date string) ([]*model.Booking, error) {
	return m.listFunc(ctx, cabinID, date)
}

func TestBookingBusySource(t *testing.T) {
	loc := amsterdam(t)
	lister := &mockLister{listFunc: func(_ context.Context, cabinID, date string) ([]*model.Booking, error) {
		return []*model.Booking{
			{CabinID: cabinID, Date: date, Time: "10:15", Status: model.StatusConfirmed},
		}, nil
	}}

	src := NewBookingBusySource(lister, loc, 15)
	got, err := src.BusyIntervals(context.Background(), model.Resource{ID: "lying-1"}, "2025-06-01")
	if err != nil {
		t.Fatal(err)
	}

	want := []model.BusyInterval{{Start: "2025-06-01T10:15:00+02:00", End: "2025-06-01T10:30:00+02:00"}}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestBookingBusySource_StoreFailure(t *testing.T) {
	lister := &mockLister{listFunc: func(context.Context, string, string) ([]*model.Booking, error) {
		return nil, errors.New("mongo down")
	}}

	src := NewBookingBusySource(lister, time.UTC, 15)
	if _, err := src.BusyIntervals(context.Background(), model.Resource{ID: "lying-1"}, "2025-06-01"); !errors.Is(err, ErrLookupFailed) {
		t.Errorf("expected ErrLookupFailed, got %v", err)
	}
}

func TestMultiSource(t *testing.T) {
	a := staticSource(model.BusyInterval{Start: "10:00", End: "10:15"})
	b := staticSource(model.BusyInterval{Start: "11:00", End: "11:15"})

	got, err := MultiSource{a, b}.BusyIntervals(context.Background(), model.Resource{ID: "x"}, "2025-06-01")
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 intervals, got %v, %v", got, err)
	}

	failing := &mockSource{busyFunc: func(context.Context, model.Resource, string) ([]model.BusyInterval, error) {
		return nil, &LookupError{Err: errors.New("down")}
	}}
	if _, err := (MultiSource{a, failing}).BusyIntervals(context.Background(), model.Resource{ID: "x"}, "2025-06-01"); !errors.Is(err, ErrLookupFailed) {
		t.Errorf("expected ErrLookupFailed, got %v", err)
	}
}

func TestRoundTrip_BookingBecomesUnavailable(t *testing.T) {
	booked := []*model.Booking{}
	lister := &mockLister{listFunc: func(context.Context, string, string) ([]*model.Booking, error) {
		return booked, nil
	}}
	r := newTestResolver(t, NewBookingBusySource(lister, amsterdam(t), 15))

	before, _ := r.Resolve(context.Background(), "lying-1", "2025-06-01")
	if !availability(before)["10:15"] {
		t.Fatal("10:15 should start available")
	}

	booked = append(booked, &model.Booking{CabinID: "lying-1", Date: "2025-06-01", Time: "10:15", Status: model.StatusConfirmed})

	after, _ := r.Resolve(context.Background(), "lying-1", "2025-06-01")
	got := availability(after)
	if got["10:15"] {
		t.Error("booked slot should be unavailable")
	}
	if !got["10:00"] || !got["10:30"] {
		t.Error("a booking occupies exactly one slot")
	}
}

func TestHTTPBusySource_SkipsMalformedEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"busyIntervals":[{"start":"2025-06-01T10:00:00Z","end":"2025-06-01T10:30:00Z"},{"start":null,"end":12345}]}`))
	}))
	defer server.Close()

	src := NewHTTPBusySource(time.Second, logger.Discard())
	got, err := src.BusyIntervals(context.Background(), model.Resource{ID: "lying-1", AvailabilityEndpoint: server.URL}, "2025-06-01")
	if err != nil {
		t.Fatalf("malformed entry should not fail the lookup: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected the valid interval only, got %+v", got)
	}
	if got[0].Start != "2025-06-01T10:00:00Z" || got[0].End != "2025-06-01T10:30:00Z" {
		t.Errorf("unexpected interval kept: %+v", got[0])
	}
}
