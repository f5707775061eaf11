package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOutcome(t *testing.T) {
	if got := Outcome(nil); got != StatusSuccess {
		t.Errorf("Outcome(nil) = %q", got)
	}
	if got := Outcome(errors.New("boom")); got != StatusFailure {
		t.Errorf("Outcome(err) = %q", got)
	}
}

func TestRecordBookingCreated(t *testing.T) {
	before := testutil.ToFloat64(BookingsCreated.WithLabelValues("metrics-test"))
	RecordBookingCreated("metrics-test")
	after := testutil.ToFloat64(BookingsCreated.WithLabelValues("metrics-test"))

	if after-before != 1 {
		t.Errorf("expected counter to increase by 1, got %v", after-before)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	RecordRejection("SLOT_UNAVAILABLE")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cabins_booking_rejections_total") {
		t.Error("expected rejection counter in scrape output")
	}
}
