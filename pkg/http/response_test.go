package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "cabins/pkg/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantStatus     int
		wantCode       string
		wantRetryAfter string
	}{
		{"timeout advertises retry", apperrors.Timeout("slow", nil), http.StatusGatewayTimeout, apperrors.CodeTimeout, RetryAfterSeconds},
		{"lookup failure advertises retry", apperrors.AvailabilityLookup(errors.New("down")), http.StatusBadGateway, apperrors.CodeAvailabilityLookup, RetryAfterSeconds},
		{"slot conflict needs refresh", apperrors.SlotConflict("taken"), http.StatusConflict, apperrors.CodeSlotConflict, ""},
		{"rejection", apperrors.SlotUnavailable("taken"), http.StatusConflict, apperrors.CodeSlotUnavailable, ""},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperrors.CodeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := WriteError(rec, tt.err); err != nil {
				t.Fatalf("WriteError: %v", err)
			}

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := rec.Header().Get("Retry-After"); got != tt.wantRetryAfter {
				t.Errorf("expected Retry-After %q, got %q", tt.wantRetryAfter, got)
			}

			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, body.Code)
			}
		})
	}
}

func TestWriteError_SlotConflictCarriesRefreshHint(t *testing.T) {
	rec := httptest.NewRecorder()
	_ = WriteError(rec, apperrors.SlotConflict("taken"))

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Details["refresh_availability"] != true {
		t.Errorf("expected refresh_availability detail, got %v", body.Details)
	}
}
