package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeInvalidInput, "bad date", http.StatusBadRequest)

	if err.Code != CodeInvalidInput {
		t.Errorf("expected code %s, got %s", CodeInvalidInput, err.Code)
	}
	if err.Message != "bad date" {
		t.Errorf("expected message 'bad date', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "Booking not found",
			},
			expected: "NOT_FOUND: Booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodePersistence,
				Message: "Failed to create booking",
				Err:     errors.New("connection reset"),
			},
			expected: "PERSISTENCE_ERROR: Failed to create booking (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Persistence("wrapped", originalErr)

	if !errors.Is(appErr, originalErr) {
		t.Errorf("errors.Is should find the original error")
	}
}

func TestTaxonomyStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"unauthenticated", Unauthenticated("sign in"), CodeUnauthenticated, http.StatusUnauthorized},
		{"unknown resource", UnknownResource("sauna-9"), CodeUnknownResource, http.StatusNotFound},
		{"incomplete selection", IncompleteSelection("pick a time", nil), CodeIncompleteSelection, http.StatusUnprocessableEntity},
		{"slot unavailable", SlotUnavailable("taken"), CodeSlotUnavailable, http.StatusConflict},
		{"lookup", AvailabilityLookup(errors.New("boom")), CodeAvailabilityLookup, http.StatusBadGateway},
		{"persistence", Persistence("db", errors.New("boom")), CodePersistence, http.StatusInternalServerError},
		{"conflict", SlotConflict("raced"), CodeSlotConflict, http.StatusConflict},
		{"not found", NotFoundWithID("Booking", "abc"), CodeNotFound, http.StatusNotFound},
		{"timeout", Timeout("slow", nil), CodeTimeout, http.StatusGatewayTimeout},
		{"forbidden", Forbidden("not yours"), CodeForbidden, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.status)
			}
		})
	}
}

func TestSlotConflict_AsksForRefresh(t *testing.T) {
	err := SlotConflict("slot was taken")

	if err.Details["refresh_availability"] != true {
		t.Errorf("expected refresh_availability detail, got %v", err.Details)
	}
	if err.Transient() {
		t.Error("slot conflict must not be retried without refreshing availability")
	}
}

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want bool
	}{
		{"timeout", Timeout("slow", nil), true},
		{"availability lookup", AvailabilityLookup(nil), true},
		{"persistence", Persistence("down", nil), true},
		{"slot conflict", SlotConflict("taken"), false},
		{"slot unavailable", SlotUnavailable("taken"), false},
		{"incomplete selection", IncompleteSelection("missing", nil), false},
		{"forbidden", Forbidden("nope"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Transient(); got != tt.want {
				t.Errorf("Transient() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "12345")

	if err.Details["id"] != "12345" {
		t.Errorf("expected id '12345', got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Booking" {
		t.Errorf("expected resource 'Booking', got %v", err.Details["resource"])
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", SlotUnavailable("taken"))

	got := AsAppError(wrapped)
	if got.Code != CodeSlotUnavailable {
		t.Errorf("expected wrapped AppError to be found, got %s", got.Code)
	}

	plain := AsAppError(errors.New("plain"))
	if plain.Code != CodeInternal {
		t.Errorf("expected plain errors to become internal, got %s", plain.Code)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", SlotConflict("raced"))
	if !HasCode(err, CodeSlotConflict) {
		t.Error("expected HasCode to match wrapped SlotConflict")
	}
	if HasCode(err, CodeNotFound) {
		t.Error("HasCode matched the wrong code")
	}
	if HasCode(errors.New("x"), CodeNotFound) {
		t.Error("HasCode matched a non AppError")
	}
}
