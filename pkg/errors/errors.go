package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Validation rejections are user-correctable and surfaced verbatim.
// Operational failures are surfaced with a generic message and logged with
// the cause.
const (
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeUnknownResource     = "UNKNOWN_RESOURCE"
	CodeIncompleteSelection = "INCOMPLETE_SELECTION"
	CodeSlotUnavailable     = "SLOT_UNAVAILABLE"

	CodeAvailabilityLookup = "AVAILABILITY_LOOKUP_FAILED"
	CodePersistence        = "PERSISTENCE_ERROR"
	CodeSlotConflict       = "SLOT_CONFLICT"
	CodeNotFound           = "NOT_FOUND"
	CodeTimeout            = "TIMEOUT"

	CodeForbidden    = "FORBIDDEN"
	CodeInvalidInput = "INVALID_INPUT"
	CodeInternal     = "INTERNAL_ERROR"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

// Transient reports whether the caller may retry the same request unchanged.
// A slot conflict is not transient: availability must be refreshed first.
func (e *AppError) Transient() bool {
	switch e.Code {
	case CodeTimeout, CodeAvailabilityLookup, CodePersistence:
		return true
	}
	return false
}

func (e *AppError) ToJSON() []byte {
	response := ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
	data, _ := json.Marshal(response)
	return data
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func Unauthenticated(message string) *AppError {
	return New(CodeUnauthenticated, message, http.StatusUnauthorized)
}

func UnknownResource(id string) *AppError {
	return &AppError{
		Code:       CodeUnknownResource,
		Message:    fmt.Sprintf("Unknown cabin %q", id),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"cabin_id": id},
	}
}

func IncompleteSelection(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeIncompleteSelection,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func SlotUnavailable(message string) *AppError {
	return New(CodeSlotUnavailable, message, http.StatusConflict)
}

func AvailabilityLookup(err error) *AppError {
	return Wrap(err, CodeAvailabilityLookup, "Availability is temporarily unavailable, please try again", http.StatusBadGateway)
}

func Persistence(message string, err error) *AppError {
	return Wrap(err, CodePersistence, message, http.StatusInternalServerError)
}

// SlotConflict signals that a concurrent writer took the slot first; the
// caller must refresh availability before another attempt.
func SlotConflict(message string) *AppError {
	return &AppError{
		Code:       CodeSlotConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"refresh_availability": true},
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Timeout(message string, err error) *AppError {
	return Wrap(err, CodeTimeout, message, http.StatusGatewayTimeout)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}

func Internal(message string, err error) *AppError {
	return Wrap(err, CodeInternal, message, http.StatusInternalServerError)
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
