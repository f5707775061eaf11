package validator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"cabins/internal/availability"
	apperrors "cabins/pkg/errors"
	"cabins/pkg/logger"
	"cabins/pkg/model"

	"github.com/go-playground/validator/v10"
)

var slotTimeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Rejection is a user-correctable refusal. Reason is one of the apperrors
// codes UNAUTHENTICATED, UNKNOWN_RESOURCE, INCOMPLETE_SELECTION or
// SLOT_UNAVAILABLE.
type Rejection struct {
	Reason  string
	Message string
	Fields  ValidationErrors
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Reason, r.Message)
}

func reject(reason, message string) *Rejection {
	return &Rejection{Reason: reason, Message: message}
}

type AvailabilityReader interface {
	Resolve(ctx context.Context, cabinID, date string) ([]model.TimeSlot, error)
}

type ResourceLookup interface {
	Get(id string) (model.Resource, bool)
}

type BookingValidator struct {
	validate     *validator.Validate
	availability AvailabilityReader
	resources    ResourceLookup
	location     *time.Location
	now          func() time.Time
	logger       *logger.Logger
}

func NewBookingValidator(reader AvailabilityReader, resources ResourceLookup, loc *time.Location, log *logger.Logger) *BookingValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	if err := v.RegisterValidation("booking_date", validateBookingDate); err != nil {
		log.Fatal("Failed to register 'booking_date' validator", "error", err)
	}
	if err := v.RegisterValidation("slot_time", validateSlotTime); err != nil {
		log.Fatal("Failed to register 'slot_time' validator", "error", err)
	}

	return &BookingValidator{
		validate:     v,
		availability: reader,
		resources:    resources,
		location:     loc,
		now:          time.Now,
		logger:       log,
	}
}

// WithClock replaces the time source. Used by tests.
func (v *BookingValidator) WithClock(now func() time.Time) *BookingValidator {
	v.now = now
	return v
}

func validateBookingDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(availability.DateLayout, fl.Field().String())
	return err == nil
}

func validateSlotTime(fl validator.FieldLevel) bool {
	return slotTimeRegex.MatchString(fl.Field().String())
}

// Validate applies the booking rules in order and stops at the first failure.
// It returns nil, a *Rejection, or an operational error from the availability
// lookup, which callers must not present as a rejection.
func (v *BookingValidator) Validate(ctx context.Context, identity model.Identity, req *model.BookingRequest) error {
	if identity.IsZero() {
		return reject(apperrors.CodeUnauthenticated, "You must be signed in to book a cabin")
	}

	if req.CabinID != "" {
		if _, ok := v.resources.Get(req.CabinID); !ok {
			return reject(apperrors.CodeUnknownResource, fmt.Sprintf("Unknown cabin %q", req.CabinID))
		}
	}

	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := v.translateValidationErrors(validationErrs)
			return &Rejection{
				Reason:  apperrors.CodeIncompleteSelection,
				Message: "Please select a cabin, a date and a time",
				Fields:  fields,
			}
		}
		return err
	}

	now := v.now().In(v.location)
	today := now.Format(availability.DateLayout)
	if req.Date < today || (req.Date == today && req.Time <= now.Format("15:04")) {
		return reject(apperrors.CodeSlotUnavailable, "The selected time has already passed")
	}

	slots, err := v.availability.Resolve(ctx, req.CabinID, req.Date)
	if err != nil {
		return err
	}

	for _, slot := range slots {
		if slot.Time == req.Time {
			if slot.Available {
				return nil
			}
			return reject(apperrors.CodeSlotUnavailable, "The selected time is no longer available")
		}
	}

	v.logger.Debug("Requested time is not a generated slot",
		"cabin_id", req.CabinID,
		"date", req.Date,
		"time", req.Time,
	)
	return reject(apperrors.CodeSlotUnavailable, "The selected time is not a bookable slot")
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "booking_date":
			message = fmt.Sprintf("%s must be a date formatted YYYY-MM-DD", err.Field())
		case "slot_time":
			message = fmt.Sprintf("%s must be a time formatted HH:MM", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}

func (r *Rejection) Details() map[string]any {
	if len(r.Fields) == 0 {
		return nil
	}
	fields := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		fields[f.Field] = f.Message
	}
	return map[string]any{"fields": fields}
}
