package service

import (
	"context"
	"errors"

	"cabins/internal/availability"
	bookingserrors "cabins/internal/bookings/errors"
	"cabins/internal/bookings/repository"
	"cabins/internal/bookings/validator"
	"cabins/internal/notifications"
	apperrors "cabins/pkg/errors"
	"cabins/pkg/logger"
	"cabins/pkg/metrics"
	"cabins/pkg/model"
	"cabins/pkg/sanitizer"
)

type BookingService interface {
	ListCabins(ctx context.Context) []model.Resource
	GetAvailability(ctx context.Context, cabinID, date string) (*model.Availability, error)
	Submit(ctx context.Context, identity model.Identity, req *model.BookingRequest) (*model.Booking, error)
	ListMine(ctx context.Context, identity model.Identity) ([]*model.Booking, error)
	Cancel(ctx context.Context, identity model.Identity, id string) error
}

type Catalog interface {
	Get(id string) (model.Resource, bool)
	List() []model.Resource
}

type AvailabilityResolver interface {
	Resolve(ctx context.Context, cabinID, date string) ([]model.TimeSlot, error)
}

type BookingValidator interface {
	Validate(ctx context.Context, identity model.Identity, req *model.BookingRequest) error
}

type Notifier interface {
	Notify(ctx context.Context, eventType string, booking *model.Booking)
}

type bookingService struct {
	repo      repository.BookingRepository
	catalog   Catalog
	resolver  AvailabilityResolver
	validator BookingValidator
	notifier  Notifier
	log       *logger.Logger
}

func NewBookingService(
	repo repository.BookingRepository,
	catalog Catalog,
	resolver AvailabilityResolver,
	validator BookingValidator,
	notifier Notifier,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		repo:      repo,
		catalog:   catalog,
		resolver:  resolver,
		validator: validator,
		notifier:  notifier,
		log:       log,
	}
}

func (s *bookingService) ListCabins(ctx context.Context) []model.Resource {
	return s.catalog.List()
}

func (s *bookingService) GetAvailability(ctx context.Context, cabinID, date string) (*model.Availability, error) {
	cabinID = sanitizer.SanitizeIdentifier(cabinID)

	slots, err := s.resolver.Resolve(ctx, cabinID, date)
	if err != nil {
		return nil, s.mapError(err, "cabin_id", cabinID, "date", date)
	}

	return &model.Availability{
		CabinID: cabinID,
		Date:    date,
		Slots:   slots,
	}, nil
}

// Submit validates the selection against fresh availability and stores it.
// A concurrent writer that commits the same slot first turns this call into a
// SLOT_CONFLICT even though validation passed.
func (s *bookingService) Submit(ctx context.Context, identity model.Identity, req *model.BookingRequest) (*model.Booking, error) {
	s.sanitize(req)

	if err := s.validator.Validate(ctx, identity, req); err != nil {
		return nil, s.mapError(err, "cabin_id", req.CabinID, "date", req.Date, "time", req.Time)
	}

	booking := &model.Booking{
		CabinID:   req.CabinID,
		Date:      req.Date,
		Time:      req.Time,
		UserID:    identity.UserID,
		UserEmail: sanitizer.SanitizeEmail(identity.Email),
	}

	if _, err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, bookingserrors.ErrSlotConflict) {
			metrics.RecordBookingConflict(booking.CabinID)
		}
		return nil, s.mapError(err, "cabin_id", booking.CabinID, "date", booking.Date, "time", booking.Time)
	}

	metrics.RecordBookingCreated(booking.CabinID)
	s.log.Info("Booking created",
		"id", booking.ID,
		"cabin_id", booking.CabinID,
		"date", booking.Date,
		"time", booking.Time,
		"user_id", booking.UserID,
	)

	s.notifier.Notify(ctx, notifications.EventNewBooking, booking)
	return booking, nil
}

func (s *bookingService) ListMine(ctx context.Context, identity model.Identity) ([]*model.Booking, error) {
	if identity.IsZero() {
		return nil, apperrors.Unauthenticated("You must be signed in to see your bookings")
	}

	bookings, err := s.repo.ListByUser(ctx, identity.UserID)
	if err != nil {
		return nil, s.mapError(err, "user_id", identity.UserID)
	}
	return bookings, nil
}

func (s *bookingService) Cancel(ctx context.Context, identity model.Identity, id string) error {
	if identity.IsZero() {
		return apperrors.Unauthenticated("You must be signed in to cancel a booking")
	}
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapNotFound(err, id)
	}
	if booking.UserID != identity.UserID {
		s.log.Warn("Cancellation refused for non-owner", "id", id, "user_id", identity.UserID)
		return apperrors.Forbidden("You can only cancel your own bookings")
	}

	changed, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return s.mapNotFound(err, id)
	}
	if !changed {
		s.log.Debug("Booking already cancelled", "id", id)
		return nil
	}

	booking.Status = model.StatusCancelled
	metrics.RecordBookingCancelled(booking.CabinID)
	s.log.Info("Booking cancelled", "id", id, "cabin_id", booking.CabinID, "user_id", identity.UserID)

	s.notifier.Notify(ctx, notifications.EventCancelBooking, booking)
	return nil
}

// --- Helpers ---

func (s *bookingService) sanitize(req *model.BookingRequest) {
	req.CabinID = sanitizer.SanitizeIdentifier(req.CabinID)
	req.Date = sanitizer.SanitizeToken(req.Date)
	req.Time = sanitizer.SanitizeToken(req.Time)
}

func (s *bookingService) mapNotFound(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.NotFoundWithID("booking", id)
	}
	return s.mapError(err, "id", id)
}

// mapError turns domain failures into AppErrors. Rejections are shown to the
// user as-is; operational failures are logged with their cause.
func (s *bookingService) mapError(err error, attrs ...any) error {
	cabinID := attrValue(attrs, "cabin_id")

	var rejection *validator.Rejection
	if errors.As(err, &rejection) {
		metrics.RecordRejection(rejection.Reason)
		s.log.Info("Booking rejected", append(attrs, "reason", rejection.Reason)...)
		return rejectionToAppError(rejection, cabinID)
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, availability.ErrUnknownCabin):
		return apperrors.UnknownResource(cabinID)
	case errors.Is(err, availability.ErrInvalidDate):
		return apperrors.InvalidInput("Date must be formatted YYYY-MM-DD")
	}

	s.log.Error("Booking operation failed", append(attrs, "error", err)...)

	switch {
	case errors.Is(err, availability.ErrLookupFailed):
		return apperrors.AvailabilityLookup(err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout("The request timed out, please try again", err)
	case errors.Is(err, bookingserrors.ErrSlotConflict):
		return apperrors.SlotConflict("Someone just booked this slot, please pick another time")
	default:
		return apperrors.Persistence("Could not save your booking, please try again", err)
	}
}

func rejectionToAppError(r *validator.Rejection, cabinID string) *apperrors.AppError {
	switch r.Reason {
	case apperrors.CodeUnauthenticated:
		return apperrors.Unauthenticated(r.Message)
	case apperrors.CodeUnknownResource:
		return apperrors.UnknownResource(cabinID)
	case apperrors.CodeIncompleteSelection:
		return apperrors.IncompleteSelection(r.Message, r.Details())
	default:
		return apperrors.SlotUnavailable(r.Message)
	}
}

func attrValue(attrs []any, key string) string {
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i] == key {
			v, _ := attrs[i+1].(string)
			return v
		}
	}
	return ""
}
