package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrSlotConflict means another confirmed booking already holds the slot.
	ErrSlotConflict = errors.New("slot already booked")
)
