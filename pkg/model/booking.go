package model

import (
	"time"
)

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking is a reservation of one slot on one cabin. Date and Time are
// wall-clock values in the service's configured time zone.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	CabinID   string    `json:"cabin_id" bson:"cabin_id"`
	Date      string    `json:"date" bson:"date"`
	Time      string    `json:"time" bson:"time"`
	UserID    string    `json:"user_id" bson:"user_id"`
	UserEmail string    `json:"user_email" bson:"user_email"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// BookingRequest is the user's selection as submitted to the service.
type BookingRequest struct {
	CabinID string `json:"cabin_id" validate:"required"`
	Date    string `json:"date" validate:"required,booking_date"`
	Time    string `json:"time" validate:"required,slot_time"`
}
