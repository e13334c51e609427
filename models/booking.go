package models

import "time"

// Booking lifecycle statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking represents a customer's service booking.
type Booking struct {
	ID           string    `bson:"id" json:"id"`
	UserID       string    `bson:"user_id" json:"user_id"`
	ServiceID    string    `bson:"service_id" json:"service_id"`
	BookingDate  time.Time `bson:"booking_date" json:"booking_date"`
	Location     GeoPoint  `bson:"location" json:"location"`
	Requirements string    `bson:"requirements" json:"requirements"`
	Status       string    `bson:"status" json:"status"`
	Feedback     string    `bson:"feedback,omitempty" json:"feedback,omitempty"` // set later by an external collaborator
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
