package models

import "time"

// Assignment links a booking to one assigned technician. Created exactly
// once per (booking, technician) pair at allocation time; never mutated.
type Assignment struct {
	ID           string    `bson:"id" json:"id"`
	BookingID    string    `bson:"booking_id" json:"booking_id"`
	TechnicianID string    `bson:"technician_id" json:"technician_id"`
	AssignedAt   time.Time `bson:"assigned_at" json:"assigned_at"`
}
