package models

import "time"

// Payment records a captured payment for a booking, as reported by the
// payment collaborator. Capturing itself happens outside this system.
type Payment struct {
	ID        string    `bson:"id" json:"id"`
	BookingID string    `bson:"booking_id" json:"booking_id"`
	PaymentID string    `bson:"payment_id" json:"payment_id"` // gateway-side identifier
	Amount    float64   `bson:"amount" json:"amount"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
