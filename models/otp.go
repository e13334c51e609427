package models

import "time"

// CompletionCode is the one-time code a technician relays on-site to prove
// a visit happened. One active code per booking; single use; time-boxed.
type CompletionCode struct {
	BookingID string    `bson:"booking_id" json:"booking_id"`
	Code      string    `bson:"code" json:"-"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	Used      bool      `bson:"used" json:"used"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
