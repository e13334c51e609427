package models

import "time"

// Unavailability reasons and statuses. A job interval is auto-approved and
// is what blocks a committed technician from further allocation; any other
// reason is a technician-initiated leave that needs an admin decision.
const (
	UnavailabilityReasonJob = "job"

	UnavailabilityStatusPending  = "pending"
	UnavailabilityStatusApproved = "approved"
	UnavailabilityStatusRejected = "rejected"
)

// UnavailabilityInterval is a half-open [Start, End) time block during which
// a technician cannot take new work.
type UnavailabilityInterval struct {
	ID           string    `bson:"id" json:"id"`
	TechnicianID string    `bson:"technician_id" json:"technician_id"`
	Start        time.Time `bson:"start" json:"start"`
	End          time.Time `bson:"end" json:"end"`
	Reason       string    `bson:"reason" json:"reason"`
	Status       string    `bson:"status" json:"status"`
	BookingID    string    `bson:"booking_id,omitempty" json:"booking_id,omitempty"` // set for job intervals so cancellation can release them
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// Blocks reports whether the interval currently prevents new allocation.
func (iv UnavailabilityInterval) Blocks() bool {
	return iv.Reason == UnavailabilityReasonJob || iv.Status == UnavailabilityStatusApproved
}

// Overlaps applies the half-open overlap test, so back-to-back intervals do
// not conflict.
func (iv UnavailabilityInterval) Overlaps(start, end time.Time) bool {
	return iv.Start.Before(end) && iv.End.After(start)
}
