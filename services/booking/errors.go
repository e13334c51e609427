package booking

import (
	"errors"
	"fmt"
)

// NotFoundError reports an unknown booking, technician, or service.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InsufficientStaffError reports that fewer technicians were free than the
// service requires. Allocation performed no mutation.
type InsufficientStaffError struct {
	Needed    int
	Available int
}

func (e *InsufficientStaffError) Error() string {
	return fmt.Sprintf("insufficient staff: need %d technicians, %d available", e.Needed, e.Available)
}

// InvalidTransitionError reports a booking status change the ledger does
// not permit.
type InvalidTransitionError struct {
	BookingID string
	From      string
	To        string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("booking %s cannot move from %s to %s", e.BookingID, e.From, e.To)
}

var (
	// ErrInvalidCode signals a completion code mismatch.
	ErrInvalidCode = errors.New("invalid completion code")
	// ErrCodeExpired signals the code's validity window has passed.
	ErrCodeExpired = errors.New("completion code expired")
	// ErrCodeAlreadyUsed signals the single-use code was spent earlier.
	ErrCodeAlreadyUsed = errors.New("completion code already used")
	// ErrCodeNotIssued signals that no code exists for the booking.
	ErrCodeNotIssued = errors.New("no completion code issued for booking")

	// ErrNotAssigned signals the acting technician is not on the booking.
	ErrNotAssigned = errors.New("technician not assigned to this booking")

	// ErrAllocationContention signals repeated lock or re-check conflicts.
	// The request is safe to retry.
	ErrAllocationContention = errors.New("allocation contention, please retry")
)
