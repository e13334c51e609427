package booking

import (
	"context"
	"sync"
	"time"

	bookingRepo "pestguard/database/repository/booking"
	catalogRepo "pestguard/database/repository/catalog"
	otpRepo "pestguard/database/repository/otp"
	technicianRepo "pestguard/database/repository/technician"
	unavailabilityRepo "pestguard/database/repository/unavailability"
	"pestguard/models"
)

// memStore is a shared in-memory backing store for the fake repositories,
// guarded by one mutex so transactional fakes stay atomic under -race.
type memStore struct {
	mu          sync.Mutex
	technicians map[string]models.Technician
	services    map[string]models.Service
	bookings    map[string]models.Booking
	assignments map[string][]models.Assignment
	intervals   map[string]models.UnavailabilityInterval
	codes       map[string]models.CompletionCode
	payments    []models.Payment
	locks       map[string]bool

	// markUsedErr makes the next MarkUsed call fail.
	markUsedErr error
}

func newMemStore() *memStore {
	return &memStore{
		technicians: make(map[string]models.Technician),
		services:    make(map[string]models.Service),
		bookings:    make(map[string]models.Booking),
		assignments: make(map[string][]models.Assignment),
		intervals:   make(map[string]models.UnavailabilityInterval),
		codes:       make(map[string]models.CompletionCode),
		locks:       make(map[string]bool),
	}
}

func (ms *memStore) blockingIntervals(technicianID string, start, end time.Time) []models.UnavailabilityInterval {
	var out []models.UnavailabilityInterval
	for _, iv := range ms.intervals {
		if iv.TechnicianID == technicianID && iv.Blocks() && iv.Overlaps(start, end) {
			out = append(out, iv)
		}
	}
	return out
}

// --- technician repository fake ---

type fakeTechnicianRepo struct{ store *memStore }

func (r *fakeTechnicianRepo) Create(_ context.Context, t *models.Technician) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.technicians[t.ID] = *t
	return nil
}

func (r *fakeTechnicianRepo) GetByID(_ context.Context, id string) (*models.Technician, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.technicians[id]
	if !ok {
		return nil, technicianRepo.ErrNotFound
	}
	return &t, nil
}

func (r *fakeTechnicianRepo) GetAll(_ context.Context) ([]models.Technician, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]models.Technician, 0, len(r.store.technicians))
	for _, t := range r.store.technicians {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTechnicianRepo) Update(_ context.Context, t *models.Technician) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.technicians[t.ID]; !ok {
		return technicianRepo.ErrNotFound
	}
	r.store.technicians[t.ID] = *t
	return nil
}

func (r *fakeTechnicianRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.technicians, id)
	return nil
}

// --- catalog repository fake ---

type fakeCatalogRepo struct{ store *memStore }

func (r *fakeCatalogRepo) Create(_ context.Context, s *models.Service) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.services[s.ID] = *s
	return nil
}

func (r *fakeCatalogRepo) GetByID(_ context.Context, id string) (*models.Service, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.services[id]
	if !ok {
		return nil, catalogRepo.ErrNotFound
	}
	return &s, nil
}

func (r *fakeCatalogRepo) GetAll(_ context.Context) ([]models.Service, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]models.Service, 0, len(r.store.services))
	for _, s := range r.store.services {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeCatalogRepo) Update(_ context.Context, s *models.Service) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.services[s.ID] = *s
	return nil
}

func (r *fakeCatalogRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.services, id)
	return nil
}

// --- unavailability repository fake ---

type fakeUnavailabilityRepo struct{ store *memStore }

func (r *fakeUnavailabilityRepo) Insert(_ context.Context, iv *models.UnavailabilityInterval) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.intervals[iv.ID] = *iv
	return nil
}

func (r *fakeUnavailabilityRepo) GetByID(_ context.Context, id string) (*models.UnavailabilityInterval, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	iv, ok := r.store.intervals[id]
	if !ok {
		return nil, unavailabilityRepo.ErrNotFound
	}
	return &iv, nil
}

func (r *fakeUnavailabilityRepo) FindOverlapping(_ context.Context, technicianID string, start, end time.Time) ([]models.UnavailabilityInterval, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.UnavailabilityInterval
	for _, iv := range r.store.intervals {
		if iv.TechnicianID == technicianID && iv.Overlaps(start, end) {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (r *fakeUnavailabilityRepo) FindBlocking(_ context.Context, technicianID string, start, end time.Time) ([]models.UnavailabilityInterval, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.blockingIntervals(technicianID, start, end), nil
}

func (r *fakeUnavailabilityRepo) ListByTechnician(_ context.Context, technicianID string, excludeJobs bool) ([]models.UnavailabilityInterval, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.UnavailabilityInterval
	for _, iv := range r.store.intervals {
		if iv.TechnicianID != technicianID {
			continue
		}
		if excludeJobs && iv.Reason == models.UnavailabilityReasonJob {
			continue
		}
		out = append(out, iv)
	}
	return out, nil
}

func (r *fakeUnavailabilityRepo) ListLeavesByStatus(_ context.Context, status string) ([]models.UnavailabilityInterval, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.UnavailabilityInterval
	for _, iv := range r.store.intervals {
		if iv.Reason != models.UnavailabilityReasonJob && iv.Status == status {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (r *fakeUnavailabilityRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	iv, ok := r.store.intervals[id]
	if !ok {
		return unavailabilityRepo.ErrNotFound
	}
	iv.Status = status
	r.store.intervals[id] = iv
	return nil
}

func (r *fakeUnavailabilityRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.intervals[id]; !ok {
		return unavailabilityRepo.ErrNotFound
	}
	delete(r.store.intervals, id)
	return nil
}

// --- lock repository fake ---

type fakeLockRepo struct{ store *memStore }

func (r *fakeLockRepo) Acquire(_ context.Context, key string, _ time.Duration) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.locks[key] {
		return unavailabilityRepo.ErrLockHeld
	}
	r.store.locks[key] = true
	return nil
}

func (r *fakeLockRepo) Release(_ context.Context, key string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.locks, key)
	return nil
}

// --- booking repository fake ---

type fakeBookingRepo struct{ store *memStore }

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	return &b, nil
}

func (r *fakeBookingRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Booking
	for _, b := range r.store.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByTechnician(_ context.Context, technicianID string) ([]models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Booking
	for id, assigns := range r.store.assignments {
		for _, a := range assigns {
			if a.TechnicianID == technicianID {
				if b, ok := r.store.bookings[id]; ok {
					out = append(out, b)
				}
				break
			}
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context) ([]models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]models.Booking, 0, len(r.store.bookings))
	for _, b := range r.store.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	b.Status = status
	r.store.bookings[id] = b
	return nil
}

func (r *fakeBookingRepo) AssignmentsByBooking(_ context.Context, bookingID string) ([]models.Assignment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]models.Assignment(nil), r.store.assignments[bookingID]...), nil
}

func (r *fakeBookingRepo) RecordPayment(_ context.Context, p *models.Payment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.payments = append(r.store.payments, *p)
	return nil
}

func (r *fakeBookingRepo) AllocateTransactionally(_ context.Context, booking *models.Booking, assignments []models.Assignment, jobIntervals []models.UnavailabilityInterval, assignedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, iv := range jobIntervals {
		if len(r.store.blockingIntervals(iv.TechnicianID, iv.Start, iv.End)) > 0 {
			return bookingRepo.ErrTechnicianBusy
		}
	}

	r.store.bookings[booking.ID] = *booking
	r.store.assignments[booking.ID] = append([]models.Assignment(nil), assignments...)
	for _, iv := range jobIntervals {
		r.store.intervals[iv.ID] = iv
	}
	for _, a := range assignments {
		t := r.store.technicians[a.TechnicianID]
		at := assignedAt
		t.LastAssignedAt = &at
		r.store.technicians[a.TechnicianID] = t
	}
	return nil
}

func (r *fakeBookingRepo) ReleaseAllocationTransactionally(_ context.Context, bookingID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.bookings[bookingID]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	b.Status = models.BookingStatusCancelled
	r.store.bookings[bookingID] = b
	for id, iv := range r.store.intervals {
		if iv.BookingID == bookingID && iv.Reason == models.UnavailabilityReasonJob {
			delete(r.store.intervals, id)
		}
	}
	return nil
}

// --- OTP repository fake ---

type fakeOTPRepo struct{ store *memStore }

func (r *fakeOTPRepo) Upsert(_ context.Context, code *models.CompletionCode) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.codes[code.BookingID] = *code
	return nil
}

func (r *fakeOTPRepo) GetByBooking(_ context.Context, bookingID string) (*models.CompletionCode, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	code, ok := r.store.codes[bookingID]
	if !ok {
		return nil, otpRepo.ErrNotFound
	}
	return &code, nil
}

func (r *fakeOTPRepo) MarkUsed(_ context.Context, bookingID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.markUsedErr; err != nil {
		r.store.markUsedErr = nil
		return err
	}
	code, ok := r.store.codes[bookingID]
	if !ok {
		return otpRepo.ErrNotFound
	}
	code.Used = true
	r.store.codes[bookingID] = code
	return nil
}

// newTestEngine wires a booking engine over one shared in-memory store.
func newTestEngine(store *memStore, now time.Time) *DefaultBookingEngine {
	techs := &fakeTechnicianRepo{store: store}
	unavail := &fakeUnavailabilityRepo{store: store}
	return &DefaultBookingEngine{
		Bookings:    &fakeBookingRepo{store: store},
		Locks:       &fakeLockRepo{store: store},
		Technicians: techs,
		Catalog:     &fakeCatalogRepo{store: store},
		Codes:       &fakeOTPRepo{store: store},
		Availability: &AvailabilityIndex{
			Technicians: techs,
			Unavail:     unavail,
		},
		Now: func() time.Time { return now },
	}
}
