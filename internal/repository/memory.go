package repository

import (
	"context"
	"sync"

	"github.com/Domenick1991/opdqueue/internal/domain"
)

// MemoryStore keeps every collection in insertion order behind one RWMutex.
type MemoryStore struct {
	mu        sync.RWMutex
	doctors   []domain.Doctor
	bookings  []domain.Booking
	inquiries []domain.ContactInquiry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Doctors() DoctorRepository { return memoryDoctors{s} }
func (s *MemoryStore) Bookings() BookingRepository { return memoryBookings{s} }
func (s *MemoryStore) Inquiries() InquiryRepository { return memoryInquiries{s} }

func (s *MemoryStore) ResetAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctors = nil
	s.bookings = nil
	s.inquiries = nil
	return nil
}

type memoryDoctors struct{ s *MemoryStore }

func (r memoryDoctors) List(_ context.Context) ([]domain.Doctor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Doctor, len(r.s.doctors))
	copy(out, r.s.doctors)
	return out, nil
}

func (r memoryDoctors) GetByID(_ context.Context, id string) (*domain.Doctor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, d := range r.s.doctors {
		if d.ID == id {
			d := d
			return &d, nil
		}
	}
	return nil, domain.ErrDoctorNotFound
}

func (r memoryDoctors) Save(_ context.Context, doctor *domain.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.doctors {
		if r.s.doctors[i].ID == doctor.ID {
			r.s.doctors[i] = *doctor
			return nil
		}
	}
	r.s.doctors = append(r.s.doctors, *doctor)
	return nil
}

func (r memoryDoctors) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.doctors {
		if r.s.doctors[i].ID == id {
			r.s.doctors = append(r.s.doctors[:i], r.s.doctors[i+1:]...)
			return nil
		}
	}
	return domain.ErrDoctorNotFound
}

type memoryBookings struct{ s *MemoryStore }

func (r memoryBookings) List(_ context.Context, filter BookingFilter) ([]domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Booking, 0, len(r.s.bookings))
	for _, b := range r.s.bookings {
		if filter.Match(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r memoryBookings) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, b := range r.s.bookings {
		if b.ID == id {
			b := b
			return &b, nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

// Append enforces the same uniqueness the Postgres indexes do.
func (r memoryBookings) Append(_ context.Context, booking *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.DoctorID != booking.DoctorID || b.Date != booking.Date {
			continue
		}
		if b.TokenNumber == booking.TokenNumber {
			return &domain.RaceError{Err: domain.ErrBookingInProgress}
		}
		if b.Slot == booking.Slot && b.HoldsSlot() && booking.HoldsSlot() {
			return &domain.RaceError{Err: domain.ErrSlotTaken}
		}
	}
	r.s.bookings = append(r.s.bookings, *booking)
	return nil
}

func (r memoryBookings) UpdateStatus(_ context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.bookings {
		if r.s.bookings[i].ID == id {
			r.s.bookings[i].Status = status
			b := r.s.bookings[i]
			return &b, nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

type memoryInquiries struct{ s *MemoryStore }

func (r memoryInquiries) List(_ context.Context) ([]domain.ContactInquiry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.ContactInquiry, len(r.s.inquiries))
	copy(out, r.s.inquiries)
	return out, nil
}

func (r memoryInquiries) Append(_ context.Context, inquiry *domain.ContactInquiry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.inquiries = append(r.s.inquiries, *inquiry)
	return nil
}

func (r memoryInquiries) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.inquiries {
		if r.s.inquiries[i].ID == id {
			r.s.inquiries = append(r.s.inquiries[:i], r.s.inquiries[i+1:]...)
			return nil
		}
	}
	return domain.ErrInquiryNotFound
}

var _ Store = (*MemoryStore)(nil)
