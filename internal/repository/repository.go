package repository

import (
	"context"

	"github.com/Domenick1991/opdqueue/internal/domain"
)

// BookingFilter narrows List; zero fields match everything.
type BookingFilter struct {
	DoctorID string
	Date     string
}

func (f BookingFilter) Match(b domain.Booking) bool {
	if f.DoctorID != "" && b.DoctorID != f.DoctorID {
		return false
	}
	if f.Date != "" && b.Date != f.Date {
		return false
	}
	return true
}

type DoctorRepository interface {
	List(ctx context.Context) ([]domain.Doctor, error)
	GetByID(ctx context.Context, id string) (*domain.Doctor, error)
	Save(ctx context.Context, doctor *domain.Doctor) error
	Delete(ctx context.Context, id string) error
}

type BookingRepository interface {
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Append(ctx context.Context, booking *domain.Booking) error
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
}

type InquiryRepository interface {
	List(ctx context.Context) ([]domain.ContactInquiry, error)
	Append(ctx context.Context, inquiry *domain.ContactInquiry) error
	Delete(ctx context.Context, id string) error
}

type Resetter interface {
	ResetAll(ctx context.Context) error
}

// Store is the entity store: doctors, bookings and inquiries behind one handle.
type Store interface {
	Doctors() DoctorRepository
	Bookings() BookingRepository
	Inquiries() InquiryRepository
	Resetter
}
