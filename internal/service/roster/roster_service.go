// Package roster manages doctors, contact inquiries and the full data reset.
package roster

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/Domenick1991/opdqueue/internal/events"
	"github.com/Domenick1991/opdqueue/internal/kafka"
	"github.com/Domenick1991/opdqueue/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cache holds the doctor list between writes. GetDoctors returns nil on a miss.
type Cache interface {
	GetDoctors(ctx context.Context) ([]domain.Doctor, error)
	SetDoctors(ctx context.Context, doctors []domain.Doctor) error
	InvalidateDoctors(ctx context.Context) error
}

type Service struct {
	doctors   repository.DoctorRepository
	inquiries repository.InquiryRepository
	resetter  repository.Resetter
	cache     Cache
	emitter   events.Emitter
	seed      []domain.Doctor
	now       func() time.Time
	log       *zap.Logger
}

type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithSeed replaces the default roster; an empty seed disables seeding.
func WithSeed(doctors []domain.Doctor) Option {
	return func(s *Service) { s.seed = doctors }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func NewService(store repository.Store, emitter events.Emitter, opts ...Option) *Service {
	s := &Service{
		doctors:   store.Doctors(),
		inquiries: store.Inquiries(),
		resetter:  store,
		emitter:   emitter,
		seed:      DefaultDoctors(),
		now:       time.Now,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Doctors serves from cache when possible and seeds an empty roster.
func (s *Service) Doctors(ctx context.Context) ([]domain.Doctor, error) {
	if s.cache != nil {
		cached, err := s.cache.GetDoctors(ctx)
		if err != nil {
			s.log.Warn("doctor cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	if len(doctors) == 0 && len(s.seed) > 0 {
		if doctors, err = s.seedRoster(ctx); err != nil {
			return nil, err
		}
	}

	if s.cache != nil {
		if err := s.cache.SetDoctors(ctx, doctors); err != nil {
			s.log.Warn("doctor cache write failed", zap.Error(err))
		}
	}
	return doctors, nil
}

func (s *Service) seedRoster(ctx context.Context) ([]domain.Doctor, error) {
	out := make([]domain.Doctor, 0, len(s.seed))
	for _, d := range s.seed {
		d := d
		if err := s.doctors.Save(ctx, &d); err != nil {
			return nil, fmt.Errorf("seed doctor %s: %w", d.ID, err)
		}
		out = append(out, d)
	}
	s.log.Info("seeded default roster", zap.Int("doctors", len(out)))
	return out, nil
}

func (s *Service) Doctor(ctx context.Context, id string) (*domain.Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

// Create assigns an id and fills the slot defaults. New doctors start active.
func (s *Service) Create(ctx context.Context, doctor domain.Doctor) (*domain.Doctor, error) {
	doctor.ID = uuid.NewString()
	if doctor.SlotGap == 0 {
		doctor.SlotGap = domain.DefaultSlotGap
	}
	if doctor.MaxTokens == 0 {
		doctor.MaxTokens = domain.DefaultMaxTokens
	}
	doctor.IsActive = true
	return s.save(ctx, doctor)
}

func (s *Service) Update(ctx context.Context, id string, doctor domain.Doctor) (*domain.Doctor, error) {
	if _, err := s.doctors.GetByID(ctx, id); err != nil {
		return nil, err
	}
	doctor.ID = id
	return s.save(ctx, doctor)
}

func (s *Service) SetActive(ctx context.Context, id string, active bool) (*domain.Doctor, error) {
	doctor, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	doctor.IsActive = active
	return s.save(ctx, *doctor)
}

func (s *Service) save(ctx context.Context, doctor domain.Doctor) (*domain.Doctor, error) {
	doctor.Name = strings.TrimSpace(doctor.Name)
	doctor.Specialty = strings.TrimSpace(doctor.Specialty)
	doctor.Timing = strings.TrimSpace(doctor.Timing)
	if err := doctor.Validate(); err != nil {
		return nil, err
	}
	if err := s.doctors.Save(ctx, &doctor); err != nil {
		return nil, fmt.Errorf("save doctor: %w", err)
	}
	s.invalidate(ctx)
	s.emit(ctx, kafka.ChangeEvent{
		Type: kafka.EventDoctorSaved, Collection: kafka.CollectionDoctors, ID: doctor.ID, DoctorID: doctor.ID, DoctorName: doctor.Name,
	})
	return &doctor, nil
}

// Delete leaves the doctor's bookings in place; they keep their name and fee snapshot.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.doctors.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.emit(ctx, kafka.ChangeEvent{Type: kafka.EventDoctorDeleted, Collection: kafka.CollectionDoctors, ID: id, DoctorID: id})
	return nil
}

func (s *Service) Inquiries(ctx context.Context) ([]domain.ContactInquiry, error) {
	return s.inquiries.List(ctx)
}

func (s *Service) SubmitInquiry(ctx context.Context, inquiry domain.ContactInquiry) (*domain.ContactInquiry, error) {
	inquiry.Name = strings.TrimSpace(inquiry.Name)
	inquiry.Email = strings.TrimSpace(inquiry.Email)
	inquiry.Subject = strings.TrimSpace(inquiry.Subject)
	if err := inquiry.Validate(); err != nil {
		return nil, err
	}
	inquiry.ID = uuid.NewString()
	inquiry.CreatedAt = s.now().UTC()
	if err := s.inquiries.Append(ctx, &inquiry); err != nil {
		return nil, fmt.Errorf("append inquiry: %w", err)
	}
	s.emit(ctx, kafka.ChangeEvent{Type: kafka.EventInquiryCreated, Collection: kafka.CollectionInquiries, ID: inquiry.ID})
	return &inquiry, nil
}

func (s *Service) DeleteInquiry(ctx context.Context, id string) error {
	if err := s.inquiries.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, kafka.ChangeEvent{Type: kafka.EventInquiryDeleted, Collection: kafka.CollectionInquiries, ID: id})
	return nil
}

// Reset clears doctors, bookings and inquiries. The next Doctors call reseeds.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.resetter.ResetAll(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.invalidate(ctx)
	s.log.Warn("all data reset")
	s.emit(ctx, kafka.ChangeEvent{Type: kafka.EventDataReset, Collection: kafka.CollectionAll})
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDoctors(ctx); err != nil {
		s.log.Warn("doctor cache invalidation failed", zap.Error(err))
	}
}

func (s *Service) emit(ctx context.Context, event kafka.ChangeEvent) {
	if s.emitter != nil {
		s.emitter.Emit(ctx, event)
	}
}
