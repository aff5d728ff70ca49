package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/Domenick1991/opdqueue/internal/events"
	"github.com/Domenick1991/opdqueue/internal/kafka"
	"github.com/Domenick1991/opdqueue/internal/repository"
	"github.com/Domenick1991/opdqueue/internal/schedule"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	SetStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
	Call(ctx context.Context, id string) (*domain.Booking, error)
	Finish(ctx context.Context, id string) (*domain.Booking, error)
	MarkAbsent(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error)
	Get(ctx context.Context, id string) (*domain.Booking, error)
	Availability(ctx context.Context, doctorID, date string) (*Availability, error)
}

// DayLocker is the distributed half of the per-(doctor, date) booking lock.
// Acquire returns an owner token that Release must present.
type DayLocker interface {
	AcquireDayLock(ctx context.Context, doctorID, date string, ttl time.Duration) (token string, ok bool, err error)
	ReleaseDayLock(ctx context.Context, doctorID, date, token string) error
}

type BookingService struct {
	doctors  repository.DoctorRepository
	bookings repository.BookingRepository
	emitter  events.Emitter
	locker   DayLocker
	lockTTL  time.Duration
	attempts int
	wait     time.Duration
	local    *keyedMutex
	now      func() time.Time
	log      *zap.Logger
}

type CreateBookingInput struct {
	PatientName  string             `json:"patient_name"`
	PatientEmail string             `json:"patient_email"`
	PatientPhone string             `json:"patient_phone"`
	DoctorID     string             `json:"doctor_id"`
	Date         string             `json:"date"`
	Slot         string             `json:"slot"`
	PaymentMode  domain.PaymentMode `json:"payment_mode"`
}

type SlotState struct {
	Time   string `json:"time"`
	Booked bool   `json:"booked"`
}

type Availability struct {
	DoctorID     string      `json:"doctor_id"`
	Date         string      `json:"date"`
	Active       bool        `json:"active"`
	Issued       int         `json:"issued"`
	MaxTokens    int         `json:"max_tokens"`
	LimitReached bool        `json:"limit_reached"`
	Slots        []SlotState `json:"slots"`
}

type BookingServiceOption func(*BookingService)

// WithDayLocker enables the distributed lock; without it only in-process writers are serialized.
func WithDayLocker(locker DayLocker, ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.locker = locker
		s.lockTTL = ttl
	}
}

func WithLockRetry(attempts int, wait time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.attempts = attempts
		s.wait = wait
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithLogger(log *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewBookingService(
	doctors repository.DoctorRepository,
	bookings repository.BookingRepository,
	emitter events.Emitter,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		doctors:  doctors,
		bookings: bookings,
		emitter:  emitter,
		lockTTL:  5 * time.Second,
		attempts: 10,
		wait:     50 * time.Millisecond,
		local:    newKeyedMutex(),
		now:      time.Now,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	input.PatientName = strings.TrimSpace(input.PatientName)
	input.PatientEmail = strings.TrimSpace(input.PatientEmail)
	input.PatientPhone = domain.NormalizePhone(strings.TrimSpace(input.PatientPhone))
	if err := validateInput(input); err != nil {
		return nil, err
	}

	booking, err := s.allocate(ctx, input)
	if err != nil {
		return nil, err
	}

	s.log.Info("booking created", zap.String("booking_id", booking.ID), zap.String("doctor_id", booking.DoctorID),
		zap.String("date", booking.Date), zap.Int("token", booking.TokenNumber))
	s.emit(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

// allocate runs the capacity and slot checks and the append under the day lock.
// The lock is gone by the time it returns, so publishing never extends it.
func (s *BookingService) allocate(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	unlock, err := s.lockDay(ctx, input.DoctorID, input.Date)
	if err != nil {
		return nil, err
	}
	defer unlock()

	doctor, err := s.doctors.GetByID(ctx, input.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsActive {
		return nil, domain.NewValidationError("doctor_id", "this doctor is not accepting bookings")
	}

	day, err := s.bookings.List(ctx, repository.BookingFilter{DoctorID: input.DoctorID, Date: input.Date})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	// Capacity counts every token issued today, Absent included.
	if len(day) >= doctor.MaxTokens {
		return nil, domain.ErrCapacityExceeded
	}
	for _, b := range day {
		if b.Slot == input.Slot && b.HoldsSlot() {
			return nil, domain.ErrSlotTaken
		}
	}

	booking := &domain.Booking{
		ID:           uuid.NewString(),
		TokenNumber:  len(day) + 1,
		PatientName:  input.PatientName,
		PatientEmail: input.PatientEmail,
		PatientPhone: input.PatientPhone,
		DoctorID:     doctor.ID,
		DoctorName:   doctor.Name,
		Date:         input.Date,
		Slot:         input.Slot,
		Fee:          doctor.Fee,
		PaymentMode:  input.PaymentMode,
		Status:       domain.BookingStatusWaiting,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.bookings.Append(ctx, booking); err != nil {
		var race *domain.RaceError
		if errors.As(err, &race) {
			s.log.Warn("booking rejected by store", zap.String("doctor_id", booking.DoctorID),
				zap.String("date", booking.Date), zap.String("slot", booking.Slot), zap.Error(err))
		}
		return nil, err
	}
	return booking, nil
}

// SetStatus overwrites the status without consulting the transition table.
func (s *BookingService) SetStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}
	updated, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, kafka.EventBookingStatus, updated)
	return updated, nil
}

func (s *BookingService) Call(ctx context.Context, id string) (*domain.Booking, error) {
	return s.apply(ctx, id, domain.ActionCall)
}

func (s *BookingService) Finish(ctx context.Context, id string) (*domain.Booking, error) {
	return s.apply(ctx, id, domain.ActionFinish)
}

func (s *BookingService) MarkAbsent(ctx context.Context, id string) (*domain.Booking, error) {
	return s.apply(ctx, id, domain.ActionAbsent)
}

func (s *BookingService) apply(ctx context.Context, id string, action domain.Action) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	target, _ := action.Target()
	if !domain.CanTransition(current.Status, target) {
		return nil, fmt.Errorf("%s %s booking: %w", action, current.Status, domain.ErrInvalidTransition)
	}

	var updated *domain.Booking
	if action == domain.ActionCall {
		updated, err = s.call(ctx, current)
	} else {
		updated, err = s.bookings.UpdateStatus(ctx, id, target)
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("booking status changed", zap.String("booking_id", id),
		zap.String("from", string(current.Status)), zap.String("to", string(target)))
	s.emit(ctx, kafka.EventBookingStatus, updated)
	return updated, nil
}

// call moves a booking to Present unless another one of the same doctor's day already is.
func (s *BookingService) call(ctx context.Context, current *domain.Booking) (*domain.Booking, error) {
	unlock, err := s.lockDay(ctx, current.DoctorID, current.Date)
	if err != nil {
		return nil, err
	}
	defer unlock()

	day, err := s.bookings.List(ctx, repository.BookingFilter{DoctorID: current.DoctorID, Date: current.Date})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	for _, b := range day {
		if b.ID != current.ID && b.Status == domain.BookingStatusPresent {
			return nil, fmt.Errorf("token %d is with the doctor: %w", b.TokenNumber, domain.ErrDoctorBusy)
		}
	}
	return s.bookings.UpdateStatus(ctx, current.ID, domain.BookingStatusPresent)
}

func (s *BookingService) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	return s.bookings.List(ctx, filter)
}

func (s *BookingService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// Availability marks each generated slot that a non-Absent booking already holds.
func (s *BookingService) Availability(ctx context.Context, doctorID, date string) (*Availability, error) {
	if !domain.ValidDate(date) {
		return nil, domain.NewValidationError("date", "date must be YYYY-MM-DD")
	}
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	day, err := s.bookings.List(ctx, repository.BookingFilter{DoctorID: doctorID, Date: date})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	held := make(map[string]bool, len(day))
	for _, b := range day {
		if b.HoldsSlot() {
			held[b.Slot] = true
		}
	}
	slots := schedule.GenerateSlots(doctor.Timing, doctor.SlotGap, date)
	out := &Availability{
		DoctorID:     doctor.ID,
		Date:         date,
		Active:       doctor.IsActive,
		Issued:       len(day),
		MaxTokens:    doctor.MaxTokens,
		LimitReached: len(day) >= doctor.MaxTokens,
		Slots:        make([]SlotState, 0, len(slots)),
	}
	for _, slot := range slots {
		out.Slots = append(out.Slots, SlotState{Time: slot, Booked: held[slot]})
	}
	return out, nil
}

func validateInput(input CreateBookingInput) error {
	switch {
	case input.PatientName == "":
		return domain.NewValidationError("patient_name", "patient name is required")
	case input.PatientPhone == "":
		return domain.NewValidationError("patient_phone", "phone number is required")
	case !domain.ValidPhone(input.PatientPhone):
		return domain.NewValidationError("patient_phone", "please enter a valid 10-digit phone number")
	case input.PatientEmail != "" && !domain.ValidEmail(input.PatientEmail):
		return domain.NewValidationError("patient_email", "please enter a valid email address")
	case input.DoctorID == "":
		return domain.NewValidationError("doctor_id", "doctor is required")
	case !domain.ValidDate(input.Date):
		return domain.NewValidationError("date", "date must be YYYY-MM-DD")
	case !domain.ValidSlot(input.Slot):
		return domain.NewValidationError("slot", "slot must be HH:MM")
	case !input.PaymentMode.Valid():
		return domain.NewValidationError("payment_mode", "payment mode must be Cash or Online")
	}
	return nil
}

// lockDay serializes writers of one doctor's day, locally first and then across processes.
func (s *BookingService) lockDay(ctx context.Context, doctorID, date string) (func(), error) {
	key := doctorID + ":" + date
	s.local.Lock(key)
	if s.locker == nil {
		return func() { s.local.Unlock(key) }, nil
	}

	var token string
	for attempt := 0; ; attempt++ {
		t, ok, err := s.locker.AcquireDayLock(ctx, doctorID, date, s.lockTTL)
		if err != nil {
			s.local.Unlock(key)
			return nil, fmt.Errorf("acquire day lock: %w", err)
		}
		if ok {
			token = t
			break
		}
		if attempt+1 >= s.attempts {
			s.local.Unlock(key)
			return nil, domain.ErrBookingInProgress
		}
		select {
		case <-ctx.Done():
			s.local.Unlock(key)
			return nil, ctx.Err()
		case <-time.After(s.wait):
		}
	}

	return func() {
		if err := s.locker.ReleaseDayLock(context.WithoutCancel(ctx), doctorID, date, token); err != nil {
			s.log.Warn("release day lock", zap.String("doctor_id", doctorID), zap.String("date", date), zap.Error(err))
		}
		s.local.Unlock(key)
	}, nil
}

func (s *BookingService) emit(ctx context.Context, eventType string, b *domain.Booking) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(ctx, kafka.ChangeEvent{
		Type:         eventType,
		Collection:   kafka.CollectionBookings,
		ID:           b.ID,
		DoctorID:     b.DoctorID,
		DoctorName:   b.DoctorName,
		Date:         b.Date,
		Slot:         b.Slot,
		TokenNumber:  b.TokenNumber,
		Status:       string(b.Status),
		PatientName:  b.PatientName,
		PatientEmail: b.PatientEmail,
	})
}

// keyedMutex hands out one mutex per key and forgets it when nobody holds or waits on it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()
	m.Lock()
}

func (k *keyedMutex) Unlock(key string) {
	k.mu.Lock()
	m := k.locks[key]
	m.refs--
	if m.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
	m.Unlock()
}

var _ BookingUseCase = (*BookingService)(nil)
