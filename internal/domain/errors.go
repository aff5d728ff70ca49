package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDoctorNotFound    = fmt.Errorf("doctor %w", ErrNotFound)
	ErrBookingNotFound   = fmt.Errorf("booking %w", ErrNotFound)
	ErrInquiryNotFound   = fmt.Errorf("inquiry %w", ErrNotFound)
	ErrCapacityExceeded  = errors.New("booking limit reached for this doctor on this day")
	ErrSlotTaken         = errors.New("this slot is already booked, please select another time")
	ErrValidation        = errors.New("validation failed")
	ErrAuth              = errors.New("invalid credentials or session expired")
	ErrInvalidTransition = errors.New("status change not allowed")
	ErrDoctorBusy        = errors.New("another patient is already being served by this doctor")
	ErrBookingInProgress = errors.New("another booking for this doctor and day is being processed")
)

// RaceError marks a conflict that passed the pre-write checks but was rejected by
// the store because another writer committed first.
type RaceError struct {
	Err error
}

func (e *RaceError) Error() string {
	if errors.Is(e.Err, ErrSlotTaken) {
		return "this slot was just booked by another patient, please select another time"
	}
	return "someone else just booked with this doctor for this day, please try again"
}

func (e *RaceError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
