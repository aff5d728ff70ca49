package domain

import "time"

type BookingStatus string

const (
	BookingStatusWaiting   BookingStatus = "Waiting"
	BookingStatusPresent   BookingStatus = "Present"
	BookingStatusCompleted BookingStatus = "Completed"
	BookingStatusAbsent    BookingStatus = "Absent"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusWaiting, BookingStatusPresent, BookingStatusCompleted, BookingStatusAbsent:
		return true
	}
	return false
}

// Terminal reports whether no UI action is offered for the status any more.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusAbsent
}

type PaymentMode string

const (
	PaymentCash   PaymentMode = "Cash"
	PaymentOnline PaymentMode = "Online"
)

func (m PaymentMode) Valid() bool {
	return m == PaymentCash || m == PaymentOnline
}

// Booking is one issued token. DoctorName and Fee are copies taken at booking time.
type Booking struct {
	ID           string        `json:"id"`
	TokenNumber  int           `json:"token_number"`
	PatientName  string        `json:"patient_name"`
	PatientEmail string        `json:"patient_email,omitempty"`
	PatientPhone string        `json:"patient_phone"`
	DoctorID     string        `json:"doctor_id"`
	DoctorName   string        `json:"doctor_name"`
	Date         string        `json:"date"`
	Slot         string        `json:"slot"`
	Fee          int64         `json:"fee"`
	PaymentMode  PaymentMode   `json:"payment_mode"`
	Status       BookingStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// HoldsSlot reports whether the booking still occupies its (doctor, date, slot).
func (b Booking) HoldsSlot() bool {
	return b.Status != BookingStatusAbsent
}
