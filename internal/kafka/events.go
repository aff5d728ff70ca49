package kafka

import "time"

const (
	EventBookingCreated = "booking_created"
	EventBookingStatus  = "booking_status_changed"
	EventDoctorSaved    = "doctor_saved"
	EventDoctorDeleted  = "doctor_deleted"
	EventInquiryCreated = "inquiry_created"
	EventInquiryDeleted = "inquiry_deleted"
	EventDataReset      = "data_reset"
)

const (
	CollectionBookings  = "bookings"
	CollectionDoctors   = "doctors"
	CollectionInquiries = "inquiries"
	CollectionAll       = "all"
)

// ChangeEvent says that a collection changed. Listeners re-read what they display.
type ChangeEvent struct {
	Type         string    `json:"type"`
	Collection   string    `json:"collection"`
	ID           string    `json:"id,omitempty"`
	DoctorID     string    `json:"doctor_id,omitempty"`
	DoctorName   string    `json:"doctor_name,omitempty"`
	Date         string    `json:"date,omitempty"`
	Slot         string    `json:"slot,omitempty"`
	TokenNumber  int       `json:"token_number,omitempty"`
	Status       string    `json:"status,omitempty"`
	PatientName  string    `json:"patient_name,omitempty"`
	PatientEmail string    `json:"patient_email,omitempty"`
	At           time.Time `json:"at"`
}

// Key partitions events by doctor and day so one queue's changes stay ordered.
func (e ChangeEvent) Key() string {
	if e.DoctorID != "" {
		return e.DoctorID + ":" + e.Date
	}
	if e.ID != "" {
		return e.ID
	}
	return e.Collection
}
