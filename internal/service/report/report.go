// Package report aggregates revenue and patient counts over the booking collection.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/Domenick1991/opdqueue/internal/repository"
)

type FilterType string

const (
	FilterDay   FilterType = "day"
	FilterMonth FilterType = "month"
	FilterYear  FilterType = "year"
	FilterRange FilterType = "range"
)

// Filter selects bookings by date. Value is used by day/month/year, From and To by range.
type Filter struct {
	Type  FilterType `json:"type" form:"type"`
	Value string     `json:"value" form:"value"`
	From  string     `json:"from,omitempty" form:"from"`
	To    string     `json:"to,omitempty" form:"to"`
}

func (f Filter) Validate() error {
	switch f.Type {
	case FilterDay:
		if !domain.ValidDate(f.Value) {
			return domain.NewValidationError("value", "day filter needs YYYY-MM-DD")
		}
	case FilterMonth:
		if len(f.Value) != 7 || !domain.ValidDate(f.Value+"-01") {
			return domain.NewValidationError("value", "month filter needs YYYY-MM")
		}
	case FilterYear:
		if len(f.Value) != 4 || !domain.ValidDate(f.Value+"-01-01") {
			return domain.NewValidationError("value", "year filter needs YYYY")
		}
	case FilterRange:
		if !domain.ValidDate(f.From) || !domain.ValidDate(f.To) {
			return domain.NewValidationError("from", "range filter needs from and to as YYYY-MM-DD")
		}
		if f.From > f.To {
			return domain.NewValidationError("from", "range start is after its end")
		}
	default:
		return domain.NewValidationError("type", fmt.Sprintf("unknown filter type %q", f.Type))
	}
	return nil
}

// Match compares ISO dates as strings; zero padding keeps that ordering correct.
func (f Filter) Match(date string) bool {
	switch f.Type {
	case FilterDay:
		return date == f.Value
	case FilterMonth, FilterYear:
		return strings.HasPrefix(date, f.Value)
	case FilterRange:
		return date >= f.From && date <= f.To
	}
	return false
}

// MatchSearch is a case-insensitive name match or a phone substring match.
func MatchSearch(b domain.Booking, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(b.PatientName), strings.ToLower(search)) ||
		strings.Contains(b.PatientPhone, search)
}

type Totals struct {
	Revenue  int64 `json:"revenue"`
	Cash     int64 `json:"cash"`
	Online   int64 `json:"online"`
	Patients int   `json:"patients"`
}

func (t *Totals) add(b domain.Booking) {
	t.Revenue += b.Fee
	t.Patients++
	if b.PaymentMode == domain.PaymentOnline {
		t.Online += b.Fee
	} else {
		t.Cash += b.Fee
	}
}

type DoctorTotals struct {
	Name string `json:"name"`
	Totals
}

type Report struct {
	Summary    Totals           `json:"summary"`
	DoctorWise []DoctorTotals   `json:"doctor_wise"`
	Rows       []domain.Booking `json:"rows"`
}

// Build groups by the doctor name snapshot, in order of first appearance.
func Build(bookings []domain.Booking, filter Filter, search string) *Report {
	r := &Report{DoctorWise: []DoctorTotals{}, Rows: []domain.Booking{}}
	index := make(map[string]int)
	for _, b := range bookings {
		if !filter.Match(b.Date) || !MatchSearch(b, search) {
			continue
		}
		r.Rows = append(r.Rows, b)
		r.Summary.add(b)

		i, ok := index[b.DoctorName]
		if !ok {
			i = len(r.DoctorWise)
			index[b.DoctorName] = i
			r.DoctorWise = append(r.DoctorWise, DoctorTotals{Name: b.DoctorName})
		}
		r.DoctorWise[i].add(b)
	}
	return r
}

// Service builds reports over the whole booking history.
type Service struct {
	bookings repository.BookingRepository
}

// NewService reads bookings from the given repository.
func NewService(bookings repository.BookingRepository) *Service {
	return &Service{bookings: bookings}
}

// Report validates the filter and aggregates every matching booking.
func (s *Service) Report(ctx context.Context, filter Filter, search string) (*Report, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	all, err := s.bookings.List(ctx, repository.BookingFilter{})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return Build(all, filter, strings.TrimSpace(search)), nil
}

// Patients is the per-doctor drill-down of a report.
func (s *Service) Patients(ctx context.Context, doctorID string, filter Filter, search string) ([]domain.Booking, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	all, err := s.bookings.List(ctx, repository.BookingFilter{DoctorID: doctorID})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return Build(all, filter, strings.TrimSpace(search)).Rows, nil
}
