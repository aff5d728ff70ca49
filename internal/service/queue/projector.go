// Package queue derives the live queue views from the booking collection.
package queue

import (
	"context"
	"fmt"
	"sort"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/Domenick1991/opdqueue/internal/repository"
)

// Limits caps the display lists; zero means unlimited.
type Limits struct {
	Waiting int
	Absent  int
}

type Board struct {
	DoctorID   string           `json:"doctor_id"`
	DoctorName string           `json:"doctor_name"`
	Specialty  string           `json:"specialty,omitempty"`
	Date       string           `json:"date"`
	Current    *domain.Booking  `json:"current"`
	Waiting    []domain.Booking `json:"waiting"`
	Absent     []domain.Booking `json:"absent"`
	Completed  int              `json:"completed"`
}

type Hall struct {
	Date   string  `json:"date"`
	Boards []Board `json:"boards"`
}

type Projector struct {
	doctors  repository.DoctorRepository
	bookings repository.BookingRepository
}

func NewProjector(doctors repository.DoctorRepository, bookings repository.BookingRepository) *Projector {
	return &Projector{doctors: doctors, bookings: bookings}
}

func (p *Projector) Board(ctx context.Context, doctorID, date string, limits Limits) (*Board, error) {
	if !domain.ValidDate(date) {
		return nil, domain.NewValidationError("date", "date must be YYYY-MM-DD")
	}
	doctor, err := p.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	day, err := p.bookings.List(ctx, repository.BookingFilter{DoctorID: doctorID, Date: date})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	board := Project(day, limits)
	board.DoctorID = doctor.ID
	board.DoctorName = doctor.Name
	board.Specialty = doctor.Specialty
	board.Date = date
	return &board, nil
}

// Hall builds a board for every active doctor, in roster order.
func (p *Projector) Hall(ctx context.Context, date string, limits Limits) (*Hall, error) {
	if !domain.ValidDate(date) {
		return nil, domain.NewValidationError("date", "date must be YYYY-MM-DD")
	}
	doctors, err := p.doctors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	all, err := p.bookings.List(ctx, repository.BookingFilter{Date: date})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	byDoctor := make(map[string][]domain.Booking)
	for _, b := range all {
		byDoctor[b.DoctorID] = append(byDoctor[b.DoctorID], b)
	}

	hall := &Hall{Date: date, Boards: make([]Board, 0, len(doctors))}
	for _, d := range doctors {
		if !d.IsActive {
			continue
		}
		board := Project(byDoctor[d.ID], limits)
		board.DoctorID = d.ID
		board.DoctorName = d.Name
		board.Specialty = d.Specialty
		board.Date = date
		hall.Boards = append(hall.Boards, board)
	}
	return hall, nil
}

// Project partitions one doctor-day of bookings. Current is the first Present
// booking by token; Absent keeps the most recent ones in creation order.
func Project(day []domain.Booking, limits Limits) Board {
	sorted := make([]domain.Booking, len(day))
	copy(sorted, day)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TokenNumber < sorted[j].TokenNumber })

	board := Board{Waiting: []domain.Booking{}, Absent: []domain.Booking{}}
	var absent []domain.Booking
	for _, b := range sorted {
		switch b.Status {
		case domain.BookingStatusPresent:
			if board.Current == nil {
				b := b
				board.Current = &b
			}
		case domain.BookingStatusWaiting:
			board.Waiting = append(board.Waiting, b)
		case domain.BookingStatusAbsent:
			absent = append(absent, b)
		case domain.BookingStatusCompleted:
			board.Completed++
		}
	}
	if limits.Waiting > 0 && len(board.Waiting) > limits.Waiting {
		board.Waiting = board.Waiting[:limits.Waiting]
	}

	sort.SliceStable(absent, func(i, j int) bool { return absent[i].CreatedAt.Before(absent[j].CreatedAt) })
	if limits.Absent > 0 && len(absent) > limits.Absent {
		absent = absent[len(absent)-limits.Absent:]
	}
	board.Absent = append(board.Absent, absent...)
	return board
}
