package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

const (
	uniqueViolation = "23505"

	tokenConstraint = "bookings_doctor_day_token_key"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// Migrate creates the tables and indexes if they are missing.
func (s *PGStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *PGStore) Doctors() DoctorRepository { return NewDoctorRepository(s.db) }
func (s *PGStore) Bookings() BookingRepository { return NewBookingRepository(s.db) }
func (s *PGStore) Inquiries() InquiryRepository { return NewInquiryRepository(s.db) }

func (s *PGStore) ResetAll(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `TRUNCATE doctors, bookings, inquiries`)
	return err
}

// mapBookingInsertError turns a token collision from a concurrent writer into a race error.
func mapBookingInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == tokenConstraint {
		return &domain.RaceError{Err: domain.ErrBookingInProgress}
	}
	return err
}

func notFound(err error, target error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return target
	}
	return err
}

var _ Store = (*PGStore)(nil)
