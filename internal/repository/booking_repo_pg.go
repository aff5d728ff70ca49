package repository

import (
	"context"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, token_number, patient_name, patient_email, patient_phone, doctor_id, doctor_name, date, slot, fee, payment_mode, status, created_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.TokenNumber, &b.PatientName, &b.PatientEmail, &b.PatientPhone, &b.DoctorID, &b.DoctorName, &b.Date, &b.Slot, &b.Fee, &b.PaymentMode, &b.Status, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE ($1::text = '' OR doctor_id = $1) AND ($2::text = '' OR date = $2)
		ORDER BY position`, filter.DoctorID, filter.Date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrBookingNotFound)
	}
	return b, nil
}

// insertBooking only writes when no non-Absent booking holds the slot. The check lives in
// the insert alone so a later status overwrite can never trip over it.
const insertBooking = `INSERT INTO bookings (` + bookingColumns + `)
	SELECT $1::text, $2::int, $3::text, $4::text, $5::text, $6::text, $7::text, $8::text, $9::text, $10::bigint, $11::text, $12::text, $13::timestamptz
	WHERE NOT EXISTS (
		SELECT 1 FROM bookings
		WHERE doctor_id = $6 AND date = $8 AND slot = $9 AND status <> 'Absent'
	)`

func (r *PGBookingRepository) Append(ctx context.Context, b *domain.Booking) error {
	tag, err := r.db.Exec(ctx, insertBooking,
		b.ID, b.TokenNumber, b.PatientName, b.PatientEmail, b.PatientPhone, b.DoctorID, b.DoctorName, b.Date, b.Slot, b.Fee, b.PaymentMode, b.Status, b.CreatedAt)
	if err != nil {
		return mapBookingInsertError(err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.RaceError{Err: domain.ErrSlotTaken}
	}
	return nil
}

// UpdateStatus overwrites unconditionally, even reviving an Absent booking into a slot
// that has since been rebooked.
func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET status=$1 WHERE id=$2 RETURNING `+bookingColumns, status, id))
	if err != nil {
		return nil, notFound(err, domain.ErrBookingNotFound)
	}
	return b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
