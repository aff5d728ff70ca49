package repository

import (
	"context"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGInquiryRepository struct {
	db *pgxpool.Pool
}

func NewInquiryRepository(db *pgxpool.Pool) InquiryRepository {
	return &PGInquiryRepository{db: db}
}

func (r *PGInquiryRepository) List(ctx context.Context) ([]domain.ContactInquiry, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, email, phone, subject, message, created_at FROM inquiries ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inquiries := make([]domain.ContactInquiry, 0)
	for rows.Next() {
		var i domain.ContactInquiry
		if err := rows.Scan(&i.ID, &i.Name, &i.Email, &i.Phone, &i.Subject, &i.Message, &i.CreatedAt); err != nil {
			return nil, err
		}
		inquiries = append(inquiries, i)
	}
	return inquiries, rows.Err()
}

func (r *PGInquiryRepository) Append(ctx context.Context, i *domain.ContactInquiry) error {
	_, err := r.db.Exec(ctx, `INSERT INTO inquiries (id, name, email, phone, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, i.ID, i.Name, i.Email, i.Phone, i.Subject, i.Message, i.CreatedAt)
	return err
}

func (r *PGInquiryRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM inquiries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInquiryNotFound
	}
	return nil
}

var _ InquiryRepository = (*PGInquiryRepository)(nil)
