package repository

import (
	"context"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGDoctorRepository struct {
	db *pgxpool.Pool
}

func NewDoctorRepository(db *pgxpool.Pool) DoctorRepository {
	return &PGDoctorRepository{db: db}
}

const doctorColumns = `id, name, qualifications, specialty, hospital, timing, image, fee, slot_gap, max_tokens, is_active`

func (r *PGDoctorRepository) List(ctx context.Context) ([]domain.Doctor, error) {
	rows, err := r.db.Query(ctx, `SELECT `+doctorColumns+` FROM doctors ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	doctors := make([]domain.Doctor, 0)
	for rows.Next() {
		var d domain.Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Qualifications, &d.Specialty, &d.Hospital, &d.Timing, &d.Image, &d.Fee, &d.SlotGap, &d.MaxTokens, &d.IsActive); err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}

func (r *PGDoctorRepository) GetByID(ctx context.Context, id string) (*domain.Doctor, error) {
	row := r.db.QueryRow(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE id=$1`, id)
	var d domain.Doctor
	if err := row.Scan(&d.ID, &d.Name, &d.Qualifications, &d.Specialty, &d.Hospital, &d.Timing, &d.Image, &d.Fee, &d.SlotGap, &d.MaxTokens, &d.IsActive); err != nil {
		return nil, notFound(err, domain.ErrDoctorNotFound)
	}
	return &d, nil
}

func (r *PGDoctorRepository) Save(ctx context.Context, d *domain.Doctor) error {
	_, err := r.db.Exec(ctx, `INSERT INTO doctors (`+doctorColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			qualifications = EXCLUDED.qualifications,
			specialty = EXCLUDED.specialty,
			hospital = EXCLUDED.hospital,
			timing = EXCLUDED.timing,
			image = EXCLUDED.image,
			fee = EXCLUDED.fee,
			slot_gap = EXCLUDED.slot_gap,
			max_tokens = EXCLUDED.max_tokens,
			is_active = EXCLUDED.is_active`,
		d.ID, d.Name, d.Qualifications, d.Specialty, d.Hospital, d.Timing, d.Image, d.Fee, d.SlotGap, d.MaxTokens, d.IsActive)
	return err
}

func (r *PGDoctorRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM doctors WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrDoctorNotFound
	}
	return nil
}

var _ DoctorRepository = (*PGDoctorRepository)(nil)
