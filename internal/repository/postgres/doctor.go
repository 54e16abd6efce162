package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vitanips/platform-api/internal/model"
	"github.com/vitanips/platform-api/internal/repository"
	apperrors "github.com/vitanips/platform-api/pkg/errors"
)

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(base BaseRepository) repository.DoctorRepository {
	return &doctorRepository{base}
}

const doctorColumns = `
	d.id, d.user_id, d.first_name, d.last_name, u.email AS email,
	d.years_of_experience, d.education, d.bio, d.consultation_fee,
	d.is_verified, d.created_at, d.updated_at,
	COALESCE(array_agg(s.name) FILTER (WHERE s.name IS NOT NULL), '{}') AS specialties
`

const doctorJoins = `
	FROM doctors d
	LEFT JOIN users u ON u.id = d.user_id
	LEFT JOIN doctor_specialties ds ON ds.doctor_id = d.id
	LEFT JOIN specialties s ON s.id = ds.specialty_id
`

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + doctorJoins + `
		WHERE d.id = $1
		GROUP BY d.id, u.email
	`

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	return &doctor, nil
}

func (r *doctorRepository) UpdateVerification(ctx context.Context, id uuid.UUID, verified bool) error {
	query := `
		UPDATE doctors
		SET is_verified = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, verified, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update doctor verification: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor", nil)
	}

	return nil
}

func (r *doctorRepository) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + doctorJoins + ` WHERE TRUE`
	args := []interface{}{}

	if filters.Verified != nil {
		query += fmt.Sprintf(" AND d.is_verified = $%d", len(args)+1)
		args = append(args, *filters.Verified)
	}

	if filters.Search != "" {
		query += fmt.Sprintf(
			" AND (d.first_name ILIKE $%d OR d.last_name ILIKE $%d OR u.email ILIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1,
		)
		args = append(args, "%"+filters.Search+"%")
	}

	query += " GROUP BY d.id, u.email ORDER BY d.created_at DESC"

	doctors := []*model.Doctor{}
	if err := r.db.SelectContext(ctx, &doctors, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	return doctors, nil
}

func (r *doctorRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM doctors`)
}

func (r *doctorRepository) CountVerified(ctx context.Context, verified bool) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM doctors WHERE is_verified = $1`, verified)
}

// TopSpecialties counts doctors per specialty, largest groups first. Ties
// land in whatever order the store returns.
func (r *doctorRepository) TopSpecialties(ctx context.Context, limit int) ([]model.SpecialtyRank, error) {
	query := `
		SELECT COALESCE(s.name, '') AS specialty, COUNT(d.id) AS count
	` + doctorJoins + `
		GROUP BY s.name
		ORDER BY count DESC
		LIMIT $1
	`

	ranks := []model.SpecialtyRank{}
	if err := r.db.SelectContext(ctx, &ranks, query, limit); err != nil {
		return nil, fmt.Errorf("failed to rank specialties: %w", err)
	}

	return ranks, nil
}
