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

type vaccinationRepository struct {
	BaseRepository
}

func NewVaccinationRepository(base BaseRepository) repository.VaccinationRepository {
	return &vaccinationRepository{base}
}

func (r *vaccinationRepository) Create(ctx context.Context, vaccination *model.Vaccination) error {
	query := `
		INSERT INTO vaccinations (
			id, user_id, vaccine_name, date_administered, dose_number,
			next_dose_date, administered_at, batch_number, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	vaccination.ID = uuid.New()
	vaccination.CreatedAt = time.Now()
	vaccination.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		vaccination.ID,
		vaccination.UserID,
		vaccination.VaccineName,
		vaccination.DateAdministered,
		vaccination.DoseNumber,
		vaccination.NextDoseDate,
		vaccination.AdministeredAt,
		vaccination.BatchNumber,
		vaccination.Notes,
		vaccination.CreatedAt,
		vaccination.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vaccination: %w", err)
	}
	return nil
}

func (r *vaccinationRepository) Get(ctx context.Context, id, userID uuid.UUID) (*model.Vaccination, error) {
	query := `SELECT * FROM vaccinations WHERE id = $1 AND user_id = $2`

	var vaccination model.Vaccination
	if err := r.db.GetContext(ctx, &vaccination, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("vaccination record", err)
		}
		return nil, fmt.Errorf("failed to get vaccination: %w", err)
	}

	return &vaccination, nil
}

func (r *vaccinationRepository) Update(ctx context.Context, vaccination *model.Vaccination) error {
	query := `
		UPDATE vaccinations SET
			vaccine_name = $1,
			date_administered = $2,
			dose_number = $3,
			next_dose_date = $4,
			administered_at = $5,
			batch_number = $6,
			notes = $7,
			updated_at = $8
		WHERE id = $9 AND user_id = $10
	`

	result, err := r.db.ExecContext(ctx, query,
		vaccination.VaccineName,
		vaccination.DateAdministered,
		vaccination.DoseNumber,
		vaccination.NextDoseDate,
		vaccination.AdministeredAt,
		vaccination.BatchNumber,
		vaccination.Notes,
		time.Now(),
		vaccination.ID,
		vaccination.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update vaccination: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("vaccination record", nil)
	}

	return nil
}

func (r *vaccinationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM vaccinations WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete vaccination: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("vaccination record", nil)
	}

	return nil
}

func (r *vaccinationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Vaccination, error) {
	query := `SELECT * FROM vaccinations WHERE user_id = $1 ORDER BY date_administered DESC`

	vaccinations := []*model.Vaccination{}
	if err := r.db.SelectContext(ctx, &vaccinations, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list vaccinations: %w", err)
	}

	return vaccinations, nil
}
