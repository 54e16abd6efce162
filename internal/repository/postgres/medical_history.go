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

type medicalHistoryRepository struct {
	BaseRepository
}

func NewMedicalHistoryRepository(base BaseRepository) repository.MedicalHistoryRepository {
	return &medicalHistoryRepository{base}
}

func (r *medicalHistoryRepository) Create(ctx context.Context, record *model.MedicalHistory) error {
	query := `
		INSERT INTO medical_history (
			id, user_id, condition, diagnosis_date, treatment, notes,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.Condition,
		record.DiagnosisDate,
		record.Treatment,
		record.Notes,
		record.IsActive,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medical history record: %w", err)
	}
	return nil
}

// Get filters by both id and owner. A row owned by someone else reads as
// not found, never as forbidden.
func (r *medicalHistoryRepository) Get(ctx context.Context, id, userID uuid.UUID) (*model.MedicalHistory, error) {
	query := `SELECT * FROM medical_history WHERE id = $1 AND user_id = $2`

	var record model.MedicalHistory
	if err := r.db.GetContext(ctx, &record, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("medical history record", err)
		}
		return nil, fmt.Errorf("failed to get medical history record: %w", err)
	}

	return &record, nil
}

func (r *medicalHistoryRepository) Update(ctx context.Context, record *model.MedicalHistory) error {
	query := `
		UPDATE medical_history SET
			condition = $1,
			diagnosis_date = $2,
			treatment = $3,
			notes = $4,
			is_active = $5,
			updated_at = $6
		WHERE id = $7 AND user_id = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		record.Condition,
		record.DiagnosisDate,
		record.Treatment,
		record.Notes,
		record.IsActive,
		time.Now(),
		record.ID,
		record.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medical history record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("medical history record", nil)
	}

	return nil
}

func (r *medicalHistoryRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM medical_history WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete medical history record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("medical history record", nil)
	}

	return nil
}

func (r *medicalHistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.MedicalHistory, error) {
	query := `SELECT * FROM medical_history WHERE user_id = $1 ORDER BY created_at DESC`

	records := []*model.MedicalHistory{}
	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list medical history records: %w", err)
	}

	return records, nil
}
