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

type pharmacyRepository struct {
	BaseRepository
}

func NewPharmacyRepository(base BaseRepository) repository.PharmacyRepository {
	return &pharmacyRepository{base}
}

func (r *pharmacyRepository) Get(ctx context.Context, id uuid.UUID) (*model.Pharmacy, error) {
	query := `SELECT * FROM pharmacies WHERE id = $1`

	var pharmacy model.Pharmacy
	if err := r.db.GetContext(ctx, &pharmacy, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("pharmacy", err)
		}
		return nil, fmt.Errorf("failed to get pharmacy: %w", err)
	}

	return &pharmacy, nil
}

func (r *pharmacyRepository) UpdateActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `
		UPDATE pharmacies
		SET is_active = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update pharmacy: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("pharmacy", nil)
	}

	return nil
}

func (r *pharmacyRepository) List(ctx context.Context, filters *model.PharmacyFilters) ([]*model.Pharmacy, error) {
	query := `SELECT * FROM pharmacies WHERE TRUE`
	args := []interface{}{}

	if filters.IsActive != nil {
		query += fmt.Sprintf(" AND is_active = $%d", len(args)+1)
		args = append(args, *filters.IsActive)
	}

	if filters.Search != "" {
		query += fmt.Sprintf(
			" AND (name ILIKE $%d OR address ILIKE $%d OR email ILIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1,
		)
		args = append(args, "%"+filters.Search+"%")
	}

	query += " ORDER BY created_at DESC"

	pharmacies := []*model.Pharmacy{}
	if err := r.db.SelectContext(ctx, &pharmacies, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list pharmacies: %w", err)
	}

	return pharmacies, nil
}

func (r *pharmacyRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM pharmacies`)
}

func (r *pharmacyRepository) CountActive(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM pharmacies WHERE is_active = TRUE`)
}
