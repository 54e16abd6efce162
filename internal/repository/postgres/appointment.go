package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vitanips/platform-api/internal/model"
	"github.com/vitanips/platform-api/internal/repository"
)

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

func (r *appointmentRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM appointments`)
}

func (r *appointmentRepository) CountOnOrAfter(ctx context.Context, date time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM appointments WHERE date >= $1`, date)
}

func (r *appointmentRepository) CountOnDate(ctx context.Context, date time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM appointments WHERE date = $1`, date)
}

// CountByStatus groups every appointment row by status. Group order is
// whatever the store returns.
func (r *appointmentRepository) CountByStatus(ctx context.Context) ([]model.StatusCount, error) {
	query := `SELECT status, COUNT(id) AS count FROM appointments GROUP BY status`

	counts := []model.StatusCount{}
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to count appointments by status: %w", err)
	}

	return counts, nil
}
