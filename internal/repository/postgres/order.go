package postgres

import (
	"context"

	"github.com/vitanips/platform-api/internal/repository"
)

type orderRepository struct {
	BaseRepository
}

func NewOrderRepository(base BaseRepository) repository.OrderRepository {
	return &orderRepository{base}
}

func (r *orderRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM medication_orders`)
}

func (r *orderRepository) CountWithStatus(ctx context.Context, status string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM medication_orders WHERE status = $1`, status)
}
