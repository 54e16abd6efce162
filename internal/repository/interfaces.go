package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vitanips/platform-api/internal/model"
)

// UserRepository persists platform accounts and answers the admin listing
// and reporting queries over them.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)

	Count(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error)
}

// MedicalHistoryRepository is owner-scoped: every query that takes a userID
// filters by it, so rows owned by other users read as absent.
type MedicalHistoryRepository interface {
	Create(ctx context.Context, record *model.MedicalHistory) error
	Get(ctx context.Context, id, userID uuid.UUID) (*model.MedicalHistory, error)
	Update(ctx context.Context, record *model.MedicalHistory) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.MedicalHistory, error)
}

// VaccinationRepository follows the same owner-scoping contract.
type VaccinationRepository interface {
	Create(ctx context.Context, vaccination *model.Vaccination) error
	Get(ctx context.Context, id, userID uuid.UUID) (*model.Vaccination, error)
	Update(ctx context.Context, vaccination *model.Vaccination) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Vaccination, error)
}

type DoctorRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	UpdateVerification(ctx context.Context, id uuid.UUID, verified bool) error
	List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error)

	Count(ctx context.Context) (int, error)
	CountVerified(ctx context.Context, verified bool) (int, error)
	TopSpecialties(ctx context.Context, limit int) ([]model.SpecialtyRank, error)
}

type PharmacyRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Pharmacy, error)
	UpdateActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, filters *model.PharmacyFilters) ([]*model.Pharmacy, error)

	Count(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
}

// AppointmentRepository is read-only: appointments are aggregation sources.
type AppointmentRepository interface {
	Count(ctx context.Context) (int, error)
	CountOnOrAfter(ctx context.Context, date time.Time) (int, error)
	CountOnDate(ctx context.Context, date time.Time) (int, error)
	CountByStatus(ctx context.Context) ([]model.StatusCount, error)
}

// OrderRepository is likewise read-only here.
type OrderRepository interface {
	Count(ctx context.Context) (int, error)
	CountWithStatus(ctx context.Context, status string) (int, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}
