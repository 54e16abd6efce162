package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vitanips/platform-api/internal/model"
	"github.com/vitanips/platform-api/internal/repository"
	apperrors "github.com/vitanips/platform-api/pkg/errors"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, email, username, password_hash, first_name, last_name,
			is_active, is_staff, is_superuser, is_pharmacy_staff,
			notify_appointment_confirmation_email, notify_appointment_cancellation_email,
			notify_appointment_reminder_email, notify_prescription_update_email,
			notify_order_update_email, notify_appointment_reminder_sms,
			notify_appointment_reminder_push,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			user.ID,
			user.Email,
			user.Username,
			user.PasswordHash,
			user.FirstName,
			user.LastName,
			user.IsActive,
			user.IsStaff,
			user.IsSuperuser,
			user.IsPharmacyStaff,
			user.NotifyAppointmentConfirmationEmail,
			user.NotifyAppointmentCancellationEmail,
			user.NotifyAppointmentReminderEmail,
			user.NotifyPrescriptionUpdateEmail,
			user.NotifyOrderUpdateEmail,
			user.NotifyAppointmentReminderSMS,
			user.NotifyAppointmentReminderPush,
			user.CreatedAt,
			user.UpdatedAt,
		)
		return err
	})
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users SET
			first_name = $1,
			last_name = $2,
			phone_number = $3,
			address = $4,
			date_of_birth = $5,
			medical_history_summary = $6,
			blood_group = $7,
			genotype = $8,
			allergies = $9,
			chronic_conditions = $10,
			notify_appointment_confirmation_email = $11,
			notify_appointment_cancellation_email = $12,
			notify_appointment_reminder_email = $13,
			notify_prescription_update_email = $14,
			notify_order_update_email = $15,
			notify_appointment_reminder_sms = $16,
			notify_appointment_reminder_push = $17,
			is_active = $18,
			is_staff = $19,
			is_superuser = $20,
			is_pharmacy_staff = $21,
			updated_at = $22
		WHERE id = $23
	`

	result, err := r.db.ExecContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.PhoneNumber,
		user.Address,
		user.DateOfBirth,
		user.MedicalHistorySummary,
		user.BloodGroup,
		user.Genotype,
		user.Allergies,
		user.ChronicConditions,
		user.NotifyAppointmentConfirmationEmail,
		user.NotifyAppointmentCancellationEmail,
		user.NotifyAppointmentReminderEmail,
		user.NotifyPrescriptionUpdateEmail,
		user.NotifyOrderUpdateEmail,
		user.NotifyAppointmentReminderSMS,
		user.NotifyAppointmentReminderPush,
		user.IsActive,
		user.IsStaff,
		user.IsSuperuser,
		user.IsPharmacyStaff,
		time.Now(),
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("user", nil)
	}

	return nil
}

func (r *userRepository) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	query := `SELECT * FROM users WHERE TRUE`
	args := []interface{}{}

	switch filters.Role {
	case model.RoleAdmin:
		query += " AND (is_staff = TRUE OR is_superuser = TRUE)"
	case model.RoleDoctor:
		query += " AND EXISTS (SELECT 1 FROM doctors d WHERE d.user_id = users.id)"
	case model.RolePharmacy:
		query += " AND is_pharmacy_staff = TRUE"
	case model.RolePatient:
		query += ` AND is_staff = FALSE AND is_pharmacy_staff = FALSE
			AND NOT EXISTS (SELECT 1 FROM doctors d WHERE d.user_id = users.id)`
	}

	if filters.IsActive != nil {
		query += fmt.Sprintf(" AND is_active = $%d", len(args)+1)
		args = append(args, *filters.IsActive)
	}

	if filters.Search != "" {
		query += fmt.Sprintf(
			" AND (email ILIKE $%d OR username ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1, len(args)+1,
		)
		args = append(args, "%"+filters.Search+"%")
	}

	query += " ORDER BY created_at DESC"

	users := []*model.User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (r *userRepository) CountActive(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE is_active = TRUE`)
}

func (r *userRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE created_at >= $1`, since)
}

// CountCreatedBetween counts over the half-open interval [start, end).
func (r *userRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE created_at >= $1 AND created_at < $2`, start, end)
}
