package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicalHistory is an owner-scoped record: every read and write is
// filtered by the owning user's id, so a record that exists but belongs to
// someone else is indistinguishable from one that does not exist.
type MedicalHistory struct {
	Base
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Condition     string    `json:"condition" db:"condition"`
	DiagnosisDate time.Time `json:"diagnosis_date" db:"diagnosis_date"`
	Treatment     *string   `json:"treatment" db:"treatment"`
	Notes         *string   `json:"notes" db:"notes"`
	IsActive      bool      `json:"is_active" db:"is_active"`
}

// Vaccination is owner-scoped the same way as MedicalHistory.
type Vaccination struct {
	Base
	UserID           uuid.UUID  `json:"user_id" db:"user_id"`
	VaccineName      string     `json:"vaccine_name" db:"vaccine_name"`
	DateAdministered time.Time  `json:"date_administered" db:"date_administered"`
	DoseNumber       int        `json:"dose_number" db:"dose_number"`
	NextDoseDate     *time.Time `json:"next_dose_date" db:"next_dose_date"`
	AdministeredAt   *string    `json:"administered_at" db:"administered_at"`
	BatchNumber      *string    `json:"batch_number" db:"batch_number"`
	Notes            *string    `json:"notes" db:"notes"`
}

// MedicalHistoryRequest carries create/update payloads. It has no user_id
// field on purpose: ownership always comes from the authenticated requester.
type MedicalHistoryRequest struct {
	Condition     string    `json:"condition" binding:"required"`
	DiagnosisDate time.Time `json:"diagnosis_date" binding:"required"`
	Treatment     *string   `json:"treatment"`
	Notes         *string   `json:"notes"`
	IsActive      *bool     `json:"is_active"`
}

type VaccinationRequest struct {
	VaccineName      string     `json:"vaccine_name" binding:"required"`
	DateAdministered time.Time  `json:"date_administered" binding:"required"`
	DoseNumber       *int       `json:"dose_number"`
	NextDoseDate     *time.Time `json:"next_dose_date"`
	AdministeredAt   *string    `json:"administered_at"`
	BatchNumber      *string    `json:"batch_number"`
	Notes            *string    `json:"notes"`
}
