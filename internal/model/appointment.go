package model

import (
	"time"

	"github.com/google/uuid"
)

// Appointment rows are read-only here: the reporting service counts and
// groups them, nothing more.
type Appointment struct {
	Base
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	DoctorID uuid.UUID `json:"doctor_id" db:"doctor_id"`
	Date     time.Time `json:"date" db:"date"`
	Status   string    `json:"status" db:"status"`
}

// MedicationOrder rows are likewise aggregation sources only.
type MedicationOrder struct {
	Base
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	PharmacyID uuid.UUID `json:"pharmacy_id" db:"pharmacy_id"`
	Status     string    `json:"status" db:"status"`
}

const OrderStatusPending = "pending"
