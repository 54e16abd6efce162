package model

import (
	"time"
)

// Role filter values accepted by the admin user listing
const (
	RoleAdmin    = "admin"
	RoleDoctor   = "doctor"
	RolePharmacy = "pharmacy"
	RolePatient  = "patient"
)

// User represents a platform account. Role membership is carried by the
// boolean flags, not by a separate roles table: admins are staff or
// superusers, pharmacy staff have is_pharmacy_staff set, doctors are users
// with a linked Doctor profile, patients are everyone else.
type User struct {
	Base
	Email                 string     `json:"email" db:"email"`
	Username              string     `json:"username" db:"username"`
	PasswordHash          string     `json:"-" db:"password_hash"`
	FirstName             string     `json:"first_name" db:"first_name"`
	LastName              string     `json:"last_name" db:"last_name"`
	PhoneNumber           *string    `json:"phone_number" db:"phone_number"`
	Address               *string    `json:"address" db:"address"`
	DateOfBirth           *time.Time `json:"date_of_birth" db:"date_of_birth"`
	MedicalHistorySummary *string    `json:"medical_history_summary" db:"medical_history_summary"`
	BloodGroup            *string    `json:"blood_group" db:"blood_group"`
	Genotype              *string    `json:"genotype" db:"genotype"`
	Allergies             *string    `json:"allergies" db:"allergies"`
	ChronicConditions     *string    `json:"chronic_conditions" db:"chronic_conditions"`

	NotifyAppointmentConfirmationEmail bool `json:"notify_appointment_confirmation_email" db:"notify_appointment_confirmation_email"`
	NotifyAppointmentCancellationEmail bool `json:"notify_appointment_cancellation_email" db:"notify_appointment_cancellation_email"`
	NotifyAppointmentReminderEmail     bool `json:"notify_appointment_reminder_email" db:"notify_appointment_reminder_email"`
	NotifyPrescriptionUpdateEmail      bool `json:"notify_prescription_update_email" db:"notify_prescription_update_email"`
	NotifyOrderUpdateEmail             bool `json:"notify_order_update_email" db:"notify_order_update_email"`
	NotifyAppointmentReminderSMS       bool `json:"notify_appointment_reminder_sms" db:"notify_appointment_reminder_sms"`
	NotifyAppointmentReminderPush      bool `json:"notify_appointment_reminder_push" db:"notify_appointment_reminder_push"`

	IsActive        bool `json:"is_active" db:"is_active"`
	IsStaff         bool `json:"is_staff" db:"is_staff"`
	IsSuperuser     bool `json:"is_superuser" db:"is_superuser"`
	IsPharmacyStaff bool `json:"is_pharmacy_staff" db:"is_pharmacy_staff"`
}

// IsAdmin reports whether the user may access the admin endpoints.
func (u *User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}

// RegisterRequest represents open registration parameters
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

// UpdateProfileRequest is the allow-list of self-service profile fields.
// Fields outside this set submitted by the client are dropped by the JSON
// decode and never reach the row.
type UpdateProfileRequest struct {
	FirstName             *string    `json:"first_name"`
	LastName              *string    `json:"last_name"`
	PhoneNumber           *string    `json:"phone_number"`
	Address               *string    `json:"address"`
	DateOfBirth           *time.Time `json:"date_of_birth"`
	MedicalHistorySummary *string    `json:"medical_history_summary"`
	BloodGroup            *string    `json:"blood_group" binding:"omitempty,bloodgroup"`
	Genotype              *string    `json:"genotype" binding:"omitempty,genotype"`
	Allergies             *string    `json:"allergies"`
	ChronicConditions     *string    `json:"chronic_conditions"`

	NotifyAppointmentConfirmationEmail *bool `json:"notify_appointment_confirmation_email"`
	NotifyAppointmentCancellationEmail *bool `json:"notify_appointment_cancellation_email"`
	NotifyAppointmentReminderEmail     *bool `json:"notify_appointment_reminder_email"`
	NotifyPrescriptionUpdateEmail      *bool `json:"notify_prescription_update_email"`
	NotifyOrderUpdateEmail             *bool `json:"notify_order_update_email"`
	NotifyAppointmentReminderSMS       *bool `json:"notify_appointment_reminder_sms"`
	NotifyAppointmentReminderPush      *bool `json:"notify_appointment_reminder_push"`
}

// UpdateUserFlagsRequest is the admin allow-list: only these four flags are
// mutable through the admin user patch. Anything else in the body is ignored.
type UpdateUserFlagsRequest struct {
	IsActive        *bool `json:"is_active"`
	IsStaff         *bool `json:"is_staff"`
	IsSuperuser     *bool `json:"is_superuser"`
	IsPharmacyStaff *bool `json:"is_pharmacy_staff"`
}

// UserFilters represents admin user search parameters
type UserFilters struct {
	Role     string
	IsActive *bool
	Search   string
}
