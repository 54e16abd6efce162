package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Doctor is a practitioner profile, optionally linked one-to-one with a
// platform user. Email is projected from the linked user row, nil for
// unlinked profiles. Verification is flipped by admins only.
type Doctor struct {
	Base
	UserID            *uuid.UUID     `json:"user_id" db:"user_id"`
	FirstName         string         `json:"first_name" db:"first_name"`
	LastName          string         `json:"last_name" db:"last_name"`
	Email             *string        `json:"email" db:"email"`
	Specialties       pq.StringArray `json:"specialties" db:"specialties"`
	YearsOfExperience int            `json:"years_of_experience" db:"years_of_experience"`
	Education         string         `json:"education" db:"education"`
	Bio               string         `json:"bio" db:"bio"`
	ConsultationFee   *float64       `json:"consultation_fee" db:"consultation_fee"`
	IsVerified        bool           `json:"is_verified" db:"is_verified"`
}

// VerifyDoctorRequest flips the verification flag. The pointer matters:
// an absent is_verified is a validation error, not a no-op.
type VerifyDoctorRequest struct {
	IsVerified *bool `json:"is_verified"`
}

// DoctorFilters represents admin doctor search parameters
type DoctorFilters struct {
	Verified *bool
	Search   string
}
