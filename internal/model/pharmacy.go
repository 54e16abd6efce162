package model

// Pharmacy is an independent entity; only its active flag is mutable
// through the admin surface.
type Pharmacy struct {
	Base
	Name        string  `json:"name" db:"name"`
	Address     string  `json:"address" db:"address"`
	Email       *string `json:"email" db:"email"`
	PhoneNumber *string `json:"phone_number" db:"phone_number"`
	IsActive    bool    `json:"is_active" db:"is_active"`
}

// UpdatePharmacyRequest: an absent is_active is a no-op, not an error.
// Deliberately asymmetric with VerifyDoctorRequest.
type UpdatePharmacyRequest struct {
	IsActive *bool `json:"is_active"`
}

// PharmacyFilters represents admin pharmacy search parameters
type PharmacyFilters struct {
	IsActive *bool
	Search   string
}
