package model

// PlatformStats is the admin dashboard snapshot. Counts are recomputed from
// the live store on every call; consistency across counts is only as strong
// as the store's read isolation.
type PlatformStats struct {
	Users        UserStats        `json:"users"`
	Doctors      DoctorStats      `json:"doctors"`
	Pharmacies   PharmacyStats    `json:"pharmacies"`
	Appointments AppointmentStats `json:"appointments"`
	Orders       OrderStats       `json:"orders"`
}

type UserStats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	NewThisMonth int `json:"new_this_month"`
	Inactive     int `json:"inactive"`
}

type DoctorStats struct {
	Total               int `json:"total"`
	Verified            int `json:"verified"`
	PendingVerification int `json:"pending_verification"`
}

type PharmacyStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

type AppointmentStats struct {
	Total     int `json:"total"`
	ThisMonth int `json:"this_month"`
	Today     int `json:"today"`
}

type OrderStats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
}

// Analytics carries the chart series for the admin dashboard.
type Analytics struct {
	UserGrowth           []MonthlyCount  `json:"user_growth"`
	AppointmentsByStatus []StatusCount   `json:"appointments_by_status"`
	TopSpecialties       []SpecialtyRank `json:"top_specialties"`
}

// MonthlyCount is one point in the trailing user-growth series.
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type StatusCount struct {
	Status string `json:"status" db:"status"`
	Count  int    `json:"count" db:"count"`
}

type SpecialtyRank struct {
	Specialty string `json:"specialty" db:"specialty"`
	Count     int    `json:"count" db:"count"`
}
