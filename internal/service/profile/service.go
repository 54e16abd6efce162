package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vitanips/platform-api/internal/model"
	"github.com/vitanips/platform-api/internal/repository"
)

// Service covers the authenticated user's own profile and owner-scoped
// records. Every method takes the requester's id and scopes all queries to
// it: there is no code path that reads or writes another user's rows.
type Service struct {
	userRepo    repository.UserRepository
	historyRepo repository.MedicalHistoryRepository
	vaccineRepo repository.VaccinationRepository
}

func NewService(
	userRepo repository.UserRepository,
	historyRepo repository.MedicalHistoryRepository,
	vaccineRepo repository.VaccinationRepository,
) *Service {
	return &Service{
		userRepo:    userRepo,
		historyRepo: historyRepo,
		vaccineRepo: vaccineRepo,
	}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.userRepo.Get(ctx, userID)
}

// UpdateProfile applies the allow-listed profile fields. Fields absent from
// the request keep their stored value.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.DateOfBirth != nil {
		user.DateOfBirth = req.DateOfBirth
	}
	if req.MedicalHistorySummary != nil {
		user.MedicalHistorySummary = req.MedicalHistorySummary
	}
	if req.BloodGroup != nil {
		user.BloodGroup = req.BloodGroup
	}
	if req.Genotype != nil {
		user.Genotype = req.Genotype
	}
	if req.Allergies != nil {
		user.Allergies = req.Allergies
	}
	if req.ChronicConditions != nil {
		user.ChronicConditions = req.ChronicConditions
	}

	if req.NotifyAppointmentConfirmationEmail != nil {
		user.NotifyAppointmentConfirmationEmail = *req.NotifyAppointmentConfirmationEmail
	}
	if req.NotifyAppointmentCancellationEmail != nil {
		user.NotifyAppointmentCancellationEmail = *req.NotifyAppointmentCancellationEmail
	}
	if req.NotifyAppointmentReminderEmail != nil {
		user.NotifyAppointmentReminderEmail = *req.NotifyAppointmentReminderEmail
	}
	if req.NotifyPrescriptionUpdateEmail != nil {
		user.NotifyPrescriptionUpdateEmail = *req.NotifyPrescriptionUpdateEmail
	}
	if req.NotifyOrderUpdateEmail != nil {
		user.NotifyOrderUpdateEmail = *req.NotifyOrderUpdateEmail
	}
	if req.NotifyAppointmentReminderSMS != nil {
		user.NotifyAppointmentReminderSMS = *req.NotifyAppointmentReminderSMS
	}
	if req.NotifyAppointmentReminderPush != nil {
		user.NotifyAppointmentReminderPush = *req.NotifyAppointmentReminderPush
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.List(ctx, &model.UserFilters{})
}

// --- Medical history ---

func (s *Service) ListMedicalHistory(ctx context.Context, userID uuid.UUID) ([]*model.MedicalHistory, error) {
	return s.historyRepo.ListByUser(ctx, userID)
}

// CreateMedicalHistory forces ownership to the requester. The request type
// carries no user field, so a spoofed owner can never reach the row.
func (s *Service) CreateMedicalHistory(ctx context.Context, userID uuid.UUID, req *model.MedicalHistoryRequest) (*model.MedicalHistory, error) {
	record := &model.MedicalHistory{
		UserID:        userID,
		Condition:     req.Condition,
		DiagnosisDate: req.DiagnosisDate,
		Treatment:     req.Treatment,
		Notes:         req.Notes,
		IsActive:      true,
	}
	if req.IsActive != nil {
		record.IsActive = *req.IsActive
	}

	if err := s.historyRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) GetMedicalHistory(ctx context.Context, id, userID uuid.UUID) (*model.MedicalHistory, error) {
	return s.historyRepo.Get(ctx, id, userID)
}

func (s *Service) UpdateMedicalHistory(ctx context.Context, id, userID uuid.UUID, req *model.MedicalHistoryRequest) (*model.MedicalHistory, error) {
	record, err := s.historyRepo.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	record.Condition = req.Condition
	record.DiagnosisDate = req.DiagnosisDate
	record.Treatment = req.Treatment
	record.Notes = req.Notes
	if req.IsActive != nil {
		record.IsActive = *req.IsActive
	}

	if err := s.historyRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) DeleteMedicalHistory(ctx context.Context, id, userID uuid.UUID) error {
	return s.historyRepo.Delete(ctx, id, userID)
}

// --- Vaccinations ---

func (s *Service) ListVaccinations(ctx context.Context, userID uuid.UUID) ([]*model.Vaccination, error) {
	return s.vaccineRepo.ListByUser(ctx, userID)
}

func (s *Service) CreateVaccination(ctx context.Context, userID uuid.UUID, req *model.VaccinationRequest) (*model.Vaccination, error) {
	vaccination := &model.Vaccination{
		UserID:           userID,
		VaccineName:      req.VaccineName,
		DateAdministered: req.DateAdministered,
		DoseNumber:       1,
		NextDoseDate:     req.NextDoseDate,
		AdministeredAt:   req.AdministeredAt,
		BatchNumber:      req.BatchNumber,
		Notes:            req.Notes,
	}
	if req.DoseNumber != nil {
		vaccination.DoseNumber = *req.DoseNumber
	}

	if err := s.vaccineRepo.Create(ctx, vaccination); err != nil {
		return nil, err
	}
	return vaccination, nil
}

func (s *Service) GetVaccination(ctx context.Context, id, userID uuid.UUID) (*model.Vaccination, error) {
	return s.vaccineRepo.Get(ctx, id, userID)
}

func (s *Service) UpdateVaccination(ctx context.Context, id, userID uuid.UUID, req *model.VaccinationRequest) (*model.Vaccination, error) {
	vaccination, err := s.vaccineRepo.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	vaccination.VaccineName = req.VaccineName
	vaccination.DateAdministered = req.DateAdministered
	vaccination.NextDoseDate = req.NextDoseDate
	vaccination.AdministeredAt = req.AdministeredAt
	vaccination.BatchNumber = req.BatchNumber
	vaccination.Notes = req.Notes
	if req.DoseNumber != nil {
		vaccination.DoseNumber = *req.DoseNumber
	}

	if err := s.vaccineRepo.Update(ctx, vaccination); err != nil {
		return nil, err
	}
	return vaccination, nil
}

func (s *Service) DeleteVaccination(ctx context.Context, id, userID uuid.UUID) error {
	return s.vaccineRepo.Delete(ctx, id, userID)
}
