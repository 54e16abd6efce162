package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vitanips/platform-api/internal/email"
	"github.com/vitanips/platform-api/internal/model"
	"github.com/vitanips/platform-api/internal/repository"
	"github.com/vitanips/platform-api/internal/service/event"
)

const topSpecialtiesLimit = 5

// Service backs the admin dashboard: platform statistics, chart analytics,
// and restricted management of users, doctors, and pharmacies.
type Service struct {
	userRepo        repository.UserRepository
	doctorRepo      repository.DoctorRepository
	pharmacyRepo    repository.PharmacyRepository
	appointmentRepo repository.AppointmentRepository
	orderRepo       repository.OrderRepository
	emailSvc        email.Service
	events          *event.Service

	// now is injected so reporting windows can be pinned in tests.
	now func() time.Time
}

func NewService(
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	pharmacyRepo repository.PharmacyRepository,
	appointmentRepo repository.AppointmentRepository,
	orderRepo repository.OrderRepository,
	emailSvc email.Service,
	events *event.Service,
) *Service {
	return &Service{
		userRepo:        userRepo,
		doctorRepo:      doctorRepo,
		pharmacyRepo:    pharmacyRepo,
		appointmentRepo: appointmentRepo,
		orderRepo:       orderRepo,
		emailSvc:        emailSvc,
		events:          events,
		now:             time.Now,
	}
}

// GetStats recomputes every dashboard count from the live store. Counts are
// not taken in one transaction; a dashboard snapshot tolerates small skew.
func (s *Service) GetStats(ctx context.Context) (*model.PlatformStats, error) {
	today := dateOf(s.now())
	monthStart := firstOfMonth(today)

	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	activeUsers, err := s.userRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}
	newUsers, err := s.userRepo.CountCreatedSince(ctx, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count new users: %w", err)
	}

	totalDoctors, err := s.doctorRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count doctors: %w", err)
	}
	verifiedDoctors, err := s.doctorRepo.CountVerified(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to count verified doctors: %w", err)
	}
	pendingDoctors, err := s.doctorRepo.CountVerified(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending doctors: %w", err)
	}

	totalPharmacies, err := s.pharmacyRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count pharmacies: %w", err)
	}
	activePharmacies, err := s.pharmacyRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active pharmacies: %w", err)
	}

	totalAppointments, err := s.appointmentRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}
	monthAppointments, err := s.appointmentRepo.CountOnOrAfter(ctx, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count appointments this month: %w", err)
	}
	todayAppointments, err := s.appointmentRepo.CountOnDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to count appointments today: %w", err)
	}

	totalOrders, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	pendingOrders, err := s.orderRepo.CountWithStatus(ctx, model.OrderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	return &model.PlatformStats{
		Users: model.UserStats{
			Total:        totalUsers,
			Active:       activeUsers,
			NewThisMonth: newUsers,
			Inactive:     totalUsers - activeUsers,
		},
		Doctors: model.DoctorStats{
			Total:               totalDoctors,
			Verified:            verifiedDoctors,
			PendingVerification: pendingDoctors,
		},
		Pharmacies: model.PharmacyStats{
			Total:    totalPharmacies,
			Active:   activePharmacies,
			Inactive: totalPharmacies - activePharmacies,
		},
		Appointments: model.AppointmentStats{
			Total:     totalAppointments,
			ThisMonth: monthAppointments,
			Today:     todayAppointments,
		},
		Orders: model.OrderStats{
			Total:   totalOrders,
			Pending: pendingOrders,
		},
	}, nil
}

// GetAnalytics assembles the dashboard chart series: the trailing 12-point
// user-growth series, appointments grouped by status, and the five largest
// specialty groups.
func (s *Service) GetAnalytics(ctx context.Context) (*model.Analytics, error) {
	today := dateOf(s.now())

	growth := make([]model.MonthlyCount, 0, 12)
	for _, w := range trailingMonthWindows(today) {
		count, err := s.userRepo.CountCreatedBetween(ctx, w.start, w.end)
		if err != nil {
			return nil, fmt.Errorf("failed to count user growth: %w", err)
		}
		growth = append(growth, model.MonthlyCount{Month: w.label, Count: count})
	}

	byStatus, err := s.appointmentRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to group appointments: %w", err)
	}

	specialties, err := s.doctorRepo.TopSpecialties(ctx, topSpecialtiesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank specialties: %w", err)
	}

	return &model.Analytics{
		UserGrowth:           growth,
		AppointmentsByStatus: byStatus,
		TopSpecialties:       specialties,
	}, nil
}

type monthWindow struct {
	start time.Time
	end   time.Time
	label string
}

// trailingMonthWindows reproduces the dashboard's historical bucketing: each
// point steps back a fixed 30 days per index and snaps to the first of that
// month, with a half-open [start, next-first) interval. Because the step is
// 30 days rather than a calendar month, buckets near month boundaries can
// skip or repeat a month. Known defect kept for output compatibility with
// the existing dashboard; do not "fix" without changing the frontend too.
func trailingMonthWindows(today time.Time) []monthWindow {
	windows := make([]monthWindow, 0, 12)
	for i := 12; i >= 1; i-- {
		monthDate := today.AddDate(0, 0, -30*i)
		start := firstOfMonth(monthDate)
		end := firstOfMonth(start.AddDate(0, 0, 32))
		windows = append(windows, monthWindow{
			start: start,
			end:   end,
			label: start.Format("Jan 2006"),
		})
	}
	return windows
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// --- User management ---

func (s *Service) ListUsers(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	return s.userRepo.List(ctx, filters)
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.userRepo.Get(ctx, id)
}

// PatchUserFlags applies the four-flag allow-list. Each flag present in the
// request is written unconditionally, even when unchanged; everything else
// in the body never reaches this method.
func (s *Service) PatchUserFlags(ctx context.Context, id uuid.UUID, req *model.UpdateUserFlagsRequest) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsStaff != nil {
		user.IsStaff = *req.IsStaff
	}
	if req.IsSuperuser != nil {
		user.IsSuperuser = *req.IsSuperuser
	}
	if req.IsPharmacyStaff != nil {
		user.IsPharmacyStaff = *req.IsPharmacyStaff
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.events.Emit(ctx, model.EventUserFlagsPatched, user); err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to emit user flags event")
	}

	return user, nil
}

// --- Doctor management ---

func (s *Service) ListDoctors(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error) {
	return s.doctorRepo.List(ctx, filters)
}

func (s *Service) VerifyDoctor(ctx context.Context, id uuid.UUID, verified bool) (*model.Doctor, error) {
	if err := s.doctorRepo.UpdateVerification(ctx, id, verified); err != nil {
		return nil, err
	}

	doctor, err := s.doctorRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.events.Emit(ctx, model.EventDoctorVerified, doctor); err != nil {
		log.Error().Err(err).Str("doctor_id", doctor.ID.String()).Msg("failed to emit doctor verification event")
	}

	if doctor.Email != nil {
		go func(to string, verified bool) {
			if err := s.emailSvc.SendDoctorVerificationEmail(to, verified); err != nil {
				log.Error().Err(err).Str("email", to).Msg("failed to send doctor verification email")
			}
		}(*doctor.Email, verified)
	}

	return doctor, nil
}

// --- Pharmacy management ---

func (s *Service) ListPharmacies(ctx context.Context, filters *model.PharmacyFilters) ([]*model.Pharmacy, error) {
	return s.pharmacyRepo.List(ctx, filters)
}

// PatchPharmacy updates the active flag when present and is a no-op
// otherwise. The no-op still 200s with the current row: deliberately
// different from doctor verification, where an absent flag is an error.
func (s *Service) PatchPharmacy(ctx context.Context, id uuid.UUID, req *model.UpdatePharmacyRequest) (*model.Pharmacy, error) {
	if req.IsActive != nil {
		if err := s.pharmacyRepo.UpdateActive(ctx, id, *req.IsActive); err != nil {
			return nil, err
		}
	}

	pharmacy, err := s.pharmacyRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.IsActive != nil {
		if err := s.events.Emit(ctx, model.EventPharmacyPatched, pharmacy); err != nil {
			log.Error().Err(err).Str("pharmacy_id", pharmacy.ID.String()).Msg("failed to emit pharmacy event")
		}
	}

	return pharmacy, nil
}
