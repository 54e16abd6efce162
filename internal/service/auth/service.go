package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vitanips/platform-api/internal/email"
	"github.com/vitanips/platform-api/internal/model"
	"github.com/vitanips/platform-api/internal/repository"
	"github.com/vitanips/platform-api/internal/service/event"
	"github.com/vitanips/platform-api/pkg/auth"
	apperrors "github.com/vitanips/platform-api/pkg/errors"
	"github.com/vitanips/platform-api/pkg/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
	emailSvc email.Service
	events   *event.Service
}

func NewService(
	userRepo repository.UserRepository,
	jwtSvc auth.JWTService,
	hasher security.PasswordHasher,
	emailSvc email.Service,
	events *event.Service,
) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		hasher:   hasher,
		emailSvc: emailSvc,
		events:   events,
	}
}

// Register creates an account from an open registration request. New users
// start active with no staff or pharmacy privileges.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if req.Password != req.PasswordConfirm {
		return nil, apperrors.BadRequest("passwords must match", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return nil, apperrors.BadRequest("password too short", err)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,

		NotifyAppointmentConfirmationEmail: true,
		NotifyAppointmentCancellationEmail: true,
		NotifyAppointmentReminderEmail:     true,
		NotifyPrescriptionUpdateEmail:      true,
		NotifyOrderUpdateEmail:             true,
		NotifyAppointmentReminderPush:      true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.events.Emit(ctx, model.EventUserRegistered, user); err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to emit registration event")
	}

	go func() {
		if err := s.emailSvc.SendVerificationEmail(user.Email, user.Username); err != nil {
			log.Error().Err(err).Str("email", user.Email).Msg("failed to send verification email")
		}
	}()

	return user, nil
}

// Login verifies credentials and issues a token pair. Unknown email and bad
// password are deliberately indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", ErrInvalidCredentials)
	}

	if !user.IsActive {
		return nil, apperrors.Unauthorized("invalid credentials", ErrInvalidCredentials)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", ErrInvalidCredentials)
	}

	return s.generateTokens(user.ID, user.Email, user.IsAdmin())
}

// Refresh exchanges a valid refresh token for a fresh pair. Admin status is
// re-read from the store so a revoked admin cannot mint admin tokens.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token", err)
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token", err)
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("invalid refresh token", ErrInvalidCredentials)
	}

	return s.generateTokens(user.ID, user.Email, user.IsAdmin())
}

func (s *Service) generateTokens(userID uuid.UUID, userEmail string, isAdmin bool) (*model.TokenResponse, error) {
	access, err := s.jwtSvc.GenerateAccessToken(userID, userEmail, isAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.jwtSvc.GenerateRefreshToken(userID, userEmail, isAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
