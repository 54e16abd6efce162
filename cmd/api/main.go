package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/vitanips/platform-api/config"
	"github.com/vitanips/platform-api/internal/email"
	"github.com/vitanips/platform-api/internal/handler"
	adminHandler "github.com/vitanips/platform-api/internal/handler/admin"
	authHandler "github.com/vitanips/platform-api/internal/handler/auth"
	profileHandler "github.com/vitanips/platform-api/internal/handler/profile"
	"github.com/vitanips/platform-api/internal/middleware"
	"github.com/vitanips/platform-api/internal/repository/postgres"
	"github.com/vitanips/platform-api/internal/router"
	adminService "github.com/vitanips/platform-api/internal/service/admin"
	authService "github.com/vitanips/platform-api/internal/service/auth"
	eventService "github.com/vitanips/platform-api/internal/service/event"
	profileService "github.com/vitanips/platform-api/internal/service/profile"
	"github.com/vitanips/platform-api/pkg/auth"
	"github.com/vitanips/platform-api/pkg/logger"
	"github.com/vitanips/platform-api/pkg/messaging/redis"
	"github.com/vitanips/platform-api/pkg/metrics"
	"github.com/vitanips/platform-api/pkg/security"
	"github.com/vitanips/platform-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database.ToDatabaseConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	historyRepo := postgres.NewMedicalHistoryRepository(base)
	vaccineRepo := postgres.NewVaccinationRepository(base)
	doctorRepo := postgres.NewDoctorRepository(base)
	pharmacyRepo := postgres.NewPharmacyRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	orderRepo := postgres.NewOrderRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.ToJWTConfig())
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	emailSvc := email.NewService(cfg.Email.ToEmailConfig(), &log.Logger)
	eventSvc := eventService.NewService(outboxRepo)

	authSvc := authService.NewService(userRepo, jwtSvc, hasher, emailSvc, eventSvc)
	profileSvc := profileService.NewService(userRepo, historyRepo, vaccineRepo)
	adminSvc := adminService.NewService(
		userRepo,
		doctorRepo,
		pharmacyRepo,
		appointmentRepo,
		orderRepo,
		emailSvc,
		eventSvc,
	)

	// Handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	healthH := handler.NewHandler(db)
	authH := authHandler.NewHandler(authSvc)
	profileH := profileHandler.NewHandler(profileSvc)
	adminH := adminHandler.NewHandler(adminSvc)

	r := router.NewRouter(authMiddleware, authH, profileH, adminH, healthH, router.Config{
		RateLimit:     cfg.RateLimit.ToLimiterConfig(),
		CORSConfig:    cfg.CORS.ToCORSConfig(),
		Timeout:       cfg.Server.RequestTimeout,
		MetricsPrefix: "platform_api",
	})
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Outbox processor publishes staged events to Redis in the background.
	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	processorCtx, stopProcessor := context.WithCancel(context.Background())
	defer stopProcessor()

	outboxProcessor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		cfg.Outbox.ToWorkerConfig(),
		logger.NewLogger(nil),
		metrics.NewMetrics("platform", "api"),
	)
	go outboxProcessor.Start(processorCtx)

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	stopProcessor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
