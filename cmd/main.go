package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aidana07/volunteer-hub/config"
	"github.com/Aidana07/volunteer-hub/db"
	"github.com/Aidana07/volunteer-hub/handlers"
	"github.com/Aidana07/volunteer-hub/reconcile"
	"github.com/Aidana07/volunteer-hub/repositories"
	"github.com/Aidana07/volunteer-hub/routes"
	"github.com/Aidana07/volunteer-hub/services"
	"github.com/Aidana07/volunteer-hub/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

const schedulerInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	wsHub := reconcile.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	membershipRepo := repositories.NewPostgresMembershipRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	evaluationRepo := repositories.NewPostgresEvaluationRepository(dbConn)
	notificationRepo := repositories.NewPostgresNotificationRepository(dbConn)
	inviteRepo := repositories.NewPostgresInviteRepository(dbConn)
	logger.Info("repositories initialized")

	emailService := services.NewEmailService(cfg)
	notificationService := services.NewNotificationService(notificationRepo, wsHub)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, uploader)
	eventService := services.NewEventService(eventRepo, registrationRepo, notificationService, uploader, wsHub, logger)
	teamService := services.NewTeamService(teamRepo, membershipRepo, eventRepo, registrationRepo, userRepo, notificationService, logger)
	registrationService := services.NewRegistrationService(registrationRepo, eventRepo, notificationService, logger)
	evaluationService := services.NewEvaluationService(evaluationRepo, teamRepo, membershipRepo, eventRepo, notificationService, logger)
	participationService := services.NewParticipationService(membershipRepo, teamRepo, registrationRepo, evaluationRepo, logger)
	inviteService := services.NewInviteService(inviteRepo, teamRepo, membershipRepo, emailService, logger)
	dashboardService := services.NewDashboardService(userRepo, eventRepo, teamRepo, registrationRepo, evaluationRepo)
	logger.Info("services initialized")

	// Background scheduler: complete ended events and purge stale invites.
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("scheduler started", slog.Duration("interval", schedulerInterval))

		run := func() {
			if err := eventService.AutoCompleteEndedEvents(context.Background()); err != nil {
				logger.Error("scheduler: event auto-completion failed", slog.Any("error", err))
			}
			if deleted, err := inviteService.PurgeExpired(context.Background()); err != nil {
				logger.Error("scheduler: invite purge failed", slog.Any("error", err))
			} else if deleted > 0 {
				logger.Info("scheduler: purged expired invites", slog.Int64("count", deleted))
			}
		}

		run()
		for range ticker.C {
			run()
		}
	}()

	h := routes.Handlers{
		Auth:          handlers.NewAuthHandler(authService, emailService, cfg.JWTSecretKey, logger),
		User:          handlers.NewUserHandler(userService),
		Event:         handlers.NewEventHandler(eventService),
		Team:          handlers.NewTeamHandler(teamService),
		Registration:  handlers.NewRegistrationHandler(registrationService),
		Evaluation:    handlers.NewEvaluationHandler(evaluationService),
		Participation: handlers.NewParticipationHandler(participationService),
		Notification:  handlers.NewNotificationHandler(notificationService),
		Invite:        handlers.NewInviteHandler(inviteService),
		Dashboard:     handlers.NewDashboardHandler(dashboardService),
		WebSocket:     handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigin, logger),
	}
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	routes.SetupRoutes(router, h, cfg.JWTSecretKey, cfg.CORSAllowedOrigin)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
