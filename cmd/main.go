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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/racedaynz/jockeyfinder/config"
	"github.com/racedaynz/jockeyfinder/db"
	"github.com/racedaynz/jockeyfinder/handlers"
	"github.com/racedaynz/jockeyfinder/live"
	"github.com/racedaynz/jockeyfinder/loveracing"
	"github.com/racedaynz/jockeyfinder/middleware"
	"github.com/racedaynz/jockeyfinder/repositories"
	api "github.com/racedaynz/jockeyfinder/routes"
	"github.com/racedaynz/jockeyfinder/services"
	"github.com/racedaynz/jockeyfinder/storage"
)

const syncWindowDays = 90

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

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

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("live hub started")

	profileRepo := repositories.NewPostgresProfileRepository(dbConn)
	meetingRepo := repositories.NewPostgresMeetingRepository(dbConn)
	attendanceRepo := repositories.NewPostgresAttendanceRepository(dbConn)
	requestRepo := repositories.NewPostgresRideRequestRepository(dbConn)
	documentRepo := repositories.NewPostgresVerificationDocumentRepository(dbConn)
	logger.Info("repositories initialized")

	gate := services.NewVerificationGate(profileRepo)
	authService := services.NewAuthService(profileRepo, documentRepo, uploader, logger)
	adminService := services.NewAdminService(gate, profileRepo, documentRepo, uploader, logger)
	attendanceService := services.NewAttendanceService(attendanceRepo, meetingRepo, gate)
	requestService := services.NewRideRequestService(dbConn, requestRepo, meetingRepo, attendanceService, gate, logger)
	queryService := services.NewRideRequestQueryService(requestRepo, meetingRepo, profileRepo, gate)
	rosterService := services.NewRosterService(attendanceRepo, profileRepo, meetingRepo, requestRepo, gate)

	calendarClient := loveracing.NewClient(cfg.LoveRacingURL)
	syncService := services.NewSyncService(calendarClient, meetingRepo, logger)
	logger.Info("services initialized")

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.SyncCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		now := time.Now().UTC()
		start := now.Format("2006-01-02")
		end := now.AddDate(0, 0, syncWindowDays).Format("2006-01-02")
		if _, err := syncService.SyncMeetings(ctx, start, end); err != nil {
			logger.Error("scheduled calendar sync failed", slog.Any("error", err))
		}
	})
	if err != nil {
		logger.Error("failed to schedule calendar sync", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()
	logger.Info("calendar sync scheduled", slog.String("cron", cfg.SyncCron))

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	meetingHandler := handlers.NewMeetingHandler(rosterService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService, hub)
	requestHandler := handlers.NewRideRequestHandler(requestService, queryService, hub)
	adminHandler := handlers.NewAdminHandler(adminService)
	syncHandler := handlers.NewSyncHandler(syncService)
	wsHandler := handlers.NewWebSocketHandler(hub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authenticator,
		authHandler,
		meetingHandler,
		attendanceHandler,
		requestHandler,
		adminHandler,
		syncHandler,
		wsHandler,
	)
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
