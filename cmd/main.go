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

	"github.com/paddleup/pickleplay/config"
	"github.com/paddleup/pickleplay/db"
	"github.com/paddleup/pickleplay/handlers"
	"github.com/paddleup/pickleplay/realtime"
	"github.com/paddleup/pickleplay/repositories"
	api "github.com/paddleup/pickleplay/routes"
	"github.com/paddleup/pickleplay/scheduler"
	"github.com/paddleup/pickleplay/services"
	"github.com/paddleup/pickleplay/storage"
)

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

	// Object storage is optional; without it profiles keep working but
	// avatar URLs stay empty.
	var uploader storage.FileUploader
	if cfg.StorageConfigured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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
	} else {
		logger.Warn("object storage not configured, avatar uploads disabled")
	}

	hub := realtime.NewHub(logger)
	go hub.Run()
	logger.Info("WebSocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	waitlistRepo := repositories.NewPostgresWaitlistRepository(dbConn)
	txRunner := db.NewTxRunner(dbConn)
	logger.Info("repositories initialized")

	notifier := realtime.NewHubNotifier(hub)
	waitlistService := services.NewWaitlistService(
		txRunner,
		waitlistRepo,
		tournamentRepo,
		leagueRepo,
		userRepo,
		notifier,
		uploader,
		logger,
	)
	scheduleService := services.NewScheduleService(logger)
	userService := services.NewUserService(userRepo, uploader, logger)
	logger.Info("services initialized")

	sched, err := scheduler.New(logger)
	if err != nil {
		logger.Error("failed to create scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	_, err = sched.AddJob("waitlist-offer-expiry", cfg.WaitlistSweepCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		expired, err := waitlistService.ExpireOldSpotOffers(ctx)
		if err != nil {
			logger.Error("spot offer expiry sweep failed", slog.Any("error", err))
			return
		}
		if expired > 0 {
			logger.Info("spot offers expired", slog.Int("count", expired))
		}
	})
	if err != nil {
		logger.Error("failed to register expiry sweep", slog.Any("error", err))
		os.Exit(1)
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			logger.Error("failed to stop scheduler", slog.Any("error", err))
		}
	}()

	router := api.SetupRoutes(api.Handlers{
		Waitlist:  handlers.NewWaitlistHandler(waitlistService, logger),
		Schedule:  handlers.NewScheduleHandler(scheduleService, logger),
		User:      handlers.NewUserHandler(userService, logger),
		WebSocket: handlers.NewWebSocketHandler(hub, logger),
	}, cfg.JWTSecretKey, cfg.CORSAllowedOrigins)
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
