package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/classroom-backend/internal/adminsite"
	"github.com/stemsi/classroom-backend/internal/config"
	"github.com/stemsi/classroom-backend/internal/database"
	"github.com/stemsi/classroom-backend/internal/handler"
	"github.com/stemsi/classroom-backend/internal/logger"
	"github.com/stemsi/classroom-backend/internal/repository"
	"github.com/stemsi/classroom-backend/internal/router"
	"github.com/stemsi/classroom-backend/internal/service"
	"github.com/stemsi/classroom-backend/internal/validator"
	"github.com/stemsi/classroom-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Classroom Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	classRepo := repository.NewUserClassRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	actionLogRepo := repository.NewActionLogRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	manager := service.NewUserManager(userRepo, cfg.BcryptCost)
	authService := service.NewAuthService(cfg, rdb, userRepo, manager, log)
	userService := service.NewUserService(userRepo, manager, authService, log)
	classService := service.NewUserClassService(classRepo)
	assignmentService := service.NewAssignmentService(assignmentRepo, userRepo)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, userRepo)
	actionLogService := service.NewActionLogService(rdb, actionLogRepo, log)
	siteService := service.NewSiteService(cfg, rdb, adminsite.Default, map[string]service.Counter{
		adminsite.ModelUserClasses: classRepo,
		adminsite.ModelUsers:       userRepo,
		adminsite.ModelAssignments: assignmentRepo,
		adminsite.ModelSubmissions: submissionRepo,
	}, actionLogService, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	audit := handler.NewAuditor(actionLogService, siteService)
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, userService),
		Site:       handler.NewSiteHandler(siteService),
		Class:      handler.NewUserClassHandler(classService, audit),
		User:       handler.NewUserHandler(userService, audit),
		Assignment: handler.NewAssignmentHandler(assignmentService, audit),
		Submission: handler.NewSubmissionHandler(submissionService, audit),
		ActionLog:  handler.NewActionLogHandler(actionLogService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	actionLogWorker := worker.NewActionLogWorker(actionLogRepo, rdb, log)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		actionLogWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the action log worker and let it flush its last batch.
	cancel()
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(5 * time.Second):
		log.Warn().Msg("Action log worker did not stop in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
