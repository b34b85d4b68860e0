package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/stemsi/classroom-backend/internal/config"
	"github.com/stemsi/classroom-backend/internal/database"
	"github.com/stemsi/classroom-backend/internal/logger"
	"github.com/stemsi/classroom-backend/internal/repository"
	"github.com/stemsi/classroom-backend/internal/service"
)

func main() {
	var email string
	flag.StringVar(&email, "email", "", "Email of the account to promote")
	flag.Parse()

	if email == "" {
		fmt.Println("Usage: promote-superuser -email <address>")
		os.Exit(2)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

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

	userRepo := repository.NewUserRepository(pool)
	manager := service.NewUserManager(userRepo, cfg.BcryptCost)
	authService := service.NewAuthService(cfg, rdb, userRepo, manager, log)

	fmt.Println("=== Promote Superuser ===")
	fmt.Printf("Granting staff, superuser and the ADMIN role to %s.\n", email)

	normalized := service.NormalizeEmail(email)
	if err := userRepo.PromoteToSuperuser(ctx, normalized); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			fmt.Printf("Error: no user with email %s\n", normalized)
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("Failed to promote user")
	}

	user, err := userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to reload user")
	}

	// The old token still carries the old permissions.
	if err := authService.ResetSession(ctx, user.ID); err != nil {
		log.Warn().Err(err).Int("user_id", user.ID).Msg("Failed to reset session")
	}

	fmt.Printf("\nSuccess! %s (ID %d) now has full console access. They must log in again.\n", user.Email, user.ID)
}
