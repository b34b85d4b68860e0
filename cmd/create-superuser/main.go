package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/stemsi/classroom-backend/internal/config"
	"github.com/stemsi/classroom-backend/internal/database"
	"github.com/stemsi/classroom-backend/internal/logger"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/repository"
	"github.com/stemsi/classroom-backend/internal/service"
	"golang.org/x/term"
)

func main() {
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

	// ─── Initialize Service ────────────────────────────────────────────
	classRepo := repository.NewUserClassRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	manager := service.NewUserManager(userRepo, cfg.BcryptCost)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Superuser ===")

	email := prompt(reader, "Email: ")
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Superusers need a class like every other account.
	className := prompt(reader, "Class name (created if missing): ")
	if className == "" {
		fmt.Println("Error: Class is required")
		return
	}

	firstName := prompt(reader, "First name (optional): ")
	lastName := prompt(reader, "Last name (optional): ")

	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	confirm, err := readPassword("Password (again): ")
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	if password != confirm {
		fmt.Println("Error: Your passwords didn't match")
		return
	}
	if len(password) < 8 {
		fmt.Println("Error: Password must be at least 8 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	class, err := classRepo.GetByName(ctx, className)
	if errors.Is(err, repository.ErrNotFound) {
		class = &model.UserClass{Name: className}
		err = classRepo.Create(ctx, class)
	}
	if err != nil {
		log.Fatal().Err(err).Str("class", className).Msg("Failed to resolve class")
	}

	user, err := manager.CreateSuperuser(ctx, service.CreateUserParams{
		Email:     email,
		Password:  password,
		ClassID:   class.ID,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			fmt.Println("Error: That email is already taken")
			return
		}
		log.Fatal().Err(err).Msg("Failed to create superuser")
	}

	fmt.Printf("\nSuperuser created successfully: %s (ID %d, class %s)\n", user.Email, user.ID, class.Name)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func readPassword(label string) (string, error) {
	fmt.Print(label)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Newline after password input
	return string(b), err
}
