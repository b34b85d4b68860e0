package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/stemsi/classroom-backend/internal/config"
	"github.com/stemsi/classroom-backend/internal/database"
	"github.com/stemsi/classroom-backend/internal/logger"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/repository"
	"github.com/stemsi/classroom-backend/internal/service"
)

var names = [][2]string{
	{"Ayu", "Lestari"}, {"Budi", "Santoso"}, {"Citra", "Dewi"}, {"Dimas", "Pratama"},
	{"Eka", "Putri"}, {"Fajar", "Nugroho"}, {"Gita", "Wulandari"}, {"Hendra", "Wijaya"},
	{"Indah", "Permata"}, {"Joko", "Susilo"}, {"Kadek", "Ari"}, {"Lina", "Marlina"},
	{"Made", "Surya"}, {"Nanda", "Saputra"}, {"Oka", "Widiana"}, {"Putu", "Ayu"},
	{"Rizky", "Ramadhan"}, {"Sari", "Indah"}, {"Tono", "Hartono"}, {"Wayan", "Sudarma"},
}

func main() {
	var (
		className string
		students  int
		password  string
	)
	flag.StringVar(&className, "class", "Demo Class", "Class to seed")
	flag.IntVar(&students, "students", 10, "Number of student accounts")
	flag.StringVar(&password, "password", "classroom123", "Password for every seeded account")
	flag.Parse()

	if students < 1 || students > len(names) {
		fmt.Printf("Error: -students must be between 1 and %d\n", len(names))
		return
	}

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	classRepo := repository.NewUserClassRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)

	manager := service.NewUserManager(userRepo, cfg.BcryptCost)
	assignmentService := service.NewAssignmentService(assignmentRepo, userRepo)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, userRepo)

	// ─── Class ─────────────────────────────────────────────────────────
	class, err := classRepo.GetByName(ctx, className)
	if errors.Is(err, repository.ErrNotFound) {
		class = &model.UserClass{Name: className}
		err = classRepo.Create(ctx, class)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve class")
	}
	fmt.Printf("Seeding class %q (ID %d)\n", class.Name, class.ID)

	// ─── Instructor ────────────────────────────────────────────────────
	staff := true
	instructor, err := findOrCreate(ctx, userRepo, manager, service.CreateUserParams{
		Email:     fmt.Sprintf("instructor@class%d.example.com", class.ID),
		Password:  password,
		ClassID:   class.ID,
		FirstName: "Demo",
		LastName:  "Instructor",
		Role:      model.RoleInstructor,
		IsStaff:   &staff,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create instructor")
	}

	// ─── Assignment ────────────────────────────────────────────────────
	actor := claimsFor(instructor)
	assignment := &model.Assignment{
		Title:      "Week 1 Reflection",
		Course:     "Classroom Basics",
		CourseCode: "CB101",
		ClassID:    class.ID,
		Duration:   time.Now().UTC().Add(7 * 24 * time.Hour),
		Status:     model.AssignmentStatusPublished,
		Marks:      100,
	}
	if err := assignmentService.Create(ctx, actor, assignment); err != nil {
		log.Fatal().Err(err).Msg("Failed to create assignment")
	}

	// ─── Students and Submissions ──────────────────────────────────────
	created := 0
	for i := 0; i < students; i++ {
		student, err := findOrCreate(ctx, userRepo, manager, service.CreateUserParams{
			Email:     fmt.Sprintf("student%02d@class%d.example.com", i+1, class.ID),
			Password:  password,
			ClassID:   class.ID,
			FirstName: names[i][0],
			LastName:  names[i][1],
			Role:      model.RoleStudent,
		})
		if err != nil {
			fmt.Printf("Error creating student %s %s: %v\n", names[i][0], names[i][1], err)
			continue
		}

		sub := &model.Submission{
			AssignmentID: assignment.ID,
			AuthorID:     student.ID,
			Title:        fmt.Sprintf("%s's reflection", student.FirstName),
			Content:      "Seeded submission.",
			Status:       model.SubmissionStatusDraft,
		}
		if i%2 == 0 {
			sub.Status = model.SubmissionStatusSubmitted
		}
		if err := submissionService.Create(ctx, actor, sub); err != nil {
			fmt.Printf("Error creating submission for %s: %v\n", student.Email, err)
			continue
		}

		// Grade every fourth student so all lifecycle states show up.
		if i%4 == 0 {
			if _, err := submissionService.Grade(ctx, sub.ID, float64(60+i)); err != nil {
				fmt.Printf("Error grading submission %d: %v\n", sub.ID, err)
			}
		}
		created++
	}

	fmt.Printf("\nSeed completed! Assignment %d with %d/%d student submissions.\n", assignment.ID, created, students)
}

// findOrCreate makes the seed rerunnable against the same class.
func findOrCreate(ctx context.Context, userRepo *repository.UserRepository, manager *service.UserManager, p service.CreateUserParams) (*model.User, error) {
	u, err := manager.CreateUser(ctx, p)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return userRepo.GetByEmail(ctx, service.NormalizeEmail(p.Email))
	}
	return u, err
}

func claimsFor(u *model.User) *service.Claims {
	return &service.Claims{
		UserID:      u.ID,
		ClassID:     u.ClassID,
		Role:        u.Role,
		IsSuperuser: u.IsSuperuser,
		Permissions: model.PermissionsFor(u),
	}
}
