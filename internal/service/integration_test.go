//go:build integration

package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stemsi/classroom-backend/internal/config"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/repository"
)

// Run with: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/service/
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	m, err := migrate.New("file://../../migrations", dbURL)
	if err != nil {
		t.Fatalf("migrate init: %v", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("migrate up: %v", err)
	}
	m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

type classroom struct {
	classRepo      *repository.UserClassRepository
	userRepo       *repository.UserRepository
	assignmentRepo *repository.AssignmentRepository
	submissionRepo *repository.SubmissionRepository

	assignments *AssignmentService
	submissions *SubmissionService
	users       *UserService

	class, other *model.UserClass
	instructor   *model.User
	student      *model.User
	assignment   *model.Assignment
}

func newClassroom(t *testing.T) *classroom {
	t.Helper()
	pool := setupPool(t)
	ctx := context.Background()

	r := &classroom{
		classRepo:      repository.NewUserClassRepository(pool),
		userRepo:       repository.NewUserRepository(pool),
		assignmentRepo: repository.NewAssignmentRepository(pool),
		submissionRepo: repository.NewSubmissionRepository(pool),
	}
	manager := NewUserManager(r.userRepo, 4)
	// Session resets are never reached by these tests, so no Redis is needed.
	auth := NewAuthService(&config.Config{JWTSecret: "test", JWTExpiry: time.Hour}, nil, r.userRepo, manager, zerolog.Nop())
	r.assignments = NewAssignmentService(r.assignmentRepo, r.userRepo)
	r.submissions = NewSubmissionService(r.submissionRepo, r.assignmentRepo, r.userRepo)
	r.users = NewUserService(r.userRepo, manager, auth, zerolog.Nop())

	suffix := uuid.NewString()[:8]
	for _, c := range []**model.UserClass{&r.class, &r.other} {
		*c = &model.UserClass{Name: "svc-" + uuid.NewString()[:8]}
		if err := r.classRepo.Create(ctx, *c); err != nil {
			t.Fatalf("create class: %v", err)
		}
		id := (*c).ID
		t.Cleanup(func() { _ = r.classRepo.Delete(context.Background(), id) })
	}

	staff := true
	var err error
	r.instructor, err = manager.CreateUser(ctx, CreateUserParams{
		Email:    "teach-" + suffix + "@example.com",
		Password: "secret123",
		ClassID:  r.class.ID,
		Role:     model.RoleInstructor,
		IsStaff:  &staff,
	})
	if err != nil {
		t.Fatalf("create instructor: %v", err)
	}
	r.student, err = manager.CreateUser(ctx, CreateUserParams{
		Email:    "learn-" + suffix + "@example.com",
		Password: "secret123",
		ClassID:  r.class.ID,
		Role:     model.RoleStudent,
		IsStaff:  &staff,
	})
	if err != nil {
		t.Fatalf("create student: %v", err)
	}

	r.assignment = r.newAssignment(t, model.AssignmentStatusPublished, time.Now().Add(24*time.Hour))
	return r
}

func claimsOf(u *model.User) *Claims {
	return &Claims{
		UserID:      u.ID,
		ClassID:     u.ClassID,
		Role:        u.Role,
		IsSuperuser: u.IsSuperuser,
		Permissions: model.PermissionsFor(u),
	}
}

func (r *classroom) newAssignment(t *testing.T, status model.AssignmentStatus, deadline time.Time) *model.Assignment {
	t.Helper()
	a := &model.Assignment{
		Title:      "Lab report",
		Course:     "Physics",
		CourseCode: "PH1",
		ClassID:    r.class.ID,
		Duration:   deadline,
		Status:     status,
		Marks:      20,
	}
	if err := r.assignments.Create(context.Background(), claimsOf(r.instructor), a); err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	return a
}

func (r *classroom) submit(t *testing.T, status model.SubmissionStatus) *model.Submission {
	t.Helper()
	sub := &model.Submission{
		AssignmentID: r.assignment.ID,
		Title:        "My report",
		Status:       status,
	}
	if err := r.submissions.Create(context.Background(), claimsOf(r.student), sub); err != nil {
		t.Fatalf("create submission: %v", err)
	}
	return sub
}

func TestSubmissionCreateIgnoresStudentScoreAndGrade(t *testing.T) {
	r := newClassroom(t)
	ctx := context.Background()
	student := claimsOf(r.student)

	graded := &model.Submission{
		AssignmentID: r.assignment.ID,
		Title:        "Self graded",
		Status:       model.SubmissionStatusGraded,
		Score:        20,
	}
	if err := r.submissions.Create(ctx, student, graded); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("create as GRADED: expected ErrInvalidTransition, got %v", err)
	}

	scored := &model.Submission{
		AssignmentID: r.assignment.ID,
		Title:        "Full marks please",
		Status:       model.SubmissionStatusSubmitted,
		Score:        20,
	}
	if err := r.submissions.Create(ctx, student, scored); err != nil {
		t.Fatalf("create: %v", err)
	}
	stored, err := r.submissionRepo.GetByID(ctx, scored.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Score != 0 || stored.Status != model.SubmissionStatusSubmitted || stored.AuthorID != r.student.ID {
		t.Fatalf("unexpected stored submission: %+v", stored)
	}
}

func TestSubmissionUpdateStudentCannotGradeOwnWork(t *testing.T) {
	r := newClassroom(t)
	ctx := context.Background()
	sub := r.submit(t, model.SubmissionStatusSubmitted)

	for _, to := range []model.SubmissionStatus{model.SubmissionStatusGraded, model.SubmissionStatusReturned} {
		change := &model.Submission{ID: sub.ID, AssignmentID: sub.AssignmentID, Title: sub.Title, Status: to}
		score := 20.0
		if _, err := r.submissions.Update(ctx, claimsOf(r.student), change, &score); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("student to %s: expected ErrInvalidTransition, got %v", to, err)
		}
	}

	stored, err := r.submissionRepo.GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != model.SubmissionStatusSubmitted || stored.Score != 0 {
		t.Fatalf("submission changed: %+v", stored)
	}
}

func TestSubmissionUpdateWithoutScoreKeepsGrade(t *testing.T) {
	r := newClassroom(t)
	ctx := context.Background()
	sub := r.submit(t, model.SubmissionStatusSubmitted)

	if _, err := r.submissions.Grade(ctx, sub.ID, 17.5); err != nil {
		t.Fatalf("grade: %v", err)
	}

	change := &model.Submission{ID: sub.ID, AssignmentID: sub.AssignmentID, Title: "Renamed"}
	changed, err := r.submissions.Update(ctx, claimsOf(r.instructor), change, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(changed) != 1 || changed[0] != "title" {
		t.Errorf("changed = %v, want [title]", changed)
	}

	stored, err := r.submissionRepo.GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Score != 17.5 || stored.Status != model.SubmissionStatusGraded {
		t.Fatalf("grade lost: %+v", stored)
	}
}

func TestSubmissionUpdateRejectsDraftAssignment(t *testing.T) {
	r := newClassroom(t)
	ctx := context.Background()
	sub := r.submit(t, model.SubmissionStatusDraft)
	draft := r.newAssignment(t, model.AssignmentStatusDraft, time.Now().Add(time.Hour))

	change := &model.Submission{ID: sub.ID, AssignmentID: draft.ID, Title: sub.Title}
	if _, err := r.submissions.Update(ctx, claimsOf(r.instructor), change, nil); !errors.Is(err, ErrAssignmentNotOpen) {
		t.Fatalf("expected ErrAssignmentNotOpen, got %v", err)
	}
}

func TestSubmissionStudentLateHandIn(t *testing.T) {
	r := newClassroom(t)
	ctx := context.Background()
	sub := r.submit(t, model.SubmissionStatusDraft)

	r.submissions.now = func() time.Time { return r.assignment.Duration.Add(time.Minute) }

	change := &model.Submission{ID: sub.ID, AssignmentID: sub.AssignmentID, Title: sub.Title, Status: model.SubmissionStatusSubmitted}
	if _, err := r.submissions.Update(ctx, claimsOf(r.student), change, nil); !errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("expected ErrDeadlinePassed, got %v", err)
	}

	// Staff can still record the hand-in.
	change = &model.Submission{ID: sub.ID, AssignmentID: sub.AssignmentID, AuthorID: r.student.ID, Title: sub.Title, Status: model.SubmissionStatusSubmitted}
	if _, err := r.submissions.Update(ctx, claimsOf(r.instructor), change, nil); err != nil {
		t.Fatalf("staff hand-in: %v", err)
	}
}

func TestAssignmentClassChangeWithSubmissions(t *testing.T) {
	r := newClassroom(t)
	ctx := context.Background()
	r.submit(t, model.SubmissionStatusDraft)

	moved := *r.assignment
	moved.ClassID = r.other.ID
	if _, err := r.assignments.Update(ctx, claimsOf(r.instructor), &moved); !errors.Is(err, ErrClassMismatch) {
		t.Fatalf("expected ErrClassMismatch, got %v", err)
	}

	stored, err := r.assignmentRepo.GetByID(ctx, r.assignment.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.ClassID != r.class.ID {
		t.Fatalf("assignment moved to class %d", stored.ClassID)
	}
}

func TestUserClassChangeWithAuthoredWork(t *testing.T) {
	r := newClassroom(t)
	ctx := context.Background()

	moved := *r.instructor
	moved.ClassID = r.other.ID
	if _, _, err := r.users.Update(ctx, 0, &moved); !errors.Is(err, ErrClassMismatch) {
		t.Fatalf("expected ErrClassMismatch, got %v", err)
	}

	stored, err := r.userRepo.GetByID(ctx, r.instructor.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.ClassID != r.class.ID {
		t.Fatalf("user moved to class %d", stored.ClassID)
	}
}

func TestStudentSeesOnlyOwnClassAssignments(t *testing.T) {
	r := newClassroom(t)
	ctx := context.Background()

	outsider := claimsOf(r.student)
	outsider.ClassID = r.other.ID
	if _, err := r.assignments.GetByID(ctx, outsider, r.assignment.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("foreign class assignment: expected ErrNotFound, got %v", err)
	}
	if _, err := r.assignments.GetByID(ctx, claimsOf(r.student), r.assignment.ID); err != nil {
		t.Fatalf("own class assignment: %v", err)
	}
}
