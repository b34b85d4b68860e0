package service

import (
	"context"
	"errors"

	"github.com/stemsi/classroom-backend/internal/adminsite"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/repository"
	"github.com/stemsi/classroom-backend/internal/response"
)

// AssignmentService handles assignment business logic.
type AssignmentService struct {
	assignmentRepo *repository.AssignmentRepository
	userRepo       *repository.UserRepository
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(assignmentRepo *repository.AssignmentRepository, userRepo *repository.UserRepository) *AssignmentService {
	return &AssignmentService{assignmentRepo: assignmentRepo, userRepo: userRepo}
}

// GetByID retrieves an assignment the actor may see. Students only see
// assignments of their own class.
func (s *AssignmentService) GetByID(ctx context.Context, actor *Claims, id int) (*model.Assignment, error) {
	a, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownOnly(actor) && a.ClassID != actor.ClassID {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

// List retrieves assignments matching the console query and filter.
func (s *AssignmentService) List(ctx context.Context, actor *Claims, f repository.AssignmentFilter, q ListQuery) ([]model.Assignment, *response.Pagination, error) {
	params, q, err := listParams(adminsite.Default.MustGet(adminsite.ModelAssignments), q)
	if err != nil {
		return nil, nil, err
	}
	if ownOnly(actor) {
		f.ClassID = &actor.ClassID
	}

	assignments, total, err := s.assignmentRepo.List(ctx, f, params)
	if err != nil {
		return nil, nil, err
	}
	return assignments, response.NewPagination(q.Page, q.PerPage, total), nil
}

// Create inserts a new assignment. Without write_all the actor always
// becomes the author. New assignments start as DRAFT unless told otherwise.
func (s *AssignmentService) Create(ctx context.Context, actor *Claims, a *model.Assignment) error {
	if a.AuthorID == 0 || !actor.Has(model.PermissionAssignmentsWriteAll) {
		a.AuthorID = actor.UserID
	}
	if a.Status == "" {
		a.Status = model.AssignmentStatusDraft
	}
	if !a.Status.Valid() {
		return ErrInvalidTransition
	}

	author, err := s.loadAuthor(ctx, a.AuthorID)
	if err != nil {
		return err
	}
	if err := checkAssignment(a, author); err != nil {
		return err
	}
	return s.assignmentRepo.Create(ctx, a)
}

// Update modifies an assignment the actor may edit and reports which
// fields changed.
func (s *AssignmentService) Update(ctx context.Context, actor *Claims, a *model.Assignment) ([]string, error) {
	existing, err := s.assignmentRepo.GetByID(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(actor, existing.AuthorID); err != nil {
		return nil, err
	}

	if a.AuthorID == 0 || !actor.Has(model.PermissionAssignmentsWriteAll) {
		a.AuthorID = existing.AuthorID
	}
	if a.Status == "" {
		a.Status = existing.Status
	}
	if !existing.Status.CanTransitionTo(a.Status) {
		return nil, ErrInvalidTransition
	}

	if a.ClassID != existing.ClassID {
		hasSubmissions, err := s.assignmentRepo.HasSubmissions(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		if err := checkClassMove(existing.ClassID, a.ClassID, hasSubmissions); err != nil {
			return nil, err
		}
	}

	if a.Marks < existing.Marks {
		highest, err := s.assignmentRepo.MaxScore(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		if highest > float64(a.Marks) {
			return nil, ErrScoreOutOfRange
		}
	}

	author, err := s.loadAuthor(ctx, a.AuthorID)
	if err != nil {
		return nil, err
	}
	if err := checkAssignment(a, author); err != nil {
		return nil, err
	}
	if err := s.assignmentRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return assignmentChanges(existing, a), nil
}

// Delete removes an assignment the actor may edit, with its submissions.
func (s *AssignmentService) Delete(ctx context.Context, actor *Claims, id int) (*model.Assignment, error) {
	existing, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(actor, existing.AuthorID); err != nil {
		return nil, err
	}
	if err := s.assignmentRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *AssignmentService) loadAuthor(ctx context.Context, id int) (*model.User, error) {
	author, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, repository.ErrInvalidReference
	}
	return author, err
}

// checkAssignment enforces that the author belongs to the assignment's class.
func checkAssignment(a *model.Assignment, author *model.User) error {
	if a.Marks < 0 {
		return ErrScoreOutOfRange
	}
	if author.ClassID != a.ClassID {
		return ErrClassMismatch
	}
	return nil
}

// checkOwnership lets write_all holders through and everyone else only
// for records they authored.
func checkOwnership(actor *Claims, authorID int) error {
	if actor.Has(model.PermissionAssignmentsWriteAll) || actor.UserID == authorID {
		return nil
	}
	return ErrNotAuthor
}

// assignmentChanges lists the form fields that differ, in form order.
func assignmentChanges(before, after *model.Assignment) []string {
	var changed []string
	add := func(name string, differs bool) {
		if differs {
			changed = append(changed, name)
		}
	}
	add("title", before.Title != after.Title)
	add("course", before.Course != after.Course)
	add("course_code", before.CourseCode != after.CourseCode)
	add("author_id", before.AuthorID != after.AuthorID)
	add("class_id", before.ClassID != after.ClassID)
	add("duration", !before.Duration.Equal(after.Duration))
	add("status", before.Status != after.Status)
	add("marks", before.Marks != after.Marks)
	return changed
}
