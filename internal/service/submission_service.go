package service

import (
	"context"
	"errors"
	"time"

	"github.com/stemsi/classroom-backend/internal/adminsite"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/repository"
	"github.com/stemsi/classroom-backend/internal/response"
)

// SubmissionService handles submission business logic.
type SubmissionService struct {
	submissionRepo *repository.SubmissionRepository
	assignmentRepo *repository.AssignmentRepository
	userRepo       *repository.UserRepository
	now            func() time.Time
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	submissionRepo *repository.SubmissionRepository,
	assignmentRepo *repository.AssignmentRepository,
	userRepo *repository.UserRepository,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		now:            time.Now,
	}
}

// GetByID retrieves a submission the actor may see.
func (s *SubmissionService) GetByID(ctx context.Context, actor *Claims, id int) (*model.Submission, error) {
	sub, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkSubmitter(actor, sub.AuthorID); err != nil {
		// Students cannot tell foreign submissions from missing ones.
		return nil, repository.ErrNotFound
	}
	return sub, nil
}

// List retrieves submissions matching the console query and filter.
// Students only ever see their own.
func (s *SubmissionService) List(ctx context.Context, actor *Claims, f repository.SubmissionFilter, q ListQuery) ([]model.Submission, *response.Pagination, error) {
	params, q, err := listParams(adminsite.Default.MustGet(adminsite.ModelSubmissions), q)
	if err != nil {
		return nil, nil, err
	}
	if ownOnly(actor) {
		f.AuthorID = &actor.UserID
	}

	submissions, total, err := s.submissionRepo.List(ctx, f, params)
	if err != nil {
		return nil, nil, err
	}
	return submissions, response.NewPagination(q.Page, q.PerPage, total), nil
}

// Create inserts a submission against a published or closed assignment.
// New submissions start as DRAFT or SUBMITTED with no score; scores are
// set through Grade.
func (s *SubmissionService) Create(ctx context.Context, actor *Claims, sub *model.Submission) error {
	if ownOnly(actor) {
		sub.AuthorID = actor.UserID
	}
	if err := checkInitialStatus(sub); err != nil {
		return err
	}
	sub.Score = 0

	assignment, author, err := s.loadRefs(ctx, sub)
	if err != nil {
		return err
	}
	if err := checkOpen(assignment); err != nil {
		return err
	}
	if err := checkDeadline(actor, "", sub.Status, assignment, s.now()); err != nil {
		return err
	}
	if err := checkSubmission(sub, assignment, author); err != nil {
		return err
	}
	sub.SetStatus(sub.Status)
	return s.submissionRepo.Create(ctx, sub)
}

// Update modifies a submission and reports which fields changed. The
// status must follow the lifecycle. A nil score keeps the stored one.
func (s *SubmissionService) Update(ctx context.Context, actor *Claims, sub *model.Submission, score *float64) ([]string, error) {
	existing, err := s.GetByID(ctx, actor, sub.ID)
	if err != nil {
		return nil, err
	}

	sub.Score = existing.Score
	if ownOnly(actor) {
		sub.AuthorID = actor.UserID
	} else if score != nil {
		sub.Score = *score
	}
	if sub.AuthorID == 0 {
		sub.AuthorID = existing.AuthorID
	}
	if sub.Status == "" {
		sub.Status = existing.Status
	}
	if !existing.Status.CanTransitionTo(sub.Status) {
		return nil, ErrInvalidTransition
	}
	if err := checkStudentStatus(actor, sub.Status); err != nil {
		return nil, err
	}

	assignment, author, err := s.loadRefs(ctx, sub)
	if err != nil {
		return nil, err
	}
	if err := checkOpen(assignment); err != nil {
		return nil, err
	}
	if err := checkDeadline(actor, existing.Status, sub.Status, assignment, s.now()); err != nil {
		return nil, err
	}
	if err := checkSubmission(sub, assignment, author); err != nil {
		return nil, err
	}
	sub.SetStatus(sub.Status)
	if err := s.submissionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return submissionChanges(existing, sub), nil
}

// Grade scores a submission and marks it GRADED.
func (s *SubmissionService) Grade(ctx context.Context, id int, score float64) (*model.Submission, error) {
	sub, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sub.Status.CanTransitionTo(model.SubmissionStatusGraded) {
		return nil, ErrInvalidTransition
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, sub.AssignmentID)
	if err != nil {
		return nil, err
	}
	if err := checkScore(score, assignment.Marks); err != nil {
		return nil, err
	}

	sub.Score = score
	sub.SetStatus(model.SubmissionStatusGraded)
	if err := s.submissionRepo.Grade(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Delete removes a submission the actor may edit.
func (s *SubmissionService) Delete(ctx context.Context, actor *Claims, id int) (*model.Submission, error) {
	existing, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.submissionRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *SubmissionService) loadRefs(ctx context.Context, sub *model.Submission) (*model.Assignment, *model.User, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, sub.AssignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, repository.ErrInvalidReference
		}
		return nil, nil, err
	}
	author, err := s.userRepo.GetByID(ctx, sub.AuthorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, repository.ErrInvalidReference
		}
		return nil, nil, err
	}
	return assignment, author, nil
}

// ownOnly reports whether the actor is limited to their own submissions.
func ownOnly(actor *Claims) bool {
	return actor != nil && actor.Role == model.RoleStudent && !actor.IsSuperuser
}

func checkSubmitter(actor *Claims, authorID int) error {
	if ownOnly(actor) && actor.UserID != authorID {
		return ErrNotAuthor
	}
	return nil
}

// checkSubmission fills the class from the assignment when unset and
// requires the author, the submission and the assignment to share it.
func checkSubmission(sub *model.Submission, assignment *model.Assignment, author *model.User) error {
	if sub.ClassID == 0 {
		sub.ClassID = assignment.ClassID
	}
	if sub.ClassID != assignment.ClassID || author.ClassID != assignment.ClassID {
		return ErrClassMismatch
	}
	return checkScore(sub.Score, assignment.Marks)
}

// checkInitialStatus defaults a new submission to DRAFT. GRADED and
// RETURNED are only reachable from an existing submission.
func checkInitialStatus(sub *model.Submission) error {
	switch sub.Status {
	case "":
		sub.Status = model.SubmissionStatusDraft
	case model.SubmissionStatusDraft, model.SubmissionStatusSubmitted:
	default:
		return ErrInvalidTransition
	}
	return nil
}

// checkStudentStatus keeps students on the author side of the lifecycle.
func checkStudentStatus(actor *Claims, to model.SubmissionStatus) error {
	if !ownOnly(actor) {
		return nil
	}
	if to != model.SubmissionStatusDraft && to != model.SubmissionStatusSubmitted {
		return ErrInvalidTransition
	}
	return nil
}

func checkOpen(assignment *model.Assignment) error {
	if assignment.Status == model.AssignmentStatusDraft {
		return ErrAssignmentNotOpen
	}
	return nil
}

// checkDeadline stops students from handing in after the deadline.
// Staff may still record late work.
func checkDeadline(actor *Claims, from, to model.SubmissionStatus, assignment *model.Assignment, now time.Time) error {
	if !ownOnly(actor) || to != model.SubmissionStatusSubmitted || from == to {
		return nil
	}
	if assignment.PastDeadline(now) {
		return ErrDeadlinePassed
	}
	return nil
}

func checkScore(score float64, marks int) error {
	if score < 0 || score > float64(marks) {
		return ErrScoreOutOfRange
	}
	return nil
}

// submissionChanges lists the form fields that differ, in form order.
func submissionChanges(before, after *model.Submission) []string {
	var changed []string
	add := func(name string, differs bool) {
		if differs {
			changed = append(changed, name)
		}
	}
	add("assignment_id", before.AssignmentID != after.AssignmentID)
	add("author_id", before.AuthorID != after.AuthorID)
	add("class_id", before.ClassID != after.ClassID)
	add("title", before.Title != after.Title)
	add("content", before.Content != after.Content)
	add("status", before.Status != after.Status)
	add("score", before.Score != after.Score)
	return changed
}
