package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/classroom-backend/internal/model"
)

var submissionColumns = map[string]string{
	"id":         "s.id",
	"title":      "s.title",
	"status":     "s.status",
	"score":      "s.score",
	"created_at": "s.created_at",
	"updated_at": "s.updated_at",
}

const submissionSelect = `SELECT s.id, s.assignment_id, s.author_id, s.user_class_id, s.title, s.content,
		s.status, s.score, s.is_draft, s.is_submitted, s.created_at, s.updated_at
	FROM submissions s`

// SubmissionFilter narrows a submission listing.
type SubmissionFilter struct {
	AssignmentID *int
	AuthorID     *int
	ClassID      *int
	Status       model.SubmissionStatus
}

// SubmissionRepository handles submission data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

func scanSubmission(row pgx.Row) (*model.Submission, error) {
	s := &model.Submission{}
	err := row.Scan(&s.ID, &s.AssignmentID, &s.AuthorID, &s.ClassID, &s.Title, &s.Content,
		&s.Status, &s.Score, &s.IsDraft, &s.IsSubmitted, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a submission by ID.
func (r *SubmissionRepository) GetByID(ctx context.Context, id int) (*model.Submission, error) {
	s, err := scanSubmission(r.pool.QueryRow(ctx, submissionSelect+` WHERE s.id = $1`, id))
	if err != nil {
		return nil, translate(err, nil)
	}
	return s, nil
}

// List retrieves a page of submissions and the total match count.
func (r *SubmissionRepository) List(ctx context.Context, f SubmissionFilter, p ListParams) ([]model.Submission, int, error) {
	var b selectBuilder
	if f.AssignmentID != nil {
		b.eq("s.assignment_id", *f.AssignmentID)
	}
	if f.AuthorID != nil {
		b.eq("s.author_id", *f.AuthorID)
	}
	if f.ClassID != nil {
		b.eq("s.user_class_id", *f.ClassID)
	}
	if f.Status != "" {
		b.eq("s.status", f.Status)
	}
	b.search(p.Search, p.SearchFields, submissionColumns)
	where := b.whereClause()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM submissions s`+where, b.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := submissionSelect + where + orderClause(p.Ordering, submissionColumns, "s.id") + b.page(p.Limit, p.Offset)
	rows, err := r.pool.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	submissions := []model.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, err
		}
		submissions = append(submissions, *s)
	}
	return submissions, total, rows.Err()
}

// Create inserts a new submission.
func (r *SubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO submissions (assignment_id, author_id, user_class_id, title, content, status, score,
			is_draft, is_submitted)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		s.AssignmentID, s.AuthorID, s.ClassID, s.Title, s.Content, s.Status, s.Score,
		s.IsDraft, s.IsSubmitted,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return translate(err, nil)
}

// Update modifies an existing submission.
func (r *SubmissionRepository) Update(ctx context.Context, s *model.Submission) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE submissions SET assignment_id = $1, author_id = $2, user_class_id = $3, title = $4,
			content = $5, status = $6, score = $7, is_draft = $8, is_submitted = $9,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = $10
		 RETURNING created_at, updated_at`,
		s.AssignmentID, s.AuthorID, s.ClassID, s.Title, s.Content, s.Status, s.Score,
		s.IsDraft, s.IsSubmitted, s.ID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return translate(err, nil)
}

// Grade sets the score and moves the submission to GRADED in one statement.
func (r *SubmissionRepository) Grade(ctx context.Context, s *model.Submission) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE submissions SET score = $1, status = $2, is_draft = $3, is_submitted = $4,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5
		 RETURNING updated_at`,
		s.Score, s.Status, s.IsDraft, s.IsSubmitted, s.ID,
	).Scan(&s.UpdatedAt)
	return translate(err, nil)
}

// Delete removes a submission.
func (r *SubmissionRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	return affected(tag, err, nil)
}

// Count returns the number of submissions.
func (r *SubmissionRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&n)
	return n, err
}
