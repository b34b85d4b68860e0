package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/classroom-backend/internal/model"
)

var assignmentColumns = map[string]string{
	"id":          "a.id",
	"title":       "a.title",
	"course":      "a.course",
	"course_code": "a.course_code",
	"duration":    "a.duration",
	"status":      "a.status",
	"marks":       "a.marks",
	"created_at":  "a.created_at",
	"updated_at":  "a.updated_at",
}

const assignmentSelect = `SELECT a.id, a.title, a.course, a.course_code, a.author_id, a.user_class_id,
		a.duration, a.status, a.marks, a.created_at, a.updated_at
	FROM assignments a`

// AssignmentFilter narrows an assignment listing.
type AssignmentFilter struct {
	ClassID  *int
	AuthorID *int
	Status   model.AssignmentStatus
}

// AssignmentRepository handles assignment data access.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

func scanAssignment(row pgx.Row) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := row.Scan(&a.ID, &a.Title, &a.Course, &a.CourseCode, &a.AuthorID, &a.ClassID,
		&a.Duration, &a.Status, &a.Marks, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID retrieves an assignment by ID.
func (r *AssignmentRepository) GetByID(ctx context.Context, id int) (*model.Assignment, error) {
	a, err := scanAssignment(r.pool.QueryRow(ctx, assignmentSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, translate(err, nil)
	}
	return a, nil
}

// List retrieves a page of assignments and the total match count.
func (r *AssignmentRepository) List(ctx context.Context, f AssignmentFilter, p ListParams) ([]model.Assignment, int, error) {
	var b selectBuilder
	if f.ClassID != nil {
		b.eq("a.user_class_id", *f.ClassID)
	}
	if f.AuthorID != nil {
		b.eq("a.author_id", *f.AuthorID)
	}
	if f.Status != "" {
		b.eq("a.status", f.Status)
	}
	b.search(p.Search, p.SearchFields, assignmentColumns)
	where := b.whereClause()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assignments a`+where, b.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := assignmentSelect + where + orderClause(p.Ordering, assignmentColumns, "a.id") + b.page(p.Limit, p.Offset)
	rows, err := r.pool.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	assignments := []model.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, 0, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, total, rows.Err()
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO assignments (title, course, course_code, author_id, user_class_id, duration, status, marks)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		a.Title, a.Course, a.CourseCode, a.AuthorID, a.ClassID, a.Duration, a.Status, a.Marks,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return translate(err, nil)
}

// Update modifies an existing assignment.
func (r *AssignmentRepository) Update(ctx context.Context, a *model.Assignment) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE assignments SET title = $1, course = $2, course_code = $3, author_id = $4, user_class_id = $5,
			duration = $6, status = $7, marks = $8, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $9
		 RETURNING created_at, updated_at`,
		a.Title, a.Course, a.CourseCode, a.AuthorID, a.ClassID, a.Duration, a.Status, a.Marks, a.ID,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return translate(err, nil)
}

// MaxScore returns the highest score recorded against an assignment, or 0.
func (r *AssignmentRepository) MaxScore(ctx context.Context, id int) (float64, error) {
	var max float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(score), 0) FROM submissions WHERE assignment_id = $1`, id,
	).Scan(&max)
	return max, err
}

// HasSubmissions reports whether any submission points at the assignment.
func (r *AssignmentRepository) HasSubmissions(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM submissions WHERE assignment_id = $1)`, id,
	).Scan(&exists)
	return exists, err
}

// Delete removes an assignment and, through the schema, its submissions.
func (r *AssignmentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	return affected(tag, err, nil)
}

// Count returns the number of assignments.
func (r *AssignmentRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assignments`).Scan(&n)
	return n, err
}
