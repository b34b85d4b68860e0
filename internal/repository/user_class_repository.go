package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/classroom-backend/internal/model"
)

var userClassColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// UserClassRepository handles class data access.
type UserClassRepository struct {
	pool *pgxpool.Pool
}

// NewUserClassRepository creates a new UserClassRepository.
func NewUserClassRepository(pool *pgxpool.Pool) *UserClassRepository {
	return &UserClassRepository{pool: pool}
}

// GetByID retrieves a class by its ID.
func (r *UserClassRepository) GetByID(ctx context.Context, id int) (*model.UserClass, error) {
	c := &model.UserClass{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM user_classes WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translate(err, nil)
	}
	return c, nil
}

// GetByName retrieves a class by its unique name.
func (r *UserClassRepository) GetByName(ctx context.Context, name string) (*model.UserClass, error) {
	c := &model.UserClass{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM user_classes WHERE name = $1`, name,
	).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translate(err, nil)
	}
	return c, nil
}

// List retrieves a page of classes and the total match count.
func (r *UserClassRepository) List(ctx context.Context, p ListParams) ([]model.UserClass, int, error) {
	var b selectBuilder
	b.search(p.Search, p.SearchFields, userClassColumns)
	where := b.whereClause()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_classes`+where, b.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, name, created_at, updated_at FROM user_classes` + where +
		orderClause(p.Ordering, userClassColumns, "id") + b.page(p.Limit, p.Offset)

	rows, err := r.pool.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	classes := []model.UserClass{}
	for rows.Next() {
		var c model.UserClass
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		classes = append(classes, c)
	}
	return classes, total, rows.Err()
}

// Create inserts a new class.
func (r *UserClassRepository) Create(ctx context.Context, c *model.UserClass) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO user_classes (name) VALUES ($1)
		 RETURNING id, created_at, updated_at`,
		c.Name,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return translate(err, ErrDuplicateClassName)
}

// Update renames an existing class.
func (r *UserClassRepository) Update(ctx context.Context, c *model.UserClass) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE user_classes SET name = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2
		 RETURNING created_at, updated_at`,
		c.Name, c.ID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return translate(err, ErrDuplicateClassName)
}

// Delete removes a class. The schema cascades the delete to its users,
// assignments and submissions.
func (r *UserClassRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_classes WHERE id = $1`, id)
	return affected(tag, err, nil)
}

// Count returns the number of classes.
func (r *UserClassRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_classes`).Scan(&n)
	return n, err
}
