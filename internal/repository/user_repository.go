package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/classroom-backend/internal/model"
)

var userColumns = map[string]string{
	"id":         "u.id",
	"email":      "u.email",
	"first_name": "u.first_name",
	"last_name":  "u.last_name",
	"role":       "u.role",
	"is_staff":   "u.is_staff",
	"class_id":   "u.user_class_id",
	"created_at": "u.created_at",
	"last_login": "u.last_login",
}

const userSelect = `SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.user_class_id, c.name,
		u.role, u.is_staff, u.is_active, u.is_deleted, u.is_superuser, u.last_login, u.created_at, u.updated_at
	FROM users u JOIN user_classes c ON c.id = u.user_class_id`

// UserFilter narrows a user listing.
type UserFilter struct {
	ClassID        *int
	Role           model.Role
	IsStaff        *bool
	IncludeDeleted bool
}

// UserRepository handles user data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.ClassID, &u.ClassName,
		&u.Role, &u.IsStaff, &u.IsActive, &u.IsDeleted, &u.IsSuperuser, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id))
	if err != nil {
		return nil, translate(err, nil)
	}
	return u, nil
}

// GetByEmail retrieves a user by their unique email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, userSelect+` WHERE u.email = $1`, email))
	if err != nil {
		return nil, translate(err, nil)
	}
	return u, nil
}

// List retrieves a page of users and the total match count.
func (r *UserRepository) List(ctx context.Context, f UserFilter, p ListParams) ([]model.User, int, error) {
	var b selectBuilder
	if f.ClassID != nil {
		b.eq("u.user_class_id", *f.ClassID)
	}
	if f.Role != "" {
		b.eq("u.role", f.Role)
	}
	if f.IsStaff != nil {
		b.eq("u.is_staff", *f.IsStaff)
	}
	if !f.IncludeDeleted {
		b.where = append(b.where, "u.is_deleted = FALSE")
	}
	b.search(p.Search, p.SearchFields, userColumns)
	where := b.whereClause()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+where, b.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := userSelect + where + orderClause(p.Ordering, userColumns, "u.id") + b.page(p.Limit, p.Offset)
	rows, err := r.pool.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

// Create inserts a new user. PasswordHash must already be hashed.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, user_class_id, role,
			is_staff, is_active, is_superuser)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, is_deleted, created_at, updated_at`,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.ClassID, u.Role,
		u.IsStaff, u.IsActive, u.IsSuperuser,
	).Scan(&u.ID, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt)
	return translate(err, ErrDuplicateEmail)
}

// Update modifies a user's profile, category and permission flags
// (excluding password and the deleted flag).
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET email = $1, first_name = $2, last_name = $3, user_class_id = $4, role = $5,
			is_active = $6, is_staff = $7, is_superuser = $8, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $9`,
		u.Email, u.FirstName, u.LastName, u.ClassID, u.Role,
		u.IsActive, u.IsStaff, u.IsSuperuser, u.ID,
	)
	return affected(tag, err, ErrDuplicateEmail)
}

// UpdatePassword sets a new password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		hash, id,
	)
	return affected(tag, err, nil)
}

// TouchLastLogin records a successful login.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id int, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	return affected(tag, err, nil)
}

// MarkDeleted soft-deletes a user: the row stays, but the account is
// deactivated and hidden from listings.
func (r *UserRepository) MarkDeleted(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_deleted = TRUE, is_active = FALSE, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1`, id,
	)
	return affected(tag, err, nil)
}

// PromoteToSuperuser grants staff, superuser and the ADMIN role.
func (r *UserRepository) PromoteToSuperuser(ctx context.Context, email string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_staff = TRUE, is_superuser = TRUE, is_active = TRUE, role = $1,
			updated_at = CURRENT_TIMESTAMP
		 WHERE email = $2`,
		model.RoleAdmin, email,
	)
	return affected(tag, err, nil)
}

// HasAuthoredWork reports whether the user authored any assignment or
// submission. Those rows are tied to the user's current class.
func (r *UserRepository) HasAuthoredWork(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM assignments WHERE author_id = $1)
			OR EXISTS (SELECT 1 FROM submissions WHERE author_id = $1)`, id,
	).Scan(&exists)
	return exists, err
}

// Delete removes a user. Assignments and submissions they authored go with them.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return affected(tag, err, nil)
}

// Count returns the number of users not marked deleted.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_deleted = FALSE`).Scan(&n)
	return n, err
}
