package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/classroom-backend/internal/model"
)

// ActionLogRepository handles admin log entry data access.
type ActionLogRepository struct {
	pool *pgxpool.Pool
}

// NewActionLogRepository creates a new ActionLogRepository.
func NewActionLogRepository(pool *pgxpool.Pool) *ActionLogRepository {
	return &ActionLogRepository{pool: pool}
}

// BulkInsert writes a batch of entries with a single UNNEST statement.
func (r *ActionLogRepository) BulkInsert(ctx context.Context, entries []*model.ActionLogEntry) error {
	n := len(entries)
	if n == 0 {
		return nil
	}

	userIDs := make([]int32, n)
	actions := make([]string, n)
	types := make([]string, n)
	objectIDs := make([]string, n)
	reprs := make([]string, n)
	messages := make([]string, n)
	times := make([]time.Time, n)

	for i, e := range entries {
		userIDs[i] = int32(e.UserID)
		actions[i] = string(e.Action)
		types[i] = e.ObjectType
		objectIDs[i] = e.ObjectID
		reprs[i] = e.ObjectRepr
		messages[i] = e.ChangeMessage
		times[i] = e.ActionTime
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO admin_log_entries (user_id, action, object_type, object_id, object_repr, change_message, action_time)
		SELECT * FROM UNNEST(
			$1::int[],
			$2::varchar[],
			$3::varchar[],
			$4::varchar[],
			$5::varchar[],
			$6::text[],
			$7::timestamptz[]
		)`,
		userIDs, actions, types, objectIDs, reprs, messages, times,
	)
	return err
}

// Insert writes a single entry.
func (r *ActionLogRepository) Insert(ctx context.Context, e *model.ActionLogEntry) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO admin_log_entries (user_id, action, object_type, object_id, object_repr, change_message, action_time)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		e.UserID, e.Action, e.ObjectType, e.ObjectID, e.ObjectRepr, e.ChangeMessage, e.ActionTime,
	).Scan(&e.ID)
	return translate(err, nil)
}

// List retrieves a page of entries, newest first, optionally for one user.
func (r *ActionLogRepository) List(ctx context.Context, userID *int, limit, offset int) ([]model.ActionLogEntry, int, error) {
	var b selectBuilder
	if userID != nil {
		b.eq("user_id", *userID)
	}
	where := b.whereClause()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admin_log_entries`+where, b.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, user_id, action, object_type, object_id, object_repr, change_message, action_time
		FROM admin_log_entries` + where + ` ORDER BY action_time DESC, id DESC` + b.page(limit, offset)

	rows, err := r.pool.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := []model.ActionLogEntry{}
	for rows.Next() {
		var e model.ActionLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.ObjectType, &e.ObjectID, &e.ObjectRepr,
			&e.ChangeMessage, &e.ActionTime); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
