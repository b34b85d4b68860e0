package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/classroom-backend/internal/config"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/repository"
	"github.com/stemsi/classroom-backend/internal/response"
)

// RecentActionsLimit is how many entries the admin index shows.
const RecentActionsLimit = 10

// ActionLogService records and reads the admin audit trail. Writes are
// queued in Redis and persisted by the action log worker.
type ActionLogService struct {
	rdb  *redis.Client
	repo *repository.ActionLogRepository
	log  zerolog.Logger
}

// NewActionLogService creates a new ActionLogService.
func NewActionLogService(rdb *redis.Client, repo *repository.ActionLogRepository, log zerolog.Logger) *ActionLogService {
	return &ActionLogService{
		rdb:  rdb,
		repo: repo,
		log:  log.With().Str("component", "action_log_service").Logger(),
	}
}

// NewEntry builds a log entry for a change to obj made by userID.
func NewEntry(userID int, action model.ActionFlag, objectType string, objectID int, obj fmt.Stringer, message string) *model.ActionLogEntry {
	return &model.ActionLogEntry{
		UserID:        userID,
		Action:        action,
		ObjectType:    objectType,
		ObjectID:      fmt.Sprint(objectID),
		ObjectRepr:    truncate(obj.String(), 200),
		ChangeMessage: message,
		ActionTime:    time.Now().UTC(),
	}
}

// Record queues an entry. If Redis is unavailable the entry is written
// straight to the database so the trail has no gaps.
func (s *ActionLogService) Record(ctx context.Context, e *model.ActionLogEntry) {
	raw, err := json.Marshal(e)
	if err == nil {
		err = s.rdb.RPush(ctx, config.WorkerKey.PersistActionLogQueue, raw).Err()
	}
	if err == nil {
		return
	}

	s.log.Warn().Err(err).Msg("queueing action log entry failed, writing directly")
	if err := s.repo.Insert(ctx, e); err != nil {
		s.log.Error().Err(err).
			Int("user_id", e.UserID).
			Str("object_type", e.ObjectType).
			Str("object_id", e.ObjectID).
			Msg("failed to persist action log entry")
	}
}

// List returns a page of entries, newest first.
func (s *ActionLogService) List(ctx context.Context, userID *int, q ListQuery) ([]model.ActionLogEntry, *response.Pagination, error) {
	q = q.normalize()
	entries, total, err := s.repo.List(ctx, userID, q.PerPage, (q.Page-1)*q.PerPage)
	if err != nil {
		return nil, nil, err
	}
	return entries, response.NewPagination(q.Page, q.PerPage, total), nil
}

// Recent returns a user's latest entries for the admin index.
func (s *ActionLogService) Recent(ctx context.Context, userID int) ([]model.ActionLogEntry, error) {
	entries, _, err := s.repo.List(ctx, &userID, RecentActionsLimit, 0)
	return entries, err
}

// Subscribe opens a subscription to newly persisted entries.
// The caller must close the returned PubSub.
func (s *ActionLogService) Subscribe(ctx context.Context) *redis.PubSub {
	return s.rdb.Subscribe(ctx, config.CacheKey.ActionLogChannel())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
