package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/classroom-backend/internal/config"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/repository"
)

const (
	ActionLogBatchSize    = 50
	ActionLogBatchTimeout = 2 * time.Second
	ActionLogPollTimeout  = 1 * time.Second
)

// ActionLogStore persists admin log entries. *repository.ActionLogRepository satisfies it.
type ActionLogStore interface {
	BulkInsert(ctx context.Context, entries []*model.ActionLogEntry) error
	Insert(ctx context.Context, e *model.ActionLogEntry) error
}

// ActionLogWorker drains the action log queue into PostgreSQL and
// announces each persisted entry on the action log channel.
type ActionLogWorker struct {
	store ActionLogStore
	rdb   *redis.Client
	log   zerolog.Logger
}

func NewActionLogWorker(store ActionLogStore, rdb *redis.Client, log zerolog.Logger) *ActionLogWorker {
	return &ActionLogWorker{
		store: store,
		rdb:   rdb,
		log:   log.With().Str("component", "action_log_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start blocks until ctx is cancelled, then flushes what it holds.
func (w *ActionLogWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ActionLogWorker started")

	batch := make([]*model.ActionLogEntry, 0, ActionLogBatchSize)
	lastFlush := time.Now()

	for {
		if shouldFlush(len(batch), lastFlush, time.Now()) {
			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ActionLogPollTimeout, config.WorkerKey.PersistActionLogQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
					// Back off so a Redis outage does not spin the loop.
					time.Sleep(ActionLogPollTimeout)
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			e, err := decodeEntry(item[1])
			if err != nil {
				w.log.Error().Err(err).Msg("Invalid action log payload")
				continue
			}

			batch = append(batch, e)
		}
	}
}

func shouldFlush(n int, lastFlush, now time.Time) bool {
	return n > 0 && (n >= ActionLogBatchSize || now.Sub(lastFlush) >= ActionLogBatchTimeout)
}

func decodeEntry(raw string) (*model.ActionLogEntry, error) {
	var e model.ActionLogEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, err
	}
	if e.UserID <= 0 || e.Action == "" || e.ObjectType == "" {
		return nil, errors.New("action log entry missing user, action or object type")
	}
	if e.ActionTime.IsZero() {
		e.ActionTime = time.Now().UTC()
	}
	return &e, nil
}

// ----------------------------------------------------------------
// Batch insert wrapper
// ----------------------------------------------------------------

func (w *ActionLogWorker) flushSafe(ctx context.Context, batch []*model.ActionLogEntry) {
	if len(batch) == 0 {
		return
	}

	if err := w.store.BulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("size", len(batch)).Msg("bulk action log insert failed, using fallback")

		persisted := make([]*model.ActionLogEntry, 0, len(batch))
		for _, e := range batch {
			if err := w.store.Insert(ctx, e); err != nil {
				if isPermanent(err) {
					w.log.Error().Err(err).Int("user_id", e.UserID).Msg("dropping action log entry")
					continue
				}
				w.log.Error().Err(err).Msg("insert failed, requeueing")
				raw, _ := json.Marshal(e)
				w.rdb.RPush(ctx, config.WorkerKey.PersistActionLogQueue, raw)
				continue
			}
			persisted = append(persisted, e)
		}
		w.publish(ctx, persisted)
		return
	}

	w.publish(ctx, batch)
}

// publish announces persisted entries to live console streams.
func (w *ActionLogWorker) publish(ctx context.Context, entries []*model.ActionLogEntry) {
	if len(entries) == 0 {
		return
	}

	channel := config.CacheKey.ActionLogChannel()
	pipe := w.rdb.Pipeline()
	for _, e := range entries {
		raw, err := json.Marshal(e)
		if err != nil {
			continue
		}
		pipe.Publish(ctx, channel, raw)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Warn().Err(err).Msg("publishing action log entries failed")
	}
}

// isPermanent reports insert failures that retrying cannot fix, such as
// an entry whose user was deleted while it sat in the queue.
func isPermanent(err error) bool {
	return errors.Is(err, repository.ErrInvalidReference) || errors.Is(err, repository.ErrConstraint)
}
