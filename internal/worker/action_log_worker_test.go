package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/repository"
)

type fakeStore struct {
	bulkErr   error
	insertErr map[int]error
	bulk      int
	inserted  []int
}

func (f *fakeStore) BulkInsert(_ context.Context, entries []*model.ActionLogEntry) error {
	f.bulk++
	return f.bulkErr
}

func (f *fakeStore) Insert(_ context.Context, e *model.ActionLogEntry) error {
	if err := f.insertErr[e.UserID]; err != nil {
		return err
	}
	f.inserted = append(f.inserted, e.UserID)
	return nil
}

// offlineRedis points at a closed port so publishes and requeues fail fast.
func offlineRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func entries(userIDs ...int) []*model.ActionLogEntry {
	out := make([]*model.ActionLogEntry, len(userIDs))
	for i, id := range userIDs {
		out[i] = &model.ActionLogEntry{UserID: id, Action: model.ActionChange, ObjectType: "users"}
	}
	return out
}

func TestShouldFlush(t *testing.T) {
	now := time.Now()

	cases := []struct {
		n    int
		last time.Time
		want bool
	}{
		{0, now.Add(-time.Hour), false},
		{1, now, false},
		{ActionLogBatchSize, now, true},
		{1, now.Add(-ActionLogBatchTimeout), true},
	}
	for _, tc := range cases {
		if got := shouldFlush(tc.n, tc.last, now); got != tc.want {
			t.Errorf("shouldFlush(%d, %v) = %v, want %v", tc.n, now.Sub(tc.last), got, tc.want)
		}
	}
}

func TestDecodeEntry(t *testing.T) {
	e, err := decodeEntry(`{"user_id":3,"action":"ADDITION","object_type":"classes","object_id":"9","object_repr":"X-A"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.UserID != 3 || e.Action != model.ActionAddition || e.ObjectID != "9" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.ActionTime.IsZero() {
		t.Error("missing action time should default to now")
	}

	for _, raw := range []string{`not json`, `{"action":"CHANGE","object_type":"users"}`, `{"user_id":1}`} {
		if _, err := decodeEntry(raw); err == nil {
			t.Errorf("decodeEntry(%q) accepted", raw)
		}
	}
}

func TestFlushUsesBulkInsert(t *testing.T) {
	store := &fakeStore{}
	w := NewActionLogWorker(store, offlineRedis(t), zerolog.Nop())

	w.flushSafe(context.Background(), entries(1, 2, 3))

	if store.bulk != 1 || len(store.inserted) != 0 {
		t.Fatalf("expected one bulk insert, got bulk=%d single=%v", store.bulk, store.inserted)
	}
}

func TestFlushFallsBackToSingleInserts(t *testing.T) {
	store := &fakeStore{
		bulkErr: errors.New("bulk failed"),
		insertErr: map[int]error{
			2: fmt.Errorf("insert: %w", repository.ErrInvalidReference),
		},
	}
	w := NewActionLogWorker(store, offlineRedis(t), zerolog.Nop())

	w.flushSafe(context.Background(), entries(1, 2, 3))

	if len(store.inserted) != 2 || store.inserted[0] != 1 || store.inserted[1] != 3 {
		t.Fatalf("expected entries 1 and 3 persisted singly, got %v", store.inserted)
	}
}

func TestIsPermanent(t *testing.T) {
	if !isPermanent(repository.ErrInvalidReference) || !isPermanent(repository.ErrConstraint) {
		t.Error("integrity errors should be permanent")
	}
	if isPermanent(errors.New("connection reset")) {
		t.Error("transient errors should be retried")
	}
}
