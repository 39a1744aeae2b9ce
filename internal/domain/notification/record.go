package notification

import (
	"context"
	"fmt"
	"time"
)

// DedupKey returns the persisted key under which the last-notified timestamp
// for a (task, kind) pair is stored. The key shapes are part of the external
// interface and must not change.
func DedupKey(taskID int64, kind Kind) string {
	if kind == KindCourtSession {
		return fmt.Sprintf("court_notification_%d", taskID)
	}
	return fmt.Sprintf("task_notification_%d", taskID)
}

// DedupStore persists last-notified timestamps per (task, kind) pair and
// answers whether a reminder is allowed to fire again.
//
// The store is read-then-written non-atomically; that is acceptable because
// the evaluator runs on a single timer and no concurrent sweeps occur.
type DedupStore interface {
	// ShouldNotify reports whether a notification for (taskID, kind) may be
	// sent at `now`. It is true when no prior record exists or when more
	// than minInterval has elapsed since the last record. A minInterval of
	// zero (or less) means "at most once ever": any existing record
	// permanently suppresses further notifications.
	ShouldNotify(ctx context.Context, taskID int64, kind Kind, minInterval time.Duration, now time.Time) (bool, error)
	// Record persists (overwriting) the last-notified timestamp for the pair.
	Record(ctx context.Context, taskID int64, kind Kind, now time.Time) error
	// PurgeOrphans deletes records whose task ID is not in liveTaskIDs and
	// returns the number of records removed.
	PurgeOrphans(ctx context.Context, liveTaskIDs []int64) (int, error)
}
