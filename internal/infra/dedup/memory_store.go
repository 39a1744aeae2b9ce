package dedup

import (
	"context"
	"sync"
	"time"

	"case_notification_service/internal/domain/notification"
)

// MemoryStore is an in-process DedupStore. It backs tests and local runs
// without Redis; state does not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]time.Time)}
}

func (s *MemoryStore) ShouldNotify(_ context.Context, taskID int64, kind notification.Kind, minInterval time.Duration, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.records[notification.DedupKey(taskID, kind)]
	if !ok {
		return true, nil
	}
	if minInterval <= 0 {
		return false, nil
	}
	return now.Sub(last) > minInterval, nil
}

func (s *MemoryStore) Record(_ context.Context, taskID int64, kind notification.Kind, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[notification.DedupKey(taskID, kind)] = now
	return nil
}

func (s *MemoryStore) PurgeOrphans(_ context.Context, liveTaskIDs []int64) (int, error) {
	live := make(map[string]struct{}, 2*len(liveTaskIDs))
	for _, id := range liveTaskIDs {
		live[notification.DedupKey(id, notification.KindDueDate)] = struct{}{}
		live[notification.DedupKey(id, notification.KindCourtSession)] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for key := range s.records {
		if _, alive := live[key]; !alive {
			delete(s.records, key)
			purged++
		}
	}
	return purged, nil
}
