package dedup

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"case_notification_service/internal/domain/notification"

	"github.com/go-redis/redis/v8"
)

// RedisStore persists last-notified timestamps in Redis under the keys
// task_notification_<taskID> and court_notification_<taskID>, values encoded
// as RFC3339 strings. Records carry a retention TTL so abandoned entries age
// out even if the purge job never sees them.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

func NewRedisStore(client *redis.Client, retention time.Duration) *RedisStore {
	return &RedisStore{client: client, retention: retention}
}

func (s *RedisStore) ShouldNotify(ctx context.Context, taskID int64, kind notification.Kind, minInterval time.Duration, now time.Time) (bool, error) {
	key := notification.DedupKey(taskID, kind)
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("error reading dedup record %s: %w", key, err)
	}

	lastNotified, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// A corrupted record must not suppress reminders forever.
		return true, nil
	}

	if minInterval <= 0 {
		// Once-ever semantics: any intact record suppresses.
		return false, nil
	}
	return now.Sub(lastNotified) > minInterval, nil
}

func (s *RedisStore) Record(ctx context.Context, taskID int64, kind notification.Kind, now time.Time) error {
	key := notification.DedupKey(taskID, kind)
	if err := s.client.Set(ctx, key, now.Format(time.RFC3339), s.retention).Err(); err != nil {
		return fmt.Errorf("error writing dedup record %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) PurgeOrphans(ctx context.Context, liveTaskIDs []int64) (int, error) {
	live := make(map[int64]struct{}, len(liveTaskIDs))
	for _, id := range liveTaskIDs {
		live[id] = struct{}{}
	}

	purged := 0
	for _, pattern := range []string{"task_notification_*", "court_notification_*"} {
		var cursor uint64
		for {
			keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				return purged, fmt.Errorf("error scanning dedup keys (%s): %w", pattern, err)
			}
			for _, key := range keys {
				taskID, ok := taskIDFromKey(key)
				if !ok {
					continue
				}
				if _, alive := live[taskID]; alive {
					continue
				}
				if err := s.client.Del(ctx, key).Err(); err != nil {
					return purged, fmt.Errorf("error deleting orphaned dedup key %s: %w", key, err)
				}
				purged++
			}
			cursor = next
			if cursor == 0 {
				break
			}
		}
	}
	return purged, nil
}

func taskIDFromKey(key string) (int64, bool) {
	idx := strings.LastIndex(key, "_")
	if idx < 0 || idx == len(key)-1 {
		return 0, false
	}
	id, err := strconv.ParseInt(key[idx+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
