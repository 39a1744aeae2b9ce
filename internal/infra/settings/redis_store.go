package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"case_notification_service/internal/domain/notification"

	"github.com/go-redis/redis/v8"
)

// RedisStore persists the NotificationSettings JSON under the fixed
// notification_settings key.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Load returns the persisted settings, or the defaults when nothing has been
// saved yet or the stored payload cannot be decoded.
func (s *RedisStore) Load(ctx context.Context) (notification.Settings, error) {
	raw, err := s.client.Get(ctx, notification.SettingsKey).Result()
	if err == redis.Nil {
		return notification.DefaultSettings(), nil
	}
	if err != nil {
		return notification.DefaultSettings(), fmt.Errorf("error reading settings: %w", err)
	}

	loaded := notification.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		return notification.DefaultSettings(), fmt.Errorf("error decoding settings payload: %w", err)
	}
	return loaded, nil
}

func (s *RedisStore) Save(ctx context.Context, value notification.Settings) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error encoding settings: %w", err)
	}
	if err := s.client.Set(ctx, notification.SettingsKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("error writing settings: %w", err)
	}
	return nil
}
