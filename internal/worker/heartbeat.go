package worker

import (
	"context"
	"time"

	"case_notification_service/internal/domain/push"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	heartbeatTTL      = 30 * time.Second
	heartbeatInterval = 10 * time.Second
)

// Heartbeat keeps the worker registration key alive in Redis. The notifier
// treats the key's existence as "a background worker is registered" when
// choosing a delivery path.
type Heartbeat struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewHeartbeat(client *redis.Client, logger *logrus.Logger) *Heartbeat {
	return &Heartbeat{client: client, logger: logger}
}

func (h *Heartbeat) Run(ctx context.Context) {
	h.beat(ctx)
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Best effort: drop the registration so the notifier falls back
			// to in-page delivery right away instead of after TTL expiry.
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := h.client.Del(cleanupCtx, push.HeartbeatKey).Err(); err != nil {
				h.logger.WithError(err).Warn("Could not clear worker heartbeat key on shutdown")
			}
			return
		case <-ticker.C:
			h.beat(ctx)
		}
	}
}

func (h *Heartbeat) beat(ctx context.Context) {
	if err := h.client.Set(ctx, push.HeartbeatKey, time.Now().Format(time.RFC3339), heartbeatTTL).Err(); err != nil {
		h.logger.WithError(err).Warn("Worker heartbeat write failed")
	}
}
