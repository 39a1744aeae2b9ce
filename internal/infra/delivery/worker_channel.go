package delivery

import (
	"context"
	"fmt"

	"case_notification_service/internal/domain/notification"
	"case_notification_service/internal/domain/push"

	"github.com/go-redis/redis/v8"
)

// WorkerChannel is the persistent delivery path: it publishes the push
// payload to Redis, where the background worker renders and delivers it.
// Notifications on this path reach recipients even when no web client is
// connected.
type WorkerChannel struct {
	client *redis.Client
}

func NewWorkerChannel(client *redis.Client) *WorkerChannel {
	return &WorkerChannel{client: client}
}

// Active reports whether a background worker is currently registered, i.e.
// its heartbeat key is alive.
func (c *WorkerChannel) Active(ctx context.Context) bool {
	n, err := c.client.Exists(ctx, push.HeartbeatKey).Result()
	return err == nil && n > 0
}

func (c *WorkerChannel) Deliver(ctx context.Context, msg notification.Message) error {
	payload := push.Payload{
		Title:              msg.Title,
		Body:               msg.Body,
		URL:                msg.URL,
		Recipient:          msg.Recipient,
		RequireInteraction: msg.RequireInteraction,
		Kind:               string(msg.Kind),
		Tier:               string(msg.Tier),
	}
	raw, err := payload.Encode()
	if err != nil {
		return fmt.Errorf("error encoding push payload: %w", err)
	}
	if err := c.client.Publish(ctx, push.Channel, raw).Err(); err != nil {
		return fmt.Errorf("error publishing push payload: %w", err)
	}
	return nil
}
