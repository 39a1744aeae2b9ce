package worker

import (
	"context"

	"case_notification_service/internal/domain/push"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Renderer turns a parsed push payload into a visible notification.
type Renderer interface {
	Render(ctx context.Context, p push.Payload) error
}

// PushConsumer subscribes to the push channel and renders every event.
// Malformed payloads never fail: push.Parse substitutes defaults. A failed
// render is logged and not retried.
type PushConsumer struct {
	client   *redis.Client
	renderer Renderer
	logger   *logrus.Logger
}

func NewPushConsumer(client *redis.Client, renderer Renderer, logger *logrus.Logger) *PushConsumer {
	return &PushConsumer{client: client, renderer: renderer, logger: logger}
}

func (c *PushConsumer) Run(ctx context.Context) error {
	sub := c.client.Subscribe(ctx, push.Channel)
	defer sub.Close()
	c.logger.WithField("channel", push.Channel).Info("Subscribed to push events")

	events := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			payload := push.Parse([]byte(event.Payload))
			if err := c.renderer.Render(ctx, payload); err != nil {
				c.logger.WithError(err).Error("Push notification rendering failed")
			}
		}
	}
}

// rendered is the presentation the worker always applies, regardless of
// payload content: persistent, vibrating, right-to-left, with the two-action
// button set.
type rendered struct {
	Title              string
	Body               string
	URL                string
	RequireInteraction bool
	Vibration          []int
	Dir                string
	Lang               string
	Actions            []string
}

func renderPayload(p push.Payload) rendered {
	return rendered{
		Title:              p.Title,
		Body:               p.Body,
		URL:                p.URL,
		RequireInteraction: true,
		Vibration:          push.VibrationPattern,
		Dir:                push.Direction,
		Lang:               push.Language,
		Actions:            []string{"view", "dismiss"},
	}
}
