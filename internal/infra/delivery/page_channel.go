package delivery

import (
	"context"
	"encoding/json"
	"fmt"

	"case_notification_service/internal/domain/notification"
	"case_notification_service/internal/infra/ws"
)

// pageAutoCloseMs is how long an in-page notification stays visible before
// auto-dismissing, unless it requires interaction.
const pageAutoCloseMs = 5000

type pageEvent struct {
	Type               string `json:"type"`
	ID                 string `json:"id"`
	TaskID             int64  `json:"task_id"`
	Kind               string `json:"kind"`
	Tier               string `json:"tier"`
	Title              string `json:"title"`
	Body               string `json:"body"`
	URL                string `json:"url"`
	RequireInteraction bool   `json:"require_interaction"`
	AutoCloseMs        int    `json:"auto_close_ms,omitempty"`
}

// PageChannel is the in-page fallback path: the notification is pushed over
// the recipient's websocket and rendered by the page itself. It only works
// while the recipient has a live connection.
type PageChannel struct {
	hub *ws.Hub
}

func NewPageChannel(hub *ws.Hub) *PageChannel {
	return &PageChannel{hub: hub}
}

func (c *PageChannel) Deliver(_ context.Context, msg notification.Message) error {
	if msg.Recipient == 0 {
		return fmt.Errorf("in-page delivery requires a recipient: %w", ws.ErrNotConnected)
	}

	event := pageEvent{
		Type:               "notification",
		ID:                 msg.ID,
		TaskID:             msg.TaskID,
		Kind:               string(msg.Kind),
		Tier:               string(msg.Tier),
		Title:              msg.Title,
		Body:               msg.Body,
		URL:                msg.URL,
		RequireInteraction: msg.RequireInteraction,
	}
	if !msg.RequireInteraction {
		event.AutoCloseMs = pageAutoCloseMs
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error encoding page notification: %w", err)
	}
	if err := c.hub.Send(msg.Recipient, raw); err != nil {
		return fmt.Errorf("error sending page notification to subscriber %d: %w", msg.Recipient, err)
	}
	return nil
}
