package notification

import "context"

// Message is one notification ready for delivery. The channel decides how
// it is rendered; the evaluator decides whether it is sent at all.
type Message struct {
	ID                 string
	TaskID             int64
	Kind               Kind
	Tier               Tier
	Title              string
	Body               string
	URL                string // In-app deep link opened when the notification is clicked.
	RequireInteraction bool
	Recipient          int64 // Subscriber the message is routed to; 0 means the firm-wide channel.
}

// Channel abstracts "show this notification now". Implementations include
// the worker-backed persistent path and the in-page websocket fallback.
// Exactly one visible notification is produced per successful call; there is
// no retry on failure.
type Channel interface {
	Deliver(ctx context.Context, msg Message) error
}
