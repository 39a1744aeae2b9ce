package push

import "encoding/json"

// Redis keys shared between the notifier service and the background worker.
// The two processes have no shared memory; this channel, the heartbeat key
// and the sync tag set are their only coordination points.
const (
	// Channel is the pub/sub channel the worker subscribes to for push events.
	Channel = "notifications:push"
	// HeartbeatKey is set with a short TTL by a running worker. Its presence
	// is how the notifier decides the worker-backed delivery path is active.
	HeartbeatKey = "notifications:worker_alive"
	// SyncTagSet holds pending background-sync tags awaiting reconnection.
	SyncTagSet = "notifications:sync_tags"
)

// Defaults used when a push payload is absent or malformed.
const (
	DefaultTitle = "تنبيه جديد"
	DefaultBody  = "لديك إشعار جديد من نظام إدارة القضايا"
	DefaultURL   = "/"
)

// Presentation applied by the worker to every rendered notification,
// regardless of payload content.
var (
	VibrationPattern = []int{200, 100, 200}
	Direction        = "rtl"
	Language         = "ar"
)

// Payload is the optional JSON body of a push event:
// {"title": ..., "body": ..., "url": ...}. All fields are optional.
type Payload struct {
	Title              string `json:"title,omitempty"`
	Body               string `json:"body,omitempty"`
	URL                string `json:"url,omitempty"`
	Recipient          int64  `json:"recipient,omitempty"`
	RequireInteraction bool   `json:"require_interaction,omitempty"`
	Kind               string `json:"kind,omitempty"`
	Tier               string `json:"tier,omitempty"`
}

// Parse decodes a raw push payload, falling back to the fixed defaults when
// the payload is empty, malformed, or missing fields. Parse never fails: a
// bad payload still yields a renderable notification.
func Parse(raw []byte) Payload {
	p := Payload{}
	if len(raw) > 0 {
		// Decode errors are deliberately swallowed; defaults apply below.
		_ = json.Unmarshal(raw, &p)
	}
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Body == "" {
		p.Body = DefaultBody
	}
	if p.URL == "" {
		p.URL = DefaultURL
	}
	return p
}

// Encode serializes the payload for publishing.
func (p Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}
