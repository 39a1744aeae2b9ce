package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"case_notification_service/internal/domain/notification"

	"github.com/sirupsen/logrus"
)

// defaultPromptTimeout bounds how long RequestPermission waits for the
// client to answer a permission prompt.
const defaultPromptTimeout = 30 * time.Second

// PromptSender pushes a permission prompt to a connected subscriber.
// Implemented by the websocket hub.
type PromptSender interface {
	Send(subscriberID int64, data []byte) error
}

// Reachability reports whether a subscriber currently has any live
// connection the service can reach it through.
type Reachability interface {
	IsConnected(subscriberID int64) bool
}

// WorkerProbe reports whether a background worker registration is active.
type WorkerProbe interface {
	Active(ctx context.Context) bool
}

// PermissionGate tracks per-subscriber notification permission. States are
// reported by clients each session and held in memory only; the platform
// remains the source of truth.
type PermissionGate struct {
	mu      sync.Mutex
	states  map[int64]notification.PermissionState
	pending map[int64]chan notification.PermissionState

	prompts       PromptSender
	reachability  Reachability
	worker        WorkerProbe
	promptTimeout time.Duration
	logger        *logrus.Logger
}

func NewPermissionGate(prompts PromptSender, reachability Reachability, worker WorkerProbe, logger *logrus.Logger) *PermissionGate {
	return &PermissionGate{
		states:        make(map[int64]notification.PermissionState),
		pending:       make(map[int64]chan notification.PermissionState),
		prompts:       prompts,
		reachability:  reachability,
		worker:        worker,
		promptTimeout: defaultPromptTimeout,
		logger:        logger,
	}
}

// IsSupported reports whether notifications can work for this subscriber at
// all: a reachable delivery surface and an active worker registration must
// both exist. Callers short-circuit to an "unavailable" state when false;
// no error is ever raised for unsupported subscribers.
func (g *PermissionGate) IsSupported(ctx context.Context, subscriberID int64) bool {
	return g.reachability.IsConnected(subscriberID) && g.worker.Active(ctx)
}

// Status returns the current permission state, default when unreported.
func (g *PermissionGate) Status(subscriberID int64) notification.PermissionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	if state, ok := g.states[subscriberID]; ok {
		return state
	}
	return notification.PermissionDefault
}

// SetStatus records the state a client reported and resolves any prompt
// waiting on it.
func (g *PermissionGate) SetStatus(subscriberID int64, state notification.PermissionState) {
	g.mu.Lock()
	g.states[subscriberID] = state
	waiting, ok := g.pending[subscriberID]
	if ok {
		delete(g.pending, subscriberID)
	}
	g.mu.Unlock()

	if ok {
		waiting <- state
	}
}

// RequestPermission resolves true immediately when permission is already
// granted and false immediately when it was denied (denied subscribers are
// never re-prompted). Otherwise the subscriber is prompted and the reported
// answer decides the result; an unanswered prompt resolves false.
func (g *PermissionGate) RequestPermission(ctx context.Context, subscriberID int64) (bool, error) {
	switch g.Status(subscriberID) {
	case notification.PermissionGranted:
		return true, nil
	case notification.PermissionDenied:
		return false, nil
	}

	answer := make(chan notification.PermissionState, 1)
	g.mu.Lock()
	g.pending[subscriberID] = answer
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		delete(g.pending, subscriberID)
		g.mu.Unlock()
	}()

	prompt, _ := json.Marshal(map[string]string{"type": "permission_request"})
	if err := g.prompts.Send(subscriberID, prompt); err != nil {
		g.logger.WithField("subscriber_id", subscriberID).WithError(err).Debug("Permission prompt not deliverable")
		return false, nil
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-time.After(g.promptTimeout):
		g.logger.WithField("subscriber_id", subscriberID).Debug("Permission prompt timed out")
		return false, nil
	case state := <-answer:
		return state == notification.PermissionGranted, nil
	}
}
