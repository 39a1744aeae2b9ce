package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// State is the lifecycle state of the background worker.
type State string

const (
	StateInstalling State = "installing"
	StateInstalled  State = "installed"
	StateActivating State = "activating"
	StateActive     State = "active"
)

// Worker is the out-of-page execution context: it pre-caches static assets,
// consumes push events, and runs background sync. It shares no memory with
// the notifier service; Redis is the only bridge between the two.
type Worker struct {
	cache     *AssetCache
	push      *PushConsumer
	sync      *SyncManager
	heartbeat *Heartbeat
	logger    *logrus.Logger

	mu    sync.RWMutex
	state State
}

func NewWorker(cache *AssetCache, push *PushConsumer, syncMgr *SyncManager, heartbeat *Heartbeat, logger *logrus.Logger) *Worker {
	return &Worker{
		cache:     cache,
		push:      push,
		sync:      syncMgr,
		heartbeat: heartbeat,
		logger:    logger,
	}
}

// State returns the worker's current lifecycle state.
func (w *Worker) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
	w.logger.WithField("state", s).Info("Worker lifecycle transition")
}

// Run drives the install → activate → active lifecycle and then blocks
// consuming push events until ctx is cancelled. A failed install is fatal to
// this worker version: no partial cache is kept and no handlers start.
func (w *Worker) Run(ctx context.Context) error {
	w.setState(StateInstalling)
	if err := w.cache.Install(ctx); err != nil {
		return fmt.Errorf("worker install failed: %w", err)
	}
	w.setState(StateInstalled)

	// Control is claimed immediately: the heartbeat marks this worker as the
	// active registration without waiting for an old version to retire.
	go w.heartbeat.Run(ctx)

	w.setState(StateActivating)
	if err := w.cache.Activate(); err != nil {
		// Stale caches that survive here are retried on the next activation.
		w.logger.WithError(err).Warn("Cache cleanup during activation failed")
	}
	w.setState(StateActive)

	go w.sync.Run(ctx)
	return w.push.Run(ctx)
}
