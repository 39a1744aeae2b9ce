package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"case_notification_service/internal/domain/push"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// DefaultSyncTag is registered on worker startup; additional tags may be
// registered while offline and fire on the next reconnection.
const DefaultSyncTag = "notification-sync"

// SyncManager implements tag-triggered background sync: pending tags live in
// a Redis set, a connectivity watcher detects offline→online transitions,
// and each pending tag fires one call to the sync endpoint. Results are
// logged only; a failed tag simply stays pending for the next reconnection.
type SyncManager struct {
	client     *redis.Client
	endpoint   string
	probeURL   string
	httpClient *http.Client
	interval   time.Duration
	logger     *logrus.Logger

	online bool
}

func NewSyncManager(client *redis.Client, originURL, endpointPath string, interval time.Duration, logger *logrus.Logger) *SyncManager {
	origin := strings.TrimRight(originURL, "/")
	return &SyncManager{
		client:     client,
		endpoint:   origin + endpointPath,
		probeURL:   origin + "/health",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		interval:   interval,
		logger:     logger,
	}
}

// RegisterTag marks a sync tag as pending.
func (m *SyncManager) RegisterTag(ctx context.Context, tag string) error {
	if err := m.client.SAdd(ctx, push.SyncTagSet, tag).Err(); err != nil {
		return fmt.Errorf("error registering sync tag %s: %w", tag, err)
	}
	return nil
}

func (m *SyncManager) Run(ctx context.Context) {
	if err := m.RegisterTag(ctx, DefaultSyncTag); err != nil {
		m.logger.WithError(err).Warn("Could not register default sync tag")
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.check(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (m *SyncManager) check(ctx context.Context) {
	reachable := m.probe(ctx)
	switch {
	case reachable && !m.online:
		m.online = true
		m.logger.Info("Connectivity restored, firing pending sync tags")
		m.flush(ctx)
	case !reachable && m.online:
		m.online = false
		m.logger.Warn("Origin unreachable, sync tags will fire on reconnection")
	}
}

func (m *SyncManager) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.probeURL, nil)
	if err != nil {
		return false
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (m *SyncManager) flush(ctx context.Context) {
	tags, err := m.client.SMembers(ctx, push.SyncTagSet).Result()
	if err != nil {
		m.logger.WithError(err).Error("Could not read pending sync tags")
		return
	}

	for _, tag := range tags {
		if err := m.fire(ctx, tag); err != nil {
			// The tag stays pending; the next reconnection retries it.
			m.logger.WithField("tag", tag).WithError(err).Error("Background sync failed")
			continue
		}
		if err := m.client.SRem(ctx, push.SyncTagSet, tag).Err(); err != nil {
			m.logger.WithField("tag", tag).WithError(err).Warn("Could not clear completed sync tag")
		}
	}
}

func (m *SyncManager) fire(ctx context.Context, tag string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, nil)
	if err != nil {
		return fmt.Errorf("error building sync request: %w", err)
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling sync endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sync endpoint returned status %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("error decoding sync response: %w", err)
	}
	m.logger.WithFields(logrus.Fields{
		"tag":      tag,
		"response": body,
	}).Info("Background sync completed")
	return nil
}
