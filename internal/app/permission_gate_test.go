package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"case_notification_service/internal/domain/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrompter struct {
	mu      sync.Mutex
	sent    []int64
	sendErr error
}

func (f *fakePrompter) Send(subscriberID int64, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, subscriberID)
	return nil
}

func (f *fakePrompter) promptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeReachability struct {
	connected bool
}

func (f *fakeReachability) IsConnected(_ int64) bool { return f.connected }

type fakeWorkerProbe struct {
	active bool
}

func (f *fakeWorkerProbe) Active(_ context.Context) bool { return f.active }

func newGateFixture() (*PermissionGate, *fakePrompter, *fakeReachability, *fakeWorkerProbe) {
	prompter := &fakePrompter{}
	reach := &fakeReachability{connected: true}
	probe := &fakeWorkerProbe{active: true}
	return NewPermissionGate(prompter, reach, probe, testLogger()), prompter, reach, probe
}

func TestPermissionGate_StatusDefaultsWhenUnreported(t *testing.T) {
	gate, _, _, _ := newGateFixture()
	assert.Equal(t, notification.PermissionDefault, gate.Status(7))
}

func TestPermissionGate_IsSupported(t *testing.T) {
	gate, _, reach, probe := newGateFixture()
	ctx := context.Background()

	assert.True(t, gate.IsSupported(ctx, 1))

	probe.active = false
	assert.False(t, gate.IsSupported(ctx, 1))

	probe.active = true
	reach.connected = false
	assert.False(t, gate.IsSupported(ctx, 1))
}

func TestRequestPermission_GrantedResolvesWithoutPrompt(t *testing.T) {
	gate, prompter, _, _ := newGateFixture()
	gate.SetStatus(1, notification.PermissionGranted)

	granted, err := gate.RequestPermission(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Zero(t, prompter.promptCount())
}

func TestRequestPermission_DeniedIsNeverReprompted(t *testing.T) {
	gate, prompter, _, _ := newGateFixture()
	gate.SetStatus(2, notification.PermissionDenied)

	granted, err := gate.RequestPermission(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Zero(t, prompter.promptCount())
}

func TestRequestPermission_PromptAnsweredGranted(t *testing.T) {
	gate, prompter, _, _ := newGateFixture()

	type result struct {
		granted bool
		err     error
	}
	done := make(chan result, 1)
	go func() {
		granted, err := gate.RequestPermission(context.Background(), 3)
		done <- result{granted, err}
	}()

	// Wait until the prompt actually went out before answering it.
	require.Eventually(t, func() bool { return prompter.promptCount() == 1 },
		time.Second, 5*time.Millisecond)
	gate.SetStatus(3, notification.PermissionGranted)

	res := <-done
	require.NoError(t, res.err)
	assert.True(t, res.granted)
	assert.Equal(t, notification.PermissionGranted, gate.Status(3))
}

func TestRequestPermission_PromptAnsweredDenied(t *testing.T) {
	gate, prompter, _, _ := newGateFixture()

	done := make(chan bool, 1)
	go func() {
		granted, _ := gate.RequestPermission(context.Background(), 4)
		done <- granted
	}()

	require.Eventually(t, func() bool { return prompter.promptCount() == 1 },
		time.Second, 5*time.Millisecond)
	gate.SetStatus(4, notification.PermissionDenied)

	assert.False(t, <-done)
}

func TestRequestPermission_TimeoutResolvesFalse(t *testing.T) {
	gate, _, _, _ := newGateFixture()
	gate.promptTimeout = 20 * time.Millisecond

	granted, err := gate.RequestPermission(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestRequestPermission_UnreachableSubscriberResolvesFalse(t *testing.T) {
	gate, prompter, _, _ := newGateFixture()
	prompter.sendErr = fmt.Errorf("not connected")

	granted, err := gate.RequestPermission(context.Background(), 6)
	require.NoError(t, err)
	assert.False(t, granted)
}
