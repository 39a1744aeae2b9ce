package ws

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func runningHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func connect(t *testing.T, hub *Hub, subscriberID int64) *Client {
	t.Helper()
	client := &Client{SubscriberID: subscriberID, send: make(chan []byte, 2)}
	hub.register <- client
	require.Eventually(t, func() bool { return hub.IsConnected(subscriberID) },
		time.Second, 5*time.Millisecond)
	return client
}

func TestHub_SendToConnectedSubscriber(t *testing.T) {
	hub := runningHub(t)
	client := connect(t, hub, 1)

	require.NoError(t, hub.Send(1, []byte("hello")))
	assert.Equal(t, []byte("hello"), <-client.send)
}

func TestHub_SendToUnknownSubscriber(t *testing.T) {
	hub := runningHub(t)
	assert.ErrorIs(t, hub.Send(99, []byte("hello")), ErrNotConnected)
}

func TestHub_SendNeverBlocks(t *testing.T) {
	hub := runningHub(t)
	connect(t, hub, 2)

	require.NoError(t, hub.Send(2, []byte("one")))
	require.NoError(t, hub.Send(2, []byte("two")))
	assert.ErrorIs(t, hub.Send(2, []byte("three")), ErrSendBlocked)
}

func TestHub_NewerConnectionReplacesOlder(t *testing.T) {
	hub := runningHub(t)
	first := connect(t, hub, 3)

	second := &Client{SubscriberID: 3, send: make(chan []byte, 2)}
	hub.register <- second

	// The first client's send channel gets closed on replacement.
	require.Eventually(t, func() bool {
		select {
		case _, open := <-first.send:
			return !open
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Send(3, []byte("frame")))
	assert.Equal(t, []byte("frame"), <-second.send)
}

func TestHub_UnregisterDisconnects(t *testing.T) {
	hub := runningHub(t)
	client := connect(t, hub, 4)

	hub.unregister <- client
	require.Eventually(t, func() bool { return !hub.IsConnected(4) },
		time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, hub.Send(4, []byte("late")), ErrNotConnected)
}
