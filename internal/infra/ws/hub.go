package ws

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotConnected = fmt.Errorf("subscriber has no active websocket connection")
	ErrSendBlocked  = fmt.Errorf("subscriber send buffer is full")
)

// Client is one connected browser session.
type Client struct {
	SubscriberID int64
	conn         wsConn
	send         chan []byte
	closeOnce    sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// Hub tracks connected subscribers and routes outbound frames to them. One
// connection per subscriber; a newer connection replaces the older one.
type Hub struct {
	clients    sync.Map // int64 -> *Client
	register   chan *Client
	unregister chan *Client
	logger     *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run processes registration events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			if prev, ok := h.clients.Load(client.SubscriberID); ok {
				prev.(*Client).close()
			}
			h.clients.Store(client.SubscriberID, client)
			h.logger.WithField("subscriber_id", client.SubscriberID).Info("Websocket subscriber connected")
		case client := <-h.unregister:
			if current, ok := h.clients.Load(client.SubscriberID); ok && current == client {
				h.clients.Delete(client.SubscriberID)
			}
			client.close()
			h.logger.WithField("subscriber_id", client.SubscriberID).Info("Websocket subscriber disconnected")
		}
	}
}

// IsConnected reports whether the subscriber currently has a live connection.
func (h *Hub) IsConnected(subscriberID int64) bool {
	_, ok := h.clients.Load(subscriberID)
	return ok
}

// Send queues a frame for the subscriber. It never blocks: a full send
// buffer is reported as an error and the frame is dropped.
func (h *Hub) Send(subscriberID int64, data []byte) error {
	value, ok := h.clients.Load(subscriberID)
	if !ok {
		return ErrNotConnected
	}
	client := value.(*Client)
	select {
	case client.send <- data:
		return nil
	default:
		return ErrSendBlocked
	}
}
