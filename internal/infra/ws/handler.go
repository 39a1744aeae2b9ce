package ws

import (
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsConn is the subset of *websocket.Conn the hub uses.
type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// ServeWS upgrades the request and registers the subscriber with the hub.
// The subscriber identifies itself with the subscriber_id query parameter;
// authentication is handled upstream by the case-management backend.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	subscriberID, err := strconv.ParseInt(r.URL.Query().Get("subscriber_id"), 10, 64)
	if err != nil || subscriberID <= 0 {
		http.Error(w, "invalid subscriber_id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Error("Websocket upgrade failed")
		return
	}

	client := &Client{
		SubscriberID: subscriberID,
		conn:         conn,
		send:         make(chan []byte, 256),
	}
	h.register <- client

	go h.readPump(client)
	go h.writePump(client)
}

func (h *Hub) readPump(c *Client) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *Client) {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.WithField("subscriber_id", c.SubscriberID).WithError(err).Warn("Websocket write failed")
			return
		}
	}
	// Channel closed: a newer connection replaced this one.
	c.conn.Close()
}
