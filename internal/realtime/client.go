package realtime

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin is enforced by the CORS middleware in front of this
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket subscriber bound to a single (table, filter)
// channel for the life of the connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	Table  string
	Filter string
}

// ServeWS upgrades the request and subscribes the connection to the channel
// named by the "table" and "filter" query parameters.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	table := r.URL.Query().Get("table")
	if table == "" {
		http.Error(w, "missing table parameter", http.StatusBadRequest)
		return
	}
	filter := r.URL.Query().Get("filter")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		Table:  table,
		Filter: filter,
	}

	client.hub.register <- client

	go client.writePump(logger)
	go client.readPump()
}

// readPump drains the connection until it closes. Subscribers don't send
// application messages; reading only serves close/ping handling.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump pushes queued events to the socket and keeps the connection
// alive with periodic pings.
func (c *Client) writePump(logger *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				// Hub closed the channel on unregister
				c.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
