package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// EventInsert is the only event type published: subscribers watch for new
// rows, and reads after a notification fetch current state.
const EventInsert = "INSERT"

// Event is one change notification. Record carries the affected row as sent
// to clients; the stream is best-effort and unordered.
type Event struct {
	Type   string          `json:"type"`
	Table  string          `json:"table"`
	Filter string          `json:"filter"`
	Record json.RawMessage `json:"record"`
}

// channelKey identifies one subscription channel: a table plus a row filter
// such as "database_id=eq.db-1". Clients on the same key share a room.
func channelKey(table, filter string) string {
	return table + "|" + filter
}

// Hub fans change events out to websocket subscribers. Rooms are keyed by
// (table, filter); a client joins exactly one room and is dropped from it
// when its connection goes away.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     chan Event
	logger     *slog.Logger
	mu         sync.Mutex
}

// NewHub creates a hub. Call Run in a goroutine before serving connections.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan Event, 64),
		logger:     logger,
	}
}

// Publish queues one event for delivery to the channel's subscribers.
// Delivery is best-effort: with no subscribers the event is dropped, and a
// full hub queue drops the event rather than blocking the writer.
func (h *Hub) Publish(event Event) {
	select {
	case h.events <- event:
	default:
		h.logger.Warn("event queue full, dropping event",
			"table", event.Table,
			"filter", event.Filter,
		)
	}
}

// Run processes registrations and event delivery until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			key := channelKey(client.Table, client.Filter)
			if h.rooms[key] == nil {
				h.rooms[key] = make(map[*Client]bool)
			}
			h.rooms[key][client] = true
			count := len(h.rooms[key])
			h.mu.Unlock()

			h.logger.Debug("client subscribed",
				"table", client.Table,
				"filter", client.Filter,
				"subscribers", count,
			)

		case client := <-h.unregister:
			h.mu.Lock()
			key := channelKey(client.Table, client.Filter)
			if _, ok := h.rooms[key][client]; ok {
				delete(h.rooms[key], client)
				close(client.send)
				if len(h.rooms[key]) == 0 {
					delete(h.rooms, key)
				}
			}
			h.mu.Unlock()

			h.logger.Debug("client unsubscribed",
				"table", client.Table,
				"filter", client.Filter,
			)

		case event := <-h.events:
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal event", "error", err)
				continue
			}

			// Collect recipients under the lock, write outside it.
			h.mu.Lock()
			key := channelKey(event.Table, event.Filter)
			recipients := make([]*Client, 0, len(h.rooms[key]))
			for client := range h.rooms[key] {
				recipients = append(recipients, client)
			}
			h.mu.Unlock()

			for _, client := range recipients {
				select {
				case client.send <- payload:
				default:
					// Lagging client; drop it so the hub never blocks.
					h.logger.Warn("subscriber send buffer full, unregistering",
						"table", client.Table,
						"filter", client.Filter,
					)
					go func(c *Client) { h.unregister <- c }(client)
				}
			}
		}
	}
}

// subscriberCount reports the size of one room, for tests.
func (h *Hub) subscriberCount(table, filter string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[channelKey(table, filter)])
}
