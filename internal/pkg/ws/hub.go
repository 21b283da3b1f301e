// Package ws delivers server-side notifications to connected console
// clients over WebSocket. The console uses it for toast messages that
// outlive a request, such as the material-upload summary emitted after the
// author has already navigated away.
package ws

import (
	"sync"

	"github.com/rs/zerolog"
)

// Event is a notification pushed to a single user.
type Event struct {
	Type     string      `json:"type"`
	Severity string      `json:"severity,omitempty"`
	Message  string      `json:"message,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

// Hub maintains the set of active clients, keyed by user ID. A user may
// hold several connections (multiple tabs); events go to all of them.
type Hub struct {
	clients map[int64]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	events     chan userEvent

	mu     sync.RWMutex
	logger zerolog.Logger
}

type userEvent struct {
	userID int64
	event  Event
}

// NewHub creates a new Hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan userEvent, 64),
		logger:     logger,
	}
}

// Run processes registrations and event deliveries. Call it in its own
// goroutine before serving connections.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case ue := <-h.events:
			h.deliver(ue.userID, ue.event)
		}
	}
}

// Send queues an event for a user. Events for users with no open
// connection are dropped; the console re-reads state on next load.
func (h *Hub) Send(userID int64, event Event) {
	h.events <- userEvent{userID: userID, event: event}
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*Client]bool)
	}
	h.clients[c.userID][c] = true
	h.logger.Debug().Int64("userId", c.userID).Msg("WebSocket client registered")
}

func (h *Hub) unregisterClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[c.userID]; ok {
		if _, ok := conns[c]; ok {
			delete(conns, c)
			close(c.send)
			if len(conns) == 0 {
				delete(h.clients, c.userID)
			}
		}
	}
	h.logger.Debug().Int64("userId", c.userID).Msg("WebSocket client unregistered")
}

func (h *Hub) deliver(userID int64, event Event) {
	h.mu.RLock()
	conns := h.clients[userID]
	h.mu.RUnlock()

	if len(conns) == 0 {
		h.logger.Debug().Int64("userId", userID).Str("type", event.Type).Msg("No open connection, notification dropped")
		return
	}
	for c := range conns {
		select {
		case c.send <- event:
		default:
			// Slow consumer, let its write pump die and re-register.
			h.logger.Warn().Int64("userId", userID).Msg("WebSocket send buffer full, dropping connection")
			go func(c *Client) { h.unregister <- c }(c)
		}
	}
}
