package main

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub fans controller events out to the UI websocket clients.
type Hub struct {
	mu        sync.Mutex
	clients   map[*Client]struct{}
	broadcast chan wsMessage
	logger    *zap.Logger
}

type Client struct {
	hub  *Hub
	send chan []byte
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan wsMessage, 64),
		logger:    logger,
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(msg)
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues event for every client and never blocks the caller.
func (h *Hub) Publish(event Event) {
	select {
	case h.broadcast <- wsMessage{Type: event.Type, Payload: mustMarshal(event)}:
	default:
		h.logger.Warn("hub broadcast queue full, dropping event", zap.String("type", event.Type))
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
