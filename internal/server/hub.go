// Package server provides the dashboard HTTP API with WebSocket and SSE
// event feeds over the merge, conflict, and audit engines.
package server

import (
	"sync"

	"github.com/gorilla/websocket"
)

// EventBufferSize is the buffer size for event channels.
// Allows pending events to queue up before a slow consumer is dropped.
const EventBufferSize = 64

// Client represents a WebSocket client (browser dashboard).
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans merge/audit events out to WebSocket clients and SSE subscribers.
type Hub struct {
	mu          sync.RWMutex
	clients     map[*Client]bool
	subscribers map[chan []byte]bool
}

// NewHub creates a new event hub.
func NewHub() *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		subscribers: make(map[chan []byte]bool),
	}
}

// Register adds a WebSocket client.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
}

// Unregister removes a WebSocket client and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

// Subscribe registers an SSE consumer. The returned channel receives every
// broadcast until Unsubscribe is called.
func (h *Hub) Subscribe() chan []byte {
	ch := make(chan []byte, EventBufferSize)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[ch] = true
	return ch
}

// Unsubscribe removes an SSE consumer and closes its channel.
func (h *Hub) Unsubscribe(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// Broadcast delivers a message to every client and subscriber. Consumers
// with full buffers are dropped rather than blocking the publisher.
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
	for ch := range h.subscribers {
		select {
		case ch <- message:
		default:
			close(ch)
			delete(h.subscribers, ch)
		}
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
