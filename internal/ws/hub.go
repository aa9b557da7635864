package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Client is one socket connection of an authenticated user.
type Client struct {
	UserID uint
	Role   string
	Send   chan []byte
	hub    *Hub
	once   sync.Once
}

func NewClient(userID uint, role string, buf int) *Client {
	return &Client{UserID: userID, Role: role, Send: make(chan []byte, buf)}
}

// Close unregisters the client and closes Send. Safe to call more than once.
func (c *Client) Close() {
	c.once.Do(func() {
		if c.hub != nil {
			c.hub.unregister(c)
		}
		close(c.Send)
	})
}

// Hub maintains the set of active clients and broadcasts to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	// one user can hold several connections
	byUser map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		byUser:  make(map[uint]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[*Client]struct{})
	}
	h.byUser[c.UserID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	if m := h.byUser[c.UserID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
}

// BroadcastToUser sends payload to every connection of userID. Slow clients
// drop messages instead of blocking the hub.
func (h *Hub) BroadcastToUser(userID uint, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[ws] marshal: %v", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.byUser[userID] {
		trySend(c, data)
	}
}

func (h *Hub) BroadcastAll(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[ws] marshal: %v", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		trySend(c, data)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// trySend must run under h.mu so Close cannot close Send concurrently.
func trySend(c *Client, data []byte) {
	select {
	case c.Send <- data:
	default:
	}
}
