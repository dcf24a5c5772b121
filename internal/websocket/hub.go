package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MessageEvent is the payload pushed to connected hotline sessions when a new
// message lands in their thread.
type MessageEvent struct {
	MessageID   int64     `json:"message_id"`
	UserID      int64     `json:"user_id"`
	AdminID     int64     `json:"admin_id"`
	Content     string    `json:"message_content"`
	FromUser    bool      `json:"is_from_user"`
	PublishedAt time.Time `json:"date_published"`
}

// Hub fans hotline events out to connected sessions, keyed by principal.
// Keys keep the two identity spaces apart: "user:42" and "admin:42" are
// different sessions.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

// UserKey and AdminKey build the hub registration keys for each principal
// type.
func UserKey(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

func AdminKey(adminID int64) string {
	return fmt.Sprintf("admin:%d", adminID)
}

func (h *Hub) Register(key string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[key] == nil {
		h.clients[key] = make(map[*Client]struct{})
	}
	h.clients[key][client] = struct{}{}
}

func (h *Hub) Unregister(key string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[key] == nil {
		return
	}
	delete(h.clients[key], client)
	if len(h.clients[key]) == 0 {
		delete(h.clients, key)
	}
}

// BroadcastMessage delivers an event to every session registered under key.
// Slow clients are skipped rather than blocking the sender.
func (h *Hub) BroadcastMessage(key string, event MessageEvent) {
	payload, _ := json.Marshal(event)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[key] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
