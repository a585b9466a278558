package chat

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// Hub owns the registry of open connections and fans every message out to
// all of them, sender included. Registry mutations and broadcasts are
// serialized through the run loop, so no other synchronization is needed.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message

	now func() time.Time
}

// NewHub creates a hub with an empty registry.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 16),
		now:        time.Now,
	}
}

// Run processes registry changes and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case msg := <-h.broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("chat: marshal message: %v", err)
				continue
			}
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Client cannot keep up; drop it instead of
					// stalling the fan-out.
					delete(h.clients, client)
					close(client.send)
				}
			}
		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// Register adds a connection to the broadcast set.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a connection from the broadcast set.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Broadcast stamps the message with the server time (HH:MM) and queues it
// for delivery to every open connection, including the sender. There is no
// acknowledgment and no history; a message not delivered is gone.
func (h *Hub) Broadcast(username, body string) {
	h.broadcast <- Message{
		Username:  username,
		Message:   body,
		Timestamp: h.now().Format("15:04"),
	}
}
