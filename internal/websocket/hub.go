// Package websocket implements the single shared chat room: a Hub that
// admits authenticated clients and relays every chat message to all of
// them, including the sender.
package websocket

import (
	"log"
	"sync"
)

// Hub owns the registry of admitted connections. All additions, removals,
// and broadcast iterations are serialized through the Run loop, which is
// also the ordering point for fan-out: messages are relayed in the order
// the hub receives them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("Hub: client connected (user %s). Total clients: %d", client.userID, count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("Hub: client disconnected (user %s). Total clients: %d", client.userID, count)

		case payload := <-h.broadcast:
			h.handleBroadcast(payload)
		}
	}
}

// handleBroadcast relays one message to every currently admitted client,
// the sender included. A client whose send buffer is full is treated as
// gone and removed from the registry.
func (h *Hub) handleBroadcast(payload []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	var failed []*Client
	for _, client := range clients {
		select {
		case client.send <- payload:
		default:
			failed = append(failed, client)
		}
	}

	if len(failed) == 0 {
		return
	}

	h.mu.Lock()
	for _, client := range failed {
		if _, ok := h.clients[client]; ok {
			delete(h.clients, client)
			client.Close()
			log.Printf("Hub: client removed due to full send buffer (user %s)", client.userID)
		}
	}
	h.mu.Unlock()
}

// Register admits a client to the broadcast set. The caller must have
// authenticated the connection before calling this.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client, tolerating a hub that has already stopped.
func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}

	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast relays a payload to every admitted client.
func (h *Hub) Broadcast(payload []byte) {
	select {
	case h.broadcast <- payload:
	case <-h.done:
	}
}

// ClientCount reports how many connections are currently admitted.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop shuts the hub down and closes every admitted connection. It blocks
// until Run has exited and is safe to call more than once.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	select {
	case h.stop <- struct{}{}:
	case <-h.done:
	}
	<-h.done
}
