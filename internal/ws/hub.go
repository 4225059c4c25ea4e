package ws

import (
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playmatatu/matchmaker/internal/game"
	"github.com/playmatatu/matchmaker/internal/identity"
)

// Hub maps each online identity to its single live client.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]*Client // userID -> Client

	onDisconnect func(identity.Identity)
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{clients: make(map[int64]*Client)}
}

// OnDisconnect sets the hook fired when an identity's current client goes
// away. Replaced clients do not fire it.
func (h *Hub) OnDisconnect(fn func(identity.Identity)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDisconnect = fn
}

// Register makes c the current client for its identity. An older client for
// the same identity is closed.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	old, exists := h.clients[c.identity.ID]
	h.clients[c.identity.ID] = c
	h.mu.Unlock()

	if exists && old != c {
		log.Printf("[WS] %s reconnecting - closing old connection %s", c.identity.Nickname, old.id)
		if old.conn != nil {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection")
			if err := old.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
				log.Printf("[WS] close control to old connection %s: %v", old.id, err)
			}
		}
		old.close()
	}
	log.Printf("[WS] %s connected (conn=%s)", c.identity.Nickname, c.id)
}

// Unregister drops c if it is still the current client for its identity.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	cur, ok := h.clients[c.identity.ID]
	current := ok && cur == c
	if current {
		delete(h.clients, c.identity.ID)
	}
	hook := h.onDisconnect
	h.mu.Unlock()

	c.close()
	if !current {
		return
	}

	log.Printf("[WS] %s disconnected (conn=%s)", c.identity.Nickname, c.id)
	if hook != nil {
		hook(c.identity)
	}
}

// Lookup returns the live client for userID.
func (h *Hub) Lookup(userID int64) (game.Channel, bool) {
	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok || c.Closed() {
		return nil, false
	}
	return c, true
}

// Online lists connected identities ordered by nickname.
func (h *Hub) Online() []identity.Identity {
	h.mu.RLock()
	defer h.mu.RUnlock()

	online := make([]identity.Identity, 0, len(h.clients))
	for _, c := range h.clients {
		if !c.Closed() {
			online = append(online, c.identity)
		}
	}
	sort.Slice(online, func(i, j int) bool { return online[i].Nickname < online[j].Nickname })
	return online
}

// Broadcast sends message to every client except exclude.
func (h *Hub) Broadcast(message interface{}, exclude int64) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling broadcast: %v", err)
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for userID, c := range h.clients {
		if userID != exclude {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.enqueue(data); err != nil {
			log.Printf("[WS] broadcast to %s dropped: %v", c.identity.Nickname, err)
		}
	}
}

// Count returns the number of connected identities
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll closes every client without firing the disconnect hook.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[int64]*Client)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	log.Printf("[WS] closed %d connections", len(clients))
}
