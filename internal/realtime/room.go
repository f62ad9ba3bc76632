package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/chala47/checker/internal/model"
)

// Room is the set of live connections watching one game. Broadcasts fan out
// to every member with no filtering; a member whose buffer is full simply
// misses the event.
type Room struct {
	gameID  model.GameID
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// newRoom creates a new Room for a game
func newRoom(gameID model.GameID, logger *slog.Logger) *Room {
	return &Room{
		gameID:     gameID,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("game_id", string(gameID))),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// run is the room's event loop
func (r *Room) run() {
	for {
		select {
		case client := <-r.register:
			r.mu.Lock()
			if r.clients[client] {
				r.mu.Unlock()
				continue // Idempotent join
			}
			r.clients[client] = true
			count := len(r.clients)
			r.mu.Unlock()
			r.logger.Info("room member joined",
				slog.String("account_id", string(client.accountID)),
				slog.Int("members", count))

		case client := <-r.unregister:
			r.mu.Lock()
			if _, ok := r.clients[client]; ok {
				delete(r.clients, client)
				count := len(r.clients)
				r.mu.Unlock()
				r.logger.Info("room member left",
					slog.String("account_id", string(client.accountID)),
					slog.Duration("connected_for", time.Since(client.connectedAt)),
					slog.Int("members", count))
			} else {
				r.mu.Unlock()
			}

		case message := <-r.broadcast:
			r.mu.RLock()
			dropped := 0
			for client := range r.clients {
				if !client.queue(message) {
					dropped++
				}
			}
			r.mu.RUnlock()
			if dropped > 0 {
				r.logger.Warn("broadcast dropped for slow members",
					slog.Int("dropped", dropped))
			}

		case <-r.done:
			r.mu.Lock()
			for client := range r.clients {
				delete(r.clients, client)
			}
			r.mu.Unlock()
			return
		}
	}
}

// Register adds a client to the room; registering twice is a no-op.
// Returns false if the room was already closed, in which case the client
// was not registered and needs a fresh room.
func (r *Room) Register(client *Client) bool {
	select {
	case r.register <- client:
		return true
	case <-r.done:
		return false
	}
}

// Unregister removes a client from the room
func (r *Room) Unregister(client *Client) {
	select {
	case r.unregister <- client:
	case <-r.done:
	}
}

// Broadcast sends a message to every room member, dropping it if the
// room's buffer is full
func (r *Room) Broadcast(message []byte) {
	select {
	case r.broadcast <- message:
	default:
		r.logger.Warn("broadcast dropped - room buffer full")
	}
}

// Close shuts down the room
func (r *Room) Close() {
	close(r.done)
}

// ClientCount returns the number of connected members
func (r *Room) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Contains reports whether the client is a member of the room
func (r *Room) Contains(client *Client) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[client]
}
