package realtime

import (
	"log/slog"
	"sync"

	"github.com/chala47/checker/internal/model"
)

// Manager tracks one room per game id
type Manager struct {
	rooms  map[model.GameID]*Room
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewManager creates a new room Manager
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		rooms:  make(map[model.GameID]*Room),
		logger: logger.With(slog.String("component", "realtime")),
	}
}

// GetOrCreateRoom returns the room for a game, creating and starting one if
// it doesn't exist
func (m *Manager) GetOrCreateRoom(gameID model.GameID) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	if room, ok := m.rooms[gameID]; ok {
		return room
	}

	room := newRoom(gameID, m.logger)
	m.rooms[gameID] = room
	go room.run()
	return room
}

// Join registers the client with the game's room. A cleanup tick can close
// the room between lookup and registration; when that happens the closed
// room has already been dropped from the map, so looking up again yields a
// fresh one and the registration is retried.
func (m *Manager) Join(gameID model.GameID, client *Client) *Room {
	for {
		room := m.GetOrCreateRoom(gameID)
		if room.Register(client) {
			return room
		}
	}
}

// GetRoom returns the room for a game, or nil if it doesn't exist
func (m *Manager) GetRoom(gameID model.GameID) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[gameID]
}

// DropClient removes a client from every room it belongs to. Called when a
// connection ends; there is no explicit leave event on the wire.
func (m *Manager) DropClient(client *Client) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, room := range m.rooms {
		room.Unregister(client)
	}
}

// CleanupEmptyRooms closes and removes rooms with no members
func (m *Manager) CleanupEmptyRooms() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, room := range m.rooms {
		if room.ClientCount() == 0 {
			room.Close()
			delete(m.rooms, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("empty rooms cleaned up", slog.Int("removed", removed))
	}
}
