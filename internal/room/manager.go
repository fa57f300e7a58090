package room

import (
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/pokerhaus/pokerhaus/internal/game"
)

// ErrRoomRequired is returned for intents carrying no room ID
var ErrRoomRequired = errors.New("room is required")

// Manager creates rooms on demand and tracks them by ID. Rooms are
// fully independent; the manager lock only guards the map.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	cfg    game.Config
	clock  quartz.Clock
	logger *log.Logger
}

// NewManager creates an empty room manager
func NewManager(cfg game.Config, clock quartz.Clock, logger *log.Logger) *Manager {
	return &Manager{
		rooms:  make(map[string]*Room),
		cfg:    cfg,
		clock:  clock,
		logger: logger,
	}
}

// Get returns the room with the given ID, creating it if absent
func (m *Manager) Get(id string) (*Room, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrRoomRequired
	}

	m.mu.RLock()
	r, ok := m.rooms[id]
	m.mu.RUnlock()
	if ok {
		return r, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	r = New(id, m.cfg, m.clock, m.logger)
	m.rooms[id] = r
	m.logger.Info("room created", "room", id)
	return r, nil
}

// Lookup returns an existing room without creating one
func (m *Manager) Lookup(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// Rooms returns all live rooms
func (m *Manager) Rooms() []*Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}
