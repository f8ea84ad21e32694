package helpers

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
)

// MockTrackRepository is a test double for the track Repository interface.
// Like the real store it has no row for a player who never built; FindByGame
// returns states ordered by player id.
type MockTrackRepository struct {
	mu     sync.RWMutex
	states map[string]map[int]*track.PlayerState // gameID -> playerID -> state
}

// NewMockTrackRepository creates a new mock track repository
func NewMockTrackRepository() *MockTrackRepository {
	return &MockTrackRepository{
		states: make(map[string]map[int]*track.PlayerState),
	}
}

// AddState adds a track state to the mock repository
func (m *MockTrackRepository) AddState(s *track.PlayerState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(s)
}

// FindByPlayer retrieves one player's track state
func (m *MockTrackRepository) FindByPlayer(ctx context.Context, gameID shared.GameID, playerID shared.PlayerID) (*track.PlayerState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.states[gameID.Value()][playerID.Value()]
	if !ok {
		return nil, shared.NewNotFoundError("player track", playerID.String())
	}
	return s, nil
}

// FindByGame retrieves every built track state of a game
func (m *MockTrackRepository) FindByGame(ctx context.Context, gameID shared.GameID) ([]*track.PlayerState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byPlayer := m.states[gameID.Value()]
	ids := make([]int, 0, len(byPlayer))
	for id := range byPlayer {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]*track.PlayerState, 0, len(ids))
	for _, id := range ids {
		out = append(out, byPlayer[id])
	}
	return out, nil
}

// Save persists track state
func (m *MockTrackRepository) Save(ctx context.Context, s *track.PlayerState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(s)
	return nil
}

func (m *MockTrackRepository) put(s *track.PlayerState) {
	key := s.GameID().Value()
	if m.states[key] == nil {
		m.states[key] = make(map[int]*track.PlayerState)
	}
	m.states[key][s.PlayerID().Value()] = s
}

// Ensure MockTrackRepository implements the track.Repository interface
var _ track.Repository = (*MockTrackRepository)(nil)
