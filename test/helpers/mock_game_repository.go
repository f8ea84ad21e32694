package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// MockGameRepository is a test double for the game Repository interface
type MockGameRepository struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

// NewMockGameRepository creates a new mock game repository
func NewMockGameRepository() *MockGameRepository {
	return &MockGameRepository{
		games: make(map[string]*game.Game),
	}
}

// AddGame adds a game to the mock repository
func (m *MockGameRepository) AddGame(g *game.Game) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID().Value()] = g
}

// FindByID retrieves a game by ID
func (m *MockGameRepository) FindByID(ctx context.Context, gameID shared.GameID) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.games[gameID.Value()]
	if !ok {
		return nil, shared.NewNotFoundError("game", gameID.Value())
	}
	return g, nil
}

// Save persists game state
func (m *MockGameRepository) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID().Value()] = g
	return nil
}

// Ensure MockGameRepository implements the game.Repository interface
var _ game.Repository = (*MockGameRepository)(nil)
