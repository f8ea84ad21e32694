package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// MockPlayerRepository is a test double for the player Repository interface.
// Seats are kept in insertion order per game, which stands in for the
// created_at ordering the real store applies.
type MockPlayerRepository struct {
	mu    sync.RWMutex
	seats map[string][]*player.Player // gameID -> seats in join order
}

// NewMockPlayerRepository creates a new mock player repository
func NewMockPlayerRepository() *MockPlayerRepository {
	return &MockPlayerRepository{
		seats: make(map[string][]*player.Player),
	}
}

// AddPlayer adds a player to the mock repository
func (m *MockPlayerRepository) AddPlayer(p *player.Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := p.GameID().Value()
	m.seats[key] = append(m.seats[key], p)
}

// FindByID retrieves one seat of a game
func (m *MockPlayerRepository) FindByID(ctx context.Context, gameID shared.GameID, playerID shared.PlayerID) (*player.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.seats[gameID.Value()] {
		if p.ID().Equals(playerID) {
			return p, nil
		}
	}
	return nil, shared.NewNotFoundError("player", playerID.String())
}

// FindByGame retrieves all seats of a game in join order
func (m *MockPlayerRepository) FindByGame(ctx context.Context, gameID shared.GameID) ([]*player.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]*player.Player{}, m.seats[gameID.Value()]...), nil
}

// FindByUser retrieves the seat a user occupies in a game
func (m *MockPlayerRepository) FindByUser(ctx context.Context, gameID shared.GameID, userID shared.UserID) (*player.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.seats[gameID.Value()] {
		if p.UserID().Equals(userID) {
			return p, nil
		}
	}
	return nil, shared.NewNotFoundError("player", userID.String())
}

// Save persists player state
func (m *MockPlayerRepository) Save(ctx context.Context, p *player.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := p.GameID().Value()
	for i, existing := range m.seats[key] {
		if existing.ID().Equals(p.ID()) {
			m.seats[key][i] = p
			return nil
		}
	}
	m.seats[key] = append(m.seats[key], p)
	return nil
}

// Ensure MockPlayerRepository implements the player.Repository interface
var _ player.Repository = (*MockPlayerRepository)(nil)
