package helpers

import (
	"context"

	"github.com/andrescamacho/railbot-go/internal/application/ports"
)

// MockUnitOfWork is a test double for the UnitOfWork port. It hands the
// function a Stores view over the shared in-memory mocks and runs it
// directly; there is no rollback, so handler tests assert the stop-on-error
// semantics rather than transactional isolation.
type MockUnitOfWork struct {
	Games   *MockGameRepository
	Players *MockPlayerRepository
	Tracks  *MockTrackRepository

	// BeginErr, when set, fails every InTransaction call up front
	BeginErr error

	// Transactions counts how many times InTransaction ran
	Transactions int
}

// NewMockUnitOfWork creates a unit of work over fresh mock repositories
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Games:   NewMockGameRepository(),
		Players: NewMockPlayerRepository(),
		Tracks:  NewMockTrackRepository(),
	}
}

// InTransaction implements the UnitOfWork port
func (m *MockUnitOfWork) InTransaction(ctx context.Context, fn func(ctx context.Context, stores ports.Stores) error) error {
	if m.BeginErr != nil {
		return m.BeginErr
	}
	m.Transactions++
	return fn(ctx, ports.Stores{
		Games:   m.Games,
		Players: m.Players,
		Tracks:  m.Tracks,
	})
}

// Ensure MockUnitOfWork implements the ports.UnitOfWork interface
var _ ports.UnitOfWork = (*MockUnitOfWork)(nil)
