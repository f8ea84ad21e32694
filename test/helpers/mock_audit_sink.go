package helpers

import (
	"context"
	"sync"
	"time"

	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/domain/planning"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// MockAuditSink is a test double for the AuditSink port
type MockAuditSink struct {
	mu     sync.Mutex
	rows   []ports.BotAudit
	nextID int64

	// RecordErr, when set, fails every Record call
	RecordErr error
}

// NewMockAuditSink creates a new mock audit sink
func NewMockAuditSink() *MockAuditSink {
	return &MockAuditSink{nextID: 1}
}

// Record stores one strategy audit row
func (m *MockAuditSink) Record(ctx context.Context, gameID shared.GameID, playerID shared.PlayerID, audit planning.StrategyAudit) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, ports.BotAudit{
		ID:         m.nextID,
		GameID:     gameID,
		PlayerID:   playerID,
		TurnNumber: audit.TurnNumber,
		Strategy:   audit,
		CreatedAt:  time.Now().UTC(),
	})
	m.nextID++
	return nil
}

// FindByGame returns the newest rows of a game, newest first
func (m *MockAuditSink) FindByGame(ctx context.Context, gameID shared.GameID, limit int) ([]ports.BotAudit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []ports.BotAudit
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].GameID.Equals(gameID) {
			out = append(out, m.rows[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// Rows returns every stored row in record order
func (m *MockAuditSink) Rows() []ports.BotAudit {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.BotAudit{}, m.rows...)
}

// Ensure MockAuditSink implements the ports.AuditSink interface
var _ ports.AuditSink = (*MockAuditSink)(nil)
