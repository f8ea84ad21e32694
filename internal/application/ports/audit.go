package ports

import (
	"context"
	"time"

	"github.com/andrescamacho/railbot-go/internal/domain/planning"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// BotAudit is one persisted strategy audit row.
type BotAudit struct {
	ID         int64
	GameID     shared.GameID
	PlayerID   shared.PlayerID
	TurnNumber int
	Strategy   planning.StrategyAudit
	CreatedAt  time.Time
}

// AuditSink stores one StrategyAudit per bot turn and serves them back for
// inspection. Recording must never fail a turn: callers log and move on.
type AuditSink interface {
	Record(ctx context.Context, gameID shared.GameID, playerID shared.PlayerID, audit planning.StrategyAudit) error
	FindByGame(ctx context.Context, gameID shared.GameID, limit int) ([]BotAudit, error)
}
