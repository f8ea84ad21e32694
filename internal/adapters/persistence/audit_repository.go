package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/domain/planning"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// GormAuditRepository implements ports.AuditSink using GORM. Audit rows are
// append-only; nothing ever updates or deletes them.
type GormAuditRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormAuditRepository creates a new GORM audit repository.
// clock is optional - nil uses the real clock.
func NewGormAuditRepository(db *gorm.DB, clock shared.Clock) *GormAuditRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormAuditRepository{db: db, clock: clock}
}

var _ ports.AuditSink = (*GormAuditRepository)(nil)

// Record appends one strategy audit row
func (r *GormAuditRepository) Record(ctx context.Context, gameID shared.GameID, playerID shared.PlayerID, audit planning.StrategyAudit) error {
	strategyJSON, err := json.Marshal(audit)
	if err != nil {
		return fmt.Errorf("failed to marshal strategy audit: %w", err)
	}

	model := BotAuditModel{
		GameID:     gameID.Value(),
		PlayerID:   playerID.Value(),
		TurnNumber: audit.TurnNumber,
		Strategy:   string(strategyJSON),
		CreatedAt:  r.clock.Now().UTC(),
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to record audit: %w", result.Error)
	}

	return nil
}

// FindByGame returns the newest audit rows of a game, newest first.
// limit <= 0 returns everything.
func (r *GormAuditRepository) FindByGame(ctx context.Context, gameID shared.GameID, limit int) ([]ports.BotAudit, error) {
	var models []BotAuditModel
	query := r.db.WithContext(ctx).
		Where("game_id = ?", gameID.Value()).
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	result := query.Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find audits: %w", result.Error)
	}

	audits := make([]ports.BotAudit, 0, len(models))
	for i := range models {
		audit, err := r.modelToAudit(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert audit %d: %w", models[i].ID, err)
		}
		audits = append(audits, audit)
	}

	return audits, nil
}

// modelToAudit converts a database row to the port type
func (r *GormAuditRepository) modelToAudit(model *BotAuditModel) (ports.BotAudit, error) {
	gameID, err := shared.NewGameID(model.GameID)
	if err != nil {
		return ports.BotAudit{}, fmt.Errorf("invalid game id in row: %w", err)
	}
	playerID, err := shared.NewPlayerID(model.PlayerID)
	if err != nil {
		return ports.BotAudit{}, fmt.Errorf("invalid player id in row: %w", err)
	}

	var strategy planning.StrategyAudit
	if err := json.Unmarshal([]byte(model.Strategy), &strategy); err != nil {
		return ports.BotAudit{}, fmt.Errorf("failed to unmarshal strategy: %w", err)
	}

	return ports.BotAudit{
		ID:         model.ID,
		GameID:     gameID,
		PlayerID:   playerID,
		TurnNumber: model.TurnNumber,
		Strategy:   strategy,
		CreatedAt:  model.CreatedAt,
	}, nil
}
