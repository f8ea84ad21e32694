package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
)

// GormPlayerRepository implements player.Repository using GORM
type GormPlayerRepository struct {
	db *gorm.DB
}

// NewGormPlayerRepository creates a new GORM player repository
func NewGormPlayerRepository(db *gorm.DB) *GormPlayerRepository {
	return &GormPlayerRepository{db: db}
}

var _ player.Repository = (*GormPlayerRepository)(nil)

// FindByID retrieves one seat of a game
func (r *GormPlayerRepository) FindByID(ctx context.Context, gameID shared.GameID, playerID shared.PlayerID) (*player.Player, error) {
	var model PlayerModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND game_id = ?", playerID.Value(), gameID.Value()).
		First(&model)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("player", playerID.String())
		}
		return nil, fmt.Errorf("failed to find player: %w", result.Error)
	}

	return r.modelToPlayer(&model)
}

// FindByGame retrieves every seat of a game in join order. created_at
// ascending is the seat order the turn rotation walks.
func (r *GormPlayerRepository) FindByGame(ctx context.Context, gameID shared.GameID) ([]*player.Player, error) {
	var models []PlayerModel
	result := r.db.WithContext(ctx).
		Where("game_id = ?", gameID.Value()).
		Order("created_at ASC").
		Find(&models)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to find players: %w", result.Error)
	}

	players := make([]*player.Player, 0, len(models))
	for i := range models {
		p, err := r.modelToPlayer(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert player %d: %w", models[i].ID, err)
		}
		players = append(players, p)
	}

	return players, nil
}

// FindByUser retrieves the seat a user occupies in a game
func (r *GormPlayerRepository) FindByUser(ctx context.Context, gameID shared.GameID, userID shared.UserID) (*player.Player, error) {
	var model PlayerModel
	result := r.db.WithContext(ctx).
		Where("game_id = ? AND user_id = ?", gameID.Value(), userID.Value()).
		First(&model)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("player", fmt.Sprintf("user %s in game %s", userID, gameID))
		}
		return nil, fmt.Errorf("failed to find player by user: %w", result.Error)
	}

	return r.modelToPlayer(&model)
}

// Save upserts a player row
func (r *GormPlayerRepository) Save(ctx context.Context, p *player.Player) error {
	model, err := r.playerToModel(p)
	if err != nil {
		return fmt.Errorf("failed to convert player to model: %w", err)
	}

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save player: %w", result.Error)
	}

	return nil
}

// modelToPlayer converts a database row to the domain entity
func (r *GormPlayerRepository) modelToPlayer(model *PlayerModel) (*player.Player, error) {
	playerID, err := shared.NewPlayerID(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid player id in row: %w", err)
	}
	gameID, err := shared.NewGameID(model.GameID)
	if err != nil {
		return nil, fmt.Errorf("invalid game id in player %d: %w", model.ID, err)
	}

	var userID shared.UserID
	if model.UserID != "" {
		userID, err = shared.NewUserID(model.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid user id in player %d: %w", model.ID, err)
		}
	}

	var botConfig *player.BotConfig
	if model.BotConfig != "" {
		var config player.BotConfig
		if err := json.Unmarshal([]byte(model.BotConfig), &config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bot config for player %d: %w", model.ID, err)
		}
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid bot config for player %d: %w", model.ID, err)
		}
		botConfig = &config
	}

	trainType, err := train.ParseType(model.TrainType)
	if err != nil {
		return nil, fmt.Errorf("invalid train type for player %d: %w", model.ID, err)
	}

	var position *board.Coord
	if model.PositionRow != nil && model.PositionCol != nil {
		position = &board.Coord{Row: *model.PositionRow, Col: *model.PositionCol}
	}

	var carried []loads.LoadType
	if model.Loads != "" {
		if err := json.Unmarshal([]byte(model.Loads), &carried); err != nil {
			return nil, fmt.Errorf("failed to unmarshal loads for player %d: %w", model.ID, err)
		}
	}

	var hand []int
	if model.Hand != "" {
		if err := json.Unmarshal([]byte(model.Hand), &hand); err != nil {
			return nil, fmt.Errorf("failed to unmarshal hand for player %d: %w", model.ID, err)
		}
	}

	color := ""
	if model.Color != nil {
		color = *model.Color
	}

	return player.RestorePlayer(
		playerID,
		gameID,
		userID,
		model.IsBot,
		botConfig,
		model.Name,
		color,
		shared.Money(model.Money),
		shared.Money(model.DebtOwed),
		trainType,
		position,
		carried,
		hand,
		model.CurrentTurnNumber,
		model.IsOnline,
		model.CreatedAt,
	), nil
}

// playerToModel converts the domain entity to a database row
func (r *GormPlayerRepository) playerToModel(p *player.Player) (*PlayerModel, error) {
	loadsJSON, err := json.Marshal(p.Loads())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal loads: %w", err)
	}
	handJSON, err := json.Marshal(p.Hand())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hand: %w", err)
	}

	botConfigJSON := ""
	if config, ok := p.BotConfig(); ok {
		data, err := json.Marshal(config)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal bot config: %w", err)
		}
		botConfigJSON = string(data)
	}

	var positionRow, positionCol *int
	if pos, ok := p.Position(); ok {
		row, col := pos.Row, pos.Col
		positionRow, positionCol = &row, &col
	}

	var color *string
	if c := p.Color(); c != "" {
		color = &c
	}

	return &PlayerModel{
		ID:                p.ID().Value(),
		GameID:            p.GameID().Value(),
		UserID:            p.UserID().Value(),
		IsBot:             p.IsBot(),
		BotConfig:         botConfigJSON,
		Name:              p.Name(),
		Color:             color,
		Money:             int(p.Money()),
		DebtOwed:          int(p.DebtOwed()),
		TrainType:         string(p.TrainType()),
		PositionRow:       positionRow,
		PositionCol:       positionCol,
		Loads:             string(loadsJSON),
		Hand:              string(handJSON),
		CurrentTurnNumber: p.TurnNumber(),
		IsOnline:          p.IsOnline(),
		CreatedAt:         p.CreatedAt(),
	}, nil
}
