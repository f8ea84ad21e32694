package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
)

// GormTrackRepository implements track.Repository using GORM
type GormTrackRepository struct {
	db *gorm.DB
}

// NewGormTrackRepository creates a new GORM track repository
func NewGormTrackRepository(db *gorm.DB) *GormTrackRepository {
	return &GormTrackRepository{db: db}
}

var _ track.Repository = (*GormTrackRepository)(nil)

// FindByPlayer retrieves one player's built track. Players who have never
// built have no row and get a NotFoundError; callers fall back to
// NewPlayerState.
func (r *GormTrackRepository) FindByPlayer(ctx context.Context, gameID shared.GameID, playerID shared.PlayerID) (*track.PlayerState, error) {
	var model PlayerTrackModel
	result := r.db.WithContext(ctx).
		Where("game_id = ? AND player_id = ?", gameID.Value(), playerID.Value()).
		First(&model)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("track state", fmt.Sprintf("player %s in game %s", playerID, gameID))
		}
		return nil, fmt.Errorf("failed to find track state: %w", result.Error)
	}

	return r.modelToState(&model)
}

// FindByGame retrieves the track state of every player who has built
func (r *GormTrackRepository) FindByGame(ctx context.Context, gameID shared.GameID) ([]*track.PlayerState, error) {
	var models []PlayerTrackModel
	result := r.db.WithContext(ctx).
		Where("game_id = ?", gameID.Value()).
		Order("player_id ASC").
		Find(&models)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to find track states: %w", result.Error)
	}

	states := make([]*track.PlayerState, 0, len(models))
	for i := range models {
		state, err := r.modelToState(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert track state for player %d: %w", models[i].PlayerID, err)
		}
		states = append(states, state)
	}

	return states, nil
}

// Save upserts a track row
func (r *GormTrackRepository) Save(ctx context.Context, state *track.PlayerState) error {
	model, err := r.stateToModel(state)
	if err != nil {
		return fmt.Errorf("failed to convert track state to model: %w", err)
	}

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save track state: %w", result.Error)
	}

	return nil
}

// modelToState converts a database row to the domain entity
func (r *GormTrackRepository) modelToState(model *PlayerTrackModel) (*track.PlayerState, error) {
	gameID, err := shared.NewGameID(model.GameID)
	if err != nil {
		return nil, fmt.Errorf("invalid game id in row: %w", err)
	}
	playerID, err := shared.NewPlayerID(model.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("invalid player id in row: %w", err)
	}

	var segments []track.Segment
	if model.Segments != "" {
		if err := json.Unmarshal([]byte(model.Segments), &segments); err != nil {
			return nil, fmt.Errorf("failed to unmarshal segments: %w", err)
		}
	}

	return track.RestorePlayerState(
		gameID,
		playerID,
		segments,
		shared.Money(model.TotalCost),
		shared.Money(model.TurnBuildCost),
		model.LastBuildAt,
	), nil
}

// stateToModel converts the domain entity to a database row
func (r *GormTrackRepository) stateToModel(state *track.PlayerState) (*PlayerTrackModel, error) {
	segmentsJSON, err := json.Marshal(state.Segments())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal segments: %w", err)
	}

	return &PlayerTrackModel{
		GameID:        state.GameID().Value(),
		PlayerID:      state.PlayerID().Value(),
		Segments:      string(segmentsJSON),
		TotalCost:     int(state.TotalCost()),
		TurnBuildCost: int(state.TurnBuildCost()),
		LastBuildAt:   state.LastBuildAt(),
	}, nil
}
