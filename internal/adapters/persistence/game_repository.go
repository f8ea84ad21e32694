package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// GormGameRepository implements game.Repository using GORM
type GormGameRepository struct {
	db *gorm.DB
}

// NewGormGameRepository creates a new GORM game repository
func NewGormGameRepository(db *gorm.DB) *GormGameRepository {
	return &GormGameRepository{db: db}
}

var _ game.Repository = (*GormGameRepository)(nil)

// FindByID retrieves a game by its ID
func (r *GormGameRepository) FindByID(ctx context.Context, gameID shared.GameID) (*game.Game, error) {
	var model GameModel
	result := r.db.WithContext(ctx).Where("id = ?", gameID.Value()).First(&model)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("game", gameID.Value())
		}
		return nil, fmt.Errorf("failed to find game: %w", result.Error)
	}

	return modelToGame(&model)
}

// Save upserts a game row
func (r *GormGameRepository) Save(ctx context.Context, g *game.Game) error {
	model, err := gameToModel(g)
	if err != nil {
		return fmt.Errorf("failed to convert game to model: %w", err)
	}

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save game: %w", result.Error)
	}

	return nil
}

// droppedLoadRow is the JSON shape of one milepost's dropped pile inside
// the dropped_loads column.
type droppedLoadRow struct {
	Row   int              `json:"row"`
	Col   int              `json:"col"`
	Loads []loads.LoadType `json:"loads"`
}

func modelToGame(model *GameModel) (*game.Game, error) {
	gameID, err := shared.NewGameID(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid game id in row: %w", err)
	}

	status, err := game.ParseStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("invalid status in game %s: %w", model.ID, err)
	}

	var winnerID *shared.PlayerID
	if model.WinnerID != nil {
		id, err := shared.NewPlayerID(*model.WinnerID)
		if err != nil {
			return nil, fmt.Errorf("invalid winner id in game %s: %w", model.ID, err)
		}
		winnerID = &id
	}

	dropped := make(map[board.Coord][]loads.LoadType)
	if model.DroppedLoads != "" {
		var rows []droppedLoadRow
		if err := json.Unmarshal([]byte(model.DroppedLoads), &rows); err != nil {
			return nil, fmt.Errorf("failed to unmarshal dropped loads for game %s: %w", model.ID, err)
		}
		for _, row := range rows {
			dropped[board.Coord{Row: row.Row, Col: row.Col}] = row.Loads
		}
	}

	return game.RestoreGame(
		gameID,
		status,
		model.CurrentPlayerIndex,
		model.MaxPlayers,
		winnerID,
		dropped,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func gameToModel(g *game.Game) (*GameModel, error) {
	dropped := g.DroppedLoads()
	rows := make([]droppedLoadRow, 0, len(dropped))
	for coord, ls := range dropped {
		rows = append(rows, droppedLoadRow{Row: coord.Row, Col: coord.Col, Loads: ls})
	}
	// Keep the column deterministic so identical states serialize identically
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Row != rows[j].Row {
			return rows[i].Row < rows[j].Row
		}
		return rows[i].Col < rows[j].Col
	})
	droppedJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dropped loads: %w", err)
	}

	var winnerID *int
	if winner, ok := g.Winner(); ok {
		v := winner.Value()
		winnerID = &v
	}

	return &GameModel{
		ID:                 g.ID().Value(),
		Status:             g.Status().String(),
		CurrentPlayerIndex: g.CurrentPlayerIndex(),
		MaxPlayers:         g.MaxPlayers(),
		WinnerID:           winnerID,
		DroppedLoads:       string(droppedJSON),
		CreatedAt:          g.CreatedAt(),
		UpdatedAt:          g.UpdatedAt(),
	}, nil
}
