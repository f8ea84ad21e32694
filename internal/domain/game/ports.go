package game

import (
	"context"

	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// Repository defines game persistence operations
type Repository interface {
	FindByID(ctx context.Context, gameID shared.GameID) (*Game, error)
	Save(ctx context.Context, g *Game) error
}
