package track

import (
	"context"

	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// Repository defines track persistence operations. Players who have never
// built have no row; FindByPlayer returns a NotFoundError for them and
// callers fall back to NewPlayerState.
type Repository interface {
	FindByPlayer(ctx context.Context, gameID shared.GameID, playerID shared.PlayerID) (*PlayerState, error)
	FindByGame(ctx context.Context, gameID shared.GameID) ([]*PlayerState, error)
	Save(ctx context.Context, state *PlayerState) error
}
