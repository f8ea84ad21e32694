package player

import (
	"context"

	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// Repository defines player persistence operations. FindByGame returns
// seats in join order (created_at ascending), which is the seat order the
// turn rotation follows.
type Repository interface {
	FindByID(ctx context.Context, gameID shared.GameID, playerID shared.PlayerID) (*Player, error)
	FindByGame(ctx context.Context, gameID shared.GameID) ([]*Player, error)
	FindByUser(ctx context.Context, gameID shared.GameID, userID shared.UserID) (*Player, error)
	Save(ctx context.Context, player *Player) error
}
