package ports

import (
	"context"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
)

// Stores bundles the repositories one transaction spans. Inside InTransaction
// every repository is bound to the same store transaction, so a failed save
// rolls back everything the callback changed.
type Stores struct {
	Games   game.Repository
	Players player.Repository
	Tracks  track.Repository
}

// UnitOfWork runs a callback inside one store transaction. The executor
// wraps each plan action in its own unit of work: an action either lands
// completely or not at all, while earlier actions stay committed.
type UnitOfWork interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}
