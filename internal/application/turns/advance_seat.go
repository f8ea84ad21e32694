package turns

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/railbot-go/internal/application/common"
	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// AdvanceSeatCommand represents a command to close the acting seat's turn
// and hand the game to the next seat in join order.
type AdvanceSeatCommand struct {
	GameID    shared.GameID
	SeatIndex int
}

// AdvanceSeatResponse reports who acts next
type AdvanceSeatResponse struct {
	NextSeatIndex int
	NextPlayerID  shared.PlayerID
}

// AdvanceSeatHandler rotates the current seat. The acting seat's turn
// counter bumps and its per-turn build spend resets in the same transaction
// that moves the marker. The resulting turn:change event is what chains bot
// turns: advancing onto another bot seat retriggers the scheduler rather
// than recursing.
type AdvanceSeatHandler struct {
	uow       ports.UnitOfWork
	publisher ports.EventPublisher
	clock     shared.Clock
}

// NewAdvanceSeatHandler creates a new AdvanceSeatHandler
func NewAdvanceSeatHandler(uow ports.UnitOfWork, publisher ports.EventPublisher, clock shared.Clock) *AdvanceSeatHandler {
	return &AdvanceSeatHandler{uow: uow, publisher: publisher, clock: clock}
}

// Handle executes the AdvanceSeat command
func (h *AdvanceSeatHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*AdvanceSeatCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AdvanceSeatCommand")
	}

	var next int
	var nextPlayer shared.PlayerID
	err := h.uow.InTransaction(ctx, func(ctx context.Context, stores ports.Stores) error {
		g, err := stores.Games.FindByID(ctx, cmd.GameID)
		if err != nil {
			return fmt.Errorf("load game: %w", err)
		}
		players, err := stores.Players.FindByGame(ctx, cmd.GameID)
		if err != nil {
			return fmt.Errorf("load seats: %w", err)
		}
		if len(players) == 0 {
			return fmt.Errorf("game %s has no seats", cmd.GameID)
		}
		if cmd.SeatIndex < 0 || cmd.SeatIndex >= len(players) {
			return fmt.Errorf("seat index %d out of range [0,%d)", cmd.SeatIndex, len(players))
		}

		if err := h.closeTurn(ctx, stores, players[cmd.SeatIndex]); err != nil {
			return err
		}

		next = (cmd.SeatIndex + 1) % len(players)
		nextPlayer = players[next].ID()
		if err := g.SetCurrentSeat(next, h.clock.Now()); err != nil {
			return err
		}
		if err := stores.Games.Save(ctx, g); err != nil {
			return fmt.Errorf("save game: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.publisher.PublishTurnChanged(ports.TurnChangedEvent{
		GameID:    cmd.GameID,
		SeatIndex: next,
		PlayerID:  nextPlayer,
	})
	return &AdvanceSeatResponse{NextSeatIndex: next, NextPlayerID: nextPlayer}, nil
}

// closeTurn finalises the acting seat: turn counter up, build budget back
// to zero for its next turn. Seats that never built have no track row.
func (h *AdvanceSeatHandler) closeTurn(ctx context.Context, stores ports.Stores, acting *player.Player) error {
	acting.IncrementTurn()
	if err := stores.Players.Save(ctx, acting); err != nil {
		return fmt.Errorf("save acting seat: %w", err)
	}

	state, err := stores.Tracks.FindByPlayer(ctx, acting.GameID(), acting.ID())
	if err != nil {
		var notFound *shared.NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("load track state: %w", err)
	}
	state.ResetTurnBuildCost()
	if err := stores.Tracks.Save(ctx, state); err != nil {
		return fmt.Errorf("save track state: %w", err)
	}
	return nil
}
