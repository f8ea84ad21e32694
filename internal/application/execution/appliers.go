package execution

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/planning"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/snapshot"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
)

// planRun is the mutable state threaded through one plan's appliers. The
// movement allowance spans the whole turn: every action's path consumes
// from the same pool, so two movement legs can never overspend together.
type planRun struct {
	snap         *snapshot.WorldSnapshot
	gameID       shared.GameID
	botID        shared.PlayerID
	movementLeft int
	rng          *rand.Rand
}

// statePatch collects what one action changed, for the delta event clients
// redraw from
type statePatch struct {
	players      []map[string]interface{}
	tracks       []map[string]interface{}
	trackUpdated bool
	winnerID     *shared.PlayerID
}

// applyDeliver moves the train along the planned path and fulfils the
// demand: card discarded, replacement drawn, load token freed, payment
// split by the Mercy Rule.
func (h *ExecuteTurnPlanHandler) applyDeliver(ctx context.Context, stores ports.Stores, run *planRun, p planning.DeliverParams) (*statePatch, error) {
	bot, err := stores.Players.FindByID(ctx, run.gameID, run.botID)
	if err != nil {
		return nil, fmt.Errorf("load bot seat: %w", err)
	}
	if err := h.moveAlong(bot, run, p.MovePath); err != nil {
		return nil, err
	}
	patch := &statePatch{}
	if err := h.deliver(ctx, stores, run, bot, p, patch); err != nil {
		return nil, err
	}
	if err := stores.Players.Save(ctx, bot); err != nil {
		return nil, fmt.Errorf("save bot seat: %w", err)
	}
	patch.players = append(patch.players, playerPatch(bot))
	return patch, nil
}

// applyPickup traverses to the source city and loads the train; when the
// plan carries the load straight through, the delivery leg runs inside the
// same transaction since pickup-and-deliver is one action.
func (h *ExecuteTurnPlanHandler) applyPickup(ctx context.Context, stores ports.Stores, run *planRun, p planning.PickupAndDeliverParams) (*statePatch, error) {
	bot, err := stores.Players.FindByID(ctx, run.gameID, run.botID)
	if err != nil {
		return nil, fmt.Errorf("load bot seat: %w", err)
	}
	if err := h.moveAlong(bot, run, p.PickupPath); err != nil {
		return nil, err
	}
	if err := bot.PickupLoad(p.Load); err != nil {
		return nil, err
	}

	patch := &statePatch{}
	if p.FromDropped {
		if err := h.takeDropped(ctx, stores, run, p.City, p.Load); err != nil {
			return nil, err
		}
	}
	if p.Delivery != nil {
		if err := h.moveAlong(bot, run, p.Delivery.MovePath); err != nil {
			return nil, err
		}
		if err := h.deliver(ctx, stores, run, bot, *p.Delivery, patch); err != nil {
			return nil, err
		}
	}
	if err := stores.Players.Save(ctx, bot); err != nil {
		return nil, fmt.Errorf("save bot seat: %w", err)
	}
	patch.players = append(patch.players, playerPatch(bot))
	return patch, nil
}

// applyBuild appends the segments and charges the money and the per-turn
// budget in one transaction. PlayerState.AppendSegments enforces the budget
// and rejects duplicates, so a stale plan rolls back untouched.
func (h *ExecuteTurnPlanHandler) applyBuild(ctx context.Context, stores ports.Stores, run *planRun, segments []track.Segment, cost shared.Money) (*statePatch, error) {
	bot, err := stores.Players.FindByID(ctx, run.gameID, run.botID)
	if err != nil {
		return nil, fmt.Errorf("load bot seat: %w", err)
	}
	state, err := h.trackState(ctx, stores, run)
	if err != nil {
		return nil, err
	}
	if err := bot.Debit(cost); err != nil {
		return nil, err
	}
	if err := state.AppendSegments(segments, h.clock.Now()); err != nil {
		return nil, err
	}
	if err := stores.Players.Save(ctx, bot); err != nil {
		return nil, fmt.Errorf("save bot seat: %w", err)
	}
	if err := stores.Tracks.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save track state: %w", err)
	}
	return &statePatch{
		players:      []map[string]interface{}{playerPatch(bot)},
		tracks:       []map[string]interface{}{trackPatch(state)},
		trackUpdated: true,
	}, nil
}

// applyUpgrade is the shared train purchase: it re-checks the upgrade edge
// and the budget gates itself, because money or track spend may have moved
// since planning.
func (h *ExecuteTurnPlanHandler) applyUpgrade(ctx context.Context, stores ports.Stores, run *planRun, p planning.UpgradeParams) (*statePatch, error) {
	bot, err := stores.Players.FindByID(ctx, run.gameID, run.botID)
	if err != nil {
		return nil, fmt.Errorf("load bot seat: %w", err)
	}
	opt, err := bot.TrainType().UpgradeTo(p.Target)
	if err != nil {
		return nil, err
	}
	state, err := h.trackState(ctx, stores, run)
	if err != nil {
		return nil, err
	}
	if opt.Kind == train.KindUpgrade && state.TurnBuildCost() > 0 {
		return nil, shared.NewValidationError("upgrade", "cannot upgrade after building track this turn")
	}
	if opt.Kind == train.KindCrossgrade && state.TurnBuildCost() > track.BuildBudgetPerTurn-train.CrossgradeCost {
		return nil, shared.NewValidationError("upgrade", "crossgrade does not fit the turn budget")
	}
	if err := bot.Debit(opt.Cost); err != nil {
		return nil, err
	}
	if err := bot.SetTrainType(p.Target); err != nil {
		return nil, err
	}
	// Train purchases draw on the same per-turn pool as track building
	if err := state.ChargeTurnBuild(opt.Cost, h.clock.Now()); err != nil {
		return nil, err
	}
	if err := stores.Players.Save(ctx, bot); err != nil {
		return nil, fmt.Errorf("save bot seat: %w", err)
	}
	if err := stores.Tracks.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save track state: %w", err)
	}
	return &statePatch{players: []map[string]interface{}{playerPatch(bot)}}, nil
}

// deliver fulfils one demand for an already-loaded, already-moved player.
// Payment repays outstanding debt first and only the remainder lands as
// cash (the Mercy Rule). Reaching the victory threshold completes the game.
func (h *ExecuteTurnPlanHandler) deliver(ctx context.Context, stores ports.Stores, run *planRun, bot *player.Player, p planning.DeliverParams, patch *statePatch) error {
	card, err := h.world.Deck().Card(p.CardID)
	if err != nil {
		return err
	}
	if !bot.HasCard(p.CardID) {
		return shared.NewCardNotInHandError(p.CardID)
	}
	if p.DemandIndex < 0 || p.DemandIndex >= len(card.Demands) {
		return shared.NewValidationError("demandIndex", fmt.Sprintf("card %d has no demand %d", p.CardID, p.DemandIndex))
	}
	demand := card.Demands[p.DemandIndex]

	if err := bot.RemoveLoad(demand.Load); err != nil {
		return err
	}
	drawn, err := h.drawReplacement(ctx, stores, run)
	if err != nil {
		return err
	}
	if err := bot.DiscardAndDraw(p.CardID, drawn); err != nil {
		return err
	}
	bot.ApplyPayment(demand.Payment)

	if bot.Money() >= game.VictoryThreshold {
		g, err := stores.Games.FindByID(ctx, run.gameID)
		if err != nil {
			return fmt.Errorf("load game for victory check: %w", err)
		}
		if g.IsActive() {
			if err := g.Complete(bot.ID(), h.clock.Now()); err != nil {
				return err
			}
			if err := stores.Games.Save(ctx, g); err != nil {
				return fmt.Errorf("save completed game: %w", err)
			}
			winner := bot.ID()
			patch.winnerID = &winner
		}
	}
	return nil
}

// drawReplacement picks an undealt card so two seats never hold the same
// card. The draw is seeded per turn for reproducible replays.
func (h *ExecuteTurnPlanHandler) drawReplacement(ctx context.Context, stores ports.Stores, run *planRun) (int, error) {
	players, err := stores.Players.FindByGame(ctx, run.gameID)
	if err != nil {
		return 0, fmt.Errorf("load seats for card draw: %w", err)
	}
	exclude := make(map[int]bool)
	for _, p := range players {
		for _, id := range p.Hand() {
			exclude[id] = true
		}
	}
	drawn, err := h.world.Deck().DrawExcluding(run.rng, exclude)
	if err != nil {
		return 0, fmt.Errorf("draw replacement card: %w", err)
	}
	return drawn.ID, nil
}

// takeDropped removes one token of the load from the city's dropped pile
func (h *ExecuteTurnPlanHandler) takeDropped(ctx context.Context, stores ports.Stores, run *planRun, city string, load loads.LoadType) error {
	g, err := stores.Games.FindByID(ctx, run.gameID)
	if err != nil {
		return fmt.Errorf("load game for dropped pickup: %w", err)
	}
	at, ok := h.droppedCoord(g, city, load)
	if !ok {
		return shared.NewValidationError("pickup", fmt.Sprintf("no %s dropped at %s", load, city))
	}
	if err := g.TakeDroppedLoad(at, load); err != nil {
		return err
	}
	if err := stores.Games.Save(ctx, g); err != nil {
		return fmt.Errorf("save game after dropped pickup: %w", err)
	}
	return nil
}

// droppedCoord locates the city milepost holding a dropped token of the
// load. Coordinate order keeps repeated pickups deterministic.
func (h *ExecuteTurnPlanHandler) droppedCoord(g *game.Game, city string, load loads.LoadType) (board.Coord, bool) {
	topo := h.world.Topology()
	var candidates []board.Coord
	for coord, pile := range g.DroppedLoads() {
		if !coordInCity(topo, coord, city) {
			continue
		}
		for _, l := range pile {
			if l == load {
				candidates = append(candidates, coord)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return board.Coord{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Row != candidates[j].Row {
			return candidates[i].Row < candidates[j].Row
		}
		return candidates[i].Col < candidates[j].Col
	})
	return candidates[0], true
}

// moveAlong advances the train one milepost at a time. The path includes
// the starting milepost; a single-entry path means the train stays put.
func (h *ExecuteTurnPlanHandler) moveAlong(bot *player.Player, run *planRun, path []board.Coord) error {
	if len(path) == 0 {
		return nil
	}
	if pos, ok := bot.Position(); ok && pos != path[0] {
		return shared.NewValidationError("movePath", fmt.Sprintf("path starts at %s but train is at %s", path[0], pos))
	}
	steps := len(path) - 1
	if steps > run.movementLeft {
		return shared.NewMovementExhaustedError(run.movementLeft)
	}
	if _, ok := bot.Position(); !ok {
		bot.PlaceAt(path[0])
	}
	bot.BeginTurn()
	for _, step := range path[1:] {
		if err := bot.MoveTo(step); err != nil {
			return err
		}
	}
	run.movementLeft -= steps
	return nil
}

func (h *ExecuteTurnPlanHandler) trackState(ctx context.Context, stores ports.Stores, run *planRun) (*track.PlayerState, error) {
	state, err := stores.Tracks.FindByPlayer(ctx, run.gameID, run.botID)
	if err == nil {
		return state, nil
	}
	var notFound *shared.NotFoundError
	if errors.As(err, &notFound) {
		return track.NewPlayerState(run.gameID, run.botID), nil
	}
	return nil, fmt.Errorf("load track state: %w", err)
}

// publishPatch emits the delta events for one committed action
func (h *ExecuteTurnPlanHandler) publishPatch(gameID shared.GameID, patch *statePatch) {
	data := map[string]interface{}{
		"players": patch.players,
		"tracks":  patch.tracks,
	}
	if patch.winnerID != nil {
		data["winnerId"] = patch.winnerID.Value()
	}
	h.publisher.PublishGameEvent(ports.GameEvent{
		GameID: gameID,
		Event:  ports.EventStatePatch,
		Data:   data,
	})
	if patch.trackUpdated {
		h.publisher.PublishGameEvent(ports.GameEvent{
			GameID: gameID,
			Event:  ports.EventTrackUpdated,
			Data: map[string]interface{}{
				"playerId":  patch.players[0]["id"],
				"timestamp": h.clock.Now().UnixMilli(),
			},
		})
	}
}

func playerPatch(p *player.Player) map[string]interface{} {
	patch := map[string]interface{}{
		"id":        p.ID().Value(),
		"money":     p.Money().Millions(),
		"debtOwed":  p.DebtOwed().Millions(),
		"trainType": p.TrainType().String(),
		"loads":     p.Loads(),
		"hand":      p.Hand(),
	}
	if pos, ok := p.Position(); ok {
		patch["positionRow"] = pos.Row
		patch["positionCol"] = pos.Col
	}
	return patch
}

func trackPatch(state *track.PlayerState) map[string]interface{} {
	return map[string]interface{}{
		"playerId":      state.PlayerID().Value(),
		"segments":      state.Segments(),
		"totalCost":     state.TotalCost().Millions(),
		"turnBuildCost": state.TurnBuildCost().Millions(),
	}
}

func coordInCity(topo *board.Topology, coord board.Coord, city string) bool {
	if name, ok := topo.MajorCityAt(coord); ok && name == city {
		return true
	}
	if point, ok := topo.PointAt(coord); ok && point.CityName == city {
		return true
	}
	return false
}
