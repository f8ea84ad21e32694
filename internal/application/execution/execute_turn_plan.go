package execution

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/andrescamacho/railbot-go/internal/application/common"
	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/domain/planning"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/snapshot"
)

// ExecuteTurnPlanCommand represents a command to apply a validated turn
// plan to the authoritative store. Seed drives the demand-card draw after a
// delivery, so replays with the same seed refill the hand identically.
type ExecuteTurnPlanCommand struct {
	Snapshot *snapshot.WorldSnapshot
	Plan     planning.TurnPlan
	Seed     int64
}

// ExecuteTurnPlanResponse carries how far execution got and where the bot
// ended up
type ExecuteTurnPlanResponse struct {
	Result planning.ExecutionRecord
	Status planning.BotStatus
}

// ExecuteTurnPlanHandler applies plan actions in order, each inside its own
// store transaction. A failing action rolls back alone and stops the plan;
// the actions before it stay committed. Every mutation is followed by a
// state patch on the event bus so clients render the move as it lands.
type ExecuteTurnPlanHandler struct {
	uow       ports.UnitOfWork
	world     ports.WorldData
	publisher ports.EventPublisher
	clock     shared.Clock
}

// NewExecuteTurnPlanHandler creates a new ExecuteTurnPlanHandler
func NewExecuteTurnPlanHandler(
	uow ports.UnitOfWork,
	world ports.WorldData,
	publisher ports.EventPublisher,
	clock shared.Clock,
) *ExecuteTurnPlanHandler {
	return &ExecuteTurnPlanHandler{
		uow:       uow,
		world:     world,
		publisher: publisher,
		clock:     clock,
	}
}

// Handle executes the ExecuteTurnPlan command
func (h *ExecuteTurnPlanHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ExecuteTurnPlanCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ExecuteTurnPlanCommand")
	}
	if cmd.Snapshot == nil {
		return nil, fmt.Errorf("snapshot is required")
	}

	run := &planRun{
		snap:   cmd.Snapshot,
		gameID: cmd.Snapshot.GameID(),
		botID:  cmd.Snapshot.Bot().PlayerID,
		// Movement allowance for the whole turn; each action's path
		// consumes from it.
		movementLeft: cmd.Snapshot.Bot().RemainingMovement,
		rng:          rand.New(rand.NewSource(cmd.Seed)),
	}

	result := planning.ExecutionRecord{Success: true}
	for _, opt := range cmd.Plan.Options() {
		if err := ctx.Err(); err != nil {
			// Deadline mid-plan: what already ran stays committed, the
			// rest of the plan is dropped.
			result.Error = fmt.Sprintf("deadline reached, %d actions skipped", cmd.Plan.Len()-result.ActionsExecuted)
			break
		}
		if err := h.applyAction(ctx, run, opt); err != nil {
			result.Success = false
			result.Error = err.Error()
			break
		}
		result.ActionsExecuted++
	}

	// The audit readback must survive a mid-plan deadline, or the partial
	// result would be lost to a context error.
	status, err := h.finalStatus(context.WithoutCancel(ctx), run)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot status after execution: %w", err)
	}
	return &ExecuteTurnPlanResponse{Result: result, Status: status}, nil
}

// applyAction dispatches one option to its applier inside one transaction
func (h *ExecuteTurnPlanHandler) applyAction(ctx context.Context, run *planRun, opt planning.FeasibleOption) error {
	var patch *statePatch
	err := h.uow.InTransaction(ctx, func(ctx context.Context, stores ports.Stores) error {
		var err error
		switch opt.Type {
		case planning.ActionPass:
			return nil
		case planning.ActionDeliverLoad:
			patch, err = h.applyDeliver(ctx, stores, run, *opt.Deliver)
		case planning.ActionPickupAndDeliver:
			patch, err = h.applyPickup(ctx, stores, run, *opt.Pickup)
		case planning.ActionBuildTrack:
			patch, err = h.applyBuild(ctx, stores, run, opt.Build.Segments, opt.Build.Cost)
		case planning.ActionBuildTowardMajorCity:
			patch, err = h.applyBuild(ctx, stores, run, opt.BuildToward.Segments, opt.BuildToward.Cost)
		case planning.ActionUpgradeTrain:
			patch, err = h.applyUpgrade(ctx, stores, run, *opt.Upgrade)
		default:
			return fmt.Errorf("unknown action type %s", opt.Type)
		}
		return err
	})
	if err != nil {
		return err
	}
	if patch != nil {
		h.publishPatch(run.gameID, patch)
	}
	return nil
}

// finalStatus reads the bot's row once more for the audit trail
func (h *ExecuteTurnPlanHandler) finalStatus(ctx context.Context, run *planRun) (planning.BotStatus, error) {
	var status planning.BotStatus
	err := h.uow.InTransaction(ctx, func(ctx context.Context, stores ports.Stores) error {
		p, err := stores.Players.FindByID(ctx, run.gameID, run.botID)
		if err != nil {
			return err
		}
		status = planning.BotStatus{
			Money:     p.Money(),
			Debt:      p.DebtOwed(),
			TrainType: p.TrainType(),
			Loads:     p.Loads(),
		}
		if pos, ok := p.Position(); ok {
			c := pos
			status.Position = &c
		}
		status.ConnectedMajorCities = h.connectedCount(ctx, stores, run)
		return nil
	})
	return status, err
}

func (h *ExecuteTurnPlanHandler) connectedCount(ctx context.Context, stores ports.Stores, run *planRun) int {
	state, err := stores.Tracks.FindByPlayer(ctx, run.gameID, run.botID)
	if err != nil {
		return 0
	}
	network := state.Network()
	count := 0
	for _, group := range h.world.Topology().MajorCityGroups() {
		for _, member := range group.Members() {
			if network.HasNode(member) {
				count++
				break
			}
		}
	}
	return count
}
