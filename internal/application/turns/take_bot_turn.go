package turns

import (
	"context"
	"fmt"

	"github.com/andrescamacho/railbot-go/internal/application/common"
	"github.com/andrescamacho/railbot-go/internal/application/execution"
	appPlanning "github.com/andrescamacho/railbot-go/internal/application/planning"
	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/application/snapshotting"
	"github.com/andrescamacho/railbot-go/internal/domain/planning"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/snapshot"
)

// TakeBotTurnCommand represents a command to run one complete bot turn:
// capture, plan, execute, audit. Seed makes the turn's randomness (noise
// and card draws) reproducible.
type TakeBotTurnCommand struct {
	GameID   shared.GameID
	PlayerID shared.PlayerID
	Seed     int64
}

// TakeBotTurnResponse carries the turn's outcome for the scheduler
type TakeBotTurnResponse struct {
	Plan   planning.TurnPlan
	Result planning.ExecutionRecord
	Audit  planning.StrategyAudit
}

// TakeBotTurnHandler chains the snapshot, planning and execution handlers
// through the mediator and writes the strategy audit at the end. Clients
// watching the game see ai:thinking when the turn starts and
// ai:turn-complete when it lands.
type TakeBotTurnHandler struct {
	mediator  common.Mediator
	audits    ports.AuditSink
	publisher ports.EventPublisher
	clock     shared.Clock
}

// NewTakeBotTurnHandler creates a new TakeBotTurnHandler
func NewTakeBotTurnHandler(
	mediator common.Mediator,
	audits ports.AuditSink,
	publisher ports.EventPublisher,
	clock shared.Clock,
) *TakeBotTurnHandler {
	return &TakeBotTurnHandler{
		mediator:  mediator,
		audits:    audits,
		publisher: publisher,
		clock:     clock,
	}
}

// Handle executes the TakeBotTurn command
func (h *TakeBotTurnHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*TakeBotTurnCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *TakeBotTurnCommand")
	}
	start := h.clock.Now()

	h.publisher.PublishGameEvent(ports.GameEvent{
		GameID: cmd.GameID,
		Event:  ports.EventAIThinking,
		Data:   map[string]interface{}{"playerId": cmd.PlayerID.Value()},
	})

	snap, err := h.capture(ctx, cmd)
	if err != nil {
		return nil, err
	}
	planResp, err := h.plan(ctx, snap, cmd.Seed)
	if err != nil {
		return nil, err
	}
	execResp, err := h.execute(ctx, snap, planResp.Plan, cmd.Seed)
	if err != nil {
		return nil, err
	}

	audit := h.buildAudit(snap, planResp, execResp, h.clock.Now().Sub(start).Milliseconds())
	if err := h.audits.Record(ctx, cmd.GameID, cmd.PlayerID, audit); err != nil {
		// An unwritten audit must not undo a committed turn
		common.LoggerFromContext(ctx).Log(common.LevelWarn, "failed to record bot audit", map[string]interface{}{
			"gameId":   cmd.GameID.Value(),
			"playerId": cmd.PlayerID.Value(),
			"error":    err.Error(),
		})
	}

	h.publisher.PublishGameEvent(ports.GameEvent{
		GameID: cmd.GameID,
		Event:  ports.EventAITurnComplete,
		Data: map[string]interface{}{
			"playerId": cmd.PlayerID.Value(),
			"summary":  planResp.Plan.Rationale(),
			"strategy": fmt.Sprintf("%s/%s", audit.Archetype, audit.Skill),
			"debug": map[string]interface{}{
				"snapshotHash":    audit.SnapshotHash,
				"actionsExecuted": execResp.Result.ActionsExecuted,
				"durationMs":      audit.DurationMs,
			},
		},
	})

	return &TakeBotTurnResponse{
		Plan:   planResp.Plan,
		Result: execResp.Result,
		Audit:  audit,
	}, nil
}

func (h *TakeBotTurnHandler) capture(ctx context.Context, cmd *TakeBotTurnCommand) (*snapshot.WorldSnapshot, error) {
	resp, err := h.mediator.Send(ctx, &snapshotting.CaptureSnapshotQuery{
		GameID:   cmd.GameID,
		PlayerID: cmd.PlayerID,
	})
	if err != nil {
		return nil, fmt.Errorf("capture snapshot: %w", err)
	}
	captured, ok := resp.(*snapshotting.CaptureSnapshotResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected capture response type %T", resp)
	}
	return captured.Snapshot, nil
}

func (h *TakeBotTurnHandler) plan(ctx context.Context, snap *snapshot.WorldSnapshot, seed int64) (*appPlanning.PlanTurnResponse, error) {
	resp, err := h.mediator.Send(ctx, &appPlanning.PlanTurnQuery{Snapshot: snap, Seed: seed})
	if err != nil {
		return nil, fmt.Errorf("plan turn: %w", err)
	}
	planned, ok := resp.(*appPlanning.PlanTurnResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected plan response type %T", resp)
	}
	return planned, nil
}

func (h *TakeBotTurnHandler) execute(ctx context.Context, snap *snapshot.WorldSnapshot, plan planning.TurnPlan, seed int64) (*execution.ExecuteTurnPlanResponse, error) {
	resp, err := h.mediator.Send(ctx, &execution.ExecuteTurnPlanCommand{
		Snapshot: snap,
		Plan:     plan,
		Seed:     seed,
	})
	if err != nil {
		return nil, fmt.Errorf("execute plan: %w", err)
	}
	executed, ok := resp.(*execution.ExecuteTurnPlanResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected execution response type %T", resp)
	}
	return executed, nil
}

func (h *TakeBotTurnHandler) buildAudit(
	snap *snapshot.WorldSnapshot,
	planResp *appPlanning.PlanTurnResponse,
	execResp *execution.ExecuteTurnPlanResponse,
	durationMs int64,
) planning.StrategyAudit {
	config := snap.Bot().Config
	turnNumber := 1
	if view, ok := snap.PlayerByID(snap.Bot().PlayerID); ok {
		// The stored counter holds completed turns; this turn is the next one
		turnNumber = view.TurnNumber + 1
	}
	return planning.StrategyAudit{
		TurnNumber:      turnNumber,
		Archetype:       config.Archetype,
		Skill:           config.Skill,
		SnapshotHash:    snap.Fingerprint(),
		FeasibleOptions: planResp.Feasible,
		RejectedOptions: planResp.Rejected,
		SelectedPlan:    planResp.Plan.Record(),
		ExecutionResult: execResp.Result,
		BotStatus:       execResp.Status,
		DurationMs:      durationMs,
	}
}
