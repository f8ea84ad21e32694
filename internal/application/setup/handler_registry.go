package setup

import (
	"fmt"

	"github.com/andrescamacho/railbot-go/internal/application/common"
	"github.com/andrescamacho/railbot-go/internal/application/execution"
	appPlanning "github.com/andrescamacho/railbot-go/internal/application/planning"
	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/application/snapshotting"
	"github.com/andrescamacho/railbot-go/internal/application/turns"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
)

// HandlerRegistry holds the dependencies every pipeline handler needs.
// One registry builds one fully wired mediator.
type HandlerRegistry struct {
	gameRepo   game.Repository
	playerRepo player.Repository
	trackRepo  track.Repository
	uow        ports.UnitOfWork
	world      ports.WorldData
	pathfinder ports.Pathfinder
	audits     ports.AuditSink
	publisher  ports.EventPublisher
	clock      shared.Clock
}

// NewHandlerRegistry creates a handler registry with required dependencies
func NewHandlerRegistry(
	gameRepo game.Repository,
	playerRepo player.Repository,
	trackRepo track.Repository,
	uow ports.UnitOfWork,
	world ports.WorldData,
	pathfinder ports.Pathfinder,
	audits ports.AuditSink,
	publisher ports.EventPublisher,
	clock shared.Clock,
) *HandlerRegistry {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &HandlerRegistry{
		gameRepo:   gameRepo,
		playerRepo: playerRepo,
		trackRepo:  trackRepo,
		uow:        uow,
		world:      world,
		pathfinder: pathfinder,
		audits:     audits,
		publisher:  publisher,
		clock:      clock,
	}
}

// RegisterPipelineHandlers registers the bot turn pipeline on the mediator:
//
//   - CaptureSnapshotQuery → CaptureSnapshotHandler (consistent world view)
//   - PlanTurnQuery → PlanTurnHandler (rule engine and plan selection)
//   - ExecuteTurnPlanCommand → ExecuteTurnPlanHandler (transactional apply)
//   - TakeBotTurnCommand → TakeBotTurnHandler (capture → plan → execute)
//   - AdvanceSeatCommand → AdvanceSeatHandler (turn close and seat rotation)
//
// TakeBotTurnHandler dispatches the first three through the same mediator,
// so they must all be registered together.
func (r *HandlerRegistry) RegisterPipelineHandlers(m common.Mediator) error {
	captureHandler := snapshotting.NewCaptureSnapshotHandler(
		r.gameRepo, r.playerRepo, r.trackRepo, r.world, r.clock,
	)
	if err := common.RegisterHandler[*snapshotting.CaptureSnapshotQuery](m, captureHandler); err != nil {
		return fmt.Errorf("failed to register CaptureSnapshot handler: %w", err)
	}

	planHandler := appPlanning.NewPlanTurnHandler(r.pathfinder)
	if err := common.RegisterHandler[*appPlanning.PlanTurnQuery](m, planHandler); err != nil {
		return fmt.Errorf("failed to register PlanTurn handler: %w", err)
	}

	executeHandler := execution.NewExecuteTurnPlanHandler(r.uow, r.world, r.publisher, r.clock)
	if err := common.RegisterHandler[*execution.ExecuteTurnPlanCommand](m, executeHandler); err != nil {
		return fmt.Errorf("failed to register ExecuteTurnPlan handler: %w", err)
	}

	takeTurnHandler := turns.NewTakeBotTurnHandler(m, r.audits, r.publisher, r.clock)
	if err := common.RegisterHandler[*turns.TakeBotTurnCommand](m, takeTurnHandler); err != nil {
		return fmt.Errorf("failed to register TakeBotTurn handler: %w", err)
	}

	advanceHandler := turns.NewAdvanceSeatHandler(r.uow, r.publisher, r.clock)
	if err := common.RegisterHandler[*turns.AdvanceSeatCommand](m, advanceHandler); err != nil {
		return fmt.Errorf("failed to register AdvanceSeat handler: %w", err)
	}

	return nil
}

// CreateConfiguredMediator creates a mediator with the given middleware and
// every pipeline handler registered. Middleware run outermost first, so pass
// recovery before logging before metrics.
func (r *HandlerRegistry) CreateConfiguredMediator(middleware ...common.Middleware) (common.Mediator, error) {
	m := common.NewMediator()

	for _, mw := range middleware {
		m.Use(mw)
	}

	if err := r.RegisterPipelineHandlers(m); err != nil {
		return nil, err
	}

	return m, nil
}
