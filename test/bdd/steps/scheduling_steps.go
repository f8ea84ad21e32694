package steps

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/railbot-go/internal/adapters/events"
	"github.com/andrescamacho/railbot-go/internal/application/common"
	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/application/turns"
	"github.com/andrescamacho/railbot-go/internal/domain/planning"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
	"github.com/andrescamacho/railbot-go/test/helpers"
)

// schedulingContext exercises the scheduler against a scripted mediator: the
// turn pipeline is a stub, the queueing and dedupe rules are the real thing.
type schedulingContext struct {
	scheduler *turns.BotTurnScheduler
	mediator  *helpers.MockMediator
	players   *helpers.MockPlayerRepository
	human     *player.Player

	gameID  shared.GameID
	success bool
	block   chan struct{}
}

func (c *schedulingContext) reset() {
	c.mediator = helpers.NewMockMediator()
	c.players = helpers.NewMockPlayerRepository()
	c.gameID = shared.MustNewGameID("bdd-sched")
	c.success = true
	c.block = nil
	c.scheduler = nil
	c.human = nil
}

func (c *schedulingContext) stop() {
	if c.scheduler != nil {
		c.scheduler.Stop()
	}
}

func (c *schedulingContext) aGameWithOneHumanAndOneBot() error {
	userID, err := shared.NewUserID("user-1")
	if err != nil {
		return err
	}
	c.human = player.RestorePlayer(
		shared.MustNewPlayerID(1), c.gameID, userID,
		false, nil, "Ada", "#1f77b4",
		50, 0, train.Freight, nil, nil, nil, 3, true,
		helpers.FixtureTime.Add(time.Second),
	)
	c.players.AddPlayer(c.human)
	c.players.AddPlayer(player.RestorePlayer(
		shared.MustNewPlayerID(2), c.gameID, shared.UserID{},
		true, &player.BotConfig{Archetype: player.ArchetypeOpportunist, Skill: player.SkillEasy},
		"Bot", "#d62728",
		50, 0, train.Freight, nil, nil, nil, 3, false,
		helpers.FixtureTime.Add(2*time.Second),
	))

	// The turn and the seat advance are scripted; block, when set, holds
	// the turn open so triggers can pile up against it.
	c.mediator.SetSendFunc(func(ctx context.Context, request common.Request) (common.Response, error) {
		switch request.(type) {
		case *turns.TakeBotTurnCommand:
			if c.block != nil {
				<-c.block
			}
			return &turns.TakeBotTurnResponse{
				Result: planning.ExecutionRecord{Success: c.success, ActionsExecuted: 1},
			}, nil
		case *turns.AdvanceSeatCommand:
			return &turns.AdvanceSeatResponse{NextSeatIndex: 0}, nil
		default:
			return nil, fmt.Errorf("unscripted request type: %T", request)
		}
	})

	c.scheduler = turns.NewBotTurnScheduler(
		c.mediator,
		c.players,
		events.NewBus(),
		common.NewNoOpLogger(),
		shared.NewMockClock(helpers.FixtureTime),
		turns.SchedulerConfig{
			TurnDelay:      time.Millisecond,
			TurnDeadline:   5 * time.Second,
			TurnsPerSecond: 1000,
			Burst:          10,
		},
		nil,
	)
	return nil
}

func (c *schedulingContext) theHumanIsOffline() error {
	c.human.SetOnline(false)
	return nil
}

func (c *schedulingContext) theHumanReconnects() error {
	c.human.SetOnline(true)
	userID, err := shared.NewUserID("user-1")
	if err != nil {
		return err
	}
	c.scheduler.OnHumanReconnect(ports.PlayerReconnectedEvent{
		GameID: c.gameID,
		UserID: userID,
	})
	return nil
}

func (c *schedulingContext) theNextBotTurnStopsMidPlan() error {
	c.success = false
	return nil
}

func (c *schedulingContext) event() ports.TurnChangedEvent {
	return ports.TurnChangedEvent{
		GameID:    c.gameID,
		SeatIndex: 1,
		PlayerID:  shared.MustNewPlayerID(2),
	}
}

func (c *schedulingContext) theBotsSeatComesUp() error {
	c.scheduler.OnTurnChange(c.event())
	return nil
}

// theBotsSeatComesUpTimesAtOnce fires the triggers concurrently against a
// turn held open, so every duplicate arrives while the first is in flight.
func (c *schedulingContext) theBotsSeatComesUpTimesAtOnce(count int) error {
	c.block = make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.scheduler.OnTurnChange(c.event())
		}()
	}
	wg.Wait()

	if err := c.waitFor(func() bool {
		return c.turnCount() == 1
	}); err != nil {
		close(c.block)
		return fmt.Errorf("the held turn never started: %w", err)
	}
	close(c.block)
	return nil
}

func (c *schedulingContext) turnCount() int {
	n := 0
	for _, entry := range c.mediator.GetCallLog() {
		if entry == "TakeBotTurnCommand" {
			n++
		}
	}
	return n
}

func (c *schedulingContext) advanceCount() int {
	n := 0
	for _, entry := range c.mediator.GetCallLog() {
		if entry == "AdvanceSeatCommand" {
			n++
		}
	}
	return n
}

func (c *schedulingContext) waitFor(cond func() bool) error {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
	return fmt.Errorf("condition not met within 2s")
}

func (c *schedulingContext) noBotTurnRuns() error {
	// Queueing happens synchronously in OnTurnChange; a short settle guards
	// against a stray timer firing anyway.
	time.Sleep(20 * time.Millisecond)
	if n := c.turnCount(); n != 0 {
		return fmt.Errorf("expected no turns, got %d", n)
	}
	return nil
}

func (c *schedulingContext) theGameIsQueuedForReplay() error {
	queued := c.scheduler.QueuedGames()
	if len(queued) != 1 || queued[0] != c.gameID.Value() {
		return fmt.Errorf("expected %s queued, got %v", c.gameID.Value(), queued)
	}
	return nil
}

func (c *schedulingContext) exactlyOneTurnRunsAndAdvances() error {
	if err := c.waitFor(func() bool {
		return c.advanceCount() == 1 && c.scheduler.PendingCount() == 0
	}); err != nil {
		return err
	}
	if n := c.turnCount(); n != 1 {
		return fmt.Errorf("expected exactly one turn, got %d", n)
	}
	return nil
}

func (c *schedulingContext) theTurnRunsButTheSeatStays() error {
	if err := c.waitFor(func() bool {
		return c.turnCount() == 1 && c.scheduler.PendingCount() == 0
	}); err != nil {
		return err
	}
	if n := c.advanceCount(); n != 0 {
		return fmt.Errorf("the seat advanced %d times after a failed turn", n)
	}
	return nil
}

// InitializeSchedulingScenario registers the scheduler steps
func InitializeSchedulingScenario(sc *godog.ScenarioContext) {
	c := &schedulingContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})
	sc.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		c.stop()
		return ctx, nil
	})

	sc.Step(`^a game with one human seat and one bot seat$`, c.aGameWithOneHumanAndOneBot)
	sc.Step(`^the human is offline$`, c.theHumanIsOffline)
	sc.Step(`^the human reconnects$`, c.theHumanReconnects)
	sc.Step(`^the next bot turn stops mid-plan$`, c.theNextBotTurnStopsMidPlan)
	sc.Step(`^the bot's seat comes up$`, c.theBotsSeatComesUp)
	sc.Step(`^the bot's seat comes up (\d+) times at once$`, c.theBotsSeatComesUpTimesAtOnce)
	sc.Step(`^no bot turn runs$`, c.noBotTurnRuns)
	sc.Step(`^the game is queued for replay$`, c.theGameIsQueuedForReplay)
	sc.Step(`^exactly one bot turn runs and the seat advances$`, c.exactlyOneTurnRunsAndAdvances)
	sc.Step(`^the bot turn runs but the seat does not advance$`, c.theTurnRunsButTheSeatStays)
}
