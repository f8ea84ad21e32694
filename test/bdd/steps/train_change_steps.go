package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/railbot-go/internal/adapters/pathfinding"
	appPlanning "github.com/andrescamacho/railbot-go/internal/application/planning"
	"github.com/andrescamacho/railbot-go/internal/application/snapshotting"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/planning"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/snapshot"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
	"github.com/andrescamacho/railbot-go/test/helpers"
)

// trainChangeContext checks upgrade and crossgrade gating against real
// snapshots: the stores are seeded, the capture handler freezes them, and
// the feasibility service and planner read the frozen view.
type trainChangeContext struct {
	uow   *helpers.MockUnitOfWork
	world *helpers.StaticWorldData
	clock *shared.MockClock

	gameID shared.GameID
	botID  shared.PlayerID

	botTrain  train.Type
	botMoney  shared.Money
	turnSpend shared.Money

	snap   *snapshot.WorldSnapshot
	result planning.Result
}

func (c *trainChangeContext) reset() error {
	c.uow = helpers.NewMockUnitOfWork()
	c.clock = shared.NewMockClock(helpers.FixtureTime)
	c.gameID = shared.MustNewGameID("bdd-trains")
	c.botID = shared.MustNewPlayerID(2)
	c.botTrain = train.Freight
	c.botMoney = 0
	c.turnSpend = 0
	c.snap = nil
	c.result = planning.Result{}

	world, err := corridorWorld()
	if err != nil {
		return err
	}
	c.world = world
	return nil
}

func (c *trainChangeContext) aBotRunningATrain(trainName string, money int) error {
	t, err := train.ParseType(trainName)
	if err != nil {
		return err
	}
	c.botTrain = t
	c.botMoney = shared.Money(money)
	return nil
}

func (c *trainChangeContext) theBotHasSpentOnTrack(spend int) error {
	c.turnSpend = shared.Money(spend)
	return nil
}

// capture seeds the stores from the accumulated state and freezes a snapshot
func (c *trainChangeContext) capture() error {
	c.uow.Games.AddGame(game.RestoreGame(
		c.gameID, game.StatusActive, 1, 2, nil, nil,
		helpers.FixtureTime, helpers.FixtureTime,
	))
	userID, err := shared.NewUserID("user-1")
	if err != nil {
		return err
	}
	c.uow.Players.AddPlayer(player.RestorePlayer(
		shared.MustNewPlayerID(1), c.gameID, userID,
		false, nil, "Ada", "#1f77b4",
		50, 0, train.Freight, nil, nil, nil, 3, true,
		helpers.FixtureTime.Add(time.Second),
	))
	c.uow.Players.AddPlayer(player.RestorePlayer(
		c.botID, c.gameID, shared.UserID{},
		true, &player.BotConfig{Archetype: player.ArchetypeBackboneBuilder, Skill: player.SkillHard},
		"Bot", "#d62728",
		c.botMoney, 0, c.botTrain, nil, nil, nil, 3, false,
		helpers.FixtureTime.Add(2*time.Second),
	))
	c.uow.Tracks.AddState(track.RestorePlayerState(
		c.gameID, c.botID, nil, 0, c.turnSpend, helpers.FixtureTime,
	))

	capture := snapshotting.NewCaptureSnapshotHandler(
		c.uow.Games, c.uow.Players, c.uow.Tracks, c.world, c.clock,
	)
	resp, err := capture.Handle(context.Background(), &snapshotting.CaptureSnapshotQuery{
		GameID:   c.gameID,
		PlayerID: c.botID,
	})
	if err != nil {
		return err
	}
	c.snap = resp.(*snapshotting.CaptureSnapshotResponse).Snapshot
	return nil
}

func (c *trainChangeContext) theChangeIsChecked(kind, trainName string) error {
	target, err := train.ParseType(trainName)
	if err != nil {
		return err
	}
	if err := c.capture(); err != nil {
		return err
	}
	c.result = planning.NewFeasibilityService().ValidateUpgrade(c.snap, target)
	return nil
}

func (c *trainChangeContext) theChangeIsNotFeasible() error {
	if c.result.Feasible {
		return fmt.Errorf("expected the change to be blocked")
	}
	return nil
}

func (c *trainChangeContext) theChangeIsFeasible() error {
	if !c.result.Feasible {
		return fmt.Errorf("expected the change to pass, blocked: %s", c.result.Reason)
	}
	return nil
}

func (c *trainChangeContext) theRefusalMentions(fragment string) error {
	if !strings.Contains(c.result.Reason, fragment) {
		return fmt.Errorf("expected reason to mention %q, got %q", fragment, c.result.Reason)
	}
	return nil
}

func (c *trainChangeContext) theRefusalMentionsTheCrossgradeAllowance() error {
	return c.theRefusalMentions("crossgrade allowance")
}

func (c *trainChangeContext) theRefusalMentionsTheCleanTurnRule() error {
	return c.theRefusalMentions("clean turn")
}

// thePlannerOffersNoTrainChange plans the same snapshot and checks that no
// train change survived into the feasible set.
func (c *trainChangeContext) thePlannerOffersNoTrainChange() error {
	handler := appPlanning.NewPlanTurnHandler(pathfinding.NewGridPathfinder(c.world.Topology()))
	resp, err := handler.Handle(context.Background(), &appPlanning.PlanTurnQuery{
		Snapshot: c.snap,
		Seed:     7,
	})
	if err != nil {
		return err
	}
	planned := resp.(*appPlanning.PlanTurnResponse)
	for _, opt := range planned.Feasible {
		if opt.Type == planning.ActionUpgradeTrain {
			return fmt.Errorf("planner kept a train change: %s", opt.Describe())
		}
	}
	return nil
}

// InitializeTrainChangeScenario registers the upgrade gating steps
func InitializeTrainChangeScenario(sc *godog.ScenarioContext) {
	c := &trainChangeContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, c.reset()
	})

	sc.Step(`^a bot running a ([a-zA-Z]+) with (\d+) money$`, c.aBotRunningATrain)
	sc.Step(`^the bot has spent (\d+) on track this turn$`, c.theBotHasSpentOnTrack)
	sc.Step(`^the (crossgrade|upgrade) to ([a-zA-Z]+) is checked$`, c.theChangeIsChecked)
	sc.Step(`^the change is not feasible$`, c.theChangeIsNotFeasible)
	sc.Step(`^the change is feasible$`, c.theChangeIsFeasible)
	sc.Step(`^the refusal mentions the crossgrade allowance$`, c.theRefusalMentionsTheCrossgradeAllowance)
	sc.Step(`^the refusal mentions the clean turn rule$`, c.theRefusalMentionsTheCleanTurnRule)
	sc.Step(`^the planner offers no train change$`, c.thePlannerOffersNoTrainChange)
}
