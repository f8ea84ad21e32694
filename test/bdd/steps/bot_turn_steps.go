package steps

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/railbot-go/internal/adapters/pathfinding"
	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/application/setup"
	"github.com/andrescamacho/railbot-go/internal/application/turns"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
	"github.com/andrescamacho/railbot-go/test/helpers"
)

// botTurnContext drives one complete bot turn through the real pipeline:
// in-memory stores for game state, the shared sqlite database for the audit
// trail, and a fully registered mediator on top.
type botTurnContext struct {
	uow       *helpers.MockUnitOfWork
	world     *helpers.StaticWorldData
	publisher *helpers.RecordingEventPublisher
	audits    ports.AuditSink
	clock     *shared.MockClock

	gameID shared.GameID
	botID  shared.PlayerID

	botTrain train.Type
	botMoney shared.Money
	botDebt  shared.Money
	botLoads []loads.LoadType
	botHand  []int

	response *turns.TakeBotTurnResponse
}

func (c *botTurnContext) reset() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	c.uow = helpers.NewMockUnitOfWork()
	c.publisher = helpers.NewRecordingEventPublisher()
	c.clock = shared.NewMockClock(helpers.FixtureTime)
	c.audits = helpers.NewTestRepositories(c.clock).AuditSink
	c.gameID = shared.MustNewGameID("bdd-delivery")
	c.botID = shared.MustNewPlayerID(2)
	c.botTrain = train.Superfreight
	c.botMoney = 0
	c.botDebt = 0
	c.botLoads = nil
	c.botHand = nil
	c.response = nil

	world, err := corridorWorld()
	if err != nil {
		return err
	}
	c.world = world
	return nil
}

// Given steps

func (c *botTurnContext) anActiveTwoSeatGame() error {
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
	return nil
}

func (c *botTurnContext) theBotStandsAtEssen(trainName string, money int) error {
	t, err := train.ParseType(trainName)
	if err != nil {
		return err
	}
	c.botTrain = t
	c.botMoney = shared.Money(money)
	return nil
}

func (c *botTurnContext) theBotCarriesCoalAndHoldsCards(table *godog.Table) error {
	c.botLoads = []loads.LoadType{loads.Coal}
	c.botHand = nil
	for _, row := range table.Rows[1:] {
		id, err := cardID(row)
		if err != nil {
			return err
		}
		c.botHand = append(c.botHand, id)
	}
	return nil
}

func cardID(row *messages.PickleTableRow) (int, error) {
	if len(row.Cells) != 1 {
		return 0, fmt.Errorf("expected a single card column, got %d cells", len(row.Cells))
	}
	return strconv.Atoi(row.Cells[0].Value)
}

func (c *botTurnContext) theBotsTrackConnectsEssenToParis() error {
	topo := c.world.Topology()
	first, err := track.NewSegment(topo, corridorEssen, corridorMid)
	if err != nil {
		return err
	}
	second, err := track.NewSegment(topo, corridorMid, corridorParis)
	if err != nil {
		return err
	}
	c.uow.Tracks.AddState(track.RestorePlayerState(
		c.gameID, c.botID,
		[]track.Segment{first, second},
		first.Cost.Add(second.Cost), 0,
		helpers.FixtureTime,
	))
	return nil
}

func (c *botTurnContext) theBotOwesDebt(debt int) error {
	c.botDebt = shared.Money(debt)
	return nil
}

// When steps

func (c *botTurnContext) theBotTakesItsTurn() error {
	position := corridorEssen
	c.uow.Players.AddPlayer(player.RestorePlayer(
		c.botID, c.gameID, shared.UserID{},
		true, &player.BotConfig{Archetype: player.ArchetypeFreightOptimizer, Skill: player.SkillHard},
		"Bot", "#d62728",
		c.botMoney, c.botDebt, c.botTrain, &position,
		c.botLoads, c.botHand, 3, false,
		helpers.FixtureTime.Add(2*time.Second),
	))

	registry := setup.NewHandlerRegistry(
		c.uow.Games, c.uow.Players, c.uow.Tracks, c.uow,
		c.world, pathfinding.NewGridPathfinder(c.world.Topology()),
		c.audits, c.publisher, c.clock,
	)
	mediator, err := registry.CreateConfiguredMediator()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := mediator.Send(ctx, &turns.TakeBotTurnCommand{
		GameID:   c.gameID,
		PlayerID: c.botID,
		Seed:     42,
	})
	if err != nil {
		return err
	}
	turn, ok := resp.(*turns.TakeBotTurnResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", resp)
	}
	c.response = turn
	return nil
}

// Then steps

func (c *botTurnContext) theTurnCompletesSuccessfully() error {
	if c.response == nil {
		return fmt.Errorf("no turn was taken")
	}
	if !c.response.Result.Success {
		return fmt.Errorf("turn failed: %s", c.response.Result.Error)
	}
	return nil
}

func (c *botTurnContext) bot() (*player.Player, error) {
	return c.uow.Players.FindByID(context.Background(), c.gameID, c.botID)
}

func (c *botTurnContext) theBotHasMoneyAndDebt(money, debt int) error {
	bot, err := c.bot()
	if err != nil {
		return err
	}
	if bot.Money() != shared.Money(money) {
		return fmt.Errorf("expected %d money, got %s", money, bot.Money())
	}
	if bot.DebtOwed() != shared.Money(debt) {
		return fmt.Errorf("expected %d debt, got %s", debt, bot.DebtOwed())
	}
	return nil
}

func (c *botTurnContext) theBotCarriesNoLoads() error {
	bot, err := c.bot()
	if err != nil {
		return err
	}
	if carried := bot.Loads(); len(carried) != 0 {
		return fmt.Errorf("expected an empty train, got %v", carried)
	}
	return nil
}

func (c *botTurnContext) theBotHoldsCardsAndCardIsGone(count, gone int) error {
	bot, err := c.bot()
	if err != nil {
		return err
	}
	hand := bot.Hand()
	if len(hand) != count {
		return fmt.Errorf("expected a hand of %d, got %v", count, hand)
	}
	for _, id := range hand {
		if id == gone {
			return fmt.Errorf("card %d should have been discarded, hand is %v", gone, hand)
		}
	}
	return nil
}

func (c *botTurnContext) theBotSpentNothingOnTrack() error {
	state, err := c.uow.Tracks.FindByPlayer(context.Background(), c.gameID, c.botID)
	if err != nil {
		return err
	}
	if state.TurnBuildCost() != 0 {
		return fmt.Errorf("expected no track spend, got %s", state.TurnBuildCost())
	}
	return nil
}

func (c *botTurnContext) aStrategyAuditIsStoredForTurn(turnNumber int) error {
	rows, err := c.audits.FindByGame(context.Background(), c.gameID, 10)
	if err != nil {
		return err
	}
	if len(rows) != 1 {
		return fmt.Errorf("expected one audit row, got %d", len(rows))
	}
	row := rows[0]
	if row.TurnNumber != turnNumber {
		return fmt.Errorf("expected audit for turn %d, got %d", turnNumber, row.TurnNumber)
	}
	if !row.Strategy.ExecutionResult.Success {
		return fmt.Errorf("audit records a failed execution: %s", row.Strategy.ExecutionResult.Error)
	}
	return nil
}

func (c *botTurnContext) clientsSawThinkingThenComplete() error {
	var names []string
	for _, evt := range c.publisher.GameEvents() {
		if evt.Event == ports.EventAIThinking || evt.Event == ports.EventAITurnComplete {
			names = append(names, evt.Event)
		}
	}
	if len(names) != 2 || names[0] != ports.EventAIThinking || names[1] != ports.EventAITurnComplete {
		return fmt.Errorf("expected [%s %s], got %v", ports.EventAIThinking, ports.EventAITurnComplete, names)
	}
	return nil
}

// InitializeBotTurnScenario registers the delivery pipeline steps
func InitializeBotTurnScenario(sc *godog.ScenarioContext) {
	c := &botTurnContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, c.reset()
	})

	sc.Step(`^an active two-seat game with a human watching$`, c.anActiveTwoSeatGame)
	sc.Step(`^the bot stands at Essen running a ([a-zA-Z]+) with (\d+) money$`, c.theBotStandsAtEssen)
	sc.Step(`^the bot carries Coal and holds these demand cards:$`, c.theBotCarriesCoalAndHoldsCards)
	sc.Step(`^the bot's track connects Essen to Paris$`, c.theBotsTrackConnectsEssenToParis)
	sc.Step(`^the bot owes (\d+) in debt$`, c.theBotOwesDebt)
	sc.Step(`^the bot takes its turn$`, c.theBotTakesItsTurn)
	sc.Step(`^the turn completes successfully$`, c.theTurnCompletesSuccessfully)
	sc.Step(`^the bot has (\d+) money and owes (\d+) in debt$`, c.theBotHasMoneyAndDebt)
	sc.Step(`^the bot carries no loads$`, c.theBotCarriesNoLoads)
	sc.Step(`^the bot holds (\d+) demand cards and card (\d+) is gone$`, c.theBotHoldsCardsAndCardIsGone)
	sc.Step(`^the bot spent nothing on track this turn$`, c.theBotSpentNothingOnTrack)
	sc.Step(`^a strategy audit is stored for turn (\d+)$`, c.aStrategyAuditIsStoredForTurn)
	sc.Step(`^clients saw ai:thinking followed by ai:turn-complete$`, c.clientsSawThinkingThenComplete)
}
