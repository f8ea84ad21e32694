package turns_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/adapters/events"
	"github.com/andrescamacho/railbot-go/internal/application/common"
	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/application/turns"
	"github.com/andrescamacho/railbot-go/internal/domain/planning"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/test/helpers"
)

type schedulerFixture struct {
	scheduler *turns.BotTurnScheduler
	mediator  *helpers.MockMediator
	players   *helpers.MockPlayerRepository
	bus       *events.Bus
	human     *player.Player
}

func newSchedulerFixture(t *testing.T, cfg turns.SchedulerConfig) *schedulerFixture {
	t.Helper()

	f := &schedulerFixture{
		mediator: helpers.NewMockMediator(),
		players:  helpers.NewMockPlayerRepository(),
		bus:      events.NewBus(),
	}
	f.human = helpers.RestoredSeat(t, "game-1", helpers.SeatSpec{
		ID: 1, Name: "Ada", Color: "#1f77b4", UserID: "user-1", Money: 50, Online: true,
	})
	f.players.AddPlayer(f.human)
	f.players.AddPlayer(helpers.RestoredSeat(t, "game-1", helpers.SeatSpec{
		ID: 2, Name: "Bot", Color: "#d62728",
		Bot:   &player.BotConfig{Archetype: player.ArchetypeOpportunist, Skill: player.SkillEasy},
		Money: 50,
	}))

	f.scheduler = turns.NewBotTurnScheduler(
		f.mediator,
		f.players,
		f.bus,
		common.NewNoOpLogger(),
		shared.NewMockClock(helpers.FixtureTime),
		cfg,
		nil,
	)
	t.Cleanup(f.scheduler.Stop)
	return f
}

func fastConfig() turns.SchedulerConfig {
	return turns.SchedulerConfig{
		TurnDelay:      time.Millisecond,
		TurnDeadline:   5 * time.Second,
		TurnsPerSecond: 1000,
		Burst:          10,
	}
}

// scriptTurn answers the two commands a scheduled run dispatches. block, when
// non-nil, holds the bot turn open until the channel closes.
func (f *schedulerFixture) scriptTurn(success bool, block chan struct{}) {
	f.mediator.SetSendFunc(func(ctx context.Context, request common.Request) (common.Response, error) {
		switch request.(type) {
		case *turns.TakeBotTurnCommand:
			if block != nil {
				<-block
			}
			return &turns.TakeBotTurnResponse{
				Result: planning.ExecutionRecord{Success: success, ActionsExecuted: 1},
			}, nil
		case *turns.AdvanceSeatCommand:
			return &turns.AdvanceSeatResponse{NextSeatIndex: 0}, nil
		default:
			return nil, fmt.Errorf("unscripted request type: %T", request)
		}
	})
}

func botSeatEvent() ports.TurnChangedEvent {
	return ports.TurnChangedEvent{
		GameID:    shared.MustNewGameID("game-1"),
		SeatIndex: 1,
		PlayerID:  shared.MustNewPlayerID(2),
	}
}

func countCalls(log []string, name string) int {
	n := 0
	for _, entry := range log {
		if entry == name {
			n++
		}
	}
	return n
}

func TestSchedulerRunsBotTurnAndAdvances(t *testing.T) {
	f := newSchedulerFixture(t, fastConfig())
	f.scriptTurn(true, nil)

	f.scheduler.OnTurnChange(botSeatEvent())

	require.Eventually(t, func() bool {
		return countCalls(f.mediator.GetCallLog(), "AdvanceSeatCommand") == 1
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, []string{"TakeBotTurnCommand", "AdvanceSeatCommand"}, f.mediator.GetCallLog())
	assert.Equal(t, 0, f.scheduler.PendingCount())
}

func TestSchedulerIgnoresHumanSeats(t *testing.T) {
	f := newSchedulerFixture(t, fastConfig())
	f.scriptTurn(true, nil)

	f.scheduler.OnTurnChange(ports.TurnChangedEvent{
		GameID:    shared.MustNewGameID("game-1"),
		SeatIndex: 0,
		PlayerID:  shared.MustNewPlayerID(1),
	})

	assert.Equal(t, 0, f.scheduler.PendingCount())
	assert.Empty(t, f.mediator.GetCallLog())
}

func TestSchedulerDropsDuplicateTriggers(t *testing.T) {
	f := newSchedulerFixture(t, fastConfig())
	release := make(chan struct{})
	f.scriptTurn(true, release)

	f.scheduler.OnTurnChange(botSeatEvent())
	f.scheduler.OnTurnChange(botSeatEvent())
	f.scheduler.OnTurnChange(botSeatEvent())

	require.Eventually(t, func() bool {
		return countCalls(f.mediator.GetCallLog(), "TakeBotTurnCommand") == 1
	}, 2*time.Second, time.Millisecond)
	close(release)

	require.Eventually(t, func() bool {
		return f.scheduler.PendingCount() == 0
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, 1, countCalls(f.mediator.GetCallLog(), "TakeBotTurnCommand"),
		"a game never has more than one turn in flight")
}

func TestSchedulerQueuesWhenNoHumansWatch(t *testing.T) {
	f := newSchedulerFixture(t, fastConfig())
	f.scriptTurn(true, nil)
	f.human.SetOnline(false)

	f.scheduler.OnTurnChange(botSeatEvent())

	assert.Equal(t, []string{"game-1"}, f.scheduler.QueuedGames())
	assert.Equal(t, 0, f.scheduler.PendingCount())
	assert.Empty(t, f.mediator.GetCallLog(), "nothing runs while the table is empty")

	f.human.SetOnline(true)
	userID, err := shared.NewUserID("user-1")
	require.NoError(t, err)
	f.scheduler.OnHumanReconnect(ports.PlayerReconnectedEvent{
		GameID: shared.MustNewGameID("game-1"),
		UserID: userID,
	})

	require.Eventually(t, func() bool {
		return countCalls(f.mediator.GetCallLog(), "AdvanceSeatCommand") == 1
	}, 2*time.Second, time.Millisecond)
	assert.Empty(t, f.scheduler.QueuedGames())
}

func TestSchedulerDoesNotAdvanceAfterFailedTurn(t *testing.T) {
	f := newSchedulerFixture(t, fastConfig())
	f.scriptTurn(false, nil)

	f.scheduler.OnTurnChange(botSeatEvent())

	require.Eventually(t, func() bool {
		return countCalls(f.mediator.GetCallLog(), "TakeBotTurnCommand") == 1 &&
			f.scheduler.PendingCount() == 0
	}, 2*time.Second, time.Millisecond)
	assert.Zero(t, countCalls(f.mediator.GetCallLog(), "AdvanceSeatCommand"),
		"a stuck seat stays with the bot instead of skipping ahead")
}

func TestSchedulerStopCancelsScheduledTurns(t *testing.T) {
	cfg := fastConfig()
	cfg.TurnDelay = time.Hour
	f := newSchedulerFixture(t, cfg)
	f.scriptTurn(true, nil)

	f.scheduler.OnTurnChange(botSeatEvent())
	assert.Equal(t, 1, f.scheduler.PendingCount())

	done := make(chan struct{})
	go func() {
		f.scheduler.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.Empty(t, f.mediator.GetCallLog())
}

func TestSchedulerDispatchesFromTheBus(t *testing.T) {
	f := newSchedulerFixture(t, fastConfig())
	f.scriptTurn(true, nil)
	f.scheduler.Start()

	f.bus.PublishTurnChanged(botSeatEvent())

	require.Eventually(t, func() bool {
		return countCalls(f.mediator.GetCallLog(), "AdvanceSeatCommand") == 1
	}, 2*time.Second, time.Millisecond)
}
