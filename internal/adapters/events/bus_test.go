package events_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/adapters/events"
	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

func TestBus_TurnChangedFanout(t *testing.T) {
	bus := events.NewBus()
	first := bus.SubscribeTurnChanged()
	second := bus.SubscribeTurnChanged()

	event := ports.TurnChangedEvent{
		GameID:    shared.MustNewGameID("game-1"),
		SeatIndex: 2,
		PlayerID:  shared.MustNewPlayerID(3),
	}
	bus.PublishTurnChanged(event)

	assert.Equal(t, event, <-first)
	assert.Equal(t, event, <-second)
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	bus := events.NewBus()
	ch := bus.SubscribeTurnChanged()

	bus.UnsubscribeTurnChanged(ch)

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must not panic
	bus.PublishTurnChanged(ports.TurnChangedEvent{GameID: shared.MustNewGameID("game-1")})
}

func TestBus_GameEventsAreKeyedByGame(t *testing.T) {
	bus := events.NewBus()
	gameOne := shared.MustNewGameID("game-1")
	gameTwo := shared.MustNewGameID("game-2")

	chOne := bus.SubscribeGameEvents(gameOne)
	chTwo := bus.SubscribeGameEvents(gameTwo)

	bus.PublishGameEvent(ports.GameEvent{
		GameID: gameOne,
		Event:  ports.EventAIThinking,
		Data:   map[string]interface{}{"playerId": 3},
	})

	got := <-chOne
	assert.Equal(t, ports.EventAIThinking, got.Event)

	select {
	case unexpected := <-chTwo:
		t.Fatalf("game-2 subscriber received %v", unexpected)
	default:
	}

	bus.UnsubscribeGameEvents(gameOne, chOne)
	bus.UnsubscribeGameEvents(gameTwo, chTwo)
	assert.Equal(t, 0, bus.SubscriberCount(gameOne))
}

func TestBus_PlayerReconnectedRoundTrip(t *testing.T) {
	bus := events.NewBus()
	ch := bus.SubscribePlayerReconnected()

	event := ports.PlayerReconnectedEvent{
		GameID: shared.MustNewGameID("game-1"),
		UserID: shared.MustNewUserID("user-7"),
	}
	bus.PublishPlayerReconnected(event)

	assert.Equal(t, event, <-ch)
	bus.UnsubscribePlayerReconnected(ch)
	assert.Equal(t, 0, bus.TotalSubscriberCount())
}

func TestBus_SlowSubscriberNeverBlocksPublisher(t *testing.T) {
	bus := events.NewBus()
	bus.SubscribeTurnChanged() // never drained

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			bus.PublishTurnChanged(ports.TurnChangedEvent{GameID: shared.MustNewGameID("game-1")})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "publisher blocked on a slow subscriber")
	}
}
