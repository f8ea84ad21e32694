package ports

import (
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// Wire names of the events exchanged with the socket gateway.
const (
	EventTurnChanged       = "turn:change"
	EventPlayerReconnected = "player:reconnect"
	EventStatePatch        = "state:patch"
	EventTrackUpdated      = "track:updated"
	EventAIThinking        = "ai:thinking"
	EventAITurnComplete    = "ai:turn-complete"
)

// TurnChangedEvent is the sole trigger for bot scheduling: the active seat
// of a game moved.
type TurnChangedEvent struct {
	GameID    shared.GameID
	SeatIndex int
	PlayerID  shared.PlayerID
}

// PlayerReconnectedEvent fires when a client rejoins a game. A queued bot
// turn for that game replays immediately.
type PlayerReconnectedEvent struct {
	GameID shared.GameID
	UserID shared.UserID
}

// GameEvent is the downstream envelope forwarded verbatim to clients of a
// game. Data carries the event-specific payload keyed exactly the way the
// gateway serializes it.
type GameEvent struct {
	GameID shared.GameID
	Event  string
	Data   map[string]interface{}
}

// EventPublisher is the write side of the in-process bus.
type EventPublisher interface {
	PublishTurnChanged(event TurnChangedEvent)
	PublishPlayerReconnected(event PlayerReconnectedEvent)
	PublishGameEvent(event GameEvent)
}

// EventSubscriber is the read side. Turn and reconnect streams are global
// because a single scheduler watches every game; game events are keyed so
// each gateway connection only sees its own game.
type EventSubscriber interface {
	SubscribeTurnChanged() <-chan TurnChangedEvent
	UnsubscribeTurnChanged(ch <-chan TurnChangedEvent)
	SubscribePlayerReconnected() <-chan PlayerReconnectedEvent
	UnsubscribePlayerReconnected(ch <-chan PlayerReconnectedEvent)
	SubscribeGameEvents(gameID shared.GameID) <-chan GameEvent
	UnsubscribeGameEvents(gameID shared.GameID, ch <-chan GameEvent)
}
