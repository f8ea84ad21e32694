package events

import (
	"sync"

	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// Bus provides in-process pub/sub between the game engine, the bot scheduler
// and the gateway processes. Implements both EventPublisher and
// EventSubscriber from the application ports.
// Thread-safe, supports multiple subscribers per topic.
// Uses buffered channels with non-blocking sends to prevent blocking publishers.
type Bus struct {
	mu sync.RWMutex

	// Global streams: one scheduler watches every game
	turnSubscribers      []chan ports.TurnChangedEvent
	reconnectSubscribers []chan ports.PlayerReconnectedEvent

	// gameSubscribers[gameID] = []channels
	gameSubscribers map[string][]chan ports.GameEvent
}

// Compile-time interface checks
var (
	_ ports.EventPublisher  = (*Bus)(nil)
	_ ports.EventSubscriber = (*Bus)(nil)
)

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		gameSubscribers: make(map[string][]chan ports.GameEvent),
	}
}

// PublishTurnChanged publishes a seat change to every scheduler subscriber
func (b *Bus) PublishTurnChanged(event ports.TurnChangedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.turnSubscribers {
		// Non-blocking send - skip if channel buffer is full
		select {
		case ch <- event:
			// Event delivered
		default:
			// Channel full, subscriber is slow - skip to prevent blocking
		}
	}
}

// SubscribeTurnChanged subscribes to seat changes across all games.
// Returns a channel that receives events. Caller must UnsubscribeTurnChanged when done.
func (b *Bus) SubscribeTurnChanged() <-chan ports.TurnChangedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Buffered so a burst of short bot turns doesn't drop triggers
	ch := make(chan ports.TurnChangedEvent, 16)
	b.turnSubscribers = append(b.turnSubscribers, ch)

	return ch
}

// UnsubscribeTurnChanged removes a subscription. Closes the channel.
func (b *Bus) UnsubscribeTurnChanged(ch <-chan ports.TurnChangedEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, c := range b.turnSubscribers {
		// Compare channel identity
		if c == ch {
			close(c)
			b.turnSubscribers[i] = b.turnSubscribers[len(b.turnSubscribers)-1]
			b.turnSubscribers = b.turnSubscribers[:len(b.turnSubscribers)-1]
			break
		}
	}
}

// PublishPlayerReconnected publishes a client rejoining its game
func (b *Bus) PublishPlayerReconnected(event ports.PlayerReconnectedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.reconnectSubscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscribePlayerReconnected subscribes to reconnects across all games.
// Returns a channel that receives events. Caller must UnsubscribePlayerReconnected when done.
func (b *Bus) SubscribePlayerReconnected() <-chan ports.PlayerReconnectedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan ports.PlayerReconnectedEvent, 16)
	b.reconnectSubscribers = append(b.reconnectSubscribers, ch)

	return ch
}

// UnsubscribePlayerReconnected removes a subscription. Closes the channel.
func (b *Bus) UnsubscribePlayerReconnected(ch <-chan ports.PlayerReconnectedEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, c := range b.reconnectSubscribers {
		if c == ch {
			close(c)
			b.reconnectSubscribers[i] = b.reconnectSubscribers[len(b.reconnectSubscribers)-1]
			b.reconnectSubscribers = b.reconnectSubscribers[:len(b.reconnectSubscribers)-1]
			break
		}
	}
}

// PublishGameEvent publishes a downstream event to subscribers of its game
func (b *Bus) PublishGameEvent(event ports.GameEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	channels := b.gameSubscribers[event.GameID.Value()]
	for _, ch := range channels {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscribeGameEvents subscribes to downstream events for a specific game.
// Returns a channel that receives events. Caller must UnsubscribeGameEvents when done.
func (b *Bus) SubscribeGameEvents(gameID shared.GameID) <-chan ports.GameEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A turn emits several events (thinking, patches, completion), so give
	// gateway consumers more slack
	ch := make(chan ports.GameEvent, 32)
	key := gameID.Value()
	b.gameSubscribers[key] = append(b.gameSubscribers[key], ch)

	return ch
}

// UnsubscribeGameEvents removes a game subscription. Closes the channel.
func (b *Bus) UnsubscribeGameEvents(gameID shared.GameID, ch <-chan ports.GameEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := gameID.Value()
	channels := b.gameSubscribers[key]
	for i, c := range channels {
		if c == ch {
			close(c)
			channels[i] = channels[len(channels)-1]
			b.gameSubscribers[key] = channels[:len(channels)-1]
			break
		}
	}

	// Cleanup empty maps
	if len(b.gameSubscribers[key]) == 0 {
		delete(b.gameSubscribers, key)
	}
}

// SubscriberCount returns the number of game-event subscribers for one game.
// Useful for testing and monitoring.
func (b *Bus) SubscriberCount(gameID shared.GameID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.gameSubscribers[gameID.Value()])
}

// TotalSubscriberCount returns the total number of active subscriptions.
// Useful for monitoring.
func (b *Bus) TotalSubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	total := len(b.turnSubscribers) + len(b.reconnectSubscribers)
	for _, channels := range b.gameSubscribers {
		total += len(channels)
	}
	return total
}
