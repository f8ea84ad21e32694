package helpers

import (
	"sync"

	"github.com/andrescamacho/railbot-go/internal/application/ports"
)

// RecordingEventPublisher is a test double for the EventPublisher port that
// keeps every published event for assertions.
type RecordingEventPublisher struct {
	mu          sync.Mutex
	turnChanges []ports.TurnChangedEvent
	reconnects  []ports.PlayerReconnectedEvent
	gameEvents  []ports.GameEvent
}

// NewRecordingEventPublisher creates a new recording publisher
func NewRecordingEventPublisher() *RecordingEventPublisher {
	return &RecordingEventPublisher{}
}

// PublishTurnChanged records a seat change
func (r *RecordingEventPublisher) PublishTurnChanged(event ports.TurnChangedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turnChanges = append(r.turnChanges, event)
}

// PublishPlayerReconnected records a reconnect
func (r *RecordingEventPublisher) PublishPlayerReconnected(event ports.PlayerReconnectedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reconnects = append(r.reconnects, event)
}

// PublishGameEvent records a downstream game event
func (r *RecordingEventPublisher) PublishGameEvent(event ports.GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gameEvents = append(r.gameEvents, event)
}

// TurnChanges returns the recorded seat changes in publish order
func (r *RecordingEventPublisher) TurnChanges() []ports.TurnChangedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ports.TurnChangedEvent{}, r.turnChanges...)
}

// GameEvents returns the recorded game events in publish order
func (r *RecordingEventPublisher) GameEvents() []ports.GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ports.GameEvent{}, r.gameEvents...)
}

// GameEventsNamed returns the recorded game events carrying the wire name
func (r *RecordingEventPublisher) GameEventsNamed(name string) []ports.GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ports.GameEvent
	for _, e := range r.gameEvents {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}

// Ensure RecordingEventPublisher implements the ports.EventPublisher interface
var _ ports.EventPublisher = (*RecordingEventPublisher)(nil)
