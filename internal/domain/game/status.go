package game

import "fmt"

// Status represents the state of a game in its lifecycle
type Status string

const (
	// StatusSetup indicates the room exists but play has not begun
	StatusSetup Status = "setup"

	// StatusInitialBuild indicates players are laying their opening track
	// before trains are placed
	StatusInitialBuild Status = "initialBuild"

	// StatusActive indicates turns are being played
	StatusActive Status = "active"

	// StatusCompleted indicates a player reached the victory condition
	StatusCompleted Status = "completed"

	// StatusAbandoned indicates the room was closed before anyone won
	StatusAbandoned Status = "abandoned"
)

// validTransitions encodes the legal lifecycle paths. Completed and
// abandoned are terminal.
var validTransitions = map[Status][]Status{
	StatusSetup:        {StatusInitialBuild, StatusAbandoned},
	StatusInitialBuild: {StatusActive, StatusAbandoned},
	StatusActive:       {StatusCompleted, StatusAbandoned},
	StatusCompleted:    {},
	StatusAbandoned:    {},
}

// ParseStatus converts a stored string into a Status
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := validTransitions[status]; !ok {
		return "", fmt.Errorf("unknown game status: %q", s)
	}
	return status, nil
}

// CanTransitionTo reports whether the move from s to next is legal
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// IsPlayable reports whether turns happen in this state. Bot turns fire
// in both the initial build phase and regular play.
func (s Status) IsPlayable() bool {
	return s == StatusInitialBuild || s == StatusActive
}

func (s Status) String() string {
	return string(s)
}
