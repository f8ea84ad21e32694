package track

import (
	"time"

	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// BuildBudgetPerTurn caps track spending within a single turn
const BuildBudgetPerTurn shared.Money = 20

// PlayerState is one player's built track in one game: the segment list
// plus the running totals the budget rules depend on. It maps one to one
// onto a player_tracks row.
type PlayerState struct {
	gameID        shared.GameID
	playerID      shared.PlayerID
	segments      []Segment
	totalCost     shared.Money
	turnBuildCost shared.Money
	lastBuildAt   time.Time
}

// NewPlayerState creates an empty track state for a player
func NewPlayerState(gameID shared.GameID, playerID shared.PlayerID) *PlayerState {
	return &PlayerState{gameID: gameID, playerID: playerID}
}

// RestorePlayerState rebuilds state from persisted values
func RestorePlayerState(
	gameID shared.GameID,
	playerID shared.PlayerID,
	segments []Segment,
	totalCost shared.Money,
	turnBuildCost shared.Money,
	lastBuildAt time.Time,
) *PlayerState {
	copied := make([]Segment, len(segments))
	copy(copied, segments)
	return &PlayerState{
		gameID:        gameID,
		playerID:      playerID,
		segments:      copied,
		totalCost:     totalCost,
		turnBuildCost: turnBuildCost,
		lastBuildAt:   lastBuildAt,
	}
}

func (s *PlayerState) GameID() shared.GameID     { return s.gameID }
func (s *PlayerState) PlayerID() shared.PlayerID { return s.playerID }

// Segments returns a copy of the built segments in build order
func (s *PlayerState) Segments() []Segment {
	out := make([]Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

func (s *PlayerState) TotalCost() shared.Money     { return s.totalCost }
func (s *PlayerState) TurnBuildCost() shared.Money { return s.turnBuildCost }
func (s *PlayerState) LastBuildAt() time.Time      { return s.lastBuildAt }

// RemainingBudget returns what is left of this turn's build allowance
func (s *PlayerState) RemainingBudget() shared.Money {
	if s.turnBuildCost >= BuildBudgetPerTurn {
		return 0
	}
	return BuildBudgetPerTurn - s.turnBuildCost
}

// Network returns an adjacency view over the built segments
func (s *PlayerState) Network() *Network {
	return NewNetworkFromSegments(s.segments)
}

// AppendSegments adds new track, charging the per-turn budget. Segments the
// player already owns are rejected rather than silently skipped so a caller
// can tell its plan was stale. The whole batch is applied or none of it.
func (s *PlayerState) AppendSegments(segments []Segment, now time.Time) error {
	if len(segments) == 0 {
		return nil
	}
	owned := make(map[string]bool, len(s.segments))
	for _, existing := range s.segments {
		owned[existing.Key()] = true
	}
	var batchCost shared.Money
	for _, seg := range segments {
		key := seg.Key()
		if owned[key] {
			return shared.NewInvalidSegmentError("segment " + seg.String() + " is already built")
		}
		owned[key] = true
		batchCost += seg.Cost
	}
	if s.turnBuildCost+batchCost > BuildBudgetPerTurn {
		return shared.NewBuildBudgetExceededError(s.turnBuildCost, batchCost, BuildBudgetPerTurn)
	}
	s.segments = append(s.segments, segments...)
	s.totalCost += batchCost
	s.turnBuildCost += batchCost
	s.lastBuildAt = now
	return nil
}

// ChargeTurnBuild records spending against the turn budget without adding
// segments, used when an upgrade shares the budget pool with building.
func (s *PlayerState) ChargeTurnBuild(amount shared.Money, now time.Time) error {
	if s.turnBuildCost+amount > BuildBudgetPerTurn {
		return shared.NewBuildBudgetExceededError(s.turnBuildCost, amount, BuildBudgetPerTurn)
	}
	s.turnBuildCost += amount
	s.lastBuildAt = now
	return nil
}

// ResetTurnBuildCost clears the per-turn spend when the seat advances
func (s *PlayerState) ResetTurnBuildCost() {
	s.turnBuildCost = 0
}
