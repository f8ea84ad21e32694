package game

import (
	"fmt"
	"time"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// VictoryThreshold is the cash that wins the game, in millions
const VictoryThreshold shared.Money = 250

// Game is one game room. It maps one to one onto a games row and tracks
// whose turn it is, the lifecycle status, and loads dropped on the map.
type Game struct {
	id                 shared.GameID
	status             Status
	currentPlayerIndex int
	maxPlayers         int
	winnerID           *shared.PlayerID

	// Loads sitting at mileposts after a player dropped them
	droppedLoads map[board.Coord][]loads.LoadType

	createdAt time.Time
	updatedAt time.Time
}

// NewGame creates a fresh room in setup
func NewGame(id shared.GameID, maxPlayers int, createdAt time.Time) (*Game, error) {
	if maxPlayers < 2 {
		return nil, fmt.Errorf("game needs at least 2 seats, got %d", maxPlayers)
	}
	return &Game{
		id:           id,
		status:       StatusSetup,
		maxPlayers:   maxPlayers,
		droppedLoads: make(map[board.Coord][]loads.LoadType),
		createdAt:    createdAt,
		updatedAt:    createdAt,
	}, nil
}

// RestoreGame rebuilds a game from persisted values
func RestoreGame(
	id shared.GameID,
	status Status,
	currentPlayerIndex int,
	maxPlayers int,
	winnerID *shared.PlayerID,
	droppedLoads map[board.Coord][]loads.LoadType,
	createdAt, updatedAt time.Time,
) *Game {
	dropped := make(map[board.Coord][]loads.LoadType, len(droppedLoads))
	for coord, ls := range droppedLoads {
		copied := make([]loads.LoadType, len(ls))
		copy(copied, ls)
		dropped[coord] = copied
	}
	var winner *shared.PlayerID
	if winnerID != nil {
		w := *winnerID
		winner = &w
	}
	return &Game{
		id:                 id,
		status:             status,
		currentPlayerIndex: currentPlayerIndex,
		maxPlayers:         maxPlayers,
		winnerID:           winner,
		droppedLoads:       dropped,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// Getters

func (g *Game) ID() shared.GameID       { return g.id }
func (g *Game) Status() Status          { return g.status }
func (g *Game) CurrentPlayerIndex() int { return g.currentPlayerIndex }
func (g *Game) MaxPlayers() int         { return g.maxPlayers }
func (g *Game) CreatedAt() time.Time    { return g.createdAt }
func (g *Game) UpdatedAt() time.Time    { return g.updatedAt }

// Winner returns the winning seat, ok=false while the game is undecided
func (g *Game) Winner() (shared.PlayerID, bool) {
	if g.winnerID == nil {
		return shared.PlayerID{}, false
	}
	return *g.winnerID, true
}

// IsActive reports whether the game is in regular play
func (g *Game) IsActive() bool {
	return g.status == StatusActive
}

// IsPlayable reports whether turns happen at all, covering both the
// initial build phase and regular play
func (g *Game) IsPlayable() bool {
	return g.status.IsPlayable()
}

// State transitions

// Start moves the room from setup into the initial build phase
func (g *Game) Start(now time.Time) error {
	if !g.status.CanTransitionTo(StatusInitialBuild) {
		return fmt.Errorf("cannot start game in %s state", g.status)
	}
	g.status = StatusInitialBuild
	g.updatedAt = now
	return nil
}

// EnterActivePlay moves the room from initial build into regular turns
func (g *Game) EnterActivePlay(now time.Time) error {
	if !g.status.CanTransitionTo(StatusActive) {
		return fmt.Errorf("cannot enter active play in %s state", g.status)
	}
	g.status = StatusActive
	g.updatedAt = now
	return nil
}

// Complete ends the game with a winner
func (g *Game) Complete(winnerID shared.PlayerID, now time.Time) error {
	if !g.status.CanTransitionTo(StatusCompleted) {
		return fmt.Errorf("cannot complete game in %s state", g.status)
	}
	g.status = StatusCompleted
	w := winnerID
	g.winnerID = &w
	g.updatedAt = now
	return nil
}

// Abandon closes the room without a winner
func (g *Game) Abandon(now time.Time) error {
	if !g.status.CanTransitionTo(StatusAbandoned) {
		return fmt.Errorf("cannot abandon game in %s state", g.status)
	}
	g.status = StatusAbandoned
	g.updatedAt = now
	return nil
}

// Seats

// SetCurrentSeat moves the turn marker. The index must fall inside the
// seat range; callers compute wraparound against the actual player count.
func (g *Game) SetCurrentSeat(index int, now time.Time) error {
	if index < 0 || index >= g.maxPlayers {
		return fmt.Errorf("seat index %d out of range [0,%d)", index, g.maxPlayers)
	}
	g.currentPlayerIndex = index
	g.updatedAt = now
	return nil
}

// Dropped loads

// DropLoad leaves a load at a milepost for anyone to pick up later
func (g *Game) DropLoad(at board.Coord, load loads.LoadType) {
	g.droppedLoads[at] = append(g.droppedLoads[at], load)
}

// TakeDroppedLoad removes one unit of the load from the milepost
func (g *Game) TakeDroppedLoad(at board.Coord, load loads.LoadType) error {
	ls := g.droppedLoads[at]
	for i, l := range ls {
		if l == load {
			ls = append(ls[:i], ls[i+1:]...)
			if len(ls) == 0 {
				delete(g.droppedLoads, at)
			} else {
				g.droppedLoads[at] = ls
			}
			return nil
		}
	}
	return fmt.Errorf("no %s dropped at %s", load, at)
}

// DroppedLoadsAt returns a copy of the loads sitting at a milepost
func (g *Game) DroppedLoadsAt(at board.Coord) []loads.LoadType {
	ls := g.droppedLoads[at]
	out := make([]loads.LoadType, len(ls))
	copy(out, ls)
	return out
}

// DroppedLoads returns a copy of the whole dropped-load map
func (g *Game) DroppedLoads() map[board.Coord][]loads.LoadType {
	out := make(map[board.Coord][]loads.LoadType, len(g.droppedLoads))
	for coord, ls := range g.droppedLoads {
		copied := make([]loads.LoadType, len(ls))
		copy(copied, ls)
		out[coord] = copied
	}
	return out
}

// String provides a compact representation for logs
func (g *Game) String() string {
	return fmt.Sprintf("Game[%s, %s, seat=%d/%d]", g.id, g.status, g.currentPlayerIndex, g.maxPlayers)
}
