package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

func newActiveGame(t *testing.T) *Game {
	t.Helper()
	g, err := NewGame(shared.MustNewGameID("game-1"), 4, time.Now())
	require.NoError(t, err)
	require.NoError(t, g.Start(time.Now()))
	require.NoError(t, g.EnterActivePlay(time.Now()))
	return g
}

func TestNewGame_StartsInSetup(t *testing.T) {
	g, err := NewGame(shared.MustNewGameID("game-1"), 4, time.Now())
	require.NoError(t, err)

	assert.Equal(t, StatusSetup, g.Status())
	assert.False(t, g.IsActive())
	assert.False(t, g.IsPlayable())
	_, hasWinner := g.Winner()
	assert.False(t, hasWinner)
}

func TestGame_InitialBuildPhaseIsPlayable(t *testing.T) {
	g, err := NewGame(shared.MustNewGameID("game-1"), 4, time.Now())
	require.NoError(t, err)
	require.NoError(t, g.Start(time.Now()))

	assert.Equal(t, StatusInitialBuild, g.Status())
	assert.False(t, g.IsActive())
	assert.True(t, g.IsPlayable())

	// Cannot complete out of the build phase
	assert.Error(t, g.Complete(shared.MustNewPlayerID(1), time.Now()))
}

func TestNewGame_RejectsTooFewSeats(t *testing.T) {
	_, err := NewGame(shared.MustNewGameID("game-1"), 1, time.Now())
	require.Error(t, err)
}

func TestGame_LifecycleTransitions(t *testing.T) {
	g := newActiveGame(t)
	winner := shared.MustNewPlayerID(2)

	require.NoError(t, g.Complete(winner, time.Now()))

	assert.Equal(t, StatusCompleted, g.Status())
	got, ok := g.Winner()
	require.True(t, ok)
	assert.True(t, got.Equals(winner))

	// Completed is terminal
	assert.Error(t, g.Start(time.Now()))
	assert.Error(t, g.Abandon(time.Now()))
}

func TestGame_CannotCompleteBeforeStart(t *testing.T) {
	g, err := NewGame(shared.MustNewGameID("game-1"), 4, time.Now())
	require.NoError(t, err)

	err = g.Complete(shared.MustNewPlayerID(1), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot complete game in setup state")
}

func TestParseStatus_AllLifecycleStates(t *testing.T) {
	for _, s := range []string{"setup", "initialBuild", "active", "completed", "abandoned"} {
		parsed, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), parsed)
	}
}

func TestGame_SetCurrentSeatRangeCheck(t *testing.T) {
	g := newActiveGame(t)

	require.NoError(t, g.SetCurrentSeat(3, time.Now()))
	assert.Equal(t, 3, g.CurrentPlayerIndex())

	assert.Error(t, g.SetCurrentSeat(4, time.Now()))
	assert.Error(t, g.SetCurrentSeat(-1, time.Now()))
	assert.Equal(t, 3, g.CurrentPlayerIndex())
}

func TestGame_DroppedLoads(t *testing.T) {
	g := newActiveGame(t)
	at := board.Coord{Row: 10, Col: 12}

	g.DropLoad(at, loads.Coal)
	g.DropLoad(at, loads.Coal)
	g.DropLoad(at, loads.Wine)

	assert.ElementsMatch(t, []loads.LoadType{loads.Coal, loads.Coal, loads.Wine}, g.DroppedLoadsAt(at))

	require.NoError(t, g.TakeDroppedLoad(at, loads.Coal))
	assert.ElementsMatch(t, []loads.LoadType{loads.Coal, loads.Wine}, g.DroppedLoadsAt(at))

	err := g.TakeDroppedLoad(at, loads.Fish)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Fish dropped")
}

func TestGame_DroppedLoadsCopyIsolation(t *testing.T) {
	g := newActiveGame(t)
	at := board.Coord{Row: 1, Col: 1}
	g.DropLoad(at, loads.Coal)

	snapshot := g.DroppedLoads()
	snapshot[at][0] = loads.Wine

	assert.Equal(t, []loads.LoadType{loads.Coal}, g.DroppedLoadsAt(at))
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("active")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, status)

	_, err = ParseStatus("paused")
	require.Error(t, err)
}
