package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/test/helpers"
)

func TestTrackRepository_SaveAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTrackRepository(db)
	topo := helpers.TestTopology(t)

	state := helpers.TrackState(t, topo, "game-1", 1,
		[2]board.Coord{{Row: 1, Col: 1}, {Row: 2, Col: 1}},
		[2]board.Coord{{Row: 2, Col: 1}, {Row: 2, Col: 2}},
	)
	require.NoError(t, state.ChargeTurnBuild(2, helpers.FixtureTime))

	// Act - Save
	err := repo.Save(context.Background(), state)

	// Assert
	require.NoError(t, err)

	// Act - FindByPlayer
	found, err := repo.FindByPlayer(context.Background(), shared.MustNewGameID("game-1"), shared.MustNewPlayerID(1))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, state.TotalCost(), found.TotalCost())
	assert.Equal(t, shared.Money(2), found.TurnBuildCost())
	require.Len(t, found.Segments(), 2)
	assert.Equal(t, state.Segments()[0].Key(), found.Segments()[0].Key())
	assert.Equal(t, state.Segments()[1].Key(), found.Segments()[1].Key())
}

func TestTrackRepository_FindByGame(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTrackRepository(db)
	topo := helpers.TestTopology(t)

	// Save in reverse seat order; reads come back sorted by player id
	second := helpers.TrackState(t, topo, "game-1", 2,
		[2]board.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}})
	first := helpers.TrackState(t, topo, "game-1", 1,
		[2]board.Coord{{Row: 1, Col: 1}, {Row: 2, Col: 1}})
	require.NoError(t, repo.Save(context.Background(), second))
	require.NoError(t, repo.Save(context.Background(), first))

	// Act
	states, err := repo.FindByGame(context.Background(), shared.MustNewGameID("game-1"))

	// Assert
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, 1, states[0].PlayerID().Value())
	assert.Equal(t, 2, states[1].PlayerID().Value())
}

func TestTrackRepository_SaveUpdatesExistingRow(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTrackRepository(db)
	topo := helpers.TestTopology(t)

	state := helpers.TrackState(t, topo, "game-1", 1,
		[2]board.Coord{{Row: 1, Col: 1}, {Row: 2, Col: 1}})
	require.NoError(t, repo.Save(context.Background(), state))

	// Extend the network and save again
	extension := helpers.TrackState(t, topo, "game-1", 1,
		[2]board.Coord{{Row: 2, Col: 1}, {Row: 2, Col: 2}})
	require.NoError(t, state.AppendSegments(extension.Segments(), helpers.FixtureTime))

	// Act
	err := repo.Save(context.Background(), state)
	require.NoError(t, err)

	found, err := repo.FindByPlayer(context.Background(), state.GameID(), state.PlayerID())
	require.NoError(t, err)

	// Assert
	assert.Len(t, found.Segments(), 2)

	var count int64
	require.NoError(t, db.Table("player_tracks").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTrackRepository_NotFound(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTrackRepository(db)

	// Act
	_, err := repo.FindByPlayer(context.Background(), shared.MustNewGameID("game-1"), shared.MustNewPlayerID(42))

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
