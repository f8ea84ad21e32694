package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
	"github.com/andrescamacho/railbot-go/test/helpers"
)

func TestPlayerRepository_SaveAndFindBot(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormPlayerRepository(db)

	pos := board.Coord{Row: 1, Col: 1}
	bot := helpers.RestoredSeat(t, "game-1", helpers.SeatSpec{
		ID:    1,
		Name:  "Ada",
		Color: "red",
		Bot:   &player.BotConfig{Archetype: player.ArchetypeFreightOptimizer, Skill: player.SkillHard},
		Money: 47,
		Debt:  3,
		Train: train.HeavyFreight,
		Position: &pos,
		Loads:    []loads.LoadType{loads.Coal, loads.Wine},
		Hand:     []int{7, 8, 9},
		Turn:     5,
	})

	// Act - Save
	err := repo.Save(context.Background(), bot)

	// Assert
	require.NoError(t, err)

	// Act - FindByID
	found, err := repo.FindByID(context.Background(), shared.MustNewGameID("game-1"), shared.MustNewPlayerID(1))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Ada", found.Name())
	assert.Equal(t, shared.Money(47), found.Money())
	assert.Equal(t, shared.Money(3), found.DebtOwed())
	assert.Equal(t, train.HeavyFreight, found.TrainType())
	assert.True(t, found.IsBot())

	cfg, ok := found.BotConfig()
	require.True(t, ok)
	assert.Equal(t, player.ArchetypeFreightOptimizer, cfg.Archetype)
	assert.Equal(t, player.SkillHard, cfg.Skill)

	gotPos, ok := found.Position()
	require.True(t, ok)
	assert.Equal(t, pos, gotPos)

	assert.Equal(t, []loads.LoadType{loads.Coal, loads.Wine}, found.Loads())
	assert.Equal(t, []int{7, 8, 9}, found.Hand())
	assert.Equal(t, 5, found.TurnNumber())
}

func TestPlayerRepository_FindByGameOrdersBySeat(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormPlayerRepository(db)

	// Save out of seat order; created_at decides the seat order
	for _, spec := range []helpers.SeatSpec{
		{ID: 3, Name: "Carol", CreatedAt: helpers.FixtureTime.Add(3 * time.Second)},
		{ID: 1, Name: "Alice", CreatedAt: helpers.FixtureTime.Add(1 * time.Second)},
		{ID: 2, Name: "Bob", CreatedAt: helpers.FixtureTime.Add(2 * time.Second)},
	} {
		require.NoError(t, repo.Save(context.Background(), helpers.RestoredSeat(t, "game-1", spec)))
	}

	// Act
	players, err := repo.FindByGame(context.Background(), shared.MustNewGameID("game-1"))

	// Assert
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, "Alice", players[0].Name())
	assert.Equal(t, "Bob", players[1].Name())
	assert.Equal(t, "Carol", players[2].Name())
}

func TestPlayerRepository_FindByUser(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormPlayerRepository(db)

	human := helpers.RestoredSeat(t, "game-1", helpers.SeatSpec{
		ID:     4,
		Name:   "Dave",
		UserID: "user-77",
		Online: true,
	})
	require.NoError(t, repo.Save(context.Background(), human))

	// Act
	found, err := repo.FindByUser(context.Background(), shared.MustNewGameID("game-1"), shared.MustNewUserID("user-77"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Dave", found.Name())
	assert.False(t, found.IsBot())
	assert.True(t, found.IsOnline())
}

func TestPlayerRepository_RejectsDuplicateColorWithinGame(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormPlayerRepository(db)

	require.NoError(t, repo.Save(context.Background(),
		helpers.RestoredSeat(t, "game-1", helpers.SeatSpec{ID: 1, Name: "Alice", Color: "#FF0000"})))

	// Act - second seat in the same game claims the same colour
	err := repo.Save(context.Background(),
		helpers.RestoredSeat(t, "game-1", helpers.SeatSpec{ID: 2, Name: "Bob", Color: "#FF0000"}))

	// Assert
	assert.Error(t, err)

	// The colour is free in another game, and unassigned seats never clash
	require.NoError(t, repo.Save(context.Background(),
		helpers.RestoredSeat(t, "game-2", helpers.SeatSpec{ID: 3, Name: "Carol", Color: "#FF0000"})))
	require.NoError(t, repo.Save(context.Background(),
		helpers.RestoredSeat(t, "game-1", helpers.SeatSpec{ID: 4, Name: "Dave"})))
	require.NoError(t, repo.Save(context.Background(),
		helpers.RestoredSeat(t, "game-1", helpers.SeatSpec{ID: 5, Name: "Erin"})))
}

func TestPlayerRepository_NotFound(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormPlayerRepository(db)

	// Act
	_, err := repo.FindByID(context.Background(), shared.MustNewGameID("game-1"), shared.MustNewPlayerID(999))

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
