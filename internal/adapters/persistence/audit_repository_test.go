package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/domain/planning"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
	"github.com/andrescamacho/railbot-go/test/helpers"
)

func strategyAuditFixture(turn int) planning.StrategyAudit {
	return planning.StrategyAudit{
		TurnNumber:   turn,
		Archetype:    player.ArchetypeOpportunist,
		Skill:        player.SkillMedium,
		SnapshotHash: "abc123",
		SelectedPlan: planning.PlanRecord{
			ExpectedCashChange: 15,
			Rationale:          "deliver coal to Paris",
		},
		ExecutionResult: planning.ExecutionRecord{Success: true, ActionsExecuted: 1},
		BotStatus: planning.BotStatus{
			Money:     62,
			TrainType: train.Freight,
		},
		DurationMs: 38,
	}
}

func TestAuditRepository_RecordAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(helpers.FixtureTime)
	sink := persistence.NewGormAuditRepository(db, clock)

	gameID := shared.MustNewGameID("game-1")
	botID := shared.MustNewPlayerID(2)

	for turn := 1; turn <= 3; turn++ {
		require.NoError(t, sink.Record(context.Background(), gameID, botID, strategyAuditFixture(turn)))
	}

	// Act - newest first, capped by limit
	audits, err := sink.FindByGame(context.Background(), gameID, 2)

	// Assert
	require.NoError(t, err)
	require.Len(t, audits, 2)
	assert.Equal(t, 3, audits[0].TurnNumber)
	assert.Equal(t, 2, audits[1].TurnNumber)

	got := audits[0]
	assert.Equal(t, gameID, got.GameID)
	assert.Equal(t, botID, got.PlayerID)
	assert.Equal(t, player.ArchetypeOpportunist, got.Strategy.Archetype)
	assert.Equal(t, "deliver coal to Paris", got.Strategy.SelectedPlan.Rationale)
	assert.True(t, got.Strategy.ExecutionResult.Success)
	assert.True(t, got.CreatedAt.Equal(helpers.FixtureTime), "created_at should come from the injected clock")
}

func TestAuditRepository_FindByGameUnlimited(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	sink := persistence.NewGormAuditRepository(db, shared.NewMockClock(helpers.FixtureTime))

	gameID := shared.MustNewGameID("game-2")
	for turn := 1; turn <= 5; turn++ {
		require.NoError(t, sink.Record(context.Background(), gameID, shared.MustNewPlayerID(1), strategyAuditFixture(turn)))
	}

	// Act
	audits, err := sink.FindByGame(context.Background(), gameID, 0)

	// Assert
	require.NoError(t, err)
	assert.Len(t, audits, 5)
}

func TestAuditRepository_FindByGameEmpty(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	sink := persistence.NewGormAuditRepository(db, shared.NewMockClock(helpers.FixtureTime))

	// Act
	audits, err := sink.FindByGame(context.Background(), shared.MustNewGameID("no-such-game"), 10)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, audits)
}
