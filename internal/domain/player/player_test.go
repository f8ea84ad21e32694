package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
)

func newTestBot(t *testing.T) *Player {
	t.Helper()
	bot, err := NewBotPlayer(
		shared.MustNewPlayerID(1),
		shared.MustNewGameID("game-1"),
		"Bot Von Trapp",
		"red",
		BotConfig{Archetype: ArchetypeFreightOptimizer, Skill: SkillMedium},
		time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return bot
}

func TestNewBotPlayer_Defaults(t *testing.T) {
	bot := newTestBot(t)

	assert.True(t, bot.IsBot())
	assert.True(t, bot.UserID().IsZero())
	assert.Equal(t, StartingMoney, bot.Money())
	assert.Equal(t, shared.Money(0), bot.DebtOwed())
	assert.Equal(t, train.Freight, bot.TrainType())
	_, placed := bot.Position()
	assert.False(t, placed)

	cfg, ok := bot.BotConfig()
	require.True(t, ok)
	assert.Equal(t, ArchetypeFreightOptimizer, cfg.Archetype)
	assert.Equal(t, SkillMedium, cfg.Skill)
}

func TestNewBotPlayer_RejectsBadConfig(t *testing.T) {
	_, err := NewBotPlayer(
		shared.MustNewPlayerID(1),
		shared.MustNewGameID("game-1"),
		"Bot", "red",
		BotConfig{Archetype: "gambler", Skill: SkillEasy},
		time.Now(),
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown bot archetype")
}

func TestNewHumanPlayer_RequiresUser(t *testing.T) {
	_, err := NewHumanPlayer(
		shared.MustNewPlayerID(1),
		shared.MustNewGameID("game-1"),
		shared.UserID{},
		"Ada", "blue",
		time.Now(),
	)

	require.Error(t, err)
}

func TestPlayer_MovementConsumesAllowance(t *testing.T) {
	// Arrange
	bot := newTestBot(t)
	bot.PlaceAt(board.Coord{Row: 5, Col: 5})
	bot.BeginTurn()
	require.Equal(t, train.Freight.Speed(), bot.RemainingMovement())

	// Act: spend the whole allowance one milepost at a time
	for i := 0; i < train.Freight.Speed(); i++ {
		require.NoError(t, bot.MoveTo(board.Coord{Row: 5, Col: 5 + i + 1}))
	}

	// Assert
	assert.Equal(t, 0, bot.RemainingMovement())
	err := bot.MoveTo(board.Coord{Row: 5, Col: 99})
	require.Error(t, err)
	var exhausted *shared.MovementExhaustedError
	assert.ErrorAs(t, err, &exhausted)
}

func TestPlayer_MoveRequiresPlacement(t *testing.T) {
	bot := newTestBot(t)
	bot.BeginTurn()

	err := bot.MoveTo(board.Coord{Row: 1, Col: 1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not on the board")
}

func TestPlayer_PickupLoadEnforcesCapacity(t *testing.T) {
	bot := newTestBot(t)
	require.NoError(t, bot.PickupLoad(loads.Coal))
	require.NoError(t, bot.PickupLoad(loads.Wine))

	// Freight capacity is 2
	err := bot.PickupLoad(loads.Cheese)

	require.Error(t, err)
	var capErr *shared.CapacityExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 2, capErr.Capacity)
}

func TestPlayer_RemoveLoad(t *testing.T) {
	bot := newTestBot(t)
	require.NoError(t, bot.PickupLoad(loads.Coal))

	require.NoError(t, bot.RemoveLoad(loads.Coal))
	assert.Empty(t, bot.Loads())

	err := bot.RemoveLoad(loads.Coal)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not carrying")
}

func TestPlayer_ApplyPaymentWithoutDebt(t *testing.T) {
	bot := newTestBot(t)

	repaid, credited := bot.ApplyPayment(15)

	assert.Equal(t, shared.Money(0), repaid)
	assert.Equal(t, shared.Money(15), credited)
	assert.Equal(t, shared.Money(65), bot.Money())
}

func TestPlayer_ApplyPaymentRepaysDebtFirst(t *testing.T) {
	// Arrange: a bot carrying 10M of debt
	bot := RestorePlayer(
		shared.MustNewPlayerID(1), shared.MustNewGameID("game-1"), shared.UserID{},
		true, &BotConfig{Archetype: ArchetypeOpportunist, Skill: SkillHard},
		"Bot", "red",
		20, 10,
		train.Freight, nil, nil, []int{1, 2, 3}, 0, false, time.Now(),
	)

	// Act: a 15M payment covers the debt, the remaining 5M is cash
	repaid, credited := bot.ApplyPayment(15)

	// Assert
	assert.Equal(t, shared.Money(10), repaid)
	assert.Equal(t, shared.Money(5), credited)
	assert.Equal(t, shared.Money(0), bot.DebtOwed())
	assert.Equal(t, shared.Money(25), bot.Money())
}

func TestPlayer_ApplyPaymentSwallowedByDebt(t *testing.T) {
	bot := RestorePlayer(
		shared.MustNewPlayerID(1), shared.MustNewGameID("game-1"), shared.UserID{},
		true, &BotConfig{Archetype: ArchetypeOpportunist, Skill: SkillHard},
		"Bot", "red",
		20, 40,
		train.Freight, nil, nil, []int{1, 2, 3}, 0, false, time.Now(),
	)

	repaid, credited := bot.ApplyPayment(15)

	assert.Equal(t, shared.Money(15), repaid)
	assert.Equal(t, shared.Money(0), credited)
	assert.Equal(t, shared.Money(25), bot.DebtOwed())
	assert.Equal(t, shared.Money(20), bot.Money())
}

func TestPlayer_DebitRejectsOverdraft(t *testing.T) {
	bot := newTestBot(t)

	err := bot.Debit(60)

	require.Error(t, err)
	var fundsErr *shared.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, StartingMoney, bot.Money())
}

func TestPlayer_DiscardAndDrawKeepsHandSize(t *testing.T) {
	bot := newTestBot(t)
	require.NoError(t, bot.DealHand([]int{10, 20, 30}))

	require.NoError(t, bot.DiscardAndDraw(20, 44))

	hand := bot.Hand()
	assert.Len(t, hand, HandSize)
	assert.Contains(t, hand, 44)
	assert.NotContains(t, hand, 20)
}

func TestPlayer_DiscardUnheldCard(t *testing.T) {
	bot := newTestBot(t)
	require.NoError(t, bot.DealHand([]int{10, 20, 30}))

	err := bot.DiscardAndDraw(99, 44)

	require.Error(t, err)
	var cardErr *shared.CardNotInHandError
	require.ErrorAs(t, err, &cardErr)
	assert.Equal(t, 99, cardErr.CardID)
}

func TestPlayer_DealHandRequiresExactSize(t *testing.T) {
	bot := newTestBot(t)

	err := bot.DealHand([]int{10, 20})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly 3 cards")
}

func TestPlayer_SetTrainTypeChecksCapacity(t *testing.T) {
	// Arrange: HeavyFreight carrying 3 loads
	bot := newTestBot(t)
	require.NoError(t, bot.SetTrainType(train.HeavyFreight))
	require.NoError(t, bot.PickupLoad(loads.Coal))
	require.NoError(t, bot.PickupLoad(loads.Wine))
	require.NoError(t, bot.PickupLoad(loads.Cheese))

	// Act: crossgrading to FastFreight (capacity 2) is impossible while full
	err := bot.SetTrainType(train.FastFreight)

	// Assert
	require.Error(t, err)
	assert.Equal(t, train.HeavyFreight, bot.TrainType())
}

func TestPlayer_BeginTurnUsesTrainSpeed(t *testing.T) {
	bot := newTestBot(t)
	require.NoError(t, bot.SetTrainType(train.FastFreight))

	bot.BeginTurn()

	assert.Equal(t, 12, bot.RemainingMovement())
}
