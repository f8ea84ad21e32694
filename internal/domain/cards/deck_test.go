package cards

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/domain/loads"
)

func testCard(t *testing.T, id int) DemandCard {
	t.Helper()
	card, err := NewDemandCard(id, [DemandsPerCard]Demand{
		{City: "Paris", Load: loads.Wine, Payment: 15},
		{City: "Berlin", Load: loads.Coal, Payment: 12},
		{City: "Madrid", Load: loads.Oranges, Payment: 20},
	})
	require.NoError(t, err)
	return card
}

func TestNewDemandCard_RejectsUnknownLoad(t *testing.T) {
	// Act
	_, err := NewDemandCard(1, [DemandsPerCard]Demand{
		{City: "Paris", Load: loads.LoadType("Plutonium"), Payment: 15},
		{City: "Berlin", Load: loads.Coal, Payment: 12},
		{City: "Madrid", Load: loads.Oranges, Payment: 20},
	})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown load")
}

func TestNewDemandCard_RejectsNonPositivePayment(t *testing.T) {
	_, err := NewDemandCard(1, [DemandsPerCard]Demand{
		{City: "Paris", Load: loads.Wine, Payment: 0},
		{City: "Berlin", Load: loads.Coal, Payment: 12},
		{City: "Madrid", Load: loads.Oranges, Payment: 20},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-positive payment")
}

func TestNewDeck_RejectsDuplicateIDs(t *testing.T) {
	// Arrange
	a := testCard(t, 7)
	b := testCard(t, 7)

	// Act
	_, err := NewDeck([]DemandCard{a, b})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate demand card id 7")
}

func TestDeck_CardLookup(t *testing.T) {
	deck, err := NewDeck([]DemandCard{testCard(t, 1), testCard(t, 2), testCard(t, 3)})
	require.NoError(t, err)

	card, err := deck.Card(2)
	require.NoError(t, err)
	assert.Equal(t, 2, card.ID)

	_, err = deck.Card(99)
	require.Error(t, err)

	assert.Equal(t, 3, deck.Size())
	assert.Equal(t, []int{1, 2, 3}, deck.IDs())
}

func TestDeck_DrawExcluding_NeverDealsHeldCard(t *testing.T) {
	// Arrange
	deck, err := NewDeck([]DemandCard{testCard(t, 1), testCard(t, 2), testCard(t, 3), testCard(t, 4)})
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(42))
	held := map[int]bool{1: true, 3: true}

	// Act & Assert: over many draws the excluded ids never appear
	for i := 0; i < 100; i++ {
		card, err := deck.DrawExcluding(rng, held)
		require.NoError(t, err)
		assert.NotContains(t, []int{1, 3}, card.ID)
	}
}

func TestDeck_DrawExcluding_ExhaustedDeck(t *testing.T) {
	deck, err := NewDeck([]DemandCard{testCard(t, 1)})
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))

	_, err = deck.DrawExcluding(rng, map[int]bool{1: true})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no demand cards available")
}

func TestDeck_DrawExcluding_Deterministic(t *testing.T) {
	deck, err := NewDeck([]DemandCard{testCard(t, 1), testCard(t, 2), testCard(t, 3)})
	require.NoError(t, err)

	first, err := deck.DrawExcluding(rand.New(rand.NewSource(99)), nil)
	require.NoError(t, err)
	second, err := deck.DrawExcluding(rand.New(rand.NewSource(99)), nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}
