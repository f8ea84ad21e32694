package loads_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/domain/loads"
)

func testConfigs() []loads.Config {
	return []loads.Config{
		{Type: loads.Coal, Total: 4, Cities: []string{"Essen", "Cardiff"}},
		{Type: loads.Wine, Total: 3, Cities: []string{"Bordeaux"}},
		{Type: loads.Fish, Total: 2, Cities: []string{"Bergen"}},
	}
}

func TestRegistry_ProducesAt(t *testing.T) {
	// Arrange
	reg, err := loads.NewRegistry(testConfigs())
	require.NoError(t, err)

	// Act & Assert
	assert.True(t, reg.ProducesAt(loads.Coal, "Essen"))
	assert.True(t, reg.ProducesAt(loads.Coal, "Cardiff"))
	assert.False(t, reg.ProducesAt(loads.Coal, "Bordeaux"))
	assert.False(t, reg.ProducesAt(loads.Wine, "Essen"))
}

func TestRegistry_AvailabilitySubtractsCarriedTokens(t *testing.T) {
	// Arrange
	reg, err := loads.NewRegistry(testConfigs())
	require.NoError(t, err)

	// Two coal tokens and one wine token are on trains somewhere
	carried := []loads.LoadType{loads.Coal, loads.Coal, loads.Wine}

	// Act
	available := reg.Availability(carried)

	// Assert - carried + available always equals total
	assert.Equal(t, 2, available[loads.Coal])
	assert.Equal(t, 2, available[loads.Wine])
	assert.Equal(t, 2, available[loads.Fish])
}

func TestRegistry_AvailabilityNeverNegative(t *testing.T) {
	reg, err := loads.NewRegistry(testConfigs())
	require.NoError(t, err)

	// More fish reported on trains than exist (inconsistent input clamps to 0)
	carried := []loads.LoadType{loads.Fish, loads.Fish, loads.Fish}

	available := reg.Availability(carried)

	assert.Equal(t, 0, available[loads.Fish])
}

func TestRegistry_RejectsUnknownLoadType(t *testing.T) {
	_, err := loads.NewRegistry([]loads.Config{
		{Type: loads.LoadType("Plutonium"), Total: 2, Cities: []string{"Lyon"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown load type")
}

func TestParseLoadType(t *testing.T) {
	parsed, err := loads.ParseLoadType("Cork")
	require.NoError(t, err)
	assert.Equal(t, loads.Cork, parsed)

	_, err = loads.ParseLoadType("cork")
	assert.Error(t, err)
}
