package train

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

func TestType_CapacityAndSpeed(t *testing.T) {
	tests := []struct {
		trainType Type
		capacity  int
		speed     int
	}{
		{Freight, 2, 9},
		{FastFreight, 2, 12},
		{HeavyFreight, 3, 9},
		{Superfreight, 3, 12},
	}

	for _, tt := range tests {
		t.Run(string(tt.trainType), func(t *testing.T) {
			assert.Equal(t, tt.capacity, tt.trainType.Capacity())
			assert.Equal(t, tt.speed, tt.trainType.Speed())
		})
	}
}

func TestType_UpgradeGraph(t *testing.T) {
	// Freight upgrades to either mid-tier model for 20M
	opts := Freight.UpgradeOptions()
	require.Len(t, opts, 2)
	for _, opt := range opts {
		assert.Equal(t, KindUpgrade, opt.Kind)
		assert.Equal(t, shared.Money(20), opt.Cost)
	}

	// FastFreight can upgrade to Superfreight or crossgrade to HeavyFreight
	fast, err := FastFreight.UpgradeTo(Superfreight)
	require.NoError(t, err)
	assert.Equal(t, KindUpgrade, fast.Kind)
	assert.Equal(t, shared.Money(20), fast.Cost)

	cross, err := FastFreight.UpgradeTo(HeavyFreight)
	require.NoError(t, err)
	assert.Equal(t, KindCrossgrade, cross.Kind)
	assert.Equal(t, shared.Money(5), cross.Cost)

	// Crossgrade works the other way too
	back, err := HeavyFreight.UpgradeTo(FastFreight)
	require.NoError(t, err)
	assert.Equal(t, KindCrossgrade, back.Kind)
}

func TestType_SuperfreightIsTerminal(t *testing.T) {
	assert.Empty(t, Superfreight.UpgradeOptions())

	_, err := Superfreight.UpgradeTo(Freight)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no upgrade path")
}

func TestType_NoDowngrades(t *testing.T) {
	_, err := FastFreight.UpgradeTo(Freight)
	require.Error(t, err)

	_, err = HeavyFreight.UpgradeTo(Freight)
	require.Error(t, err)
}

func TestParseType(t *testing.T) {
	parsed, err := ParseType("fastFreight")
	require.NoError(t, err)
	assert.Equal(t, FastFreight, parsed)

	_, err = ParseType("maglev")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown train type")
}
