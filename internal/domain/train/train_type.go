package train

import (
	"fmt"

	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// Type is one of the four train models a player can run
type Type string

const (
	Freight      Type = "freight"
	FastFreight  Type = "fastFreight"
	HeavyFreight Type = "heavyFreight"
	Superfreight Type = "superfreight"
)

// Upgrade costs in millions. A full upgrade buys a better train, a
// crossgrade swaps between the two mid-tier models.
const (
	UpgradeCost    shared.Money = 20
	CrossgradeCost shared.Money = 5
)

// UpgradeKind distinguishes the two ways of changing trains
type UpgradeKind string

const (
	KindUpgrade    UpgradeKind = "upgrade"
	KindCrossgrade UpgradeKind = "crossgrade"
)

type stats struct {
	capacity int
	speed    int
}

var statsByType = map[Type]stats{
	Freight:      {capacity: 2, speed: 9},
	FastFreight:  {capacity: 2, speed: 12},
	HeavyFreight: {capacity: 3, speed: 9},
	Superfreight: {capacity: 3, speed: 12},
}

// UpgradeOption is one edge of the upgrade graph
type UpgradeOption struct {
	To   Type
	Kind UpgradeKind
	Cost shared.Money
}

// upgradeGraph holds the legal transitions. Superfreight is terminal.
var upgradeGraph = map[Type][]UpgradeOption{
	Freight: {
		{To: FastFreight, Kind: KindUpgrade, Cost: UpgradeCost},
		{To: HeavyFreight, Kind: KindUpgrade, Cost: UpgradeCost},
	},
	FastFreight: {
		{To: Superfreight, Kind: KindUpgrade, Cost: UpgradeCost},
		{To: HeavyFreight, Kind: KindCrossgrade, Cost: CrossgradeCost},
	},
	HeavyFreight: {
		{To: Superfreight, Kind: KindUpgrade, Cost: UpgradeCost},
		{To: FastFreight, Kind: KindCrossgrade, Cost: CrossgradeCost},
	},
	Superfreight: {},
}

// ParseType converts a stored string into a train type
func ParseType(s string) (Type, error) {
	t := Type(s)
	if _, ok := statsByType[t]; !ok {
		return "", fmt.Errorf("unknown train type: %s", s)
	}
	return t, nil
}

// Valid reports whether the type is one of the four models
func (t Type) Valid() bool {
	_, ok := statsByType[t]
	return ok
}

// Capacity returns how many loads the train can carry
func (t Type) Capacity() int {
	return statsByType[t].capacity
}

// Speed returns how many mileposts the train moves per turn
func (t Type) Speed() int {
	return statsByType[t].speed
}

// UpgradeOptions returns the legal transitions from this train.
// The slice is a copy, callers may reorder it.
func (t Type) UpgradeOptions() []UpgradeOption {
	opts := upgradeGraph[t]
	out := make([]UpgradeOption, len(opts))
	copy(out, opts)
	return out
}

// UpgradeTo finds the transition from this train to the target, if legal
func (t Type) UpgradeTo(target Type) (UpgradeOption, error) {
	for _, opt := range upgradeGraph[t] {
		if opt.To == target {
			return opt, nil
		}
	}
	return UpgradeOption{}, fmt.Errorf("no upgrade path from %s to %s", t, target)
}

func (t Type) String() string {
	return string(t)
}
