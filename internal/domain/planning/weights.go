package planning

import (
	"github.com/andrescamacho/railbot-go/internal/domain/player"
)

// Dimension is one axis the planner scores a candidate action on. The
// evaluator scales every dimension into roughly [0,1] (risk exposure is
// emitted negative), so weights compare across dimensions.
type Dimension string

const (
	DimImmediateIncome    Dimension = "immediateIncome"
	DimIncomePerMilepost  Dimension = "incomePerMilepost"
	DimMultiDelivery      Dimension = "multiDeliveryPotential"
	DimNetworkExpansion   Dimension = "networkExpansionValue"
	DimVictoryProgress    Dimension = "victoryProgress"
	DimBlocking           Dimension = "competitorBlocking"
	DimRiskExposure       Dimension = "riskExposure"
	DimLoadScarcity       Dimension = "loadScarcity"
	DimUpgradeROI         Dimension = "upgradeRoi"
	DimBackboneAlignment  Dimension = "backboneAlignment"
	DimLoadCombination    Dimension = "loadCombinationScore"
	DimMajorCityProximity Dimension = "majorCityProximity"
)

// AllDimensions lists the scoring axes in table order
func AllDimensions() []Dimension {
	return []Dimension{
		DimImmediateIncome,
		DimIncomePerMilepost,
		DimMultiDelivery,
		DimNetworkExpansion,
		DimVictoryProgress,
		DimBlocking,
		DimRiskExposure,
		DimLoadScarcity,
		DimUpgradeROI,
		DimBackboneAlignment,
		DimLoadCombination,
		DimMajorCityProximity,
	}
}

// SkillProfile is one row of the skill table: base weights per dimension,
// how far ahead the planner chains actions, and the noise probabilities
// that make weaker bots beatable.
type SkillProfile struct {
	Weights      map[Dimension]float64
	Horizon      int
	RandomChoice float64 // chance the bot takes any feasible option at random
	MissedOption float64 // chance the bot overlooks the top option
}

// skillProfiles: easy chases the nearest money and nothing else, medium
// plays routes, hard plays the whole board with no noise.
var skillProfiles = map[player.Skill]SkillProfile{
	player.SkillEasy: {
		Weights: map[Dimension]float64{
			DimImmediateIncome:   0.8,
			DimIncomePerMilepost: 0.2,
		},
		Horizon:      1,
		RandomChoice: 0.20,
		MissedOption: 0.30,
	},
	player.SkillMedium: {
		Weights: map[Dimension]float64{
			DimImmediateIncome:    0.5,
			DimIncomePerMilepost:  0.7,
			DimMultiDelivery:      0.3,
			DimNetworkExpansion:   0.5,
			DimVictoryProgress:    0.3,
			DimRiskExposure:       0.3,
			DimUpgradeROI:         0.3,
			DimBackboneAlignment:  0.2,
			DimLoadCombination:    0.2,
			DimMajorCityProximity: 0.3,
		},
		Horizon:      3,
		RandomChoice: 0.05,
		MissedOption: 0.10,
	},
	player.SkillHard: {
		Weights: map[Dimension]float64{
			DimImmediateIncome:    0.5,
			DimIncomePerMilepost:  0.7,
			DimMultiDelivery:      0.7,
			DimNetworkExpansion:   0.7,
			DimVictoryProgress:    0.7,
			DimBlocking:           0.5,
			DimRiskExposure:       0.5,
			DimLoadScarcity:       0.5,
			DimUpgradeROI:         0.5,
			DimBackboneAlignment:  0.4,
			DimLoadCombination:    0.4,
			DimMajorCityProximity: 0.5,
		},
		Horizon:      5,
		RandomChoice: 0,
		MissedOption: 0,
	},
}

// archetypeMultipliers scale the skill weights so equal-skill bots still
// play to type. 1.0 leaves a dimension at the skill default; the risk
// multiplier scales the deterrent, so below 1.0 means risk-tolerant.
var archetypeMultipliers = map[player.Archetype]map[Dimension]float64{
	// Lays a dense trunk first, earns from it later
	player.ArchetypeBackboneBuilder: {
		DimImmediateIncome:    0.7,
		DimIncomePerMilepost:  0.9,
		DimMultiDelivery:      1.0,
		DimNetworkExpansion:   1.6,
		DimVictoryProgress:    1.0,
		DimBlocking:           0.8,
		DimRiskExposure:       0.9,
		DimLoadScarcity:       0.9,
		DimUpgradeROI:         1.1,
		DimBackboneAlignment:  1.8,
		DimLoadCombination:    1.0,
		DimMajorCityProximity: 1.3,
	},
	// Squeezes the most payment out of every milepost moved
	player.ArchetypeFreightOptimizer: {
		DimImmediateIncome:    1.1,
		DimIncomePerMilepost:  1.6,
		DimMultiDelivery:      1.4,
		DimNetworkExpansion:   0.8,
		DimVictoryProgress:    1.0,
		DimBlocking:           0.7,
		DimRiskExposure:       1.0,
		DimLoadScarcity:       1.3,
		DimUpgradeROI:         1.2,
		DimBackboneAlignment:  0.8,
		DimLoadCombination:    1.7,
		DimMajorCityProximity: 0.9,
	},
	// Upgrades early and runs fast point-to-point deliveries
	player.ArchetypeTrunkSprinter: {
		DimImmediateIncome:    1.5,
		DimIncomePerMilepost:  1.3,
		DimMultiDelivery:      0.8,
		DimNetworkExpansion:   0.7,
		DimVictoryProgress:    1.1,
		DimBlocking:           0.6,
		DimRiskExposure:       0.7,
		DimLoadScarcity:       0.8,
		DimUpgradeROI:         1.7,
		DimBackboneAlignment:  0.7,
		DimLoadCombination:    0.9,
		DimMajorCityProximity: 0.8,
	},
	// Chases the major-city connection count above all
	player.ArchetypeContinentalConnector: {
		DimImmediateIncome:    0.7,
		DimIncomePerMilepost:  0.8,
		DimMultiDelivery:      0.9,
		DimNetworkExpansion:   1.5,
		DimVictoryProgress:    1.4,
		DimBlocking:           0.9,
		DimRiskExposure:       0.8,
		DimLoadScarcity:       0.9,
		DimUpgradeROI:         1.0,
		DimBackboneAlignment:  1.4,
		DimLoadCombination:    0.8,
		DimMajorCityProximity: 1.8,
	},
	// Grabs whatever the board offers right now, including spite builds
	player.ArchetypeOpportunist: {
		DimImmediateIncome:    1.4,
		DimIncomePerMilepost:  1.0,
		DimMultiDelivery:      1.2,
		DimNetworkExpansion:   0.9,
		DimVictoryProgress:    0.9,
		DimBlocking:           1.5,
		DimRiskExposure:       0.7,
		DimLoadScarcity:       1.6,
		DimUpgradeROI:         0.9,
		DimBackboneAlignment:  0.6,
		DimLoadCombination:    1.1,
		DimMajorCityProximity: 0.7,
	},
}

// ProfileFor returns the skill row as an independent copy
func ProfileFor(skill player.Skill) SkillProfile {
	profile := skillProfiles[skill]
	weights := make(map[Dimension]float64, len(profile.Weights))
	for dim, w := range profile.Weights {
		weights[dim] = w
	}
	profile.Weights = weights
	return profile
}

// MultipliersFor returns the archetype column as an independent copy
func MultipliersFor(archetype player.Archetype) map[Dimension]float64 {
	multipliers := make(map[Dimension]float64, len(archetypeMultipliers[archetype]))
	for dim, m := range archetypeMultipliers[archetype] {
		multipliers[dim] = m
	}
	return multipliers
}
