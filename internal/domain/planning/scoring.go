package planning

import (
	"github.com/andrescamacho/railbot-go/internal/domain/player"
)

// Scorer computes the weighted score of a candidate action for one bot:
// the sum over all dimensions of skill weight × archetype multiplier ×
// measured value. Dimensions the skill row leaves unweighted contribute
// nothing regardless of archetype.
type Scorer struct {
	profile     SkillProfile
	multipliers map[Dimension]float64
}

// NewScorer builds a scorer for a validated bot configuration
func NewScorer(config player.BotConfig) (Scorer, error) {
	if err := config.Validate(); err != nil {
		return Scorer{}, err
	}
	return Scorer{
		profile:     ProfileFor(config.Skill),
		multipliers: MultipliersFor(config.Archetype),
	}, nil
}

// Score folds the measured dimension values into a single number
func (s Scorer) Score(values map[Dimension]float64) float64 {
	total := 0.0
	for dim, value := range values {
		weight := s.profile.Weights[dim]
		if weight == 0 {
			continue
		}
		multiplier, ok := s.multipliers[dim]
		if !ok {
			multiplier = 1.0
		}
		total += weight * multiplier * value
	}
	return total
}

// Horizon is how many actions the bot is willing to chain in one turn
func (s Scorer) Horizon() int {
	return s.profile.Horizon
}

// RandomChoiceProbability is the chance the bot picks a random feasible
// option instead of the best one.
func (s Scorer) RandomChoiceProbability() float64 {
	return s.profile.RandomChoice
}

// MissedOptionProbability is the chance the bot overlooks the top option
// and settles for the runner-up.
func (s Scorer) MissedOptionProbability() float64 {
	return s.profile.MissedOption
}
