package player

import "fmt"

// Skill is the difficulty level of a bot seat. It selects the weight row,
// planning horizon and noise probabilities used when the bot picks a turn.
type Skill string

const (
	SkillEasy   Skill = "easy"
	SkillMedium Skill = "medium"
	SkillHard   Skill = "hard"
)

// Archetype is the personality of a bot seat. It multiplies the skill
// weights so two bots of equal skill still play differently.
type Archetype string

const (
	ArchetypeBackboneBuilder      Archetype = "backbone_builder"
	ArchetypeFreightOptimizer     Archetype = "freight_optimizer"
	ArchetypeTrunkSprinter        Archetype = "trunk_sprinter"
	ArchetypeContinentalConnector Archetype = "continental_connector"
	ArchetypeOpportunist          Archetype = "opportunist"
)

// AllSkills lists the valid skill levels
func AllSkills() []Skill {
	return []Skill{SkillEasy, SkillMedium, SkillHard}
}

// AllArchetypes lists the valid archetypes
func AllArchetypes() []Archetype {
	return []Archetype{
		ArchetypeBackboneBuilder,
		ArchetypeFreightOptimizer,
		ArchetypeTrunkSprinter,
		ArchetypeContinentalConnector,
		ArchetypeOpportunist,
	}
}

// Valid reports whether the skill is one of the three levels
func (s Skill) Valid() bool {
	switch s {
	case SkillEasy, SkillMedium, SkillHard:
		return true
	default:
		return false
	}
}

// Valid reports whether the archetype is known
func (a Archetype) Valid() bool {
	switch a {
	case ArchetypeBackboneBuilder, ArchetypeFreightOptimizer, ArchetypeTrunkSprinter,
		ArchetypeContinentalConnector, ArchetypeOpportunist:
		return true
	default:
		return false
	}
}

// BotConfig is the per-seat bot configuration stored as JSON on the players
// row. The validate tags mirror Validate for callers that run struct
// validation on decoded rows.
type BotConfig struct {
	Archetype Archetype `json:"archetype" validate:"required,oneof=backbone_builder freight_optimizer trunk_sprinter continental_connector opportunist"`
	Skill     Skill     `json:"skill" validate:"required,oneof=easy medium hard"`
}

// Validate checks the config against the known enums
func (c BotConfig) Validate() error {
	if !c.Archetype.Valid() {
		return fmt.Errorf("unknown bot archetype: %q", c.Archetype)
	}
	if !c.Skill.Valid() {
		return fmt.Errorf("unknown bot skill: %q", c.Skill)
	}
	return nil
}
