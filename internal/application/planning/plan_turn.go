package planning

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/andrescamacho/railbot-go/internal/application/common"
	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/domain/planning"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/snapshot"
)

// PlanTurnQuery represents a query to plan the acting bot's turn against a
// frozen snapshot. Seed drives the skill-level noise, so replaying the same
// snapshot with the same seed yields the same plan.
type PlanTurnQuery struct {
	Snapshot *snapshot.WorldSnapshot
	Seed     int64
}

// PlanTurnResponse carries the validated plan plus both sides of the
// considered-options split for the turn's audit record.
type PlanTurnResponse struct {
	Plan     planning.TurnPlan
	Feasible []planning.FeasibleOption // scored, best first
	Rejected []planning.FeasibleOption
}

// PlanTurnHandler enumerates candidate actions, scores the feasible ones
// through the bot's skill and archetype profile, and assembles a plan the
// validator has replayed step by step.
type PlanTurnHandler struct {
	enumerator  *optionEnumerator
	feasibility *planning.FeasibilityService
	evaluator   *planning.OptionEvaluator
	validator   *PlanValidator
}

// NewPlanTurnHandler creates a new PlanTurnHandler
func NewPlanTurnHandler(pathfinder ports.Pathfinder) *PlanTurnHandler {
	return &PlanTurnHandler{
		enumerator:  newOptionEnumerator(pathfinder),
		feasibility: planning.NewFeasibilityService(),
		evaluator:   planning.NewOptionEvaluator(),
		validator:   NewPlanValidator(),
	}
}

// Handle executes the PlanTurn query
func (h *PlanTurnHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*PlanTurnQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *PlanTurnQuery")
	}
	if query.Snapshot == nil {
		return nil, fmt.Errorf("snapshot is required")
	}
	snap := query.Snapshot

	config := snap.Bot().Config
	scorer, err := planning.NewScorer(config)
	if err != nil {
		return nil, fmt.Errorf("failed to build scorer: %w", err)
	}

	candidates, err := h.enumerator.enumerate(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate options: %w", err)
	}
	ranked, rejected := h.splitAndScore(snap, scorer, candidates)

	rng := rand.New(rand.NewSource(query.Seed))
	chosenIndex, note := chooseIndex(ranked, scorer, rng)
	primary := ranked[chosenIndex]

	options := []planning.FeasibleOption{primary}
	var followUp *planning.FeasibleOption
	if scorer.Horizon() > 1 && primary.Type != planning.ActionPass {
		if followUp = followUpOption(ranked, chosenIndex); followUp != nil {
			options = append(options, *followUp)
		}
	}

	plan, err := planning.NewTurnPlan(options, rationaleFor(config, primary, followUp, note))
	if err != nil {
		return nil, fmt.Errorf("failed to assemble plan: %w", err)
	}
	validated, err := h.validator.Validate(snap, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to validate plan: %w", err)
	}

	return &PlanTurnResponse{Plan: validated, Feasible: ranked, Rejected: rejected}, nil
}

// splitAndScore validates every candidate against the snapshot and scores
// the survivors. Feasible options come back sorted best first; the stable
// sort keeps enumeration order among equal scores.
func (h *PlanTurnHandler) splitAndScore(snap *snapshot.WorldSnapshot, scorer planning.Scorer, candidates []planning.FeasibleOption) (ranked, rejected []planning.FeasibleOption) {
	for _, opt := range candidates {
		if !opt.Feasible {
			rejected = append(rejected, opt)
			continue
		}
		if result := h.feasibility.ValidateOption(snap, opt); !result.Feasible {
			rejected = append(rejected, opt.Rejected(result.Reason))
			continue
		}
		score := scorer.Score(h.evaluator.Evaluate(snap, opt))
		ranked = append(ranked, opt.WithScore(score))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, rejected
}

// chooseIndex applies the skill profile's noise to the ranking. Hard bots
// have zero probabilities and never draw from the generator, so their picks
// are identical across seeds. The wander pool excludes passing: a noisy bot
// plays a weaker action, it does not sit the turn out.
func chooseIndex(ranked []planning.FeasibleOption, scorer planning.Scorer, rng *rand.Rand) (int, string) {
	if len(ranked) < 2 {
		return 0, ""
	}
	if p := scorer.RandomChoiceProbability(); p > 0 && rng.Float64() < p {
		pool := make([]int, 0, len(ranked))
		for i, opt := range ranked {
			if opt.Type != planning.ActionPass {
				pool = append(pool, i)
			}
		}
		if len(pool) > 0 {
			return pool[rng.Intn(len(pool))], "exploratory pick"
		}
		return 0, ""
	}
	if p := scorer.MissedOptionProbability(); p > 0 && rng.Float64() < p {
		for i := 1; i < len(ranked); i++ {
			if ranked[i].Type != planning.ActionPass {
				return i, "overlooked a stronger option"
			}
		}
	}
	return 0, ""
}

// followUpOption finds the best-ranked second action compatible with the
// primary: it must draw on the other resource pool. Movement actions pair
// with construction, never with each other, since the second path would
// start from a stale milepost. Construction pairs stay excluded because
// both halves would charge the same turn budget.
func followUpOption(ranked []planning.FeasibleOption, chosenIndex int) *planning.FeasibleOption {
	primary := ranked[chosenIndex]
	for i, opt := range ranked {
		if i == chosenIndex || opt.Type == planning.ActionPass {
			continue
		}
		if actionGroup(opt.Type) == actionGroup(primary.Type) {
			continue
		}
		followUp := opt
		return &followUp
	}
	return nil
}

// actionGroup buckets actions by the resource they consume: movement
// actions spend the train's mileposts, construction actions spend the
// shared per-turn build budget.
func actionGroup(t planning.ActionType) string {
	switch t {
	case planning.ActionDeliverLoad, planning.ActionPickupAndDeliver:
		return "movement"
	case planning.ActionBuildTrack, planning.ActionBuildTowardMajorCity, planning.ActionUpgradeTrain:
		return "construction"
	default:
		return "pass"
	}
}

func rationaleFor(config player.BotConfig, primary planning.FeasibleOption, followUp *planning.FeasibleOption, note string) string {
	rationale := fmt.Sprintf("%s %s bot: %s", config.Skill, config.Archetype, primary.Describe())
	if followUp != nil {
		rationale += "; then " + followUp.Describe()
	}
	if note != "" {
		rationale += " (" + note + ")"
	}
	return rationale
}
