package planning

import (
	"fmt"

	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// TurnPlan is the ordered list of actions a bot has settled on for one
// turn. Plans only hold feasible options; the validator prunes anything
// the world invalidated between capture and execution.
type TurnPlan struct {
	options            []FeasibleOption
	expectedCashChange shared.Money
	rationale          string
}

// NewTurnPlan orders the options as given and sums their expected cash
// change. Every option must still be feasible.
func NewTurnPlan(options []FeasibleOption, rationale string) (TurnPlan, error) {
	if len(options) == 0 {
		return TurnPlan{}, shared.NewValidationError("options", "a turn plan needs at least one option")
	}
	total := shared.Money(0)
	for _, opt := range options {
		if !opt.Feasible {
			return TurnPlan{}, shared.NewValidationError("options",
				fmt.Sprintf("infeasible option in plan: %s", opt.Reason))
		}
		total = total.Add(opt.CashChange())
	}
	return TurnPlan{
		options:            copyOptions(options),
		expectedCashChange: total,
		rationale:          rationale,
	}, nil
}

// PassPlan is the fallback when nothing is feasible or everything got pruned
func PassPlan(rationale string) TurnPlan {
	return TurnPlan{options: []FeasibleOption{NewPassOption()}, rationale: rationale}
}

// Options returns the planned actions in execution order
func (p TurnPlan) Options() []FeasibleOption {
	return copyOptions(p.options)
}

func (p TurnPlan) Len() int {
	return len(p.options)
}

// IsPass reports whether the plan does nothing at all
func (p TurnPlan) IsPass() bool {
	return len(p.options) == 1 && p.options[0].Type == ActionPass
}

func (p TurnPlan) ExpectedCashChange() shared.Money {
	return p.expectedCashChange
}

func (p TurnPlan) Rationale() string {
	return p.rationale
}

// Truncated keeps the first keep options and recomputes the expected cash
// change. Truncating everything away yields a pass plan carrying the reason.
func (p TurnPlan) Truncated(keep int, reason string) TurnPlan {
	if keep <= 0 {
		return PassPlan(joinRationale(p.rationale, reason))
	}
	if keep >= len(p.options) {
		return p
	}
	kept := copyOptions(p.options[:keep])
	total := shared.Money(0)
	for _, opt := range kept {
		total = total.Add(opt.CashChange())
	}
	return TurnPlan{
		options:            kept,
		expectedCashChange: total,
		rationale:          joinRationale(p.rationale, reason),
	}
}

// Record renders the plan for the audit row
func (p TurnPlan) Record() PlanRecord {
	return PlanRecord{
		Actions:            copyOptions(p.options),
		ExpectedCashChange: p.expectedCashChange,
		Rationale:          p.rationale,
	}
}

func copyOptions(options []FeasibleOption) []FeasibleOption {
	out := make([]FeasibleOption, len(options))
	copy(out, options)
	return out
}

func joinRationale(rationale, addition string) string {
	if addition == "" {
		return rationale
	}
	if rationale == "" {
		return addition
	}
	return rationale + "; " + addition
}
