package planning

import (
	"fmt"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
)

// ActionType tags the variants of a FeasibleOption. The executor dispatches
// on it, so every variant here has exactly one applier there.
type ActionType string

const (
	ActionPass                 ActionType = "pass"
	ActionDeliverLoad          ActionType = "deliverLoad"
	ActionPickupAndDeliver     ActionType = "pickupAndDeliver"
	ActionBuildTrack           ActionType = "buildTrack"
	ActionBuildTowardMajorCity ActionType = "buildTowardMajorCity"
	ActionUpgradeTrain         ActionType = "upgradeTrain"
)

// DeliverParams fulfils one demand of one hand card. MovePath starts at the
// train's current milepost and ends at a milepost of the destination city;
// a single-entry path means the train already stands there.
type DeliverParams struct {
	CardID      int            `json:"cardId"`
	DemandIndex int            `json:"demandIndex"`
	City        string         `json:"city"`
	Load        loads.LoadType `json:"load"`
	Payment     shared.Money   `json:"payment"`
	MovePath    []board.Coord  `json:"movePath,omitempty"`
}

// PickupAndDeliverParams picks a load up at a city and, when Delivery is
// set, carries it straight through to a demand in the same turn. FromDropped
// marks loads taken from the city's dropped pile instead of global supply.
type PickupAndDeliverParams struct {
	Load        loads.LoadType `json:"load"`
	City        string         `json:"city"`
	PickupPath  []board.Coord  `json:"pickupPath,omitempty"`
	FromDropped bool           `json:"fromDropped,omitempty"`
	Delivery    *DeliverParams `json:"delivery,omitempty"`
}

// BuildParams appends a contiguous run of new segments
type BuildParams struct {
	Segments []track.Segment `json:"segments"`
	Cost     shared.Money    `json:"cost"`
}

// BuildTowardParams is a build aimed at a major city the bot has not
// connected yet. Reaches marks whether the run gets all the way there
// within this turn's budget.
type BuildTowardParams struct {
	BuildParams
	City    string `json:"city"`
	Reaches bool   `json:"reaches"`
}

// UpgradeParams switches the train along one edge of the upgrade graph
type UpgradeParams struct {
	Target train.Type        `json:"target"`
	Kind   train.UpgradeKind `json:"kind"`
	Cost   shared.Money      `json:"cost"`
}

// FeasibleOption is one candidate action, tagged by Type with exactly one
// params pointer set. Options are born feasible; validation marks the losers
// with Rejected and the planner stamps scores on the survivors. Both sides
// of that split end up in the turn's audit record.
type FeasibleOption struct {
	Type        ActionType              `json:"type"`
	Deliver     *DeliverParams          `json:"deliver,omitempty"`
	Pickup      *PickupAndDeliverParams `json:"pickup,omitempty"`
	Build       *BuildParams            `json:"build,omitempty"`
	BuildToward *BuildTowardParams      `json:"buildToward,omitempty"`
	Upgrade     *UpgradeParams          `json:"upgrade,omitempty"`

	Feasible bool    `json:"feasible"`
	Reason   string  `json:"reason,omitempty"`
	Score    float64 `json:"score,omitempty"`
}

// NewPassOption ends the turn doing nothing. Always feasible.
func NewPassOption() FeasibleOption {
	return FeasibleOption{Type: ActionPass, Feasible: true}
}

func NewDeliverOption(p DeliverParams) FeasibleOption {
	return FeasibleOption{Type: ActionDeliverLoad, Deliver: &p, Feasible: true}
}

func NewPickupAndDeliverOption(p PickupAndDeliverParams) FeasibleOption {
	return FeasibleOption{Type: ActionPickupAndDeliver, Pickup: &p, Feasible: true}
}

func NewBuildOption(p BuildParams) FeasibleOption {
	return FeasibleOption{Type: ActionBuildTrack, Build: &p, Feasible: true}
}

func NewBuildTowardOption(p BuildTowardParams) FeasibleOption {
	return FeasibleOption{Type: ActionBuildTowardMajorCity, BuildToward: &p, Feasible: true}
}

func NewUpgradeOption(p UpgradeParams) FeasibleOption {
	return FeasibleOption{Type: ActionUpgradeTrain, Upgrade: &p, Feasible: true}
}

// Rejected returns a copy marked infeasible with the blocking reason
func (o FeasibleOption) Rejected(reason string) FeasibleOption {
	o.Feasible = false
	o.Reason = reason
	return o
}

// WithScore returns a copy carrying the planner's score
func (o FeasibleOption) WithScore(score float64) FeasibleOption {
	o.Score = score
	return o
}

// CashChange is the money delta the option should produce, before the Mercy
// Rule splits any income between debt repayment and cash.
func (o FeasibleOption) CashChange() shared.Money {
	switch o.Type {
	case ActionDeliverLoad:
		return o.Deliver.Payment
	case ActionPickupAndDeliver:
		if o.Pickup.Delivery != nil {
			return o.Pickup.Delivery.Payment
		}
		return 0
	case ActionBuildTrack:
		return -o.Build.Cost
	case ActionBuildTowardMajorCity:
		return -o.BuildToward.Cost
	case ActionUpgradeTrain:
		return -o.Upgrade.Cost
	default:
		return 0
	}
}

// Describe renders the option for plan rationales, events and audits
func (o FeasibleOption) Describe() string {
	switch o.Type {
	case ActionDeliverLoad:
		return fmt.Sprintf("deliver %s to %s for %s", o.Deliver.Load, o.Deliver.City, o.Deliver.Payment)
	case ActionPickupAndDeliver:
		desc := fmt.Sprintf("pick up %s at %s", o.Pickup.Load, o.Pickup.City)
		if o.Pickup.Delivery != nil {
			desc += fmt.Sprintf(" and deliver to %s for %s", o.Pickup.Delivery.City, o.Pickup.Delivery.Payment)
		}
		return desc
	case ActionBuildTrack:
		return fmt.Sprintf("build %d segments for %s", len(o.Build.Segments), o.Build.Cost)
	case ActionBuildTowardMajorCity:
		return fmt.Sprintf("build %d segments toward %s for %s", len(o.BuildToward.Segments), o.BuildToward.City, o.BuildToward.Cost)
	case ActionUpgradeTrain:
		return fmt.Sprintf("%s to %s for %s", o.Upgrade.Kind, o.Upgrade.Target, o.Upgrade.Cost)
	default:
		return "pass"
	}
}
