package planning

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/cards"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/planning"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/snapshot"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
)

// PlanValidator replays a plan step by step against a projected copy of the
// snapshot. Each step is checked for feasibility in the world the previous
// steps would leave behind, so a plan can never promise a second action the
// first one makes impossible. The first failing step truncates the plan
// there; truncating everything yields a pass plan.
type PlanValidator struct {
	feasibility *planning.FeasibilityService
}

func NewPlanValidator() *PlanValidator {
	return &PlanValidator{feasibility: planning.NewFeasibilityService()}
}

func (v *PlanValidator) Validate(snap *snapshot.WorldSnapshot, plan planning.TurnPlan) (planning.TurnPlan, error) {
	projected := snap
	for i, opt := range plan.Options() {
		if result := v.feasibility.ValidateOption(projected, opt); !result.Feasible {
			return plan.Truncated(i, fmt.Sprintf("dropped %s: %s", opt.Type, result.Reason)), nil
		}
		next, err := v.advance(projected, opt)
		if err != nil {
			return planning.TurnPlan{}, fmt.Errorf("failed to project plan step %d: %w", i+1, err)
		}
		projected = next
	}
	return plan, nil
}

// advance applies one option's effects to a copy of the snapshot data and
// refreezes it. The projection tracks exactly what the executor would
// change: cash, debt, carried loads, hand, position, movement, track and
// train type.
func (v *PlanValidator) advance(snap *snapshot.WorldSnapshot, opt planning.FeasibleOption) (*snapshot.WorldSnapshot, error) {
	data := snap.Data()
	switch opt.Type {
	case planning.ActionPass:
	case planning.ActionDeliverLoad:
		applyDelivery(&data, *opt.Deliver)
	case planning.ActionPickupAndDeliver:
		applyPickup(&data, *opt.Pickup, snap.Topology())
	case planning.ActionBuildTrack:
		applyBuild(&data, opt.Build.Segments, opt.Build.Cost)
	case planning.ActionBuildTowardMajorCity:
		applyBuild(&data, opt.BuildToward.Segments, opt.BuildToward.Cost)
	case planning.ActionUpgradeTrain:
		applyUpgrade(&data, *opt.Upgrade)
	default:
		return nil, fmt.Errorf("cannot project action type %s", opt.Type)
	}
	return snapshot.New(data, snap.Topology(), snap.Deck(), snap.LoadRegistry())
}

// applyDelivery pays the demand, returns the load token to supply and spends
// the hand card. Income repays debt before it becomes cash.
func applyDelivery(data *snapshot.Data, p planning.DeliverParams) {
	view := botView(data)
	if view == nil {
		return
	}
	repaid := p.Payment
	if view.Debt < repaid {
		repaid = view.Debt
	}
	view.Debt -= repaid
	view.Money += p.Payment - repaid

	view.Loads = removeLoad(view.Loads, p.Load)
	data.LoadAvailability[p.Load]++
	data.Bot.Hand = removeCard(data.Bot.Hand, p.CardID)
	applyMovement(data, view, p.MovePath)
}

func applyPickup(data *snapshot.Data, p planning.PickupAndDeliverParams, topo *board.Topology) {
	view := botView(data)
	if view == nil {
		return
	}
	applyMovement(data, view, p.PickupPath)
	view.Loads = append(view.Loads, p.Load)

	if p.FromDropped {
		removeDroppedLoad(data, topo, p.City, p.Load)
	} else if data.LoadAvailability[p.Load] > 0 {
		data.LoadAvailability[p.Load]--
	}

	if p.Delivery != nil {
		applyDelivery(data, *p.Delivery)
	}
}

func applyBuild(data *snapshot.Data, segments []track.Segment, cost shared.Money) {
	view := botView(data)
	if view == nil {
		return
	}
	view.Money -= cost

	tv := botTrackView(data)
	tv.Segments = append(tv.Segments, segments...)
	tv.TotalCost += cost
	tv.TurnBuildCost += cost
}

// applyUpgrade swaps the train and charges the shared per-turn build budget
func applyUpgrade(data *snapshot.Data, p planning.UpgradeParams) {
	view := botView(data)
	if view == nil {
		return
	}
	view.Money -= p.Cost
	view.TrainType = p.Target

	tv := botTrackView(data)
	tv.TurnBuildCost += p.Cost
}

func applyMovement(data *snapshot.Data, view *snapshot.PlayerView, path []board.Coord) {
	if len(path) == 0 {
		return
	}
	end := path[len(path)-1]
	view.Position = &end
	data.Bot.RemainingMovement -= pathSteps(path)
	if data.Bot.RemainingMovement < 0 {
		data.Bot.RemainingMovement = 0
	}
}

// removeDroppedLoad takes one token of the load out of the pile at the
// named city. Piles are visited in coordinate order so projections stay
// deterministic.
func removeDroppedLoad(data *snapshot.Data, topo *board.Topology, city string, load loads.LoadType) {
	coords := make([]board.Coord, 0, len(data.DroppedLoads))
	for coord, pile := range data.DroppedLoads {
		if carriesLoad(pile, load) && cityNameAt(topo, coord) == city {
			coords = append(coords, coord)
		}
	}
	if len(coords) == 0 {
		return
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})

	at := coords[0]
	pile := removeLoad(data.DroppedLoads[at], load)
	if len(pile) == 0 {
		delete(data.DroppedLoads, at)
		return
	}
	data.DroppedLoads[at] = pile
}

func botView(data *snapshot.Data) *snapshot.PlayerView {
	for i := range data.Players {
		if data.Players[i].ID.Equals(data.Bot.PlayerID) {
			return &data.Players[i]
		}
	}
	return nil
}

// botTrackView finds the bot's track view, creating an empty one for bots
// that have not built anything yet.
func botTrackView(data *snapshot.Data) *snapshot.TrackView {
	for i := range data.Tracks {
		if data.Tracks[i].PlayerID.Equals(data.Bot.PlayerID) {
			return &data.Tracks[i]
		}
	}
	data.Tracks = append(data.Tracks, snapshot.TrackView{PlayerID: data.Bot.PlayerID})
	return &data.Tracks[len(data.Tracks)-1]
}

func removeLoad(carried []loads.LoadType, load loads.LoadType) []loads.LoadType {
	for i, l := range carried {
		if l == load {
			return append(carried[:i:i], carried[i+1:]...)
		}
	}
	return carried
}

func removeCard(hand []cards.DemandCard, cardID int) []cards.DemandCard {
	for i, card := range hand {
		if card.ID == cardID {
			return append(hand[:i:i], hand[i+1:]...)
		}
	}
	return hand
}
