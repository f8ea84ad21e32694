package planning

import (
	"fmt"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/cards"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/snapshot"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
)

// CrossgradeSpendLimit is the most a player may have spent on track this
// turn and still crossgrade. A full upgrade needs a clean turn instead.
const CrossgradeSpendLimit shared.Money = 15

// Result is the outcome of one feasibility check
type Result struct {
	Feasible bool   `json:"feasible"`
	Reason   string `json:"reason,omitempty"`
}

func feasible() Result { return Result{Feasible: true} }

func blocked(format string, args ...interface{}) Result {
	return Result{Feasible: false, Reason: fmt.Sprintf(format, args...)}
}

// FeasibilityService decides whether candidate actions are legal for the
// acting bot given a frozen snapshot. Every check is pure: it reads the
// snapshot and never touches stores, so planner and validator can call
// them as often as they like.
type FeasibilityService struct{}

func NewFeasibilityService() *FeasibilityService {
	return &FeasibilityService{}
}

// ValidateDelivery checks that one demand of one hand card can be fulfilled
// from where the train stands today.
func (f *FeasibilityService) ValidateDelivery(snap *snapshot.WorldSnapshot, cardID, demandIndex int) Result {
	demand, res := f.demandOf(snap, cardID, demandIndex)
	if !res.Feasible {
		return res
	}
	view, res := f.botPlayer(snap)
	if !res.Feasible {
		return res
	}
	if !carries(view.Loads, demand.Load) {
		return blocked("required load %s is not on the train", demand.Load)
	}
	return f.validateDestination(snap, view, demand.City)
}

// ValidatePickup checks that the load can be taken aboard at the city
func (f *FeasibilityService) ValidatePickup(snap *snapshot.WorldSnapshot, load loads.LoadType, city string) Result {
	view, res := f.botPlayer(snap)
	if !res.Feasible {
		return res
	}
	if view.Position == nil {
		return blocked("train has not been placed on the map")
	}
	capacity := view.TrainType.Capacity()
	if len(view.Loads) >= capacity {
		return blocked("train is at capacity (%d/%d)", len(view.Loads), capacity)
	}
	if !f.obtainableAt(snap, load, city) {
		return blocked("no %s available at %s", load, city)
	}
	network := snap.NetworkOf(snap.Bot().PlayerID)
	if !cityReachable(snap.Topology(), network, *view.Position, city) {
		return blocked("%s is not reachable on the player's track", city)
	}
	return feasible()
}

// ValidateBuild checks a run of new segments against the per-turn budget
// and the player's cash. Segment geometry is the segment constructor's
// problem; by the time a segment value exists it is adjacent, on land and
// not inside a single major city.
func (f *FeasibilityService) ValidateBuild(snap *snapshot.WorldSnapshot, segments []track.Segment) Result {
	if len(segments) == 0 {
		return blocked("no segments to build")
	}
	total := shared.Money(0)
	for _, s := range segments {
		if s.Cost <= 0 {
			return blocked("segment %s has a non-positive cost", s)
		}
		total = total.Add(s.Cost)
	}
	spent := f.turnBuildCost(snap)
	if spent.Add(total) > track.BuildBudgetPerTurn {
		return blocked("build of %s exceeds the %s turn budget (%s already spent)",
			total, track.BuildBudgetPerTurn, spent)
	}
	view, res := f.botPlayer(snap)
	if !res.Feasible {
		return res
	}
	if !view.Money.CanAfford(total) {
		return blocked("cannot afford %s of track with %s", total, view.Money)
	}
	return feasible()
}

// ValidateUpgrade checks a train change against the upgrade graph, the
// player's cash, this turn's track spend and the carried loads.
func (f *FeasibilityService) ValidateUpgrade(snap *snapshot.WorldSnapshot, target train.Type) Result {
	view, res := f.botPlayer(snap)
	if !res.Feasible {
		return res
	}
	current := view.TrainType
	if current == target {
		return blocked("already running a %s", target)
	}
	option, err := current.UpgradeTo(target)
	if err != nil {
		return blocked("no upgrade path from %s to %s", current, target)
	}
	if !view.Money.CanAfford(option.Cost) {
		return blocked("cannot afford the %s to %s with %s", option.Kind, target, view.Money)
	}
	spent := f.turnBuildCost(snap)
	switch option.Kind {
	case train.KindUpgrade:
		if spent > 0 {
			return blocked("turn budget already spent on track (%s), upgrades need a clean turn", spent)
		}
	case train.KindCrossgrade:
		if spent > CrossgradeSpendLimit {
			return blocked("turn budget spend of %s exceeds the %s crossgrade allowance", spent, CrossgradeSpendLimit)
		}
	}
	if target.Capacity() < len(view.Loads) {
		return blocked("carrying %d loads, a %s only holds %d", len(view.Loads), target, target.Capacity())
	}
	return feasible()
}

// ValidateOption dispatches on the option tag. Pass is always feasible. For
// a pickup with a delivery leg the load is aboard once the pickup lands, so
// the leg is checked for the card and the destination only.
func (f *FeasibilityService) ValidateOption(snap *snapshot.WorldSnapshot, opt FeasibleOption) Result {
	switch opt.Type {
	case ActionPass:
		return feasible()
	case ActionDeliverLoad:
		return f.ValidateDelivery(snap, opt.Deliver.CardID, opt.Deliver.DemandIndex)
	case ActionPickupAndDeliver:
		if res := f.ValidatePickup(snap, opt.Pickup.Load, opt.Pickup.City); !res.Feasible {
			return res
		}
		if opt.Pickup.Delivery == nil {
			return feasible()
		}
		return f.validateDeliveryLeg(snap, opt.Pickup.Delivery.CardID, opt.Pickup.Delivery.DemandIndex)
	case ActionBuildTrack:
		return f.ValidateBuild(snap, opt.Build.Segments)
	case ActionBuildTowardMajorCity:
		return f.ValidateBuild(snap, opt.BuildToward.Segments)
	case ActionUpgradeTrain:
		return f.ValidateUpgrade(snap, opt.Upgrade.Target)
	default:
		return blocked("unknown action type %q", opt.Type)
	}
}

// validateDeliveryLeg is ValidateDelivery minus the carried-load check
func (f *FeasibilityService) validateDeliveryLeg(snap *snapshot.WorldSnapshot, cardID, demandIndex int) Result {
	demand, res := f.demandOf(snap, cardID, demandIndex)
	if !res.Feasible {
		return res
	}
	view, res := f.botPlayer(snap)
	if !res.Feasible {
		return res
	}
	return f.validateDestination(snap, view, demand.City)
}

func (f *FeasibilityService) validateDestination(snap *snapshot.WorldSnapshot, view snapshot.PlayerView, city string) Result {
	if view.Position == nil {
		return blocked("train has not been placed on the map")
	}
	network := snap.NetworkOf(snap.Bot().PlayerID)
	if !cityOnNetwork(snap.Topology(), network, city) {
		return blocked("destination %s is not on the player's track", city)
	}
	return feasible()
}

func (f *FeasibilityService) demandOf(snap *snapshot.WorldSnapshot, cardID, demandIndex int) (cards.Demand, Result) {
	for _, card := range snap.Bot().Hand {
		if card.ID != cardID {
			continue
		}
		demand, err := card.Demand(demandIndex)
		if err != nil {
			return cards.Demand{}, blocked("demand index %d out of range", demandIndex)
		}
		return demand, feasible()
	}
	return cards.Demand{}, blocked("demand card %d is not in hand", cardID)
}

func (f *FeasibilityService) botPlayer(snap *snapshot.WorldSnapshot) (snapshot.PlayerView, Result) {
	view, ok := snap.PlayerByID(snap.Bot().PlayerID)
	if !ok {
		return snapshot.PlayerView{}, blocked("player %s is missing from the snapshot", snap.Bot().PlayerID)
	}
	return view, feasible()
}

func (f *FeasibilityService) turnBuildCost(snap *snapshot.WorldSnapshot) shared.Money {
	view, ok := snap.TrackOf(snap.Bot().PlayerID)
	if !ok {
		return 0
	}
	return view.TurnBuildCost
}

// obtainableAt reports whether the load can be sourced at the city: either
// from global supply at one of its producing cities, or from the pile a
// previous train dropped there.
func (f *FeasibilityService) obtainableAt(snap *snapshot.WorldSnapshot, load loads.LoadType, city string) bool {
	if snap.AvailabilityOf(load) > 0 && snap.LoadRegistry().ProducesAt(load, city) {
		return true
	}
	for coord, dropped := range snap.DroppedLoads() {
		if !coordInCity(snap.Topology(), coord, city) {
			continue
		}
		if carries(dropped, load) {
			return true
		}
	}
	return false
}

func carries(carried []loads.LoadType, load loads.LoadType) bool {
	for _, l := range carried {
		if l == load {
			return true
		}
	}
	return false
}

func cityOnNetwork(topo *board.Topology, network *track.Network, city string) bool {
	for _, coord := range topo.CityCoords(city) {
		if network.HasNode(coord) {
			return true
		}
	}
	return false
}

func cityReachable(topo *board.Topology, network *track.Network, from board.Coord, city string) bool {
	starts := []board.Coord{from}
	for _, coord := range topo.CityCoords(city) {
		if network.ConnectedTo(starts, coord) {
			return true
		}
	}
	return false
}

func coordInCity(topo *board.Topology, coord board.Coord, city string) bool {
	point, ok := topo.PointAt(coord)
	if !ok {
		return false
	}
	if point.CityName == city {
		return true
	}
	name, ok := topo.MajorCityAt(coord)
	return ok && name == city
}
