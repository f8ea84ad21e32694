package planning

import (
	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/snapshot"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
)

// Scaling anchors. Payments above referencePayment and runs longer than
// referenceRun saturate their dimension at 1; perMilepostAnchor is the
// millions-per-milepost rate treated as a perfect haul.
const (
	referencePayment  = 50.0
	referenceRun      = 8.0
	perMilepostAnchor = 5.0
	debtAnchor        = 50.0
)

// OptionEvaluator measures a candidate action along the scoring dimensions.
// It is stateless and deterministic: the same snapshot and option always
// produce the same values, which keeps planning reproducible under a
// seeded random source.
type OptionEvaluator struct{}

func NewOptionEvaluator() *OptionEvaluator {
	return &OptionEvaluator{}
}

// Evaluate returns the dimension values for one option. Pass measures zero
// everywhere, which is what makes any feasible alternative beat it.
func (e *OptionEvaluator) Evaluate(snap *snapshot.WorldSnapshot, opt FeasibleOption) map[Dimension]float64 {
	values := make(map[Dimension]float64)
	switch opt.Type {
	case ActionDeliverLoad:
		e.deliveryValues(snap, *opt.Deliver, values)
	case ActionPickupAndDeliver:
		e.pickupValues(snap, *opt.Pickup, values)
	case ActionBuildTrack:
		e.buildValues(snap, opt.Build.Segments, opt.Build.Cost, values)
	case ActionBuildTowardMajorCity:
		e.buildValues(snap, opt.BuildToward.Segments, opt.BuildToward.Cost, values)
		e.towardValues(snap, *opt.BuildToward, values)
	case ActionUpgradeTrain:
		e.upgradeValues(snap, *opt.Upgrade, values)
	}
	return values
}

func (e *OptionEvaluator) deliveryValues(snap *snapshot.WorldSnapshot, p DeliverParams, values map[Dimension]float64) {
	view, ok := snap.PlayerByID(snap.Bot().PlayerID)
	if !ok {
		return
	}
	payment := float64(p.Payment)

	values[DimImmediateIncome] = clamp01(payment / referencePayment)
	values[DimIncomePerMilepost] = clamp01(payment / float64(pathSteps(p.MovePath)) / perMilepostAnchor)
	values[DimMultiDelivery] = e.multiDeliveryPotential(snap, view, p.CardID)
	values[DimVictoryProgress] = clamp01((float64(view.Money) + payment) / float64(game.VictoryThreshold))
	values[DimRiskExposure] = -debtExposure(view.Debt)
	values[DimLoadScarcity] = e.scarcity(snap, p.Load)
	values[DimMajorCityProximity] = majorCityTarget(snap.Topology(), p.City)
}

func (e *OptionEvaluator) pickupValues(snap *snapshot.WorldSnapshot, p PickupAndDeliverParams, values map[Dimension]float64) {
	view, ok := snap.PlayerByID(snap.Bot().PlayerID)
	if !ok {
		return
	}

	steps := pathSteps(p.PickupPath)
	if p.Delivery != nil {
		payment := float64(p.Delivery.Payment)
		steps += pathSteps(p.Delivery.MovePath)
		values[DimImmediateIncome] = clamp01(payment / referencePayment)
		values[DimIncomePerMilepost] = clamp01(payment / float64(steps) / perMilepostAnchor)
		values[DimVictoryProgress] = clamp01((float64(view.Money) + payment) / float64(game.VictoryThreshold))
		values[DimMultiDelivery] = e.multiDeliveryPotential(snap, view, p.Delivery.CardID)
		values[DimMajorCityProximity] = majorCityTarget(snap.Topology(), p.Delivery.City)
	}
	values[DimRiskExposure] = -debtExposure(view.Debt)
	values[DimLoadScarcity] = e.scarcity(snap, p.Load)
	values[DimLoadCombination] = e.loadCombination(snap, view, p.Load)
}

func (e *OptionEvaluator) buildValues(snap *snapshot.WorldSnapshot, segments []track.Segment, cost shared.Money, values map[Dimension]float64) {
	view, ok := snap.PlayerByID(snap.Bot().PlayerID)
	if !ok {
		return
	}
	network := snap.NetworkOf(snap.Bot().PlayerID)

	values[DimNetworkExpansion] = clamp01(float64(len(segments)) / referenceRun)
	values[DimBlocking] = e.contestedClaims(snap, segments)
	values[DimBackboneAlignment] = trunkAlignment(network, segments)

	exposure := spendExposure(cost, view.Money)
	if debt := debtExposure(view.Debt); debt > exposure {
		exposure = debt
	}
	values[DimRiskExposure] = -exposure
}

func (e *OptionEvaluator) towardValues(snap *snapshot.WorldSnapshot, p BuildTowardParams, values map[Dimension]float64) {
	if p.Reaches {
		values[DimMajorCityProximity] = 1.0
		groups := len(snap.Topology().MajorCityGroups())
		if groups > 0 {
			values[DimVictoryProgress] = clamp01(float64(snap.ConnectedMajorCityCount()+1) / float64(groups))
		}
		return
	}
	// Partial progress still moves the railhead closer
	values[DimMajorCityProximity] = 0.6
}

func (e *OptionEvaluator) upgradeValues(snap *snapshot.WorldSnapshot, p UpgradeParams, values map[Dimension]float64) {
	view, ok := snap.PlayerByID(snap.Bot().PlayerID)
	if !ok {
		return
	}
	current := view.TrainType

	// Capacity is worth more than raw speed; dividing by cost rewards the
	// cheap crossgrade when it buys the stat that matters.
	capacityGain := float64(p.Target.Capacity() - current.Capacity())
	speedGain := float64(p.Target.Speed()-current.Speed()) / 3.0
	gain := capacityGain*0.6 + speedGain*0.4
	if gain < 0 {
		gain = 0
	}
	if p.Cost > 0 {
		values[DimUpgradeROI] = clamp01(gain * float64(train.UpgradeCost) / float64(p.Cost))
	}
	values[DimRiskExposure] = -spendExposure(p.Cost, view.Money)
}

// multiDeliveryPotential is the share of demands on the other hand cards
// the bot could already serve: load aboard and destination on its track.
func (e *OptionEvaluator) multiDeliveryPotential(snap *snapshot.WorldSnapshot, view snapshot.PlayerView, excludeCardID int) float64 {
	network := snap.NetworkOf(snap.Bot().PlayerID)
	topo := snap.Topology()

	servable, total := 0, 0
	for _, card := range snap.Bot().Hand {
		if card.ID == excludeCardID {
			continue
		}
		for _, demand := range card.Demands {
			total++
			if carries(view.Loads, demand.Load) && cityOnNetwork(topo, network, demand.City) {
				servable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(servable) / float64(total)
}

// scarcity rates a load by how much of its supply is already on trains
func (e *OptionEvaluator) scarcity(snap *snapshot.WorldSnapshot, load loads.LoadType) float64 {
	total := snap.LoadRegistry().Total(load)
	if total == 0 {
		return 0
	}
	return clamp01(float64(total-snap.AvailabilityOf(load)) / float64(total))
}

// loadCombination rates how much of the train, after the pickup, carries
// loads some hand demand actually wants.
func (e *OptionEvaluator) loadCombination(snap *snapshot.WorldSnapshot, view snapshot.PlayerView, picked loads.LoadType) float64 {
	capacity := view.TrainType.Capacity()
	if capacity == 0 {
		return 0
	}
	carried := append(append([]loads.LoadType{}, view.Loads...), picked)

	wanted := make(map[loads.LoadType]bool)
	for _, card := range snap.Bot().Hand {
		for _, demand := range card.Demands {
			wanted[demand.Load] = true
		}
	}

	matched := 0
	for _, load := range carried {
		if wanted[load] {
			matched++
		}
	}
	return clamp01(float64(matched) / float64(capacity))
}

// contestedClaims is the share of run endpoints that newly reach a city
// milepost no opponent holds yet. Claiming those first is what blocking
// means on this board.
func (e *OptionEvaluator) contestedClaims(snap *snapshot.WorldSnapshot, segments []track.Segment) float64 {
	if len(segments) == 0 {
		return 0
	}
	topo := snap.Topology()
	botID := snap.Bot().PlayerID
	own := snap.NetworkOf(botID)

	occupied := make(map[board.Coord]bool)
	for _, tv := range snap.Tracks() {
		if tv.PlayerID.Equals(botID) {
			continue
		}
		for _, s := range tv.Segments {
			occupied[s.From] = true
			occupied[s.To] = true
		}
	}

	claims := 0
	seen := make(map[board.Coord]bool)
	for _, s := range segments {
		for _, endpoint := range []board.Coord{s.From, s.To} {
			if seen[endpoint] || own.HasNode(endpoint) {
				continue
			}
			seen[endpoint] = true
			point, ok := topo.PointAt(endpoint)
			if ok && point.Terrain.IsCity() && !occupied[endpoint] {
				claims++
			}
		}
	}
	return clamp01(float64(claims) / float64(len(segments)))
}

// trunkAlignment is 1 when the run grows out of the existing network, 0.5
// when there is no network yet (every trunk starts somewhere), and 0 for a
// disconnected spur.
func trunkAlignment(network *track.Network, segments []track.Segment) float64 {
	if network.NodeCount() == 0 {
		return 0.5
	}
	for _, s := range segments {
		if network.HasNode(s.From) || network.HasNode(s.To) {
			return 1.0
		}
	}
	return 0
}

func majorCityTarget(topo *board.Topology, city string) float64 {
	for _, group := range topo.MajorCityGroups() {
		if group.Name == city {
			return 1.0
		}
	}
	return 0
}

// pathSteps counts mileposts moved along a path that includes the start
func pathSteps(path []board.Coord) int {
	if len(path) <= 1 {
		return 1
	}
	return len(path) - 1
}

func debtExposure(debt shared.Money) float64 {
	if debt <= 0 {
		return 0
	}
	return clamp01(float64(debt) / debtAnchor)
}

func spendExposure(cost, money shared.Money) float64 {
	if cost <= 0 {
		return 0
	}
	if money <= 0 {
		return 1
	}
	return clamp01(float64(cost) / float64(money))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
