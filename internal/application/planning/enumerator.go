package planning

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/cards"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/planning"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/snapshot"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
)

// optionEnumerator turns a snapshot into the candidate actions the bot could
// take this turn. Candidates that already failed routing come back marked
// rejected; everything else is validated and scored by the handler.
// Enumeration order is deterministic: hand order, then sorted source cities,
// then major cities in board order, so equal scores rank reproducibly.
type optionEnumerator struct {
	pathfinder ports.Pathfinder
}

func newOptionEnumerator(pathfinder ports.Pathfinder) *optionEnumerator {
	return &optionEnumerator{pathfinder: pathfinder}
}

func (e *optionEnumerator) enumerate(snap *snapshot.WorldSnapshot) ([]planning.FeasibleOption, error) {
	view, ok := snap.PlayerByID(snap.Bot().PlayerID)
	if !ok {
		return []planning.FeasibleOption{planning.NewPassOption()}, nil
	}
	network := snap.NetworkOf(snap.Bot().PlayerID)

	var options []planning.FeasibleOption
	options = append(options, e.demandOptions(snap, view, network)...)

	buildOptions, err := e.buildOptions(snap, view, network)
	if err != nil {
		return nil, err
	}
	options = append(options, buildOptions...)
	options = append(options, e.upgradeOptions(view)...)
	options = append(options, planning.NewPassOption())
	return options, nil
}

// demandOptions walks every demand on every hand card: a Deliver when the
// load is already aboard, otherwise a PickupAndDeliver per source city.
// Pickups that never got a delivery leg collapse to the same action whatever
// demand prompted them, so those are emitted once.
func (e *optionEnumerator) demandOptions(snap *snapshot.WorldSnapshot, view snapshot.PlayerView, network *track.Network) []planning.FeasibleOption {
	var options []planning.FeasibleOption
	seenBarePickups := make(map[string]bool)
	for _, card := range snap.Bot().Hand {
		for index, demand := range card.Demands {
			if carriesLoad(view.Loads, demand.Load) {
				options = append(options, e.deliverOption(snap, view, network, card, index, demand))
				continue
			}
			for _, opt := range e.pickupOptions(snap, view, network, card, index, demand) {
				if opt.Pickup != nil && opt.Pickup.Delivery == nil {
					key := fmt.Sprintf("%s@%s dropped=%t", opt.Pickup.Load, opt.Pickup.City, opt.Pickup.FromDropped)
					if seenBarePickups[key] {
						continue
					}
					seenBarePickups[key] = true
				}
				options = append(options, opt)
			}
		}
	}
	return options
}

func (e *optionEnumerator) deliverOption(snap *snapshot.WorldSnapshot, view snapshot.PlayerView, network *track.Network, card cards.DemandCard, index int, demand cards.Demand) planning.FeasibleOption {
	params := planning.DeliverParams{
		CardID:      card.ID,
		DemandIndex: index,
		City:        demand.City,
		Load:        demand.Load,
		Payment:     demand.Payment,
	}
	remaining := snap.Bot().RemainingMovement
	if view.Position != nil {
		path, ok := e.pathfinder.MovePath(network, *view.Position, demand.City, remaining)
		if !ok {
			return planning.NewDeliverOption(params).
				Rejected(fmt.Sprintf("no route to %s within %d mileposts", demand.City, remaining))
		}
		params.MovePath = path
	}
	return planning.NewDeliverOption(params)
}

// pickupOptions emits one candidate per city the load can be sourced at.
// When movement allows carrying it straight through to the demand city the
// delivery leg rides along on the same option.
func (e *optionEnumerator) pickupOptions(snap *snapshot.WorldSnapshot, view snapshot.PlayerView, network *track.Network, card cards.DemandCard, index int, demand cards.Demand) []planning.FeasibleOption {
	sources := e.sourceCities(snap, demand.Load)
	if len(sources) == 0 {
		params := planning.PickupAndDeliverParams{Load: demand.Load, City: demand.City}
		return []planning.FeasibleOption{
			planning.NewPickupAndDeliverOption(params).
				Rejected(fmt.Sprintf("no %s available anywhere on the board", demand.Load)),
		}
	}

	remaining := snap.Bot().RemainingMovement
	var options []planning.FeasibleOption
	for _, source := range sources {
		params := planning.PickupAndDeliverParams{
			Load:        demand.Load,
			City:        source.city,
			FromDropped: source.fromDropped,
		}
		if view.Position == nil {
			options = append(options, planning.NewPickupAndDeliverOption(params))
			continue
		}

		path, ok := e.pathfinder.MovePath(network, *view.Position, source.city, remaining)
		if !ok {
			options = append(options, planning.NewPickupAndDeliverOption(params).
				Rejected(fmt.Sprintf("no route to %s within %d mileposts", source.city, remaining)))
			continue
		}
		params.PickupPath = path

		if left := remaining - pathSteps(path); left > 0 {
			if deliveryPath, ok := e.pathfinder.MovePath(network, path[len(path)-1], demand.City, left); ok {
				params.Delivery = &planning.DeliverParams{
					CardID:      card.ID,
					DemandIndex: index,
					City:        demand.City,
					Load:        demand.Load,
					Payment:     demand.Payment,
					MovePath:    deliveryPath,
				}
			}
		}
		options = append(options, planning.NewPickupAndDeliverOption(params))
	}
	return options
}

type loadSource struct {
	city        string
	fromDropped bool
}

// sourceCities lists where a load can be picked up: producing cities while
// supply remains, plus any city holding a dropped pile of it. Supply wins
// when a city offers both.
func (e *optionEnumerator) sourceCities(snap *snapshot.WorldSnapshot, load loads.LoadType) []loadSource {
	fromDropped := make(map[string]bool)

	if snap.AvailabilityOf(load) > 0 {
		for _, city := range snap.LoadRegistry().ProducingCities(load) {
			fromDropped[city] = false
		}
	}
	for coord, pile := range snap.DroppedLoads() {
		if !carriesLoad(pile, load) {
			continue
		}
		city := cityNameAt(snap.Topology(), coord)
		if city == "" {
			continue
		}
		if _, ok := fromDropped[city]; !ok {
			fromDropped[city] = true
		}
	}

	cities := make([]string, 0, len(fromDropped))
	for city := range fromDropped {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	sources := make([]loadSource, 0, len(cities))
	for _, city := range cities {
		sources = append(sources, loadSource{city: city, fromDropped: fromDropped[city]})
	}
	return sources
}

// buildOptions emits a run toward every unconnected major city plus one
// open-ended expansion run.
func (e *optionEnumerator) buildOptions(snap *snapshot.WorldSnapshot, view snapshot.PlayerView, network *track.Network) ([]planning.FeasibleOption, error) {
	budget := e.buildBudget(snap, view)
	starts := e.virtualStarts(snap, view, network)

	var options []planning.FeasibleOption
	for _, group := range snap.Topology().MajorCityGroups() {
		if snap.IsConnectedTo(group.Name) {
			continue
		}
		segments, reaches, err := e.pathfinder.BuildToward(network, starts, group.Name, budget, budget.Millions())
		if err != nil {
			return nil, fmt.Errorf("routing toward %s: %w", group.Name, err)
		}
		options = append(options, planning.NewBuildTowardOption(planning.BuildTowardParams{
			BuildParams: planning.BuildParams{Segments: segments, Cost: segmentsCost(segments)},
			City:        group.Name,
			Reaches:     reaches,
		}))
	}

	segments, err := e.pathfinder.BuildExpansion(network, starts, budget, budget.Millions())
	if err != nil {
		return nil, fmt.Errorf("routing expansion: %w", err)
	}
	options = append(options, planning.NewBuildOption(planning.BuildParams{
		Segments: segments,
		Cost:     segmentsCost(segments),
	}))
	return options, nil
}

// buildBudget is what the bot can still spend on track this turn: the
// 20M turn allowance less what is already spent, capped by cash on hand.
func (e *optionEnumerator) buildBudget(snap *snapshot.WorldSnapshot, view snapshot.PlayerView) shared.Money {
	budget := track.BuildBudgetPerTurn
	if tv, ok := snap.TrackOf(snap.Bot().PlayerID); ok {
		budget -= tv.TurnBuildCost
	}
	if budget < 0 {
		budget = 0
	}
	if view.Money < budget {
		budget = view.Money
	}
	return budget
}

// virtualStarts seeds the build search when the bot owns no track yet:
// from its train if placed, otherwise from every major city center, which
// is where opening track gravitates anyway.
func (e *optionEnumerator) virtualStarts(snap *snapshot.WorldSnapshot, view snapshot.PlayerView, network *track.Network) []board.Coord {
	if network.NodeCount() > 0 {
		return nil
	}
	if view.Position != nil {
		return []board.Coord{*view.Position}
	}
	groups := snap.Topology().MajorCityGroups()
	starts := make([]board.Coord, 0, len(groups))
	for _, group := range groups {
		starts = append(starts, group.Center)
	}
	return starts
}

func (e *optionEnumerator) upgradeOptions(view snapshot.PlayerView) []planning.FeasibleOption {
	var options []planning.FeasibleOption
	for _, upgrade := range view.TrainType.UpgradeOptions() {
		options = append(options, planning.NewUpgradeOption(planning.UpgradeParams{
			Target: upgrade.To,
			Kind:   upgrade.Kind,
			Cost:   upgrade.Cost,
		}))
	}
	return options
}

func carriesLoad(carried []loads.LoadType, load loads.LoadType) bool {
	for _, l := range carried {
		if l == load {
			return true
		}
	}
	return false
}

func cityNameAt(topo *board.Topology, coord board.Coord) string {
	if point, ok := topo.PointAt(coord); ok && point.CityName != "" {
		return point.CityName
	}
	if name, ok := topo.MajorCityAt(coord); ok {
		return name
	}
	return ""
}

func segmentsCost(segments []track.Segment) shared.Money {
	total := shared.Money(0)
	for _, s := range segments {
		total = total.Add(s.Cost)
	}
	return total
}

// pathSteps counts mileposts moved along a path that includes the start
func pathSteps(path []board.Coord) int {
	if len(path) == 0 {
		return 0
	}
	return len(path) - 1
}
