package pathfinding

import (
	"container/heap"
	"fmt"
	"math"
	"sort"

	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
)

// GridPathfinder runs the two searches the planner needs on the hex grid: a
// terrain-priced Dijkstra over buildable mileposts for track extensions and
// a breadth-first search over the player's own network for train movement.
// Both searches are deterministic: ties resolve by coordinate order, never
// by map iteration.
type GridPathfinder struct {
	topo *board.Topology
}

var _ ports.Pathfinder = (*GridPathfinder)(nil)

func NewGridPathfinder(topo *board.Topology) *GridPathfinder {
	return &GridPathfinder{topo: topo}
}

// BuildExpansion grows the network outward and returns the run reaching the
// settled milepost with the most new track, cheapest first on ties.
func (p *GridPathfinder) BuildExpansion(network *track.Network, starts []board.Coord, budget shared.Money, maxSegments int) ([]track.Segment, error) {
	if budget <= 0 || maxSegments <= 0 {
		return nil, nil
	}
	settled := p.search(network, starts, budget, maxSegments)

	var best *buildNode
	for _, node := range settled {
		if node.newSegments == 0 {
			continue
		}
		if better(node, best) {
			best = node
		}
	}
	if best == nil {
		return nil, nil
	}
	return p.pathSegments(network, best)
}

// BuildToward aims the run at the named major city. When no milepost of the
// city is affordable this turn the run still makes progress: it heads for
// the settled milepost closest to the city, and reaches stays false.
func (p *GridPathfinder) BuildToward(network *track.Network, starts []board.Coord, city string, budget shared.Money, maxSegments int) ([]track.Segment, bool, error) {
	targets := p.topo.CityCoords(city)
	if len(targets) == 0 {
		return nil, false, fmt.Errorf("unknown city %q", city)
	}
	if budget <= 0 || maxSegments <= 0 {
		return nil, false, nil
	}
	settled := p.search(network, starts, budget, maxSegments)

	var arrival *buildNode
	for _, target := range targets {
		node, ok := settled[target]
		if !ok {
			continue
		}
		if arrival == nil || node.cost < arrival.cost ||
			(node.cost == arrival.cost && lessCoord(node.coord, arrival.coord)) {
			arrival = node
		}
	}
	if arrival != nil {
		if arrival.newSegments == 0 {
			// The network already touches the city.
			return nil, true, nil
		}
		segments, err := p.pathSegments(network, arrival)
		if err != nil {
			return nil, false, err
		}
		return segments, true, nil
	}

	approach := p.closestApproach(settled, targets)
	if approach == nil {
		return nil, false, nil
	}
	segments, err := p.pathSegments(network, approach)
	if err != nil {
		return nil, false, err
	}
	return segments, false, nil
}

// MovePath finds the fewest-milepost route to any milepost of the city over
// the train's own network. Major city interiors are traversable without
// built track: center and outposts connect on the printed map.
func (p *GridPathfinder) MovePath(network *track.Network, from board.Coord, city string, maxSteps int) ([]board.Coord, bool) {
	targets := make(map[board.Coord]bool)
	for _, c := range p.topo.CityCoords(city) {
		targets[c] = true
	}
	if len(targets) == 0 {
		return nil, false
	}
	if targets[from] {
		return []board.Coord{from}, true
	}
	if maxSteps <= 0 {
		return nil, false
	}

	graph := p.moveGraph(network)
	parents := map[board.Coord]board.Coord{from: from}
	frontier := []board.Coord{from}

	for depth := 0; depth < maxSteps && len(frontier) > 0; depth++ {
		var next []board.Coord
		for _, current := range frontier {
			neighbors := graph.Neighbors(current)
			sort.Slice(neighbors, func(i, j int) bool { return lessCoord(neighbors[i], neighbors[j]) })
			for _, nb := range neighbors {
				if _, seen := parents[nb]; seen {
					continue
				}
				parents[nb] = current
				if targets[nb] {
					return reconstructPath(parents, from, nb), true
				}
				next = append(next, nb)
			}
		}
		frontier = next
	}
	return nil, false
}

// buildNode is one settled milepost of the build search. parent links trace
// the cheapest path back to a seed.
type buildNode struct {
	coord       board.Coord
	cost        shared.Money
	newSegments int
	parent      *buildNode
}

// search runs the multi-source Dijkstra. Every node of the network seeds at
// cost zero alongside the explicit starts; owned edges stay free during
// expansion, new edges pay the destination terrain. Mileposts beyond the
// budget or the segment cap are never settled.
func (p *GridPathfinder) search(network *track.Network, starts []board.Coord, budget shared.Money, maxSegments int) map[board.Coord]*buildNode {
	settled := make(map[board.Coord]*buildNode)
	queue := &buildQueue{}

	for _, seed := range p.seedCoords(network, starts) {
		heap.Push(queue, &buildNode{coord: seed})
	}

	for queue.Len() > 0 {
		current := heap.Pop(queue).(*buildNode)
		if _, done := settled[current.coord]; done {
			continue
		}
		settled[current.coord] = current

		for _, next := range p.topo.Neighbors(current.coord) {
			if _, done := settled[next]; done {
				continue
			}
			stepCost, newSegment, ok := p.priceStep(network, current.coord, next)
			if !ok {
				continue
			}
			cost := current.cost.Add(stepCost)
			if cost > budget {
				continue
			}
			newSegments := current.newSegments
			if newSegment {
				newSegments++
			}
			if newSegments > maxSegments {
				continue
			}
			heap.Push(queue, &buildNode{coord: next, cost: cost, newSegments: newSegments, parent: current})
		}
	}
	return settled
}

// priceStep prices the edge from->to. Owned edges are free; new edges pay
// the destination terrain and may not cross water or run between mileposts
// of the same major city.
func (p *GridPathfinder) priceStep(network *track.Network, from, to board.Coord) (cost shared.Money, newSegment, ok bool) {
	if network.HasEdge(from, to) {
		return 0, false, true
	}
	if p.topo.SameMajorCity(from, to) {
		return 0, false, false
	}
	terrain, exists := p.topo.TerrainAt(to)
	if !exists {
		return 0, false, false
	}
	price, buildable := terrain.BuildCost()
	if !buildable {
		return 0, false, false
	}
	return price, true, true
}

// seedCoords collects the network's mileposts plus the explicit starts, in
// coordinate order.
func (p *GridPathfinder) seedCoords(network *track.Network, starts []board.Coord) []board.Coord {
	seen := make(map[board.Coord]bool)
	var seeds []board.Coord
	add := func(c board.Coord) {
		if seen[c] {
			return
		}
		if _, ok := p.topo.PointAt(c); !ok {
			return
		}
		seen[c] = true
		seeds = append(seeds, c)
	}
	for _, s := range network.Segments() {
		add(s.From)
		add(s.To)
	}
	for _, c := range starts {
		add(c)
	}
	sort.Slice(seeds, func(i, j int) bool { return lessCoord(seeds[i], seeds[j]) })
	return seeds
}

// pathSegments rebuilds the new segments along the settled node's path, in
// build order from the seed outward. Owned edges on the path emit nothing.
func (p *GridPathfinder) pathSegments(network *track.Network, node *buildNode) ([]track.Segment, error) {
	var reversed []track.Segment
	for n := node; n.parent != nil; n = n.parent {
		if network.HasEdge(n.parent.coord, n.coord) {
			continue
		}
		segment, err := track.NewSegment(p.topo, n.parent.coord, n.coord)
		if err != nil {
			return nil, fmt.Errorf("search produced an unbuildable segment: %w", err)
		}
		reversed = append(reversed, segment)
	}
	segments := make([]track.Segment, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		segments = append(segments, reversed[i])
	}
	return segments, nil
}

// closestApproach picks the settled node with new track that ends nearest
// the city. Building that moves no closer than the existing network is not
// progress, so it returns nil instead.
func (p *GridPathfinder) closestApproach(settled map[board.Coord]*buildNode, targets []board.Coord) *buildNode {
	networkDist := math.MaxFloat64
	for _, node := range settled {
		if node.newSegments == 0 {
			if d := p.distanceTo(node.coord, targets); d < networkDist {
				networkDist = d
			}
		}
	}

	var best *buildNode
	bestDist := math.MaxFloat64
	for _, node := range settled {
		if node.newSegments == 0 {
			continue
		}
		dist := p.distanceTo(node.coord, targets)
		if dist < bestDist || (dist == bestDist && better(node, best)) {
			best = node
			bestDist = dist
		}
	}
	if best == nil || bestDist >= networkDist {
		return nil
	}
	return best
}

func (p *GridPathfinder) distanceTo(c board.Coord, targets []board.Coord) float64 {
	x, y := p.topo.GridToPixel(c)
	best := math.MaxFloat64
	for _, t := range targets {
		tx, ty := p.topo.GridToPixel(t)
		dx, dy := tx-x, ty-y
		if d := dx*dx + dy*dy; d < best {
			best = d
		}
	}
	return best
}

// moveGraph overlays the free interior edges of every major city on a copy
// of the player's network.
func (p *GridPathfinder) moveGraph(network *track.Network) *track.Network {
	graph := network.Clone()
	for _, group := range p.topo.MajorCityGroups() {
		for _, outpost := range group.Outposts {
			graph.AddEdge(group.Center, outpost)
		}
	}
	return graph
}

// better ranks expansion candidates: most new track first, then cheapest,
// then coordinate order so equal searches return equal runs.
func better(candidate, current *buildNode) bool {
	if current == nil {
		return true
	}
	if candidate.newSegments != current.newSegments {
		return candidate.newSegments > current.newSegments
	}
	if candidate.cost != current.cost {
		return candidate.cost < current.cost
	}
	return lessCoord(candidate.coord, current.coord)
}

func lessCoord(a, b board.Coord) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}

func reconstructPath(parents map[board.Coord]board.Coord, from, to board.Coord) []board.Coord {
	var reversed []board.Coord
	for c := to; ; c = parents[c] {
		reversed = append(reversed, c)
		if c == from {
			break
		}
	}
	path := make([]board.Coord, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}
	return path
}

type buildQueue []*buildNode

func (q buildQueue) Len() int { return len(q) }

func (q buildQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return lessCoord(q[i].coord, q[j].coord)
}

func (q buildQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *buildQueue) Push(x interface{}) {
	*q = append(*q, x.(*buildNode))
}

func (q *buildQueue) Pop() interface{} {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return node
}
