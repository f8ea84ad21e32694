package track

import (
	"github.com/andrescamacho/railbot-go/internal/domain/board"
)

// Network is an undirected adjacency view over a set of track segments.
// Movement and connectivity queries run against it: a train can move along
// any edge in the network it is given (own track plus implicit major city
// interiors), and the build search treats network membership as "already
// paid for".
type Network struct {
	adjacency map[board.Coord]map[board.Coord]bool
	segments  map[string]Segment
}

// NewNetwork builds an empty network
func NewNetwork() *Network {
	return &Network{
		adjacency: make(map[board.Coord]map[board.Coord]bool),
		segments:  make(map[string]Segment),
	}
}

// NewNetworkFromSegments builds a network over existing segments
func NewNetworkFromSegments(segments []Segment) *Network {
	n := NewNetwork()
	for _, s := range segments {
		n.AddSegment(s)
	}
	return n
}

// AddSegment inserts the edge in both directions. Adding the same physical
// edge twice, in either orientation, is a no-op.
func (n *Network) AddSegment(s Segment) {
	key := s.Key()
	if _, exists := n.segments[key]; exists {
		return
	}
	n.segments[key] = s
	n.link(s.From, s.To)
	n.link(s.To, s.From)
}

// AddEdge inserts a zero-cost connection that is not a built segment, used
// for the free edges inside a major city between center and outposts.
func (n *Network) AddEdge(a, b board.Coord) {
	n.link(a, b)
	n.link(b, a)
}

func (n *Network) link(from, to board.Coord) {
	if n.adjacency[from] == nil {
		n.adjacency[from] = make(map[board.Coord]bool)
	}
	n.adjacency[from][to] = true
}

// HasNode reports whether any edge touches the milepost
func (n *Network) HasNode(c board.Coord) bool {
	return len(n.adjacency[c]) > 0
}

// HasEdge reports whether the two mileposts are directly connected
func (n *Network) HasEdge(a, b board.Coord) bool {
	return n.adjacency[a][b]
}

// HasSegment reports whether the physical edge was built, in either orientation
func (n *Network) HasSegment(s Segment) bool {
	_, ok := n.segments[s.Key()]
	return ok
}

// Neighbors returns the mileposts reachable in one step
func (n *Network) Neighbors(c board.Coord) []board.Coord {
	adj := n.adjacency[c]
	if len(adj) == 0 {
		return nil
	}
	out := make([]board.Coord, 0, len(adj))
	for coord := range adj {
		out = append(out, coord)
	}
	return out
}

// NodeCount returns the number of mileposts touched by at least one edge
func (n *Network) NodeCount() int {
	return len(n.adjacency)
}

// SegmentCount returns the number of built segments, free edges excluded
func (n *Network) SegmentCount() int {
	return len(n.segments)
}

// Segments returns the built segments in unspecified order
func (n *Network) Segments() []Segment {
	out := make([]Segment, 0, len(n.segments))
	for _, s := range n.segments {
		out = append(out, s)
	}
	return out
}

// Clone returns an independent copy, used when a planner needs to extend a
// network speculatively without touching the original.
func (n *Network) Clone() *Network {
	clone := NewNetwork()
	for key, s := range n.segments {
		clone.segments[key] = s
	}
	for from, adj := range n.adjacency {
		inner := make(map[board.Coord]bool, len(adj))
		for to := range adj {
			inner[to] = true
		}
		clone.adjacency[from] = inner
	}
	return clone
}

// ConnectedTo reports whether target is reachable from any of the starting
// mileposts by walking edges of the network.
func (n *Network) ConnectedTo(starts []board.Coord, target board.Coord) bool {
	visited := make(map[board.Coord]bool)
	queue := make([]board.Coord, 0, len(starts))
	for _, s := range starts {
		if s == target {
			return true
		}
		if !visited[s] {
			visited[s] = true
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for next := range n.adjacency[current] {
			if next == target {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}
