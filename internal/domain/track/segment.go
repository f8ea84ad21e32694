package track

import (
	"fmt"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// Segment is one built edge of track between two adjacent mileposts.
// Cost is the build cost of the destination milepost's terrain.
type Segment struct {
	From board.Coord `json:"from"`
	To   board.Coord `json:"to"`
	Cost shared.Money `json:"cost"`
}

// NewSegment validates a candidate edge against the board. The two
// mileposts must be hex neighbors, the destination must be buildable
// terrain, and both ends may not belong to the same major city since its
// center and outposts are already connected by the printed map.
func NewSegment(topo *board.Topology, from, to board.Coord) (Segment, error) {
	if !topo.Adjacent(from, to) {
		return Segment{}, shared.NewInvalidSegmentError(fmt.Sprintf("mileposts %s and %s are not adjacent", from, to))
	}
	terrain, ok := topo.TerrainAt(to)
	if !ok {
		return Segment{}, shared.NewInvalidSegmentError(fmt.Sprintf("no milepost at %s", to))
	}
	cost, buildable := terrain.BuildCost()
	if !buildable {
		return Segment{}, shared.NewInvalidSegmentError(fmt.Sprintf("cannot build into water at %s", to))
	}
	if topo.SameMajorCity(from, to) {
		return Segment{}, shared.NewInvalidSegmentError(fmt.Sprintf("mileposts %s and %s are inside the same major city", from, to))
	}
	return Segment{From: from, To: to, Cost: cost}, nil
}

// Key returns an order-independent identity for the edge so the same
// physical track stored as (a,b) or (b,a) dedupes to one entry.
func (s Segment) Key() string {
	a, b := s.From, s.To
	if b.Row < a.Row || (b.Row == a.Row && b.Col < a.Col) {
		a, b = b, a
	}
	return fmt.Sprintf("%d,%d-%d,%d", a.Row, a.Col, b.Row, b.Col)
}

func (s Segment) String() string {
	return fmt.Sprintf("%s->%s (%s)", s.From, s.To, s.Cost)
}
