package ports

import (
	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
)

// Pathfinder computes track extensions and train routes over the hex grid.
// Implementations never treat an unreachable target as an error: empty
// segments or ok=false mean "no route" and the planner turns that into a
// rejected option instead of failing the turn.
type Pathfinder interface {
	// BuildExpansion returns the best affordable contiguous run of new
	// segments growing the network outward from the given starts. Edges the
	// network already owns cost nothing to traverse.
	BuildExpansion(network *track.Network, starts []board.Coord, budget shared.Money, maxSegments int) ([]track.Segment, error)

	// BuildToward aims the run at the named major city instead of open
	// expansion. reaches reports whether the emitted prefix arrives at the
	// city within budget and maxSegments.
	BuildToward(network *track.Network, starts []board.Coord, city string, budget shared.Money, maxSegments int) (segments []track.Segment, reaches bool, err error)

	// MovePath returns the shortest on-network route from the train's
	// milepost to any milepost of the city, starting milepost included,
	// bounded by maxSteps mileposts of travel.
	MovePath(network *track.Network, from board.Coord, city string, maxSteps int) ([]board.Coord, bool)
}
