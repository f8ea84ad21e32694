package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/railbot-go/internal/adapters/pathfinding"
	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
)

// buildingContext runs the expansion search and segment rules against small
// hand-laid boards.
type buildingContext struct {
	topo *board.Topology

	run    []track.Segment
	segErr error
	laid   *track.Network
}

func (c *buildingContext) reset() {
	c.topo = nil
	c.run = nil
	c.segErr = nil
	c.laid = nil
}

func (c *buildingContext) theFixtureBoard() error {
	topo, err := fixtureTopology()
	if err != nil {
		return err
	}
	c.topo = topo
	return nil
}

// aBoardWithMajorCity lays out the smallest board that still has a two-point
// major city with legal approaches from outside it.
func (c *buildingContext) aBoardWithMajorCity(name string, centerRow, centerCol, outpostRow, outpostCol int) error {
	center := board.Coord{Row: centerRow, Col: centerCol}
	outpost := board.Coord{Row: outpostRow, Col: outpostCol}
	topo, err := board.NewTopology([]board.GridPoint{
		{ID: 1, Coord: board.Coord{Row: outpostRow, Col: outpostCol - 1}, Terrain: board.TerrainClear},
		{ID: 2, Coord: outpost, Terrain: board.TerrainMajorCityOutpost, CityName: name},
		{ID: 3, Coord: center, Terrain: board.TerrainMajorCity, CityName: name},
		{ID: 4, Coord: board.Coord{Row: centerRow - 1, Col: centerCol}, Terrain: board.TerrainClear},
	})
	if err != nil {
		return err
	}
	c.topo = topo
	return nil
}

func (c *buildingContext) theBuildSearchGrowsFromParisWithABudget(budget int) error {
	paris := board.Coord{Row: 0, Col: 3}
	run, err := pathfinding.NewGridPathfinder(c.topo).BuildExpansion(
		track.NewNetwork(), []board.Coord{paris}, shared.Money(budget), 9,
	)
	if err != nil {
		return err
	}
	c.run = run
	return nil
}

func (c *buildingContext) theRunFormsAContiguousChainStartingAtParis() error {
	if len(c.run) == 0 {
		return fmt.Errorf("the search returned no segments")
	}
	paris := board.Coord{Row: 0, Col: 3}
	if c.run[0].From != paris {
		return fmt.Errorf("expected the run to start at %v, got %v", paris, c.run[0].From)
	}
	for i := 1; i < len(c.run); i++ {
		if c.run[i].From != c.run[i-1].To {
			return fmt.Errorf("segment %d starts at %v but the previous one ends at %v",
				i, c.run[i].From, c.run[i-1].To)
		}
	}
	return nil
}

func (c *buildingContext) theRunsTotalCostIsAtMost(budget int) error {
	total := shared.Money(0)
	for _, seg := range c.run {
		total = total.Add(seg.Cost)
	}
	if total > shared.Money(budget) {
		return fmt.Errorf("run costs %s, budget is %d", total, budget)
	}
	return nil
}

func (c *buildingContext) noSegmentEndsInWater() error {
	for _, seg := range c.run {
		for _, end := range []board.Coord{seg.From, seg.To} {
			terrain, ok := c.topo.TerrainAt(end)
			if !ok {
				return fmt.Errorf("segment endpoint %v is off the board", end)
			}
			if terrain == board.TerrainWater {
				return fmt.Errorf("segment %v-%v touches water", seg.From, seg.To)
			}
		}
	}
	return nil
}

func (c *buildingContext) noSegmentInsideOneMajorCity() error {
	for _, seg := range c.run {
		if c.topo.SameMajorCity(seg.From, seg.To) {
			return fmt.Errorf("segment %v-%v runs inside a major city", seg.From, seg.To)
		}
	}
	return nil
}

func (c *buildingContext) aSegmentIsLaid(fromRow, fromCol, toRow, toCol int) error {
	_, c.segErr = track.NewSegment(c.topo,
		board.Coord{Row: fromRow, Col: fromCol},
		board.Coord{Row: toRow, Col: toCol},
	)
	return nil
}

func (c *buildingContext) theSegmentIsRejected() error {
	if c.segErr == nil {
		return fmt.Errorf("expected the segment to be rejected")
	}
	return nil
}

func (c *buildingContext) trackReachingOutpostAndCenter(outpostRow, outpostCol, centerRow, centerCol int) error {
	toOutpost, err := track.NewSegment(c.topo,
		board.Coord{Row: outpostRow, Col: outpostCol - 1},
		board.Coord{Row: outpostRow, Col: outpostCol},
	)
	if err != nil {
		return err
	}
	toCenter, err := track.NewSegment(c.topo,
		board.Coord{Row: centerRow - 1, Col: centerCol},
		board.Coord{Row: centerRow, Col: centerCol},
	)
	if err != nil {
		return err
	}
	c.laid = track.NewNetworkFromSegments([]track.Segment{toOutpost, toCenter})
	return nil
}

func (c *buildingContext) theTrackCountsConnectedMajorCities(expected int) error {
	count := 0
	for _, group := range c.topo.MajorCityGroups() {
		for _, member := range group.Members() {
			if c.laid.HasNode(member) {
				count++
				break
			}
		}
	}
	if count != expected {
		return fmt.Errorf("expected %d connected major cities, got %d", expected, count)
	}
	return nil
}

// InitializeBuildingScenario registers the track building steps
func InitializeBuildingScenario(sc *godog.ScenarioContext) {
	c := &buildingContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^the fixture board$`, c.theFixtureBoard)
	sc.Step(`^a board with major city (\w+) centered at \((\d+),(\d+)\) with outpost \((\d+),(\d+)\)$`, c.aBoardWithMajorCity)
	sc.Step(`^the build search grows from Paris with a budget of (\d+)$`, c.theBuildSearchGrowsFromParisWithABudget)
	sc.Step(`^the run forms a contiguous chain starting at Paris$`, c.theRunFormsAContiguousChainStartingAtParis)
	sc.Step(`^the run's total cost is at most (\d+)$`, c.theRunsTotalCostIsAtMost)
	sc.Step(`^no segment of the run ends in water$`, c.noSegmentEndsInWater)
	sc.Step(`^no segment of the run connects two mileposts of the same major city$`, c.noSegmentInsideOneMajorCity)
	sc.Step(`^a segment from \((\d+),(\d+)\) to \((\d+),(\d+)\) is laid$`, c.aSegmentIsLaid)
	sc.Step(`^the segment is rejected$`, c.theSegmentIsRejected)
	sc.Step(`^track reaching the outpost at \((\d+),(\d+)\) and the center at \((\d+),(\d+)\)$`, c.trackReachingOutpostAndCenter)
	sc.Step(`^the track counts (\d+) connected major city$`, c.theTrackCountsConnectedMajorCities)
}
