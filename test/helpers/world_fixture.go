package helpers

import (
	"testing"

	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/cards"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
)

// StaticWorldData bundles the immutable world assets behind the WorldData
// port for tests
type StaticWorldData struct {
	topology *board.Topology
	deck     *cards.Deck
	registry *loads.Registry
}

// NewStaticWorldData wraps pre-built assets
func NewStaticWorldData(topology *board.Topology, deck *cards.Deck, registry *loads.Registry) *StaticWorldData {
	return &StaticWorldData{topology: topology, deck: deck, registry: registry}
}

func (w *StaticWorldData) Topology() *board.Topology { return w.topology }
func (w *StaticWorldData) Deck() *cards.Deck         { return w.deck }
func (w *StaticWorldData) Loads() *loads.Registry    { return w.registry }

// Ensure StaticWorldData implements the ports.WorldData interface
var _ ports.WorldData = (*StaticWorldData)(nil)

// TestWorld builds the standard fixture world shared by application tests:
// a small-city corridor on row 0 with major city Berlin (center plus one
// outpost) on row 1 and open terrain below. (1,4) is water.
//
//	(0,0)   Essen   (0,2)   Paris   (0,4)
//	   (1,0)  Berlin  Berlin* (1,3)  ~~~~
//	(2,0)   (2,1)   (2,2)   (2,3)   (2,4)
func TestWorld(t *testing.T) *StaticWorldData {
	t.Helper()
	return NewStaticWorldData(TestTopology(t), TestDeck(t), TestRegistry(t))
}

// TestTopology builds the fixture board
func TestTopology(t *testing.T) *board.Topology {
	t.Helper()

	points := []board.GridPoint{
		{ID: 1, Coord: board.Coord{Row: 0, Col: 0}, Terrain: board.TerrainClear},
		{ID: 2, Coord: board.Coord{Row: 0, Col: 1}, Terrain: board.TerrainSmallCity, CityName: "Essen"},
		{ID: 3, Coord: board.Coord{Row: 0, Col: 2}, Terrain: board.TerrainClear},
		{ID: 4, Coord: board.Coord{Row: 0, Col: 3}, Terrain: board.TerrainSmallCity, CityName: "Paris"},
		{ID: 5, Coord: board.Coord{Row: 0, Col: 4}, Terrain: board.TerrainClear},
		{ID: 6, Coord: board.Coord{Row: 1, Col: 0}, Terrain: board.TerrainClear},
		{ID: 7, Coord: board.Coord{Row: 1, Col: 1}, Terrain: board.TerrainMajorCity, CityName: "Berlin"},
		{ID: 8, Coord: board.Coord{Row: 1, Col: 2}, Terrain: board.TerrainMajorCityOutpost, CityName: "Berlin"},
		{ID: 9, Coord: board.Coord{Row: 1, Col: 3}, Terrain: board.TerrainMountain},
		{ID: 10, Coord: board.Coord{Row: 1, Col: 4}, Terrain: board.TerrainWater},
		{ID: 11, Coord: board.Coord{Row: 2, Col: 0}, Terrain: board.TerrainClear},
		{ID: 12, Coord: board.Coord{Row: 2, Col: 1}, Terrain: board.TerrainClear},
		{ID: 13, Coord: board.Coord{Row: 2, Col: 2}, Terrain: board.TerrainClear},
		{ID: 14, Coord: board.Coord{Row: 2, Col: 3}, Terrain: board.TerrainAlpine},
		{ID: 15, Coord: board.Coord{Row: 2, Col: 4}, Terrain: board.TerrainClear},
	}
	topo, err := board.NewTopology(points)
	if err != nil {
		t.Fatalf("failed to build fixture topology: %v", err)
	}
	return topo
}

// TestDeck builds the fixture demand deck
func TestDeck(t *testing.T) *cards.Deck {
	t.Helper()

	specs := []struct {
		id      int
		demands [cards.DemandsPerCard]cards.Demand
	}{
		{7, [cards.DemandsPerCard]cards.Demand{
			{City: "Paris", Load: loads.Coal, Payment: 15},
			{City: "Essen", Load: loads.Wine, Payment: 9},
			{City: "Berlin", Load: loads.Cheese, Payment: 20},
		}},
		{8, [cards.DemandsPerCard]cards.Demand{
			{City: "Berlin", Load: loads.Coal, Payment: 30},
			{City: "Paris", Load: loads.Cheese, Payment: 14},
			{City: "Essen", Load: loads.Wheat, Payment: 11},
		}},
		{9, [cards.DemandsPerCard]cards.Demand{
			{City: "Paris", Load: loads.Wine, Payment: 12},
			{City: "Berlin", Load: loads.Wheat, Payment: 26},
			{City: "Essen", Load: loads.Cheese, Payment: 8},
		}},
		{10, [cards.DemandsPerCard]cards.Demand{
			{City: "Essen", Load: loads.Coal, Payment: 6},
			{City: "Paris", Load: loads.Wheat, Payment: 18},
			{City: "Berlin", Load: loads.Wine, Payment: 22},
		}},
		{11, [cards.DemandsPerCard]cards.Demand{
			{City: "Berlin", Load: loads.Cheese, Payment: 16},
			{City: "Essen", Load: loads.Wine, Payment: 10},
			{City: "Paris", Load: loads.Coal, Payment: 13},
		}},
	}

	deck := make([]cards.DemandCard, 0, len(specs))
	for _, spec := range specs {
		card, err := cards.NewDemandCard(spec.id, spec.demands)
		if err != nil {
			t.Fatalf("failed to build fixture card %d: %v", spec.id, err)
		}
		deck = append(deck, card)
	}
	d, err := cards.NewDeck(deck)
	if err != nil {
		t.Fatalf("failed to build fixture deck: %v", err)
	}
	return d
}

// TestRegistry builds the fixture load registry
func TestRegistry(t *testing.T) *loads.Registry {
	t.Helper()

	registry, err := loads.NewRegistry([]loads.Config{
		{Type: loads.Coal, Total: 4, Cities: []string{"Essen"}},
		{Type: loads.Wine, Total: 3, Cities: []string{"Paris"}},
		{Type: loads.Cheese, Total: 2, Cities: []string{"Berlin"}},
		{Type: loads.Wheat, Total: 3, Cities: []string{"Paris", "Essen"}},
	})
	if err != nil {
		t.Fatalf("failed to build fixture registry: %v", err)
	}
	return registry
}
