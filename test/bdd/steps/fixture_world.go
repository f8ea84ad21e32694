package steps

import (
	"fmt"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/cards"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/test/helpers"
)

// The corridor board is a closed strip: water on both ends, Essen and Paris
// joined by one clear milepost. With no open terrain and no major cities the
// only actions a bot can take on it are moving and delivering, which keeps
// the delivery scenarios deterministic.
//
//	~~~~   Essen   (0,2)   Paris   ~~~~
var (
	corridorEssen = board.Coord{Row: 0, Col: 1}
	corridorMid   = board.Coord{Row: 0, Col: 2}
	corridorParis = board.Coord{Row: 0, Col: 3}
)

func corridorWorld() (*helpers.StaticWorldData, error) {
	topo, err := board.NewTopology([]board.GridPoint{
		{ID: 1, Coord: board.Coord{Row: 0, Col: 0}, Terrain: board.TerrainWater},
		{ID: 2, Coord: corridorEssen, Terrain: board.TerrainSmallCity, CityName: "Essen"},
		{ID: 3, Coord: corridorMid, Terrain: board.TerrainClear},
		{ID: 4, Coord: corridorParis, Terrain: board.TerrainSmallCity, CityName: "Paris"},
		{ID: 5, Coord: board.Coord{Row: 0, Col: 4}, Terrain: board.TerrainWater},
	})
	if err != nil {
		return nil, fmt.Errorf("corridor topology: %w", err)
	}

	// Lyon is not on the board, so every demand pointing there stays out of
	// the plan. Coal has a single token; a bot carrying it dries the supply.
	specs := []struct {
		id      int
		demands [cards.DemandsPerCard]cards.Demand
	}{
		{42, [cards.DemandsPerCard]cards.Demand{
			{City: "Paris", Load: loads.Coal, Payment: 15},
			{City: "Lyon", Load: loads.Wine, Payment: 9},
			{City: "Lyon", Load: loads.Cheese, Payment: 20},
		}},
		{43, [cards.DemandsPerCard]cards.Demand{
			{City: "Lyon", Load: loads.Wine, Payment: 12},
			{City: "Lyon", Load: loads.Cheese, Payment: 26},
			{City: "Lyon", Load: loads.Wine, Payment: 8},
		}},
		{44, [cards.DemandsPerCard]cards.Demand{
			{City: "Lyon", Load: loads.Cheese, Payment: 16},
			{City: "Lyon", Load: loads.Wine, Payment: 10},
			{City: "Lyon", Load: loads.Coal, Payment: 13},
		}},
		{45, [cards.DemandsPerCard]cards.Demand{
			{City: "Lyon", Load: loads.Wine, Payment: 11},
			{City: "Lyon", Load: loads.Cheese, Payment: 9},
			{City: "Lyon", Load: loads.Wine, Payment: 7},
		}},
		{46, [cards.DemandsPerCard]cards.Demand{
			{City: "Lyon", Load: loads.Cheese, Payment: 13},
			{City: "Lyon", Load: loads.Wine, Payment: 6},
			{City: "Lyon", Load: loads.Wine, Payment: 5},
		}},
	}
	deckCards := make([]cards.DemandCard, 0, len(specs))
	for _, spec := range specs {
		card, err := cards.NewDemandCard(spec.id, spec.demands)
		if err != nil {
			return nil, fmt.Errorf("corridor card %d: %w", spec.id, err)
		}
		deckCards = append(deckCards, card)
	}
	deck, err := cards.NewDeck(deckCards)
	if err != nil {
		return nil, fmt.Errorf("corridor deck: %w", err)
	}

	registry, err := loads.NewRegistry([]loads.Config{
		{Type: loads.Coal, Total: 1, Cities: []string{"Essen"}},
		{Type: loads.Wine, Total: 2, Cities: []string{"Lyon"}},
		{Type: loads.Cheese, Total: 2, Cities: []string{"Lyon"}},
	})
	if err != nil {
		return nil, fmt.Errorf("corridor registry: %w", err)
	}

	return helpers.NewStaticWorldData(topo, deck, registry), nil
}

// fixtureTopology is the open board the build scenarios run on: a small-city
// corridor on row 0, major city Berlin (center plus one outpost) on row 1 and
// open terrain below. (1,4) is water.
func fixtureTopology() (*board.Topology, error) {
	return board.NewTopology([]board.GridPoint{
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
	})
}
