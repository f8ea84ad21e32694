package planning

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/cards"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/snapshot"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
)

// The test board: a small-city corridor on row 0 with major city Berlin
// (center plus one outpost) on row 1 and open terrain below. (1,4) is water.
//
//	(0,0)   Essen   (0,2)   Paris   (0,4)
//	   (1,0)  Berlin  Berlin* (1,3)  ~~~~
//	(2,0)   (2,1)   (2,2)   (2,3)   (2,4)
func testTopology(t *testing.T) *board.Topology {
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
	require.NoError(t, err)
	return topo
}

func testDeck(t *testing.T) *cards.Deck {
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
	}

	deck := make([]cards.DemandCard, 0, len(specs))
	for _, spec := range specs {
		card, err := cards.NewDemandCard(spec.id, spec.demands)
		require.NoError(t, err)
		deck = append(deck, card)
	}
	d, err := cards.NewDeck(deck)
	require.NoError(t, err)
	return d
}

func testRegistry(t *testing.T) *loads.Registry {
	t.Helper()

	registry, err := loads.NewRegistry([]loads.Config{
		{Type: loads.Coal, Total: 4, Cities: []string{"Essen"}},
		{Type: loads.Wine, Total: 3, Cities: []string{"Paris"}},
		{Type: loads.Cheese, Total: 2, Cities: []string{"Berlin"}},
		{Type: loads.Wheat, Total: 3, Cities: []string{"Paris", "Essen"}},
	})
	require.NoError(t, err)
	return registry
}

func testSegment(t *testing.T, topo *board.Topology, from, to board.Coord) track.Segment {
	t.Helper()
	s, err := track.NewSegment(topo, from, to)
	require.NoError(t, err)
	return s
}

// baseData is the default capture: the bot holds cards 7, 8 and 9, carries
// one Coal, stands at Essen and owns track Essen-(0,2)-Paris. One human
// opponent sits at seat 0.
func baseData(t *testing.T, topo *board.Topology, deck *cards.Deck) snapshot.Data {
	t.Helper()

	essen := board.Coord{Row: 0, Col: 1}
	handIDs := []int{7, 8, 9}
	hand := make([]cards.DemandCard, 0, len(handIDs))
	for _, id := range handIDs {
		card, err := deck.Card(id)
		require.NoError(t, err)
		hand = append(hand, card)
	}

	botSegments := []track.Segment{
		testSegment(t, topo, board.Coord{Row: 0, Col: 1}, board.Coord{Row: 0, Col: 2}),
		testSegment(t, topo, board.Coord{Row: 0, Col: 2}, board.Coord{Row: 0, Col: 3}),
	}

	return snapshot.Data{
		GameID:             shared.MustNewGameID("game-planning"),
		GameStatus:         game.StatusActive,
		CurrentPlayerIndex: 1,
		MaxPlayers:         2,
		Players: []snapshot.PlayerView{
			{
				ID: shared.MustNewPlayerID(1), Name: "Ada", Color: "#1f77b4",
				Money: 50, TrainType: train.Freight, TurnNumber: 3, IsOnline: true,
			},
			{
				ID: shared.MustNewPlayerID(2), Name: "Bot", Color: "#d62728", IsBot: true,
				Money: 50, TrainType: train.Freight, Position: &essen,
				Loads: []loads.LoadType{loads.Coal}, TurnNumber: 3,
			},
		},
		Tracks: []snapshot.TrackView{
			{PlayerID: shared.MustNewPlayerID(2), Segments: botSegments, TotalCost: 4, TurnBuildCost: 0},
		},
		Bot: snapshot.BotView{
			PlayerID:  shared.MustNewPlayerID(2),
			SeatIndex: 1,
			Config: player.BotConfig{
				Archetype: player.ArchetypeFreightOptimizer,
				Skill:     player.SkillMedium,
			},
			Hand:              hand,
			RemainingMovement: 9,
		},
		LoadAvailability: map[loads.LoadType]int{
			loads.Coal: 3, loads.Wine: 3, loads.Cheese: 2, loads.Wheat: 3,
		},
		DroppedLoads:    map[board.Coord][]loads.LoadType{},
		ConnectedCities: map[string]bool{"Berlin": false},
		Tick:            1,
	}
}

func buildSnapshot(t *testing.T, mutate func(*snapshot.Data)) *snapshot.WorldSnapshot {
	t.Helper()

	topo := testTopology(t)
	deck := testDeck(t)
	data := baseData(t, topo, deck)
	if mutate != nil {
		mutate(&data)
	}
	snap, err := snapshot.New(data, topo, deck, testRegistry(t))
	require.NoError(t, err)
	return snap
}

func botView(t *testing.T, snap *snapshot.WorldSnapshot) snapshot.PlayerView {
	t.Helper()
	view, ok := snap.PlayerByID(snap.Bot().PlayerID)
	require.True(t, ok)
	return view
}
