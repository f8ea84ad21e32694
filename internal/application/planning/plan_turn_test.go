package planning_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/adapters/pathfinding"
	appPlanning "github.com/andrescamacho/railbot-go/internal/application/planning"
	"github.com/andrescamacho/railbot-go/internal/application/snapshotting"
	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/cards"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/planning"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/snapshot"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
	"github.com/andrescamacho/railbot-go/test/helpers"
)

// closedWorld is a strip board with water on both ends: Essen and Paris
// joined by one clear milepost, no major cities, no open terrain. Every
// demand except card 7's first one points at Lyon, which is not on the
// board, so the only productive action is delivering to Paris.
func closedWorld(t *testing.T) *helpers.StaticWorldData {
	t.Helper()

	topo, err := board.NewTopology([]board.GridPoint{
		{ID: 1, Coord: board.Coord{Row: 0, Col: 0}, Terrain: board.TerrainWater},
		{ID: 2, Coord: board.Coord{Row: 0, Col: 1}, Terrain: board.TerrainSmallCity, CityName: "Essen"},
		{ID: 3, Coord: board.Coord{Row: 0, Col: 2}, Terrain: board.TerrainClear},
		{ID: 4, Coord: board.Coord{Row: 0, Col: 3}, Terrain: board.TerrainSmallCity, CityName: "Paris"},
		{ID: 5, Coord: board.Coord{Row: 0, Col: 4}, Terrain: board.TerrainWater},
	})
	require.NoError(t, err)

	specs := []struct {
		id      int
		demands [cards.DemandsPerCard]cards.Demand
	}{
		{7, [cards.DemandsPerCard]cards.Demand{
			{City: "Paris", Load: loads.Coal, Payment: 15},
			{City: "Lyon", Load: loads.Wine, Payment: 9},
			{City: "Lyon", Load: loads.Cheese, Payment: 20},
		}},
		{8, [cards.DemandsPerCard]cards.Demand{
			{City: "Lyon", Load: loads.Wine, Payment: 12},
			{City: "Lyon", Load: loads.Cheese, Payment: 26},
			{City: "Lyon", Load: loads.Wine, Payment: 8},
		}},
		{9, [cards.DemandsPerCard]cards.Demand{
			{City: "Lyon", Load: loads.Cheese, Payment: 16},
			{City: "Lyon", Load: loads.Wine, Payment: 10},
			{City: "Lyon", Load: loads.Coal, Payment: 13},
		}},
	}
	deckCards := make([]cards.DemandCard, 0, len(specs))
	for _, spec := range specs {
		card, err := cards.NewDemandCard(spec.id, spec.demands)
		require.NoError(t, err)
		deckCards = append(deckCards, card)
	}
	deck, err := cards.NewDeck(deckCards)
	require.NoError(t, err)

	registry, err := loads.NewRegistry([]loads.Config{
		{Type: loads.Coal, Total: 1, Cities: []string{"Essen"}},
		{Type: loads.Wine, Total: 2, Cities: []string{"Lyon"}},
		{Type: loads.Cheese, Total: 2, Cities: []string{"Lyon"}},
	})
	require.NoError(t, err)

	return helpers.NewStaticWorldData(topo, deck, registry)
}

// captureFor freezes a snapshot of a two-seat game whose bot seat is spec,
// over the given world and track pairs.
func captureFor(t *testing.T, world *helpers.StaticWorldData, spec helpers.SeatSpec, trackPairs ...[2]board.Coord) *snapshot.WorldSnapshot {
	t.Helper()

	games := helpers.NewMockGameRepository()
	players := helpers.NewMockPlayerRepository()
	tracks := helpers.NewMockTrackRepository()
	clock := shared.NewMockClock(helpers.FixtureTime)

	g := helpers.ActiveGame(t, "game-1", 2)
	require.NoError(t, g.SetCurrentSeat(1, helpers.FixtureTime))
	games.AddGame(g)

	players.AddPlayer(helpers.RestoredSeat(t, "game-1", helpers.SeatSpec{
		ID: 1, Name: "Ada", Color: "#1f77b4", UserID: "user-1",
		Money: 50, Turn: 3, Online: true,
	}))
	spec.ID = 2
	players.AddPlayer(helpers.RestoredSeat(t, "game-1", spec))

	if len(trackPairs) > 0 {
		tracks.AddState(helpers.TrackState(t, world.Topology(), "game-1", 2, trackPairs...))
	}

	capture := snapshotting.NewCaptureSnapshotHandler(games, players, tracks, world, clock)
	response, err := capture.Handle(context.Background(), &snapshotting.CaptureSnapshotQuery{
		GameID:   shared.MustNewGameID("game-1"),
		PlayerID: shared.MustNewPlayerID(2),
	})
	require.NoError(t, err)
	return response.(*snapshotting.CaptureSnapshotResponse).Snapshot
}

func planFor(t *testing.T, world *helpers.StaticWorldData, snap *snapshot.WorldSnapshot, seed int64) *appPlanning.PlanTurnResponse {
	t.Helper()

	handler := appPlanning.NewPlanTurnHandler(pathfinding.NewGridPathfinder(world.Topology()))
	response, err := handler.Handle(context.Background(), &appPlanning.PlanTurnQuery{
		Snapshot: snap,
		Seed:     seed,
	})
	require.NoError(t, err)
	return response.(*appPlanning.PlanTurnResponse)
}

func TestPlanTurnDeliversWhenTheTrackReachesTheDemand(t *testing.T) {
	world := closedWorld(t)
	essen := board.Coord{Row: 0, Col: 1}
	snap := captureFor(t, world, helpers.SeatSpec{
		Name: "Bot", Color: "#d62728",
		Bot:      &player.BotConfig{Archetype: player.ArchetypeFreightOptimizer, Skill: player.SkillHard},
		Money:    50,
		Train:    train.Superfreight,
		Position: &essen,
		Loads:    []loads.LoadType{loads.Coal},
		Hand:     []int{7, 8, 9},
		Turn:     3,
	},
		[2]board.Coord{{Row: 0, Col: 1}, {Row: 0, Col: 2}},
		[2]board.Coord{{Row: 0, Col: 2}, {Row: 0, Col: 3}},
	)

	resp := planFor(t, world, snap, 42)

	options := resp.Plan.Options()
	require.Len(t, options, 1, "nothing on a closed board can follow a delivery")
	require.Equal(t, planning.ActionDeliverLoad, options[0].Type)
	assert.Equal(t, 7, options[0].Deliver.CardID)
	assert.Equal(t, "Paris", options[0].Deliver.City)
	assert.Equal(t, shared.Money(15), resp.Plan.ExpectedCashChange())

	path := options[0].Deliver.MovePath
	require.NotEmpty(t, path)
	assert.Equal(t, board.Coord{Row: 0, Col: 3}, path[len(path)-1])

	require.NotEmpty(t, resp.Feasible)
	assert.Equal(t, planning.ActionDeliverLoad, resp.Feasible[0].Type, "the delivery outranks passing")
}

func TestPlanTurnRejectsUnroutableDemands(t *testing.T) {
	world := closedWorld(t)
	essen := board.Coord{Row: 0, Col: 1}
	snap := captureFor(t, world, helpers.SeatSpec{
		Name: "Bot", Color: "#d62728",
		Bot:      &player.BotConfig{Archetype: player.ArchetypeFreightOptimizer, Skill: player.SkillHard},
		Money:    50,
		Train:    train.Superfreight,
		Position: &essen,
		Loads:    []loads.LoadType{loads.Coal},
		Hand:     []int{7, 8, 9},
		Turn:     3,
	},
		[2]board.Coord{{Row: 0, Col: 1}, {Row: 0, Col: 2}},
		[2]board.Coord{{Row: 0, Col: 2}, {Row: 0, Col: 3}},
	)

	resp := planFor(t, world, snap, 42)

	require.NotEmpty(t, resp.Rejected)
	sawLyon := false
	for _, opt := range resp.Rejected {
		assert.False(t, opt.Feasible)
		assert.NotEmpty(t, opt.Reason, "every rejection names its blocker")
		if opt.Deliver != nil && opt.Deliver.City == "Lyon" {
			sawLyon = true
			assert.Contains(t, opt.Reason, "no route to Lyon")
		}
	}
	assert.True(t, sawLyon, "the off-board delivery shows up in the rejected side of the audit")
}

func TestPlanTurnIsDeterministicForASeed(t *testing.T) {
	world := helpers.TestWorld(t)
	essen := board.Coord{Row: 0, Col: 1}
	snap := captureFor(t, world, helpers.SeatSpec{
		Name: "Bot", Color: "#d62728",
		Bot:      &player.BotConfig{Archetype: player.ArchetypeOpportunist, Skill: player.SkillMedium},
		Money:    50,
		Position: &essen,
		Loads:    []loads.LoadType{loads.Coal},
		Hand:     []int{7, 8, 9},
		Turn:     3,
	},
		[2]board.Coord{{Row: 0, Col: 1}, {Row: 0, Col: 2}},
		[2]board.Coord{{Row: 0, Col: 2}, {Row: 0, Col: 3}},
	)

	first := planFor(t, world, snap, 99)
	second := planFor(t, world, snap, 99)

	assert.Equal(t, first.Plan.Record(), second.Plan.Record())
	assert.Equal(t, first.Feasible, second.Feasible)
	assert.Equal(t, first.Rejected, second.Rejected)
}

func TestPlanTurnPassesWhenNothingIsWorthDoing(t *testing.T) {
	world := closedWorld(t)
	snap := captureFor(t, world, helpers.SeatSpec{
		Name: "Bot", Color: "#d62728",
		Bot:  &player.BotConfig{Archetype: player.ArchetypeBackboneBuilder, Skill: player.SkillHard},
		Turn: 3,
	})

	resp := planFor(t, world, snap, 7)

	assert.True(t, resp.Plan.IsPass())
	require.NotEmpty(t, resp.Rejected, "the unaffordable upgrades land in the rejected list")
	for _, opt := range resp.Rejected {
		assert.NotEmpty(t, opt.Reason)
	}
}

func TestPlanTurnRequiresASnapshot(t *testing.T) {
	handler := appPlanning.NewPlanTurnHandler(pathfinding.NewGridPathfinder(helpers.TestTopology(t)))

	_, err := handler.Handle(context.Background(), &appPlanning.PlanTurnQuery{Snapshot: nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot is required")
}
