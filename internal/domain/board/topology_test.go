package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
)

// grid builds a rectangular clear-terrain board for neighbor tests
func grid(rows, cols int) []board.GridPoint {
	var points []board.GridPoint
	id := 1
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			points = append(points, board.GridPoint{
				ID:      id,
				Coord:   board.Coord{Row: r, Col: c},
				Terrain: board.TerrainClear,
			})
			id++
		}
	}
	return points
}

func TestTopology_NeighborsEvenRow(t *testing.T) {
	// Arrange
	topo, err := board.NewTopology(grid(5, 5))
	require.NoError(t, err)

	// Act
	neighbors := topo.Neighbors(board.Coord{Row: 2, Col: 2})

	// Assert
	expected := []board.Coord{
		{Row: 1, Col: 1}, {Row: 1, Col: 2},
		{Row: 2, Col: 1}, {Row: 2, Col: 3},
		{Row: 3, Col: 1}, {Row: 3, Col: 2},
	}
	assert.ElementsMatch(t, expected, neighbors)
}

func TestTopology_NeighborsOddRow(t *testing.T) {
	// Arrange
	topo, err := board.NewTopology(grid(5, 5))
	require.NoError(t, err)

	// Act
	neighbors := topo.Neighbors(board.Coord{Row: 1, Col: 2})

	// Assert
	expected := []board.Coord{
		{Row: 0, Col: 2}, {Row: 0, Col: 3},
		{Row: 1, Col: 1}, {Row: 1, Col: 3},
		{Row: 2, Col: 2}, {Row: 2, Col: 3},
	}
	assert.ElementsMatch(t, expected, neighbors)
}

func TestTopology_NeighborRelationIsSymmetric(t *testing.T) {
	// Arrange
	topo, err := board.NewTopology(grid(6, 6))
	require.NoError(t, err)

	// Act & Assert - every neighbor must list the origin as its own neighbor
	for _, p := range topo.Points() {
		for _, n := range topo.Neighbors(p.Coord) {
			assert.True(t, topo.Adjacent(n, p.Coord),
				"neighbor %s of %s is not symmetric", n, p.Coord)
		}
	}
}

func TestTopology_EdgePointsHaveFewerNeighbors(t *testing.T) {
	topo, err := board.NewTopology(grid(3, 3))
	require.NoError(t, err)

	corner := topo.Neighbors(board.Coord{Row: 0, Col: 0})
	assert.Len(t, corner, 2)
}

func TestTerrain_BuildCost(t *testing.T) {
	cases := []struct {
		terrain board.Terrain
		cost    int
		ok      bool
	}{
		{board.TerrainClear, 1, true},
		{board.TerrainMountain, 2, true},
		{board.TerrainAlpine, 5, true},
		{board.TerrainSmallCity, 3, true},
		{board.TerrainMediumCity, 3, true},
		{board.TerrainMajorCity, 5, true},
		{board.TerrainMajorCityOutpost, 5, true},
		{board.TerrainWater, 0, false},
	}

	for _, tc := range cases {
		cost, ok := tc.terrain.BuildCost()
		assert.Equal(t, tc.ok, ok, "terrain %s", tc.terrain)
		assert.Equal(t, tc.cost, cost.Millions(), "terrain %s", tc.terrain)
	}
}

func TestTopology_MajorCityGrouping(t *testing.T) {
	// Arrange - a center with two named outposts plus an unrelated small city
	points := append(grid(8, 8),
		board.GridPoint{ID: 100, Coord: board.Coord{Row: 5, Col: 5}, Terrain: board.TerrainMajorCity, CityName: "TestCity"},
		board.GridPoint{ID: 101, Coord: board.Coord{Row: 5, Col: 4}, Terrain: board.TerrainMajorCityOutpost, CityName: "TestCity"},
		board.GridPoint{ID: 102, Coord: board.Coord{Row: 4, Col: 5}, Terrain: board.TerrainMajorCityOutpost, CityName: "TestCity"},
		board.GridPoint{ID: 103, Coord: board.Coord{Row: 7, Col: 7}, Terrain: board.TerrainSmallCity, CityName: "Littleton"},
	)
	// shift the plain grid out of the way of the city coords
	for i := range points[:64] {
		points[i].Coord.Row += 10
	}

	topo, err := board.NewTopology(points)
	require.NoError(t, err)

	// Act
	groups := topo.MajorCityGroups()

	// Assert
	require.Len(t, groups, 1)
	assert.Equal(t, "TestCity", groups[0].Name)
	assert.Equal(t, board.Coord{Row: 5, Col: 5}, groups[0].Center)
	assert.Len(t, groups[0].Outposts, 2)

	name, ok := topo.MajorCityAt(board.Coord{Row: 5, Col: 4})
	require.True(t, ok)
	assert.Equal(t, "TestCity", name)

	assert.True(t, topo.SameMajorCity(board.Coord{Row: 5, Col: 5}, board.Coord{Row: 5, Col: 4}))
	assert.False(t, topo.SameMajorCity(board.Coord{Row: 5, Col: 5}, board.Coord{Row: 7, Col: 7}))
}

func TestTopology_OutpostWithoutCenterRejected(t *testing.T) {
	points := []board.GridPoint{
		{ID: 1, Coord: board.Coord{Row: 0, Col: 0}, Terrain: board.TerrainMajorCityOutpost, CityName: "Nowhere"},
	}

	_, err := board.NewTopology(points)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown major city")
}

func TestTopology_GridToPixelShiftsOddRows(t *testing.T) {
	topo, err := board.NewTopology(grid(2, 2))
	require.NoError(t, err)

	x0, y0 := topo.GridToPixel(board.Coord{Row: 0, Col: 1})
	x1, y1 := topo.GridToPixel(board.Coord{Row: 1, Col: 1})

	assert.InDelta(t, 40.0, x0, 0.001)
	assert.InDelta(t, 0.0, y0, 0.001)
	assert.InDelta(t, 60.0, x1, 0.001) // odd rows shift right half a hex
	assert.InDelta(t, 34.64, y1, 0.001)
}
