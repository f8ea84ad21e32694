package board

import (
	"fmt"

	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// Terrain classifies a milepost for build pricing
type Terrain string

const (
	TerrainClear            Terrain = "clear"
	TerrainMountain         Terrain = "mountain"
	TerrainAlpine           Terrain = "alpine"
	TerrainSmallCity        Terrain = "smallCity"
	TerrainMediumCity       Terrain = "mediumCity"
	TerrainMajorCity        Terrain = "majorCity"
	TerrainMajorCityOutpost Terrain = "majorCityOutpost"
	TerrainWater            Terrain = "water"
)

// ParseTerrain converts a grid-file type string into a Terrain
func ParseTerrain(s string) (Terrain, error) {
	switch Terrain(s) {
	case TerrainClear, TerrainMountain, TerrainAlpine, TerrainSmallCity,
		TerrainMediumCity, TerrainMajorCity, TerrainMajorCityOutpost, TerrainWater:
		return Terrain(s), nil
	default:
		return "", fmt.Errorf("unknown terrain type: %q", s)
	}
}

// BuildCost returns the cost of building track into a milepost of this
// terrain, in millions. Water is unbuildable and returns ok=false.
// Major-city outposts price the same as the city they belong to.
func (t Terrain) BuildCost() (shared.Money, bool) {
	switch t {
	case TerrainClear:
		return 1, true
	case TerrainMountain:
		return 2, true
	case TerrainAlpine:
		return 5, true
	case TerrainSmallCity, TerrainMediumCity:
		return 3, true
	case TerrainMajorCity, TerrainMajorCityOutpost:
		return 5, true
	case TerrainWater:
		return 0, false
	default:
		return 0, false
	}
}

// IsWater reports whether the terrain is open water
func (t Terrain) IsWater() bool {
	return t == TerrainWater
}

// IsCity reports whether a load can be picked up or delivered at this terrain
func (t Terrain) IsCity() bool {
	switch t {
	case TerrainSmallCity, TerrainMediumCity, TerrainMajorCity, TerrainMajorCityOutpost:
		return true
	default:
		return false
	}
}
