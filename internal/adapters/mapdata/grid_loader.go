package mapdata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
)

// gridPointRow mirrors one entry of gridPoints.json. Field names follow the
// file, not Go convention: the file is shared with the rendering client.
type gridPointRow struct {
	ID    int    `json:"Id"`
	GridX int    `json:"GridX"`
	GridY int    `json:"GridY"`
	Type  string `json:"Type"`
	Name  string `json:"Name,omitempty"`
	Ocean bool   `json:"Ocean,omitempty"`
}

// LoadTopology reads gridPoints.json and builds the immutable board topology.
// Rows marked Ocean are water regardless of their Type value.
func LoadTopology(path string) (*board.Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid file: %w", err)
	}

	var rows []gridPointRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse grid file: %w", err)
	}

	points := make([]board.GridPoint, 0, len(rows))
	for _, row := range rows {
		terrain := board.TerrainWater
		if !row.Ocean {
			terrain, err = board.ParseTerrain(row.Type)
			if err != nil {
				return nil, fmt.Errorf("grid point %d: %w", row.ID, err)
			}
		}
		points = append(points, board.GridPoint{
			ID:       row.ID,
			Coord:    board.Coord{Row: row.GridY, Col: row.GridX},
			Terrain:  terrain,
			CityName: row.Name,
		})
	}

	topology, err := board.NewTopology(points)
	if err != nil {
		return nil, fmt.Errorf("invalid grid file: %w", err)
	}
	return topology, nil
}
