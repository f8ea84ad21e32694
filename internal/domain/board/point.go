package board

import "fmt"

// Coord addresses one milepost on the hex grid by offset coordinates.
// Rows alternate between "even" and "odd" horizontal shifts.
type Coord struct {
	Row int
	Col int
}

// String returns "(row,col)" for logs and audit payloads
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// GridPoint is one immutable milepost of the map
type GridPoint struct {
	ID       int
	Coord    Coord
	Terrain  Terrain
	CityName string // set for city mileposts, including outposts
}

// IsCity reports whether the point is any kind of city milepost
func (p GridPoint) IsCity() bool {
	return p.Terrain.IsCity()
}
