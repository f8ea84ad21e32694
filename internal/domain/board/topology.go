package board

import (
	"fmt"
	"sort"
)

// Pixel spacing of the client-side board rendering. Odd rows shift half a
// hex to the right, matching the offset neighbor rules below.
const (
	hexPixelWidth  = 40.0
	rowPixelHeight = 34.64
)

// Neighbor offsets for the two row parities. The grid uses an odd-row-right
// offset layout, so the diagonal neighbors differ by parity.
var (
	evenRowOffsets = [6]Coord{{-1, -1}, {-1, 0}, {0, -1}, {0, 1}, {1, -1}, {1, 0}}
	oddRowOffsets  = [6]Coord{{-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, 0}, {1, 1}}
)

// MajorCityGroup is a named major city: one center milepost plus the outpost
// mileposts that count as the same city for connection purposes.
type MajorCityGroup struct {
	Name     string
	Center   Coord
	Outposts []Coord
}

// Members returns the center and all outposts
func (g MajorCityGroup) Members() []Coord {
	members := make([]Coord, 0, len(g.Outposts)+1)
	members = append(members, g.Center)
	members = append(members, g.Outposts...)
	return members
}

// Contains reports whether the coordinate belongs to this group
func (g MajorCityGroup) Contains(c Coord) bool {
	if g.Center == c {
		return true
	}
	for _, o := range g.Outposts {
		if o == c {
			return true
		}
	}
	return false
}

// Topology is the immutable hex grid loaded once at startup. All lookups are
// lock-free reads; nothing mutates a Topology after construction.
type Topology struct {
	points       map[Coord]GridPoint
	groups       []MajorCityGroup
	groupByCoord map[Coord]string
	cityCoords   map[string][]Coord
}

// NewTopology builds a topology from the loaded grid points. It derives the
// major-city groups (outposts attach to the center sharing their name) and
// validates that every outpost names an existing center.
func NewTopology(points []GridPoint) (*Topology, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("topology requires at least one grid point")
	}

	t := &Topology{
		points:       make(map[Coord]GridPoint, len(points)),
		groupByCoord: make(map[Coord]string),
		cityCoords:   make(map[string][]Coord),
	}

	centers := make(map[string]Coord)
	outposts := make(map[string][]Coord)

	for _, p := range points {
		if _, dup := t.points[p.Coord]; dup {
			return nil, fmt.Errorf("duplicate grid point at %s", p.Coord)
		}
		t.points[p.Coord] = p

		switch p.Terrain {
		case TerrainMajorCity:
			if p.CityName == "" {
				return nil, fmt.Errorf("major city center at %s has no name", p.Coord)
			}
			if _, dup := centers[p.CityName]; dup {
				return nil, fmt.Errorf("duplicate major city center %q", p.CityName)
			}
			centers[p.CityName] = p.Coord
		case TerrainMajorCityOutpost:
			if p.CityName == "" {
				return nil, fmt.Errorf("major city outpost at %s has no name", p.Coord)
			}
			outposts[p.CityName] = append(outposts[p.CityName], p.Coord)
		}

		if p.CityName != "" {
			t.cityCoords[p.CityName] = append(t.cityCoords[p.CityName], p.Coord)
		}
	}

	for name := range outposts {
		if _, ok := centers[name]; !ok {
			return nil, fmt.Errorf("outposts reference unknown major city %q", name)
		}
	}

	names := make([]string, 0, len(centers))
	for name := range centers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		group := MajorCityGroup{Name: name, Center: centers[name], Outposts: outposts[name]}
		t.groups = append(t.groups, group)
		for _, member := range group.Members() {
			t.groupByCoord[member] = name
		}
	}

	return t, nil
}

// PointAt returns the grid point at the coordinate, if one exists
func (t *Topology) PointAt(c Coord) (GridPoint, bool) {
	p, ok := t.points[c]
	return p, ok
}

// TerrainAt returns the terrain at the coordinate, if the point exists
func (t *Topology) TerrainAt(c Coord) (Terrain, bool) {
	p, ok := t.points[c]
	if !ok {
		return "", false
	}
	return p.Terrain, true
}

// Neighbors returns the existing hex neighbors of a coordinate, up to six.
// The offsets depend on row parity; the relation is symmetric.
func (t *Topology) Neighbors(c Coord) []Coord {
	offsets := evenRowOffsets
	if c.Row%2 != 0 {
		offsets = oddRowOffsets
	}

	neighbors := make([]Coord, 0, 6)
	for _, off := range offsets {
		n := Coord{Row: c.Row + off.Row, Col: c.Col + off.Col}
		if _, ok := t.points[n]; ok {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// Adjacent reports whether two coordinates are hex neighbors
func (t *Topology) Adjacent(a, b Coord) bool {
	for _, n := range t.Neighbors(a) {
		if n == b {
			return true
		}
	}
	return false
}

// MajorCityGroups returns all major-city groups, ordered by name
func (t *Topology) MajorCityGroups() []MajorCityGroup {
	groups := make([]MajorCityGroup, len(t.groups))
	copy(groups, t.groups)
	return groups
}

// MajorCityAt returns the major-city name a coordinate belongs to, if any.
// Outposts resolve to the same name as their center.
func (t *Topology) MajorCityAt(c Coord) (string, bool) {
	name, ok := t.groupByCoord[c]
	return name, ok
}

// SameMajorCity reports whether both coordinates belong to one major-city
// group. Track may never run between two mileposts of the same major city.
func (t *Topology) SameMajorCity(a, b Coord) bool {
	nameA, okA := t.groupByCoord[a]
	nameB, okB := t.groupByCoord[b]
	return okA && okB && nameA == nameB
}

// CityCoords returns every milepost carrying the given city name. Small and
// medium cities have one; major cities include their outposts.
func (t *Topology) CityCoords(city string) []Coord {
	coords := make([]Coord, len(t.cityCoords[city]))
	copy(coords, t.cityCoords[city])
	return coords
}

// GridToPixel converts offset grid coordinates to client pixel coordinates
func (t *Topology) GridToPixel(c Coord) (x, y float64) {
	shift := 0.0
	if c.Row%2 != 0 {
		shift = 0.5
	}
	return (float64(c.Col) + shift) * hexPixelWidth, float64(c.Row) * rowPixelHeight
}

// PointCount returns the number of mileposts on the map
func (t *Topology) PointCount() int {
	return len(t.points)
}

// Points returns a copy of every grid point, for snapshot embedding
func (t *Topology) Points() []GridPoint {
	points := make([]GridPoint, 0, len(t.points))
	for _, p := range t.points {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Coord.Row != points[j].Coord.Row {
			return points[i].Coord.Row < points[j].Coord.Row
		}
		return points[i].Coord.Col < points[j].Coord.Col
	})
	return points
}
