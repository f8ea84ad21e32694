package loads

import "fmt"

// LoadType is one commodity that trains carry. The set below is the
// authoritative enum; supply per type is finite and defined by the load
// configuration file.
type LoadType string

const (
	Bauxite   LoadType = "Bauxite"
	Beer      LoadType = "Beer"
	Cars      LoadType = "Cars"
	Cattle    LoadType = "Cattle"
	Cheese    LoadType = "Cheese"
	Chocolate LoadType = "Chocolate"
	Coal      LoadType = "Coal"
	Copper    LoadType = "Copper"
	Cork      LoadType = "Cork"
	Fish      LoadType = "Fish"
	Flowers   LoadType = "Flowers"
	Hops      LoadType = "Hops"
	Imports   LoadType = "Imports"
	Iron      LoadType = "Iron"
	Labor     LoadType = "Labor"
	Machinery LoadType = "Machinery"
	Marble    LoadType = "Marble"
	Oil       LoadType = "Oil"
	Oranges   LoadType = "Oranges"
	Potatoes  LoadType = "Potatoes"
	Sheep     LoadType = "Sheep"
	Steel     LoadType = "Steel"
	Tobacco   LoadType = "Tobacco"
	Tourists  LoadType = "Tourists"
	Wheat     LoadType = "Wheat"
	Wine      LoadType = "Wine"
	Wood      LoadType = "Wood"
)

var allLoadTypes = []LoadType{
	Bauxite, Beer, Cars, Cattle, Cheese, Chocolate, Coal, Copper, Cork,
	Fish, Flowers, Hops, Imports, Iron, Labor, Machinery, Marble, Oil,
	Oranges, Potatoes, Sheep, Steel, Tobacco, Tourists, Wheat, Wine, Wood,
}

// AllLoadTypes returns every known load type
func AllLoadTypes() []LoadType {
	types := make([]LoadType, len(allLoadTypes))
	copy(types, allLoadTypes)
	return types
}

// ParseLoadType validates a load name from configuration or storage
func ParseLoadType(s string) (LoadType, error) {
	for _, t := range allLoadTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown load type: %q", s)
}

// Valid reports whether the load type is a known member of the enum
func (l LoadType) Valid() bool {
	for _, t := range allLoadTypes {
		if t == l {
			return true
		}
	}
	return false
}

func (l LoadType) String() string {
	return string(l)
}
