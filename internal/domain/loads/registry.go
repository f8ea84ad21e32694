package loads

import "fmt"

// Config describes the fixed supply of one load type: how many tokens exist
// and which cities produce it. Loaded once at startup from load_cities.json.
type Config struct {
	Type   LoadType
	Total  int
	Cities []string
}

// Registry holds the immutable load configuration. It is constructed at
// startup and passed explicitly to the services that need it; availability is
// always derived from live game state, never cached here.
type Registry struct {
	configs map[LoadType]Config
}

// NewRegistry validates and indexes the load configuration
func NewRegistry(configs []Config) (*Registry, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("load registry requires at least one load type")
	}

	indexed := make(map[LoadType]Config, len(configs))
	for _, cfg := range configs {
		if !cfg.Type.Valid() {
			return nil, fmt.Errorf("unknown load type in configuration: %q", cfg.Type)
		}
		if cfg.Total <= 0 {
			return nil, fmt.Errorf("load %s must have a positive token count, got %d", cfg.Type, cfg.Total)
		}
		if len(cfg.Cities) == 0 {
			return nil, fmt.Errorf("load %s has no producing cities", cfg.Type)
		}
		if _, dup := indexed[cfg.Type]; dup {
			return nil, fmt.Errorf("duplicate load configuration for %s", cfg.Type)
		}
		cities := make([]string, len(cfg.Cities))
		copy(cities, cfg.Cities)
		indexed[cfg.Type] = Config{Type: cfg.Type, Total: cfg.Total, Cities: cities}
	}

	return &Registry{configs: indexed}, nil
}

// Known reports whether the load type is configured for this map
func (r *Registry) Known(t LoadType) bool {
	_, ok := r.configs[t]
	return ok
}

// Total returns how many tokens of the load type exist in the game
func (r *Registry) Total(t LoadType) int {
	return r.configs[t].Total
}

// ProducingCities returns the cities where the load type can be picked up
func (r *Registry) ProducingCities(t LoadType) []string {
	cities := make([]string, len(r.configs[t].Cities))
	copy(cities, r.configs[t].Cities)
	return cities
}

// ProducesAt reports whether the city produces the load type
func (r *Registry) ProducesAt(t LoadType, city string) bool {
	for _, c := range r.configs[t].Cities {
		if c == city {
			return true
		}
	}
	return false
}

// Types returns every configured load type
func (r *Registry) Types() []LoadType {
	types := make([]LoadType, 0, len(r.configs))
	for t := range r.configs {
		types = append(types, t)
	}
	return types
}

// Availability derives per-type availability from the tokens currently on
// trains: available = max(0, total - carried). Tokens on trains plus
// availability always sum back to the configured totals.
func (r *Registry) Availability(carriedByAnyPlayer []LoadType) map[LoadType]int {
	carried := make(map[LoadType]int)
	for _, l := range carriedByAnyPlayer {
		carried[l]++
	}

	available := make(map[LoadType]int, len(r.configs))
	for t, cfg := range r.configs {
		remaining := cfg.Total - carried[t]
		if remaining < 0 {
			remaining = 0
		}
		available[t] = remaining
	}
	return available
}
