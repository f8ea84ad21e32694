package mapdata

import (
	"fmt"
	"path/filepath"

	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/cards"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
)

// World bundles the three static content files behind the WorldData port.
// Loaded once at daemon startup; everything is immutable afterwards.
type World struct {
	topology *board.Topology
	deck     *cards.Deck
	registry *loads.Registry
}

// Load reads the grid, load and demand files from dir
func Load(dir, gridFile, loadsFile, demandFile string) (*World, error) {
	topology, err := LoadTopology(filepath.Join(dir, gridFile))
	if err != nil {
		return nil, fmt.Errorf("load topology: %w", err)
	}

	registry, err := LoadRegistry(filepath.Join(dir, loadsFile))
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}

	deck, err := LoadDeck(filepath.Join(dir, demandFile))
	if err != nil {
		return nil, fmt.Errorf("load deck: %w", err)
	}

	// Demand destinations and producing cities must exist on the map,
	// otherwise the planner would chase cities no path can reach.
	for _, id := range deck.IDs() {
		card, _ := deck.Card(id)
		for _, demand := range card.Demands {
			if len(topology.CityCoords(demand.City)) == 0 {
				return nil, fmt.Errorf("card %d demands delivery to unknown city %q", id, demand.City)
			}
		}
	}
	for _, loadType := range registry.Types() {
		for _, city := range registry.ProducingCities(loadType) {
			if len(topology.CityCoords(city)) == 0 {
				return nil, fmt.Errorf("load %s produced at unknown city %q", loadType, city)
			}
		}
	}

	return &World{topology: topology, deck: deck, registry: registry}, nil
}

func (w *World) Topology() *board.Topology { return w.topology }
func (w *World) Deck() *cards.Deck         { return w.deck }
func (w *World) Loads() *loads.Registry    { return w.registry }

var _ ports.WorldData = (*World)(nil)
