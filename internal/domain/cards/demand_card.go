package cards

import (
	"fmt"

	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

// DemandsPerCard is fixed by the physical cards
const DemandsPerCard = 3

// Demand is one line of a demand card: deliver the load to the city for the
// payment printed on the card.
type Demand struct {
	City    string
	Load    loads.LoadType
	Payment shared.Money
}

// DemandCard is one card of the demand deck, identified by the printed id
type DemandCard struct {
	ID      int
	Demands [DemandsPerCard]Demand
}

// NewDemandCard validates a card loaded from the deck file
func NewDemandCard(id int, demands [DemandsPerCard]Demand) (DemandCard, error) {
	if id <= 0 {
		return DemandCard{}, fmt.Errorf("demand card id must be positive, got %d", id)
	}
	for i, d := range demands {
		if d.City == "" {
			return DemandCard{}, fmt.Errorf("card %d demand %d has no destination city", id, i)
		}
		if !d.Load.Valid() {
			return DemandCard{}, fmt.Errorf("card %d demand %d has unknown load %q", id, i, d.Load)
		}
		if d.Payment <= 0 {
			return DemandCard{}, fmt.Errorf("card %d demand %d has non-positive payment", id, i)
		}
	}
	return DemandCard{ID: id, Demands: demands}, nil
}

// Demand returns the demand at the given index
func (c DemandCard) Demand(index int) (Demand, error) {
	if index < 0 || index >= DemandsPerCard {
		return Demand{}, fmt.Errorf("demand index %d out of range [0,%d)", index, DemandsPerCard)
	}
	return c.Demands[index], nil
}
