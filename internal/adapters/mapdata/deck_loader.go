package mapdata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/andrescamacho/railbot-go/internal/domain/cards"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
)

type demandRow struct {
	City     string `json:"city"`
	Resource string `json:"resource"`
	Payment  int    `json:"payment"`
}

type demandCardRow struct {
	ID      int         `json:"id"`
	Demands []demandRow `json:"demands"`
}

// LoadDeck reads the demand card file and builds the deck. Every card must
// carry exactly three demands.
func LoadDeck(path string) (*cards.Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read demand file: %w", err)
	}

	var rows []demandCardRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse demand file: %w", err)
	}

	deck := make([]cards.DemandCard, 0, len(rows))
	for _, row := range rows {
		if len(row.Demands) != cards.DemandsPerCard {
			return nil, fmt.Errorf("card %d has %d demands, want %d", row.ID, len(row.Demands), cards.DemandsPerCard)
		}

		var demands [cards.DemandsPerCard]cards.Demand
		for i, d := range row.Demands {
			load, err := loads.ParseLoadType(d.Resource)
			if err != nil {
				return nil, fmt.Errorf("card %d demand %d: %w", row.ID, i, err)
			}
			demands[i] = cards.Demand{
				City:    d.City,
				Load:    load,
				Payment: shared.Money(d.Payment),
			}
		}

		card, err := cards.NewDemandCard(row.ID, demands)
		if err != nil {
			return nil, fmt.Errorf("invalid demand file: %w", err)
		}
		deck = append(deck, card)
	}

	d, err := cards.NewDeck(deck)
	if err != nil {
		return nil, fmt.Errorf("invalid demand file: %w", err)
	}
	return d, nil
}
