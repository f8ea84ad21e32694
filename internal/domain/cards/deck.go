package cards

import (
	"fmt"
	"math/rand"
	"sort"
)

// Deck is the full demand deck, loaded once from the deck file. Cards are
// never consumed from it: "drawing" picks a card id that is not currently in
// any hand, which is how the dealing logic reconciles the deck with hands
// stored per player.
type Deck struct {
	cards map[int]DemandCard
	ids   []int
}

// NewDeck builds a deck from the parsed card list, rejecting duplicate ids
func NewDeck(cards []DemandCard) (*Deck, error) {
	if len(cards) == 0 {
		return nil, fmt.Errorf("demand deck is empty")
	}
	byID := make(map[int]DemandCard, len(cards))
	ids := make([]int, 0, len(cards))
	for _, c := range cards {
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate demand card id %d", c.ID)
		}
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}
	sort.Ints(ids)
	return &Deck{cards: byID, ids: ids}, nil
}

// Card looks up a card by id
func (d *Deck) Card(id int) (DemandCard, error) {
	c, ok := d.cards[id]
	if !ok {
		return DemandCard{}, fmt.Errorf("demand card %d not in deck", id)
	}
	return c, nil
}

// Has reports whether the deck contains the card id
func (d *Deck) Has(id int) bool {
	_, ok := d.cards[id]
	return ok
}

// Size returns the number of cards in the deck
func (d *Deck) Size() int {
	return len(d.cards)
}

// IDs returns all card ids in ascending order
func (d *Deck) IDs() []int {
	out := make([]int, len(d.ids))
	copy(out, d.ids)
	return out
}

// DrawExcluding picks a uniformly random card whose id is not in the
// exclusion set. The caller passes every card id currently held across all
// hands so a card is never dealt twice.
func (d *Deck) DrawExcluding(rng *rand.Rand, exclude map[int]bool) (DemandCard, error) {
	available := make([]int, 0, len(d.ids))
	for _, id := range d.ids {
		if !exclude[id] {
			available = append(available, id)
		}
	}
	if len(available) == 0 {
		return DemandCard{}, fmt.Errorf("no demand cards available to draw")
	}
	id := available[rng.Intn(len(available))]
	return d.cards[id], nil
}
