package ports

import (
	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/cards"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
)

// WorldData bundles the static assets every snapshot closes over: the hex
// grid, the demand deck and the load registry. They are loaded once at
// startup; a missing or corrupt data file fails process start.
type WorldData interface {
	Topology() *board.Topology
	Deck() *cards.Deck
	Loads() *loads.Registry
}
