package snapshot

import (
	"encoding/hex"
	"encoding/json"
	"sort"

	"lukechampine.com/blake3"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
)

// fingerprintHexLen is the length of the printed fingerprint
const fingerprintHexLen = 16

// canonicalForm is the deterministic shape the fingerprint hashes. Maps are
// flattened into sorted slices so two captures of identical state always
// serialize to identical bytes; the tick keeps back to back captures of an
// unchanged world distinguishable.
type canonicalForm struct {
	GameID       string           `json:"gameId"`
	GameStatus   string           `json:"gameStatus"`
	Seat         int              `json:"seat"`
	MaxPlayers   int              `json:"maxPlayers"`
	Players      []PlayerView     `json:"players"`
	Tracks       []TrackView      `json:"tracks"`
	Bot          BotView          `json:"bot"`
	Availability []availabilityOf `json:"availability"`
	Dropped      []droppedAt      `json:"dropped"`
	Connected    []string         `json:"connected"`
	Tick         int64            `json:"tick"`
}

type availabilityOf struct {
	Load  loads.LoadType `json:"load"`
	Count int            `json:"count"`
}

type droppedAt struct {
	At    board.Coord      `json:"at"`
	Loads []loads.LoadType `json:"loads"`
}

// fingerprintOf hashes the canonical serialization and keeps the first
// 8 bytes, printed as 16 hex characters.
func fingerprintOf(d Data) (string, error) {
	form := canonicalForm{
		GameID:     d.GameID.Value(),
		GameStatus: string(d.GameStatus),
		Seat:       d.CurrentPlayerIndex,
		MaxPlayers: d.MaxPlayers,
		Players:    d.Players,
		Tracks:     d.Tracks,
		Bot:        d.Bot,
		Tick:       d.Tick,
	}

	form.Availability = make([]availabilityOf, 0, len(d.LoadAvailability))
	for load, count := range d.LoadAvailability {
		form.Availability = append(form.Availability, availabilityOf{Load: load, Count: count})
	}
	sort.Slice(form.Availability, func(i, j int) bool {
		return form.Availability[i].Load < form.Availability[j].Load
	})

	form.Dropped = make([]droppedAt, 0, len(d.DroppedLoads))
	for at, ls := range d.DroppedLoads {
		form.Dropped = append(form.Dropped, droppedAt{At: at, Loads: ls})
	}
	sort.Slice(form.Dropped, func(i, j int) bool {
		a, b := form.Dropped[i].At, form.Dropped[j].At
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})

	form.Connected = make([]string, 0, len(d.ConnectedCities))
	for city, connected := range d.ConnectedCities {
		if connected {
			form.Connected = append(form.Connected, city)
		}
	}
	sort.Strings(form.Connected)

	raw, err := json.Marshal(form)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(raw)
	return hex.EncodeToString(sum[:fingerprintHexLen/2]), nil
}
