package snapshot

import (
	"fmt"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/cards"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
)

// PlayerView is the public state of one seat as captured for planning.
// Hands stay private; only the acting bot's hand is resolved, on BotView.
type PlayerView struct {
	ID         shared.PlayerID  `json:"id"`
	Name       string           `json:"name"`
	Color      string           `json:"color"`
	IsBot      bool             `json:"isBot"`
	Money      shared.Money     `json:"money"`
	Debt       shared.Money     `json:"debt"`
	TrainType  train.Type       `json:"trainType"`
	Position   *board.Coord     `json:"position,omitempty"`
	Loads      []loads.LoadType `json:"loads"`
	TurnNumber int              `json:"turnNumber"`
	IsOnline   bool             `json:"isOnline"`
}

// TrackView is one player's built track as captured
type TrackView struct {
	PlayerID      shared.PlayerID `json:"playerId"`
	Segments      []track.Segment `json:"segments"`
	TotalCost     shared.Money    `json:"totalCost"`
	TurnBuildCost shared.Money    `json:"turnBuildCost"`
}

// BotView is the acting bot's private state: its seat, configuration,
// resolved demand cards and the movement it has left this turn.
type BotView struct {
	PlayerID          shared.PlayerID    `json:"playerId"`
	SeatIndex         int                `json:"seatIndex"`
	Config            player.BotConfig   `json:"config"`
	Hand              []cards.DemandCard `json:"hand"`
	RemainingMovement int                `json:"remainingMovement"`
}

// Data is everything a capture collects before freezing. Callers hand it to
// New and must not retain references to its slices or maps afterwards.
type Data struct {
	GameID             shared.GameID
	GameStatus         game.Status
	CurrentPlayerIndex int
	MaxPlayers         int
	Players            []PlayerView
	Tracks             []TrackView
	Bot                BotView
	LoadAvailability   map[loads.LoadType]int
	DroppedLoads       map[board.Coord][]loads.LoadType

	// ConnectedCities flags, per major city, whether the acting bot's track
	// touches the center or any outpost of that city. An outpost and its
	// center count as the one city they form, never as two.
	ConnectedCities map[string]bool

	Tick int64
}

// WorldSnapshot is a frozen copy of the game world at one instant. All
// getters return copies, so holders can never mutate a snapshot or observe
// one mutating underneath them. The fingerprint identifies the captured
// contents and the capture instant; the static board, deck and load
// registry ride along by reference since they never change after startup.
type WorldSnapshot struct {
	data        Data
	fingerprint string

	topology *board.Topology
	deck     *cards.Deck
	registry *loads.Registry
}

// New freezes the captured data into a snapshot, computing the fingerprint
func New(data Data, topology *board.Topology, deck *cards.Deck, registry *loads.Registry) (*WorldSnapshot, error) {
	if topology == nil || deck == nil || registry == nil {
		return nil, fmt.Errorf("snapshot requires topology, deck and load registry")
	}
	frozen := copyData(data)
	fingerprint, err := fingerprintOf(frozen)
	if err != nil {
		return nil, fmt.Errorf("computing snapshot fingerprint: %w", err)
	}
	return &WorldSnapshot{
		data:        frozen,
		fingerprint: fingerprint,
		topology:    topology,
		deck:        deck,
		registry:    registry,
	}, nil
}

// Fingerprint returns the 16 character content hash of this capture
func (s *WorldSnapshot) Fingerprint() string {
	return s.fingerprint
}

// Tick returns the monotonic capture counter
func (s *WorldSnapshot) Tick() int64 {
	return s.data.Tick
}

func (s *WorldSnapshot) GameID() shared.GameID   { return s.data.GameID }
func (s *WorldSnapshot) GameStatus() game.Status { return s.data.GameStatus }
func (s *WorldSnapshot) CurrentPlayerIndex() int { return s.data.CurrentPlayerIndex }
func (s *WorldSnapshot) MaxPlayers() int         { return s.data.MaxPlayers }

// Players returns the seats in turn order
func (s *WorldSnapshot) Players() []PlayerView {
	return copyPlayers(s.data.Players)
}

// PlayerByID finds one seat's view
func (s *WorldSnapshot) PlayerByID(id shared.PlayerID) (PlayerView, bool) {
	for _, p := range s.data.Players {
		if p.ID.Equals(id) {
			return copyPlayerView(p), true
		}
	}
	return PlayerView{}, false
}

// SeatOf returns the seat index of a player
func (s *WorldSnapshot) SeatOf(id shared.PlayerID) (int, bool) {
	for i, p := range s.data.Players {
		if p.ID.Equals(id) {
			return i, true
		}
	}
	return 0, false
}

// Tracks returns every player's built track
func (s *WorldSnapshot) Tracks() []TrackView {
	return copyTracks(s.data.Tracks)
}

// TrackOf returns one player's built track
func (s *WorldSnapshot) TrackOf(id shared.PlayerID) (TrackView, bool) {
	for _, t := range s.data.Tracks {
		if t.PlayerID.Equals(id) {
			return copyTrackView(t), true
		}
	}
	return TrackView{}, false
}

// NetworkOf builds a fresh adjacency network over one player's segments
func (s *WorldSnapshot) NetworkOf(id shared.PlayerID) *track.Network {
	for _, t := range s.data.Tracks {
		if t.PlayerID.Equals(id) {
			return track.NewNetworkFromSegments(t.Segments)
		}
	}
	return track.NewNetwork()
}

// Bot returns the acting bot's private view
func (s *WorldSnapshot) Bot() BotView {
	return copyBotView(s.data.Bot)
}

// LoadAvailability returns the remaining supply per load type
func (s *WorldSnapshot) LoadAvailability() map[loads.LoadType]int {
	out := make(map[loads.LoadType]int, len(s.data.LoadAvailability))
	for k, v := range s.data.LoadAvailability {
		out[k] = v
	}
	return out
}

// AvailabilityOf returns the remaining supply of one load type
func (s *WorldSnapshot) AvailabilityOf(load loads.LoadType) int {
	return s.data.LoadAvailability[load]
}

// DroppedLoads returns loads sitting on the map
func (s *WorldSnapshot) DroppedLoads() map[board.Coord][]loads.LoadType {
	return copyDropped(s.data.DroppedLoads)
}

// ConnectedCities returns the bot's per-major-city connection flags
func (s *WorldSnapshot) ConnectedCities() map[string]bool {
	out := make(map[string]bool, len(s.data.ConnectedCities))
	for name, connected := range s.data.ConnectedCities {
		out[name] = connected
	}
	return out
}

// IsConnectedTo reports whether the bot's track reaches the major city
func (s *WorldSnapshot) IsConnectedTo(city string) bool {
	return s.data.ConnectedCities[city]
}

// ConnectedMajorCityCount counts the major cities the bot's track touches
func (s *WorldSnapshot) ConnectedMajorCityCount() int {
	count := 0
	for _, connected := range s.data.ConnectedCities {
		if connected {
			count++
		}
	}
	return count
}

// Topology returns the immutable board
func (s *WorldSnapshot) Topology() *board.Topology {
	return s.topology
}

// Deck returns the immutable demand deck
func (s *WorldSnapshot) Deck() *cards.Deck {
	return s.deck
}

// LoadRegistry returns the immutable load configuration
func (s *WorldSnapshot) LoadRegistry() *loads.Registry {
	return s.registry
}

// Data returns a deep copy of the captured state. Plan validation uses it
// to project hypothetical futures: mutate the copy, freeze it again with
// New, and the original capture stays untouched.
func (s *WorldSnapshot) Data() Data {
	return copyData(s.data)
}

// Deep copy helpers

func copyData(d Data) Data {
	out := d
	out.Players = copyPlayers(d.Players)
	out.Tracks = copyTracks(d.Tracks)
	out.Bot = copyBotView(d.Bot)
	out.LoadAvailability = make(map[loads.LoadType]int, len(d.LoadAvailability))
	for k, v := range d.LoadAvailability {
		out.LoadAvailability[k] = v
	}
	out.DroppedLoads = copyDropped(d.DroppedLoads)
	out.ConnectedCities = make(map[string]bool, len(d.ConnectedCities))
	for name, connected := range d.ConnectedCities {
		out.ConnectedCities[name] = connected
	}
	return out
}

func copyPlayers(players []PlayerView) []PlayerView {
	out := make([]PlayerView, len(players))
	for i, p := range players {
		out[i] = copyPlayerView(p)
	}
	return out
}

func copyPlayerView(p PlayerView) PlayerView {
	out := p
	out.Loads = make([]loads.LoadType, len(p.Loads))
	copy(out.Loads, p.Loads)
	if p.Position != nil {
		pos := *p.Position
		out.Position = &pos
	}
	return out
}

func copyTracks(tracks []TrackView) []TrackView {
	out := make([]TrackView, len(tracks))
	for i, t := range tracks {
		out[i] = copyTrackView(t)
	}
	return out
}

func copyTrackView(t TrackView) TrackView {
	out := t
	out.Segments = make([]track.Segment, len(t.Segments))
	copy(out.Segments, t.Segments)
	return out
}

func copyBotView(b BotView) BotView {
	out := b
	out.Hand = make([]cards.DemandCard, len(b.Hand))
	copy(out.Hand, b.Hand)
	return out
}

func copyDropped(dropped map[board.Coord][]loads.LoadType) map[board.Coord][]loads.LoadType {
	out := make(map[board.Coord][]loads.LoadType, len(dropped))
	for coord, ls := range dropped {
		copied := make([]loads.LoadType, len(ls))
		copy(copied, ls)
		out[coord] = copied
	}
	return out
}
