package helpers

import (
	"testing"
	"time"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
)

// FixtureTime is the frozen wall clock the fixtures are created at
var FixtureTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// ActiveGame builds a game in active play with the given seat count and the
// current seat at index 0
func ActiveGame(t *testing.T, id string, maxPlayers int) *game.Game {
	t.Helper()
	return game.RestoreGame(
		shared.MustNewGameID(id),
		game.StatusActive,
		0,
		maxPlayers,
		nil,
		map[board.Coord][]loads.LoadType{},
		FixtureTime,
		FixtureTime,
	)
}

// SeatSpec describes one seat for RestoredSeat
type SeatSpec struct {
	ID        int
	Name      string
	Color     string
	Bot       *player.BotConfig
	UserID    string
	Money     shared.Money
	Debt      shared.Money
	Train     train.Type
	Position  *board.Coord
	Loads     []loads.LoadType
	Hand      []int
	Turn      int
	Online    bool
	CreatedAt time.Time
}

// RestoredSeat builds a player from a spec, applying fixture defaults for
// zero fields
func RestoredSeat(t *testing.T, gameID string, spec SeatSpec) *player.Player {
	t.Helper()

	if spec.Train == "" {
		spec.Train = train.Freight
	}
	if spec.CreatedAt.IsZero() {
		spec.CreatedAt = FixtureTime.Add(time.Duration(spec.ID) * time.Second)
	}
	var userID shared.UserID
	if spec.UserID != "" {
		id, err := shared.NewUserID(spec.UserID)
		if err != nil {
			t.Fatalf("invalid fixture user id %q: %v", spec.UserID, err)
		}
		userID = id
	}

	return player.RestorePlayer(
		shared.MustNewPlayerID(spec.ID),
		shared.MustNewGameID(gameID),
		userID,
		spec.Bot != nil,
		spec.Bot,
		spec.Name,
		spec.Color,
		spec.Money,
		spec.Debt,
		spec.Train,
		spec.Position,
		spec.Loads,
		spec.Hand,
		spec.Turn,
		spec.Online,
		spec.CreatedAt,
	)
}

// TrackState builds a track state holding the given segments as if they were
// built on earlier turns: totals reflect the segment costs, the per-turn
// spend is zero.
func TrackState(t *testing.T, topo *board.Topology, gameID string, playerID int, pairs ...[2]board.Coord) *track.PlayerState {
	t.Helper()

	segments := make([]track.Segment, 0, len(pairs))
	total := shared.Money(0)
	for _, p := range pairs {
		s, err := track.NewSegment(topo, p[0], p[1])
		if err != nil {
			t.Fatalf("invalid fixture segment %v->%v: %v", p[0], p[1], err)
		}
		segments = append(segments, s)
		total = total.Add(s.Cost)
	}
	return track.RestorePlayerState(
		shared.MustNewGameID(gameID),
		shared.MustNewPlayerID(playerID),
		segments,
		total,
		0,
		FixtureTime,
	)
}
