package turns_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/application/turns"
	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
	"github.com/andrescamacho/railbot-go/test/helpers"
)

type advanceSeatFixture struct {
	handler   *turns.AdvanceSeatHandler
	uow       *helpers.MockUnitOfWork
	publisher *helpers.RecordingEventPublisher
	clock     *shared.MockClock
}

func newAdvanceSeatFixture(t *testing.T) *advanceSeatFixture {
	t.Helper()

	f := &advanceSeatFixture{
		uow:       helpers.NewMockUnitOfWork(),
		publisher: helpers.NewRecordingEventPublisher(),
		clock:     shared.NewMockClock(helpers.FixtureTime),
	}
	f.handler = turns.NewAdvanceSeatHandler(f.uow, f.publisher, f.clock)

	g := helpers.ActiveGame(t, "game-1", 2)
	require.NoError(t, g.SetCurrentSeat(1, helpers.FixtureTime))
	f.uow.Games.AddGame(g)

	f.uow.Players.AddPlayer(helpers.RestoredSeat(t, "game-1", helpers.SeatSpec{
		ID: 1, Name: "Ada", Color: "#1f77b4", UserID: "user-1", Money: 50, Turn: 3, Online: true,
	}))
	f.uow.Players.AddPlayer(helpers.RestoredSeat(t, "game-1", helpers.SeatSpec{
		ID: 2, Name: "Bot", Color: "#d62728",
		Bot:   &player.BotConfig{Archetype: player.ArchetypeOpportunist, Skill: player.SkillEasy},
		Money: 50, Turn: 3,
	}))
	return f
}

func (f *advanceSeatFixture) advance(t *testing.T, seatIndex int) (*turns.AdvanceSeatResponse, error) {
	t.Helper()

	response, err := f.handler.Handle(context.Background(), &turns.AdvanceSeatCommand{
		GameID:    shared.MustNewGameID("game-1"),
		SeatIndex: seatIndex,
	})
	if err != nil {
		return nil, err
	}
	return response.(*turns.AdvanceSeatResponse), nil
}

func TestAdvanceSeatRotatesInJoinOrder(t *testing.T) {
	f := newAdvanceSeatFixture(t)

	resp, err := f.advance(t, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.NextSeatIndex, "the last seat wraps back to the first")
	assert.Equal(t, 1, resp.NextPlayerID.Value())

	g, err := f.uow.Games.FindByID(context.Background(), shared.MustNewGameID("game-1"))
	require.NoError(t, err)
	assert.Equal(t, 0, g.CurrentPlayerIndex())
}

func TestAdvanceSeatClosesTheActingTurn(t *testing.T) {
	f := newAdvanceSeatFixture(t)

	topo := helpers.TestTopology(t)
	seg, err := track.NewSegment(topo, board.Coord{Row: 0, Col: 1}, board.Coord{Row: 0, Col: 2})
	require.NoError(t, err)
	f.uow.Tracks.AddState(track.RestorePlayerState(
		shared.MustNewGameID("game-1"), shared.MustNewPlayerID(2),
		[]track.Segment{seg}, seg.Cost, seg.Cost, helpers.FixtureTime,
	))

	_, err = f.advance(t, 1)
	require.NoError(t, err)

	bot, err := f.uow.Players.FindByID(context.Background(), shared.MustNewGameID("game-1"), shared.MustNewPlayerID(2))
	require.NoError(t, err)
	assert.Equal(t, 4, bot.TurnNumber())

	state, err := f.uow.Tracks.FindByPlayer(context.Background(), shared.MustNewGameID("game-1"), shared.MustNewPlayerID(2))
	require.NoError(t, err)
	assert.True(t, state.TurnBuildCost().IsZero(), "the build budget refreshes for the next turn")
	assert.Equal(t, seg.Cost, state.TotalCost(), "lifetime spend is untouched")
}

func TestAdvanceSeatToleratesSeatsWithoutTrack(t *testing.T) {
	f := newAdvanceSeatFixture(t)

	resp, err := f.advance(t, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.NextSeatIndex)
	assert.Equal(t, 2, resp.NextPlayerID.Value())
}

func TestAdvanceSeatPublishesTheTurnChange(t *testing.T) {
	f := newAdvanceSeatFixture(t)

	_, err := f.advance(t, 1)
	require.NoError(t, err)

	changes := f.publisher.TurnChanges()
	require.Len(t, changes, 1)
	assert.Equal(t, "game-1", changes[0].GameID.Value())
	assert.Equal(t, 0, changes[0].SeatIndex)
	assert.Equal(t, 1, changes[0].PlayerID.Value())
}

func TestAdvanceSeatRejectsOutOfRangeIndex(t *testing.T) {
	f := newAdvanceSeatFixture(t)

	_, err := f.advance(t, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
	assert.Empty(t, f.publisher.TurnChanges())
}
