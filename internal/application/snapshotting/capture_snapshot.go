package snapshotting

import (
	"context"
	"fmt"

	"github.com/andrescamacho/railbot-go/internal/application/common"
	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/domain/cards"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/snapshot"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
)

// CaptureSnapshotQuery represents a query to freeze the world state a bot
// plans against
type CaptureSnapshotQuery struct {
	GameID   shared.GameID
	PlayerID shared.PlayerID // Required: the acting bot's seat
}

// CaptureSnapshotResponse represents the result of capturing a snapshot
type CaptureSnapshotResponse struct {
	Snapshot *snapshot.WorldSnapshot
}

// CaptureSnapshotHandler assembles immutable world snapshots from the
// game, player and track stores plus the static world data
type CaptureSnapshotHandler struct {
	gameRepo   game.Repository
	playerRepo player.Repository
	trackRepo  track.Repository
	world      ports.WorldData
	clock      shared.Clock
}

// NewCaptureSnapshotHandler creates a new CaptureSnapshotHandler
func NewCaptureSnapshotHandler(
	gameRepo game.Repository,
	playerRepo player.Repository,
	trackRepo track.Repository,
	world ports.WorldData,
	clock shared.Clock,
) *CaptureSnapshotHandler {
	return &CaptureSnapshotHandler{
		gameRepo:   gameRepo,
		playerRepo: playerRepo,
		trackRepo:  trackRepo,
		world:      world,
		clock:      clock,
	}
}

// Handle executes the CaptureSnapshot query
func (h *CaptureSnapshotHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*CaptureSnapshotQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CaptureSnapshotQuery")
	}
	if query.GameID.IsZero() {
		return nil, fmt.Errorf("game_id is required")
	}

	g, err := h.gameRepo.FindByID(ctx, query.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	players, err := h.playerRepo.FindByGame(ctx, query.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}

	bot, seatIndex := findSeat(players, query.PlayerID)
	if bot == nil || !bot.IsBot() {
		return nil, shared.NewBotNotFoundError(query.GameID, query.PlayerID)
	}
	config, ok := bot.BotConfig()
	if !ok {
		return nil, fmt.Errorf("player %s is a bot without a bot profile", query.PlayerID)
	}

	states, err := h.trackRepo.FindByGame(ctx, query.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load track states: %w", err)
	}

	hand, err := resolveHand(h.world.Deck(), bot.Hand())
	if err != nil {
		return nil, err
	}

	data := snapshot.Data{
		GameID:             g.ID(),
		GameStatus:         g.Status(),
		CurrentPlayerIndex: g.CurrentPlayerIndex(),
		MaxPlayers:         g.MaxPlayers(),
		Players:            playerViews(players),
		Tracks:             trackViews(players, states),
		// Captures happen at the start of the bot's turn, so the movement
		// allowance is the train's full speed.
		Bot: snapshot.BotView{
			PlayerID:          bot.ID(),
			SeatIndex:         seatIndex,
			Config:            config,
			Hand:              hand,
			RemainingMovement: bot.TrainType().Speed(),
		},
		LoadAvailability: h.world.Loads().Availability(carriedByAnyPlayer(players)),
		DroppedLoads:     g.DroppedLoads(),
		ConnectedCities:  connectedCities(h.world, botNetwork(bot.ID(), states)),
		Tick:             h.clock.Tick(),
	}

	snap, err := snapshot.New(data, h.world.Topology(), h.world.Deck(), h.world.Loads())
	if err != nil {
		return nil, fmt.Errorf("failed to freeze snapshot: %w", err)
	}
	return &CaptureSnapshotResponse{Snapshot: snap}, nil
}

func findSeat(players []*player.Player, id shared.PlayerID) (*player.Player, int) {
	for i, p := range players {
		if p.ID().Equals(id) {
			return p, i
		}
	}
	return nil, 0
}

func resolveHand(deck *cards.Deck, cardIDs []int) ([]cards.DemandCard, error) {
	hand := make([]cards.DemandCard, 0, len(cardIDs))
	for _, id := range cardIDs {
		card, err := deck.Card(id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve demand card %d: %w", id, err)
		}
		hand = append(hand, card)
	}
	return hand, nil
}

func playerViews(players []*player.Player) []snapshot.PlayerView {
	views := make([]snapshot.PlayerView, 0, len(players))
	for _, p := range players {
		view := snapshot.PlayerView{
			ID:         p.ID(),
			Name:       p.Name(),
			Color:      p.Color(),
			IsBot:      p.IsBot(),
			Money:      p.Money(),
			Debt:       p.DebtOwed(),
			TrainType:  p.TrainType(),
			Loads:      p.Loads(),
			TurnNumber: p.TurnNumber(),
			IsOnline:   p.IsOnline(),
		}
		if pos, ok := p.Position(); ok {
			view.Position = &pos
		}
		views = append(views, view)
	}
	return views
}

// trackViews emits one view per seat in seat order; seats that never built
// get an empty view so downstream consumers see a uniform list.
func trackViews(players []*player.Player, states []*track.PlayerState) []snapshot.TrackView {
	byPlayer := make(map[shared.PlayerID]*track.PlayerState, len(states))
	for _, s := range states {
		byPlayer[s.PlayerID()] = s
	}
	views := make([]snapshot.TrackView, 0, len(players))
	for _, p := range players {
		view := snapshot.TrackView{PlayerID: p.ID()}
		if s, ok := byPlayer[p.ID()]; ok {
			view.Segments = s.Segments()
			view.TotalCost = s.TotalCost()
			view.TurnBuildCost = s.TurnBuildCost()
		}
		views = append(views, view)
	}
	return views
}

func carriedByAnyPlayer(players []*player.Player) []loads.LoadType {
	var carried []loads.LoadType
	for _, p := range players {
		carried = append(carried, p.Loads()...)
	}
	return carried
}

func botNetwork(botID shared.PlayerID, states []*track.PlayerState) *track.Network {
	for _, s := range states {
		if s.PlayerID().Equals(botID) {
			return s.Network()
		}
	}
	return track.NewNetwork()
}

// connectedCities marks each major city the bot's track touches. A center
// and its outposts count as the one city they form, never separately.
func connectedCities(world ports.WorldData, network *track.Network) map[string]bool {
	connected := make(map[string]bool)
	for _, group := range world.Topology().MajorCityGroups() {
		reached := false
		for _, member := range group.Members() {
			if network.HasNode(member) {
				reached = true
				break
			}
		}
		connected[group.Name] = reached
	}
	return connected
}
