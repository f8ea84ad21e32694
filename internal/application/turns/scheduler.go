package turns

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/railbot-go/internal/application/common"
	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/pkg/utils"
)

// DefaultTurnDelay is the UX pause between a bot's seat coming up and its
// turn starting, so clients can render the previous move first.
const DefaultTurnDelay = 1500 * time.Millisecond

// SchedulerMetrics receives the scheduler's observability signals. The
// metrics adapter implements it; tests and the CLI run with the no-op.
type SchedulerMetrics interface {
	TurnFinished(outcome string, seconds float64)
	SetPendingGames(n int)
	SetQueuedGames(n int)
}

type noopMetrics struct{}

func (noopMetrics) TurnFinished(string, float64) {}
func (noopMetrics) SetPendingGames(int)          {}
func (noopMetrics) SetQueuedGames(int)           {}

// SchedulerConfig tunes the bot turn pipeline
type SchedulerConfig struct {
	// TurnDelay is the pause before a scheduled bot turn runs
	TurnDelay time.Duration

	// TurnDeadline bounds one turn end to end; planning past it passes,
	// execution past it commits what already ran.
	TurnDeadline time.Duration

	// TurnsPerSecond and Burst feed the global limiter so many concurrent
	// games cannot stampede the store.
	TurnsPerSecond float64
	Burst          int
}

// BotTurnScheduler drives bot turns off the turn:change stream. Per game at
// most one turn is ever in flight (the pending set); games whose humans all
// disconnected wait in the queued map until someone comes back. Across
// games turns run in parallel, throttled only by the global rate limiter.
type BotTurnScheduler struct {
	mediator common.Mediator
	players  player.Repository
	bus      ports.EventSubscriber
	logger   common.TurnLogger
	clock    shared.Clock
	limiter  *rate.Limiter
	metrics  SchedulerMetrics

	delay    time.Duration
	deadline time.Duration

	mu      sync.Mutex
	pending map[string]bool
	queued  map[string]ports.TurnChangedEvent
	timers  map[string]*time.Timer
	stopped bool

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewBotTurnScheduler creates a new scheduler. metrics may be nil.
func NewBotTurnScheduler(
	mediator common.Mediator,
	players player.Repository,
	bus ports.EventSubscriber,
	logger common.TurnLogger,
	clock shared.Clock,
	cfg SchedulerConfig,
	metrics SchedulerMetrics,
) *BotTurnScheduler {
	if cfg.TurnDelay <= 0 {
		cfg.TurnDelay = DefaultTurnDelay
	}
	if cfg.TurnDeadline <= 0 {
		cfg.TurnDeadline = 10 * time.Second
	}
	if cfg.TurnsPerSecond <= 0 {
		cfg.TurnsPerSecond = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &BotTurnScheduler{
		mediator: mediator,
		players:  players,
		bus:      bus,
		logger:   logger,
		clock:    clock,
		limiter:  rate.NewLimiter(rate.Limit(cfg.TurnsPerSecond), cfg.Burst),
		metrics:  metrics,
		delay:    cfg.TurnDelay,
		deadline: cfg.TurnDeadline,
		pending:  make(map[string]bool),
		queued:   make(map[string]ports.TurnChangedEvent),
		timers:   make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
	}
}

// Start subscribes to the event bus and dispatches until Stop
func (s *BotTurnScheduler) Start() {
	turnCh := s.bus.SubscribeTurnChanged()
	reconnectCh := s.bus.SubscribePlayerReconnected()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.bus.UnsubscribeTurnChanged(turnCh)
		defer s.bus.UnsubscribePlayerReconnected(reconnectCh)
		for {
			select {
			case <-s.stopCh:
				return
			case evt, ok := <-turnCh:
				if !ok {
					return
				}
				s.OnTurnChange(evt)
			case evt, ok := <-reconnectCh:
				if !ok {
					return
				}
				s.OnHumanReconnect(evt)
			}
		}
	}()
}

// Stop cancels outstanding timers and waits for in-flight work to settle.
// Turns already past their delay run to completion; nothing new starts.
func (s *BotTurnScheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	for gameID, timer := range s.timers {
		if timer.Stop() {
			// The callback will never fire, release its waitgroup slot
			s.wg.Done()
		}
		delete(s.timers, gameID)
		delete(s.pending, gameID)
	}
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
}

// OnTurnChange decides whether the seat that just came up belongs to a bot
// and, if so, schedules its turn after the UX delay. Games with a turn in
// flight drop the event; games with nobody watching queue it instead.
func (s *BotTurnScheduler) OnTurnChange(evt ports.TurnChangedEvent) {
	gameID := evt.GameID.Value()

	s.mu.Lock()
	if s.stopped || s.pending[gameID] {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.deadline)
	defer cancel()

	bot, ok := s.resolveBotSeat(ctx, evt)
	if !ok {
		return
	}
	humansOnline, err := s.anyHumanConnected(ctx, evt.GameID)
	if err != nil {
		s.logger.Log(common.LevelError, "failed to check connected humans", map[string]interface{}{
			"gameId": gameID, "error": err.Error(),
		})
		return
	}

	// The final decision happens under one lock so a concurrent duplicate
	// event cannot slip a second turn in.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.pending[gameID] {
		return
	}
	if !humansOnline {
		s.queued[gameID] = evt
		s.metrics.SetQueuedGames(len(s.queued))
		s.logger.Log(common.LevelInfo, "bot turn queued, no humans connected", map[string]interface{}{
			"gameId": gameID, "playerId": bot.ID().Value(),
		})
		return
	}

	s.pending[gameID] = true
	s.metrics.SetPendingGames(len(s.pending))

	run := evt
	run.PlayerID = bot.ID()
	s.wg.Add(1)
	s.timers[gameID] = time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		s.runTurn(run)
	})
}

// OnHumanReconnect replays the queued turn of a game someone rejoined
func (s *BotTurnScheduler) OnHumanReconnect(evt ports.PlayerReconnectedEvent) {
	gameID := evt.GameID.Value()

	s.mu.Lock()
	queued, ok := s.queued[gameID]
	if ok {
		delete(s.queued, gameID)
		s.metrics.SetQueuedGames(len(s.queued))
	}
	s.mu.Unlock()

	if ok {
		s.OnTurnChange(queued)
	}
}

// PendingCount reports how many games have a bot turn in flight
func (s *BotTurnScheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// QueuedGames lists games waiting for a human to reconnect
func (s *BotTurnScheduler) QueuedGames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	games := make([]string, 0, len(s.queued))
	for id := range s.queued {
		games = append(games, id)
	}
	return games
}

// runTurn executes one scheduled bot turn and advances the seat on success.
// Failures clear the in-flight mark without advancing: the world stays
// consistent and a human (or the next trigger) takes over.
func (s *BotTurnScheduler) runTurn(evt ports.TurnChangedEvent) {
	gameID := evt.GameID.Value()
	traceID := utils.NewTraceID("turn")
	start := s.clock.Now()

	defer func() {
		s.mu.Lock()
		delete(s.pending, gameID)
		delete(s.timers, gameID)
		s.metrics.SetPendingGames(len(s.pending))
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.deadline)
	defer cancel()
	ctx = common.WithLogger(ctx, s.logger)

	if err := s.limiter.Wait(ctx); err != nil {
		s.logger.Log(common.LevelWarn, "bot turn rate limit wait aborted", map[string]interface{}{
			"gameId": gameID, "traceId": traceID, "error": err.Error(),
		})
		s.metrics.TurnFinished("throttled", s.clock.Now().Sub(start).Seconds())
		return
	}

	resp, err := s.mediator.Send(ctx, &TakeBotTurnCommand{
		GameID:   evt.GameID,
		PlayerID: evt.PlayerID,
		Seed:     s.clock.Tick(),
	})
	if err != nil {
		s.logger.Log(common.LevelError, "bot turn failed", map[string]interface{}{
			"gameId": gameID, "traceId": traceID, "playerId": evt.PlayerID.Value(), "error": err.Error(),
		})
		s.metrics.TurnFinished("error", s.clock.Now().Sub(start).Seconds())
		return
	}
	turn, ok := resp.(*TakeBotTurnResponse)
	if !ok {
		s.logger.Log(common.LevelError, "unexpected bot turn response", map[string]interface{}{
			"gameId": gameID, "traceId": traceID,
		})
		s.metrics.TurnFinished("error", s.clock.Now().Sub(start).Seconds())
		return
	}
	if !turn.Result.Success {
		s.logger.Log(common.LevelWarn, "bot turn stopped mid-plan, seat not advanced", map[string]interface{}{
			"gameId":          gameID,
			"traceId":         traceID,
			"playerId":        evt.PlayerID.Value(),
			"actionsExecuted": turn.Result.ActionsExecuted,
			"error":           turn.Result.Error,
		})
		s.metrics.TurnFinished("failed", s.clock.Now().Sub(start).Seconds())
		return
	}

	if _, err := s.mediator.Send(ctx, &AdvanceSeatCommand{GameID: evt.GameID, SeatIndex: evt.SeatIndex}); err != nil {
		s.logger.Log(common.LevelError, "failed to advance seat after bot turn", map[string]interface{}{
			"gameId": gameID, "traceId": traceID, "seatIndex": evt.SeatIndex, "error": err.Error(),
		})
		s.metrics.TurnFinished("error", s.clock.Now().Sub(start).Seconds())
		return
	}
	s.metrics.TurnFinished("completed", s.clock.Now().Sub(start).Seconds())
}

// resolveBotSeat loads the seat the event names, falling back to the seat
// index when the event carries no player id. Human seats end the lookup.
func (s *BotTurnScheduler) resolveBotSeat(ctx context.Context, evt ports.TurnChangedEvent) (*player.Player, bool) {
	if !evt.PlayerID.IsZero() {
		p, err := s.players.FindByID(ctx, evt.GameID, evt.PlayerID)
		if err != nil {
			s.logger.Log(common.LevelError, "failed to load seat for turn change", map[string]interface{}{
				"gameId": evt.GameID.Value(), "playerId": evt.PlayerID.Value(), "error": err.Error(),
			})
			return nil, false
		}
		if !p.IsBot() {
			return nil, false
		}
		return p, true
	}

	players, err := s.players.FindByGame(ctx, evt.GameID)
	if err != nil || evt.SeatIndex < 0 || evt.SeatIndex >= len(players) {
		return nil, false
	}
	p := players[evt.SeatIndex]
	if !p.IsBot() {
		return nil, false
	}
	return p, true
}

// anyHumanConnected reports whether at least one human seat has a live
// connection. Bot turns only run while somebody can watch them.
func (s *BotTurnScheduler) anyHumanConnected(ctx context.Context, gameID shared.GameID) (bool, error) {
	players, err := s.players.FindByGame(ctx, gameID)
	if err != nil {
		return false, err
	}
	for _, p := range players {
		if !p.IsBot() && p.IsOnline() {
			return true, nil
		}
	}
	return false, nil
}
