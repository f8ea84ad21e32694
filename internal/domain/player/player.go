package player

import (
	"fmt"
	"time"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
)

// StartingMoney is the cash every player begins the game with, in millions
const StartingMoney shared.Money = 50

// HandSize is the number of demand cards a player holds while the game is
// active. Every delivery discards one card and draws one, so the hand size
// is an invariant, not a maximum.
const HandSize = 3

// Player is one seat in a game, human or bot. It maps one to one onto a
// players row. Movement allowance is per turn and never persisted; it is
// reset by BeginTurn when the seat starts acting.
type Player struct {
	id        shared.PlayerID
	gameID    shared.GameID
	userID    shared.UserID
	isBot     bool
	botConfig *BotConfig

	name  string
	color string

	money    shared.Money
	debtOwed shared.Money

	trainType train.Type
	position  *board.Coord
	loads     []loads.LoadType
	hand      []int

	currentTurnNumber int
	isOnline          bool
	createdAt         time.Time

	// Transient per-turn state
	remainingMovement int
}

// NewHumanPlayer creates a fresh human seat with starting money and train
func NewHumanPlayer(
	id shared.PlayerID,
	gameID shared.GameID,
	userID shared.UserID,
	name, color string,
	createdAt time.Time,
) (*Player, error) {
	if userID.IsZero() {
		return nil, fmt.Errorf("human seat requires a user id")
	}
	p := newPlayer(id, gameID, name, color, createdAt)
	p.userID = userID
	return p, nil
}

// NewBotPlayer creates a fresh bot seat. Bots have no backing user account.
func NewBotPlayer(
	id shared.PlayerID,
	gameID shared.GameID,
	name, color string,
	config BotConfig,
	createdAt time.Time,
) (*Player, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	p := newPlayer(id, gameID, name, color, createdAt)
	p.isBot = true
	p.botConfig = &config
	return p, nil
}

func newPlayer(id shared.PlayerID, gameID shared.GameID, name, color string, createdAt time.Time) *Player {
	return &Player{
		id:        id,
		gameID:    gameID,
		name:      name,
		color:     color,
		money:     StartingMoney,
		trainType: train.Freight,
		createdAt: createdAt,
	}
}

// RestorePlayer rebuilds a player from persisted values without applying
// creation defaults.
func RestorePlayer(
	id shared.PlayerID,
	gameID shared.GameID,
	userID shared.UserID,
	isBot bool,
	botConfig *BotConfig,
	name, color string,
	money, debtOwed shared.Money,
	trainType train.Type,
	position *board.Coord,
	carried []loads.LoadType,
	hand []int,
	currentTurnNumber int,
	isOnline bool,
	createdAt time.Time,
) *Player {
	carriedCopy := make([]loads.LoadType, len(carried))
	copy(carriedCopy, carried)
	handCopy := make([]int, len(hand))
	copy(handCopy, hand)
	var positionCopy *board.Coord
	if position != nil {
		c := *position
		positionCopy = &c
	}
	return &Player{
		id:                id,
		gameID:            gameID,
		userID:            userID,
		isBot:             isBot,
		botConfig:         botConfig,
		name:              name,
		color:             color,
		money:             money,
		debtOwed:          debtOwed,
		trainType:         trainType,
		position:          positionCopy,
		loads:             carriedCopy,
		hand:              handCopy,
		currentTurnNumber: currentTurnNumber,
		isOnline:          isOnline,
		createdAt:         createdAt,
	}
}

// Getters

func (p *Player) ID() shared.PlayerID    { return p.id }
func (p *Player) GameID() shared.GameID  { return p.gameID }
func (p *Player) UserID() shared.UserID  { return p.userID }
func (p *Player) IsBot() bool            { return p.isBot }
func (p *Player) Name() string           { return p.name }
func (p *Player) Color() string          { return p.color }
func (p *Player) Money() shared.Money    { return p.money }
func (p *Player) DebtOwed() shared.Money { return p.debtOwed }
func (p *Player) TrainType() train.Type  { return p.trainType }
func (p *Player) TurnNumber() int        { return p.currentTurnNumber }
func (p *Player) IsOnline() bool         { return p.isOnline }
func (p *Player) CreatedAt() time.Time   { return p.createdAt }
func (p *Player) RemainingMovement() int { return p.remainingMovement }

// BotConfig returns the bot configuration, if this seat is a bot
func (p *Player) BotConfig() (BotConfig, bool) {
	if p.botConfig == nil {
		return BotConfig{}, false
	}
	return *p.botConfig, true
}

// Position returns the train location, ok=false while the train is unplaced
func (p *Player) Position() (board.Coord, bool) {
	if p.position == nil {
		return board.Coord{}, false
	}
	return *p.position, true
}

// Loads returns a copy of the carried loads
func (p *Player) Loads() []loads.LoadType {
	out := make([]loads.LoadType, len(p.loads))
	copy(out, p.loads)
	return out
}

// Hand returns a copy of the held demand card ids
func (p *Player) Hand() []int {
	out := make([]int, len(p.hand))
	copy(out, p.hand)
	return out
}

// HasCard reports whether the card id is in hand
func (p *Player) HasCard(cardID int) bool {
	for _, id := range p.hand {
		if id == cardID {
			return true
		}
	}
	return false
}

// IsCarrying reports whether the load is on the train
func (p *Player) IsCarrying(load loads.LoadType) bool {
	for _, l := range p.loads {
		if l == load {
			return true
		}
	}
	return false
}

// Turn lifecycle

// BeginTurn resets per-turn movement to the train's speed
func (p *Player) BeginTurn() {
	p.remainingMovement = p.trainType.Speed()
}

// IncrementTurn advances the per-player turn counter when the seat's turn ends
func (p *Player) IncrementTurn() {
	p.currentTurnNumber++
}

// Movement

// PlaceAt sets the train's position without consuming movement, used when
// the train first enters the board at a city.
func (p *Player) PlaceAt(c board.Coord) {
	coord := c
	p.position = &coord
}

// MoveTo advances the train one milepost, consuming one movement point
func (p *Player) MoveTo(c board.Coord) error {
	if p.position == nil {
		return fmt.Errorf("train is not on the board yet")
	}
	if p.remainingMovement <= 0 {
		return shared.NewMovementExhaustedError(p.remainingMovement)
	}
	coord := c
	p.position = &coord
	p.remainingMovement--
	return nil
}

// Loads

// PickupLoad puts a load on the train, enforcing capacity
func (p *Player) PickupLoad(load loads.LoadType) error {
	capacity := p.trainType.Capacity()
	if len(p.loads) >= capacity {
		return shared.NewCapacityExceededError(capacity, len(p.loads))
	}
	p.loads = append(p.loads, load)
	return nil
}

// RemoveLoad takes one unit of the load off the train
func (p *Player) RemoveLoad(load loads.LoadType) error {
	for i, l := range p.loads {
		if l == load {
			p.loads = append(p.loads[:i], p.loads[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("not carrying %s", load)
}

// Money

// ApplyPayment credits a delivery payment. Outstanding debt is repaid first
// and only the remainder lands as cash. Returns how the payment split.
func (p *Player) ApplyPayment(amount shared.Money) (repaid, credited shared.Money) {
	repaid = p.debtOwed
	if amount < repaid {
		repaid = amount
	}
	p.debtOwed -= repaid
	credited = amount - repaid
	p.money += credited
	return repaid, credited
}

// Credit adds cash without touching debt
func (p *Player) Credit(amount shared.Money) {
	p.money += amount
}

// Debit removes cash, failing if the player cannot afford it
func (p *Player) Debit(amount shared.Money) error {
	if p.money < amount {
		return shared.NewInsufficientFundsError(amount, p.money)
	}
	p.money -= amount
	return nil
}

// Hand

// DiscardAndDraw replaces a fulfilled demand card with a freshly drawn one,
// keeping the hand at exactly HandSize cards.
func (p *Player) DiscardAndDraw(discardID, drawnID int) error {
	for i, id := range p.hand {
		if id == discardID {
			p.hand[i] = drawnID
			return nil
		}
	}
	return shared.NewCardNotInHandError(discardID)
}

// DealHand sets the initial hand when the game starts
func (p *Player) DealHand(cardIDs []int) error {
	if len(cardIDs) != HandSize {
		return fmt.Errorf("hand must have exactly %d cards, got %d", HandSize, len(cardIDs))
	}
	p.hand = make([]int, HandSize)
	copy(p.hand, cardIDs)
	return nil
}

// Train

// SetTrainType swaps the train model. Loads above the new capacity must be
// handled by the caller before swapping; this only refuses the impossible.
func (p *Player) SetTrainType(t train.Type) error {
	if !t.Valid() {
		return fmt.Errorf("unknown train type: %s", t)
	}
	if len(p.loads) > t.Capacity() {
		return shared.NewCapacityExceededError(t.Capacity(), len(p.loads))
	}
	p.trainType = t
	return nil
}

// Presence

// SetOnline records whether the seat has a live connection
func (p *Player) SetOnline(online bool) {
	p.isOnline = online
}

// String provides a compact representation for logs
func (p *Player) String() string {
	kind := "human"
	if p.isBot {
		kind = "bot"
	}
	return fmt.Sprintf("Player[%s %s, %s, %s, debt %s]", kind, p.id, p.name, p.money, p.debtOwed)
}
