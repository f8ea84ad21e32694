package planning

import (
	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
)

// PlanRecord is the serialized form of a TurnPlan inside an audit row
type PlanRecord struct {
	Actions            []FeasibleOption `json:"actions"`
	ExpectedCashChange shared.Money     `json:"expectedCashChange"`
	Rationale          string           `json:"rationale"`
}

// ExecutionRecord captures how far the executor got with the plan
type ExecutionRecord struct {
	Success         bool   `json:"success"`
	ActionsExecuted int    `json:"actionsExecuted"`
	Error           string `json:"error,omitempty"`
}

// BotStatus is the bot's position after the turn, for inspection without
// replaying the game.
type BotStatus struct {
	Money                shared.Money     `json:"money"`
	Debt                 shared.Money     `json:"debt"`
	TrainType            train.Type       `json:"trainType"`
	Position             *board.Coord     `json:"position,omitempty"`
	Loads                []loads.LoadType `json:"loads"`
	ConnectedMajorCities int              `json:"connectedMajorCities"`
}

// StrategyAudit is the full written record of one bot turn: what the bot
// saw (snapshot hash), what it considered, what it chose and how execution
// went. One row per turn, queryable long after the game ended.
type StrategyAudit struct {
	TurnNumber      int              `json:"turnNumber"`
	Archetype       player.Archetype `json:"archetype"`
	Skill           player.Skill     `json:"skill"`
	SnapshotHash    string           `json:"snapshotHash"`
	FeasibleOptions []FeasibleOption `json:"feasibleOptions"`
	RejectedOptions []FeasibleOption `json:"rejectedOptions"`
	SelectedPlan    PlanRecord       `json:"selectedPlan"`
	ExecutionResult ExecutionRecord  `json:"executionResult"`
	BotStatus       BotStatus        `json:"botStatus"`
	DurationMs      int64            `json:"durationMs"`
}
