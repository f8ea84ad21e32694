package persistence

import (
	"time"
)

// GameModel represents the games table
type GameModel struct {
	ID                 string    `gorm:"column:id;primaryKey"`
	Status             string    `gorm:"column:status;not null"`
	CurrentPlayerIndex int       `gorm:"column:current_player_index;not null;default:0"`
	MaxPlayers         int       `gorm:"column:max_players;not null"`
	WinnerID           *int      `gorm:"column:winner_id"`
	DroppedLoads       string    `gorm:"column:dropped_loads;type:text"` // JSON array as text
	CreatedAt          time.Time `gorm:"column:created_at;not null"`
	UpdatedAt          time.Time `gorm:"column:updated_at;not null"`
}

func (GameModel) TableName() string {
	return "games"
}

// PlayerModel represents the players table. Seat order within a game is
// created_at ascending; the turn rotation depends on that ordering.
type PlayerModel struct {
	ID        int        `gorm:"column:id;primaryKey;autoIncrement"`
	GameID    string     `gorm:"column:game_id;index;uniqueIndex:idx_players_game_color;not null"`
	Game      *GameModel `gorm:"foreignKey:GameID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID    string     `gorm:"column:user_id"` // empty for bot seats
	IsBot     bool       `gorm:"column:is_bot;not null;default:false"`
	BotConfig string     `gorm:"column:bot_config;type:text"` // JSON as text, empty for humans

	Name  string  `gorm:"column:name;not null"`
	Color *string `gorm:"column:color;uniqueIndex:idx_players_game_color"` // NULL until a colour is assigned; colours are unique per game

	Money    int `gorm:"column:money;not null;default:0"`
	DebtOwed int `gorm:"column:debt_owed;not null;default:0"`

	TrainType   string `gorm:"column:train_type;not null"`
	PositionRow *int   `gorm:"column:position_row"`
	PositionCol *int   `gorm:"column:position_col"`
	Loads       string `gorm:"column:loads;type:text"` // JSON array as text
	Hand        string `gorm:"column:hand;type:text"`  // JSON array of card ids

	CurrentTurnNumber int       `gorm:"column:current_turn_number;not null;default:0"`
	IsOnline          bool      `gorm:"column:is_online;not null;default:false"`
	CreatedAt         time.Time `gorm:"column:created_at;not null"`
}

func (PlayerModel) TableName() string {
	return "players"
}

// PlayerTrackModel represents the player_tracks table: one row per player
// per game holding the built segments and budget counters.
type PlayerTrackModel struct {
	GameID        string       `gorm:"column:game_id;primaryKey;not null"`
	PlayerID      int          `gorm:"column:player_id;primaryKey;not null"`
	Player        *PlayerModel `gorm:"foreignKey:PlayerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Segments      string       `gorm:"column:segments;type:text;not null"` // JSON array as text
	TotalCost     int          `gorm:"column:total_cost;not null;default:0"`
	TurnBuildCost int          `gorm:"column:turn_build_cost;not null;default:0"`
	LastBuildAt   time.Time    `gorm:"column:last_build_at"`
}

func (PlayerTrackModel) TableName() string {
	return "player_tracks"
}

// BotAuditModel represents the bot_audits table: one append-only row per
// executed bot turn with the full strategy record as JSON.
type BotAuditModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	GameID     string    `gorm:"column:game_id;index;not null"`
	PlayerID   int       `gorm:"column:player_id;not null"`
	TurnNumber int       `gorm:"column:turn_number;not null"`
	Strategy   string    `gorm:"column:strategy;type:text;not null"` // JSON as text
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
}

func (BotAuditModel) TableName() string {
	return "bot_audits"
}
