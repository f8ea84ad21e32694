package config

import "time"

// BotConfig holds pacing configuration for automated turn taking
type BotConfig struct {
	// Delay between a bot's seat coming up and its turn starting.
	// Gives connected clients time to render the previous move.
	TurnDelay time.Duration `mapstructure:"turn_delay"`

	// Hard deadline for a single bot turn (snapshot through persistence)
	TurnDeadline time.Duration `mapstructure:"turn_deadline" validate:"required"`

	// Global rate limit on bot turns across all games
	TurnsPerSecond float64 `mapstructure:"turns_per_second" validate:"min=0"`

	// Burst size for the turn rate limiter
	Burst int `mapstructure:"burst" validate:"min=1"`
}
