package cli

import (
	"fmt"

	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/infrastructure/config"
)

// parseGameID validates a game ID supplied on the command line
func parseGameID(raw string) (shared.GameID, error) {
	id, err := shared.NewGameID(raw)
	if err != nil {
		return shared.GameID{}, fmt.Errorf("invalid game ID %q: %w", raw, err)
	}
	return id, nil
}

// loadConfig loads the effective configuration, honoring the global
// --config flag
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
