package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/infrastructure/database"
)

// NewAuditsCommand creates the audits command
func NewAuditsCommand() *cobra.Command {
	var (
		gameID  string
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "audits",
		Short: "Show strategy audits for a game",
		Long: `List the strategy audit rows the daemon recorded for a game, newest
first. Each row shows what the bot considered, what it chose and how the
execution went. Reads the database directly; the daemon does not need to
be running.

Examples:
  railbot audits --game game-42
  railbot audits --game game-42 --limit 5 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(gameID)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			repo := persistence.NewGormAuditRepository(db, nil)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			rows, err := repo.FindByGame(ctx, id, limit)
			if err != nil {
				return fmt.Errorf("failed to load audits: %w", err)
			}

			if jsonOut {
				out, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode audits: %w", err)
				}
				fmt.Println(string(out))
				return nil
			}

			if len(rows) == 0 {
				fmt.Printf("No audits recorded for game %s\n", id)
				return nil
			}

			fmt.Printf("Strategy audits for game %s (%d rows)\n", id, len(rows))
			for _, row := range rows {
				result := "ok"
				if !row.Strategy.ExecutionResult.Success {
					result = fmt.Sprintf("failed: %s", row.Strategy.ExecutionResult.Error)
				}
				fmt.Printf("\nTurn %d - player %s (%s/%s)\n",
					row.TurnNumber, row.PlayerID, row.Strategy.Archetype, row.Strategy.Skill)
				fmt.Printf("  Recorded:  %s\n", row.CreatedAt.Format(time.RFC3339))
				fmt.Printf("  Plan:      %s\n", row.Strategy.SelectedPlan.Rationale)
				fmt.Printf("  Actions:   %d executed (%s)\n",
					row.Strategy.ExecutionResult.ActionsExecuted, result)
				fmt.Printf("  Position:  money %s, debt %s, %d major cities connected\n",
					row.Strategy.BotStatus.Money, row.Strategy.BotStatus.Debt,
					row.Strategy.BotStatus.ConnectedMajorCities)
				fmt.Printf("  Duration:  %dms\n", row.Strategy.DurationMs)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "Game ID to inspect (required)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of rows to show")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print rows as JSON")
	_ = cmd.MarkFlagRequired("game")

	return cmd
}
