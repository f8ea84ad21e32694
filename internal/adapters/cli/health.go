package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	var (
		gameID  string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check daemon health status",
		Long: `Verify that the daemon is running and responsive.

With --game, probes the health entry of one game instead of the daemon
itself. A game reports SERVING once the daemon has scheduled at least one
bot turn for it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := NewDaemonClient(socketPath)
			if err != nil {
				return fmt.Errorf("failed to connect to daemon: %w", err)
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			var resp *healthpb.HealthCheckResponse
			if gameID != "" {
				id, err := parseGameID(gameID)
				if err != nil {
					return err
				}
				resp, err = client.CheckGame(ctx, id)
				if err != nil {
					return fmt.Errorf("health check failed: %w", err)
				}
			} else {
				resp, err = client.CheckDaemon(ctx)
				if err != nil {
					return fmt.Errorf("health check failed: %w", err)
				}
			}

			if jsonOut {
				out, err := protojson.Marshal(resp)
				if err != nil {
					return fmt.Errorf("failed to encode response: %w", err)
				}
				fmt.Println(string(out))
				return nil
			}

			if resp.Status == healthpb.HealthCheckResponse_SERVING {
				fmt.Println("✓ Daemon is healthy")
			} else {
				fmt.Println("✗ Daemon is not serving")
			}
			fmt.Printf("  Status: %s\n", resp.Status)

			return nil
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "Probe one game's health entry instead of the daemon")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the raw health response as JSON")

	return cmd
}
