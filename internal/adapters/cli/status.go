package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/andrescamacho/railbot-go/internal/infrastructure/pidfile"
)

// NewStatusCommand creates the status command
func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon process and socket status",
		Long: `Report whether the daemon process is alive and whether its socket
answers health checks. Uses the PID file from the configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Println("Railbot Daemon Status")
			fmt.Println("=====================")

			pf := pidfile.New(cfg.Daemon.PIDFile)
			pid, running := pf.IsRunning()
			if running {
				fmt.Printf("  Process:  running (PID %d)\n", pid)
			} else if pid != 0 {
				fmt.Printf("  Process:  not running (stale PID file, PID %d)\n", pid)
			} else {
				fmt.Println("  Process:  not running (no PID file)")
			}
			fmt.Printf("  PID file: %s\n", cfg.Daemon.PIDFile)
			fmt.Printf("  Socket:   %s\n", socketPath)

			client, err := NewDaemonClient(socketPath)
			if err != nil {
				fmt.Printf("  Health:   unreachable (%v)\n", err)
				return nil
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			resp, err := client.CheckDaemon(ctx)
			if err != nil {
				fmt.Printf("  Health:   unreachable (%v)\n", err)
				return nil
			}

			if resp.Status == healthpb.HealthCheckResponse_SERVING {
				fmt.Println("  Health:   SERVING")
			} else {
				fmt.Printf("  Health:   %s\n", resp.Status)
			}

			return nil
		},
	}

	return cmd
}
