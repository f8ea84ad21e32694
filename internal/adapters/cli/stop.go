package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/railbot-go/internal/infrastructure/pidfile"
)

// NewStopCommand creates the stop command
func NewStopCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		Long: `Signal the daemon to shut down gracefully. The daemon finishes its
in-flight bot turn, drains the socket and releases its PID file. Escalates
to SIGKILL if the process does not exit within the grace period.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			pf := pidfile.New(cfg.Daemon.PIDFile)
			pid, running := pf.IsRunning()
			if !running {
				fmt.Println("Daemon is not running")
				return nil
			}

			fmt.Printf("Stopping daemon (PID %d)...\n", pid)
			if err := pf.KillExisting(); err != nil {
				return fmt.Errorf("failed to stop daemon: %w", err)
			}

			fmt.Println("✓ Daemon stopped")
			return nil
		},
	}

	return cmd
}
