package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	socketPath string
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "railbot",
		Short: "Railbot CLI - Inspect and control the bot turn daemon",
		Long: `Railbot CLI provides commands to inspect and control the bot turn daemon.
The CLI communicates with the daemon via Unix socket.

Examples:
  railbot health
  railbot health --game game-42 --json
  railbot status
  railbot audits --game game-42 --limit 5
  railbot stop`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", getDefaultSocketPath(),
		"Path to daemon Unix socket")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ./config.yaml, ./configs, /etc/railbot)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewHealthCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewStopCommand())
	rootCmd.AddCommand(NewAuditsCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// getDefaultSocketPath returns the default socket path
func getDefaultSocketPath() string {
	if path := os.Getenv("RAILBOT_SOCKET"); path != "" {
		return path
	}
	return "/tmp/railbot-daemon.sock"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
