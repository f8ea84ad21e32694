package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect the railbot configuration.

Configuration is loaded from multiple sources with priority:
1. Environment variables (RAILBOT_* prefix)
2. Config file (config.yaml)
3. Default values

Example:
  railbot config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Println("Railbot Configuration")
			fmt.Println("=====================")

			fmt.Println("Database:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			if cfg.Database.URL != "" {
				fmt.Printf("  URL:              %s\n", maskPassword(cfg.Database.URL))
			} else if cfg.Database.Type == "sqlite" {
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
			} else {
				fmt.Printf("  Host:             %s\n", cfg.Database.Host)
				fmt.Printf("  Port:             %d\n", cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
			}

			fmt.Println("\nDaemon:")
			fmt.Printf("  Socket Path:      %s\n", cfg.Daemon.SocketPath)
			fmt.Printf("  PID File:         %s\n", cfg.Daemon.PIDFile)
			fmt.Printf("  Shutdown Timeout: %s\n", cfg.Daemon.ShutdownTimeout)

			fmt.Println("\nBot:")
			fmt.Printf("  Turn Delay:       %s\n", cfg.Bot.TurnDelay)
			fmt.Printf("  Turn Deadline:    %s\n", cfg.Bot.TurnDeadline)
			fmt.Printf("  Rate Limit:       %.1f turns/s (burst: %d)\n",
				cfg.Bot.TurnsPerSecond, cfg.Bot.Burst)

			fmt.Println("\nWorld Data:")
			fmt.Printf("  Directory:        %s\n", cfg.Data.Dir)
			fmt.Printf("  Grid File:        %s\n", cfg.Data.GridFile)
			fmt.Printf("  Loads File:       %s\n", cfg.Data.LoadsFile)
			fmt.Printf("  Demand File:      %s\n", cfg.Data.DemandFile)

			fmt.Println("\nMetrics:")
			fmt.Printf("  Enabled:          %t\n", cfg.Metrics.Enabled)
			if cfg.Metrics.Enabled {
				fmt.Printf("  Endpoint:         http://%s:%d%s\n",
					cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
			}

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:           %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}

	return cmd
}

// maskPassword masks the password in a connection URL for display
func maskPassword(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.User == nil {
		return raw
	}
	if _, has := parsed.User.Password(); has {
		parsed.User = url.UserPassword(parsed.User.Username(), "****")
	}
	return parsed.String()
}
