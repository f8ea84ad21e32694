package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information, overridable at build time via -ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("railbot %s (%s) %s/%s\n", Version, GitCommit, runtime.GOOS, runtime.GOARCH)
		},
	}

	return cmd
}
