package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/rtop/internal/errors"
)

// Global flags
var (
	cfgFile string
	logFile string
)

// rootCmd runs the dashboard when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "rtop",
	Short: "Live terminal dashboard for fibers, connection pools and actors",
	Long: `rtop polls debug endpoints of a running server and shows its fiber
scheduler, connection pool and actor system as tabs with history sparklines.

Sources are read from .rtop.yaml (see 'rtop init') or given as flags:
  rtop --fibers http://127.0.0.1:6789/fibers
  rtop --pool file://./pool.json --actors mqtt://broker:1883/app/actors`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(monitorFlags)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if isUnknownCommandError(err) {
			if name := extractUnknownCommand(err); name != "" {
				err = errors.New(errors.ErrConfig,
					fmt.Sprintf("Unknown command '%s'", name),
					"Run 'rtop --help' to see the available commands.")
			}
		}
		if MachineMode() {
			_ = WriteJSONFromError(os.Stdout, err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .rtop.yaml, searched upwards)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file while the dashboard runs")
	AddSourceFlags(rootCmd.Flags(), &monitorFlags)
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand returns the quoted command name from a cobra error.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.IndexByte(msg, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(msg[start+1:], '"')
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
