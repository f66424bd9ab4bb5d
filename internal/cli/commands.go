package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/rtop/internal/errors"
)

// Command-specific flags
var (
	monitorFlags  SourceFlags
	initFlags     InitOptions
	snapshotFlags SnapshotOptions
)

// monitorCmd starts the dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Open the live dashboard",
	Long: `Open the live dashboard. This is what 'rtop' does without a subcommand.

One poller per configured source fetches snapshots on the poll interval.
Each source gets its own tab; navigate with the arrow keys or h/j/k/l.

Examples:
  rtop monitor
  rtop monitor --fibers http://127.0.0.1:6789/fibers --interval 1s
  rtop monitor --config ./staging.rtop.yaml --log-file /tmp/rtop.log`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(monitorFlags)
	},
}

// initCmd creates a new .rtop.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .rtop.yaml configuration",
	Long: `Create a .rtop.yaml file in the current directory.

Prompts for the endpoint of every source, suggesting hosts from
~/.ssh/config for ssh:// endpoints. With --non-interactive the values
come from flags only.

Examples:
  rtop init
  rtop init --non-interactive --fibers http://127.0.0.1:6789/fibers
  rtop init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := initFlags
		if !opts.NonInteractive {
			opts.NonInteractive = nonInteractiveEnv()
		}
		return Init(opts)
	},
}

// snapshotCmd fetches one snapshot and prints it
var snapshotCmd = &cobra.Command{
	Use:   "snapshot <fibers|pool|actors>",
	Short: "Fetch one snapshot of a source and print it",
	Long: `Poll a source once and print what the dashboard would show for it.

Useful for checking a probe endpoint and for scripting. The endpoint is
taken from --endpoint or the config file.

Examples:
  rtop snapshot fibers
  rtop snapshot pool --endpoint file://./pool.json
  rtop snapshot actors --json`,
	ValidArgs: []string{"fibers", "pool", "actors"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return snapshotCommand(cmd.OutOrStdout(), args[0], snapshotFlags)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for rtop.

Examples:
  # Bash
  rtop completion bash > /etc/bash_completion.d/rtop

  # Zsh
  rtop completion zsh > "${fpath[1]}/_rtop"

  # Fish
  rtop completion fish > ~/.config/fish/completions/rtop.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// monitor command flags
	AddSourceFlags(monitorCmd.Flags(), &monitorFlags)

	// init command flags
	AddSourceFlags(initCmd.Flags(), &initFlags.Sources)
	initCmd.Flags().BoolVarP(&initFlags.Overwrite, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initFlags.NonInteractive, "non-interactive", false, "skip prompts, use flag values")

	// snapshot command flags
	snapshotCmd.Flags().StringVar(&snapshotFlags.Endpoint, "endpoint", "", "endpoint to poll instead of the configured one")
	snapshotCmd.Flags().StringVar(&snapshotFlags.Timeout, "timeout", "", "poll timeout (e.g., 5s)")
	snapshotCmd.Flags().BoolVar(&snapshotFlags.Dumps, "dumps", false, "print the dump of every fiber")
	snapshotCmd.Flags().BoolVar(&machineMode, "json", false, "print the snapshot as JSON")

	// Register all commands
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(completionCmd)
}
