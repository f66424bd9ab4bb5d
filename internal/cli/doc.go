// Package cli implements the rtop command-line interface.
//
// The root command opens the dashboard; subcommands cover setup and
// scripting:
//
//	rtop                       - Open the dashboard (same as monitor)
//	rtop monitor               - Open the dashboard
//	rtop init                  - Create .rtop.yaml
//	rtop snapshot <source>     - Poll one source once and print it
//	rtop version               - Print build information
//	rtop completion <shell>    - Generate shell completion
//
// # Configuration
//
// Commands load .rtop.yaml through the config package, then apply flag
// overrides (--fibers, --pool, --actors, --title, --interval, --timeout)
// and validate the result. --config names an explicit file.
//
// # Terminal ownership
//
// While the dashboard runs, the standard logger writes to --log-file (or
// nowhere) so poller warnings cannot corrupt the alternate screen. An
// abnormal stop is reported after the screen is restored.
package cli
