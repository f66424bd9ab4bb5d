// Package monitor is the terminal front end of rtop: a Bubble Tea program
// that renders a dashboard.Engine and feeds it snapshots and key presses.
//
// # Architecture
//
// The package follows The Elm Architecture (Model-Update-View):
//
//   - Model: wraps the engine plus per-source status (last update, last error)
//   - Update: applies probe updates and navigation keys to the engine
//   - View: renders the header, tab bar, the active tab and a status line
//
// # Message Flow
//
// Every configured source has its own probe.Poller delivering
// dashboard.Update values on a bounded channel:
//
//  1. waitCmd blocks on one source's channel and returns an updateMsg
//  2. Update applies it to the engine and re-arms waitCmd for that source
//  3. View re-renders from the engine
//
// The engine is only ever touched from Update, so it needs no locking.
//
// # Keyboard Shortcuts
//
//	←/→, h/l, tab   - Switch tab
//	↑/↓, k/j        - Move the selection in the fiber or actor tree
//	PgUp/PgDn       - Scroll the selected fiber's dump
//	?               - Toggle help overlay
//	q, Ctrl+C       - Quit
package monitor
