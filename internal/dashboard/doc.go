// Package dashboard holds the state engine behind the rtop terminal dashboard.
//
// The engine is a plain, single-threaded state machine. It never performs I/O:
// probe workers deliver snapshots as Update values, the control loop applies
// them with Engine.Apply, and keyboard navigation arrives through
// Engine.Dispatch. The renderer only reads.
//
// # Key Components
//
//	Engine         - Owns the tab set and one optional tab per source kind
//	TabSet         - Ordered, wrapping set of configured tabs
//	FiberTab       - Fiber forest, aligned dumps, scroll state, status tallies
//	PoolTab        - Query pool and connection pool gauges plus latest config
//	ActorTab       - Actor forest and actor count history
//	SelectionList  - Single-selection list with wraparound navigation
//	History        - Fixed-capacity FIFO sample buffer for sparklines
//	RenderForest   - Flat parent-referenced records to aligned tree lines
//	DumpViewer     - Scroll offset over a multi-line text blob
//
// # Ownership
//
// Nothing in this package is safe for concurrent use. All mutation happens on
// the control loop goroutine; workers hand over immutable values through
// channels.
package dashboard
