package dashboard

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/rtop/internal/errors"
)

// Event is a navigation request decoded from user input.
type Event int

const (
	EventUp Event = iota
	EventDown
	EventLeft
	EventRight
	EventPageUp
	EventPageDown
	EventQuit
)

// String returns a short name for the event.
func (e Event) String() string {
	switch e {
	case EventUp:
		return "up"
	case EventDown:
		return "down"
	case EventLeft:
		return "left"
	case EventRight:
		return "right"
	case EventPageUp:
		return "pgup"
	case EventPageDown:
		return "pgdown"
	case EventQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Update is one delivery from a probe worker. Only the payload matching Kind
// is read. A non-nil Err means the poll failed and carries no payload.
type Update struct {
	Kind TabKind
	At   time.Time
	Err  error

	Fibers []Fiber
	// TreeUnchanged marks a fiber snapshot identical to the previous one: the
	// tally is still recorded but the tree and selection are left alone.
	TreeUnchanged bool

	Actors []Actor

	Pool PoolSnapshot
}

// Capacities are the retention windows of every history buffer.
type Capacities struct {
	FiberTallies int
	PoolMetrics  int
	Connections  int
	ActorCounts  int
}

// DefaultCapacities returns the default retention windows.
func DefaultCapacities() Capacities {
	return Capacities{
		FiberTallies: DefaultFiberTallyCapacity,
		PoolMetrics:  DefaultPoolMetricsCapacity,
		Connections:  DefaultConnectionsCapacity,
		ActorCounts:  DefaultActorCountCapacity,
	}
}

// Options selects which sources exist for the lifetime of an Engine.
type Options struct {
	Title  string
	Fibers bool
	Pool   bool
	Actors bool

	// Titles overrides the default tab titles.
	Titles map[TabKind]string

	Capacities Capacities
}

// Engine is the dashboard state. It owns at most one tab per source kind;
// a kind that was not configured at construction never gets a tab.
type Engine struct {
	title string
	tabs  TabSet

	fibers *FiberTab
	pool   *PoolTab
	actors *ActorTab

	quit       bool
	exitReason string
}

// New creates an engine with one tab for every configured source, in the
// fixed order fibers, pool, actors.
func New(opts Options) *Engine {
	caps := opts.Capacities
	defaults := DefaultCapacities()
	if caps.FiberTallies <= 0 {
		caps.FiberTallies = defaults.FiberTallies
	}
	if caps.PoolMetrics <= 0 {
		caps.PoolMetrics = defaults.PoolMetrics
	}
	if caps.Connections <= 0 {
		caps.Connections = defaults.Connections
	}
	if caps.ActorCounts <= 0 {
		caps.ActorCounts = defaults.ActorCounts
	}

	e := &Engine{title: opts.Title}
	var tabs []Tab
	add := func(kind TabKind) {
		title := opts.Titles[kind]
		if title == "" {
			title = kind.DefaultTitle()
		}
		tabs = append(tabs, Tab{Kind: kind, Title: title})
	}

	if opts.Fibers {
		e.fibers = NewFiberTab(caps.FiberTallies)
		add(KindFibers)
	}
	if opts.Pool {
		e.pool = NewPoolTab(caps.PoolMetrics, caps.Connections)
		add(KindPool)
	}
	if opts.Actors {
		e.actors = NewActorTab(caps.ActorCounts)
		add(KindActors)
	}

	e.tabs = NewTabSet(tabs)
	return e
}

// Apply routes a snapshot to the tab of its kind. An update for a kind that
// was never configured is a wiring bug and is reported as an ErrWiring error.
// Failed polls and anything arriving after Quit are ignored.
func (e *Engine) Apply(u Update) error {
	if e.quit {
		return nil
	}
	if !e.Configured(u.Kind) {
		return errors.New(errors.ErrWiring,
			fmt.Sprintf("Received a %s snapshot but no %s source is configured", u.Kind, u.Kind),
			"Probe workers must only be started for configured sources")
	}
	if u.Err != nil {
		return nil
	}

	switch u.Kind {
	case KindFibers:
		if !u.TreeUnchanged {
			e.fibers.IngestSnapshot(u.Fibers)
		}
		e.fibers.IngestTally(u.Fibers)
	case KindPool:
		e.pool.Ingest(u.Pool)
	case KindActors:
		e.actors.IngestSnapshot(u.Actors)
		e.actors.AppendCount(len(u.Actors))
	}
	return nil
}

// Dispatch applies a navigation event to the active tab.
func (e *Engine) Dispatch(ev Event) {
	if e.quit {
		return
	}

	switch ev {
	case EventLeft:
		e.tabs.Previous()
		return
	case EventRight:
		e.tabs.Next()
		return
	case EventQuit:
		e.Quit("")
		return
	}

	tab, ok := e.tabs.Current()
	if !ok {
		return
	}

	switch tab.Kind {
	case KindFibers:
		switch ev {
		case EventUp:
			e.fibers.SelectPrevious()
		case EventDown:
			e.fibers.SelectNext()
		case EventPageUp:
			e.fibers.ScrollUp()
		case EventPageDown:
			e.fibers.ScrollDown()
		}
	case KindActors:
		switch ev {
		case EventUp:
			e.actors.SelectPrevious()
		case EventDown:
			e.actors.SelectNext()
		}
	case KindPool:
		// nothing to navigate
	}
}

// Quit stops the engine. The first reason given is kept; an empty reason
// means a normal exit.
func (e *Engine) Quit(reason string) {
	if e.quit {
		return
	}
	e.quit = true
	e.exitReason = reason
}

// ShouldQuit reports whether Quit has been called.
func (e *Engine) ShouldQuit() bool {
	return e.quit
}

// ExitReason returns the reason given to Quit, if any.
func (e *Engine) ExitReason() (string, bool) {
	return e.exitReason, e.exitReason != ""
}

// Configured reports whether a tab exists for kind.
func (e *Engine) Configured(kind TabKind) bool {
	switch kind {
	case KindFibers:
		return e.fibers != nil
	case KindPool:
		return e.pool != nil
	case KindActors:
		return e.actors != nil
	default:
		return false
	}
}

// Title returns the dashboard title.
func (e *Engine) Title() string {
	return e.title
}

// Tabs returns the tab set.
func (e *Engine) Tabs() *TabSet {
	return &e.tabs
}

// CurrentTab returns the active tab.
func (e *Engine) CurrentTab() (Tab, bool) {
	return e.tabs.Current()
}

// Fibers returns the fiber tab, or nil when no fiber source is configured.
func (e *Engine) Fibers() *FiberTab {
	return e.fibers
}

// Pool returns the pool tab, or nil when no pool source is configured.
func (e *Engine) Pool() *PoolTab {
	return e.pool
}

// Actors returns the actor tab, or nil when no actor source is configured.
func (e *Engine) Actors() *ActorTab {
	return e.actors
}
