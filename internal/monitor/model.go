package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/rileyhilliard/rtop/internal/dashboard"
	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/logger"
)

// Layout defaults used until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// refreshInterval re-renders the status line so update ages stay current.
const refreshInterval = time.Second

// Feed is the update stream of one configured source.
type Feed struct {
	Kind     dashboard.TabKind
	Endpoint string
	Updates  <-chan dashboard.Update
}

// SourceStatus tracks the health of one source.
type SourceStatus struct {
	Endpoint   string
	LastUpdate time.Time // time of the last successful poll
	LastError  error     // error of the latest poll, nil once a poll succeeds
	Updates    int
}

// Options configures a Model.
type Options struct {
	Feeds []Feed
	// Cancel stops the pollers; it is called when the dashboard quits.
	Cancel context.CancelFunc
	Logger logger.Logger
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	engine  *dashboard.Engine
	feeds   map[dashboard.TabKind]<-chan dashboard.Update
	sources map[dashboard.TabKind]*SourceStatus
	order   []dashboard.TabKind
	cancel  context.CancelFunc
	log     logger.Logger

	keys     KeyMap
	help     help.Model
	dump     viewport.Model
	width    int
	height   int
	showHelp bool
	quitting bool
	exitErr  error
}

// updateMsg carries one delivery from a source channel. ok is false once the
// channel is closed.
type updateMsg struct {
	kind   dashboard.TabKind
	update dashboard.Update
	ok     bool
}

// tickMsg signals a periodic redraw.
type tickMsg time.Time

// NewModel creates a dashboard over engine fed by opts.Feeds.
func NewModel(engine *dashboard.Engine, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	m := Model{
		engine:  engine,
		feeds:   make(map[dashboard.TabKind]<-chan dashboard.Update),
		sources: make(map[dashboard.TabKind]*SourceStatus),
		cancel:  opts.Cancel,
		log:     log,
		keys:    DefaultKeyMap,
		help:    help.New(),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	for _, f := range opts.Feeds {
		m.feeds[f.Kind] = f.Updates
		m.sources[f.Kind] = &SourceStatus{Endpoint: f.Endpoint}
		m.order = append(m.order, f.Kind)
	}

	m.dump = viewport.New(m.dumpWidth(), m.paneHeight())
	m.help.Width = m.width
	return m
}

// Init starts waiting on every source and the redraw timer.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tickCmd()}
	for _, kind := range m.order {
		cmds = append(cmds, m.waitCmd(kind))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.dump.Width = m.dumpWidth()
		m.dump.Height = m.paneHeight()
		m.syncDump()

	case updateMsg:
		cmd := m.applyUpdate(msg)
		return m, cmd

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		return m, m.tickCmd()
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	base := m.renderDashboard()
	if m.showHelp {
		return m.renderHelpOverlay(base)
	}
	return base
}

// applyUpdate feeds one delivery to the engine and waits for the next one
// from the same source.
func (m *Model) applyUpdate(msg updateMsg) tea.Cmd {
	if !msg.ok {
		delete(m.feeds, msg.kind)
		if m.engine.ShouldQuit() {
			return nil
		}
		return m.fail(errors.New(errors.ErrProbe,
			fmt.Sprintf("%s source stopped unexpectedly", msg.kind),
			"Run with --log-file to capture poller logs"))
	}

	if err := m.engine.Apply(msg.update); err != nil {
		return m.fail(err)
	}
	if m.engine.ShouldQuit() {
		return nil
	}

	st := m.sources[msg.kind]
	if st == nil {
		st = &SourceStatus{}
		m.sources[msg.kind] = st
	}
	if u := msg.update; u.Err != nil {
		st.LastError = u.Err
	} else {
		st.LastError = nil
		st.LastUpdate = u.At
		st.Updates++
	}

	if msg.kind == dashboard.KindFibers {
		m.syncDump()
	}
	return m.waitCmd(msg.kind)
}

// fail quits the dashboard because of err, which is kept for ExitError.
func (m *Model) fail(err error) tea.Cmd {
	m.log.Error("%s", errors.Summary(err))
	m.exitErr = err
	m.engine.Quit(errors.Summary(err))
	return m.stop()
}

// stop marks the model as quitting and cancels the pollers.
func (m *Model) stop() tea.Cmd {
	m.quitting = true
	if m.cancel != nil {
		m.cancel()
	}
	return tea.Quit
}

// waitCmd returns a command that receives the next update of one source.
func (m Model) waitCmd(kind dashboard.TabKind) tea.Cmd {
	ch, ok := m.feeds[kind]
	if !ok {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		return updateMsg{kind: kind, update: u, ok: ok}
	}
}

// tickCmd returns a command that sends a tick after the refresh interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// syncDump fills the viewport with the window of the selected fiber's dump
// that starts at the engine's scroll offset. The viewport itself never
// scrolls, so an offset past the last line paints an empty pane. Lines are
// cut to the pane width so the viewport never wraps.
func (m *Model) syncDump() {
	fibers := m.engine.Fibers()
	if fibers == nil {
		return
	}

	lines := fibers.Viewer().Visible(m.dump.Height)
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, m.dump.Width, "…")
	}
	m.dump.SetContent(strings.Join(lines, "\n"))
	m.dump.GotoTop()
}

// Engine returns the dashboard state.
func (m Model) Engine() *dashboard.Engine {
	return m.engine
}

// Source returns the status of one source.
func (m Model) Source(kind dashboard.TabKind) (SourceStatus, bool) {
	st, ok := m.sources[kind]
	if !ok {
		return SourceStatus{}, false
	}
	return *st, true
}

// ExitReason returns why the dashboard stopped, if it was not a normal quit.
func (m Model) ExitReason() (string, bool) {
	return m.engine.ExitReason()
}

// ExitError returns the error that stopped the dashboard, or nil after a
// normal quit.
func (m Model) ExitError() error {
	return m.exitErr
}

// bodyHeight is the space left for the active tab between the header rows
// (title, tabs, blank) and the footer rows (sparklines, status, help).
func (m Model) bodyHeight() int {
	return max(3, m.height-8)
}

// paneHeight is the inner height of the bordered panels of a tab.
func (m Model) paneHeight() int {
	return m.bodyHeight() - 2
}

func (m Model) listWidth() int {
	return max(24, m.width*2/5)
}

func (m Model) dumpWidth() int {
	// Two border columns and one padding column per side.
	return max(10, m.width-m.listWidth()-5)
}
