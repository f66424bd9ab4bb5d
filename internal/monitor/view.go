package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/rtop/internal/dashboard"
	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/ui"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(FooterStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return b.String()
}

// renderHeader renders the title and a one-line summary.
func (m Model) renderHeader() string {
	title := m.engine.Title()
	if title == "" {
		title = "rtop"
	}

	healthy := 0
	for _, st := range m.sources {
		if st.LastError == nil && st.Updates > 0 {
			healthy++
		}
	}

	stats := LabelStyle.Render(fmt.Sprintf(" | %d sources | %d healthy", len(m.sources), healthy))
	return HeaderStyle.Render(lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Render(title) + stats)
}

// renderTabs renders the tab bar with the active tab highlighted.
func (m Model) renderTabs() string {
	tabs := m.engine.Tabs()
	titles := tabs.Titles()

	parts := make([]string, len(titles))
	for i, t := range titles {
		if i == tabs.Index() {
			parts[i] = ActiveTabStyle.Render(t)
		} else {
			parts[i] = TabStyle.Render(t)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderBody renders the active tab.
func (m Model) renderBody() string {
	tab, ok := m.engine.CurrentTab()
	if !ok {
		return LabelStyle.Render("No sources configured")
	}

	switch tab.Kind {
	case dashboard.KindFibers:
		return m.renderFibers()
	case dashboard.KindPool:
		return m.renderPool()
	case dashboard.KindActors:
		return m.renderActors()
	default:
		return ""
	}
}

// renderTree renders the visible window of a tree list, keeping the
// selected row on screen.
func (m Model) renderTree(labels []string, selected int, hasSelection bool, width, height int) string {
	start := 0
	if hasSelection && selected >= height {
		start = selected - height + 1
	}
	end := min(len(labels), start+height)

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		label := ansi.Truncate(labels[i], width-2, "…")
		if hasSelection && i == selected {
			rows = append(rows, SelectedRowStyle.Render(ui.SymbolSelected+" "+label))
		} else {
			rows = append(rows, "  "+ValueStyle.Render(label))
		}
	}
	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(rows, "\n"))
}

// renderFibers renders the fiber tree, the selected dump and the status
// tallies.
func (m Model) renderFibers() string {
	tab := m.engine.Fibers()
	labels := tab.Labels()
	if len(labels) == 0 {
		return m.waiting(dashboard.KindFibers, "Waiting for the first fiber dump")
	}

	height := m.paneHeight()
	sel, ok := tab.Selected()
	list := m.renderTree(labels, sel, ok, m.listWidth(), height)

	dump := PanelStyle.Width(m.dump.Width + 2).Height(height).Render(m.dump.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, dump)

	return body + "\n" + m.renderTallies(tab.Tallies())
}

// renderTallies renders one sparkline per fiber status.
func (m Model) renderTallies(h *dashboard.History[dashboard.StatusTally]) string {
	latest, ok := h.Latest()
	if !ok {
		return ""
	}

	series := []struct {
		name  string
		value func(dashboard.StatusTally) int
	}{
		{"running", func(t dashboard.StatusTally) int { return t.Running }},
		{"suspended", func(t dashboard.StatusTally) int { return t.Suspended }},
		{"finishing", func(t dashboard.StatusTally) int { return t.Finishing }},
		{"done", func(t dashboard.StatusTally) int { return t.Done }},
	}

	width := max(8, m.width/len(series)-18)
	parts := make([]string, len(series))
	for i, s := range series {
		data := dashboard.Series(h, func(t dashboard.StatusTally) float64 { return float64(s.value(t)) })
		parts[i] = fmt.Sprintf("%s %s %s",
			LabelStyle.Render(s.name),
			ui.RenderSparklineColor(data, width, ui.StatusColors[i]),
			ValueStyle.Render(humanize.Comma(int64(s.value(latest)))))
	}
	return strings.Join(parts, "  ")
}

// renderPool renders the query pool gauges, the optional connection pool
// and the pool configuration.
func (m Model) renderPool() string {
	tab := m.engine.Pool()
	metrics, ok := tab.Metrics().Latest()
	if !ok {
		return m.waiting(dashboard.KindPool, "Waiting for the first pool snapshot")
	}

	width := min(m.width, 100)
	spark := max(8, width-52)
	cfg := tab.Config()

	var lines []string
	lines = append(lines, SectionHeader("Query pool", humanize.Comma(int64(metrics.ActiveThreads))+" active", width))
	lines = append(lines, SectionContentLine(gaugeLine("Active threads", metrics.ActiveThreads, cfg.MaxThreads,
		dashboard.Series(tab.Metrics(), func(p dashboard.PoolMetrics) float64 { return float64(p.ActiveThreads) }), spark), width))
	lines = append(lines, SectionContentLine(gaugeLine("Queue size", metrics.QueueSize, cfg.MaxQueueSize,
		dashboard.Series(tab.Metrics(), func(p dashboard.PoolMetrics) float64 { return float64(p.QueueSize) }), spark), width))
	lines = append(lines, SectionFooter(width))

	if tab.HasConnections() {
		conn, _ := tab.Connections().Latest()
		lines = append(lines, SectionHeader("Connections", humanize.Comma(int64(conn.Total))+" total", width))
		for _, g := range []struct {
			name  string
			value int
			f     func(dashboard.ConnectionMetrics) float64
		}{
			{"Active", conn.Active, func(c dashboard.ConnectionMetrics) float64 { return float64(c.Active) }},
			{"Idle", conn.Idle, func(c dashboard.ConnectionMetrics) float64 { return float64(c.Idle) }},
			{"Waiting", conn.Waiting, func(c dashboard.ConnectionMetrics) float64 { return float64(c.Waiting) }},
		} {
			lines = append(lines, SectionContentLine(gaugeLine(g.name, g.value, conn.Total,
				dashboard.Series(tab.Connections(), g.f), spark), width))
		}
		lines = append(lines, SectionFooter(width))
	}

	if cfg == (dashboard.PoolConfig{}) {
		lines = append(lines, MutedStyle.Render("No pool configuration reported"))
	} else {
		lines = append(lines, LabelStyle.Render("max threads ")+ValueStyle.Render(humanize.Comma(int64(cfg.MaxThreads)))+
			LabelStyle.Render("  max queue ")+ValueStyle.Render(humanize.Comma(int64(cfg.MaxQueueSize))))
	}
	return strings.Join(lines, "\n")
}

// gaugeLine renders "label  value / limit  bar  sparkline". Without a
// limit the bar is omitted.
func gaugeLine(label string, value, limit int, history []float64, sparkWidth int) string {
	text := humanize.Comma(int64(value))
	bar := strings.Repeat(" ", 12)
	if limit > 0 {
		text += " / " + humanize.Comma(int64(limit))
		bar = ProgressBar(12, float64(value)/float64(limit)*100)
	}
	return fmt.Sprintf("%s %s %s %s",
		LabelStyle.Width(16).Render(label),
		ValueStyle.Width(16).Render(text),
		bar,
		ui.RenderSparklineColor(history, sparkWidth, ui.ColorInfo))
}

// renderActors renders the actor tree and the selected actor.
func (m Model) renderActors() string {
	tab := m.engine.Actors()
	labels := tab.Labels()
	if len(labels) == 0 && tab.Counts().Len() == 0 {
		return m.waiting(dashboard.KindActors, "Waiting for the first actor snapshot")
	}

	height := m.paneHeight()
	sel, ok := tab.Selected()
	list := m.renderTree(labels, sel, ok, m.listWidth(), height)

	var detail []string
	if a, ok := tab.SelectedActor(); ok {
		detail = append(detail,
			LabelStyle.Render("Actor  ")+ValueStyle.Render(fmt.Sprintf("#%d", a.ID)),
			LabelStyle.Render("Name   ")+ValueStyle.Render(ansi.Truncate(a.Name, m.dumpWidth()-7, "…")))
		if a.ParentID != nil {
			detail = append(detail, LabelStyle.Render("Parent ")+ValueStyle.Render(fmt.Sprintf("#%d", *a.ParentID)))
		} else {
			detail = append(detail, LabelStyle.Render("Parent ")+MutedStyle.Render("none"))
		}
	} else {
		detail = append(detail, MutedStyle.Render("No actors"))
	}
	panel := PanelStyle.Width(m.dump.Width + 2).Height(height).Render(strings.Join(detail, "\n"))

	count, _ := tab.Counts().Latest()
	counts := dashboard.Series(tab.Counts(), func(n int) float64 { return float64(n) })
	footer := LabelStyle.Render("actors ") +
		ui.RenderSparklineColor(counts, max(8, m.width-30), ui.ColorInfo) + " " +
		ValueStyle.Render(humanize.Comma(int64(count)))

	return lipgloss.JoinHorizontal(lipgloss.Top, list, panel) + "\n" + footer
}

// waiting renders the placeholder of a tab without data, including the
// latest poll error if there is one.
func (m Model) waiting(kind dashboard.TabKind, msg string) string {
	lines := []string{MutedStyle.Render(msg)}
	if st, ok := m.sources[kind]; ok && st.LastError != nil {
		lines = append(lines, "", ErrorStyle.Render(ui.SymbolFail+" "+ansi.Truncate(errors.Summary(st.LastError), m.width-2, "…")))
	}
	return strings.Join(lines, "\n")
}

// renderStatusLine renders the health of every source in tab order.
func (m Model) renderStatusLine() string {
	var parts []string
	for _, kind := range dashboard.Kinds {
		st, ok := m.sources[kind]
		if !ok {
			continue
		}

		var status string
		switch {
		case st.LastError != nil:
			status = ErrorStyle.Render(ui.SymbolFail + " " + errors.Summary(st.LastError))
		case st.Updates == 0:
			status = MutedStyle.Render(ui.SymbolPending + " waiting")
		default:
			status = HealthyStyle.Render(ui.SymbolSuccess) + " " + MutedStyle.Render(humanize.Time(st.LastUpdate))
		}
		parts = append(parts, LabelStyle.Render(kind.String())+" "+status)
	}
	return ansi.Truncate(strings.Join(parts, MutedStyle.Render("  │  ")), m.width, "…")
}
