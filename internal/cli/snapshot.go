package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/rtop/internal/config"
	"github.com/rileyhilliard/rtop/internal/dashboard"
	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/logger"
	"github.com/rileyhilliard/rtop/internal/probe"
)

// SnapshotOptions holds options for the snapshot command.
type SnapshotOptions struct {
	Endpoint string // Overrides the configured endpoint
	Timeout  string
	Dumps    bool // Print fiber dumps below the tree
}

// snapshotCommand polls one source once and writes it to w.
func snapshotCommand(w io.Writer, kindName string, opts SnapshotOptions) error {
	kind, ok := dashboard.ParseTabKind(kindName)
	if !ok {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown source '%s'", kindName),
			"Use one of: fibers, pool, actors")
	}

	cfg, _, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = cfg.Source(kind).Endpoint
	}
	if endpoint == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("No %s source configured", kind),
			fmt.Sprintf("Pass --endpoint or set sources.%s.endpoint in .rtop.yaml", kind))
	}

	timeout, err := ParseDuration("timeout", opts.Timeout)
	if err != nil {
		return err
	}
	if timeout == 0 {
		timeout = cfg.Timeout
	}

	p, err := probe.NewPoller(kind, endpoint, probe.Options{Timeout: timeout, Logger: logger.Noop()})
	if err != nil {
		return err
	}
	defer p.Close()

	u := p.Poll(context.Background())
	if u.Err != nil {
		return u.Err
	}

	if MachineMode() {
		return WriteJSONSuccess(w, snapshotData(u))
	}
	_, err = io.WriteString(w, renderSnapshot(u, opts.Dumps))
	return err
}

// renderSnapshot renders an update as plain text, using the same tree
// layout as the dashboard.
func renderSnapshot(u dashboard.Update, dumps bool) string {
	var b strings.Builder

	switch u.Kind {
	case dashboard.KindFibers:
		for _, line := range dashboard.RenderForest(u.Fibers, true) {
			b.WriteString(line.Label + "\n")
			if dumps && line.Node.Dump != "" {
				for _, d := range strings.Split(strings.TrimRight(line.Node.Dump, "\n"), "\n") {
					b.WriteString("    " + d + "\n")
				}
			}
		}
		t := dashboard.TallyFibers(u.Fibers)
		fmt.Fprintf(&b, "\n%s fibers: %s running, %s suspended, %s finishing, %s done\n",
			humanize.Comma(int64(t.Total())),
			humanize.Comma(int64(t.Running)), humanize.Comma(int64(t.Suspended)),
			humanize.Comma(int64(t.Finishing)), humanize.Comma(int64(t.Done)))

	case dashboard.KindActors:
		for _, line := range dashboard.RenderForest(u.Actors, false) {
			b.WriteString(line.Label + "\n")
		}
		fmt.Fprintf(&b, "\n%s actors\n", humanize.Comma(int64(len(u.Actors))))

	case dashboard.KindPool:
		s := u.Pool
		fmt.Fprintf(&b, "active threads  %s\n", humanize.Comma(int64(s.Metrics.ActiveThreads)))
		fmt.Fprintf(&b, "queue size      %s\n", humanize.Comma(int64(s.Metrics.QueueSize)))
		if c := s.Connections; c != nil {
			fmt.Fprintf(&b, "connections     %s active, %s idle, %s total, %s waiting\n",
				humanize.Comma(int64(c.Active)), humanize.Comma(int64(c.Idle)),
				humanize.Comma(int64(c.Total)), humanize.Comma(int64(c.Waiting)))
		}
		if c := s.Config; c != nil {
			fmt.Fprintf(&b, "max threads     %s\n", humanize.Comma(int64(c.MaxThreads)))
			fmt.Fprintf(&b, "max queue size  %s\n", humanize.Comma(int64(c.MaxQueueSize)))
		}
	}

	return b.String()
}

type fiberJSON struct {
	ID       int64  `json:"id"`
	ParentID *int64 `json:"parent_id"`
	Status   string `json:"status"`
	Label    string `json:"label"`
	Dump     string `json:"dump"`
}

type actorJSON struct {
	ID       int64  `json:"id"`
	ParentID *int64 `json:"parent_id"`
	Name     string `json:"name"`
	Label    string `json:"label"`
}

type poolJSON struct {
	Metrics     dashboard.PoolMetrics        `json:"metrics"`
	Connections *dashboard.ConnectionMetrics `json:"connections"`
	Config      *dashboard.PoolConfig        `json:"config"`
}

// snapshotData converts an update into the --json payload. Trees keep the
// rendered order and carry their labels.
func snapshotData(u dashboard.Update) interface{} {
	switch u.Kind {
	case dashboard.KindFibers:
		lines := dashboard.RenderForest(u.Fibers, true)
		out := make([]fiberJSON, len(lines))
		for i, l := range lines {
			out[i] = fiberJSON{ID: l.Node.ID, ParentID: l.Node.ParentID, Status: l.Node.Status.String(), Label: l.Label, Dump: l.Node.Dump}
		}
		return out
	case dashboard.KindActors:
		lines := dashboard.RenderForest(u.Actors, false)
		out := make([]actorJSON, len(lines))
		for i, l := range lines {
			out[i] = actorJSON{ID: l.Node.ID, ParentID: l.Node.ParentID, Name: l.Node.Name, Label: l.Label}
		}
		return out
	default:
		return poolJSON{Metrics: u.Pool.Metrics, Connections: u.Pool.Connections, Config: u.Pool.Config}
	}
}
