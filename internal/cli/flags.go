package cli

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/rileyhilliard/rtop/internal/config"
	"github.com/rileyhilliard/rtop/internal/dashboard"
	"github.com/rileyhilliard/rtop/internal/errors"
)

// SourceFlags holds the flags that override config file values.
type SourceFlags struct {
	Fibers   string
	Pool     string
	Actors   string
	Title    string
	Interval string
	Timeout  string
}

// AddSourceFlags registers --fibers, --pool, --actors, --title, --interval
// and --timeout on a flag set.
func AddSourceFlags(fs *pflag.FlagSet, flags *SourceFlags) {
	fs.StringVar(&flags.Fibers, "fibers", "", "fiber dump endpoint (overrides sources.fibers.endpoint)")
	fs.StringVar(&flags.Pool, "pool", "", "connection pool endpoint (overrides sources.pool.endpoint)")
	fs.StringVar(&flags.Actors, "actors", "", "actor tree endpoint (overrides sources.actors.endpoint)")
	fs.StringVar(&flags.Title, "title", "", "dashboard title")
	fs.StringVar(&flags.Interval, "interval", "", "poll interval (e.g., 2s, 500ms)")
	fs.StringVar(&flags.Timeout, "timeout", "", "per-poll timeout (e.g., 5s)")
}

// Endpoint returns the endpoint flag for kind.
func (f SourceFlags) Endpoint(kind dashboard.TabKind) string {
	switch kind {
	case dashboard.KindFibers:
		return f.Fibers
	case dashboard.KindPool:
		return f.Pool
	case dashboard.KindActors:
		return f.Actors
	default:
		return ""
	}
}

// Apply overwrites cfg with every flag that was set.
func (f SourceFlags) Apply(cfg *config.Config) error {
	for _, kind := range dashboard.Kinds {
		if ep := f.Endpoint(kind); ep != "" {
			cfg.SetEndpoint(kind, ep)
		}
	}
	if f.Title != "" {
		cfg.Title = f.Title
	}

	interval, err := ParseDuration("interval", f.Interval)
	if err != nil {
		return err
	}
	if interval != 0 {
		cfg.Interval = interval
	}

	timeout, err := ParseDuration("timeout", f.Timeout)
	if err != nil {
		return err
	}
	if timeout != 0 {
		cfg.Timeout = timeout
	}
	return nil
}

// ParseDuration parses a duration flag. Returns zero duration if the flag is
// empty.
func ParseDuration(name, flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	duration, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid %s", flag, name),
			"Try something like 5s, 2m, or 500ms.")
	}
	return duration, nil
}
