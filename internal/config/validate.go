package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/rtop/internal/dashboard"
	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/probe"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but rtop only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade rtop or lower the version in .rtop.yaml.")
	}

	kinds := cfg.ConfiguredKinds()
	if len(kinds) == 0 {
		return errors.New(errors.ErrConfig,
			"No sources configured",
			"Set at least one of sources.fibers, sources.pool or sources.actors in .rtop.yaml, or pass --fibers/--pool/--actors.")
	}

	for _, kind := range kinds {
		if err := validateSource(kind, cfg.Source(kind)); err != nil {
			return err
		}
	}

	if cfg.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Poll interval %s is too short", cfg.Interval),
			fmt.Sprintf("Use an interval of at least %s.", MinInterval))
	}

	if cfg.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Poll timeout must be positive, got %s", cfg.Timeout),
			"Set 'timeout' to a duration like 5s.")
	}

	if err := validateHistory(cfg.History); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'history' section in your .rtop.yaml.")
	}

	return nil
}

// validateSource checks that an endpoint parses and uses a known scheme.
func validateSource(kind dashboard.TabKind, src SourceConfig) error {
	if _, err := probe.ParseEndpoint(src.Endpoint); err != nil {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid %s endpoint: %s", kind, errors.Summary(err)),
			fmt.Sprintf("Endpoints are URLs with one of the schemes %s, set under sources.%s.endpoint.", strings.Join(probe.Schemes, ", "), kind))
	}
	return nil
}

func validateHistory(h HistoryConfig) error {
	sizes := []struct {
		name  string
		value int
	}{
		{"fiber_tallies", h.FiberTallies},
		{"pool_metrics", h.PoolMetrics},
		{"connection_metrics", h.ConnectionMetrics},
		{"actor_counts", h.ActorCounts},
	}
	for _, s := range sizes {
		if s.value <= 0 {
			return fmt.Errorf("history.%s must be greater than 0, got %d", s.name, s.value)
		}
	}
	return nil
}
