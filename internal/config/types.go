package config

import (
	"time"

	"github.com/rileyhilliard/rtop/internal/dashboard"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Polling defaults.
const (
	DefaultInterval = 2 * time.Second
	DefaultTimeout  = 5 * time.Second

	// MinInterval keeps pollers from hammering a probe.
	MinInterval = 500 * time.Millisecond
)

// Config represents the complete .rtop.yaml configuration file.
type Config struct {
	Version  int           `yaml:"version" mapstructure:"version"`
	Title    string        `yaml:"title" mapstructure:"title"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Sources  SourcesConfig `yaml:"sources" mapstructure:"sources"`
	History  HistoryConfig `yaml:"history" mapstructure:"history"`
}

// SourcesConfig holds one optional source per tab kind. A source with an
// empty endpoint is not configured and gets no tab.
type SourcesConfig struct {
	Fibers SourceConfig `yaml:"fibers" mapstructure:"fibers"`
	Pool   SourceConfig `yaml:"pool" mapstructure:"pool"`
	Actors SourceConfig `yaml:"actors" mapstructure:"actors"`
}

// SourceConfig describes where one source is polled from.
type SourceConfig struct {
	// Endpoint is a probe URL: http(s)://, file://, ssh:// or mqtt://.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Title overrides the tab title.
	Title string `yaml:"title,omitempty" mapstructure:"title"`
}

// HistoryConfig sets the retention window of every history buffer.
type HistoryConfig struct {
	FiberTallies      int `yaml:"fiber_tallies" mapstructure:"fiber_tallies"`
	PoolMetrics       int `yaml:"pool_metrics" mapstructure:"pool_metrics"`
	ConnectionMetrics int `yaml:"connection_metrics" mapstructure:"connection_metrics"`
	ActorCounts       int `yaml:"actor_counts" mapstructure:"actor_counts"`
}

// DefaultConfig returns a Config with sensible defaults and no sources.
func DefaultConfig() *Config {
	caps := dashboard.DefaultCapacities()
	return &Config{
		Version:  CurrentConfigVersion,
		Title:    "rtop",
		Interval: DefaultInterval,
		Timeout:  DefaultTimeout,
		History: HistoryConfig{
			FiberTallies:      caps.FiberTallies,
			PoolMetrics:       caps.PoolMetrics,
			ConnectionMetrics: caps.Connections,
			ActorCounts:       caps.ActorCounts,
		},
	}
}

// Source returns the source configured for kind.
func (c *Config) Source(kind dashboard.TabKind) SourceConfig {
	switch kind {
	case dashboard.KindFibers:
		return c.Sources.Fibers
	case dashboard.KindPool:
		return c.Sources.Pool
	case dashboard.KindActors:
		return c.Sources.Actors
	default:
		return SourceConfig{}
	}
}

// SetEndpoint replaces the endpoint of one source.
func (c *Config) SetEndpoint(kind dashboard.TabKind, endpoint string) {
	switch kind {
	case dashboard.KindFibers:
		c.Sources.Fibers.Endpoint = endpoint
	case dashboard.KindPool:
		c.Sources.Pool.Endpoint = endpoint
	case dashboard.KindActors:
		c.Sources.Actors.Endpoint = endpoint
	}
}

// ConfiguredKinds returns the kinds with an endpoint, in tab order.
func (c *Config) ConfiguredKinds() []dashboard.TabKind {
	var kinds []dashboard.TabKind
	for _, k := range dashboard.Kinds {
		if c.Source(k).Endpoint != "" {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// EngineOptions converts the config into dashboard engine options.
func (c *Config) EngineOptions() dashboard.Options {
	opts := dashboard.Options{
		Title:  c.Title,
		Titles: make(map[dashboard.TabKind]string),
		Capacities: dashboard.Capacities{
			FiberTallies: c.History.FiberTallies,
			PoolMetrics:  c.History.PoolMetrics,
			Connections:  c.History.ConnectionMetrics,
			ActorCounts:  c.History.ActorCounts,
		},
	}
	for _, k := range c.ConfiguredKinds() {
		switch k {
		case dashboard.KindFibers:
			opts.Fibers = true
		case dashboard.KindPool:
			opts.Pool = true
		case dashboard.KindActors:
			opts.Actors = true
		}
		if t := c.Source(k).Title; t != "" {
			opts.Titles[k] = t
		}
	}
	return opts
}
