package config

import (
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/rtop/internal/errors"
)

// fileConfig is the on-disk form of Config. Durations are written as
// strings like "2s" instead of nanosecond integers.
type fileConfig struct {
	Version  int           `yaml:"version"`
	Title    string        `yaml:"title"`
	Interval string        `yaml:"interval"`
	Timeout  string        `yaml:"timeout"`
	Sources  fileSources   `yaml:"sources"`
	History  HistoryConfig `yaml:"history"`
}

type fileSources struct {
	Fibers *SourceConfig `yaml:"fibers,omitempty"`
	Pool   *SourceConfig `yaml:"pool,omitempty"`
	Actors *SourceConfig `yaml:"actors,omitempty"`
}

const fileHeader = `# rtop dashboard configuration
# Endpoints: http(s)://host/path, file://path, ssh://host/command, mqtt://broker:1883/topic

`

// Marshal renders cfg as a commented .rtop.yaml document. Sources without an
// endpoint are left out.
func Marshal(cfg *Config) ([]byte, error) {
	out := fileConfig{
		Version:  cfg.Version,
		Title:    cfg.Title,
		Interval: cfg.Interval.String(),
		Timeout:  cfg.Timeout.String(),
		History:  cfg.History,
	}
	if s := cfg.Sources.Fibers; s.Endpoint != "" {
		out.Sources.Fibers = &s
	}
	if s := cfg.Sources.Pool; s.Endpoint != "" {
		out.Sources.Pool = &s
	}
	if s := cfg.Sources.Actors; s.Endpoint != "" {
		out.Sources.Actors = &s
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}
	return append([]byte(fileHeader), data...), nil
}
