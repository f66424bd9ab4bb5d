package cli

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/rtop/internal/config"
	"github.com/rileyhilliard/rtop/internal/dashboard"
	"github.com/rileyhilliard/rtop/internal/errors"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		want    time.Duration
		wantErr bool
	}{
		{name: "empty string returns zero", flag: "", want: 0},
		{name: "valid seconds", flag: "5s", want: 5 * time.Second},
		{name: "valid milliseconds", flag: "500ms", want: 500 * time.Millisecond},
		{name: "valid complex duration", flag: "1m30s", want: 90 * time.Second},
		{name: "missing unit", flag: "5", wantErr: true},
		{name: "invalid string", flag: "fast", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration("interval", tt.flag)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				assert.Contains(t, err.Error(), "valid interval")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddSourceFlags(t *testing.T) {
	var flags SourceFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddSourceFlags(fs, &flags)

	err := fs.Parse([]string{
		"--fibers", "http://localhost:6789/fibers",
		"--actors", "file:///tmp/actors.json",
		"--interval", "1s",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:6789/fibers", flags.Fibers)
	assert.Empty(t, flags.Pool)
	assert.Equal(t, "file:///tmp/actors.json", flags.Endpoint(dashboard.KindActors))
	assert.Equal(t, "1s", flags.Interval)
	for _, name := range []string{"fibers", "pool", "actors", "title", "interval", "timeout"} {
		assert.NotNil(t, fs.Lookup(name), name)
	}
}

func TestSourceFlags_Apply(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Sources.Pool.Endpoint = "file:///from/config.json"
	cfg.Sources.Fibers.Endpoint = "http://config/fibers"

	err := SourceFlags{
		Fibers:   "http://flag/fibers",
		Title:    "flagged",
		Interval: "750ms",
	}.Apply(cfg)
	require.NoError(t, err)

	assert.Equal(t, "http://flag/fibers", cfg.Sources.Fibers.Endpoint)
	assert.Equal(t, "file:///from/config.json", cfg.Sources.Pool.Endpoint, "unset flags keep config values")
	assert.Equal(t, "flagged", cfg.Title)
	assert.Equal(t, 750*time.Millisecond, cfg.Interval)
	assert.Equal(t, config.DefaultTimeout, cfg.Timeout)
}

func TestSourceFlags_ApplyInvalidTimeout(t *testing.T) {
	err := SourceFlags{Timeout: "soon"}.Apply(config.DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid timeout")
}
