package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/rtop/internal/dashboard"
	"github.com/rileyhilliard/rtop/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, "rtop", cfg.Title)
	assert.Equal(t, 2*time.Second, cfg.Interval)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.ConfiguredKinds())
	assert.Equal(t, dashboard.DefaultFiberTallyCapacity, cfg.History.FiberTallies)
	assert.Equal(t, dashboard.DefaultPoolMetricsCapacity, cfg.History.PoolMetrics)
	assert.Equal(t, dashboard.DefaultConnectionsCapacity, cfg.History.ConnectionMetrics)
	assert.Equal(t, dashboard.DefaultActorCountCapacity, cfg.History.ActorCounts)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
version: 1
title: staging
interval: 3s
timeout: 1500ms
sources:
  fibers:
    endpoint: http://127.0.0.1:6789/fibers
    title: Scheduler
  actors:
    endpoint: mqtt://broker:1883/app/actors
history:
  fiber_tallies: 50
  actor_counts: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Title)
	assert.Equal(t, 3*time.Second, cfg.Interval)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "http://127.0.0.1:6789/fibers", cfg.Sources.Fibers.Endpoint)
	assert.Equal(t, "Scheduler", cfg.Sources.Fibers.Title)
	assert.Empty(t, cfg.Sources.Pool.Endpoint)
	assert.Equal(t, "mqtt://broker:1883/app/actors", cfg.Sources.Actors.Endpoint)
	assert.Equal(t, 50, cfg.History.FiberTallies)
	assert.Equal(t, 10, cfg.History.ActorCounts)
	assert.Equal(t, dashboard.DefaultPoolMetricsCapacity, cfg.History.PoolMetrics, "unset sizes keep defaults")
	assert.Equal(t, []dashboard.TabKind{dashboard.KindFibers, dashboard.KindActors}, cfg.ConfiguredKinds())
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "sources: [unclosed\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "interval: soon\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "title: from-file\n")
	t.Setenv("RTOP_SOURCES_POOL_ENDPOINT", "file:///tmp/pool.json")
	t.Setenv("RTOP_INTERVAL", "10s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Title)
	assert.Equal(t, "file:///tmp/pool.json", cfg.Sources.Pool.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.Interval)
}

func TestFind(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "version: 1\n")

		found, err := Find(path)
		require.NoError(t, err)
		assert.Equal(t, path, found)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		_, err := Find(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})

	t.Run("current directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("HOME", t.TempDir())
		path := writeConfig(t, dir, "version: 1\n")
		t.Chdir(dir)

		found, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, path, found)
	})

	t.Run("parent directory", func(t *testing.T) {
		root := t.TempDir()
		t.Setenv("HOME", t.TempDir())
		path := writeConfig(t, root, "version: 1\n")
		sub := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(sub, 0755))
		t.Chdir(sub)

		found, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, path, found)
	})

	t.Run("stops at git root", func(t *testing.T) {
		root := t.TempDir()
		t.Setenv("HOME", t.TempDir())
		writeConfig(t, root, "version: 1\n")
		repo := filepath.Join(root, "repo")
		require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0755))
		sub := filepath.Join(repo, "pkg")
		require.NoError(t, os.MkdirAll(sub, 0755))
		t.Chdir(sub)

		found, err := Find("")
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("global config", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		require.NoError(t, os.MkdirAll(filepath.Dir(global), 0755))
		require.NoError(t, os.WriteFile(global, []byte("version: 1\n"), 0644))

		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
		t.Chdir(dir)

		found, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, global, found)
	})
}

func TestLoadOrDefault_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	t.Chdir(dir)

	cfg, path, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestEngineOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Title = "prod"
	cfg.Sources.Fibers = SourceConfig{Endpoint: "http://a/fibers"}
	cfg.Sources.Pool = SourceConfig{Endpoint: "file:///tmp/pool.json", Title: "DB"}
	cfg.History.PoolMetrics = 7

	opts := cfg.EngineOptions()

	assert.Equal(t, "prod", opts.Title)
	assert.True(t, opts.Fibers)
	assert.True(t, opts.Pool)
	assert.False(t, opts.Actors)
	assert.Equal(t, map[dashboard.TabKind]string{dashboard.KindPool: "DB"}, opts.Titles)
	assert.Equal(t, 7, opts.Capacities.PoolMetrics)

	engine := dashboard.New(opts)
	assert.Equal(t, []string{"Fibers", "DB"}, engine.Tabs().Titles())
}

func TestSetEndpoint(t *testing.T) {
	cfg := DefaultConfig()
	for _, k := range dashboard.Kinds {
		cfg.SetEndpoint(k, "file:///tmp/"+k.String()+".json")
	}

	assert.Equal(t, "file:///tmp/fibers.json", cfg.Source(dashboard.KindFibers).Endpoint)
	assert.Equal(t, "file:///tmp/pool.json", cfg.Source(dashboard.KindPool).Endpoint)
	assert.Equal(t, "file:///tmp/actors.json", cfg.Source(dashboard.KindActors).Endpoint)
	assert.Equal(t, SourceConfig{}, cfg.Source(dashboard.TabKind(42)))
}

func TestMarshal_LoadsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Title = "written"
	cfg.Interval = 4 * time.Second
	cfg.Sources.Actors = SourceConfig{Endpoint: "ssh://prod/app-actors?format=yaml"}

	data, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "interval: 4s")
	assert.NotContains(t, string(data), "fibers:")

	path := writeConfig(t, t.TempDir(), string(data))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
