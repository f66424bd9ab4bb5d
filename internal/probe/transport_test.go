package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/logger"
)

func mustEndpoint(t *testing.T, raw string) Endpoint {
	t.Helper()
	ep, err := ParseEndpoint(raw)
	require.NoError(t, err)
	return ep
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fibers":
			w.Header().Set("Content-Type", "application/yaml")
			w.Write([]byte(fibersYAML))
		case "/down":
			http.Error(w, "nope", http.StatusServiceUnavailable)
		default:
			w.Write([]byte(fibersJSON))
		}
	}))
	defer srv.Close()

	opts := Options{}.withDefaults()

	t.Run("content type picks format", func(t *testing.T) {
		f := newHTTPFetcher(mustEndpoint(t, srv.URL+"/fibers"), opts)
		p, err := f.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, FormatYAML, p.Format)
		assert.Equal(t, fibersYAML, string(p.Data))
	})

	t.Run("query overrides content type", func(t *testing.T) {
		f := newHTTPFetcher(mustEndpoint(t, srv.URL+"/fibers?format=json"), opts)
		p, err := f.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, FormatJSON, p.Format)
	})

	t.Run("non-200 is a probe error", func(t *testing.T) {
		f := newHTTPFetcher(mustEndpoint(t, srv.URL+"/down"), opts)
		_, err := f.Fetch(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrProbe))
		assert.Contains(t, err.Error(), "503")
	})
}

func TestHTTPFetcher_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := newHTTPFetcher(mustEndpoint(t, url+"/fibers"), Options{Timeout: time.Second}.withDefaults())
	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrProbe))
}

func TestFileFetcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pool.yaml")
	require.NoError(t, os.WriteFile(path, []byte("metrics:\n  active_threads: 2\n"), 0o644))

	f := newFileFetcher(mustEndpoint(t, "file://"+path))
	p, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, p.Format)

	// The file is re-read on every fetch.
	require.NoError(t, os.WriteFile(path, []byte("metrics:\n  active_threads: 9\n"), 0o644))
	p, err = f.Fetch(context.Background())
	require.NoError(t, err)
	snap, err := DecodePool(p.Format, p.Data)
	require.NoError(t, err)
	assert.Equal(t, 9, snap.Metrics.ActiveThreads)

	missing := newFileFetcher(mustEndpoint(t, "file://"+filepath.Join(dir, "gone.json")))
	_, err = missing.Fetch(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrProbe))
}

type fakeRunner struct {
	out    []byte
	err    error
	cmds   []string
	closed bool
}

func (r *fakeRunner) Output(_ context.Context, cmd string) ([]byte, error) {
	r.cmds = append(r.cmds, cmd)
	return r.out, r.err
}

func (r *fakeRunner) Close() error {
	r.closed = true
	return nil
}

func TestSSHFetcher(t *testing.T) {
	ep := mustEndpoint(t, "ssh://deploy@app/cat%20/run/actors.yaml?format=yaml")
	f := newSSHFetcher(ep, Options{}.withDefaults())
	assert.Equal(t, "deploy@app", f.alias)

	runner := &fakeRunner{out: []byte("- id: 1\n  name: root\n")}
	dials := 0
	f.dial = func(alias string, _ time.Duration) (commandRunner, error) {
		dials++
		return runner, nil
	}

	p, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, p.Format)
	_, err = f.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, dials, "connection is reused between polls")
	assert.Equal(t, []string{"cat /run/actors.yaml", "cat /run/actors.yaml"}, runner.cmds)

	// A transport failure drops the connection so the next poll re-dials.
	runner.err = errors.New(errors.ErrSSH, "session failed", "")
	_, err = f.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, runner.closed)

	runner.err = nil
	_, err = f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dials)

	// A failing command keeps the connection.
	runner.err = errors.New(errors.ErrProbe, "exit 1", "")
	runner.closed = false
	_, err = f.Fetch(context.Background())
	require.Error(t, err)
	assert.False(t, runner.closed)

	require.NoError(t, f.Close())
	assert.True(t, runner.closed)
}

func TestSSHFetcher_DialError(t *testing.T) {
	f := newSSHFetcher(mustEndpoint(t, "ssh://app/true"), Options{}.withDefaults())
	f.dial = func(string, time.Duration) (commandRunner, error) {
		return nil, errors.New(errors.ErrSSH, "Can't reach 'app'", "")
	}

	_, err := f.Fetch(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrSSH))
	assert.NoError(t, f.Close())
}

type fakeMessage struct {
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return true }
func (m fakeMessage) Topic() string     { return "app/fibers" }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

var _ mqtt.Message = fakeMessage{}

func TestMQTTFetcher_LatestPayload(t *testing.T) {
	f := &mqttFetcher{topic: "app/fibers", format: FormatJSON, log: logger.Noop()}

	_, err := f.Fetch(context.Background())
	require.Error(t, err, "no message yet")
	assert.True(t, errors.IsCode(err, errors.ErrProbe))

	first := []byte(`[{"id":1,"status":"Running"}]`)
	f.onMessage(nil, fakeMessage{payload: first})
	f.onMessage(nil, fakeMessage{payload: []byte(fibersJSON)})
	first[0] = 'X'

	p, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fibersJSON, string(p.Data), "only the latest message is served")
	assert.Equal(t, FormatJSON, p.Format)

	// The same payload is served until a new message arrives.
	p, err = f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fibersJSON, string(p.Data))

	assert.NoError(t, f.Close())
}

// fakeToken completes with err, or never when pending is set.
type fakeToken struct {
	mqtt.Token
	pending bool
	err     error
}

func (tk fakeToken) WaitTimeout(time.Duration) bool { return !tk.pending }
func (tk fakeToken) Error() error                   { return tk.err }

type fakeMQTTClient struct {
	mqtt.Client
	token        fakeToken
	disconnected bool
	quiesce      uint
}

func (c *fakeMQTTClient) Connect() mqtt.Token { return c.token }

func (c *fakeMQTTClient) Disconnect(quiesce uint) {
	c.disconnected = true
	c.quiesce = quiesce
}

func TestMQTTFetcher_Connect(t *testing.T) {
	t.Run("timeout shuts the client down", func(t *testing.T) {
		f := &mqttFetcher{log: logger.Noop()}
		c := &fakeMQTTClient{token: fakeToken{pending: true}}

		err := f.connect(c, "tcp://broker:1883", 10*time.Millisecond)

		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrProbe))
		assert.Contains(t, err.Error(), "Timed out")
		assert.True(t, c.disconnected)
		assert.Zero(t, c.quiesce)
		assert.Nil(t, f.client)
	})

	t.Run("refused", func(t *testing.T) {
		f := &mqttFetcher{log: logger.Noop()}
		c := &fakeMQTTClient{token: fakeToken{err: assert.AnError}}

		err := f.connect(c, "tcp://broker:1883", time.Second)

		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrProbe))
		assert.Nil(t, f.client)
	})

	t.Run("connected", func(t *testing.T) {
		f := &mqttFetcher{log: logger.Noop()}
		c := &fakeMQTTClient{}

		require.NoError(t, f.connect(c, "tcp://broker:1883", time.Second))
		assert.False(t, c.disconnected)
		assert.Same(t, c, f.client)

		assert.NoError(t, f.Close())
		assert.True(t, c.disconnected)
	})
}

func TestNewFetcher_PicksTransport(t *testing.T) {
	f, err := NewFetcher(mustEndpoint(t, "http://127.0.0.1:1/fibers"), Options{})
	require.NoError(t, err)
	assert.IsType(t, &httpFetcher{}, f)

	f, err = NewFetcher(mustEndpoint(t, "file:///tmp/fibers.json"), Options{})
	require.NoError(t, err)
	assert.IsType(t, &fileFetcher{}, f)

	f, err = NewFetcher(mustEndpoint(t, "ssh://app/true"), Options{})
	require.NoError(t, err)
	assert.IsType(t, &sshFetcher{}, f)
}
