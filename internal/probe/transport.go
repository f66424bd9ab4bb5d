package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/logger"
)

// maxPayload bounds a single snapshot read.
const maxPayload = 16 << 20

// Payload is one raw snapshot and the encoding it arrived in.
type Payload struct {
	Data   []byte
	Format Format
}

// Fetcher retrieves the current snapshot of one endpoint.
type Fetcher interface {
	Fetch(ctx context.Context) (Payload, error)
	Close() error
}

// NewFetcher returns the transport for the endpoint's scheme.
func NewFetcher(ep Endpoint, opts Options) (Fetcher, error) {
	opts = opts.withDefaults()

	switch ep.Scheme() {
	case "http", "https":
		return newHTTPFetcher(ep, opts), nil
	case "file":
		return newFileFetcher(ep), nil
	case "ssh":
		return newSSHFetcher(ep, opts), nil
	case "mqtt":
		f, err := newMQTTFetcher(ep, opts)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("No transport for scheme '%s'", ep.Scheme()), "")
	}
}

// Options tune pollers and transports.
type Options struct {
	// Interval between polls.
	Interval time.Duration
	// Timeout bounds a single fetch, including connection setup.
	Timeout time.Duration
	// Logger receives fetch failures at Warn and successes at Debug.
	Logger logger.Logger
	// HTTPClient overrides the client used by http(s) endpoints.
	HTTPClient *http.Client
}

const (
	DefaultInterval = 2 * time.Second
	DefaultTimeout  = 5 * time.Second
)

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = logger.Default()
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: o.Timeout}
	}
	return o
}
