package probe

import (
	"context"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/rileyhilliard/rtop/internal/dashboard"
	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/logger"
)

// UpdateBuffer is the capacity of every poller's update channel. A slow
// renderer makes pollers wait rather than pile up snapshots.
const UpdateBuffer = 4

// Poller polls one source and turns each fetch into a dashboard.Update.
type Poller struct {
	kind     dashboard.TabKind
	endpoint Endpoint
	fetcher  Fetcher
	interval time.Duration
	timeout  time.Duration
	log      logger.Logger
	now      func() time.Time

	// Hash of the last decoded fiber payload.
	lastHash uint64
	hashed   bool
}

// NewPoller parses endpoint and opens its transport.
func NewPoller(kind dashboard.TabKind, endpoint string, opts Options) (*Poller, error) {
	ep, err := ParseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	f, err := NewFetcher(ep, opts)
	if err != nil {
		return nil, err
	}
	return newPoller(kind, ep, f, opts), nil
}

func newPoller(kind dashboard.TabKind, ep Endpoint, f Fetcher, opts Options) *Poller {
	opts = opts.withDefaults()
	return &Poller{
		kind:     kind,
		endpoint: ep,
		fetcher:  f,
		interval: opts.Interval,
		timeout:  opts.Timeout,
		log:      opts.Logger,
		now:      time.Now,
	}
}

// Kind returns the source kind this poller feeds.
func (p *Poller) Kind() dashboard.TabKind {
	return p.kind
}

// Endpoint returns the polled endpoint as configured.
func (p *Poller) Endpoint() string {
	return p.endpoint.Raw
}

// Poll fetches and decodes one snapshot. Failures are returned inside the
// update so the caller can show them next to the data they affect.
func (p *Poller) Poll(ctx context.Context) dashboard.Update {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	at := p.now()
	payload, err := p.fetcher.Fetch(ctx)
	if err != nil {
		p.log.Warn("%s: fetch %s: %s", p.kind, p.endpoint.Raw, errors.Summary(err))
		return dashboard.Update{Kind: p.kind, At: at, Err: err}
	}

	u, err := Decode(p.kind, payload.Format, payload.Data)
	if err != nil {
		p.log.Warn("%s: decode %s payload from %s: %s", p.kind, payload.Format, p.endpoint.Raw, errors.Summary(err))
		return dashboard.Update{Kind: p.kind, At: at, Err: err}
	}
	u.At = at

	if p.kind == dashboard.KindFibers {
		h := xxh3.Hash(payload.Data)
		u.TreeUnchanged = p.hashed && h == p.lastHash
		p.lastHash, p.hashed = h, true
	}

	p.log.Debug("%s: %d bytes of %s from %s", p.kind, len(payload.Data), payload.Format, p.endpoint.Raw)
	return u
}

// Run polls immediately and then on every interval until ctx is done. The
// returned channel is closed, and the transport released, when Run stops.
func (p *Poller) Run(ctx context.Context) <-chan dashboard.Update {
	ch := make(chan dashboard.Update, UpdateBuffer)

	go func() {
		defer close(ch)
		defer p.fetcher.Close()

		send := func(u dashboard.Update) bool {
			select {
			case ch <- u:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !send(p.Poll(ctx)) {
			return
		}

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !send(p.Poll(ctx)) {
					return
				}
			}
		}
	}()

	return ch
}

// Close releases the transport of a poller that was never Run.
func (p *Poller) Close() error {
	return p.fetcher.Close()
}
