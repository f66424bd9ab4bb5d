package probe

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/pkg/sshutil"
)

// commandRunner is the part of sshutil.Client the ssh transport needs.
type commandRunner interface {
	Output(ctx context.Context, cmd string) ([]byte, error)
	Close() error
}

func dialSSH(alias string, timeout time.Duration) (commandRunner, error) {
	c, err := sshutil.Dial(alias, timeout)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// sshFetcher runs a command on a remote host and reads its stdout. The
// connection is kept between polls and re-dialed after a transport error.
type sshFetcher struct {
	alias   string
	command string
	format  Format
	timeout time.Duration
	dial    func(alias string, timeout time.Duration) (commandRunner, error)

	mu     sync.Mutex
	client commandRunner
}

func newSSHFetcher(ep Endpoint, opts Options) *sshFetcher {
	format, _ := ep.QueryFormat()
	alias := ep.URL.Host
	if ep.URL.User != nil {
		alias = ep.URL.User.Username() + "@" + alias
	}
	return &sshFetcher{
		alias:   alias,
		command: ep.Command(),
		format:  format,
		timeout: opts.Timeout,
		dial:    dialSSH,
	}
}

func (f *sshFetcher) Fetch(ctx context.Context) (Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.client == nil {
		c, err := f.dial(f.alias, f.timeout)
		if err != nil {
			return Payload{}, err
		}
		f.client = c
	}

	out, err := f.client.Output(ctx, f.command)
	if err != nil {
		if errors.IsCode(err, errors.ErrSSH) {
			f.client.Close()
			f.client = nil
		}
		return Payload{}, err
	}
	return Payload{Data: out, Format: f.format}, nil
}

func (f *sshFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.client == nil {
		return nil
	}
	err := f.client.Close()
	f.client = nil
	return err
}
