package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rileyhilliard/rtop/internal/errors"
)

const acceptHeader = "application/json, application/yaml;q=0.9, application/cbor;q=0.9, application/toml;q=0.8"

type httpFetcher struct {
	url      string
	client   *http.Client
	format   Format
	override bool
}

func newHTTPFetcher(ep Endpoint, opts Options) *httpFetcher {
	f, ok := ep.QueryFormat()
	return &httpFetcher{url: ep.Raw, client: opts.HTTPClient, format: f, override: ok}
}

func (f *httpFetcher) Fetch(ctx context.Context) (Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return Payload{}, errors.WrapWithCode(err, errors.ErrProbe,
			fmt.Sprintf("Couldn't build request for %s", f.url), "")
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return Payload{}, errors.WrapWithCode(err, errors.ErrProbe,
			fmt.Sprintf("GET %s failed", f.url),
			"Is the process running and serving its runtime endpoint?")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Payload{}, errors.New(errors.ErrProbe,
			fmt.Sprintf("GET %s returned %s", f.url, resp.Status), "")
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return Payload{}, errors.WrapWithCode(err, errors.ErrProbe,
			fmt.Sprintf("Reading %s failed", f.url), "")
	}

	format := f.format
	if !f.override {
		format = FormatFromContentType(resp.Header.Get("Content-Type"))
	}
	return Payload{Data: data, Format: format}, nil
}

func (f *httpFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
