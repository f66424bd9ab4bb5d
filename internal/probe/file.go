package probe

import (
	"context"
	"fmt"
	"os"

	"github.com/rileyhilliard/rtop/internal/errors"
)

type fileFetcher struct {
	path   string
	format Format
}

func newFileFetcher(ep Endpoint) *fileFetcher {
	path := ep.FilePath()
	format, ok := ep.QueryFormat()
	if !ok {
		format = FormatFromPath(path)
	}
	return &fileFetcher{path: path, format: format}
}

func (f *fileFetcher) Fetch(ctx context.Context) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return Payload{}, errors.WrapWithCode(err, errors.ErrProbe, "Poll cancelled", "")
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return Payload{}, errors.WrapWithCode(err, errors.ErrProbe,
			fmt.Sprintf("Couldn't read %s", f.path),
			"Check the file exists and the path in the endpoint is right")
	}
	return Payload{Data: data, Format: f.format}, nil
}

func (f *fileFetcher) Close() error { return nil }
