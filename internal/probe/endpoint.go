package probe

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/rtop/internal/errors"
)

// Format is a payload encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatCBOR
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatCBOR:
		return "cbor"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	case "cbor":
		return FormatCBOR, true
	case "toml":
		return FormatTOML, true
	default:
		return FormatJSON, false
	}
}

// FormatFromContentType maps a MIME type to a format, defaulting to JSON.
func FormatFromContentType(contentType string) Format {
	ct := strings.ToLower(contentType)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.TrimSpace(ct)

	switch {
	case strings.HasSuffix(ct, "yaml"):
		return FormatYAML
	case strings.HasSuffix(ct, "cbor"):
		return FormatCBOR
	case strings.HasSuffix(ct, "toml"):
		return FormatTOML
	default:
		return FormatJSON
	}
}

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	f, _ := ParseFormat(filepath.Ext(path))
	return f
}

// Schemes lists the endpoint schemes a transport exists for.
var Schemes = []string{"http", "https", "file", "ssh", "mqtt"}

// Endpoint is a parsed source location.
type Endpoint struct {
	Raw string
	URL *url.URL
}

// Scheme returns the lower-cased URL scheme.
func (e Endpoint) Scheme() string {
	return strings.ToLower(e.URL.Scheme)
}

// ParseEndpoint validates raw as a source URL with a supported scheme.
func ParseEndpoint(raw string) (Endpoint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Endpoint{}, errors.New(errors.ErrConfig, "Endpoint is empty",
			"Use a URL such as http://127.0.0.1:6789/fibers")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Endpoint '%s' is not a valid URL", raw),
			"Use a URL such as http://127.0.0.1:6789/fibers")
	}

	ep := Endpoint{Raw: raw, URL: u}
	if !SupportedScheme(ep.Scheme()) {
		return Endpoint{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Endpoint '%s' uses unsupported scheme '%s'", raw, u.Scheme),
			fmt.Sprintf("Supported schemes: %s", strings.Join(Schemes, ", ")))
	}

	if v := u.Query().Get("format"); v != "" {
		if _, ok := ParseFormat(v); !ok {
			return Endpoint{}, errors.New(errors.ErrConfig,
				fmt.Sprintf("Endpoint '%s' asks for unknown format '%s'", raw, v),
				"Use format=json, yaml, cbor or toml")
		}
	}

	switch ep.Scheme() {
	case "file":
		if ep.FilePath() == "" {
			return Endpoint{}, errors.New(errors.ErrConfig,
				fmt.Sprintf("Endpoint '%s' has no file path", raw),
				"Use file:///absolute/path.json or file://./relative.json")
		}
	case "ssh":
		if u.Host == "" || ep.Command() == "" {
			return Endpoint{}, errors.New(errors.ErrConfig,
				fmt.Sprintf("Endpoint '%s' needs a host and a command", raw),
				"Use ssh://alias/command, e.g. ssh://app/curl%20-s%20localhost:6789/fibers")
		}
	case "mqtt":
		if u.Host == "" || ep.Topic() == "" {
			return Endpoint{}, errors.New(errors.ErrConfig,
				fmt.Sprintf("Endpoint '%s' needs a broker and a topic", raw),
				"Use mqtt://broker:1883/app/fibers")
		}
	default:
		if u.Host == "" {
			return Endpoint{}, errors.New(errors.ErrConfig,
				fmt.Sprintf("Endpoint '%s' has no host", raw),
				"Use a URL such as http://127.0.0.1:6789/fibers")
		}
	}
	return ep, nil
}

// SupportedScheme reports whether a transport exists for scheme.
func SupportedScheme(scheme string) bool {
	for _, s := range Schemes {
		if s == strings.ToLower(scheme) {
			return true
		}
	}
	return false
}

// FilePath returns the path of a file endpoint. file://./x.json is relative
// to the working directory.
func (e Endpoint) FilePath() string {
	switch {
	case e.URL.Opaque != "":
		return e.URL.Opaque
	case e.URL.Host == "" || e.URL.Host == "localhost":
		return e.URL.Path
	default:
		return e.URL.Host + e.URL.Path
	}
}

// Command returns the remote command of an ssh endpoint.
func (e Endpoint) Command() string {
	return strings.TrimPrefix(e.URL.Path, "/")
}

// Topic returns the topic of an mqtt endpoint.
func (e Endpoint) Topic() string {
	return strings.TrimPrefix(e.URL.Path, "/")
}

// QueryFormat returns the ?format= override, if any. ParseEndpoint has
// already rejected unknown names.
func (e Endpoint) QueryFormat() (Format, bool) {
	v := e.URL.Query().Get("format")
	if v == "" {
		return FormatJSON, false
	}
	return ParseFormat(v)
}
