package probe

import (
	"fmt"
	"reflect"

	"github.com/BurntSushi/toml"
	"github.com/fxamacker/cbor/v2"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/rtop/internal/dashboard"
	"github.com/rileyhilliard/rtop/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// cborDec ignores unknown fields so producers can add data freely.
var cborDec cbor.DecMode

func init() {
	var err error
	cborDec, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("probe: CBOR decoder initialization failed: " + err.Error())
	}
}

// Wire shapes. CBOR falls back to the json tags. TOML cannot hold a
// top-level array, so fiber and actor lists sit under a "fibers" or
// "actors" key there.

type wireFiber struct {
	ID       int64  `json:"id" yaml:"id" toml:"id"`
	ParentID *int64 `json:"parent_id" yaml:"parent_id" toml:"parent_id"`
	Status   string `json:"status" yaml:"status" toml:"status"`
	Dump     string `json:"dump" yaml:"dump" toml:"dump"`
}

type wireActor struct {
	ID       int64  `json:"id" yaml:"id" toml:"id"`
	ParentID *int64 `json:"parent_id" yaml:"parent_id" toml:"parent_id"`
	Name     string `json:"name" yaml:"name" toml:"name"`
}

type wirePoolMetrics struct {
	ActiveThreads int `json:"active_threads" yaml:"active_threads" toml:"active_threads"`
	QueueSize     int `json:"queue_size" yaml:"queue_size" toml:"queue_size"`
}

type wireConnections struct {
	Active  int `json:"active" yaml:"active" toml:"active"`
	Idle    int `json:"idle" yaml:"idle" toml:"idle"`
	Total   int `json:"total" yaml:"total" toml:"total"`
	Waiting int `json:"waiting" yaml:"waiting" toml:"waiting"`
}

type wirePoolConfig struct {
	MaxThreads   int `json:"max_threads" yaml:"max_threads" toml:"max_threads"`
	MaxQueueSize int `json:"max_queue_size" yaml:"max_queue_size" toml:"max_queue_size"`
}

type wirePool struct {
	Metrics     wirePoolMetrics  `json:"metrics" yaml:"metrics" toml:"metrics"`
	Connections *wireConnections `json:"connections" yaml:"connections" toml:"connections"`
	Config      *wirePoolConfig  `json:"config" yaml:"config" toml:"config"`
}

type tomlFibers struct {
	Fibers []wireFiber `toml:"fibers"`
}

type tomlActors struct {
	Actors []wireActor `toml:"actors"`
}

func unmarshal(format Format, data []byte, v any) error {
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, v)
	case FormatCBOR:
		err = cborDec.Unmarshal(data, v)
	case FormatTOML:
		err = toml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrDecode,
			fmt.Sprintf("Couldn't decode %s payload", format),
			"Check the endpoint serves the expected snapshot shape")
	}
	return nil
}

// DecodeFibers parses a fiber dump snapshot.
func DecodeFibers(format Format, data []byte) ([]dashboard.Fiber, error) {
	var wire []wireFiber
	if format == FormatTOML {
		var doc tomlFibers
		if err := unmarshal(format, data, &doc); err != nil {
			return nil, err
		}
		wire = doc.Fibers
	} else if err := unmarshal(format, data, &wire); err != nil {
		return nil, err
	}

	fibers := make([]dashboard.Fiber, 0, len(wire))
	for _, w := range wire {
		status, ok := dashboard.ParseFiberStatus(w.Status)
		if !ok {
			return nil, errors.New(errors.ErrDecode,
				fmt.Sprintf("Fiber #%d has unknown status '%s'", w.ID, w.Status),
				"Status must be one of Running, Suspended, Finishing, Done")
		}
		fibers = append(fibers, dashboard.Fiber{
			ID:       w.ID,
			ParentID: w.ParentID,
			Status:   status,
			Dump:     w.Dump,
		})
	}
	return fibers, nil
}

// DecodeActors parses an actor system snapshot.
func DecodeActors(format Format, data []byte) ([]dashboard.Actor, error) {
	var wire []wireActor
	if format == FormatTOML {
		var doc tomlActors
		if err := unmarshal(format, data, &doc); err != nil {
			return nil, err
		}
		wire = doc.Actors
	} else if err := unmarshal(format, data, &wire); err != nil {
		return nil, err
	}

	actors := make([]dashboard.Actor, len(wire))
	for i, w := range wire {
		actors[i] = dashboard.Actor{ID: w.ID, ParentID: w.ParentID, Name: w.Name}
	}
	return actors, nil
}

// DecodePool parses a pool snapshot. Connections and config are optional.
func DecodePool(format Format, data []byte) (dashboard.PoolSnapshot, error) {
	var w wirePool
	if err := unmarshal(format, data, &w); err != nil {
		return dashboard.PoolSnapshot{}, err
	}

	s := dashboard.PoolSnapshot{
		Metrics: dashboard.PoolMetrics{
			ActiveThreads: w.Metrics.ActiveThreads,
			QueueSize:     w.Metrics.QueueSize,
		},
	}
	if w.Connections != nil {
		s.Connections = &dashboard.ConnectionMetrics{
			Active:  w.Connections.Active,
			Idle:    w.Connections.Idle,
			Total:   w.Connections.Total,
			Waiting: w.Connections.Waiting,
		}
	}
	if w.Config != nil {
		s.Config = &dashboard.PoolConfig{
			MaxThreads:   w.Config.MaxThreads,
			MaxQueueSize: w.Config.MaxQueueSize,
		}
	}
	return s, nil
}

// Decode parses data as a snapshot of kind and returns it as an update.
func Decode(kind dashboard.TabKind, format Format, data []byte) (dashboard.Update, error) {
	u := dashboard.Update{Kind: kind}
	var err error
	switch kind {
	case dashboard.KindFibers:
		u.Fibers, err = DecodeFibers(format, data)
	case dashboard.KindPool:
		u.Pool, err = DecodePool(format, data)
	case dashboard.KindActors:
		u.Actors, err = DecodeActors(format, data)
	default:
		err = errors.New(errors.ErrWiring, fmt.Sprintf("No decoder for source kind %d", int(kind)), "")
	}
	return u, err
}
