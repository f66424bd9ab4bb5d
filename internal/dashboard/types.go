package dashboard

import (
	"strconv"
	"strings"
)

// FiberStatus is the scheduler state of a single fiber.
type FiberStatus int

const (
	FiberRunning FiberStatus = iota
	FiberSuspended
	FiberFinishing
	FiberDone
)

// String returns the display name of the status.
func (s FiberStatus) String() string {
	switch s {
	case FiberRunning:
		return "Running"
	case FiberSuspended:
		return "Suspended"
	case FiberFinishing:
		return "Finishing"
	case FiberDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// ParseFiberStatus converts a status name to a FiberStatus, ignoring case.
func ParseFiberStatus(s string) (FiberStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "running":
		return FiberRunning, true
	case "suspended":
		return FiberSuspended, true
	case "finishing":
		return FiberFinishing, true
	case "done":
		return FiberDone, true
	default:
		return FiberRunning, false
	}
}

// Fiber is one record of a fiber dump snapshot.
type Fiber struct {
	ID       int64
	ParentID *int64 // nil for roots
	Status   FiberStatus
	Dump     string
}

func (f Fiber) NodeID() int64 { return f.ID }

func (f Fiber) ParentNodeID() (int64, bool) {
	if f.ParentID == nil {
		return 0, false
	}
	return *f.ParentID, true
}

func (f Fiber) NodeDetail() string { return f.Status.String() }

// Actor is one record of an actor tree snapshot.
type Actor struct {
	ID       int64
	ParentID *int64 // nil for roots
	Name     string
}

func (a Actor) NodeID() int64 { return a.ID }

func (a Actor) ParentNodeID() (int64, bool) {
	if a.ParentID == nil {
		return 0, false
	}
	return *a.ParentID, true
}

func (a Actor) NodeDetail() string { return a.Name }

// StatusTally counts the fibers of one snapshot per status.
type StatusTally struct {
	Done      int
	Suspended int
	Running   int
	Finishing int
}

// Total returns the number of fibers counted.
func (t StatusTally) Total() int {
	return t.Done + t.Suspended + t.Running + t.Finishing
}

// TallyFibers counts statuses across a snapshot.
func TallyFibers(fibers []Fiber) StatusTally {
	var t StatusTally
	for _, f := range fibers {
		switch f.Status {
		case FiberDone:
			t.Done++
		case FiberFinishing:
			t.Finishing++
		case FiberRunning:
			t.Running++
		case FiberSuspended:
			t.Suspended++
		}
	}
	return t
}

// PoolMetrics are the query-execution layer gauges.
type PoolMetrics struct {
	ActiveThreads int
	QueueSize     int
}

// ConnectionMetrics are the gauges of the secondary connection pooling layer.
type ConnectionMetrics struct {
	Active  int
	Idle    int
	Total   int
	Waiting int // threads awaiting a connection
}

// PoolConfig is the static configuration of the query-execution layer.
type PoolConfig struct {
	MaxThreads   int
	MaxQueueSize int
}

// PoolSnapshot is one poll of the connection pool source.
type PoolSnapshot struct {
	Metrics     PoolMetrics
	Connections *ConnectionMetrics // nil when no secondary pool is present
	Config      *PoolConfig        // nil when the source did not report it
}

// Int64 returns a pointer to v, for building parent references.
func Int64(v int64) *int64 {
	return &v
}

func formatID(id int64) string {
	return "#" + strconv.FormatInt(id, 10)
}
