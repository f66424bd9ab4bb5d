package dashboard

// Default retention windows, in samples, per history buffer.
const (
	DefaultFiberTallyCapacity  = 100
	DefaultPoolMetricsCapacity = 25
	DefaultConnectionsCapacity = 100
	DefaultActorCountCapacity  = 25
)

// History is a fixed-size ring buffer that keeps the most recent samples in
// arrival order. Pushing onto a full buffer evicts exactly the oldest sample.
type History[T any] struct {
	data  []T
	head  int // next write position
	count int
}

// NewHistory creates a history holding at most capacity samples.
// Non-positive capacities are treated as 1.
func NewHistory[T any](capacity int) *History[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &History[T]{data: make([]T, capacity)}
}

// Push appends a sample, evicting the oldest one if the buffer is full.
func (h *History[T]) Push(v T) {
	h.data[h.head] = v
	h.head = (h.head + 1) % len(h.data)
	if h.count < len(h.data) {
		h.count++
	}
}

// Len returns the number of samples held.
func (h *History[T]) Len() int {
	return h.count
}

// Cap returns the retention window.
func (h *History[T]) Cap() int {
	return len(h.data)
}

// Last returns up to n of the most recent samples, oldest first.
func (h *History[T]) Last(n int) []T {
	if n <= 0 || h.count == 0 {
		return nil
	}
	if n > h.count {
		n = h.count
	}

	size := len(h.data)
	start := (h.head - n + size) % size
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = h.data[(start+i)%size]
	}
	return out
}

// Values returns every held sample, oldest first.
func (h *History[T]) Values() []T {
	return h.Last(h.count)
}

// Latest returns the most recent sample.
func (h *History[T]) Latest() (T, bool) {
	if h.count == 0 {
		var zero T
		return zero, false
	}
	return h.data[(h.head-1+len(h.data))%len(h.data)], true
}

// Series projects the history onto float64 values for graphing.
func Series[T any](h *History[T], f func(T) float64) []float64 {
	values := h.Values()
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = f(v)
	}
	return out
}
