package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistory(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		expected int
	}{
		{"zero capacity", 0, 1},
		{"negative capacity", -5, 1},
		{"custom capacity", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory[int](tt.capacity)
			assert.Equal(t, tt.expected, h.Cap())
			assert.Equal(t, 0, h.Len())
			assert.Nil(t, h.Values())
		})
	}
}

func TestHistory_KeepsLastNInArrivalOrder(t *testing.T) {
	const capacity = 5

	for total := 0; total <= 12; total++ {
		h := NewHistory[int](capacity)
		for i := 0; i < total; i++ {
			h.Push(i)
		}

		want := min(total, capacity)
		require.Equal(t, want, h.Len(), "after %d pushes", total)

		var expected []int
		for i := total - want; i < total; i++ {
			expected = append(expected, i)
		}
		assert.Equal(t, expected, h.Values(), "after %d pushes", total)
	}
}

func TestHistory_Last(t *testing.T) {
	h := NewHistory[int](4)
	for i := 1; i <= 6; i++ {
		h.Push(i)
	}

	assert.Equal(t, []int{5, 6}, h.Last(2))
	assert.Equal(t, []int{3, 4, 5, 6}, h.Last(10), "asking for more than held returns everything")
	assert.Nil(t, h.Last(0))
}

func TestHistory_Latest(t *testing.T) {
	h := NewHistory[string](2)

	_, ok := h.Latest()
	assert.False(t, ok)

	h.Push("a")
	h.Push("b")
	h.Push("c")

	v, ok := h.Latest()
	require.True(t, ok)
	assert.Equal(t, "c", v)
}

func TestSeries(t *testing.T) {
	h := NewHistory[StatusTally](3)
	h.Push(StatusTally{Running: 1})
	h.Push(StatusTally{Running: 4})

	got := Series(h, func(t StatusTally) float64 { return float64(t.Running) })
	assert.Equal(t, []float64{1, 4}, got)
}
