package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountLines(t *testing.T) {
	tests := []struct {
		text   string
		expect int
	}{
		{"", 0},
		{"one", 1},
		{"one\n", 1},
		{"one\ntwo", 2},
		{"one\ntwo\n", 2},
		{"\n\n", 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expect, countLines(tt.text), "%q", tt.text)
	}
}

func TestDumpViewer_Scroll(t *testing.T) {
	var v DumpViewer
	v.Show("a\nb\nc")
	assert.Equal(t, 3, v.lines)
	assert.Equal(t, 0, v.Offset())

	v.ScrollUp()
	assert.Equal(t, 0, v.Offset(), "scroll up is floored at zero")

	for i := 0; i < 10; i++ {
		v.ScrollDown()
	}
	assert.Equal(t, 3, v.Offset(), "scroll down is capped at the line count")

	v.ScrollUp()
	assert.Equal(t, 2, v.Offset())
}

func TestDumpViewer_ShowResetsOffset(t *testing.T) {
	var v DumpViewer
	v.Show("a\nb\nc")
	v.ScrollDown()
	v.ScrollDown()

	v.Show("x\ny")
	assert.Equal(t, 0, v.Offset())
	assert.Equal(t, 2, v.lines)
	assert.Equal(t, "x\ny", v.text)
}

func TestDumpViewer_Visible(t *testing.T) {
	var v DumpViewer
	v.Show("l1\r\nl2\nl3\nl4\n")

	assert.Equal(t, []string{"l1", "l2"}, v.Visible(2))

	v.ScrollDown()
	assert.Equal(t, []string{"l2", "l3", "l4"}, v.Visible(0))

	for i := 0; i < 4; i++ {
		v.ScrollDown()
	}
	assert.Nil(t, v.Visible(5), "scrolled past the end shows nothing")
}

func TestDumpViewer_Empty(t *testing.T) {
	var v DumpViewer
	v.Show("")
	v.ScrollDown()
	assert.Equal(t, 0, v.Offset())
	assert.Nil(t, v.Visible(10))
}
