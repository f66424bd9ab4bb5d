package dashboard

import "strings"

// DumpViewer tracks the scroll position over the dump of the selected fiber.
// Scrolling moves one line at a time and never passes the line count.
type DumpViewer struct {
	text   string
	lines  int
	offset int
}

// Show replaces the displayed text and scrolls back to the top.
func (v *DumpViewer) Show(text string) {
	v.text = text
	v.lines = countLines(text)
	v.offset = 0
}

// ScrollUp moves one line towards the top.
func (v *DumpViewer) ScrollUp() {
	if v.offset > 0 {
		v.offset--
	}
}

// ScrollDown moves one line towards the bottom.
func (v *DumpViewer) ScrollDown() {
	if v.offset < v.lines {
		v.offset++
	}
}

// Offset returns the index of the first visible line.
func (v *DumpViewer) Offset() int {
	return v.offset
}

// Visible returns up to height lines starting at the scroll offset.
// A non-positive height returns everything from the offset on.
func (v *DumpViewer) Visible(height int) []string {
	all := splitLines(v.text)
	if v.offset >= len(all) {
		return nil
	}
	all = all[v.offset:]
	if height > 0 && len(all) > height {
		all = all[:height]
	}
	return all
}

// countLines counts lines the way a reader would: a trailing newline does not
// start a new line and empty text has none.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
