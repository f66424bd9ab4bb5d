package dashboard

// SelectionList is an ordered list with at most one selected item.
// Navigation wraps around at both ends. On an empty list there is never a
// selection and navigation does nothing.
type SelectionList[T any] struct {
	items    []T
	selected int // -1 when nothing is selected
}

// NewSelectionList creates a list over items with nothing selected.
func NewSelectionList[T any](items []T) *SelectionList[T] {
	return &SelectionList[T]{items: items, selected: -1}
}

// Next selects the following item, wrapping to the first.
func (l *SelectionList[T]) Next() {
	if len(l.items) == 0 {
		return
	}
	if l.selected < 0 {
		l.selected = 0
		return
	}
	l.selected = (l.selected + 1) % len(l.items)
}

// Previous selects the preceding item, wrapping to the last.
func (l *SelectionList[T]) Previous() {
	if len(l.items) == 0 {
		return
	}
	switch {
	case l.selected < 0:
		l.selected = 0
	case l.selected == 0:
		l.selected = len(l.items) - 1
	default:
		l.selected--
	}
}

// Replace swaps in a new item sequence. The first item is selected if there
// is one.
func (l *SelectionList[T]) Replace(items []T) {
	l.items = items
	if len(items) > 0 {
		l.selected = 0
	} else {
		l.selected = -1
	}
}

// Items returns the current items. Callers must not modify the slice.
func (l *SelectionList[T]) Items() []T {
	return l.items
}

// Len returns the number of items.
func (l *SelectionList[T]) Len() int {
	return len(l.items)
}

// Selected returns the selected index, if any.
func (l *SelectionList[T]) Selected() (int, bool) {
	if l.selected < 0 || l.selected >= len(l.items) {
		return 0, false
	}
	return l.selected, true
}
