package dashboard

// TabKind identifies the data source behind a tab.
type TabKind int

const (
	KindFibers TabKind = iota
	KindPool
	KindActors
)

// Kinds lists every tab kind in presentation order.
var Kinds = []TabKind{KindFibers, KindPool, KindActors}

// String returns the config key of the kind.
func (k TabKind) String() string {
	switch k {
	case KindFibers:
		return "fibers"
	case KindPool:
		return "pool"
	case KindActors:
		return "actors"
	default:
		return "unknown"
	}
}

// DefaultTitle returns the tab title used when none is configured.
func (k TabKind) DefaultTitle() string {
	switch k {
	case KindFibers:
		return "Fibers"
	case KindPool:
		return "Pool"
	case KindActors:
		return "Actors"
	default:
		return "?"
	}
}

// ParseTabKind converts a config key back to a TabKind.
func ParseTabKind(s string) (TabKind, bool) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Tab describes one tab of the dashboard.
type Tab struct {
	Kind  TabKind
	Title string
}

// TabSet is the ordered set of configured tabs with a current position.
// Navigation wraps and is a no-op when no tabs exist.
type TabSet struct {
	tabs  []Tab
	index int
}

// NewTabSet creates a tab set positioned on the first tab.
func NewTabSet(tabs []Tab) TabSet {
	return TabSet{tabs: tabs}
}

// Next moves to the following tab, wrapping to the first.
func (s *TabSet) Next() {
	if len(s.tabs) == 0 {
		return
	}
	s.index = (s.index + 1) % len(s.tabs)
}

// Previous moves to the preceding tab, wrapping to the last.
func (s *TabSet) Previous() {
	if len(s.tabs) == 0 {
		return
	}
	if s.index > 0 {
		s.index--
	} else {
		s.index = len(s.tabs) - 1
	}
}

// Current returns the active tab.
func (s *TabSet) Current() (Tab, bool) {
	if len(s.tabs) == 0 {
		return Tab{}, false
	}
	return s.tabs[s.index], true
}

// Index returns the position of the active tab.
func (s *TabSet) Index() int {
	return s.index
}

// Len returns the number of tabs.
func (s *TabSet) Len() int {
	return len(s.tabs)
}

// Titles returns the tab titles in presentation order.
func (s *TabSet) Titles() []string {
	titles := make([]string, len(s.tabs))
	for i, t := range s.tabs {
		titles[i] = t.Title
	}
	return titles
}
