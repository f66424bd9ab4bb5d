package dashboard

// FiberTab holds the fiber scheduler view: the rendered fiber forest, the dump
// of every fiber aligned with it, the scroll state of the selected dump and
// the per-snapshot status tallies.
type FiberTab struct {
	fibers  *SelectionList[string]
	dumps   []string
	viewer  DumpViewer
	tallies *History[StatusTally]
}

// NewFiberTab creates an empty fiber tab keeping tallyCapacity tallies.
func NewFiberTab(tallyCapacity int) *FiberTab {
	return &FiberTab{
		fibers:  NewSelectionList[string](nil),
		tallies: NewHistory[StatusTally](tallyCapacity),
	}
}

// IngestSnapshot replaces the fiber tree with a new snapshot and selects the
// first fiber.
func (t *FiberTab) IngestSnapshot(fibers []Fiber) {
	lines := RenderForest(fibers, true)

	labels := make([]string, len(lines))
	dumps := make([]string, len(lines))
	for i, l := range lines {
		labels[i] = l.Label
		dumps[i] = l.Node.Dump
	}

	t.fibers.Replace(labels)
	t.dumps = dumps
	t.showSelected()
}

// IngestTally counts the statuses of a snapshot into the tally history.
func (t *FiberTab) IngestTally(fibers []Fiber) {
	t.tallies.Push(TallyFibers(fibers))
}

// SelectPrevious moves the selection up and shows that fiber's dump.
func (t *FiberTab) SelectPrevious() {
	if t.fibers.Len() == 0 {
		return
	}
	t.fibers.Previous()
	t.showSelected()
}

// SelectNext moves the selection down and shows that fiber's dump.
func (t *FiberTab) SelectNext() {
	if t.fibers.Len() == 0 {
		return
	}
	t.fibers.Next()
	t.showSelected()
}

// ScrollUp scrolls the dump one line up.
func (t *FiberTab) ScrollUp() {
	t.viewer.ScrollUp()
}

// ScrollDown scrolls the dump one line down.
func (t *FiberTab) ScrollDown() {
	t.viewer.ScrollDown()
}

// Labels returns the rendered fiber lines.
func (t *FiberTab) Labels() []string {
	return t.fibers.Items()
}

// Dumps returns the dumps aligned with Labels.
func (t *FiberTab) Dumps() []string {
	return t.dumps
}

// Selected returns the index of the selected fiber.
func (t *FiberTab) Selected() (int, bool) {
	return t.fibers.Selected()
}

// Viewer returns the scroll state of the selected dump.
func (t *FiberTab) Viewer() *DumpViewer {
	return &t.viewer
}

// Tallies returns the status tally history.
func (t *FiberTab) Tallies() *History[StatusTally] {
	return t.tallies
}

func (t *FiberTab) showSelected() {
	i, ok := t.fibers.Selected()
	if !ok || i >= len(t.dumps) {
		t.viewer.Show("")
		return
	}
	t.viewer.Show(t.dumps[i])
}
