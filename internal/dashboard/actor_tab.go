package dashboard

// ActorTab holds the actor system view: the rendered actor forest and the
// number of actors seen in each snapshot.
type ActorTab struct {
	actors *SelectionList[string]
	nodes  []Actor
	counts *History[int]
}

// NewActorTab creates an empty actor tab keeping countCapacity counts.
func NewActorTab(countCapacity int) *ActorTab {
	return &ActorTab{
		actors: NewSelectionList[string](nil),
		counts: NewHistory[int](countCapacity),
	}
}

// IngestSnapshot replaces the actor tree and selects the first actor.
func (t *ActorTab) IngestSnapshot(actors []Actor) {
	lines := RenderForest(actors, false)

	labels := make([]string, len(lines))
	nodes := make([]Actor, len(lines))
	for i, l := range lines {
		labels[i] = l.Label
		nodes[i] = l.Node
	}

	t.actors.Replace(labels)
	t.nodes = nodes
}

// AppendCount records the actor count of one snapshot.
func (t *ActorTab) AppendCount(n int) {
	t.counts.Push(n)
}

// SelectPrevious moves the selection up.
func (t *ActorTab) SelectPrevious() {
	t.actors.Previous()
}

// SelectNext moves the selection down.
func (t *ActorTab) SelectNext() {
	t.actors.Next()
}

// Labels returns the rendered actor lines.
func (t *ActorTab) Labels() []string {
	return t.actors.Items()
}

// Selected returns the index of the selected actor.
func (t *ActorTab) Selected() (int, bool) {
	return t.actors.Selected()
}

// SelectedActor returns the actor behind the selected line.
func (t *ActorTab) SelectedActor() (Actor, bool) {
	i, ok := t.actors.Selected()
	if !ok || i >= len(t.nodes) {
		return Actor{}, false
	}
	return t.nodes[i], true
}

// Counts returns the actor count history.
func (t *ActorTab) Counts() *History[int] {
	return t.counts
}
