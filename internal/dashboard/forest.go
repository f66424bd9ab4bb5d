package dashboard

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ForestNode is a record that refers to its parent by id.
type ForestNode interface {
	NodeID() int64
	ParentNodeID() (int64, bool)
	NodeDetail() string
}

// ForestLine is one rendered row paired with the node that produced it.
type ForestLine[N ForestNode] struct {
	Label string
	Node  N
}

// Tree drawing segments. Every segment is two cells wide.
const (
	branchConnector = "├─"
	lastConnector   = "└─"
	branchIndent    = "│ "
	lastIndent      = "  "
)

// cellWidth measures box-drawing characters as single cells regardless of
// the user's locale.
var cellWidth = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// RenderForest rebuilds the forest described by nodes and returns one line per
// node in depth-first pre-order. Roots and siblings are ordered by ascending
// id, so the result does not depend on input order.
//
// A node whose parent is missing from the snapshot is rendered as a root.
// Parent chains that loop are cut by promoting the lowest id of each loop to
// a root, so every node is rendered exactly once.
//
// With withDetail set, each node's detail is appended after padding that
// starts all details in the same column across the whole output.
func RenderForest[N ForestNode](nodes []N, withDetail bool) []ForestLine[N] {
	if len(nodes) == 0 {
		return nil
	}

	f := buildForest(nodes)

	lines := make([]ForestLine[N], 0, len(nodes))
	emitted := make([]bool, len(nodes))

	type frame struct {
		idx    int
		prefix string
		last   bool
	}

	stack := make([]frame, 0, len(f.roots))
	for i := len(f.roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{idx: f.roots[i], last: i == len(f.roots)-1})
	}

	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if emitted[fr.idx] {
			continue
		}
		emitted[fr.idx] = true

		connector, indent := branchConnector, branchIndent
		if fr.last {
			connector, indent = lastConnector, lastIndent
		}
		lines = append(lines, ForestLine[N]{
			Label: fr.prefix + connector + formatID(nodes[fr.idx].NodeID()),
			Node:  nodes[fr.idx],
		})

		kids := make([]int, 0, len(f.children[fr.idx]))
		for _, c := range f.children[fr.idx] {
			if !f.root[c] && !emitted[c] {
				kids = append(kids, c)
			}
		}
		childPrefix := fr.prefix + indent
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{idx: kids[i], prefix: childPrefix, last: i == len(kids)-1})
		}
	}

	if withDetail {
		alignDetails(lines)
	}
	return lines
}

// alignDetails pads every label to one cell past the widest label and appends
// the node detail.
func alignDetails[N ForestNode](lines []ForestLine[N]) {
	widest := 0
	widths := make([]int, len(lines))
	for i, l := range lines {
		widths[i] = cellWidth.StringWidth(l.Label)
		if widths[i] > widest {
			widest = widths[i]
		}
	}
	for i := range lines {
		pad := widest + 1 - widths[i]
		lines[i].Label = lines[i].Label + strings.Repeat(" ", pad) + lines[i].Node.NodeDetail()
	}
}

// forest is the index adjacency of a snapshot: nodes are addressed by their
// position in the input slice.
type forest struct {
	ids      []int64
	roots    []int
	children [][]int
	root     []bool
	parent   []int // -1 for roots
}

func buildForest[N ForestNode](nodes []N) *forest {
	n := len(nodes)
	f := &forest{
		ids:      make([]int64, n),
		children: make([][]int, n),
		root:     make([]bool, n),
		parent:   make([]int, n),
	}

	byID := make(map[int64]int, n)
	for i, node := range nodes {
		f.ids[i] = node.NodeID()
		byID[f.ids[i]] = i
	}

	for i, node := range nodes {
		f.parent[i] = -1
		pid, ok := node.ParentNodeID()
		if !ok {
			f.root[i] = true
			continue
		}
		p, found := byID[pid]
		if !found || p == i {
			f.root[i] = true
			continue
		}
		f.parent[i] = p
		f.children[p] = append(f.children[p], i)
	}

	byIDOrder := func(idx []int) {
		sort.SliceStable(idx, func(a, b int) bool {
			return f.ids[idx[a]] < f.ids[idx[b]]
		})
	}
	for i := range f.children {
		byIDOrder(f.children[i])
	}

	ordered := make([]int, n)
	for i := range ordered {
		ordered[i] = i
	}
	byIDOrder(ordered)

	reached := make([]bool, n)
	for _, i := range ordered {
		if f.root[i] {
			f.reach(i, reached)
		}
	}

	// Whatever is still unreached hangs off a parent loop.
	for _, i := range ordered {
		if reached[i] {
			continue
		}
		breaker := f.loopBreaker(i)
		f.root[breaker] = true
		f.reach(breaker, reached)
	}

	for _, i := range ordered {
		if f.root[i] {
			f.roots = append(f.roots, i)
		}
	}
	return f
}

// reach marks every node below start that is not itself a root.
func (f *forest) reach(start int, reached []bool) {
	stack := []int{start}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reached[i] {
			continue
		}
		reached[i] = true
		for _, c := range f.children[i] {
			if !f.root[c] {
				stack = append(stack, c)
			}
		}
	}
}

// loopBreaker follows parent links from an unreached node until one repeats,
// then returns the lowest id on that loop.
func (f *forest) loopBreaker(start int) int {
	seen := make(map[int]bool)
	cur := start
	for !seen[cur] {
		seen[cur] = true
		if f.parent[cur] < 0 {
			return cur
		}
		cur = f.parent[cur]
	}

	best := cur
	for i := f.parent[cur]; i != cur; i = f.parent[i] {
		if f.ids[i] < f.ids[best] {
			best = i
		}
	}
	return best
}
