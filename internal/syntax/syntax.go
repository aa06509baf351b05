// Package syntax exposes a read-only parse tree over Markdown text as a
// flat arena of labeled spans. The engine consumes any tree of this
// shape; the goldmark adapter in this package is one producer. Node
// names outside the known vocabulary map to KindUnknown and are skipped
// by every consumer, never treated as an error.
package syntax

import "sort"

// NodeKind labels a span in the parse tree. The vocabulary is closed;
// unknown names collapse to KindUnknown.
type NodeKind uint8

const (
	KindUnknown NodeKind = iota

	// Block nodes.
	KindHeading
	KindFencedCode
	KindIndentedCode

	// Inline container nodes.
	KindLink
	KindImage
	KindAutoLink
	KindCodeSpan
	KindEmphasis

	// Marker nodes — the raw syntax the reveal engine hides or shows.
	KindHeaderMark
	KindEmphasisMark
	KindLinkMark
	KindCodeMark
	KindURL
	KindLinkTitle
)

var kindNames = map[NodeKind]string{
	KindUnknown:      "Unknown",
	KindHeading:      "Heading",
	KindFencedCode:   "FencedCode",
	KindIndentedCode: "CodeBlock",
	KindLink:         "Link",
	KindImage:        "Image",
	KindAutoLink:     "AutoLink",
	KindCodeSpan:     "CodeSpan",
	KindEmphasis:     "Emphasis",
	KindHeaderMark:   "HeaderMark",
	KindEmphasisMark: "EmphasisMark",
	KindLinkMark:     "LinkMark",
	KindCodeMark:     "CodeMark",
	KindURL:          "URL",
	KindLinkTitle:    "LinkTitle",
}

func (k NodeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// KindByName maps an external node name onto the closed vocabulary.
// Names this engine does not know yield KindUnknown.
func KindByName(name string) NodeKind {
	for k, s := range kindNames {
		if s == name {
			return k
		}
	}
	return KindUnknown
}

// IsMark reports whether the kind is an inline syntax marker subject to
// hide/reveal.
func (k NodeKind) IsMark() bool {
	switch k {
	case KindHeaderMark, KindEmphasisMark, KindLinkMark, KindCodeMark, KindURL, KindLinkTitle:
		return true
	}
	return false
}

// NoParent marks a root-level node.
const NoParent = int32(-1)

// Node is one labeled span. Parent is an index into the arena, not a
// pointer, so ancestor walks are plain index hops.
type Node struct {
	Kind   NodeKind
	From   int
	To     int // exclusive
	Parent int32
}

// Tree is an immutable arena of nodes sorted by From offset.
type Tree struct {
	nodes []Node
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Node returns node i.
func (t *Tree) Node(i int) Node { return t.nodes[i] }

// Parent returns the parent of node i, or ok=false at a root.
func (t *Tree) Parent(i int) (int, bool) {
	p := t.nodes[i].Parent
	if p < 0 {
		return 0, false
	}
	return int(p), true
}

// Ancestor walks parent hops from node i until pred matches, returning
// the matching node index. ok=false if no ancestor matches.
func (t *Tree) Ancestor(i int, pred func(Node) bool) (int, bool) {
	for {
		p, ok := t.Parent(i)
		if !ok {
			return 0, false
		}
		if pred(t.nodes[p]) {
			return p, true
		}
		i = p
	}
}

// Iterate visits every node overlapping [from, to) in From order. The
// visitor returns false to stop early. Safe on a nil tree.
func (t *Tree) Iterate(from, to int, visit func(i int, n Node) bool) {
	if t == nil {
		return
	}
	// Nodes are sorted by From but spans nest, so scan from the start;
	// stop once From passes the window end.
	for i, n := range t.nodes {
		if n.From >= to {
			return
		}
		if n.To <= from && n.From != n.To {
			continue
		}
		if !visit(i, n) {
			return
		}
	}
}

// TreeBuilder accumulates nodes and produces a sorted Tree. AddChild
// returns the new node's index so children can reference it.
type TreeBuilder struct {
	nodes []Node
}

// Add appends a root-level node and returns its index.
func (b *TreeBuilder) Add(kind NodeKind, from, to int) int {
	return b.AddChild(kind, from, to, -1)
}

// AddChild appends a node with the given parent index (-1 for root).
func (b *TreeBuilder) AddChild(kind NodeKind, from, to int, parent int) int {
	b.nodes = append(b.nodes, Node{Kind: kind, From: from, To: to, Parent: int32(parent)})
	return len(b.nodes) - 1
}

// Build sorts the arena by From offset (stable, so siblings keep
// insertion order) and returns the finished tree. Parent indices are
// remapped to survive the sort.
func (b *TreeBuilder) Build() *Tree {
	order := make([]int, len(b.nodes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		a, c := b.nodes[order[x]], b.nodes[order[y]]
		if a.From != c.From {
			return a.From < c.From
		}
		return a.To > c.To // wider (enclosing) spans first
	})
	remap := make([]int32, len(b.nodes))
	for newIdx, oldIdx := range order {
		remap[oldIdx] = int32(newIdx)
	}
	nodes := make([]Node, len(b.nodes))
	for newIdx, oldIdx := range order {
		n := b.nodes[oldIdx]
		if n.Parent >= 0 {
			n.Parent = remap[n.Parent]
		}
		nodes[newIdx] = n
	}
	return &Tree{nodes: nodes}
}
