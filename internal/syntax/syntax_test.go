package syntax

import "testing"

func TestKindByName(t *testing.T) {
	tests := []struct {
		name string
		want NodeKind
	}{
		{"Heading", KindHeading},
		{"FencedCode", KindFencedCode},
		{"EmphasisMark", KindEmphasisMark},
		{"SomethingNovel", KindUnknown},
		{"", KindUnknown},
	}
	for _, tt := range tests {
		if got := KindByName(tt.name); got != tt.want {
			t.Errorf("KindByName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBuildSortsAndRemapsParents(t *testing.T) {
	b := &TreeBuilder{}
	link := b.Add(KindLink, 5, 20)
	b.AddChild(KindURL, 10, 15, link)
	b.Add(KindHeading, 0, 4)
	tree := b.Build()

	wantKinds := []NodeKind{KindHeading, KindLink, KindURL}
	for i, k := range wantKinds {
		if tree.Node(i).Kind != k {
			t.Errorf("node %d: kind = %v, want %v", i, tree.Node(i).Kind, k)
		}
	}

	// The URL's parent index must follow the Link through the sort.
	p, ok := tree.Parent(2)
	if !ok || tree.Node(p).Kind != KindLink {
		t.Errorf("Parent(2) = %d, %v", p, ok)
	}
	if _, ok := tree.Parent(0); ok {
		t.Error("root node should have no parent")
	}
}

func TestBuildWiderSpansFirst(t *testing.T) {
	b := &TreeBuilder{}
	b.Add(KindEmphasisMark, 0, 1)
	b.Add(KindEmphasis, 0, 5)
	tree := b.Build()

	if tree.Node(0).Kind != KindEmphasis {
		t.Errorf("enclosing span should sort first, got %v", tree.Node(0).Kind)
	}
}

func TestAncestor(t *testing.T) {
	b := &TreeBuilder{}
	link := b.Add(KindLink, 0, 20)
	em := b.AddChild(KindEmphasis, 2, 10, link)
	mark := b.AddChild(KindEmphasisMark, 2, 3, em)
	tree := b.Build()
	_ = mark

	// Find the mark in the sorted arena.
	var markIdx int
	for i := 0; i < tree.Len(); i++ {
		if tree.Node(i).Kind == KindEmphasisMark {
			markIdx = i
		}
	}

	p, ok := tree.Ancestor(markIdx, func(n Node) bool { return n.Kind == KindLink })
	if !ok || tree.Node(p).Kind != KindLink {
		t.Fatalf("Ancestor = %d, %v", p, ok)
	}
	if _, ok := tree.Ancestor(markIdx, func(n Node) bool { return n.Kind == KindImage }); ok {
		t.Error("no Image ancestor should match")
	}
}

func TestIterateWindow(t *testing.T) {
	b := &TreeBuilder{}
	b.Add(KindHeading, 0, 5)
	b.Add(KindEmphasis, 10, 15)
	b.Add(KindCodeSpan, 20, 25)
	tree := b.Build()

	var got []NodeKind
	tree.Iterate(8, 18, func(_ int, n Node) bool {
		got = append(got, n.Kind)
		return true
	})
	if len(got) != 1 || got[0] != KindEmphasis {
		t.Errorf("Iterate(8,18) visited %v", got)
	}

	// Nil tree iterates nothing.
	var nilTree *Tree
	nilTree.Iterate(0, 100, func(_ int, _ Node) bool {
		t.Fatal("nil tree should not visit")
		return false
	})
}
