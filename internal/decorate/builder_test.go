package decorate

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/x/exp/golden"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/xonecas/livemark/internal/document"
	"github.com/xonecas/livemark/internal/syntax"
)

func mustBuild(t *testing.T, b *Builder, doc *document.Document, windows []document.Range, tree *syntax.Tree) []Decoration {
	t.Helper()
	decos, err := b.Build(doc, windows, tree)
	if err != nil {
		t.Fatal(err)
	}
	return decos
}

func wholeDoc(doc *document.Document) []document.Range {
	return []document.Range{{From: 0, To: doc.Len()}}
}

func dump(decos []Decoration) string {
	var b strings.Builder
	for _, d := range decos {
		fmt.Fprintf(&b, "%4d %4d %-14s arg=%d info=%q\n", d.From, d.To, d.Tag, d.Arg, d.Info)
	}
	return b.String()
}

// unifiedDiff renders a readable diff for dump mismatches.
func unifiedDiff(want, got string) string {
	edits := myers.ComputeEdits(span.URIFromPath("want"), want, got)
	return fmt.Sprint(gotextdiff.ToUnified("want", "got", want, edits))
}

func TestBuildWindowValidation(t *testing.T) {
	doc := document.New("hello")
	b := &Builder{}

	tests := []document.Range{
		{From: -1, To: 3},
		{From: 0, To: 6},
		{From: 4, To: 2},
	}
	for _, w := range tests {
		if _, err := b.Build(doc, []document.Range{w}, nil); !errors.Is(err, ErrWindow) {
			t.Errorf("window %+v: err = %v, want ErrWindow", w, err)
		}
	}

	// Empty windows and empty documents yield empty output, not errors.
	if decos := mustBuild(t, b, doc, []document.Range{{From: 2, To: 2}}, nil); len(decos) != 0 {
		t.Errorf("empty window produced %v", decos)
	}
	empty := document.New("")
	if decos := mustBuild(t, b, empty, wholeDoc(empty), nil); len(decos) != 0 {
		t.Errorf("empty document produced %v", decos)
	}
}

func TestBuildOneContentTagPerLine(t *testing.T) {
	text := "# h\n\n- a\n- [x] b\n> q\n```\nc\n```\n| a | b |\n|---|---|\n| 1 | 2 |\n---\n![i](p.png)\npara"
	doc := document.New(text)
	decos := mustBuild(t, &Builder{}, doc, wholeDoc(doc), nil)

	perLine := map[int]int{}
	for _, d := range decos {
		if d.Tag.IsContent() {
			perLine[doc.LineAt(d.From).Index]++
		}
	}
	for i := 0; i < doc.LineCount(); i++ {
		if perLine[i] != 1 {
			t.Errorf("line %d: %d content tags, want exactly 1", i, perLine[i])
		}
	}
}

func TestBuildOutputSorted(t *testing.T) {
	text := "- one\n- [ ] two\n# h\n*em* text"
	doc := document.New(text)
	decos := mustBuild(t, &Builder{}, doc, wholeDoc(doc), syntax.Parse([]byte(text)))

	for i := 1; i < len(decos); i++ {
		if less(decos[i], decos[i-1]) {
			t.Fatalf("output not sorted at %d: %+v after %+v", i, decos[i], decos[i-1])
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	text := "# h\n- a\n```go\nx\n```"
	doc := document.New(text)
	tree := syntax.Parse([]byte(text))
	b := &Builder{}

	first := dump(mustBuild(t, b, doc, wholeDoc(doc), tree))
	second := dump(mustBuild(t, b, doc, wholeDoc(doc), tree))
	if first != second {
		t.Errorf("rebuild differed:\n%s", unifiedDiff(first, second))
	}
}

func TestBuildBulletGlyph(t *testing.T) {
	doc := document.New("- alpha\n1. beta\n- [ ] gamma")
	decos := mustBuild(t, &Builder{}, doc, wholeDoc(doc), nil)

	var glyphs []Decoration
	for _, d := range decos {
		if d.Tag == TagBulletGlyph {
			glyphs = append(glyphs, d)
		}
	}
	// Only the plain unordered item gets a glyph: ordered items keep
	// their number, tasks keep their checkbox.
	if len(glyphs) != 1 {
		t.Fatalf("got %d glyph decorations, want 1: %v", len(glyphs), glyphs)
	}
	g := glyphs[0]
	if g.From != 0 || g.To != 1 || g.Widget == nil || g.Widget.Glyph != "•" {
		t.Errorf("glyph = %+v", g)
	}
}

func TestBuildFigureWidget(t *testing.T) {
	doc := document.New(`![diagram](arch.png "Overview")`)
	decos := mustBuild(t, &Builder{}, doc, wholeDoc(doc), nil)

	var fig *Decoration
	for i, d := range decos {
		if d.Tag == TagFigure {
			fig = &decos[i]
		}
	}
	if fig == nil {
		t.Fatal("no figure decoration")
	}
	if fig.Side != SideAfter || fig.From != doc.Line(0).End {
		t.Errorf("figure anchor = %+v", fig)
	}
	w := fig.Widget
	if w.Alt != "diagram" || w.Src != "arch.png" || w.Title != "Overview" {
		t.Errorf("widget = %+v", *w)
	}
}

func TestBuildTreeOverridesClassifier(t *testing.T) {
	// Window starts inside the fenced block: the classifier alone would
	// see plain paragraphs, but the tree span marks the lines as code.
	text := "```go\nx := 1\ny := 2\n```"
	doc := document.New(text)
	tree := syntax.Parse([]byte(text))

	inner := doc.Line(1)
	decos := mustBuild(t, &Builder{}, doc, []document.Range{{From: inner.Start, To: inner.End}}, tree)

	if len(decos) != 1 || decos[0].Tag != TagCodeBlockLine {
		t.Fatalf("decos = %v, want one CodeBlockLine", decos)
	}
}

func TestBuildFenceInfoNormalized(t *testing.T) {
	tests := []struct {
		fence string
		want  string
	}{
		{"```go", "go"},
		{"```golang", "go"},
		{"```Python", "python"},
		{"```", ""},
		{"```nosuchlanguage", "nosuchlanguage"},
	}
	for _, tt := range tests {
		t.Run(tt.fence, func(t *testing.T) {
			doc := document.New(tt.fence + "\nx\n```")
			decos := mustBuild(t, &Builder{}, doc, wholeDoc(doc), nil)
			if decos[0].Tag != TagCodeBlockStart {
				t.Fatalf("first deco = %v", decos[0])
			}
			if decos[0].Info != tt.want {
				t.Errorf("info = %q, want %q", decos[0].Info, tt.want)
			}
		})
	}
}

func TestBuildRescanModes(t *testing.T) {
	// A fence opens above the window. Window rescan resumes clean and
	// misclassifies without a tree; document rescan replays from the
	// top and knows the fence is open.
	text := "```\ninside\nstill inside"
	doc := document.New(text)
	w := doc.Line(2)
	windows := []document.Range{{From: w.Start, To: w.End}}

	window := mustBuild(t, &Builder{Rescan: RescanWindow}, doc, windows, nil)
	if window[0].Tag != TagParagraph {
		t.Errorf("window rescan: tag = %v, want Paragraph fallback", window[0].Tag)
	}

	exact := mustBuild(t, &Builder{Rescan: RescanDocument}, doc, windows, nil)
	if exact[0].Tag != TagCodeBlockLine {
		t.Errorf("document rescan: tag = %v, want CodeBlockLine", exact[0].Tag)
	}
}

func TestBuildWindowTilingMatchesWholeDocument(t *testing.T) {
	// No blank lines: a blank line's window is empty and Build skips
	// empty windows by contract.
	text := "# h\n> q\n> q2\n- a\n- [x] b\n| a | b |\n|---|---|\n| 1 | 2 |\ntail"
	doc := document.New(text)
	b := &Builder{Rescan: RescanDocument}

	whole := dump(mustBuild(t, b, doc, wholeDoc(doc), nil))

	// Tile the document into per-line windows.
	var windows []document.Range
	for i := 0; i < doc.LineCount(); i++ {
		l := doc.Line(i)
		windows = append(windows, document.Range{From: l.Start, To: l.End})
	}
	tiled := dump(mustBuild(t, b, doc, windows, nil))

	if whole != tiled {
		t.Errorf("tiled output differs:\n%s", unifiedDiff(whole, tiled))
	}
}

func TestBuildGolden(t *testing.T) {
	text := "# Title\n\n- alpha\n- [x] done\n\n```go\nx := 1\n```"
	doc := document.New(text)
	decos := mustBuild(t, &Builder{}, doc, wholeDoc(doc), nil)
	golden.RequireEqual(t, []byte(dump(decos)))
}
