package syntax

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/xonecas/livemark/internal/document"
)

// Parse builds a span tree from Markdown source using goldmark.
//
// goldmark's AST carries byte segments for text content but not for the
// syntax markers themselves, so marker nodes (hashes, emphasis
// delimiters, brackets, backticks) are recovered here by inspecting the
// source around each node's content span. Markers that cannot be
// recovered — ambiguous or malformed syntax — are simply not emitted;
// the engine degrades to showing that syntax as-is.
func Parse(src []byte) *Tree {
	doc := document.New(string(src))
	root := goldmark.New().Parser().Parse(gtext.NewReader(src))

	b := &TreeBuilder{}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			addHeading(b, doc, src, n)
		case *ast.FencedCodeBlock:
			addFencedCode(b, doc, src, n)
		case *ast.CodeBlock:
			addIndentedCode(b, doc, n)
		case *ast.Emphasis:
			addEmphasis(b, src, n)
		case *ast.CodeSpan:
			addCodeSpan(b, src, n)
		case *ast.Link:
			addLink(b, src, n, false)
		case *ast.Image:
			addLink(b, src, n, true)
		}
		return ast.WalkContinue, nil
	})
	return b.Build()
}

// contentSpan returns the byte span covered by the text descendants of
// an inline node. ok=false when the node has no resolvable text.
func contentSpan(n ast.Node) (from, to int, ok bool) {
	from, to = -1, -1
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if t, isText := n.(*ast.Text); isText {
			if from == -1 || t.Segment.Start < from {
				from = t.Segment.Start
			}
			if t.Segment.Stop > to {
				to = t.Segment.Stop
			}
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(n)
	return from, to, from >= 0 && to > from
}

func addHeading(b *TreeBuilder, doc *document.Document, src []byte, n *ast.Heading) {
	if n.Lines().Len() == 0 {
		return
	}
	textStart := n.Lines().At(0).Start
	line := doc.LineAt(textStart)

	// ATX only: hashes at the start of the same line as the text. A
	// setext heading has its marker on the following line and gets no
	// HeaderMark node.
	i := line.Start
	for i < len(src) && src[i] == ' ' {
		i++
	}
	hashStart := i
	for i < len(src) && src[i] == '#' {
		i++
	}
	if i == hashStart || i-hashStart != n.Level || i > textStart {
		return
	}
	h := b.Add(KindHeading, line.Start, line.End)
	b.AddChild(KindHeaderMark, hashStart, textStart, h)
}

func addFencedCode(b *TreeBuilder, doc *document.Document, src []byte, n *ast.FencedCodeBlock) {
	// Locate the opening fence line: the line above the first content
	// line, or the info string's line for blocks that have one.
	var openLine document.Line
	switch {
	case n.Lines().Len() > 0:
		first := doc.LineAt(n.Lines().At(0).Start)
		if first.Index == 0 {
			return
		}
		openLine = doc.Line(first.Index - 1)
	case n.Info != nil:
		openLine = doc.LineAt(n.Info.Segment.Start)
	default:
		return
	}
	if !isFenceLine(openLine.Text) {
		return
	}

	end := openLine.End
	if n.Lines().Len() > 0 {
		end = n.Lines().At(n.Lines().Len() - 1).Stop
	}
	// Closing fence, when present, is the line after the interior.
	lastInterior := doc.LineAt(end - 1)
	if end == openLine.End {
		lastInterior = openLine
	}
	if lastInterior.Index+1 < doc.LineCount() {
		next := doc.Line(lastInterior.Index + 1)
		if isFenceLine(next.Text) {
			end = next.End
		}
	}
	b.Add(KindFencedCode, openLine.Start, end)
}

func isFenceLine(text string) bool {
	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	if i >= len(text) || (text[i] != '`' && text[i] != '~') {
		return false
	}
	marker := text[i]
	run := 0
	for i < len(text) && text[i] == marker {
		i++
		run++
	}
	return run >= 3
}

func addIndentedCode(b *TreeBuilder, doc *document.Document, n *ast.CodeBlock) {
	if n.Lines().Len() == 0 {
		return
	}
	start := doc.LineAt(n.Lines().At(0).Start).Start
	end := n.Lines().At(n.Lines().Len() - 1).Stop
	b.Add(KindIndentedCode, start, end)
}

func addEmphasis(b *TreeBuilder, src []byte, n *ast.Emphasis) {
	from, to, ok := contentSpan(n)
	if !ok {
		return
	}
	lv := n.Level
	if from-lv < 0 || to+lv > len(src) {
		return
	}
	open := src[from-lv : from]
	closing := src[to : to+lv]
	if !isDelimiterRun(open) || !bytes.Equal(open, closing) {
		return
	}
	e := b.Add(KindEmphasis, from-lv, to+lv)
	b.AddChild(KindEmphasisMark, from-lv, from, e)
	b.AddChild(KindEmphasisMark, to, to+lv, e)
}

func isDelimiterRun(run []byte) bool {
	if len(run) == 0 {
		return false
	}
	for _, c := range run {
		if c != run[0] || (c != '*' && c != '_') {
			return false
		}
	}
	return true
}

func addCodeSpan(b *TreeBuilder, src []byte, n *ast.CodeSpan) {
	from, to, ok := contentSpan(n)
	if !ok {
		return
	}
	openFrom := from
	for openFrom > 0 && src[openFrom-1] == '`' {
		openFrom--
	}
	closeTo := to
	for closeTo < len(src) && src[closeTo] == '`' {
		closeTo++
	}
	if openFrom == from || closeTo == to || from-openFrom != closeTo-to {
		return
	}
	c := b.Add(KindCodeSpan, openFrom, closeTo)
	b.AddChild(KindCodeMark, openFrom, from, c)
	b.AddChild(KindCodeMark, to, closeTo, c)
}

// addLink recovers the bracket syntax around a link or image:
//
//	[label](dest "title")    ![alt](src "title")
//
// Marker children cover `[` (or `![`), `](`, the destination, the
// quoted title, and `)`. All of them parent to the container node so
// the reveal engine can govern them by the full link span.
func addLink(b *TreeBuilder, src []byte, n ast.Node, image bool) {
	lf, lt, ok := contentSpan(n)
	if !ok {
		return
	}
	openFrom := lf - 1
	if image {
		openFrom = lf - 2
	}
	if openFrom < 0 || src[lf-1] != '[' || (image && src[lf-2] != '!') {
		return
	}
	if lt+1 >= len(src) || src[lt] != ']' || src[lt+1] != '(' {
		return
	}
	urlFrom := lt + 2
	urlTo := urlFrom
	for urlTo < len(src) && src[urlTo] != ')' && src[urlTo] != ' ' && src[urlTo] != '\n' {
		urlTo++
	}
	if urlTo >= len(src) {
		return
	}

	// Optional quoted title between destination and closing paren.
	titleFrom, titleTo := -1, -1
	i := urlTo
	for i < len(src) && src[i] == ' ' {
		i++
	}
	if i < len(src) && (src[i] == '"' || src[i] == '\'') {
		quote := src[i]
		j := i + 1
		for j < len(src) && src[j] != quote && src[j] != '\n' {
			j++
		}
		if j < len(src) && src[j] == quote {
			titleFrom, titleTo = i, j+1
			i = j + 1
			for i < len(src) && src[i] == ' ' {
				i++
			}
		}
	}
	if i >= len(src) || src[i] != ')' {
		return
	}
	closeParen := i

	kind := KindLink
	if image {
		kind = KindImage
	}
	link := b.Add(kind, openFrom, closeParen+1)
	b.AddChild(KindLinkMark, openFrom, lf, link)
	b.AddChild(KindLinkMark, lt, urlFrom, link)
	if urlTo > urlFrom {
		b.AddChild(KindURL, urlFrom, urlTo, link)
	}
	if titleFrom >= 0 {
		b.AddChild(KindLinkTitle, titleFrom, titleTo, link)
	}
	b.AddChild(KindLinkMark, closeParen, closeParen+1, link)
}
