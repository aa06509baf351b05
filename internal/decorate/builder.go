package decorate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/livemark/internal/classify"
	"github.com/xonecas/livemark/internal/document"
	"github.com/xonecas/livemark/internal/syntax"
)

// ErrWindow signals a rebuild invoked with a window that is not a valid
// sub-range of the document — the one contract violation this engine
// reports instead of degrading, since out-of-document offsets would
// corrupt the renderer.
var ErrWindow = errors.New("decorate: window outside document")

// RescanMode controls how multi-line state is derived at a window top.
type RescanMode uint8

const (
	// RescanWindow resumes from a clean state at the window's first
	// line. Fast — O(window) per rebuild — but a fence or run that
	// opened above the window is only recovered where the syntax tree
	// supplies the span (code blocks).
	RescanWindow RescanMode = iota

	// RescanDocument replays the classifier from offset 0 to seed the
	// window's starting state. Exact at window boundaries, O(document)
	// per rebuild.
	RescanDocument
)

// Builder computes structural decorations for visible windows.
type Builder struct {
	Rescan RescanMode
}

// codeRole is a per-line override derived from authoritative tree spans.
type codeRole struct {
	tag  Tag
	info string
}

// Build emits the decoration list for the given windows, one sorted
// pass covering all of them. The syntax tree, when supplied, is the
// source of truth for which lines are code block start/line/end; the
// classifier's own fence detection is the fallback without a tree.
// An empty document or zero-length window yields an empty list.
func (b *Builder) Build(doc *document.Document, windows []document.Range, tree *syntax.Tree) ([]Decoration, error) {
	for _, w := range windows {
		if !w.Valid(doc.Len()) {
			return nil, fmt.Errorf("%w: [%d,%d) in document of length %d", ErrWindow, w.From, w.To, doc.Len())
		}
	}

	var decos []Decoration
	for _, w := range windows {
		if w.From == w.To {
			continue
		}
		fromLine := doc.LineAt(w.From).Index
		toLine := doc.LineAt(w.To - 1).Index

		st := classify.State{}
		if b.Rescan == RescanDocument && fromLine > 0 {
			_, st = classify.Scan(doc, 0, fromLine-1, classify.State{})
		}
		classes, _ := classify.Scan(doc, fromLine, toLine, st)
		roles := codeRoles(doc, tree, fromLine, toLine)

		for _, c := range classes {
			decos = appendLine(decos, doc, c, roles)
		}
	}

	Sort(decos)
	log.Debug().Int("windows", len(windows)).Int("decorations", len(decos)).Msg("structural rebuild")
	return decos, nil
}

// codeRoles maps line index → code tag for every line covered by a
// FencedCode/CodeBlock span of the tree within the line range.
func codeRoles(doc *document.Document, tree *syntax.Tree, fromLine, toLine int) map[int]codeRole {
	if tree == nil || tree.Len() == 0 {
		return nil
	}
	from := doc.Line(fromLine).Start
	to := doc.Line(toLine).End
	roles := make(map[int]codeRole)
	tree.Iterate(from, to+1, func(_ int, n syntax.Node) bool {
		if n.Kind != syntax.KindFencedCode && n.Kind != syntax.KindIndentedCode {
			return true
		}
		first := doc.LineAt(n.From).Index
		last := doc.LineAt(n.To - 1).Index
		info := ""
		if n.Kind == syntax.KindFencedCode {
			info = fenceInfo(doc.Line(first).Text)
		}
		for i := first; i <= last; i++ {
			switch {
			case i == first:
				roles[i] = codeRole{tag: TagCodeBlockStart, info: info}
			case i == last && n.Kind == syntax.KindFencedCode:
				roles[i] = codeRole{tag: TagCodeBlockEnd}
			default:
				roles[i] = codeRole{tag: TagCodeBlockLine}
			}
		}
		return true
	})
	return roles
}

// fenceInfo extracts the info string from an opening fence line and
// normalizes it through Chroma's lexer registry, so the renderer gets a
// language name Chroma recognizes.
func fenceInfo(text string) string {
	trimmed := strings.TrimLeft(text, " \t")
	trimmed = strings.TrimLeft(trimmed, "`~")
	word := strings.Fields(trimmed)
	if len(word) == 0 {
		return ""
	}
	if lex := lexers.Get(word[0]); lex != nil {
		return strings.ToLower(lex.Config().Name)
	}
	return word[0]
}

// appendLine emits the decorations for one classified line: the content
// tag, its modifier tags, and any widgets.
func appendLine(decos []Decoration, doc *document.Document, c classify.Class, roles map[int]codeRole) []Decoration {
	line := doc.Line(c.Line)
	at := line.Start

	// Authoritative code spans override the classifier's fence
	// heuristic entirely for the lines they cover.
	if role, ok := roles[c.Line]; ok {
		return append(decos, Decoration{From: at, To: at, Tag: role.tag, Info: role.info})
	}

	switch c.Kind {
	case classify.Blank:
		decos = append(decos, Decoration{From: at, To: at, Tag: TagBlank})

	case classify.Paragraph:
		decos = append(decos, Decoration{From: at, To: at, Tag: TagParagraph})

	case classify.Heading:
		decos = append(decos, Decoration{From: at, To: at, Tag: TagHeading, Arg: c.Level})

	case classify.Blockquote:
		decos = append(decos, Decoration{From: at, To: at, Tag: TagBlockquote})
		decos = appendRunFlags(decos, at, c.Flags)

	case classify.List:
		decos = append(decos, Decoration{From: at, To: at, Tag: TagListItem})
		decos = appendRunFlags(decos, at, c.Flags)
		if c.Flags.Has(classify.FlagNested) {
			decos = append(decos, Decoration{From: at, To: at, Tag: TagNested})
		}
		if c.Flags.Has(classify.FlagOrdered) {
			decos = append(decos, Decoration{From: at, To: at, Tag: TagOrdered})
		} else if c.Marker.To > c.Marker.From {
			decos = append(decos, Decoration{
				From: c.Marker.From, To: c.Marker.To,
				Tag: TagBulletGlyph, Widget: &Widget{Glyph: "•"},
			})
		}

	case classify.Task:
		arg := 0
		if c.Flags.Has(classify.FlagChecked) {
			arg = 1
		}
		decos = append(decos, Decoration{From: at, To: at, Tag: TagTaskItem, Arg: arg})
		decos = appendRunFlags(decos, at, c.Flags)
		if c.Flags.Has(classify.FlagNested) {
			decos = append(decos, Decoration{From: at, To: at, Tag: TagNested})
		}

	case classify.Code:
		tag := TagCodeBlockLine
		if c.Flags.Has(classify.FlagStart) {
			tag = TagCodeBlockStart
		} else if c.Flags.Has(classify.FlagEnd) {
			tag = TagCodeBlockEnd
		}
		d := Decoration{From: at, To: at, Tag: tag}
		if tag == TagCodeBlockStart {
			d.Info = fenceInfo(line.Text)
		}
		decos = append(decos, d)

	case classify.Rule:
		decos = append(decos, Decoration{From: at, To: at, Tag: TagRule})

	case classify.TableRow:
		decos = append(decos, Decoration{From: at, To: at, Tag: TagTableRow})
		if c.Flags.Has(classify.FlagHeader) {
			decos = append(decos, Decoration{From: at, To: at, Tag: TagHeaderRow})
		}
		decos = append(decos, Decoration{From: at, To: at, Tag: TagRowParity, Arg: c.Parity})

	case classify.TableSep:
		// Separator gets only its content tag — no parity.
		decos = append(decos, Decoration{From: at, To: at, Tag: TagTableSep})

	case classify.Media:
		decos = append(decos, Decoration{From: at, To: at, Tag: TagMedia})
		decos = append(decos, Decoration{
			From: line.End, To: line.End,
			Tag: TagFigure, Side: SideAfter,
			Widget: &Widget{Alt: c.Media.Alt, Src: c.Media.Src, Title: c.Media.Title},
		})
	}

	return decos
}

func appendRunFlags(decos []Decoration, at int, f classify.Flags) []Decoration {
	if f.Has(classify.FlagStart) {
		decos = append(decos, Decoration{From: at, To: at, Tag: TagRunStart})
	}
	if f.Has(classify.FlagEnd) {
		decos = append(decos, Decoration{From: at, To: at, Tag: TagRunEnd})
	}
	return decos
}
