// Package decorate computes the ordered decoration list that turns raw
// Markdown source into a live preview: line tags for structural kinds,
// inline hide/replace spans, and inert widget descriptors. Consumers
// (the renderer) rely on every pass being sorted by offset.
package decorate

import "sort"

// Tag identifies what a decoration means to the renderer. Content tags
// come first in enum order so that sorting puts the structural tag of a
// line ahead of its modifier tags.
type Tag uint8

const (
	// Content tags — exactly one per line.
	TagBlank Tag = iota
	TagParagraph
	TagHeading // Arg = level 1..6
	TagBlockquote
	TagListItem
	TagTaskItem // Arg = 1 when checked
	TagCodeBlockStart
	TagCodeBlockLine
	TagCodeBlockEnd
	TagRule
	TagTableRow // modifier TagRowParity carries the parity
	TagTableSep
	TagMedia

	// Modifier tags — zero or more per line, layered on the content tag.
	TagRunStart
	TagRunEnd
	TagNested
	TagOrdered
	TagHeaderRow
	TagRowParity // Arg = 0 | 1

	// Inline tags.
	TagHideMark    // hide [From, To)
	TagBulletGlyph // replace [From, To) with Widget.Glyph

	// Widget tags.
	TagFigure // block widget anchored at From
)

var tagNames = [...]string{
	TagBlank:          "Blank",
	TagParagraph:      "Paragraph",
	TagHeading:        "Heading",
	TagBlockquote:     "Blockquote",
	TagListItem:       "ListItem",
	TagTaskItem:       "TaskItem",
	TagCodeBlockStart: "CodeBlockStart",
	TagCodeBlockLine:  "CodeBlockLine",
	TagCodeBlockEnd:   "CodeBlockEnd",
	TagRule:           "Rule",
	TagTableRow:       "TableRow",
	TagTableSep:       "TableSep",
	TagMedia:          "Media",
	TagRunStart:       "RunStart",
	TagRunEnd:         "RunEnd",
	TagNested:         "Nested",
	TagOrdered:        "Ordered",
	TagHeaderRow:      "HeaderRow",
	TagRowParity:      "RowParity",
	TagHideMark:       "HideMark",
	TagBulletGlyph:    "BulletGlyph",
	TagFigure:         "Figure",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "Unknown"
}

// IsContent reports whether the tag is a structural content tag.
func (t Tag) IsContent() bool { return t <= TagMedia }

// Side places a block widget relative to its anchor.
type Side uint8

const (
	SideBefore Side = iota
	SideAfter
)

// Widget is an inert renderer-facing descriptor. It carries no behavior.
type Widget struct {
	Glyph string // bullet replacement text
	Alt   string // image figure
	Src   string
	Title string
}

// Decoration is one positioned annotation. Line tags and block widgets
// are zero-width (To == From); inline tags cover [From, To).
type Decoration struct {
	From   int
	To     int
	Tag    Tag
	Arg    int     // heading level, parity, checked state
	Info   string  // code language on TagCodeBlockStart
	Side   Side    // block widget placement
	Widget *Widget // non-nil for widget and replace tags
}

// less orders decorations by (From, To, Tag): line tags before inline
// spans anchored at the same offset, content tags before modifiers.
func less(a, b Decoration) bool {
	if a.From != b.From {
		return a.From < b.From
	}
	if a.To != b.To {
		return a.To < b.To
	}
	return a.Tag < b.Tag
}

// Sort orders a decoration pass in place.
func Sort(decos []Decoration) {
	sort.SliceStable(decos, func(i, j int) bool { return less(decos[i], decos[j]) })
}

// Merge combines two sorted passes (structural + reveal) into one
// sorted list for the renderer.
func Merge(a, b []Decoration) []Decoration {
	out := make([]Decoration, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if less(b[j], a[i]) {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
