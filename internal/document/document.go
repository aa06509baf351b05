// Package document provides a read-only line index over a text buffer.
// Lines partition the document exactly: no gaps, no overlaps, strictly
// increasing offsets. All offsets are byte offsets into the UTF-8 text.
package document

import (
	"fmt"
	"sort"
	"strings"
)

// Line is one line of the document. End excludes the trailing newline,
// so for every line but the last, End+1 is the start of the next line.
type Line struct {
	Index int
	Start int
	End   int // exclusive
	Text  string
}

// Range is a half-open [From, To) span of byte offsets.
type Range struct {
	From int
	To   int
}

// Valid reports whether the range is a well-formed sub-range of a
// document of the given length.
func (r Range) Valid(docLen int) bool {
	return r.From >= 0 && r.From <= r.To && r.To <= docLen
}

// Contains reports whether the offset falls inside the range.
func (r Range) Contains(off int) bool {
	return off >= r.From && off < r.To
}

// Intersects reports whether the two ranges overlap. Empty ranges
// (caret positions) intersect anything they touch.
func (r Range) Intersects(o Range) bool {
	if r.From == r.To {
		return r.From >= o.From && r.From <= o.To
	}
	if o.From == o.To {
		return o.From >= r.From && o.From <= r.To
	}
	return r.From < o.To && o.From < r.To
}

// Splice is a minimal text replacement request: replace [From, To)
// with Insert.
type Splice struct {
	From   int
	To     int
	Insert string
}

// Document is an immutable text buffer with a line index.
type Document struct {
	text   string
	starts []int // start offset of each line
}

// New builds a document and its line index. An empty string still has
// one (empty) line, matching editor conventions.
func New(text string) *Document {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Document{text: text, starts: starts}
}

// Text returns the full document text.
func (d *Document) Text() string { return d.text }

// Len returns the document length in bytes.
func (d *Document) Len() int { return len(d.text) }

// LineCount returns the number of lines.
func (d *Document) LineCount() int { return len(d.starts) }

// Line returns line i. Panics if i is out of range, like a slice index.
func (d *Document) Line(i int) Line {
	start := d.starts[i]
	end := len(d.text)
	if i+1 < len(d.starts) {
		end = d.starts[i+1] - 1 // drop the newline
	}
	return Line{Index: i, Start: start, End: end, Text: d.text[start:end]}
}

// LineAt returns the line containing the given offset. Offsets at or
// past the end of the document resolve to the last line; negative
// offsets to the first.
func (d *Document) LineAt(offset int) Line {
	if offset < 0 {
		return d.Line(0)
	}
	if offset >= len(d.text) {
		return d.Line(len(d.starts) - 1)
	}
	// First line whose start is past the offset; the line before it
	// contains the offset.
	i := sort.Search(len(d.starts), func(i int) bool {
		return d.starts[i] > offset
	})
	return d.Line(i - 1)
}

// Slice returns the text in [from, to), clamped to the document.
func (d *Document) Slice(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(d.text) {
		to = len(d.text)
	}
	if from >= to {
		return ""
	}
	return d.text[from:to]
}

// Apply returns a new document with the splice applied. The receiver
// is unchanged.
func (d *Document) Apply(s Splice) (*Document, error) {
	if !(Range{From: s.From, To: s.To}).Valid(len(d.text)) {
		return nil, fmt.Errorf("splice [%d,%d) outside document of length %d", s.From, s.To, len(d.text))
	}
	var b strings.Builder
	b.Grow(len(d.text) - (s.To - s.From) + len(s.Insert))
	b.WriteString(d.text[:s.From])
	b.WriteString(s.Insert)
	b.WriteString(d.text[s.To:])
	return New(b.String()), nil
}
