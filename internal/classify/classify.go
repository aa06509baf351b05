// Package classify assigns exactly one structural kind to every line of
// a Markdown document. Classification is a single forward scan that
// carries multi-line state (open fences, list/blockquote/table runs)
// and is a pure function of (text, starting state), so windows can be
// classified independently by resuming from a carried State.
//
// This is a heuristic renderer's view of Markdown, not a CommonMark
// parser: ambiguous or malformed input degrades to Paragraph.
package classify

import (
	"regexp"

	"github.com/xonecas/livemark/internal/document"
)

// Kind is the structural classification of a line. Mutually exclusive
// and total: every line gets exactly one.
type Kind uint8

const (
	Blank Kind = iota
	Paragraph
	Heading
	Blockquote
	List
	Task
	Code
	Rule
	TableRow
	TableSep
	Media
)

var kindNames = [...]string{
	Blank:      "Blank",
	Paragraph:  "Paragraph",
	Heading:    "Heading",
	Blockquote: "Blockquote",
	List:       "List",
	Task:       "Task",
	Code:       "Code",
	Rule:       "Rule",
	TableRow:   "TableRow",
	TableSep:   "TableSep",
	Media:      "Media",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Flags are modifier bits layered on a line's Kind.
type Flags uint8

const (
	FlagStart   Flags = 1 << iota // first line of a run / opening fence
	FlagEnd                       // last line of a run / closing fence
	FlagNested                    // indented list item
	FlagOrdered                   // numbered list marker
	FlagChecked                   // task checkbox is checked
	FlagHeader                    // table header row
)

// Has reports whether all bits in f2 are set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// Span is a byte range within the document.
type Span struct {
	From int
	To   int
}

// MediaInfo carries the parsed parts of a standalone image line.
type MediaInfo struct {
	Alt   string
	Src   string
	Title string
}

// Class is the classification of one line.
type Class struct {
	Line   int
	Kind   Kind
	Flags  Flags
	Level  int  // heading level 1..6
	Parity int  // table body row parity, 0 or 1
	Marker Span // list marker span (document offsets); zero if none
	Check  int  // offset of the checkbox state char; -1 if none
	Media  *MediaInfo
}

// State is the multi-line continuation state carried across a scan.
// The zero value means "top of document".
type State struct {
	FenceChar byte // marker char of the open fence; 0 = none open
	FenceLen  int  // run length of the opening marker

	InList  bool // previous line belonged to a list/task run
	InQuote bool // previous line belonged to a blockquote run

	InTable       bool // inside a table body
	HeaderPending bool // previous line was a header row awaiting its separator
	Parity        int  // parity of the next table body row
}

var (
	fenceRe   = regexp.MustCompile("^\\s*(`{3,}|~{3,})")
	headingRe = regexp.MustCompile(`^\s{0,3}(#{1,6})\s+`)
	ruleRe    = regexp.MustCompile(`^\s*(\*{3,}|-{3,}|_{3,})\s*$`)
	quoteRe   = regexp.MustCompile(`^\s*>\s?`)
	listRe    = regexp.MustCompile(`^(\s*)([-*+]|\d+\.)\s+`)
	taskRe    = regexp.MustCompile(`^\s*[-*+]\s+\[( |x|X)\]\s+`)
	rowRe     = regexp.MustCompile(`^\s*\|?[^|]+\|[^|]+(\|[^|]+)*\|?\s*$`)
	sepRe     = regexp.MustCompile(`^\s*\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)+\|?\s*$`)
	mediaRe   = regexp.MustCompile(`^\s*!\[([^\]]*)\]\(([^)\s]+)(\s+["']([^"']*)["'])?\)\s*$`)
	blankRe   = regexp.MustCompile(`^\s*$`)
)

// Scan classifies lines fromLine..toLine (inclusive) starting from the
// given state, and returns the classifications plus the state after the
// last line. Run boundary flags use one line of look-behind (the
// incoming state) and look-ahead (the line after toLine, when any).
func Scan(doc *document.Document, fromLine, toLine int, st State) ([]Class, State) {
	if doc.LineCount() == 0 || fromLine > toLine {
		return nil, st
	}
	if fromLine < 0 {
		fromLine = 0
	}
	if toLine >= doc.LineCount() {
		toLine = doc.LineCount() - 1
	}

	prevList, prevQuote := st.InList, st.InQuote
	classes := make([]Class, 0, toLine-fromLine+1)
	for i := fromLine; i <= toLine; i++ {
		classes = append(classes, classifyLine(doc, i, &st))
	}

	// Look ahead one line so runs that continue past the window don't
	// get a spurious end flag.
	nextList, nextQuote := false, false
	if toLine+1 < doc.LineCount() {
		peek := st
		c := classifyLine(doc, toLine+1, &peek)
		nextList = c.Kind == List || c.Kind == Task
		nextQuote = c.Kind == Blockquote
	}

	markRuns(classes, prevList, prevQuote, nextList, nextQuote)
	return classes, st
}

// ScanAll classifies the whole document from a clean state.
func ScanAll(doc *document.Document) []Class {
	classes, _ := Scan(doc, 0, doc.LineCount()-1, State{})
	return classes
}

// classifyLine assigns the base kind for line i and advances the state.
// Checks run in fixed order; first match wins, except that task items
// stay members of the surrounding list run.
func classifyLine(doc *document.Document, i int, st *State) Class {
	line := doc.Line(i)
	text := line.Text
	c := Class{Line: i, Check: -1}

	// An open fence swallows everything until a long-enough closing
	// marker of the same character.
	if st.FenceChar != 0 {
		c.Kind = Code
		if closesFence(text, st.FenceChar, st.FenceLen) {
			c.Flags |= FlagEnd
			st.FenceChar = 0
			st.FenceLen = 0
		}
		st.resetRuns()
		return c
	}

	switch {
	case fenceRe.MatchString(text):
		m := fenceRe.FindStringSubmatch(text)
		st.FenceChar = m[1][0]
		st.FenceLen = len(m[1])
		c.Kind = Code
		c.Flags |= FlagStart
		st.resetRuns()

	case headingRe.MatchString(text):
		c.Kind = Heading
		c.Level = len(headingRe.FindStringSubmatch(text)[1])
		st.resetRuns()

	case ruleRe.MatchString(text):
		c.Kind = Rule
		st.resetRuns()

	case quoteRe.MatchString(text):
		c.Kind = Blockquote
		st.resetRuns()
		st.InQuote = true

	case listRe.MatchString(text):
		m := listRe.FindStringSubmatchIndex(text)
		c.Kind = List
		c.Marker = Span{From: line.Start + m[4], To: line.Start + m[5]}
		if text[m[5]-1] == '.' {
			c.Flags |= FlagOrdered
		}
		if m[3] > m[2] { // non-empty indent group
			c.Flags |= FlagNested
		}
		if tm := taskRe.FindStringSubmatchIndex(text); tm != nil {
			c.Kind = Task
			c.Check = line.Start + tm[2]
			if text[tm[2]] == 'x' || text[tm[2]] == 'X' {
				c.Flags |= FlagChecked
			}
		}
		st.resetRuns()
		st.InList = true

	case sepRe.MatchString(text) && st.HeaderPending:
		c.Kind = TableSep
		st.resetRuns()
		st.InTable = true
		st.Parity = 0

	case rowRe.MatchString(text) && !sepRe.MatchString(text):
		switch {
		case st.InTable:
			c.Kind = TableRow
			c.Parity = st.Parity
			wasTable := true
			st.resetRuns()
			st.InTable = wasTable
			st.Parity = c.Parity ^ 1
		case i+1 < doc.LineCount() && sepRe.MatchString(doc.Line(i+1).Text):
			c.Kind = TableRow
			c.Flags |= FlagHeader
			st.resetRuns()
			st.HeaderPending = true
		default:
			c.Kind = Paragraph
			st.resetRuns()
		}

	case mediaRe.MatchString(text):
		m := mediaRe.FindStringSubmatch(text)
		c.Kind = Media
		c.Media = &MediaInfo{Alt: m[1], Src: m[2], Title: m[4]}
		st.resetRuns()

	case blankRe.MatchString(text):
		c.Kind = Blank
		st.resetRuns()

	default:
		c.Kind = Paragraph
		st.resetRuns()
	}

	return c
}

// resetRuns clears run membership; each classified line re-asserts the
// runs it belongs to.
func (st *State) resetRuns() {
	st.InList = false
	st.InQuote = false
	st.InTable = false
	st.HeaderPending = false
	st.Parity = 0
}

// closesFence reports whether the line closes a fence opened with the
// given marker char and run length.
func closesFence(text string, marker byte, openLen int) bool {
	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	run := 0
	for i < len(text) && text[i] == marker {
		i++
		run++
	}
	return run >= openLen
}

// markRuns sets Start/End flags on list and blockquote runs from
// neighbor membership.
func markRuns(classes []Class, prevList, prevQuote, nextList, nextQuote bool) {
	for idx := range classes {
		c := &classes[idx]
		switch {
		case c.Kind == List || c.Kind == Task:
			before := prevList
			if idx > 0 {
				k := classes[idx-1].Kind
				before = k == List || k == Task
			}
			after := nextList
			if idx+1 < len(classes) {
				k := classes[idx+1].Kind
				after = k == List || k == Task
			}
			if !before {
				c.Flags |= FlagStart
			}
			if !after {
				c.Flags |= FlagEnd
			}
		case c.Kind == Blockquote:
			before := prevQuote
			if idx > 0 {
				before = classes[idx-1].Kind == Blockquote
			}
			after := nextQuote
			if idx+1 < len(classes) {
				after = classes[idx+1].Kind == Blockquote
			}
			if !before {
				c.Flags |= FlagStart
			}
			if !after {
				c.Flags |= FlagEnd
			}
		}
	}
}
