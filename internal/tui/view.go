package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/livemark/internal/decorate"
	"github.com/xonecas/livemark/internal/document"
	"github.com/xonecas/livemark/internal/highlight"
)

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m Model) View() tea.View {
	v := tea.NewView(m.renderContent())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	return v
}

func (m Model) renderContent() string {
	if m.width == 0 {
		return ""
	}
	infos := m.lineInfos()
	plan := m.rowPlan(infos)
	contentH := m.contentHeight()

	var b strings.Builder
	for row := 0; row < contentH; row++ {
		if row < len(plan) {
			m.renderRow(&b, plan[row], infos)
		} else {
			b.WriteString(m.styles.BgFill.Render(strings.Repeat(" ", m.width)))
		}
		b.WriteByte('\n')
	}
	m.renderStatusBar(&b)
	return b.String()
}

// ---------------------------------------------------------------------------
// Per-line decoration summary
// ---------------------------------------------------------------------------

// lineInfo is one visible line's slice of the decoration list.
type lineInfo struct {
	tag    decorate.Tag
	arg    int
	lang   string
	header bool
	parity int
	inline []decorate.Decoration
	figure *decorate.Widget
}

// visibleRange is the window handed to the engine: whole lines, from
// the first visible line through the last.
func (m Model) visibleRange() (document.Range, int, int) {
	fromLine := clamp(m.scroll, 0, m.doc.LineCount()-1)
	toLine := clamp(fromLine+m.contentHeight()-1, fromLine, m.doc.LineCount()-1)
	return document.Range{From: m.doc.Line(fromLine).Start, To: m.doc.Line(toLine).End}, fromLine, toLine
}

// lineInfos runs both decoration passes over the visible window and
// groups the result by line.
func (m Model) lineInfos() map[int]*lineInfo {
	window, fromLine, toLine := m.visibleRange()

	structural, err := m.builder.Build(m.doc, []document.Range{window}, m.tree)
	if err != nil {
		log.Warn().Err(err).Msg("structural pass failed")
		return map[int]*lineInfo{}
	}
	selection := []document.Range{{From: m.caret, To: m.caret}}
	marks := m.engine.Decorate(m.doc, window, m.tree, selection, time.Now())

	infos := make(map[int]*lineInfo, toLine-fromLine+1)
	at := func(idx int) *lineInfo {
		li := infos[idx]
		if li == nil {
			li = &lineInfo{tag: decorate.TagParagraph}
			infos[idx] = li
		}
		return li
	}

	for _, d := range decorate.Merge(structural, marks) {
		idx := m.doc.LineAt(d.From).Index
		li := at(idx)
		switch {
		case d.Tag.IsContent():
			li.tag = d.Tag
			li.arg = d.Arg
			if d.Tag == decorate.TagCodeBlockStart {
				li.lang = d.Info
			}
		case d.Tag == decorate.TagHeaderRow:
			li.header = true
		case d.Tag == decorate.TagRowParity:
			li.parity = d.Arg
		case d.Tag == decorate.TagHideMark || d.Tag == decorate.TagBulletGlyph:
			li.inline = append(li.inline, d)
		case d.Tag == decorate.TagFigure:
			li.figure = d.Widget
		}
	}

	// Carry the fence language down through the block body.
	lang := ""
	for i := fromLine; i <= toLine; i++ {
		li := infos[i]
		if li == nil {
			continue
		}
		switch li.tag {
		case decorate.TagCodeBlockStart:
			lang = li.lang
		case decorate.TagCodeBlockLine:
			li.lang = lang
		case decorate.TagCodeBlockEnd:
			lang = ""
		}
	}
	return infos
}

// ---------------------------------------------------------------------------
// Screen rows — one per line, plus a synthetic row per media figure.
// ---------------------------------------------------------------------------

type screenRow struct {
	line   int // document line index; -1 for figure rows
	figure *decorate.Widget
}

func (m Model) rowPlan(infos map[int]*lineInfo) []screenRow {
	contentH := m.contentHeight()
	plan := make([]screenRow, 0, contentH)
	for i := m.scroll; i < m.doc.LineCount() && len(plan) < contentH; i++ {
		plan = append(plan, screenRow{line: i})
		if li := infos[i]; li != nil && li.figure != nil && len(plan) < contentH {
			plan = append(plan, screenRow{line: -1, figure: li.figure})
		}
	}
	return plan
}

// screenLine maps a screen y to the document line under it.
func (m *Model) screenLine(y int) (document.Line, bool) {
	plan := m.rowPlan(m.lineInfos())
	if y < 0 || y >= len(plan) || plan[y].line < 0 {
		return document.Line{}, false
	}
	return m.doc.Line(plan[y].line), true
}

// screenOffset maps a screen x on a line to a document byte offset,
// accounting for hidden marker spans and bullet glyph replacement.
func (m *Model) screenOffset(line document.Line, x int) int {
	var inline []decorate.Decoration
	if li := m.lineInfos()[line.Index]; li != nil {
		inline = li.inline
	}
	ly := layoutLine(line, inline)
	col := x - m.gutterWidth()
	if col < 0 {
		col = 0
	}
	return ly.shownToRaw(line, col)
}

func (m *Model) gutterWidth() int {
	if !m.lineNumbers {
		return 0
	}
	w := 2
	for n := m.doc.LineCount(); n >= 10; n /= 10 {
		w++
	}
	return w
}

// ---------------------------------------------------------------------------
// Line layout — visible segments after hide/replace decorations.
// ---------------------------------------------------------------------------

// segment is a run of shown text mapped back to its raw byte span.
// Glyph segments render replacement text over the whole raw span.
type segment struct {
	rawFrom, rawTo int
	shownFrom      int // rune offset into shown
	text           string
	glyph          bool
}

type lineLayout struct {
	shown string
	segs  []segment
}

// layoutLine applies a line's inline decorations, producing the shown
// text and the segment map used for caret placement and hit-testing.
func layoutLine(line document.Line, inline []decorate.Decoration) lineLayout {
	var ly lineLayout
	var b strings.Builder
	pos := line.Start
	shown := 0

	emit := func(rawFrom, rawTo int, text string, glyph bool) {
		if text == "" && rawFrom == rawTo {
			return
		}
		ly.segs = append(ly.segs, segment{
			rawFrom: rawFrom, rawTo: rawTo,
			shownFrom: shown, text: text, glyph: glyph,
		})
		b.WriteString(text)
		shown += len([]rune(text))
	}

	for _, d := range inline {
		from := clamp(d.From, line.Start, line.End)
		to := clamp(d.To, line.Start, line.End)
		if to <= from {
			continue
		}
		if from > pos {
			emit(pos, from, line.Text[pos-line.Start:from-line.Start], false)
		}
		if d.Tag == decorate.TagBulletGlyph && d.Widget != nil {
			emit(from, to, d.Widget.Glyph, true)
		}
		pos = to
	}
	if pos < line.End {
		emit(pos, line.End, line.Text[pos-line.Start:], false)
	}
	ly.shown = b.String()
	return ly
}

// shownToRaw converts a shown column (runes) to a document offset.
func (ly lineLayout) shownToRaw(line document.Line, col int) int {
	for _, s := range ly.segs {
		runes := []rune(s.text)
		if col >= s.shownFrom+len(runes) {
			continue
		}
		if s.glyph || col < s.shownFrom {
			return s.rawFrom
		}
		return s.rawFrom + len(string(runes[:col-s.shownFrom]))
	}
	return line.End
}

// rawToShown converts a document offset on the line to a shown column.
func (ly lineLayout) rawToShown(raw int) int {
	total := 0
	for _, s := range ly.segs {
		runes := []rune(s.text)
		total = s.shownFrom + len(runes)
		if raw < s.rawFrom {
			return s.shownFrom
		}
		if s.glyph {
			if raw < s.rawTo {
				return s.shownFrom
			}
			continue
		}
		if raw <= s.rawTo {
			return s.shownFrom + len([]rune(s.text[:raw-s.rawFrom]))
		}
	}
	return total
}

// ---------------------------------------------------------------------------
// Row rendering
// ---------------------------------------------------------------------------

func (m Model) renderRow(b *strings.Builder, row screenRow, infos map[int]*lineInfo) {
	if row.line < 0 {
		m.writeRow(b, m.gutterPad()+m.renderFigure(row.figure), m.styles.BgFill)
		return
	}

	line := m.doc.Line(row.line)
	li := infos[row.line]
	if li == nil {
		li = &lineInfo{tag: decorate.TagParagraph}
	}
	ly := layoutLine(line, li.inline)
	caretHere := m.doc.LineAt(m.caret).Index == line.Index

	gutter := m.gutterPad()
	if m.lineNumbers {
		gutter = m.styles.Gutter.Render(fmt.Sprintf("%*d ", m.gutterWidth()-1, line.Index+1))
	}

	fill := m.styles.BgFill
	var body string
	switch {
	case li.tag == decorate.TagRule && !caretHere:
		body = m.styles.Border.Render(strings.Repeat("─", max(m.width-m.gutterWidth(), 0)))

	case li.tag == decorate.TagCodeBlockLine && !caretHere && li.lang != "":
		body = highlight.Line(ly.shown, li.lang, m.theme, m.pal.Border) + "\x1b[0m"
		fill = m.styles.Code

	default:
		sty := m.lineStyle(li)
		if li.tag == decorate.TagCodeBlockLine {
			fill = m.styles.Code
		}
		if caretHere {
			body = m.renderWithCaret(ly.shown, ly.rawToShown(m.caret), sty)
		} else {
			body = sty.Render(ly.shown)
		}
	}

	m.writeRow(b, gutter+body, fill)
}

// writeRow truncates to the terminal width and pads the remainder.
func (m Model) writeRow(b *strings.Builder, row string, fill lipgloss.Style) {
	row = ansi.Truncate(row, m.width, "")
	b.WriteString(row)
	if pad := m.width - lipgloss.Width(row); pad > 0 {
		b.WriteString(fill.Render(strings.Repeat(" ", pad)))
	}
}

func (m Model) gutterPad() string {
	if !m.lineNumbers {
		return ""
	}
	return m.styles.Gutter.Render(strings.Repeat(" ", m.gutterWidth()))
}

func (m Model) renderFigure(w *decorate.Widget) string {
	if w == nil {
		return ""
	}
	label := "▣ " + w.Alt
	if w.Title != "" {
		label += " " + `"` + w.Title + `"`
	}
	label += " (" + w.Src + ")"
	return m.styles.Figure.Render(label)
}

func (m Model) lineStyle(li *lineInfo) lipgloss.Style {
	switch li.tag {
	case decorate.TagHeading:
		if li.arg <= 2 {
			return m.styles.HeadingTop
		}
		return m.styles.Heading
	case decorate.TagBlockquote:
		return m.styles.Blockquote
	case decorate.TagTaskItem:
		if li.arg == 1 {
			return m.styles.TaskDone
		}
		return m.styles.Text
	case decorate.TagCodeBlockStart, decorate.TagCodeBlockEnd:
		return m.styles.Fence
	case decorate.TagCodeBlockLine:
		return m.styles.Code
	case decorate.TagRule, decorate.TagTableSep:
		return m.styles.Dim
	case decorate.TagTableRow:
		if li.header {
			return m.styles.TableHead
		}
		if li.parity == 1 {
			return m.styles.RowAlt
		}
		return m.styles.Text
	default:
		return m.styles.Text
	}
}

// renderWithCaret splits the shown text around the caret column and
// renders the caret cell through the blinking cursor component.
func (m Model) renderWithCaret(shown string, col int, sty lipgloss.Style) string {
	runes := []rune(shown)
	col = clamp(col, 0, len(runes))
	ch := " "
	if col < len(runes) {
		ch = string(runes[col])
	}
	m.cursor.SetChar(ch)
	m.cursor.TextStyle = sty
	after := ""
	if col < len(runes) {
		after = sty.Render(string(runes[col+1:]))
	}
	return sty.Render(string(runes[:col])) + m.cursor.View() + after
}

// ---------------------------------------------------------------------------
// Status bar
// ---------------------------------------------------------------------------

func (m Model) renderStatusBar(b *strings.Builder) {
	b.WriteString(m.styles.Border.Render(strings.Repeat("─", m.width)))
	b.WriteByte('\n')

	mode := "EDIT"
	if m.readOnly {
		mode = "VIEW"
	}
	var leftParts []string
	leftParts = append(leftParts, m.styles.StatusMode.Render(" "+mode))
	leftParts = append(leftParts, m.styles.StatusText.Render(m.path))
	if m.status != "" {
		leftParts = append(leftParts, m.styles.StatusText.Render(m.status))
	}
	left := strings.Join(leftParts, m.styles.StatusText.Render("  "))

	line := m.doc.LineAt(m.caret)
	right := m.styles.StatusText.Render(
		fmt.Sprintf("Ln %d, Col %d  %d%%",
			line.Index+1, m.caret-line.Start+1, percentThrough(line.Index, m.doc.LineCount())))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 0 {
		gap = 0
	}
	b.WriteString(left)
	b.WriteString(m.styles.BgFill.Render(strings.Repeat(" ", gap)))
	b.WriteString(right)
	b.WriteString(m.styles.BgFill.Render(" "))
}

func percentThrough(row, total int) int {
	if total <= 1 {
		return 100
	}
	return row * 100 / (total - 1)
}
