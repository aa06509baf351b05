// Package tui is the terminal live-preview viewer: it renders a
// Markdown document through the decoration engine, keeps a caret, and
// resolves clicks into task toggles and link openings.
package tui

import (
	"time"

	"charm.land/bubbles/v2/cursor"
	tea "charm.land/bubbletea/v2"

	"github.com/xonecas/livemark/internal/config"
	"github.com/xonecas/livemark/internal/decorate"
	"github.com/xonecas/livemark/internal/document"
	"github.com/xonecas/livemark/internal/highlight"
	"github.com/xonecas/livemark/internal/reveal"
	"github.com/xonecas/livemark/internal/store"
	"github.com/xonecas/livemark/internal/syntax"
)

const statusRows = 2 // separator + status bar

// RevealExpiredMsg is sent by the reveal engine's expiry callback so
// the next frame re-hides the markers that were revealed.
type RevealExpiredMsg struct{}

// Model is the viewer state. Value semantics per the bubbletea
// contract; the document and tree pointers are replaced wholesale on
// every edit.
type Model struct {
	path    string
	doc     *document.Document
	tree    *syntax.Tree
	builder decorate.Builder
	engine  *reveal.Engine
	states  *store.Store

	theme  string
	pal    highlight.Palette
	styles Styles

	width, height int
	scroll        int // first visible document line
	caret         int // byte offset
	readOnly      bool
	lineNumbers   bool
	status        string
	cursor        cursor.Model
}

// New builds the viewer for one document. A previously saved view
// state for the same path restores caret, scroll and mode.
func New(path, text string, cfg *config.Config, engine *reveal.Engine, states *store.Store) Model {
	doc := document.New(text)
	theme := cfg.UI.SyntaxThemeOrDefault()
	pal := highlight.ThemePalette(theme)

	rescan := decorate.RescanWindow
	if cfg.Engine.Rescan == "document" {
		rescan = decorate.RescanDocument
	}

	c := cursor.New()
	c.SetMode(cursor.CursorBlink)
	c.Focus()

	m := Model{
		path:        path,
		doc:         doc,
		tree:        syntax.Parse([]byte(text)),
		builder:     decorate.Builder{Rescan: rescan},
		engine:      engine,
		states:      states,
		theme:       theme,
		pal:         pal,
		styles:      newStyles(pal),
		lineNumbers: cfg.UI.ShowLineNumbers,
		cursor:      c,
	}

	if st, ok := states.Get(path); ok {
		m.readOnly = st.ReadOnly
		m.scroll = clamp(st.Scroll, 0, doc.LineCount()-1)
		row := clamp(st.Row, 0, doc.LineCount()-1)
		line := doc.Line(row)
		m.caret = clamp(line.Start+st.Col, line.Start, line.End)
	}
	return m
}

// Init starts the cursor blink loop.
func (m Model) Init() tea.Cmd {
	return m.cursor.Blink()
}

// reparse rebuilds document and tree after a splice and keeps the
// caret inside the new bounds.
func (m *Model) reparse(doc *document.Document) {
	m.doc = doc
	m.tree = syntax.Parse([]byte(doc.Text()))
	m.caret = clamp(m.caret, 0, doc.Len())
	m.scroll = clamp(m.scroll, 0, doc.LineCount()-1)
}

// saveState persists the current view position for this path.
func (m *Model) saveState() {
	line := m.doc.LineAt(m.caret)
	m.states.Put(m.path, store.ViewState{
		Row:      line.Index,
		Col:      m.caret - line.Start,
		Scroll:   m.scroll,
		ReadOnly: m.readOnly,
	})
}

// touchSelection notifies the reveal engine that the caret moved.
func (m *Model) touchSelection() {
	m.engine.SelectionChanged(time.Now())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
