package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/xonecas/livemark/internal/constants"
	"github.com/xonecas/livemark/internal/interact"
)

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ensureVisible()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyPressMsg:
		if mdl, cmd, handled := m.handleKeyPress(msg); handled {
			return mdl, cmd
		}

	case RevealExpiredMsg:
		// State already flipped inside the engine; re-render re-hides.
		return m, nil
	}

	var cmd tea.Cmd
	m.cursor, cmd = m.cursor.Update(msg)
	return m, cmd
}

// ---------------------------------------------------------------------------
// Keyboard
// ---------------------------------------------------------------------------

// handleKeyPress processes key events. Returns (model, cmd, true) if handled.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (Model, tea.Cmd, bool) {
	handler := keyPressHandlers[msg.Keystroke()]
	if handler == nil {
		return Model{}, nil, false
	}
	return handler(m)
}

var keyPressHandlers = map[string]func(*Model) (Model, tea.Cmd, bool){
	"ctrl+c":  (*Model).handleQuit,
	"q":       (*Model).handleQuit,
	"e":       (*Model).handleToggleMode,
	"up":      moveCaret((*Model).caretUp),
	"down":    moveCaret((*Model).caretDown),
	"left":    moveCaret((*Model).caretLeft),
	"right":   moveCaret((*Model).caretRight),
	"home":    moveCaret((*Model).caretHome),
	"end":     moveCaret((*Model).caretEnd),
	"pgup":    moveCaret((*Model).pageUp),
	"pgdown":  moveCaret((*Model).pageDown),
	"g":       moveCaret((*Model).caretTop),
	"shift+g": moveCaret((*Model).caretBottom),
}

func (m *Model) handleQuit() (Model, tea.Cmd, bool) {
	m.saveState()
	m.engine.Close()
	return *m, tea.Quit, true
}

func (m *Model) handleToggleMode() (Model, tea.Cmd, bool) {
	m.readOnly = !m.readOnly
	if m.readOnly {
		m.status = "read-only"
	} else {
		m.status = "editing"
	}
	return *m, nil, true
}

// moveCaret wraps a movement so every caret change refreshes the
// reveal window and keeps the caret on screen.
func moveCaret(move func(*Model)) func(*Model) (Model, tea.Cmd, bool) {
	return func(m *Model) (Model, tea.Cmd, bool) {
		move(m)
		m.touchSelection()
		m.ensureVisible()
		m.status = ""
		return *m, nil, true
	}
}

func (m *Model) caretUp()   { m.caretVertical(-1) }
func (m *Model) caretDown() { m.caretVertical(1) }

func (m *Model) caretVertical(delta int) {
	line := m.doc.LineAt(m.caret)
	col := m.caret - line.Start
	row := clamp(line.Index+delta, 0, m.doc.LineCount()-1)
	target := m.doc.Line(row)
	m.caret = clamp(target.Start+col, target.Start, target.End)
}

func (m *Model) caretLeft() {
	if m.caret > 0 {
		m.caret--
	}
}

func (m *Model) caretRight() {
	if m.caret < m.doc.Len() {
		m.caret++
	}
}

func (m *Model) caretHome() {
	m.caret = m.doc.LineAt(m.caret).Start
}

func (m *Model) caretEnd() {
	m.caret = m.doc.LineAt(m.caret).End
}

func (m *Model) pageUp()   { m.caretVertical(-(m.contentHeight() - 1)) }
func (m *Model) pageDown() { m.caretVertical(m.contentHeight() - 1) }

func (m *Model) caretTop()    { m.caret = 0 }
func (m *Model) caretBottom() { m.caret = m.doc.Len() }

// ---------------------------------------------------------------------------
// Mouse
// ---------------------------------------------------------------------------

var lastMouseEvent time.Time

// MouseEventFilter rate-limits wheel and motion events (15 ms).
// Pass to tea.WithFilter. Never drops clicks or releases.
func MouseEventFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	switch msg.(type) {
	case tea.MouseWheelMsg, tea.MouseMotionMsg:
		now := time.Now()
		if now.Sub(lastMouseEvent) < 15*time.Millisecond {
			return nil
		}
		lastMouseEvent = now
	}
	return msg
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch ev := msg.(type) {
	case tea.MouseWheelMsg:
		m.handleWheel(ev)
		return m, nil
	case tea.MouseClickMsg:
		if ev.Button == tea.MouseLeft {
			m.handleClick(ev)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleWheel(ev tea.MouseWheelMsg) {
	maxScroll := m.doc.LineCount() - m.contentHeight()
	if maxScroll < 0 {
		maxScroll = 0
	}
	switch ev.Button {
	case tea.MouseWheelUp:
		m.scroll = clamp(m.scroll-3, 0, maxScroll)
	case tea.MouseWheelDown:
		m.scroll = clamp(m.scroll+3, 0, maxScroll)
	}
}

// handleClick resolves a primary click: task toggle first, then link
// resolution, then default caret placement.
func (m *Model) handleClick(ev tea.MouseClickMsg) {
	mo := ev.Mouse()
	line, ok := m.screenLine(mo.Y)
	if !ok {
		return
	}
	offset := m.screenOffset(line, mo.X)
	px := (mo.X - m.gutterWidth()) * constants.CellPx

	if splice, ok := interact.ToggleTask(m.doc, offset, px, m.readOnly, true); ok {
		doc, err := m.doc.Apply(splice)
		if err == nil {
			m.reparse(doc)
			m.touchSelection()
		}
		return
	}

	modHeld := mo.Mod.Contains(tea.ModCtrl)
	if target, ok := interact.ResolveLink(m.doc, offset, m.readOnly, modHeld); ok {
		m.status = "open " + target
		return
	}

	m.caret = offset
	m.touchSelection()
	m.status = ""
}

// ---------------------------------------------------------------------------
// Viewport
// ---------------------------------------------------------------------------

func (m *Model) contentHeight() int {
	h := m.height - statusRows
	if h < 1 {
		return 1
	}
	return h
}

// ensureVisible scrolls the minimum amount to keep the caret line on
// screen.
func (m *Model) ensureVisible() {
	row := m.doc.LineAt(m.caret).Index
	if row < m.scroll {
		m.scroll = row
	}
	if bottom := m.scroll + m.contentHeight() - 1; row > bottom {
		m.scroll = row - m.contentHeight() + 1
	}
}
