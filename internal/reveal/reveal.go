// Package reveal decides, per inline syntax marker, whether the raw
// Markdown syntax is shown or hidden. Selection changes open a
// time-limited reveal window near the caret; when it expires the
// markers hide again. One Engine per editor instance; all calls happen
// on the host's single UI thread.
package reveal

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xonecas/livemark/internal/constants"
	"github.com/xonecas/livemark/internal/decorate"
	"github.com/xonecas/livemark/internal/document"
	"github.com/xonecas/livemark/internal/syntax"
)

// Scheduler delivers a callback after a delay. Schedule returns a
// cancel handle; rescheduling is always cancel-then-schedule, so an
// engine never has more than one pending callback.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler runs callbacks on time.AfterFunc timers.
type TimerScheduler struct{}

// Schedule implements Scheduler.
func (TimerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Engine is the per-instance reveal state machine. The zero state is
// Hidden: every marker in view is hidden unconditionally.
type Engine struct {
	sched    Scheduler
	onExpire func()

	revealing bool
	expiresAt time.Time
	cancel    func()
	closed    bool
}

// New creates an engine. onExpire runs (from the scheduler) when a
// reveal window lapses without being refreshed; the host uses it to
// trigger a rebuild so hidden marks re-materialize.
func New(sched Scheduler, onExpire func()) *Engine {
	return &Engine{sched: sched, onExpire: onExpire}
}

// Revealing reports whether a reveal window is open at the given time.
func (e *Engine) Revealing(now time.Time) bool {
	return e.revealing && now.Before(e.expiresAt)
}

// SelectionChanged opens or refreshes the reveal window and debounces
// the expiry timer: any previously scheduled callback is cancelled and
// exactly one new one is scheduled.
func (e *Engine) SelectionChanged(now time.Time) {
	if e.closed {
		return
	}
	e.revealing = true
	e.expiresAt = now.Add(constants.RevealDelay)
	if e.cancel != nil {
		e.cancel()
	}
	deadline := e.expiresAt
	e.cancel = e.sched.Schedule(constants.RevealDelay, func() { e.expire(deadline) })
}

// expire returns to Hidden, unless a later SelectionChanged superseded
// this timer or the engine was torn down.
func (e *Engine) expire(deadline time.Time) {
	if e.closed || !e.expiresAt.Equal(deadline) {
		return
	}
	e.revealing = false
	e.cancel = nil
	log.Debug().Time("deadline", deadline).Msg("reveal window expired")
	if e.onExpire != nil {
		e.onExpire()
	}
}

// Close cancels any pending timer. A timer that already fired becomes a
// no-op.
func (e *Engine) Close() {
	e.closed = true
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// Decorate emits hide decorations for every inline marker node in the
// window, except markers governed by the current selection while a
// reveal window is open. Output is sorted and, for a fixed (document,
// window, selection, now) tuple, identical regardless of call history
// beyond the carried expiry time.
func (e *Engine) Decorate(doc *document.Document, window document.Range, tree *syntax.Tree, selection []document.Range, now time.Time) []decorate.Decoration {
	if tree == nil {
		return nil
	}
	revealing := e.Revealing(now)

	var decos []decorate.Decoration
	tree.Iterate(window.From, window.To, func(i int, n syntax.Node) bool {
		if !n.Kind.IsMark() {
			return true
		}
		if revealing && intersectsAny(governingRange(doc, tree, i, n), selection) {
			return true // revealed: no hide decoration
		}
		decos = append(decos, decorate.Decoration{From: n.From, To: n.To, Tag: decorate.TagHideMark})
		return true
	})
	decorate.Sort(decos)
	return decos
}

// governingRange is the span whose intersection with the selection
// reveals a marker: the whole line for header marks, the enclosing
// link/image span for URL and title nodes, the marker's own span
// otherwise.
func governingRange(doc *document.Document, tree *syntax.Tree, i int, n syntax.Node) document.Range {
	switch n.Kind {
	case syntax.KindHeaderMark:
		line := doc.LineAt(n.From)
		return document.Range{From: line.Start, To: line.End}
	case syntax.KindURL, syntax.KindLinkTitle:
		if p, ok := tree.Ancestor(i, func(a syntax.Node) bool {
			return a.Kind == syntax.KindLink || a.Kind == syntax.KindImage
		}); ok {
			a := tree.Node(p)
			return document.Range{From: a.From, To: a.To}
		}
	}
	return document.Range{From: n.From, To: n.To}
}

func intersectsAny(r document.Range, selection []document.Range) bool {
	for _, s := range selection {
		if r.Intersects(s) {
			return true
		}
	}
	return false
}
