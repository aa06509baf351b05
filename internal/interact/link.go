package interact

import (
	"regexp"
	"strings"

	"github.com/xonecas/livemark/internal/document"
)

// Link patterns, tested in fixed priority order against the line under
// the pointer. The bare-URL pattern keeps trailing punctuation that
// [^\s)]+ matches (e.g. a sentence-final period) — an accepted quirk.
var (
	inlineLinkRe = regexp.MustCompile(`\[[^\]]+\]\(([^)\s]+)\)`)
	autoLinkRe   = regexp.MustCompile(`<((?:https?|mailto):[^>\s]+)>`)
	bareURLRe    = regexp.MustCompile(`(https?://|www\.)[^\s)]+`)
	emailRe      = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// ResolveLink resolves a click at the given document offset into a
// navigation target. Link resolution is active in read-only mode, or
// with a modifier key held while editable. The first pattern whose
// matched span contains the offset wins; bare www. matches get https://
// prepended and bare emails get mailto:.
func ResolveLink(doc *document.Document, offset int, readOnly, modHeld bool) (string, bool) {
	if !readOnly && !modHeld {
		return "", false
	}
	if doc.Len() == 0 {
		return "", false
	}
	line := doc.LineAt(offset)
	local := offset - line.Start

	if target, ok := matchAt(inlineLinkRe, line.Text, local, 1); ok {
		return target, true
	}
	if target, ok := matchAt(autoLinkRe, line.Text, local, 1); ok {
		return target, true
	}
	if target, ok := matchAt(bareURLRe, line.Text, local, 0); ok {
		if strings.HasPrefix(target, "www.") {
			target = "https://" + target
		}
		return target, true
	}
	if target, ok := matchAt(emailRe, line.Text, local, 0); ok {
		return "mailto:" + target, true
	}
	return "", false
}

// matchAt finds the match of re on text whose full span contains the
// local offset, returning the given capture group (0 = whole match).
func matchAt(re *regexp.Regexp, text string, local, group int) (string, bool) {
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		if local < m[0] || local >= m[1] {
			continue
		}
		gs, ge := m[2*group], m[2*group+1]
		if gs < 0 {
			return "", false
		}
		return text[gs:ge], true
	}
	return "", false
}
