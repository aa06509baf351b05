// Package interact resolves pointer events against the classified
// document: clicks near a task checkbox become minimal text splices,
// clicks on links become navigation targets. Both resolvers are
// stateless; unhandled events fall through to default caret behavior.
package interact

import (
	"github.com/xonecas/livemark/internal/classify"
	"github.com/xonecas/livemark/internal/constants"
	"github.com/xonecas/livemark/internal/document"
)

// ToggleTask resolves a primary-button click at the given document
// offset and horizontal pixel position (measured from the line's
// rendered start). When the line is a task item and the click lands
// within the checkbox budget, it returns the splice that flips exactly
// the checkbox state character. handled=false means the host should
// place the caret as usual.
func ToggleTask(doc *document.Document, offset, px int, readOnly, primary bool) (document.Splice, bool) {
	if readOnly || !primary {
		return document.Splice{}, false
	}
	if doc.Len() == 0 {
		return document.Splice{}, false
	}
	line := doc.LineAt(offset)
	classes, _ := classify.Scan(doc, line.Index, line.Index, classify.State{})
	c := classes[0]
	if c.Kind != classify.Task || c.Check < 0 {
		return document.Splice{}, false
	}
	if px < 0 || px > constants.CheckboxHitBudget {
		return document.Splice{}, false
	}
	insert := "x"
	if c.Flags.Has(classify.FlagChecked) {
		insert = " "
	}
	return document.Splice{From: c.Check, To: c.Check + 1, Insert: insert}, true
}
