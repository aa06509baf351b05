package constants

import "time"

// RevealDelay is how long inline syntax markers stay revealed after the
// selection last moved. A new selection change restarts the countdown.
const RevealDelay = 2000 * time.Millisecond

// CheckboxHitBudget is the horizontal click budget, in pixels measured
// from the rendered start of a line, inside which a click toggles a
// task checkbox instead of placing the caret.
const CheckboxHitBudget = 24

// CellPx is the assumed pixel width of one terminal cell, used to map
// cell coordinates onto the pixel-based checkbox budget.
const CellPx = 8

// TabWidth is the number of columns a tab expands to in the viewer.
const TabWidth = 4

// SyntaxTheme is the default Chroma theme for fenced code rendering.
//
// Any theme name Chroma knows works here; dark themes read best on
// most terminals (monokai, dracula, nord, catppuccin-mocha, ...).
const SyntaxTheme = "github-dark"
