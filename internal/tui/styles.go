package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/xonecas/livemark/internal/highlight"
)

// Styles holds every lipgloss style the viewer renders with, derived
// once from the active Chroma theme's palette.
type Styles struct {
	Text   lipgloss.Style
	Muted  lipgloss.Style
	Dim    lipgloss.Style
	Border lipgloss.Style
	Error  lipgloss.Style
	BgFill lipgloss.Style

	Gutter lipgloss.Style

	Heading    lipgloss.Style // levels 3-6
	HeadingTop lipgloss.Style // levels 1-2
	Blockquote lipgloss.Style
	Fence      lipgloss.Style
	Code       lipgloss.Style
	TaskDone   lipgloss.Style
	TableHead  lipgloss.Style
	RowAlt     lipgloss.Style
	Figure     lipgloss.Style

	StatusText lipgloss.Style
	StatusMode lipgloss.Style
}

func newStyles(pal highlight.Palette) Styles {
	bg := lipgloss.Color(pal.Bg)
	fg := lipgloss.Color(pal.Fg)
	accent := lipgloss.Color(pal.Accent)

	base := lipgloss.NewStyle().Background(bg)
	return Styles{
		Text:   base.Foreground(fg),
		Muted:  base.Foreground(lipgloss.Color(pal.Muted)),
		Dim:    base.Foreground(lipgloss.Color(pal.Dim)),
		Border: base.Foreground(lipgloss.Color(pal.Border)),
		Error:  base.Foreground(lipgloss.Color("#ff5555")),
		BgFill: base,

		Gutter: base.Foreground(lipgloss.Color(pal.Dim)),

		Heading:    base.Foreground(accent),
		HeadingTop: base.Foreground(accent).Bold(true),
		Blockquote: base.Foreground(lipgloss.Color(pal.Muted)).Italic(true),
		Fence:      base.Foreground(lipgloss.Color(pal.Dim)),
		Code:       lipgloss.NewStyle().Background(lipgloss.Color(pal.Border)).Foreground(fg),
		TaskDone:   base.Foreground(lipgloss.Color(pal.Muted)).Strikethrough(true),
		TableHead:  base.Foreground(fg).Bold(true),
		RowAlt:     lipgloss.NewStyle().Background(lipgloss.Color(pal.Border)).Foreground(fg),
		Figure:     base.Foreground(lipgloss.Color(pal.Muted)),

		StatusText: base.Foreground(lipgloss.Color(pal.Muted)),
		StatusMode: base.Foreground(accent).Bold(true),
	}
}
