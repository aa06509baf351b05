// Package highlight renders fenced-code text through Chroma and derives
// viewer chrome colors from the active theme.
package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Line returns one ANSI-highlighted line of code. bgHex ("#rrggbb") is
// re-applied after every ANSI reset so the code block background never
// drops out mid-line. Unknown languages return the text unchanged.
func Line(text, language, theme, bgHex string) string {
	lex := lexers.Get(language)
	if lex == nil {
		return text
	}
	lex = chroma.Coalesce(lex)
	sty := styles.Get(theme)
	fmtr := formatters.Get("terminal16m")
	if fmtr == nil {
		fmtr = formatters.Fallback
	}
	it, err := lex.Tokenise(nil, text)
	if err != nil {
		return text
	}
	var buf strings.Builder
	if err := fmtr.Format(&buf, sty, it); err != nil {
		return text
	}
	raw := strings.TrimRight(buf.String(), "\n")

	bgSeq := BgSeq(bgHex)
	return bgSeq + strings.ReplaceAll(raw, "\x1b[0m", "\x1b[0m"+bgSeq)
}

// BgSeq converts "#rrggbb" to a 24-bit background escape sequence.
func BgSeq(hex string) string {
	r, g, b, ok := rgb(hex)
	if !ok {
		return ""
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b)
}

// ThemeBg extracts the background hex color from a Chroma style, or ""
// when the theme sets none.
func ThemeBg(theme string) string {
	sty := styles.Get(theme)
	if sty == nil {
		return ""
	}
	bg := sty.Get(chroma.Background).Background
	if !bg.IsSet() {
		return ""
	}
	return bg.String()
}

// Palette holds viewer chrome colors derived from a Chroma theme.
// Deterministic: same theme, same output.
type Palette struct {
	Bg     string // theme background
	Fg     string // primary text
	Border string // dividers, gutter
	Dim    string // tertiary text
	Muted  string // secondary text
	Accent string // headings, links
}

// ThemePalette derives the viewer palette from a theme name. The
// grayscale ramp interpolates bg toward fg; the accent comes from the
// theme's keyword color.
func ThemePalette(theme string) Palette {
	sty := styles.Get(theme)
	if sty == nil {
		return Palette{
			Bg: "#000000", Fg: "#c8c8c8",
			Border: "#141414", Dim: "#323232", Muted: "#5a5a5a",
			Accent: "#00dfff",
		}
	}
	entry := sty.Get(chroma.Background)
	bg, fg := "#000000", "#c8c8c8"
	if entry.Background.IsSet() {
		bg = entry.Background.String()
	}
	if entry.Colour.IsSet() {
		fg = entry.Colour.String()
	}
	accent := fg
	if kw := sty.Get(chroma.Keyword); kw.Colour.IsSet() {
		accent = kw.Colour.String()
	}
	return Palette{
		Bg:     bg,
		Fg:     fg,
		Border: lerp(bg, fg, 0.10),
		Dim:    lerp(bg, fg, 0.25),
		Muted:  lerp(bg, fg, 0.45),
		Accent: accent,
	}
}

// lerp linearly interpolates between two hex colors at fraction t.
func lerp(a, b string, t float64) string {
	ar, ag, ab, _ := rgb(a)
	br, bg, bb, _ := rgb(b)
	mix := func(x, y int) int {
		v := float64(x) + (float64(y)-float64(x))*t
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		return int(v + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", mix(ar, br), mix(ag, bg), mix(ab, bb))
}

func rgb(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	return nibbles(hex[1], hex[2]), nibbles(hex[3], hex[4]), nibbles(hex[5], hex[6]), true
}

func nibbles(hi, lo byte) int {
	return nibble(hi)<<4 | nibble(lo)
}

func nibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 0
}
