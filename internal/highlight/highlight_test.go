package highlight

import (
	"strings"
	"testing"
)

func TestLineUnknownLanguagePassthrough(t *testing.T) {
	const text = "some code here"
	if got := Line(text, "not-a-language", "github-dark", "#111111"); got != text {
		t.Errorf("got %q, want passthrough", got)
	}
}

func TestLineHighlightsKnownLanguage(t *testing.T) {
	got := Line(`x := "s"`, "go", "github-dark", "#111111")
	if !strings.Contains(got, "\x1b[") {
		t.Error("expected ANSI escapes in highlighted output")
	}
	// Background must be re-applied after every reset so the block
	// color never drops out mid-line.
	bg := BgSeq("#111111")
	if !strings.HasPrefix(got, bg) {
		t.Fatalf("output does not start with bg sequence: %q", got)
	}
	if strings.Contains(got, "\x1b[0m") && !strings.Contains(got, "\x1b[0m"+bg) {
		t.Error("reset not followed by bg re-injection")
	}
	if strings.Contains(got, "\n") {
		t.Error("single line input produced a newline")
	}
}

func TestBgSeq(t *testing.T) {
	if got := BgSeq("#010203"); got != "\x1b[48;2;1;2;3m" {
		t.Errorf("BgSeq = %q", got)
	}
	if got := BgSeq("bogus"); got != "" {
		t.Errorf("BgSeq(bogus) = %q, want empty", got)
	}
}

func TestThemePaletteDeterministic(t *testing.T) {
	a := ThemePalette("github-dark")
	b := ThemePalette("github-dark")
	if a != b {
		t.Errorf("palette not deterministic: %+v vs %+v", a, b)
	}
	for name, c := range map[string]string{
		"Bg": a.Bg, "Fg": a.Fg, "Border": a.Border,
		"Dim": a.Dim, "Muted": a.Muted, "Accent": a.Accent,
	} {
		if len(c) != 7 || c[0] != '#' {
			t.Errorf("%s = %q, want #rrggbb", name, c)
		}
	}
}

func TestThemePaletteUnknownTheme(t *testing.T) {
	// Chroma falls back for unknown names; the palette must still be
	// well formed.
	p := ThemePalette("definitely-not-a-theme")
	if p.Bg == "" || p.Fg == "" {
		t.Errorf("palette = %+v", p)
	}
}

func TestLerp(t *testing.T) {
	tests := []struct {
		a, b string
		t    float64
		want string
	}{
		{"#000000", "#ffffff", 0, "#000000"},
		{"#000000", "#ffffff", 1, "#ffffff"},
		{"#000000", "#ff0000", 0.5, "#800000"},
	}
	for _, tt := range tests {
		if got := lerp(tt.a, tt.b, tt.t); got != tt.want {
			t.Errorf("lerp(%s, %s, %v) = %s, want %s", tt.a, tt.b, tt.t, got, tt.want)
		}
	}
}
