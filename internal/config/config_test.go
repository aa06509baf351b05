package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xonecas/livemark/internal/constants"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.UI.ShowLineNumbers {
		t.Error("line numbers should default on")
	}
	if got := cfg.UI.SyntaxThemeOrDefault(); got != constants.SyntaxTheme {
		t.Errorf("theme = %q, want default %q", got, constants.SyntaxTheme)
	}
	if cfg.Engine.Rescan != "" {
		t.Errorf("rescan = %q, want empty", cfg.Engine.Rescan)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "livemark.toml")
	content := `
[ui]
syntax_theme = "dracula"
show_line_numbers = false

[engine]
rescan = "document"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UI.SyntaxTheme != "dracula" {
		t.Errorf("theme = %q", cfg.UI.SyntaxTheme)
	}
	if cfg.UI.ShowLineNumbers {
		t.Error("show_line_numbers = false not applied")
	}
	if cfg.Engine.Rescan != "document" {
		t.Errorf("rescan = %q", cfg.Engine.Rescan)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LIVEMARK_THEME", "monokai")
	t.Setenv("LIVEMARK_RESCAN", "window")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UI.SyntaxTheme != "monokai" {
		t.Errorf("theme = %q", cfg.UI.SyntaxTheme)
	}
	if cfg.Engine.Rescan != "window" {
		t.Errorf("rescan = %q", cfg.Engine.Rescan)
	}
}

func TestValidateRescan(t *testing.T) {
	for _, ok := range []string{"", "window", "document"} {
		cfg := &Config{Engine: EngineConfig{Rescan: ok}}
		if err := cfg.Validate(); err != nil {
			t.Errorf("rescan=%q: unexpected error %v", ok, err)
		}
	}
	cfg := &Config{Engine: EngineConfig{Rescan: "sometimes"}}
	if err := cfg.Validate(); err == nil {
		t.Error("invalid rescan value should fail validation")
	}
}
