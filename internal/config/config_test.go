package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("NOTEMAP_CONFIG_HOME", "/tmp/notemap-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/notemap-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/notemap-config")
	}

	t.Setenv("NOTEMAP_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/notemap" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/notemap")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("NOTEMAP_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.SectionLineCount != 16 || cfg.Editor.HistorySize != 50 || cfg.Editor.InitialBPM != 210 {
		t.Fatalf("editor = %+v", cfg.Editor)
	}
	if cfg.Editor.AutosaveEvery() != 30*time.Second {
		t.Fatalf("AutosaveEvery = %v, want 30s", cfg.Editor.AutosaveEvery())
	}
}

func TestLoadWithThemeAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NOTEMAP_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "test.toml"), `
foreground = "#111111"
background = "#222222"
long-note = "#333333"
`)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[editor]
history-size = 10
section-line-count = 8
columns = 3
autosave-interval = "0s"

[theme]
theme = "test"
background = "#123456"

[keymap.normal]
q = "quit"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	opts := cfg.Editor.ChartOptions()
	if opts.HistorySize != 10 || opts.SectionLineCount != 8 || opts.Columns != 3 {
		t.Fatalf("ChartOptions = %+v", opts)
	}
	if cfg.Editor.AutosaveEvery() != 0 {
		t.Fatalf("AutosaveEvery = %v, want 0", cfg.Editor.AutosaveEvery())
	}
	if cfg.Editor.InitialLines != 64 {
		t.Fatalf("InitialLines = %d, want 64", cfg.Editor.InitialLines)
	}
	if cfg.Theme.Foreground != "#111111" {
		t.Fatalf("Foreground = %q, want %q", cfg.Theme.Foreground, "#111111")
	}
	if cfg.Theme.Background != "#123456" {
		t.Fatalf("Background = %q, want %q", cfg.Theme.Background, "#123456")
	}
	if cfg.Theme.LongNote != "#333333" {
		t.Fatalf("LongNote = %q, want %q", cfg.Theme.LongNote, "#333333")
	}
	if cfg.Keymap.Normal["q"] != "quit" {
		t.Fatalf("keymap q = %q, want %q", cfg.Keymap.Normal["q"], "quit")
	}
	if cfg.Keymap.Normal["h"] != "lane_left" {
		t.Fatalf("keymap h = %q, want %q", cfg.Keymap.Normal["h"], "lane_left")
	}
}

func TestLoadMissingTheme(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NOTEMAP_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), "[theme]\ntheme = \"nope\"\n")
	if _, err := Load(); err == nil {
		t.Fatalf("Load succeeded with a missing theme file")
	}
}

func TestLoadThemeWrapped(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NOTEMAP_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "wrapped.toml"), `
[theme]
foreground = "#aaaaaa"
attack-note = "#bbbbbb"
`)

	theme, err := LoadTheme("wrapped")
	if err != nil {
		t.Fatalf("LoadTheme error: %v", err)
	}
	if theme.Foreground != "#aaaaaa" {
		t.Fatalf("Foreground = %q, want %q", theme.Foreground, "#aaaaaa")
	}
	if theme.AttackNote != "#bbbbbb" {
		t.Fatalf("AttackNote = %q, want %q", theme.AttackNote, "#bbbbbb")
	}
}
