package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kobzarvs/notemap/internal/chart"
)

type Keymap struct {
	Normal map[string]string `toml:"normal"`
}

type EditorOptions struct {
	HistorySize      int     `toml:"history-size"`
	SectionLineCount int     `toml:"section-line-count"`
	Columns          int     `toml:"columns"`
	InitialBPM       float64 `toml:"initial-bpm"`
	InitialLines     int     `toml:"initial-lines"`
	LaneWidth        int     `toml:"lane-width"`
	AutosaveInterval string  `toml:"autosave-interval"`
	AutosaveKeep     int     `toml:"autosave-keep"`
}

type Theme struct {
	Theme                string `toml:"theme"`
	Foreground           string `toml:"foreground"`
	Background           string `toml:"background"`
	StatuslineForeground string `toml:"statusline-foreground"`
	StatuslineBackground string `toml:"statusline-background"`
	BarLineForeground    string `toml:"barline-foreground"`
	CursorBackground     string `toml:"cursor-background"`
	SelectionBackground  string `toml:"selection-background"`
	NormalNote           string `toml:"normal-note"`
	AttackNote           string `toml:"attack-note"`
	LongNote             string `toml:"long-note"`
	ClapForeground       string `toml:"clap-foreground"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
	Keymap Keymap        `toml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			HistorySize:      chart.DefaultHistorySize,
			SectionLineCount: chart.DefaultSectionLineCount,
			Columns:          chart.DefaultColumns,
			InitialBPM:       chart.DefaultBPM,
			InitialLines:     chart.DefaultLineCount,
			LaneWidth:        3,
			AutosaveInterval: "30s",
			AutosaveKeep:     20,
		},
		Theme: Theme{
			Foreground:           "#B3B1AD",
			Background:           "#0A0E14",
			StatuslineForeground: "#B3B1AD",
			StatuslineBackground: "#0F1419",
			BarLineForeground:    "#3E4B59",
			CursorBackground:     "#27425A",
			SelectionBackground:  "#1F2A36",
			NormalNote:           "#59C2FF",
			AttackNote:           "#FF3333",
			LongNote:             "#BAE67E",
			ClapForeground:       "#FFD700",
		},
		Keymap: Keymap{
			Normal: map[string]string{
				"h":      "lane_left",
				"l":      "lane_right",
				"j":      "line_down",
				"k":      "line_up",
				"left":   "lane_left",
				"right":  "lane_right",
				"down":   "line_down",
				"up":     "line_up",
				"pgdn":   "section_next",
				"pgup":   "section_prev",
				"]":      "section_next",
				"[":      "section_prev",
				"home":   "map_start",
				"end":    "map_end",
				"space":  "place_note",
				"enter":  "place_note",
				"x":      "clear_note",
				"del":    "clear_note",
				"1":      "mode_normal",
				"2":      "mode_attack",
				"3":      "mode_long_start",
				"4":      "mode_long_end",
				"u":      "undo",
				"U":      "redo",
				"ctrl+r": "redo",
				"s":      "toggle_snap",
				"a":      "add_section",
				"D":      "remove_section",
				"v":      "toggle_select",
				"esc":    "clear_selection",
				"y":      "copy",
				"p":      "paste",
				"b":      "toggle_barline",
				"B":      "toggle_barline_state",
				"i":      "toggle_inbind",
				"=":      "bpm_up",
				"-":      "bpm_down",
				">":      "speed_up",
				"<":      "speed_down",
				"e":      "difficulty_next",
				":":      "enter_command",
				"ctrl+s": "save",
				"ctrl+c": "quit",
			},
		},
	}
}

// AutosaveEvery parses the autosave interval. Zero disables autosave.
func (o EditorOptions) AutosaveEvery() time.Duration {
	d, err := time.ParseDuration(o.AutosaveInterval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// ChartOptions returns the map settings the editor options describe.
func (o EditorOptions) ChartOptions() chart.Options {
	return chart.Options{
		SectionLineCount: o.SectionLineCount,
		Columns:          o.Columns,
		HistorySize:      o.HistorySize,
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	mergeEditor(&cfg.Editor, userCfg.Editor)
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap.Normal {
		cfg.Keymap.Normal[k] = v
	}
	return cfg, nil
}

func mergeEditor(dst *EditorOptions, src EditorOptions) {
	if src.HistorySize > 0 {
		dst.HistorySize = src.HistorySize
	}
	if src.SectionLineCount > 1 {
		dst.SectionLineCount = src.SectionLineCount
	}
	if src.Columns > 0 {
		dst.Columns = src.Columns
	}
	if src.InitialBPM > 0 {
		dst.InitialBPM = src.InitialBPM
	}
	if src.InitialLines > 0 {
		dst.InitialLines = src.InitialLines
	}
	if src.LaneWidth > 0 {
		dst.LaneWidth = src.LaneWidth
	}
	if src.AutosaveInterval != "" {
		dst.AutosaveInterval = src.AutosaveInterval
	}
	if src.AutosaveKeep > 0 {
		dst.AutosaveKeep = src.AutosaveKeep
	}
}

func mergeTheme(dst *Theme, src Theme) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.Foreground, src.Foreground)
	set(&dst.Background, src.Background)
	set(&dst.StatuslineForeground, src.StatuslineForeground)
	set(&dst.StatuslineBackground, src.StatuslineBackground)
	set(&dst.BarLineForeground, src.BarLineForeground)
	set(&dst.CursorBackground, src.CursorBackground)
	set(&dst.SelectionBackground, src.SelectionBackground)
	set(&dst.NormalNote, src.NormalNote)
	set(&dst.AttackNote, src.AttackNote)
	set(&dst.LongNote, src.LongNote)
	set(&dst.ClapForeground, src.ClapForeground)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml. The colours may sit at the top level or
// inside a [theme] table.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, err
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("NOTEMAP_CONFIG_HOME"); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "notemap"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "notemap"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
