// Package chartfile reads and writes charts as JSON. Only durable fields are
// stored; history and derived timing data are rebuilt on load.
package chartfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/kobzarvs/notemap/internal/chart"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid chart file")

type File struct {
	Title            string             `json:"title"`
	Artist           string             `json:"artist"`
	Levels           map[string]string  `json:"levels,omitempty"`
	StartTime        float64            `json:"startTime"`
	SectionLineCount int                `json:"sectionLineCount"`
	Maps             map[string]MapFile `json:"maps"`
}

type MapFile struct {
	BPM        float64           `json:"bpm"`
	Snap24     bool              `json:"snap24"`
	Lines      []LineFile        `json:"lines"`
	BPMChanges []chart.BPMChange `json:"bpmChanges,omitempty"`
}

type LineFile struct {
	Status       [chart.Lanes]chart.NoteStatus `json:"status"`
	Snap24       bool                          `json:"snap24"`
	InBind       bool                          `json:"inBind"`
	BPM          float64                       `json:"bpm"`
	Speed        float64                       `json:"speed"`
	BarLine      bool                          `json:"barLine"`
	BarLineState bool                          `json:"barLineState"`
}

// Export captures the durable state of c.
func Export(c *chart.Chart) File {
	f := File{
		Title:            c.Meta.Title,
		Artist:           c.Meta.Artist,
		Levels:           map[string]string{},
		StartTime:        c.StartTime,
		SectionLineCount: c.Options().SectionLineCount,
		Maps:             map[string]MapFile{},
	}
	for d, lvl := range c.Meta.Levels {
		f.Levels[d.String()] = lvl
	}
	for _, d := range chart.Difficulties {
		m := c.Map(d)
		mf := MapFile{
			BPM:        m.BPM,
			Snap24:     m.Snap24,
			Lines:      make([]LineFile, len(m.Lines)),
			BPMChanges: m.BPMChanges,
		}
		for i, ln := range m.Lines {
			mf.Lines[i] = LineFile{
				Status:       ln.Status,
				Snap24:       ln.Snap24,
				InBind:       ln.InBind,
				BPM:          ln.BPM,
				Speed:        ln.Speed,
				BarLine:      ln.BarLine,
				BarLineState: ln.BarLineState,
			}
		}
		f.Maps[d.String()] = mf
	}
	return f
}

// Marshal encodes c as indented JSON.
func Marshal(c *chart.Chart) ([]byte, error) {
	return json.MarshalIndent(Export(c), "", "  ")
}

// Decode parses a chart file. Input that is not valid UTF-8 is read as
// Shift-JIS. opts supplies the display settings; a section line count stored
// in the file takes precedence.
func Decode(data []byte, opts chart.Options) (*chart.Chart, error) {
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("decode shift-jis: %w", err)
		}
		data = decoded
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return f.Chart(opts)
}

// Chart validates f and builds the editing state from it.
func (f File) Chart(opts chart.Options) (*chart.Chart, error) {
	if f.SectionLineCount > 1 {
		opts.SectionLineCount = f.SectionLineCount
	}
	maps := make(map[chart.Difficulty]*chart.Map, len(chart.Difficulties))
	for name, mf := range f.Maps {
		d, err := chart.ParseDifficulty(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		lines, err := mf.lines()
		if err != nil {
			return nil, fmt.Errorf("map %s: %w", name, err)
		}
		maps[d] = chart.FromLines(opts, mf.BPM, mf.Snap24, lines)
	}
	if len(maps) == 0 {
		return nil, fmt.Errorf("%w: no maps", ErrInvalid)
	}

	first := maps[chart.DifficultyEasy]
	for _, d := range chart.Difficulties {
		if first == nil {
			first = maps[d]
		}
	}
	c := chart.New(opts, first.BPM, len(first.Lines))
	for d, m := range maps {
		c.SetMap(d, m)
	}
	c.Meta.Title = f.Title
	c.Meta.Artist = f.Artist
	for name, lvl := range f.Levels {
		d, err := chart.ParseDifficulty(name)
		if err != nil {
			return nil, fmt.Errorf("%w: level: %v", ErrInvalid, err)
		}
		c.Meta.Levels[d] = lvl
	}
	c.SetStartTime(f.StartTime)
	return c, nil
}

func (mf MapFile) lines() (chart.Lines, error) {
	if len(mf.Lines) == 0 {
		return nil, fmt.Errorf("%w: no lines", ErrInvalid)
	}
	lines := make(chart.Lines, len(mf.Lines))
	for i, lf := range mf.Lines {
		if lf.BPM <= 0 {
			return nil, fmt.Errorf("%w: line %d: bpm %v", ErrInvalid, i, lf.BPM)
		}
		for lane, s := range lf.Status {
			if !s.Valid() {
				return nil, fmt.Errorf("%w: line %d lane %d: status %d", ErrInvalid, i, lane, s)
			}
		}
		lines[i] = chart.Line{
			Status:       lf.Status,
			Snap24:       lf.Snap24,
			InBind:       lf.InBind,
			BPM:          lf.BPM,
			Speed:        lf.Speed,
			BarLine:      lf.BarLine,
			BarLineState: lf.BarLineState,
		}
	}
	return lines, nil
}

// Load reads the chart at path.
func Load(path string, opts chart.Options) (*chart.Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Write encodes c to w.
func Write(w io.Writer, c *chart.Chart) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// Save writes c to path through a temporary file in the same directory.
func Save(path string, c *chart.Chart) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".notemap-*")
	if err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := Write(tmp, c); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
