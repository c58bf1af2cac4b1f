package chart

import (
	"fmt"
	"math"
	"time"
)

// Difficulty selects one of the three maps of a chart.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
)

// Difficulties lists every difficulty in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyNormal:
		return "normal"
	case DifficultyHard:
		return "hard"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

func ParseDifficulty(name string) (Difficulty, error) {
	switch name {
	case "easy":
		return DifficultyEasy, nil
	case "normal":
		return DifficultyNormal, nil
	case "hard":
		return DifficultyHard, nil
	}
	return DifficultyEasy, fmt.Errorf("unknown difficulty %q", name)
}

// TimeSource is the playback clock the chart is synchronised with.
type TimeSource interface {
	Duration() time.Duration
	Seek(t time.Duration) error
}

// Meta is the display metadata of a chart.
type Meta struct {
	Title  string
	Artist string
	Levels map[Difficulty]string
}

// Chart is the full editing state: metadata, one map per difficulty and the
// playback cursor.
type Chart struct {
	Meta Meta
	// StartTime is the audio offset of the first line, in milliseconds.
	StartTime   float64
	CurrentTime float64
	// TimePosition is the playback position scaled to 0..1000.
	TimePosition float64
	ClapIndex    int
	HasClap      bool

	opts       Options
	bpm        float64
	lineCount  int
	maps       [3]*Map
	difficulty Difficulty
	temporary  LineOptions
}

// New creates a chart with three default maps.
func New(opts Options, bpm float64, lineCount int) *Chart {
	opts = opts.normalized()
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	if lineCount < 1 {
		lineCount = DefaultLineCount
	}
	c := &Chart{
		Meta:      Meta{Levels: map[Difficulty]string{}},
		opts:      opts,
		bpm:       bpm,
		lineCount: lineCount,
	}
	for _, d := range Difficulties {
		c.maps[d] = NewMap(opts, bpm, lineCount)
	}
	c.temporary = LineOptions{BPM: bpm, Speed: 1.0, BarLineState: true}
	return c
}

func (c *Chart) Options() Options {
	return c.opts
}

// Current returns the map of the selected difficulty.
func (c *Chart) Current() *Map {
	return c.maps[c.difficulty]
}

func (c *Chart) Difficulty() Difficulty {
	return c.difficulty
}

// Map returns the map of d, or nil for an unknown difficulty.
func (c *Chart) Map(d Difficulty) *Map {
	if d < DifficultyEasy || d > DifficultyHard {
		return nil
	}
	return c.maps[d]
}

// SetMap replaces the map of d wholesale.
func (c *Chart) SetMap(d Difficulty, m *Map) {
	if d < DifficultyEasy || d > DifficultyHard || m == nil {
		return
	}
	c.maps[d] = m
	if d == c.difficulty {
		c.refreshClap()
	}
}

func (c *Chart) SelectDifficulty(d Difficulty) {
	if d < DifficultyEasy || d > DifficultyHard {
		return
	}
	c.difficulty = d
	c.refreshClap()
}

// CloneDifficulty replaces the map of to with a deep copy of from.
func (c *Chart) CloneDifficulty(from, to Difficulty) {
	src := c.Map(from)
	if src == nil || from == to || c.Map(to) == nil {
		return
	}
	c.SetMap(to, src.Clone())
}

// DeleteMap resets the map of d to the default empty map.
func (c *Chart) DeleteMap(d Difficulty) {
	c.SetMap(d, NewMap(c.opts, c.bpm, c.lineCount))
}

// SaveTemporaryOption loads the options of line into the edit buffer.
func (c *Chart) SaveTemporaryOption(line int) {
	if o, ok := c.Current().OptionsAt(line); ok {
		c.temporary = o
	}
}

// UpdateTemporaryOption edits the buffer without touching the map.
func (c *Chart) UpdateTemporaryOption(opt Option) {
	c.temporary = c.temporary.Apply(opt)
}

func (c *Chart) TemporaryOption() LineOptions {
	return c.temporary
}

// SetStartTime stores the audio offset in milliseconds.
func (c *Chart) SetStartTime(ms float64) {
	if math.IsNaN(ms) {
		ms = 0
	}
	c.StartTime = ms
	c.refreshClap()
}

// UpdateCurrentTime moves the playback cursor to t seconds.
func (c *Chart) UpdateCurrentTime(t float64, ts TimeSource) {
	c.CurrentTime = t
	c.TimePosition = 0
	if ts != nil {
		if d := ts.Duration().Seconds(); d > 0 {
			c.TimePosition = 1000 * t / d
		}
	}
	c.refreshClap()
}

// Seek moves the time source to a 0..1000 slider position.
func (c *Chart) Seek(pos float64, ts TimeSource) error {
	if ts == nil {
		return nil
	}
	if pos < 0 {
		pos = 0
	}
	if pos > 1000 {
		pos = 1000
	}
	t := ts.Duration().Seconds() * pos / 1000
	if err := ts.Seek(time.Duration(t * float64(time.Second))); err != nil {
		return fmt.Errorf("seek to %.3fs: %w", t, err)
	}
	c.UpdateCurrentTime(t, ts)
	return nil
}

// ChartTime is the current time relative to the first line.
func (c *Chart) ChartTime() float64 {
	return c.CurrentTime - c.StartTime/1000
}

func (c *Chart) refreshClap() {
	c.ClapIndex, c.HasClap = ClapIndex(c.Current().ActiveTime, c.ChartTime())
}

// Refresh recomputes the clap cursor after an edit of the current map.
func (c *Chart) Refresh() {
	c.refreshClap()
}

// BarPos is a position in section/line coordinates of the current map.
type BarPos struct {
	Section int
	Line    int
}

// BarPosition converts a chart time into the section and line playing at t.
func (c *Chart) BarPosition(t float64) BarPos {
	m := c.Current()
	times := LineTimes(m.Lines)
	line := 0
	for line+1 < len(m.Lines) && times[line+1] <= t {
		line++
	}
	for s, section := range m.Sections() {
		for _, hb := range section {
			for _, idx := range hb {
				if idx == line {
					return BarPos{Section: s, Line: idx}
				}
			}
		}
	}
	return BarPos{Line: line}
}

// TimeAt returns the start time of line within the map, clamped.
func (c *Chart) TimeAt(line int) float64 {
	times := LineTimes(c.Current().Lines)
	if line < 0 {
		line = 0
	}
	if line >= len(times) {
		line = len(times) - 1
	}
	return times[line]
}
