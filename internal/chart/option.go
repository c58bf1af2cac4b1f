package chart

import "math"

// Option is a change to one of the per-line options. The concrete types are
// BPMOption, SpeedOption, BarLineOption, BarLineStateOption and InBindOption.
type Option interface {
	isOption()
}

type BPMOption struct{ Value float64 }

type SpeedOption struct{ Value float64 }

type BarLineOption struct{ Value bool }

type BarLineStateOption struct{ Value bool }

type InBindOption struct{ Value bool }

func (BPMOption) isOption()          {}
func (SpeedOption) isOption()        {}
func (BarLineOption) isOption()      {}
func (BarLineStateOption) isOption() {}
func (InBindOption) isOption()       {}

// LineOptions is the option set of a single line.
type LineOptions struct {
	BPM          float64
	Speed        float64
	BarLine      bool
	BarLineState bool
	InBind       bool
}

// OptionsAt returns the options of line i.
func (m *Map) OptionsAt(i int) (LineOptions, bool) {
	ln, ok := m.Line(i)
	if !ok {
		return LineOptions{}, false
	}
	return LineOptions{
		BPM:          ln.BPM,
		Speed:        ln.Speed,
		BarLine:      ln.BarLine,
		BarLineState: ln.BarLineState,
		InBind:       ln.InBind,
	}, true
}

// Apply folds opt into the option set.
func (o LineOptions) Apply(opt Option) LineOptions {
	switch v := opt.(type) {
	case BPMOption:
		o.BPM = v.Value
	case SpeedOption:
		o.Speed = v.Value
	case BarLineOption:
		o.BarLine = v.Value
	case BarLineStateOption:
		o.BarLineState = v.Value
	case InBindOption:
		o.InBind = v.Value
	}
	return o
}

// SetOption changes an option at line and carries the new value forward
// through the region that shared the old one.
func (m *Map) SetOption(line int, opt Option) bool {
	if line < 0 || line >= len(m.Lines) {
		return false
	}
	var changed bool
	switch v := opt.(type) {
	case BPMOption:
		changed = m.setBPM(line, v.Value)
	case SpeedOption:
		changed = m.setSpeed(line, v.Value)
	case BarLineOption:
		changed = m.setBarLine(line, v.Value)
	case BarLineStateOption:
		changed = m.setBarLineState(line, v.Value)
	case InBindOption:
		changed = m.setInBind(line, v.Value)
	}
	if changed {
		m.commit()
	}
	return changed
}

func (m *Map) setBPM(line int, value float64) bool {
	if !validRate(value) || m.Lines[line].BPM == value {
		return false
	}
	m.Lines[line].BarLine = true
	m.propagateBPM(line, value)
	return true
}

// validRate reports whether v can be used as a bpm or speed.
func validRate(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func (m *Map) propagateBPM(line int, value float64) {
	old := m.Lines[line].BPM
	for i := line; i < len(m.Lines) && m.Lines[i].BPM == old && old != value; i++ {
		m.Lines[i].BPM = value
	}
}

func (m *Map) setSpeed(line int, value float64) bool {
	if !validRate(value) || m.Lines[line].Speed == value {
		return false
	}
	m.Lines[line].BarLine = true
	m.propagateSpeed(line, value)
	return true
}

func (m *Map) propagateSpeed(line int, value float64) {
	old := m.Lines[line].Speed
	for i := line; i < len(m.Lines) && m.Lines[i].Speed == old && old != value; i++ {
		m.Lines[i].Speed = value
	}
}

func (m *Map) setBarLine(line int, value bool) bool {
	// The first line always opens a region.
	if line == 0 || m.Lines[line].BarLine == value {
		return false
	}
	if value {
		m.Lines[line].BarLine = true
		return true
	}
	prev := m.Lines[line-1]
	m.propagateBPM(line, prev.BPM)
	m.propagateSpeed(line, prev.Speed)
	m.propagateBarLineState(line, prev.BarLineState)
	m.Lines[line].BarLine = false
	return true
}

func (m *Map) setBarLineState(line int, value bool) bool {
	if m.Lines[line].BarLineState == value {
		return false
	}
	m.Lines[line].BarLine = true
	m.propagateBarLineState(line, value)
	return true
}

func (m *Map) propagateBarLineState(line int, value bool) {
	for i := line; i < len(m.Lines) && m.Lines[i].BarLineState != value; i++ {
		m.Lines[i].BarLineState = value
	}
}

func (m *Map) setInBind(line int, value bool) bool {
	if m.Lines[line].InBind == value {
		return false
	}
	for i := line; i < len(m.Lines) && m.Lines[i].InBind != value; i++ {
		m.Lines[i].InBind = value
	}
	return true
}
