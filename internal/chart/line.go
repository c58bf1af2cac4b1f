package chart

// Line is one beat subdivision of the chart.
type Line struct {
	Status       [Lanes]NoteStatus
	Snap24       bool
	InBind       bool
	BPM          float64
	Speed        float64
	BarLine      bool
	BarLineState bool
}

// Lines is the ordered line sequence of a map. The index is the only identity.
type Lines []Line

func blankStatus() [Lanes]NoteStatus {
	return [Lanes]NoteStatus{None, None, None, None}
}

// Clone returns an independently owned copy.
func (l Lines) Clone() Lines {
	if l == nil {
		return nil
	}
	out := make(Lines, len(l))
	copy(out, l)
	return out
}

// Active reports whether any lane holds a note or a hold marker.
func (ln *Line) Active() bool {
	for _, s := range ln.Status {
		if s.IsActive() {
			return true
		}
	}
	return false
}

// ActiveCount returns the number of lanes holding a note or a hold marker.
func (ln *Line) ActiveCount() int {
	n := 0
	for _, s := range ln.Status {
		if s.IsActive() {
			n++
		}
	}
	return n
}

// duration is the length of the line in seconds.
func (ln *Line) duration() float64 {
	if ln.BPM <= 0 {
		return 0
	}
	if ln.Snap24 {
		return 10 / ln.BPM
	}
	return 15 / ln.BPM
}

// blankAfter builds an empty line carrying the tempo metadata of src.
func blankAfter(src Line, snap24 bool) Line {
	return Line{
		Status:       blankStatus(),
		Snap24:       snap24,
		InBind:       src.InBind,
		BPM:          src.BPM,
		Speed:        src.Speed,
		BarLineState: src.BarLineState,
	}
}

func (m *Map) insertLines(at int, lines ...Line) {
	if at < 0 {
		at = 0
	}
	if at > len(m.Lines) {
		at = len(m.Lines)
	}
	m.Lines = append(m.Lines, lines...)
	copy(m.Lines[at+len(lines):], m.Lines[at:])
	copy(m.Lines[at:], lines)
}

// deleteLines removes the inclusive range [from, to].
func (m *Map) deleteLines(from, to int) {
	if from < 0 {
		from = 0
	}
	if to >= len(m.Lines) {
		to = len(m.Lines) - 1
	}
	if from > to {
		return
	}
	m.Lines = append(m.Lines[:from], m.Lines[to+1:]...)
}
