package chart

// Defaults used when a map is created from scratch.
const (
	DefaultBPM              = 210
	DefaultLineCount        = 64
	DefaultSectionLineCount = 16
	DefaultColumns          = 4
	DefaultHistorySize      = 50
)

// Options are the display and history settings a map is edited under.
type Options struct {
	SectionLineCount int
	Columns          int
	HistorySize      int
}

func DefaultOptions() Options {
	return Options{
		SectionLineCount: DefaultSectionLineCount,
		Columns:          DefaultColumns,
		HistorySize:      DefaultHistorySize,
	}
}

func (o Options) normalized() Options {
	if o.SectionLineCount < 2 {
		o.SectionLineCount = DefaultSectionLineCount
	}
	if o.Columns < 1 {
		o.Columns = DefaultColumns
	}
	if o.HistorySize < 1 {
		o.HistorySize = DefaultHistorySize
	}
	return o
}

// BPMChange is a tempo breakpoint; Time is in seconds from the first line.
type BPMChange struct {
	BPM  float64
	Time float64
}

// ActiveTime marks a line holding notes; Count is the number of active lanes.
type ActiveTime struct {
	Count int
	Time  float64
}

// Map is the editable state of one difficulty.
type Map struct {
	BPM            float64
	Snap24         bool
	CurrentSection int
	SectionLength  int
	Lines          Lines
	BPMChanges     []BPMChange
	ActiveTime     []ActiveTime

	opts      Options
	snapshots []snapshot
	index     int
}

// NewMap builds the default map: lineCount blank lines at bpm with a bar line
// at the start of every section.
func NewMap(opts Options, bpm float64, lineCount int) *Map {
	opts = opts.normalized()
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	if lineCount < 1 {
		lineCount = DefaultLineCount
	}
	lines := make(Lines, lineCount)
	for i := range lines {
		lines[i] = Line{
			Status:       blankStatus(),
			BPM:          bpm,
			Speed:        1.0,
			BarLine:      i%opts.SectionLineCount == 0,
			BarLineState: true,
		}
	}
	return FromLines(opts, bpm, false, lines)
}

// FromLines builds a map around an imported line sequence. Derived fields and
// the history are rebuilt; lines is owned by the map afterwards.
func FromLines(opts Options, bpm float64, snap24 bool, lines Lines) *Map {
	m := &Map{
		BPM:    bpm,
		Snap24: snap24,
		Lines:  lines,
		opts:   opts.normalized(),
	}
	if m.BPM <= 0 && len(lines) > 0 {
		m.BPM = lines[0].BPM
	}
	m.refresh()
	m.snapshots = []snapshot{{lines: m.Lines.Clone(), snap24: m.Snap24}}
	m.index = 0
	return m
}

func (m *Map) Options() Options {
	return m.opts
}

// Clone deep-copies the map, starting a fresh history.
func (m *Map) Clone() *Map {
	c := FromLines(m.opts, m.BPM, m.Snap24, m.Lines.Clone())
	c.CurrentSection = m.CurrentSection
	c.clampCurrentSection(0)
	return c
}

// Line returns a copy of line i.
func (m *Map) Line(i int) (Line, bool) {
	if i < 0 || i >= len(m.Lines) {
		return Line{}, false
	}
	return m.Lines[i], true
}

// Sections segments the current lines.
func (m *Map) Sections() [][][]int {
	return AssignSection(m.Lines, m.opts.SectionLineCount)
}

// refresh recomputes every field derived from Lines.
func (m *Map) refresh() {
	m.SectionLength = len(m.Sections())
	m.ActiveTime = SearchActiveTime(m.Lines)
	m.BPMChanges = GetBPMChanges(m.Lines)
}

// clampCurrentSection keeps the visible window inside the map. extra is the
// number of sections about to disappear.
func (m *Map) clampCurrentSection(extra int) {
	limit := m.SectionLength - m.opts.Columns - extra
	if m.CurrentSection > limit {
		m.CurrentSection = limit
	}
	if m.CurrentSection < 0 {
		m.CurrentSection = 0
	}
}

// MoveSection sets the navigation cursor, clamped to the map.
func (m *Map) MoveSection(section int) {
	m.CurrentSection = section
	m.clampCurrentSection(0)
}

// commit finishes a mutation: derived fields, then history.
func (m *Map) commit() {
	m.refresh()
	m.pushHistory()
}
