package chart

// Range is an inclusive index range.
type Range struct {
	Start int
	End   int
}

func (r Range) normalized() Range {
	if r.Start > r.End {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

func (r Range) clamp(lo, hi int) (Range, bool) {
	r = r.normalized()
	if r.End < lo || r.Start > hi {
		return r, false
	}
	if r.Start < lo {
		r.Start = lo
	}
	if r.End > hi {
		r.End = hi
	}
	return r, true
}

// Selection is a rectangle of lanes by lines.
type Selection struct {
	Lane Range
	Line Range
}

// Block is one copied rectangle. Offsets are relative to the top-left corner
// of all copied rectangles; Status is indexed [line][lane].
type Block struct {
	LineOffset int
	LaneOffset int
	Status     [][]NoteStatus
}

// Clipboard holds copied note cells. Holds are not carried over: covered
// cells are copied as empty ones.
type Clipboard struct {
	Blocks []Block
}

func (c Clipboard) Empty() bool {
	for _, b := range c.Blocks {
		if len(b.Status) > 0 {
			return false
		}
	}
	return true
}

// Copy captures the given selections. Parts outside the map are dropped.
func (m *Map) Copy(selections []Selection) Clipboard {
	type rect struct{ lanes, lines Range }
	var rects []rect
	minLine, minLane := -1, -1
	for _, sel := range selections {
		lines, ok := sel.Line.clamp(0, len(m.Lines)-1)
		if !ok {
			continue
		}
		lanes, ok := sel.Lane.clamp(0, Lanes-1)
		if !ok {
			continue
		}
		rects = append(rects, rect{lanes: lanes, lines: lines})
		if minLine < 0 || lines.Start < minLine {
			minLine = lines.Start
		}
		if minLane < 0 || lanes.Start < minLane {
			minLane = lanes.Start
		}
	}
	var cb Clipboard
	for _, r := range rects {
		b := Block{LineOffset: r.lines.Start - minLine, LaneOffset: r.lanes.Start - minLane}
		for i := r.lines.Start; i <= r.lines.End; i++ {
			row := make([]NoteStatus, 0, r.lanes.End-r.lanes.Start+1)
			for lane := r.lanes.Start; lane <= r.lanes.End; lane++ {
				s := m.Lines[i].Status[lane]
				if s == Invalid {
					s = None
				}
				row = append(row, s)
			}
			b.Status = append(b.Status, row)
		}
		cb.Blocks = append(cb.Blocks, b)
	}
	return cb
}

type cell struct {
	line int
	lane int
}

// Paste writes the clipboard with its top-left corner at (line, lane).
// Hold markers inside the pasted cells and right outside their edges are
// reconnected once every cell is written.
func (m *Map) Paste(cb Clipboard, line, lane int) bool {
	if cb.Empty() {
		return false
	}
	var sites []cell
	wrote := false
	for _, b := range cb.Blocks {
		top, left := line+b.LineOffset, lane+b.LaneOffset
		for r, row := range b.Status {
			li := top + r
			if li < 0 || li >= len(m.Lines) {
				continue
			}
			for c, s := range row {
				la := left + c
				if la < 0 || la >= Lanes {
					continue
				}
				m.Lines[li].Status[la] = s
				wrote = true
				if s.IsLongEdge() {
					sites = append(sites, cell{li, la})
				}
			}
		}
		if len(b.Status) == 0 {
			continue
		}
		first, last := top, top+len(b.Status)-1
		if first < 0 {
			first = 0
		}
		if last >= len(m.Lines) {
			last = len(m.Lines) - 1
		}
		if first > last {
			continue
		}
		for c := range b.Status[0] {
			la := left + c
			if la < 0 || la >= Lanes {
				continue
			}
			if i, ok := m.nearestMarker(first, la, -1, LongStart); ok {
				sites = append(sites, cell{i, la})
			}
			if i, ok := m.nearestMarker(last, la, 1, LongEnd); ok {
				sites = append(sites, cell{i, la})
			}
		}
	}
	if !wrote {
		return false
	}
	for _, s := range sites {
		m.clearSpan(s.line, s.lane)
	}
	for _, s := range sites {
		m.connectLongNotes(s.line, s.lane, m.Lines[s.line].Status[s.lane])
	}
	m.commit()
	return true
}

// nearestMarker looks past from in dir, over empty and covered cells, for
// the first note; it reports it when it is of the wanted kind.
func (m *Map) nearestMarker(from, lane, dir int, want NoteStatus) (int, bool) {
	for i := from + dir; i >= 0 && i < len(m.Lines); i += dir {
		s := m.Lines[i].Status[lane]
		if s == None || s == Invalid {
			continue
		}
		return i, s == want
	}
	return 0, false
}

// clearSpan releases the covered cells a hold marker points into.
func (m *Map) clearSpan(line, lane int) {
	dir := 0
	switch m.Lines[line].Status[lane] {
	case LongStart:
		dir = 1
	case LongEnd:
		dir = -1
	default:
		return
	}
	for i := line + dir; i >= 0 && i < len(m.Lines) && m.Lines[i].Status[lane] == Invalid; i += dir {
		m.Lines[i].Status[lane] = None
	}
}
