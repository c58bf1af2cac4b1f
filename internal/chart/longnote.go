package chart

// turnInvalid marks every line strictly between edge1 and edge2 as covered.
func (m *Map) turnInvalid(lane, edge1, edge2 int) {
	lo, hi := edge1, edge2
	if lo > hi {
		lo, hi = hi, lo
	}
	for i := lo + 1; i < hi; i++ {
		m.Lines[i].Status[lane] = Invalid
	}
}

// findEdgeAndInvalidate walks from `from` in dir over empty cells looking for
// target. On a hit the span is covered; any other note blocks the walk.
func (m *Map) findEdgeAndInvalidate(target NoteStatus, from, lane, dir int) bool {
	for i := from + dir; i >= 0 && i < len(m.Lines); i += dir {
		s := m.Lines[i].Status[lane]
		if s == target {
			m.turnInvalid(lane, from, i)
			return true
		}
		if s != None {
			return false
		}
	}
	return false
}

// connectLongNotes links a freshly placed hold marker of the given kind with
// its counterpart. Starts look forward, ends look backward.
func (m *Map) connectLongNotes(line, lane int, kind NoteStatus) bool {
	switch kind {
	case LongStart:
		return m.findEdgeAndInvalidate(LongEnd, line, lane, 1)
	case LongEnd:
		return m.findEdgeAndInvalidate(LongStart, line, lane, -1)
	}
	return false
}

// deleteLongNotes clears a hold marker. When the marker bounded a span, a
// marker of the same kind further out takes over the span if one is
// reachable; otherwise the covered cells are released.
func (m *Map) deleteLongNotes(line, lane int) {
	cur := m.Lines[line].Status[lane]
	m.Lines[line].Status[lane] = None
	if !cur.IsLongEdge() {
		return
	}
	// dir points away from the span, where a replacement marker would sit.
	dir := 1
	if cur == LongStart {
		dir = -1
	}
	span := line - dir
	if span < 0 || span >= len(m.Lines) || m.Lines[span].Status[lane] != Invalid {
		return
	}
	if m.findEdgeAndInvalidate(cur, span, lane, dir) {
		return
	}
	for i := span; i >= 0 && i < len(m.Lines) && m.Lines[i].Status[lane] == Invalid; i -= dir {
		m.Lines[i].Status[lane] = None
	}
}

// releaseLongNote clears a hold marker together with the span it bounds,
// without looking for a replacement.
func (m *Map) releaseLongNote(line, lane int) {
	cur := m.Lines[line].Status[lane]
	m.Lines[line].Status[lane] = None
	dir := 1
	if cur == LongStart {
		dir = -1
	}
	for i := line - dir; i >= 0 && i < len(m.Lines) && m.Lines[i].Status[lane] == Invalid; i -= dir {
		m.Lines[i].Status[lane] = None
	}
}

// ChangeNotesStatus places status at (line, lane), keeping hold spans
// consistent. Covered cells and out-of-range positions are left alone.
func (m *Map) ChangeNotesStatus(line, lane int, status NoteStatus) bool {
	if line < 0 || line >= len(m.Lines) || lane < 0 || lane >= Lanes || !status.Valid() || status == Invalid {
		return false
	}
	cur := m.Lines[line].Status[lane]
	if cur == Invalid || cur == status {
		return false
	}
	if cur.IsLongEdge() {
		if status == None {
			m.deleteLongNotes(line, lane)
			m.commit()
			return true
		}
		m.releaseLongNote(line, lane)
	}
	if status.IsLongEdge() {
		m.connectLongNotes(line, lane, status)
	}
	m.Lines[line].Status[lane] = status
	m.commit()
	return true
}
