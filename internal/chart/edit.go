package chart

// AddSection inserts one section worth of blank lines right after
// insertIndex. sectionIndex is the section the insertion was requested from;
// it drives the scroll of the visible window.
func (m *Map) AddSection(sectionIndex, insertIndex int) bool {
	if insertIndex < 0 || insertIndex >= len(m.Lines) {
		return false
	}
	count := m.opts.SectionLineCount
	if m.Snap24 {
		count = count * 3 / 2
	}
	src := m.Lines[insertIndex]
	added := make([]Line, count)
	for i := range added {
		added[i] = m.fillerAfter(insertIndex, src, m.Snap24)
		added[i].BarLine = i == 0
	}
	m.insertLines(insertIndex+1, added...)
	m.refresh()
	if m.CurrentSection+m.opts.Columns-1 == sectionIndex && m.SectionLength > m.opts.Columns {
		m.CurrentSection++
	}
	m.pushHistory()
	return true
}

// RemoveSection deletes the lines covered by halfBeats (one section as
// produced by AssignSection). Notes in the range are removed first so that
// holds reaching into it are re-rooted or released.
func (m *Map) RemoveSection(halfBeats [][]int) bool {
	if len(halfBeats) == 0 || len(halfBeats[0]) == 0 || len(halfBeats[len(halfBeats)-1]) == 0 {
		return false
	}
	start := halfBeats[0][0]
	endBeat := halfBeats[len(halfBeats)-1]
	end := endBeat[len(endBeat)-1]
	if start < 0 {
		start = 0
	}
	if end >= len(m.Lines) {
		end = len(m.Lines) - 1
	}
	if start > end || end-start+1 >= len(m.Lines) {
		return false
	}
	m.clampCurrentSection(1)
	for i := start; i <= end; i++ {
		for lane := 0; lane < Lanes; lane++ {
			s := m.Lines[i].Status[lane]
			switch {
			case s.IsShort():
				m.Lines[i].Status[lane] = None
			case s.IsLongEdge():
				m.deleteLongNotes(i, lane)
			}
		}
	}
	m.deleteLines(start, end)
	m.refresh()
	m.clampCurrentSection(0)
	m.pushHistory()
	return true
}
