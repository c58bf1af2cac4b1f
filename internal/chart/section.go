package chart

// AssignSection splits lines into sections of sectionLineCount/2 half-beats.
// A half-beat is two lines, or three when its second line is a fine-snap
// line. Each half-beat is the list of its line indices.
func AssignSection(lines Lines, sectionLineCount int) [][][]int {
	halfBeatsInSection := sectionLineCount / 2
	if halfBeatsInSection < 1 {
		halfBeatsInSection = 1
	}
	var sections [][][]int
	index := 0
	for index < len(lines) {
		var halfBeats [][]int
		halfBeats, index = assignHalfBeats(lines, index, halfBeatsInSection)
		sections = append(sections, halfBeats)
	}
	return sections
}

func assignHalfBeats(lines Lines, start, halfBeatsInSection int) ([][]int, int) {
	index := start
	var halfBeats [][]int
	var halfBeat []int
	for len(halfBeats) < halfBeatsInSection && index < len(lines) {
		halfBeat = append(halfBeat, index)
		if (len(halfBeat) == 2 && !lines[index].Snap24) || len(halfBeat) > 2 {
			halfBeats = append(halfBeats, halfBeat)
			halfBeat = nil
		}
		index++
	}
	return halfBeats, index
}

// heldAcross reports whether a hold on lane passes between line i and i+1.
func (m *Map) heldAcross(i, lane int) bool {
	if i < 0 || i+1 >= len(m.Lines) {
		return false
	}
	before, after := m.Lines[i].Status[lane], m.Lines[i+1].Status[lane]
	return (before == LongStart || before == Invalid) && (after == Invalid || after == LongEnd)
}

// fillerAfter is a blank line to be inserted after line i, inheriting the
// metadata of src and staying covered on lanes whose hold passes through.
func (m *Map) fillerAfter(i int, src Line, snap24 bool) Line {
	ln := blankAfter(src, snap24)
	for lane := 0; lane < Lanes; lane++ {
		if m.heldAcross(i, lane) {
			ln.Status[lane] = Invalid
		}
	}
	return ln
}

// ChangeSnap toggles the map between normal and fine subdivision, converting
// every half-beat that carries no notes or bar lines past its first line.
func (m *Map) ChangeSnap() {
	m.Snap24 = !m.Snap24
	index := 0
	for index < len(m.Lines) {
		index = m.changeBeatSnap(index)
	}
	m.commit()
}

func (m *Map) changeBeatSnap(index int) int {
	if m.Lines[index].Snap24 == m.Snap24 {
		if m.Snap24 {
			return index + 3
		}
		return index + 2
	}
	if m.Snap24 {
		if index+1 >= len(m.Lines) {
			return index + 1
		}
		second := m.Lines[index+1]
		if second.Active() || second.BarLine {
			return index + 2
		}
		m.insertLines(index+1, m.fillerAfter(index, second, true))
		m.Lines[index].Snap24 = true
		m.Lines[index+2].Snap24 = true
		return index + 3
	}
	if index+2 >= len(m.Lines) {
		return index + 3
	}
	middle, last := m.Lines[index+1], m.Lines[index+2]
	if middle.Active() || last.Active() || middle.BarLine || last.BarLine {
		return index + 3
	}
	m.deleteLines(index+1, index+1)
	m.Lines[index].Snap24 = false
	m.Lines[index+1].Snap24 = false
	return index + 2
}
