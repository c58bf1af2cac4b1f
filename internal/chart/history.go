package chart

// snapshot is one history entry. The snap mode travels with the lines so that
// undoing a snap toggle restores both.
type snapshot struct {
	lines  Lines
	snap24 bool
}

// pushHistory records the current lines as a new history entry, discarding
// anything that could have been redone.
func (m *Map) pushHistory() {
	if m.index < len(m.snapshots)-1 {
		m.snapshots = m.snapshots[:m.index+1]
	}
	m.snapshots = append(m.snapshots, snapshot{lines: m.Lines.Clone(), snap24: m.Snap24})
	m.index = len(m.snapshots) - 1
	if size := m.opts.HistorySize; len(m.snapshots) > size {
		drop := len(m.snapshots) - size
		kept := make([]snapshot, size)
		copy(kept, m.snapshots[drop:])
		m.snapshots = kept
		m.index = size - 1
	}
}

func (m *Map) CanUndo() bool {
	return m.index > 0
}

func (m *Map) CanRedo() bool {
	return m.index < len(m.snapshots)-1
}

// HistoryLen returns the number of stored snapshots.
func (m *Map) HistoryLen() int {
	return len(m.snapshots)
}

// HistoryIndex returns the history cursor.
func (m *Map) HistoryIndex() int {
	return m.index
}

// Undo steps back one snapshot. At the oldest entry it is a no-op.
func (m *Map) Undo() bool {
	if !m.CanUndo() {
		return false
	}
	m.restore(m.index - 1)
	return true
}

// Redo steps forward one snapshot. At the newest entry it is a no-op.
func (m *Map) Redo() bool {
	if !m.CanRedo() {
		return false
	}
	m.restore(m.index + 1)
	return true
}

func (m *Map) restore(index int) {
	if index < 0 {
		index = 0
	}
	if index > len(m.snapshots)-1 {
		index = len(m.snapshots) - 1
	}
	m.index = index
	// Later in-place edits must not reach the stored snapshot.
	m.Lines = m.snapshots[index].lines.Clone()
	m.Snap24 = m.snapshots[index].snap24
	m.refresh()
	m.clampCurrentSection(0)
}
