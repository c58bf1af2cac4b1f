package chart

import "testing"

func TestHistoryBounded(t *testing.T) {
	m := NewMap(Options{SectionLineCount: 4, Columns: 2, HistorySize: 3}, 120, 8)
	for i := 0; i < 5; i++ {
		m.ChangeNotesStatus(i, 0, Normal)
	}
	if m.HistoryLen() != 3 {
		t.Fatalf("HistoryLen = %d, want 3", m.HistoryLen())
	}
	if m.HistoryIndex() != 2 {
		t.Fatalf("HistoryIndex = %d, want 2", m.HistoryIndex())
	}
	if !m.Undo() || !m.Undo() {
		t.Fatalf("expected two undo steps")
	}
	if m.Undo() {
		t.Fatalf("Undo past the oldest entry = true, want false")
	}
	// The oldest kept entry is the state after the third edit.
	assertLane(t, m, 0, []NoteStatus{O, O, O, N, N, N, N, N})
}

func TestUndoRedo(t *testing.T) {
	m := newTestMap(4)
	m.ChangeNotesStatus(0, 0, Normal)
	m.ChangeNotesStatus(1, 1, Attack)

	m.Undo()
	if m.Lines[1].Status[1] != None || m.Lines[0].Status[0] != Normal {
		t.Fatalf("after undo line0=%v line1=%v", m.Lines[0].Status, m.Lines[1].Status)
	}
	if !m.CanRedo() {
		t.Fatalf("CanRedo = false, want true")
	}
	m.Redo()
	if m.Lines[1].Status[1] != Attack {
		t.Fatalf("after redo line1 lane1 = %v, want attack", m.Lines[1].Status[1])
	}
	if m.Redo() {
		t.Fatalf("Redo at the newest entry = true, want false")
	}
	if len(m.ActiveTime) != 2 {
		t.Fatalf("ActiveTime = %v, want two entries", m.ActiveTime)
	}
}

func TestEditAfterUndoDropsRedo(t *testing.T) {
	m := newTestMap(4)
	m.ChangeNotesStatus(0, 0, Normal)
	m.ChangeNotesStatus(1, 0, Normal)
	m.Undo()
	m.ChangeNotesStatus(2, 0, Attack)

	if m.CanRedo() {
		t.Fatalf("CanRedo = true after a new edit")
	}
	if m.HistoryLen() != 3 || m.HistoryIndex() != 2 {
		t.Fatalf("len=%d index=%d, want 3 2", m.HistoryLen(), m.HistoryIndex())
	}
	assertLane(t, m, 0, []NoteStatus{O, N, A, N})
}

func TestHistoryEntriesAreNotAliased(t *testing.T) {
	m := newTestMap(4)
	m.ChangeNotesStatus(0, 0, Normal)
	m.Lines[3].Status[0] = Attack

	m.Undo()
	m.Lines[2].Status[0] = Attack
	m.Redo()
	assertLane(t, m, 0, []NoteStatus{O, N, N, N})
}

func TestNoOpEditSkipsHistory(t *testing.T) {
	m := newTestMap(4)
	if m.ChangeNotesStatus(0, 0, None) {
		t.Fatalf("writing the same status = true, want false")
	}
	if m.HistoryLen() != 1 {
		t.Fatalf("HistoryLen = %d, want 1", m.HistoryLen())
	}
	m.pushHistory()
	if m.HistoryLen() != 2 {
		t.Fatalf("HistoryLen after pushHistory = %d, want 2", m.HistoryLen())
	}
}
