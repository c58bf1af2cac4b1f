package chart

import "testing"

func TestAssignSectionNormalSnap(t *testing.T) {
	lines := linesWithBPM(120, 120, 120, 120, 120, 120, 120, 120, 120)
	sections := AssignSection(lines, 4)
	if len(sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(sections))
	}
	if got := sections[0]; len(got) != 2 || got[0][0] != 0 || got[0][1] != 1 || got[1][0] != 2 || got[1][1] != 3 {
		t.Fatalf("section 0 = %v, want [[0 1] [2 3]]", got)
	}
	// A lone trailing line cannot close a half-beat.
	if got := sections[2]; len(got) != 0 {
		t.Fatalf("section 2 = %v, want no half-beats", got)
	}
}

func TestAssignSectionFineSnap(t *testing.T) {
	lines := linesWithBPM(120, 120, 120, 120, 120)
	lines[0].Snap24 = true
	lines[1].Snap24 = true
	lines[2].Snap24 = true
	sections := AssignSection(lines, 4)
	if len(sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(sections))
	}
	hb := sections[0]
	if len(hb) != 2 || len(hb[0]) != 3 || hb[0][2] != 2 || len(hb[1]) != 2 || hb[1][0] != 3 {
		t.Fatalf("half-beats = %v, want [[0 1 2] [3 4]]", hb)
	}
}

func TestChangeSnapRoundTrip(t *testing.T) {
	m := NewMap(Options{SectionLineCount: 8, Columns: 2, HistorySize: 10}, 150, 16)
	before := m.Lines.Clone()

	m.ChangeSnap()
	if !m.Snap24 {
		t.Fatalf("Snap24 = false after toggle")
	}
	if len(m.Lines) != 24 {
		t.Fatalf("lines after fine snap = %d, want 24", len(m.Lines))
	}
	for i := range m.Lines {
		if !m.Lines[i].Snap24 {
			t.Fatalf("line %d not fine snapped", i)
		}
	}
	if m.SectionLength != len(m.Sections()) {
		t.Fatalf("SectionLength = %d, want %d", m.SectionLength, len(m.Sections()))
	}

	m.ChangeSnap()
	if len(m.Lines) != len(before) {
		t.Fatalf("lines after round trip = %d, want %d", len(m.Lines), len(before))
	}
	for i := range before {
		if m.Lines[i] != before[i] {
			t.Fatalf("line %d = %+v, want %+v", i, m.Lines[i], before[i])
		}
	}
}

func TestChangeSnapSkipsNotesAndBarLines(t *testing.T) {
	m := NewMap(Options{SectionLineCount: 8, Columns: 2, HistorySize: 10}, 150, 8)
	m.ChangeNotesStatus(1, 0, Normal)
	m.SetOption(3, BarLineOption{Value: true})

	m.ChangeSnap()
	// Half-beats [0 1] and [2 3] stay, [4 5] and [6 7] grow.
	if len(m.Lines) != 10 {
		t.Fatalf("lines = %d, want 10", len(m.Lines))
	}
	if m.Lines[1].Status[0] != Normal || m.Lines[1].Snap24 {
		t.Fatalf("line 1 = %+v, want untouched normal note", m.Lines[1])
	}
	if !m.Lines[3].BarLine || m.Lines[3].Snap24 {
		t.Fatalf("line 3 = %+v, want untouched bar line", m.Lines[3])
	}

	m.ChangeSnap()
	if len(m.Lines) != 8 {
		t.Fatalf("lines after toggling back = %d, want 8", len(m.Lines))
	}
}

func TestChangeSnapKeepsHoldCovered(t *testing.T) {
	m := NewMap(Options{SectionLineCount: 8, Columns: 2, HistorySize: 10}, 150, 8)
	m.ChangeNotesStatus(0, 2, LongStart)
	m.ChangeNotesStatus(5, 2, LongEnd)

	m.ChangeSnap()
	assertHoldsPaired(t, m)
	if got := laneStatus(m, 2); got[0] != LongStart {
		t.Fatalf("lane 2 = %v, want hold start at 0", got)
	}
}

func TestChangeSnapUndo(t *testing.T) {
	m := NewMap(Options{SectionLineCount: 8, Columns: 2, HistorySize: 10}, 150, 8)
	m.ChangeSnap()
	if !m.Undo() {
		t.Fatalf("Undo = false, want true")
	}
	if m.Snap24 || len(m.Lines) != 8 {
		t.Fatalf("after undo Snap24=%v lines=%d, want false 8", m.Snap24, len(m.Lines))
	}
}
