package chart

import "testing"

func testOptions() Options {
	return Options{SectionLineCount: 4, Columns: 2, HistorySize: 50}
}

func newTestMap(lineCount int) *Map {
	return NewMap(testOptions(), 120, lineCount)
}

func linesWithBPM(bpms ...float64) Lines {
	lines := make(Lines, len(bpms))
	for i, bpm := range bpms {
		lines[i] = Line{Status: blankStatus(), BPM: bpm, Speed: 1, BarLineState: true, BarLine: i == 0}
	}
	return lines
}

func laneStatus(m *Map, lane int) []NoteStatus {
	out := make([]NoteStatus, len(m.Lines))
	for i := range m.Lines {
		out[i] = m.Lines[i].Status[lane]
	}
	return out
}

func assertLane(t *testing.T, m *Map, lane int, want []NoteStatus) {
	t.Helper()
	got := laneStatus(m, lane)
	if len(got) != len(want) {
		t.Fatalf("lane %d has %d lines, want %d (%v)", lane, len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("lane %d = %v, want %v", lane, got, want)
		}
	}
}

func assertNoInvalid(t *testing.T, m *Map) {
	t.Helper()
	for i := range m.Lines {
		for lane, s := range m.Lines[i].Status {
			if s == Invalid {
				t.Fatalf("line %d lane %d is invalid", i, lane)
			}
		}
	}
}

// assertHoldsPaired checks that every hold start is followed by covered cells
// and an end on the same lane.
func assertHoldsPaired(t *testing.T, m *Map) {
	t.Helper()
	for lane := 0; lane < Lanes; lane++ {
		open := -1
		for i := range m.Lines {
			s := m.Lines[i].Status[lane]
			switch {
			case s == Invalid && open < 0:
				t.Fatalf("lane %d line %d invalid outside a hold", lane, i)
			case s == LongStart && open >= 0:
				t.Fatalf("lane %d line %d start inside a hold", lane, i)
			case s == LongStart:
				if i+1 < len(m.Lines) && (m.Lines[i+1].Status[lane] == Invalid || m.Lines[i+1].Status[lane] == LongEnd) {
					open = i
				}
			case s == LongEnd:
				open = -1
			case s != Invalid && open >= 0:
				t.Fatalf("lane %d line %d = %v inside hold opened at %d", lane, i, s, open)
			}
		}
		if open >= 0 {
			t.Fatalf("lane %d hold opened at %d never ends", lane, open)
		}
	}
}
