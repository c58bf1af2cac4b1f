package chart

import "testing"

func TestNoteStatusClasses(t *testing.T) {
	cases := []struct {
		s                       NoteStatus
		short, active, longEdge bool
	}{
		{Normal, true, true, false},
		{Attack, true, true, false},
		{LongStart, false, true, true},
		{LongEnd, false, true, true},
		{None, false, false, false},
		{Invalid, false, false, false},
	}
	for _, c := range cases {
		if c.s.IsShort() != c.short || c.s.IsActive() != c.active || c.s.IsLongEdge() != c.longEdge {
			t.Fatalf("%v: short=%v active=%v edge=%v", c.s, c.s.IsShort(), c.s.IsActive(), c.s.IsLongEdge())
		}
	}
	if NoteStatus(9).Valid() {
		t.Fatalf("NoteStatus(9) reported valid")
	}
}

func TestParseNoteStatus(t *testing.T) {
	for _, s := range []NoteStatus{Normal, Attack, LongStart, LongEnd, None} {
		got, err := ParseNoteStatus(s.String())
		if err != nil || got != s {
			t.Fatalf("ParseNoteStatus(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseNoteStatus("invalid"); err == nil {
		t.Fatalf("invalid is not a placeable status")
	}
}
