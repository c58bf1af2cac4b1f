package chart

import (
	"math"
	"testing"
)

func bpms(m *Map) []float64 {
	out := make([]float64, len(m.Lines))
	for i := range m.Lines {
		out[i] = m.Lines[i].BPM
	}
	return out
}

func TestSetBPMPropagatesThroughRegion(t *testing.T) {
	m := FromLines(testOptions(), 120, false, linesWithBPM(120, 120, 120, 140))
	if !m.SetOption(0, BPMOption{Value: 140}) {
		t.Fatalf("SetOption = false, want true")
	}
	for i, bpm := range bpms(m) {
		if bpm != 140 {
			t.Fatalf("line %d bpm = %v, want 140", i, bpm)
		}
	}
	if !m.Lines[0].BarLine {
		t.Fatalf("line 0 is not a bar line")
	}
	if len(m.BPMChanges) != 1 || m.BPMChanges[0].BPM != 140 {
		t.Fatalf("BPMChanges = %v, want a single 140 entry", m.BPMChanges)
	}
}

func TestSetBPMStopsAtNextRegion(t *testing.T) {
	m := FromLines(testOptions(), 120, false, linesWithBPM(120, 120, 150, 120))
	m.SetOption(0, BPMOption{Value: 140})
	want := []float64{140, 140, 150, 120}
	for i, bpm := range bpms(m) {
		if bpm != want[i] {
			t.Fatalf("bpms = %v, want %v", bpms(m), want)
		}
	}
}

func TestSetBPMMidMapMarksBarLine(t *testing.T) {
	m := newTestMap(8)
	m.SetOption(5, BPMOption{Value: 150})
	want := []float64{120, 120, 120, 120, 120, 150, 150, 150}
	for i, bpm := range bpms(m) {
		if bpm != want[i] {
			t.Fatalf("bpms = %v, want %v", bpms(m), want)
		}
	}
	if !m.Lines[5].BarLine {
		t.Fatalf("line 5 is not a bar line")
	}
	if len(m.BPMChanges) != 2 || m.BPMChanges[1].Time != 5*15.0/120 {
		t.Fatalf("BPMChanges = %v", m.BPMChanges)
	}
}

func TestClearBarLineMergesRegion(t *testing.T) {
	m := newTestMap(8)
	m.SetOption(5, BPMOption{Value: 150})
	m.SetOption(5, SpeedOption{Value: 2})

	if !m.SetOption(5, BarLineOption{Value: false}) {
		t.Fatalf("SetOption = false, want true")
	}
	for i := range m.Lines {
		if m.Lines[i].BPM != 120 || m.Lines[i].Speed != 1 {
			t.Fatalf("line %d = %+v, want bpm 120 speed 1", i, m.Lines[i])
		}
	}
	if m.Lines[5].BarLine {
		t.Fatalf("line 5 is still a bar line")
	}
}

func TestBarLineOnFirstLineIsFixed(t *testing.T) {
	m := newTestMap(4)
	if m.SetOption(0, BarLineOption{Value: false}) {
		t.Fatalf("SetOption on line 0 = true, want false")
	}
	if !m.Lines[0].BarLine {
		t.Fatalf("line 0 lost its bar line")
	}
}

func TestBarLineStatePromotesBoundary(t *testing.T) {
	m := newTestMap(8)
	m.SetOption(5, BarLineStateOption{Value: false})
	for i := range m.Lines {
		if m.Lines[i].BarLineState != (i < 5) {
			t.Fatalf("line %d BarLineState = %v", i, m.Lines[i].BarLineState)
		}
	}
	if !m.Lines[5].BarLine {
		t.Fatalf("line 5 is not a bar line")
	}
}

func TestInBindPropagates(t *testing.T) {
	m := newTestMap(6)
	m.SetOption(2, InBindOption{Value: true})
	for i := range m.Lines {
		if m.Lines[i].InBind != (i >= 2) {
			t.Fatalf("line %d InBind = %v", i, m.Lines[i].InBind)
		}
	}
}

func TestSetOptionRejectsBadInput(t *testing.T) {
	m := newTestMap(4)
	if m.SetOption(1, BPMOption{Value: 0}) {
		t.Fatalf("zero bpm accepted")
	}
	if m.SetOption(9, SpeedOption{Value: 2}) {
		t.Fatalf("out of range line accepted")
	}
	if m.SetOption(1, SpeedOption{Value: 1}) {
		t.Fatalf("unchanged speed accepted")
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -3} {
		if m.SetOption(1, BPMOption{Value: v}) {
			t.Fatalf("bpm %v accepted", v)
		}
		if m.SetOption(1, SpeedOption{Value: v}) {
			t.Fatalf("speed %v accepted", v)
		}
	}
	for i, ln := range m.Lines {
		if ln.BPM != 120 || ln.Speed != 1 {
			t.Fatalf("line %d = bpm %v speed %v, want 120 and 1", i, ln.BPM, ln.Speed)
		}
	}
	if m.HistoryLen() != 1 {
		t.Fatalf("HistoryLen = %d, want 1", m.HistoryLen())
	}
}

func TestOptionsApply(t *testing.T) {
	m := newTestMap(4)
	o, ok := m.OptionsAt(1)
	if !ok {
		t.Fatalf("OptionsAt(1) not found")
	}
	o = o.Apply(BPMOption{Value: 180}).Apply(InBindOption{Value: true})
	if o.BPM != 180 || !o.InBind || o.Speed != 1 {
		t.Fatalf("options = %+v", o)
	}
	if m.Lines[1].BPM != 120 {
		t.Fatalf("Apply changed the map")
	}
}
