package chart

import "sort"

// SearchActiveTime lists the start time of every line holding notes.
func SearchActiveTime(lines Lines) []ActiveTime {
	var out []ActiveTime
	t := 0.0
	for i := range lines {
		if n := lines[i].ActiveCount(); n > 0 {
			out = append(out, ActiveTime{Count: n, Time: t})
		}
		t += lines[i].duration()
	}
	return out
}

// GetBPMChanges lists the tempo breakpoints, starting with the first line.
func GetBPMChanges(lines Lines) []BPMChange {
	if len(lines) == 0 {
		return nil
	}
	out := []BPMChange{{BPM: lines[0].BPM, Time: 0}}
	t := 0.0
	for i := 1; i < len(lines); i++ {
		prev := &lines[i-1]
		t += prev.duration()
		if prev.BPM != lines[i].BPM {
			out = append(out, BPMChange{BPM: lines[i].BPM, Time: t})
		}
	}
	return out
}

// LineTimes returns the start time of every line plus the total length as the
// final element.
func LineTimes(lines Lines) []float64 {
	out := make([]float64, len(lines)+1)
	for i := range lines {
		out[i+1] = out[i] + lines[i].duration()
	}
	return out
}

// ClapIndex returns the index of the first active line at or after t.
func ClapIndex(active []ActiveTime, t float64) (int, bool) {
	i := sort.Search(len(active), func(i int) bool { return active[i].Time >= t })
	if i >= len(active) {
		return 0, false
	}
	return i, true
}
