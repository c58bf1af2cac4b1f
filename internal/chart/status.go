package chart

import "fmt"

// NoteStatus is the content of one lane on one line.
// The numeric order is significant: short notes < 2, hold markers < 4,
// everything >= 4 is not an active note.
type NoteStatus uint8

const (
	Normal NoteStatus = iota
	Attack
	LongStart
	LongEnd
	None
	Invalid
)

// Lanes is the fixed number of note columns.
const Lanes = 4

func (s NoteStatus) IsShort() bool {
	return s < 2
}

// IsActive reports whether the lane holds a note or a hold marker.
func (s NoteStatus) IsActive() bool {
	return s < 4
}

func (s NoteStatus) IsLongEdge() bool {
	return s == LongStart || s == LongEnd
}

func (s NoteStatus) Valid() bool {
	return s <= Invalid
}

func (s NoteStatus) String() string {
	switch s {
	case Normal:
		return "normal"
	case Attack:
		return "attack"
	case LongStart:
		return "longStart"
	case LongEnd:
		return "longEnd"
	case None:
		return "none"
	case Invalid:
		return "invalid"
	}
	return fmt.Sprintf("NoteStatus(%d)", uint8(s))
}

// ParseNoteStatus maps a notes mode name to the status it places.
func ParseNoteStatus(name string) (NoteStatus, error) {
	switch name {
	case "normal":
		return Normal, nil
	case "attack":
		return Attack, nil
	case "longStart":
		return LongStart, nil
	case "longEnd":
		return LongEnd, nil
	case "none":
		return None, nil
	}
	return None, fmt.Errorf("unknown note status %q", name)
}
