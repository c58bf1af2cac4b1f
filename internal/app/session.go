package app

import (
	"github.com/kobzarvs/notemap/internal/session"
)

// stateSync hands the editing position to the session manager whenever it
// changed, so the session's own save loop persists it.
type stateSync struct {
	sessions *session.Manager
	key      string
	audio    string
	last     session.ChartState
	pushed   bool
}

func newStateSync(sessions *session.Manager, key, audio string) *stateSync {
	return &stateSync{sessions: sessions, key: key, audio: audio}
}

// push records st and reports whether it differed from the last state.
func (s *stateSync) push(st session.ChartState) bool {
	if s.sessions == nil || s.key == "" {
		return false
	}
	st.AudioPath = s.audio
	if s.pushed && st == s.last {
		return false
	}
	s.sessions.SetChartState(s.key, st)
	s.last = st
	s.pushed = true
	return true
}
