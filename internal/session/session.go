package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ChartState is the editing position of a single chart.
type ChartState struct {
	Difficulty string `json:"difficulty"`
	Section    int    `json:"section"`
	Line       int    `json:"line"`
	Lane       int    `json:"lane"`
	NotesMode  string `json:"notes_mode,omitempty"`
	AudioPath  string `json:"audio_path,omitempty"`
}

// Session stores the state of every chart that was opened.
type Session struct {
	Charts    map[string]ChartState `json:"charts"`
	LastChart string                `json:"last_chart,omitempty"`
	LastSaved time.Time             `json:"last_saved"`
}

// Manager handles session persistence
type Manager struct {
	mu       sync.RWMutex
	session  Session
	path     string
	dirty    bool
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewManager opens the session in the XDG state directory and starts the
// autosave loop.
func NewManager() (*Manager, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}
	return Open(path, 15*time.Second), nil
}

// Open loads the session stored at path. A positive interval starts a
// background loop saving pending changes.
func Open(path string, interval time.Duration) *Manager {
	m := &Manager{
		session:  Session{Charts: make(map[string]ChartState)},
		path:     path,
		stopChan: make(chan struct{}),
	}
	m.load()
	if interval > 0 {
		go m.autosaveLoop(interval)
	}
	return m
}

func sessionPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "notemap", "session.json"), nil
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return // No existing session, start fresh
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return
	}
	if session.Charts == nil {
		session.Charts = make(map[string]ChartState)
	}
	m.session = session
}

// Save persists the session to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return nil
	}

	m.session.LastSaved = time.Now()
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return err
	}

	m.dirty = false
	return nil
}

// ForceSave saves even if not dirty
func (m *Manager) ForceSave() error {
	m.mu.Lock()
	m.dirty = true
	m.mu.Unlock()
	return m.Save()
}

// ChartState returns the saved state for a chart.
func (m *Manager) ChartState(absPath string) (ChartState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.session.Charts[absPath]
	return state, ok
}

// SetChartState updates the state for a chart and marks it as the last one.
func (m *Manager) SetChartState(absPath string, state ChartState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Charts[absPath] = state
	m.session.LastChart = absPath
	m.dirty = true
}

func (m *Manager) LastChart() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.LastChart
}

func (m *Manager) autosaveLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = m.Save()
		case <-m.stopChan:
			return
		}
	}
}

// Stop stops the autosave loop and saves final state
func (m *Manager) Stop() error {
	m.stopOnce.Do(func() { close(m.stopChan) })
	return m.ForceSave()
}
