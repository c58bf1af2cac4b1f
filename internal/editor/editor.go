package editor

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/notemap/internal/chart"
	"github.com/kobzarvs/notemap/internal/chartfile"
	"github.com/kobzarvs/notemap/internal/config"
	"github.com/kobzarvs/notemap/internal/logger"
	"github.com/kobzarvs/notemap/internal/session"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeCommand
)

const (
	actionLaneLeft           = "lane_left"
	actionLaneRight          = "lane_right"
	actionLineUp             = "line_up"
	actionLineDown           = "line_down"
	actionSectionNext        = "section_next"
	actionSectionPrev        = "section_prev"
	actionMapStart           = "map_start"
	actionMapEnd             = "map_end"
	actionPlaceNote          = "place_note"
	actionClearNote          = "clear_note"
	actionModeNormal         = "mode_normal"
	actionModeAttack         = "mode_attack"
	actionModeLongStart      = "mode_long_start"
	actionModeLongEnd        = "mode_long_end"
	actionUndo               = "undo"
	actionRedo               = "redo"
	actionToggleSnap         = "toggle_snap"
	actionAddSection         = "add_section"
	actionRemoveSection      = "remove_section"
	actionToggleSelect       = "toggle_select"
	actionClearSelection     = "clear_selection"
	actionCopy               = "copy"
	actionPaste              = "paste"
	actionToggleBarLine      = "toggle_barline"
	actionToggleBarLineState = "toggle_barline_state"
	actionToggleInBind       = "toggle_inbind"
	actionBPMUp              = "bpm_up"
	actionBPMDown            = "bpm_down"
	actionSpeedUp            = "speed_up"
	actionSpeedDown          = "speed_down"
	actionDifficultyNext     = "difficulty_next"
	actionEnterCommand       = "enter_command"
	actionSave               = "save"
	actionQuit               = "quit"
)

// positioner is a time source that reports its playback position.
type positioner interface {
	Position() time.Duration
}

// Cursor addresses one cell of the current map.
type Cursor struct {
	Line int
	Lane int
}

type Editor struct {
	chart *chart.Chart
	path  string
	track chart.TimeSource

	mode      Mode
	keymap    map[string]string
	cursor    Cursor
	anchor    Cursor
	selecting bool
	clipboard chart.Clipboard
	notesMode chart.NoteStatus

	cmd           []rune
	statusMessage string
	dirty         bool
	changeTick    int
	laneWidth     int

	styleMain    tcell.Style
	styleStatus  tcell.Style
	styleBarLine tcell.Style
	cursorBg     tcell.Color
	selectionBg  tcell.Color
	styleNormal  tcell.Style
	styleAttack  tcell.Style
	styleLong    tcell.Style
	styleClap    tcell.Style

	// actionHook is called with every executed action; tests use it.
	actionHook func(action string)
}

func New(cfg config.Config, c *chart.Chart) *Editor {
	normal := make(map[string]string, len(cfg.Keymap.Normal))
	for k, v := range cfg.Keymap.Normal {
		normal[k] = v
	}
	laneWidth := cfg.Editor.LaneWidth
	if laneWidth < 1 {
		laneWidth = 1
	}
	mainFg := parseColor(cfg.Theme.Foreground, tcell.ColorWhite)
	mainBg := parseColor(cfg.Theme.Background, tcell.ColorBlack)
	statusFg := parseColor(cfg.Theme.StatuslineForeground, tcell.ColorBlack)
	statusBg := parseColor(cfg.Theme.StatuslineBackground, tcell.ColorGray)
	main := tcell.StyleDefault.Foreground(mainFg).Background(mainBg)
	return &Editor{
		chart:        c,
		mode:         ModeNormal,
		keymap:       normal,
		notesMode:    chart.Normal,
		laneWidth:    laneWidth,
		styleMain:    main,
		styleStatus:  tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
		styleBarLine: main.Foreground(parseColor(cfg.Theme.BarLineForeground, tcell.ColorGray)),
		cursorBg:     parseColor(cfg.Theme.CursorBackground, tcell.ColorNavy),
		selectionBg:  parseColor(cfg.Theme.SelectionBackground, tcell.ColorDarkSlateGray),
		styleNormal:  main.Foreground(parseColor(cfg.Theme.NormalNote, tcell.ColorBlue)),
		styleAttack:  main.Foreground(parseColor(cfg.Theme.AttackNote, tcell.ColorRed)),
		styleLong:    main.Foreground(parseColor(cfg.Theme.LongNote, tcell.ColorGreen)),
		styleClap:    main.Foreground(parseColor(cfg.Theme.ClapForeground, tcell.ColorYellow)),
	}
}

// SetPath sets the file the chart is written to.
func (e *Editor) SetPath(path string) {
	e.path = path
}

func (e *Editor) Path() string {
	return e.path
}

// SetTimeSource attaches the song the playback cursor follows.
func (e *Editor) SetTimeSource(ts chart.TimeSource) {
	e.track = ts
	e.syncTime()
}

func (e *Editor) Chart() *chart.Chart {
	return e.chart
}

func (e *Editor) Cursor() Cursor {
	return e.cursor
}

func (e *Editor) Dirty() bool {
	return e.dirty
}

// ChangeTick increases with every edit of the chart.
func (e *Editor) ChangeTick() int {
	return e.changeTick
}

func (e *Editor) StatusMessage() string {
	return e.statusMessage
}

func (e *Editor) current() *chart.Map {
	return e.chart.Current()
}

// State captures the editing position for the session file.
func (e *Editor) State() session.ChartState {
	return session.ChartState{
		Difficulty: e.chart.Difficulty().String(),
		Section:    e.current().CurrentSection,
		Line:       e.cursor.Line,
		Lane:       e.cursor.Lane,
		NotesMode:  e.notesMode.String(),
	}
}

// Restore applies a saved editing position. Unknown values are ignored.
func (e *Editor) Restore(st session.ChartState) {
	if d, err := chart.ParseDifficulty(st.Difficulty); err == nil {
		e.chart.SelectDifficulty(d)
	}
	if s, err := chart.ParseNoteStatus(st.NotesMode); err == nil && s.IsActive() {
		e.notesMode = s
	}
	e.cursor = Cursor{Line: st.Line, Lane: st.Lane}
	e.clampCursor()
	e.current().MoveSection(st.Section)
	e.ensureCursorVisible()
	e.syncTime()
}

// Snapshot encodes the chart as it would be saved.
func (e *Editor) Snapshot() ([]byte, error) {
	return chartfile.Marshal(e.chart)
}

// HandleKey processes one key event and reports whether the editor should
// quit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	if e.mode != ModeCommand && e.statusMessage != "" {
		e.statusMessage = ""
	}
	if e.mode == ModeCommand {
		return e.handleCommand(ev)
	}
	return e.handleNormal(ev)
}

func (e *Editor) handleNormal(ev *tcell.EventKey) bool {
	key := keyString(ev)
	if key == "" {
		return false
	}
	action, ok := e.keymap[key]
	if !ok {
		return false
	}
	return e.execAction(action)
}

func (e *Editor) handleCommand(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		e.mode = ModeNormal
		e.cmd = e.cmd[:0]
		return false
	case tcell.KeyEnter:
		cmd := strings.TrimSpace(string(e.cmd))
		e.mode = ModeNormal
		e.cmd = e.cmd[:0]
		return e.execCommand(cmd)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(e.cmd) > 0 {
			e.cmd = e.cmd[:len(e.cmd)-1]
		} else {
			e.mode = ModeNormal
		}
		return false
	case tcell.KeyCtrlU:
		e.cmd = e.cmd[:0]
		return false
	case tcell.KeyRune:
		e.cmd = append(e.cmd, ev.Rune())
		return false
	}
	return false
}

func (e *Editor) execAction(action string) bool {
	if e.actionHook != nil {
		e.actionHook(action)
	}
	m := e.current()
	switch action {
	case actionLaneLeft:
		e.moveCursor(0, -1)
	case actionLaneRight:
		e.moveCursor(0, 1)
	case actionLineUp:
		e.moveCursor(-1, 0)
	case actionLineDown:
		e.moveCursor(1, 0)
	case actionSectionNext:
		e.jumpSection(1)
	case actionSectionPrev:
		e.jumpSection(-1)
	case actionMapStart:
		e.moveCursor(-len(m.Lines), 0)
	case actionMapEnd:
		e.moveCursor(len(m.Lines), 0)
	case actionPlaceNote:
		e.placeNote()
	case actionClearNote:
		e.edited(m.ChangeNotesStatus(e.cursor.Line, e.cursor.Lane, chart.None))
	case actionModeNormal:
		e.setNotesMode(chart.Normal)
	case actionModeAttack:
		e.setNotesMode(chart.Attack)
	case actionModeLongStart:
		e.setNotesMode(chart.LongStart)
	case actionModeLongEnd:
		e.setNotesMode(chart.LongEnd)
	case actionUndo:
		if !e.edited(m.Undo()) {
			e.setStatus("already at oldest change")
		}
		e.clampCursor()
	case actionRedo:
		if !e.edited(m.Redo()) {
			e.setStatus("already at newest change")
		}
		e.clampCursor()
	case actionToggleSnap:
		m.ChangeSnap()
		e.edited(true)
		e.clampCursor()
		e.setStatus("snap " + snapName(m.Snap24))
	case actionAddSection:
		e.addSection()
	case actionRemoveSection:
		e.removeSection()
	case actionToggleSelect:
		if e.selecting {
			e.selecting = false
		} else {
			e.selecting = true
			e.anchor = e.cursor
		}
	case actionClearSelection:
		e.selecting = false
	case actionCopy:
		e.copySelection()
	case actionPaste:
		if e.clipboard.Empty() {
			e.setStatus("clipboard is empty")
			return false
		}
		e.edited(m.Paste(e.clipboard, e.cursor.Line, e.cursor.Lane))
	case actionToggleBarLine:
		ln, _ := m.Line(e.cursor.Line)
		e.edited(m.SetOption(e.cursor.Line, chart.BarLineOption{Value: !ln.BarLine}))
	case actionToggleBarLineState:
		ln, _ := m.Line(e.cursor.Line)
		e.edited(m.SetOption(e.cursor.Line, chart.BarLineStateOption{Value: !ln.BarLineState}))
	case actionToggleInBind:
		ln, _ := m.Line(e.cursor.Line)
		e.edited(m.SetOption(e.cursor.Line, chart.InBindOption{Value: !ln.InBind}))
	case actionBPMUp, actionBPMDown:
		ln, _ := m.Line(e.cursor.Line)
		step := 1.0
		if action == actionBPMDown {
			step = -1
		}
		e.edited(m.SetOption(e.cursor.Line, chart.BPMOption{Value: ln.BPM + step}))
	case actionSpeedUp, actionSpeedDown:
		ln, _ := m.Line(e.cursor.Line)
		step := 0.1
		if action == actionSpeedDown {
			step = -0.1
		}
		speed := math.Round((ln.Speed+step)*10) / 10
		if speed <= 0 {
			return false
		}
		e.edited(m.SetOption(e.cursor.Line, chart.SpeedOption{Value: speed}))
	case actionDifficultyNext:
		next := chart.Difficulties[(int(e.chart.Difficulty())+1)%len(chart.Difficulties)]
		e.SelectDifficulty(next)
	case actionEnterCommand:
		e.mode = ModeCommand
		e.cmd = e.cmd[:0]
	case actionSave:
		if err := e.Save(""); err != nil {
			e.setError("save", err)
			return false
		}
		e.setStatus("written")
	case actionQuit:
		if e.dirty {
			e.setStatus("unsaved changes (use :q!)")
			return false
		}
		return true
	}
	return false
}

func (e *Editor) execCommand(cmd string) bool {
	if cmd == "" {
		return false
	}
	fields := strings.Fields(cmd)
	name := fields[0]
	args := fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(cmd, name))
	m := e.current()

	switch name {
	case "w":
		if err := e.Save(rest); err != nil {
			e.setError("save", err)
			return false
		}
		e.setStatus("written")
	case "q":
		if e.dirty {
			e.setStatus("unsaved changes (use :q!)")
			return false
		}
		return true
	case "q!":
		return true
	case "wq", "x":
		if err := e.Save(rest); err != nil {
			e.setError("save", err)
			return false
		}
		return true
	case "bpm", "speed":
		if len(args) != 1 {
			e.setStatus("expected one number")
			return false
		}
		opt, err := parseOption(name, args[0])
		if err != nil {
			e.setStatus(err.Error())
			return false
		}
		e.edited(m.SetOption(e.cursor.Line, opt))
	case "offset":
		v, ok := e.floatArg(args)
		if !ok {
			return false
		}
		e.chart.SetStartTime(v)
		e.markDirty()
		e.syncTime()
	case "title":
		e.chart.Meta.Title = rest
		e.markDirty()
	case "artist":
		e.chart.Meta.Artist = rest
		e.markDirty()
	case "level":
		e.chart.Meta.Levels[e.chart.Difficulty()] = rest
		e.markDirty()
	case "diff":
		d, err := chart.ParseDifficulty(rest)
		if err != nil {
			e.setStatus(err.Error())
			return false
		}
		e.SelectDifficulty(d)
	case "clone":
		d, err := chart.ParseDifficulty(rest)
		if err != nil {
			e.setStatus(err.Error())
			return false
		}
		if d == e.chart.Difficulty() {
			e.setStatus("cannot clone a map onto itself")
			return false
		}
		e.chart.CloneDifficulty(e.chart.Difficulty(), d)
		e.markDirty()
		e.setStatus(fmt.Sprintf("%s copied to %s", e.chart.Difficulty(), d))
	case "delete":
		e.chart.DeleteMap(e.chart.Difficulty())
		e.markDirty()
		e.clampCursor()
		e.setStatus(e.chart.Difficulty().String() + " reset")
	case "seek":
		v, ok := e.floatArg(args)
		if !ok {
			return false
		}
		if e.track == nil {
			e.setStatus("no audio loaded")
			return false
		}
		if err := e.chart.Seek(v, e.track); err != nil {
			e.setError("seek", err)
			return false
		}
		pos := e.chart.BarPosition(e.chart.ChartTime())
		e.cursor.Line = pos.Line
		e.ensureCursorVisible()
		if p, ok := e.track.(positioner); ok {
			e.setStatus("at " + p.Position().Round(time.Millisecond).String())
		}
	case "opt":
		e.chart.SaveTemporaryOption(e.cursor.Line)
		e.setStatus(formatOptions(e.chart.TemporaryOption()))
	case "set":
		if len(args) != 2 {
			e.setStatus("usage: set <bpm|speed|barline|barlinestate|inbind> <value>")
			return false
		}
		opt, err := parseOption(args[0], args[1])
		if err != nil {
			e.setStatus(err.Error())
			return false
		}
		e.chart.UpdateTemporaryOption(opt)
		e.setStatus(formatOptions(e.chart.TemporaryOption()))
	case "apply":
		e.applyTemporaryOption()
	default:
		e.setStatus("unknown command: " + name)
	}
	return false
}

// Save writes the chart to path, or to the current file when path is empty.
func (e *Editor) Save(path string) error {
	if path == "" {
		if e.path == "" {
			return errors.New("no file name")
		}
		path = e.path
	}
	if err := chartfile.Save(path, e.chart); err != nil {
		return err
	}
	e.path = path
	e.dirty = false
	logger.Info("chart saved", "path", path)
	return nil
}

func (e *Editor) placeNote() {
	m := e.current()
	ln, ok := m.Line(e.cursor.Line)
	if !ok {
		return
	}
	cur := ln.Status[e.cursor.Lane]
	if cur == chart.Invalid {
		e.setStatus("covered by a long note")
		return
	}
	status := e.notesMode
	if cur == status {
		status = chart.None
	}
	e.edited(m.ChangeNotesStatus(e.cursor.Line, e.cursor.Lane, status))
}

func (e *Editor) addSection() {
	m := e.current()
	section, _ := e.sectionOf(e.cursor.Line)
	sections := m.Sections()
	insert := len(m.Lines) - 1
	if section >= 0 && section < len(sections) {
		if last := lastLine(sections[section]); last >= 0 {
			insert = last
		}
	}
	if e.edited(m.AddSection(section, insert)) {
		logger.Debug("section added", "section", section, "after", insert)
	}
}

func (e *Editor) removeSection() {
	m := e.current()
	section, _ := e.sectionOf(e.cursor.Line)
	sections := m.Sections()
	if section < 0 || section >= len(sections) || !m.RemoveSection(sections[section]) {
		e.setStatus("cannot remove the last section")
		return
	}
	e.edited(true)
	e.clampCursor()
	e.ensureCursorVisible()
	logger.Debug("section removed", "section", section)
}

func (e *Editor) copySelection() {
	sel := e.selection()
	e.clipboard = e.current().Copy([]chart.Selection{sel})
	e.selecting = false
	e.setStatus(fmt.Sprintf("copied %d lines", sel.Line.End-sel.Line.Start+1))
}

// selection is the rectangle between the anchor and the cursor, or the cursor
// cell when nothing is selected.
func (e *Editor) selection() chart.Selection {
	a := e.cursor
	if e.selecting {
		a = e.anchor
	}
	return chart.Selection{
		Lane: chart.Range{Start: min(a.Lane, e.cursor.Lane), End: max(a.Lane, e.cursor.Lane)},
		Line: chart.Range{Start: min(a.Line, e.cursor.Line), End: max(a.Line, e.cursor.Line)},
	}
}

func (e *Editor) inSelection(line, lane int) bool {
	if !e.selecting {
		return false
	}
	sel := e.selection()
	return line >= sel.Line.Start && line <= sel.Line.End && lane >= sel.Lane.Start && lane <= sel.Lane.End
}

func (e *Editor) applyTemporaryOption() {
	m := e.current()
	line := e.cursor.Line
	cur, ok := m.OptionsAt(line)
	if !ok {
		return
	}
	want := e.chart.TemporaryOption()
	changed := false
	if want.BPM != cur.BPM {
		changed = m.SetOption(line, chart.BPMOption{Value: want.BPM}) || changed
	}
	if want.Speed != cur.Speed {
		changed = m.SetOption(line, chart.SpeedOption{Value: want.Speed}) || changed
	}
	if want.BarLineState != cur.BarLineState {
		changed = m.SetOption(line, chart.BarLineStateOption{Value: want.BarLineState}) || changed
	}
	if want.InBind != cur.InBind {
		changed = m.SetOption(line, chart.InBindOption{Value: want.InBind}) || changed
	}
	if now, _ := m.OptionsAt(line); want.BarLine != now.BarLine {
		changed = m.SetOption(line, chart.BarLineOption{Value: want.BarLine}) || changed
	}
	if !e.edited(changed) {
		e.setStatus("options unchanged")
	}
}

// SelectDifficulty switches the edited map and keeps the cursor inside it.
func (e *Editor) SelectDifficulty(d chart.Difficulty) {
	e.chart.SelectDifficulty(d)
	e.selecting = false
	e.clampCursor()
	e.ensureCursorVisible()
	e.syncTime()
	e.setStatus("difficulty " + d.String())
}

func (e *Editor) setNotesMode(s chart.NoteStatus) {
	e.notesMode = s
	e.setStatus("notes mode " + s.String())
}

// edited records a successful chart change.
func (e *Editor) edited(ok bool) bool {
	if ok {
		e.markDirty()
		e.chart.Refresh()
	}
	return ok
}

func (e *Editor) markDirty() {
	e.dirty = true
	e.changeTick++
}

func (e *Editor) moveCursor(dLine, dLane int) {
	e.cursor.Line += dLine
	e.cursor.Lane += dLane
	e.clampCursor()
	e.ensureCursorVisible()
	e.syncTime()
}

func (e *Editor) jumpSection(delta int) {
	m := e.current()
	sections := m.Sections()
	section, _ := e.sectionOf(e.cursor.Line)
	section += delta
	if section < 0 || section >= len(sections) {
		return
	}
	if first := firstLine(sections[section]); first >= 0 {
		e.cursor.Line = first
	}
	e.ensureCursorVisible()
	e.syncTime()
}

func (e *Editor) clampCursor() {
	n := len(e.current().Lines)
	if e.cursor.Line >= n {
		e.cursor.Line = n - 1
	}
	if e.cursor.Line < 0 {
		e.cursor.Line = 0
	}
	if e.cursor.Lane >= chart.Lanes {
		e.cursor.Lane = chart.Lanes - 1
	}
	if e.cursor.Lane < 0 {
		e.cursor.Lane = 0
	}
}

// ensureCursorVisible scrolls the section window so the cursor's section is
// one of the displayed columns.
func (e *Editor) ensureCursorVisible() {
	m := e.current()
	section, ok := e.sectionOf(e.cursor.Line)
	if !ok {
		return
	}
	cols := m.Options().Columns
	if section < m.CurrentSection {
		m.MoveSection(section)
	} else if section >= m.CurrentSection+cols {
		m.MoveSection(section - cols + 1)
	}
}

// sectionOf finds the section holding line. Lines past the last complete
// half-beat belong to the last section.
func (e *Editor) sectionOf(line int) (int, bool) {
	sections := e.current().Sections()
	for s, halfBeats := range sections {
		if last := lastLine(halfBeats); last >= line {
			return s, true
		}
	}
	if len(sections) == 0 {
		return 0, false
	}
	return len(sections) - 1, true
}

func (e *Editor) syncTime() {
	t := e.chart.TimeAt(e.cursor.Line) + e.chart.StartTime/1000
	e.chart.UpdateCurrentTime(t, e.track)
}

func (e *Editor) floatArg(args []string) (float64, bool) {
	if len(args) != 1 {
		e.setStatus("expected one number")
		return 0, false
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		e.setStatus("not a number: " + args[0])
		return 0, false
	}
	return v, true
}

func (e *Editor) setStatus(msg string) {
	e.statusMessage = msg
}

func (e *Editor) setError(op string, err error) {
	logger.Error(op+" failed", "err", err)
	e.setStatus(op + ": " + err.Error())
}

func parseOption(name, value string) (chart.Option, error) {
	name = strings.ToLower(name)
	switch name {
	case "bpm", "speed":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if !(v > 0) || math.IsInf(v, 1) {
			return nil, fmt.Errorf("%s must be a positive number", name)
		}
		if name == "bpm" {
			return chart.BPMOption{Value: v}, nil
		}
		return chart.SpeedOption{Value: v}, nil
	case "barline", "barlinestate", "inbind":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		switch name {
		case "barline":
			return chart.BarLineOption{Value: v}, nil
		case "barlinestate":
			return chart.BarLineStateOption{Value: v}, nil
		}
		return chart.InBindOption{Value: v}, nil
	}
	return nil, fmt.Errorf("unknown option %q", name)
}

func formatOptions(o chart.LineOptions) string {
	return fmt.Sprintf("bpm %g speed %g barline %t state %t bind %t", o.BPM, o.Speed, o.BarLine, o.BarLineState, o.InBind)
}

func snapName(snap24 bool) string {
	if snap24 {
		return "24"
	}
	return "16"
}

func displayName(path string) string {
	if path == "" {
		return "[No Name]"
	}
	return filepath.Base(path)
}

func firstLine(halfBeats [][]int) int {
	if len(halfBeats) == 0 || len(halfBeats[0]) == 0 {
		return -1
	}
	return halfBeats[0][0]
}

func lastLine(halfBeats [][]int) int {
	if len(halfBeats) == 0 {
		return -1
	}
	hb := halfBeats[len(halfBeats)-1]
	if len(hb) == 0 {
		return -1
	}
	return hb[len(hb)-1]
}
