package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/notemap/internal/chart"
)

const gutterWidth = 5

// Render draws the visible section columns, the status line and the command
// line.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	statusY := h - 2
	cmdY := h - 1
	viewHeight := h - 2
	if h < 2 {
		statusY = h - 1
		cmdY = h - 1
	}
	if viewHeight < 0 {
		viewHeight = 0
	}

	s.SetStyle(e.styleMain)
	s.Clear()

	m := e.current()
	sections := m.Sections()
	clap := e.clapLine()
	colWidth := gutterWidth + chart.Lanes*e.laneWidth + 1
	cols := m.Options().Columns
	for c := 0; c < cols; c++ {
		idx := m.CurrentSection + c
		x0 := c * colWidth
		if idx >= len(sections) || x0 >= w {
			break
		}
		lines := flatten(sections[idx])
		if idx == len(sections)-1 {
			for i := lastLine(sections[idx]) + 1; i < len(m.Lines); i++ {
				lines = append(lines, i)
			}
		}
		e.drawSection(s, x0, viewHeight, idx, lines, clap)
	}

	if statusY >= 0 {
		e.renderStatusline(s, w, statusY)
	}
	if cmdY >= 0 {
		cx := e.renderCommandline(s, w, cmdY)
		if e.mode == ModeCommand {
			s.ShowCursor(cx, cmdY)
		} else {
			s.HideCursor()
		}
	}
	s.Show()
}

func (e *Editor) drawSection(s tcell.Screen, x0, viewHeight, section int, lines []int, clap int) {
	m := e.current()
	if viewHeight <= 0 {
		return
	}
	header := "#" + strconv.Itoa(section+1)
	if len(lines) > 0 {
		header += fmt.Sprintf(" %g", m.Lines[lines[0]].BPM)
	}
	drawText(s, x0, 0, header, e.styleBarLine)

	// Keep the cursor row on screen when a section is taller than the view.
	offset := 0
	for i, idx := range lines {
		if idx == e.cursor.Line && i >= viewHeight-1 {
			offset = i - (viewHeight - 2)
		}
	}
	for row := 1; row < viewHeight; row++ {
		i := offset + row - 1
		if i >= len(lines) {
			break
		}
		idx := lines[i]
		ln := m.Lines[idx]
		gutterStyle := e.styleMain
		if ln.BarLine {
			gutterStyle = e.styleBarLine
		}
		if idx == clap {
			gutterStyle = e.styleClap
		}
		drawText(s, x0, row, fmt.Sprintf("%*d ", gutterWidth-1, idx), gutterStyle)
		for lane := 0; lane < chart.Lanes; lane++ {
			glyph, style := e.cellGlyph(ln, lane)
			switch {
			case idx == e.cursor.Line && lane == e.cursor.Lane:
				style = style.Background(e.cursorBg)
			case e.inSelection(idx, lane):
				style = style.Background(e.selectionBg)
			}
			x := x0 + gutterWidth + lane*e.laneWidth
			for k := 0; k < e.laneWidth; k++ {
				r := ' '
				if k == e.laneWidth/2 {
					r = glyph
				}
				s.SetContent(x+k, row, r, nil, style)
			}
		}
	}
}

func (e *Editor) cellGlyph(ln chart.Line, lane int) (rune, tcell.Style) {
	switch ln.Status[lane] {
	case chart.Normal:
		return 'o', e.styleNormal
	case chart.Attack:
		return 'x', e.styleAttack
	case chart.LongStart:
		return 'S', e.styleLong
	case chart.LongEnd:
		return 'E', e.styleLong
	case chart.Invalid:
		return '|', e.styleLong
	}
	if ln.BarLine {
		return '-', e.styleBarLine
	}
	return '.', e.styleMain
}

// clapLine is the line the clap cursor points at, or -1.
func (e *Editor) clapLine() int {
	if !e.chart.HasClap {
		return -1
	}
	m := e.current()
	if e.chart.ClapIndex >= len(m.ActiveTime) {
		return -1
	}
	n := 0
	for i := range m.Lines {
		if m.Lines[i].ActiveCount() == 0 {
			continue
		}
		if n == e.chart.ClapIndex {
			return i
		}
		n++
	}
	return -1
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int) {
	m := e.current()
	mode := "NOR"
	if e.mode == ModeCommand {
		mode = "CMD"
	}
	name := displayName(e.path)
	if e.dirty {
		name += " [+]"
	}
	left := fmt.Sprintf(" %s  %s  %s  %s  snap %s", mode, name, e.chart.Difficulty(), e.notesMode, snapName(m.Snap24))
	if e.selecting {
		left += "  SEL"
	}
	right := fmt.Sprintf("%d:%d  ", e.cursor.Line, e.cursor.Lane+1)
	if ln, ok := m.Line(e.cursor.Line); ok {
		right += fmt.Sprintf("bpm %g x%g  ", ln.BPM, ln.Speed)
	}
	right += fmt.Sprintf("%.2fs ", e.chart.ChartTime())
	line := composeStatusLine(left, right, w)
	for x, r := range line {
		s.SetContent(x, y, r, nil, e.styleStatus)
	}
}

// renderCommandline returns the x position of the command cursor.
func (e *Editor) renderCommandline(s tcell.Screen, w, y int) int {
	clearLine(s, y, w, e.styleMain)
	if e.mode == ModeCommand {
		text := ":" + string(e.cmd)
		drawText(s, 0, y, text, e.styleMain)
		return min(len([]rune(text)), w-1)
	}
	if e.statusMessage != "" {
		drawText(s, 0, y, e.statusMessage, e.styleMain)
	}
	return 0
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func flatten(halfBeats [][]int) []int {
	var out []int
	for _, hb := range halfBeats {
		out = append(out, hb...)
	}
	return out
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	spaceCount := width - len(leftRunes) - len(rightRunes)
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	line = append(line, []rune(strings.Repeat(" ", spaceCount))...)
	line = append(line, rightRunes...)
	return line
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
