package editor

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Render draws the whole window: menu bar on row 0, text, status bar on the
// last row, then any open drop-down or dialog on top.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	viewHeight := max(0, h-2)
	e.viewHeight = viewHeight
	if !e.freeScroll {
		e.ensureCursorVisible(viewHeight, w)
	}

	s.SetStyle(e.styleMain)
	s.Clear()

	for y := 0; y < viewHeight; y++ {
		row := e.scroll + y
		if row >= e.buf.LineCount() {
			clearLine(s, y+1, w, e.styleMain)
			continue
		}
		e.drawLine(s, y+1, w, row)
	}
	if h >= 2 {
		e.renderStatusline(s, w, h-1)
	}
	e.bar.Render(s, w, e.menuStyles)

	if e.dialog != nil {
		if cx, cy, ok := e.renderDialog(s, w, h); ok {
			s.ShowCursor(cx, cy)
		} else {
			s.HideCursor()
		}
		s.Show()
		return
	}

	c := e.buf.Cursor()
	cy := c.Row - e.scroll + 1
	cx := visualCol(e.buf.Line(c.Row), c.Col, e.tabWidth) - e.scrollX
	if e.bar.IsOpen() || cy < 1 || cy > viewHeight || cx < 0 || cx >= w {
		s.HideCursor()
	} else {
		s.ShowCursor(cx, cy)
	}
	s.Show()
}

func (e *Editor) ensureCursorVisible(viewHeight, width int) {
	c := e.buf.Cursor()
	if viewHeight > 0 {
		if c.Row < e.scroll {
			e.scroll = c.Row
		} else if c.Row >= e.scroll+viewHeight {
			e.scroll = c.Row - viewHeight + 1
		}
	}
	if width > 0 {
		x := visualCol(e.buf.Line(c.Row), c.Col, e.tabWidth)
		if x < e.scrollX {
			e.scrollX = x
		} else if x >= e.scrollX+width {
			e.scrollX = x - width + 1
		}
	}
}

// drawLine draws buffer row at screen row y, shifted left by scrollX cells.
func (e *Editor) drawLine(s tcell.Screen, y, w, row int) {
	line := e.buf.Line(row)
	selStart, selEnd, selecting := e.buf.Selection()
	inSelection := func(col int) bool {
		if !selecting {
			return false
		}
		if row < selStart.Row || row > selEnd.Row {
			return false
		}
		if row == selStart.Row && col < selStart.Col {
			return false
		}
		if row == selEnd.Row && col >= selEnd.Col {
			return false
		}
		return true
	}

	clearLine(s, y, w, e.styleMain)
	col := 0
	for i, r := range line {
		style := e.styleMain
		if inSelection(i) {
			style = e.styleSelection
		}
		cells := cellWidth(r, col, e.tabWidth)
		sx := col - e.scrollX
		col += cells
		if sx+cells <= 0 {
			continue
		}
		if sx >= w {
			return
		}
		if r == '\t' || sx < 0 || sx+cells > w {
			for x := max(sx, 0); x < min(sx+cells, w); x++ {
				s.SetContent(x, y, ' ', nil, style)
			}
			continue
		}
		s.SetContent(sx, y, r, nil, style)
	}
	// The selected line break shows as one cell past the end.
	if selecting && row >= selStart.Row && row < selEnd.Row {
		if sx := col - e.scrollX; sx >= 0 && sx < w {
			s.SetContent(sx, y, ' ', nil, e.styleSelection)
		}
	}
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int) {
	name := e.filename
	if name == "" {
		name = "[untitled]"
	} else {
		name = filepath.Base(name)
	}
	dirty := ""
	if e.buf.Dirty() {
		dirty = "*"
	}
	left := fmt.Sprintf(" %s%s ", name, dirty)
	if e.status != "" {
		left = fmt.Sprintf(" %s%s | %s ", name, dirty, e.status)
	}
	c := e.buf.Cursor()
	right := fmt.Sprintf(" Ln %d, Col %d ", c.Row+1, visualCol(e.buf.Line(c.Row), c.Col, e.tabWidth)+1)

	line := composeStatusLine(left, right, w)
	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		s.SetContent(x, y, r, nil, e.styleStatus)
		x += max(1, runewidth.RuneWidth(r))
	}
	for ; x < w; x++ {
		s.SetContent(x, y, ' ', nil, e.styleStatus)
	}
}

func drawString(s tcell.Screen, x, y, limit int, text string, style tcell.Style) {
	for _, r := range text {
		rw := max(1, runewidth.RuneWidth(r))
		if x+rw > limit {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x += rw
	}
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
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := len(leftRunes) + len(rightRunes); i < width; i++ {
		line = append(line, ' ')
	}
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

// cellWidth is the number of screen cells r takes when it starts at col.
func cellWidth(r rune, col, tabWidth int) int {
	if r == '\t' {
		if tabWidth < 1 {
			tabWidth = 1
		}
		return tabWidth - col%tabWidth
	}
	return max(1, runewidth.RuneWidth(r))
}

func visualCol(line []rune, logicalCol int, tabWidth int) int {
	logicalCol = min(max(logicalCol, 0), len(line))
	col := 0
	for i := 0; i < logicalCol; i++ {
		col += cellWidth(line[i], col, tabWidth)
	}
	return col
}

func visualToLogicalCol(line []rune, visualX int, tabWidth int) int {
	if visualX <= 0 {
		return 0
	}
	col := 0
	for i, r := range line {
		advance := cellWidth(r, col, tabWidth)
		if col+advance > visualX {
			return i
		}
		col += advance
		if col >= visualX {
			return i + 1
		}
	}
	return len(line)
}
