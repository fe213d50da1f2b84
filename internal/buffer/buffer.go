// Package buffer holds the text shown in the editor window: lines of runes,
// a cursor and an optional selection.
package buffer

import (
	"strings"
)

type Cursor struct {
	Row int
	Col int
}

// Less orders cursors by position.
func (c Cursor) Less(o Cursor) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

type Buffer struct {
	lines      [][]rune
	cursor     Cursor
	anchor     Cursor
	selecting  bool
	changeTick uint64
	cleanTick  uint64
}

func New() *Buffer {
	return &Buffer{lines: [][]rune{{}}}
}

func splitLines(text string) [][]rune {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}

func joinLines(lines [][]rune) string {
	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(line))
	}
	return sb.String()
}

// SetText replaces the whole buffer and puts the cursor at the start.
func (b *Buffer) SetText(text string) {
	b.lines = splitLines(text)
	b.cursor = Cursor{}
	b.selecting = false
	b.changeTick++
}

func (b *Buffer) Text() string {
	return joinLines(b.lines)
}

func (b *Buffer) LineCount() int {
	return len(b.lines)
}

func (b *Buffer) Line(i int) []rune {
	if i < 0 || i >= len(b.lines) {
		return nil
	}
	return b.lines[i]
}

// RuneCount counts characters, newlines included.
func (b *Buffer) RuneCount() int {
	n := len(b.lines) - 1
	for _, line := range b.lines {
		n += len(line)
	}
	return n
}

func (b *Buffer) Cursor() Cursor {
	return b.cursor
}

// SetCursor moves the cursor, clamped to the text, and drops the selection.
func (b *Buffer) SetCursor(c Cursor) {
	b.cursor = b.clamp(c)
	b.selecting = false
}

func (b *Buffer) clamp(c Cursor) Cursor {
	if c.Row < 0 {
		c.Row = 0
	}
	if c.Row >= len(b.lines) {
		c.Row = len(b.lines) - 1
	}
	if c.Col < 0 {
		c.Col = 0
	}
	if n := len(b.lines[c.Row]); c.Col > n {
		c.Col = n
	}
	return c
}

func (b *Buffer) Dirty() bool {
	return b.changeTick != b.cleanTick
}

func (b *Buffer) MarkClean() {
	b.cleanTick = b.changeTick
}

func (b *Buffer) ChangeTick() uint64 {
	return b.changeTick
}

// Selection returns the ordered selection bounds; ok is false when nothing
// is selected.
func (b *Buffer) Selection() (start, end Cursor, ok bool) {
	if !b.selecting || b.anchor == b.cursor {
		return Cursor{}, Cursor{}, false
	}
	if b.cursor.Less(b.anchor) {
		return b.cursor, b.anchor, true
	}
	return b.anchor, b.cursor, true
}

// Select selects from start to end, leaving the cursor at end.
func (b *Buffer) Select(start, end Cursor) {
	b.anchor = b.clamp(start)
	b.cursor = b.clamp(end)
	b.selecting = true
}

func (b *Buffer) SelectAll() {
	last := len(b.lines) - 1
	b.Select(Cursor{}, Cursor{Row: last, Col: len(b.lines[last])})
}

func (b *Buffer) ClearSelection() {
	b.selecting = false
}

func (b *Buffer) SelectedText() string {
	start, end, ok := b.Selection()
	if !ok {
		return ""
	}
	return b.TextRange(start, end)
}

// TextRange returns the text between two positions, end exclusive.
func (b *Buffer) TextRange(start, end Cursor) string {
	start, end = b.clamp(start), b.clamp(end)
	if end.Less(start) {
		start, end = end, start
	}
	if start.Row == end.Row {
		return string(b.lines[start.Row][start.Col:end.Col])
	}
	var sb strings.Builder
	sb.WriteString(string(b.lines[start.Row][start.Col:]))
	for row := start.Row + 1; row < end.Row; row++ {
		sb.WriteByte('\n')
		sb.WriteString(string(b.lines[row]))
	}
	sb.WriteByte('\n')
	sb.WriteString(string(b.lines[end.Row][:end.Col]))
	return sb.String()
}

// DeleteSelection removes the selected text and reports whether there was any.
func (b *Buffer) DeleteSelection() bool {
	start, end, ok := b.Selection()
	if !ok {
		b.selecting = false
		return false
	}
	b.deleteRange(start, end)
	return true
}

func (b *Buffer) deleteRange(start, end Cursor) {
	head := b.lines[start.Row][:start.Col]
	tail := b.lines[end.Row][end.Col:]
	merged := make([]rune, 0, len(head)+len(tail))
	merged = append(merged, head...)
	merged = append(merged, tail...)
	lines := make([][]rune, 0, len(b.lines)-(end.Row-start.Row))
	lines = append(lines, b.lines[:start.Row]...)
	lines = append(lines, merged)
	lines = append(lines, b.lines[end.Row+1:]...)
	b.lines = lines
	b.cursor = start
	b.selecting = false
	b.changeTick++
}

// InsertText inserts text at the cursor, replacing the selection, and leaves
// the cursor after the inserted text.
func (b *Buffer) InsertText(text string) {
	b.DeleteSelection()
	if text == "" {
		return
	}
	ins := splitLines(text)
	row, col := b.cursor.Row, b.cursor.Col
	line := b.lines[row]
	tail := append([]rune(nil), line[col:]...)

	first := make([]rune, 0, col+len(ins[0]))
	first = append(first, line[:col]...)
	first = append(first, ins[0]...)

	newLines := make([][]rune, 0, len(ins))
	newLines = append(newLines, first)
	for _, l := range ins[1:] {
		newLines = append(newLines, append([]rune(nil), l...))
	}
	last := len(newLines) - 1
	endCol := len(newLines[last])
	newLines[last] = append(newLines[last], tail...)

	lines := make([][]rune, 0, len(b.lines)+len(newLines)-1)
	lines = append(lines, b.lines[:row]...)
	lines = append(lines, newLines...)
	lines = append(lines, b.lines[row+1:]...)
	b.lines = lines
	b.cursor = Cursor{Row: row + last, Col: endCol}
	b.changeTick++
}

func (b *Buffer) InsertRune(r rune) {
	b.InsertText(string(r))
}

func (b *Buffer) Newline() {
	b.InsertText("\n")
}

// Backspace deletes the selection or the rune before the cursor, joining
// lines at column zero.
func (b *Buffer) Backspace() {
	if b.DeleteSelection() {
		return
	}
	c := b.cursor
	switch {
	case c.Col > 0:
		b.deleteRange(Cursor{Row: c.Row, Col: c.Col - 1}, c)
	case c.Row > 0:
		prev := Cursor{Row: c.Row - 1, Col: len(b.lines[c.Row-1])}
		b.deleteRange(prev, c)
	}
}

// DeleteForward deletes the selection or the rune under the cursor.
func (b *Buffer) DeleteForward() {
	if b.DeleteSelection() {
		return
	}
	c := b.cursor
	switch {
	case c.Col < len(b.lines[c.Row]):
		b.deleteRange(c, Cursor{Row: c.Row, Col: c.Col + 1})
	case c.Row < len(b.lines)-1:
		b.deleteRange(c, Cursor{Row: c.Row + 1, Col: 0})
	}
}

func (b *Buffer) startMove(extend bool) {
	if extend {
		if !b.selecting {
			b.anchor = b.cursor
			b.selecting = true
		}
		return
	}
	b.selecting = false
}

// MoveTo puts the cursor at c, extending the selection when extend is set.
func (b *Buffer) MoveTo(c Cursor, extend bool) {
	b.startMove(extend)
	b.cursor = b.clamp(c)
}

func (b *Buffer) MoveLeft(extend bool) {
	b.startMove(extend)
	c := b.cursor
	if c.Col > 0 {
		c.Col--
	} else if c.Row > 0 {
		c.Row--
		c.Col = len(b.lines[c.Row])
	}
	b.cursor = c
}

func (b *Buffer) MoveRight(extend bool) {
	b.startMove(extend)
	c := b.cursor
	if c.Col < len(b.lines[c.Row]) {
		c.Col++
	} else if c.Row < len(b.lines)-1 {
		c.Row++
		c.Col = 0
	}
	b.cursor = c
}

func (b *Buffer) MoveUp(extend bool) {
	b.moveRows(-1, extend)
}

func (b *Buffer) MoveDown(extend bool) {
	b.moveRows(1, extend)
}

func (b *Buffer) PageUp(rows int, extend bool) {
	b.moveRows(-max(rows, 1), extend)
}

func (b *Buffer) PageDown(rows int, extend bool) {
	b.moveRows(max(rows, 1), extend)
}

func (b *Buffer) moveRows(delta int, extend bool) {
	b.startMove(extend)
	b.cursor = b.clamp(Cursor{Row: b.cursor.Row + delta, Col: b.cursor.Col})
}

func (b *Buffer) MoveLineStart(extend bool) {
	b.startMove(extend)
	b.cursor.Col = 0
}

func (b *Buffer) MoveLineEnd(extend bool) {
	b.startMove(extend)
	b.cursor.Col = len(b.lines[b.cursor.Row])
}

func (b *Buffer) MoveFileStart(extend bool) {
	b.startMove(extend)
	b.cursor = Cursor{}
}

func (b *Buffer) MoveFileEnd(extend bool) {
	b.startMove(extend)
	last := len(b.lines) - 1
	b.cursor = Cursor{Row: last, Col: len(b.lines[last])}
}
