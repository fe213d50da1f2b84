package editor

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qpad/internal/buffer"
)

// HandleKey routes a key to the open dialog, then the open menu, then the
// accelerator table, and finally the text area. It returns true once the
// window should close.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	e.freeScroll = false
	if e.dialog != nil {
		e.handleDialog(ev)
		return e.quit
	}
	if e.bar.IsOpen() {
		if id, handled := e.bar.HandleKey(ev); handled {
			if id != "" {
				e.run(id)
			}
			return e.quit
		}
		e.bar.Close()
	}
	if e.keys.Dispatch(ev) {
		return e.quit
	}
	e.status = ""
	e.handleText(ev)
	return e.quit
}

func (e *Editor) handleText(ev *tcell.EventKey) {
	mods := ev.Modifiers()
	extend := mods&tcell.ModShift != 0
	ctrl := mods&tcell.ModCtrl != 0
	page := max(1, e.viewHeight-1)

	switch ev.Key() {
	case tcell.KeyRune:
		if mods&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) != 0 {
			return
		}
		e.buf.InsertRune(ev.Rune())
	case tcell.KeyEnter:
		e.buf.Newline()
	case tcell.KeyTab:
		e.buf.InsertRune('\t')
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.buf.Backspace()
	case tcell.KeyDelete:
		e.buf.DeleteForward()
	case tcell.KeyLeft:
		e.buf.MoveLeft(extend)
	case tcell.KeyRight:
		e.buf.MoveRight(extend)
	case tcell.KeyUp:
		e.buf.MoveUp(extend)
	case tcell.KeyDown:
		e.buf.MoveDown(extend)
	case tcell.KeyHome:
		if ctrl {
			e.buf.MoveFileStart(extend)
		} else {
			e.buf.MoveLineStart(extend)
		}
	case tcell.KeyEnd:
		if ctrl {
			e.buf.MoveFileEnd(extend)
		} else {
			e.buf.MoveLineEnd(extend)
		}
	case tcell.KeyPgUp:
		e.buf.PageUp(page, extend)
	case tcell.KeyPgDn:
		e.buf.PageDown(page, extend)
	case tcell.KeyEscape:
		e.buf.ClearSelection()
	}
}

// HandleMouse acts on button presses. Row 0 is the menu bar; the right
// button over the text opens the Edit menu where it was clicked.
func (e *Editor) HandleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	pressed := buttons &^ e.mouseDown
	e.mouseDown = buttons & (tcell.ButtonPrimary | tcell.ButtonSecondary)
	if buttons&tcell.ButtonPrimary == 0 {
		e.dragging = false
	}

	switch {
	case buttons&tcell.WheelUp != 0:
		e.scroll = max(0, e.scroll-3)
		e.freeScroll = true
		return
	case buttons&tcell.WheelDown != 0:
		e.scroll = min(max(0, e.buf.LineCount()-1), e.scroll+3)
		e.freeScroll = true
		return
	}
	if e.dialog != nil {
		return
	}
	x, y := ev.Position()
	switch {
	case pressed&tcell.ButtonPrimary != 0:
		e.freeScroll = false
		e.dragging = false
		e.leftClick(x, y)
	case pressed&tcell.ButtonSecondary != 0:
		if y == 0 {
			return
		}
		e.bar.OpenAt(editMenu, x, y)
	case e.dragging:
		// Dragging extends the selection.
		e.buf.MoveTo(e.textPosition(x, y), true)
	}
}

func (e *Editor) leftClick(x, y int) {
	if e.bar.IsOpen() {
		if i, ok := e.bar.ItemAt(x, y); ok {
			e.bar.SelectIndex(i)
			if item, ok := e.bar.Selected(); ok {
				e.run(item.Command)
			}
			return
		}
		if y == 0 {
			if i := e.bar.MenuAt(x); i >= 0 && i != e.bar.Current() {
				e.bar.Open(i)
				return
			}
		}
		e.bar.Close()
		return
	}
	if y == 0 {
		if i := e.bar.MenuAt(x); i >= 0 {
			e.bar.Open(i)
		}
		return
	}
	e.buf.SetCursor(e.textPosition(x, y))
	e.dragging = true
}

// textPosition maps a screen cell in the text area to a buffer position.
func (e *Editor) textPosition(x, y int) buffer.Cursor {
	row := min(max(0, y-1+e.scroll), e.buf.LineCount()-1)
	col := visualToLogicalCol(e.buf.Line(row), x+e.scrollX, e.tabWidth)
	return buffer.Cursor{Row: row, Col: col}
}
