package editor

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/qpad/internal/command"
)

type dialogKind int

const (
	dialogConfirm dialogKind = iota
	dialogInfo
	dialogPrompt
)

// dialog is a modal box over the text area. Only one is open at a time.
type dialog struct {
	kind  dialogKind
	title string
	lines []string

	input  []rune
	cursor int

	onYes    func() command.Result
	onSubmit func(string) command.Result
}

func (e *Editor) openConfirm(title, question string, onYes func() command.Result) {
	e.bar.Close()
	e.dialog = &dialog{kind: dialogConfirm, title: title, lines: []string{question}, onYes: onYes}
}

func (e *Editor) openInfo(title string, lines []string) {
	e.bar.Close()
	e.dialog = &dialog{kind: dialogInfo, title: title, lines: lines}
}

func (e *Editor) openPrompt(title, label, initial string, onSubmit func(string) command.Result) {
	e.bar.Close()
	input := []rune(initial)
	e.dialog = &dialog{
		kind:     dialogPrompt,
		title:    title,
		lines:    []string{label},
		input:    input,
		cursor:   len(input),
		onSubmit: onSubmit,
	}
}

// DialogOpen reports whether a dialog has the keyboard.
func (e *Editor) DialogOpen() bool {
	return e.dialog != nil
}

// answer closes the dialog before running its callback, which may open the
// next one.
func (e *Editor) answer(fn func() command.Result) {
	e.dialog = nil
	if fn == nil {
		return
	}
	e.report(fn())
}

func (e *Editor) handleDialog(ev *tcell.EventKey) {
	d := e.dialog
	switch d.kind {
	case dialogInfo:
		e.dialog = nil
	case dialogConfirm:
		switch {
		case ev.Key() == tcell.KeyEnter, ev.Key() == tcell.KeyRune && (ev.Rune() == 'y' || ev.Rune() == 'Y'):
			e.answer(d.onYes)
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyRune && (ev.Rune() == 'n' || ev.Rune() == 'N'):
			e.answer(command.Cancelled)
		}
	case dialogPrompt:
		e.handlePromptKey(d, ev)
	}
}

func (e *Editor) handlePromptKey(d *dialog, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		text := string(d.input)
		e.answer(func() command.Result { return d.onSubmit(text) })
	case tcell.KeyEscape:
		e.answer(command.Cancelled)
	case tcell.KeyLeft:
		if d.cursor > 0 {
			d.cursor--
		}
	case tcell.KeyRight:
		if d.cursor < len(d.input) {
			d.cursor++
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		d.cursor = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		d.cursor = len(d.input)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if d.cursor > 0 {
			d.input = append(d.input[:d.cursor-1], d.input[d.cursor:]...)
			d.cursor--
		}
	case tcell.KeyDelete:
		if d.cursor < len(d.input) {
			d.input = append(d.input[:d.cursor], d.input[d.cursor+1:]...)
		}
	case tcell.KeyCtrlU:
		d.input = d.input[:0]
		d.cursor = 0
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) != 0 {
			return
		}
		d.input = append(d.input, 0)
		copy(d.input[d.cursor+1:], d.input[d.cursor:])
		d.input[d.cursor] = ev.Rune()
		d.cursor++
	}
}

func (d *dialog) footer() string {
	switch d.kind {
	case dialogConfirm:
		return "[Y]es  [N]o"
	case dialogPrompt:
		return "Enter: OK  Esc: Cancel"
	}
	return "Press any key"
}

// renderDialog draws the open dialog centered in the text area and returns
// the cursor cell for prompts.
func (e *Editor) renderDialog(s tcell.Screen, w, h int) (cx, cy int, showCursor bool) {
	d := e.dialog
	inner := runewidth.StringWidth(d.title) + 4
	for _, line := range d.lines {
		inner = max(inner, runewidth.StringWidth(line))
	}
	inner = max(inner, runewidth.StringWidth(d.footer()), 30)
	inner = min(inner, w-4)
	if inner <= 0 {
		return 0, 0, false
	}
	rows := len(d.lines) + 2 // blank + footer
	if d.kind == dialogPrompt {
		rows++
	}
	boxW, boxH := inner+4, rows+2
	x0 := max(0, (w-boxW)/2)
	y0 := max(1, (h-boxH)/2)

	for y := y0; y < y0+boxH && y < h; y++ {
		for x := x0; x < x0+boxW && x < w; x++ {
			s.SetContent(x, y, ' ', nil, e.styleDialog)
		}
	}
	e.drawFrame(s, x0, y0, boxW, boxH, d.title)

	y := y0 + 1
	for _, line := range d.lines {
		drawString(s, x0+2, y, x0+2+inner, line, e.styleDialog)
		y++
	}
	if d.kind == dialogPrompt {
		field := e.styleDialog.Reverse(true)
		for x := x0 + 2; x < x0+2+inner; x++ {
			s.SetContent(x, y, ' ', nil, field)
		}
		// Scroll the field so the cursor stays inside it.
		start := 0
		for runewidth.StringWidth(string(d.input[start:d.cursor])) >= inner {
			start++
		}
		drawString(s, x0+2, y, x0+2+inner, string(d.input[start:]), field)
		cx = x0 + 2 + runewidth.StringWidth(string(d.input[start:d.cursor]))
		cy = y
		showCursor = true
		y++
	}
	y++
	footer := d.footer()
	drawString(s, x0+2+(inner-runewidth.StringWidth(footer))/2, y, x0+2+inner, footer, e.styleDialog)
	return cx, cy, showCursor
}

func (e *Editor) drawFrame(s tcell.Screen, x0, y0, w, h int, title string) {
	st := e.styleDialogFrame
	x1, y1 := x0+w-1, y0+h-1
	for x := x0 + 1; x < x1; x++ {
		s.SetContent(x, y0, tcell.RuneHLine, nil, st)
		s.SetContent(x, y1, tcell.RuneHLine, nil, st)
	}
	for y := y0 + 1; y < y1; y++ {
		s.SetContent(x0, y, tcell.RuneVLine, nil, st)
		s.SetContent(x1, y, tcell.RuneVLine, nil, st)
	}
	s.SetContent(x0, y0, tcell.RuneULCorner, nil, st)
	s.SetContent(x1, y0, tcell.RuneURCorner, nil, st)
	s.SetContent(x0, y1, tcell.RuneLLCorner, nil, st)
	s.SetContent(x1, y1, tcell.RuneLRCorner, nil, st)
	if title != "" {
		drawString(s, x0+2, y0, x1-1, " "+title+" ", st)
	}
}
