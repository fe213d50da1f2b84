package menu

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

type Styles struct {
	Bar         tcell.Style
	Selected    tcell.Style
	Accelerator tcell.Style
}

func equalFold(a, b rune) bool {
	return unicode.ToLower(a) == unicode.ToLower(b)
}

// titleSpans returns the [start, end) columns of every menu title.
func (b *Bar) titleSpans() [][2]int {
	spans := make([][2]int, len(b.menus))
	x := 1
	for i, m := range b.menus {
		w := runewidth.StringWidth(m.Label) + 2
		spans[i] = [2]int{x, x + w}
		x += w
	}
	return spans
}

// MenuAt returns the menu whose title covers column x, or -1.
func (b *Bar) MenuAt(x int) int {
	for i, span := range b.titleSpans() {
		if x >= span[0] && x < span[1] {
			return i
		}
	}
	return -1
}

// dropRect is the open drop-down's origin and size.
func (b *Bar) dropRect() (x, y, w, h int) {
	if !b.IsOpen() {
		return 0, 0, 0, 0
	}
	m := b.menus[b.open]
	labelW, accelW := 0, 0
	for _, item := range m.Items {
		labelW = max(labelW, runewidth.StringWidth(item.Label))
		accelW = max(accelW, runewidth.StringWidth(item.Accelerator))
	}
	w = labelW + 2
	if accelW > 0 {
		w += accelW + 3
	}
	h = len(m.Items)
	x, y = b.titleSpans()[b.open][0], 1
	if b.popup {
		x, y = b.originX, b.originY
	}
	if b.width > 0 && x+w > b.width {
		x = max(0, b.width-w)
	}
	return x, y, w, h
}

// ItemAt maps a screen cell inside the open drop-down to an item index.
func (b *Bar) ItemAt(x, y int) (int, bool) {
	dx, dy, w, h := b.dropRect()
	if !b.IsOpen() || x < dx || x >= dx+w || y < dy || y >= dy+h {
		return 0, false
	}
	i := y - dy
	if b.menus[b.open].Items[i].Separator {
		return 0, false
	}
	return i, true
}

func drawText(s tcell.Screen, x, y, limit int, text string, style tcell.Style) int {
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if x+rw > limit {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += rw
	}
	return x
}

func fill(s tcell.Screen, x0, x1, y int, style tcell.Style) {
	for x := x0; x < x1; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

// Render draws the bar on row 0 and the open drop-down beneath it.
func (b *Bar) Render(s tcell.Screen, width int, st Styles) {
	b.width = width
	fill(s, 0, width, 0, st.Bar)
	for i, span := range b.titleSpans() {
		if span[0] >= width {
			break
		}
		style := st.Bar
		if i == b.open && !b.popup {
			style = st.Selected
		}
		fill(s, span[0], min(span[1], width), 0, style)
		drawText(s, span[0]+1, 0, width, b.menus[i].Label, style)
	}
	if !b.IsOpen() {
		return
	}

	dx, dy, w, _ := b.dropRect()
	_, screenH := s.Size()
	for i, item := range b.menus[b.open].Items {
		y := dy + i
		if y >= screenH {
			break
		}
		style := st.Bar
		accelStyle := st.Accelerator
		if i == b.index {
			style = st.Selected
			accelStyle = st.Selected
		}
		right := min(dx+w, width)
		if item.Separator {
			for x := dx; x < right; x++ {
				s.SetContent(x, y, tcell.RuneHLine, nil, st.Bar)
			}
			continue
		}
		fill(s, dx, right, y, style)
		drawText(s, dx+1, y, right, item.Label, style)
		if item.Accelerator != "" {
			ax := dx + w - 1 - runewidth.StringWidth(item.Accelerator)
			drawText(s, ax, y, right, item.Accelerator, accelStyle)
		}
	}
}
