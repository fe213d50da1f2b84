package editor

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qpad/internal/buffer"
	"github.com/kobzarvs/qpad/internal/command"
	"github.com/kobzarvs/qpad/internal/config"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(w, h)
	return s
}

func rowText(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(c.Runes[0])
	}
	return sb.String()
}

func screenText(s tcell.SimulationScreen) string {
	_, _, h := s.GetContents()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = rowText(s, y)
	}
	return strings.Join(rows, "\n")
}

func TestRenderLayout(t *testing.T) {
	e := newTestEditor(t, "first line", "second")
	s := newSimScreen(t, 40, 6)
	e.Render(s)

	if row := rowText(s, 0); !strings.HasPrefix(row, "  File  Edit  Search  Help") {
		t.Fatalf("menu bar = %q", row)
	}
	if row := rowText(s, 1); !strings.HasPrefix(row, "first line") {
		t.Fatalf("text row = %q", row)
	}
	status := rowText(s, 5)
	if !strings.HasPrefix(status, " [untitled] ") || !strings.HasSuffix(status, " Ln 1, Col 1 ") {
		t.Fatalf("status bar = %q", status)
	}
	x, y, visible := s.GetCursor()
	if !visible || x != 0 || y != 1 {
		t.Fatalf("cursor = %d,%d visible=%v, want 0,1", x, y, visible)
	}
}

func TestRenderCursorWithTab(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.TabWidth = 4
	e := newTestEditorWith(t, cfg, "a\tb")
	e.buf.SetCursor(buffer.Cursor{Row: 0, Col: 2})
	s := newSimScreen(t, 20, 5)

	e.Render(s)
	x, _, visible := s.GetCursor()
	if !visible {
		t.Fatalf("cursor not visible")
	}
	if want := visualCol(e.buf.Line(0), 2, 4); x != want || want != 4 {
		t.Fatalf("cursor x = %d, want 4", x)
	}
}

func TestRenderWideRunes(t *testing.T) {
	e := newTestEditor(t, "日本語x")
	e.buf.SetCursor(buffer.Cursor{Row: 0, Col: 3})
	s := newSimScreen(t, 20, 4)
	e.Render(s)
	x, _, _ := s.GetCursor()
	if x != 6 {
		t.Fatalf("cursor after three wide runes = %d, want 6", x)
	}
}

func TestRenderHorizontalScroll(t *testing.T) {
	e := newTestEditor(t, strings.Repeat("a", 30)+"Z")
	e.buf.MoveLineEnd(false)
	s := newSimScreen(t, 10, 4)
	e.Render(s)
	x, _, visible := s.GetCursor()
	if !visible || x != 9 {
		t.Fatalf("cursor x = %d visible=%v, want 9", x, visible)
	}
	if row := rowText(s, 1); !strings.HasSuffix(strings.TrimRight(row, " "), "Z") {
		t.Fatalf("scrolled row = %q", row)
	}
}

func TestRenderStatusMessageAndDirty(t *testing.T) {
	e := newTestEditor(t, "x")
	typeText(e, "y")
	e.report(command.NotImplemented("Print"))
	s := newSimScreen(t, 60, 4)
	e.Render(s)
	if status := rowText(s, 3); !strings.Contains(status, "[untitled]* | Print: not implemented") {
		t.Fatalf("status = %q", status)
	}
}

func TestRenderOpenMenu(t *testing.T) {
	e := newTestEditor(t, "text")
	e.bar.Open(0)
	s := newSimScreen(t, 50, 20)
	e.Render(s)
	if row := rowText(s, 1); !strings.Contains(row, "New") || !strings.Contains(row, "Ctrl+N") {
		t.Fatalf("drop-down first row = %q", row)
	}
	if _, _, visible := s.GetCursor(); visible {
		t.Fatalf("text cursor shown under an open menu")
	}
}

func TestRenderDialogs(t *testing.T) {
	e := newTestEditor(t, "text")
	e.Run(command.FileExit)
	s := newSimScreen(t, 50, 12)
	e.Render(s)
	text := screenText(s)
	for _, want := range []string{" Exit ", "Really quit?", "[Y]es  [N]o"} {
		if !strings.Contains(text, want) {
			t.Fatalf("confirm dialog missing %q:\n%s", want, text)
		}
	}
	if _, _, visible := s.GetCursor(); visible {
		t.Fatalf("cursor shown for a confirm dialog")
	}

	e.HandleKey(key(tcell.KeyEscape))
	e.Run(command.SearchFind)
	typeText(e, "abc")
	e.Render(s)
	x, y, visible := s.GetCursor()
	if !visible {
		t.Fatalf("prompt cursor hidden")
	}
	row := rowText(s, y)
	start := strings.Index(row, "abc")
	if start < 0 {
		t.Fatalf("prompt row = %q", row)
	}
	if want := utf8.RuneCountInString(row[:start]) + 3; x != want {
		t.Fatalf("prompt cursor x = %d, want %d", x, want)
	}
}

func TestMouseMenuAndPopup(t *testing.T) {
	e := newTestEditor(t, "hello world")
	var got []command.ID
	e.commandHook = func(id command.ID) { got = append(got, id) }
	s := newSimScreen(t, 50, 20)
	e.Render(s)

	click := func(x, y int, b tcell.ButtonMask) {
		e.HandleMouse(tcell.NewEventMouse(x, y, b, tcell.ModNone))
		e.HandleMouse(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
		e.Render(s)
	}

	click(9, 0, tcell.ButtonPrimary)
	if e.bar.Current() != 1 {
		t.Fatalf("click on Edit opened menu %d", e.bar.Current())
	}
	// Edit drop-down starts at column 7; row 2 is Redo.
	click(9, 2, tcell.ButtonPrimary)
	if len(got) != 1 || got[0] != command.EditRedo {
		t.Fatalf("clicked item ran %v, want edit_redo", got)
	}

	click(3, 1, tcell.ButtonSecondary)
	if e.bar.Current() != editMenu {
		t.Fatalf("right click opened menu %d, want Edit", e.bar.Current())
	}
	if row := rowText(s, 1); !strings.Contains(row, "Undo") {
		t.Fatalf("popup row = %q", row)
	}
	click(45, 15, tcell.ButtonPrimary)
	if e.bar.IsOpen() {
		t.Fatalf("click outside did not close the popup")
	}
}

func TestMouseClickAndDragSelect(t *testing.T) {
	e := newTestEditor(t, "hello world")
	s := newSimScreen(t, 40, 6)
	e.Render(s)

	e.HandleMouse(tcell.NewEventMouse(6, 1, tcell.ButtonPrimary, tcell.ModNone))
	if c := e.buf.Cursor(); c.Col != 6 {
		t.Fatalf("click cursor = %+v, want col 6", c)
	}
	e.HandleMouse(tcell.NewEventMouse(11, 1, tcell.ButtonPrimary, tcell.ModNone))
	e.HandleMouse(tcell.NewEventMouse(11, 1, tcell.ButtonNone, tcell.ModNone))
	if got := e.buf.SelectedText(); got != "world" {
		t.Fatalf("drag selected %q, want world", got)
	}
}
