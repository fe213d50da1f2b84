// Package menu models the window's menu bar and binds menu accelerators into
// the window's key table when the bar is built.
package menu

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qpad/internal/command"
	"github.com/kobzarvs/qpad/internal/keybind"
	"github.com/kobzarvs/qpad/internal/logger"
)

type Item struct {
	Label       string
	Command     command.ID
	Accelerator string
	Separator   bool
}

type Menu struct {
	Label string
	// Accelerator opens the menu, e.g. "Alt+F".
	Accelerator string
	Items       []Item
}

func Separator() Item {
	return Item{Separator: true}
}

// Default is the File / Edit / Search / Help layout.
func Default() []Menu {
	return []Menu{
		{Label: "File", Accelerator: "Alt+F", Items: []Item{
			{Label: "New", Command: command.FileNew, Accelerator: "Ctrl+N"},
			{Label: "Load", Command: command.FileOpen, Accelerator: "Ctrl+O"},
			{Label: "Close", Command: command.FileClose, Accelerator: "Ctrl+W"},
			Separator(),
			{Label: "Save", Command: command.FileSave, Accelerator: "Ctrl+S"},
			{Label: "Save As...", Command: command.FileSaveAs, Accelerator: "Ctrl+Shift-S"},
			Separator(),
			{Label: "Info", Command: command.FileInfo, Accelerator: "Alt+I"},
			Separator(),
			{Label: "Print", Command: command.FilePrint, Accelerator: "Ctrl+P"},
			{Label: "Print settings", Command: command.FilePrintSettings, Accelerator: "Alt+P"},
			{Label: "Preview", Command: command.FilePreview, Accelerator: "Alt+V"},
			Separator(),
			{Label: "Exit", Command: command.FileExit, Accelerator: "Ctrl+Q"},
		}},
		{Label: "Edit", Accelerator: "Alt+E", Items: []Item{
			{Label: "Undo", Command: command.EditUndo, Accelerator: "Ctrl+Z"},
			{Label: "Redo", Command: command.EditRedo, Accelerator: "Ctrl+Shift-Z"},
			Separator(),
			{Label: "Cut", Command: command.EditCut, Accelerator: "Ctrl+X"},
			{Label: "Copy", Command: command.EditCopy, Accelerator: "Ctrl+C"},
			{Label: "Paste", Command: command.EditPaste, Accelerator: "Ctrl+V"},
			{Label: "Delete", Command: command.EditDelete, Accelerator: "Delete"},
			Separator(),
			{Label: "Select all", Command: command.EditSelectAll, Accelerator: "Ctrl+A"},
		}},
		{Label: "Search", Accelerator: "Alt+S", Items: []Item{
			{Label: "Find...", Command: command.SearchFind, Accelerator: "Ctrl+F"},
			{Label: "Find next", Command: command.SearchFindNext, Accelerator: "F3"},
			{Label: "Find previous", Command: command.SearchFindPrev, Accelerator: "Shift-F3"},
			{Label: "Replace...", Command: command.SearchReplace, Accelerator: "Ctrl+R"},
		}},
		{Label: "Help", Accelerator: "Alt+H", Items: []Item{
			{Label: "About", Command: command.HelpAbout, Accelerator: "F1"},
		}},
	}
}

// ApplyOverrides returns a copy of menus with item accelerators replaced by
// command id. An empty override removes the accelerator.
func ApplyOverrides(menus []Menu, overrides map[string]string) []Menu {
	out := make([]Menu, len(menus))
	for i, m := range menus {
		items := make([]Item, len(m.Items))
		copy(items, m.Items)
		for j := range items {
			if accel, ok := overrides[string(items[j].Command)]; ok && !items[j].Separator {
				items[j].Accelerator = accel
			}
		}
		m.Items = items
		out[i] = m
	}
	return out
}

// Bar is the menu bar plus the state of the open drop-down.
type Bar struct {
	menus   []Menu
	open    int
	index   int
	popup   bool
	originX int
	originY int
	width   int // screen width at the last Render
}

// Build binds every accelerator in menus into b and returns the bar. The
// first accelerator that does not parse aborts construction.
func Build(menus []Menu, b keybind.Binder, run func(command.ID)) (*Bar, error) {
	bar := &Bar{menus: menus, open: -1}
	bound := 0
	for mi, m := range menus {
		if m.Accelerator != "" {
			idx := mi
			if err := keybind.BindAccelerator(b, m.Accelerator, func(keybind.Event) {
				bar.Open(idx)
			}); err != nil {
				return nil, fmt.Errorf("menu %q: %w", m.Label, err)
			}
			bound++
		}
		for _, item := range m.Items {
			if item.Separator || item.Accelerator == "" {
				continue
			}
			id := item.Command
			if err := keybind.BindAccelerator(b, item.Accelerator, func(keybind.Event) {
				run(id)
			}); err != nil {
				return nil, fmt.Errorf("menu item %s > %s: %w", m.Label, item.Label, err)
			}
			bound++
		}
	}
	logger.Debug("menu bar built", "menus", len(menus), "accelerators", bound)
	return bar, nil
}

func (b *Bar) Menus() []Menu {
	return b.menus
}

// Accelerator returns the accelerator shown for id, or "".
func (b *Bar) Accelerator(id command.ID) string {
	for _, m := range b.menus {
		for _, item := range m.Items {
			if item.Command == id && !item.Separator {
				return item.Accelerator
			}
		}
	}
	return ""
}

func (b *Bar) IsOpen() bool {
	return b.open >= 0
}

// Current is the index of the open menu, or -1.
func (b *Bar) Current() int {
	return b.open
}

func (b *Bar) Open(i int) {
	if i < 0 || i >= len(b.menus) {
		return
	}
	b.open = i
	b.popup = false
	b.index = b.firstSelectable(i)
}

// OpenAt opens menu i as a popup with its top-left corner at x, y.
func (b *Bar) OpenAt(i, x, y int) {
	b.Open(i)
	if b.open < 0 {
		return
	}
	b.popup = true
	b.originX = x
	b.originY = y
}

func (b *Bar) Close() {
	b.open = -1
	b.popup = false
}

func (b *Bar) firstSelectable(i int) int {
	for j, item := range b.menus[i].Items {
		if !item.Separator {
			return j
		}
	}
	return 0
}

func (b *Bar) Left() {
	if !b.IsOpen() {
		return
	}
	b.Open((b.open - 1 + len(b.menus)) % len(b.menus))
}

func (b *Bar) Right() {
	if !b.IsOpen() {
		return
	}
	b.Open((b.open + 1) % len(b.menus))
}

func (b *Bar) Up() {
	b.step(-1)
}

func (b *Bar) Down() {
	b.step(1)
}

func (b *Bar) step(delta int) {
	if !b.IsOpen() {
		return
	}
	items := b.menus[b.open].Items
	n := len(items)
	for i := 1; i <= n; i++ {
		j := ((b.index+delta*i)%n + n) % n
		if !items[j].Separator {
			b.index = j
			return
		}
	}
}

// Selected returns the highlighted item of the open menu.
func (b *Bar) Selected() (Item, bool) {
	if !b.IsOpen() {
		return Item{}, false
	}
	items := b.menus[b.open].Items
	if b.index < 0 || b.index >= len(items) || items[b.index].Separator {
		return Item{}, false
	}
	return items[b.index], true
}

func (b *Bar) SelectIndex(i int) {
	if !b.IsOpen() {
		return
	}
	items := b.menus[b.open].Items
	if i >= 0 && i < len(items) && !items[i].Separator {
		b.index = i
	}
}

// HandleKey drives an open menu. It returns the command to run when an item
// is activated; handled is false for keys the menu does not use.
func (b *Bar) HandleKey(ev *tcell.EventKey) (id command.ID, handled bool) {
	if !b.IsOpen() {
		return "", false
	}
	switch ev.Key() {
	case tcell.KeyEscape:
		b.Close()
	case tcell.KeyLeft:
		b.Left()
	case tcell.KeyRight:
		b.Right()
	case tcell.KeyUp:
		b.Up()
	case tcell.KeyDown:
		b.Down()
	case tcell.KeyEnter:
		item, ok := b.Selected()
		b.Close()
		if ok {
			return item.Command, true
		}
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl|tcell.ModMeta) != 0 {
			return "", false
		}
		if i, ok := b.mnemonic(ev.Rune()); ok {
			item := b.menus[b.open].Items[i]
			b.Close()
			return item.Command, true
		}
	default:
		return "", false
	}
	return "", true
}

// mnemonic matches the first letter of an item label, case-insensitively.
func (b *Bar) mnemonic(r rune) (int, bool) {
	for i, item := range b.menus[b.open].Items {
		if item.Separator || item.Label == "" {
			continue
		}
		first := []rune(item.Label)[0]
		if equalFold(first, r) {
			return i, true
		}
	}
	return 0, false
}
