package keybind

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestSequenceForKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
	}{
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlA, 0, tcell.ModCtrl), "Control-a"},
		{"ctrl letter no mod", tcell.NewEventKey(tcell.KeyCtrlQ, 0, 0), "Control-q"},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModAlt), "Alt-p"},
		{"shift f3", tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModShift), "Shift-f3"},
		{"f1", tcell.NewEventKey(tcell.KeyF1, 0, 0), "f1"},
		{"plain rune drops shift", tcell.NewEventKey(tcell.KeyRune, 'Z', tcell.ModShift), "Z"},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, 0), "Shift-tab"},
		{"tab is not ctrl+i", tcell.NewEventKey(tcell.KeyTab, 0, 0), "tab"},
		{"enter is not ctrl+m", tcell.NewEventKey(tcell.KeyEnter, 0, 0), "enter"},
		{"meta rune", tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModMeta), "Meta-s"},
		{"ctrl shift letter", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl|tcell.ModShift), "Control-Shift-z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SequenceForKey(tt.ev); got != tt.want {
				t.Fatalf("SequenceForKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	tests := map[string]string{
		"Control-Shift-Z":   "Control-Shift-Z",
		"Shift-Control-Z":   "Control-Shift-Z",
		"Option-x":          "Alt-x",
		"Command-s":         "Meta-s",
		"Shift-F3":          "Shift-f3",
		"Return":            "enter",
		"Control-Prior":     "Control-pgup",
		"Control-Control-a": "Control-a",
	}
	for in, want := range tests {
		if got := Canonical(in); got != want {
			t.Fatalf("Canonical(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDispatchFiresBoundAccelerators(t *testing.T) {
	r := NewRegistry()
	var got []string
	bind := func(spec, name string) {
		t.Helper()
		if err := BindAccelerator(r, spec, func(ev Event) {
			got = append(got, name)
		}); err != nil {
			t.Fatalf("BindAccelerator(%q) error: %v", spec, err)
		}
	}
	bind("Ctrl+A", "select_all")
	bind("Alt+P", "print_settings")
	bind("Shift-F3", "find_prev")
	bind("F3", "find_next")
	bind("Ctrl+Shift-Z", "redo")

	events := []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyCtrlA, 0, tcell.ModCtrl),
		tcell.NewEventKey(tcell.KeyRune, 'P', tcell.ModAlt|tcell.ModShift),
		tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModAlt),
		tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModShift),
		tcell.NewEventKey(tcell.KeyF3, 0, 0),
		tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl|tcell.ModShift),
	}
	for _, ev := range events {
		if !r.Dispatch(ev) {
			t.Fatalf("Dispatch(%q) found no binding", SequenceForKey(ev))
		}
	}
	want := []string{"select_all", "print_settings", "print_settings", "find_prev", "find_next", "redo"}
	if len(got) != len(want) {
		t.Fatalf("fired = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fired[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDispatchUnbound(t *testing.T) {
	r := NewRegistry()
	if err := BindAccelerator(r, "Ctrl+A", func(Event) {
		t.Fatalf("handler must not fire")
	}); err != nil {
		t.Fatalf("BindAccelerator error: %v", err)
	}
	if r.Dispatch(tcell.NewEventKey(tcell.KeyRune, 'a', 0)) {
		t.Fatalf("plain 'a' dispatched to Ctrl+A")
	}
	if r.Dispatch(tcell.NewEventKey(tcell.KeyCtrlB, 0, tcell.ModCtrl)) {
		t.Fatalf("Ctrl+B dispatched")
	}
}

func TestBindReplacesSameSequence(t *testing.T) {
	r := NewRegistry()
	var got string
	r.Bind("Control-s", func(Event) { got = "first" })
	r.Bind("Control-s", func(Event) { got = "second" })
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
	h, ok := r.Lookup("Control-s")
	if !ok {
		t.Fatalf("Lookup failed")
	}
	h(Event{})
	if got != "second" {
		t.Fatalf("handler = %q, want %q", got, "second")
	}
}

func TestLookupOptionMatchesAlt(t *testing.T) {
	r := NewRegistry()
	if err := BindAccelerator(r, "Opt+X", func(Event) {}); err != nil {
		t.Fatalf("BindAccelerator error: %v", err)
	}
	if !r.Dispatch(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt)) {
		t.Fatalf("Alt-x did not reach Option-x binding")
	}
}
