package keybind

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qpad/internal/logger"
)

// Binding associates a key sequence with its handler.
type Binding struct {
	Sequence string
	Handler  Handler
}

// Registry is the key-binding table of one window. It is the Binder the
// accelerator resolver writes into and the dispatcher terminal key events
// are matched against.
type Registry struct {
	bindings []Binding
	index    map[string]int // canonical sequence -> position in bindings
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Bind registers h for sequence. Binding a sequence that is already present
// replaces its handler.
func (r *Registry) Bind(sequence string, h Handler) {
	canon := Canonical(sequence)
	if i, ok := r.index[canon]; ok {
		logger.Debug("key binding replaced", "sequence", sequence, "previous", r.bindings[i].Sequence)
		r.bindings[i] = Binding{Sequence: sequence, Handler: h}
		return
	}
	r.index[canon] = len(r.bindings)
	r.bindings = append(r.bindings, Binding{Sequence: sequence, Handler: h})
	logger.Debug("key binding registered", "sequence", sequence, "canonical", canon)
}

// Bindings returns a copy of the table in registration order.
func (r *Registry) Bindings() []Binding {
	out := make([]Binding, len(r.bindings))
	copy(out, r.bindings)
	return out
}

func (r *Registry) Len() int {
	return len(r.bindings)
}

func (r *Registry) Lookup(sequence string) (Handler, bool) {
	i, ok := r.index[Canonical(sequence)]
	if !ok {
		return nil, false
	}
	return r.bindings[i].Handler, true
}

// Dispatch invokes the handler bound to ev, if any, and reports whether one
// fired.
func (r *Registry) Dispatch(ev *tcell.EventKey) bool {
	seq := SequenceForKey(ev)
	if seq == "" {
		return false
	}
	h, ok := r.Lookup(seq)
	if !ok && ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModShift != 0 {
		// Alt+Shift+p arrives as Alt-Shift-P; the case already says shift.
		seq = strings.Replace(seq, "Shift-", "", 1)
		h, ok = r.Lookup(seq)
	}
	if !ok {
		return false
	}
	if h != nil {
		h(Event{Sequence: seq, Key: ev})
	}
	return true
}

// canonical modifier order; Option and Command are the mac names of the
// terminal's Alt and Meta.
var modifierOrder = []string{"Control", "Alt", "Shift", "Meta"}

var modifierCanon = map[string]string{
	"Control": "Control",
	"Alt":     "Alt",
	"Option":  "Alt",
	"Shift":   "Shift",
	"Command": "Meta",
	"Meta":    "Meta",
}

var keyAliases = map[string]string{
	"return":       "enter",
	"escape":       "esc",
	"prior":        "pgup",
	"pageup":       "pgup",
	"next":         "pgdn",
	"pagedown":     "pgdn",
	"delete":       "del",
	"back":         "backspace",
	"ins":          "insert",
	"iso_left_tab": "tab",
}

func canonicalKey(key string) string {
	if utf8.RuneCountInString(key) == 1 {
		return key
	}
	key = strings.ToLower(key)
	if alias, ok := keyAliases[key]; ok {
		return alias
	}
	return key
}

// Canonical rewrites a sequence so that equivalent spellings compare equal:
// modifiers are ordered and deduplicated, Option/Command fold into Alt/Meta
// and named keys are lower-cased. Single-character keys keep their case.
func Canonical(sequence string) string {
	parts := strings.Split(sequence, "-")
	key := parts[len(parts)-1]
	have := make(map[string]bool, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		if c, ok := modifierCanon[NormalizeModifier(p)]; ok {
			have[c] = true
		}
	}
	return joinSequence(have, canonicalKey(key))
}

func joinSequence(mods map[string]bool, key string) string {
	var sb strings.Builder
	for _, m := range modifierOrder {
		if mods[m] {
			sb.WriteString(m)
			sb.WriteByte('-')
		}
	}
	sb.WriteString(key)
	return sb.String()
}

// SequenceForKey translates a terminal key event into a canonical sequence.
// It returns "" for events that have no name.
func SequenceForKey(ev *tcell.EventKey) string {
	mask := ev.Modifiers()
	mods := map[string]bool{
		"Control": mask&tcell.ModCtrl != 0,
		"Alt":     mask&tcell.ModAlt != 0,
		"Shift":   mask&tcell.ModShift != 0,
		"Meta":    mask&tcell.ModMeta != 0,
	}
	key := namedKey(ev.Key())
	switch {
	case ev.Key() == tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			key = "space"
		} else {
			key = string(r)
		}
		// The rune already carries shift unless another modifier is held.
		if !mods["Control"] && !mods["Alt"] && !mods["Meta"] {
			mods["Shift"] = false
		}
	case ev.Key() == tcell.KeyBacktab:
		key = "tab"
		mods["Shift"] = true
	case key != "":
	case ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ:
		key = string(rune('a' + int(ev.Key()-tcell.KeyCtrlA)))
		mods["Control"] = true
	case ev.Key() == tcell.KeyCtrlSpace:
		key = "space"
		mods["Control"] = true
	default:
		return ""
	}
	return joinSequence(mods, key)
}

func namedKey(k tcell.Key) string {
	if k >= tcell.KeyF1 && k <= tcell.KeyF64 {
		return fmt.Sprintf("f%d", int(k-tcell.KeyF1)+1)
	}
	switch k {
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyDelete:
		return "del"
	case tcell.KeyInsert:
		return "insert"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	}
	return ""
}
