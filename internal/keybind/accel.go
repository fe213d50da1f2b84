package keybind

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// ErrInvalidSpecification is returned for accelerator strings that cannot be
// turned into a key binding.
var ErrInvalidSpecification = errors.New("invalid accelerator specification")

// Event is passed to a Handler when its binding fires.
type Event struct {
	Sequence string
	Key      *tcell.EventKey // nil when invoked without a terminal event
}

type Handler func(Event)

// Binder receives low-level key sequences produced from accelerators.
type Binder interface {
	Bind(sequence string, h Handler)
}

// Spec is a parsed accelerator such as "Ctrl+Shift-Z".
type Spec struct {
	Modifiers []string
	Key       string
}

var modifierSynonyms = []struct{ from, to string }{
	{"Ctrl", "Control"},
	{"Opt", "Option"},
	{"Cmd", "Command"},
}

var knownModifiers = map[string]bool{
	"Control": true,
	"Shift":   true,
	"Alt":     true,
	"Option":  true,
	"Command": true,
	"Meta":    true,
}

// NormalizeModifier rewrites modifier synonyms. Already normalized names are
// returned unchanged.
func NormalizeModifier(tok string) string {
	for _, syn := range modifierSynonyms {
		if strings.Contains(tok, syn.to) {
			continue
		}
		tok = strings.ReplaceAll(tok, syn.from, syn.to)
	}
	return tok
}

func isSeparator(r rune) bool {
	return r == '+' || r == '-'
}

// Parse splits an accelerator on '+' and '-'. The last token is the key, the
// rest are modifiers.
func Parse(spec string) (Spec, error) {
	if spec == "" {
		return Spec{}, fmt.Errorf("%w: empty string", ErrInvalidSpecification)
	}
	tokens := strings.FieldsFunc(spec, isSeparator)
	if got, want := len(tokens), strings.Count(spec, "+")+strings.Count(spec, "-")+1; got != want {
		return Spec{}, fmt.Errorf("%w: empty token in %q", ErrInvalidSpecification, spec)
	}
	mods := make([]string, 0, len(tokens)-1)
	for _, tok := range tokens[:len(tokens)-1] {
		mod := NormalizeModifier(strings.TrimSpace(tok))
		if !knownModifiers[mod] {
			return Spec{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidSpecification, tok, spec)
		}
		mods = append(mods, mod)
	}
	key := strings.TrimSpace(tokens[len(tokens)-1])
	if key == "" {
		return Spec{}, fmt.Errorf("%w: missing key in %q", ErrInvalidSpecification, spec)
	}
	return Spec{Modifiers: mods, Key: key}, nil
}

// Prefix joins the normalized modifiers with '-'.
func (s Spec) Prefix() string {
	return strings.Join(s.Modifiers, "-")
}

// Sequences lists the key sequences that must be bound for s. A single
// character key is bound in both cases so Ctrl+A fires whether or not shift
// or caps lock is active.
func (s Spec) Sequences() []string {
	prefix := s.Prefix()
	if prefix != "" {
		prefix += "-"
	}
	if utf8.RuneCountInString(s.Key) != 1 {
		return []string{prefix + s.Key}
	}
	upper := strings.ToUpper(s.Key)
	lower := strings.ToLower(s.Key)
	if upper == lower {
		return []string{prefix + s.Key}
	}
	return []string{prefix + upper, prefix + lower}
}

// BindAccelerator parses spec and registers every sequence it expands to.
// Nothing is bound when spec is invalid.
func BindAccelerator(b Binder, spec string, h Handler) error {
	parsed, err := Parse(spec)
	if err != nil {
		return err
	}
	for _, seq := range parsed.Sequences() {
		b.Bind(seq, h)
	}
	return nil
}
