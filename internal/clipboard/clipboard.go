// Package clipboard copies and pastes text through the system clipboard,
// falling back to an OSC52 escape sequence for writes and to the last text
// copied in-process for reads.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"go.uber.org/multierr"

	"github.com/kobzarvs/qpad/internal/logger"
)

type Method uint8

const (
	MethodSystem Method = iota
	MethodOSC52
	MethodLocal
)

func (m Method) String() string {
	switch m {
	case MethodSystem:
		return "system"
	case MethodOSC52:
		return "osc52"
	case MethodLocal:
		return "local"
	}
	return "unknown"
}

var ErrEmpty = errors.New("clipboard empty")

// Clipboard is safe for use from the UI goroutine only.
type Clipboard struct {
	writeSystem func(string) error
	readSystem  func() (string, error)
	writeOSC52  func(string) error
	local       string
	haveLocal   bool
}

func New() *Clipboard {
	return &Clipboard{
		writeSystem: clipboard.WriteAll,
		readSystem:  clipboard.ReadAll,
		writeOSC52:  writeOSC52Clipboard,
	}
}

// NewLocal returns a clipboard that never leaves the process.
func NewLocal() *Clipboard {
	unavailable := func(string) error { return errors.New("system clipboard disabled") }
	return &Clipboard{
		writeSystem: unavailable,
		readSystem:  func() (string, error) { return "", nil },
		writeOSC52:  unavailable,
	}
}

// Copy stores text locally and pushes it to the system clipboard, or via
// OSC52 when that fails. A local-only copy is reported with the combined
// error of both attempts.
func (c *Clipboard) Copy(text string) (Method, error) {
	c.local = text
	c.haveLocal = true
	sysErr := c.writeSystem(text)
	if sysErr == nil {
		return MethodSystem, nil
	}
	oscErr := c.writeOSC52(text)
	if oscErr == nil {
		logger.Debug("system clipboard failed, used OSC52", "err", sysErr)
		return MethodOSC52, nil
	}
	err := multierr.Combine(
		fmt.Errorf("system clipboard: %s", humanize(sysErr)),
		fmt.Errorf("OSC52: %w", oscErr),
	)
	logger.Warn("clipboard copy kept in process", "err", err)
	return MethodLocal, err
}

// Paste prefers the system clipboard and falls back to the last local copy.
func (c *Clipboard) Paste() (string, Method, error) {
	text, err := c.readSystem()
	if err == nil && text != "" {
		return text, MethodSystem, nil
	}
	if c.haveLocal {
		if err != nil {
			logger.Debug("system clipboard read failed, using local copy", "err", err)
		}
		return c.local, MethodLocal, nil
	}
	if err != nil {
		return "", MethodSystem, fmt.Errorf("system clipboard: %s", humanize(err))
	}
	return "", MethodSystem, ErrEmpty
}

func writeOSC52Clipboard(text string) error {
	if !shouldAttemptOSC52() {
		return errors.New("OSC52 unavailable for this terminal")
	}
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open /dev/tty: %w", err)
	}
	defer tty.Close()
	return writeOSC52Sequence(tty, text)
}

func writeOSC52Sequence(w io.Writer, text string) error {
	seq := osc52.New(text)
	termName := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(termName, "screen"):
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(w)
	return err
}

func shouldAttemptOSC52() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("QPAD_DISABLE_OSC52"))) {
	case "1", "true", "yes", "on":
		return false
	}
	termName := strings.TrimSpace(os.Getenv("TERM"))
	return termName != "" && !strings.EqualFold(termName, "dumb")
}

func humanize(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "exit status 1" && missingDisplay() {
		return "no GUI clipboard available (DISPLAY/WAYLAND_DISPLAY unset)"
	}
	return msg
}

func missingDisplay() bool {
	return strings.TrimSpace(os.Getenv("DISPLAY")) == "" && strings.TrimSpace(os.Getenv("WAYLAND_DISPLAY")) == ""
}
