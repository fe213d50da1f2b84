package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qpad/internal/buffer"
	"github.com/kobzarvs/qpad/internal/clipboard"
	"github.com/kobzarvs/qpad/internal/command"
	"github.com/kobzarvs/qpad/internal/config"
	"github.com/kobzarvs/qpad/internal/keybind"
	"github.com/kobzarvs/qpad/internal/logger"
	"github.com/kobzarvs/qpad/internal/menu"
	"github.com/kobzarvs/qpad/internal/session"
)

const (
	Name        = "qpad"
	Description = "Simple terminal text editor."
)

// Version is overridden at link time.
var Version = "0.1"

// editMenu is the menu opened by the right mouse button.
const editMenu = 1

// Editor is one window: a text area under a menu bar, plus the status bar
// and whichever dialog is open.
type Editor struct {
	buf     *buffer.Buffer
	keys    *keybind.Registry
	bar     *menu.Bar
	clip    *clipboard.Clipboard
	session *session.Manager
	dialog  *dialog

	filename  string
	pending   []string
	lastQuery string
	status    string
	title     string

	scroll      int
	scrollX     int
	viewHeight  int
	tabWidth    int
	exitConfirm string
	freeScroll  bool
	mouseDown   tcell.ButtonMask
	dragging    bool
	quit        bool

	watch       func(path string) error
	commandHook func(id command.ID)

	styleMain        tcell.Style
	styleStatus      tcell.Style
	styleSelection   tcell.Style
	styleDialog      tcell.Style
	styleDialogFrame tcell.Style
	menuStyles       menu.Styles
}

// New builds the window and binds every menu accelerator. An accelerator
// that does not parse is a configuration error and fails construction.
func New(cfg config.Config) (*Editor, error) {
	tabWidth := cfg.Editor.TabWidth
	if tabWidth < 1 {
		tabWidth = 1
	}
	title := strings.TrimSpace(cfg.Editor.Title)
	if title == "" {
		title = Name
	}
	th := cfg.Theme
	mainFg := parseColor(th.Foreground, tcell.ColorWhite)
	mainBg := parseColor(th.Background, tcell.ColorBlack)
	menuFg := parseColor(th.MenuForeground, tcell.ColorBlack)
	menuBg := parseColor(th.MenuBackground, tcell.ColorSilver)
	dialogBg := parseColor(th.DialogBackground, tcell.ColorSilver)

	e := &Editor{
		buf:         buffer.New(),
		keys:        keybind.NewRegistry(),
		clip:        clipboard.New(),
		title:       title,
		tabWidth:    tabWidth,
		exitConfirm: cfg.Editor.ExitConfirm,
		styleMain:   tcell.StyleDefault.Foreground(mainFg).Background(mainBg),
		styleStatus: tcell.StyleDefault.
			Foreground(parseColor(th.StatusForeground, tcell.ColorBlack)).
			Background(parseColor(th.StatusBackground, tcell.ColorSilver)),
		styleSelection: tcell.StyleDefault.
			Foreground(parseColor(th.SelectionForeground, mainBg)).
			Background(parseColor(th.SelectionBackground, mainFg)),
		styleDialog: tcell.StyleDefault.
			Foreground(parseColor(th.DialogForeground, tcell.ColorBlack)).
			Background(dialogBg),
		styleDialogFrame: tcell.StyleDefault.
			Foreground(parseColor(th.DialogBorderForeground, tcell.ColorNavy)).
			Background(dialogBg),
		menuStyles: menu.Styles{
			Bar: tcell.StyleDefault.Foreground(menuFg).Background(menuBg),
			Selected: tcell.StyleDefault.
				Foreground(parseColor(th.MenuSelectedForeground, tcell.ColorWhite)).
				Background(parseColor(th.MenuSelectedBackground, tcell.ColorNavy)),
			Accelerator: tcell.StyleDefault.
				Foreground(parseColor(th.MenuAcceleratorForeground, tcell.ColorGray)).
				Background(menuBg),
		},
	}

	menus := menu.ApplyOverrides(menu.Default(), cfg.Accelerators)
	bar, err := menu.Build(menus, e.keys, e.run)
	if err != nil {
		return nil, err
	}
	e.bar = bar
	if err := keybind.BindAccelerator(e.keys, "F10", func(keybind.Event) { e.bar.Open(0) }); err != nil {
		return nil, err
	}
	logger.Info("window ready", "bindings", e.keys.Len())
	return e, nil
}

func (e *Editor) SetClipboard(c *clipboard.Clipboard) {
	e.clip = c
}

// SetSession attaches the session store; the last search query comes back
// with it.
func (e *Editor) SetSession(m *session.Manager) {
	e.session = m
	if m != nil && e.lastQuery == "" {
		e.lastQuery = m.LastSearch()
	}
}

// SetWatchFunc is called with the absolute path of the file shown in the
// window, or "" when there is none.
func (e *Editor) SetWatchFunc(fn func(path string) error) {
	e.watch = fn
}

func (e *Editor) Buffer() *buffer.Buffer {
	return e.buf
}

func (e *Editor) Keys() *keybind.Registry {
	return e.keys
}

func (e *Editor) Menu() *menu.Bar {
	return e.bar
}

func (e *Editor) Filename() string {
	return e.filename
}

func (e *Editor) StatusMessage() string {
	return e.status
}

func (e *Editor) SetStatusMessage(msg string) {
	e.status = msg
}

// Title is the terminal window title.
func (e *Editor) Title() string {
	if e.filename == "" {
		return e.title
	}
	return filepath.Base(e.filename) + " - " + e.title
}

// Quit reports whether the window has been closed.
func (e *Editor) Quit() bool {
	return e.quit
}

// Queue appends files to be shown after the current one is closed.
func (e *Editor) Queue(paths ...string) {
	e.pending = append(e.pending, paths...)
}

func (e *Editor) Pending() []string {
	out := make([]string, len(e.pending))
	copy(out, e.pending)
	return out
}

// OpenFile replaces the buffer with the contents of path. A path that does
// not exist yet opens an empty buffer that Save will create.
func (e *Editor) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	e.rememberPosition()
	e.buf.SetText(string(data))
	e.buf.MarkClean()
	e.filename = path
	e.scroll, e.scrollX = 0, 0
	if e.session != nil {
		if st, ok := e.session.FileState(absPath(path)); ok {
			e.buf.SetCursor(buffer.Cursor{Row: st.CursorRow, Col: st.CursorCol})
			e.scroll = st.ScrollY
		}
	}
	e.watchCurrent()
	if err != nil {
		logger.Info("new file", "path", path)
	} else {
		logger.Info("file loaded", "path", path, "bytes", len(data))
	}
	return nil
}

// Save writes the buffer to path, or to the current file when path is "".
func (e *Editor) Save(path string) error {
	if path == "" {
		if e.filename == "" {
			return errors.New("no file name")
		}
		path = e.filename
	}
	if err := os.WriteFile(path, []byte(e.buf.Text()), 0o644); err != nil {
		return err
	}
	changed := path != e.filename
	e.filename = path
	e.buf.MarkClean()
	if changed {
		e.watchCurrent()
	}
	logger.Info("file saved", "path", path)
	return nil
}

func (e *Editor) watchCurrent() {
	if e.watch == nil {
		return
	}
	path := ""
	if e.filename != "" {
		path = absPath(e.filename)
	}
	if err := e.watch(path); err != nil {
		logger.Warn("cannot watch file", "path", path, "err", err)
	}
}

func (e *Editor) rememberPosition() {
	if e.session == nil || e.filename == "" {
		return
	}
	c := e.buf.Cursor()
	e.session.SetFileState(absPath(e.filename), session.FileState{
		CursorRow: c.Row,
		CursorCol: c.Col,
		ScrollY:   e.scroll,
	})
}

// Shutdown stores the cursor of the open file in the session.
func (e *Editor) Shutdown() {
	e.rememberPosition()
}

// ExternalChange handles a write to path by another program. A clean buffer
// is reloaded; a modified one is left alone and the status bar says so.
func (e *Editor) ExternalChange(path string) {
	if e.filename == "" || absPath(e.filename) != path {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("changed file unreadable", "path", path, "err", err)
		return
	}
	if string(data) == e.buf.Text() {
		return
	}
	if e.buf.Dirty() {
		e.status = "file changed on disk"
		return
	}
	c := e.buf.Cursor()
	e.buf.SetText(string(data))
	e.buf.MarkClean()
	e.buf.SetCursor(c)
	e.status = "reloaded: file changed on disk"
	logger.Info("file reloaded", "path", path)
}

// RequestExit runs File Exit, as if chosen from the menu.
func (e *Editor) RequestExit() {
	e.run(command.FileExit)
}

func (e *Editor) run(id command.ID) {
	e.bar.Close()
	if e.commandHook != nil {
		e.commandHook(id)
	}
	e.report(e.Run(id))
}

func (e *Editor) report(res command.Result) {
	switch res.Status {
	case command.StatusFailed:
		logger.Error("command failed", "err", res.Err)
	case command.StatusNotImplemented:
		logger.Info("command not implemented", "message", res.Message)
	}
	e.status = res.Message
}

// Run executes a menu command. Commands that need an answer open a dialog
// and return an empty OK; the dialog reports the final result.
func (e *Editor) Run(id command.ID) command.Result {
	logger.Debug("command", "id", string(id))
	switch id {
	case command.FileNew:
		return e.guardDirty("New", e.fileNew)
	case command.FileOpen:
		return e.guardDirty("Load", e.fileLoad)
	case command.FileClose:
		return e.guardDirty("Close", e.fileClose)
	case command.FileSave:
		if e.filename == "" {
			return e.fileSaveAs()
		}
		return e.saveResult(e.filename)
	case command.FileSaveAs:
		return e.fileSaveAs()
	case command.FileInfo:
		return e.fileInfo()
	case command.FilePrint:
		return command.NotImplemented("Print")
	case command.FilePrintSettings:
		return command.NotImplemented("Print settings")
	case command.FilePreview:
		return command.NotImplemented("Preview")
	case command.FileExit:
		return e.fileExit()
	case command.EditUndo:
		return command.NotImplemented("Undo")
	case command.EditRedo:
		return command.NotImplemented("Redo")
	case command.EditCut:
		return e.editCut()
	case command.EditCopy:
		return e.editCopy()
	case command.EditPaste:
		return e.editPaste()
	case command.EditDelete:
		if !e.buf.DeleteSelection() {
			e.buf.DeleteForward()
		}
		return command.OK("")
	case command.EditSelectAll:
		e.buf.SelectAll()
		return command.OK("")
	case command.SearchFind:
		e.openPrompt("Find", "Find:", e.lastQuery, func(q string) command.Result {
			return e.find(q, true)
		})
		return command.OK("")
	case command.SearchFindNext:
		return e.find(e.lastQuery, true)
	case command.SearchFindPrev:
		return e.find(e.lastQuery, false)
	case command.SearchReplace:
		return command.NotImplemented("Replace")
	case command.HelpAbout:
		e.openInfo("About", aboutLines())
		return command.OK("")
	}
	return command.Failed(fmt.Errorf("unknown command %q", id))
}

// guardDirty runs fn directly, or after a confirmation when the buffer has
// unsaved changes.
func (e *Editor) guardDirty(title string, fn func() command.Result) command.Result {
	if !e.buf.Dirty() {
		return fn()
	}
	e.openConfirm(title, "Discard unsaved changes?", fn)
	return command.OK("")
}

func (e *Editor) fileNew() command.Result {
	e.rememberPosition()
	e.buf.SetText("")
	e.buf.MarkClean()
	e.filename = ""
	e.scroll, e.scrollX = 0, 0
	e.watchCurrent()
	return command.OK("new file")
}

func (e *Editor) fileLoad() command.Result {
	e.openPrompt("Load", "File name:", e.dirOfCurrent(), func(path string) command.Result {
		path = strings.TrimSpace(path)
		if path == "" {
			return command.Cancelled()
		}
		if err := e.OpenFile(path); err != nil {
			return command.Failed(err)
		}
		return command.OK("loaded " + path)
	})
	return command.OK("")
}

func (e *Editor) dirOfCurrent() string {
	if e.filename == "" {
		return ""
	}
	return filepath.Dir(e.filename) + string(filepath.Separator)
}

func (e *Editor) fileClose() command.Result {
	closed := e.filename
	e.rememberPosition()
	e.buf.SetText("")
	e.buf.MarkClean()
	e.filename = ""
	e.scroll, e.scrollX = 0, 0
	for len(e.pending) > 0 {
		next := e.pending[0]
		e.pending = e.pending[1:]
		if err := e.OpenFile(next); err != nil {
			logger.Warn("queued file skipped", "path", next, "err", err)
			continue
		}
		return command.OK("loaded " + next)
	}
	e.watchCurrent()
	if closed == "" {
		return command.OK("closed")
	}
	return command.OK("closed " + closed)
}

func (e *Editor) fileSaveAs() command.Result {
	e.openPrompt("Save As", "File name:", e.filename, func(path string) command.Result {
		path = strings.TrimSpace(path)
		if path == "" {
			return command.Cancelled()
		}
		return e.saveResult(path)
	})
	return command.OK("")
}

func (e *Editor) saveResult(path string) command.Result {
	if err := e.Save(path); err != nil {
		return command.Failed(err)
	}
	return command.OK("saved " + path)
}

func (e *Editor) fileInfo() command.Result {
	name := e.filename
	if name == "" {
		name = "(untitled)"
	}
	lines := []string{
		"Path: " + name,
		fmt.Sprintf("Lines: %d", e.buf.LineCount()),
		fmt.Sprintf("Characters: %d", e.buf.RuneCount()),
		fmt.Sprintf("Size: %d bytes", len(e.buf.Text())),
	}
	if e.filename != "" {
		if st, err := os.Stat(e.filename); err == nil {
			lines = append(lines,
				fmt.Sprintf("On disk: %d bytes", st.Size()),
				"Modified: "+st.ModTime().Format(time.DateTime))
		} else {
			lines = append(lines, "On disk: not saved yet")
		}
	}
	if e.buf.Dirty() {
		lines = append(lines, "Unsaved changes: yes")
	}
	e.openInfo("Info", lines)
	return command.OK("")
}

func (e *Editor) fileExit() command.Result {
	ask := true
	switch e.exitConfirm {
	case config.ExitConfirmNever:
		ask = false
	case config.ExitConfirmModified:
		ask = e.buf.Dirty()
	}
	if !ask {
		e.quit = true
		return command.OK("")
	}
	e.openConfirm("Exit", "Really quit?", func() command.Result {
		e.quit = true
		return command.OK("")
	})
	return command.OK("")
}

func (e *Editor) editCopy() command.Result {
	text := e.buf.SelectedText()
	if text == "" {
		return command.OK("nothing selected")
	}
	return e.copyText(text, "copied")
}

func (e *Editor) editCut() command.Result {
	text := e.buf.SelectedText()
	if text == "" {
		return command.OK("nothing selected")
	}
	res := e.copyText(text, "cut")
	e.buf.DeleteSelection()
	return res
}

func (e *Editor) copyText(text, verb string) command.Result {
	method, err := e.clip.Copy(text)
	if err != nil {
		return command.OK(verb + " (this window only)")
	}
	if method == clipboard.MethodOSC52 {
		return command.OK(verb + " via terminal")
	}
	return command.OK(verb)
}

func (e *Editor) editPaste() command.Result {
	text, _, err := e.clip.Paste()
	if errors.Is(err, clipboard.ErrEmpty) || (err == nil && text == "") {
		return command.OK("clipboard empty")
	}
	if err != nil {
		return command.Failed(err)
	}
	e.buf.InsertText(text)
	return command.OK("")
}

// find selects the next occurrence of q after the cursor, or the previous
// one before the selection start.
func (e *Editor) find(q string, forward bool) command.Result {
	if q == "" {
		return command.OK("no search text")
	}
	e.lastQuery = q
	if e.session != nil {
		e.session.SetLastSearch(q)
	}
	from := e.buf.Cursor()
	if start, _, ok := e.buf.Selection(); ok && !forward {
		from = start
	}
	start, end, ok := e.buf.Find(q, from, forward)
	if !ok {
		return command.OK("not found: " + q)
	}
	e.buf.Select(start, end)
	return command.OK("")
}

func aboutLines() []string {
	return []string{
		Name,
		Description,
		"Version " + Version,
		"",
		"Go: " + runtime.Version(),
		"Package: github.com/kobzarvs/qpad",
	}
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
