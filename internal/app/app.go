package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qpad/internal/clipboard"
	"github.com/kobzarvs/qpad/internal/config"
	"github.com/kobzarvs/qpad/internal/editor"
	"github.com/kobzarvs/qpad/internal/logger"
	"github.com/kobzarvs/qpad/internal/session"
	"github.com/kobzarvs/qpad/internal/watch"
)

type Options struct {
	Files          []string
	Debug          bool
	LocalClipboard bool
}

// App is the top-level runtime for qpad.
type App struct {
	opts      Options
	newScreen func() (tcell.Screen, error)
}

func New(opts Options) *App {
	return &App{opts: opts, newScreen: tcell.NewScreen}
}

// fileChanged and exitRequest travel to the UI goroutine inside
// tcell interrupt events.
type (
	fileChanged string
	exitRequest struct{}
)

func (a *App) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dir, err := config.ConfigDir(); err == nil {
		if err := logger.Init(logger.Path(dir), a.opts.Debug); err != nil {
			fmt.Fprintln(os.Stderr, "qpad: log disabled:", err)
		}
		defer logger.Close()
	}

	ed, err := editor.New(cfg)
	if err != nil {
		return fmt.Errorf("menu: %w", err)
	}
	if a.opts.LocalClipboard {
		ed.SetClipboard(clipboard.NewLocal())
	}
	if sm, err := session.NewManager(); err != nil {
		logger.Warn("session disabled", "err", err)
	} else {
		defer func() {
			if err := sm.Stop(); err != nil {
				logger.Warn("session save failed", "err", err)
			}
		}()
		ed.SetSession(sm)
	}
	defer ed.Shutdown()

	s, err := a.newScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	defer s.Fini()

	w, err := watch.New(func(path string) {
		_ = s.PostEvent(tcell.NewEventInterrupt(fileChanged(path)))
	})
	if err != nil {
		logger.Warn("file watcher disabled", "err", err)
	} else {
		defer w.Close()
		ed.SetWatchFunc(w.Watch)
	}

	if len(a.opts.Files) > 0 {
		if err := ed.OpenFile(a.opts.Files[0]); err != nil {
			return err
		}
		ed.Queue(a.opts.Files[1:]...)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigs)
	go func() {
		for range sigs {
			_ = s.PostEvent(tcell.NewEventInterrupt(exitRequest{}))
		}
	}()

	return a.loop(s, ed)
}

func (a *App) loop(s tcell.Screen, ed *editor.Editor) error {
	title := ""
	render := func() {
		if t := ed.Title(); t != title {
			title = t
			s.SetTitle(t)
		}
		ed.Render(s)
	}
	render()
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			ed.HandleMouse(ev)
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			switch data := ev.Data().(type) {
			case fileChanged:
				ed.ExternalChange(string(data))
			case exitRequest:
				ed.RequestExit()
			}
		}
		if ed.Quit() {
			return nil
		}
		render()
	}
}
