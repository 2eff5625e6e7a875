package tui

import (
	"context"
	"errors"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/DoyleJ11/simon-says-backend/internal/engine"
	"github.com/DoyleJ11/simon-says-backend/internal/game"
	"github.com/DoyleJ11/simon-says-backend/internal/schedule"
)

type Options struct {
	Timing engine.Timing
	Sound  Sound
	Random game.Random
	Logger *zap.Logger
}

// App owns one terminal game. Key events and scheduled steps are handled on
// the goroutine that calls Run.
type App struct {
	screen tcell.Screen
	view   *View
	ctrl   *game.Controller
	timers *schedule.Timers
	tasks  chan func()
	done   chan struct{}
	log    *zap.Logger
}

func New(screen tcell.Screen, opts Options) *App {
	a := &App{
		screen: screen,
		tasks:  make(chan func(), 64),
		done:   make(chan struct{}),
	}
	a.timers = schedule.NewTimers(a.post)
	a.build(a.timers, opts)
	return a
}

func (a *App) build(sched schedule.Scheduler, opts Options) {
	if opts.Timing == (engine.Timing{}) {
		opts.Timing = engine.DefaultTiming()
	}
	a.log = opts.Logger
	if a.log == nil {
		a.log = zap.NewNop()
	}

	a.view = NewView(a.screen, sched, opts.Timing, opts.Sound)
	ctrlOpts := []game.Option{game.WithTiming(opts.Timing), game.WithLogger(a.log)}
	if opts.Random != nil {
		ctrlOpts = append(ctrlOpts, game.WithRandom(opts.Random))
	}
	a.ctrl = game.NewController(a.view, sched, ctrlOpts...)
}

func (a *App) post(fn func()) {
	select {
	case a.tasks <- fn:
	case <-a.done:
	}
}

// Run draws the board and processes input until the player quits or ctx ends.
func (a *App) Run(ctx context.Context) error {
	defer close(a.done)
	defer a.timers.Stop()

	a.screen.HideCursor()
	a.view.Draw()

	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return // screen finalized
			}
			select {
			case events <- ev:
			case <-a.done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case fn := <-a.tasks:
			fn()

		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventResize:
				a.screen.Sync()
				a.view.Draw()
			case *tcell.EventKey:
				if a.handleKey(e.Key(), e.Rune()) {
					return nil
				}
			}
		}
	}
}

// handleKey applies one key press and reports whether the player asked to quit.
func (a *App) handleKey(k tcell.Key, r rune) bool {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyEnter:
		if a.view.ShowingOutcome() {
			a.ctrl.Acknowledge()
			a.view.Dismiss()
		}
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	r = unicode.ToLower(r)
	switch {
	case r == 'q':
		return true

	case r >= '1' && r <= '4':
		if !a.view.StartVisible() {
			return false
		}
		if err := a.ctrl.StartGame(engine.Difficulty(r - '0')); err != nil {
			a.log.Warn("start rejected", zap.Error(err))
		}

	default:
		pad, ok := padForKey(r)
		if !ok || a.view.InputLocked() {
			return false
		}
		if err := a.ctrl.SubmitPress(pad); err != nil {
			a.log.Debug("press rejected", zap.Error(err))
		}
	}
	return false
}

func padForKey(r rune) (engine.Pad, bool) {
	for p, look := range looks {
		if look.key == r {
			return p, true
		}
	}
	return "", false
}
