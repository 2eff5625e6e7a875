package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/simon-says-backend/internal/engine"
	"github.com/DoyleJ11/simon-says-backend/internal/schedule"
)

const (
	DefaultHeading = "Simon Says"

	statusComputerTurn = "The computer's turn..."
	statusPlayerTurn   = "Your turn!"
	statusRoundDone    = "Nice! Keep going!"

	MessageWin  = "Congratulations! You won!"
	MessageLoss = "Wrong move! Game over."
)

// Random picks the computer's pads. *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// Controller runs one game at a time. It is not safe for concurrent use: the
// owner must call it, and run its scheduled steps, from a single goroutine.
type Controller struct {
	state      engine.State
	generation uint64
	presenter  Presenter
	scheduler  schedule.Scheduler
	random     Random
	timing     engine.Timing
	log        *zap.Logger
}

type Option func(*Controller)

func WithRandom(r Random) Option {
	return func(c *Controller) { c.random = r }
}

func WithTiming(t engine.Timing) Option {
	return func(c *Controller) { c.timing = t }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func NewController(p Presenter, s schedule.Scheduler, opts ...Option) *Controller {
	c := &Controller{
		state:     engine.NewEmptyState(),
		presenter: p,
		scheduler: s,
		random:    globalRandom{},
		timing:    engine.DefaultTiming(),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current round state.
func (c *Controller) State() engine.State { return c.state.Clone() }

// Generation identifies the current game. It advances on every start and every game over.
func (c *Controller) Generation() uint64 { return c.generation }

func (c *Controller) Timing() engine.Timing { return c.timing }

// StartGame begins a new game, abandoning any game in progress. An invalid
// difficulty leaves everything untouched.
func (c *Controller) StartGame(d engine.Difficulty) error {
	events, err := c.apply(engine.Command{Type: engine.CmdStartGame, Difficulty: d})
	if err != nil {
		return err
	}
	c.generation++
	c.log.Info("game started",
		zap.Uint64("generation", c.generation),
		zap.Int("difficulty", int(d)),
		zap.Int("max_rounds", c.state.MaxRoundCount),
	)
	c.present(events)
	return nil
}

// RunComputerTurn appends a random pad and plays back the whole sequence.
func (c *Controller) RunComputerTurn() error {
	pad := engine.Pads[c.random.IntN(len(engine.Pads))]
	events, err := c.apply(engine.Command{Type: engine.CmdComputerTurn, Pad: pad})
	if err != nil {
		return err
	}
	c.present(events)
	return nil
}

func (c *Controller) beginPlayerTurn() error {
	events, err := c.apply(engine.Command{Type: engine.CmdBeginPlayerTurn})
	if err != nil {
		return err
	}
	c.present(events)
	return nil
}

// SubmitPress records a player press. Presses outside the player's turn are
// ignored; only an unknown pad is an error.
func (c *Controller) SubmitPress(pad engine.Pad) error {
	events, err := c.apply(engine.Command{Type: engine.CmdPressPad, Pad: pad})
	if errors.Is(err, engine.ErrNotPlayerTurn) {
		c.log.Debug("press ignored", zap.String("pad", string(pad)), zap.String("phase", string(c.state.Phase)))
		return nil
	}
	if err != nil {
		return err
	}
	c.present(events)
	return nil
}

// Acknowledge dismisses a finished game's outcome. It does nothing otherwise.
func (c *Controller) Acknowledge() {
	events, err := c.apply(engine.Command{Type: engine.CmdAcknowledge})
	if err != nil {
		return
	}
	c.present(events)
}

func (c *Controller) apply(cmd engine.Command) ([]engine.Event, error) {
	events, next, err := engine.Apply(c.state, cmd)
	if err != nil {
		return nil, err
	}
	c.state = next
	return events, nil
}

func (c *Controller) present(events []engine.Event) {
	p := c.presenter
	for _, evt := range events {
		switch evt.Type {
		case engine.EvtGameStarted:
			p.HideStartControl()
			p.LockInput()
			c.after(0, c.RunComputerTurn)

		case engine.EvtPadAppended:
			p.LockInput()
			p.SetStatusText(statusComputerTurn)
			p.SetHeadingText(fmt.Sprintf("Round %d of %d", evt.Round, evt.MaxRounds))
			seq := c.state.Clone().ComputerSequence
			p.ActivateSequence(seq)
			// Scheduled after playback so it fires after every playback step
			c.after(c.timing.Handoff(len(seq)), c.beginPlayerTurn)

		case engine.EvtFinalRound:
			p.CueFinalRound()

		case engine.EvtPlayerTurnStarted:
			p.UnlockInput()
			p.SetStatusText(statusPlayerTurn)

		case engine.EvtPadPressed:
			p.ActivatePad(evt.Pad)
			p.SetStatusText(fmt.Sprintf("Press %s (%d left)", strings.ToUpper(string(evt.Pad)), evt.Remaining))

		case engine.EvtRoundCompleted:
			p.SetStatusText(statusRoundDone)
			p.LockInput()
			c.after(c.timing.NextRoundDelay, c.RunComputerTurn)

		case engine.EvtGameWon:
			c.finish(engine.OutcomeWin, MessageWin, evt)

		case engine.EvtGameLost:
			c.finish(engine.OutcomeLoss, MessageLoss, evt)

		case engine.EvtAcknowledged:
			p.ShowStartControl()
		}
	}
}

func (c *Controller) finish(outcome engine.Outcome, message string, evt engine.Event) {
	c.log.Info("game over",
		zap.Uint64("generation", c.generation),
		zap.String("outcome", string(outcome)),
		zap.Int("round", evt.Round),
		zap.Int("max_rounds", evt.MaxRounds),
	)
	c.generation++

	p := c.presenter
	p.LockInput()
	p.SetHeadingText(DefaultHeading)
	p.ShowStartControl()
	p.AnnounceOutcome(outcome, message)
}

// after schedules fn for the current game only. If the generation has moved
// on by the time it fires, fn is dropped.
func (c *Controller) after(d time.Duration, fn func() error) {
	gen := c.generation
	c.scheduler.After(d, func() {
		if c.generation != gen {
			c.log.Debug("stale step dropped", zap.Uint64("scheduled_generation", gen), zap.Uint64("generation", c.generation))
			return
		}
		if err := fn(); err != nil {
			c.log.Warn("scheduled step rejected", zap.Uint64("generation", gen), zap.Error(err))
		}
	})
}
