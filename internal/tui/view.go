// Package tui plays Simon Says in the terminal.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/DoyleJ11/simon-says-backend/internal/engine"
	"github.com/DoyleJ11/simon-says-backend/internal/game"
	"github.com/DoyleJ11/simon-says-backend/internal/schedule"
)

// Sound is what the view needs from an audio device. *tones.Speaker satisfies it.
type Sound interface {
	Play(p engine.Pad, d time.Duration)
	PlayCue()
}

type silent struct{}

func (silent) Play(engine.Pad, time.Duration) {}
func (silent) PlayCue()                       {}

const (
	padWidth  = 16
	padHeight = 5
	startHint = "Press 1-4 to start: 1=8 rounds  2=14  3=20  4=31"
	keysHint  = "r g b y press pads   Enter dismiss   q quit"
)

type padLook struct {
	dim, lit tcell.Color
	key      rune
	col, row int
}

// Classic board: green top-left, red top-right, yellow bottom-left, blue bottom-right.
var looks = map[engine.Pad]padLook{
	engine.PadGreen:  {tcell.ColorDarkGreen, tcell.ColorLime, 'g', 0, 0},
	engine.PadRed:    {tcell.ColorMaroon, tcell.ColorRed, 'r', 1, 0},
	engine.PadYellow: {tcell.ColorOlive, tcell.ColorYellow, 'y', 0, 1},
	engine.PadBlue:   {tcell.ColorNavy, tcell.ColorBlue, 'b', 1, 1},
}

// View draws the board and implements game.Presenter. It must only be used
// from the goroutine that runs the scheduler's callbacks.
type View struct {
	screen tcell.Screen
	sched  schedule.Scheduler
	timing engine.Timing
	sound  Sound

	heading      string
	status       string
	startVisible bool
	inputLocked  bool
	finalRound   bool
	outcome      engine.Outcome
	outcomeText  string
	lit          map[engine.Pad]int

	// playback is bumped whenever a running playback must stop lighting pads.
	playback uint64
}

var _ game.Presenter = (*View)(nil)

func NewView(screen tcell.Screen, sched schedule.Scheduler, timing engine.Timing, sound Sound) *View {
	if sound == nil {
		sound = silent{}
	}
	return &View{
		screen:       screen,
		sched:        sched,
		timing:       timing,
		sound:        sound,
		heading:      game.DefaultHeading,
		startVisible: true,
		inputLocked:  true,
		lit:          make(map[engine.Pad]int),
	}
}

func (v *View) ActivateSequence(seq engine.Sequence) {
	v.playback++
	token := v.playback
	for i, p := range seq {
		v.sched.After(v.timing.PlaybackOffset(i), func() {
			if v.playback != token {
				return
			}
			v.flash(p)
		})
	}
}

func (v *View) ActivatePad(p engine.Pad) { v.flash(p) }

// flash lights p for one flash duration and sounds its tone.
func (v *View) flash(p engine.Pad) {
	v.lit[p]++
	v.sound.Play(p, v.timing.PadFlash)
	v.Draw()
	v.sched.After(v.timing.PadFlash, func() {
		if v.lit[p] > 0 {
			v.lit[p]--
		}
		v.Draw()
	})
}

func (v *View) SetStatusText(text string)  { v.status = text; v.Draw() }
func (v *View) SetHeadingText(text string) { v.heading = text; v.Draw() }

func (v *View) ShowStartControl() { v.startVisible = true; v.Draw() }

func (v *View) HideStartControl() {
	v.startVisible = false
	v.finalRound = false
	v.Dismiss()
}

func (v *View) LockInput()   { v.inputLocked = true; v.Draw() }
func (v *View) UnlockInput() { v.inputLocked = false; v.Draw() }

func (v *View) AnnounceOutcome(outcome engine.Outcome, message string) {
	v.playback++
	clear(v.lit)
	v.outcome = outcome
	v.outcomeText = message
	v.status = ""
	v.finalRound = false
	v.Draw()
}

func (v *View) CueFinalRound() {
	v.finalRound = true
	v.sound.PlayCue()
	v.Draw()
}

// Dismiss clears the outcome banner.
func (v *View) Dismiss() {
	v.outcome = engine.OutcomeNone
	v.outcomeText = ""
	v.Draw()
}

func (v *View) StartVisible() bool { return v.startVisible }
func (v *View) InputLocked() bool  { return v.inputLocked }
func (v *View) ShowingOutcome() bool {
	return v.outcome != engine.OutcomeNone
}

// Lit reports whether p is currently lit.
func (v *View) Lit(p engine.Pad) bool { return v.lit[p] > 0 }

func (v *View) Draw() {
	s := v.screen
	s.Clear()
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	base := tcell.StyleDefault
	boardW := 2*padWidth + 2
	left := max((w-boardW)/2, 0)
	top := 3

	drawCentered(s, w/2, 1, v.heading, base.Bold(true))

	for _, p := range engine.Pads {
		look := looks[p]
		bg := look.dim
		if v.Lit(p) {
			bg = look.lit
		}
		x := left + look.col*(padWidth+2)
		y := top + look.row*(padHeight+1)
		fill(s, x, y, padWidth, padHeight, base.Background(bg))
		label := fmt.Sprintf("[%c] %s", look.key, strings.ToUpper(string(p)))
		drawCentered(s, x+padWidth/2, y+padHeight/2, label, base.Background(bg).Foreground(tcell.ColorWhite))
	}

	y := top + 2*(padHeight+1) + 1
	if v.finalRound {
		drawCentered(s, w/2, y, "Final round!", base.Foreground(tcell.ColorYellow).Bold(true))
	}
	drawCentered(s, w/2, y+1, v.status, base)

	if v.outcome != engine.OutcomeNone {
		color := tcell.ColorGreen
		if v.outcome == engine.OutcomeLoss {
			color = tcell.ColorDarkRed
		}
		drawCentered(s, w/2, y+3, " "+v.outcomeText+" (Enter) ", base.Background(color).Foreground(tcell.ColorWhite).Bold(true))
	}
	if v.startVisible {
		drawCentered(s, w/2, y+5, startHint, base.Foreground(tcell.ColorSilver))
	}
	drawCentered(s, w/2, h-1, keysHint, base.Foreground(tcell.ColorGray))
	s.Show()
}

func drawText(s tcell.Screen, x, y int, text string, st tcell.Style) {
	for i, ch := range []rune(text) {
		s.SetContent(x+i, y, ch, nil, st)
	}
}

func drawCentered(s tcell.Screen, cx, cy int, text string, st tcell.Style) {
	x := cx - len([]rune(text))/2
	drawText(s, x, cy, text, st)
}

func fill(s tcell.Screen, x, y, w, h int, st tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			s.SetContent(col, row, ' ', nil, st)
		}
	}
}
