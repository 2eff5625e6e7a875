package session

import (
	"github.com/DoyleJ11/simon-says-backend/internal/engine"
	"github.com/DoyleJ11/simon-says-backend/internal/game"
)

type NoticeKind string

const (
	NoticeSnapshot         NoticeKind = "Snapshot"
	NoticeActivateSequence NoticeKind = "ActivateSequence"
	NoticeActivatePad      NoticeKind = "ActivatePad"
	NoticeStatus           NoticeKind = "Status"
	NoticeHeading          NoticeKind = "Heading"
	NoticeStartControl     NoticeKind = "StartControl"
	NoticeInput            NoticeKind = "Input"
	NoticeOutcome          NoticeKind = "Outcome"
	NoticeFinalRound       NoticeKind = "FinalRound"
)

// Notice is one presenter call, fanned out to every client.
type Notice struct {
	Version  int
	Kind     NoticeKind
	Sequence engine.Sequence
	Pad      engine.Pad
	Text     string
	Visible  bool
	Locked   bool
	Outcome  engine.Outcome
	State    *engine.State // snapshot only
	Screen   *Screen       // snapshot only
}

// Screen is what a client should currently be showing, so late joiners can catch up.
type Screen struct {
	Heading      string
	Status       string
	StartVisible bool
	InputLocked  bool
}

func initialScreen() Screen {
	return Screen{
		Heading:      game.DefaultHeading,
		StartVisible: true,
		InputLocked:  true,
	}
}

// broadcaster is the controller's Presenter. It only runs on the session goroutine.
type broadcaster struct{ s *Session }

func (b broadcaster) ActivateSequence(seq engine.Sequence) {
	b.s.broadcast(Notice{Kind: NoticeActivateSequence, Sequence: seq})
}

func (b broadcaster) ActivatePad(pad engine.Pad) {
	b.s.broadcast(Notice{Kind: NoticeActivatePad, Pad: pad})
}

func (b broadcaster) SetStatusText(text string) {
	b.s.screen.Status = text
	b.s.broadcast(Notice{Kind: NoticeStatus, Text: text})
}

func (b broadcaster) SetHeadingText(text string) {
	b.s.screen.Heading = text
	b.s.broadcast(Notice{Kind: NoticeHeading, Text: text})
}

func (b broadcaster) ShowStartControl() {
	b.s.screen.StartVisible = true
	b.s.broadcast(Notice{Kind: NoticeStartControl, Visible: true})
}

func (b broadcaster) HideStartControl() {
	b.s.screen.StartVisible = false
	b.s.broadcast(Notice{Kind: NoticeStartControl, Visible: false})
}

func (b broadcaster) LockInput() {
	b.s.screen.InputLocked = true
	b.s.broadcast(Notice{Kind: NoticeInput, Locked: true})
}

func (b broadcaster) UnlockInput() {
	b.s.screen.InputLocked = false
	b.s.broadcast(Notice{Kind: NoticeInput, Locked: false})
}

func (b broadcaster) AnnounceOutcome(outcome engine.Outcome, message string) {
	b.s.broadcast(Notice{Kind: NoticeOutcome, Outcome: outcome, Text: message})
}

func (b broadcaster) CueFinalRound() {
	b.s.broadcast(Notice{Kind: NoticeFinalRound})
}
