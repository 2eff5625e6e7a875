package game

import "github.com/DoyleJ11/simon-says-backend/internal/engine"

// Presenter is everything the controller asks of the presentation layer.
type Presenter interface {
	// ActivateSequence plays back the full sequence, one pad per PadInterval.
	ActivateSequence(seq engine.Sequence)
	// ActivatePad flashes a single pad, used to echo the player's presses.
	ActivatePad(pad engine.Pad)
	SetStatusText(text string)
	SetHeadingText(text string)
	ShowStartControl()
	HideStartControl()
	LockInput()
	UnlockInput()
	AnnounceOutcome(outcome engine.Outcome, message string)
	// CueFinalRound is called when playback of the last round starts.
	CueFinalRound()
}

type NopPresenter struct{}

func (NopPresenter) ActivateSequence(engine.Sequence)       {}
func (NopPresenter) ActivatePad(engine.Pad)                 {}
func (NopPresenter) SetStatusText(string)                   {}
func (NopPresenter) SetHeadingText(string)                  {}
func (NopPresenter) ShowStartControl()                      {}
func (NopPresenter) HideStartControl()                      {}
func (NopPresenter) LockInput()                             {}
func (NopPresenter) UnlockInput()                           {}
func (NopPresenter) AnnounceOutcome(engine.Outcome, string) {}
func (NopPresenter) CueFinalRound()                         {}
