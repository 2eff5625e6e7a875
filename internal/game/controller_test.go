package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/simon-says-backend/internal/engine"
	"github.com/DoyleJ11/simon-says-backend/internal/schedule"
)

// recorder is a Presenter that logs every call in order.
type recorder struct {
	calls     []string
	sequences []engine.Sequence
	outcomes  []engine.Outcome
	status    string
	heading   string
	locked    bool
	startShow bool
}

func (r *recorder) log(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) ActivateSequence(seq engine.Sequence) {
	r.sequences = append(r.sequences, seq)
	r.log("ActivateSequence %v", seq)
}
func (r *recorder) ActivatePad(pad engine.Pad) { r.log("ActivatePad %s", pad) }
func (r *recorder) SetStatusText(text string) {
	r.status = text
	r.log("Status %s", text)
}
func (r *recorder) SetHeadingText(text string) {
	r.heading = text
	r.log("Heading %s", text)
}
func (r *recorder) ShowStartControl() {
	r.startShow = true
	r.log("ShowStart")
}
func (r *recorder) HideStartControl() {
	r.startShow = false
	r.log("HideStart")
}
func (r *recorder) LockInput() {
	r.locked = true
	r.log("Lock")
}
func (r *recorder) UnlockInput() {
	r.locked = false
	r.log("Unlock")
}
func (r *recorder) AnnounceOutcome(outcome engine.Outcome, message string) {
	r.outcomes = append(r.outcomes, outcome)
	r.log("Outcome %s %s", outcome, message)
}
func (r *recorder) CueFinalRound() { r.log("FinalRound") }

func (r *recorder) count(call string) int {
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

// scripted returns pad indexes from a fixed list, cycling.
type scripted struct {
	picks []int
	next  int
}

func (s *scripted) IntN(n int) int {
	v := s.picks[s.next%len(s.picks)] % n
	s.next++
	return v
}

func padIndex(p engine.Pad) int {
	for i, candidate := range engine.Pads {
		if candidate == p {
			return i
		}
	}
	return -1
}

func newTestController(pads ...engine.Pad) (*Controller, *recorder, *schedule.Manual) {
	picks := make([]int, 0, len(pads))
	for _, p := range pads {
		picks = append(picks, padIndex(p))
	}
	if len(picks) == 0 {
		picks = []int{0}
	}
	rec := &recorder{}
	clock := schedule.NewManual()
	c := NewController(rec, clock, WithRandom(&scripted{picks: picks}))
	return c, rec, clock
}

// playUntilPlayerTurn runs the pending computer turn and its playback handoff.
func playUntilPlayerTurn(t *testing.T, c *Controller, clock *schedule.Manual) {
	t.Helper()
	clock.Advance(c.Timing().NextRoundDelay)
	clock.Advance(c.Timing().Handoff(c.State().RoundCount))
	require.Equal(t, engine.PhasePlayerTurn, c.State().Phase)
}

func TestStartGame_DifficultyTiers(t *testing.T) {
	cases := []struct {
		difficulty engine.Difficulty
		wantMax    int
	}{
		{1, 8}, {2, 14}, {3, 20}, {4, 31},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("tier %d", tc.difficulty), func(t *testing.T) {
			c, _, _ := newTestController()
			require.NoError(t, c.StartGame(tc.difficulty))
			assert.Equal(t, tc.wantMax, c.State().MaxRoundCount)
		})
	}
}

func TestStartGame_InvalidTierLeavesStateUnchanged(t *testing.T) {
	for _, d := range []engine.Difficulty{0, 5} {
		c, rec, clock := newTestController()
		before := c.State()

		err := c.StartGame(d)
		require.ErrorIs(t, err, engine.ErrInvalidDifficulty)
		assert.Equal(t, before, c.State())
		assert.Empty(t, rec.calls)
		assert.Zero(t, clock.Pending())
		assert.Zero(t, c.Generation())
	}
}

func TestStartGame_SequenceEmptyUntilFirstComputerTurn(t *testing.T) {
	c, rec, clock := newTestController(engine.PadBlue)
	require.NoError(t, c.StartGame(1))

	s := c.State()
	assert.Equal(t, 1, s.RoundCount)
	assert.Empty(t, s.ComputerSequence)
	assert.True(t, rec.locked)
	assert.False(t, rec.startShow)

	clock.Advance(0)
	assert.Equal(t, engine.Sequence{engine.PadBlue}, c.State().ComputerSequence)
	assert.Equal(t, "Round 1 of 8", rec.heading)
	assert.Equal(t, "The computer's turn...", rec.status)
}

func TestSubmitPress_IgnoredDuringComputerTurn(t *testing.T) {
	c, rec, clock := newTestController(engine.PadRed)
	require.NoError(t, c.StartGame(1))
	clock.Advance(0)
	calls := len(rec.calls)

	require.NoError(t, c.SubmitPress(engine.PadRed))
	assert.Empty(t, c.State().PlayerSequence)
	assert.Equal(t, engine.PhaseComputerTurn, c.State().Phase)
	assert.Len(t, rec.calls, calls)
}

func TestSubmitPress_UnknownPad(t *testing.T) {
	c, _, _ := newTestController()
	err := c.SubmitPress(engine.Pad("purple"))
	require.ErrorIs(t, err, engine.ErrUnknownPad)
}

func TestSingleRoundThenNextComputerTurn(t *testing.T) {
	c, rec, clock := newTestController(engine.PadGreen, engine.PadYellow)
	require.NoError(t, c.StartGame(1))
	assert.Equal(t, 8, c.State().MaxRoundCount)

	clock.Advance(0)
	x := c.State().ComputerSequence[0]

	// Input unlocks only once the handoff delay has passed
	clock.Advance(c.Timing().Handoff(1) - time.Millisecond)
	assert.True(t, rec.locked)
	clock.Advance(time.Millisecond)
	assert.False(t, rec.locked)
	assert.Equal(t, "Your turn!", rec.status)

	require.NoError(t, c.SubmitPress(x))
	s := c.State()
	assert.Equal(t, 2, s.RoundCount)
	assert.Empty(t, s.PlayerSequence)
	assert.Equal(t, engine.PhaseComputerTurn, s.Phase)
	assert.Equal(t, "Nice! Keep going!", rec.status)
	assert.True(t, rec.locked)

	clock.Advance(c.Timing().NextRoundDelay)
	assert.Equal(t, engine.Sequence{engine.PadGreen, engine.PadYellow}, c.State().ComputerSequence)
	assert.Equal(t, "Round 2 of 8", rec.heading)
}

func TestPressReportsRemaining(t *testing.T) {
	c, rec, clock := newTestController(engine.PadRed, engine.PadGreen)
	require.NoError(t, c.StartGame(1))
	playUntilPlayerTurn(t, c, clock)
	require.NoError(t, c.SubmitPress(engine.PadRed))
	playUntilPlayerTurn(t, c, clock)

	require.NoError(t, c.SubmitPress(engine.PadRed))
	assert.Equal(t, "Press RED (1 left)", rec.status)
	assert.Equal(t, "ActivatePad red", rec.calls[len(rec.calls)-2])
	assert.Equal(t, engine.PhasePlayerTurn, c.State().Phase)
}

func TestMismatchLosesAndResets(t *testing.T) {
	c, rec, clock := newTestController(engine.PadRed, engine.PadGreen)
	require.NoError(t, c.StartGame(1))
	playUntilPlayerTurn(t, c, clock)
	require.NoError(t, c.SubmitPress(engine.PadRed))
	playUntilPlayerTurn(t, c, clock)
	require.Equal(t, engine.Sequence{engine.PadRed, engine.PadGreen}, c.State().ComputerSequence)

	require.NoError(t, c.SubmitPress(engine.PadRed))
	gen := c.Generation()
	require.NoError(t, c.SubmitPress(engine.PadBlue))

	s := c.State()
	assert.Equal(t, engine.PhaseGameOver, s.Phase)
	assert.Equal(t, engine.OutcomeLoss, s.Outcome)
	assert.Equal(t, 0, s.RoundCount)
	assert.Equal(t, 0, s.MaxRoundCount)
	assert.Empty(t, s.ComputerSequence)
	assert.Empty(t, s.PlayerSequence)
	assert.Equal(t, []engine.Outcome{engine.OutcomeLoss}, rec.outcomes)
	assert.Equal(t, "Simon Says", rec.heading)
	assert.True(t, rec.startShow)
	assert.Greater(t, c.Generation(), gen)

	c.Acknowledge()
	assert.Equal(t, engine.PhaseIdle, c.State().Phase)
}

func TestFullGameWin(t *testing.T) {
	c, rec, clock := newTestController(
		engine.PadRed, engine.PadGreen, engine.PadBlue, engine.PadYellow,
		engine.PadYellow, engine.PadBlue, engine.PadGreen, engine.PadRed,
	)
	require.NoError(t, c.StartGame(1))

	for round := 1; round <= 8; round++ {
		playUntilPlayerTurn(t, c, clock)
		require.Equal(t, round, c.State().RoundCount)
		for _, p := range c.State().ComputerSequence {
			require.NoError(t, c.SubmitPress(p))
		}
	}

	assert.Equal(t, engine.OutcomeWin, c.State().Outcome)
	assert.Equal(t, []engine.Outcome{engine.OutcomeWin}, rec.outcomes)
	assert.Equal(t, 1, rec.count("FinalRound"))
	assert.Zero(t, clock.Pending())
}

func TestPlaybackPrecedesHandoff(t *testing.T) {
	c, rec, clock := newTestController(engine.PadYellow)
	require.NoError(t, c.StartGame(1))
	clock.Advance(0)

	require.Len(t, rec.sequences, 1)
	assert.Equal(t, engine.Sequence{engine.PadYellow}, rec.sequences[0])
	assert.Equal(t, 1, clock.Pending())
	assert.Zero(t, rec.count("Unlock"))
}

func TestStaleStepsFromAbandonedGameAreDropped(t *testing.T) {
	c, rec, clock := newTestController(engine.PadRed, engine.PadBlue, engine.PadGreen)
	require.NoError(t, c.StartGame(1))
	clock.Advance(0)
	require.Len(t, c.State().ComputerSequence, 1)

	// Restart halfway through playback; the old handoff is still queued.
	clock.Advance(500 * time.Millisecond)
	require.NoError(t, c.StartGame(2))
	assert.Equal(t, 2, clock.Pending())

	clock.Advance(0)
	require.Len(t, c.State().ComputerSequence, 1)

	// The old handoff would land at 1600ms, the new one at 2100ms.
	clock.Advance(1200 * time.Millisecond)
	assert.Equal(t, engine.PhaseComputerTurn, c.State().Phase)
	assert.Zero(t, rec.count("Unlock"))

	clock.Advance(time.Second)
	assert.Equal(t, engine.PhasePlayerTurn, c.State().Phase)
	assert.Equal(t, 1, rec.count("Unlock"))
	assert.Equal(t, 14, c.State().MaxRoundCount)
	assert.Len(t, c.State().ComputerSequence, 1)
}

func TestStepsAfterGameOverAreDropped(t *testing.T) {
	c, _, clock := newTestController(engine.PadRed)
	require.NoError(t, c.StartGame(1))
	playUntilPlayerTurn(t, c, clock)
	require.NoError(t, c.SubmitPress(engine.PadRed))
	require.Equal(t, 1, clock.Pending())

	// Lose round 2 before its computer turn can run
	c.state.Phase = engine.PhasePlayerTurn
	c.state.ComputerSequence = engine.Sequence{engine.PadRed, engine.PadRed}
	require.NoError(t, c.SubmitPress(engine.PadBlue))
	require.Equal(t, engine.PhaseGameOver, c.State().Phase)

	clock.Flush()
	assert.Equal(t, engine.PhaseGameOver, c.State().Phase)
	assert.Empty(t, c.State().ComputerSequence)
}

func TestRunComputerTurn_OutsideComputerTurn(t *testing.T) {
	c, _, _ := newTestController()
	err := c.RunComputerTurn()
	require.ErrorIs(t, err, engine.ErrWrongPhase)
	assert.Empty(t, c.State().ComputerSequence)
}

func TestAcknowledgeOutsideGameOverIsNoop(t *testing.T) {
	c, rec, _ := newTestController()
	c.Acknowledge()
	assert.Equal(t, engine.PhaseIdle, c.State().Phase)
	assert.Empty(t, rec.calls)
}
