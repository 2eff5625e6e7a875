package engine

import "time"

// Timing holds the delays that pace playback and turn handoffs.
type Timing struct {
	PadFlash       time.Duration // how long a pad stays lit
	PadInterval    time.Duration // gap between the starts of consecutive pads in playback
	HandoffPadding time.Duration // extra wait after playback before the player may press
	NextRoundDelay time.Duration // pause between a completed round and the next playback
}

func DefaultTiming() Timing {
	return Timing{
		PadFlash:       500 * time.Millisecond,
		PadInterval:    600 * time.Millisecond,
		HandoffPadding: 1000 * time.Millisecond,
		NextRoundDelay: 1000 * time.Millisecond,
	}
}

// PlaybackOffset is when the i-th pad of a playback lights up.
func (t Timing) PlaybackOffset(i int) time.Duration {
	return time.Duration(i) * t.PadInterval
}

// Handoff is how long after playback starts the player's turn begins.
func (t Timing) Handoff(length int) time.Duration {
	return time.Duration(length)*t.PadInterval + t.HandoffPadding
}
