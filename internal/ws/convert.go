package ws

import (
	"fmt"
	"time"

	"github.com/DoyleJ11/simon-says-backend/internal/engine"
	"github.com/DoyleJ11/simon-says-backend/internal/session"
	"github.com/DoyleJ11/simon-says-backend/pkg/types"
)

// ToServerMessage renders a session notice for the wire. interval tells the
// client how fast to play back an ActivateSequence.
func ToServerMessage(n session.Notice, interval time.Duration) types.ServerMessage {
	msg := types.ServerMessage{Type: string(n.Kind), Version: n.Version}

	switch n.Kind {
	case session.NoticeSnapshot:
		if n.State != nil {
			screen := session.Screen{}
			if n.Screen != nil {
				screen = *n.Screen
			}
			snap := Snapshot(*n.State, screen)
			msg.Snapshot = &snap
		}
	case session.NoticeActivateSequence:
		msg.Sequence = padNames(n.Sequence)
		msg.IntervalMS = interval.Milliseconds()
	case session.NoticeActivatePad:
		msg.Pad = string(n.Pad)
	case session.NoticeStatus, session.NoticeHeading:
		msg.Text = n.Text
	case session.NoticeStartControl:
		visible := n.Visible
		msg.Visible = &visible
	case session.NoticeInput:
		locked := n.Locked
		msg.Locked = &locked
	case session.NoticeOutcome:
		msg.Outcome = string(n.Outcome)
		msg.Text = n.Text
	}
	return msg
}

// Snapshot hides the computer's sequence; clients only learn it through playback.
func Snapshot(s engine.State, screen session.Screen) types.StateSnapshot {
	return types.StateSnapshot{
		Phase:          string(s.Phase),
		RoundCount:     s.RoundCount,
		MaxRoundCount:  s.MaxRoundCount,
		ComputerLength: len(s.ComputerSequence),
		PlayerSequence: padNames(s.PlayerSequence),
		Outcome:        string(s.Outcome),
		Heading:        screen.Heading,
		Status:         screen.Status,
		StartVisible:   screen.StartVisible,
		InputLocked:    screen.InputLocked,
	}
}

func padNames(seq engine.Sequence) []string {
	names := make([]string, len(seq))
	for i, p := range seq {
		names[i] = string(p)
	}
	return names
}

func toSessionMsg(m types.ClientMessage) (session.Msg, error) {
	switch m.Type {
	case types.ClientStartGame:
		return session.Start{Difficulty: engine.Difficulty(m.Difficulty)}, nil
	case types.ClientPressPad:
		pad, err := engine.ParsePad(m.Pad)
		if err != nil {
			return nil, err
		}
		return session.Press{Pad: pad}, nil
	case types.ClientAcknowledge:
		return session.Acknowledge{}, nil
	default:
		return nil, fmt.Errorf("unknown type %q", m.Type)
	}
}
