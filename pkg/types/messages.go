// Package types is the JSON wire protocol spoken over /ws.
package types

// Client -> Server
// StartGame:
//   difficulty: 1 | 2 | 3 | 4
//
// PressPad:
//   pad: "red" | "green" | "blue" | "yellow"
//
// Acknowledge: {}   (dismiss a win/loss announcement)

// Server -> Client
// Snapshot:          sent on join; see StateSnapshot
// ActivateSequence:  sequence: pad[]  (play back, one pad every interval_ms)
// ActivatePad:       pad
// Status:            text
// Heading:           text
// StartControl:      visible: boolean
// Input:             locked: boolean
// Outcome:           outcome: "win" | "loss", text
// FinalRound:        {}  (play the victory jingle)
// Error:             error

const (
	ClientStartGame   = "StartGame"
	ClientPressPad    = "PressPad"
	ClientAcknowledge = "Acknowledge"

	ServerError = "Error"
)

type ClientMessage struct {
	Type       string `json:"type"`
	Difficulty int    `json:"difficulty,omitempty"`
	Pad        string `json:"pad,omitempty"`
}

type ServerMessage struct {
	Type       string         `json:"type"`
	Version    int            `json:"version,omitempty"`
	Sequence   []string       `json:"sequence,omitempty"`
	IntervalMS int64          `json:"interval_ms,omitempty"`
	Pad        string         `json:"pad,omitempty"`
	Text       string         `json:"text,omitempty"`
	Visible    *bool          `json:"visible,omitempty"`
	Locked     *bool          `json:"locked,omitempty"`
	Outcome    string         `json:"outcome,omitempty"`
	Snapshot   *StateSnapshot `json:"snapshot,omitempty"`
	Error      string         `json:"error,omitempty"`
}
