package engine

import (
	"errors"
	"slices"
)

var ErrInvalidDifficulty = errors.New("invalid difficulty")
var ErrUnknownPad = errors.New("unknown pad")
var ErrNotPlayerTurn = errors.New("not the player's turn")
var ErrWrongPhase = errors.New("command not valid in current phase")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseComputerTurn Phase = "computer_turn"
	PhasePlayerTurn   Phase = "player_turn"
	PhaseGameOver     Phase = "game_over"
)

type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

type State struct {
	Phase            Phase    `json:"phase"`
	RoundCount       int      `json:"round_count"`
	MaxRoundCount    int      `json:"max_round_count"`
	ComputerSequence Sequence `json:"computer_sequence"`
	PlayerSequence   Sequence `json:"player_sequence"`
	Outcome          Outcome  `json:"outcome,omitempty"`
}

type CommandType string

const (
	CmdStartGame       CommandType = "StartGame"
	CmdComputerTurn    CommandType = "ComputerTurn"
	CmdBeginPlayerTurn CommandType = "BeginPlayerTurn"
	CmdPressPad        CommandType = "PressPad"
	CmdAcknowledge     CommandType = "Acknowledge"
)

/*
	CmdStartGame       -> EvtGameStarted
	CmdComputerTurn    -> EvtPadAppended (+ EvtFinalRound on the last round)
	CmdBeginPlayerTurn -> EvtPlayerTurnStarted
	CmdPressPad        -> EvtPadPressed, then one of EvtGameLost | EvtRoundCompleted | EvtGameWon when the press decides something
	CmdAcknowledge     -> EvtAcknowledged

	The pad for CmdComputerTurn is chosen by the caller so Apply stays deterministic.
*/

type Command struct {
	Type       CommandType
	Difficulty Difficulty
	Pad        Pad
}

type EventType string

const (
	EvtGameStarted       EventType = "GameStarted"
	EvtPadAppended       EventType = "PadAppended"
	EvtFinalRound        EventType = "FinalRound"
	EvtPlayerTurnStarted EventType = "PlayerTurnStarted"
	EvtPadPressed        EventType = "PadPressed"
	EvtRoundCompleted    EventType = "RoundCompleted"
	EvtGameWon           EventType = "GameWon"
	EvtGameLost          EventType = "GameLost"
	EvtAcknowledged      EventType = "Acknowledged"
)

type Event struct {
	Type      EventType
	Pad       Pad
	Round     int
	MaxRounds int
	Remaining int
}

func Apply(s State, cmd Command) ([]Event, State, error) {
	switch cmd.Type {
	case CmdStartGame:
		maxRounds, err := MaxRounds(cmd.Difficulty)
		if err != nil {
			return nil, s, err
		}

		newState := NewEmptyState()
		newState.Phase = PhaseComputerTurn
		newState.RoundCount = 1
		newState.MaxRoundCount = maxRounds

		events := []Event{
			{Type: EvtGameStarted, Round: 1, MaxRounds: maxRounds},
		}
		return events, newState, nil

	case CmdComputerTurn:
		// Exactly one pad per round
		if s.Phase != PhaseComputerTurn || len(s.ComputerSequence) != s.RoundCount-1 {
			return nil, s, ErrWrongPhase
		}
		if !cmd.Pad.Valid() {
			return nil, s, ErrUnknownPad
		}

		newState := s.Clone()
		newState.ComputerSequence = append(newState.ComputerSequence, cmd.Pad)

		events := []Event{
			{Type: EvtPadAppended, Pad: cmd.Pad, Round: s.RoundCount, MaxRounds: s.MaxRoundCount},
		}
		if s.RoundCount == s.MaxRoundCount {
			events = append(events, Event{Type: EvtFinalRound, Round: s.RoundCount, MaxRounds: s.MaxRoundCount})
		}
		return events, newState, nil

	case CmdBeginPlayerTurn:
		if s.Phase != PhaseComputerTurn || len(s.ComputerSequence) != s.RoundCount {
			return nil, s, ErrWrongPhase
		}

		newState := s.Clone()
		newState.Phase = PhasePlayerTurn
		newState.PlayerSequence = Sequence{}

		events := []Event{
			{Type: EvtPlayerTurnStarted, Round: s.RoundCount, Remaining: len(s.ComputerSequence)},
		}
		return events, newState, nil

	case CmdPressPad:
		if !cmd.Pad.Valid() {
			return nil, s, ErrUnknownPad
		}
		if s.Phase != PhasePlayerTurn {
			return nil, s, ErrNotPlayerTurn
		}

		newState := s.Clone()
		newState.PlayerSequence = append(newState.PlayerSequence, cmd.Pad)
		index := len(newState.PlayerSequence) - 1
		remaining := len(newState.ComputerSequence) - len(newState.PlayerSequence)

		events := []Event{
			{Type: EvtPadPressed, Pad: cmd.Pad, Round: s.RoundCount, Remaining: remaining},
		}

		// Mismatch ends the game immediately
		if newState.ComputerSequence[index] != cmd.Pad {
			events = append(events, Event{Type: EvtGameLost, Round: s.RoundCount, MaxRounds: s.MaxRoundCount})
			return events, gameOver(OutcomeLoss), nil
		}

		if remaining > 0 {
			return events, newState, nil
		}

		// Round complete
		if s.RoundCount == s.MaxRoundCount {
			events = append(events, Event{Type: EvtGameWon, Round: s.RoundCount, MaxRounds: s.MaxRoundCount})
			return events, gameOver(OutcomeWin), nil
		}

		events = append(events, Event{Type: EvtRoundCompleted, Round: s.RoundCount, MaxRounds: s.MaxRoundCount})
		newState.RoundCount++
		newState.PlayerSequence = Sequence{}
		newState.Phase = PhaseComputerTurn
		return events, newState, nil

	case CmdAcknowledge:
		if s.Phase != PhaseGameOver {
			return nil, s, ErrWrongPhase
		}
		return []Event{{Type: EvtAcknowledged}}, NewEmptyState(), nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func gameOver(outcome Outcome) State {
	s := NewEmptyState()
	s.Phase = PhaseGameOver
	s.Outcome = outcome
	return s
}

// Clone returns a copy of s that shares no slices with it.
func (s State) Clone() State {
	c := s
	c.ComputerSequence = slices.Clone(s.ComputerSequence)
	c.PlayerSequence = slices.Clone(s.PlayerSequence)
	if c.ComputerSequence == nil {
		c.ComputerSequence = Sequence{}
	}
	if c.PlayerSequence == nil {
		c.PlayerSequence = Sequence{}
	}
	return c
}
