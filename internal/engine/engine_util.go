package engine

func NewEmptyState() State {
	return State{
		Phase:            PhaseIdle,
		ComputerSequence: Sequence{},
		PlayerSequence:   Sequence{},
	}
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// Active reports whether a game is in progress.
func (s State) Active() bool {
	return s.Phase == PhaseComputerTurn || s.Phase == PhasePlayerTurn
}

// IsPrefix reports whether the player's presses so far match the start of the computer's sequence.
func (s State) IsPrefix() bool {
	if len(s.PlayerSequence) > len(s.ComputerSequence) {
		return false
	}
	for i, p := range s.PlayerSequence {
		if s.ComputerSequence[i] != p {
			return false
		}
	}
	return true
}
