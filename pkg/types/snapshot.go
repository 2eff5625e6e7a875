package types

// StateSnapshot is everything a client needs to render a game it just joined.
type StateSnapshot struct {
	Phase          string   `json:"phase"` // "idle" | "computer_turn" | "player_turn" | "game_over"
	RoundCount     int      `json:"round_count"`
	MaxRoundCount  int      `json:"max_round_count"`
	ComputerLength int      `json:"computer_length"`
	PlayerSequence []string `json:"player_sequence"`
	Outcome        string   `json:"outcome,omitempty"`
	Heading        string   `json:"heading"`
	Status         string   `json:"status"`
	StartVisible   bool     `json:"start_visible"`
	InputLocked    bool     `json:"input_locked"`
}

// GameView is the REST representation of a running game.
type GameView struct {
	Code       string        `json:"code"`
	Version    int           `json:"version"`
	Clients    int           `json:"clients"`
	Generation uint64        `json:"generation"`
	State      StateSnapshot `json:"state"`
}
