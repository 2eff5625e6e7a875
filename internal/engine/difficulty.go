package engine

import (
	"fmt"
	"strconv"
	"strings"
)

type Difficulty int

// roundsByDifficulty maps each tier to the number of rounds needed to win.
var roundsByDifficulty = map[Difficulty]int{
	1: 8,
	2: 14,
	3: 20,
	4: 31,
}

func MaxRounds(d Difficulty) (int, error) {
	rounds, ok := roundsByDifficulty[d]
	if !ok {
		return 0, fmt.Errorf("%w: %d (want 1, 2, 3, or 4)", ErrInvalidDifficulty, d)
	}
	return rounds, nil
}

func ParseDifficulty(s string) (Difficulty, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
	d := Difficulty(n)
	if _, err := MaxRounds(d); err != nil {
		return 0, err
	}
	return d, nil
}
