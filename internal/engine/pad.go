package engine

import (
	"fmt"
	"strings"
)

type Pad string

const (
	PadRed    Pad = "red"
	PadGreen  Pad = "green"
	PadBlue   Pad = "blue"
	PadYellow Pad = "yellow"
)

// Pads lists every pad in display order.
var Pads = []Pad{PadRed, PadGreen, PadBlue, PadYellow}

type Sequence []Pad

func (p Pad) Valid() bool {
	switch p {
	case PadRed, PadGreen, PadBlue, PadYellow:
		return true
	default:
		return false
	}
}

func ParsePad(s string) (Pad, error) {
	p := Pad(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPad, s)
	}
	return p, nil
}
