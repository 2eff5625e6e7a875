// Package tones produces the sound for each pad: WAV clips for remote
// clients and live playback on the local audio device.
package tones

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/DoyleJ11/simon-says-backend/internal/engine"
)

const (
	SampleRate = 44100
	bitDepth   = 16
	wavPCM     = 1
	amplitude  = 0.5
	fade       = 10 * time.Millisecond
)

// Frequencies of the classic Simon tones, in Hz.
var frequencies = map[engine.Pad]float64{
	engine.PadGreen:  415.0,
	engine.PadRed:    310.0,
	engine.PadYellow: 252.0,
	engine.PadBlue:   209.0,
}

func Frequency(p engine.Pad) (float64, error) {
	f, ok := frequencies[p]
	if !ok {
		return 0, fmt.Errorf("tones: %w: %q", engine.ErrUnknownPad, p)
	}
	return f, nil
}

// samples renders a sine tone with a short linear fade at both ends.
func samples(freq float64, d time.Duration, rate int) []int {
	n := int(float64(rate) * d.Seconds())
	fadeN := min(int(float64(rate)*fade.Seconds()), n/2)
	peak := amplitude * float64(int(1)<<(bitDepth-1)-1)

	out := make([]int, n)
	for i := range out {
		gain := 1.0
		switch {
		case i < fadeN:
			gain = float64(i) / float64(fadeN)
		case i >= n-fadeN:
			gain = float64(n-1-i) / float64(fadeN)
		}
		out[i] = int(peak * gain * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

// RenderWAV writes a mono 16-bit clip of the pad's tone.
func RenderWAV(w io.WriteSeeker, p engine.Pad, d time.Duration) error {
	freq, err := Frequency(p)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(w, SampleRate, bitDepth, 1, wavPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: SampleRate},
		Data:           samples(freq, d, SampleRate),
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("tones: encode %s: %w", p, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("tones: finish %s: %w", p, err)
	}
	return nil
}

// Bank holds a pre-rendered clip per pad.
type Bank struct {
	clips map[engine.Pad][]byte
}

func NewBank(d time.Duration) (*Bank, error) {
	b := &Bank{clips: make(map[engine.Pad][]byte, len(engine.Pads))}
	for _, p := range engine.Pads {
		var buf seekBuffer
		if err := RenderWAV(&buf, p, d); err != nil {
			return nil, err
		}
		b.clips[p] = buf.Bytes()
	}
	return b, nil
}

func (b *Bank) Clip(p engine.Pad) ([]byte, bool) {
	clip, ok := b.clips[p]
	return clip, ok
}
