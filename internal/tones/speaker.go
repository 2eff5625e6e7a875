package tones

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/DoyleJ11/simon-says-backend/internal/engine"
)

const speakerRate = beep.SampleRate(SampleRate)

// Speaker plays pad tones on the local audio device. Until Init succeeds
// every call is a no-op, so the game runs silently without a device.
type Speaker struct {
	mu          sync.Mutex
	initialized bool
	log         *zap.Logger
}

func NewSpeaker(log *zap.Logger) *Speaker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Speaker{log: log}
}

func (s *Speaker) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(speakerRate, speakerRate.N(time.Second/10)); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

// Play sounds the pad's tone for d.
func (s *Speaker) Play(p engine.Pad, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	tone, err := s.tone(p, d)
	if err != nil {
		s.log.Debug("no tone for pad", zap.String("pad", string(p)), zap.Error(err))
		return
	}
	speaker.Play(tone)
}

// PlayCue plays a rising run through all four tones, announcing the final round.
func (s *Speaker) PlayCue() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	run := []engine.Pad{engine.PadBlue, engine.PadYellow, engine.PadRed, engine.PadGreen}
	parts := make([]beep.Streamer, 0, len(run))
	for _, p := range run {
		tone, err := s.tone(p, 120*time.Millisecond)
		if err != nil {
			continue
		}
		parts = append(parts, tone)
	}
	speaker.Play(beep.Seq(parts...))
}

func (s *Speaker) tone(p engine.Pad, d time.Duration) (beep.Streamer, error) {
	freq, err := Frequency(p)
	if err != nil {
		return nil, err
	}
	sine, err := generators.SineTone(speakerRate, freq)
	if err != nil {
		return nil, err
	}
	return &effects.Volume{
		Streamer: beep.Take(speakerRate.N(d), sine),
		Base:     2,
		Volume:   -1,
	}, nil
}

func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.initialized = false
}
