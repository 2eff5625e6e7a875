package tones

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/simon-says-backend/internal/engine"
)

func TestRenderWAV_DecodesBack(t *testing.T) {
	var buf seekBuffer
	require.NoError(t, RenderWAV(&buf, engine.PadGreen, 250*time.Millisecond))

	dec := wav.NewDecoder(bytes.NewReader(buf.Bytes()))
	require.True(t, dec.IsValidFile())

	pcm, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, uint16(1), dec.NumChans)
	assert.Equal(t, uint32(SampleRate), dec.SampleRate)
	assert.Equal(t, uint16(16), dec.BitDepth)
	assert.Len(t, pcm.Data, SampleRate/4)

	// Fades in from silence
	assert.Zero(t, pcm.Data[0])
}

func TestFrequency_ClassicTones(t *testing.T) {
	want := map[engine.Pad]float64{
		engine.PadGreen:  415,
		engine.PadRed:    310,
		engine.PadYellow: 252,
		engine.PadBlue:   209,
	}
	for pad, hz := range want {
		got, err := Frequency(pad)
		require.NoError(t, err)
		assert.Equal(t, hz, got, pad)
	}
}

func TestRenderWAV_UnknownPad(t *testing.T) {
	var buf seekBuffer
	err := RenderWAV(&buf, engine.Pad("purple"), time.Second)
	require.ErrorIs(t, err, engine.ErrUnknownPad)
	assert.Empty(t, buf.Bytes())
}

func TestBank_HasEveryPad(t *testing.T) {
	bank, err := NewBank(100 * time.Millisecond)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, p := range engine.Pads {
		clip, ok := bank.Clip(p)
		require.True(t, ok, "pad %s", p)
		assert.Equal(t, "RIFF", string(clip[:4]))
		seen[string(clip)] = true
	}
	assert.Len(t, seen, len(engine.Pads), "each pad should sound different")

	_, ok := bank.Clip(engine.Pad("purple"))
	assert.False(t, ok)
}

func TestSeekBuffer_OverwriteAfterSeek(t *testing.T) {
	var b seekBuffer
	_, _ = b.Write([]byte("hello world"))
	_, err := b.Seek(0, io.SeekStart)
	require.NoError(t, err)
	_, _ = b.Write([]byte("HELLO"))

	pos, err := b.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(11), pos)
	assert.Equal(t, "HELLO world", string(b.Bytes()))

	_, err = b.Seek(-20, io.SeekCurrent)
	assert.Error(t, err)
}

func TestSpeaker_SilentUntilInit(t *testing.T) {
	s := NewSpeaker(nil)
	// Must not touch the audio device
	s.Play(engine.PadRed, time.Millisecond)
	s.PlayCue()
	s.Close()
}
