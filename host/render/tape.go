package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-modular/dsp/core"
)

const bitDepth = 16

// Tape holds rendered audio as one slice per channel.
type Tape struct {
	channels [][]float64
	frames   int
}

// NewTape returns a silent tape.
func NewTape(channels, frames int) *Tape {
	frames = max(frames, 0)
	t := &Tape{channels: make([][]float64, max(channels, 0)), frames: frames}
	for c := range t.channels {
		t.channels[c] = make([]float64, frames)
	}
	return t
}

// Channels returns the channel count.
func (t *Tape) Channels() int { return len(t.channels) }

// Frames returns the length in frames.
func (t *Tape) Frames() int { return t.frames }

// Channel returns channel c; the slice aliases the tape.
func (t *Tape) Channel(c int) []float64 { return t.channels[c] }

// Peak returns the largest absolute sample.
func (t *Tape) Peak() float64 {
	peak := 0.0
	for _, ch := range t.channels {
		for _, v := range ch {
			peak = math.Max(peak, math.Abs(v))
		}
	}
	return peak
}

// WriteWAV encodes the tape as 16-bit PCM. Samples are clamped to [-1, 1].
func (t *Tape) WriteWAV(w io.WriteSeeker, sampleRate int) error {
	if t.Channels() == 0 {
		return errors.New("write wav: tape has no channels")
	}
	if sampleRate <= 0 {
		return fmt.Errorf("write wav: %w: %d", core.ErrSampleRate, sampleRate)
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, t.Channels(), 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: t.Channels(),
			SampleRate:  sampleRate,
		},
		Data:           make([]int, t.frames*t.Channels()),
		SourceBitDepth: bitDepth,
	}
	for i := range t.frames {
		for c, ch := range t.channels {
			buf.Data[i*t.Channels()+c] = int(math.Round(core.Clamp(ch[i], -1, 1) * 32767))
		}
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return nil
}

// ReadWAV decodes a PCM WAV file into a tape and its sample rate.
func ReadWAV(r io.ReadSeeker) (*Tape, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, errors.New("read wav: invalid file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("read wav: %w", err)
	}

	n := buf.Format.NumChannels
	if n <= 0 {
		return nil, 0, errors.New("read wav: no channels")
	}
	scale := math.Pow(2, float64(int(dec.BitDepth)-1))
	t := NewTape(n, len(buf.Data)/n)
	for i := range t.frames {
		for c := range n {
			t.channels[c][i] = float64(buf.Data[i*n+c]) / scale
		}
	}
	return t, buf.Format.SampleRate, nil
}
