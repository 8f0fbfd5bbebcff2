package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// NoisyDC generates level plus uniform noise in [-noise, noise], the shape
// of a slowly sampled analog control. The seed fixes the sequence.
func NoisyDC(level, noise float64, seed int64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = level + (rng.Float64()*2-1)*noise
	}
	return out
}

// GatePulses generates a pulse train alternating between high for width
// frames and low for the rest of each period.
func GatePulses(low, high float64, period, width, length int) []float64 {
	out := make([]float64, length)
	if period <= 0 {
		return out
	}
	for i := range out {
		if i%period < width {
			out[i] = high
		} else {
			out[i] = low
		}
	}
	return out
}

// Ramp generates length values rising linearly from start to end inclusive.
func Ramp(start, end float64, length int) []float64 {
	out := make([]float64, length)
	if length == 1 {
		out[0] = start
		return out
	}
	for i := range out {
		out[i] = start + (end-start)*float64(i)/float64(length-1)
	}
	return out
}
