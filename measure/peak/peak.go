// Package peak measures rendered audio: peak level, RMS level and the
// dominant frequency.
package peak

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-modular/dsp/core"
)

// MaxFFTSize caps the analysis window; longer inputs are analyzed over
// their first MaxFFTSize samples.
const MaxFFTSize = 1 << 16

var ErrTooShort = errors.New("peak: need at least 4 samples")

// Result holds the measurements of one signal.
type Result struct {
	Peak       float64
	RMS        float64
	DominantHz float64
	FFTSize    int
}

// Analyze measures samples recorded at sampleRate. The dominant frequency
// comes from a Hann-windowed FFT with parabolic peak interpolation and is
// zero for silence.
func Analyze(samples []float64, sampleRate float64) (Result, error) {
	if _, err := core.NewFrameInfo(sampleRate); err != nil {
		return Result{}, fmt.Errorf("peak: %w", err)
	}
	if len(samples) < 4 {
		return Result{}, ErrTooShort
	}

	var r Result
	sum := 0.0
	for _, v := range samples {
		r.Peak = math.Max(r.Peak, math.Abs(v))
		sum += v * v
	}
	r.RMS = math.Sqrt(sum / float64(len(samples)))

	n := len(samples)
	if n > MaxFFTSize {
		n = MaxFFTSize
	}
	size := 1
	for size < n {
		size <<= 1
	}
	r.FFTSize = size

	in := make([]complex128, size)
	for i := range n {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		in[i] = complex(samples[i]*w, 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return Result{}, fmt.Errorf("peak: fft plan: %w", err)
	}
	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return Result{}, fmt.Errorf("peak: fft: %w", err)
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range bins {
		re[i], im[i] = real(out[i]), imag(out[i])
	}
	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	best := 0
	for i := 1; i < bins; i++ {
		if mag[i] > mag[best] {
			best = i
		}
	}
	if best == 0 || mag[best] == 0 {
		return r, nil
	}

	offset := 0.0
	if best < bins-1 {
		a, b, c := mag[best-1], mag[best], mag[best+1]
		if d := a - 2*b + c; d != 0 {
			offset = 0.5 * (a - c) / d
		}
	}
	r.DominantHz = (float64(best) + offset) * sampleRate / float64(size)
	return r, nil
}
