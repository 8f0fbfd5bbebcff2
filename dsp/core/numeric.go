package core

import "math"

// DefaultEpsilon is the change threshold below which a continuous control
// value is considered unchanged.
const DefaultEpsilon = 1e-5

// FreqC1 is the frequency of C1 in Hz, the zero point of the pitch scale.
const FreqC1 = 32.7032

// Clamp limits value to the inclusive range [min, max]. NaN clamps to min.
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if math.IsNaN(value) {
		return min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// Exceeds reports whether a and b differ by strictly more than eps.
func Exceeds(a, b, eps float64) bool {
	return math.Abs(a-b) > eps
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = 1e-12
	}

	return math.Abs(a-b) <= eps
}

// PitchToFrequency maps a normalized pitch value to Hz. The 0..1 control
// range spans ten octaves starting at C1.
func PitchToFrequency(pitch float64) float64 {
	return FreqC1 * math.Exp2(pitch*10)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}
