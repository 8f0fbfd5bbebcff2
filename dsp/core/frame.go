package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrSampleRate is returned for frames whose sample rate is zero, negative
// or not a number.
var ErrSampleRate = errors.New("sample rate must be a positive finite number")

// FrameInfo describes the clock of the current processing frame. It is
// passed by value into every processing call.
type FrameInfo struct {
	SampleRate   float64
	SamplePeriod float64
}

// NewFrameInfo returns the frame clock for sampleRate.
func NewFrameInfo(sampleRate float64) (FrameInfo, error) {
	f := FrameInfo{SampleRate: sampleRate}
	if err := f.Validate(); err != nil {
		return FrameInfo{}, err
	}
	f.SamplePeriod = 1 / sampleRate
	return f, nil
}

// Validate reports whether the frame can drive processing.
func (f FrameInfo) Validate() error {
	if math.IsNaN(f.SampleRate) || math.IsInf(f.SampleRate, 0) || f.SampleRate <= 0 {
		return fmt.Errorf("%w: %v", ErrSampleRate, f.SampleRate)
	}
	return nil
}

// Normalized returns f with SamplePeriod derived from SampleRate when the
// period is missing or not finite. f must be valid.
func (f FrameInfo) Normalized() FrameInfo {
	if f.SamplePeriod <= 0 || math.IsNaN(f.SamplePeriod) || math.IsInf(f.SamplePeriod, 0) {
		f.SamplePeriod = 1 / f.SampleRate
	}
	return f
}
