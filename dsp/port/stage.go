package port

import (
	"math"

	"github.com/cwbudde/algo-modular/dsp/core"
)

// Stage is one step of the value pipeline. Apply receives the working value
// and returns the value handed to the next stage. Stages may read the
// port's currently stored value and dispatch its listeners.
type Stage interface {
	Apply(p *Port, v float64) float64
}

// Clamp limits values to [Min, Max].
type Clamp struct {
	Min, Max float64
}

// Apply clamps v; NaN becomes Min.
func (c Clamp) Apply(_ *Port, v float64) float64 {
	return core.Clamp(v, c.Min, c.Max)
}

// Quantizer snaps values to the representative of one of Steps buckets of
// width 1/Steps. The top bucket is Steps-1. Fewer than two steps pass
// values through.
type Quantizer struct {
	Steps int
}

// Apply returns the representative of v's bucket.
func (q Quantizer) Apply(_ *Port, v float64) float64 {
	if q.Steps < 2 {
		return v
	}
	n := float64(q.Steps)
	return bucket(v, q.Steps) / n
}

// bucket returns the bucket index of v. The guard keeps a stored
// representative b/n from rounding down to b-1 when multiplied back.
func bucket(v float64, steps int) float64 {
	b := math.Floor(v*float64(steps) + stepGuard)
	if top := float64(steps - 1); b > top {
		b = top
	}
	return b
}

// ChangeDetector dispatches a change event when the candidate differs from
// the stored value by more than Epsilon.
type ChangeDetector struct {
	Epsilon float64
}

// Apply dispatches the change event and passes v on unchanged.
func (c ChangeDetector) Apply(p *Port, v float64) float64 {
	if core.Exceeds(v, p.Value(), c.Epsilon) {
		p.changed(v)
	}
	return v
}

// Hysteresis is the gate state machine. The state is the stored sentinel;
// the working value only matters when it crosses the threshold relevant to
// that state.
type Hysteresis struct {
	Thresholds
}

// Apply returns the sentinel of the next state and dispatches an edge on a
// transition.
func (h Hysteresis) Apply(p *Port, v float64) float64 {
	if h.isHigh(p.Value()) {
		if v < h.LowThreshold {
			p.edge(false)
			return h.Low
		}
		return h.High
	}

	if v > h.HighThreshold {
		p.edge(true)
		return h.High
	}
	return h.Low
}

// Silence replaces NaN with zero on otherwise unclamped audio inputs.
type Silence struct{}

// Apply returns v, or 0 for NaN.
func (Silence) Apply(_ *Port, v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func (h Hysteresis) isHigh(v float64) bool {
	return v == h.High
}
