// Package trigger generates fixed-length gate pulses counted in frames.
package trigger

import "math"

// DefaultDuration is the pulse length used when Activate gets a
// non-positive duration.
const DefaultDuration = 0.001

// Pulse counts down the frames of a trigger pulse. The zero value is
// inactive and must be initialized with Init before Activate.
type Pulse struct {
	samplePeriod float64
	framesLeft   int
}

// Init sets the frame clock. Non-positive or non-finite rates leave the
// pulse using one frame per activation.
func (p *Pulse) Init(sampleRate float64) {
	if sampleRate > 0 && !math.IsInf(sampleRate, 0) {
		p.samplePeriod = 1 / sampleRate
	} else {
		p.samplePeriod = 0
	}
}

// Activate starts a pulse of duration seconds, restarting any running one.
func (p *Pulse) Activate(duration float64) {
	if !(duration > 0) {
		duration = DefaultDuration
	}
	frames := 1
	if p.samplePeriod > 0 {
		frames = max(1, int(math.Round(duration/p.samplePeriod)))
	}
	p.framesLeft = frames
}

// Process advances one frame and reports whether the pulse was high
// during it.
func (p *Pulse) Process() bool {
	if p.framesLeft <= 0 {
		return false
	}
	p.framesLeft--
	return true
}

// Active reports whether frames remain in the current pulse.
func (p *Pulse) Active() bool { return p.framesLeft > 0 }

// Reset ends the current pulse.
func (p *Pulse) Reset() { p.framesLeft = 0 }
