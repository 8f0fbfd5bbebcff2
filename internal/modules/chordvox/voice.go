package chordvox

import "math"

// Osc is a naive oscillator morphing from triangle (shape 0) to square
// (shape 1).
type Osc struct {
	samplePeriod float64
	phase        float64
	freq         float64
	shape        float64
}

// Init resets the phase and sets the clock.
func (o *Osc) Init(sampleRate float64) {
	o.samplePeriod = 1 / sampleRate
	o.phase = 0
}

// SetFreq sets the frequency in Hz.
func (o *Osc) SetFreq(hz float64) { o.freq = hz }

// SetShape sets the morph amount, clamped to [0, 1].
func (o *Osc) SetShape(shape float64) { o.shape = math.Min(math.Max(shape, 0), 1) }

// Process returns the next sample in [-1, 1].
func (o *Osc) Process() float64 {
	tri := 4*math.Abs(o.phase-0.5) - 1
	sq := 1.0
	if o.phase >= 0.5 {
		sq = -1
	}
	out := tri*(1-o.shape) + sq*o.shape

	o.phase += o.freq * o.samplePeriod
	o.phase -= math.Floor(o.phase)
	return out
}

// Glide is a one-pole portamento whose half time is the time to cover
// half the distance to a new target.
type Glide struct {
	samplePeriod float64
	halfTime     float64
	coef         float64
	dirty        bool
	y            float64
}

// Init sets the clock and keeps the current output.
func (g *Glide) Init(sampleRate float64) {
	g.samplePeriod = 1 / sampleRate
	g.dirty = true
}

// SetHalfTime sets the half time in seconds; zero or less jumps.
func (g *Glide) SetHalfTime(seconds float64) {
	if seconds != g.halfTime {
		g.halfTime = seconds
		g.dirty = true
	}
}

// Process moves one frame toward target.
func (g *Glide) Process(target float64) float64 {
	if g.dirty {
		g.coef = 0
		if g.halfTime > 0 {
			g.coef = math.Pow(0.5, g.samplePeriod/g.halfTime)
		}
		g.dirty = false
	}
	g.y = (1-g.coef)*target + g.coef*g.y
	return g.y
}
