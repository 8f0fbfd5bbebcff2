// Package chordvox is a chord sequencer with a detuned stereo voice bank.
//
// Chords are recorded in write mode: the "addChord" button opens a new
// chord and every rising edge on "addNoteGate" appends the pitch on
// "addNoteCV". "trigger" advances to the next chord, "reset" returns to
// the first and "deleteChord" drops the last one. The current position is
// shown in binary on four lights.
package chordvox

import (
	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/engine"
	"github.com/cwbudde/algo-modular/dsp/port"
	"github.com/cwbudde/algo-modular/dsp/trigger"
)

const (
	MaxChords = 16
	MaxNotes  = 8
)

type chord struct {
	notes [MaxNotes]float64
	n     int
}

// Module implements engine.Module and engine.RateListener. The voice pool
// is sized for MaxNotes up front; recording never allocates.
type Module struct {
	reset, advance   *port.Port
	noteGate         *port.Port
	noteCV           *port.Port
	addChord, del    *port.Port
	outL, outR       *port.Port
	step             *port.Port
	writeLED         *port.Port
	posLEDs          [4]*port.Port
	tune, detune     *port.Port
	shape, glide     *port.Port
	tuneCV, detCV    *port.Port
	shapeCV, glideCV *port.Port

	chords    [MaxChords]chord
	nChords   int
	seqPos    int
	writeMode bool

	oscs   [2 * MaxNotes]Osc
	glides [MaxNotes]Glide
	pulse  trigger.Pulse
}

// New creates the module's ports on b.
func New(b *engine.Builder) *Module {
	m := &Module{}
	onRise := func(fn func()) port.Option {
		return port.OnEdge(func(_ *port.Port, high bool) {
			if high {
				fn()
			}
		})
	}

	m.reset = b.GateIn("reset", onRise(m.Reset))
	m.advance = b.GateIn("trigger", onRise(m.Advance))

	m.outL = b.AudioOut("audioOutLeft")
	m.outR = b.AudioOut("audioOutRight")

	m.noteGate = b.GateIn("addNoteGate", onRise(m.addNote))
	m.noteCV = b.CVIn("addNoteCV")

	m.addChord = b.Button("addChord", onRise(func() { m.setWriteMode(!m.writeMode) }))
	m.writeLED = b.Light("addChordMode")
	m.del = b.Button("deleteChord", onRise(m.DeleteLast))

	for i := range m.posLEDs {
		m.posLEDs[i] = b.Light("seqPos" + string(rune('1'+i)))
	}

	m.tune = b.Param("tune")
	m.detune = b.Param("detune")
	m.shape = b.Param("shape")
	m.glide = b.Param("glide")

	m.tuneCV = b.CVIn("tuneCV")
	m.detCV = b.CVIn("detuneCV")
	m.shapeCV = b.CVIn("shapeCV")
	m.glideCV = b.CVIn("glideCV")

	m.step = b.GateOut("step")

	m.updateLights()
	return m
}

// SampleRateChanged implements engine.RateListener.
func (m *Module) SampleRateChanged(f core.FrameInfo) {
	for i := range m.oscs {
		m.oscs[i].Init(f.SampleRate)
	}
	for i := range m.glides {
		m.glides[i].Init(f.SampleRate)
	}
	m.pulse.Init(f.SampleRate)
}

// Process implements engine.Module.
func (m *Module) Process(core.FrameInfo) {
	var left, right float64

	if m.nChords > 0 {
		tune := (m.tune.Value() - 0.5 + m.tuneCV.Value()) / 2.5
		detune := (m.detune.Value() + m.detCV.Value()) / 100
		shape := m.shape.Value() + m.shapeCV.Value()
		glide := 0.0
		if !m.writeMode {
			glide = m.glide.Value() + m.glideCV.Value()
		}

		c := &m.chords[m.seqPos]
		for i := range c.n {
			g := &m.glides[i]
			g.SetHalfTime(glide)
			pitch := g.Process(c.notes[i] + tune)

			o1, o2 := &m.oscs[2*i], &m.oscs[2*i+1]
			o1.SetFreq(core.PitchToFrequency(pitch - detune))
			o1.SetShape(shape)
			o2.SetFreq(core.PitchToFrequency(pitch + detune))
			o2.SetShape(shape)
			left += o1.Process()
			right += o2.Process()
		}
	}

	m.outL.Set(left * 0.5)
	m.outR.Set(right * 0.5)
	m.step.SetBool(m.pulse.Process())
}

// Chords returns the number of recorded chords.
func (m *Module) Chords() int { return m.nChords }

// Notes returns the notes of chord i.
func (m *Module) Notes(i int) []float64 {
	if i < 0 || i >= m.nChords {
		return nil
	}
	c := m.chords[i]
	return c.notes[:c.n:c.n]
}

// Position returns the current sequence position.
func (m *Module) Position() int { return m.seqPos }

// WriteMode reports whether a chord is being recorded.
func (m *Module) WriteMode() bool { return m.writeMode }

// Advance leaves write mode and moves to the next chord, wrapping around,
// and fires the step output.
func (m *Module) Advance() {
	m.setWriteMode(false)
	if m.nChords > 0 {
		m.seqPos = (m.seqPos + 1) % m.nChords
	}
	m.pulse.Activate(trigger.DefaultDuration)
	m.updateLights()
}

// Reset leaves write mode and returns to the first chord.
func (m *Module) Reset() {
	m.setWriteMode(false)
	m.seqPos = 0
	m.updateLights()
}

// DeleteLast leaves write mode and removes the last chord.
func (m *Module) DeleteLast() {
	m.writeMode = false
	if m.nChords == 0 {
		m.updateLights()
		return
	}
	m.nChords--
	m.chords[m.nChords] = chord{}
	switch {
	case m.nChords == 0:
		m.seqPos = 0
	case m.seqPos >= m.nChords:
		m.seqPos = m.nChords - 1
	}
	m.updateLights()
}

func (m *Module) setWriteMode(enabled bool) {
	if m.writeMode == enabled {
		return
	}
	if enabled {
		if m.nChords == MaxChords {
			return
		}
		m.nChords++
		m.seqPos = m.nChords - 1
	} else if m.chords[m.seqPos].n == 0 {
		m.nChords--
		if m.seqPos > 0 {
			m.seqPos--
		}
	}
	m.writeMode = enabled
	m.updateLights()
}

func (m *Module) addNote() {
	if !m.writeMode {
		return
	}
	c := &m.chords[m.seqPos]
	if c.n < MaxNotes {
		c.notes[c.n] = m.noteCV.Value()
		c.n++
	}
}

func (m *Module) updateLights() {
	m.writeLED.SetBool(m.writeMode)
	pos := m.seqPos + 1
	for i, led := range m.posLEDs {
		led.SetBool(pos&(1<<i) != 0)
	}
}
