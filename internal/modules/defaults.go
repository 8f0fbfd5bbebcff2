package modules

import (
	"github.com/cwbudde/algo-modular/dsp/engine"
	"github.com/cwbudde/algo-modular/host/midi"
	"github.com/cwbudde/algo-modular/host/render"
	"github.com/cwbudde/algo-modular/internal/modules/chordvox"
	"github.com/cwbudde/algo-modular/internal/modules/mirror"
)

// Default returns a registry with every reference module.
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(Descriptor{
		Name:    "mirror",
		Summary: "gate input shown on a light and a gate output",
		New:     func(b *engine.Builder) engine.Module { return mirror.New(b) },
		MIDI:    midi.Mapping{Gate: "trigger"},
		Demo:    mirrorDemo,
	})
	r.MustRegister(Descriptor{
		Name:    "chordvox",
		Summary: "chord sequencer with a detuned stereo voice bank",
		New:     func(b *engine.Builder) engine.Module { return chordvox.New(b) },
		MIDI: midi.Mapping{
			Gate:  "addNoteGate",
			Pitch: "addNoteCV",
			CC:    map[uint8]string{1: "detune", 5: "glide", 71: "shape", 74: "tune"},
		},
		Demo: chordvoxDemo,
	})
	return r
}

// mirrorDemo toggles the trigger every tenth of a second.
func mirrorDemo(sampleRate float64, frames int) []render.Event {
	period := max(int(sampleRate/10), 2)
	var events []render.Event
	for f := 0; f < frames; f += period {
		events = append(events,
			render.Event{Frame: f, Port: "trigger", Value: 1},
			render.Event{Frame: f + period/2, Port: "trigger", Value: 0})
	}
	return events
}

// chordvoxDemo records a I-vi-IV-V progression and steps through it twice
// a second.
func chordvoxDemo(sampleRate float64, frames int) []render.Event {
	const semitone = 1.0 / 120
	root := midi.NotePitch(48)
	progression := [][]float64{
		{0, 4, 7},
		{-3, 0, 4},
		{-7, -3, 0},
		{-5, -1, 2},
	}

	var (
		events []render.Event
		f      int
	)
	at := func(id string, v float64) {
		events = append(events, render.Event{Frame: f, Port: id, Value: v})
		f++
	}
	at("tune", 0.5)
	at("detune", 0.2)
	at("shape", 0.3)
	at("glide", 0.02)
	for _, chord := range progression {
		at("addChord", 1)
		at("addChord", 0)
		for _, n := range chord {
			at("addNoteCV", root+n*semitone)
			at("addNoteGate", 1)
			at("addNoteGate", 0)
		}
		at("addChord", 1)
		at("addChord", 0)
	}
	at("reset", 1)
	at("reset", 0)

	step := max(int(sampleRate/2), 2)
	for f = step; f < frames; f += step {
		events = append(events,
			render.Event{Frame: f, Port: "trigger", Value: 1},
			render.Event{Frame: f + step/2, Port: "trigger", Value: 0})
	}
	return events
}
