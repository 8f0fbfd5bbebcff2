package midi

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-modular/dsp/engine"
	"github.com/cwbudde/algo-modular/dsp/port"
)

// ReferenceNote is the MIDI note of pitch 0 (C1).
const ReferenceNote = 24

const maxHeld = 16

var ErrMapping = errors.New("invalid MIDI mapping")

// Mapping names the ports a Bridge writes. Empty ids are skipped.
// Channel 0 listens on all channels.
type Mapping struct {
	Channel  uint8
	Gate     string
	Pitch    string
	Velocity string
	CC       map[uint8]string
}

// Bridge applies MIDI events to engine inputs with last-note priority.
// It must run on the goroutine that drives the engine.
type Bridge struct {
	channel  uint8
	gate     *port.Port
	pitch    *port.Port
	velocity *port.Port
	cc       [128]*port.Port

	held  [maxHeld]uint8
	nHeld int
}

// NotePitch converts a MIDI note to a pitch value on the 1/120-per-semitone
// scale used by core.PitchToFrequency.
func NotePitch(note uint8) float64 {
	return float64(int(note)-ReferenceNote) / 120
}

// NewBridge resolves m against e.
func NewBridge(e *engine.Engine, m Mapping) (*Bridge, error) {
	if m.Channel > 16 {
		return nil, fmt.Errorf("%w: channel %d", ErrMapping, m.Channel)
	}
	b := &Bridge{channel: m.Channel}

	resolve := func(role, id string, kinds ...port.Kind) (*port.Port, error) {
		if id == "" {
			return nil, nil
		}
		p, ok := e.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s port %q not found", ErrMapping, role, id)
		}
		if p.Direction() != port.Input {
			return nil, fmt.Errorf("%w: %s port %q is not an input", ErrMapping, role, id)
		}
		for _, k := range kinds {
			if p.Kind() == k {
				log.Infof("%s -> %s", role, p)
				return p, nil
			}
		}
		return nil, fmt.Errorf("%w: %s port %q has kind %s", ErrMapping, role, id, p.Kind())
	}

	var err error
	if b.gate, err = resolve("gate", m.Gate, port.Gate); err != nil {
		return nil, err
	}
	if b.pitch, err = resolve("pitch", m.Pitch, port.CV, port.Param); err != nil {
		return nil, err
	}
	if b.velocity, err = resolve("velocity", m.Velocity, port.CV, port.Param); err != nil {
		return nil, err
	}
	for cc, id := range m.CC {
		if cc > 127 {
			return nil, fmt.Errorf("%w: controller %d", ErrMapping, cc)
		}
		if b.cc[cc], err = resolve(fmt.Sprintf("cc %d", cc), id, port.CV, port.Param); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Apply writes one event to the mapped ports and reports whether it was
// used.
func (b *Bridge) Apply(ev Event) bool {
	if b.channel != 0 && ev.Channel != b.channel {
		return false
	}
	switch ev.Type {
	case NoteOn:
		b.release(ev.Data1)
		if b.nHeld == maxHeld {
			copy(b.held[:], b.held[1:])
			b.nHeld--
		}
		b.held[b.nHeld] = ev.Data1
		b.nHeld++
		if b.velocity != nil {
			b.velocity.Set(float64(ev.Data2) / 127)
		}
		b.sound()
		return true
	case NoteOff:
		if !b.release(ev.Data1) {
			return false
		}
		b.sound()
		return true
	case ControlChange:
		p := b.cc[ev.Data1&0x7F]
		if p == nil {
			return false
		}
		p.Set(float64(ev.Data2) / 127)
		return true
	}
	return false
}

// Drain applies every event already queued on ch without blocking and
// returns how many were used.
func (b *Bridge) Drain(ch <-chan Event) int {
	n := 0
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return n
			}
			if b.Apply(ev) {
				n++
			}
		default:
			return n
		}
	}
}

// Held returns the number of held notes.
func (b *Bridge) Held() int { return b.nHeld }

func (b *Bridge) release(note uint8) bool {
	for i := range b.nHeld {
		if b.held[i] == note {
			copy(b.held[i:], b.held[i+1:b.nHeld])
			b.nHeld--
			return true
		}
	}
	return false
}

func (b *Bridge) sound() {
	if b.nHeld == 0 {
		if b.gate != nil {
			b.gate.SetBool(false)
		}
		return
	}
	if b.pitch != nil {
		b.pitch.Set(NotePitch(b.held[b.nHeld-1]))
	}
	if b.gate != nil {
		b.gate.SetBool(true)
	}
}
