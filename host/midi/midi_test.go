package midi

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/engine"
	"github.com/cwbudde/algo-modular/dsp/port"
)

type idle struct{}

func (idle) Process(core.FrameInfo) {}

func TestDecode(t *testing.T) {
	now := time.Unix(0, 0)
	cases := []struct {
		raw  []byte
		want Event
		ok   bool
	}{
		{[]byte{0x90, 60, 100}, Event{Type: NoteOn, Channel: 1, Data1: 60, Data2: 100}, true},
		{[]byte{0x93, 60, 0}, Event{Type: NoteOff, Channel: 4, Data1: 60}, true},
		{[]byte{0x8F, 61, 40}, Event{Type: NoteOff, Channel: 16, Data1: 61, Data2: 40}, true},
		{[]byte{0xB0, 7, 127}, Event{Type: ControlChange, Channel: 1, Data1: 7, Data2: 127}, true},
		{[]byte{0xC2, 5}, Event{Type: ProgramChange, Channel: 3, Data1: 5}, true},
		{[]byte{0xF8}, Event{}, false},
		{[]byte{0xE0, 0, 64}, Event{}, false},
		{[]byte{0x90, 60}, Event{}, false},
		{[]byte{0x40}, Event{}, false},
		{nil, Event{}, false},
	}
	for _, tc := range cases {
		got, ok := Decode(tc.raw, now)
		if ok != tc.ok {
			t.Fatalf("Decode(% x) ok = %v, want %v", tc.raw, ok, tc.ok)
		}
		if !ok {
			continue
		}
		tc.want.Time = now
		if got != tc.want {
			t.Fatalf("Decode(% x) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

type voice struct {
	gate, pitch, vel, cutoff *port.Port
}

func buildVoice(t *testing.T) (*engine.Engine, *voice) {
	t.Helper()
	b := engine.NewBuilder()
	v := &voice{
		gate:   b.GateIn("gate"),
		pitch:  b.CVIn("pitch"),
		vel:    b.CVIn("vel"),
		cutoff: b.Param("cutoff"),
	}
	b.Light("led")
	e, err := b.Build(idle{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return e, v
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBridgeLastNotePriority(t *testing.T) {
	e, v := buildVoice(t)
	br, err := NewBridge(e, Mapping{Gate: "gate", Pitch: "pitch", Velocity: "vel"})
	if err != nil {
		t.Fatalf("NewBridge() error = %v", err)
	}

	steps := []struct {
		ev    Event
		high  bool
		pitch float64
	}{
		{Event{Type: NoteOn, Channel: 1, Data1: 36, Data2: 127}, true, NotePitch(36)},
		{Event{Type: NoteOn, Channel: 1, Data1: 48, Data2: 64}, true, NotePitch(48)},
		{Event{Type: NoteOff, Channel: 1, Data1: 48}, true, NotePitch(36)},
		{Event{Type: NoteOff, Channel: 1, Data1: 36}, false, NotePitch(36)},
	}
	for i, st := range steps {
		if !br.Apply(st.ev) {
			t.Fatalf("step %d: Apply(%+v) = false", i, st.ev)
		}
		if v.gate.High() != st.high || !near(v.pitch.Value(), st.pitch) {
			t.Fatalf("step %d: gate %v pitch %v, want %v %v", i, v.gate.High(), v.pitch.Value(), st.high, st.pitch)
		}
	}
	if !near(v.vel.Value(), 64.0/127) {
		t.Fatalf("velocity = %v, want %v", v.vel.Value(), 64.0/127)
	}
	if br.Apply(Event{Type: NoteOff, Channel: 1, Data1: 99}) {
		t.Fatal("note-off of an unheld note was applied")
	}
	if br.Held() != 0 {
		t.Fatalf("Held() = %d, want 0", br.Held())
	}
}

func TestNotePitchMatchesFrequency(t *testing.T) {
	if got := core.PitchToFrequency(NotePitch(ReferenceNote)); !near(got, core.FreqC1) {
		t.Fatalf("C1 = %v Hz, want %v", got, core.FreqC1)
	}
	a4 := core.PitchToFrequency(NotePitch(69))
	if math.Abs(a4-440) > 0.01 {
		t.Fatalf("A4 = %v Hz, want 440", a4)
	}
}

func TestBridgeControllersAndChannel(t *testing.T) {
	e, v := buildVoice(t)
	br, err := NewBridge(e, Mapping{Channel: 2, Gate: "gate", CC: map[uint8]string{74: "cutoff"}})
	if err != nil {
		t.Fatalf("NewBridge() error = %v", err)
	}
	if br.Apply(Event{Type: ControlChange, Channel: 1, Data1: 74, Data2: 127}) {
		t.Fatal("event on another channel was applied")
	}
	if !br.Apply(Event{Type: ControlChange, Channel: 2, Data1: 74, Data2: 127}) || v.cutoff.Value() != 1 {
		t.Fatalf("cutoff = %v, want 1", v.cutoff.Value())
	}
	if br.Apply(Event{Type: ControlChange, Channel: 2, Data1: 1, Data2: 127}) {
		t.Fatal("unmapped controller was applied")
	}
	if br.Apply(Event{Type: ProgramChange, Channel: 2, Data1: 1}) {
		t.Fatal("program change was applied")
	}
}

func TestBridgeDrain(t *testing.T) {
	e, v := buildVoice(t)
	br, err := NewBridge(e, Mapping{Gate: "gate", Pitch: "pitch"})
	if err != nil {
		t.Fatal(err)
	}
	ch := make(chan Event, 4)
	ch <- Event{Type: NoteOn, Channel: 1, Data1: 60, Data2: 100}
	ch <- Event{Type: ControlChange, Channel: 1, Data1: 1, Data2: 1}
	if n := br.Drain(ch); n != 1 {
		t.Fatalf("Drain() = %d, want 1", n)
	}
	if !v.gate.High() {
		t.Fatal("gate low after draining a note-on")
	}
	close(ch)
	if n := br.Drain(ch); n != 0 {
		t.Fatalf("Drain(closed) = %d, want 0", n)
	}
}

func TestBridgeMappingErrors(t *testing.T) {
	e, _ := buildVoice(t)
	cases := []struct {
		name string
		m    Mapping
	}{
		{"missing port", Mapping{Gate: "nope"}},
		{"output port", Mapping{Pitch: "led"}},
		{"wrong kind", Mapping{Gate: "pitch"}},
		{"bad channel", Mapping{Channel: 17}},
		{"bad controller", Mapping{CC: map[uint8]string{200: "cutoff"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewBridge(e, tc.m); !errors.Is(err, ErrMapping) {
				t.Fatalf("NewBridge() error = %v, want ErrMapping", err)
			}
		})
	}
}
