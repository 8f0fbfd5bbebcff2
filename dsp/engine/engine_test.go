package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/port"
)

type funcModule struct {
	process func(core.FrameInfo)
}

func (m *funcModule) Process(f core.FrameInfo) {
	if m.process != nil {
		m.process(f)
	}
}

type rateModule struct {
	frames []core.FrameInfo
	rates  []float64
}

func (m *rateModule) Process(f core.FrameInfo)           { m.frames = append(m.frames, f) }
func (m *rateModule) SampleRateChanged(f core.FrameInfo) { m.rates = append(m.rates, f.SampleRate) }

func frame(rate float64) core.FrameInfo {
	return core.FrameInfo{SampleRate: rate, SamplePeriod: 1 / rate}
}

func TestBuilderCountsByClass(t *testing.T) {
	b := NewBuilder()
	b.AudioIn("in")
	b.AudioOut("outL")
	b.AudioOut("outR")
	b.CVIn("pitch")
	b.Param("tune")
	b.GateIn("trig")
	b.Button("add")
	b.GateOut("step")
	b.Light("led")

	c := b.Counts()
	cases := []struct {
		kind port.Kind
		dir  port.Direction
		want int
	}{
		{port.Audio, port.Input, 1},
		{port.Audio, port.Output, 2},
		{port.CV, port.Input, 1},
		{port.CV, port.Output, 0},
		{port.Param, port.Input, 1},
		{port.Gate, port.Input, 2},
		{port.Gate, port.Output, 1},
		{port.Light, port.Output, 1},
	}
	for _, tc := range cases {
		if got := c.Of(tc.kind, tc.dir); got != tc.want {
			t.Fatalf("Counts.Of(%s, %s) = %d, want %d", tc.kind, tc.dir, got, tc.want)
		}
	}
	if c.Total() != 9 {
		t.Fatalf("Total() = %d, want 9", c.Total())
	}
	if b.Err() != nil {
		t.Fatalf("Err() = %v, want nil", b.Err())
	}
	if got, want := c.String(), "audio:1/2 cv:1/0 gate:2/1 param:1/0 light:0/1"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestCapacityViolationReportsOffendingCreation(t *testing.T) {
	b := NewBuilder()
	b.AudioIn("in1")
	b.AudioIn("in2")
	if b.Err() != nil {
		t.Fatalf("Err() after two audio ins = %v", b.Err())
	}
	p := b.AudioIn("in3")
	if p == nil {
		t.Fatal("AudioIn returned nil under PolicyReturn")
	}

	err := b.Err()
	if !errors.Is(err, ErrCapacity) {
		t.Fatalf("Err() = %v, want ErrCapacity", err)
	}
	var ce *CapacityError
	if !errors.As(err, &ce) {
		t.Fatalf("Err() = %T, want *CapacityError", err)
	}
	if ce.PortID != "in3" || ce.Ordinal != 3 || ce.Count != 3 || ce.Max != 2 {
		t.Fatalf("CapacityError = %+v", ce)
	}
	if ce.Class != (Class{port.Audio, port.Input}) {
		t.Fatalf("Class = %v, want audio/in", ce.Class)
	}
	if got := b.Counts().Of(port.Audio, port.Input); got != 3 {
		t.Fatalf("audio/in count = %d, want 3", got)
	}

	if _, err := b.Build(&funcModule{}); !errors.Is(err, ErrCapacity) {
		t.Fatalf("Build() error = %v, want ErrCapacity", err)
	}
}

func TestSharedLimitParamsAndCV(t *testing.T) {
	b := NewBuilder()
	for i := range 6 {
		b.Param(string(rune('a' + i)))
	}
	for i := range 4 {
		b.CVIn(string(rune('k' + i)))
	}
	if b.Err() != nil {
		t.Fatalf("Err() at 10 ADC ports = %v", b.Err())
	}
	b.CVIn("extra")
	var ce *CapacityError
	if !errors.As(b.Err(), &ce) || ce.PortID != "extra" || ce.Ordinal != 11 {
		t.Fatalf("Err() = %v, want capacity error at port #11 \"extra\"", b.Err())
	}
}

func TestButtonsCountAsGateLines(t *testing.T) {
	b := NewBuilder()
	n := 0
	id := func() string { n++; return "p" + string(rune('A'+n)) }
	for range 10 {
		b.GateIn(id())
	}
	for range 4 {
		b.Button(id())
	}
	for range 4 {
		b.Light(id())
	}
	if b.Err() != nil {
		t.Fatalf("Err() at 18 lines = %v", b.Err())
	}
	b.GateOut("overflow")
	if !errors.Is(b.Err(), ErrCapacity) {
		t.Fatalf("Err() = %v, want ErrCapacity", b.Err())
	}
}

func TestUnlimitedBuilder(t *testing.T) {
	b := NewBuilder(WithLimits(nil))
	for i := range 8 {
		b.AudioOut(string(rune('a' + i)))
	}
	if b.Err() != nil {
		t.Fatalf("Err() = %v, want nil", b.Err())
	}
}

func TestPolicyPanic(t *testing.T) {
	b := NewBuilder(WithPolicy(PolicyPanic))
	b.CVOut("a")
	b.CVOut("b")

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrCapacity) {
			t.Fatalf("recover() = %v, want capacity error", r)
		}
	}()
	b.CVOut("c")
	t.Fatal("third CV out did not panic")
}

func TestCreateAfterBuildPanics(t *testing.T) {
	b := NewBuilder()
	b.GateIn("gate")
	if _, err := b.Build(&funcModule{}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrSealed) {
			t.Fatalf("recover() = %v, want ErrSealed", r)
		}
	}()
	b.Light("late")
}

func TestRejectedDefinitions(t *testing.T) {
	cases := []struct {
		name   string
		create func(b *Builder) *port.Port
		want   error
	}{
		{"empty id", func(b *Builder) *port.Port { return b.GateIn("") }, ErrEmptyID},
		{"duplicate id", func(b *Builder) *port.Port { b.GateIn("x"); return b.Light("x") }, ErrDuplicateID},
		{"param output", func(b *Builder) *port.Port { return b.Create("p", port.Param, port.Output) }, port.ErrDirection},
		{"light input", func(b *Builder) *port.Port { return b.Create("l", port.Light, port.Input) }, port.ErrDirection},
		{"bad thresholds", func(b *Builder) *port.Port {
			return b.GateIn("g", port.WithThresholds(port.Thresholds{LowThreshold: 1, HighThreshold: 0.5, Low: 0, High: 2}))
		}, port.ErrThresholds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuilder()
			before := b.Counts().Total()
			p := tc.create(b)
			if p == nil {
				t.Fatal("creation returned nil")
			}
			if !errors.Is(b.Err(), tc.want) {
				t.Fatalf("Err() = %v, want %v", b.Err(), tc.want)
			}
			if tc.want != ErrDuplicateID && b.Counts().Total() != before {
				t.Fatalf("rejected port was counted: %s", b.Counts())
			}
		})
	}
}

func TestInvalidSettingsFailBuild(t *testing.T) {
	s := port.DefaultSettings()
	s.CVMin, s.CVMax = 1, -1
	b := NewBuilder(WithSettings(s))
	if _, err := b.Build(&funcModule{}); !errors.Is(err, port.ErrRange) {
		t.Fatalf("Build() error = %v, want ErrRange", err)
	}
}

func TestBuildNilModule(t *testing.T) {
	if _, err := NewBuilder().Build(nil); !errors.Is(err, ErrNilModule) {
		t.Fatalf("Build(nil) error = %v, want ErrNilModule", err)
	}
}

func TestRateChangeHookFiresOncePerRate(t *testing.T) {
	m := &rateModule{}
	e, err := NewBuilder().Build(m)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if e.Running() {
		t.Fatal("Running() before first frame")
	}

	for range 3 {
		e.Process(frame(48000))
	}
	if len(m.rates) != 1 || m.rates[0] != 48000 {
		t.Fatalf("rate hooks = %v, want [48000]", m.rates)
	}
	e.Process(frame(96000))
	if len(m.rates) != 2 || m.rates[1] != 96000 {
		t.Fatalf("rate hooks = %v, want [48000 96000]", m.rates)
	}
	if len(m.frames) != 4 {
		t.Fatalf("process calls = %d, want 4", len(m.frames))
	}
	if m.frames[3].SamplePeriod != 1.0/96000 {
		t.Fatalf("period = %v, want %v", m.frames[3].SamplePeriod, 1.0/96000)
	}

	st := e.Stats()
	if st.Frames != 4 || st.RateChanges != 2 || st.RejectedFrames != 0 {
		t.Fatalf("Stats() = %+v", st)
	}
}

func TestProcessWithoutRateHook(t *testing.T) {
	calls := 0
	e, err := NewBuilder().Build(&funcModule{process: func(core.FrameInfo) { calls++ }})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	e.Process(frame(44100))
	e.Process(frame(48000))
	if calls != 2 {
		t.Fatalf("process calls = %d, want 2", calls)
	}
	if e.Frame().SampleRate != 48000 {
		t.Fatalf("Frame().SampleRate = %v, want 48000", e.Frame().SampleRate)
	}
}

func TestInvalidRatesFallBack(t *testing.T) {
	m := &rateModule{}
	e, err := NewBuilder().Build(m)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	e.Process(core.FrameInfo{SampleRate: 0})
	if e.Frame().SampleRate != core.DefaultSampleRate {
		t.Fatalf("rate after invalid first frame = %v, want default", e.Frame().SampleRate)
	}
	e.Process(frame(44100))
	e.Process(core.FrameInfo{SampleRate: math.NaN()})
	e.Process(core.FrameInfo{SampleRate: -1})

	if got := m.rates; len(got) != 2 || got[0] != core.DefaultSampleRate || got[1] != 44100 {
		t.Fatalf("rate hooks = %v, want [48000 44100]", got)
	}
	for i, f := range m.frames[1:] {
		if f.SampleRate != 44100 {
			t.Fatalf("frame %d rate = %v, want 44100", i+1, f.SampleRate)
		}
	}
	st := e.Stats()
	if st.Frames != 4 || st.RejectedFrames != 3 || st.RateChanges != 2 {
		t.Fatalf("Stats() = %+v", st)
	}
}

// mirror copies a gate input to a light and records edges.
type mirror struct {
	in    *port.Port
	led   *port.Port
	edges map[int]bool
	frame int
}

func newMirror(b *Builder) *mirror {
	m := &mirror{edges: map[int]bool{}}
	m.in = b.GateIn("trigger", port.OnEdge(func(_ *port.Port, high bool) {
		m.edges[m.frame] = high
	}))
	m.led = b.Light("led")
	return m
}

func (m *mirror) Process(core.FrameInfo) {
	m.led.SetBool(m.in.High())
	m.frame++
}

func TestGateMirrorScenario(t *testing.T) {
	tests := []struct {
		name      string
		inputs    []float64
		wantLight []float64
		wantEdges map[int]bool
	}{
		{
			// 0.05 is above the 0.01 low threshold, so the gate falls on 0.0.
			name:      "held high then released",
			inputs:    []float64{0.0, 0.5, 0.5, 0.05, 0.0},
			wantLight: []float64{0, 1, 1, 1, 0},
			wantEdges: map[int]bool{1: true, 4: false},
		},
		{
			name:      "dead band then retrigger",
			inputs:    []float64{0.0, 0.5, 0.15, 0.05, 0.0, 0.3},
			wantLight: []float64{0, 1, 1, 1, 0, 1},
			wantEdges: map[int]bool{1: true, 4: false, 5: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			m := newMirror(b)
			e, err := b.Build(m)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}

			for i, v := range tt.inputs {
				m.in.Set(v)
				e.Process(frame(48000))
				if got := m.led.Value(); got != tt.wantLight[i] {
					t.Fatalf("frame %d: light = %v, want %v", i, got, tt.wantLight[i])
				}
			}

			if len(m.edges) != len(tt.wantEdges) {
				t.Fatalf("edges = %v, want %v", m.edges, tt.wantEdges)
			}
			for i, high := range tt.wantEdges {
				if got, ok := m.edges[i]; !ok || got != high {
					t.Fatalf("edges = %v, want %v", m.edges, tt.wantEdges)
				}
			}
		})
	}
}

func TestIntrospection(t *testing.T) {
	b := NewBuilder()
	b.AudioOut("l")
	b.AudioOut("r")
	b.Button("add")
	b.GateIn("trig")
	e, err := b.Build(&funcModule{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	outs := e.PortsOf(port.Audio, port.Output)
	if len(outs) != 2 || outs[0].ID() != "l" || outs[1].ID() != "r" {
		t.Fatalf("PortsOf(audio, out) = %v", outs)
	}
	gates := e.PortsOf(port.Gate, port.Input)
	if len(gates) != 2 || !gates[0].IsButton() || gates[1].IsButton() {
		t.Fatalf("PortsOf(gate, in) = %v", gates)
	}
	if p, ok := e.Lookup("trig"); !ok || p != gates[1] {
		t.Fatalf("Lookup(trig) = %v, %v", p, ok)
	}
	if _, ok := e.Lookup("missing"); ok {
		t.Fatal("Lookup(missing) found a port")
	}
	if len(e.Ports()) != 4 || e.Counts().Total() != 4 {
		t.Fatalf("Ports() = %v", e.Ports())
	}
	if e.PortsOf(port.Kind(42), port.Input) != nil {
		t.Fatal("PortsOf(unknown kind) != nil")
	}
}

func TestProcessDoesNotAllocate(t *testing.T) {
	b := NewBuilder()
	m := newMirror(b)
	e, err := b.Build(m)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	f := frame(48000)
	e.Process(f)

	allocs := testing.AllocsPerRun(100, func() {
		m.in.Set(0.1)
		e.Process(f)
	})
	if allocs != 0 {
		t.Fatalf("Process allocs = %v, want 0", allocs)
	}
}
