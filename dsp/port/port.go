package port

import (
	"fmt"
	"math"
)

const stepGuard = 1e-9

// Port is a typed signal port. Kind, direction and source are fixed at
// creation. Ports are not safe for concurrent use: each port has exactly
// one writer.
type Port struct {
	Cell[float64]

	id     string
	kind   Kind
	dir    Direction
	source Source
	steps  int

	stages   []Stage
	gate     Hysteresis
	onChange ChangeListener
	onEdge   EdgeListener
}

// Option configures a port at creation.
type Option func(*options)

type options struct {
	delay      int
	steps      int
	source     Source
	thresholds *Thresholds
	rng        *Clamp
	onChange   ChangeListener
	onEdge     EdgeListener
}

// WithDelay holds each write back for frames further writes.
func WithDelay(frames uint16) Option {
	return func(o *options) { o.delay = int(frames) }
}

// WithSteps enables step quantization on a parameter.
func WithSteps(n int) Option {
	return func(o *options) { o.steps = n }
}

// WithSource marks a gate input as a jack or a switch. Switches use the
// button thresholds.
func WithSource(s Source) Option {
	return func(o *options) { o.source = s }
}

// WithThresholds overrides the gate thresholds of a single port.
func WithThresholds(t Thresholds) Option {
	return func(o *options) { o.thresholds = &t }
}

// WithRange overrides the clamp range of an audio, CV, param or light port.
func WithRange(min, max float64) Option {
	return func(o *options) { o.rng = &Clamp{Min: min, Max: max} }
}

// WithChangeListener registers the change listener.
func WithChangeListener(l ChangeListener) Option {
	return func(o *options) { o.onChange = l }
}

// OnChange registers fn as the change listener.
func OnChange(fn func(p *Port, value float64)) Option {
	return WithChangeListener(ChangeFunc(fn))
}

// WithEdgeListener registers the edge listener.
func WithEdgeListener(l EdgeListener) Option {
	return func(o *options) { o.onEdge = l }
}

// OnEdge registers fn as the edge listener.
func OnEdge(fn func(p *Port, high bool)) Option {
	return WithEdgeListener(EdgeFunc(fn))
}

// New creates a port of the given kind and direction using s for ranges,
// epsilon and thresholds.
func New(id string, kind Kind, dir Direction, s Settings, opts ...Option) (*Port, error) {
	if kind >= numKinds {
		return nil, fmt.Errorf("port %q: unknown kind %d", id, kind)
	}
	if (kind == Param && dir != Input) || (kind == Light && dir != Output) {
		return nil, fmt.Errorf("port %q: %w: %s/%s", id, ErrDirection, kind, dir)
	}

	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	p := &Port{
		id:       id,
		kind:     kind,
		dir:      dir,
		onChange: o.onChange,
		onEdge:   o.onEdge,
	}

	if err := p.setDelay(o.delay); err != nil {
		return nil, fmt.Errorf("port %q: %w", id, err)
	}

	if o.rng != nil && !(o.rng.Min < o.rng.Max) {
		return nil, fmt.Errorf("port %q: %w: [%v, %v]", id, ErrRange, o.rng.Min, o.rng.Max)
	}
	rangeOr := func(min, max float64) Clamp {
		if o.rng != nil {
			return *o.rng
		}
		return Clamp{Min: min, Max: max}
	}

	switch kind {
	case Audio:
		if dir == Output {
			p.stages = []Stage{rangeOr(-s.AudioLimit, s.AudioLimit)}
		} else if o.rng != nil {
			p.stages = []Stage{*o.rng}
		} else {
			p.stages = []Stage{Silence{}}
		}
	case CV:
		p.stages = []Stage{rangeOr(s.CVMin, s.CVMax), ChangeDetector{Epsilon: s.Epsilon}}
	case Param:
		p.steps = o.steps
		p.stages = []Stage{rangeOr(s.CVMin, s.CVMax), Quantizer{Steps: o.steps}, ChangeDetector{Epsilon: s.Epsilon}}
	case Gate:
		th := s.Gate
		if dir == Input && o.source == Switch {
			p.source = Switch
			th = s.Button
		}
		if o.thresholds != nil {
			th = *o.thresholds
		}
		if err := th.Validate(); err != nil {
			return nil, fmt.Errorf("port %q: %w", id, err)
		}
		p.steps = 2
		p.gate = Hysteresis{Thresholds: th}
		p.stages = []Stage{p.gate}
		p.store(th.Low)
	case Light:
		p.stages = []Stage{rangeOr(0, 1)}
	}

	return p, nil
}

// ID returns the stable identifier used for layout binding.
func (p *Port) ID() string { return p.id }

// Kind returns the semantic kind.
func (p *Port) Kind() Kind { return p.kind }

// Direction returns the port direction.
func (p *Port) Direction() Direction { return p.dir }

// Source returns the gate source; Jack for everything but buttons.
func (p *Port) Source() Source { return p.source }

// Steps returns the quantization step count, 2 for gates and 0 when
// quantization is disabled.
func (p *Port) Steps() int { return p.steps }

// IsButton reports whether the port is a switch-sourced gate input.
func (p *Port) IsButton() bool { return p.kind == Gate && p.source == Switch }

// Set runs raw through the delay, transform and event stages and stores
// the result.
func (p *Port) Set(raw float64) {
	v, ok := p.admit(raw)
	if !ok {
		return
	}
	for _, s := range p.stages {
		v = s.Apply(p, v)
	}
	p.store(v)
}

// SetBool writes the high or low sentinel of a gate, or 1/0 for other kinds.
func (p *Port) SetBool(high bool) {
	switch {
	case p.kind == Gate && high:
		p.Set(p.gate.High)
	case p.kind == Gate:
		p.Set(p.gate.Low)
	case high:
		p.Set(1)
	default:
		p.Set(0)
	}
}

// High reports whether a gate is in its HIGH state.
func (p *Port) High() bool {
	return p.kind == Gate && p.gate.isHigh(p.Value())
}

// Step returns the current step index in [0, Steps()-1]. Gates report 1
// while high. Ports without quantization report 0.
func (p *Port) Step() int {
	if p.kind == Gate {
		if p.High() {
			return 1
		}
		return 0
	}
	if p.steps < 2 {
		return 0
	}
	b := bucket(p.Value(), p.steps)
	if b < 0 || math.IsNaN(b) {
		return 0
	}
	return int(b)
}

// Thresholds returns the gate thresholds; zero for other kinds.
func (p *Port) Thresholds() Thresholds {
	return p.gate.Thresholds
}

func (p *Port) String() string {
	return fmt.Sprintf("%s(%s/%s)", p.id, p.kind, p.dir)
}

func (p *Port) changed(v float64) {
	if p.onChange != nil {
		p.onChange.ValueChanged(p, v)
	}
}

func (p *Port) edge(high bool) {
	if p.onEdge != nil {
		p.onEdge.EdgeChanged(p, high)
	}
}
