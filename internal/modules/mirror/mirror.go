// Package mirror is the smallest complete module: a gate input shown on
// a light.
package mirror

import (
	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/engine"
	"github.com/cwbudde/algo-modular/dsp/port"
)

// Module copies the debounced state of its "trigger" gate to its "led"
// light and to its "thru" gate output.
type Module struct {
	in   *port.Port
	led  *port.Port
	thru *port.Port

	onEdge func(high bool)
	edges  int
}

// Option configures a Module.
type Option func(*Module)

// OnEdge registers fn to run on every trigger edge.
func OnEdge(fn func(high bool)) Option {
	return func(m *Module) { m.onEdge = fn }
}

// New creates the module's ports on b.
func New(b *engine.Builder, opts ...Option) *Module {
	m := &Module{}
	for _, opt := range opts {
		opt(m)
	}
	m.in = b.GateIn("trigger", port.OnEdge(m.edge))
	m.led = b.Light("led")
	m.thru = b.GateOut("thru")
	return m
}

func (m *Module) edge(_ *port.Port, high bool) {
	m.edges++
	if m.onEdge != nil {
		m.onEdge(high)
	}
}

// Process implements engine.Module.
func (m *Module) Process(core.FrameInfo) {
	high := m.in.High()
	m.led.SetBool(high)
	m.thru.SetBool(high)
}

// Edges returns the number of trigger edges seen.
func (m *Module) Edges() int { return m.edges }

// Input returns the trigger gate.
func (m *Module) Input() *port.Port { return m.in }

// Light returns the led.
func (m *Module) Light() *port.Port { return m.led }
