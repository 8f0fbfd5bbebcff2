// Package modules lists the reference modules the commands can run.
package modules

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-modular/dsp/engine"
	"github.com/cwbudde/algo-modular/host/midi"
	"github.com/cwbudde/algo-modular/host/render"
)

// Factory creates a module's ports on b and returns its behaviour.
type Factory func(b *engine.Builder) engine.Module

// Descriptor describes one runnable module.
type Descriptor struct {
	Name    string
	Summary string
	New     Factory
	// MIDI maps a keyboard onto the module for live play.
	MIDI midi.Mapping
	// Demo returns an input schedule for an offline render.
	Demo func(sampleRate float64, frames int) []render.Event
}

// Registry maps module names to descriptors.
type Registry struct {
	byName map[string]Descriptor
}

var errDuplicateModule = errors.New("duplicate module")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Descriptor)}
}

// Register adds d.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return errors.New("empty module name")
	}
	if d.New == nil {
		return errors.New("nil module factory")
	}
	if _, exists := r.byName[d.Name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateModule, d.Name)
	}
	r.byName[d.Name] = d
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(d Descriptor) {
	if err := r.Register(d); err != nil {
		panic("modules registry: " + err.Error())
	}
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the named module on a builder configured with opts.
func (r *Registry) Build(name string, opts ...engine.Option) (*engine.Engine, error) {
	d, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown module %q (have %v)", name, r.Names())
	}
	b := engine.NewBuilder(opts...)
	m := d.New(b)
	e, err := b.Build(m)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", name, err)
	}
	return e, nil
}
