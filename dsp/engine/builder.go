package engine

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-modular/dsp/port"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("modular.engine")

// Policy selects how the builder reacts to a configuration error.
type Policy uint8

const (
	// PolicyReturn records the first error and reports it from Err and
	// Build. Creation methods still return a usable port.
	PolicyReturn Policy = iota
	// PolicyPanic logs the error as critical and panics with it, for
	// targets where a misconfigured module must stop at startup.
	PolicyPanic
)

func (p Policy) String() string {
	if p == PolicyPanic {
		return "panic"
	}
	return "return"
}

// Option configures a Builder.
type Option func(*builderConfig)

type builderConfig struct {
	limits   Limits
	policy   Policy
	settings port.Settings
}

// WithLimits sets the capacity limits checked on every port creation.
func WithLimits(l Limits) Option {
	return func(c *builderConfig) { c.limits = l }
}

// WithPolicy sets the error policy.
func WithPolicy(p Policy) Option {
	return func(c *builderConfig) { c.policy = p }
}

// WithSettings sets the ranges, epsilon and thresholds new ports use.
func WithSettings(s port.Settings) Option {
	return func(c *builderConfig) { c.settings = s }
}

// Builder creates the ports of one module and enforces the capacity
// limits. A Builder is used from a single goroutine during construction.
type Builder struct {
	cfg    builderConfig
	ports  []*port.Port
	byID   map[string]*port.Port
	counts Counts
	err    error
	sealed bool
}

// NewBuilder returns a builder with Seed limits, default port settings and
// PolicyReturn unless overridden by opts.
func NewBuilder(opts ...Option) *Builder {
	cfg := builderConfig{
		limits:   SeedLimits(),
		policy:   PolicyReturn,
		settings: port.DefaultSettings(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	b := &Builder{cfg: cfg, byID: make(map[string]*port.Port)}
	if err := cfg.settings.Validate(); err != nil {
		b.fail(fmt.Errorf("engine settings: %w", err))
	}
	if err := cfg.limits.Check(); err != nil {
		b.fail(fmt.Errorf("engine limits: %w", err))
	}
	return b
}

// AudioIn creates an audio input.
func (b *Builder) AudioIn(id string, opts ...port.Option) *port.Port {
	return b.Create(id, port.Audio, port.Input, opts...)
}

// AudioOut creates an audio output.
func (b *Builder) AudioOut(id string, opts ...port.Option) *port.Port {
	return b.Create(id, port.Audio, port.Output, opts...)
}

// CVIn creates a CV input.
func (b *Builder) CVIn(id string, opts ...port.Option) *port.Port {
	return b.Create(id, port.CV, port.Input, opts...)
}

// CVOut creates a CV output.
func (b *Builder) CVOut(id string, opts ...port.Option) *port.Port {
	return b.Create(id, port.CV, port.Output, opts...)
}

// GateIn creates a jack gate input.
func (b *Builder) GateIn(id string, opts ...port.Option) *port.Port {
	return b.Create(id, port.Gate, port.Input, opts...)
}

// GateOut creates a gate output.
func (b *Builder) GateOut(id string, opts ...port.Option) *port.Port {
	return b.Create(id, port.Gate, port.Output, opts...)
}

// Param creates a parameter input.
func (b *Builder) Param(id string, opts ...port.Option) *port.Port {
	return b.Create(id, port.Param, port.Input, opts...)
}

// Button creates a switch-sourced gate input. It uses the button
// thresholds and counts as a gate input.
func (b *Builder) Button(id string, opts ...port.Option) *port.Port {
	opts = append(opts[:len(opts):len(opts)], port.WithSource(port.Switch))
	return b.Create(id, port.Gate, port.Input, opts...)
}

// Light creates a light output.
func (b *Builder) Light(id string, opts ...port.Option) *port.Port {
	return b.Create(id, port.Light, port.Output, opts...)
}

// Create registers a port of any kind and direction. It panics once the
// builder is sealed. Any other error follows the builder's policy; under
// PolicyReturn the port returned for a rejected definition is detached
// from the registry.
func (b *Builder) Create(id string, kind port.Kind, dir port.Direction, opts ...port.Option) *port.Port {
	if b.sealed {
		panic(fmt.Errorf("create port %q: %w", id, ErrSealed))
	}

	if id == "" {
		b.fail(fmt.Errorf("create %s/%s port: %w", kind, dir, ErrEmptyID))
		return detached(id, dir)
	}
	if _, dup := b.byID[id]; dup {
		b.fail(fmt.Errorf("create port %q: %w", id, ErrDuplicateID))
		return detached(id, dir)
	}

	p, err := port.New(id, kind, dir, b.cfg.settings, opts...)
	if err != nil {
		b.fail(fmt.Errorf("create port: %w", err))
		return detached(id, dir)
	}

	b.ports = append(b.ports, p)
	b.byID[id] = p
	b.counts.inc(kind, dir)
	log.Debugf("created port %s (#%d)", p, len(b.ports))

	if err := b.cfg.limits.Validate(b.counts); err != nil {
		var ce *CapacityError
		if errors.As(err, &ce) {
			ce.PortID = id
			ce.Class = Class{Kind: kind, Direction: dir}
			ce.Ordinal = len(b.ports)
		}
		b.fail(err)
	}
	return p
}

// Counts returns the current capacity counters.
func (b *Builder) Counts() Counts { return b.counts }

// Err returns the first recorded configuration error.
func (b *Builder) Err() error { return b.err }

// Settings returns the port settings in use.
func (b *Builder) Settings() port.Settings { return b.cfg.settings }

// Build seals the registry and returns the engine driving m. It fails
// with the first recorded error, if any.
func (b *Builder) Build(m Module) (*Engine, error) {
	if m == nil {
		return nil, ErrNilModule
	}
	if b.err != nil {
		return nil, b.err
	}
	b.sealed = true

	e := &Engine{
		module:   m,
		ports:    b.ports,
		byID:     b.byID,
		counts:   b.counts,
		limits:   b.cfg.limits,
		settings: b.cfg.settings,
	}
	e.rateHook, _ = m.(RateListener)
	for _, p := range b.ports {
		c := &e.byClass[p.Kind()][p.Direction()]
		*c = append(*c, p)
	}

	log.Infof("engine built: %d ports [%s]", len(b.ports), b.counts)
	return e, nil
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
	if b.cfg.policy == PolicyPanic {
		log.Criticalf("%s", err)
		panic(err)
	}
	log.Errorf("%s", err)
}

// detached returns a port that is not registered, so callers under
// PolicyReturn never see nil.
func detached(id string, dir port.Direction) *port.Port {
	p, _ := port.New(id, port.Audio, dir, port.DefaultSettings())
	return p
}
