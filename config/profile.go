// Package config loads form-factor profiles: the capacity ceilings,
// port ranges and gate thresholds of one deployment target.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/engine"
	"github.com/cwbudde/algo-modular/dsp/port"
)

// ErrUnknownProfile is returned for profile names with no built-in.
var ErrUnknownProfile = errors.New("unknown profile")

// Host selects the scaling convention used by the host binding.
type Host string

const (
	HostSeed Host = "seed"
	HostRack Host = "rack"
)

// Profile is the TOML representation of a form factor.
type Profile struct {
	Name   string     `toml:"name"`
	Base   string     `toml:"base"`
	Host   Host       `toml:"host"`
	Frame  Frame      `toml:"frame"`
	CV     CV         `toml:"cv"`
	Audio  Audio      `toml:"audio"`
	Gate   Thresholds `toml:"gate"`
	Button Thresholds `toml:"button"`
	Limits []Limit    `toml:"limits"`
}

// Frame configures the host driver clock.
type Frame struct {
	SampleRate float64 `toml:"sample_rate"`
	BlockSize  int     `toml:"block_size"`
}

// CV configures the continuous-control range and change epsilon.
type CV struct {
	Min     float64 `toml:"min"`
	Max     float64 `toml:"max"`
	Epsilon float64 `toml:"epsilon"`
}

// Audio configures the audio output clamp.
type Audio struct {
	OutputLimit float64 `toml:"output_limit"`
}

// Thresholds mirrors port.Thresholds.
type Thresholds struct {
	LowThreshold  float64 `toml:"low_threshold"`
	HighThreshold float64 `toml:"high_threshold"`
	Low           float64 `toml:"low"`
	High          float64 `toml:"high"`
}

// Limit is one capacity ceiling over port classes such as "gate/in".
type Limit struct {
	Name    string   `toml:"name"`
	Max     int      `toml:"max"`
	Members []string `toml:"members"`
}

var builtins = map[string]func() Profile{
	"seed": seedProfile,
	"rack": rackProfile,
}

func seedProfile() Profile {
	s := port.DefaultSettings()
	p := Profile{
		Name:   "seed",
		Host:   HostSeed,
		Frame:  Frame{SampleRate: core.DefaultSampleRate, BlockSize: 4},
		CV:     CV{Min: s.CVMin, Max: s.CVMax, Epsilon: s.Epsilon},
		Audio:  Audio{OutputLimit: s.AudioLimit},
		Gate:   fromThresholds(s.Gate),
		Button: fromThresholds(s.Button),
	}
	for _, l := range engine.SeedLimits() {
		members := make([]string, len(l.Classes))
		for i, c := range l.Classes {
			members[i] = c.String()
		}
		p.Limits = append(p.Limits, Limit{Name: l.Name, Max: l.Max, Members: members})
	}
	return p
}

func rackProfile() Profile {
	p := seedProfile()
	p.Name = "rack"
	p.Host = HostRack
	p.Frame = Frame{SampleRate: 44100, BlockSize: 1}
	p.Limits = []Limit{
		{Name: "max 16 audio ins", Max: 16, Members: []string{"audio/in"}},
		{Name: "max 16 audio outs", Max: 16, Members: []string{"audio/out"}},
		{Name: "max 32 CV ins", Max: 32, Members: []string{"cv/in"}},
		{Name: "max 32 CV outs", Max: 32, Members: []string{"cv/out"}},
		{Name: "max 64 params", Max: 64, Members: []string{"param/in"}},
		{Name: "max 64 gate ins", Max: 64, Members: []string{"gate/in"}},
		{Name: "max 64 gate outs", Max: 64, Members: []string{"gate/out"}},
		{Name: "max 128 lights", Max: 128, Members: []string{"light/out"}},
	}
	return p
}

// Names lists the built-in profile names.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a copy of the named built-in profile.
func Builtin(name string) (*Profile, error) {
	mk, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	p := mk()
	return &p, nil
}

// Parse decodes a TOML profile. Keys missing from data keep the values of
// the profile named by "base", or of "seed" when no base is given. A
// limits array replaces the base limits entirely.
func Parse(data []byte) (*Profile, error) {
	var head struct {
		Base string `toml:"base"`
	}
	md, err := toml.Decode(string(data), &head)
	if err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if head.Base == "" {
		head.Base = "seed"
	}

	p, err := Builtin(head.Base)
	if err != nil {
		return nil, fmt.Errorf("profile base: %w", err)
	}
	if md.IsDefined("limits") {
		p.Limits = nil
	}
	p.Base = head.Base
	if err := toml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Load reads and parses the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Validate checks the profile for values the engine would reject.
func (p *Profile) Validate() error {
	switch p.Host {
	case HostSeed, HostRack:
	default:
		return fmt.Errorf("profile %q: unknown host %q", p.Name, p.Host)
	}
	if _, err := core.NewFrameInfo(p.Frame.SampleRate); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	if p.Frame.BlockSize <= 0 {
		return fmt.Errorf("profile %q: block size must be > 0: %d", p.Name, p.Frame.BlockSize)
	}
	if err := p.Settings().Validate(); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	limits, err := p.EngineLimits()
	if err != nil {
		return err
	}
	if err := limits.Check(); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return nil
}

// Settings returns the port settings of the profile.
func (p *Profile) Settings() port.Settings {
	return port.Settings{
		Epsilon:    p.CV.Epsilon,
		CVMin:      p.CV.Min,
		CVMax:      p.CV.Max,
		AudioLimit: p.Audio.OutputLimit,
		Gate:       p.Gate.thresholds(),
		Button:     p.Button.thresholds(),
	}
}

// EngineLimits converts the limits table.
func (p *Profile) EngineLimits() (engine.Limits, error) {
	limits := make(engine.Limits, 0, len(p.Limits))
	for _, l := range p.Limits {
		classes := make([]engine.Class, 0, len(l.Members))
		for _, m := range l.Members {
			c, err := engine.ParseClass(m)
			if err != nil {
				return nil, fmt.Errorf("profile %q: limit %q: %w", p.Name, l.Name, err)
			}
			classes = append(classes, c)
		}
		limits = append(limits, engine.Limit{Name: l.Name, Max: l.Max, Classes: classes})
	}
	return limits, nil
}

// EngineOptions returns the builder options for this profile. The policy
// is left to the caller.
func (p *Profile) EngineOptions() ([]engine.Option, error) {
	limits, err := p.EngineLimits()
	if err != nil {
		return nil, err
	}
	return []engine.Option{
		engine.WithLimits(limits),
		engine.WithSettings(p.Settings()),
	}, nil
}

// ProcessorConfig returns the host driver clock.
func (p *Profile) ProcessorConfig() core.ProcessorConfig {
	return core.ApplyProcessorOptions(
		core.WithSampleRate(p.Frame.SampleRate),
		core.WithBlockSize(p.Frame.BlockSize),
	)
}

func (t Thresholds) thresholds() port.Thresholds {
	return port.Thresholds{
		LowThreshold:  t.LowThreshold,
		HighThreshold: t.HighThreshold,
		Low:           t.Low,
		High:          t.High,
	}
}

func fromThresholds(t port.Thresholds) Thresholds {
	return Thresholds{
		LowThreshold:  t.LowThreshold,
		HighThreshold: t.HighThreshold,
		Low:           t.Low,
		High:          t.High,
	}
}
