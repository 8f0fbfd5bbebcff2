package binding

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-modular/config"
	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/port"
)

var (
	ErrOutputPort = errors.New("cannot write an output port")
	ErrInputPort  = errors.New("cannot read an input port")
)

// Rack voltage standards.
const (
	AudioVolts = 5.0
	CVVolts    = 10.0
	GateVolts  = 10.0
)

// DACMax is the full-scale code of the Seed's 12-bit DAC.
const DACMax = 4095

// Scaling converts between host units and normalized port values.
type Scaling interface {
	ToPort(p *port.Port, host float64) float64
	FromPort(p *port.Port) float64
}

// ScalingFor returns the scaling convention of a host.
func ScalingFor(h config.Host) (Scaling, error) {
	switch h {
	case config.HostRack:
		return Rack{}, nil
	case config.HostSeed:
		return Seed{}, nil
	}
	return nil, fmt.Errorf("no scaling for host %q", h)
}

// Write converts host to a port value and sets it on the input p.
func Write(s Scaling, p *port.Port, host float64) error {
	if p.Direction() != port.Input {
		return fmt.Errorf("port %q: %w", p.ID(), ErrOutputPort)
	}
	p.Set(s.ToPort(p, host))
	return nil
}

// Read returns the host value of the output p.
func Read(s Scaling, p *port.Port) (float64, error) {
	if p.Direction() != port.Output {
		return 0, fmt.Errorf("port %q: %w", p.ID(), ErrInputPort)
	}
	return s.FromPort(p), nil
}

// Rack speaks volts: audio ±5 V, CV ±10 V and 10 V gates. Parameters and
// lights are passed through.
type Rack struct{}

func (Rack) ToPort(p *port.Port, v float64) float64 {
	switch p.Kind() {
	case port.Audio:
		return v / AudioVolts
	case port.CV:
		return v / CVVolts
	case port.Gate:
		if p.IsButton() {
			return v
		}
		return v / GateVolts
	}
	return v
}

func (Rack) FromPort(p *port.Port) float64 {
	switch p.Kind() {
	case port.Audio:
		return p.Value() * AudioVolts
	case port.CV:
		return p.Value() * CVVolts
	case port.Gate:
		if p.High() {
			return GateVolts
		}
		return 0
	}
	return p.Value()
}

// Seed speaks microcontroller units: ADC readings in [0, 1], DAC codes and
// GPIO levels. Switches are wired with pull-ups, so a pressed button reads
// a low level.
type Seed struct{}

func (Seed) ToPort(p *port.Port, v float64) float64 {
	switch p.Kind() {
	case port.CV:
		return v*2 - 1
	case port.Gate:
		level := 0.0
		if v >= 0.5 {
			level = 1
		}
		if p.IsButton() {
			return 1 - level
		}
		return level
	}
	return v
}

func (Seed) FromPort(p *port.Port) float64 {
	switch p.Kind() {
	case port.CV:
		return float64(DACCode(p.Value()))
	case port.Gate:
		if p.High() {
			return 1
		}
		return 0
	}
	return p.Value()
}

// DACCode maps a CV value in [-1, 1] onto the 12-bit DAC range.
func DACCode(v float64) uint16 {
	if math.IsNaN(v) {
		v = 0
	}
	v = core.Clamp(v, -1, 1)
	return uint16(math.Round((v + 1) / 2 * DACMax))
}
