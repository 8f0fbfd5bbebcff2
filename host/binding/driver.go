package binding

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/engine"
	"github.com/cwbudde/algo-modular/dsp/port"
)

// ErrBlockShape is returned when the channels of a block differ in length.
var ErrBlockShape = errors.New("block channels differ in length")

// Driver feeds blocks of audio through an engine. Audio input channel c
// drives the c-th audio input port; the c-th audio output port fills
// output channel c. Other ports are driven by the host directly.
type Driver struct {
	engine *engine.Engine
	frame  core.FrameInfo
	block  int
	ins    []*port.Port
	outs   []*port.Port

	gain      float64
	gainBlock []float64
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithOutputGain scales every output sample after processing, for example
// by AudioVolts when the host expects volts.
func WithOutputGain(g float64) DriverOption {
	return func(d *Driver) { d.gain = g }
}

// NewDriver returns a driver for e clocked by cfg.
func NewDriver(e *engine.Engine, cfg core.ProcessorConfig, opts ...DriverOption) *Driver {
	d := &Driver{
		engine: e,
		frame:  cfg.Frame(),
		block:  cfg.BlockSize,
		ins:    e.PortsOf(port.Audio, port.Input),
		outs:   e.PortsOf(port.Audio, port.Output),
		gain:   1,
	}
	if d.block <= 0 {
		d.block = core.DefaultProcessorConfig().BlockSize
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	d.gainBlock = make([]float64, d.block)
	for i := range d.gainBlock {
		d.gainBlock[i] = d.gain
	}

	log.Infof("driver: %d in, %d out, %v Hz, block %d, gain %v",
		len(d.ins), len(d.outs), d.frame.SampleRate, d.block, d.gain)
	return d
}

// Engine returns the driven engine.
func (d *Driver) Engine() *engine.Engine { return d.engine }

// Frame returns the frame info passed to the engine.
func (d *Driver) Frame() core.FrameInfo { return d.frame }

// SetSampleRate changes the clock; the engine sees the change on the next
// frame.
func (d *Driver) SetSampleRate(rate float64) error {
	f, err := core.NewFrameInfo(rate)
	if err != nil {
		return err
	}
	d.frame = f
	return nil
}

// Inputs returns the number of audio input channels.
func (d *Driver) Inputs() int { return len(d.ins) }

// Outputs returns the number of audio output channels.
func (d *Driver) Outputs() int { return len(d.outs) }

// RenderBlock processes one block. All channels of in and out must have
// the same length; missing input channels read as silence and surplus
// channels are ignored. It does not allocate.
func (d *Driver) RenderBlock(in, out [][]float64) error {
	n := -1
	for _, ch := range [2][][]float64{in, out} {
		for _, c := range ch {
			if n < 0 {
				n = len(c)
			} else if len(c) != n {
				return fmt.Errorf("%w: %d and %d", ErrBlockShape, n, len(c))
			}
		}
	}
	if n <= 0 {
		return nil
	}

	for i := range n {
		for c, p := range d.ins {
			if c < len(in) {
				p.Set(in[c][i])
			} else {
				p.Set(0)
			}
		}
		d.engine.Process(d.frame)
		for c, p := range d.outs {
			if c < len(out) {
				out[c][i] = p.Value()
			}
		}
	}

	if d.gain != 1 {
		for c := range min(len(out), len(d.outs)) {
			for start := 0; start < n; start += d.block {
				end := min(start+d.block, n)
				vecmath.MulBlockInPlace(out[c][start:end], d.gainBlock[:end-start])
			}
		}
	}
	return nil
}
