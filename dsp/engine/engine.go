package engine

import (
	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/port"
)

// Module is the processing behaviour driven by an Engine.
type Module interface {
	Process(f core.FrameInfo)
}

// RateListener is implemented by modules that recompute sample-rate
// dependent state.
type RateListener interface {
	SampleRateChanged(f core.FrameInfo)
}

// Stats counts engine activity since Build.
type Stats struct {
	Frames         uint64
	RateChanges    uint64
	RejectedFrames uint64
}

// Engine drives one module. It is not safe for concurrent use; Process
// belongs to the audio callback.
type Engine struct {
	module   Module
	rateHook RateListener

	frame    core.FrameInfo
	ports    []*port.Port
	byClass  [port.NumKinds][2][]*port.Port
	byID     map[string]*port.Port
	counts   Counts
	limits   Limits
	settings port.Settings
	stats    Stats
}

// Process runs one frame. The SampleRateChanged hook fires before the
// module's Process whenever f carries a sample rate different from the
// stored one. A frame with an invalid rate is counted as rejected and
// replaced by the stored frame, or by the default rate before the first
// valid frame.
func (e *Engine) Process(f core.FrameInfo) {
	if f.SampleRate != e.frame.SampleRate || !e.Running() {
		if f.Validate() != nil {
			e.stats.RejectedFrames++
			f = e.fallback()
		}
		if f.SampleRate != e.frame.SampleRate {
			e.frame = f.Normalized()
			e.stats.RateChanges++
			if e.rateHook != nil {
				e.rateHook.SampleRateChanged(e.frame)
			}
		}
	}
	e.stats.Frames++
	e.module.Process(e.frame)
}

func (e *Engine) fallback() core.FrameInfo {
	if e.Running() {
		return e.frame
	}
	f, _ := core.NewFrameInfo(core.DefaultSampleRate)
	return f
}

// Running reports whether a frame has been processed.
func (e *Engine) Running() bool { return e.frame.SampleRate > 0 }

// Frame returns the stored frame info; zero before the first frame.
func (e *Engine) Frame() core.FrameInfo { return e.frame }

// Module returns the driven module.
func (e *Engine) Module() Module { return e.module }

// Ports returns all ports in creation order.
func (e *Engine) Ports() []*port.Port {
	return append([]*port.Port(nil), e.ports...)
}

// PortsOf returns the ports of one kind and direction in creation order.
func (e *Engine) PortsOf(kind port.Kind, dir port.Direction) []*port.Port {
	if int(kind) >= port.NumKinds || dir > port.Output {
		return nil
	}
	return append([]*port.Port(nil), e.byClass[kind][dir]...)
}

// Lookup finds a port by id.
func (e *Engine) Lookup(id string) (*port.Port, bool) {
	p, ok := e.byID[id]
	return p, ok
}

// Counts returns the capacity counters.
func (e *Engine) Counts() Counts { return e.counts }

// Limits returns the limits the ports were validated against.
func (e *Engine) Limits() Limits { return e.limits }

// Settings returns the port settings.
func (e *Engine) Settings() port.Settings { return e.settings }

// Stats returns the activity counters.
func (e *Engine) Stats() Stats { return e.stats }
