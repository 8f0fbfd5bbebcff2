// Package render runs an engine offline against a scripted input schedule
// and writes the result as WAV.
package render

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tliron/commonlog"

	"github.com/cwbudde/algo-modular/dsp/port"
	"github.com/cwbudde/algo-modular/host/binding"
)

var log = commonlog.GetLogger("modular.render")

var ErrSchedule = errors.New("invalid render schedule")

// Event writes Value to the input Port at the start of Frame.
type Event struct {
	Frame int
	Port  string
	Value float64
}

type boundEvent struct {
	frame int
	port  *port.Port
	value float64
}

// Renderer renders a driver into a Tape.
type Renderer struct {
	driver *binding.Driver
	events []boundEvent
	block  int
}

// New resolves the schedule against the driver's engine. Events are
// applied in frame order; events on the same frame keep their order.
func New(d *binding.Driver, block int, schedule []Event) (*Renderer, error) {
	if block <= 0 {
		return nil, fmt.Errorf("%w: block size %d", ErrSchedule, block)
	}
	r := &Renderer{driver: d, block: block, events: make([]boundEvent, 0, len(schedule))}
	for _, ev := range schedule {
		if ev.Frame < 0 {
			return nil, fmt.Errorf("%w: negative frame %d for %q", ErrSchedule, ev.Frame, ev.Port)
		}
		p, ok := d.Engine().Lookup(ev.Port)
		if !ok {
			return nil, fmt.Errorf("%w: unknown port %q", ErrSchedule, ev.Port)
		}
		if p.Direction() != port.Input {
			return nil, fmt.Errorf("%w: port %q is not an input", ErrSchedule, ev.Port)
		}
		r.events = append(r.events, boundEvent{frame: ev.Frame, port: p, value: ev.Value})
	}
	sort.SliceStable(r.events, func(i, j int) bool { return r.events[i].frame < r.events[j].frame })
	return r, nil
}

// Run renders frames frames of every audio output into a new tape.
func (r *Renderer) Run(frames int) (*Tape, error) {
	t := NewTape(r.driver.Outputs(), frames)
	view := make([][]float64, max(t.Channels(), 1))
	var scratch []float64
	if t.Channels() == 0 {
		scratch = make([]float64, r.block)
	}

	next := 0
	for pos := 0; pos < frames; {
		for next < len(r.events) && r.events[next].frame <= pos {
			ev := r.events[next]
			ev.port.Set(ev.value)
			next++
		}

		end := min(pos+r.block, frames)
		if next < len(r.events) && r.events[next].frame < end {
			end = r.events[next].frame
		}
		for c := range view {
			if scratch != nil {
				view[c] = scratch[:end-pos]
			} else {
				view[c] = t.Channel(c)[pos:end]
			}
		}
		if err := r.driver.RenderBlock(nil, view); err != nil {
			return nil, fmt.Errorf("render frames %d-%d: %w", pos, end, err)
		}
		pos = end
	}

	log.Debugf("rendered %d frames, %d channels, %d events", frames, t.Channels(), next)
	return t, nil
}
