// Package audio plays an engine through the system audio device.
package audio

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/cwbudde/algo-modular/host/binding"
)

var log = commonlog.GetLogger("modular.audio")

// Channels is the number of interleaved output channels.
const Channels = 2

const bytesPerFrame = Channels * 4

// DefaultBlock is the number of frames rendered between BeforeBlock calls.
const DefaultBlock = 256

// Stream renders a driver into interleaved stereo float32 little-endian
// PCM. A mono module is copied to both channels; channels beyond the
// second are ignored.
type Stream struct {
	mu     sync.Mutex
	driver *binding.Driver
	before func()
	block  int

	out  [][]float64
	view [][]float64
}

// NewStream returns a stream over d that calls before (if not nil) ahead
// of every block, on the audio goroutine. Use it to apply queued control
// changes such as MIDI so the engine keeps a single writer.
func NewStream(d *binding.Driver, block int, before func()) *Stream {
	if block <= 0 {
		block = DefaultBlock
	}
	n := max(d.Outputs(), 1)
	s := &Stream{
		driver: d,
		before: before,
		block:  block,
		out:    make([][]float64, n),
		view:   make([][]float64, n),
	}
	for c := range s.out {
		s.out[c] = make([]float64, block)
	}
	return s
}

// Read fills p with whole frames and never returns an error. Trailing
// bytes that do not form a frame are zeroed.
func (s *Stream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frames := len(p) / bytesPerFrame
	off := 0
	for frames > 0 {
		n := min(frames, s.block)
		if s.before != nil {
			s.before()
		}
		for c := range s.view {
			s.view[c] = s.out[c][:n]
		}
		if s.driver.Outputs() == 0 {
			clear(s.view[0])
		}
		if err := s.driver.RenderBlock(nil, s.view); err != nil {
			log.Errorf("render block: %s", err)
			return len(p), nil
		}

		left := s.view[0]
		right := left
		if len(s.view) > 1 {
			right = s.view[1]
		}
		for i := range n {
			putSample(p[off:], left[i])
			putSample(p[off+4:], right[i])
			off += bytesPerFrame
		}
		frames -= n
	}
	for i := off; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

func putSample(b []byte, v float64) {
	if math.IsNaN(v) {
		v = 0
	}
	binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
}
