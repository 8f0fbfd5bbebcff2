//go:build midi_native

package midi

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gitlab.com/gomidi/midi"
	"gitlab.com/gomidi/rtmididrv"
)

type inputWrap struct {
	drv     *rtmididrv.Driver
	in      midi.In
	dropped atomic.Uint64
	once    sync.Once
}

// OpenInput opens the input whose name equals deviceName, or else the
// first one containing it, and streams its channel messages. Events are
// dropped when the channel is full.
func OpenInput(deviceName string) (Input, <-chan Event, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, nil, fmt.Errorf("rtmididrv.New: %w", err)
	}
	ins, err := drv.Ins()
	if err != nil {
		_ = drv.Close()
		return nil, nil, fmt.Errorf("list MIDI inputs: %w", err)
	}

	var in midi.In
	for _, p := range ins {
		if p.String() == deviceName {
			in = p
			break
		}
	}
	if in == nil {
		for _, p := range ins {
			if strings.Contains(p.String(), deviceName) {
				in = p
				break
			}
		}
	}
	if in == nil {
		_ = drv.Close()
		return nil, nil, fmt.Errorf("MIDI input not found: %s", deviceName)
	}
	if err := in.Open(); err != nil {
		_ = drv.Close()
		return nil, nil, fmt.Errorf("open MIDI input: %w", err)
	}

	w := &inputWrap{drv: drv, in: in}
	evCh := make(chan Event, 128)
	if err := in.SetListener(func(bt []byte, _ int64) {
		e, ok := Decode(bt, time.Now())
		if !ok {
			return
		}
		select {
		case evCh <- e:
		default:
			w.dropped.Add(1)
		}
	}); err != nil {
		_ = in.Close()
		_ = drv.Close()
		return nil, nil, fmt.Errorf("set MIDI listener: %w", err)
	}

	log.Infof("opened MIDI input %q", in.String())
	return w, evCh, nil
}

func (w *inputWrap) Close() error {
	var err error
	w.once.Do(func() {
		_ = w.in.Close()
		err = w.drv.Close()
		if n := w.dropped.Load(); n > 0 {
			log.Warningf("dropped %d MIDI events", n)
		}
	})
	return err
}

// ListInputs returns the names of the available input devices.
func ListInputs() ([]string, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, err
	}
	defer drv.Close()
	ins, err := drv.Ins()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ins))
	for _, i := range ins {
		names = append(names, i.String())
	}
	return names, nil
}
