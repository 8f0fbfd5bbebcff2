// Command modplay runs a module live on the default audio device, driven
// by a MIDI keyboard or by the module's demo schedule.
//
// Usage:
//
//	modplay [flags] module-name
//
// Examples:
//
//	modplay chordvox
//	modplay -midi "Keystation" chordvox
//	modplay -list-midi
//
// MIDI input needs a build with -tags midi_native.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/tliron/commonlog"

	"github.com/cwbudde/algo-modular/config"
	"github.com/cwbudde/algo-modular/dsp/engine"
	"github.com/cwbudde/algo-modular/dsp/port"
	"github.com/cwbudde/algo-modular/host/audio"
	"github.com/cwbudde/algo-modular/host/binding"
	"github.com/cwbudde/algo-modular/host/midi"
	"github.com/cwbudde/algo-modular/host/render"
	"github.com/cwbudde/algo-modular/internal/modules"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("modular.play")

const demoLength = 10 * time.Minute

func main() {
	profileName := flag.String("profile", "rack", "built-in host profile ("+fmt.Sprint(config.Names())+")")
	configPath := flag.String("config", "", "TOML profile file (overrides -profile)")
	device := flag.String("midi", "", "MIDI input device name (empty plays the demo schedule)")
	listMIDI := flag.Bool("list-midi", false, "list MIDI input devices")
	channel := flag.Uint("channel", 0, "MIDI channel 1-16 (0 listens on all)")
	buffer := flag.Duration("buffer", 40*time.Millisecond, "audio device buffer")
	block := flag.Int("block", audio.DefaultBlock, "frames rendered per block")
	gain := flag.Float64("gain", 0.5, "output gain")
	verbose := flag.Int("v", 1, "log verbosity")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: modplay [flags] module-name\n\n")
		fmt.Fprintf(os.Stderr, "Plays a module on the default audio device until interrupted.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	commonlog.Configure(*verbose, nil)

	if *listMIDI {
		names, err := midi.ListInputs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	ch, err := midiChannel(*channel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = play(ctx, flag.Arg(0), options{
		profile: *profileName,
		config:  *configPath,
		device:  *device,
		channel: ch,
		buffer:  *buffer,
		block:   *block,
		gain:    *gain,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	profile string
	config  string
	device  string
	channel uint8
	buffer  time.Duration
	block   int
	gain    float64
}

func play(ctx context.Context, name string, o options) error {
	var (
		profile *config.Profile
		err     error
	)
	if o.config != "" {
		profile, err = config.Load(o.config)
	} else {
		profile, err = config.Builtin(o.profile)
	}
	if err != nil {
		return err
	}
	opts, err := profile.EngineOptions()
	if err != nil {
		return err
	}

	reg := modules.Default()
	d, ok := reg.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown module %q (have %v)", name, reg.Names())
	}
	e, err := reg.Build(name, opts...)
	if err != nil {
		return err
	}
	cfg := profile.ProcessorConfig()
	driver := binding.NewDriver(e, cfg, binding.WithOutputGain(o.gain))

	var before func()
	if o.device != "" {
		m := d.MIDI
		m.Channel = o.channel
		bridge, err := midi.NewBridge(e, m)
		if err != nil {
			return err
		}
		in, events, err := midi.OpenInput(o.device)
		if err != nil {
			return err
		}
		defer in.Close()
		before = func() { bridge.Drain(events) }
	} else if d.Demo != nil {
		sched, err := newSchedule(driver, o.block, d.Demo(cfg.SampleRate, int(demoLength.Seconds()*cfg.SampleRate)))
		if err != nil {
			return err
		}
		before = sched.next
	}

	stream := audio.NewStream(driver, o.block, before)
	player, err := audio.NewPlayer(stream, int(cfg.SampleRate), o.buffer)
	if err != nil {
		return err
	}
	player.Start()
	log.Noticef("playing %s at %g Hz, interrupt to stop", name, cfg.SampleRate)

	<-ctx.Done()
	stats, err := shutdown(player, e)
	if err != nil {
		return err
	}
	log.Infof("stopped after %d frames (%d rejected)", stats.Frames, stats.RejectedFrames)
	return nil
}

// midiChannel checks the -channel flag before it is narrowed.
func midiChannel(v uint) (uint8, error) {
	if v > 16 {
		return 0, fmt.Errorf("-channel %d out of range 0-16", v)
	}
	return uint8(v), nil
}

// shutdown closes the player and then reads the engine stats. The engine
// belongs to the audio goroutine until the player is closed.
func shutdown(player io.Closer, e *engine.Engine) (engine.Stats, error) {
	err := player.Close()
	return e.Stats(), err
}

// schedule replays demo events at block granularity. A port is written at
// most once per block so that pulses shorter than a block keep both edges;
// later events slip to the following blocks.
type schedule struct {
	events  []boundEvent
	block   int
	frame   int
	pos     int
	touched map[*port.Port]bool
}

type boundEvent struct {
	frame int
	port  *port.Port
	value float64
}

func newSchedule(d *binding.Driver, block int, events []render.Event) (*schedule, error) {
	if block <= 0 {
		block = audio.DefaultBlock
	}
	s := &schedule{block: block, touched: make(map[*port.Port]bool)}
	for _, ev := range events {
		p, ok := d.Engine().Lookup(ev.Port)
		if !ok || p.Direction() != port.Input {
			return nil, fmt.Errorf("%w: demo port %q", render.ErrSchedule, ev.Port)
		}
		s.events = append(s.events, boundEvent{frame: ev.Frame, port: p, value: ev.Value})
	}
	sort.SliceStable(s.events, func(i, j int) bool { return s.events[i].frame < s.events[j].frame })
	return s, nil
}

func (s *schedule) next() {
	clear(s.touched)
	end := s.frame + s.block
	for s.pos < len(s.events) && s.events[s.pos].frame < end {
		ev := s.events[s.pos]
		if s.touched[ev.port] {
			break
		}
		ev.port.Set(ev.value)
		s.touched[ev.port] = true
		s.pos++
	}
	s.frame = end
}
