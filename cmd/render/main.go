// Command render plays a module's demo schedule offline and writes a WAV
// file.
//
// Usage:
//
//	render [flags] module-name
//
// Examples:
//
//	render chordvox
//	render -seconds 8 -out chords.wav chordvox
//	render -profile rack -rate 96000 chordvox
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/cwbudde/algo-modular/config"
	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/host/binding"
	"github.com/cwbudde/algo-modular/host/render"
	"github.com/cwbudde/algo-modular/internal/modules"
	"github.com/cwbudde/algo-modular/measure/peak"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("modular.render")

func main() {
	profileName := flag.String("profile", "seed", "built-in host profile ("+fmt.Sprint(config.Names())+")")
	configPath := flag.String("config", "", "TOML profile file (overrides -profile)")
	seconds := flag.Float64("seconds", 4, "render length in seconds")
	rate := flag.Float64("rate", 0, "sample rate in Hz (0 uses the profile rate)")
	block := flag.Int("block", 256, "frames rendered per block")
	gain := flag.Float64("gain", 1, "output gain")
	out := flag.String("out", "", "output WAV file (default <module>.wav)")
	verbose := flag.Int("v", 1, "log verbosity")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: render [flags] module-name\n\n")
		fmt.Fprintf(os.Stderr, "Renders a module's demo input schedule to a 16-bit WAV file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	commonlog.Configure(*verbose, nil)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(flag.Arg(0), *profileName, *configPath, *out, *seconds, *rate, *gain, *block); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(name, profileName, configPath, out string, seconds, rate, gain float64, block int) error {
	var (
		profile *config.Profile
		err     error
	)
	if configPath != "" {
		profile, err = config.Load(configPath)
	} else {
		profile, err = config.Builtin(profileName)
	}
	if err != nil {
		return err
	}
	opts, err := profile.EngineOptions()
	if err != nil {
		return err
	}

	cfg := profile.ProcessorConfig()
	if rate != 0 {
		if _, err := core.NewFrameInfo(rate); err != nil {
			return err
		}
		cfg.SampleRate = rate
	}
	frames := int(seconds * cfg.SampleRate)
	if frames <= 0 {
		return fmt.Errorf("render length %gs is empty", seconds)
	}

	reg := modules.Default()
	d, ok := reg.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown module %q (have %v)", name, reg.Names())
	}
	if d.Demo == nil {
		return fmt.Errorf("module %s has no demo schedule", name)
	}
	e, err := reg.Build(name, opts...)
	if err != nil {
		return err
	}

	driver := binding.NewDriver(e, cfg, binding.WithOutputGain(gain))
	r, err := render.New(driver, block, d.Demo(cfg.SampleRate, frames))
	if err != nil {
		return err
	}
	tape, err := r.Run(frames)
	if err != nil {
		return err
	}
	if tape.Channels() == 0 {
		log.Warningf("%s has no audio outputs; nothing to write", name)
		return nil
	}

	for c := range tape.Channels() {
		res, err := peak.Analyze(tape.Channel(c), cfg.SampleRate)
		if err != nil {
			log.Warningf("channel %d: %s", c, err)
			continue
		}
		log.Infof("channel %d: peak %.3f rms %.3f dominant %.1f Hz", c, res.Peak, res.RMS, res.DominantHz)
	}

	if out == "" {
		out = name + ".wav"
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := tape.WriteWAV(f, int(cfg.SampleRate)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	stats := e.Stats()
	log.Noticef("wrote %s: %d frames, %d channels at %g Hz (%d rate changes)",
		out, stats.Frames, tape.Channels(), cfg.SampleRate, stats.RateChanges)
	return nil
}
