package engine_test

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/engine"
)

type silent struct{}

func (silent) Process(core.FrameInfo) {}

func ExampleBuilder_capacity() {
	b := engine.NewBuilder(engine.WithLimits(engine.SeedLimits()))
	b.AudioOut("left")
	b.AudioOut("right")
	b.AudioOut("aux")

	_, err := b.Build(silent{})
	fmt.Println(errors.Is(err, engine.ErrCapacity))
	fmt.Println(err)
	// Output:
	// true
	// port capacity exceeded: max 2 audio outs (3 > 2) at port #3 "aux" (audio/out)
}

func ExampleEngine_Process() {
	b := engine.NewBuilder()
	in := b.GateIn("trigger")
	led := b.Light("led")

	e, _ := b.Build(silent{})
	var lights []float64
	for _, v := range []float64{0, 0.5, 0.15, 0.05, 0} {
		in.Set(v)
		e.Process(core.FrameInfo{SampleRate: 48000})
		led.SetBool(in.High())
		lights = append(lights, led.Value())
	}
	fmt.Println(lights)
	fmt.Println(e.Stats().Frames, e.Stats().RateChanges)
	// Output:
	// [0 1 1 1 0]
	// 5 1
}
