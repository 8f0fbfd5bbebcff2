package main

import (
	"testing"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/engine"
)

type nopModule struct{}

func (nopModule) Process(core.FrameInfo) {}

// closer renders one last frame while closing, like an in-flight audio
// callback finishing its block.
type closer struct {
	e *engine.Engine
}

func (c closer) Close() error {
	c.e.Process(core.DefaultProcessorConfig().Frame())
	return nil
}

func TestMIDIChannel(t *testing.T) {
	tests := []struct {
		in      uint
		want    uint8
		wantErr bool
	}{
		{0, 0, false},
		{1, 1, false},
		{16, 16, false},
		{17, 0, true},
		{272, 0, true},
	}

	for _, tt := range tests {
		got, err := midiChannel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("midiChannel(%d) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("midiChannel(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestShutdownReadsStatsAfterClose(t *testing.T) {
	e, err := engine.NewBuilder().Build(nopModule{})
	if err != nil {
		t.Fatal(err)
	}
	e.Process(core.DefaultProcessorConfig().Frame())

	stats, err := shutdown(closer{e: e}, e)
	if err != nil {
		t.Fatalf("shutdown() error = %v", err)
	}
	if stats.Frames != 2 {
		t.Fatalf("Frames = %d, want 2", stats.Frames)
	}
}
