package core

import "testing"

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(96000), WithBlockSize(64))
	if cfg.SampleRate != 96000 {
		t.Fatalf("sample rate = %v, want 96000", cfg.SampleRate)
	}
	if cfg.BlockSize != 64 {
		t.Fatalf("block size = %d, want 64", cfg.BlockSize)
	}
}

func TestInvalidOptionsIgnored(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(0), WithBlockSize(-1), nil)
	def := DefaultProcessorConfig()
	if cfg != def {
		t.Fatalf("cfg = %#v, want %#v", cfg, def)
	}
}

func TestProcessorConfigFrame(t *testing.T) {
	f := ProcessorConfig{SampleRate: -1}.Frame()
	if f.SampleRate != DefaultSampleRate {
		t.Fatalf("SampleRate = %v, want default %v", f.SampleRate, DefaultSampleRate)
	}
}
