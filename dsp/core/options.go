package core

// DefaultSampleRate is used whenever no valid sample rate has been observed.
const DefaultSampleRate = 48000

// ProcessorConfig defines the host driver settings: sample rate and the
// number of frames handled per callback.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the Daisy-style defaults: 48 kHz with a
// four frame audio block.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: DefaultSampleRate,
		BlockSize:  4,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Frame returns the frame clock matching the configured sample rate.
func (cfg ProcessorConfig) Frame() FrameInfo {
	f, err := NewFrameInfo(cfg.SampleRate)
	if err != nil {
		f, _ = NewFrameInfo(DefaultSampleRate)
	}
	return f
}
