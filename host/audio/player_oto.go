//go:build !headless

package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player plays a Stream on the default output device.
type Player struct {
	mu      sync.Mutex
	ctx     *oto.Context
	player  *oto.Player
	started bool
}

// NewPlayer opens the output device at sampleRate. Only one Player may
// exist per process.
func NewPlayer(s *Stream, sampleRate int, buffer time.Duration) (*Player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   buffer,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	log.Infof("audio device open: %d Hz, %d channels, buffer %s", sampleRate, Channels, buffer)
	return &Player{ctx: ctx, player: ctx.NewPlayer(s)}, nil
}

// Start begins playback.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started && p.player != nil {
		p.player.Play()
		p.started = true
	}
}

// IsStarted reports whether playback is running.
func (p *Player) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// Close stops playback and releases the player.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = false
	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	return err
}
