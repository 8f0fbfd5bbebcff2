//go:build headless

package audio

import "time"

// Player is a no-op in headless builds.
type Player struct {
	started bool
}

// NewPlayer returns a player that produces no sound.
func NewPlayer(_ *Stream, sampleRate int, _ time.Duration) (*Player, error) {
	log.Noticef("headless build: audio output disabled (%d Hz)", sampleRate)
	return &Player{}, nil
}

func (p *Player) Start() { p.started = true }

func (p *Player) IsStarted() bool { return p.started }

func (p *Player) Close() error {
	p.started = false
	return nil
}
