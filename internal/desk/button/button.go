// Package button implements the accept and reject decision surfaces.
package button

import (
	"errors"
	"fmt"

	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/desk/round"
)

var ErrAnimating = errors.New("button press already animating")

type Config struct {
	// Depth is how far the cap travels along its local down axis.
	Depth float64 `yaml:"depth"`
	// Duration is the full press and release time in seconds.
	Duration float64 `yaml:"duration"`
}

func DefaultConfig() Config {
	return Config{Depth: 0.01, Duration: 0.08}
}

func (c Config) Validate() error {
	if c.Depth < 0 {
		return fmt.Errorf("button: depth must be non-negative, got %v", c.Depth)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("button: duration must be positive, got %v", c.Duration)
	}
	return nil
}

// Button is one decision surface. The press animation is a timed one-shot
// polled from Update: it sinks the cap for the first half of Duration and
// raises it for the second.
type Button struct {
	cfg      Config
	polarity round.Decision
	rest     spatial.Transform
	collider spatial.Box

	pressing bool
	elapsed  float64
	offset   float64
}

// New places a button at rest with the given collider, in world space.
func New(cfg Config, polarity round.Decision, rest spatial.Transform, collider spatial.Box) *Button {
	return &Button{cfg: cfg, polarity: polarity, rest: rest, collider: collider}
}

func (b *Button) Polarity() round.Decision { return b.polarity }
func (b *Button) Collider() spatial.Box    { return b.collider }
func (b *Button) Pressing() bool           { return b.pressing }

// Press starts the animation. A press during an animation is refused and
// does not restart it.
func (b *Button) Press() error {
	if b.pressing {
		return ErrAnimating
	}
	b.pressing = true
	b.elapsed = 0
	b.offset = 0
	return nil
}

// Update advances the animation by dt seconds.
func (b *Button) Update(dt float64) {
	if !b.pressing {
		return
	}
	b.elapsed += dt
	half := b.cfg.Duration / 2
	switch {
	case b.elapsed >= b.cfg.Duration:
		b.pressing = false
		b.elapsed = 0
		b.offset = 0
	case b.elapsed <= half:
		b.offset = b.cfg.Depth * b.elapsed / half
	default:
		b.offset = b.cfg.Depth * (b.cfg.Duration - b.elapsed) / half
	}
}

// Depression is the current travel of the cap, in [0, Depth].
func (b *Button) Depression() float64 { return b.offset }

// Transform is the animated pose of the cap.
func (b *Button) Transform() spatial.Transform {
	t := b.rest
	t.Position = t.Position.Sub(t.Up().Mul(b.offset))
	return t
}
