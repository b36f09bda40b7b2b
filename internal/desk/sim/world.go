package sim

import (
	"errors"
	"slices"

	"github.com/zeusync/deskcheck/internal/core/systems"
)

type WorldConfig struct {
	Gravity        float64 `yaml:"gravity"`
	FloorHeight    float64 `yaml:"floor_height"`
	Friction       float64 `yaml:"friction"`
	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`
	SleepSpeed     float64 `yaml:"sleep_speed"`
}

func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Gravity:        -9.81,
		FloorHeight:    0.75,
		Friction:       6,
		LinearDamping:  0.05,
		AngularDamping: 1,
		SleepSpeed:     0.005,
	}
}

func (c WorldConfig) Validate() error {
	if c.Friction < 0 || c.LinearDamping < 0 || c.AngularDamping < 0 || c.SleepSpeed < 0 {
		return errors.New("sim: friction, damping and sleep speed must be non-negative")
	}
	return nil
}

var _ systems.System = (*World)(nil)

// World steps its bodies on the fixed tick. It runs after the desk so that
// MovePosition calls made during a fixed tick land in the same step.
type World struct {
	cfg    WorldConfig
	bodies []*Body
}

func NewWorld(cfg WorldConfig) *World {
	return &World{cfg: cfg}
}

func (w *World) Name() string               { return "physics" }
func (w *World) Priority() systems.Priority { return systems.PriorityLow }
func (w *World) Update(float64) error       { return nil }
func (w *World) Config() WorldConfig        { return w.cfg }
func (w *World) Bodies() []*Body            { return slices.Clone(w.bodies) }

func (w *World) Add(b *Body) {
	if !slices.Contains(w.bodies, b) {
		w.bodies = append(w.bodies, b)
	}
}

func (w *World) Remove(b *Body) {
	w.bodies = slices.DeleteFunc(w.bodies, func(x *Body) bool { return x == b })
}

func (w *World) FixedUpdate(dt float64) error {
	for _, b := range w.bodies {
		b.step(dt, w.cfg)
	}
	return nil
}
