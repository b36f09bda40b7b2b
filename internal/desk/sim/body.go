// Package sim provides headless stand-ins for the engine pieces the desk
// talks to: rigid bodies, colliders, timelines, visibility groups, audio and
// the card spawner. They are enough to play whole rounds without a window.
package sim

import (
	"math"

	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/desk/object"
)

var _ object.RigidBody = (*Body)(nil)

// Body is a point-mass rigid body resting on an infinite floor.
type Body struct {
	pos, vel, angVel spatial.Vec3
	rot              spatial.Quat
	mass             float64
	halfHeight       float64

	gravity     bool
	kinematic   bool
	constraints object.Constraints

	pending *spatial.Vec3
	awake   bool
}

// NewBody creates an awake dynamic body with gravity. halfHeight is the
// distance from its center to the floor contact.
func NewBody(pose spatial.Transform, mass, halfHeight float64) *Body {
	if mass <= 0 {
		mass = 1
	}
	return &Body{
		pos:        pose.Position,
		rot:        pose.Rotation.Normalize(),
		mass:       mass,
		halfHeight: halfHeight,
		gravity:    true,
		awake:      true,
	}
}

func (b *Body) Position() spatial.Vec3 { return b.pos }

func (b *Body) MovePosition(p spatial.Vec3) {
	b.pending = &p
	b.awake = true
}

func (b *Body) Rotation() spatial.Quat          { return b.rot }
func (b *Body) SetRotation(q spatial.Quat)      { b.rot = q.Normalize() }
func (b *Body) UseGravity() bool                { return b.gravity }
func (b *Body) SetUseGravity(v bool)            { b.gravity = v }
func (b *Body) IsKinematic() bool               { return b.kinematic }
func (b *Body) SetKinematic(v bool)             { b.kinematic = v }
func (b *Body) Constraints() object.Constraints { return b.constraints }

func (b *Body) SetConstraints(c object.Constraints) { b.constraints = c }

func (b *Body) Velocity() spatial.Vec3        { return b.vel }
func (b *Body) AngularVelocity() spatial.Vec3 { return b.angVel }
func (b *Body) Awake() bool                   { return b.awake }

func (b *Body) SetLinearVelocity(v spatial.Vec3)  { b.vel = v }
func (b *Body) SetAngularVelocity(v spatial.Vec3) { b.angVel = v }

func (b *Body) AddImpulse(j spatial.Vec3) {
	if b.kinematic {
		return
	}
	b.vel = b.vel.Add(j.Mul(1 / b.mass))
	b.awake = true
}

func (b *Body) AddTorqueImpulse(j spatial.Vec3) {
	if b.kinematic {
		return
	}
	b.angVel = b.angVel.Add(j.Mul(1 / b.mass))
	b.awake = true
}

func (b *Body) WakeUp() { b.awake = true }

// Teleport places the body at rest, as a pool does when reusing it.
func (b *Body) Teleport(pose spatial.Transform) {
	b.pos = pose.Position
	b.rot = pose.Rotation.Normalize()
	b.vel = spatial.Vec3{}
	b.angVel = spatial.Vec3{}
	b.pending = nil
	b.awake = true
}

func (b *Body) step(dt float64, w WorldConfig) {
	if b.pending != nil {
		b.pos = *b.pending
		b.pending = nil
		return
	}
	if b.kinematic || !b.awake {
		return
	}
	if b.gravity {
		b.vel[1] += w.Gravity * dt
	}
	b.vel = b.freeze(b.vel, object.FreezePositionX, object.FreezePositionY, object.FreezePositionZ)
	b.vel = b.vel.Mul(math.Max(0, 1-w.LinearDamping*dt))
	b.pos = b.pos.Add(b.vel.Mul(dt))

	floor := w.FloorHeight + b.halfHeight
	if b.pos[1] < floor {
		b.pos[1] = floor
		if b.vel[1] < 0 {
			b.vel[1] = 0
		}
		slow := math.Max(0, 1-w.Friction*dt)
		b.vel[0] *= slow
		b.vel[2] *= slow
	}

	b.angVel = b.freeze(b.angVel, object.FreezeRotationX, object.FreezeRotationY, object.FreezeRotationZ)
	b.angVel = b.angVel.Mul(math.Max(0, 1-w.AngularDamping*dt))
	if speed := b.angVel.Len(); speed > 1e-9 {
		turn := spatial.AngleAxis(speed*dt*180/math.Pi, b.angVel)
		b.rot = turn.Mul(b.rot).Normalize()
	}

	if b.vel.Len() < w.SleepSpeed && b.angVel.Len() < w.SleepSpeed && b.pos[1] <= floor+1e-9 {
		b.vel, b.angVel = spatial.Vec3{}, spatial.Vec3{}
		b.awake = false
	}
}

func (b *Body) freeze(v spatial.Vec3, x, y, z object.Constraints) spatial.Vec3 {
	for i, c := range [3]object.Constraints{x, y, z} {
		if b.constraints&c != 0 {
			v[i] = 0
		}
	}
	return v
}
