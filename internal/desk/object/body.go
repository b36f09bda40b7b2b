package object

import (
	"fmt"

	"github.com/zeusync/deskcheck/internal/core/spatial"
)

// Constraints freezes rigid-body axes, mirroring engine constraint flags.
type Constraints uint8

const (
	FreezePositionX Constraints = 1 << iota
	FreezePositionY
	FreezePositionZ
	FreezeRotationX
	FreezeRotationY
	FreezeRotationZ

	ConstraintsNone Constraints = 0
	FreezePosition              = FreezePositionX | FreezePositionY | FreezePositionZ
	FreezeRotation              = FreezeRotationX | FreezeRotationY | FreezeRotationZ
	FreezeAll                   = FreezePosition | FreezeRotation
)

// RigidBody is the part of a physics engine body the desk touches. The desk
// never simulates; it only toggles flags, moves kinematically and applies
// impulses.
type RigidBody interface {
	Position() spatial.Vec3
	// MovePosition moves the body during the next fixed step.
	MovePosition(p spatial.Vec3)
	Rotation() spatial.Quat
	SetRotation(q spatial.Quat)

	UseGravity() bool
	SetUseGravity(bool)
	IsKinematic() bool
	SetKinematic(bool)
	Constraints() Constraints
	SetConstraints(Constraints)

	SetLinearVelocity(spatial.Vec3)
	SetAngularVelocity(spatial.Vec3)
	AddImpulse(spatial.Vec3)
	AddTorqueImpulse(spatial.Vec3)
	WakeUp()
}

// HoldMode selects how physics is suspended while an object is held.
type HoldMode string

const (
	// HoldConstrained turns gravity off and freezes rotation, leaving the body
	// dynamic so it still collides while following.
	HoldConstrained HoldMode = "constrained"
	// HoldKinematic turns gravity off and makes the body kinematic.
	HoldKinematic HoldMode = "kinematic"
)

func (m HoldMode) Validate() error {
	switch m {
	case HoldConstrained, HoldKinematic:
		return nil
	default:
		return fmt.Errorf("unknown hold mode %q", string(m))
	}
}

// PhysicsSnapshot records the flags a hold overrides.
type PhysicsSnapshot struct {
	UseGravity  bool
	Kinematic   bool
	Constraints Constraints
}

// Capture reads the current flags of b.
func Capture(b RigidBody) PhysicsSnapshot {
	return PhysicsSnapshot{
		UseGravity:  b.UseGravity(),
		Kinematic:   b.IsKinematic(),
		Constraints: b.Constraints(),
	}
}

// Suspend captures b, then stops it and puts it under desk control.
func Suspend(b RigidBody, mode HoldMode) PhysicsSnapshot {
	snap := Capture(b)
	b.SetUseGravity(false)
	b.SetLinearVelocity(spatial.Vec3{})
	b.SetAngularVelocity(spatial.Vec3{})
	switch mode {
	case HoldKinematic:
		b.SetKinematic(true)
	default:
		b.SetKinematic(false)
		b.SetConstraints(FreezeRotation)
	}
	return snap
}

// Restore writes the recorded flags back to b.
func (s PhysicsSnapshot) Restore(b RigidBody) {
	b.SetConstraints(s.Constraints)
	b.SetKinematic(s.Kinematic)
	b.SetUseGravity(s.UseGravity)
}
