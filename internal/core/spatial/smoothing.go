package spatial

import (
	"fmt"
	"math"
)

// Smoothing selects how a per-second rate becomes a per-tick blend factor.
type Smoothing string

const (
	// SmoothingDecay blends by 1-exp(-rate*dt); convergence speed does not
	// depend on the frame rate.
	SmoothingDecay Smoothing = "decay"
	// SmoothingFraction blends by clamp(rate*dt, 0, 1), which converges faster
	// at lower frame rates. Kept for parity with the original feel.
	SmoothingFraction Smoothing = "fraction"
)

func (s Smoothing) Validate() error {
	switch s {
	case SmoothingDecay, SmoothingFraction:
		return nil
	default:
		return fmt.Errorf("unknown smoothing %q", string(s))
	}
}

// Alpha returns the blend factor in [0, 1] for a tick of dt seconds.
func (s Smoothing) Alpha(rate, dt float64) float64 {
	if rate <= 0 || dt <= 0 {
		return 0
	}
	if s == SmoothingFraction {
		return Clamp(rate*dt, 0, 1)
	}
	return 1 - math.Exp(-rate*dt)
}

// Follow moves current toward target by one tick of smoothing.
func (s Smoothing) Follow(current, target Vec3, rate, dt float64) Vec3 {
	return Lerp(current, target, s.Alpha(rate, dt))
}

// FollowRotation turns current toward target by one tick of smoothing.
func (s Smoothing) FollowRotation(current, target Quat, rate, dt float64) Quat {
	return Slerp(current, target, s.Alpha(rate, dt))
}
