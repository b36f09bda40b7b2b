package round

import (
	"errors"
	"fmt"

	"github.com/zeusync/deskcheck/internal/core/spatial"
)

// Route picks the resolution presentation for a decision.
type Route string

const (
	// RouteOutcome plays Success for a correct decision and Fail for a mistake.
	RouteOutcome Route = "outcome"
	// RoutePolarity plays Success for accept and Fail for reject.
	RoutePolarity Route = "polarity"
)

type Config struct {
	// MountPosition and MountEuler (pitch, yaw, roll in degrees) place the
	// spawn point. Eject impulses are relative to its forward axis.
	MountPosition spatial.Vec3 `yaml:"mount_position"`
	MountEuler    spatial.Vec3 `yaml:"mount_euler"`

	EjectForward float64 `yaml:"eject_forward"`
	EjectUp      float64 `yaml:"eject_up"`
	EjectSpin    float64 `yaml:"eject_spin"`

	Route Route `yaml:"route"`
}

func DefaultConfig() Config {
	return Config{
		MountPosition: spatial.Vec3{0, 0.85, 0.6},
		MountEuler:    spatial.Vec3{0, 180, 0},
		EjectForward:  1.5,
		EjectUp:       0.3,
		Route:         RouteOutcome,
	}
}

// Mount returns the spawn transform.
func (c Config) Mount() spatial.Transform {
	return spatial.NewTransform(c.MountPosition, spatial.Euler(c.MountEuler[0], c.MountEuler[1], c.MountEuler[2]))
}

func (c Config) Validate() error {
	var errs []error
	switch c.Route {
	case RouteOutcome, RoutePolarity:
	default:
		errs = append(errs, fmt.Errorf("round: unknown route %q", string(c.Route)))
	}
	if c.EjectForward < 0 || c.EjectUp < 0 {
		errs = append(errs, errors.New("round: eject impulses must be non-negative"))
	}
	return errors.Join(errs...)
}
