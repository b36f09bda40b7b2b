package desk

import (
	"errors"
	"fmt"

	"github.com/zeusync/deskcheck/internal/core/spatial"
)

// CameraConfig places the desk camera and sizes its render surface.
type CameraConfig struct {
	Position spatial.Vec3 `yaml:"position"`
	// Euler is pitch, yaw and roll in degrees. Positive pitch looks down.
	Euler  spatial.Vec3 `yaml:"euler"`
	FovY   float64      `yaml:"fov_y"`
	Width  float64      `yaml:"width"`
	Height float64      `yaml:"height"`
}

// Camera builds a camera at the configured pose.
func (c CameraConfig) Camera() *spatial.Camera {
	return &spatial.Camera{
		Transform: spatial.NewTransform(c.Position, spatial.Euler(c.Euler[0], c.Euler[1], c.Euler[2])),
		FovY:      c.FovY,
		Width:     c.Width,
		Height:    c.Height,
	}
}

// Placement is a static box on the desk: a center and half extents.
type Placement struct {
	Position spatial.Vec3 `yaml:"position"`
	Extents  spatial.Vec3 `yaml:"extents"`
}

func (p Placement) Transform() spatial.Transform {
	return spatial.NewTransform(p.Position, spatial.Identity())
}

func (p Placement) Box() spatial.Box {
	return spatial.Box{Center: p.Position, Extents: p.Extents}
}

// Presentations holds the length in seconds of each round timeline.
type Presentations struct {
	Entry   float64 `yaml:"entry"`
	Success float64 `yaml:"success"`
	Fail    float64 `yaml:"fail"`
}

// Layout is the physical arrangement of the desk scene.
type Layout struct {
	Camera        CameraConfig  `yaml:"camera"`
	Accept        Placement     `yaml:"accept"`
	Reject        Placement     `yaml:"reject"`
	Presentations Presentations `yaml:"presentations"`
}

func DefaultLayout() Layout {
	button := spatial.Vec3{0.04, 0.01, 0.04}
	return Layout{
		Camera: CameraConfig{
			Position: spatial.Vec3{0, 1.2, -0.3},
			Euler:    spatial.Vec3{45, 0, 0},
			FovY:     60,
			Width:    320,
			Height:   240,
		},
		Accept:        Placement{Position: spatial.Vec3{-0.2, 0.76, 0.1}, Extents: button},
		Reject:        Placement{Position: spatial.Vec3{0.2, 0.76, 0.1}, Extents: button},
		Presentations: Presentations{Entry: 1, Success: 1.5, Fail: 1.5},
	}
}

func (l Layout) Validate() error {
	var errs []error
	if l.Camera.FovY <= 0 || l.Camera.FovY >= 180 {
		errs = append(errs, fmt.Errorf("desk: camera fov must be in (0, 180), got %v", l.Camera.FovY))
	}
	if l.Camera.Width <= 0 || l.Camera.Height <= 0 {
		errs = append(errs, errors.New("desk: camera surface must have a positive size"))
	}
	if !positive(l.Accept.Extents) {
		errs = append(errs, errors.New("desk: accept button extents must be positive"))
	}
	if !positive(l.Reject.Extents) {
		errs = append(errs, errors.New("desk: reject button extents must be positive"))
	}
	pr := l.Presentations
	if pr.Entry < 0 || pr.Success < 0 || pr.Fail < 0 {
		errs = append(errs, errors.New("desk: presentation lengths must be non-negative"))
	}
	return errors.Join(errs...)
}

func positive(v spatial.Vec3) bool {
	return v.X() > 0 && v.Y() > 0 && v.Z() > 0
}
