// Package look turns the desk camera within fixed limits while the look
// button is held.
package look

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/desk/input"
)

type Config struct {
	// Sensitivity is degrees per pixel of pointer movement.
	Sensitivity float64 `yaml:"sensitivity"`
	// YawLimit bounds yaw to this many degrees either side of the start.
	YawLimit float64 `yaml:"yaw_limit"`
	MinPitch float64 `yaml:"min_pitch"`
	MaxPitch float64 `yaml:"max_pitch"`
}

func DefaultConfig() Config {
	return Config{Sensitivity: 0.08, YawLimit: 60, MinPitch: -30, MaxPitch: 30}
}

func (c Config) Validate() error {
	var errs []error
	if c.Sensitivity < 0 {
		errs = append(errs, errors.New("look: sensitivity must be non-negative"))
	}
	if c.YawLimit < 0 {
		errs = append(errs, errors.New("look: yaw limit must be non-negative"))
	}
	if c.MinPitch > c.MaxPitch {
		errs = append(errs, errors.New("look: min pitch above max pitch"))
	}
	return errors.Join(errs...)
}

// Controller owns the rotation of a camera. Positive pitch looks down.
type Controller struct {
	cfg    Config
	camera *spatial.Camera
	center float64
	yaw    float64
	pitch  float64
}

// New reads the starting yaw and pitch from the camera's forward axis. The
// starting yaw becomes the center of the yaw range.
func New(cfg Config, camera *spatial.Camera) *Controller {
	fwd := camera.Forward()
	yaw := mgl64.RadToDeg(math.Atan2(fwd.X(), fwd.Z()))
	pitch := mgl64.RadToDeg(math.Asin(spatial.Clamp(-fwd.Y(), -1, 1)))
	return &Controller{cfg: cfg, camera: camera, center: yaw, yaw: yaw, pitch: pitch}
}

func (c *Controller) Yaw() float64   { return c.yaw }
func (c *Controller) Pitch() float64 { return c.pitch }

// Update turns the camera by the frame's pointer delta while the secondary
// button is held. It does nothing while busy, which the desk sets whenever
// an object is held.
func (c *Controller) Update(f input.Frame, busy bool) {
	if busy || !f.Secondary.Down {
		return
	}
	if f.LookDelta == (spatial.Vec2{}) {
		return
	}
	c.yaw += f.LookDelta.X() * c.cfg.Sensitivity
	c.pitch += f.LookDelta.Y() * c.cfg.Sensitivity
	c.yaw = spatial.Clamp(c.yaw, c.center-c.cfg.YawLimit, c.center+c.cfg.YawLimit)
	c.pitch = spatial.Clamp(c.pitch, c.cfg.MinPitch, c.cfg.MaxPitch)
	c.camera.Rotation = spatial.Euler(c.pitch, c.yaw, 0)
}
