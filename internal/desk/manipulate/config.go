package manipulate

import (
	"errors"
	"fmt"

	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/desk/object"
)

// DropButton selects which pointer button releases a held object.
type DropButton string

const (
	DropSecondary DropButton = "secondary"
	DropPrimary   DropButton = "primary"
)

type Config struct {
	DeskHeight  float64 `yaml:"desk_height"`
	FloatHeight float64 `yaml:"float_height"`

	Smoothing  spatial.Smoothing `yaml:"smoothing"`
	FollowRate float64           `yaml:"follow_rate"`
	// RotateSpeed is the yaw speed on the desk in degrees per second.
	RotateSpeed float64 `yaml:"rotate_speed"`

	Hold            object.HoldMode `yaml:"hold_mode"`
	DropButton      DropButton      `yaml:"drop_button"`
	DropFromInspect bool            `yaml:"drop_from_inspect"`

	Inspect InspectConfig `yaml:"inspect"`
}

type InspectConfig struct {
	// Distance from the camera when zoom is disabled.
	Distance float64 `yaml:"distance"`
	// Anchor is an offset in camera space added to the inspect position.
	Anchor       spatial.Vec3 `yaml:"anchor"`
	PositionRate float64      `yaml:"position_rate"`
	RotationRate float64      `yaml:"rotation_rate"`
	RotateSpeed  float64      `yaml:"rotate_speed"`

	Zoom     bool    `yaml:"zoom"`
	MinK     float64 `yaml:"min_k"`
	MaxK     float64 `yaml:"max_k"`
	DefaultK float64 `yaml:"default_k"`
	ZoomStep float64 `yaml:"zoom_step"`
}

func DefaultConfig() Config {
	return Config{
		DeskHeight:  0.75,
		FloatHeight: 0.08,
		Smoothing:   spatial.SmoothingDecay,
		FollowRate:  18,
		RotateSpeed: 120,
		Hold:        object.HoldConstrained,
		DropButton:  DropSecondary,
		Inspect: InspectConfig{
			Distance:     0.5,
			PositionRate: 18,
			RotationRate: 14,
			RotateSpeed:  120,
			Zoom:         true,
			MinK:         0.5,
			MaxK:         5,
			DefaultK:     2,
			ZoomStep:     0.5,
		},
	}
}

func (c Config) Validate() error {
	var errs []error
	if err := c.Smoothing.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Hold.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.DropButton {
	case DropSecondary, DropPrimary:
	default:
		errs = append(errs, fmt.Errorf("manipulate: unknown drop button %q", string(c.DropButton)))
	}
	if c.FollowRate <= 0 || c.Inspect.PositionRate <= 0 || c.Inspect.RotationRate <= 0 {
		errs = append(errs, errors.New("manipulate: smoothing rates must be positive"))
	}
	if c.RotateSpeed < 0 || c.Inspect.RotateSpeed < 0 {
		errs = append(errs, errors.New("manipulate: rotate speeds must be non-negative"))
	}
	if c.Inspect.Distance <= 0 {
		errs = append(errs, fmt.Errorf("manipulate: inspect distance must be positive, got %v", c.Inspect.Distance))
	}
	if c.Inspect.Zoom {
		if c.Inspect.MinK <= 0 || c.Inspect.MaxK < c.Inspect.MinK {
			errs = append(errs, fmt.Errorf("manipulate: zoom multipliers need 0 < min_k <= max_k, got %v and %v",
				c.Inspect.MinK, c.Inspect.MaxK))
		}
		if c.Inspect.ZoomStep < 0 {
			errs = append(errs, errors.New("manipulate: zoom step must be non-negative"))
		}
	}
	return errors.Join(errs...)
}
