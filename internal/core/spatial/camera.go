package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rect is a screen-space rectangle with a top-left origin.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside the rectangle, edges included.
func (r Rect) Contains(p Vec2) bool {
	return p[0] >= r.X && p[0] <= r.X+r.W && p[1] >= r.Y && p[1] <= r.Y+r.H
}

// Camera is a pinhole camera rendering into a Width x Height pixel surface.
// Pixel coordinates have a top-left origin with y growing downward.
type Camera struct {
	Transform
	FovY   float64 // vertical field of view, degrees
	Width  float64
	Height float64
}

func (c *Camera) tanHalf() float64 {
	return math.Tan(mgl64.DegToRad(c.FovY) / 2)
}

func (c *Camera) aspect() float64 {
	if c.Height == 0 {
		return 1
	}
	return c.Width / c.Height
}

// Pose returns the camera transform.
func (c *Camera) Pose() Transform { return c.Transform }

// ScreenPointToRay casts a world-space ray through pixel p.
func (c *Camera) ScreenPointToRay(p Vec2) Ray {
	ndcX := 2*p[0]/c.Width - 1
	ndcY := 1 - 2*p[1]/c.Height
	th := c.tanHalf()
	local := Vec3{ndcX * th * c.aspect(), ndcY * th, 1}
	return NewRay(c.Position, c.Rotation.Rotate(local))
}

// WorldToScreen projects a world point to pixel coordinates. It fails for points
// at or behind the camera plane.
func (c *Camera) WorldToScreen(p Vec3) (Vec2, bool) {
	local := c.Rotation.Conjugate().Rotate(p.Sub(c.Position))
	if local[2] <= epsilon {
		return Vec2{}, false
	}
	th := c.tanHalf()
	ndcX := local[0] / (local[2] * th * c.aspect())
	ndcY := local[1] / (local[2] * th)
	return Vec2{(ndcX + 1) * c.Width / 2, (1 - ndcY) * c.Height / 2}, true
}

// Inset describes a low-resolution render surface shown inside a larger
// window: the surface is Width x Height pixels and is displayed in Display.
type Inset struct {
	Display Rect
	Width   float64
	Height  float64
}

// Remap converts a window-space pointer position into inset pixel space. It
// fails when the pointer is outside the display rectangle.
func (in Inset) Remap(p Vec2) (Vec2, bool) {
	if in.Display.W <= 0 || in.Display.H <= 0 || !in.Display.Contains(p) {
		return Vec2{}, false
	}
	u := (p[0] - in.Display.X) / in.Display.W * in.Width
	v := (p[1] - in.Display.Y) / in.Display.H * in.Height
	return Vec2{u, v}, true
}

// Unmap is the inverse of Remap.
func (in Inset) Unmap(p Vec2) Vec2 {
	return Vec2{
		in.Display.X + p[0]/in.Width*in.Display.W,
		in.Display.Y + p[1]/in.Height*in.Display.H,
	}
}
