// Package input describes one sampled frame of player input, independent of
// the window system that produced it.
package input

import "github.com/zeusync/deskcheck/internal/core/spatial"

// ButtonState holds the level and edges of a button for one frame.
type ButtonState struct {
	Down     bool // held this frame
	Pressed  bool // went down this frame
	Released bool // went up this frame
}

// Frame is the input sampled at the start of a variable tick.
type Frame struct {
	Pointer   spatial.Vec2 // window pixels, top-left origin
	LookDelta spatial.Vec2 // pointer movement since the last frame

	Primary   ButtonState
	Secondary ButtonState

	YawLeft   bool
	YawRight  bool
	PitchUp   bool
	PitchDown bool

	ToggleInspect bool // edge
	Scroll        float64
}

// YawAxis folds the two yaw keys into -1, 0 or 1.
func (f Frame) YawAxis() float64 {
	return axis(f.YawLeft, f.YawRight)
}

// PitchAxis folds the two pitch keys into -1, 0 or 1.
func (f Frame) PitchAxis() float64 {
	return axis(f.PitchDown, f.PitchUp)
}

func axis(neg, pos bool) float64 {
	v := 0.0
	if neg {
		v--
	}
	if pos {
		v++
	}
	return v
}

// Source yields the current frame. Implementations are polled once per
// variable tick.
type Source interface {
	Frame() Frame
}

// SourceFunc adapts a function to Source.
type SourceFunc func() Frame

func (f SourceFunc) Frame() Frame { return f() }
