package input

import "github.com/zeusync/deskcheck/internal/core/spatial"

// Script replays queued frames one per poll. When the queue is empty it keeps
// returning an idle frame at the last pointer position.
type Script struct {
	queue []Frame
	last  spatial.Vec2
}

func NewScript(frames ...Frame) *Script {
	return &Script{queue: frames}
}

// Push appends frames to the queue.
func (s *Script) Push(frames ...Frame) *Script {
	s.queue = append(s.queue, frames...)
	return s
}

// Pending is the number of frames not yet replayed.
func (s *Script) Pending() int { return len(s.queue) }

// Last is the pointer position of the most recently replayed frame.
func (s *Script) Last() spatial.Vec2 { return s.last }

func (s *Script) Frame() Frame {
	if len(s.queue) == 0 {
		return Frame{Pointer: s.last}
	}
	f := s.queue[0]
	s.queue = s.queue[1:]
	s.last = f.Pointer
	return f
}

// Point is an idle frame with the pointer at p.
func Point(p spatial.Vec2) Frame { return Frame{Pointer: p} }

// Click is a frame with a primary press at p.
func Click(p spatial.Vec2) Frame {
	return Frame{Pointer: p, Primary: ButtonState{Down: true, Pressed: true}}
}

// RightClick is a frame with a secondary press at p.
func RightClick(p spatial.Vec2) Frame {
	return Frame{Pointer: p, Secondary: ButtonState{Down: true, Pressed: true}}
}

// Toggle is a frame with the inspect toggle pressed at p.
func Toggle(p spatial.Vec2) Frame { return Frame{Pointer: p, ToggleInspect: true} }
