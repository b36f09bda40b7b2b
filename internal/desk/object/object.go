// Package object models the pickable things on the desk.
package object

import (
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/zeusync/deskcheck/internal/core/spatial"
)

var ErrAlreadyHeld = errors.New("object is already held")

// Highlighter shows or hides the hover indicator of an object.
type Highlighter interface {
	Highlight(on bool)
}

// Object is a manipulable desk item. When it has a rigid body, the body is
// the authority for its pose.
type Object struct {
	id        string
	name      string
	pose      spatial.Transform
	size      float64
	body      RigidBody
	valid     bool
	held      bool
	hovered   bool
	highlight Highlighter
}

type Option func(*Object)

func WithID(id string) Option     { return func(o *Object) { o.id = id } }
func WithName(name string) Option { return func(o *Object) { o.name = name } }

func WithPose(t spatial.Transform) Option { return func(o *Object) { o.pose = t } }

// WithSize sets the approximate size directly.
func WithSize(size float64) Option { return func(o *Object) { o.size = size } }

// WithBounds derives the approximate size from the given boxes.
func WithBounds(boxes ...spatial.Box) Option {
	return func(o *Object) { o.size = SizeFromBounds(boxes...) }
}

func WithBody(b RigidBody) Option          { return func(o *Object) { o.body = b } }
func WithValidity(valid bool) Option       { return func(o *Object) { o.valid = valid } }
func WithHighlighter(h Highlighter) Option { return func(o *Object) { o.highlight = h } }

// New creates an object. Unless overridden it gets a random id, identity
// rotation, size 1 and is valid.
func New(opts ...Option) *Object {
	o := &Object{
		id:    uuid.NewString(),
		pose:  spatial.NewTransform(spatial.Vec3{}, spatial.Identity()),
		size:  1,
		valid: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.name == "" {
		o.name = o.id
	}
	return o
}

// SizeFromBounds returns the magnitude of the extents of the union of boxes,
// or 1 when there are none.
func SizeFromBounds(boxes ...spatial.Box) float64 {
	if len(boxes) == 0 {
		return 1
	}
	b := boxes[0]
	for _, o := range boxes[1:] {
		b = b.Encapsulate(o)
	}
	return b.Extents.Len()
}

func (o *Object) ID() string   { return o.id }
func (o *Object) Name() string { return o.name }

// Size is the approximate size, never below a tiny positive floor.
func (o *Object) Size() float64 { return math.Max(o.size, 1e-4) }

func (o *Object) Body() RigidBody { return o.body }

// Valid is the hidden validity flag of the trial this object represents.
func (o *Object) Valid() bool { return o.valid }

func (o *Object) Position() spatial.Vec3 {
	if o.body != nil {
		return o.body.Position()
	}
	return o.pose.Position
}

// SetPosition moves the visual transform. Objects with a body move through
// the body on the fixed tick instead.
func (o *Object) SetPosition(p spatial.Vec3) {
	o.pose.Position = p
}

func (o *Object) Rotation() spatial.Quat {
	if o.body != nil {
		return o.body.Rotation()
	}
	return o.pose.Rotation
}

func (o *Object) SetRotation(q spatial.Quat) {
	q = q.Normalize()
	o.pose.Rotation = q
	if o.body != nil {
		o.body.SetRotation(q)
	}
}

func (o *Object) Transform() spatial.Transform {
	return spatial.Transform{Position: o.Position(), Rotation: o.Rotation()}
}

func (o *Object) Held() bool    { return o.held }
func (o *Object) Hovered() bool { return o.hovered }

// HoverEnter turns the hover indicator on. Held objects do not highlight.
func (o *Object) HoverEnter() {
	if o.held || o.hovered {
		return
	}
	o.hovered = true
	if o.highlight != nil {
		o.highlight.Highlight(true)
	}
}

// HoverExit turns the hover indicator off.
func (o *Object) HoverExit() {
	if !o.hovered {
		return
	}
	o.hovered = false
	if o.highlight != nil {
		o.highlight.Highlight(false)
	}
}

// BeginHold marks the object held. Only one holder may own it at a time.
func (o *Object) BeginHold() error {
	if o.held {
		return ErrAlreadyHeld
	}
	o.HoverExit()
	o.held = true
	return nil
}

// EndHold clears the held flag.
func (o *Object) EndHold() {
	o.held = false
}
