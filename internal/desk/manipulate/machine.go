// Package manipulate holds, moves, rotates and inspects one desk object at a
// time.
package manipulate

import (
	"errors"
	"fmt"

	"github.com/zeusync/deskcheck/internal/core/events/bus"
	"github.com/zeusync/deskcheck/internal/core/observability/log"
	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/desk/cursor"
	"github.com/zeusync/deskcheck/internal/desk/input"
	"github.com/zeusync/deskcheck/internal/desk/object"
)

var (
	ErrNotIdle         = errors.New("manipulation machine is not idle")
	ErrObjectHeld      = errors.New("object is held by another holder")
	ErrNoCandidate     = errors.New("no object to grab")
	ErrNotHolding      = errors.New("nothing is held")
	ErrDropFromInspect = errors.New("drop is disabled while inspecting")
)

type State uint8

const (
	StateIdle State = iota
	StateHeld
	StateInspect
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHeld:
		return "held"
	case StateInspect:
		return "inspect"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Events published on TopicDesk. The payload is a Change.
const (
	TopicDesk       = "desk"
	EventGrabbed    = "manipulate.grabbed"
	EventDropped    = "manipulate.dropped"
	EventInspect    = "manipulate.inspect"
	EventHeldOnDesk = "manipulate.held"
)

// Change describes a state transition of the machine.
type Change struct {
	ObjectID string `json:"object_id"`
	State    string `json:"state"`
}

// RayCaster maps a pointer position to a world ray.
type RayCaster interface {
	Ray(pointer spatial.Vec2) (spatial.Ray, bool)
}

// session is the state of one hold, from Grab to Drop.
type session struct {
	obj        *object.Object
	snapshot   object.PhysicsSnapshot
	suspended  bool
	baseRot    spatial.Quat
	yaw        float64
	inspectRot spatial.Quat
	deskTarget spatial.Vec3
	target     spatial.Vec3
	zoom       Zoom
}

// Machine is the manipulation state machine. Update runs on the variable
// tick and FixedUpdate on the fixed tick, both from the same goroutine.
// While an object is held its rigid body flags belong to the machine.
type Machine struct {
	cfg    Config
	camera *spatial.Camera
	rays   RayCaster
	cursor cursor.Cursor
	events bus.EventBus
	log    log.Log

	state State
	s     *session
	desk  spatial.Plane
}

type Option func(*Machine)

func WithCursor(c cursor.Cursor) Option { return func(m *Machine) { m.cursor = c } }
func WithEvents(b bus.EventBus) Option  { return func(m *Machine) { m.events = b } }
func WithLogger(l log.Log) Option       { return func(m *Machine) { m.log = l } }

// New creates an idle machine. camera positions inspected objects and rays
// projects the pointer onto the desk while holding.
func New(cfg Config, camera *spatial.Camera, rays RayCaster, opts ...Option) *Machine {
	m := &Machine{
		cfg:    cfg,
		camera: camera,
		rays:   rays,
		desk:   spatial.HorizontalPlane(cfg.DeskHeight),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cursor = cursor.OrNop(m.cursor)
	m.log = log.OrNop(m.log).Named("manipulate")
	return m
}

func (m *Machine) State() State { return m.state }

// Held returns the held object, or nil when idle.
func (m *Machine) Held() *object.Object {
	if m.s == nil {
		return nil
	}
	return m.s.obj
}

// Target is the current follow target. It is the zero vector when idle.
func (m *Machine) Target() spatial.Vec3 {
	if m.s == nil {
		return spatial.Vec3{}
	}
	return m.s.target
}

// Zoom is the inspect zoom of the current hold.
func (m *Machine) Zoom() Zoom {
	if m.s == nil {
		return Zoom{}
	}
	return m.s.zoom
}

// Grab takes hold of o and suspends its physics.
func (m *Machine) Grab(o *object.Object) error {
	if m.state != StateIdle {
		return ErrNotIdle
	}
	if o == nil {
		return ErrNoCandidate
	}
	if err := o.BeginHold(); err != nil {
		return fmt.Errorf("%w: %w", ErrObjectHeld, err)
	}

	pos := o.Position()
	s := &session{
		obj:        o,
		baseRot:    o.Rotation(),
		inspectRot: o.Rotation(),
		deskTarget: spatial.Vec3{pos.X(), m.cfg.DeskHeight + m.cfg.FloatHeight, pos.Z()},
	}
	s.target = s.deskTarget
	if body := o.Body(); body != nil {
		s.snapshot = object.Suspend(body, m.cfg.Hold)
		s.suspended = true
	}
	m.s = s
	m.state = StateHeld
	m.cursor.SetHold()
	m.log.Debug("grab", log.String("object", o.Name()), log.Bool("body", s.suspended))
	m.publish(EventGrabbed)
	return nil
}

// Drop releases the held object and restores its physics. From Inspect it
// is refused unless DropFromInspect is set.
func (m *Machine) Drop() error {
	switch m.state {
	case StateIdle:
		return ErrNotHolding
	case StateInspect:
		if !m.cfg.DropFromInspect {
			return ErrDropFromInspect
		}
	}
	m.release()
	return nil
}

// Release drops o from any sub-state if it is the held object. It is how
// other components take an object away from the player.
func (m *Machine) Release(o *object.Object) {
	if m.s == nil || m.s.obj != o {
		return
	}
	m.release()
}

func (m *Machine) release() {
	s := m.s
	if s.suspended {
		s.snapshot.Restore(s.obj.Body())
	}
	s.obj.EndHold()
	m.s = nil
	m.state = StateIdle
	m.cursor.SetDefault()
	m.log.Debug("drop", log.String("object", s.obj.Name()))
	m.publishFor(EventDropped, s.obj)
}

// ToggleInspect switches between Held and Inspect. Each switch reseeds the
// rotation it hands over so the object does not snap.
func (m *Machine) ToggleInspect() error {
	switch m.state {
	case StateHeld:
		m.s.inspectRot = m.s.obj.Rotation()
		m.s.zoom = NewZoom(m.cfg.Inspect, m.s.obj.Size())
		m.s.target = m.inspectTarget()
		m.state = StateInspect
		m.cursor.SetInspect()
		m.publish(EventInspect)
	case StateInspect:
		m.s.baseRot = m.s.obj.Rotation()
		m.s.yaw = 0
		m.s.target = m.s.deskTarget
		m.state = StateHeld
		m.cursor.SetHold()
		m.publish(EventHeldOnDesk)
	default:
		return ErrNotHolding
	}
	m.log.Debug("toggle", log.Stringer("state", m.state))
	return nil
}

// Update applies one variable tick of input to the held object. Idle
// machines ignore it; grabbing is driven by the caller through Grab.
func (m *Machine) Update(dt float64, f input.Frame) {
	switch m.state {
	case StateHeld:
		m.updateHeld(dt, f)
	case StateInspect:
		m.updateInspect(dt, f)
	}
}

func (m *Machine) dropPressed(f input.Frame) bool {
	if m.cfg.DropButton == DropPrimary {
		return f.Primary.Pressed
	}
	return f.Secondary.Pressed
}

func (m *Machine) updateHeld(dt float64, f input.Frame) {
	if f.ToggleInspect {
		_ = m.ToggleInspect()
		return
	}
	if m.dropPressed(f) {
		_ = m.Drop()
		return
	}

	s := m.s
	s.yaw += f.YawAxis() * m.cfg.RotateSpeed * dt
	if m.rays != nil {
		if ray, ok := m.rays.Ray(f.Pointer); ok {
			if t, hit := m.desk.Raycast(ray); hit {
				p := ray.At(t)
				s.deskTarget = spatial.Vec3{p.X(), m.cfg.DeskHeight + m.cfg.FloatHeight, p.Z()}
			}
		}
	}
	s.target = s.deskTarget

	rot := s.baseRot.Mul(spatial.AngleAxis(s.yaw, spatial.Up))
	m.follow(dt, rot, m.cfg.FollowRate, m.cfg.FollowRate)
}

func (m *Machine) updateInspect(dt float64, f input.Frame) {
	if f.ToggleInspect {
		_ = m.ToggleInspect()
		return
	}
	if m.dropPressed(f) && m.cfg.DropFromInspect {
		_ = m.Drop()
		return
	}

	s := m.s
	speed := m.cfg.Inspect.RotateSpeed * dt
	yaw := spatial.AngleAxis(f.YawAxis()*speed, spatial.Up)
	pitch := spatial.AngleAxis(f.PitchAxis()*speed, spatial.Right)
	s.inspectRot = yaw.Mul(pitch).Mul(s.inspectRot).Normalize()

	if m.cfg.Inspect.Zoom && f.Scroll != 0 {
		s.zoom = s.zoom.Scroll(f.Scroll, m.cfg.Inspect.ZoomStep)
	}
	s.target = m.inspectTarget()
	m.follow(dt, s.inspectRot, m.cfg.Inspect.PositionRate, m.cfg.Inspect.RotationRate)
}

func (m *Machine) inspectTarget() spatial.Vec3 {
	if m.camera == nil {
		return m.s.target
	}
	pose := m.camera.Pose()
	return pose.Position.
		Add(pose.Forward().Mul(m.s.zoom.Distance)).
		Add(pose.TransformVector(m.cfg.Inspect.Anchor))
}

// follow smooths rotation toward rot. Objects without a body also move on
// the variable tick; bodies move in FixedUpdate.
func (m *Machine) follow(dt float64, rot spatial.Quat, posRate, rotRate float64) {
	o := m.s.obj
	o.SetRotation(m.cfg.Smoothing.FollowRotation(o.Rotation(), rot, rotRate, dt))
	if o.Body() == nil {
		o.SetPosition(m.cfg.Smoothing.Follow(o.Position(), m.s.target, posRate, dt))
	}
}

// FixedUpdate moves the held body toward the follow target.
func (m *Machine) FixedUpdate(dt float64) {
	if m.s == nil {
		return
	}
	body := m.s.obj.Body()
	if body == nil {
		return
	}
	rate := m.cfg.FollowRate
	if m.state == StateInspect {
		rate = m.cfg.Inspect.PositionRate
	}
	body.MovePosition(m.cfg.Smoothing.Follow(body.Position(), m.s.target, rate, dt))
	body.SetAngularVelocity(spatial.Vec3{})
}

func (m *Machine) publish(typ string) {
	m.publishFor(typ, m.s.obj)
}

func (m *Machine) publishFor(typ string, o *object.Object) {
	if m.events == nil {
		return
	}
	ev := bus.NewEvent(typ, o.ID(), Change{ObjectID: o.ID(), State: m.state.String()})
	if err := m.events.PublishToTopic(TopicDesk, ev); err != nil {
		m.log.Warn("publish failed", log.String("type", typ), log.Error(err))
	}
}
