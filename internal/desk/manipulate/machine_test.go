package manipulate_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/deskcheck/internal/core/events/bus"
	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/desk/input"
	"github.com/zeusync/deskcheck/internal/desk/manipulate"
	"github.com/zeusync/deskcheck/internal/desk/object"
)

type body struct {
	pos       spatial.Vec3
	rot       spatial.Quat
	gravity   bool
	kinematic bool
	cons      object.Constraints
	linVel    spatial.Vec3
	angVel    spatial.Vec3
	moves     int
}

func newBody(pos spatial.Vec3) *body {
	return &body{pos: pos, rot: spatial.Identity(), gravity: true, linVel: spatial.Vec3{1, 2, 3}, angVel: spatial.Vec3{4, 5, 6}}
}

func (b *body) Position() spatial.Vec3              { return b.pos }
func (b *body) MovePosition(p spatial.Vec3)         { b.pos = p; b.moves++ }
func (b *body) Rotation() spatial.Quat              { return b.rot }
func (b *body) SetRotation(q spatial.Quat)          { b.rot = q }
func (b *body) UseGravity() bool                    { return b.gravity }
func (b *body) SetUseGravity(v bool)                { b.gravity = v }
func (b *body) IsKinematic() bool                   { return b.kinematic }
func (b *body) SetKinematic(v bool)                 { b.kinematic = v }
func (b *body) Constraints() object.Constraints     { return b.cons }
func (b *body) SetConstraints(c object.Constraints) { b.cons = c }
func (b *body) SetLinearVelocity(v spatial.Vec3)    { b.linVel = v }
func (b *body) SetAngularVelocity(v spatial.Vec3)   { b.angVel = v }
func (b *body) AddImpulse(spatial.Vec3)             {}
func (b *body) AddTorqueImpulse(spatial.Vec3)       {}
func (b *body) WakeUp()                             {}

// rays returns the same ray for every pointer.
type rays struct {
	ray spatial.Ray
	ok  bool
}

func (r *rays) Ray(spatial.Vec2) (spatial.Ray, bool) { return r.ray, r.ok }

type cursorLog []string

func (c *cursorLog) SetDefault() { *c = append(*c, "default") }
func (c *cursorLog) SetHover()   { *c = append(*c, "hover") }
func (c *cursorLog) SetHold()    { *c = append(*c, "hold") }
func (c *cursorLog) SetInspect() { *c = append(*c, "inspect") }

func downAt(x, z float64) *rays {
	return &rays{ray: spatial.NewRay(spatial.Vec3{x, 3, z}, spatial.Vec3{0, -1, 0}), ok: true}
}

func testCamera() *spatial.Camera {
	return &spatial.Camera{
		Transform: spatial.NewTransform(spatial.Vec3{0, 1.2, -0.5}, spatial.Identity()),
		FovY:      60, Width: 320, Height: 240,
	}
}

// snapConfig makes every smoothing step land on its target.
func snapConfig() manipulate.Config {
	cfg := manipulate.DefaultConfig()
	cfg.Smoothing = spatial.SmoothingFraction
	cfg.FollowRate = 1
	cfg.RotateSpeed = 90
	cfg.Inspect.PositionRate = 1
	cfg.Inspect.RotationRate = 1
	cfg.Inspect.RotateSpeed = 90
	return cfg
}

func TestGrabDropRestoresPhysics(t *testing.T) {
	type flags struct {
		gravity   bool
		kinematic bool
		cons      object.Constraints
	}
	initial := []flags{
		{true, false, object.ConstraintsNone},
		{false, false, object.FreezePositionY},
		{true, true, object.FreezeRotationX | object.FreezePositionZ},
		{false, true, object.FreezeAll},
	}
	toggles := []int{0, 1, 2, 3}

	for _, mode := range []object.HoldMode{object.HoldConstrained, object.HoldKinematic} {
		for _, f := range initial {
			for _, n := range toggles {
				cfg := manipulate.DefaultConfig()
				cfg.Hold = mode
				cfg.DropFromInspect = true
				b := newBody(spatial.Vec3{0, 0.75, 0})
				b.gravity, b.kinematic, b.cons = f.gravity, f.kinematic, f.cons
				o := object.New(object.WithBody(b))
				m := manipulate.New(cfg, testCamera(), downAt(0, 0))

				require.NoError(t, m.Grab(o))
				for i := 0; i < n; i++ {
					require.NoError(t, m.ToggleInspect())
					m.Update(0.02, input.Frame{YawRight: true, PitchUp: true, Scroll: 1})
					m.FixedUpdate(0.02)
				}
				require.NoError(t, m.Drop())

				assert.Equal(t, f.gravity, b.gravity, "%s %+v toggles=%d", mode, f, n)
				assert.Equal(t, f.kinematic, b.kinematic, "%s %+v toggles=%d", mode, f, n)
				assert.Equal(t, f.cons, b.cons, "%s %+v toggles=%d", mode, f, n)
				assert.False(t, o.Held())
				assert.Equal(t, manipulate.StateIdle, m.State())
			}
		}
	}
}

func TestGrabSuspendsPhysics(t *testing.T) {
	t.Run("constrained", func(t *testing.T) {
		b := newBody(spatial.Vec3{})
		m := manipulate.New(manipulate.DefaultConfig(), testCamera(), nil)
		require.NoError(t, m.Grab(object.New(object.WithBody(b))))
		assert.False(t, b.gravity)
		assert.False(t, b.kinematic)
		assert.Equal(t, object.FreezeRotation, b.cons)
		assert.Equal(t, spatial.Vec3{}, b.linVel)
		assert.Equal(t, spatial.Vec3{}, b.angVel)
	})
	t.Run("kinematic", func(t *testing.T) {
		cfg := manipulate.DefaultConfig()
		cfg.Hold = object.HoldKinematic
		b := newBody(spatial.Vec3{})
		m := manipulate.New(cfg, testCamera(), nil)
		require.NoError(t, m.Grab(object.New(object.WithBody(b))))
		assert.False(t, b.gravity)
		assert.True(t, b.kinematic)
		assert.Equal(t, spatial.Vec3{}, b.linVel)
	})
}

func TestGrabRefusals(t *testing.T) {
	m := manipulate.New(manipulate.DefaultConfig(), testCamera(), nil)
	assert.ErrorIs(t, m.Grab(nil), manipulate.ErrNoCandidate)
	assert.Equal(t, manipulate.StateIdle, m.State())
	assert.Nil(t, m.Held())

	other := object.New()
	require.NoError(t, other.BeginHold())
	err := m.Grab(other)
	assert.ErrorIs(t, err, manipulate.ErrObjectHeld)
	assert.ErrorIs(t, err, object.ErrAlreadyHeld)
	assert.Equal(t, manipulate.StateIdle, m.State())

	first := object.New()
	require.NoError(t, m.Grab(first))
	assert.ErrorIs(t, m.Grab(object.New()), manipulate.ErrNotIdle)
	assert.Same(t, first, m.Held())
}

func TestDropFromInspectDisabled(t *testing.T) {
	b := newBody(spatial.Vec3{})
	o := object.New(object.WithBody(b))
	m := manipulate.New(manipulate.DefaultConfig(), testCamera(), downAt(0, 0))
	require.NoError(t, m.Grab(o))
	require.NoError(t, m.ToggleInspect())

	assert.ErrorIs(t, m.Drop(), manipulate.ErrDropFromInspect)
	m.Update(0.02, input.Frame{Secondary: input.ButtonState{Pressed: true, Down: true}})

	assert.Equal(t, manipulate.StateInspect, m.State())
	assert.Same(t, o, m.Held())
	assert.True(t, o.Held())
	assert.False(t, b.gravity, "physics stays suspended")
}

func TestDropFromInspectEnabled(t *testing.T) {
	cfg := manipulate.DefaultConfig()
	cfg.DropFromInspect = true
	b := newBody(spatial.Vec3{})
	o := object.New(object.WithBody(b))
	m := manipulate.New(cfg, testCamera(), downAt(0, 0))
	require.NoError(t, m.Grab(o))
	require.NoError(t, m.ToggleInspect())

	m.Update(0.02, input.Frame{Secondary: input.ButtonState{Pressed: true, Down: true}})
	assert.Equal(t, manipulate.StateIdle, m.State())
	assert.True(t, b.gravity)
	assert.False(t, o.Held())
}

func TestDropButtonSelection(t *testing.T) {
	press := input.ButtonState{Pressed: true, Down: true}
	cases := []struct {
		button manipulate.DropButton
		frame  input.Frame
		drops  bool
	}{
		{manipulate.DropSecondary, input.Frame{Secondary: press}, true},
		{manipulate.DropSecondary, input.Frame{Primary: press}, false},
		{manipulate.DropPrimary, input.Frame{Primary: press}, true},
		{manipulate.DropPrimary, input.Frame{Secondary: press}, false},
	}
	for _, tc := range cases {
		cfg := manipulate.DefaultConfig()
		cfg.DropButton = tc.button
		m := manipulate.New(cfg, testCamera(), downAt(0, 0))
		require.NoError(t, m.Grab(object.New()))
		m.Update(0.02, tc.frame)
		assert.Equal(t, tc.drops, m.State() == manipulate.StateIdle, "%s", tc.button)
	}
}

func TestReleaseIgnoresDropRule(t *testing.T) {
	b := newBody(spatial.Vec3{})
	o := object.New(object.WithBody(b))
	m := manipulate.New(manipulate.DefaultConfig(), testCamera(), nil)
	require.NoError(t, m.Grab(o))
	require.NoError(t, m.ToggleInspect())

	m.Release(object.New())
	assert.Equal(t, manipulate.StateInspect, m.State(), "not the held object")

	m.Release(o)
	assert.Equal(t, manipulate.StateIdle, m.State())
	assert.True(t, b.gravity)
	assert.False(t, o.Held())
}

func TestIdleIgnoresInput(t *testing.T) {
	m := manipulate.New(manipulate.DefaultConfig(), testCamera(), downAt(0, 0))
	m.Update(0.02, input.Frame{ToggleInspect: true, Secondary: input.ButtonState{Pressed: true}})
	m.FixedUpdate(0.02)
	assert.Equal(t, manipulate.StateIdle, m.State())
	assert.ErrorIs(t, m.ToggleInspect(), manipulate.ErrNotHolding)
	assert.ErrorIs(t, m.Drop(), manipulate.ErrNotHolding)
}

func TestHeldFollowsDeskPlane(t *testing.T) {
	cfg := manipulate.DefaultConfig()
	r := downAt(0.2, 0.3)
	b := newBody(spatial.Vec3{0, 0.75, 0})
	o := object.New(object.WithBody(b))
	m := manipulate.New(cfg, testCamera(), r)
	require.NoError(t, m.Grab(o))

	initial := spatial.Vec3{0, cfg.DeskHeight + cfg.FloatHeight, 0}
	assert.True(t, spatial.ApproxEqual(initial, m.Target(), 1e-9))

	m.Update(0.02, input.Frame{})
	want := spatial.Vec3{0.2, cfg.DeskHeight + cfg.FloatHeight, 0.3}
	assert.True(t, spatial.ApproxEqual(want, m.Target(), 1e-9))
	assert.Zero(t, b.moves, "bodies only move on the fixed tick")

	before := spatial.Distance(b.pos, want)
	for i := 0; i < 200; i++ {
		m.FixedUpdate(0.02)
	}
	assert.Less(t, spatial.Distance(b.pos, want), before)
	assert.True(t, spatial.ApproxEqual(want, b.pos, 1e-6))
	assert.Equal(t, spatial.Vec3{}, b.angVel)

	// a ray that misses the plane keeps the last target
	r.ray = spatial.NewRay(spatial.Vec3{0, 3, 0}, spatial.Vec3{1, 0, 0})
	m.Update(0.02, input.Frame{})
	assert.True(t, spatial.ApproxEqual(want, m.Target(), 1e-9))
	r.ray = spatial.NewRay(spatial.Vec3{0, 0.2, 0}, spatial.Vec3{0, -1, 0})
	m.Update(0.02, input.Frame{})
	assert.True(t, spatial.ApproxEqual(want, m.Target(), 1e-9), "plane behind the ray")
	r.ok = false
	m.Update(0.02, input.Frame{})
	assert.True(t, spatial.ApproxEqual(want, m.Target(), 1e-9), "pointer outside the surface")
}

func TestBodylessObjectMovesVisually(t *testing.T) {
	cfg := snapConfig()
	o := object.New(object.WithPose(spatial.NewTransform(spatial.Vec3{0, 0.75, 0}, spatial.Identity())))
	m := manipulate.New(cfg, testCamera(), downAt(-0.1, 0.4))
	require.NoError(t, m.Grab(o))

	m.Update(1, input.Frame{})
	assert.True(t, spatial.ApproxEqual(spatial.Vec3{-0.1, cfg.DeskHeight + cfg.FloatHeight, 0.4}, o.Position(), 1e-9))
	m.FixedUpdate(0.02)
}

func TestHeldYawIsRelativeToGrab(t *testing.T) {
	start := spatial.AngleAxis(30, spatial.Right)
	o := object.New(object.WithPose(spatial.NewTransform(spatial.Vec3{}, start)))
	m := manipulate.New(snapConfig(), testCamera(), downAt(0, 0))
	require.NoError(t, m.Grab(o))

	m.Update(1, input.Frame{YawRight: true})
	want := start.Mul(spatial.AngleAxis(90, spatial.Up))
	assert.True(t, spatial.SameRotation(want, o.Rotation(), 1e-9))

	m.Update(1, input.Frame{YawLeft: true})
	assert.True(t, spatial.SameRotation(start, o.Rotation(), 1e-9))
}

func TestInspectRotationIsUnlimited(t *testing.T) {
	o := object.New()
	m := manipulate.New(snapConfig(), testCamera(), downAt(0, 0))
	require.NoError(t, m.Grab(o))
	require.NoError(t, m.ToggleInspect())

	m.Update(1, input.Frame{PitchUp: true})
	assert.True(t, spatial.SameRotation(spatial.AngleAxis(90, spatial.Right), o.Rotation(), 1e-9))

	for i := 0; i < 3; i++ {
		m.Update(1, input.Frame{PitchUp: true})
	}
	assert.True(t, spatial.SameRotation(spatial.Identity(), o.Rotation(), 1e-9), "full turn")

	m.Update(1, input.Frame{YawRight: true, PitchUp: true})
	want := spatial.AngleAxis(90, spatial.Up).Mul(spatial.AngleAxis(90, spatial.Right))
	assert.True(t, spatial.SameRotation(want, o.Rotation(), 1e-9))
}

func TestToggleDoesNotSnapRotation(t *testing.T) {
	o := object.New()
	m := manipulate.New(snapConfig(), testCamera(), downAt(0, 0))
	require.NoError(t, m.Grab(o))
	m.Update(1, input.Frame{YawRight: true})
	held := o.Rotation()

	m.Update(1, input.Frame{ToggleInspect: true})
	require.Equal(t, manipulate.StateInspect, m.State())
	m.Update(1, input.Frame{})
	assert.True(t, spatial.SameRotation(held, o.Rotation(), 1e-9), "inspect starts from the held rotation")

	m.Update(1, input.Frame{PitchDown: true})
	inspected := o.Rotation()
	m.Update(1, input.Frame{ToggleInspect: true})
	require.Equal(t, manipulate.StateHeld, m.State())
	m.Update(1, input.Frame{})
	assert.True(t, spatial.SameRotation(inspected, o.Rotation(), 1e-9), "held restarts from the inspected rotation")
}

func TestInspectTarget(t *testing.T) {
	cfg := manipulate.DefaultConfig()
	cfg.Inspect.Anchor = spatial.Vec3{0, 0.05, 0}
	cam := testCamera()
	cam.Rotation = spatial.AngleAxis(90, spatial.Up)
	o := object.New(object.WithSize(0.1))
	m := manipulate.New(cfg, cam, nil)
	require.NoError(t, m.Grab(o))
	require.NoError(t, m.ToggleInspect())

	z := m.Zoom()
	assert.InDelta(t, 0.05, z.Min, 1e-12)
	assert.InDelta(t, 0.5, z.Max, 1e-12)
	assert.InDelta(t, 0.2, z.Distance, 1e-12)

	// camera yawed 90 degrees looks down +X
	want := cam.Position.Add(spatial.Vec3{0.2, 0.05, 0})
	assert.True(t, spatial.ApproxEqual(want, m.Target(), 1e-9))
}

func TestZoomStaysClamped(t *testing.T) {
	cfg := manipulate.DefaultConfig()
	rng := rand.New(rand.NewPCG(1, 2))
	for _, size := range []float64{1e-3, 0.05, 0.3, 1, 7.5} {
		z := manipulate.NewZoom(cfg.Inspect, size)
		lo, hi := cfg.Inspect.MinK*size, cfg.Inspect.MaxK*size
		require.GreaterOrEqual(t, z.Distance, lo)
		require.LessOrEqual(t, z.Distance, hi)
		for i := 0; i < 500; i++ {
			z = z.Scroll((rng.Float64()*2-1)*10, cfg.Inspect.ZoomStep)
			require.GreaterOrEqual(t, z.Distance, lo, "size %v", size)
			require.LessOrEqual(t, z.Distance, hi, "size %v", size)
		}
	}
}

func TestScrollZoomsInspect(t *testing.T) {
	o := object.New(object.WithSize(1))
	m := manipulate.New(manipulate.DefaultConfig(), testCamera(), nil)
	require.NoError(t, m.Grab(o))
	require.NoError(t, m.ToggleInspect())
	require.InDelta(t, 2.0, m.Zoom().Distance, 1e-12)

	m.Update(0.02, input.Frame{Scroll: 1})
	assert.InDelta(t, 1.5, m.Zoom().Distance, 1e-12)
	m.Update(0.02, input.Frame{Scroll: 100})
	assert.InDelta(t, 0.5, m.Zoom().Distance, 1e-12)
	m.Update(0.02, input.Frame{Scroll: -100})
	assert.InDelta(t, 5.0, m.Zoom().Distance, 1e-12)
}

func TestZoomDisabledUsesFixedDistance(t *testing.T) {
	cfg := manipulate.DefaultConfig()
	cfg.Inspect.Zoom = false
	z := manipulate.NewZoom(cfg.Inspect, 3)
	assert.Equal(t, manipulate.Zoom{Min: 0.5, Max: 0.5, Distance: 0.5}, z)
}

func TestInspectMovesBodyOnFixedTick(t *testing.T) {
	b := newBody(spatial.Vec3{0, 0.75, 0})
	o := object.New(object.WithBody(b), object.WithSize(0.1))
	cam := testCamera()
	m := manipulate.New(manipulate.DefaultConfig(), cam, nil)
	require.NoError(t, m.Grab(o))
	require.NoError(t, m.ToggleInspect())
	m.Update(0.02, input.Frame{})
	for i := 0; i < 300; i++ {
		m.FixedUpdate(0.02)
	}
	want := cam.Position.Add(spatial.Forward.Mul(0.2))
	assert.True(t, spatial.ApproxEqual(want, b.pos, 1e-6))
}

func TestCursorAndEvents(t *testing.T) {
	events := bus.New()
	var got []string
	_, err := events.SubscribeTopicAll(manipulate.TopicDesk, func(e bus.Event) error {
		got = append(got, e.Type()+":"+e.Data().(manipulate.Change).State)
		return nil
	})
	require.NoError(t, err)

	cur := &cursorLog{}
	cfg := manipulate.DefaultConfig()
	cfg.DropFromInspect = true
	m := manipulate.New(cfg, testCamera(), nil, manipulate.WithCursor(cur), manipulate.WithEvents(events))
	o := object.New()
	require.NoError(t, m.Grab(o))
	require.NoError(t, m.ToggleInspect())
	require.NoError(t, m.ToggleInspect())
	require.NoError(t, m.ToggleInspect())
	require.NoError(t, m.Drop())

	assert.Equal(t, cursorLog{"hold", "inspect", "hold", "inspect", "default"}, *cur)
	assert.Equal(t, []string{
		manipulate.EventGrabbed + ":held",
		manipulate.EventInspect + ":inspect",
		manipulate.EventHeldOnDesk + ":held",
		manipulate.EventInspect + ":inspect",
		manipulate.EventDropped + ":idle",
	}, got)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, manipulate.DefaultConfig().Validate())

	cfg := manipulate.DefaultConfig()
	cfg.Inspect.MinK = 6
	cfg.DropButton = "middle"
	cfg.Smoothing = "linear"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drop button")
	assert.Contains(t, err.Error(), "zoom multipliers")
}

func TestDecayConvergesAtAnyFrameRate(t *testing.T) {
	run := func(dt float64) spatial.Vec3 {
		o := object.New(object.WithPose(spatial.NewTransform(spatial.Vec3{0, 0.83, 0}, spatial.Identity())))
		m := manipulate.New(manipulate.DefaultConfig(), testCamera(), downAt(1, 0))
		require.NoError(t, m.Grab(o))
		steps := int(math.Round(0.1 / dt))
		for i := 0; i < steps; i++ {
			m.Update(dt, input.Frame{})
		}
		return o.Position()
	}
	assert.InDelta(t, run(1.0/30).X(), run(1.0/240).X(), 1e-9)
}
