package picker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/desk/button"
	"github.com/zeusync/deskcheck/internal/desk/object"
	"github.com/zeusync/deskcheck/internal/desk/picker"
	"github.com/zeusync/deskcheck/internal/desk/round"
)

type collider struct {
	box    spatial.Box
	object *object.Object
	button *button.Button
}

type scene []collider

func (s scene) RaycastAll(ray spatial.Ray, maxDistance float64) []picker.Hit {
	var hits []picker.Hit
	for _, c := range s {
		if d, ok := c.box.Raycast(ray); ok && d <= maxDistance {
			hits = append(hits, picker.Hit{Distance: d, Point: ray.At(d), Object: c.object, Button: c.button})
		}
	}
	return hits
}

type cursorLog []string

func (c *cursorLog) SetDefault() { *c = append(*c, "default") }
func (c *cursorLog) SetHover()   { *c = append(*c, "hover") }
func (c *cursorLog) SetHold()    { *c = append(*c, "hold") }
func (c *cursorLog) SetInspect() { *c = append(*c, "inspect") }

func (c cursorLog) last() string {
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1]
}

var center = spatial.Vec2{50, 50}

func camera() *spatial.Camera {
	return &spatial.Camera{
		Transform: spatial.NewTransform(spatial.Vec3{}, spatial.Identity()),
		FovY:      60,
		Width:     100,
		Height:    100,
	}
}

func boxAt(z float64) spatial.Box {
	return spatial.Box{Center: spatial.Vec3{0, 0, z}, Extents: spatial.Vec3{0.2, 0.2, 0.05}}
}

func TestPickHoversNearestObject(t *testing.T) {
	near, far := object.New(object.WithName("near")), object.New(object.WithName("far"))
	cur := &cursorLog{}
	p := picker.New(picker.DefaultConfig(), camera(), scene{
		{box: boxAt(3), object: far},
		{box: boxAt(1), object: near},
	}, cur, nil)

	res := p.Pick(center)
	require.Same(t, near, res.Object)
	assert.Nil(t, res.Button)
	assert.True(t, near.Hovered())
	assert.False(t, far.Hovered())
	assert.Equal(t, "hover", cur.last())
	assert.Same(t, near, p.Hovered())
}

func TestButtonWinsOverObject(t *testing.T) {
	card := object.New()
	btn := button.New(button.DefaultConfig(), round.Reject, spatial.Transform{}, boxAt(2))

	for name, objZ := range map[string]float64{"object in front": 1, "object behind": 3} {
		t.Run(name, func(t *testing.T) {
			p := picker.New(picker.DefaultConfig(), camera(), scene{
				{box: boxAt(objZ), object: card},
				{box: btn.Collider(), button: btn},
			}, nil, nil)
			res := p.Pick(center)
			assert.Same(t, btn, res.Button)
			assert.Nil(t, res.Object)
			assert.False(t, card.Hovered())
		})
	}
}

func TestMissClearsHover(t *testing.T) {
	card := object.New()
	cur := &cursorLog{}
	p := picker.New(picker.DefaultConfig(), camera(), scene{{box: boxAt(1), object: card}}, cur, nil)

	p.Pick(center)
	require.True(t, card.Hovered())

	res := p.Pick(spatial.Vec2{0, 0})
	assert.True(t, res.Empty())
	assert.False(t, card.Hovered())
	assert.Nil(t, p.Hovered())
	assert.Equal(t, "default", cur.last())
}

func TestHoverMovesBetweenObjects(t *testing.T) {
	left := object.New()
	right := object.New()
	p := picker.New(picker.DefaultConfig(), camera(), scene{
		{box: spatial.Box{Center: spatial.Vec3{-0.5, 0, 2}, Extents: spatial.Vec3{0.2, 0.2, 0.05}}, object: left},
		{box: spatial.Box{Center: spatial.Vec3{0.5, 0, 2}, Extents: spatial.Vec3{0.2, 0.2, 0.05}}, object: right},
	}, nil, nil)

	leftPx, ok := camera().WorldToScreen(spatial.Vec3{-0.5, 0, 2})
	require.True(t, ok)
	rightPx, ok := camera().WorldToScreen(spatial.Vec3{0.5, 0, 2})
	require.True(t, ok)

	p.Pick(leftPx)
	assert.True(t, left.Hovered())
	p.Pick(rightPx)
	assert.False(t, left.Hovered())
	assert.True(t, right.Hovered())
}

func TestHeldObjectsAreSkipped(t *testing.T) {
	held := object.New()
	require.NoError(t, held.BeginHold())
	behind := object.New()
	p := picker.New(picker.DefaultConfig(), camera(), scene{
		{box: boxAt(1), object: held},
		{box: boxAt(2), object: behind},
	}, nil, nil)

	res := p.Query(center)
	assert.Same(t, behind, res.Object)
	assert.False(t, held.Hovered())
}

func TestMaxDistance(t *testing.T) {
	card := object.New()
	cfg := picker.DefaultConfig()
	cfg.MaxDistance = 1
	p := picker.New(cfg, camera(), scene{{box: boxAt(4), object: card}}, nil, nil)
	assert.True(t, p.Pick(center).Empty())
}

func TestInsetRemap(t *testing.T) {
	card := object.New()
	cfg := picker.DefaultConfig()
	cfg.UseInset = true
	cfg.Inset = spatial.Inset{Display: spatial.Rect{X: 100, Y: 100, W: 200, H: 200}, Width: 100, Height: 100}
	p := picker.New(cfg, camera(), scene{{box: boxAt(1), object: card}}, nil, nil)

	ray, ok := p.Ray(spatial.Vec2{200, 200})
	require.True(t, ok)
	assert.True(t, spatial.ApproxEqual(spatial.Forward, ray.Dir, 1e-9))
	assert.Same(t, card, p.Pick(spatial.Vec2{200, 200}).Object)

	_, ok = p.Ray(center)
	assert.False(t, ok, "outside the display rectangle")
	assert.True(t, p.Pick(center).Empty())
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, picker.DefaultConfig().Validate())
	cfg := picker.DefaultConfig()
	cfg.UseInset = true
	assert.Error(t, cfg.Validate())
}

func TestScreenInvertsRay(t *testing.T) {
	cfg := picker.DefaultConfig()
	cfg.UseInset = true
	cfg.Inset = spatial.Inset{Display: spatial.Rect{X: 10, Y: 20, W: 300, H: 300}, Width: 100, Height: 100}
	p := picker.New(cfg, camera(), nil, nil, nil)

	world := spatial.Vec3{0.3, -0.2, 2}
	px, ok := p.Screen(world)
	require.True(t, ok)
	ray, ok := p.Ray(px)
	require.True(t, ok)
	want := world.Normalize()
	assert.True(t, spatial.ApproxEqual(want, ray.Dir, 1e-9))

	_, ok = p.Screen(spatial.Vec3{0, 0, -1})
	assert.False(t, ok)
}
