// Package picker turns a pointer position into the desk item under it.
package picker

import (
	"fmt"

	"github.com/zeusync/deskcheck/internal/core/observability/log"
	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/desk/button"
	"github.com/zeusync/deskcheck/internal/desk/cursor"
	"github.com/zeusync/deskcheck/internal/desk/object"
)

// Hit is one collider struck by a ray. Exactly one of Object and Button is
// set.
type Hit struct {
	Distance float64
	Point    spatial.Vec3
	Object   *object.Object
	Button   *button.Button
}

// Scene answers ray queries against interactable colliders.
type Scene interface {
	RaycastAll(ray spatial.Ray, maxDistance float64) []Hit
}

type Config struct {
	MaxDistance float64 `yaml:"max_distance"`
	// UseInset casts through a low-resolution surface shown inside the window.
	UseInset bool          `yaml:"use_inset"`
	Inset    spatial.Inset `yaml:"inset"`
}

func DefaultConfig() Config {
	return Config{MaxDistance: 5}
}

func (c Config) Validate() error {
	if c.MaxDistance <= 0 {
		return fmt.Errorf("picker: max distance must be positive, got %v", c.MaxDistance)
	}
	if c.UseInset && (c.Inset.Width <= 0 || c.Inset.Height <= 0 || c.Inset.Display.W <= 0 || c.Inset.Display.H <= 0) {
		return fmt.Errorf("picker: inset surface and display must have positive size")
	}
	return nil
}

// Result is what lies under the pointer. Both fields are nil on a miss.
type Result struct {
	Ray    spatial.Ray
	Object *object.Object
	Button *button.Button
}

func (r Result) Empty() bool { return r.Object == nil && r.Button == nil }

// Picker casts pointer rays. It only ever touches hover state.
type Picker struct {
	cfg     Config
	camera  *spatial.Camera
	scene   Scene
	cursor  cursor.Cursor
	log     log.Log
	hovered *object.Object
}

// New builds a picker casting from camera, which may be moved by its owner
// between calls.
func New(cfg Config, camera *spatial.Camera, scene Scene, cur cursor.Cursor, logger log.Log) *Picker {
	return &Picker{
		cfg:    cfg,
		camera: camera,
		scene:  scene,
		cursor: cursor.OrNop(cur),
		log:    log.OrNop(logger).Named("picker"),
	}
}

// Ray maps a window pointer position to a world ray. It fails when the
// inset is in use and the pointer lies outside its display rectangle.
func (p *Picker) Ray(pointer spatial.Vec2) (spatial.Ray, bool) {
	if p.cfg.UseInset {
		px, ok := p.cfg.Inset.Remap(pointer)
		if !ok {
			return spatial.Ray{}, false
		}
		pointer = px
	}
	return p.camera.ScreenPointToRay(pointer), true
}

// Screen maps a world point to the window pointer position that would cast
// a ray through it. It fails for points behind the camera.
func (p *Picker) Screen(world spatial.Vec3) (spatial.Vec2, bool) {
	px, ok := p.camera.WorldToScreen(world)
	if !ok {
		return spatial.Vec2{}, false
	}
	if p.cfg.UseInset {
		px = p.cfg.Inset.Unmap(px)
	}
	return px, true
}

// Query resolves the pointer without side effects. Any button struck by the
// ray wins over any object; held objects are never candidates.
func (p *Picker) Query(pointer spatial.Vec2) Result {
	ray, ok := p.Ray(pointer)
	if !ok || p.scene == nil {
		return Result{Ray: ray}
	}
	var bestButton, bestObject *Hit
	hits := p.scene.RaycastAll(ray, p.cfg.MaxDistance)
	for i := range hits {
		h := &hits[i]
		switch {
		case h.Button != nil:
			if bestButton == nil || h.Distance < bestButton.Distance {
				bestButton = h
			}
		case h.Object != nil && !h.Object.Held():
			if bestObject == nil || h.Distance < bestObject.Distance {
				bestObject = h
			}
		}
	}
	res := Result{Ray: ray}
	switch {
	case bestButton != nil:
		res.Button = bestButton.Button
	case bestObject != nil:
		res.Object = bestObject.Object
	}
	return res
}

// Pick resolves the pointer and moves the hover indicator to the object
// under it.
func (p *Picker) Pick(pointer spatial.Vec2) Result {
	res := p.Query(pointer)
	p.setHovered(res.Object)
	if res.Empty() {
		p.cursor.SetDefault()
	} else {
		p.cursor.SetHover()
	}
	return res
}

// Hovered is the object currently highlighted, if any.
func (p *Picker) Hovered() *object.Object { return p.hovered }

// ClearHover removes the hover indicator without touching the cursor.
func (p *Picker) ClearHover() { p.setHovered(nil) }

func (p *Picker) setHovered(o *object.Object) {
	if p.hovered == o {
		return
	}
	if p.hovered != nil {
		p.hovered.HoverExit()
	}
	p.hovered = o
	if o != nil {
		o.HoverEnter()
		p.log.Debug("hover", log.String("object", o.Name()))
	}
}
