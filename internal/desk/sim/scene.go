package sim

import (
	"math"

	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/desk/button"
	"github.com/zeusync/deskcheck/internal/desk/object"
	"github.com/zeusync/deskcheck/internal/desk/picker"
)

var _ picker.Scene = (*Scene)(nil)

type objectCollider struct {
	obj     *object.Object
	extents spatial.Vec3
}

// Scene holds the interactable colliders. Object colliders follow their
// object's pose; button colliders are static.
type Scene struct {
	objects []objectCollider
	buttons []*button.Button
}

func NewScene() *Scene { return &Scene{} }

// AddObject registers o with a box of the given half extents in its local
// frame. Registering again replaces the extents.
func (s *Scene) AddObject(o *object.Object, extents spatial.Vec3) {
	for i := range s.objects {
		if s.objects[i].obj == o {
			s.objects[i].extents = extents
			return
		}
	}
	s.objects = append(s.objects, objectCollider{obj: o, extents: extents})
}

func (s *Scene) RemoveObject(o *object.Object) {
	for i := range s.objects {
		if s.objects[i].obj == o {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return
		}
	}
}

func (s *Scene) AddButton(b *button.Button) { s.buttons = append(s.buttons, b) }

func (s *Scene) Objects() []*object.Object {
	out := make([]*object.Object, len(s.objects))
	for i, c := range s.objects {
		out[i] = c.obj
	}
	return out
}

// Bounds is the world axis-aligned box around o, if o is registered.
func (s *Scene) Bounds(o *object.Object) (spatial.Box, bool) {
	for _, c := range s.objects {
		if c.obj == o {
			return worldBox(o.Transform(), c.extents), true
		}
	}
	return spatial.Box{}, false
}

func (s *Scene) RaycastAll(ray spatial.Ray, maxDistance float64) []picker.Hit {
	var hits []picker.Hit
	for _, c := range s.objects {
		if d, ok := worldBox(c.obj.Transform(), c.extents).Raycast(ray); ok && d <= maxDistance {
			hits = append(hits, picker.Hit{Distance: d, Point: ray.At(d), Object: c.obj})
		}
	}
	for _, b := range s.buttons {
		if d, ok := b.Collider().Raycast(ray); ok && d <= maxDistance {
			hits = append(hits, picker.Hit{Distance: d, Point: ray.At(d), Button: b})
		}
	}
	return hits
}

// worldBox bounds a rotated local box.
func worldBox(t spatial.Transform, extents spatial.Vec3) spatial.Box {
	m := t.Rotation.Mat4()
	var e spatial.Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			e[i] += math.Abs(m.At(i, j)) * extents[j]
		}
	}
	return spatial.Box{Center: t.Position, Extents: e}
}
