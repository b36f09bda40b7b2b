package spatial

import "math"

// Ray is a half-line starting at Origin. Dir is kept normalized.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 { return r.Origin.Add(r.Dir.Mul(t)) }

// Plane is the set of points p with Normal·(p - Point) = 0.
type Plane struct {
	Normal Vec3
	Point  Vec3
}

// HorizontalPlane is the plane y = height.
func HorizontalPlane(height float64) Plane {
	return Plane{Normal: Up, Point: Vec3{0, height, 0}}
}

// Raycast returns the distance along r to the plane. It fails when the ray is
// parallel to the plane or the plane is behind the origin.
func (p Plane) Raycast(r Ray) (float64, bool) {
	denom := p.Normal.Dot(r.Dir)
	if math.Abs(denom) < epsilon {
		return 0, false
	}
	t := p.Normal.Dot(p.Point.Sub(r.Origin)) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Sphere is a bounding sphere collider shape.
type Sphere struct {
	Center Vec3
	Radius float64
}

// Raycast returns the distance to the first intersection in front of the origin.
func (s Sphere) Raycast(r Ray) (float64, bool) {
	oc := r.Origin.Sub(s.Center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Box is an axis-aligned bounding box described by center and half extents.
type Box struct {
	Center  Vec3
	Extents Vec3
}

func BoxFromMinMax(min, max Vec3) Box {
	return Box{Center: min.Add(max).Mul(0.5), Extents: max.Sub(min).Mul(0.5)}
}

func (b Box) Min() Vec3 { return b.Center.Sub(b.Extents) }
func (b Box) Max() Vec3 { return b.Center.Add(b.Extents) }

// Encapsulate grows b to contain o.
func (b Box) Encapsulate(o Box) Box {
	bmin, bmax := b.Min(), b.Max()
	omin, omax := o.Min(), o.Max()
	min := Vec3{math.Min(bmin[0], omin[0]), math.Min(bmin[1], omin[1]), math.Min(bmin[2], omin[2])}
	max := Vec3{math.Max(bmax[0], omax[0]), math.Max(bmax[1], omax[1]), math.Max(bmax[2], omax[2])}
	return BoxFromMinMax(min, max)
}

// Raycast uses the slab method. A ray starting inside the box hits at 0.
func (b Box) Raycast(r Ray) (float64, bool) {
	min, max := b.Min(), b.Max()
	tmin, tmax := math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		if math.Abs(r.Dir[i]) < epsilon {
			if r.Origin[i] < min[i] || r.Origin[i] > max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / r.Dir[i]
		t1 := (min[i] - r.Origin[i]) * inv
		t2 := (max[i] - r.Origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return 0, true
	}
	return tmin, true
}
