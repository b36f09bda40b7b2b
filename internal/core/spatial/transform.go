package spatial

// Transform is a position and orientation in world space.
type Transform struct {
	Position Vec3
	Rotation Quat
}

func NewTransform(position Vec3, rotation Quat) Transform {
	return Transform{Position: position, Rotation: rotation.Normalize()}
}

// TransformVector rotates a local-space direction or offset into world space.
func (t Transform) TransformVector(v Vec3) Vec3 { return t.Rotation.Rotate(v) }

// TransformPoint maps a local-space point into world space.
func (t Transform) TransformPoint(v Vec3) Vec3 { return t.Position.Add(t.Rotation.Rotate(v)) }

func (t Transform) Forward() Vec3 { return t.Rotation.Rotate(Forward) }
func (t Transform) Right() Vec3   { return t.Rotation.Rotate(Right) }
func (t Transform) Up() Vec3      { return t.Rotation.Rotate(Up) }
