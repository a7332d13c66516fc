package common

import "github.com/go-gl/mathgl/mgl64"

// Transform is a rigid transform: rotate, then translate.
type Transform struct {
	Rotation mgl64.Quat
	Location mgl64.Vec3
}

func IdentityTransform() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

func NewTransform(rot mgl64.Quat, loc mgl64.Vec3) Transform {
	return Transform{Rotation: rot, Location: loc}
}

// TransformPosition maps a point from this transform's local space to its
// parent space.
func (t Transform) TransformPosition(p mgl64.Vec3) mgl64.Vec3 {
	return t.rotation().Rotate(p).Add(t.Location)
}

// TransformVector rotates a direction without translating it.
func (t Transform) TransformVector(v mgl64.Vec3) mgl64.Vec3 {
	return t.rotation().Rotate(v)
}

// InverseTransformPosition maps a point from parent space into local space.
func (t Transform) InverseTransformPosition(p mgl64.Vec3) mgl64.Vec3 {
	return t.rotation().Inverse().Rotate(p.Sub(t.Location))
}

// Inverse returns the transform that undoes t.
func (t Transform) Inverse() Transform {
	inv := t.rotation().Inverse()
	return Transform{Rotation: inv, Location: inv.Rotate(t.Location).Mul(-1)}
}

// ToWorld treats t as relative to parent and returns it in parent's space.
func (t Transform) ToWorld(parent Transform) Transform {
	return Transform{
		Rotation: parent.rotation().Mul(t.rotation()).Normalize(),
		Location: parent.TransformPosition(t.Location),
	}
}

// RelativeTo expresses t in the local space of parent.
func (t Transform) RelativeTo(parent Transform) Transform {
	inv := parent.rotation().Inverse()
	return Transform{
		Rotation: inv.Mul(t.rotation()).Normalize(),
		Location: inv.Rotate(t.Location.Sub(parent.Location)),
	}
}

// Rotator returns the rotation as Euler angles.
func (t Transform) Rotator() Rotator {
	return RotatorFromQuat(t.rotation())
}

// ApproxEqual compares locations and rotations within an absolute eps; q and
// -q are the same rotation.
func (t Transform) ApproxEqual(o Transform, eps float64) bool {
	if t.Location.Sub(o.Location).Len() > eps {
		return false
	}
	a, b := t.rotation(), o.rotation()
	return a.Sub(b).Len() <= eps || a.Add(b).Len() <= eps
}

// rotation treats the zero quaternion as identity so zero-value transforms
// are usable.
func (t Transform) rotation() mgl64.Quat {
	if t.Rotation.W == 0 && t.Rotation.V == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return t.Rotation
}
