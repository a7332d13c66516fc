package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestTransformRelativeRoundTrip(t *testing.T) {
	parent := NewTransform(Rotator{Yaw: 90, Pitch: 10}.Quat(), mgl64.Vec3{100, -50, 20})
	child := NewTransform(Rotator{Yaw: -30, Roll: 5}.Quat(), mgl64.Vec3{-300, 10, 60})

	world := child.ToWorld(parent)
	back := world.RelativeTo(parent)

	assert.True(t, back.ApproxEqual(child, 1e-9), "got %+v want %+v", back, child)
}

func TestTransformPosition(t *testing.T) {
	tr := NewTransform(Rotator{Yaw: 90}.Quat(), mgl64.Vec3{10, 0, 0})

	got := tr.TransformPosition(mgl64.Vec3{1, 0, 0})
	if diff := cmp.Diff(mgl64.Vec3{10, 1, 0}, got, approx); diff != "" {
		t.Fatalf("TransformPosition mismatch (-want +got):\n%s", diff)
	}

	local := tr.InverseTransformPosition(got)
	if diff := cmp.Diff(mgl64.Vec3{1, 0, 0}, local, approx); diff != "" {
		t.Fatalf("InverseTransformPosition mismatch (-want +got):\n%s", diff)
	}

	inv := tr.Inverse()
	if diff := cmp.Diff(mgl64.Vec3{1, 0, 0}, inv.TransformPosition(got), approx); diff != "" {
		t.Fatalf("Inverse mismatch (-want +got):\n%s", diff)
	}
}

func TestZeroTransformIsIdentity(t *testing.T) {
	var tr Transform
	p := mgl64.Vec3{3, 4, 5}
	if diff := cmp.Diff(p, tr.TransformPosition(p), approx); diff != "" {
		t.Fatalf("zero transform moved point (-want +got):\n%s", diff)
	}
	assert.True(t, tr.ApproxEqual(IdentityTransform(), 1e-12))
}

func TestTransformApproxEqualNearZero(t *testing.T) {
	a := NewTransform(Rotator{Yaw: 90}.Quat(), mgl64.Vec3{2.220446049250313e-16, 1, 0})
	b := NewTransform(Rotator{Yaw: 90}.Quat(), mgl64.Vec3{6.123233995736757e-17, 1, 0})
	assert.True(t, a.ApproxEqual(b, 1e-12))

	flipped := NewTransform(b.Rotation.Scale(-1), b.Location)
	assert.True(t, a.ApproxEqual(flipped, 1e-12), "q and -q")

	moved := NewTransform(b.Rotation, mgl64.Vec3{1e-6, 1, 0})
	assert.False(t, a.ApproxEqual(moved, 1e-12))
}
