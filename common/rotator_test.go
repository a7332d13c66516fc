package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatorQuatRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		rot  Rotator
	}{
		{"identity", Rotator{}},
		{"yaw_only", Rotator{Yaw: 90}},
		{"pitch_only", Rotator{Pitch: -35}},
		{"mixed", Rotator{Pitch: 30, Yaw: 45, Roll: 10}},
		{"behind", Rotator{Pitch: -20, Yaw: 170, Roll: -60}},
		{"steep", Rotator{Pitch: 80, Yaw: -100, Roll: 45}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q := c.rot.Quat()
			assert.InDelta(t, 1.0, q.Len(), 1e-12)

			back := RotatorFromQuat(q)
			assert.True(t, back.Equals(c.rot, 1e-9), "got %+v want %+v", back, c.rot)

			fwd := q.Rotate(mgl64.Vec3{1, 0, 0})
			if diff := cmp.Diff(c.rot.Vector(), fwd, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("forward vector (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRotatorPole(t *testing.T) {
	back := RotatorFromQuat(Rotator{Pitch: 90, Yaw: 30}.Quat())
	require.InDelta(t, 90, back.Pitch, 1e-6)
	if diff := cmp.Diff(mgl64.Vec3{0, 0, 1}, back.Quat().Rotate(mgl64.Vec3{1, 0, 0}), cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("forward vector at the pole (-want +got):\n%s", diff)
	}
}

func TestNormalizeAxis(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{190, -170},
		{-190, 170},
		{720 + 45, 45},
		{-359, 1},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, NormalizeAxis(c.in), 1e-12, "NormalizeAxis(%v)", c.in)
	}
}

func TestRotatorNormalizedDelta(t *testing.T) {
	delta := Rotator{Yaw: -170}.Sub(Rotator{Yaw: 170}).Normalized()
	assert.InDelta(t, 20, delta.Yaw, 1e-12)
	assert.True(t, Rotator{Pitch: 360, Yaw: -720}.IsNearlyZero(1e-9))
}
