package entity

import (
	"image/color"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/milk9111/camboom/ecs"
	"github.com/milk9111/camboom/ecs/component"
	"github.com/milk9111/camboom/ecs/system"
	"github.com/milk9111/camboom/prefabs"
	"github.com/milk9111/camboom/springarm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadCameraRigBuildsEntities(t *testing.T) {
	w := ecs.NewWorld()
	rig, err := LoadCameraRig(w, "rig.yaml", nil, quietLogger())
	require.NoError(t, err)

	target, ok := ecs.Get(w, rig.Target, component.TransformComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{192, 0, 200}, target.Location)
	assert.InDelta(t, -15, target.Rotator().Pitch, 1e-9)

	script, ok := ecs.Get(w, rig.Target, component.TargetScriptComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "orbit.tengo", script.Path)
	assert.True(t, ecs.Has(w, rig.Target, component.ControlRotationComponent.Kind()))

	att, ok := ecs.Get(w, rig.Boom, component.AttachmentComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, uint64(rig.Target), att.Parent)

	boom, ok := ecs.Get(w, rig.Boom, component.CameraBoomComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "third_person", boom.Name)
	assert.Equal(t, "rig.yaml", boom.Spec)
	assert.Equal(t, 300.0, boom.Arm.Config().TargetArmLength)
	assert.True(t, boom.Arm.State().Initialized, "registered at build time")

	cam, ok := ecs.Get(w, rig.Camera, component.CameraComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, uint64(rig.Boom), cam.Boom)
	assert.Equal(t, 1.0, cam.Zoom)

	boomTr, ok := ecs.Get(w, rig.Boom, component.TransformComponent.Kind())
	require.True(t, ok)
	camTr, ok := ecs.Get(w, rig.Camera, component.TransformComponent.Kind())
	require.True(t, ok)
	want := boom.Arm.SocketTransform(springarm.SpaceWorld, boomTr.Transform, boomTr.Transform)
	assert.True(t, want.ApproxEqual(camTr.Transform, 1e-9))
}

func TestCameraRigFollowsScriptedTarget(t *testing.T) {
	w := ecs.NewWorld()
	rig, err := LoadCameraRig(w, "side.yaml", nil, quietLogger())
	require.NoError(t, err)

	systems := system.NewRigSystems(nil, nil, quietLogger())
	dt := 1.0 / 60.0
	systems.Scheduler().Tick(w, dt)

	target, _ := ecs.Get(w, rig.Target, component.TransformComponent.Kind())
	wantTarget := mgl64.Vec3{192 + 240*dt, 0, 160 + math.Abs(math.Sin(dt*2.5))*96}
	if diff := cmp.Diff(wantTarget, target.Location, approx); diff != "" {
		t.Fatalf("target location (-want +got):\n%s", diff)
	}

	boomTr, _ := ecs.Get(w, rig.Boom, component.TransformComponent.Kind())
	if diff := cmp.Diff(wantTarget, boomTr.Location, approx); diff != "" {
		t.Fatalf("boom follows target (-want +got):\n%s", diff)
	}

	boom, _ := ecs.Get(w, rig.Boom, component.CameraBoomComponent.Kind())
	st := boom.Arm.State()
	assert.InDelta(t, -10, st.PreviousDesiredRotation.Pitch, 1e-9, "pitch comes from the relative rotation")
	assert.Zero(t, st.Last.LocationSubsteps, "one frame fits in a single lag step")
	assert.Greater(t, st.Last.ArmOrigin.X(), st.Last.DesiredLocation.X(), "origin lags behind the moving target")

	camTr, _ := ecs.Get(w, rig.Camera, component.TransformComponent.Kind())
	want := boom.Arm.SocketTransform(springarm.SpaceWorld, boomTr.Transform, boomTr.Transform)
	assert.True(t, want.ApproxEqual(camTr.Transform, 1e-9))

	cam, _ := ecs.Get(w, rig.Camera, component.CameraComponent.Kind())
	assert.Equal(t, 0.75, cam.Zoom)
}

func TestNewCameraRigRejectsBadSpec(t *testing.T) {
	w := ecs.NewWorld()
	_, err := NewCameraRig(w, "bad.yaml", prefabs.RigSpec{Name: "bad", Lag: prefabs.LagSpec{Curve: "wobbly"}}, nil, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "camera rig")
	assert.Empty(t, ecs.Entities(w))

	_, err = LoadCameraRig(w, "missing.yaml", nil, quietLogger())
	assert.Error(t, err)
}

func TestNewCameraRigDefaultsZoom(t *testing.T) {
	w := ecs.NewWorld()
	rig, err := NewCameraRig(w, "plain.yaml", prefabs.RigSpec{Name: "plain"}, nil, nil)
	require.NoError(t, err)

	cam, ok := ecs.Get(w, rig.Camera, component.CameraComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 1.0, cam.Zoom)
	assert.False(t, ecs.Has(w, rig.Target, component.TargetScriptComponent.Kind()))
}

func TestRigSpecOfRebuildsLiveRig(t *testing.T) {
	w := ecs.NewWorld()
	rig, err := LoadCameraRig(w, "rig.yaml", nil, quietLogger())
	require.NoError(t, err)

	tr, _ := ecs.Get(w, rig.Target, component.TransformComponent.Kind())
	tr.Location = mgl64.Vec3{400, 0, 250}

	spec, err := RigSpecOf(w, rig)
	require.NoError(t, err)
	assert.Equal(t, "third_person", spec.Name)
	assert.Equal(t, "orbit.tengo", spec.Script)
	assert.Equal(t, 1.0, spec.Camera.Zoom)
	require.NotNil(t, spec.Camera.MarkerColor)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xcc, B: 0x33, A: 0xff}, spec.Camera.MarkerColor.Color)
	assert.Equal(t, prefabs.Vec3Spec{X: 400, Y: 0, Z: 250}, spec.Transform.Location)
	assert.InDelta(t, -15, spec.Transform.Rotation.Pitch, 1e-9)

	data, err := spec.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "script: orbit.tengo")
	assert.Contains(t, string(data), "marker_color:")
	assert.Contains(t, string(data), "#ffcc33")

	copied, err := NewCameraRig(ecs.NewWorld(), "rig.yaml", spec, nil, quietLogger())
	require.NoError(t, err)
	assert.NotZero(t, copied.Camera)

	original, err := prefabs.LoadRigSpec("rig.yaml")
	require.NoError(t, err)
	want, err := original.ArmConfig()
	require.NoError(t, err)
	got, err := spec.ArmConfig()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRigSpecOfMissingBoom(t *testing.T) {
	_, err := RigSpecOf(ecs.NewWorld(), CameraRig{})
	assert.ErrorIs(t, err, ecs.ErrEntityNotAlive)
}
