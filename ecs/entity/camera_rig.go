package entity

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/camboom/common"
	"github.com/milk9111/camboom/ecs"
	"github.com/milk9111/camboom/ecs/component"
	"github.com/milk9111/camboom/prefabs"
	"github.com/milk9111/camboom/springarm"
)

// CameraRig names the three entities of a rig: the target the boom follows,
// the boom attached to it, and the camera that sits on the boom's socket.
type CameraRig struct {
	Target ecs.Entity
	Boom   ecs.Entity
	Camera ecs.Entity
}

func LoadCameraRig(w *ecs.World, specName string, probe springarm.CollisionProbe, logger *slog.Logger) (CameraRig, error) {
	spec, err := prefabs.LoadRigSpec(specName)
	if err != nil {
		return CameraRig{}, fmt.Errorf("camera rig: %w", err)
	}
	return NewCameraRig(w, specName, spec, probe, logger)
}

// NewCameraRig builds a rig from spec and snaps its boom into place.
func NewCameraRig(w *ecs.World, specName string, spec prefabs.RigSpec, probe springarm.CollisionProbe, logger *slog.Logger) (CameraRig, error) {
	cfg, err := spec.ArmConfig()
	if err != nil {
		return CameraRig{}, fmt.Errorf("camera rig: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	var rig CameraRig
	targetTransform := spec.Transform.Transform()

	rig.Target = ecs.CreateEntity(w)
	if err := ecs.Add(w, rig.Target, component.TransformComponent.Kind(), &component.Transform{Transform: targetTransform}); err != nil {
		return rig, fmt.Errorf("camera rig: add target transform: %w", err)
	}
	if err := ecs.Add(w, rig.Target, component.ControlRotationComponent.Kind(), &component.ControlRotation{
		Rotator: spec.Transform.Rotation.Rotator(),
	}); err != nil {
		return rig, fmt.Errorf("camera rig: add control rotation: %w", err)
	}
	if spec.Script != "" {
		if err := ecs.Add(w, rig.Target, component.TargetScriptComponent.Kind(), &component.TargetScript{Path: spec.Script}); err != nil {
			return rig, fmt.Errorf("camera rig: add target script: %w", err)
		}
	}

	relRot := spec.RelativeRotation.Rotator()
	relative := common.NewTransform(relRot.Quat(), mgl64.Vec3{})
	boomWorld := relative.ToWorld(targetTransform)

	arm := springarm.New(cfg,
		springarm.WithProbe(probe),
		springarm.WithLogger(logger.With("rig", spec.Name)),
		springarm.WithRelativeRotation(relRot),
	)
	if cfg.UseControlRotation {
		arm.SetControlRotation(spec.Transform.Rotation.Rotator())
	}
	arm.Register(boomWorld.Rotation, boomWorld.Location)

	rig.Boom = ecs.CreateEntity(w)
	if err := ecs.Add(w, rig.Boom, component.AttachmentComponent.Kind(), &component.Attachment{
		Parent:   uint64(rig.Target),
		Relative: relative,
	}); err != nil {
		return rig, fmt.Errorf("camera rig: add attachment: %w", err)
	}
	if err := ecs.Add(w, rig.Boom, component.TransformComponent.Kind(), &component.Transform{Transform: boomWorld}); err != nil {
		return rig, fmt.Errorf("camera rig: add boom transform: %w", err)
	}
	if err := ecs.Add(w, rig.Boom, component.CameraBoomComponent.Kind(), &component.CameraBoom{
		Name: spec.Name,
		Spec: specName,
		Arm:  arm,
	}); err != nil {
		return rig, fmt.Errorf("camera rig: add boom: %w", err)
	}

	zoom := spec.Camera.Zoom
	if zoom == 0 {
		zoom = 1
	}
	camera := &component.Camera{Boom: uint64(rig.Boom), Zoom: zoom}
	if mc := spec.Camera.MarkerColor; mc != nil {
		camera.MarkerColor = mc.Color
	}
	rig.Camera = ecs.CreateEntity(w)
	if err := ecs.Add(w, rig.Camera, component.CameraComponent.Kind(), camera); err != nil {
		return rig, fmt.Errorf("camera rig: add camera: %w", err)
	}
	socket := arm.SocketTransform(springarm.SpaceWorld, boomWorld, boomWorld)
	if err := ecs.Add(w, rig.Camera, component.TransformComponent.Kind(), &component.Transform{Transform: socket}); err != nil {
		return rig, fmt.Errorf("camera rig: add camera transform: %w", err)
	}

	return rig, nil
}

// RigSpecOf rebuilds a rig spec from the live entities of rig: the boom's
// current configuration, the target's current transform and script, and the
// camera settings. Building a rig from the result reproduces the rig as it
// is now.
func RigSpecOf(w *ecs.World, rig CameraRig) (prefabs.RigSpec, error) {
	boom, ok := ecs.Get(w, rig.Boom, component.CameraBoomComponent.Kind())
	if !ok || boom.Arm == nil {
		return prefabs.RigSpec{}, fmt.Errorf("camera rig: boom %v: %w", rig.Boom, ecs.ErrEntityNotAlive)
	}
	spec := prefabs.RigSpecFromConfig(boom.Name, boom.Arm.Config())
	spec.RelativeRotation = prefabs.RotatorSpecOf(boom.Arm.RelativeRotation)

	if tr, ok := ecs.Get(w, rig.Target, component.TransformComponent.Kind()); ok {
		spec.Transform = prefabs.TransformSpec{
			Location: prefabs.Vec3SpecOf(tr.Location),
			Rotation: prefabs.RotatorSpecOf(tr.Rotator()),
		}
	}
	if script, ok := ecs.Get(w, rig.Target, component.TargetScriptComponent.Kind()); ok {
		spec.Script = script.Path
	}
	if cam, ok := ecs.Get(w, rig.Camera, component.CameraComponent.Kind()); ok {
		spec.Camera.Zoom = cam.Zoom
		if cam.MarkerColor != nil {
			spec.Camera.MarkerColor = &prefabs.YAMLColor{Color: cam.MarkerColor}
		}
	}
	return spec, nil
}
