package system

import (
	"github.com/milk9111/camboom/ecs"
	"github.com/milk9111/camboom/ecs/component"
	"github.com/milk9111/camboom/springarm"
)

type CameraSystem struct{}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

// Update moves each camera to the world socket of its boom. Cameras whose
// boom is gone keep their last transform.
func (cs *CameraSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.CameraComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, cam *component.Camera, tr *component.Transform) {
		boomEntity := ecs.Entity(cam.Boom)
		boom, ok := ecs.Get(w, boomEntity, component.CameraBoomComponent.Kind())
		if !ok || boom.Arm == nil {
			return
		}
		boomTransform, ok := ecs.Get(w, boomEntity, component.TransformComponent.Kind())
		if !ok {
			return
		}
		tr.Transform = boom.Arm.SocketTransform(springarm.SpaceWorld, boomTransform.Transform, boomTransform.Transform)
	})
}
