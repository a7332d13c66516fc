package system

import (
	"github.com/milk9111/camboom/common"
	"github.com/milk9111/camboom/ecs"
	"github.com/milk9111/camboom/ecs/component"
	"github.com/milk9111/camboom/springarm"
)

// Observer receives every boom update, after it ran.
type Observer interface {
	ObserveTick(rig string, cfg springarm.Config, info springarm.TickInfo)
}

// CameraBoomSystem ticks every boom from its entity's world Transform.
type CameraBoomSystem struct {
	observer Observer
}

func NewCameraBoomSystem(observer Observer) *CameraBoomSystem {
	return &CameraBoomSystem{observer: observer}
}

func (cs *CameraBoomSystem) Update(w *ecs.World) {
	dt := w.Clock().Delta()
	ecs.ForEach2(w, component.CameraBoomComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, boom *component.CameraBoom, tr *component.Transform) {
		if boom.Arm == nil {
			return
		}
		cfg := boom.Arm.Config()
		if cfg.UseControlRotation {
			if r, ok := controlRotation(w, e); ok {
				boom.Arm.SetControlRotation(r)
			} else {
				boom.Arm.ClearControlRotation()
			}
		}

		boom.Arm.Tick(tr.Rotation, tr.Location, dt)

		if cs.observer != nil {
			cs.observer.ObserveTick(boom.Name, cfg, boom.Arm.State().Last)
		}
	})
}

// controlRotation looks for a ControlRotation on the boom, then on its parent.
func controlRotation(w *ecs.World, e ecs.Entity) (common.Rotator, bool) {
	if cr, ok := ecs.Get(w, e, component.ControlRotationComponent.Kind()); ok {
		return cr.Rotator, true
	}
	att, ok := ecs.Get(w, e, component.AttachmentComponent.Kind())
	if !ok {
		return common.Rotator{}, false
	}
	if cr, ok := ecs.Get(w, ecs.Entity(att.Parent), component.ControlRotationComponent.Kind()); ok {
		return cr.Rotator, true
	}
	return common.Rotator{}, false
}
