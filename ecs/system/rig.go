package system

import (
	"log/slog"

	"github.com/milk9111/camboom/ecs"
	"github.com/milk9111/camboom/prefabs"
)

// RigSystems are the systems that drive camera rigs.
type RigSystems struct {
	Reload    *ReloadSystem
	Scripts   *TargetScriptSystem
	Hierarchy *HierarchySystem
	Booms     *CameraBoomSystem
	Cameras   *CameraSystem
}

// NewRigSystems wires the rig systems together. changes may be nil.
func NewRigSystems(changes <-chan prefabs.Change, observer Observer, logger *slog.Logger) *RigSystems {
	if logger == nil {
		logger = slog.Default()
	}
	scripts := NewTargetScriptSystem(logger)
	return &RigSystems{
		Reload:    NewReloadSystem(changes, scripts, logger),
		Scripts:   scripts,
		Hierarchy: NewHierarchySystem(logger),
		Booms:     NewCameraBoomSystem(observer),
		Cameras:   NewCameraSystem(),
	}
}

// Scheduler orders the systems so that reloads land before scripts move the
// targets, targets move before the hierarchy resolves, and cameras read the
// booms after they ticked.
func (rs *RigSystems) Scheduler() *ecs.Scheduler {
	return ecs.NewScheduler(rs.Reload, rs.Scripts, rs.Hierarchy, rs.Booms, rs.Cameras)
}
