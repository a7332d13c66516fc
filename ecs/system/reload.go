package system

import (
	"log/slog"
	"path/filepath"

	"github.com/milk9111/camboom/common"
	"github.com/milk9111/camboom/ecs"
	"github.com/milk9111/camboom/ecs/component"
	"github.com/milk9111/camboom/prefabs"
)

const (
	EventRigReloaded    = "rig_reloaded"
	EventScriptReloaded = "script_reloaded"
	EventReloadFailed   = "reload_failed"
)

// ReloadEvent is the Data of the reload events.
type ReloadEvent struct {
	Name string
	Err  error
}

type ScriptInvalidator interface {
	Invalidate(name string) int
}

// ReloadSystem applies edited rig specs and scripts between ticks. Changes
// come from a prefabs.Watcher and from ReloadRequest entities. Lag state is
// kept across a reload.
type ReloadSystem struct {
	changes  <-chan prefabs.Change
	scripts  ScriptInvalidator
	loadSpec func(name string) (prefabs.RigSpec, error)
	logger   *slog.Logger
}

// NewReloadSystem builds a reload system. changes may be nil when only
// ReloadRequest entities are used.
func NewReloadSystem(changes <-chan prefabs.Change, scripts ScriptInvalidator, logger *slog.Logger) *ReloadSystem {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReloadSystem{
		changes:  changes,
		scripts:  scripts,
		loadSpec: prefabs.LoadRigSpec,
		logger:   logger,
	}
}

func (rs *ReloadSystem) Update(w *ecs.World) {
drain:
	for rs.changes != nil {
		select {
		case ch, ok := <-rs.changes:
			if !ok {
				rs.changes = nil
				break drain
			}
			rs.apply(w, ch.Name(), ch.Kind)
		default:
			break drain
		}
	}

	var handled []ecs.Entity
	ecs.ForEach(w, component.ReloadRequestComponent.Kind(), func(e ecs.Entity, req *component.ReloadRequest) {
		handled = append(handled, e)
		kind, ok := prefabs.Classify(req.Name)
		if !ok {
			rs.logger.Warn("reload: unknown file type", "name", req.Name)
			return
		}
		rs.apply(w, filepath.Base(req.Name), kind)
	})
	for _, e := range handled {
		ecs.DestroyEntity(w, e)
	}
}

func (rs *ReloadSystem) apply(w *ecs.World, name string, kind prefabs.ChangeKind) {
	if kind == prefabs.ChangeScript {
		dropped := 0
		if rs.scripts != nil {
			dropped = rs.scripts.Invalidate(name)
		}
		rs.logger.Info("reload: script", "script", name, "runtimes", dropped)
		w.Events().Push(ecs.Event{Type: EventScriptReloaded, Data: ReloadEvent{Name: name}})
		return
	}

	var (
		spec    prefabs.RigSpec
		loaded  bool
		lastErr error
	)
	ecs.ForEach(w, component.CameraBoomComponent.Kind(), func(e ecs.Entity, boom *component.CameraBoom) {
		if boom.Arm == nil || filepath.Base(boom.Spec) != name || lastErr != nil {
			return
		}
		if !loaded {
			spec, lastErr = rs.loadSpec(name)
			if lastErr != nil {
				return
			}
			loaded = true
		}
		cfg, err := spec.ArmConfig()
		if err != nil {
			lastErr = err
			return
		}

		boom.Arm.Configure(cfg)
		boom.Arm.RelativeRotation = spec.RelativeRotation.Rotator()
		boom.Name = spec.Name

		att, ok := ecs.Get(w, e, component.AttachmentComponent.Kind())
		if !ok {
			return
		}
		att.Relative = common.NewTransform(boom.Arm.RelativeRotation.Quat(), att.Relative.Location)
		if script, ok := ecs.Get(w, ecs.Entity(att.Parent), component.TargetScriptComponent.Kind()); ok && spec.Script != "" {
			script.Path = spec.Script
		}
	})

	if lastErr != nil {
		rs.logger.Warn("reload: rig spec", "spec", name, "err", lastErr)
		w.Events().Push(ecs.Event{Type: EventReloadFailed, Data: ReloadEvent{Name: name, Err: lastErr}})
		return
	}
	if loaded {
		rs.logger.Info("reload: rig spec", "spec", name, "rig", spec.Name)
		w.Events().Push(ecs.Event{Type: EventRigReloaded, Data: ReloadEvent{Name: name}})
	}
}
