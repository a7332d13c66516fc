package system

import (
	"log/slog"

	"github.com/milk9111/camboom/common"
	"github.com/milk9111/camboom/ecs"
	"github.com/milk9111/camboom/ecs/component"
)

// maxAttachmentDepth bounds parent chains so a cycle cannot recurse forever.
const maxAttachmentDepth = 32

// HierarchySystem resolves Attachment components into world Transforms,
// parents before children.
type HierarchySystem struct {
	logger *slog.Logger
}

func NewHierarchySystem(logger *slog.Logger) *HierarchySystem {
	if logger == nil {
		logger = slog.Default()
	}
	return &HierarchySystem{logger: logger}
}

func (hs *HierarchySystem) Update(w *ecs.World) {
	resolved := make(map[ecs.Entity]bool)

	var resolve func(e ecs.Entity, depth int) (common.Transform, bool)
	resolve = func(e ecs.Entity, depth int) (common.Transform, bool) {
		tr, hasTransform := ecs.Get(w, e, component.TransformComponent.Kind())
		if resolved[e] && hasTransform {
			return tr.Transform, true
		}

		att, ok := ecs.Get(w, e, component.AttachmentComponent.Kind())
		if !ok {
			if !hasTransform {
				return common.Transform{}, false
			}
			resolved[e] = true
			return tr.Transform, true
		}
		if depth >= maxAttachmentDepth {
			hs.logger.Warn("hierarchy: attachment chain too deep", "entity", e.String())
			return common.Transform{}, false
		}

		parentWorld, ok := resolve(ecs.Entity(att.Parent), depth+1)
		if !ok {
			return common.Transform{}, false
		}
		world := att.Relative.ToWorld(parentWorld)
		if hasTransform {
			tr.Transform = world
		} else if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Transform: world}); err != nil {
			hs.logger.Warn("hierarchy: add transform", "entity", e.String(), "err", err)
			return common.Transform{}, false
		}
		resolved[e] = true
		return world, true
	}

	ecs.ForEach(w, component.AttachmentComponent.Kind(), func(e ecs.Entity, _ *component.Attachment) {
		resolve(e, 0)
	})
}
