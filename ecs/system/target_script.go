package system

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/camboom/common"
	"github.com/milk9111/camboom/ecs"
	"github.com/milk9111/camboom/ecs/component"
	"github.com/milk9111/camboom/prefabs"
)

// Scripts read __time and __dt and may define any of:
//
//	location := [x, y, z]
//	rotation := [pitch, yaw, roll]
//	control  := [pitch, yaw, roll]
//
// location and rotation set the entity's Transform; control sets its
// ControlRotation when it has one.
type TargetScriptSystem struct {
	logger   *slog.Logger
	load     func(name string) ([]byte, error)
	runtimes map[ecs.Entity]*targetScriptRuntime
}

type targetScriptRuntime struct {
	path     string
	compiled *tengo.Compiled
}

func NewTargetScriptSystem(logger *slog.Logger) *TargetScriptSystem {
	if logger == nil {
		logger = slog.Default()
	}
	return &TargetScriptSystem{
		logger:   logger,
		load:     prefabs.LoadScript,
		runtimes: make(map[ecs.Entity]*targetScriptRuntime),
	}
}

// WithLoader replaces the script source, for scripts that do not live in the
// prefabs directory.
func (ts *TargetScriptSystem) WithLoader(load func(name string) ([]byte, error)) *TargetScriptSystem {
	ts.load = load
	return ts
}

// Invalidate drops compiled scripts named name so the next update recompiles
// them from source.
func (ts *TargetScriptSystem) Invalidate(name string) int {
	dropped := 0
	for e, rt := range ts.runtimes {
		if prefabs.ScriptName(rt.path) == prefabs.ScriptName(name) {
			delete(ts.runtimes, e)
			dropped++
		}
	}
	return dropped
}

func (ts *TargetScriptSystem) Update(w *ecs.World) {
	clock := w.Clock()
	ecs.ForEach2(w, component.TargetScriptComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, script *component.TargetScript, tr *component.Transform) {
		if strings.TrimSpace(script.Path) == "" {
			return
		}
		rt, err := ts.runtime(e, script.Path)
		if err != nil {
			ts.fail(e, script, "compile", err)
			return
		}
		if err := rt.run(clock.Elapsed(), clock.Delta()); err != nil {
			ts.fail(e, script, "run", err)
			return
		}

		if loc, ok, err := rt.vec3("location"); err != nil {
			ts.fail(e, script, "location", err)
			return
		} else if ok {
			tr.Location = loc
		}
		if rot, ok, err := rt.vec3("rotation"); err != nil {
			ts.fail(e, script, "rotation", err)
			return
		} else if ok {
			tr.Rotation = rotatorOf(rot).Quat()
		}
		if ctrl, ok, err := rt.vec3("control"); err != nil {
			ts.fail(e, script, "control", err)
			return
		} else if ok {
			if cr, has := ecs.Get(w, e, component.ControlRotationComponent.Kind()); has {
				cr.Rotator = rotatorOf(ctrl)
			}
		}
		script.LastError = ""
	})

	for e := range ts.runtimes {
		if !ecs.Has(w, e, component.TargetScriptComponent.Kind()) {
			delete(ts.runtimes, e)
		}
	}
}

func (ts *TargetScriptSystem) fail(e ecs.Entity, script *component.TargetScript, stage string, err error) {
	msg := fmt.Sprintf("%s: %v", stage, err)
	if script.LastError != msg {
		ts.logger.Warn("target script failed", "entity", e.String(), "script", script.Path, "stage", stage, "err", err)
	}
	script.LastError = msg
}

func (ts *TargetScriptSystem) runtime(e ecs.Entity, path string) (*targetScriptRuntime, error) {
	if rt, ok := ts.runtimes[e]; ok && rt.path == path {
		return rt, nil
	}

	src, err := ts.load(path)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript(src)
	_ = script.Add("__time", 0.0)
	_ = script.Add("__dt", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}

	rt := &targetScriptRuntime{path: path, compiled: compiled}
	ts.runtimes[e] = rt
	return rt, nil
}

func (rt *targetScriptRuntime) run(elapsed, dt float64) error {
	if err := rt.compiled.Set("__time", elapsed); err != nil {
		return err
	}
	if err := rt.compiled.Set("__dt", dt); err != nil {
		return err
	}
	return rt.compiled.Run()
}

// vec3 reads a three-number array global. ok is false when the script does
// not define name.
func (rt *targetScriptRuntime) vec3(name string) (mgl64.Vec3, bool, error) {
	if !rt.compiled.IsDefined(name) {
		return mgl64.Vec3{}, false, nil
	}
	v := rt.compiled.Get(name)
	if v.IsUndefined() {
		return mgl64.Vec3{}, false, nil
	}
	arr, ok := v.Value().([]interface{})
	if !ok || len(arr) != 3 {
		return mgl64.Vec3{}, false, fmt.Errorf("%s must be an array of 3 numbers, got %s", name, v.ValueType())
	}
	var out mgl64.Vec3
	for i, item := range arr {
		f, ok := toFloat(item)
		if !ok || !common.IsFinite(f) {
			return mgl64.Vec3{}, false, fmt.Errorf("%s[%d] is not a finite number", name, i)
		}
		out[i] = f
	}
	return out, true, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func rotatorOf(v mgl64.Vec3) common.Rotator {
	return common.Rotator{Pitch: v[0], Yaw: v[1], Roll: v[2]}
}
