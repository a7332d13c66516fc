package main

import (
	"fmt"
	"image/color"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/camboom/common"
	"github.com/milk9111/camboom/ecs"
	"github.com/milk9111/camboom/ecs/component"
	"github.com/milk9111/camboom/ecs/entity"
	"github.com/milk9111/camboom/ecs/system"
	"github.com/milk9111/camboom/levels"
	"github.com/milk9111/camboom/physics"
	"github.com/milk9111/camboom/prefabs"
	"github.com/milk9111/camboom/springarm"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

const (
	defaultRig = "side.yaml"

	// manual target speed in world units per second
	moveSpeed = 320.0
	// control rotation speed in degrees per second
	turnSpeed = 90.0
)

type Game struct {
	frames int
	debug  bool
	paused bool

	world   *ecs.World
	systems *system.RigSystems
	sched   *ecs.Scheduler
	rig     entity.CameraRig

	level   *levelView
	view    *viewport
	watcher *prefabs.Watcher

	ui          *ebitenui.UI
	markerColor color.Color
	clipboardOK bool

	// script path stashed while the target is driven by hand
	manualScript string
	manual       bool

	status string
}

func NewGame(levelName, rigName string, debug bool) (*Game, error) {
	if !strings.HasSuffix(levelName, ".json") {
		levelName += ".json"
	}
	lvl, err := levels.LoadLevelFromFS(levelName)
	if err != nil {
		return nil, fmt.Errorf("load level %s: %w", levelName, err)
	}

	tileSize := lvl.TileSize
	if tileSize <= 0 {
		tileSize = physics.DefaultTileSize
	}
	probe, err := physics.NewPlaneProbeFromLevel(lvl, tileSize, springarm.MaskOf(springarm.ChannelCamera, springarm.ChannelVisibility))
	if err != nil {
		return nil, fmt.Errorf("build collision: %w", err)
	}

	if rigName == "" {
		rigName = defaultRig
		if e, ok := lvl.Entity("rig"); ok {
			if s, ok := e.Props["spec"].(string); ok && s != "" {
				rigName = s
			}
		}
	}
	spec, err := prefabs.LoadRigSpec(rigName)
	if err != nil {
		return nil, err
	}
	if e, ok := lvl.Entity("target"); ok {
		spec.Transform.Location.X = float64(e.X) * tileSize
		spec.Transform.Location.Z = float64(lvl.Height-e.Y)*tileSize - tileSize/2
		if s, ok := e.Props["script"].(string); ok && s != "" {
			spec.Script = s
		}
	}

	g := &Game{
		debug:       debug,
		world:       ecs.NewWorld(),
		level:       newLevelView(lvl, tileSize),
		markerColor: colornames.Gold,
	}

	var changes <-chan prefabs.Change
	if w, err := newPrefabWatcher(); err != nil {
		log.Printf("hot reload disabled: %v", err)
	} else {
		g.watcher = w
		changes = w.Events
	}

	logger := slog.Default()
	g.systems = system.NewRigSystems(changes, nil, logger)
	g.sched = g.systems.Scheduler()

	g.rig, err = entity.NewCameraRig(g.world, rigName, spec, probe, logger)
	if err != nil {
		return nil, err
	}

	zoom := 1.0
	if cam, ok := ecs.Get(g.world, g.rig.Camera, component.CameraComponent.Kind()); ok {
		zoom = cam.Zoom
		if cam.MarkerColor != nil {
			g.markerColor = cam.MarkerColor
		}
	}
	g.view = newViewport(common.BaseWidth, common.BaseHeight, zoom)
	g.view.SetWorldBounds(g.level.PixelSize())
	g.follow()

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}
	g.ui = NewRigUI(g)
	return g, nil
}

// newPrefabWatcher watches the on-disk prefab and script directories, when
// they exist, so edits reload without a restart.
func newPrefabWatcher() (*prefabs.Watcher, error) {
	var dirs []string
	for _, dir := range []string{prefabs.DiskRoot, filepath.Join(prefabs.DiskRoot, "scripts")} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no %s directory", prefabs.DiskRoot)
	}
	return prefabs.NewWatcher(dirs...)
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) boom() *component.CameraBoom {
	boom, _ := ecs.Get(g.world, g.rig.Boom, component.CameraBoomComponent.Kind())
	return boom
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}

	dt := 1.0 / float64(ebiten.TPS())
	g.handleInput(dt)
	g.sched.Tick(g.world, dt)
	g.follow()

	for _, evt := range g.world.Events().Drain() {
		data, _ := evt.Data.(system.ReloadEvent)
		if data.Err != nil {
			g.status = fmt.Sprintf("%s %s: %v", evt.Type, data.Name, data.Err)
			continue
		}
		g.status = fmt.Sprintf("%s %s", evt.Type, data.Name)
	}
	return nil
}

func (g *Game) handleInput(dt float64) {
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.toggleManual()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyRig()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		if boom := g.boom(); boom != nil {
			req := ecs.CreateEntity(g.world)
			_ = ecs.Add(g.world, req, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{Name: boom.Spec})
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}

	if cr, ok := ecs.Get(g.world, g.rig.Target, component.ControlRotationComponent.Kind()); ok {
		if ebiten.IsKeyPressed(ebiten.KeyQ) {
			cr.Rotator.Yaw -= turnSpeed * dt
		}
		if ebiten.IsKeyPressed(ebiten.KeyE) {
			cr.Rotator.Yaw += turnSpeed * dt
		}
		if ebiten.IsKeyPressed(ebiten.KeyR) {
			cr.Rotator.Pitch = common.Clamp(cr.Rotator.Pitch+turnSpeed*dt, -89, 89)
		}
		if ebiten.IsKeyPressed(ebiten.KeyF) {
			cr.Rotator.Pitch = common.Clamp(cr.Rotator.Pitch-turnSpeed*dt, -89, 89)
		}
		cr.Rotator = cr.Rotator.Normalized()
	}

	if !g.manual {
		return
	}
	tr, ok := ecs.Get(g.world, g.rig.Target, component.TransformComponent.Kind())
	if !ok {
		return
	}
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	up := ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	down := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	step := moveSpeed * dt
	if left {
		tr.Location[0] -= step
	}
	if right {
		tr.Location[0] += step
	}
	if up {
		tr.Location[2] += step
	}
	if down {
		tr.Location[2] -= step
	}
	if cr, ok := ecs.Get(g.world, g.rig.Target, component.ControlRotationComponent.Kind()); ok {
		tr.Rotation = cr.Rotator.Quat()
	}
}

// toggleManual switches the target between its script and the keyboard.
func (g *Game) toggleManual() {
	g.manual = !g.manual
	if g.manual {
		if script, ok := ecs.Get(g.world, g.rig.Target, component.TargetScriptComponent.Kind()); ok {
			g.manualScript = script.Path
			ecs.Remove(g.world, g.rig.Target, component.TargetScriptComponent.Kind())
		}
		g.status = "manual control"
		return
	}
	if g.manualScript != "" {
		_ = ecs.Add(g.world, g.rig.Target, component.TargetScriptComponent.Kind(), &component.TargetScript{Path: g.manualScript})
	}
	g.status = "scripted control"
}

// copyRig puts the rig's live configuration on the clipboard as yaml.
func (g *Game) copyRig() {
	spec, err := entity.RigSpecOf(g.world, g.rig)
	if err != nil {
		g.status = err.Error()
		return
	}
	data, err := spec.Marshal()
	if err != nil {
		g.status = err.Error()
		return
	}
	if !g.clipboardOK {
		g.status = "clipboard unavailable"
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.status = fmt.Sprintf("copied %s (%d bytes)", spec.Name, len(data))
}

// configure edits the live boom configuration. Lag state is kept.
func (g *Game) configure(edit func(cfg *springarm.Config)) {
	boom := g.boom()
	if boom == nil || boom.Arm == nil {
		return
	}
	cfg := boom.Arm.Config()
	edit(&cfg)
	boom.Arm.Configure(cfg)
}

// follow centers the view on the camera socket.
func (g *Game) follow() {
	tr, ok := ecs.Get(g.world, g.rig.Camera, component.TransformComponent.Kind())
	if !ok {
		return
	}
	g.view.SnapTo(g.level.ToPixel(tr.Location.X(), tr.Location.Z()))
}

func (g *Game) screenPos(x, z float64) (float32, float32) {
	return g.view.ToScreen(g.level.ToPixel(x, z))
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	camX, camY := g.view.ViewTopLeft()
	g.level.Draw(screen, camX, camY, g.view.Zoom())
	g.drawRig(screen)

	ebitenutil.DebugPrint(screen, g.hud())
	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) drawRig(screen *ebiten.Image) {
	zoom := float32(g.view.Zoom())

	if tr, ok := ecs.Get(g.world, g.rig.Target, component.TransformComponent.Kind()); ok {
		x, y := g.screenPos(tr.Location.X(), tr.Location.Z())
		vector.FillCircle(screen, x, y, 14*zoom, colornames.Crimson, true)
	}

	boom := g.boom()
	if boom == nil || boom.Arm == nil {
		return
	}
	cfg := boom.Arm.Config()
	info := boom.Arm.State().Last

	ox, oy := g.screenPos(info.ArmOrigin.X(), info.ArmOrigin.Z())
	rx, ry := g.screenPos(info.ResultLocation.X(), info.ResultLocation.Z())
	vector.StrokeLine(screen, ox, oy, rx, ry, 3, colornames.Lightgrey, true)
	if cfg.DoCollisionTest {
		vector.StrokeCircle(screen, rx, ry, float32(cfg.ProbeSize)*zoom, 1.5, colornames.Lightgrey, true)
	}

	if cfg.DrawDebugLagMarkers || g.debug {
		dx, dy := g.screenPos(info.DesiredLocation.X(), info.DesiredLocation.Z())
		vector.StrokeLine(screen, ox, oy, dx, dy, 1, g.markerColor, true)
		vector.FillCircle(screen, dx, dy, 5*zoom, g.markerColor, true)
		vector.FillCircle(screen, ox, oy, 3*zoom, colornames.White, true)

		ex, ey := g.screenPos(info.SweepEnd.X(), info.SweepEnd.Z())
		marker := colornames.Orange
		if info.Blocked {
			marker = colornames.Red
			vector.StrokeLine(screen, rx, ry, ex, ey, 1, marker, true)
		}
		vector.StrokeLine(screen, ex-6, ey-6, ex+6, ey+6, 2, marker, true)
		vector.StrokeLine(screen, ex-6, ey+6, ex+6, ey-6, 2, marker, true)
	}

	if tr, ok := ecs.Get(g.world, g.rig.Camera, component.TransformComponent.Kind()); ok {
		cx, cy := g.screenPos(tr.Location.X(), tr.Location.Z())
		vector.StrokeRect(screen, cx-8, cy-6, 16, 12, 2, colornames.Aquamarine, true)
	}
}

func (g *Game) hud() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Frames: %d    FPS: %.2f\n", g.frames, ebiten.ActualFPS())
	if boom := g.boom(); boom != nil && boom.Arm != nil {
		cfg := boom.Arm.Config()
		info := boom.Arm.State().Last
		fmt.Fprintf(&b, "rig %s  arm %.0f  lag loc=%t rot=%t  collision=%t\n",
			boom.Name, cfg.TargetArmLength, cfg.EnableLocationLag, cfg.EnableRotationLag, cfg.DoCollisionTest)
		if g.debug {
			fmt.Fprintf(&b, "substeps %d/%d  clamped=%t  blocked=%t  probe_failed=%t\n",
				info.LocationSubsteps, info.RotationSubsteps, info.Clamped, info.Blocked, info.ProbeFailed)
		}
	}
	if script, ok := ecs.Get(g.world, g.rig.Target, component.TargetScriptComponent.Kind()); ok && script.LastError != "" {
		fmt.Fprintf(&b, "script %s: %s\n", script.Path, script.LastError)
	}
	b.WriteString("M manual  WASD move  Q/E yaw  R/F pitch  P panel  C copy  L reload  F1 debug\n")
	if g.status != "" {
		b.WriteString(g.status)
	}
	return b.String()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
