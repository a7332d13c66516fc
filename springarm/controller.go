package springarm

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/camboom/common"
)

// Space selects the frame SocketTransform reports in.
type Space uint8

const (
	SpaceComponent Space = iota
	SpaceWorld
	SpaceActor
)

// Arm owns one boom's configuration and state. It is not safe for concurrent
// use; each camera rig owns its own Arm.
type Arm struct {
	cfg   Config
	state State

	// RelativeRotation is the boom's rotation relative to its parent. Axes
	// that are not inherited are taken from here.
	RelativeRotation common.Rotator

	probe   CollisionProbe
	blend   BlendFunc
	logger  *slog.Logger
	control *common.Rotator
}

type Option func(*Arm)

func WithProbe(p CollisionProbe) Option {
	return func(a *Arm) { a.probe = p }
}

func WithBlend(b BlendFunc) Option {
	return func(a *Arm) { a.blend = b }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Arm) { a.logger = l }
}

func WithRelativeRotation(r common.Rotator) Option {
	return func(a *Arm) { a.RelativeRotation = r }
}

// New returns an arm with a sanitized copy of cfg. The arm snaps on its first
// update; call Register to snap at a known transform up front.
func New(cfg Config, opts ...Option) *Arm {
	a := &Arm{cfg: cfg.Sanitize(), logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Arm) Config() Config {
	return a.cfg
}

// Configure replaces the configuration, keeping the lag state so a reload
// does not pop the camera.
func (a *Arm) Configure(cfg Config) {
	a.cfg = cfg.Sanitize()
}

func (a *Arm) SetProbe(p CollisionProbe) {
	a.probe = p
}

func (a *Arm) State() State {
	return a.state
}

// SetControlRotation records the controller's view rotation, used instead of
// the component rotation while Config.UseControlRotation is set.
func (a *Arm) SetControlRotation(r common.Rotator) {
	a.control = &r
}

func (a *Arm) ClearControlRotation() {
	a.control = nil
}

// Register places the arm at the given component transform with no lag and no
// trace, establishing the baseline the lag interpolates from.
func (a *Arm) Register(worldRot mgl64.Quat, worldLoc mgl64.Vec3) {
	a.cfg = a.cfg.Sanitize()
	a.state.Initialized = false
	a.Update(worldRot, worldLoc, 0, false, false, false)
}

// Tick runs one update using the configured collision and lag switches.
func (a *Arm) Tick(worldRot mgl64.Quat, worldLoc mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Quat) {
	return a.Update(worldRot, worldLoc, dt, a.cfg.DoCollisionTest, a.cfg.EnableLocationLag, a.cfg.EnableRotationLag)
}

// Update runs one step of the boom with explicit switches and returns the
// socket transform relative to the boom.
func (a *Arm) Update(worldRot mgl64.Quat, worldLoc mgl64.Vec3, dt float64, doTrace, doLocationLag, doRotationLag bool) (mgl64.Vec3, mgl64.Quat) {
	return update(a.cfg, &a.state, Frame{
		WorldRotation:    worldRot,
		WorldLocation:    worldLoc,
		RelativeRotation: a.RelativeRotation,
		ControlRotation:  a.control,
		DeltaTime:        dt,
		DoTrace:          doTrace,
		DoLocationLag:    doLocationLag,
		DoRotationLag:    doRotationLag,
	}, a.probe, a.blend, a.logger)
}

// RelativeSocket returns the last socket transform relative to the boom.
func (a *Arm) RelativeSocket() common.Transform {
	return common.NewTransform(a.state.RelativeSocketRotation, a.state.RelativeSocketLocation)
}

// SocketTransform reports the socket in the requested space. component is the
// boom's world transform and owner the world transform of the actor that owns
// it; owner is only read for SpaceActor.
func (a *Arm) SocketTransform(space Space, component, owner common.Transform) common.Transform {
	rel := a.RelativeSocket()
	switch space {
	case SpaceWorld:
		return rel.ToWorld(component)
	case SpaceActor:
		return rel.ToWorld(component).RelativeTo(owner)
	}
	return rel
}
