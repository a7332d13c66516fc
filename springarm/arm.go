// Package springarm implements a camera boom: a follow camera that trails a
// target at a fixed arm length, lags behind its motion and pulls in when the
// arm would pass through geometry.
package springarm

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/camboom/common"
)

// State is the per-boom memory carried from one tick to the next.
type State struct {
	PreviousArmOrigin       mgl64.Vec3
	PreviousDesiredLocation mgl64.Vec3
	PreviousDesiredRotation common.Rotator

	RelativeSocketLocation mgl64.Vec3
	RelativeSocketRotation mgl64.Quat

	Last        TickInfo
	Initialized bool
}

// PreviousDesiredQuat returns the lagged rotation as a quaternion.
func (s *State) PreviousDesiredQuat() mgl64.Quat {
	return s.PreviousDesiredRotation.Quat()
}

// TickInfo records what the last update did, in world space. The viewer draws
// it as lag markers when Config.DrawDebugLagMarkers is set.
type TickInfo struct {
	DeltaTime        float64
	ArmOrigin        mgl64.Vec3
	DesiredLocation  mgl64.Vec3
	SweepEnd         mgl64.Vec3
	ResultLocation   mgl64.Vec3
	Clamped          bool
	Traced           bool
	Blocked          bool
	ProbeFailed      bool
	LocationSubsteps int
	RotationSubsteps int
}

// Frame is everything Update reads about the boom's surroundings this tick.
type Frame struct {
	WorldRotation    mgl64.Quat
	WorldLocation    mgl64.Vec3
	RelativeRotation common.Rotator
	// ControlRotation replaces the world rotation as the desired rotation
	// when Config.UseControlRotation is set. Nil means no controller. Only the
	// desired rotation changes: RelativeRotation still feeds the axes the
	// inherit flags turn off, and the relative socket rotation is measured
	// against WorldRotation, not the control rotation.
	ControlRotation *common.Rotator
	DeltaTime       float64

	DoTrace       bool
	DoLocationLag bool
	DoRotationLag bool
}

// Update advances st by one tick and returns the new socket transform relative
// to the boom's own world transform. cfg is sanitized before use. A state that
// has never been updated is snapped regardless of the lag flags.
func Update(cfg Config, st *State, f Frame, probe CollisionProbe) (mgl64.Vec3, mgl64.Quat) {
	return update(cfg, st, f, probe, nil, nil)
}

func update(cfg Config, st *State, f Frame, probe CollisionProbe, blend BlendFunc, logger *slog.Logger) (mgl64.Vec3, mgl64.Quat) {
	cfg = cfg.Sanitize()
	dt := f.DeltaTime
	if !common.IsFinite(dt) || dt < 0 {
		if logger != nil {
			logger.Debug("springarm: invalid delta time, treating as zero", "dt", dt)
		}
		dt = 0
	}
	if !st.Initialized {
		f.DoLocationLag = false
		f.DoRotationLag = false
	}

	info := TickInfo{DeltaTime: dt}

	desiredRot := common.RotatorFromQuat(f.WorldRotation)
	if cfg.UseControlRotation && f.ControlRotation != nil {
		desiredRot = *f.ControlRotation
	}
	if !cfg.AbsoluteRotation {
		if !cfg.InheritPitch {
			desiredRot.Pitch = f.RelativeRotation.Pitch
		}
		if !cfg.InheritYaw {
			desiredRot.Yaw = f.RelativeRotation.Yaw
		}
		if !cfg.InheritRoll {
			desiredRot.Roll = f.RelativeRotation.Roll
		}
	}

	if f.DoRotationLag {
		desiredRot, info.RotationSubsteps = lagRotation(cfg, st.PreviousDesiredRotation, desiredRot, dt)
	}
	st.PreviousDesiredRotation = desiredRot

	// The origin lags, not the camera, so orbiting the camera has no lag.
	armOrigin := f.WorldLocation.Add(cfg.TargetOffset)
	desiredLoc := armOrigin
	if f.DoLocationLag {
		desiredLoc, info.LocationSubsteps = lagLocation(cfg, st.PreviousArmOrigin, st.PreviousDesiredLocation, armOrigin, dt)
		desiredLoc, info.Clamped = clampToOrigin(desiredLoc, armOrigin, cfg.LagMaxDistance)
	}
	st.PreviousArmOrigin = armOrigin
	st.PreviousDesiredLocation = desiredLoc

	rotQuat := desiredRot.Quat()
	laggedOrigin := desiredLoc
	desiredLoc = desiredLoc.Sub(desiredRot.Vector().Mul(cfg.TargetArmLength))
	desiredLoc = desiredLoc.Add(rotQuat.Rotate(cfg.SocketOffset))

	resultLoc := desiredLoc
	if f.DoTrace && cfg.TargetArmLength != 0 && probe != nil {
		info.Traced = true
		hit, err := probe.SweepSphere(armOrigin, desiredLoc, cfg.ProbeSize, cfg.ProbeChannel)
		if err != nil {
			if logger != nil {
				logger.Debug("springarm: probe failed, using uncollided location", "err", err)
			}
			info.ProbeFailed = true
			hit = HitResult{}
		}
		info.Blocked = hit.Blocking
		if blend == nil {
			blend = SelectBlend
		}
		resultLoc = blend(desiredLoc, hit.Location, hit.Blocking, dt)
	}

	info.ArmOrigin = armOrigin
	info.DesiredLocation = laggedOrigin
	info.SweepEnd = desiredLoc
	info.ResultLocation = resultLoc
	st.Last = info

	component := common.NewTransform(f.WorldRotation, f.WorldLocation)
	rel := common.NewTransform(rotQuat, resultLoc).RelativeTo(component)
	st.RelativeSocketLocation = rel.Location
	st.RelativeSocketRotation = rel.Rotation
	st.Initialized = true

	return rel.Location, rel.Rotation
}
