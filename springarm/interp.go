package springarm

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/camboom/common"
)

const rotatorTolerance = 1e-4

// vInterpTo moves current toward target over dt at speed. A non-positive
// speed snaps to target.
func vInterpTo(current, target mgl64.Vec3, dt, speed float64, curve LagCurve) mgl64.Vec3 {
	if speed <= 0 {
		return target
	}
	dist := target.Sub(current)
	if dist.Dot(dist) < common.KindaSmallNumber {
		return target
	}
	return current.Add(dist.Mul(curve.Alpha(speed, dt)))
}

// rInterpTo is vInterpTo for rotators, taking the short way around each axis.
func rInterpTo(current, target common.Rotator, dt, speed float64, curve LagCurve) common.Rotator {
	if dt == 0 || current == target {
		return current
	}
	if speed <= 0 {
		return target
	}
	delta := target.Sub(current).Normalized()
	if delta.IsNearlyZero(rotatorTolerance) {
		return target
	}
	return current.Add(delta.Scale(curve.Alpha(speed, dt))).Normalized()
}

// lagLocation interpolates the arm origin, substepping large frames so each
// step covers at most maxStep seconds.
func lagLocation(cfg Config, prevOrigin, prevDesired, origin mgl64.Vec3, dt float64) (mgl64.Vec3, int) {
	if !cfg.UseSubstepping || dt <= cfg.LagMaxTimeStep || cfg.LocationLagSpeed <= 0 {
		return vInterpTo(prevDesired, origin, dt, cfg.LocationLagSpeed, cfg.LagCurve), 0
	}

	invStep := 1 / cfg.LagMaxTimeStep
	step := origin.Sub(prevOrigin).Mul(cfg.LagMaxTimeStep / dt)
	target := prevOrigin
	desired := prevDesired
	substeps := 0
	for remaining := dt; remaining > common.KindaSmallNumber; {
		amount := min(cfg.LagMaxTimeStep, remaining)
		target = target.Add(step.Mul(amount * invStep))
		remaining -= amount

		desired = vInterpTo(desired, target, amount, cfg.LocationLagSpeed, cfg.LagCurve)
		substeps++
	}
	return desired, substeps
}

// lagRotation is lagLocation for the desired rotation.
func lagRotation(cfg Config, prev, desired common.Rotator, dt float64) (common.Rotator, int) {
	if !cfg.UseSubstepping || dt <= cfg.LagMaxTimeStep || cfg.RotationLagSpeed <= 0 {
		return rInterpTo(prev, desired, dt, cfg.RotationLagSpeed, cfg.LagCurve), 0
	}

	invStep := 1 / cfg.LagMaxTimeStep
	step := desired.Sub(prev).Normalized().Scale(cfg.LagMaxTimeStep / dt)
	target := prev
	out := prev
	substeps := 0
	for remaining := dt; remaining > common.KindaSmallNumber; {
		amount := min(cfg.LagMaxTimeStep, remaining)
		target = target.Add(step.Scale(amount * invStep))
		remaining -= amount

		out = rInterpTo(out, target, amount, cfg.RotationLagSpeed, cfg.LagCurve)
		substeps++
	}
	return out, substeps
}

// clampToOrigin pulls loc back within maxDist of origin, keeping direction.
func clampToOrigin(loc, origin mgl64.Vec3, maxDist float64) (mgl64.Vec3, bool) {
	if maxDist <= 0 {
		return loc, false
	}
	from := loc.Sub(origin)
	if from.Dot(from) <= maxDist*maxDist {
		return loc, false
	}
	return origin.Add(from.Normalize().Mul(maxDist)), true
}
