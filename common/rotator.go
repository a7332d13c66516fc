package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rotator is an Euler rotation in degrees. The world is Z-up with X forward:
// yaw turns about +Z, positive pitch lifts the forward vector toward +Z and
// roll turns about the forward axis.
type Rotator struct {
	Pitch float64
	Yaw   float64
	Roll  float64
}

const quatSingularityThreshold = 0.4999995

// RotatorFromQuat converts a unit quaternion to a rotator. Near the poles the
// yaw keeps the heading and roll absorbs the rest.
func RotatorFromQuat(q mgl64.Quat) Rotator {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.W

	singularity := z*x - w*y
	yawY := 2 * (w*z + x*y)
	yawX := 1 - 2*(y*y+z*z)
	yaw := mgl64.RadToDeg(math.Atan2(yawY, yawX))

	switch {
	case singularity < -quatSingularityThreshold:
		return Rotator{
			Pitch: -90,
			Yaw:   yaw,
			Roll:  NormalizeAxis(-yaw - 2*mgl64.RadToDeg(math.Atan2(x, w))),
		}
	case singularity > quatSingularityThreshold:
		return Rotator{
			Pitch: 90,
			Yaw:   yaw,
			Roll:  NormalizeAxis(yaw - 2*mgl64.RadToDeg(math.Atan2(x, w))),
		}
	}

	return Rotator{
		Pitch: mgl64.RadToDeg(math.Asin(Clamp(2*singularity, -1, 1))),
		Yaw:   yaw,
		Roll:  mgl64.RadToDeg(math.Atan2(-2*(w*x+y*z), 1-2*(x*x+y*y))),
	}
}

// Quat returns the rotation as a unit quaternion.
func (r Rotator) Quat() mgl64.Quat {
	sp, cp := math.Sincos(mgl64.DegToRad(math.Mod(r.Pitch, 360)) / 2)
	sy, cy := math.Sincos(mgl64.DegToRad(math.Mod(r.Yaw, 360)) / 2)
	sr, cr := math.Sincos(mgl64.DegToRad(math.Mod(r.Roll, 360)) / 2)

	return mgl64.Quat{
		W: cr*cp*cy + sr*sp*sy,
		V: mgl64.Vec3{
			cr*sp*sy - sr*cp*cy,
			-cr*sp*cy - sr*cp*sy,
			cr*cp*sy - sr*sp*cy,
		},
	}
}

// Vector returns the unit forward direction of the rotation. Roll does not
// affect it.
func (r Rotator) Vector() mgl64.Vec3 {
	sp, cp := math.Sincos(mgl64.DegToRad(r.Pitch))
	sy, cy := math.Sincos(mgl64.DegToRad(r.Yaw))
	return mgl64.Vec3{cp * cy, cp * sy, sp}
}

func (r Rotator) Add(o Rotator) Rotator {
	return Rotator{Pitch: r.Pitch + o.Pitch, Yaw: r.Yaw + o.Yaw, Roll: r.Roll + o.Roll}
}

func (r Rotator) Sub(o Rotator) Rotator {
	return Rotator{Pitch: r.Pitch - o.Pitch, Yaw: r.Yaw - o.Yaw, Roll: r.Roll - o.Roll}
}

func (r Rotator) Scale(s float64) Rotator {
	return Rotator{Pitch: r.Pitch * s, Yaw: r.Yaw * s, Roll: r.Roll * s}
}

// Normalized wraps every axis into (-180, 180].
func (r Rotator) Normalized() Rotator {
	return Rotator{Pitch: NormalizeAxis(r.Pitch), Yaw: NormalizeAxis(r.Yaw), Roll: NormalizeAxis(r.Roll)}
}

// IsNearlyZero reports whether every normalized axis is within tolerance of 0.
func (r Rotator) IsNearlyZero(tolerance float64) bool {
	return math.Abs(NormalizeAxis(r.Pitch)) <= tolerance &&
		math.Abs(NormalizeAxis(r.Yaw)) <= tolerance &&
		math.Abs(NormalizeAxis(r.Roll)) <= tolerance
}

// Equals compares two rotators axis by axis after wrapping.
func (r Rotator) Equals(o Rotator, tolerance float64) bool {
	return r.Sub(o).IsNearlyZero(tolerance)
}

// ClampAxis wraps an angle into [0, 360).
func ClampAxis(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}

// NormalizeAxis wraps an angle into (-180, 180].
func NormalizeAxis(angle float64) float64 {
	angle = ClampAxis(angle)
	if angle > 180 {
		angle -= 360
	}
	return angle
}
