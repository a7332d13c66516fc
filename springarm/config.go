package springarm

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrUnknownCurve = errors.New("springarm: unknown lag curve")

// MinLagMaxTimeStep bounds the substep size from below so substep math never
// divides by zero.
const MinLagMaxTimeStep = 1.0 / 200.0

// LagCurve selects how a lag speed and a time step turn into an
// interpolation factor.
type LagCurve uint8

const (
	// LagExponential uses 1 - exp(-speed*dt).
	LagExponential LagCurve = iota
	// LagClamped uses clamp(speed*dt, 0, 1).
	LagClamped
)

func (c LagCurve) String() string {
	switch c {
	case LagExponential:
		return "exponential"
	case LagClamped:
		return "clamped"
	}
	return fmt.Sprintf("curve(%d)", c)
}

func ParseLagCurve(s string) (LagCurve, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exponential", "exp":
		return LagExponential, nil
	case "clamped", "linear":
		return LagClamped, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCurve, s)
}

// Alpha returns the fraction of the remaining distance covered in dt.
func (c LagCurve) Alpha(speed, dt float64) float64 {
	x := speed * dt
	if c == LagClamped {
		return math.Max(0, math.Min(1, x))
	}
	if x <= 0 {
		return 0
	}
	return -math.Expm1(-x)
}

// Config holds the rarely-changing boom settings.
type Config struct {
	TargetArmLength float64
	SocketOffset    mgl64.Vec3
	TargetOffset    mgl64.Vec3

	DoCollisionTest bool
	ProbeSize       float64
	ProbeChannel    Channel

	UseControlRotation bool
	AbsoluteRotation   bool
	InheritPitch       bool
	InheritYaw         bool
	InheritRoll        bool

	EnableLocationLag bool
	EnableRotationLag bool
	UseSubstepping    bool
	LocationLagSpeed  float64
	RotationLagSpeed  float64
	LagMaxTimeStep    float64
	// LagMaxDistance caps how far the lagged origin trails; 0 means no cap.
	LagMaxDistance float64
	LagCurve       LagCurve

	DrawDebugLagMarkers bool
}

func DefaultConfig() Config {
	return Config{
		TargetArmLength:  300,
		DoCollisionTest:  true,
		ProbeSize:        12,
		ProbeChannel:     ChannelCamera,
		InheritPitch:     true,
		InheritYaw:       true,
		InheritRoll:      true,
		UseSubstepping:   true,
		LocationLagSpeed: 10,
		RotationLagSpeed: 10,
		LagMaxTimeStep:   1.0 / 60.0,
	}
}

// Sanitize clamps values that would break the lag math.
func (c Config) Sanitize() Config {
	if !(c.LagMaxTimeStep >= MinLagMaxTimeStep) {
		c.LagMaxTimeStep = MinLagMaxTimeStep
	}
	c.LocationLagSpeed = nonNegative(c.LocationLagSpeed)
	c.RotationLagSpeed = nonNegative(c.RotationLagSpeed)
	c.LagMaxDistance = nonNegative(c.LagMaxDistance)
	c.ProbeSize = nonNegative(c.ProbeSize)
	return c
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
