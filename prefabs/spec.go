package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/camboom/common"
	"github.com/milk9111/camboom/springarm"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// RigSpec describes one camera rig: the boom, its target and the script
// that drives the target.
type RigSpec struct {
	Name             string        `yaml:"name"`
	Arm              ArmSpec       `yaml:"arm"`
	Lag              LagSpec       `yaml:"lag"`
	Transform        TransformSpec `yaml:"transform"`
	RelativeRotation RotatorSpec   `yaml:"relative_rotation"`
	Script           string        `yaml:"script,omitempty"`
	Camera           CameraSpec    `yaml:"camera"`
}

func LoadRigSpec(filename string) (RigSpec, error) {
	return LoadSpec[RigSpec](filename)
}

// ArmSpec fields left out of the yaml keep the boom defaults, which is why
// the switches that default to true are pointers.
type ArmSpec struct {
	Length             *float64 `yaml:"length,omitempty"`
	SocketOffset       Vec3Spec `yaml:"socket_offset"`
	TargetOffset       Vec3Spec `yaml:"target_offset"`
	CollisionTest      *bool    `yaml:"collision_test,omitempty"`
	ProbeSize          *float64 `yaml:"probe_size,omitempty"`
	ProbeChannel       string   `yaml:"probe_channel,omitempty"`
	UseControlRotation bool     `yaml:"use_control_rotation,omitempty"`
	AbsoluteRotation   bool     `yaml:"absolute_rotation,omitempty"`
	InheritPitch       *bool    `yaml:"inherit_pitch,omitempty"`
	InheritYaw         *bool    `yaml:"inherit_yaw,omitempty"`
	InheritRoll        *bool    `yaml:"inherit_roll,omitempty"`
}

type LagSpec struct {
	Location      bool     `yaml:"location"`
	Rotation      bool     `yaml:"rotation"`
	Substepping   *bool    `yaml:"substepping,omitempty"`
	LocationSpeed *float64 `yaml:"location_speed,omitempty"`
	RotationSpeed *float64 `yaml:"rotation_speed,omitempty"`
	MaxTimeStep   *float64 `yaml:"max_time_step,omitempty"`
	MaxDistance   float64  `yaml:"max_distance,omitempty"`
	Curve         string   `yaml:"curve,omitempty"`
	DrawMarkers   bool     `yaml:"draw_markers,omitempty"`
}

type TransformSpec struct {
	Location Vec3Spec    `yaml:"location"`
	Rotation RotatorSpec `yaml:"rotation"`
}

func (t TransformSpec) Transform() common.Transform {
	return common.NewTransform(t.Rotation.Rotator().Quat(), t.Location.Vec3())
}

type CameraSpec struct {
	Zoom        float64    `yaml:"zoom,omitempty"`
	MarkerColor *YAMLColor `yaml:"marker_color,omitempty"`
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Spec) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func Vec3SpecOf(v mgl64.Vec3) Vec3Spec {
	return Vec3Spec{X: v.X(), Y: v.Y(), Z: v.Z()}
}

type RotatorSpec struct {
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
	Roll  float64 `yaml:"roll"`
}

func (r RotatorSpec) Rotator() common.Rotator {
	return common.Rotator{Pitch: r.Pitch, Yaw: r.Yaw, Roll: r.Roll}
}

func RotatorSpecOf(r common.Rotator) RotatorSpec {
	return RotatorSpec{Pitch: r.Pitch, Yaw: r.Yaw, Roll: r.Roll}
}

// ArmConfig turns the spec into a boom configuration on top of
// springarm.DefaultConfig. The result is not sanitized.
func (s RigSpec) ArmConfig() (springarm.Config, error) {
	cfg := springarm.DefaultConfig()

	a := s.Arm
	setFloat(&cfg.TargetArmLength, a.Length)
	cfg.SocketOffset = a.SocketOffset.Vec3()
	cfg.TargetOffset = a.TargetOffset.Vec3()
	setBool(&cfg.DoCollisionTest, a.CollisionTest)
	setFloat(&cfg.ProbeSize, a.ProbeSize)
	if a.ProbeChannel != "" {
		ch, err := springarm.ParseChannel(a.ProbeChannel)
		if err != nil {
			return cfg, fmt.Errorf("prefabs: rig %s: %w", s.Name, err)
		}
		cfg.ProbeChannel = ch
	}
	cfg.UseControlRotation = a.UseControlRotation
	cfg.AbsoluteRotation = a.AbsoluteRotation
	setBool(&cfg.InheritPitch, a.InheritPitch)
	setBool(&cfg.InheritYaw, a.InheritYaw)
	setBool(&cfg.InheritRoll, a.InheritRoll)

	l := s.Lag
	cfg.EnableLocationLag = l.Location
	cfg.EnableRotationLag = l.Rotation
	setBool(&cfg.UseSubstepping, l.Substepping)
	setFloat(&cfg.LocationLagSpeed, l.LocationSpeed)
	setFloat(&cfg.RotationLagSpeed, l.RotationSpeed)
	setFloat(&cfg.LagMaxTimeStep, l.MaxTimeStep)
	cfg.LagMaxDistance = l.MaxDistance
	curve, err := springarm.ParseLagCurve(l.Curve)
	if err != nil {
		return cfg, fmt.Errorf("prefabs: rig %s: %w", s.Name, err)
	}
	cfg.LagCurve = curve
	cfg.DrawDebugLagMarkers = l.DrawMarkers

	return cfg, nil
}

// RigSpecFromConfig is the inverse of ArmConfig. Every field is written out
// so the yaml documents the full configuration.
func RigSpecFromConfig(name string, cfg springarm.Config) RigSpec {
	return RigSpec{
		Name: name,
		Arm: ArmSpec{
			Length:             ptr(cfg.TargetArmLength),
			SocketOffset:       Vec3SpecOf(cfg.SocketOffset),
			TargetOffset:       Vec3SpecOf(cfg.TargetOffset),
			CollisionTest:      ptr(cfg.DoCollisionTest),
			ProbeSize:          ptr(cfg.ProbeSize),
			ProbeChannel:       cfg.ProbeChannel.String(),
			UseControlRotation: cfg.UseControlRotation,
			AbsoluteRotation:   cfg.AbsoluteRotation,
			InheritPitch:       ptr(cfg.InheritPitch),
			InheritYaw:         ptr(cfg.InheritYaw),
			InheritRoll:        ptr(cfg.InheritRoll),
		},
		Lag: LagSpec{
			Location:      cfg.EnableLocationLag,
			Rotation:      cfg.EnableRotationLag,
			Substepping:   ptr(cfg.UseSubstepping),
			LocationSpeed: ptr(cfg.LocationLagSpeed),
			RotationSpeed: ptr(cfg.RotationLagSpeed),
			MaxTimeStep:   ptr(cfg.LagMaxTimeStep),
			MaxDistance:   cfg.LagMaxDistance,
			Curve:         cfg.LagCurve.String(),
			DrawMarkers:   cfg.DrawDebugLagMarkers,
		},
	}
}

func (s RigSpec) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("prefabs: marshal rig %s: %w", s.Name, err)
	}
	return data, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func ptr[T any](v T) *T {
	return &v
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	var rgba [4]uint8
	rgba[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := parse(i * 2)
		if err != nil {
			return fmt.Errorf("invalid color format: %s: %w", value.Value, err)
		}
		rgba[i] = v
	}

	c.Color = color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	return nil
}

func (c YAMLColor) MarshalYAML() (any, error) {
	if c.Color == nil {
		return nil, nil
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	if n.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B), nil
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}
