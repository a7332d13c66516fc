package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/milk9111/camboom/springarm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func useDiskRoot(t *testing.T, dir string) {
	t.Helper()
	prev := DiskRoot
	DiskRoot = dir
	t.Cleanup(func() { DiskRoot = prev })
}

func TestLoadEmbeddedRigSpecs(t *testing.T) {
	useDiskRoot(t, t.TempDir())

	spec, err := LoadRigSpec("rig.yaml")
	require.NoError(t, err)
	assert.Equal(t, "third_person", spec.Name)
	assert.Equal(t, "orbit.tengo", spec.Script)
	require.NotNil(t, spec.Camera.MarkerColor)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xcc, B: 0x33, A: 0xff}, spec.Camera.MarkerColor.Color)

	cfg, err := spec.ArmConfig()
	require.NoError(t, err)
	assert.Equal(t, 300.0, cfg.TargetArmLength)
	assert.Equal(t, mgl64.Vec3{0, 0, 60}, cfg.TargetOffset)
	assert.Equal(t, mgl64.Vec3{0, 40, 0}, cfg.SocketOffset)
	assert.True(t, cfg.EnableLocationLag)
	assert.True(t, cfg.EnableRotationLag)
	assert.Equal(t, 8.0, cfg.RotationLagSpeed)
	assert.Equal(t, 150.0, cfg.LagMaxDistance)
	assert.Equal(t, springarm.LagExponential, cfg.LagCurve)
	assert.True(t, cfg.DrawDebugLagMarkers)

	side, err := LoadRigSpec("prefabs/side.yaml")
	require.NoError(t, err)
	sideCfg, err := side.ArmConfig()
	require.NoError(t, err)
	assert.False(t, sideCfg.InheritPitch)
	assert.True(t, sideCfg.InheritYaw)
	assert.False(t, sideCfg.InheritRoll)
	assert.True(t, sideCfg.DoCollisionTest, "unset switches keep their defaults")
	assert.False(t, sideCfg.EnableRotationLag)
	assert.Equal(t, springarm.LagClamped, sideCfg.LagCurve)
	assert.Equal(t, -10.0, side.RelativeRotation.Rotator().Pitch)
}

func TestDiskOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	useDiskRoot(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rig.yaml"), []byte("name: edited\narm:\n  length: 120\n"), 0o644))

	spec, err := LoadRigSpec("rig.yaml")
	require.NoError(t, err)
	assert.Equal(t, "edited", spec.Name)

	cfg, err := spec.ArmConfig()
	require.NoError(t, err)
	assert.Equal(t, 120.0, cfg.TargetArmLength)
	assert.Equal(t, springarm.DefaultConfig().ProbeSize, cfg.ProbeSize)
}

func TestArmConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		spec RigSpec
		want error
	}{
		{"channel", RigSpec{Name: "x", Arm: ArmSpec{ProbeChannel: "lasers"}}, springarm.ErrUnknownChannel},
		{"curve", RigSpec{Name: "x", Lag: LagSpec{Curve: "cubic"}}, springarm.ErrUnknownCurve},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := c.spec.ArmConfig()
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestLoadSpecMissing(t *testing.T) {
	useDiskRoot(t, t.TempDir())
	_, err := LoadRigSpec("missing.yaml")
	assert.ErrorContains(t, err, "prefabs: load missing.yaml")
}

func TestRigSpecFromConfigKeepsSettings(t *testing.T) {
	cfg := springarm.DefaultConfig()
	cfg.TargetArmLength = 275
	cfg.SocketOffset = mgl64.Vec3{0, 25, 10}
	cfg.ProbeChannel = springarm.ChannelPawn
	cfg.InheritRoll = false
	cfg.EnableLocationLag = true
	cfg.LagMaxDistance = 80
	cfg.LagCurve = springarm.LagClamped

	data, err := RigSpecFromConfig("copy", cfg).Marshal()
	require.NoError(t, err)

	var back RigSpec
	require.NoError(t, yaml.Unmarshal(data, &back))
	got, err := back.ArmConfig()
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Fatalf("config changed through yaml (-want +got):\n%s", diff)
	}
}

func TestYAMLColor(t *testing.T) {
	var c YAMLColor
	require.NoError(t, yaml.Unmarshal([]byte(`"#10203040"`), &c))
	assert.Equal(t, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}, c.Color)

	out, err := c.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "#10203040", out)

	assert.Error(t, yaml.Unmarshal([]byte(`"#12"`), &c))
	assert.Error(t, yaml.Unmarshal([]byte(`"#zz0000"`), &c))
	assert.Error(t, yaml.Unmarshal([]byte(`[1, 2]`), &c))
}

func TestLoadScript(t *testing.T) {
	useDiskRoot(t, t.TempDir())

	a, err := LoadScript("orbit.tengo")
	require.NoError(t, err)
	b, err := LoadScript("prefabs/scripts/orbit.tengo")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, string(a), "location")

	_, err = LoadScript("nope.tengo")
	assert.Error(t, err)
}

func TestScriptName(t *testing.T) {
	assert.Equal(t, "orbit.tengo", ScriptName(filepath.Join("some", "dir", "prefabs", "scripts", "orbit.tengo")))
	assert.Equal(t, "patrol.tengo", ScriptName("patrol.tengo"))
}
