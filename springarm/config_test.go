package springarm

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLagCurveAlpha(t *testing.T) {
	cases := []struct {
		name  string
		curve LagCurve
		speed float64
		dt    float64
		want  float64
	}{
		{"exp_zero_dt", LagExponential, 10, 0, 0},
		{"exp_sixtieth", LagExponential, 10, 1.0 / 60.0, 1 - math.Exp(-10.0/60.0)},
		{"exp_large", LagExponential, 10, 100, 1},
		{"clamped_sixtieth", LagClamped, 10, 1.0 / 60.0, 10.0 / 60.0},
		{"clamped_saturates", LagClamped, 10, 1, 1},
		{"clamped_negative", LagClamped, -5, 1, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, c.curve.Alpha(c.speed, c.dt), 1e-12)
		})
	}
}

func TestParseLagCurve(t *testing.T) {
	for in, want := range map[string]LagCurve{
		"":            LagExponential,
		"exponential": LagExponential,
		" EXP ":       LagExponential,
		"clamped":     LagClamped,
		"linear":      LagClamped,
	} {
		got, err := ParseLagCurve(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLagCurve("cubic")
	assert.True(t, errors.Is(err, ErrUnknownCurve))
}

func TestSanitize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LagMaxTimeStep = 0
	cfg.LocationLagSpeed = -3
	cfg.RotationLagSpeed = math.NaN()
	cfg.LagMaxDistance = -1
	cfg.ProbeSize = -12

	got := cfg.Sanitize()
	assert.Equal(t, MinLagMaxTimeStep, got.LagMaxTimeStep)
	assert.Zero(t, got.LocationLagSpeed)
	assert.Zero(t, got.RotationLagSpeed)
	assert.Zero(t, got.LagMaxDistance)
	assert.Zero(t, got.ProbeSize)

	nan := DefaultConfig()
	nan.LagMaxTimeStep = math.NaN()
	assert.Equal(t, MinLagMaxTimeStep, nan.Sanitize().LagMaxTimeStep)

	ok := DefaultConfig()
	assert.Equal(t, ok, ok.Sanitize())
}

func TestChannels(t *testing.T) {
	for _, c := range []Channel{ChannelVisibility, ChannelCamera, ChannelWorldStatic, ChannelWorldDynamic, ChannelPawn} {
		text, err := c.MarshalText()
		require.NoError(t, err)

		var back Channel
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, c, back)
	}

	_, err := ParseChannel("lasers")
	assert.ErrorIs(t, err, ErrUnknownChannel)

	mask := MaskOf(ChannelCamera, ChannelPawn)
	assert.True(t, mask.Has(ChannelCamera))
	assert.True(t, mask.Has(ChannelPawn))
	assert.False(t, mask.Has(ChannelVisibility))
}

func TestNilProbeFunc(t *testing.T) {
	var f ProbeFunc
	_, err := f.SweepSphere(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 1, ChannelCamera)
	assert.ErrorIs(t, err, ErrNoWorld)
}

func TestConfigureKeepsLagState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DoCollisionTest = false
	cfg.EnableLocationLag = true
	a := New(cfg)
	a.Register(mgl64.QuatIdent(), mgl64.Vec3{})
	a.Tick(mgl64.QuatIdent(), mgl64.Vec3{100, 0, 0}, 1.0/60.0)
	before := a.State().PreviousDesiredLocation

	cfg.TargetArmLength = 500
	a.Configure(cfg)
	assert.Equal(t, before, a.State().PreviousDesiredLocation)
	assert.Equal(t, 500.0, a.Config().TargetArmLength)
}
