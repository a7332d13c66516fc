package physics

import (
	"math"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/milk9111/camboom/springarm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-6)

func TestSceneSweeps(t *testing.T) {
	cube := func(s *Scene) { s.AddBox(mgl64.Vec3{-10, -10, -10}, mgl64.Vec3{10, 10, 10}, BlockAll) }

	cases := []struct {
		name       string
		build      func(*Scene)
		origin     mgl64.Vec3
		dest       mgl64.Vec3
		radius     float64
		wantTime   float64
		wantLoc    mgl64.Vec3
		wantNormal mgl64.Vec3
		wantImpact mgl64.Vec3
	}{
		{
			name:       "sphere",
			build:      func(s *Scene) { s.AddSphere(mgl64.Vec3{}, 50, BlockAll) },
			origin:     mgl64.Vec3{-200, 0, 0},
			dest:       mgl64.Vec3{200, 0, 0},
			radius:     10,
			wantTime:   0.35,
			wantLoc:    mgl64.Vec3{-60, 0, 0},
			wantNormal: mgl64.Vec3{-1, 0, 0},
			wantImpact: mgl64.Vec3{-50, 0, 0},
		},
		{
			name:       "box_face",
			build:      cube,
			origin:     mgl64.Vec3{-100, 0, 0},
			dest:       mgl64.Vec3{100, 0, 0},
			radius:     5,
			wantTime:   0.425,
			wantLoc:    mgl64.Vec3{-15, 0, 0},
			wantNormal: mgl64.Vec3{-1, 0, 0},
			wantImpact: mgl64.Vec3{-10, 0, 0},
		},
		{
			name:       "box_edge",
			build:      cube,
			origin:     mgl64.Vec3{-100, 12, 0},
			dest:       mgl64.Vec3{100, 12, 0},
			radius:     5,
			wantTime:   (90 - math.Sqrt(21)) / 200,
			wantLoc:    mgl64.Vec3{-10 - math.Sqrt(21), 12, 0},
			wantNormal: mgl64.Vec3{-math.Sqrt(21) / 5, 2.0 / 5, 0},
			wantImpact: mgl64.Vec3{-10, 10, 0},
		},
		{
			name:       "box_corner",
			build:      cube,
			origin:     mgl64.Vec3{-100, 12, 12},
			dest:       mgl64.Vec3{100, 12, 12},
			radius:     5,
			wantTime:   (90 - math.Sqrt(17)) / 200,
			wantLoc:    mgl64.Vec3{-10 - math.Sqrt(17), 12, 12},
			wantNormal: mgl64.Vec3{-math.Sqrt(17) / 5, 2.0 / 5, 2.0 / 5},
			wantImpact: mgl64.Vec3{-10, 10, 10},
		},
		{
			name:       "ray_box",
			build:      cube,
			origin:     mgl64.Vec3{0, 0, 100},
			dest:       mgl64.Vec3{0, 0, -100},
			radius:     0,
			wantTime:   0.45,
			wantLoc:    mgl64.Vec3{0, 0, 10},
			wantNormal: mgl64.Vec3{0, 0, 1},
			wantImpact: mgl64.Vec3{0, 0, 10},
		},
		{
			name: "nearest_wins",
			build: func(s *Scene) {
				s.AddSphere(mgl64.Vec3{50, 0, 0}, 10, BlockAll)
				s.AddBox(mgl64.Vec3{20, -5, -5}, mgl64.Vec3{30, 5, 5}, BlockAll)
			},
			origin:     mgl64.Vec3{},
			dest:       mgl64.Vec3{100, 0, 0},
			radius:     0,
			wantTime:   0.2,
			wantLoc:    mgl64.Vec3{20, 0, 0},
			wantNormal: mgl64.Vec3{-1, 0, 0},
			wantImpact: mgl64.Vec3{20, 0, 0},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewScene()
			c.build(s)

			hit, err := s.SweepSphere(c.origin, c.dest, c.radius, springarm.ChannelCamera)
			require.NoError(t, err)
			require.True(t, hit.Blocking)
			assert.InDelta(t, c.wantTime, hit.Time, 1e-9)
			if diff := cmp.Diff(c.wantLoc, hit.Location, approx); diff != "" {
				t.Errorf("location (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(c.wantNormal, hit.Normal, approx); diff != "" {
				t.Errorf("normal (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(c.wantImpact, hit.ImpactPoint, approx); diff != "" {
				t.Errorf("impact (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSceneMisses(t *testing.T) {
	s := NewScene()
	s.AddBox(mgl64.Vec3{-10, -10, -10}, mgl64.Vec3{10, 10, 10}, BlockAll)

	// passes the corner with room to spare
	hit, err := s.SweepSphere(mgl64.Vec3{-100, 16, 16}, mgl64.Vec3{100, 16, 16}, 5, springarm.ChannelCamera)
	require.NoError(t, err)
	assert.False(t, hit.Blocking)

	// stops short
	hit, err = s.SweepSphere(mgl64.Vec3{-100, 0, 0}, mgl64.Vec3{-20, 0, 0}, 5, springarm.ChannelCamera)
	require.NoError(t, err)
	assert.False(t, hit.Blocking)
}

func TestSceneChannelFilter(t *testing.T) {
	s := NewScene()
	s.AddSphere(mgl64.Vec3{}, 20, springarm.MaskOf(springarm.ChannelPawn))

	hit, err := s.SweepSphere(mgl64.Vec3{-100, 0, 0}, mgl64.Vec3{100, 0, 0}, 1, springarm.ChannelCamera)
	require.NoError(t, err)
	assert.False(t, hit.Blocking)

	hit, err = s.SweepSphere(mgl64.Vec3{-100, 0, 0}, mgl64.Vec3{100, 0, 0}, 1, springarm.ChannelPawn)
	require.NoError(t, err)
	assert.True(t, hit.Blocking)
}

func TestSceneStartPenetrating(t *testing.T) {
	s := NewScene()
	s.AddBox(mgl64.Vec3{-10, -10, -10}, mgl64.Vec3{10, 10, 10}, BlockAll)

	origin := mgl64.Vec3{12, 0, 0}
	hit, err := s.SweepSphere(origin, mgl64.Vec3{100, 0, 0}, 5, springarm.ChannelCamera)
	require.NoError(t, err)
	require.True(t, hit.Blocking)
	assert.Zero(t, hit.Time)
	assert.Equal(t, origin, hit.Location)
	if diff := cmp.Diff(mgl64.Vec3{1, 0, 0}, hit.Normal, approx); diff != "" {
		t.Errorf("normal (-want +got):\n%s", diff)
	}
}

func TestSceneRemove(t *testing.T) {
	s := NewScene()
	id := s.AddSphere(mgl64.Vec3{}, 20, BlockAll)
	require.Equal(t, 1, s.Len())

	assert.True(t, s.Remove(id))
	assert.False(t, s.Remove(id))
	assert.Zero(t, s.Len())

	hit, err := s.SweepSphere(mgl64.Vec3{-100, 0, 0}, mgl64.Vec3{100, 0, 0}, 1, springarm.ChannelCamera)
	require.NoError(t, err)
	assert.False(t, hit.Blocking)
}

func TestNilSceneHasNoWorld(t *testing.T) {
	var s *Scene
	_, err := s.SweepSphere(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 1, springarm.ChannelCamera)
	assert.ErrorIs(t, err, springarm.ErrNoWorld)
}

func TestSceneConcurrentSweeps(t *testing.T) {
	s := NewScene()
	s.AddBox(mgl64.Vec3{-210, -500, -500}, mgl64.Vec3{-200, 500, 500}, BlockAll)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				hit, err := s.SweepSphere(mgl64.Vec3{}, mgl64.Vec3{-300, 0, 0}, 12, springarm.ChannelCamera)
				if err != nil || !hit.Blocking {
					t.Errorf("sweep %d: hit=%v err=%v", j, hit.Blocking, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestArmPulledInByScene(t *testing.T) {
	s := NewScene()
	s.AddBox(mgl64.Vec3{-210, -500, -500}, mgl64.Vec3{-200, 500, 500}, BlockAll)

	arm := springarm.New(springarm.DefaultConfig(), springarm.WithProbe(s))
	arm.Register(mgl64.QuatIdent(), mgl64.Vec3{})
	loc, _ := arm.Tick(mgl64.QuatIdent(), mgl64.Vec3{}, 1.0/60.0)

	if diff := cmp.Diff(mgl64.Vec3{-188, 0, 0}, loc, approx); diff != "" {
		t.Fatalf("socket (-want +got):\n%s", diff)
	}
	assert.True(t, arm.State().Last.Blocked)
}
