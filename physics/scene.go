// Package physics provides collision probes for camera booms: a static 3D
// scene of spheres and boxes, and a Chipmunk-backed side-view plane.
package physics

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/camboom/springarm"
)

// BlockAll blocks every channel.
var BlockAll = springarm.MaskOf(
	springarm.ChannelVisibility,
	springarm.ChannelCamera,
	springarm.ChannelWorldStatic,
	springarm.ChannelWorldDynamic,
	springarm.ChannelPawn,
)

type ShapeID uint64

type sphere struct {
	center mgl64.Vec3
	radius float64
	blocks springarm.ChannelMask
}

type box struct {
	min, max mgl64.Vec3
	blocks   springarm.ChannelMask
}

// Scene is a set of static shapes answering swept-sphere queries. Sweeps may
// run concurrently with each other; mutations take the write lock.
type Scene struct {
	mu      sync.RWMutex
	next    ShapeID
	spheres map[ShapeID]sphere
	boxes   map[ShapeID]box
}

func NewScene() *Scene {
	return &Scene{
		spheres: make(map[ShapeID]sphere),
		boxes:   make(map[ShapeID]box),
	}
}

func (s *Scene) AddSphere(center mgl64.Vec3, radius float64, blocks springarm.ChannelMask) ShapeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.spheres[s.next] = sphere{center: center, radius: math.Abs(radius), blocks: blocks}
	return s.next
}

// AddBox adds an axis-aligned box spanning the two corners.
func (s *Scene) AddBox(a, b mgl64.Vec3, blocks springarm.ChannelMask) ShapeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.boxes[s.next] = box{
		min:    mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])},
		max:    mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])},
		blocks: blocks,
	}
	return s.next
}

func (s *Scene) Remove(id ShapeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.spheres[id]; ok {
		delete(s.spheres, id)
		return true
	}
	if _, ok := s.boxes[id]; ok {
		delete(s.boxes, id)
		return true
	}
	return false
}

func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.spheres) + len(s.boxes)
}

// SweepSphere moves a sphere of the given radius from origin to dest and
// reports the first shape blocking channel. A sweep that starts overlapping
// a shape hits it at Time 0.
func (s *Scene) SweepSphere(origin, dest mgl64.Vec3, radius float64, channel springarm.Channel) (springarm.HitResult, error) {
	if s == nil {
		return springarm.HitResult{}, springarm.ErrNoWorld
	}
	radius = math.Abs(radius)
	d := dest.Sub(origin)

	s.mu.RLock()
	defer s.mu.RUnlock()

	closestT := math.Inf(1)
	var hit springarm.HitResult
	for _, sp := range s.spheres {
		if !sp.blocks.Has(channel) {
			continue
		}
		t, ok := sweepSphereSphere(origin, d, radius, sp)
		if !ok || t >= closestT {
			continue
		}
		closestT = t
		loc := origin.Add(d.Mul(t))
		n := surfaceNormal(loc.Sub(sp.center), d)
		hit = springarm.HitResult{
			Blocking:    true,
			Location:    loc,
			ImpactPoint: sp.center.Add(n.Mul(sp.radius)),
			Normal:      n,
			Time:        t,
		}
	}
	for _, b := range s.boxes {
		if !b.blocks.Has(channel) {
			continue
		}
		t, ok := sweepSphereBox(origin, d, radius, b)
		if !ok || t >= closestT {
			continue
		}
		closestT = t
		loc := origin.Add(d.Mul(t))
		impact := closestPointOnBox(loc, b)
		hit = springarm.HitResult{
			Blocking:    true,
			Location:    loc,
			ImpactPoint: impact,
			Normal:      surfaceNormal(loc.Sub(impact), d),
			Time:        t,
		}
	}
	return hit, nil
}

func sweepSphereSphere(o, d mgl64.Vec3, r float64, sp sphere) (float64, bool) {
	rr := r + sp.radius
	if f := o.Sub(sp.center); f.Dot(f) <= rr*rr {
		return 0, true
	}
	return segmentSphere(o, d, sp.center, rr)
}

// sweepSphereBox intersects the segment with the box grown by r: three
// slabs grown along one axis each, twelve edge cylinders and eight corner
// spheres.
func sweepSphereBox(o, d mgl64.Vec3, r float64, b box) (float64, bool) {
	if f := o.Sub(closestPointOnBox(o, b)); f.Dot(f) <= r*r {
		return 0, true
	}

	best := math.Inf(1)
	consider := func(t float64, ok bool) {
		if ok && t < best {
			best = t
		}
	}

	for axis := 0; axis < 3; axis++ {
		lo, hi := b.min, b.max
		lo[axis] -= r
		hi[axis] += r
		consider(segmentAABB(o, d, lo, hi))
	}

	if r > 0 {
		for i := 0; i < 8; i++ {
			c := b.min
			if i&1 != 0 {
				c[0] = b.max[0]
			}
			if i&2 != 0 {
				c[1] = b.max[1]
			}
			if i&4 != 0 {
				c[2] = b.max[2]
			}
			consider(segmentSphere(o, d, c, r))
		}
		for axis := 0; axis < 3; axis++ {
			u, v := (axis+1)%3, (axis+2)%3
			for _, cu := range [2]float64{b.min[u], b.max[u]} {
				for _, cv := range [2]float64{b.min[v], b.max[v]} {
					consider(segmentEdge(o, d, axis, cu, cv, b.min[axis], b.max[axis], r))
				}
			}
		}
	}

	return best, !math.IsInf(best, 1)
}

func segmentAABB(o, d, lo, hi mgl64.Vec3) (float64, bool) {
	tmin := 0.0
	tmax := 1.0
	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		invD := 1.0 / d[i]
		t1 := (lo[i] - o[i]) * invD
		t2 := (hi[i] - o[i]) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmax < tmin {
			return 0, false
		}
	}
	return tmin, true
}

func segmentSphere(o, d, center mgl64.Vec3, r float64) (float64, bool) {
	f := o.Sub(center)
	a := d.Dot(d)
	if a == 0 {
		return 0, false
	}
	b := 2 * f.Dot(d)
	c := f.Dot(f) - r*r
	return firstRoot(a, b, c)
}

// segmentEdge intersects the segment with a cylinder of radius r around the
// line parallel to axis through (cu, cv), limited to [lo, hi] along axis.
func segmentEdge(o, d mgl64.Vec3, axis int, cu, cv, lo, hi, r float64) (float64, bool) {
	u, v := (axis+1)%3, (axis+2)%3
	fu, fv := o[u]-cu, o[v]-cv
	a := d[u]*d[u] + d[v]*d[v]
	if a == 0 {
		return 0, false
	}
	b := 2 * (fu*d[u] + fv*d[v])
	c := fu*fu + fv*fv - r*r
	t, ok := firstRoot(a, b, c)
	if !ok {
		return 0, false
	}
	k := o[axis] + d[axis]*t
	if k < lo || k > hi {
		return 0, false
	}
	return t, true
}

// firstRoot returns the entering root of at^2 + bt + c when it lies in [0, 1].
func firstRoot(a, b, c float64) (float64, bool) {
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	t := (-b - math.Sqrt(disc)) / (2 * a)
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}

func closestPointOnBox(p mgl64.Vec3, b box) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Clamp(p[0], b.min[0], b.max[0]),
		mgl64.Clamp(p[1], b.min[1], b.max[1]),
		mgl64.Clamp(p[2], b.min[2], b.max[2]),
	}
}

// surfaceNormal normalizes n, falling back to facing back along the sweep
// and then to +Z when both are degenerate.
func surfaceNormal(n, sweep mgl64.Vec3) mgl64.Vec3 {
	if l := n.Len(); l > 1e-9 {
		return n.Mul(1 / l)
	}
	if l := sweep.Len(); l > 1e-9 {
		return sweep.Mul(-1 / l)
	}
	return mgl64.Vec3{0, 0, 1}
}
