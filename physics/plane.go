package physics

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/camboom/springarm"
)

// PlaneProbe answers sweeps against 2D geometry lying in the world X/Z plane,
// the gameplay plane of a side-view level. The depth axis (Y) of a hit is
// interpolated along the sweep.
type PlaneProbe struct {
	// cp locks the space during queries, so sweeps serialize too.
	mu     sync.Mutex
	space  *cp.Space
	next   ShapeID
	shapes map[ShapeID]*cp.Shape
}

func NewPlaneProbe() *PlaneProbe {
	return &PlaneProbe{
		space:  cp.NewSpace(),
		shapes: make(map[ShapeID]*cp.Shape),
	}
}

// AddBox adds a static rectangle spanning the two X/Z corners.
func (p *PlaneProbe) AddBox(a, b mgl64.Vec2, blocks springarm.ChannelMask) ShapeID {
	bb := cp.BB{L: math.Min(a[0], b[0]), B: math.Min(a[1], b[1]), R: math.Max(a[0], b[0]), T: math.Max(a[1], b[1])}
	return p.add(cp.NewBox2(p.space.StaticBody, bb, 0), blocks)
}

// AddSegment adds a static line from a to b with the given radius.
func (p *PlaneProbe) AddSegment(a, b mgl64.Vec2, radius float64, blocks springarm.ChannelMask) ShapeID {
	return p.add(cp.NewSegment(p.space.StaticBody, planeVec(a), planeVec(b), radius), blocks)
}

func (p *PlaneProbe) add(shape *cp.Shape, blocks springarm.ChannelMask) ShapeID {
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(blocks), cp.ALL_CATEGORIES))

	p.mu.Lock()
	defer p.mu.Unlock()
	p.space.AddShape(shape)
	p.next++
	p.shapes[p.next] = shape
	return p.next
}

func (p *PlaneProbe) Remove(id ShapeID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	shape, ok := p.shapes[id]
	if !ok {
		return false
	}
	p.space.RemoveShape(shape)
	delete(p.shapes, id)
	return true
}

func (p *PlaneProbe) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.shapes)
}

func (p *PlaneProbe) SweepSphere(origin, dest mgl64.Vec3, radius float64, channel springarm.Channel) (springarm.HitResult, error) {
	if p == nil || p.space == nil {
		return springarm.HitResult{}, springarm.ErrNoWorld
	}

	start := cp.Vector{X: origin.X(), Y: origin.Z()}
	end := cp.Vector{X: dest.X(), Y: dest.Z()}
	filter := cp.NewShapeFilter(cp.NO_GROUP, channel.Bit(), channel.Bit())

	p.mu.Lock()
	info := p.space.SegmentQueryFirst(start, end, math.Abs(radius), filter)
	p.mu.Unlock()

	if info.Shape == nil {
		return springarm.HitResult{}, nil
	}
	loc := origin.Add(dest.Sub(origin).Mul(info.Alpha))
	return springarm.HitResult{
		Blocking:    true,
		Location:    loc,
		ImpactPoint: mgl64.Vec3{info.Point.X, loc.Y(), info.Point.Y},
		Normal:      mgl64.Vec3{info.Normal.X, 0, info.Normal.Y},
		Time:        info.Alpha,
	}, nil
}

func planeVec(v mgl64.Vec2) cp.Vector {
	return cp.Vector{X: v[0], Y: v[1]}
}
