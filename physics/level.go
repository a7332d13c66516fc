package physics

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/camboom/levels"
	"github.com/milk9111/camboom/springarm"
)

var ErrNoLevel = errors.New("physics: no level")

// DefaultTileSize is used when neither the caller nor the level sets one.
const DefaultTileSize = 64.0

// NewPlaneProbeFromLevel builds a plane probe from the physics layers of lvl.
// Level row y maps to world Z (Height-y-1)*tile .. (Height-y)*tile so the
// top row is highest. The level bounds are closed with thin segments.
func NewPlaneProbeFromLevel(lvl *levels.Level, tileSize float64, blocks springarm.ChannelMask) (*PlaneProbe, error) {
	if lvl == nil || lvl.Width <= 0 || lvl.Height <= 0 {
		return nil, ErrNoLevel
	}
	if tileSize <= 0 {
		tileSize = lvl.TileSize
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	p := NewPlaneProbe()
	for _, r := range mergeSolidTiles(lvl) {
		x0 := float64(r.x) * tileSize
		x1 := float64(r.x+r.w) * tileSize
		zTop := float64(lvl.Height-r.y) * tileSize
		zBottom := float64(lvl.Height-r.y-r.h) * tileSize
		p.AddBox(mgl64.Vec2{x0, zBottom}, mgl64.Vec2{x1, zTop}, blocks)
	}

	worldW := float64(lvl.Width) * tileSize
	worldH := float64(lvl.Height) * tileSize
	bounds := [][2]mgl64.Vec2{
		{{0, worldH}, {worldW, worldH}},
		{{0, 0}, {worldW, 0}},
		{{0, 0}, {0, worldH}},
		{{worldW, 0}, {worldW, worldH}},
	}
	for _, seg := range bounds {
		p.AddSegment(seg[0], seg[1], 1, blocks)
	}
	return p, nil
}

type tileRect struct {
	x, y, w, h int
}

// mergeSolidTiles greedily covers solid tiles with rectangles, growing each
// one along the row first and then down, so the probe holds fewer shapes.
func mergeSolidTiles(lvl *levels.Level) []tileRect {
	processed := make([]bool, lvl.Width*lvl.Height)
	solid := func(x, y int) bool {
		return !processed[y*lvl.Width+x] && lvl.Solid(x, y)
	}

	var rects []tileRect
	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			if !solid(x, y) {
				processed[y*lvl.Width+x] = true
				continue
			}

			w := 1
			for x+w < lvl.Width && solid(x+w, y) {
				w++
			}

			h := 1
		heightLoop:
			for y+h < lvl.Height {
				for xi := x; xi < x+w; xi++ {
					if !solid(xi, y+h) {
						break heightLoop
					}
				}
				h++
			}

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*lvl.Width+xx] = true
				}
			}
			rects = append(rects, tileRect{x: x, y: y, w: w, h: h})
		}
	}
	return rects
}
