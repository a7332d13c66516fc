package main

import "math"

// viewport maps level pixels to the screen. It centers on a point, scales by
// zoom and stays inside the level when the level is larger than the view.
type viewport struct {
	PosX float64
	PosY float64

	screenW int
	screenH int
	zoom    float64

	// world bounds in pixels (0 means unbounded)
	worldW float64
	worldH float64
}

func newViewport(screenW, screenH int, zoom float64) *viewport {
	v := &viewport{screenW: screenW, screenH: screenH, zoom: 1}
	v.SetZoom(zoom)
	v.PosX = float64(screenW) / 2.0
	v.PosY = float64(screenH) / 2.0
	return v
}

func (v *viewport) SetZoom(z float64) {
	if z <= 0 {
		return
	}
	v.zoom = z
}

func (v *viewport) Zoom() float64 {
	return v.zoom
}

// SetWorldBounds sets the world pixel dimensions for clamping the view.
func (v *viewport) SetWorldBounds(w, h float64) {
	v.worldW = w
	v.worldH = h
}

// ViewTopLeft returns the level-space top-left of the current view.
func (v *viewport) ViewTopLeft() (float64, float64) {
	viewW := float64(v.screenW) / v.zoom
	viewH := float64(v.screenH) / v.zoom
	return v.PosX - viewW/2.0, v.PosY - viewH/2.0
}

// ToScreen maps a level pixel to screen coordinates.
func (v *viewport) ToScreen(x, y float64) (float32, float32) {
	left, top := v.ViewTopLeft()
	return float32((x - left) * v.zoom), float32((y - top) * v.zoom)
}

// SnapTo centers the view on (x, y). The boom already smooths the camera, so
// there is no follow smoothing here; the position is only snapped to the
// zoomed pixel grid and clamped to the world bounds.
func (v *viewport) SnapTo(x, y float64) {
	v.PosX = math.Round(x*v.zoom) / v.zoom
	v.PosY = math.Round(y*v.zoom) / v.zoom

	halfW := float64(v.screenW) / v.zoom / 2.0
	halfH := float64(v.screenH) / v.zoom / 2.0
	v.PosX = clampAxis(v.PosX, halfW, v.worldW)
	v.PosY = clampAxis(v.PosY, halfH, v.worldH)
}

// clampAxis keeps a view of half-size half inside [0, world]. A world smaller
// than the view is centered.
func clampAxis(pos, half, world float64) float64 {
	if world <= 0 {
		return pos
	}
	lo, hi := half, world-half
	if hi < lo {
		return world / 2.0
	}
	return math.Max(lo, math.Min(pos, hi))
}
