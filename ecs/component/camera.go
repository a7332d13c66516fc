package component

import "image/color"

// Camera follows the socket of a boom. Its Transform is overwritten every
// tick with the socket's world transform.
type Camera struct {
	Boom uint64 // ecs.Entity
	Zoom float64
	// MarkerColor tints the lag markers; nil uses the viewer default.
	MarkerColor color.Color
}

var CameraComponent = NewComponent[Camera]()
