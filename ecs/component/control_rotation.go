package component

import "github.com/milk9111/camboom/common"

// ControlRotation is the view rotation a player or script steers with. Booms
// with UseControlRotation read it from their parent instead of the parent's
// transform.
type ControlRotation struct {
	Rotator common.Rotator
}

var ControlRotationComponent = NewComponent[ControlRotation]()
