package component

import "github.com/milk9111/camboom/springarm"

// CameraBoom holds a boom and the rig spec it was built from. The entity's
// Transform is the boom's own world transform.
type CameraBoom struct {
	Name string
	Spec string
	Arm  *springarm.Arm
}

var CameraBoomComponent = NewComponent[CameraBoom]()
