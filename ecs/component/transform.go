package component

import "github.com/milk9111/camboom/common"

// Transform is an entity's world transform.
type Transform struct {
	common.Transform
}

var TransformComponent = NewComponent[Transform]()
