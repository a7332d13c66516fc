package component

import "github.com/milk9111/camboom/common"

// Attachment places an entity relative to its parent. The hierarchy system
// writes the resulting world transform into the entity's Transform.
type Attachment struct {
	Parent   uint64 // ecs.Entity
	Relative common.Transform
}

var AttachmentComponent = NewComponent[Attachment]()
