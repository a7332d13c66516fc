package component

// TargetScript drives an entity's Transform from a tengo script.
type TargetScript struct {
	Path string
	// LastError is the most recent compile or run failure, empty when the
	// script is healthy.
	LastError string
}

var TargetScriptComponent = NewComponent[TargetScript]()
