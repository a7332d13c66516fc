package component

// ReloadRequest asks the reload system to re-read a rig spec or script by
// name. Systems create a short-lived entity carrying it; the reload system
// destroys the entity once handled.
type ReloadRequest struct {
	Name string
}

var ReloadRequestComponent = NewComponent[ReloadRequest]()
