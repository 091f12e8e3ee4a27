package ecs

// System represents a behavior that operates on entities with specific components.
// User-defined systems should implement this interface and can include Query and
// Singleton fields, which the Scheduler initializes, as well as custom state fields
// that persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// preparer is implemented by Query fields; the Scheduler calls Execute on each of a
// system's queries immediately before the system runs.
type preparer interface {
	Execute()
}
