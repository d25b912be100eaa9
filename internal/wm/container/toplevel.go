package container

import "github.com/wltile/wltile/internal/wm/ports"

// Toplevel is a single mapped client surface inside a container (spec
// §3 "Toplevel"). A container may hold several toplevels (e.g. a tabbed
// group in a future extension) but today only the front one is visible;
// see Container.FrontToplevel.
type Toplevel struct {
	container *Container

	Surface   ports.SurfaceProvider
	Kind      ports.SurfaceKind
	Tearing   ports.TearingHint
	Mapped    bool
	Urgent    bool
	Unmanaged bool
}

// Container returns the container currently holding t, or nil if t has
// been removed from every container (spec §3 back-link).
func (t *Toplevel) Container() *Container { return t.container }
