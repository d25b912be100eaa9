// Package ports declares the collaborator interfaces the core calls out
// to, per spec §6 "EXTERNAL INTERFACES". Every one of these is
// implemented by an out-of-scope component (wire protocol, renderer,
// DRM backend, input backend) that this module does not contain; the
// core only ever holds a ports.* interface value, never a concrete type,
// which is what lets internal/wm/* stay free of any rendering or
// wire-protocol dependency per the Non-goals in spec §1.
package ports

import "github.com/wltile/wltile/internal/geom"

// SurfaceKind tags which wire protocol produced a toplevel (spec §3).
type SurfaceKind int

const (
	SurfaceXdgShell SurfaceKind = iota
	SurfaceXWayland
)

// TearingHint mirrors the wlr tearing-control protocol's hint enum; the
// core only threads it through to the output, never interprets it.
type TearingHint int

const (
	TearingNone TearingHint = iota
	TearingAsync
)

// SurfaceProvider is the per-surface contract described in §6's first
// bullet. A container's front toplevel holds one of these; the core
// calls it to push state to the client and reads its geometry, but
// never decodes the wire messages that implement it.
type SurfaceProvider interface {
	Title() string
	AppID() string
	Geometry() geom.Box
	SendClose()
	Kill()
	SetActivated(bool)
	SetFullscreen(bool)
	SetTiled(edges geom.Edge)
	SetResizing(bool)
}

// SceneNode is the minimal scene-graph handle the core manipulates
// (§6's "Scene graph" bullet): position, parent, stacking order, and
// enable/disable for visibility. Hit-testing is intentionally left out
// of this interface since only the cursor state machine needs it — see
// SceneHitTester below.
type SceneNode interface {
	SetPosition(x, y int)
	Reparent(parent SceneNode)
	RaiseToTop()
	SetEnabled(bool)
	Destroy()
}

// HitNodeKind tags what kind of thing a hit-test landed on.
type HitNodeKind int

const (
	HitNone HitNodeKind = iota
	HitToplevel
	HitLayerSurface
	HitOverlay
)

// SceneHitTester performs the "node_at" hit-test §6 assigns to the scene
// graph collaborator, used to pick a drop target under the cursor
// (§4.6 end-handlers).
type SceneHitTester interface {
	NodeAt(lx, ly float64) (kind HitNodeKind, opaque any)
}

// LayerShellProvider delivers the exclusive-zone reservations the core
// subtracts from an output's usable_area (§6's "Layer-shell provider").
type LayerShellProvider interface {
	ExclusiveZones(outputName string) (top, bottom, left, right int)
}

// OutputProvider is the backend an output commits its pending draft
// through (§6's "Output provider" bullet).
type OutputProvider interface {
	CommitState() bool
	TestState() bool
}

// PointerKeyboardProvider is the raw input source described in §6's last
// bullet. The core never decodes keymaps beyond the untransformed keysym
// and modifier bitmask it is handed.
type PointerKeyboardProvider interface {
	CursorPosition() (x, y float64)
	ModifierMask() uint32
}
