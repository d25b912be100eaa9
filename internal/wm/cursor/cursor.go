// Package cursor implements the interactive pointer state machine of
// spec §4.6, dependency-order item 11 in §2. Grounded on
// original_source/src/input/cursor.c and its header
// include/cwc/input/cursor.h's `enum cwc_cursor_state`, `struct
// cwc_cursor`'s interactive fields (state, grab_x/y, the grab_float/
// grab_bsp union, grabbed_toplevel, name_before_interactive,
// snap_overlay) and resize-scheduling fields (last_resize_time_msec,
// pending_box).
//
// This package sits above container, output, bsp and master in the
// dependency order, so it is the one place allowed to import all four
// and orchestrate them; master.ResizeCursor exists precisely so master
// doesn't have to import this package back.
package cursor

import (
	"github.com/wltile/wltile/internal/config"
	"github.com/wltile/wltile/internal/geom"
	"github.com/wltile/wltile/internal/signals"
	"github.com/wltile/wltile/internal/wm/bsp"
	"github.com/wltile/wltile/internal/wm/container"
	"github.com/wltile/wltile/internal/wm/master"
	"github.com/wltile/wltile/internal/wm/output"
	"github.com/wltile/wltile/internal/wm/tag"
)

// State is the interactive state of spec §4.6's `enum cwc_cursor_state`.
type State int

const (
	Normal State = iota
	Move
	Resize
	MoveBSP
	ResizeBSP
	MoveMaster
	ResizeMaster
)

func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case Move:
		return "move"
	case Resize:
		return "resize"
	case MoveBSP:
		return "move-bsp"
	case ResizeBSP:
		return "resize-bsp"
	case MoveMaster:
		return "move-master"
	case ResizeMaster:
		return "resize-master"
	default:
		return "unknown"
	}
}

const defaultCursorImage = "default"

// bspFence remembers one axis of a BSP resize grab: the fence node and
// its left_wfact at grab time, so ResizeUpdate computes a delta rather
// than an absolute (grounded on `struct bsp_grab`).
type bspFence struct {
	node       *bsp.Node
	wfactStart float64
}

// Cursor drives the interactive pointer state machine. It does not own
// a hardware pointer: internal/wm/ports.PointerKeyboardProvider and the
// input backend are what actually move the system cursor, this type
// only tracks the logical position handed to it via Motion and mutates
// containers/BSP/master state in response.
type Cursor struct {
	Bus     *signals.Bus
	Outputs *output.Registry
	Master  *master.Registry
	Cfg     *config.Config

	// HitTester resolves "the toplevel under the cursor" for an
	// explicit-toplevel-omitted start_interactive_* call. Nil is legal
	// (tests that always pass an explicit toplevel need no hit tester).
	HitTester HitTester

	// NewOverlay constructs the translucent snap-preview scene node the
	// per-frame Move update shows and hides (spec §4.6's
	// `snap_overlay`). Nil means snapping is computed but never drawn —
	// useful for headless tests.
	NewOverlay func(box geom.Box, color config.RGBA) SceneRect

	state State
	x, y  float64

	resizeEdges geom.Edge
	grabX, grabY float64
	grabOffsetX, grabOffsetY float64

	grabbedToplevel *container.Toplevel
	grabOutput      *output.Output

	grabFloat geom.Box

	grabVertical   *bspFence
	grabHorizontal *bspFence

	currentName          string
	nameBeforeInteractive string

	overlay SceneRect

	lastResizeTimeMsec uint64
	pendingBox         geom.Box
	pendingBoxValid    bool

	// RefreshHz is the monitor refresh rate used to throttle resize
	// motion (spec §4.6 "Throttling"); 0 means "unknown", which the
	// spec says defaults to 120 Hz.
	RefreshHz int
}

// HitTester resolves the deepest tiled toplevel under a point, used
// when start_interactive_move/resize are called without an explicit
// toplevel (spec §4.6). internal/wm/ports.SceneHitTester is the real
// backing implementation; this narrower interface is what this package
// actually needs from it.
type HitTester interface {
	ToplevelAt(x, y float64) *container.Toplevel
}

// SceneRect is the minimal handle over a translucent overlay rectangle
// the snap-preview needs: reposition/resize and destroy. Grounded on
// `struct wlr_scene_rect *snap_overlay`.
type SceneRect interface {
	SetBox(box geom.Box)
	Destroy()
}

// New returns a cursor in the Normal state at the origin.
func New(bus *signals.Bus, outputs *output.Registry, masterReg *master.Registry, cfg *config.Config) *Cursor {
	return &Cursor{
		Bus:         bus,
		Outputs:     outputs,
		Master:      masterReg,
		Cfg:         cfg,
		currentName: defaultCursorImage,
	}
}

// State reports the current interactive state.
func (c *Cursor) State() State { return c.state }

// Position returns the last known logical cursor position.
func (c *Cursor) Position() (x, y float64) { return c.x, c.y }

// CurrentOutput returns the output whose layout box contains the
// cursor, per cwc_output_at.
func (c *Cursor) CurrentOutput() *output.Output {
	if c.Outputs == nil {
		return nil
	}
	return c.Outputs.OutputAt(c.x, c.y)
}

// --- master.ResizeCursor ---

// GrabbedToplevel returns the toplevel currently under interactive
// grab, or nil outside an interactive operation.
func (c *Cursor) GrabbedToplevel() *container.Toplevel { return c.grabbedToplevel }

// CursorPosition satisfies master.ResizeCursor.
func (c *Cursor) CursorPosition() (float64, float64) { return c.x, c.y }

// GrabPosition satisfies master.ResizeCursor.
func (c *Cursor) GrabPosition() (float64, float64) { return c.grabX, c.grabY }

// SetGrab satisfies master.ResizeCursor.
func (c *Cursor) SetGrab(x, y float64) { c.grabX, c.grabY = x, y }

// WarpCursor moves the logical cursor position without going through
// Motion's state-machine dispatch (used by master's resize-start to
// snap the pointer onto the mwfact boundary). Actually warping the
// hardware pointer is the input backend's job; this only updates the
// position this package tracks.
func (c *Cursor) WarpCursor(x, y float64) { c.x, c.y = x, y }

// SetCursorImage records the xcursor/cursor-shape name the backend
// should be showing (spec §4.6, grounded on cwc_cursor_set_image_by_name).
// This package never touches cursor image rendering itself.
func (c *Cursor) SetCursorImage(name string) { c.currentName = name }

// CursorImage returns the last name set via SetCursorImage.
func (c *Cursor) CursorImage() string { return c.currentName }

func (c *Cursor) pickToplevel(explicit *container.Toplevel) *container.Toplevel {
	if explicit != nil {
		return explicit
	}
	if c.HitTester == nil {
		return nil
	}
	return c.HitTester.ToplevelAt(c.x, c.y)
}

// StartInteractiveMove begins an interactive move, picking toplevel
// explicitly or the deepest tiled toplevel under the cursor (spec
// §4.6). A nil result (nothing under the cursor) is a no-op.
func (c *Cursor) StartInteractiveMove(toplevel *container.Toplevel) {
	if c.state != Normal {
		return
	}
	t := c.pickToplevel(toplevel)
	if t == nil || t.Container() == nil {
		return
	}
	cont := t.Container()
	o, ok := cont.Output.(*output.Output)
	if !ok || o == nil {
		return
	}

	c.grabbedToplevel = t
	c.grabOutput = o
	c.nameBeforeInteractive = c.currentName
	c.grabX, c.grabY = c.x, c.y
	cont.SetState(container.StateMoving, true)

	switch {
	case cont.State.Has(container.StateFloating):
		c.state = Move
		c.grabOffsetX = c.x - float64(cont.Geometry.X)
		c.grabOffsetY = c.y - float64(cont.Geometry.Y)
	case o.CurrentTagInfo().LayoutMode == tag.BSP:
		bsp.RemoveContainer(cont, false)
		c.state = MoveBSP
		c.grabOffsetX = float64(cont.Geometry.Width) / 2
		c.grabOffsetY = float64(cont.Geometry.Height) / 2
		cont.SetPosition(int(c.x-c.grabOffsetX), int(c.y-c.grabOffsetY))
	default:
		c.state = MoveMaster
		c.grabOffsetX = float64(cont.Geometry.Width) / 2
		c.grabOffsetY = float64(cont.Geometry.Height) / 2
		cont.SetPosition(int(c.x-c.grabOffsetX), int(c.y-c.grabOffsetY))
	}
}

// edgeZone is the fraction of each axis, measured from either end,
// that counts as "the edge" rather than "the middle" for the default
// resize-edge pick (spec §4.6 "80/20 normalized zone").
const edgeZone = 0.2

func edgesForPoint(box geom.Box, x, y float64) geom.Edge {
	var e geom.Edge
	if box.Width > 0 {
		frac := (x - float64(box.X)) / float64(box.Width)
		if frac <= edgeZone {
			e |= geom.EdgeLeft
		} else if frac >= 1-edgeZone {
			e |= geom.EdgeRight
		}
	}
	if box.Height > 0 {
		frac := (y - float64(box.Y)) / float64(box.Height)
		if frac <= edgeZone {
			e |= geom.EdgeTop
		} else if frac >= 1-edgeZone {
			e |= geom.EdgeBottom
		}
	}
	return e
}

// StartInteractiveResize begins an interactive resize. edges of 0 means
// "derive from the 80/20 zone around the cursor" (spec §4.6).
func (c *Cursor) StartInteractiveResize(toplevel *container.Toplevel, edges geom.Edge) {
	if c.state != Normal {
		return
	}
	t := c.pickToplevel(toplevel)
	if t == nil || t.Container() == nil {
		return
	}
	cont := t.Container()
	o, ok := cont.Output.(*output.Output)
	if !ok || o == nil {
		return
	}
	if edges == 0 {
		edges = edgesForPoint(cont.Geometry, c.x, c.y)
	}

	c.grabbedToplevel = t
	c.grabOutput = o
	c.nameBeforeInteractive = c.currentName
	c.resizeEdges = edges
	c.grabX, c.grabY = c.x, c.y
	cont.SetState(container.StateResizing, true)

	switch {
	case cont.State.Has(container.StateFloating):
		c.state = Resize
		c.grabFloat = cont.Geometry
	case o.CurrentTagInfo().LayoutMode == tag.BSP:
		node, ok := cont.BSPNode.(*bsp.Node)
		if !ok || node == nil {
			return
		}
		vertical, horizontal := bsp.FindResizeFence(node, edges)
		c.grabVertical, c.grabHorizontal = nil, nil
		if vertical != nil {
			c.grabVertical = &bspFence{node: vertical, wfactStart: vertical.LeftWfact}
		}
		if horizontal != nil {
			c.grabHorizontal = &bspFence{node: horizontal, wfactStart: horizontal.LeftWfact}
		}
		c.state = ResizeBSP
	default:
		c.state = ResizeMaster
		if c.Master != nil {
			c.Master.ResizeStart(o, c)
		}
	}
}

// StopInteractive ends whatever interactive operation is in progress,
// idempotent from Normal (spec §4.6).
func (c *Cursor) StopInteractive() {
	if c.state == Normal {
		return
	}
	switch c.state {
	case Move:
		c.endMove()
	case Resize:
		c.endResize()
	case MoveMaster:
		c.endMoveMaster()
	case MoveBSP:
		c.endMoveBSP()
	case ResizeBSP:
		c.endResizeBSP()
	case ResizeMaster:
		c.endResizeMaster()
	}
	c.hideOverlay()
	if cont := c.grabbedContainer(); cont != nil {
		cont.SetState(container.StateMoving, false)
		cont.SetState(container.StateResizing, false)
	}
	c.SetCursorImage(c.nameBeforeInteractive)
	c.state = Normal
	c.grabbedToplevel = nil
	c.grabOutput = nil
	c.grabVertical, c.grabHorizontal = nil, nil
	c.pendingBoxValid = false
}

func (c *Cursor) grabbedContainer() *container.Container {
	if c.grabbedToplevel == nil {
		return nil
	}
	return c.grabbedToplevel.Container()
}
