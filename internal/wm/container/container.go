// Package container implements the container + toplevel data model of
// spec §3 ("Container", "Toplevel") and the operations of spec §4.3,
// dependency-order items 4-5 in §2. Grounded on
// original_source/src/objects/client.c and src/layout/container.h for
// field shape, and on the teacher's plain-struct-plus-methods style
// (no builder pattern, exported fields where a sibling package needs to
// splice lists — see internal/wm/output which owns the container list).
package container

import (
	"github.com/wltile/wltile/internal/geom"
	"github.com/wltile/wltile/internal/signals"
	"github.com/wltile/wltile/internal/wm/ports"
	"github.com/wltile/wltile/internal/wmerr"
)

// OutputRef is the minimal view of an output a container needs to hold,
// to avoid an import cycle (internal/wm/output imports this package for
// its container list; a container cannot import internal/wm/output back).
// The concrete *output.Output satisfies this interface.
type OutputRef interface {
	Name() string
	IsFallback() bool
	UsableArea() geom.Box
}

// State is the container flag bitset of spec §3.
type State uint16

const (
	StateFloating State = 1 << iota
	StateMoving
	StateResizing
	StateMaximized
	StateFullscreen
	StateMinimized
	StateSticky
	StateUrgent
	StateActivated
)

func (s State) Has(bit State) bool { return s&bit != 0 }

// SetState turns bit on or off in c.State.
func (c *Container) SetState(bit State, on bool) {
	if bit == StateFloating && !on && c.State.Has(StateFloating) {
		c.FloatingBox = c.Geometry
	}
	if on {
		c.State |= bit
	} else {
		c.State &^= bit
	}
}

// BorderConfig is the per-container border of spec §3.
type BorderConfig struct {
	Enabled      bool
	Thickness    int
	Pattern      any // opaque handle; see config.Pattern
	RotationDeg  int
}

// SetRotation clamps rotation into 0..360 per spec §3.
func (b *BorderConfig) SetRotation(deg int) {
	b.RotationDeg = ((deg % 360) + 360) % 360
}

// OldProp remembers where a container came from when it leaves an
// output that may return (spec §3, §4.2 "State restore").
type OldProp struct {
	Output    OutputRef
	BSPNode   any
	Tag       TagBitfield
	Workspace int
	Valid     bool
}

// TagBitfield is a local type, so container does not import
// internal/wm/tag. Conversion to/from tag.Bitfield is a plain uint32
// cast at call sites in internal/wm/output.
type TagBitfield uint32

// Container is the managed unit of window tiling (spec §3). Its
// identity persists across the lifetime of however many toplevels pass
// through it; it is created on first map and destroyed on last unmap.
type Container struct {
	toplevels []*Toplevel

	Tag       TagBitfield
	Workspace int
	Output    OutputRef
	Geometry  geom.Box
	Wfact     float64
	State     State
	BSPNode   any
	Border    BorderConfig
	Opacity   float64
	OldProp   OldProp

	// FloatingBox remembers the container's geometry from the last time
	// it was floating, so a later switch back into floating restores it
	// instead of leaving the container wherever tiling last put it
	// (spec §3, alongside old_prop; §4.2 set_layout_mode's "restore each
	// container's remembered floating box").
	FloatingBox geom.Box

	Scene ports.SceneNode
	Bus   *signals.Bus
}

// New creates an empty container bound to output, per spec §3's
// lifecycle note ("created on first toplevel map into it").
func New(output OutputRef, bus *signals.Bus) *Container {
	return &Container{
		Output:  output,
		Wfact:   1.0,
		Opacity: 1.0,
		Bus:     bus,
		Border:  BorderConfig{Enabled: true, Thickness: 1},
	}
}

// Toplevels returns the ordered sequence of toplevels, front first.
func (c *Container) Toplevels() []*Toplevel { return c.toplevels }

// FrontToplevel returns the toplevel that drives focus and geometry, or
// nil if the container has none (which should only be true transiently
// between InsertToplevel/RemoveToplevel calls).
func (c *Container) FrontToplevel() *Toplevel {
	if len(c.toplevels) == 0 {
		return nil
	}
	return c.toplevels[0]
}

// IsEmpty reports whether the container has no toplevels left and
// should be destroyed (spec §3 lifecycle).
func (c *Container) IsEmpty() bool { return len(c.toplevels) == 0 }

// InsertToplevel appends t to the ordered sequence (spec §4.3). The
// first inserted toplevel becomes the front toplevel.
func (c *Container) InsertToplevel(t *Toplevel) {
	t.container = c
	c.toplevels = append(c.toplevels, t)
	if c.Bus != nil {
		c.Bus.Publish(signals.ClientNew, t)
	}
}

// RemoveToplevel detaches t from the container. It reports whether the
// container is now empty (the caller decides whether "empty" means
// "destroy me" — spec §4.3 distinguishes a destroying and a
// non-destroying variant of this operation, which in Go is just whether
// the caller drops the container after checking IsEmpty).
func (c *Container) RemoveToplevel(t *Toplevel) (nowEmpty bool) {
	for i, tl := range c.toplevels {
		if tl == t {
			c.toplevels = append(c.toplevels[:i], c.toplevels[i+1:]...)
			t.container = nil
			break
		}
	}
	if c.Bus != nil {
		c.Bus.Publish(signals.ClientDestroy, t)
	}
	return c.IsEmpty()
}

// SetFrontToplevel rotates toplevels so t is at the front and re-derives
// the container's geometry from t's surface, per spec §4.3 ("border/
// geometry re-derived from t" — border is left alone since
// ports.SurfaceProvider carries no border state of its own). t must
// already belong to c; unknown toplevels are a Transient no-op.
func (c *Container) SetFrontToplevel(t *Toplevel) {
	idx := -1
	for i, tl := range c.toplevels {
		if tl == t {
			idx = i
			break
		}
	}
	if idx <= 0 {
		if idx < 0 {
			wmerr.Report(wmerr.New(wmerr.Transient, "SetFrontToplevel: toplevel not in container"))
		}
		return
	}
	front := c.toplevels[idx]
	copy(c.toplevels[1:idx+1], c.toplevels[:idx])
	c.toplevels[0] = front
	if front.Surface != nil {
		c.Geometry = front.Surface.Geometry()
		if c.Scene != nil {
			c.Scene.SetPosition(c.Geometry.X, c.Geometry.Y)
		}
		if c.Bus != nil {
			c.Bus.Publish(signals.ContainerGeometry, c)
		}
	}
}

// SetBoxGap clamps box to at least 1x1, applies an inner gap, and sets
// the container's geometry, emitting container::geometry (spec §4.3).
// gap is supplied by the caller (the current tag info's UselessGaps)
// rather than looked up here, to avoid container importing the tag/
// output packages that sit above it in the dependency order of §2.
func (c *Container) SetBoxGap(box geom.Box, gap int) {
	box = box.Clamped()
	gapped := box.Shrink(gap)
	c.Geometry = gapped
	if c.Scene != nil {
		c.Scene.SetPosition(gapped.X, gapped.Y)
	}
	if c.Bus != nil {
		c.Bus.Publish(signals.ContainerGeometry, c)
	}
}

// RestoreFloatingBox re-applies the container's remembered floating box
// (spec §4.2 set_layout_mode's "restore each container's remembered
// floating box" on switch into floating), gapped the same way
// SetBoxGap always is. A container that has never been floating before
// has a zero FloatingBox, so this falls back to its current geometry
// rather than collapsing it to 0x0.
func (c *Container) RestoreFloatingBox(gap int) {
	box := c.FloatingBox
	if box.Width == 0 && box.Height == 0 {
		box = c.Geometry
	}
	c.SetBoxGap(box, gap)
}

// SetPosition moves the container without touching its size, used by
// the floating-move and master/BSP-move interactive paths (spec §4.6).
func (c *Container) SetPosition(x, y int) {
	c.Geometry.X = x
	c.Geometry.Y = y
	if c.Scene != nil {
		c.Scene.SetPosition(x, y)
	}
	if c.Bus != nil {
		c.Bus.Publish(signals.ContainerGeometry, c)
	}
}

// Raise moves the container's scene node to the top of its current
// scene layer (spec §4.3).
func (c *Container) Raise() {
	if c.Scene != nil {
		c.Scene.RaiseToTop()
	}
}

// Lower is the counterpart to Raise; the scene graph has no explicit
// "send to bottom" in ports.SceneNode, so this is expressed as
// disable+enable to force a redraw ordering reset, matching how the
// teacher treats "lower" as best-effort when the backend lacks a direct
// primitive.
func (c *Container) Lower() {
	if c.Scene == nil {
		return
	}
	c.Scene.SetEnabled(false)
	c.Scene.SetEnabled(true)
}

// Swap exchanges the front toplevels of the containers holding t1 and
// t2. Per spec §9's Open Question resolution: only front toplevels
// change hands, each container's tag/workspace/geometry/bsp_node is left
// untouched, which is what makes this safe to call across tags.
func Swap(t1, t2 *Toplevel) {
	if t1 == nil || t2 == nil || t1.container == nil || t2.container == nil {
		wmerr.Report(wmerr.New(wmerr.Transient, "Swap: toplevel missing container"))
		return
	}
	c1, c2 := t1.container, t2.container
	if c1 == c2 {
		return
	}
	i1, i2 := indexOf(c1.toplevels, t1), indexOf(c2.toplevels, t2)
	if i1 < 0 || i2 < 0 {
		wmerr.Report(wmerr.New(wmerr.Precondition, "Swap: toplevel not found in its own container"))
		return
	}
	c1.toplevels[i1], c2.toplevels[i2] = t2, t1
	t1.container, t2.container = c2, c1
	if c1.Bus != nil {
		c1.Bus.Publish(signals.ContainerSwap, [2]*Container{c1, c2})
	}
	if c1.Bus != nil {
		c1.Bus.Publish(signals.ClientSwap, [2]*Toplevel{t1, t2})
	}
}

func indexOf(list []*Toplevel, t *Toplevel) int {
	for i, tl := range list {
		if tl == t {
			return i
		}
	}
	return -1
}

// MoveToOutput reassigns c.Output to target and publishes
// container::geometry so interested observers (the bar, layout engines)
// re-evaluate. The caller (internal/wm/output's registry, which owns the
// per-output container lists) is responsible for splicing c out of the
// old output's State.Containers and into the new one's — this method
// only updates the container's own back-link (spec §4.3 "move_to_output").
func (c *Container) MoveToOutput(target OutputRef) {
	c.Output = target
	if c.Bus != nil {
		c.Bus.Publish(signals.ContainerGeometry, c)
	}
}

// SaveOldProp snapshots the container's current output/bsp/tag/workspace
// before it is orphaned by an output going away (spec §4.2 "Retire").
func (c *Container) SaveOldProp() {
	c.OldProp = OldProp{
		Output:    c.Output,
		BSPNode:   c.BSPNode,
		Tag:       c.Tag,
		Workspace: c.Workspace,
		Valid:     true,
	}
}

// ClearOldProp discards the saved snapshot once a container has been
// restored to a returning output (spec §4.2 "State restore").
func (c *Container) ClearOldProp() {
	c.OldProp = OldProp{}
}
