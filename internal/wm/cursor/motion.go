package cursor

import (
	"github.com/wltile/wltile/internal/geom"
	"github.com/wltile/wltile/internal/wm/bsp"
	"github.com/wltile/wltile/internal/wm/container"
)

// minFenceWfact/maxFenceWfact are the clamp bounds for a BSP resize
// fence's left_wfact, per spec §4.6 ResizeBSP.
const (
	minFenceWfact = 0.05
	maxFenceWfact = 0.95
)

// defaultRefreshHz is what spec §4.6's throttling rule falls back to
// when the output's actual refresh rate is unknown.
const defaultRefreshHz = 120

func clampWfact(v float64) float64 {
	return geom.Clamp(v, minFenceWfact, maxFenceWfact)
}

// Motion feeds a pointer-motion event into the state machine (spec
// §4.6 "Per-frame update"), grounded on process_cursor_motion. timeMsec
// is the backend's monotonic event timestamp, used only to throttle
// resize recomputation.
func (c *Cursor) Motion(timeMsec uint64, x, y float64) {
	c.x, c.y = x, y

	switch c.state {
	case Move:
		c.updateMove()
	case MoveBSP, MoveMaster:
		c.updateMoveTiled()
	case Resize:
		c.updateResize()
	case ResizeBSP:
		c.updateResizeBSP(timeMsec)
	case ResizeMaster:
		c.updateResizeMaster(timeMsec)
	}
}

func (c *Cursor) updateMove() {
	cont := c.grabbedContainer()
	if cont == nil {
		return
	}
	newX := int(c.x - c.grabOffsetX)
	newY := int(c.y - c.grabOffsetY)
	cont.SetPosition(newX, newY)

	o := c.CurrentOutput()
	if o == nil {
		c.hideOverlay()
		return
	}
	edges := geom.EdgesNear(o.UsableArea(), int(c.x), int(c.y), c.Cfg.CursorEdgeThreshold)
	if edges == 0 {
		c.hideOverlay()
		return
	}
	c.showOverlay(geom.SnapGeometry(o.UsableArea(), edges))
}

func (c *Cursor) updateMoveTiled() {
	cont := c.grabbedContainer()
	if cont == nil {
		return
	}
	cont.SetPosition(int(c.x-c.grabOffsetX), int(c.y-c.grabOffsetY))
}

func (c *Cursor) updateResize() {
	cont := c.grabbedContainer()
	if cont == nil {
		return
	}
	box := c.grabFloat
	dx := int(c.x - c.grabX)
	dy := int(c.y - c.grabY)
	if c.resizeEdges.Has(geom.EdgeLeft) {
		box.X += dx
		box.Width -= dx
	} else if c.resizeEdges.Has(geom.EdgeRight) {
		box.Width += dx
	}
	if c.resizeEdges.Has(geom.EdgeTop) {
		box.Y += dy
		box.Height -= dy
	} else if c.resizeEdges.Has(geom.EdgeBottom) {
		box.Height += dy
	}
	c.pendingBox = box.Clamped()
	c.pendingBoxValid = true
}

// dueForResize implements spec §4.6's throttling rule: resize motion
// only actually recomputes at most once per monitor refresh period.
func (c *Cursor) dueForResize(timeMsec uint64) bool {
	hz := c.RefreshHz
	if hz <= 0 {
		hz = defaultRefreshHz
	}
	periodMsec := uint64(1000 / hz)
	if periodMsec == 0 {
		periodMsec = 1
	}
	if timeMsec < c.lastResizeTimeMsec+periodMsec {
		return false
	}
	c.lastResizeTimeMsec = timeMsec
	return true
}

func (c *Cursor) updateResizeBSP(timeMsec uint64) {
	if c.grabVertical == nil && c.grabHorizontal == nil {
		return
	}
	if !c.dueForResize(timeMsec) {
		return
	}
	if c.grabVertical != nil {
		fence := c.grabVertical
		dy := c.y - c.grabY
		fence.node.LeftWfact = clampWfact(fence.wfactStart + dy/float64(fence.node.Height))
	}
	if c.grabHorizontal != nil {
		fence := c.grabHorizontal
		dx := c.x - c.grabX
		fence.node.LeftWfact = clampWfact(fence.wfactStart + dx/float64(fence.node.Width))
	}
	if c.grabVertical != nil {
		bsp.UpdateNode(c.grabVertical.node)
	}
	if c.grabHorizontal != nil {
		bsp.UpdateNode(c.grabHorizontal.node)
	}
}

func (c *Cursor) updateResizeMaster(timeMsec uint64) {
	if c.Master == nil || c.grabOutput == nil {
		return
	}
	if !c.dueForResize(timeMsec) {
		return
	}
	c.Master.ResizeUpdate(c.grabOutput, c)
}

func (c *Cursor) showOverlay(box geom.Box) {
	if c.overlay != nil {
		c.overlay.SetBox(box)
		return
	}
	if c.NewOverlay == nil {
		return
	}
	c.overlay = c.NewOverlay(box, c.Cfg.CursorEdgeSnappingOverlay)
}

func (c *Cursor) hideOverlay() {
	if c.overlay == nil {
		return
	}
	c.overlay.Destroy()
	c.overlay = nil
}

func (c *Cursor) endMove() {
	cont := c.grabbedContainer()
	if cont == nil {
		return
	}
	o := c.CurrentOutput()
	if o == nil {
		return
	}
	edges := geom.EdgesNear(o.UsableArea(), int(c.x), int(c.y), c.Cfg.CursorEdgeThreshold)
	if edges != 0 {
		cont.SetBoxGap(geom.SnapGeometry(o.UsableArea(), edges), 0)
	}
}

func (c *Cursor) endResize() {
	cont := c.grabbedContainer()
	if cont == nil || !c.pendingBoxValid {
		return
	}
	cont.SetBoxGap(c.pendingBox, 0)
}

func (c *Cursor) endMoveMaster() {
	cont := c.grabbedContainer()
	if cont == nil || c.grabOutput == nil {
		return
	}
	var target *container.Container
	for _, other := range c.grabOutput.State.Containers {
		if other == cont {
			continue
		}
		if !c.grabOutput.IsVisible(other) {
			continue
		}
		if other.State.Has(container.StateFloating) || other.State.Has(container.StateMinimized) {
			continue
		}
		if other.Geometry.Contains(int(c.x), int(c.y)) {
			target = other
			break
		}
	}
	if target != nil && target.FrontToplevel() != nil {
		container.Swap(c.grabbedToplevel, target.FrontToplevel())
	}
	if c.Master != nil {
		c.Master.ArrangeUpdate(c.grabOutput)
	}
}

func (c *Cursor) endMoveBSP() {
	cont := c.grabbedContainer()
	if cont == nil || c.grabOutput == nil {
		return
	}
	workspace := cont.Workspace
	var target *container.Container
	for _, other := range c.grabOutput.State.Containers {
		if other == cont || other.Workspace != workspace {
			continue
		}
		if other.Geometry.Contains(int(c.x), int(c.y)) {
			target = other
			break
		}
	}
	if target == nil {
		bsp.InsertContainer(cont, workspace)
		return
	}
	if e := bsp.EntryGet(c.grabOutput, workspace); e != nil {
		e.LastFocused = target
	}
	pos := bsp.ShouldInsertAtPosition(target.Geometry, int(c.x), int(c.y))
	bsp.InsertContainerPos(cont, workspace, pos)
}

func (c *Cursor) endResizeBSP() {
	c.grabVertical, c.grabHorizontal = nil, nil
}

func (c *Cursor) endResizeMaster() {
	if c.Master != nil && c.grabOutput != nil {
		c.Master.ResizeEnd(c.grabOutput, c)
	}
}
