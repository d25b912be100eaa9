package master

import (
	"github.com/wltile/wltile/internal/geom"
	"github.com/wltile/wltile/internal/wm/container"
	"github.com/wltile/wltile/internal/wm/output"
	"github.com/wltile/wltile/internal/wm/tag"
)

// TileStrategy is the default master/stack arrangement: up to
// MasterCount toplevels fill a left column sized by Mwfact, the rest
// are distributed into ColumnCount columns to its right, grounded on
// arrange_tile.
type TileStrategy struct {
	BaseStrategy

	initMwfact float64
}

// NewTileStrategy returns a ready-to-register tile strategy.
func NewTileStrategy() *TileStrategy { return &TileStrategy{} }

func (s *TileStrategy) Name() string { return "tile" }

// Arrange lays out the master column then the secondary columns,
// distributing each column's remaining height across its members by
// their wfact, the last member of any column or of the master always
// absorbing the rounding remainder so the column sums exactly to the
// output's usable height.
func (s *TileStrategy) Arrange(toplevels []*container.Toplevel, o *output.Output, state *tag.MasterState) {
	usable := o.UsableArea()
	gap := gapFor(o)
	length := len(toplevels)

	masterCount := state.MasterCount
	if masterCount < 1 {
		masterCount = 1
	}
	if masterCount > length {
		masterCount = length
	}

	masterWidth := usable.Width
	if state.MasterCount < length {
		masterWidth = int(float64(usable.Width) * state.Mwfact)
	}

	startX, startY := usable.X, usable.Y

	arrangeColumn(toplevels[:masterCount], startX, startY, masterWidth, usable.Height, gap)

	if masterCount >= length {
		return
	}

	secLen := length - masterCount
	colCount := state.ColumnCount
	if colCount > secLen {
		colCount = secLen
	}
	if colCount < 1 {
		colCount = 1
	}
	secWidth := usable.Width - masterWidth

	colCapacities := make([]int, colCount)
	minItemPerCol := secLen / colCount
	itemRemainder := secLen % colCount
	for i := colCount - 1; i >= 0; i-- {
		colCapacities[i] = minItemPerCol
		if itemRemainder >= 1 {
			colCapacities[i]++
			itemRemainder--
		}
	}

	nextX := startX + masterWidth
	colWidth := secWidth / colCount
	cidxStart := masterCount
	for col := 0; col < colCount; col++ {
		cidxEnd := cidxStart + colCapacities[col]
		arrangeColumn(toplevels[cidxStart:cidxEnd], nextX, startY, colWidth, usable.Height, gap)
		nextX += colWidth
		cidxStart = cidxEnd
	}
}

// arrangeColumn stacks members top to bottom within a column of the
// given width, each sized proportionally to its container's wfact, the
// last member absorbing the remainder (the identical sub-routine
// arrange_tile repeats once for the master column and once per
// secondary column).
func arrangeColumn(members []*container.Toplevel, x, y, width, height, gap int) {
	if len(members) == 0 {
		return
	}
	totalFact := 0.0
	for _, m := range members {
		totalFact += m.Container().Wfact
	}
	if totalFact <= 0 {
		totalFact = float64(len(members))
	}

	nextY := y
	for i := 0; i < len(members)-1; i++ {
		c := members[i].Container()
		h := int(float64(height) * c.Wfact / totalFact)
		c.SetBoxGap(geom.Box{X: x, Y: nextY, Width: width, Height: h}, gap)
		nextY += h
	}
	last := members[len(members)-1].Container()
	last.SetBoxGap(geom.Box{X: x, Y: nextY, Width: width, Height: height - nextY + y}, gap)
}

// ResizeStart warps the cursor onto the master/secondary boundary and
// remembers the starting mwfact, grounded on resize_tile_start.
func (s *TileStrategy) ResizeStart(toplevels []*container.Toplevel, cursor ResizeCursor, state *tag.MasterState) {
	o, ok := resizeOutput(cursor)
	if !ok {
		return
	}
	usable := o.UsableArea()
	warpX := float64(usable.X) + float64(usable.Width)*state.Mwfact
	_, y := cursor.CursorPosition()
	cursor.WarpCursor(warpX, y)
	cursor.SetGrab(warpX, y)
	s.initMwfact = state.Mwfact
	cursor.SetCursorImage("col-resize")
}

// ResizeUpdate recomputes mwfact from how far the cursor has moved off
// the original grab point, clamped to [0.1, 0.9] by MasterState.SetMwfact
// (grounded on resize_tile_update).
func (s *TileStrategy) ResizeUpdate(toplevels []*container.Toplevel, cursor ResizeCursor, state *tag.MasterState) {
	o, ok := resizeOutput(cursor)
	if !ok {
		return
	}
	usable := o.UsableArea()
	cx, _ := cursor.CursorPosition()
	gx, _ := cursor.GrabPosition()
	diffX := cx - gx
	state.SetMwfact(s.initMwfact + diffX/float64(usable.Width))
}

func resizeOutput(cursor ResizeCursor) (*output.Output, bool) {
	grabbed := cursor.GrabbedToplevel()
	if grabbed == nil || grabbed.Container() == nil {
		return nil, false
	}
	o, ok := grabbed.Container().Output.(*output.Output)
	return o, ok && o != nil
}
