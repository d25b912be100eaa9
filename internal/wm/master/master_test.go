package master

import (
	"testing"

	"github.com/wltile/wltile/internal/config"
	"github.com/wltile/wltile/internal/geom"
	"github.com/wltile/wltile/internal/signals"
	"github.com/wltile/wltile/internal/transaction"
	"github.com/wltile/wltile/internal/wm/container"
	"github.com/wltile/wltile/internal/wm/output"
	"github.com/wltile/wltile/internal/wm/tag"
)

func newTestOutput(t *testing.T) *output.Output {
	t.Helper()
	cfg, err := config.DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() error = %v", err)
	}
	r := output.NewRegistry(signals.New(), transaction.New(nil), cfg, 30)
	o := r.Connect("DP-1", geom.Box{Width: 1200, Height: 800})
	o.SetUsableArea(geom.Box{Width: 1200, Height: 800})
	o.State.TagInfo[1].LayoutMode = tag.Master
	return o
}

func newTiledToplevel(o *output.Output) *container.Toplevel {
	c := container.New(o, nil)
	c.Workspace = 1
	o.State.Containers = append(o.State.Containers, c)
	tl := &container.Toplevel{}
	c.InsertToplevel(tl)
	return tl
}

func TestArrangeUpdateSingleMasterFillsUsableArea(t *testing.T) {
	o := newTestOutput(t)
	tl := newTiledToplevel(o)

	NewRegistry().ArrangeUpdate(o)

	c := tl.Container()
	if c.Geometry.Width != 1200 || c.Geometry.Height != 800 {
		t.Fatalf("Geometry = %+v, want the full usable area for a single master", c.Geometry)
	}
}

func TestArrangeUpdateSplitsMasterAndStack(t *testing.T) {
	o := newTestOutput(t)
	master := newTiledToplevel(o)
	stack := newTiledToplevel(o)

	NewRegistry().ArrangeUpdate(o)

	mc, sc := master.Container(), stack.Container()
	if mc.Geometry.Width+sc.Geometry.Width != 1200 {
		t.Fatalf("expected master and stack widths to sum to 1200, got %d and %d",
			mc.Geometry.Width, sc.Geometry.Width)
	}
	if mc.Geometry.Width != 600 || sc.Geometry.Width != 600 {
		t.Fatal("expected the master and stack columns to split 600/600 at mwfact 0.5 with 1 master")
	}
}

func TestArrangeUpdateSkipsFloatingContainers(t *testing.T) {
	o := newTestOutput(t)
	tiled := newTiledToplevel(o)
	floating := newTiledToplevel(o)
	floating.Container().SetState(container.StateFloating, true)
	floating.Container().Geometry = geom.Box{X: 50, Y: 50, Width: 10, Height: 10}

	NewRegistry().ArrangeUpdate(o)

	if tiled.Container().Geometry.Width != 1200 {
		t.Fatalf("expected the sole tileable container to take the full width, got %d",
			tiled.Container().Geometry.Width)
	}
	if floating.Container().Geometry.Width != 10 {
		t.Fatal("expected the floating container's geometry to be left untouched")
	}
}

func TestGetMasterAndSetMaster(t *testing.T) {
	o := newTestOutput(t)
	first := newTiledToplevel(o)
	second := newTiledToplevel(o)

	reg := NewRegistry()
	if reg.GetMaster(o) != first {
		t.Fatal("expected the first-inserted container to start as master")
	}

	reg.SetMaster(o, second)
	if reg.GetMaster(o) != second {
		t.Fatal("expected SetMaster to promote the second toplevel to master")
	}
}

func TestMonocleFillsEveryTileableToFullArea(t *testing.T) {
	o := newTestOutput(t)
	o.State.TagInfo[1].LayoutMode = tag.Master
	o.State.TagInfo[1].Master.CurrentLayout = NewMonocleStrategy()
	a := newTiledToplevel(o)
	b := newTiledToplevel(o)

	NewRegistry().ArrangeUpdate(o)

	if a.Container().Geometry.Width != 1200 || b.Container().Geometry.Width != 1200 {
		t.Fatal("expected monocle to give every tileable container the full usable width")
	}
}

type fakeResizeCursor struct {
	grabbed          *container.Toplevel
	x, y             float64
	grabX, grabY     float64
	warpedX, warpedY float64
	cursorImage      string
}

func (f *fakeResizeCursor) GrabbedToplevel() *container.Toplevel { return f.grabbed }
func (f *fakeResizeCursor) CursorPosition() (float64, float64)   { return f.x, f.y }
func (f *fakeResizeCursor) GrabPosition() (float64, float64)     { return f.grabX, f.grabY }
func (f *fakeResizeCursor) SetGrab(x, y float64)                 { f.grabX, f.grabY = x, y }
func (f *fakeResizeCursor) WarpCursor(x, y float64) {
	f.warpedX, f.warpedY = x, y
	f.x, f.y = x, y
}
func (f *fakeResizeCursor) SetCursorImage(name string) { f.cursorImage = name }

func TestTileResizeStartWarpsAndResizeUpdateClampsMwfact(t *testing.T) {
	o := newTestOutput(t)
	master := newTiledToplevel(o)
	newTiledToplevel(o)

	reg := NewRegistry()
	cursor := &fakeResizeCursor{grabbed: master, y: 100}

	reg.ResizeStart(o, cursor)
	if cursor.warpedX != float64(o.UsableArea().X)+float64(o.UsableArea().Width)*0.5 {
		t.Fatalf("expected ResizeStart to warp the cursor to the mwfact boundary, got %v", cursor.warpedX)
	}
	if cursor.cursorImage != "col-resize" {
		t.Fatal("expected ResizeStart to set the col-resize cursor image")
	}

	cursor.x = cursor.grabX + 10000
	reg.ResizeUpdate(o, cursor)
	info := o.CurrentTagInfo()
	if info.Master.Mwfact != 0.9 {
		t.Fatalf("Mwfact = %v, want clamped to 0.9 after a huge rightward drag", info.Master.Mwfact)
	}
}
