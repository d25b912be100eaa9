package focus

import (
	"testing"

	"github.com/wltile/wltile/internal/config"
	"github.com/wltile/wltile/internal/geom"
	"github.com/wltile/wltile/internal/signals"
	"github.com/wltile/wltile/internal/transaction"
	"github.com/wltile/wltile/internal/wm/bsp"
	"github.com/wltile/wltile/internal/wm/container"
	"github.com/wltile/wltile/internal/wm/output"
	"github.com/wltile/wltile/internal/wm/ports"
	"github.com/wltile/wltile/internal/wm/tag"
)

func testOutput(t *testing.T) (*output.Registry, *output.Output, *signals.Bus) {
	t.Helper()
	cfg, err := config.DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() error = %v", err)
	}
	bus := signals.New()
	reg := output.NewRegistry(bus, transaction.New(nil), cfg, 30)
	o := reg.Connect("DP-1", geom.Box{Width: 1000, Height: 800})
	o.SetUsableArea(geom.Box{Width: 1000, Height: 800})
	o.State.ActiveTag = tag.Of(1)
	o.State.ActiveWorkspace = 1
	return reg, o, bus
}

func newManagedContainer(o *output.Output, workspace int) (*container.Container, *container.Toplevel) {
	cont := container.New(o, nil)
	cont.Workspace = workspace
	cont.Tag = container.TagBitfield(tag.Of(workspace))
	o.State.Containers = append(o.State.Containers, cont)
	tl := &container.Toplevel{Mapped: true}
	cont.InsertToplevel(tl)
	return cont, tl
}

func TestAttachInsertsAtFrontAndSkipsUnmanaged(t *testing.T) {
	_, o, _ := testOutput(t)
	a, _ := newManagedContainer(o, 1)
	b, _ := newManagedContainer(o, 1)
	Attach(o, a)
	Attach(o, b)

	if len(o.State.FocusStack) != 2 || o.State.FocusStack[0] != b || o.State.FocusStack[1] != a {
		t.Fatalf("FocusStack = %+v, want [b, a]", o.State.FocusStack)
	}

	unmanagedCont, unmanagedTop := newManagedContainer(o, 1)
	unmanagedTop.Unmanaged = true
	Attach(o, unmanagedCont)
	if len(o.State.FocusStack) != 2 {
		t.Fatalf("expected an unmanaged container never to be attached, got %+v", o.State.FocusStack)
	}
}

func TestMoveToFrontReordersStack(t *testing.T) {
	_, o, _ := testOutput(t)
	a, _ := newManagedContainer(o, 1)
	b, _ := newManagedContainer(o, 1)
	Attach(o, a)
	Attach(o, b)

	MoveToFront(o, a)

	if o.State.FocusStack[0] != a {
		t.Fatalf("FocusStack[0] = %+v, want a at the front", o.State.FocusStack[0])
	}
	if len(o.State.FocusStack) != 2 {
		t.Fatalf("expected MoveToFront not to duplicate entries, got %+v", o.State.FocusStack)
	}
}

func TestFocusMarksActivatedAndEmitsSignals(t *testing.T) {
	_, o, bus := testOutput(t)
	a, aTop := newManagedContainer(o, 1)
	b, bTop := newManagedContainer(o, 1)
	Attach(o, a)
	Attach(o, b)
	a.SetState(container.StateActivated, true)

	_, unfocusCh := bus.Subscribe(signals.ClientUnfocus)
	_, focusCh := bus.Subscribe(signals.ClientFocus)

	m := New(bus, Hooks{})
	m.Focus(o, bTop)

	if a.State.Has(container.StateActivated) {
		t.Fatal("expected the previously focused container to lose Activated")
	}
	if !b.State.Has(container.StateActivated) {
		t.Fatal("expected the newly focused container to gain Activated")
	}
	if o.State.FocusStack[0] != b {
		t.Fatalf("FocusStack[0] = %+v, want the newly focused container at the front", o.State.FocusStack[0])
	}
	select {
	case got := <-unfocusCh:
		if got != aTop {
			t.Fatalf("client::unfocus payload = %+v, want the old front toplevel", got)
		}
	default:
		t.Fatal("expected client::unfocus to be published")
	}
	select {
	case got := <-focusCh:
		if got != bTop {
			t.Fatalf("client::focus payload = %+v, want the newly focused toplevel", got)
		}
	default:
		t.Fatal("expected client::focus to be published")
	}
}

func TestFocusIsNoOpWhenAlreadyFocusedButReassertsKeyboardFocus(t *testing.T) {
	_, o, bus := testOutput(t)
	a, aTop := newManagedContainer(o, 1)
	Attach(o, a)
	a.SetState(container.StateActivated, true)

	calls := 0
	m := New(bus, Hooks{SetKeyboardFocus: func(ports.SurfaceProvider) { calls++ }})
	m.Focus(o, aTop)

	if calls != 1 {
		t.Fatalf("SetKeyboardFocus called %d times, want 1", calls)
	}
	if len(o.State.FocusStack) != 1 {
		t.Fatalf("FocusStack = %+v, want unchanged", o.State.FocusStack)
	}
}

func TestFocusUpdatesBSPLastFocusedWhenWorkspaceIsBSP(t *testing.T) {
	_, o, bus := testOutput(t)
	o.State.TagInfo[1].LayoutMode = tag.BSP
	a, _ := newManagedContainer(o, 1)
	bsp.InsertContainer(a, 1)
	b, bTop := newManagedContainer(o, 1)
	bsp.InsertContainer(b, 1)
	Attach(o, a)
	Attach(o, b)

	m := New(bus, Hooks{})
	m.Focus(o, bTop)

	if e := bsp.EntryGet(o, 1); e == nil || e.LastFocused != b {
		t.Fatalf("expected last_focused to become b, got %+v", e)
	}
}

func TestFocusNewestVisibleSkipsInvisibleMinimizedAndUnmanaged(t *testing.T) {
	_, o, bus := testOutput(t)
	hidden, _ := newManagedContainer(o, 2)
	Attach(o, hidden)

	unmanagedCont := container.New(o, nil)
	unmanagedCont.Workspace = 1
	unmanagedCont.Tag = container.TagBitfield(tag.Of(1))
	unmanagedTop := &container.Toplevel{Unmanaged: true}
	unmanagedCont.InsertToplevel(unmanagedTop)
	o.State.FocusStack = append([]*container.Container{unmanagedCont}, o.State.FocusStack...)

	minimized, _ := newManagedContainer(o, 1)
	minimized.SetState(container.StateMinimized, true)
	Attach(o, minimized)

	visible, _ := newManagedContainer(o, 1)
	Attach(o, visible)

	m := New(bus, Hooks{})
	m.FocusNewestVisible(o)

	if !visible.State.Has(container.StateActivated) {
		t.Fatal("expected the only eligible container to become focused")
	}
}

func TestFocusNewestVisibleClearsFocusWhenNothingQualifies(t *testing.T) {
	_, o, bus := testOutput(t)
	hidden, _ := newManagedContainer(o, 2)
	Attach(o, hidden)

	cleared := false
	m := New(bus, Hooks{ClearFocus: func() { cleared = true }})
	m.FocusNewestVisible(o)

	if !cleared {
		t.Fatal("expected ClearFocus to be called when no container qualifies")
	}
}

func TestDetachOnMissingContainerIsANoOp(t *testing.T) {
	_, o, _ := testOutput(t)
	a, _ := newManagedContainer(o, 1)
	Detach(o, a)
	if len(o.State.FocusStack) != 0 {
		t.Fatalf("FocusStack = %+v, want empty", o.State.FocusStack)
	}
}
