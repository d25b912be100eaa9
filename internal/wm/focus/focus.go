// Package focus implements the focus stack and keyboard-focus glue of
// spec §3 "focus_stack" and operations §4.8, the last item in the
// dependency order of spec §2: it sees container, output, bsp and tag
// together, purely to keep the single "which container is focused"
// invariant consistent across them.
//
// Grounded on original_source/src/desktop/output.c:
// `cwc_output_get_newest_focus_toplevel`/
// `cwc_output_focus_newest_focus_visible_toplevel` →
// Manager.FocusNewestVisible, and the focus_stack's described
// MRU-reinsertion behavior (`link_output_fstack`) → Attach/Detach/
// MoveToFront. The original's `cwc_toplevel_focus` body itself was not
// part of the retrieved source (toplevel.c was filtered down to just
// its includes), so the press/release bookkeeping below is built
// directly from spec §4.8's two bullets instead of a line-for-line
// port.
package focus

import (
	"github.com/wltile/wltile/internal/signals"
	"github.com/wltile/wltile/internal/wm/bsp"
	"github.com/wltile/wltile/internal/wm/container"
	"github.com/wltile/wltile/internal/wm/output"
	"github.com/wltile/wltile/internal/wm/ports"
	"github.com/wltile/wltile/internal/wm/tag"
	"github.com/wltile/wltile/internal/wmerr"
)

// Hooks are the wire-protocol actions that live outside this module's
// Non-goals (spec §1): setting real seat keyboard focus and clearing
// seat focus entirely are wlroots calls the core never makes directly.
// Both may be left nil in tests.
type Hooks struct {
	// SetKeyboardFocus is called with the surface that should receive
	// wire-protocol keyboard focus.
	SetKeyboardFocus func(ports.SurfaceProvider)
	// ClearFocus is called when no visible container remains to focus,
	// mirroring wlr_seat_keyboard_clear_focus/wlr_seat_pointer_clear_focus.
	ClearFocus func()
}

// Manager drives focus changes and focus-stack bookkeeping for every
// output. It holds no per-output state itself — that lives in each
// output.State.FocusStack — so one Manager serves the whole compositor.
type Manager struct {
	Bus   *signals.Bus
	Hooks Hooks
}

// New returns a Manager publishing through bus and calling hooks for
// the wire-protocol side effects spec §1 excludes from this module.
func New(bus *signals.Bus, hooks Hooks) *Manager {
	return &Manager{Bus: bus, Hooks: hooks}
}

// Attach inserts a newly mapped container at the front of o's focus
// stack. Unmanaged containers (an xwayland override-redirect surface's
// front toplevel) are never inserted, per spec §3's focus_stack note.
func Attach(o *output.Output, cont *container.Container) {
	if isUnmanaged(cont) {
		return
	}
	Detach(o, cont)
	o.State.FocusStack = append([]*container.Container{cont}, o.State.FocusStack...)
}

// Detach removes cont from o's focus stack, if present. Safe to call on
// a container that was never attached.
func Detach(o *output.Output, cont *container.Container) {
	stack := o.State.FocusStack
	for i, c := range stack {
		if c == cont {
			o.State.FocusStack = append(stack[:i:i], stack[i+1:]...)
			return
		}
	}
}

// MoveToFront re-attaches cont to the front of o's focus stack without
// changing any other container's relative order (spec §4.8 "moving
// focus re-attaches the container to the front of focus_stack").
func MoveToFront(o *output.Output, cont *container.Container) {
	Detach(o, cont)
	o.State.FocusStack = append([]*container.Container{cont}, o.State.FocusStack...)
}

func isUnmanaged(cont *container.Container) bool {
	front := cont.FrontToplevel()
	return front != nil && front.Unmanaged
}

// Focus performs a keyboard focus change to the container holding to
// (spec §4.8's first bullet): every other container in o's focus stack
// that is Activated is marked Activated=false and emits client::unfocus
// for its front toplevel; to's container is marked Activated=true and
// emits client::focus, is moved to the front of the focus stack, and —
// if its workspace is laid out in BSP — becomes that tree's
// last_focused. A nil or detached toplevel is a Precondition no-op,
// matching spec §1's "nothing happened on invalid input".
func (m *Manager) Focus(o *output.Output, to *container.Toplevel) {
	if to == nil {
		wmerr.Report(wmerr.New(wmerr.Precondition, "Focus: nil toplevel"))
		return
	}
	newCont := to.Container()
	if newCont == nil {
		wmerr.Report(wmerr.New(wmerr.Precondition, "Focus: toplevel detached from any container"))
		return
	}

	if len(o.State.FocusStack) > 0 && o.State.FocusStack[0] == newCont && newCont.State.Has(container.StateActivated) {
		if m.Hooks.SetKeyboardFocus != nil {
			m.Hooks.SetKeyboardFocus(to.Surface)
		}
		return
	}
	for _, old := range o.State.FocusStack {
		if old == newCont || !old.State.Has(container.StateActivated) {
			continue
		}
		old.SetState(container.StateActivated, false)
		if m.Bus != nil {
			if oldFront := old.FrontToplevel(); oldFront != nil {
				m.Bus.Publish(signals.ClientUnfocus, oldFront)
			}
		}
	}

	newCont.SetState(container.StateActivated, true)
	if m.Bus != nil {
		m.Bus.Publish(signals.ClientFocus, to)
	}
	if info := tagInfoFor(o, newCont.Workspace); info != nil && info.LayoutMode == tag.BSP {
		bsp.LastFocusedUpdate(newCont)
	}
	MoveToFront(o, newCont)

	if m.Hooks.SetKeyboardFocus != nil {
		m.Hooks.SetKeyboardFocus(to.Surface)
	}
}

// FocusNewestVisible walks o's focus stack front-to-back and focuses
// the front toplevel of the first visible, managed container (spec
// §4.8's second bullet, cwc_output_focus_newest_focus_visible_toplevel).
// If none qualify it clears focus instead. Its signature matches
// output.Output.UpdateVisible's focusFn parameter, so it is meant to be
// wired there directly — every tag switch, minimize, or visibility
// change then re-derives focus the same way.
func (m *Manager) FocusNewestVisible(o *output.Output) {
	for _, cont := range o.State.FocusStack {
		front := cont.FrontToplevel()
		if front == nil || front.Unmanaged {
			continue
		}
		if !o.IsVisible(cont) || cont.State.Has(container.StateMinimized) {
			continue
		}
		m.Focus(o, front)
		return
	}
	if m.Hooks.ClearFocus != nil {
		m.Hooks.ClearFocus()
	}
}

func tagInfoFor(o *output.Output, workspace int) *tag.Info {
	if workspace < 0 || workspace >= len(o.State.TagInfo) {
		return nil
	}
	return &o.State.TagInfo[workspace]
}
