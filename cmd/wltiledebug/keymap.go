package main

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/wltile/wltile/internal/wm/container"
	"github.com/wltile/wltile/internal/wm/keybind"
	"github.com/wltile/wltile/internal/wm/output"
	"github.com/wltile/wltile/internal/wm/tag"
)

// Local modifier bits for keybind.ComposeKey, translated from
// tea.KeyMod at the point each key event is dispatched (keymap.go keeps
// the core's keybind package free of any bubbletea dependency, per spec
// §1's Non-goals excluding wire/backend concerns from the core).
const (
	modShift uint32 = 1 << iota
	modCtrl
	modAlt
	modSuper
)

func translateMods(mod tea.KeyMod) uint32 {
	var out uint32
	if mod.Contains(tea.ModShift) {
		out |= modShift
	}
	if mod.Contains(tea.ModCtrl) {
		out |= modCtrl
	}
	if mod.Contains(tea.ModAlt) {
		out |= modAlt
	}
	if mod.Contains(tea.ModSuper) {
		out |= modSuper
	}
	return out
}

// registerKeybindings installs the debug tool's default keymap: enough
// of spec §4.7/§4.5/§4.4's operations bound to keys that the tiling,
// focus and layout-switch behavior can be driven from a keyboard with
// no config file, mirroring how a fresh original_source install ships a
// "Mod+key" default keymap in its Lua config.
func registerKeybindings(c *core) {
	k := c.Keyboard
	k.SetActive(true)

	bind := func(code rune, fn func()) {
		k.Register(modSuper, uint32(code), keybind.Binding{OnPress: fn})
	}

	bind('\r', func() {
		o := c.Outputs.Focused()
		c.spawnWindow(o, o.State.ActiveWorkspace, fmt.Sprintf("window-%d", c.nextWindowID+1))
	})

	bind('q', func() {
		o := c.Outputs.Focused()
		if front := frontFocused(o); front != nil {
			if ds, ok := front.Surface.(*debugSurface); ok {
				c.closeWindow(o, ds.id)
			}
		}
	})

	bind('j', func() { cycleFocus(c, 1) })
	bind('k', func() { cycleFocus(c, -1) })

	bind(' ', func() {
		o := c.Outputs.Focused()
		if front := frontFocused(o); front != nil {
			cont := front.Container()
			cont.SetState(container.StateFloating, !cont.State.Has(container.StateFloating))
		}
	})

	bind('n', func() {
		o := c.Outputs.Focused()
		if front := frontFocused(o); front != nil {
			cont := front.Container()
			o.SetMinimized(cont, !cont.State.Has(container.StateMinimized))
			c.Focus.FocusNewestVisible(o)
		}
	})

	bind('b', func() { setLayoutMode(c, tag.BSP) })
	bind('m', func() { setLayoutMode(c, tag.Master) })
	bind('t', func() { setLayoutMode(c, tag.Floating) })

	for i := rune('1'); i <= '9'; i++ {
		workspace := int(i - '0')
		bind(i, func() {
			o := c.Outputs.Focused()
			o.SetViewOnly(workspace)
			c.Scheduler.Drain()
		})
	}
}

// frontFocused returns the front toplevel of whatever sits at the front
// of o's focus stack, or nil if nothing is focused.
func frontFocused(o *output.Output) *container.Toplevel {
	if len(o.State.FocusStack) == 0 {
		return nil
	}
	return o.State.FocusStack[0].FrontToplevel()
}

func cycleFocus(c *core, dir int) {
	o := c.Outputs.Focused()
	stack := o.State.FocusStack
	if len(stack) < 2 {
		return
	}
	idx := 0
	if dir < 0 {
		idx = len(stack) - 1
	} else {
		idx = 1
	}
	if front := stack[idx].FrontToplevel(); front != nil {
		c.Focus.Focus(o, front)
	}
}

// setLayoutMode drives the focused output's active workspace through
// internal/wm/output.Output.SetLayoutMode, the lifted core operation,
// then drains the scheduler so the switch takes visible effect
// immediately in the debug TUI.
func setLayoutMode(c *core, mode tag.LayoutMode) {
	o := c.Outputs.Focused()
	o.SetLayoutMode(o.State.ActiveWorkspace, mode)
	c.Scheduler.Drain()
}
