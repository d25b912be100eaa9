// Package keybind implements the keybinding map of spec §3/§4.7,
// dependency-order item 10 in §2. Grounded on
// original_source/src/input/keybinding.c: `keybind_generate_key` →
// ComposeKey, `cwc_keybind_map_create`/`_clear`/`_destroy` → NewMap/
// Clear, `keybind_kbd_register`/`keybind_mouse_register` (both thin
// wrappers over `_keybind_register`) → Register, `keybind_kbd_remove`/
// `keybind_mouse_remove` → Remove, `keybind_kbd_execute`/
// `keybind_mouse_execute`/`_keybind_execute` → DispatchPress/
// DispatchRelease, and `repeat_loop`'s re-arm-on-fire pattern → the
// closure armRepeat schedules through the injected Timer.
//
// One Map instance serves one input class (spec §4.7 "a map for each
// of: keyboard, pointer buttons"); callers construct two.
package keybind

import "time"

// Pseudo-button codes for scroll directions, composable into a key the
// same way a real linux input button code is (spec §4.7). Grounded on
// `enum cwc_cursor_pseudo_btn` in include/cwc/input/cursor.h, which is
// where the original defines them even though they are only ever used
// as keybinding map keys.
const (
	ScrollLeft uint32 = 0x13371 + iota
	ScrollUp
	ScrollRight
	ScrollDown
)

// ComposeKey builds the 64-bit lookup key from a modifier bitfield and
// a code (an XKB keysym, a linux input button code, or one of the
// pseudo-button constants above), per spec §4.7's "(modifiers << 32) |
// code" and keybind_generate_key.
func ComposeKey(modifiers, code uint32) uint64 {
	return uint64(modifiers)<<32 | uint64(code)
}

// Binding is one entry of spec §4.7's "Binding record".
type Binding struct {
	OnPress   func()
	OnRelease func()

	Description string
	Group       string

	// Exclusive, if false, means the binding does not fire while the
	// session is locked or a shortcut inhibitor is active.
	Exclusive bool
	// Repeat means on_press re-invokes every 2000/repeatRateHz ms after
	// the first repeatDelayMs while the key is held (see Map.periodMsec).
	Repeat bool
	// Pass, if true, means the event is also delivered to the focused
	// client: DispatchPress reports "not handled" for such a binding so
	// the caller still forwards the event (spec §4.7 step 5).
	Pass bool
}

// Timer is the injectable single-handle repeat timer spec §4.7's "Map
// container" describes ("repeat_timer: single handle per map"),
// grounded on wl_event_source_timer_update. Arming with delay <= 0
// cancels any previously armed callback without running it, matching
// spec §5's "cancelled synchronously by re-arming with period 0" —
// this package has no real OS timer of its own; the reactor assembly
// layer backs Timer with time.AfterFunc or an event-loop timer source.
type Timer interface {
	Arm(delay time.Duration, fn func())
}

// Map is one keyboard- or pointer-button keybinding table (spec §4.7).
type Map struct {
	active   bool
	bindings map[uint64]Binding

	timer         Timer
	repeating     *uint64
	repeatRateHz  int
	repeatDelayMs int
}

// NewMap returns an active, empty map. timer may be nil, in which case
// Repeat bindings simply never re-fire (useful for headless tests).
func NewMap(timer Timer, repeatRateHz, repeatDelayMs int) *Map {
	return &Map{
		active:        true,
		bindings:      make(map[uint64]Binding),
		timer:         timer,
		repeatRateHz:  repeatRateHz,
		repeatDelayMs: repeatDelayMs,
	}
}

// Active reports the map's global enable flag.
func (m *Map) Active() bool { return m.active }

// SetActive globally enables or disables dispatch on this map.
func (m *Map) SetActive(active bool) { m.active = active }

// Register inserts or replaces the binding for (modifiers, code),
// grounded on _keybind_register's "remove if exist, then insert". If
// the replaced key was mid-repeat, the repeat is stopped first so no
// stale closure keeps firing.
func (m *Map) Register(modifiers, code uint32, b Binding) {
	key := ComposeKey(modifiers, code)
	m.stopRepeatIfKey(key)
	m.bindings[key] = b
}

// Remove deletes the binding for (modifiers, code), if any.
func (m *Map) Remove(modifiers, code uint32) {
	key := ComposeKey(modifiers, code)
	m.stopRepeatIfKey(key)
	delete(m.bindings, key)
}

// Clear removes every binding and stops any in-progress repeat,
// grounded on cwc_keybind_map_clear.
func (m *Map) Clear() {
	m.stopRepeat()
	m.bindings = make(map[uint64]Binding)
}

// Lookup returns the binding registered for (modifiers, code), if any.
func (m *Map) Lookup(modifiers, code uint32) (Binding, bool) {
	b, ok := m.bindings[ComposeKey(modifiers, code)]
	return b, ok
}

// DispatchPress runs the press dispatch algorithm of spec §4.7:
//  1. an inactive map never handles anything.
//  2. an unbound key is never handled.
//  3. a non-exclusive binding is skipped while input is inhibited.
//  4. on_press runs, arming the repeat timer on first press if the
//     binding wants repeat and nothing is already repeating in this map.
//  5. the result is "handled" unless the binding passes the event
//     through to the client too.
func (m *Map) DispatchPress(modifiers, code uint32, inhibited bool) bool {
	if !m.active {
		return false
	}
	key := ComposeKey(modifiers, code)
	b, ok := m.bindings[key]
	if !ok {
		return false
	}
	if !b.Exclusive && inhibited {
		return false
	}
	if b.OnPress != nil {
		b.OnPress()
	}
	if b.Repeat && m.repeating == nil {
		k := key
		m.repeating = &k
		m.armRepeat(b, m.repeatDelayMs)
	}
	return !b.Pass
}

// DispatchRelease runs the release dispatch of spec §4.7: "symmetric
// but always attempted" — unlike press, it bypasses the active and
// exclusive/inhibited checks so a client never sees a stuck key just
// because the session locked between press and release.
func (m *Map) DispatchRelease(modifiers, code uint32) bool {
	key := ComposeKey(modifiers, code)
	b, ok := m.bindings[key]
	if !ok {
		return false
	}
	m.stopRepeatIfKey(key)
	if b.OnRelease != nil {
		b.OnRelease()
	}
	return !b.Pass
}

func (m *Map) periodMsec() int {
	if m.repeatRateHz <= 0 {
		return 2000
	}
	return 2000 / m.repeatRateHz
}

func (m *Map) armRepeat(b Binding, delayMsec int) {
	if m.timer == nil {
		return
	}
	m.timer.Arm(time.Duration(delayMsec)*time.Millisecond, func() {
		if b.OnPress != nil {
			b.OnPress()
		}
		m.armRepeat(b, m.periodMsec())
	})
}

func (m *Map) stopRepeat() {
	if m.timer != nil {
		m.timer.Arm(0, nil)
	}
	m.repeating = nil
}

func (m *Map) stopRepeatIfKey(key uint64) {
	if m.repeating != nil && *m.repeating == key {
		m.stopRepeat()
	}
}
