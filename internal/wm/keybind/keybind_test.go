package keybind

import (
	"testing"
	"time"
)

type fakeTimer struct {
	armed bool
	delay time.Duration
	fn    func()
}

func (f *fakeTimer) Arm(delay time.Duration, fn func()) {
	if delay <= 0 {
		f.armed = false
		f.fn = nil
		return
	}
	f.armed = true
	f.delay = delay
	f.fn = fn
}

// fire simulates the timer elapsing, matching what the reactor's real
// timer source would do.
func (f *fakeTimer) fire() {
	fn := f.fn
	if fn != nil {
		fn()
	}
}

const (
	modNone  uint32 = 0
	modSuper uint32 = 1 << 0
	codeQ    uint32 = 16
	codeA    uint32 = 30
)

func newTestMap() (*Map, *fakeTimer) {
	timer := &fakeTimer{}
	return NewMap(timer, 25, 200), timer
}

func TestDispatchPressInvokesOnPress(t *testing.T) {
	m, _ := newTestMap()
	fired := false
	m.Register(modSuper, codeQ, Binding{OnPress: func() { fired = true }, Exclusive: true})

	handled := m.DispatchPress(modSuper, codeQ, false)

	if !handled {
		t.Fatal("expected a bound key to be handled")
	}
	if !fired {
		t.Fatal("expected OnPress to run")
	}
}

func TestDispatchPressUnboundKeyIsNotHandled(t *testing.T) {
	m, _ := newTestMap()
	if m.DispatchPress(modNone, codeA, false) {
		t.Fatal("expected an unbound key to be not handled")
	}
}

func TestDispatchPressInactiveMapIsNotHandled(t *testing.T) {
	m, _ := newTestMap()
	fired := false
	m.Register(modNone, codeA, Binding{OnPress: func() { fired = true }})
	m.SetActive(false)

	if m.DispatchPress(modNone, codeA, false) {
		t.Fatal("expected an inactive map to never handle")
	}
	if fired {
		t.Fatal("expected OnPress not to run on an inactive map")
	}
}

func TestDispatchPressNonExclusiveSkippedWhileInhibited(t *testing.T) {
	m, _ := newTestMap()
	fired := false
	m.Register(modNone, codeA, Binding{OnPress: func() { fired = true }, Exclusive: false})

	if m.DispatchPress(modNone, codeA, true) {
		t.Fatal("expected a non-exclusive binding to be skipped while inhibited")
	}
	if fired {
		t.Fatal("expected OnPress not to run while inhibited")
	}
}

func TestDispatchPressExclusiveFiresWhileInhibited(t *testing.T) {
	m, _ := newTestMap()
	fired := false
	m.Register(modNone, codeA, Binding{OnPress: func() { fired = true }, Exclusive: true})

	if !m.DispatchPress(modNone, codeA, true) {
		t.Fatal("expected an exclusive binding to still fire while inhibited")
	}
	if !fired {
		t.Fatal("expected OnPress to run for an exclusive binding")
	}
}

func TestDispatchPressPassReportsNotHandled(t *testing.T) {
	m, _ := newTestMap()
	fired := false
	m.Register(modNone, codeA, Binding{OnPress: func() { fired = true }, Exclusive: true, Pass: true})

	if m.DispatchPress(modNone, codeA, false) {
		t.Fatal("expected a pass-through binding to report not handled")
	}
	if !fired {
		t.Fatal("expected OnPress to still run for a pass-through binding")
	}
}

func TestDispatchReleaseIgnoresActiveAndExclusiveChecks(t *testing.T) {
	m, _ := newTestMap()
	fired := false
	m.Register(modNone, codeA, Binding{OnRelease: func() { fired = true }, Exclusive: false})
	m.SetActive(false)

	if !m.DispatchRelease(modNone, codeA) {
		t.Fatal("expected release dispatch to always be attempted")
	}
	if !fired {
		t.Fatal("expected OnRelease to run even on an inactive map")
	}
}

func TestDispatchReleaseUnboundKeyIsNotHandled(t *testing.T) {
	m, _ := newTestMap()
	if m.DispatchRelease(modNone, codeA) {
		t.Fatal("expected an unbound key's release to be not handled")
	}
}

func TestRegisterReplacesExistingBindingForSameKey(t *testing.T) {
	m, _ := newTestMap()
	firstFired, secondFired := false, false
	m.Register(modNone, codeA, Binding{OnPress: func() { firstFired = true }, Exclusive: true})
	m.Register(modNone, codeA, Binding{OnPress: func() { secondFired = true }, Exclusive: true})

	m.DispatchPress(modNone, codeA, false)

	if firstFired {
		t.Fatal("expected the first binding to have been replaced")
	}
	if !secondFired {
		t.Fatal("expected the replacement binding to fire")
	}
	if len(m.bindings) != 1 {
		t.Fatalf("len(bindings) = %d, want 1", len(m.bindings))
	}
}

func TestRemoveDeletesBinding(t *testing.T) {
	m, _ := newTestMap()
	m.Register(modNone, codeA, Binding{Exclusive: true})
	m.Remove(modNone, codeA)

	if _, ok := m.Lookup(modNone, codeA); ok {
		t.Fatal("expected the binding to be gone after Remove")
	}
}

func TestRepeatArmsTimerOnFirstPressAndRearmsOnFire(t *testing.T) {
	m, timer := newTestMap()
	presses := 0
	m.Register(modNone, codeA, Binding{OnPress: func() { presses++ }, Exclusive: true, Repeat: true})

	m.DispatchPress(modNone, codeA, false)
	if presses != 1 {
		t.Fatalf("presses = %d, want 1 after the initial press", presses)
	}
	if !timer.armed || timer.delay != 200*time.Millisecond {
		t.Fatalf("timer = %+v, want armed at the initial repeat delay", timer)
	}

	timer.fire()
	if presses != 2 {
		t.Fatalf("presses = %d, want 2 after the timer fires once", presses)
	}
	if !timer.armed || timer.delay != 80*time.Millisecond {
		t.Fatalf("timer = %+v, want re-armed at 2000/25hz = 80ms", timer)
	}
}

func TestRepeatDoesNotDoubleArmOnAutoRepeatHardware(t *testing.T) {
	m, timer := newTestMap()
	m.Register(modNone, codeA, Binding{Exclusive: true, Repeat: true})

	m.DispatchPress(modNone, codeA, false)
	firstDelay := timer.delay
	m.DispatchPress(modNone, codeA, false)

	if timer.delay != firstDelay {
		t.Fatal("expected a second press of an already-repeating key not to re-arm the timer")
	}
}

func TestReleaseStopsRepeat(t *testing.T) {
	m, timer := newTestMap()
	m.Register(modNone, codeA, Binding{Exclusive: true, Repeat: true})

	m.DispatchPress(modNone, codeA, false)
	m.DispatchRelease(modNone, codeA)

	if timer.armed {
		t.Fatal("expected DispatchRelease to cancel the repeat timer")
	}

	presses := 0
	m.Register(modNone, codeA, Binding{OnPress: func() { presses++ }, Exclusive: true, Repeat: true})
	m.DispatchPress(modNone, codeA, false)
	if presses != 1 {
		t.Fatalf("presses = %d, want the map to accept a new repeat after the old one stopped", presses)
	}
}

func TestComposeKeyPacksModifiersAboveCode(t *testing.T) {
	got := ComposeKey(modSuper, codeQ)
	want := uint64(modSuper)<<32 | uint64(codeQ)
	if got != want {
		t.Fatalf("ComposeKey() = %#x, want %#x", got, want)
	}
}

func TestClearRemovesBindingsAndStopsRepeat(t *testing.T) {
	m, timer := newTestMap()
	m.Register(modNone, codeA, Binding{Exclusive: true, Repeat: true})
	m.DispatchPress(modNone, codeA, false)

	m.Clear()

	if timer.armed {
		t.Fatal("expected Clear to stop an in-progress repeat")
	}
	if _, ok := m.Lookup(modNone, codeA); ok {
		t.Fatal("expected Clear to remove every binding")
	}
}
