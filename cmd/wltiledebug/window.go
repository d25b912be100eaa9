package main

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/wltile/wltile/internal/geom"
	"github.com/wltile/wltile/internal/safego"
)

// debugSurface stands in for the real wire-protocol surface behind
// ports.SurfaceProvider (spec §6): wltiledebug has no client process to
// ask for a title or push configure events to, so it just records
// whatever the core last told it and reports that back.
type debugSurface struct {
	id         int
	title      string
	geometry   geom.Box
	activated  bool
	fullscreen bool
	tiledEdges geom.Edge
	resizing   bool
	closed     bool
}

func (s *debugSurface) Title() string            { return s.title }
func (s *debugSurface) AppID() string            { return "wltiledebug" }
func (s *debugSurface) Geometry() geom.Box       { return s.geometry }
func (s *debugSurface) SendClose()               { s.closed = true }
func (s *debugSurface) Kill()                    { s.closed = true }
func (s *debugSurface) SetActivated(v bool)      { s.activated = v }
func (s *debugSurface) SetFullscreen(v bool)     { s.fullscreen = v }
func (s *debugSurface) SetTiled(edges geom.Edge) { s.tiledEdges = edges }
func (s *debugSurface) SetResizing(v bool)       { s.resizing = v }

// funcTimer implements keybind.Timer over the standard library's
// time.AfterFunc. Since the core's types are all meant to be driven from
// a single reactor goroutine (spec §5), the fired callback is never
// invoked directly from the timer's own goroutine: it is handed to
// send, which wraps it as a keyRepeatMsg and posts it through
// tea.Program.Send so it runs inside bubbletea's own Update loop like
// every other event, the same handoff tea.Tick uses for its own
// delayed messages.
type funcTimer struct {
	t    *time.Timer
	send func(tea.Msg)
}

func newFuncTimer() *funcTimer { return &funcTimer{} }

// Arm schedules fn after delay, canceling any previously armed timer
// first. delay <= 0 cancels outright without arming a new one, matching
// keybind.Timer's documented contract.
func (f *funcTimer) Arm(delay time.Duration, fn func()) {
	if f.t != nil {
		f.t.Stop()
		f.t = nil
	}
	if delay <= 0 {
		return
	}
	f.t = time.AfterFunc(delay, func() {
		safego.Run("keybind-repeat", func() {
			if f.send != nil {
				f.send(keyRepeatMsg{fn: fn})
				return
			}
			fn()
		})
	})
}
