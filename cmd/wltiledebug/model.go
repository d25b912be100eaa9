package main

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	zone "github.com/lrstanley/bubblezone"

	"github.com/wltile/wltile/internal/geom"
	"github.com/wltile/wltile/internal/wm/container"
	"github.com/wltile/wltile/internal/wm/output"
)

// keyRepeatMsg carries a keybind.Map repeat callback from funcTimer's
// time.AfterFunc goroutine back onto the single Update-loop goroutine,
// the hand-off point tea.Program.Send exists for.
type keyRepeatMsg struct {
	fn func()
}

// model is the tea.Model driving the debug visualizer: it owns no
// window-management state of its own, only a core and the current
// canvas size, mirroring how the teacher's app.Model defers all
// substantive state to its embedded app fields and keeps View/Update
// mostly dispatch.
type model struct {
	c     *core
	o     *output.Output
	zones *zone.Manager

	width  int
	height int
}

func newModel(c *core, o *output.Output, width, height int) *model {
	return &model{c: c, o: o, zones: zone.New(), width: width, height: height}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case keyRepeatMsg:
		msg.fn()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		box := geom.Box{Width: m.width, Height: m.height}
		m.o.SetUsableArea(box)
		m.o.SetActiveTag(m.o.State.ActiveTag, m.o.State.ActiveWorkspace)
		m.c.Scheduler.Drain()

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		mods := translateMods(msg.Mod)
		m.c.Keyboard.DispatchPress(mods, uint32(msg.Code), false)

	case tea.KeyReleaseMsg:
		mods := translateMods(msg.Mod)
		m.c.Keyboard.DispatchRelease(mods, uint32(msg.Code))

	case tea.MouseClickMsg:
		m.handleClick(msg.X, msg.Y, msg.Button)

	case tea.MouseMotionMsg:
		m.c.Cursor.Motion(0, float64(msg.X), float64(msg.Y))

	case tea.MouseReleaseMsg:
		if m.c.Cursor.GrabbedToplevel() != nil {
			m.c.Cursor.StopInteractive()
		}

	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			cycleFocus(m.c, -1)
		case tea.MouseWheelDown:
			cycleFocus(m.c, 1)
		}
	}
	return m, nil
}

// handleClick resolves a click to a container by direct geometry math
// rather than zone.Get(id).InBounds(msg): the teacher's own InBounds
// call sites (internal/ui/board, internal/ui/sidebar) are written
// against bubbletea v1's mouse message shape, while this tool is built
// on bubbletea v2, so matching geometry directly avoids depending on
// InBounds across that version gap. Mark/Scan still exercise
// bubblezone for every rendered box.
func (m *model) handleClick(x, y int, button tea.MouseButton) {
	if button != tea.MouseLeft {
		return
	}
	for _, cont := range m.o.State.Containers {
		if !cont.Geometry.Contains(x, y) {
			continue
		}
		if front := cont.FrontToplevel(); front != nil {
			m.c.Focus.Focus(m.o, front)
		}
		if cont.State.Has(container.StateFloating) {
			m.c.Cursor.SetGrab(float64(x), float64(y))
		}
		return
	}
}

func (m *model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion
	view.KeyboardEnhancements.ReportEventTypes = true
	view.SetContent(m.render())
	return view
}

// render composites every visible container of the active workspace
// onto an absolute-position canvas, the lipgloss.Canvas + uv.Drawable
// pattern adapted from the teacher's monitor-grid compositing instead
// of its heavier vterm-backed compositor.Canvas (this tool has no PTY
// content to embed, only static bordered boxes).
func (m *model) render() string {
	canvas := lipgloss.NewCanvas(m.width, m.height)

	for _, cont := range m.o.State.Containers {
		if cont.Workspace != m.o.State.ActiveWorkspace {
			continue
		}
		if cont.State.Has(container.StateMinimized) {
			continue
		}
		content := renderContainer(cont)
		if id := containerZoneID(cont); id != "" {
			content = m.zones.Mark(id, content)
		}
		canvas.Compose(newBoxDrawable(content, cont.Geometry.X, cont.Geometry.Y))
	}

	out := canvas.Render()
	out = m.zones.Scan(out)
	return strings.TrimRight(out, "\n")
}
