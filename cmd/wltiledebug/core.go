package main

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/wltile/wltile/internal/config"
	"github.com/wltile/wltile/internal/geom"
	"github.com/wltile/wltile/internal/signals"
	"github.com/wltile/wltile/internal/supervisor"
	"github.com/wltile/wltile/internal/transaction"
	"github.com/wltile/wltile/internal/wm/bsp"
	"github.com/wltile/wltile/internal/wm/container"
	"github.com/wltile/wltile/internal/wm/cursor"
	"github.com/wltile/wltile/internal/wm/focus"
	"github.com/wltile/wltile/internal/wm/keybind"
	"github.com/wltile/wltile/internal/wm/master"
	"github.com/wltile/wltile/internal/wm/output"
	"github.com/wltile/wltile/internal/wm/ports"
	"github.com/wltile/wltile/internal/wm/tag"
)

// core wires one instance of every dependency-ordered package in spec §2
// together, the same role cmd/amux/main.go's app.New plays for the
// teacher: it is the one place allowed to import the whole stack and
// hand out the injection points (OnBSPUpdate, Hooks, HitTester) each
// package exposes instead of importing each other directly.
type core struct {
	Bus        *signals.Bus
	Scheduler  *transaction.Scheduler
	Cfg        *config.Config
	Outputs    *output.Registry
	Master     *master.Registry
	Cursor     *cursor.Cursor
	Focus      *focus.Manager
	Keyboard   *keybind.Map
	PointerMap *keybind.Map
	Supervisor *supervisor.Supervisor

	kbTimer    *funcTimer
	ptrTimer   *funcTimer
	cfgWatcher *config.Watcher

	nextWindowID int
	byID         map[int]*container.Toplevel
}

func newCore(maxWorkspace int) *core {
	cfg, err := config.DefaultConfig()
	if err != nil {
		panic(fmt.Sprintf("wltiledebug: DefaultConfig: %v", err))
	}
	bus := signals.New()
	sched := transaction.New(nil)
	outputs := output.NewRegistry(bus, sched, cfg, maxWorkspace)
	masterReg := master.NewRegistry()
	cur := cursor.New(bus, outputs, masterReg, cfg)
	cur.RefreshHz = 60

	focusMgr := focus.New(bus, focus.Hooks{
		SetKeyboardFocus: func(s ports.SurfaceProvider) {
			if ds, ok := s.(*debugSurface); ok {
				ds.activated = true
			}
		},
		ClearFocus: func() {},
	})

	kbTimer, ptrTimer := newFuncTimer(), newFuncTimer()
	c := &core{
		Bus:        bus,
		Scheduler:  sched,
		Cfg:        cfg,
		Outputs:    outputs,
		Master:     masterReg,
		Cursor:     cur,
		Focus:      focusMgr,
		Keyboard:   keybind.NewMap(kbTimer, 25, 200),
		PointerMap: keybind.NewMap(ptrTimer, 25, 200),
		Supervisor: supervisor.New(context.Background()),
		kbTimer:    kbTimer,
		ptrTimer:   ptrTimer,
		byID:       make(map[int]*container.Toplevel),
	}
	cur.HitTester = hitTester{outputs}
	registerKeybindings(c)
	return c
}

// watchConfigFile starts a debounced fsnotify watch on path under the
// core's supervisor, so a transient watch-loop error (e.g. the
// directory briefly vanishing) gets restarted with backoff instead of
// silently leaving config reload dead for the rest of the run. onChange
// copies the reloaded fields into the same *config.Config every other
// package already holds a pointer to, rather than swapping pointers.
func (c *core) watchConfigFile(path string) error {
	w, err := config.NewWatcher(path, func(nc *config.Config) {
		*c.Cfg = *nc
	})
	if err != nil {
		return err
	}
	c.cfgWatcher = w
	c.Supervisor.Start("config-watch", w.Run,
		supervisor.WithRestartPolicy(supervisor.RestartOnError),
		supervisor.WithMaxRestarts(5),
	)
	return nil
}

// stop tears down the background work the core started: the config
// watcher's fsnotify handle and the supervisor goroutine driving it.
func (c *core) stop() {
	if c.cfgWatcher != nil {
		_ = c.cfgWatcher.Close()
	}
	c.Supervisor.Stop()
}

// setSender wires both keybinding maps' repeat timers to post through
// send instead of firing from their own goroutine, once the bubbletea
// program exists to receive them.
func (c *core) setSender(send func(msg tea.Msg)) {
	c.kbTimer.send = send
	c.ptrTimer.send = send
}

// hitTester adapts output.Registry to cursor.HitTester by picking, on
// the output OutputAt returns for (x, y), the last container in its
// container list whose geometry contains the point, tiled or floating
// alike, and returning that container's front toplevel. It is the
// debug tool's stand-in for a real scene-graph
// hit-test (spec §6's "Scene graph" collaborator).
type hitTester struct {
	outputs *output.Registry
}

func (h hitTester) ToplevelAt(x, y float64) *container.Toplevel {
	o := h.outputs.OutputAt(x, y)
	for i := len(o.State.Containers) - 1; i >= 0; i-- {
		c := o.State.Containers[i]
		if c.Geometry.Contains(int(x), int(y)) {
			return c.FrontToplevel()
		}
	}
	return nil
}

// connectOutput brings up a single synthetic output of the given size,
// wiring its relayout hooks to bsp.UpdateRoot/master.Registry.ArrangeUpdate
// and its visibility callback to focus.Manager.FocusNewestVisible,
// exactly the injection points internal/wm/output.Output documents.
func (c *core) connectOutput(width, height int) *output.Output {
	box := geom.Box{Width: width, Height: height}
	o := c.Outputs.Connect("DEBUG-1", box)
	o.SetUsableArea(box)
	o.OnBSPUpdate = bsp.UpdateRoot
	o.OnMasterUpdate = c.Master.ArrangeUpdate
	o.OnBSPInsert = bsp.InsertContainer
	o.OnBSPRemove = bsp.RemoveContainer
	o.FocusNewestVisible = c.Focus.FocusNewestVisible
	return o
}

// spawnWindow creates a synthetic toplevel on workspace and tiles it
// according to the workspace's current layout mode (spec §4.3's
// map-time "insert" path). Returns the toplevel's debug id, used to
// label its rendered box and resolve clicks.
func (c *core) spawnWindow(o *output.Output, workspace int, title string) int {
	c.nextWindowID++
	id := c.nextWindowID

	cont := container.New(o, c.Bus)
	cont.Workspace = workspace
	cont.Tag = container.TagBitfield(tag.Of(workspace))
	o.State.Containers = append(o.State.Containers, cont)

	surf := &debugSurface{id: id, title: title}
	tl := &container.Toplevel{Surface: surf, Kind: ports.SurfaceXdgShell, Mapped: true}
	cont.InsertToplevel(tl)
	c.byID[id] = tl

	info := &o.State.TagInfo[workspace]
	switch info.LayoutMode {
	case tag.BSP:
		bsp.InsertContainer(cont, workspace)
	case tag.Master:
		c.Master.ArrangeUpdate(o)
	default:
		cont.SetState(container.StateFloating, true)
		cont.SetBoxGap(geom.Box{X: 4 * id, Y: 2 * id, Width: 40, Height: 12}, info.UselessGaps)
	}

	focus.Attach(o, cont)
	c.Scheduler.Drain()
	c.Focus.Focus(o, tl)
	return id
}

// closeWindow tears down the toplevel with the given debug id, removing
// it from whatever layout owns it (spec §4.3's "last unmap destroys the
// container" lifecycle note).
func (c *core) closeWindow(o *output.Output, id int) {
	tl, ok := c.byID[id]
	if !ok {
		return
	}
	cont := tl.Container()
	if cont == nil {
		delete(c.byID, id)
		return
	}
	if cont.BSPNode != nil {
		bsp.RemoveContainer(cont, true)
	}
	focus.Detach(o, cont)
	for i, candidate := range o.State.Containers {
		if candidate == cont {
			o.State.Containers = append(o.State.Containers[:i], o.State.Containers[i+1:]...)
			break
		}
	}
	workspace := cont.Workspace
	cont.RemoveToplevel(tl)
	delete(c.byID, id)
	if workspace > 0 && workspace < len(o.State.TagInfo) && o.State.TagInfo[workspace].LayoutMode == tag.Master {
		c.Master.ArrangeUpdate(o)
	}
	c.Scheduler.Drain()
	c.Focus.FocusNewestVisible(o)
}
