// Package output implements the output (screen) lifecycle and
// per-output state of spec §3 "Output" / "Output state" and operations
// §4.2, dependency-order item 6-7 in §2. Grounded on
// original_source/src/desktop/output.c (cwc_output_state_create,
// cwc_output_state_try_restore, cwc_output_update_visible) and
// original_source/include/cwc/desktop/output.h for field shape.
package output

import (
	"github.com/wltile/wltile/internal/config"
	"github.com/wltile/wltile/internal/geom"
	"github.com/wltile/wltile/internal/signals"
	"github.com/wltile/wltile/internal/transaction"
	"github.com/wltile/wltile/internal/wm/container"
	"github.com/wltile/wltile/internal/wm/ports"
	"github.com/wltile/wltile/internal/wm/tag"
	"github.com/wltile/wltile/internal/wmerr"
)

// FallbackName is the headless sentinel output's name, used when every
// real output is unplugged so clients always have somewhere to map
// (spec §4.2 "Fallback output").
const FallbackName = "fallback-headless"

// FallbackSize is the sentinel output's resolution, chosen the same as
// the teacher ecosystem's defaults for a headless backend.
var FallbackSize = geom.Box{Width: 1280, Height: 720}

// State is the restorable per-output container/tag bookkeeping of spec
// §3 "Output state" (cwc_output_state). It is what gets snapshotted into
// a name-keyed cache when the backing output disappears, and restored
// verbatim if an output with the same name reappears.
type State struct {
	Containers []*container.Container
	FocusStack []*container.Container
	Minimized  []*container.Container

	ActiveTag           tag.Bitfield
	ActiveWorkspace     int
	MaxGeneralWorkspace int

	TagInfo []tag.Info

	// OldOutput, when set, is the output this state belonged to before
	// the output it now lives under adopted it (spec §4.2 "Retire").
	OldOutput *Output
}

func newState(maxWorkspace, defaultGaps int) *State {
	return &State{
		ActiveTag:           tag.Of(1),
		ActiveWorkspace:     1,
		MaxGeneralWorkspace: 9,
		TagInfo:             tag.NewInfos(maxWorkspace, defaultGaps),
	}
}

// Output is a live screen (spec §3 "Output"). It owns a *State; on
// destroy the state is handed to the registry's name-keyed cache instead
// of being freed, so a reconnecting output of the same name picks its
// tags and containers back up untouched.
type Output struct {
	name       string
	fallback   bool
	usableArea geom.Box
	layoutBox  geom.Box

	State *State

	Layers     Layers
	Backend    ports.OutputProvider
	LayerShell ports.LayerShellProvider

	bus       *signals.Bus
	scheduler *transaction.Scheduler
	registry  *Registry

	// destroyed is set by Registry.Disconnect so a still-queued
	// outputRunner skips this output instead of running against a
	// retired state (transaction.OutputRunner.Alive).
	destroyed bool

	// OnBSPUpdate and OnMasterUpdate are wired by the top-level assembly
	// code to internal/wm/bsp.UpdateRoot and internal/wm/master's
	// arrange-update entry point, keeping this package from importing
	// either (they sit above output in the dependency order of spec §2).
	OnBSPUpdate    func(o *Output, workspace int)
	OnMasterUpdate func(o *Output)

	// OnBSPInsert and OnBSPRemove are wired to internal/wm/bsp.InsertContainer
	// and RemoveContainer, the tree-membership primitives SetLayoutMode
	// needs on top of the relayout-only OnBSPUpdate hook above.
	OnBSPInsert func(c *container.Container, workspace int)
	OnBSPRemove func(c *container.Container, destroy bool)

	// FocusNewestVisible is wired by the assembly code to
	// internal/wm/focus.Manager's refocus entry point, called by
	// UpdateVisible whenever it runs through the scheduler instead of
	// being invoked directly with an explicit focus func.
	FocusNewestVisible func(o *Output)
}

// Layers mirrors the five direct scene-tree children every output owns
// (spec §3, cwc_output.layers): background/bottom/top/overlay layer-shell
// trees plus the session-lock tree, each a plain scene node the core
// repositions as a unit when the output moves.
type Layers struct {
	Background ports.SceneNode
	Bottom     ports.SceneNode
	Top        ports.SceneNode
	Overlay    ports.SceneNode
	SessionLock ports.SceneNode
}

// SetPosition moves every layer tree together, the Go equivalent of
// output_layer_set_position in the original.
func (l Layers) SetPosition(x, y int) {
	for _, n := range []ports.SceneNode{l.Background, l.Bottom, l.Top, l.Overlay, l.SessionLock} {
		if n != nil {
			n.SetPosition(x, y)
		}
	}
}

// Name returns the backend-reported output name (satisfies
// container.OutputRef).
func (o *Output) Name() string { return o.name }

// IsFallback reports whether o is the headless sentinel output (satisfies
// container.OutputRef).
func (o *Output) IsFallback() bool { return o.fallback }

// UsableArea returns the layout-coordinate rectangle available for
// tiling after layer-shell exclusive zones are subtracted (satisfies
// container.OutputRef).
func (o *Output) UsableArea() geom.Box { return o.usableArea }

// SetUsableArea updates the usable area, normally called whenever the
// layer-shell collaborator's exclusive zones change (spec §6).
func (o *Output) SetUsableArea(area geom.Box) { o.usableArea = area }

// SetLayoutBox records the output's placement within the global output
// layout (spec §4.2 "set output position").
func (o *Output) SetLayoutBox(box geom.Box) {
	o.layoutBox = box
	o.Layers.SetPosition(box.X, box.Y)
}

// LayoutBox returns the output's placement in the global layout.
func (o *Output) LayoutBox() geom.Box { return o.layoutBox }

// CurrentTagInfo returns the tag info for the output's active workspace
// (cwc_output_get_current_tag_info).
func (o *Output) CurrentTagInfo() *tag.Info {
	return &o.State.TagInfo[o.State.ActiveWorkspace]
}

// NewFallback constructs the single headless sentinel output that the
// registry keeps alive for the lifetime of the process, so there is
// always a place to map a client while no real output is connected
// (spec §4.2 "Fallback output").
func NewFallback(bus *signals.Bus, sched *transaction.Scheduler, maxWorkspace int, cfg *config.Config) *Output {
	o := &Output{
		name:       FallbackName,
		fallback:   true,
		usableArea: FallbackSize,
		layoutBox:  FallbackSize,
		State:      newState(maxWorkspace, cfg.UselessGaps),
		bus:        bus,
		scheduler:  sched,
	}
	return o
}

// IsVisible reports whether c belongs to a tag that intersects the
// output's active tag bitfield, the visibility test §3 and §4.3 share.
func (o *Output) IsVisible(c *container.Container) bool {
	return tag.Bitfield(c.Tag).Intersects(o.State.ActiveTag)
}

// UpdateVisible enables the scene node of every container visible under
// the output's current active tag and disables the rest, then refocuses
// the newest visible toplevel (spec §4.2, grounded on
// cwc_output_update_visible). It is a no-op on the fallback output,
// matching the original's early return.
func (o *Output) UpdateVisible(focusFn func(*Output)) {
	if o.fallback {
		return
	}
	for _, c := range o.State.Containers {
		visible := o.IsVisible(c) && !c.State.Has(container.StateMinimized)
		if c.Scene != nil {
			c.Scene.SetEnabled(visible)
		}
	}
	if focusFn != nil {
		focusFn(o)
	}
}

// SetActiveTag replaces the output's visible tag bitfield, requiring at
// least one bit set (spec §4.2 set_active_tag: "fails silently
// otherwise"); a nonzero workspace additionally updates the active
// workspace index. Schedules a tiling re-layout for the new workspace
// plus a schedule_output pass (draft/exclusive-zones/visibility) and
// publishes screen::prop::active_tag.
func (o *Output) SetActiveTag(bitfield tag.Bitfield, workspace int) {
	if workspace < 0 || workspace > len(o.State.TagInfo)-1 {
		wmerr.Report(wmerr.New(wmerr.Clampable, "SetActiveTag: workspace %d out of range", workspace))
		return
	}
	if bitfield == 0 {
		wmerr.Report(wmerr.New(wmerr.Clampable, "SetActiveTag: bitfield must have at least one bit set"))
		return
	}
	o.State.ActiveTag = bitfield
	if workspace != 0 {
		o.State.ActiveWorkspace = workspace
	}
	if o.bus != nil {
		o.bus.Publish(signals.ScreenPropActiveTag, o)
	}
	o.scheduleTagRelayout(o.State.ActiveWorkspace)
	o.scheduleRun()
}

// SetViewOnly switches o to showing exactly workspace w — active_tag =
// 1<<(w-1), active_workspace = w — and, through SetActiveTag, schedules
// both the tiling recompute and the visibility update (spec §4.2
// set_view_only).
func (o *Output) SetViewOnly(workspace int) {
	o.SetActiveTag(tag.Of(workspace), workspace)
}

func (o *Output) scheduleTagRelayout(workspace int) {
	if o.scheduler == nil || workspace < 1 || workspace >= len(o.State.TagInfo) {
		return
	}
	info := &o.State.TagInfo[workspace]
	info.PendingTransaction = true
	o.scheduler.ScheduleTag(tagRunner{output: o, workspace: workspace})
}

// scheduleRun marks o as needing one schedule_output pass before the
// next drain — apply the pending state draft, arrange layer-shell
// exclusive zones, update visibility (spec §4.1) — through the
// outputRunner adapter below.
func (o *Output) scheduleRun() {
	if o.scheduler == nil || o.fallback {
		return
	}
	o.scheduler.ScheduleOutput(outputRunner{output: o})
}

// outputRunner adapts *Output to transaction.OutputRunner, giving the
// §4.1 schedule_output contract a production caller: previously
// Scheduler.ScheduleOutput had none, so output state drafts, exclusive
// zones and visibility only ever updated when something called
// UpdateVisible directly.
type outputRunner struct {
	output *Output
}

func (r outputRunner) Alive() bool { return !r.output.destroyed }

func (r outputRunner) RunOutput() {
	if r.output.Backend != nil {
		r.output.Backend.TestState()
		r.output.Backend.CommitState()
	}
	r.output.applyExclusiveZones()
	r.output.UpdateVisible(r.output.FocusNewestVisible)
}

// applyExclusiveZones recomputes usable_area from the output's full
// layout box minus whatever the layer-shell collaborator currently
// reserves on each edge (spec §4.1's "arrange layer-shell exclusive
// zones", §6 "Layer-shell provider").
func (o *Output) applyExclusiveZones() {
	if o.fallback || o.LayerShell == nil {
		return
	}
	top, bottom, left, right := o.LayerShell.ExclusiveZones(o.name)
	area := geom.Box{
		X:      o.layoutBox.X + left,
		Y:      o.layoutBox.Y + top,
		Width:  o.layoutBox.Width - left - right,
		Height: o.layoutBox.Height - top - bottom,
	}
	if area.Width < 0 {
		area.Width = 0
	}
	if area.Height < 0 {
		area.Height = 0
	}
	o.SetUsableArea(area)
}

// tagRunner adapts a single (*Output, workspace) pair to
// transaction.TagRunner, keeping the scheduler free of any dependency on
// this package's concrete types.
type tagRunner struct {
	output    *Output
	workspace int
}

func (r tagRunner) Alive() bool {
	return r.workspace >= 1 && r.workspace < len(r.output.State.TagInfo)
}

func (r tagRunner) RunTag() {
	info := &r.output.State.TagInfo[r.workspace]
	info.PendingTransaction = false
	r.output.relayout(r.workspace, info.LayoutMode)
}

// relayout dispatches to the BSP or master layout engines for workspace,
// mirroring cwc_output_tiling_layout_update's switch. Concrete tiling
// math lives in internal/wm/bsp and internal/wm/master; this package only
// owns the dispatch point and exposes hooks those packages call into.
func (o *Output) relayout(workspace int, mode tag.LayoutMode) {
	if o.fallback {
		return
	}
	switch mode {
	case tag.BSP:
		if o.OnBSPUpdate != nil {
			o.OnBSPUpdate(o, workspace)
		}
	case tag.Master:
		if o.OnMasterUpdate != nil {
			o.OnMasterUpdate(o)
		}
	}
}

// SetLayoutMode switches workspace's layout engine, migrating every
// already-tiled container into or out of the BSP tree as needed (spec
// §4.2 set_layout_mode): on switch into BSP, every eligible
// non-floating container without a bsp_node is inserted; on switch out
// of BSP, every tiled container with one is removed without destroying
// it. Floating containers are left alone except on switch into
// floating, where each restores its remembered box. Grounded on
// cwc_output_set_view_layout_mode's BSP-membership sweep; this is a
// core operation (not a debug-binary-only helper) so any frontend can
// drive a workspace's layout mode.
func (o *Output) SetLayoutMode(workspace int, mode tag.LayoutMode) {
	if workspace < 1 || workspace >= len(o.State.TagInfo) {
		wmerr.Report(wmerr.New(wmerr.Clampable, "SetLayoutMode: workspace %d out of range", workspace))
		return
	}
	info := &o.State.TagInfo[workspace]
	was := info.LayoutMode
	info.LayoutMode = mode

	for _, cont := range o.State.Containers {
		if cont.Workspace != workspace {
			continue
		}
		if cont.State.Has(container.StateFloating) {
			if mode == tag.Floating && was != tag.Floating {
				cont.RestoreFloatingBox(info.UselessGaps)
			}
			continue
		}
		switch {
		case mode == tag.BSP && was != tag.BSP && cont.BSPNode == nil:
			if o.OnBSPInsert != nil {
				o.OnBSPInsert(cont, workspace)
			}
		case mode != tag.BSP && was == tag.BSP && cont.BSPNode != nil:
			if o.OnBSPRemove != nil {
				o.OnBSPRemove(cont, false)
			}
		}
	}

	if mode == tag.Master && o.OnMasterUpdate != nil {
		o.OnMasterUpdate(o)
	}
	o.SetActiveTag(o.State.ActiveTag, workspace)
}

// SetMinimized sets or clears a container's minimized flag and keeps
// State.Minimized (spec §3 "Output state") in sync with it, then
// re-evaluates visibility so a newly minimized container's scene node
// is disabled immediately rather than waiting for the next unrelated
// schedule_output pass. There is no separate original entry point for
// this (cwc_toplevel handles minimize inline at the call site); this
// port gives it one so State.Minimized is ever populated at all.
func (o *Output) SetMinimized(c *container.Container, minimized bool) {
	if c.State.Has(container.StateMinimized) == minimized {
		return
	}
	c.SetState(container.StateMinimized, minimized)
	if minimized {
		o.State.Minimized = append(o.State.Minimized, c)
	} else {
		for i, m := range o.State.Minimized {
			if m == c {
				o.State.Minimized = append(o.State.Minimized[:i], o.State.Minimized[i+1:]...)
				break
			}
		}
	}
	o.UpdateVisible(o.FocusNewestVisible)
}
