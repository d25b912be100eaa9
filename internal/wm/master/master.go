// Package master implements the master/stack tiling layout of spec §3
// "Master/stack" and operations §4.5, dependency-order item 9 in §2.
// Grounded on original_source/src/layout/master.c: the linked list of
// `struct layout_interface` becomes a Registry over a Strategy
// interface, and master_arrange_update/master_resize_* become methods
// on Registry that resolve the active tag info's strategy and call
// into it.
//
// The original keeps one process-global linked list
// (`static struct layout_interface *layout_list`); this port makes that
// state an explicit *Registry value instead, which is what lets
// multiple tests run in parallel without fighting over global layout
// registration.
package master

import (
	"github.com/wltile/wltile/internal/wm/container"
	"github.com/wltile/wltile/internal/wm/output"
	"github.com/wltile/wltile/internal/wm/tag"
	"github.com/wltile/wltile/internal/wmerr"
)

// ResizeCursor is the minimal view of an in-progress interactive resize
// a layout strategy needs (spec §4.6 hands this in). internal/wm/cursor
// sits above master in the dependency order of spec §2 and implements
// this interface against its own grab state; master never imports it.
type ResizeCursor interface {
	GrabbedToplevel() *container.Toplevel
	CursorPosition() (x, y float64)
	GrabPosition() (x, y float64)
	SetGrab(x, y float64)
	WarpCursor(x, y float64)
	SetCursorImage(name string)
}

// Strategy is one pluggable master/stack arrangement algorithm (spec
// §3 "layout_interface"). Resize* are optional: strategies that don't
// support interactive resize (monocle) embed BaseStrategy for no-op
// defaults.
type Strategy interface {
	Name() string
	Arrange(toplevels []*container.Toplevel, o *output.Output, state *tag.MasterState)
	ResizeStart(toplevels []*container.Toplevel, cursor ResizeCursor, state *tag.MasterState)
	ResizeUpdate(toplevels []*container.Toplevel, cursor ResizeCursor, state *tag.MasterState)
	ResizeEnd(toplevels []*container.Toplevel, cursor ResizeCursor, state *tag.MasterState)
}

// BaseStrategy gives a Strategy no-op resize behavior by embedding.
type BaseStrategy struct{}

func (BaseStrategy) ResizeStart([]*container.Toplevel, ResizeCursor, *tag.MasterState)  {}
func (BaseStrategy) ResizeUpdate([]*container.Toplevel, ResizeCursor, *tag.MasterState) {}
func (BaseStrategy) ResizeEnd([]*container.Toplevel, ResizeCursor, *tag.MasterState)    {}

// Registry holds the set of registered layout strategies, in
// registration order; index 0 is the default (mirrors
// get_default_master_layout returning the list head). Grounded on
// master_register_layout/master_unregister_layout, with the
// refuse-to-unregister-an-in-use-strategy rule from spec §9's design
// note implemented via the inUse callback on Unregister.
type Registry struct {
	strategies []Strategy
}

// NewRegistry returns a registry pre-populated with the built-in tile
// and monocle strategies, mirroring master_init_layout_if_not_yet's
// eager registration of "tile" then "monocle".
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(NewTileStrategy())
	r.Register(NewMonocleStrategy())
	return r
}

// Register adds s to the end of the registry.
func (r *Registry) Register(s Strategy) {
	r.strategies = append(r.strategies, s)
}

// Unregister removes s, refusing if inUse reports it is still the
// active layout of some tag info (spec §9's design note: unregistering
// a layout a workspace currently uses would leave that workspace with
// a dangling CurrentLayout pointer).
func (r *Registry) Unregister(s Strategy, inUse func(Strategy) bool) error {
	if inUse != nil && inUse(s) {
		return wmerr.New(wmerr.Precondition, "master: cannot unregister %q while a workspace still uses it", s.Name())
	}
	for i, c := range r.strategies {
		if c == s {
			r.strategies = append(r.strategies[:i], r.strategies[i+1:]...)
			return nil
		}
	}
	return wmerr.New(wmerr.Transient, "master: %q was not registered", s.Name())
}

// Default returns the registry's first-registered strategy, or nil if
// none are registered.
func (r *Registry) Default() Strategy {
	if len(r.strategies) == 0 {
		return nil
	}
	return r.strategies[0]
}

// ByName looks up a registered strategy, or nil.
func (r *Registry) ByName(name string) Strategy {
	for _, s := range r.strategies {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

func (r *Registry) resolveLayout(info *tag.Info) Strategy {
	if s, ok := info.Master.CurrentLayout.(Strategy); ok && s != nil {
		return s
	}
	s := r.Default()
	info.Master.CurrentLayout = s
	return s
}

func isTileable(c *container.Container) bool {
	return !c.State.Has(container.StateFloating) &&
		!c.State.Has(container.StateMinimized) &&
		!c.State.Has(container.StateFullscreen)
}

// getTiledToplevelArray collects the front toplevel of every tileable
// container on o, in container-list order (grounded on
// get_tiled_toplevel_array, minus its fixed-size-array sanity cap —
// Go's slice has no such limit to guard against).
func getTiledToplevelArray(o *output.Output) []*container.Toplevel {
	var out []*container.Toplevel
	for _, c := range o.State.Containers {
		if !isTileable(c) {
			continue
		}
		if front := c.FrontToplevel(); front != nil {
			out = append(out, front)
		}
	}
	return out
}

func gapFor(o *output.Output) int {
	return o.CurrentTagInfo().UselessGaps
}

// ArrangeUpdate recomputes every tiled container's geometry on o using
// its active tag info's current layout strategy, or is a no-op if that
// workspace isn't in master mode or has nothing tiled (spec §4.5,
// grounded on master_arrange_update).
func (r *Registry) ArrangeUpdate(o *output.Output) {
	info := o.CurrentTagInfo()
	if info.LayoutMode != tag.Master {
		return
	}
	strat := r.resolveLayout(info)
	if strat == nil {
		return
	}
	toplevels := getTiledToplevelArray(o)
	if len(toplevels) >= 1 {
		strat.Arrange(toplevels, o, &info.Master)
	}
}

type resizeStage int

const (
	stageStart resizeStage = iota
	stageUpdate
	stageEnd
)

func (r *Registry) resize(o *output.Output, cursor ResizeCursor, stage resizeStage) {
	info := o.CurrentTagInfo()
	strat := r.resolveLayout(info)
	if strat == nil {
		return
	}
	toplevels := getTiledToplevelArray(o)
	switch stage {
	case stageStart:
		strat.ResizeStart(toplevels, cursor, &info.Master)
	case stageUpdate:
		strat.ResizeUpdate(toplevels, cursor, &info.Master)
	case stageEnd:
		strat.ResizeEnd(toplevels, cursor, &info.Master)
	}
	r.ArrangeUpdate(o)
}

// ResizeStart, ResizeUpdate and ResizeEnd delegate to the active
// strategy's matching hook and then re-arrange, grounded on
// master_resize_start/update/end.
func (r *Registry) ResizeStart(o *output.Output, cursor ResizeCursor) {
	r.resize(o, cursor, stageStart)
}
func (r *Registry) ResizeUpdate(o *output.Output, cursor ResizeCursor) {
	r.resize(o, cursor, stageUpdate)
}
func (r *Registry) ResizeEnd(o *output.Output, cursor ResizeCursor) {
	r.resize(o, cursor, stageEnd)
}

// GetMaster returns the first tileable container's front toplevel in
// container-list order — the "master" slot's current occupant (spec
// §4.5, grounded on master_get_master).
func (r *Registry) GetMaster(o *output.Output) *container.Toplevel {
	toplevels := getTiledToplevelArray(o)
	if len(toplevels) == 0 {
		return nil
	}
	return toplevels[0]
}

// SetMaster promotes t's container to the master slot by swapping its
// position in the output's container list with the current master's,
// then re-arranges (spec §9 Supplemented Feature; grounded on
// master_set_master's wl_list_swap, adapted to a slice swap since Go
// has no intrusive linked list to splice).
func (r *Registry) SetMaster(o *output.Output, t *container.Toplevel) {
	master := r.GetMaster(o)
	if master == nil || master == t {
		return
	}
	swapContainerOrder(o, master.Container(), t.Container())
	r.ArrangeUpdate(o)
}

func swapContainerOrder(o *output.Output, a, b *container.Container) {
	ia, ib := -1, -1
	for i, c := range o.State.Containers {
		switch c {
		case a:
			ia = i
		case b:
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return
	}
	o.State.Containers[ia], o.State.Containers[ib] = o.State.Containers[ib], o.State.Containers[ia]
}
