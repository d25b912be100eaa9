package output

import (
	"github.com/wltile/wltile/internal/config"
	"github.com/wltile/wltile/internal/geom"
	"github.com/wltile/wltile/internal/signals"
	"github.com/wltile/wltile/internal/transaction"
	"github.com/wltile/wltile/internal/wm/container"
)

// Registry tracks every live output plus the name-keyed cache of
// retired states, and is the entry point for output connect/disconnect
// (spec §4.2). Grounded on cwc_output_state_save/try_restore and the
// server.output_state_cache hash map in original_source/src/desktop/output.c;
// Go trades the hash map for a plain map[string]*State.
type Registry struct {
	bus       *signals.Bus
	scheduler *transaction.Scheduler
	cfg       *config.Config

	maxWorkspace int
	outputs      []*Output
	cache        map[string]*State
	fallback     *Output
	focused      *Output
}

// NewRegistry constructs an empty registry with its fallback output
// already live, so there is always somewhere to map a client (spec
// §4.2 "Fallback output").
func NewRegistry(bus *signals.Bus, sched *transaction.Scheduler, cfg *config.Config, maxWorkspace int) *Registry {
	r := &Registry{
		bus:          bus,
		scheduler:    sched,
		cfg:          cfg,
		maxWorkspace: maxWorkspace,
		cache:        make(map[string]*State),
	}
	r.fallback = NewFallback(bus, sched, maxWorkspace, cfg)
	r.fallback.registry = r
	r.focused = r.fallback
	return r
}

// Fallback returns the always-live headless sentinel output.
func (r *Registry) Fallback() *Output { return r.fallback }

// Outputs returns every connected, non-fallback output.
func (r *Registry) Outputs() []*Output { return r.outputs }

// Focused returns the currently input-focused output (never nil: falls
// back to the sentinel output).
func (r *Registry) Focused() *Output { return r.focused }

// SetFocused updates the focused output and publishes screen::focus /
// screen::unfocus to the old and new output respectively (spec §4.2,
// §6 signal list).
func (r *Registry) SetFocused(o *Output) {
	if o == r.focused {
		return
	}
	prev := r.focused
	r.focused = o
	if r.bus != nil {
		if prev != nil {
			r.bus.Publish(signals.ScreenUnfocus, prev)
		}
		r.bus.Publish(signals.ScreenFocus, o)
	}
}

// ByName returns the connected output with the exact name, or nil
// (cwc_output_get_by_name).
func (r *Registry) ByName(name string) *Output {
	for _, o := range r.outputs {
		if o.name == name {
			return o
		}
	}
	return nil
}

// OutputAt returns the live output whose layout box contains (x, y), or
// the currently focused output if none matches — grounded on
// cwc_output_at (wlr_output_layout_output_at), which the cursor code
// calls at every motion event to resolve "the output under the
// pointer" (original_source/src/input/cursor.c).
func (r *Registry) OutputAt(x, y float64) *Output {
	for _, o := range r.outputs {
		if o.layoutBox.Contains(int(x), int(y)) {
			return o
		}
	}
	return r.focused
}

// Connect brings up a newly detected output. If a state for the same
// name is cached from an earlier disconnect, it is restored verbatim
// (including every container's tag/workspace/bsp_node); otherwise a
// fresh default state is created. Grounded on
// cwc_output_state_try_restore.
func (r *Registry) Connect(name string, layoutBox geom.Box) *Output {
	o := &Output{
		name:       name,
		usableArea: layoutBox,
		layoutBox:  layoutBox,
		bus:        r.bus,
		scheduler:  r.scheduler,
		registry:   r,
	}

	if cached, ok := r.cache[name]; ok {
		o.State = cached
		delete(r.cache, name)
		r.restoreContainers(o)
	} else {
		o.State = newState(r.maxWorkspace, r.cfg.UselessGaps)
	}

	r.outputs = append(r.outputs, o)

	// rescue_output_toplevel_container(server.fallback_output, output)
	// (original_source/src/desktop/output.c:507): once a real output
	// exists, anything still parked on the fallback belongs there,
	// whether or not it came from this very output's own disconnect —
	// e.g. containers mapped while zero real outputs existed at all.
	r.rescueContainers(r.fallback, o)

	if r.bus != nil {
		r.bus.Publish(signals.ScreenNew, o)
	}
	if r.focused == r.fallback {
		r.SetFocused(o)
	}
	return o
}

// restoreContainers reattaches every container displaced by o's own
// last disconnect back onto their saved bsp_node/tag/workspace, clearing
// the snapshot once consumed. The original walks a global
// server.containers list to find them (output.c:135); this port keeps
// no such list, so it walks the fallback output plus every other live
// output instead — rescueContainers only ever parks a displaced
// container in one of those places — looking for containers whose
// OldProp still points at this output's pre-disconnect identity.
// Grounded on the container loop in cwc_output_state_try_restore.
func (r *Registry) restoreContainers(o *Output) {
	old := o.State.OldOutput
	if old == nil {
		return
	}
	holders := make([]*Output, 0, len(r.outputs)+1)
	holders = append(holders, r.fallback)
	holders = append(holders, r.outputs...)
	for _, holder := range holders {
		if holder == o {
			continue
		}
		var kept []*container.Container
		for _, c := range holder.State.Containers {
			if !c.OldProp.Valid || c.OldProp.Output != old {
				kept = append(kept, c)
				continue
			}
			c.BSPNode = c.OldProp.BSPNode
			c.Tag = c.OldProp.Tag
			c.Workspace = c.OldProp.Workspace
			c.ClearOldProp()
			c.MoveToOutput(o)
			o.State.Containers = append(o.State.Containers, c)
		}
		holder.State.Containers = kept
	}
	o.State.OldOutput = nil
}

// Disconnect retires o: its containers are rescued onto a surviving
// output (or the fallback if none remain), its state is cached under
// its name in case it reconnects, and it is dropped from Outputs().
// Grounded on rescue_output_toplevel_container and
// cwc_output_state_save.
func (r *Registry) Disconnect(o *Output) {
	target := r.fallback
	for _, candidate := range r.outputs {
		if candidate != o {
			target = candidate
			break
		}
	}

	r.rescueContainers(o, target)

	for i, candidate := range r.outputs {
		if candidate == o {
			r.outputs = append(r.outputs[:i], r.outputs[i+1:]...)
			break
		}
	}

	o.destroyed = true
	o.State.OldOutput = o
	r.cache[o.name] = o.State
	if r.bus != nil {
		r.bus.Publish(signals.ScreenDestroy, o)
	}
	if r.focused == o {
		r.SetFocused(target)
	}
}

// rescueContainers moves every container on source onto target, saving
// each container's old_prop the first time it is displaced (so a later
// Connect of source's name can restore it), per
// rescue_output_toplevel_container.
func (r *Registry) rescueContainers(source, target *Output) {
	for _, c := range source.State.Containers {
		if !source.fallback && !c.OldProp.Valid {
			c.SaveOldProp()
			c.BSPNode = nil
		}
		c.MoveToOutput(target)
	}
	target.State.Containers = append(target.State.Containers, source.State.Containers...)
	source.State.Containers = nil
}

// AdoptContainer splices c into o's container list, used when a
// container is first created or explicitly moved between live outputs
// (spec §4.3 "move_to_output" called outside of a disconnect).
func (r *Registry) AdoptContainer(o *Output, c *container.Container) {
	for _, candidate := range r.outputs {
		if candidate == o {
			continue
		}
		removeFromSlice(&candidate.State.Containers, c)
	}
	removeFromSlice(&r.fallback.State.Containers, c)
	o.State.Containers = append(o.State.Containers, c)
	c.MoveToOutput(o)
}

func removeFromSlice(list *[]*container.Container, target *container.Container) {
	for i, c := range *list {
		if c == target {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}
