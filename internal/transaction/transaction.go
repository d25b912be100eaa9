// Package transaction implements the deferred batcher of spec §4.1,
// grounded on original_source/src/desktop/transaction.c. The C original
// posts a single wl_event_loop idle callback and tracks two pending
// sets (outputs needing a commit/visibility pass, tags needing a
// tiling-layout recompute); this port keeps the same two-set shape and
// the same re-entrancy rule (new schedule calls are dropped while a
// drain is in progress) but replaces "post an idle source" with "mark
// dirty, and require the embedding reactor to call Drain once it would
// otherwise go idle" — Go has no wl_event_loop to post into, so the
// idle-callback contract becomes an explicit method per §5's note that
// "scheduled idle callbacks run before the next poll iteration".
package transaction

// OutputRunner and TagRunner are the two kinds of schedulable target:
// an output or a tag info. The scheduler only needs identity and two
// callbacks per registered target, so it is generic over whatever the
// caller's output/tag types are via these interfaces rather than
// importing internal/wm/output or internal/wm/tag (which would invert
// the dependency order of spec §2).
type OutputRunner interface {
	// RunOutput applies the pending output state draft, arranges
	// layer-shell exclusive zones, and updates visibility (§4.1).
	RunOutput()
	// Alive reports whether the output still exists; a drain skips
	// entries whose Alive is false (§4.1 "Failure semantics").
	Alive() bool
}

type TagRunner interface {
	// RunTag recomputes the tiling layout for this tag's workspace.
	RunTag()
	Alive() bool
}

// Scheduler batches output and tag work at idle, per §4.1.
type Scheduler struct {
	paused     bool
	processing bool

	pendingOutputs []OutputRunner
	outputPending  map[OutputRunner]bool

	pendingTags []TagRunner
	tagPending  map[TagRunner]bool

	// onDirty, if set, is invoked the first time this batch transitions
	// from empty to non-empty, so the embedding reactor knows to post an
	// idle callback that will eventually call Drain. It mirrors
	// transaction_start()'s wl_event_loop_add_idle call without this
	// package depending on any particular event loop.
	onDirty func()
}

// New returns an empty, unpaused scheduler. onDirty may be nil.
func New(onDirty func()) *Scheduler {
	return &Scheduler{
		onDirty:       onDirty,
		outputPending: make(map[OutputRunner]bool),
		tagPending:    make(map[TagRunner]bool),
	}
}

func (s *Scheduler) wasEmpty() bool {
	return len(s.pendingOutputs) == 0 && len(s.pendingTags) == 0
}

func (s *Scheduler) notifyDirty() {
	if s.onDirty != nil {
		s.onDirty()
	}
}

// ScheduleOutput marks o as needing one run before the next drain.
// Idempotent: scheduling an already-pending output is a no-op. Dropped
// silently while a drain is in progress (§4.1 re-entrancy rule) and
// while paused the mark is kept but no drain is implied until Resume.
func (s *Scheduler) ScheduleOutput(o OutputRunner) {
	if s.processing {
		return
	}
	if s.outputPending[o] {
		return
	}
	wasEmpty := s.wasEmpty()
	s.outputPending[o] = true
	s.pendingOutputs = append(s.pendingOutputs, o)
	if wasEmpty && !s.paused {
		s.notifyDirty()
	}
}

// ScheduleTag marks t as needing one tiling recompute before the next
// drain. Same idempotence and re-entrancy rules as ScheduleOutput.
func (s *Scheduler) ScheduleTag(t TagRunner) {
	if s.processing {
		return
	}
	if s.tagPending[t] {
		return
	}
	wasEmpty := s.wasEmpty()
	s.tagPending[t] = true
	s.pendingTags = append(s.pendingTags, t)
	if wasEmpty && !s.paused {
		s.notifyDirty()
	}
}

// Pause atomically suspends batching: ScheduleOutput/ScheduleTag still
// record pending targets but no longer trigger onDirty, so a drain
// never happens until Resume.
func (s *Scheduler) Pause() {
	s.paused = true
}

// Resume restarts batching. If work had accumulated while paused, it
// fires onDirty once so the caller can post a drain.
func (s *Scheduler) Resume() {
	if !s.paused {
		return
	}
	s.paused = false
	if !s.wasEmpty() {
		s.notifyDirty()
	}
}

// Paused reports the current pause state.
func (s *Scheduler) Paused() bool { return s.paused }

// Pending reports whether any output or tag work is currently queued.
func (s *Scheduler) Pending() bool { return !s.wasEmpty() }

// Drain runs one batch: every pending output first, then every pending
// tag, matching §5's ordering guarantee ("drains outputs first, then
// tag-tiling recomputes, then per-output visibility" — visibility is
// folded into RunOutput per §4.1's contract). While draining, new
// schedule calls are ignored (re-entrancy guard); callers must re-issue
// them after Drain returns if still needed. A no-op while paused.
func (s *Scheduler) Drain() {
	if s.paused {
		return
	}
	s.processing = true
	defer func() { s.processing = false }()

	outputs := s.pendingOutputs
	s.pendingOutputs = nil
	s.outputPending = make(map[OutputRunner]bool)
	for _, o := range outputs {
		if !o.Alive() {
			continue
		}
		o.RunOutput()
	}

	tags := s.pendingTags
	s.pendingTags = nil
	s.tagPending = make(map[TagRunner]bool)
	for _, t := range tags {
		if !t.Alive() {
			continue
		}
		t.RunTag()
	}
}
