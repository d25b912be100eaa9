// Package wmerr names the error taxonomy of the window-management core
// (spec §7). No error value ever leaves a core operation: callers use
// these sentinels only to classify what internal/logging should record
// and, for ClampableInput, to compute the clamped replacement value.
package wmerr

import (
	"errors"
	"fmt"

	"github.com/wltile/wltile/internal/logging"
)

// Kind classifies why an operation could not do exactly what was asked.
type Kind int

const (
	// Precondition is a programmer error: the caller violated an
	// invariant the type documents (e.g. inserting a container that
	// already has a BSP node). Fatal in debug builds.
	Precondition Kind = iota
	// Transient means the operation's target no longer exists (an
	// output was destroyed, a container was unmapped). Silently no-op.
	Transient
	// Clampable means a numeric input was out of its legal range and
	// was clamped instead of rejected.
	Clampable
	// ClientMisbehavior means a surface asked for an illegal state
	// transition (e.g. fullscreen while unmapped). Ignored.
	ClientMisbehavior
)

func (k Kind) String() string {
	switch k {
	case Precondition:
		return "precondition violation"
	case Transient:
		return "transient, ignored"
	case Clampable:
		return "clamped"
	case ClientMisbehavior:
		return "client misbehavior, ignored"
	default:
		return "unknown"
	}
}

// Debug, when true, makes Report panic on Precondition errors instead of
// just logging them, matching §7's "assert and abort in debug" rule.
// Tests that intentionally trigger preconditions should leave this false.
var Debug = false

// New builds an error tagged with kind, for use with Report.
func New(kind Kind, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}

// Error implements the error interface directly on Kind so errors.Is
// and %w both work without a separate wrapper type.
func (k Kind) Error() string { return k.String() }

// Report logs err according to its Kind and, for Precondition in debug
// builds, terminates the process. It is the only place the four error
// kinds leave any observable trace, per §7's propagation policy.
func Report(err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, Precondition):
		logging.Error("precondition violation: %v", err)
		if Debug {
			panic(err)
		}
	case errors.Is(err, Transient):
		logging.Debug("ignored (transient): %v", err)
	case errors.Is(err, Clampable):
		logging.Debug("clamped input: %v", err)
	case errors.Is(err, ClientMisbehavior):
		logging.Warn("ignored (client misbehavior): %v", err)
	default:
		logging.Error("unclassified error: %v", err)
	}
}

// ClampFloat clamps v into [lo, hi] and, if clamping changed the value,
// reports a Clampable error tagged with what, for callers that want the
// log trail without handling a return value.
func ClampFloat(what string, v, lo, hi float64) float64 {
	if v < lo {
		Report(New(Clampable, "%s %.4f below minimum %.4f", what, v, lo))
		return lo
	}
	if v > hi {
		Report(New(Clampable, "%s %.4f above maximum %.4f", what, v, hi))
		return hi
	}
	return v
}

// ClampInt clamps v into [lo, hi], reporting a Clampable error when it
// had to.
func ClampInt(what string, v, lo, hi int) int {
	if v < lo {
		Report(New(Clampable, "%s %d below minimum %d", what, v, lo))
		return lo
	}
	if v > hi {
		Report(New(Clampable, "%s %d above maximum %d", what, v, hi))
		return hi
	}
	return v
}

// ClampMin clamps v to be at least lo, reporting a Clampable error when
// it had to (used for gaps and thicknesses with no upper bound).
func ClampMin(what string, v, lo int) int {
	if v < lo {
		Report(New(Clampable, "%s %d below minimum %d", what, v, lo))
		return lo
	}
	return v
}
