// Package tag implements the tag bitfield and per-workspace tag info of
// spec §3 "Tag bitfield" / "Tag info", dependency-order item 3 in §2.
package tag

import "github.com/wltile/wltile/internal/wmerr"

// Bitfield is the 30-bit tag mask of spec §3: bit i represents workspace
// i+1. Workspace 0 is reserved for the off-screen "wallpaper" view and
// never appears as a set bit produced by this package.
type Bitfield uint32

// Of returns the single-bit mask for workspace (1-based).
func Of(workspace int) Bitfield {
	if workspace < 1 {
		return 0
	}
	return 1 << uint(workspace-1)
}

// Has reports whether b includes workspace.
func (b Bitfield) Has(workspace int) bool {
	return b&Of(workspace) != 0
}

// Intersects reports whether b and other share any set bit — the
// visibility test of spec §3 ("(c.tag & active_tag) != 0").
func (b Bitfield) Intersects(other Bitfield) bool {
	return b&other != 0
}

// IsEmpty reports whether no bit is set.
func (b Bitfield) IsEmpty() bool { return b == 0 }

// LayoutMode is the per-workspace arrangement strategy of spec §3.
type LayoutMode int

const (
	Floating LayoutMode = iota
	Master
	BSP
)

func (m LayoutMode) String() string {
	switch m {
	case Floating:
		return "floating"
	case Master:
		return "master"
	case BSP:
		return "bsp"
	default:
		return "unknown"
	}
}

// MasterState holds the master/stack tuning parameters of spec §3,
// keyed by tag info. CurrentLayout is an opaque pointer (the registry
// in internal/wm/master owns the concrete master.Strategy); it is stored here as
// an untyped slot so this leaf package never imports internal/wm/master
// (dependency order: tag is below master in spec §2).
type MasterState struct {
	MasterCount  int
	ColumnCount  int
	Mwfact       float64
	CurrentLayout any
}

const (
	minMwfact = 0.1
	maxMwfact = 0.9
)

// SetMwfact clamps and stores fact, per spec §3's invariant
// `mwfact ∈ [0.1, 0.9]`.
func (m *MasterState) SetMwfact(fact float64) {
	m.Mwfact = wmerr.ClampFloat("mwfact", fact, minMwfact, maxMwfact)
}

// BSPRootEntry holds the BSP tree root and last-focused pointer for one
// workspace (spec §3). Root and LastFocused are untyped slots for the
// same dependency-order reason as MasterState.CurrentLayout: the BSP
// tree's concrete node/container types live in packages above tag.
type BSPRootEntry struct {
	Root         any
	LastFocused  any
}

// Info is the per-output, per-workspace parameter set of spec §3 "Tag
// info". Index 0 is reserved and never populated by NewInfos.
type Info struct {
	Index       int
	UselessGaps int
	LayoutMode  LayoutMode
	Master      MasterState
	BSP         BSPRootEntry

	// PendingTransaction mirrors the scheduler membership flag in spec
	// §3; internal/transaction reads and clears it through RunTag/Alive,
	// this package just stores it.
	PendingTransaction bool
}

// SetUselessGaps clamps and stores gaps, per the `useless_gaps >= 0`
// invariant of spec §3/§8 property 4.
func (i *Info) SetUselessGaps(gaps int) {
	i.UselessGaps = wmerr.ClampMin("useless_gaps", gaps, 0)
}

// NewInfos returns an array of per-workspace tag info, indices
// 1..config.MaxWorkspace populated with the given default gap and
// master-layout defaults; index 0 is the zero value and reserved.
func NewInfos(maxWorkspace int, defaultGaps int) []Info {
	infos := make([]Info, maxWorkspace+1)
	for i := 1; i <= maxWorkspace; i++ {
		infos[i] = Info{
			Index:       i,
			UselessGaps: defaultGaps,
			LayoutMode:  Floating,
			Master: MasterState{
				MasterCount: 1,
				ColumnCount: 1,
				Mwfact:      0.5,
			},
		}
	}
	return infos
}
