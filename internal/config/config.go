// Package config is the concrete shape of "the configuration
// collaborator" referenced throughout spec §6. It owns exactly the
// tunables §6 enumerates and the MAX_WORKSPACE constant from the
// glossary, following the teacher's DefaultConfig()-returns-(*Config,
// error) convention (internal/config/config.go in andyrewlee-amux).
package config

import (
	"encoding/json"
	"os"
)

// MaxWorkspace is the highest 1-based workspace index a tag bitfield
// can address (spec §3: a 30-bit mask, workspace indices 1..MaxWorkspace).
const MaxWorkspace = 30

// Pattern is an opaque handle for a border color/fill, matching §3's
// "pattern" field on Container.border — the core never interprets it,
// only threads it through to the scene graph collaborator (ports.SceneNode).
type Pattern struct {
	// Hex is an sRGB color in "#RRGGBB" or "#RRGGBBAA" form. The core
	// treats this as opaque; only the rendering collaborator parses it.
	Hex string `json:"hex"`
}

// RGBA is an explicit color used for the snap overlay, which the core
// passes straight to the scene graph collaborator.
type RGBA struct {
	R, G, B, A uint8
}

// Config holds every tunable the window-management core recognizes, per
// spec §6. Anything not listed there (keybindings, theme, scripting)
// belongs to an out-of-scope collaborator and is not represented here.
type Config struct {
	UselessGaps int `json:"useless_gaps"`

	BorderWidth            int     `json:"border_width"`
	BorderColorFocus       Pattern `json:"border_color_focus"`
	BorderColorNormal      Pattern `json:"border_color_normal"`
	BorderColorRotationDeg int     `json:"border_color_rotation_degree"`

	CursorSize                int  `json:"cursor_size"`
	CursorInactiveTimeoutMs   int  `json:"cursor_inactive_timeout_ms"`
	CursorEdgeThreshold       int  `json:"cursor_edge_threshold"`
	CursorEdgeSnappingOverlay RGBA `json:"-"`

	RepeatRate  int `json:"repeat_rate"`
	RepeatDelay int `json:"repeat_delay"`
}

// DefaultConfig returns the configuration with every default from §6.
func DefaultConfig() (*Config, error) {
	return &Config{
		UselessGaps: 0,

		BorderWidth:            1,
		BorderColorFocus:       Pattern{Hex: "#5e81ac"},
		BorderColorNormal:      Pattern{Hex: "#3b4252"},
		BorderColorRotationDeg: 0,

		CursorSize:                24,
		CursorInactiveTimeoutMs:   5000,
		CursorEdgeThreshold:       16,
		CursorEdgeSnappingOverlay: RGBA{R: 94, G: 129, B: 172, A: 96},

		RepeatRate:  30,
		RepeatDelay: 400,
	}, nil
}

// Load reads a JSON config file at path, applying it on top of
// DefaultConfig so a partial file only overrides the fields it sets.
// A missing file is not an error — it simply returns the defaults,
// mirroring the teacher's loadUISettings fallback behavior.
func Load(path string) (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.clamp()
	return cfg, nil
}

// clamp enforces the non-negative/range invariants §6 documents for
// each tunable, the same way the teacher's config layer never trusts a
// loaded file blindly.
func (c *Config) clamp() {
	if c.UselessGaps < 0 {
		c.UselessGaps = 0
	}
	if c.BorderWidth < 0 {
		c.BorderWidth = 0
	}
	c.BorderColorRotationDeg = ((c.BorderColorRotationDeg % 360) + 360) % 360
	if c.CursorSize <= 0 {
		c.CursorSize = 24
	}
	if c.CursorInactiveTimeoutMs < 0 {
		c.CursorInactiveTimeoutMs = 0
	}
	if c.CursorEdgeThreshold < 0 {
		c.CursorEdgeThreshold = 0
	}
	if c.RepeatRate <= 0 {
		c.RepeatRate = 30
	}
	if c.RepeatDelay < 0 {
		c.RepeatDelay = 0
	}
}
