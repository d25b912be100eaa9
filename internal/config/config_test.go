package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() error = %v", err)
	}
	if cfg.UselessGaps != 0 {
		t.Fatalf("UselessGaps = %d, want 0", cfg.UselessGaps)
	}
	if cfg.BorderWidth != 1 {
		t.Fatalf("BorderWidth = %d, want 1", cfg.BorderWidth)
	}
	if cfg.CursorSize != 24 {
		t.Fatalf("CursorSize = %d, want 24", cfg.CursorSize)
	}
	if cfg.RepeatRate != 30 || cfg.RepeatDelay != 400 {
		t.Fatalf("repeat defaults = %d/%d, want 30/400", cfg.RepeatRate, cfg.RepeatDelay)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want, _ := DefaultConfig()
	if *cfg != *want {
		t.Fatalf("Load(missing) = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"useless_gaps": 8}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UselessGaps != 8 {
		t.Fatalf("UselessGaps = %d, want 8", cfg.UselessGaps)
	}
	if cfg.BorderWidth != 1 {
		t.Fatalf("BorderWidth = %d, want unchanged default 1", cfg.BorderWidth)
	}
}

func TestLoadClampsOutOfRangeValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"useless_gaps": -5, "repeat_rate": -1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UselessGaps != 0 {
		t.Fatalf("UselessGaps = %d, want clamped to 0", cfg.UselessGaps)
	}
	if cfg.RepeatRate != 30 {
		t.Fatalf("RepeatRate = %d, want clamped to default 30", cfg.RepeatRate)
	}
}
