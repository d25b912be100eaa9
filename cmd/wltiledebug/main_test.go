package main

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"rsc.io/getopt"
)

func resetMouseFilterState() {
	lastMotionAt = time.Time{}
	lastMotionX = 0
	lastMotionY = 0
}

func TestMouseEventFilterPassesFirstMotion(t *testing.T) {
	resetMouseFilterState()
	motion := tea.MouseMotionMsg{X: 10, Y: 12}
	if mouseEventFilter(nil, motion) == nil {
		t.Fatalf("expected first motion event to pass through")
	}
}

func TestMouseEventFilterThrottlesSamePosition(t *testing.T) {
	resetMouseFilterState()
	motion := tea.MouseMotionMsg{X: 10, Y: 12}
	if mouseEventFilter(nil, motion) == nil {
		t.Fatalf("expected first motion event to pass through")
	}
	if mouseEventFilter(nil, motion) != nil {
		t.Fatalf("expected immediate repeat at same position to be dropped")
	}
}

func TestMouseEventFilterPassesPositionChange(t *testing.T) {
	resetMouseFilterState()
	mouseEventFilter(nil, tea.MouseMotionMsg{X: 10, Y: 12})
	moved := tea.MouseMotionMsg{X: 11, Y: 12}
	if mouseEventFilter(nil, moved) == nil {
		t.Fatalf("expected a position change to pass through immediately")
	}
}

func TestMouseEventFilterPassesNonMotionMessages(t *testing.T) {
	resetMouseFilterState()
	click := tea.MouseClickMsg{X: 5, Y: 5, Button: tea.MouseLeft}
	if mouseEventFilter(nil, click) == nil {
		t.Fatalf("expected non-motion messages to pass through untouched")
	}
}

func TestParseFlagsShortAndLong(t *testing.T) {
	if err := parseFlags(&getopt.CommandLine, []string{"-w", "80", "--height=24", "-v"}); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if *flagWidth != 80 {
		t.Errorf("width = %d, want 80", *flagWidth)
	}
	if *flagHeight != 24 {
		t.Errorf("height = %d, want 24", *flagHeight)
	}
	if !*flagVerbose {
		t.Errorf("verbose = false, want true")
	}
}

func TestParseFlagsRejectsUnknownFlag(t *testing.T) {
	if err := parseFlags(&getopt.CommandLine, []string{"--nope"}); err == nil {
		t.Fatalf("expected an error for an undefined flag")
	}
}
