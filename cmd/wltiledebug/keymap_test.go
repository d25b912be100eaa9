package main

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestTranslateModsCombinesBits(t *testing.T) {
	got := translateMods(tea.ModCtrl | tea.ModAlt)
	want := modCtrl | modAlt
	if got != want {
		t.Errorf("got %#x, want %#x", got, want)
	}
}

func TestTranslateModsNoneIsZero(t *testing.T) {
	if got := translateMods(0); got != 0 {
		t.Errorf("got %#x, want 0", got)
	}
}

func TestTranslateModsSuperOnly(t *testing.T) {
	got := translateMods(tea.ModSuper)
	if got != modSuper {
		t.Errorf("got %#x, want %#x", got, modSuper)
	}
}
