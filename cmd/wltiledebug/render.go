package main

import (
	"fmt"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/wltile/wltile/internal/wm/container"
)

var (
	colorNormal   = lipgloss.Color("240")
	colorFocused  = lipgloss.Color("86")
	colorFloating = lipgloss.Color("214")
	colorUrgent   = lipgloss.Color("203")
)

// boxStyleFor picks the border color for cont's rendered box: focused
// (Activated) beats urgent beats floating beats the plain tiled default.
func boxStyleFor(cont *container.Container) lipgloss.Style {
	color := colorNormal
	switch {
	case cont.State.Has(container.StateActivated):
		color = colorFocused
	case cont.State.Has(container.StateUrgent):
		color = colorUrgent
	case cont.State.Has(container.StateFloating):
		color = colorFloating
	}
	style := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(color)
	if cont.State.Has(container.StateActivated) {
		style = style.Bold(true)
	}
	return style
}

// truncateLabel clips title to fit within width cells, measuring with
// go-runewidth so wide (e.g. CJK) titles don't overflow a box narrower
// than their byte length would suggest.
func truncateLabel(title string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(title) <= width {
		return title
	}
	return runewidth.Truncate(title, width, "…")
}

// renderContainer draws one container's bordered box, sized and
// positioned from its real tiled/floating Geometry, labeled with its
// front toplevel's title and debug id so clicks can be matched back to
// a window.
func renderContainer(cont *container.Container) string {
	box := cont.Geometry
	innerW := box.Width - 2
	if innerW < 1 {
		innerW = 1
	}
	title := "?"
	if front := cont.FrontToplevel(); front != nil {
		if s, ok := front.Surface.(*debugSurface); ok {
			title = fmt.Sprintf("#%d %s", s.id, s.title)
		}
	}
	style := boxStyleFor(cont).Width(innerW).Height(box.Height - 2)
	return style.Render(truncateLabel(title, innerW))
}

// containerZoneID is the bubblezone marker key for cont, derived from
// its front toplevel's debug id so clicks resolve back to a window
// without a separate id allocator.
func containerZoneID(cont *container.Container) string {
	if front := cont.FrontToplevel(); front != nil {
		if s, ok := front.Surface.(*debugSurface); ok {
			return fmt.Sprintf("window-%d", s.id)
		}
	}
	return ""
}
