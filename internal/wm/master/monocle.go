package master

import (
	"github.com/wltile/wltile/internal/wm/container"
	"github.com/wltile/wltile/internal/wm/output"
	"github.com/wltile/wltile/internal/wm/tag"
)

// MonocleStrategy stacks every tileable toplevel full-screen within
// the usable area; only the front one is visually on top. Grounded on
// arrange_monocle. Resize is a no-op (embedded BaseStrategy) since
// there is nothing to drag.
type MonocleStrategy struct {
	BaseStrategy
}

// NewMonocleStrategy returns a ready-to-register monocle strategy.
func NewMonocleStrategy() *MonocleStrategy { return &MonocleStrategy{} }

func (MonocleStrategy) Name() string { return "monocle" }

func (MonocleStrategy) Arrange(toplevels []*container.Toplevel, o *output.Output, state *tag.MasterState) {
	usable := o.UsableArea()
	gap := gapFor(o)
	for _, t := range toplevels {
		t.Container().SetBoxGap(usable, gap)
	}
}
