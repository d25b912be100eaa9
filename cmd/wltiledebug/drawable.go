package main

import (
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
)

// boxDrawable composes a single already-styled, possibly multi-line
// ANSI string onto a lipgloss.Canvas at an absolute offset, adapted from
// the teacher's internal/ui/compositor.StringDrawable: that type exists
// to let plain rendered strings implement uv.Drawable so lipgloss.Canvas
// can differentially render them, which is exactly what placing each
// container's bordered box at its real tiled (x, y) needs.
type boxDrawable struct {
	lines []string
	x, y  int
}

var _ uv.Drawable = (*boxDrawable)(nil)

func newBoxDrawable(content string, x, y int) *boxDrawable {
	return &boxDrawable{lines: strings.Split(content, "\n"), x: x, y: y}
}

// Draw walks each line's SGR-interleaved runes and writes the printable
// ones into screen, tracking only the style attributes a window box
// actually uses (bold, reverse, and 24-bit/256/basic foreground and
// background) rather than the full attribute set StringDrawable tracks.
func (d *boxDrawable) Draw(screen uv.Screen, r uv.Rectangle) {
	p := ansi.GetParser()
	defer ansi.PutParser(p)

	var style uv.Style
	var state byte
	for row, line := range d.lines {
		y := d.y + row
		if y < r.Min.Y || y >= r.Max.Y {
			continue
		}
		x := d.x
		for len(line) > 0 {
			seq, width, n, next := ansi.DecodeSequence(line, state, p)
			if n == 0 {
				break
			}
			if width == 0 {
				if ansi.Cmd(p.Command()).Final() == 'm' {
					style = applyBoxSGR(style, p.Params())
				}
			} else if x >= r.Min.X && x < r.Max.X {
				screen.SetCell(x, y, &uv.Cell{Content: seq, Style: style, Width: width})
				x += width
			} else {
				x += width
			}
			line, state = line[n:], next
		}
	}
}

// applyBoxSGR interprets the handful of SGR codes lipgloss emits for a
// bordered, optionally-colored box: reset, bold, reverse, and 16/256/
// truecolor foreground and background. Anything else is ignored rather
// than mis-rendered.
func applyBoxSGR(style uv.Style, params ansi.Params) uv.Style {
	if len(params) == 0 {
		return uv.Style{}
	}
	for i := 0; i < len(params); i++ {
		p, _, _ := params.Param(i, 0)
		switch {
		case p == 0:
			style = uv.Style{}
		case p == 1:
			style.Attrs |= uv.AttrBold
		case p == 7:
			style.Attrs |= uv.AttrReverse
		case p >= 30 && p <= 37:
			style.Fg = boxColor(p - 30)
		case p == 38:
			if i+2 < len(params) {
				mode, _, _ := params.Param(i+1, 0)
				if mode == 5 {
					idx, _, _ := params.Param(i+2, 0)
					style.Fg = boxColor(idx)
					i += 2
				} else if mode == 2 && i+4 < len(params) {
					rv, _, _ := params.Param(i+2, 0)
					gv, _, _ := params.Param(i+3, 0)
					bv, _, _ := params.Param(i+4, 0)
					style.Fg = boxRGB{uint8(rv), uint8(gv), uint8(bv)}
					i += 4
				}
			}
		case p == 39:
			style.Fg = nil
		case p >= 40 && p <= 47:
			style.Bg = boxColor(p - 40)
		case p == 48:
			if i+2 < len(params) {
				mode, _, _ := params.Param(i+1, 0)
				if mode == 5 {
					idx, _, _ := params.Param(i+2, 0)
					style.Bg = boxColor(idx)
					i += 2
				} else if mode == 2 && i+4 < len(params) {
					rv, _, _ := params.Param(i+2, 0)
					gv, _, _ := params.Param(i+3, 0)
					bv, _, _ := params.Param(i+4, 0)
					style.Bg = boxRGB{uint8(rv), uint8(gv), uint8(bv)}
					i += 4
				}
			}
		case p == 49:
			style.Bg = nil
		case p >= 90 && p <= 97:
			style.Fg = boxColor(p - 90 + 8)
		case p >= 100 && p <= 107:
			style.Bg = boxColor(p - 100 + 8)
		}
	}
	return style
}

type boxRGB [3]uint8

func (c boxRGB) RGBA() (r, g, b, a uint32) {
	return uint32(c[0]) * 257, uint32(c[1]) * 257, uint32(c[2]) * 257, 65535
}

// boxColor is a bare ANSI palette index; uv/lipgloss resolve it against
// the active color profile the same way they resolve any other
// color.Color implementation.
type boxColor int

func (c boxColor) RGBA() (r, g, b, a uint32) {
	rv, gv, bv := ansi256ToRGB(int(c))
	return uint32(rv) * 257, uint32(gv) * 257, uint32(bv) * 257, 65535
}

// ansi256ToRGB resolves an xterm 256-color palette index: the 16
// standard ANSI colors, the 6x6x6 color cube (16-231) that render.go's
// box colors come from, and the grayscale ramp (232-255). Indices
// outside 0-255 fall back to white.
func ansi256ToRGB(i int) (r, g, b uint8) {
	basic := [16][3]uint8{
		{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
		{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
		{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
		{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
	}
	switch {
	case i >= 16 && i <= 231:
		levels := [6]uint8{0, 95, 135, 175, 215, 255}
		i -= 16
		return levels[i/36], levels[(i/6)%6], levels[i%6]
	case i >= 232 && i <= 255:
		v := uint8(8 + (i-232)*10)
		return v, v, v
	}
	if i < 0 || i >= len(basic) {
		return 255, 255, 255
	}
	c := basic[i]
	return c[0], c[1], c[2]
}
