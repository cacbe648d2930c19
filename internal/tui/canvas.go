package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// canvas is a fixed-size screen of styled lines. Blocks are composited on
// top of it by cutting the lines underneath with ANSI-aware truncation.
type canvas struct {
	width int
	lines []string
}

func newCanvas(width, height int, fill string) *canvas {
	c := &canvas{width: width, lines: make([]string, height)}
	for i := range c.lines {
		c.lines[i] = fill
	}
	return c
}

// place draws block with its top-left corner at col,row. Parts outside the
// canvas are clipped.
func (c *canvas) place(col, row int, block string) {
	for i, line := range strings.Split(block, "\n") {
		y := row + i
		if y < 0 || y >= len(c.lines) {
			continue
		}
		c.lines[y] = c.overlay(c.lines[y], col, line)
	}
}

func (c *canvas) overlay(bg string, col int, fg string) string {
	w := ansi.StringWidth(fg)
	if col < 0 {
		fg = ansi.TruncateLeft(fg, -col, "")
		w += col
		col = 0
	}
	if col >= c.width || w <= 0 {
		return bg
	}
	if col+w > c.width {
		fg = ansi.Truncate(fg, c.width-col, "")
		w = c.width - col
	}
	left := ansi.Truncate(bg, col, "")
	if pad := col - ansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}
	right := ansi.TruncateLeft(bg, col+w, "")
	return left + ansi.ResetStyle + fg + ansi.ResetStyle + right
}

// String joins the canvas lines.
func (c *canvas) String() string {
	return strings.Join(c.lines, "\n")
}

// fit pads or cuts s to exactly width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w > width {
		return ansi.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", width-w)
}
