package tui

import (
	"github.com/1broseidon/fakeos/internal/config"
	"github.com/1broseidon/fakeos/internal/tiling"
	"github.com/1broseidon/fakeos/internal/wm"
)

// grid maps terminal cells to desktop pixels. A cell stands for the pixel at
// its center, so a window covers exactly the cells whose centers fall inside
// its bounds and hit-testing agrees with what is drawn.
type grid struct {
	cw, ch int
}

func newGrid(cfg *config.Config) grid {
	g := grid{cw: cfg.Cell.Width, ch: cfg.Cell.Height}
	if g.cw <= 0 {
		g.cw = 8
	}
	if g.ch <= 0 {
		g.ch = 16
	}
	return g
}

// ManagerOptions returns window manager geometry for the terminal desktop:
// the taskbar and titlebars are one row tall and each titlebar button is
// three cells wide.
func ManagerOptions(cfg *config.Config) wm.Options {
	g := newGrid(cfg)
	opts := wm.OptionsFromConfig(cfg)
	opts.TaskbarHeight = g.ch
	opts.TitlebarHeight = g.ch
	opts.ControlWidth = 3 * g.cw
	opts.ResizeHandle = max(g.cw, g.ch)
	return opts
}

// viewport returns the desktop size in pixels for a terminal of cols×rows.
func (g grid) viewport(cols, rows int) (int, int) {
	return cols * g.cw, rows * g.ch
}

// point returns the pixel a cell stands for.
func (g grid) point(col, row int) (int, int) {
	return col*g.cw + g.cw/2, row*g.ch + g.ch/2
}

// cellRect is a rectangle in terminal cells.
type cellRect struct {
	col, row, cols, rows int
}

func (r cellRect) contains(col, row int) bool {
	return col >= r.col && col < r.col+r.cols && row >= r.row && row < r.row+r.rows
}

// cells returns the cells whose centers lie inside r.
func (g grid) cells(r tiling.Rect) cellRect {
	c0, c1 := span(r.X, r.Width, g.cw)
	r0, r1 := span(r.Y, r.Height, g.ch)
	return cellRect{col: c0, row: r0, cols: max(c1-c0, 0), rows: max(r1-r0, 0)}
}

// span returns the half-open range of cell indexes whose centers lie in
// [start, start+length).
func span(start, length, size int) (int, int) {
	return ceilDiv(start-size/2, size), ceilDiv(start+length-size/2, size)
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a > 0) == (b > 0) {
		q++
	}
	return q
}
