package tiling

import (
	"fmt"
	"math"

	"github.com/1broseidon/fakeos/internal/config"
)

// Rect represents a window position and size in desktop pixels.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the x coordinate just past the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate just past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// CalculateGrid determines the optimal grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows == 0 {
		return 0, 0
	}

	// Calculate columns first (ceiling of square root)
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))

	// Calculate rows needed
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

// CascadeStep is the diagonal offset between cascaded windows.
const CascadeStep = 30

// Options controls grid-like arrangements.
type Options struct {
	Gap int
	// MinWidth and MinHeight are exclusive lower bounds for a cell.
	MinWidth  int
	MinHeight int
}

// CalculatePositions computes window rects for an arrange mode inside the work
// area. Grid-like modes split the area into gap-separated cells; cascade keeps
// each window's requested size and offsets it diagonally.
func CalculatePositions(mode config.ArrangeMode, sizes []Rect, area Rect, opts Options) ([]Rect, error) {
	numWindows := len(sizes)
	if numWindows == 0 {
		return nil, nil
	}

	var rows, cols int
	switch mode {
	case config.ArrangeGrid:
		rows, cols = CalculateGrid(numWindows)
	case config.ArrangeVertical:
		rows, cols = numWindows, 1
	case config.ArrangeHorizontal:
		rows, cols = 1, numWindows
	case config.ArrangeCascade:
		return cascadePositions(sizes, area), nil
	default:
		return nil, fmt.Errorf("unsupported arrange mode: %q", mode)
	}

	gapSize := opts.Gap

	// Gaps: one before each column/row and one after the last.
	totalHorizontalGaps := (cols + 1) * gapSize
	totalVerticalGaps := (rows + 1) * gapSize

	cellWidth := (area.Width - totalHorizontalGaps) / cols
	cellHeight := (area.Height - totalVerticalGaps) / rows

	if cellWidth <= max(0, opts.MinWidth) || cellHeight <= max(0, opts.MinHeight) {
		return nil, fmt.Errorf(
			"insufficient space to arrange: area=%dx%d rows=%d cols=%d gap=%d (cell=%dx%d)",
			area.Width, area.Height, rows, cols, gapSize, cellWidth, cellHeight,
		)
	}

	positions := make([]Rect, numWindows)
	for i := 0; i < numWindows; i++ {
		row := i / cols
		col := i % cols

		positions[i] = Rect{
			X:      area.X + gapSize + col*(cellWidth+gapSize),
			Y:      area.Y + gapSize + row*(cellHeight+gapSize),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}

	return positions, nil
}

func cascadePositions(sizes []Rect, area Rect) []Rect {
	positions := make([]Rect, len(sizes))
	x, y := area.X, area.Y
	for i, s := range sizes {
		w := min(s.Width, area.Width)
		h := min(s.Height, area.Height)

		// Wrap back to the corner once the next window would leave the area.
		if x+w > area.Right() || y+h > area.Bottom() {
			x, y = area.X, area.Y
		}

		positions[i] = Rect{X: x, Y: y, Width: w, Height: h}
		x += CascadeStep
		y += CascadeStep
	}
	return positions
}

// ClampToArea shifts r so it lies fully inside area, pinning to the top-left
// edge when r is larger than area.
func ClampToArea(r Rect, area Rect) Rect {
	maxX := area.Right() - r.Width
	maxY := area.Bottom() - r.Height
	r.X = max(area.X, min(r.X, maxX))
	r.Y = max(area.Y, min(r.Y, maxY))
	return r
}
