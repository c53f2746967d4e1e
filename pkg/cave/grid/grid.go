// Package grid synthesizes binary cave occupancy grids with a seeded random
// fill followed by cellular-automaton smoothing.
package grid

import "strings"

// Cell is the occupancy state of one grid cell.
type Cell uint8

const (
	Open Cell = 0
	Wall Cell = 1
)

// Grid is a rectangular occupancy grid.
// Index = y*Width + x.
type Grid struct {
	Width, Height int
	cells         []Cell
}

// New returns an all-open grid. Dimensions must be positive.
func New(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		cells:  make([]Cell, width*height),
	}
}

// Filled returns a grid with every cell set to c.
func Filled(width, height int, c Cell) *Grid {
	g := New(width, height)
	if c != Open {
		for i := range g.cells {
			g.cells[i] = c
		}
	}
	return g
}

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the cell at (x, y). x, y must be in bounds.
func (g *Grid) At(x, y int) Cell {
	return g.cells[y*g.Width+x]
}

// Set sets the cell at (x, y). x, y must be in bounds.
func (g *Grid) Set(x, y int, c Cell) {
	g.cells[y*g.Width+x] = c
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{Width: g.Width, Height: g.Height, cells: make([]Cell, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Count returns how many cells hold c.
func (g *Grid) Count(c Cell) int {
	n := 0
	for _, v := range g.cells {
		if v == c {
			n++
		}
	}
	return n
}

// Equal reports whether both grids have the same size and contents.
func (g *Grid) Equal(o *Grid) bool {
	if g.Width != o.Width || g.Height != o.Height {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// String renders the grid with '#' for walls and '.' for open cells.
// The first line is the highest y row, so the output reads like the mesh seen from above.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.Width + 1) * g.Height)
	for y := g.Height - 1; y >= 0; y-- {
		for x := 0; x < g.Width; x++ {
			if g.At(x, y) == Wall {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Bordered copies g into a grid padded by border wall cells on every side.
func Bordered(g *Grid, border int) *Grid {
	b := Filled(g.Width+border*2, g.Height+border*2, Wall)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			b.Set(x+border, y+border, g.At(x, y))
		}
	}
	return b
}
