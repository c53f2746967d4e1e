package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/OCharnyshevich/cavegen/pkg/cave/grid"
)

const DefaultSquareSize float32 = 1

var (
	// ErrInvalidSquareSize is returned when the square size is not a positive number.
	ErrInvalidSquareSize = errors.New("invalid square size")
	// ErrEmptyGrid is returned for grids too small to form a single square.
	ErrEmptyGrid = errors.New("grid too small for marching squares")
)

// Generator runs marching squares, reusing its builder between calls.
// A Generator must not be used from several goroutines at once.
type Generator struct {
	builder *Builder
}

func NewGenerator() *Generator {
	return &Generator{builder: NewBuilder()}
}

// Generate converts g into a mesh. Every call starts from a clean builder.
func (gen *Generator) Generate(g *grid.Grid, squareSize float32) (*Mesh, error) {
	if squareSize <= 0 || math.IsNaN(float64(squareSize)) || math.IsInf(float64(squareSize), 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSquareSize, squareSize)
	}
	if g == nil || g.Width < 2 || g.Height < 2 {
		return nil, ErrEmptyGrid
	}

	gen.builder.Reset()

	lattice := NewLattice(g, squareSize)
	squares := NewSquareGrid(lattice)
	Triangulate(lattice, squares, gen.builder)

	m := gen.builder.Mesh()
	gen.builder.Reset()
	return m, nil
}

// Generate converts g into a mesh with a one-off Generator.
func Generate(g *grid.Grid, squareSize float32) (*Mesh, error) {
	return NewGenerator().Generate(g, squareSize)
}
