package mesh

// Corner names one of the eight points a square can emit.
type Corner uint8

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
	CenterTop
	CenterRight
	CenterBottom
	CenterLeft
)

func (c Corner) String() string {
	return [...]string{
		"TopLeft", "TopRight", "BottomRight", "BottomLeft",
		"CenterTop", "CenterRight", "CenterBottom", "CenterLeft",
	}[c]
}

// Square is formed by four adjacent control nodes. Its center points are the
// edge nodes owned by those control nodes, not copies.
type Square struct {
	Points        [8]NodeID // indexed by Corner
	Configuration uint8
}

// Point returns the node ID for corner c.
func (s *Square) Point(c Corner) NodeID {
	return s.Points[c]
}

func newSquare(l *Lattice, x, y int) Square {
	var s Square
	s.Points[TopLeft] = l.Control(x, y+1)
	s.Points[TopRight] = l.Control(x+1, y+1)
	s.Points[BottomRight] = l.Control(x+1, y)
	s.Points[BottomLeft] = l.Control(x, y)

	s.Points[CenterTop] = l.Right(x, y+1)
	s.Points[CenterRight] = l.Above(x+1, y)
	s.Points[CenterBottom] = l.Right(x, y)
	s.Points[CenterLeft] = l.Above(x, y)

	if l.IsActive(x, y+1) {
		s.Configuration += 8
	}
	if l.IsActive(x+1, y+1) {
		s.Configuration += 4
	}
	if l.IsActive(x+1, y) {
		s.Configuration += 2
	}
	if l.IsActive(x, y) {
		s.Configuration += 1
	}
	return s
}

// SquareGrid is the (CountX-1) x (CountY-1) lattice of squares.
type SquareGrid struct {
	Width, Height int
	Squares       []Square // index = x*Height + y
}

// NewSquareGrid builds every square of l. A lattice narrower than two nodes
// in either direction yields an empty grid.
func NewSquareGrid(l *Lattice) *SquareGrid {
	sg := &SquareGrid{
		Width:  max(l.CountX-1, 0),
		Height: max(l.CountY-1, 0),
	}
	sg.Squares = make([]Square, sg.Width*sg.Height)
	for x := 0; x < sg.Width; x++ {
		for y := 0; y < sg.Height; y++ {
			sg.Squares[x*sg.Height+y] = newSquare(l, x, y)
		}
	}
	return sg
}

// At returns the square whose bottom-left control node is (x, y).
func (sg *SquareGrid) At(x, y int) *Square {
	return &sg.Squares[x*sg.Height+y]
}
