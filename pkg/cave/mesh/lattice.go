// Package mesh turns a bordered occupancy grid into a triangle mesh using
// marching squares.
package mesh

import "github.com/OCharnyshevich/cavegen/pkg/cave/grid"

// Vec3 is a position in mesh space. The cave lies in the XZ plane, Y is up.
type Vec3 struct {
	X, Y, Z float32
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

var (
	forward = Vec3{Z: 1}
	right   = Vec3{X: 1}
)

// Unassigned marks a node that has not been given a vertex yet.
const Unassigned int32 = -1

// NodeID addresses a Node inside a Lattice arena.
type NodeID int32

// Node is a vertex candidate: a position plus its vertex index once used.
type Node struct {
	Pos    Vec3
	Vertex int32
}

// slots per control node: the corner itself, its above and right edge nodes.
const (
	slotControl = iota
	slotAbove
	slotRight
	slotsPerControl
)

// Lattice holds one control node per grid cell. Each control node owns the
// edge nodes halfway to its north and east neighbors; squares address them by
// NodeID so neighbors share the same slot.
type Lattice struct {
	CountX, CountY int
	SquareSize     float32
	Nodes          []Node
	Active         []bool // index = x*CountY + y
}

// NewLattice builds the control node lattice for g, centered on the origin.
func NewLattice(g *grid.Grid, squareSize float32) *Lattice {
	l := &Lattice{
		CountX:     g.Width,
		CountY:     g.Height,
		SquareSize: squareSize,
		Nodes:      make([]Node, g.Width*g.Height*slotsPerControl),
		Active:     make([]bool, g.Width*g.Height),
	}

	mapWidth := float32(l.CountX) * squareSize
	mapHeight := float32(l.CountY) * squareSize
	half := squareSize / 2

	for x := 0; x < l.CountX; x++ {
		for y := 0; y < l.CountY; y++ {
			pos := Vec3{
				X: -mapWidth/2 + float32(x)*squareSize + half,
				Z: -mapHeight/2 + float32(y)*squareSize + half,
			}
			base := l.control(x, y)
			l.Nodes[base] = Node{Pos: pos, Vertex: Unassigned}
			l.Nodes[base+slotAbove] = Node{Pos: pos.Add(forward.Scale(half)), Vertex: Unassigned}
			l.Nodes[base+slotRight] = Node{Pos: pos.Add(right.Scale(half)), Vertex: Unassigned}
			l.Active[x*l.CountY+y] = g.At(x, y) == grid.Wall
		}
	}
	return l
}

func (l *Lattice) control(x, y int) NodeID {
	return NodeID((x*l.CountY + y) * slotsPerControl)
}

// Control returns the corner node of the control node at (x, y).
func (l *Lattice) Control(x, y int) NodeID { return l.control(x, y) + slotControl }

// Above returns the edge node between (x, y) and (x, y+1).
func (l *Lattice) Above(x, y int) NodeID { return l.control(x, y) + slotAbove }

// Right returns the edge node between (x, y) and (x+1, y).
func (l *Lattice) Right(x, y int) NodeID { return l.control(x, y) + slotRight }

// IsActive reports whether the control node at (x, y) is a wall.
func (l *Lattice) IsActive(x, y int) bool {
	return l.Active[x*l.CountY+y]
}

// Node returns the node stored at id.
func (l *Lattice) Node(id NodeID) *Node {
	return &l.Nodes[id]
}
