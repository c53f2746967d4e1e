package mesh

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

var (
	ErrIndexOutOfRange = errors.New("triangle index out of range")
	ErrTriangleArity   = errors.New("triangle index count not a multiple of 3")
)

// Triangle holds the three vertex indices of one triangle, in winding order.
type Triangle struct {
	A, B, C int32
}

// Mesh is the output of marching squares.
type Mesh struct {
	Vertices  []Vec3
	Triangles []int32 // flat index triples into Vertices

	// Adjacency maps a vertex index to the triangles touching it. Kept for
	// outline extraction; nothing in this package reads it.
	Adjacency map[int32]mapset.Set[Triangle]
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// TrianglesAt returns the triangles touching vertex v, sorted by index.
func (m *Mesh) TrianglesAt(v int32) []Triangle {
	set, ok := m.Adjacency[v]
	if !ok {
		return nil
	}
	out := make([]Triangle, 0, set.Size())
	set.Each(func(t Triangle) {
		out = append(out, t)
	})
	slices.SortFunc(out, func(a, b Triangle) int {
		return cmp.Or(cmp.Compare(a.A, b.A), cmp.Compare(a.B, b.B), cmp.Compare(a.C, b.C))
	})
	return out
}

// Validate checks that the index buffer is well formed.
func (m *Mesh) Validate() error {
	if len(m.Triangles)%3 != 0 {
		return fmt.Errorf("%w: %d", ErrTriangleArity, len(m.Triangles))
	}
	for i, idx := range m.Triangles {
		if idx < 0 || int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w: triangles[%d] = %d, %d vertices", ErrIndexOutOfRange, i, idx, len(m.Vertices))
		}
	}
	return nil
}

// Builder accumulates vertices and triangles for one mesh. It is not safe for
// concurrent use.
type Builder struct {
	vertices  []Vec3
	triangles []int32
	adjacency map[int32]mapset.Set[Triangle]
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	b := &Builder{}
	b.Reset()
	return b
}

// Reset drops everything accumulated so far.
func (b *Builder) Reset() {
	b.vertices = nil
	b.triangles = nil
	b.adjacency = make(map[int32]mapset.Set[Triangle])
}

// AssignVertices gives each unassigned node the next vertex index and records
// its position. Nodes that already have a vertex are left alone.
func (b *Builder) AssignVertices(l *Lattice, ids ...NodeID) {
	for _, id := range ids {
		n := l.Node(id)
		if n.Vertex != Unassigned {
			continue
		}
		n.Vertex = int32(len(b.vertices))
		b.vertices = append(b.vertices, n.Pos)
	}
}

// CreateTriangle appends the triangle (a, b, c). All three nodes must already
// have vertices assigned.
func (b *Builder) CreateTriangle(a, bn, c *Node) {
	b.triangles = append(b.triangles, a.Vertex, bn.Vertex, c.Vertex)

	t := Triangle{A: a.Vertex, B: bn.Vertex, C: c.Vertex}
	b.addToAdjacency(t.A, t)
	b.addToAdjacency(t.B, t)
	b.addToAdjacency(t.C, t)
}

func (b *Builder) addToAdjacency(v int32, t Triangle) {
	set, ok := b.adjacency[v]
	if !ok {
		set = mapset.New[Triangle]()
		b.adjacency[v] = set
	}
	set.Put(t)
}

// Mesh hands the accumulated buffers to a Mesh. The builder must be Reset
// before it is reused.
func (b *Builder) Mesh() *Mesh {
	return &Mesh{
		Vertices:  b.vertices,
		Triangles: b.triangles,
		Adjacency: b.adjacency,
	}
}
