package mesh

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/OCharnyshevich/cavegen/pkg/cave/grid"
)

// squareGrid returns a 2x2 grid whose single square has the given configuration.
func squareGrid(config uint8) *grid.Grid {
	g := grid.New(2, 2)
	set := func(bit uint8, x, y int) {
		if config&bit != 0 {
			g.Set(x, y, grid.Wall)
		}
	}
	set(8, 0, 1) // top left
	set(4, 1, 1) // top right
	set(2, 1, 0) // bottom right
	set(1, 0, 0) // bottom left
	return g
}

func TestConfigurationCountLaw(t *testing.T) {
	want := map[uint8]int{
		0: 0, 15: 2,
		1: 1, 2: 1, 4: 1, 8: 1,
		3: 2, 6: 2, 9: 2, 12: 2, 5: 4, 10: 4,
		7: 3, 11: 3, 13: 3, 14: 3,
	}

	for config := uint8(0); config < 16; config++ {
		m, err := Generate(squareGrid(config), 1)
		if err != nil {
			t.Fatalf("config %d: %v", config, err)
		}
		if got := m.TriangleCount(); got != want[config] {
			t.Errorf("config %d: %d triangles, want %d", config, got, want[config])
		}
		if got := TriangleCount(config); got != want[config] {
			t.Errorf("TriangleCount(%d) = %d, want %d", config, got, want[config])
		}
		if got := len(m.Vertices); got != len(Pattern(config)) {
			t.Errorf("config %d: %d vertices, want %d", config, got, len(Pattern(config)))
		}
	}
}

func TestSquareConfiguration(t *testing.T) {
	for config := uint8(0); config < 16; config++ {
		sg := NewSquareGrid(NewLattice(squareGrid(config), 1))
		if sg.Width != 1 || sg.Height != 1 {
			t.Fatalf("square grid = %dx%d, want 1x1", sg.Width, sg.Height)
		}
		if got := sg.At(0, 0).Configuration; got != config {
			t.Errorf("configuration = %d, want %d", got, config)
		}
	}
}

func TestPatternSizes(t *testing.T) {
	sizes := map[int][]uint8{
		0: {0},
		3: {1, 2, 4, 8},
		4: {3, 6, 9, 12, 15},
		5: {7, 11, 13, 14},
		6: {5, 10},
	}
	for n, configs := range sizes {
		for _, c := range configs {
			if got := len(Pattern(c)); got != n {
				t.Errorf("len(Pattern(%d)) = %d, want %d", c, got, n)
			}
		}
	}
}

func TestPatternOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Pattern(16) should panic")
		}
	}()
	Pattern(16)
}

func TestSharedEdgeNodeVertex(t *testing.T) {
	// Two squares side by side: the left one has config 3, the right one config 1.
	// Both use the edge node above control node (1,0).
	g := grid.New(3, 2)
	g.Set(0, 0, grid.Wall)
	g.Set(1, 0, grid.Wall)

	l := NewLattice(g, 1)
	sg := NewSquareGrid(l)
	left, rightSq := sg.At(0, 0), sg.At(1, 0)

	if left.Configuration != 3 || rightSq.Configuration != 1 {
		t.Fatalf("configurations = %d,%d, want 3,1", left.Configuration, rightSq.Configuration)
	}
	if left.Point(CenterRight) != rightSq.Point(CenterLeft) {
		t.Fatal("shared edge node is not the same slot")
	}
	if left.Point(BottomRight) != rightSq.Point(BottomLeft) {
		t.Fatal("shared control node is not the same slot")
	}

	b := NewBuilder()
	Triangulate(l, sg, b)
	m := b.Mesh()

	shared := l.Node(left.Point(CenterRight)).Vertex
	if shared == Unassigned {
		t.Fatal("shared node never received a vertex")
	}
	if got := l.Node(rightSq.Point(CenterLeft)).Vertex; got != shared {
		t.Errorf("right square sees vertex %d, want %d", got, shared)
	}
	// 4 from the left square, only the bottom edge midpoint is new on the right.
	if len(m.Vertices) != 5 {
		t.Errorf("vertices = %d, want 5", len(m.Vertices))
	}
	if m.TriangleCount() != 3 {
		t.Errorf("triangles = %d, want 3", m.TriangleCount())
	}
}

func TestLatticePositionsCentered(t *testing.T) {
	l := NewLattice(grid.New(2, 2), 2)

	tests := []struct {
		id   NodeID
		want Vec3
	}{
		{l.Control(0, 0), Vec3{X: -1, Z: -1}},
		{l.Control(1, 1), Vec3{X: 1, Z: 1}},
		{l.Above(0, 0), Vec3{X: -1, Z: 0}},
		{l.Right(0, 0), Vec3{X: 0, Z: -1}},
	}
	for _, tt := range tests {
		n := l.Node(tt.id)
		if n.Pos != tt.want {
			t.Errorf("node %d pos = %+v, want %+v", tt.id, n.Pos, tt.want)
		}
		if n.Vertex != Unassigned {
			t.Errorf("node %d vertex = %d, want unassigned", tt.id, n.Vertex)
		}
	}
}

func TestLatticeActive(t *testing.T) {
	g := grid.New(3, 3)
	g.Set(2, 1, grid.Wall)
	l := NewLattice(g, 1)
	if !l.IsActive(2, 1) {
		t.Error("wall cell should be active")
	}
	if l.IsActive(1, 2) {
		t.Error("open cell should be inactive")
	}
}

func TestBuilderAssignVerticesOnce(t *testing.T) {
	l := NewLattice(grid.New(2, 2), 1)
	b := NewBuilder()

	a, c := l.Control(0, 0), l.Right(0, 0)
	b.AssignVertices(l, a, c)
	b.AssignVertices(l, c, a, c)

	m := b.Mesh()
	if len(m.Vertices) != 2 {
		t.Fatalf("vertices = %d, want 2", len(m.Vertices))
	}
	if l.Node(a).Vertex != 0 || l.Node(c).Vertex != 1 {
		t.Errorf("vertex indices = %d,%d, want 0,1", l.Node(a).Vertex, l.Node(c).Vertex)
	}
	if m.Vertices[1] != l.Node(c).Pos {
		t.Errorf("vertex 1 = %+v, want %+v", m.Vertices[1], l.Node(c).Pos)
	}
}

func TestBuilderAdjacency(t *testing.T) {
	m, err := Generate(squareGrid(15), 1)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Fan of TL,TR,BR,BL: (0,1,2) and (0,2,3).
	if !reflect.DeepEqual(m.Triangles, []int32{0, 1, 2, 0, 2, 3}) {
		t.Fatalf("triangles = %v", m.Triangles)
	}
	tests := []struct {
		v    int32
		want []Triangle
	}{
		{0, []Triangle{{0, 1, 2}, {0, 2, 3}}},
		{1, []Triangle{{0, 1, 2}}},
		{2, []Triangle{{0, 1, 2}, {0, 2, 3}}},
		{3, []Triangle{{0, 2, 3}}},
		{4, nil},
	}
	for _, tt := range tests {
		if got := m.TrianglesAt(tt.v); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("TrianglesAt(%d) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	g := grid.New(4, 4)
	for _, size := range []float32{0, -1, float32(math.NaN()), float32(math.Inf(1))} {
		if _, err := Generate(g, size); !errors.Is(err, ErrInvalidSquareSize) {
			t.Errorf("Generate(size %v) err = %v, want ErrInvalidSquareSize", size, err)
		}
	}
	if _, err := Generate(grid.New(1, 5), 1); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("Generate(1x5) err = %v, want ErrEmptyGrid", err)
	}
	if _, err := Generate(nil, 1); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("Generate(nil) err = %v, want ErrEmptyGrid", err)
	}
}

func TestWindingConsistent(t *testing.T) {
	opts := grid.DefaultOptions(40, 30)
	opts.Seed = "winding"
	r, err := grid.Generate(opts)
	if err != nil {
		t.Fatalf("grid.Generate: %v", err)
	}
	m, err := Generate(r.Grid, 1)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for i := 0; i < len(m.Triangles); i += 3 {
		a, b, c := m.Vertices[m.Triangles[i]], m.Vertices[m.Triangles[i+1]], m.Vertices[m.Triangles[i+2]]
		cross := (b.X-a.X)*(c.Z-a.Z) - (b.Z-a.Z)*(c.X-a.X)
		if cross >= 0 {
			t.Fatalf("triangle %d (%v,%v,%v) not clockwise seen from above", i/3, a, b, c)
		}
	}
}

func TestGenerateDeterministicAndValid(t *testing.T) {
	opts := grid.DefaultOptions(64, 36)
	opts.Seed = "determinism"

	run := func() *Mesh {
		r, err := grid.Generate(opts)
		if err != nil {
			t.Fatalf("grid.Generate: %v", err)
		}
		m, err := Generate(r.Grid, 1.5)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		return m
	}

	m1, m2 := run(), run()
	if !reflect.DeepEqual(m1.Vertices, m2.Vertices) {
		t.Error("vertices differ between runs")
	}
	if !reflect.DeepEqual(m1.Triangles, m2.Triangles) {
		t.Error("triangles differ between runs")
	}
	if err := m1.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if m1.TriangleCount() == 0 {
		t.Error("expected a non-empty mesh")
	}
}

func TestGeneratorReuseResets(t *testing.T) {
	gen := NewGenerator()
	g := squareGrid(15)

	m1, err := gen.Generate(g, 1)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	m2, err := gen.Generate(g, 1)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(m2.Vertices) != len(m1.Vertices) || len(m2.Triangles) != len(m1.Triangles) {
		t.Errorf("second run = %d verts/%d idx, want %d/%d", len(m2.Vertices), len(m2.Triangles), len(m1.Vertices), len(m1.Triangles))
	}
	if len(m2.Adjacency) != 4 {
		t.Errorf("adjacency keys = %d, want 4", len(m2.Adjacency))
	}
}

func TestSingleOpenCellScenario(t *testing.T) {
	// One open interior cell inside a 5-wide wall border.
	g := grid.Bordered(grid.New(1, 1), grid.DefaultBorderSize)

	m, err := Generate(g, 1)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if m.TriangleCount() == 0 {
		t.Fatal("mesh is empty")
	}

	sg := NewSquareGrid(NewLattice(g, 1))
	want := 0
	for i := range sg.Squares {
		want += TriangleCount(sg.Squares[i].Configuration)
	}
	if m.TriangleCount() != want {
		t.Errorf("triangles = %d, want %d from per-square configurations", m.TriangleCount(), want)
	}
	// 100 squares, 4 of them touch the open cell and emit 3 triangles.
	if want != 96*2+4*3 {
		t.Errorf("per-square total = %d, want %d", want, 96*2+4*3)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRejectsBadIndices(t *testing.T) {
	m := &Mesh{Vertices: make([]Vec3, 3), Triangles: []int32{0, 1, 3}}
	if err := m.Validate(); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Validate err = %v, want ErrIndexOutOfRange", err)
	}
	m.Triangles = []int32{0, 1}
	if err := m.Validate(); !errors.Is(err, ErrTriangleArity) {
		t.Errorf("Validate err = %v, want ErrTriangleArity", err)
	}
}
