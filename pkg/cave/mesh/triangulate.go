package mesh

import "fmt"

// patterns lists, per configuration, the polygon outlining the wall part of a
// square. Point order fixes triangle winding.
var patterns = [16][]Corner{
	0: nil,

	// one corner
	1: {CenterLeft, CenterBottom, BottomLeft},
	2: {BottomRight, CenterBottom, CenterRight},
	4: {TopRight, CenterRight, CenterTop},
	8: {TopLeft, CenterTop, CenterLeft},

	// two corners
	3:  {CenterRight, BottomRight, BottomLeft, CenterLeft},
	6:  {CenterTop, TopRight, BottomRight, CenterBottom},
	9:  {TopLeft, CenterTop, CenterBottom, BottomLeft},
	12: {TopLeft, TopRight, CenterRight, CenterLeft},
	5:  {CenterTop, TopRight, CenterRight, CenterBottom, BottomLeft, CenterLeft},
	10: {TopLeft, CenterTop, CenterRight, BottomRight, CenterBottom, CenterLeft},

	// three corners
	7:  {CenterTop, TopRight, BottomRight, BottomLeft, CenterLeft},
	11: {TopLeft, CenterTop, CenterRight, BottomRight, BottomLeft},
	13: {TopLeft, TopRight, CenterRight, CenterBottom, BottomLeft},
	14: {TopLeft, TopRight, BottomRight, CenterBottom, CenterLeft},

	// all four
	15: {TopLeft, TopRight, BottomRight, BottomLeft},
}

// Pattern returns the ordered polygon points for a configuration.
// Configurations above 15 cannot be built from four corners and panic.
func Pattern(config uint8) []Corner {
	if int(config) >= len(patterns) {
		panic(fmt.Sprintf("mesh: square configuration %d out of range", config))
	}
	return patterns[config]
}

// TriangleCount is the number of triangles a configuration emits.
func TriangleCount(config uint8) int {
	return max(len(Pattern(config))-2, 0)
}

// Triangulate emits the triangles of every square into b, x-major then y.
func Triangulate(l *Lattice, sg *SquareGrid, b *Builder) {
	var ids [6]NodeID
	for x := 0; x < sg.Width; x++ {
		for y := 0; y < sg.Height; y++ {
			sq := sg.At(x, y)
			pts := ids[:0]
			for _, c := range Pattern(sq.Configuration) {
				pts = append(pts, sq.Point(c))
			}
			meshFromPoints(l, b, pts)
		}
	}
}

// meshFromPoints fan-triangulates an ordered polygon of 3 to 6 points.
func meshFromPoints(l *Lattice, b *Builder, pts []NodeID) {
	if len(pts) < 3 {
		return
	}
	b.AssignVertices(l, pts...)
	for i := 1; i < len(pts)-1; i++ {
		b.CreateTriangle(l.Node(pts[0]), l.Node(pts[i]), l.Node(pts[i+1]))
	}
}
