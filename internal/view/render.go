// Package view draws generated caves in a terminal.
package view

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/OCharnyshevich/cavegen/internal/generator"
	"github.com/OCharnyshevich/cavegen/pkg/cave/mesh"
)

var (
	styleBackground = tcell.StyleDefault.Background(tcell.NewRGBColor(20, 20, 24))
	styleWall       = tcell.StyleDefault.Foreground(tcell.NewRGBColor(122, 106, 88)).Background(tcell.NewRGBColor(20, 20, 24))
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
)

const wallRune = '█'

// Rasterize marks every cell of a cols x rows raster whose center lies inside
// a mesh triangle. The mesh is seen from above and stretched to fill the
// raster; row 0 is the highest Z.
func Rasterize(m *mesh.Mesh, cols, rows int) []bool {
	out := make([]bool, cols*rows)
	if cols <= 0 || rows <= 0 || len(m.Vertices) == 0 {
		return out
	}

	minX, maxX := float32(math.MaxFloat32), float32(-math.MaxFloat32)
	minZ, maxZ := float32(math.MaxFloat32), float32(-math.MaxFloat32)
	for _, v := range m.Vertices {
		minX, maxX = min(minX, v.X), max(maxX, v.X)
		minZ, maxZ = min(minZ, v.Z), max(maxZ, v.Z)
	}
	unitX := float64(maxX-minX) / float64(cols)
	unitZ := float64(maxZ-minZ) / float64(rows)
	if unitX == 0 {
		unitX = 1
	}
	if unitZ == 0 {
		unitZ = 1
	}

	toScreen := func(v mesh.Vec3) (float64, float64) {
		return float64(v.X-minX) / unitX, float64(maxZ-v.Z) / unitZ
	}

	for i := 0; i+2 < len(m.Triangles); i += 3 {
		ax, ay := toScreen(m.Vertices[m.Triangles[i]])
		bx, by := toScreen(m.Vertices[m.Triangles[i+1]])
		cx, cy := toScreen(m.Vertices[m.Triangles[i+2]])

		c0 := max(int(math.Floor(min(ax, bx, cx))), 0)
		c1 := min(int(math.Ceil(max(ax, bx, cx))), cols-1)
		r0 := max(int(math.Floor(min(ay, by, cy))), 0)
		r1 := min(int(math.Ceil(max(ay, by, cy))), rows-1)

		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				px, py := float64(c)+0.5, float64(r)+0.5
				if inTriangle(px, py, ax, ay, bx, by, cx, cy) {
					out[r*cols+c] = true
				}
			}
		}
	}
	return out
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// inTriangle accepts either winding and includes the edges.
func inTriangle(px, py, ax, ay, bx, by, cx, cy float64) bool {
	const eps = 1e-9
	d1 := edge(ax, ay, bx, by, px, py)
	d2 := edge(bx, by, cx, cy, px, py)
	d3 := edge(cx, cy, ax, ay, px, py)
	neg := d1 < -eps || d2 < -eps || d3 < -eps
	pos := d1 > eps || d2 > eps || d3 > eps
	return !(neg && pos)
}

// Renderer draws a generated cave onto a tcell screen.
type Renderer struct{}

// Draw clears the screen, rasterizes the mesh above a one-line status bar and shows it.
func (Renderer) Draw(s tcell.Screen, res *generator.Result) {
	s.SetStyle(styleBackground)
	s.Clear()

	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	rows := h - 1

	if res != nil && rows > 0 {
		cells := Rasterize(res.Mesh, w, rows)
		for r := 0; r < rows; r++ {
			for c := 0; c < w; c++ {
				if cells[r*w+c] {
					s.SetContent(c, r, wallRune, nil, styleWall)
				}
			}
		}
	}

	drawStatus(s, w, h-1, status(res))
	s.Show()
}

func status(res *generator.Result) string {
	if res == nil {
		return " generating…"
	}
	return fmt.Sprintf(" seed %s | %d vertices | %d triangles | %s | click/r: regenerate  q: quit",
		res.Grid.Seed, len(res.Mesh.Vertices), res.Mesh.TriangleCount(), res.Elapsed.Round(time.Microsecond))
}

func drawStatus(s tcell.Screen, w, y int, text string) {
	runes := []rune(text)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		s.SetContent(x, y, r, nil, styleStatus)
	}
}
