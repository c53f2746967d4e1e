package grid

// SurroundingWallCount counts wall cells in the 3x3 block around (x, y),
// excluding the cell itself. Positions outside the grid count as walls.
func SurroundingWallCount(g *Grid, x, y int) int {
	count := 0
	for nx := x - 1; nx <= x+1; nx++ {
		for ny := y - 1; ny <= y+1; ny++ {
			if nx == x && ny == y {
				continue
			}
			if !g.InBounds(nx, ny) || g.At(nx, ny) == Wall {
				count++
			}
		}
	}
	return count
}

// Smooth runs one cellular-automaton pass and returns the new grid.
// Neighbor counts are taken from g only, so the result does not depend on visit order.
func Smooth(g *Grid) *Grid {
	next := g.Clone()
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			switch n := SurroundingWallCount(g, x, y); {
			case n > 4:
				next.Set(x, y, Wall)
			case n < 4:
				next.Set(x, y, Open)
			}
		}
	}
	return next
}

// SmoothN applies Smooth iterations times.
func SmoothN(g *Grid, iterations int) *Grid {
	for range iterations {
		g = Smooth(g)
	}
	return g
}
