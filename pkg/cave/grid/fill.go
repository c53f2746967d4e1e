package grid

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// FillMode selects how the initial noise is laid down before smoothing.
type FillMode int

const (
	FillRandom FillMode = iota
	FillSimplex
	FillPerlin
)

// noiseScale is the sample spacing per cell for the coherent noise fills.
const noiseScale = 0.12

func (m FillMode) String() string {
	switch m {
	case FillRandom:
		return "random"
	case FillSimplex:
		return "simplex"
	case FillPerlin:
		return "perlin"
	}
	return fmt.Sprintf("FillMode(%d)", int(m))
}

// ParseFillMode maps a fill mode name to its FillMode.
func ParseFillMode(s string) (FillMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "random":
		return FillRandom, nil
	case "simplex", "opensimplex":
		return FillSimplex, nil
	case "perlin":
		return FillPerlin, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFillMode, s)
}

// filler writes the initial wall/open pattern into g.
type filler interface {
	fill(g *Grid, percent int)
}

func newFiller(mode FillMode, seed int64) (filler, error) {
	switch mode {
	case FillRandom:
		return randomFiller{rng: rand.New(rand.NewSource(seed))}, nil
	case FillSimplex:
		return noiseFiller{sample: opensimplex.NewNormalized(seed).Eval2}, nil
	case FillPerlin:
		p := perlin.NewPerlin(2, 2, 3, seed)
		return noiseFiller{sample: func(x, y float64) float64 {
			return (p.Noise2D(x, y) + 1) / 2
		}}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFillMode, mode)
}

// randomFiller draws a uniform value in [0,100) per cell, column by column.
type randomFiller struct {
	rng *rand.Rand
}

func (f randomFiller) fill(g *Grid, percent int) {
	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			if f.rng.Intn(100) <= percent {
				g.Set(x, y, Wall)
			} else {
				g.Set(x, y, Open)
			}
		}
	}
}

// noiseFiller thresholds a coherent noise field normalized to [0,1].
type noiseFiller struct {
	sample func(x, y float64) float64
}

func (f noiseFiller) fill(g *Grid, percent int) {
	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			v := f.sample(float64(x)*noiseScale, float64(y)*noiseScale) * 100
			if v <= float64(percent) {
				g.Set(x, y, Wall)
			} else {
				g.Set(x, y, Open)
			}
		}
	}
}
