package generator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/OCharnyshevich/cavegen/internal/config"
	"github.com/OCharnyshevich/cavegen/pkg/cave/grid"
	"github.com/OCharnyshevich/cavegen/pkg/cave/mesh"
)

// Result is one generated cave.
type Result struct {
	Grid    *grid.Result
	Mesh    *mesh.Mesh
	Elapsed time.Duration
}

// Generator runs the grid and mesh stages for a config. Calls are serialized:
// at most one generation is in flight at a time.
type Generator struct {
	log *slog.Logger

	mu   sync.Mutex
	cfg  *config.Config
	mesh *mesh.Generator
}

// New creates a Generator with a private copy of cfg.
func New(cfg *config.Config, log *slog.Logger) *Generator {
	return &Generator{
		log:  log,
		cfg:  cfg.Clone(),
		mesh: mesh.NewGenerator(),
	}
}

// Config returns a snapshot of the current config.
func (g *Generator) Config() *config.Config {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cfg.Clone()
}

// Generate produces a new cave from scratch with the configured seed. ctx is
// only checked before work starts; a running generation always completes.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	return g.run(ctx, nil)
}

// GenerateSeed is Generate with seed overriding the configured one for this
// call only. An empty seed picks a random one.
func (g *Generator) GenerateSeed(ctx context.Context, seed string) (*Result, error) {
	return g.run(ctx, &seed)
}

func (g *Generator) run(ctx context.Context, seed *string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	cfg := g.cfg
	if seed != nil {
		cfg = g.cfg.Clone()
		cfg.Seed = *seed
		cfg.UseRandomSeed = *seed == ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	opts, err := cfg.GridOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	start := time.Now()
	gr, err := grid.Generate(opts)
	if err != nil {
		return nil, fmt.Errorf("generate grid: %w", err)
	}
	m, err := g.mesh.Generate(gr.Grid, cfg.SquareSize)
	if err != nil {
		return nil, fmt.Errorf("generate mesh: %w", err)
	}
	elapsed := time.Since(start)

	g.log.Info("generated cave",
		"seed", gr.Seed,
		"width", opts.Width,
		"height", opts.Height,
		"fill", opts.Fill.String(),
		"walls", gr.Grid.Count(grid.Wall),
		"vertices", len(m.Vertices),
		"triangles", m.TriangleCount(),
		"elapsed", elapsed,
	)

	return &Result{Grid: gr, Mesh: m, Elapsed: elapsed}, nil
}
