package config

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/OCharnyshevich/cavegen/pkg/cave/grid"
	"github.com/OCharnyshevich/cavegen/pkg/cave/mesh"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
		want error
	}{
		{"width", func(c *Config) { c.Width = 0 }, grid.ErrInvalidDimension},
		{"height", func(c *Config) { c.Height = -1 }, grid.ErrInvalidDimension},
		{"fill", func(c *Config) { c.RandomFillPercent = 150 }, grid.ErrInvalidFillPercent},
		{"square_size", func(c *Config) { c.SquareSize = 0 }, mesh.ErrInvalidSquareSize},
		{"square_size_inf", func(c *Config) { c.SquareSize = float32(math.Inf(1)) }, mesh.ErrInvalidSquareSize},
		{"square_size_nan", func(c *Config) { c.SquareSize = float32(math.NaN()) }, mesh.ErrInvalidSquareSize},
		{"seed", func(c *Config) { c.Seed = strings.Repeat("s", grid.MaxSeedLength+1) }, grid.ErrSeedTooLong},
		{"fill_mode", func(c *Config) { c.FillMode = "worley" }, grid.ErrUnknownFillMode},
		{"border", func(c *Config) { c.BorderSize = -2 }, grid.ErrInvalidBorder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGridOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = "abc"
	cfg.FillMode = "perlin"
	cfg.UseRandomSeed = false

	opts, err := cfg.GridOptions()
	if err != nil {
		t.Fatalf("GridOptions: %v", err)
	}
	if opts.Seed != "abc" || opts.Fill != grid.FillPerlin || opts.UseRandomSeed {
		t.Errorf("GridOptions = %+v", opts)
	}
	if opts.Width != cfg.Width || opts.BorderSize != grid.DefaultBorderSize {
		t.Errorf("GridOptions dimensions = %+v", opts)
	}
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 120
	cfg.Seed = "from-flag"

	fromFile := DefaultConfig()
	fromFile.Width = 10
	fromFile.Height = 12
	fromFile.Seed = "from-file"
	fromFile.RandomFillPercent = 51

	Merge(cfg, fromFile, map[string]bool{"width": true, "seed": true})

	if cfg.Width != 120 {
		t.Errorf("Width = %d, want 120 (explicit flag)", cfg.Width)
	}
	if cfg.Seed != "from-flag" {
		t.Errorf("Seed = %q, want from-flag", cfg.Seed)
	}
	if cfg.Height != 12 {
		t.Errorf("Height = %d, want 12 (from file)", cfg.Height)
	}
	if cfg.RandomFillPercent != 51 {
		t.Errorf("RandomFillPercent = %d, want 51 (from file)", cfg.RandomFillPercent)
	}
}

func TestClone(t *testing.T) {
	cfg := DefaultConfig()
	cp := cfg.Clone()
	cp.Width = 1
	if cfg.Width == 1 {
		t.Error("Clone shares state with the original")
	}
}
