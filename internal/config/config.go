package config

import (
	"fmt"
	"math"

	"github.com/OCharnyshevich/cavegen/pkg/cave/grid"
	"github.com/OCharnyshevich/cavegen/pkg/cave/mesh"
)

// Config holds the cave generation settings plus the preview server address.
type Config struct {
	Width               int     `json:"width"`
	Height              int     `json:"height"`
	Seed                string  `json:"seed"`
	UseRandomSeed       bool    `json:"use_random_seed"`
	RandomFillPercent   int     `json:"random_fill_percent"`
	SquareSize          float32 `json:"square_size"`
	BorderSize          int     `json:"border_size"`
	SmoothingIterations int     `json:"smoothing_iterations"`
	FillMode            string  `json:"fill_mode"` // "random", "simplex" or "perlin"

	Addr string `json:"addr"` // preview server listen address
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Width:               80,
		Height:              45,
		UseRandomSeed:       true,
		RandomFillPercent:   45,
		SquareSize:          mesh.DefaultSquareSize,
		BorderSize:          grid.DefaultBorderSize,
		SmoothingIterations: grid.DefaultSmoothingIterations,
		FillMode:            "random",
		Addr:                ":8080",
	}
}

// Clone returns a copy of cfg.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// GridOptions converts the config into grid generation options.
func (c *Config) GridOptions() (grid.Options, error) {
	mode, err := grid.ParseFillMode(c.FillMode)
	if err != nil {
		return grid.Options{}, fmt.Errorf("fill_mode: %w", err)
	}
	return grid.Options{
		Width:               c.Width,
		Height:              c.Height,
		Seed:                c.Seed,
		UseRandomSeed:       c.UseRandomSeed,
		RandomFillPercent:   c.RandomFillPercent,
		BorderSize:          c.BorderSize,
		SmoothingIterations: c.SmoothingIterations,
		Fill:                mode,
	}, nil
}

// Validate reports the first configuration error, wrapped with the field name.
func (c *Config) Validate() error {
	opts, err := c.GridOptions()
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if !(c.SquareSize > 0) || math.IsInf(float64(c.SquareSize), 1) {
		return fmt.Errorf("square_size: %w: %v", mesh.ErrInvalidSquareSize, c.SquareSize)
	}
	return nil
}

// Merge copies fromFile into cfg field by field. A field whose flag name is
// in explicitFlags keeps the command-line value.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["width"] {
		cfg.Width = fromFile.Width
	}
	if !explicitFlags["height"] {
		cfg.Height = fromFile.Height
	}
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["random-seed"] {
		cfg.UseRandomSeed = fromFile.UseRandomSeed
	}
	if !explicitFlags["fill"] {
		cfg.RandomFillPercent = fromFile.RandomFillPercent
	}
	if !explicitFlags["square-size"] {
		cfg.SquareSize = fromFile.SquareSize
	}
	if !explicitFlags["border"] {
		cfg.BorderSize = fromFile.BorderSize
	}
	if !explicitFlags["smooth"] {
		cfg.SmoothingIterations = fromFile.SmoothingIterations
	}
	if !explicitFlags["fill-mode"] {
		cfg.FillMode = fromFile.FillMode
	}
	if !explicitFlags["addr"] {
		cfg.Addr = fromFile.Addr
	}
}
