package grid

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	DefaultBorderSize          = 5
	DefaultSmoothingIterations = 5

	// MaxSeedLength bounds seed strings in bytes.
	MaxSeedLength = 1024
)

var (
	// ErrInvalidDimension is returned when width or height is not positive.
	ErrInvalidDimension = errors.New("invalid grid dimension")
	// ErrInvalidFillPercent is returned when the fill percent is outside [0,100].
	ErrInvalidFillPercent = errors.New("invalid fill percent")
	ErrInvalidBorder      = errors.New("invalid border size")
	ErrInvalidIterations  = errors.New("invalid smoothing iterations")
	ErrUnknownFillMode    = errors.New("unknown fill mode")
	ErrSeedTooLong        = errors.New("seed too long")
)

// Options configures one grid generation run.
type Options struct {
	Width, Height       int
	Seed                string
	UseRandomSeed       bool
	RandomFillPercent   int
	BorderSize          int
	SmoothingIterations int
	Fill                FillMode
}

// DefaultOptions returns Options with the standard border and smoothing settings.
func DefaultOptions(width, height int) Options {
	return Options{
		Width:               width,
		Height:              height,
		RandomFillPercent:   45,
		BorderSize:          DefaultBorderSize,
		SmoothingIterations: DefaultSmoothingIterations,
	}
}

// Validate checks opts without generating anything.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, o.Width, o.Height)
	}
	if o.RandomFillPercent < 0 || o.RandomFillPercent > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidFillPercent, o.RandomFillPercent)
	}
	if o.BorderSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBorder, o.BorderSize)
	}
	if o.SmoothingIterations < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIterations, o.SmoothingIterations)
	}
	if len(o.Seed) > MaxSeedLength {
		return fmt.Errorf("%w: %d bytes, max %d", ErrSeedTooLong, len(o.Seed), MaxSeedLength)
	}
	return nil
}

// Result is the output of Generate.
type Result struct {
	// Grid is the smoothed map wrapped in its wall border.
	Grid       *Grid
	Seed       string
	BorderSize int
}

// Interior returns the cell at interior coordinates (x, y), i.e. ignoring the border.
func (r *Result) Interior(x, y int) Cell {
	return r.Grid.At(x+r.BorderSize, y+r.BorderSize)
}

// SeedFromString hashes a seed string into a PRNG seed.
func SeedFromString(s string) int64 {
	return int64(xxhash.Sum64String(s))
}

// Generate fills, smooths and borders a new grid. The same Options with a fixed
// seed always produce the same grid.
func Generate(opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if opts.UseRandomSeed {
		seed = strconv.FormatInt(time.Now().UnixNano(), 10)
	}

	f, err := newFiller(opts.Fill, SeedFromString(seed))
	if err != nil {
		return nil, err
	}

	g := New(opts.Width, opts.Height)
	f.fill(g, opts.RandomFillPercent)
	g = SmoothN(g, opts.SmoothingIterations)

	return &Result{
		Grid:       Bordered(g, opts.BorderSize),
		Seed:       seed,
		BorderSize: opts.BorderSize,
	}, nil
}
