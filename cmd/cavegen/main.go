package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/OCharnyshevich/cavegen/internal/config"
	"github.com/OCharnyshevich/cavegen/internal/generator"
	"github.com/OCharnyshevich/cavegen/internal/preview"
	"github.com/OCharnyshevich/cavegen/internal/storage"
)

func main() {
	cfg := config.DefaultConfig()

	var squareSize float64 = float64(cfg.SquareSize)
	flag.IntVar(&cfg.Width, "width", cfg.Width, "map width in cells")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "map height in cells")
	flag.StringVar(&cfg.Seed, "seed", cfg.Seed, "seed string (implies -random-seed=false)")
	flag.BoolVar(&cfg.UseRandomSeed, "random-seed", cfg.UseRandomSeed, "derive the seed from the clock")
	flag.IntVar(&cfg.RandomFillPercent, "fill", cfg.RandomFillPercent, "initial wall percentage (0-100)")
	flag.Float64Var(&squareSize, "square-size", squareSize, "mesh units per grid cell")
	flag.IntVar(&cfg.BorderSize, "border", cfg.BorderSize, "wall border width in cells")
	flag.IntVar(&cfg.SmoothingIterations, "smooth", cfg.SmoothingIterations, "cellular automaton passes")
	flag.StringVar(&cfg.FillMode, "fill-mode", cfg.FillMode, "initial fill: random, simplex or perlin")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "preview server listen address")

	dataDir := flag.String("data", ".cavegen", "directory for config.json and fetched presets")
	configPath := flag.String("config", "", "config file to load (default <data>/config.json)")
	preset := flag.String("preset", "", "fetch a preset config (path, URL, git:: or s3:: source)")
	save := flag.Bool("save", false, "write the effective config to <data>/config.json")
	serve := flag.Bool("serve", false, "serve a browser preview instead of printing once")
	ascii := flag.Bool("ascii", true, "print the grid when not serving")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	cfg.SquareSize = float32(squareSize)
	if explicit["seed"] && !explicit["random-seed"] {
		cfg.UseRandomSeed = false
		explicit["random-seed"] = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := storage.New(*dataDir, log)
	if err != nil {
		log.Error("open storage", "error", err)
		os.Exit(1)
	}

	fromFile := cfg.Clone()
	if *configPath != "" {
		err = store.LoadConfigFile(*configPath, fromFile)
	} else {
		err = store.LoadConfig(fromFile)
	}
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}
	if *preset != "" {
		if err := store.LoadPreset(ctx, *preset, fromFile); err != nil {
			log.Error("load preset", "error", err)
			os.Exit(1)
		}
	}
	config.Merge(cfg, fromFile, explicit)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(2)
	}
	if *save {
		if err := store.SaveConfig(cfg); err != nil {
			log.Error("save config", "error", err)
			os.Exit(1)
		}
	}

	if *serve {
		srv := preview.New(cfg, log)
		if err := srv.Start(ctx); err != nil {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	res, err := generator.New(cfg, log).Generate(ctx)
	if err != nil {
		log.Error("generate", "error", err)
		os.Exit(1)
	}
	if *ascii {
		fmt.Print(res.Grid.Grid.String())
	}
	fmt.Printf("seed=%s vertices=%d triangles=%d elapsed=%s\n",
		res.Grid.Seed, len(res.Mesh.Vertices), res.Mesh.TriangleCount(), res.Elapsed)
}
