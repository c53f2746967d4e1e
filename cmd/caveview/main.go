package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/OCharnyshevich/cavegen/internal/config"
	"github.com/OCharnyshevich/cavegen/internal/generator"
	"github.com/OCharnyshevich/cavegen/internal/view"
)

func main() {
	cfg := config.DefaultConfig()

	var squareSize float64 = float64(cfg.SquareSize)
	flag.IntVar(&cfg.Width, "width", cfg.Width, "map width in cells")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "map height in cells")
	flag.StringVar(&cfg.Seed, "seed", cfg.Seed, "seed string (empty = random on every click)")
	flag.IntVar(&cfg.RandomFillPercent, "fill", cfg.RandomFillPercent, "initial wall percentage (0-100)")
	flag.Float64Var(&squareSize, "square-size", squareSize, "mesh units per grid cell")
	flag.IntVar(&cfg.SmoothingIterations, "smooth", cfg.SmoothingIterations, "cellular automaton passes")
	flag.StringVar(&cfg.FillMode, "fill-mode", cfg.FillMode, "initial fill: random, simplex or perlin")
	sound := flag.Bool("sound", false, "play a tone on regenerate")
	logPath := flag.String("log", "", "write logs to this file (the terminal is taken by the viewer)")
	flag.Parse()

	cfg.SquareSize = float32(squareSize)
	cfg.UseRandomSeed = cfg.Seed == ""

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			slog.Error("open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	log := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(2)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		slog.Error("create screen", "error", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		slog.Error("init screen", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := view.NewApp(screen, generator.New(cfg, log), log)
	if *sound {
		chime, err := view.NewChime()
		if err != nil {
			// Non-fatal, the viewer runs without sound.
			log.Warn("audio init failed", "error", err)
		}
		app.SetChime(chime)
	}

	err = app.Run(ctx)
	screen.Fini()
	if err != nil {
		slog.Error("viewer", "error", err)
		os.Exit(1)
	}
}
