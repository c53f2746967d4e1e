package view

import (
	"context"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/OCharnyshevich/cavegen/internal/generator"
)

// App is the interactive terminal viewer: left click or 'r' regenerates,
// 'q' or Esc quits.
type App struct {
	screen   tcell.Screen
	gen      *generator.Generator
	log      *slog.Logger
	renderer Renderer
	chime    *Chime

	current *generator.Result
}

// NewApp wires a viewer to an initialized screen.
func NewApp(screen tcell.Screen, gen *generator.Generator, log *slog.Logger) *App {
	return &App{screen: screen, gen: gen, log: log}
}

// SetChime enables the regenerate tone. nil disables it.
func (a *App) SetChime(c *Chime) {
	a.chime = c
}

// Current returns the cave on screen.
func (a *App) Current() *generator.Result {
	return a.current
}

// Regenerate builds a new cave and redraws.
func (a *App) Regenerate(ctx context.Context) error {
	res, err := a.gen.Generate(ctx)
	if err != nil {
		return err
	}
	a.current = res
	a.renderer.Draw(a.screen, res)
	a.chime.Play()
	return nil
}

// HandleEvent processes one screen event and reports whether the app should quit.
func (a *App) HandleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return true
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return true
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'r':
			a.regenerate(ctx)
		}
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			a.regenerate(ctx)
		}
	case *tcell.EventResize:
		a.screen.Sync()
		a.renderer.Draw(a.screen, a.current)
	case *tcell.EventInterrupt:
		return ctx.Err() != nil
	}
	return false
}

func (a *App) regenerate(ctx context.Context) {
	if err := a.Regenerate(ctx); err != nil {
		a.log.Error("regenerate", "error", err)
	}
}

// Run draws the first cave and processes events until quit or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.screen.EnableMouse()
	if err := a.Regenerate(ctx); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		a.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if a.HandleEvent(ctx, ev) {
			return nil
		}
	}
}
