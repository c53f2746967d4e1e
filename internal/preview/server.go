// Package preview serves generated cave meshes to browsers over a websocket.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/coder/websocket"

	"github.com/OCharnyshevich/cavegen/internal/config"
	"github.com/OCharnyshevich/cavegen/internal/generator"
	"github.com/OCharnyshevich/cavegen/internal/wire"
)

// Server pushes every newly generated cave to all connected clients.
type Server struct {
	cfg *config.Config
	log *slog.Logger
	gen *generator.Generator
	hub *Hub

	mu     sync.Mutex
	latest [][]byte // frames of the most recent cave
}

// New creates a new Server with the given config and logger.
func New(cfg *config.Config, log *slog.Logger) *Server {
	return &Server{
		cfg: cfg,
		log: log,
		gen: generator.New(cfg, log),
		hub: NewHub(),
	}
}

// Handler returns the HTTP routes: the page at /, its assets under /static/
// and the websocket at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", templ.Handler(page("cavegen preview", s.initialSeed())))
	mux.Handle("GET /static/", http.FileServerFS(staticFS))
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

// Regenerate builds a new cave and broadcasts it. An empty seed picks a random one.
func (s *Server) Regenerate(ctx context.Context, seed string) error {
	res, err := s.gen.GenerateSeed(ctx, seed)
	if err != nil {
		return err
	}

	frames := [][]byte{
		wire.EncodeGrid(res.Grid.Grid),
		wire.EncodeMesh(res.Mesh, res.Grid.Seed),
	}
	s.mu.Lock()
	s.latest = frames
	s.mu.Unlock()

	s.hub.Broadcast(frames...)
	return nil
}

func (s *Server) latestFrames() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Error("accept websocket", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	if err := send(ctx, conn, s.latestFrames()); err != nil {
		s.log.Warn("send initial frames", "error", err)
		return
	}

	s.hub.Add(conn)
	defer s.hub.Remove(conn)
	s.log.Info("preview client connected", "remote", r.RemoteAddr, "clients", s.hub.Len())

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				s.log.Warn("read websocket", "error", err)
			}
			s.log.Info("preview client disconnected", "remote", r.RemoteAddr)
			return
		}

		seed, err := regenerateSeed(typ, data)
		if err != nil {
			s.log.Warn("bad client frame", "error", err)
			continue
		}
		if err := s.Regenerate(ctx, seed); err != nil {
			s.log.Error("regenerate", "error", err)
		}
	}
}

// regenerateSeed accepts either a binary KindRegenerate frame or the text "regenerate".
func regenerateSeed(typ websocket.MessageType, data []byte) (string, error) {
	if typ == websocket.MessageText {
		if string(data) != "regenerate" {
			return "", fmt.Errorf("unknown text command %q", data)
		}
		return "", nil
	}
	return wire.DecodeRegenerate(data)
}

// Start generates the first cave, then serves until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Regenerate(ctx, s.initialSeed()); err != nil {
		return fmt.Errorf("initial generation: %w", err)
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("preview server started",
		"addr", listener.Addr().String(),
		"width", s.cfg.Width,
		"height", s.cfg.Height,
		"fill", s.cfg.RandomFillPercent,
	)

	// Shut down when context is cancelled.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	s.log.Info("preview server shutting down")
	return nil
}

func (s *Server) initialSeed() string {
	if s.cfg.UseRandomSeed {
		return ""
	}
	return s.cfg.Seed
}
