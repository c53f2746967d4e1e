package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	getter "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/cavegen/internal/config"
)

// ErrInvalidPresetName is returned when a preset name would escape the presets directory.
var ErrInvalidPresetName = errors.New("invalid preset name")

// Storage is the data directory: config.json plus presets/. Generated maps
// are never written.
type Storage struct {
	dir string
	log *slog.Logger
}

// New opens dir, creating it and presets/ if missing.
func New(dir string, log *slog.Logger) (*Storage, error) {
	dirs := []string{
		dir,
		filepath.Join(dir, "presets"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", d, err)
		}
	}
	return &Storage{dir: dir, log: log}, nil
}

// ConfigPath returns the path of the stored config.json.
func (s *Storage) ConfigPath() string {
	return filepath.Join(s.dir, "config.json")
}

// LoadConfig reads config.json into cfg. If the file does not exist, cfg is unchanged.
func (s *Storage) LoadConfig(cfg *config.Config) error {
	return s.LoadConfigFile(s.ConfigPath(), cfg)
}

// LoadConfigFile reads a JSON config from path into cfg. A missing file leaves cfg unchanged.
func (s *Storage) LoadConfigFile(path string, cfg *config.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	s.log.Info("loaded config from file", "path", path)
	return nil
}

// SaveConfig writes cfg to config.json atomically.
func (s *Storage) SaveConfig(cfg *config.Config) error {
	return s.atomicWriteJSON(s.ConfigPath(), cfg)
}

// FetchPreset downloads a preset config from src into presets/<name>.json and
// returns the local path. src is any go-getter source: a local path, an
// http(s) URL, a git:: or s3:: address. An empty name is derived from src.
func (s *Storage) FetchPreset(ctx context.Context, src, name string) (string, error) {
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPresetName, name)
	}

	dst := filepath.Join(s.dir, "presets", name+".json")
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("remove old preset: %w", err)
	}

	pwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		return "", fmt.Errorf("fetch preset %s: %w", src, err)
	}

	s.log.Info("fetched preset", "src", src, "path", dst)
	return dst, nil
}

// LoadPreset fetches src and reads it into cfg.
func (s *Storage) LoadPreset(ctx context.Context, src string, cfg *config.Config) error {
	path, err := s.FetchPreset(ctx, src, "")
	if err != nil {
		return err
	}
	return s.LoadConfigFile(path, cfg)
}

// atomicWriteJSON writes indented JSON to path.tmp and renames it over path.
func (s *Storage) atomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
