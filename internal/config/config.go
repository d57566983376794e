// Package config persists user settings for the mod cache.
//
// Settings live in a YAML file (default: $XDG_CONFIG_HOME/modcache/config.yaml)
// and may be overridden by MODCACHE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

const (
	// KeyCacheDir is the setting holding the download cache directory.
	KeyCacheDir = "cache_dir"

	envPrefix = "MODCACHE"
)

// Configuration is the settings contract consumed by the download cache.
type Configuration interface {
	// CachePath returns the configured cache directory, or "" when unset.
	CachePath() string

	// SetCachePath persists dir; an empty dir clears the setting.
	SetCachePath(dir string) error
}

// File is a Configuration backed by a YAML file.
type File struct {
	path string
	v    *viper.Viper
	mu   sync.Mutex
}

var _ Configuration = (*File)(nil)

// Load reads the config file at path. A missing file is not an error; it is
// created on the first write.
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return &File{path: path, v: v}, nil
}

// LoadDefault reads the config file from DefaultPath.
func LoadDefault() (*File, error) {
	return Load(DefaultPath())
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

func (f *File) CachePath() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.v.GetString(KeyCacheDir)
}

func (f *File) SetCachePath(dir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.v.Set(KeyCacheDir, dir)
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := f.v.WriteConfigAs(f.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Dir returns the per-user config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "modcache")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "modcache")
	}
	return ".modcache"
}

// Memory is an in-process Configuration, for callers that do not persist
// settings.
type Memory struct {
	mu  sync.Mutex
	dir string
}

var _ Configuration = (*Memory)(nil)

func (m *Memory) CachePath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dir
}

func (m *Memory) SetCachePath(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dir = dir
	return nil
}
