package modcache

import (
	"time"

	"github.com/aweris/modcache/internal/config"
)

// Configuration supplies and persists the default cache directory.
// Re-exported from internal/config for convenience.
type Configuration = config.Configuration

// LoadConfig reads a YAML configuration file; a missing file is created on
// the first write.
func LoadConfig(path string) (Configuration, error) {
	return config.Load(path)
}

// LoadDefaultConfig reads the per-user configuration file.
func LoadDefaultConfig() (Configuration, error) {
	return config.LoadDefault()
}

// Entry describes a cached file.
type Entry struct {
	Hash        string
	Description string
	Path        string
	Size        int64
	ModTime     time.Time
}
