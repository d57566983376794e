package modcache

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/aweris/modcache/internal/archive"
)

const defaultMemoSize = 256

// Options configures a Cache.
type Options struct {
	CacheDir    string
	Config      Configuration
	Logger      *log.Logger
	Concurrency int
	MemoSize    int
}

// Option is a functional option for configuring Open.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Concurrency: archive.DefaultConcurrency,
		MemoSize:    defaultMemoSize,
	}
}

// WithCacheDir sets an explicit cache directory. It must already exist.
func WithCacheDir(dir string) Option {
	return func(o *Options) { o.CacheDir = dir }
}

// WithConfig attaches the configuration consulted for the default directory
// and updated after a relocation.
func WithConfig(cfg Configuration) Option {
	return func(o *Options) { o.Config = cfg }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithConcurrency sets the number of parallel workers for archive checks.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithMemoSize bounds the number of remembered checksums and validations.
func WithMemoSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MemoSize = n
		}
	}
}

// StoreOption configures a single Store call.
type StoreOption func(*storeOptions)

type storeOptions struct {
	description string
	move        bool
}

// WithDescription names the cached file; it defaults to the source file name.
func WithDescription(d string) StoreOption {
	return func(o *storeOptions) { o.description = d }
}

// WithMove consumes the source file instead of copying it.
func WithMove() StoreOption {
	return func(o *storeOptions) { o.move = true }
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "modcache")
	}
	return ".modcache"
}

func newDefaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "modcache",
		Level:  log.WarnLevel,
	})
}
