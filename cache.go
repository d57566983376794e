package modcache

import (
	"context"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/aweris/modcache/internal/archive"
	"github.com/aweris/modcache/internal/store"
)

const (
	hashLen = 8

	memoZip    = "zip"
	memoSHA256 = "sha256"
)

var descriptionReplacer = strings.NewReplacer("/", "-", "\\", "-", ":", "-")

// Cache is the download cache. Lookups and writes are not serialised against
// each other; each write is atomic for readers. Callers storing the same URL
// from several goroutines must serialise those calls themselves.
type Cache struct {
	store       store.Store
	memo        store.Cache
	config      Configuration
	logger      *log.Logger
	concurrency int

	// mu only guards relocation against everything else.
	mu sync.RWMutex
}

// Open opens the cache directory. An explicit WithCacheDir directory must
// exist; otherwise the configured or platform default directory is created
// when missing.
func Open(opts ...Option) (*Cache, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	logger := options.Logger
	if logger == nil {
		logger = newDefaultLogger()
	}

	dir, err := resolveDir(options)
	if err != nil {
		return nil, err
	}

	s, err := store.NewLocalStore(dir, options.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("open cache dir: %w", err)
	}

	logger.Debug("opened cache", "dir", dir)
	return &Cache{
		store:       s,
		memo:        store.NewLRUCache(options.MemoSize),
		config:      options.Config,
		logger:      logger,
		concurrency: options.Concurrency,
	}, nil
}

func resolveDir(o *Options) (string, error) {
	if o.CacheDir != "" {
		dir := expandPath(o.CacheDir)
		info, err := os.Stat(dir)
		switch {
		case errors.Is(err, os.ErrNotExist):
			return "", &DirectoryNotFoundError{Path: o.CacheDir}
		case err != nil:
			return "", fmt.Errorf("stat cache dir: %w", err)
		case !info.IsDir():
			return "", &DirectoryNotFoundError{Path: o.CacheDir}
		}
		return dir, nil
	}

	var dir string
	if o.Config != nil {
		dir = strings.TrimSpace(o.Config.CachePath())
	}
	if dir == "" {
		dir = defaultCacheDir()
	}
	dir = expandPath(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	return dir, nil
}

// Dir returns the current cache directory.
func (c *Cache) Dir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Path()
}

// URLHash returns the eight-character key for a download URL.
func URLHash(url string) string {
	sum := sha1.Sum([]byte(url))
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:hashLen]
}

// SanitizeDescription replaces path separators and colons so a description
// cannot leave the cache directory or form a drive-qualified name.
func SanitizeDescription(d string) string {
	return descriptionReplacer.Replace(d)
}

// Store caches the file at src for url and returns the cached path. Any
// previous entry for url is replaced, whatever its description. When the
// entry is committed but a moved source cannot be deleted, both the path and
// the error are returned.
func (c *Cache) Store(url, src string, opts ...StoreOption) (string, error) {
	so := storeOptions{}
	for _, opt := range opts {
		opt(&so)
	}

	description := so.description
	if description == "" {
		description = filepath.Base(src)
	}

	hash := URLHash(url)
	name := hash + "-" + SanitizeDescription(description)

	c.mu.RLock()
	defer c.mu.RUnlock()

	path, err := c.store.Put(entryPrefix(hash), name, src, so.move)
	if err != nil {
		// A non-empty path means the entry was committed anyway.
		return path, fmt.Errorf("store %s: %w", url, err)
	}
	c.logger.Debug("stored", "url", url, "path", path, "move", so.move)
	return path, nil
}

// Remove deletes the cached file for url and reports whether one existed.
func (c *Cache) Remove(url string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, err := c.store.Remove(entryPrefix(URLHash(url)))
	if err != nil {
		return n > 0, fmt.Errorf("remove %s: %w", url, err)
	}
	if n > 0 {
		c.logger.Debug("removed", "url", url)
	}
	return n > 0, nil
}

// IsCached reports whether a file is cached for url.
func (c *Cache) IsCached(url string) bool {
	_, ok := c.GetCachedFilename(url)
	return ok
}

// GetCachedFilename returns the cached file for url.
func (c *Cache) GetCachedFilename(url string) (string, bool) {
	e, ok := c.find(url)
	if !ok {
		return "", false
	}
	return e.Path, true
}

// IsCachedZip reports whether a cached file exists for url and is an intact
// zip archive.
func (c *Cache) IsCachedZip(url string) bool {
	_, ok := c.GetCachedZip(url)
	return ok
}

// GetCachedZip returns the cached file for url if it passes a full archive
// integrity check. A corrupt archive is reported as not cached.
func (c *Cache) GetCachedZip(url string) (string, bool) {
	e, ok := c.find(url)
	if !ok {
		return "", false
	}

	key := store.MemoKey(memoZip, e)
	if c.memo.Has(key) {
		return e.Path, true
	}

	if err := archive.Validate(context.Background(), e.Path, c.concurrency); err != nil {
		c.logger.Warn("cached archive is invalid", "url", url, "path", e.Path, "err", err)
		return "", false
	}
	c.memo.Add(key, nil)
	return e.Path, true
}

// Checksum returns the hex SHA-256 of the cached file for url.
func (c *Cache) Checksum(url string) (string, error) {
	e, ok := c.find(url)
	if !ok {
		return "", ErrNotFound
	}

	key := store.MemoKey(memoSHA256, e)
	if sum, ok := c.memo.Get(key); ok {
		return string(sum), nil
	}

	f, err := os.Open(e.Path)
	if err != nil {
		return "", fmt.Errorf("open cached file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash cached file: %w", err)
	}
	sum := hex.EncodeToString(h.Sum(nil))
	c.memo.Add(key, []byte(sum))
	return sum, nil
}

// MoveDefaultCache relocates every cached file to newDir. It reports false,
// leaving the cache untouched, when newDir is blank, not accessible, or the
// move fails.
func (c *Cache) MoveDefaultCache(newDir string) bool {
	if strings.TrimSpace(newDir) == "" {
		c.logger.Warn("refusing to move cache to an empty path")
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	from := c.store.Path()
	if err := c.store.Relocate(expandPath(newDir)); err != nil {
		if !errors.Is(err, store.ErrSourceRemains) {
			c.logger.Warn("moving cache failed", "from", from, "to", newDir, "err", err)
			return false
		}
		c.logger.Warn("moved cache but the old directory remains", "from", from, "err", err)
	}
	c.memo.Clear()
	c.logger.Debug("moved cache", "from", from, "to", c.store.Path())

	if c.config != nil {
		if err := c.config.SetCachePath(c.store.Path()); err != nil {
			c.logger.Warn("saving new cache path failed", "dir", c.store.Path(), "err", err)
		}
	}
	return true
}

// Entries lists cached files. Files not named like cache entries are skipped.
func (c *Cache) Entries() ([]Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, err := c.store.List()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(raw))
	for _, e := range raw {
		hash, description, ok := parseName(e.Name)
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			Hash:        hash,
			Description: description,
			Path:        e.Path,
			Size:        e.Size,
			ModTime:     e.ModTime,
		})
	}
	return entries, nil
}

// Size returns the total bytes and number of cached files.
func (c *Cache) Size() (int64, int, error) {
	entries, err := c.Entries()
	if err != nil {
		return 0, 0, err
	}
	var total int64
	for _, e := range entries {
		total += e.Size
	}
	return total, len(entries), nil
}

// EnforceSizeLimit removes the least recently written files until the cache
// holds at most limit bytes. It returns the number of files removed.
func (c *Cache) EnforceSizeLimit(limit int64) (int, error) {
	entries, err := c.Entries()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, e := range entries {
		total += e.Size
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return a.ModTime.Compare(b.ModTime)
	})

	c.mu.RLock()
	defer c.mu.RUnlock()

	removed := 0
	for _, e := range entries {
		if total <= limit {
			break
		}
		n, err := c.store.Remove(entryPrefix(e.Hash))
		if err != nil {
			return removed, fmt.Errorf("evict %s: %w", e.Path, err)
		}
		if n > 0 {
			removed += n
			total -= e.Size
			c.logger.Debug("evicted", "path", e.Path, "size", e.Size)
		}
	}
	return removed, nil
}

// Clear removes every cached file. Files not named like cache entries are
// left alone.
func (c *Cache) Clear() error {
	entries, err := c.Entries()
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	removed := 0
	for _, e := range entries {
		n, err := c.store.Remove(entryPrefix(e.Hash))
		removed += n
		if err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
	}
	c.memo.Clear()
	c.logger.Debug("cleared cache", "removed", removed)
	return nil
}

func (c *Cache) find(url string) (store.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok, err := c.store.Find(entryPrefix(URLHash(url)))
	if err != nil {
		c.logger.Warn("cache lookup failed", "url", url, "err", err)
		return store.Entry{}, false
	}
	return e, ok
}

func entryPrefix(hash string) string {
	return hash + "-"
}

// parseName splits "<HASH>-<description>".
func parseName(name string) (hash, description string, ok bool) {
	if len(name) <= hashLen || name[hashLen] != '-' {
		return "", "", false
	}
	for i := range hashLen {
		ch := name[i]
		if (ch < '0' || ch > '9') && (ch < 'A' || ch > 'F') {
			return "", "", false
		}
	}
	return name[:hashLen], name[hashLen+1:], true
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
