package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/conc/pool"
)

const stagePattern = ".stage-*"

// ErrSourceRemains reports a relocation that completed but could not delete
// the old directory. The store already points at the new location.
var ErrSourceRemains = errors.New("old cache directory could not be removed")

// DefaultConcurrency bounds parallel entry copies during relocation.
const DefaultConcurrency = 4

var _ Store = (*LocalStore)(nil)

// LocalStore implements Store using a single flat directory.
type LocalStore struct {
	basePath    string
	concurrency int
}

// NewLocalStore opens an existing directory. It does not create it.
func NewLocalStore(basePath string, concurrency int) (*LocalStore, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", basePath)
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &LocalStore{basePath: basePath, concurrency: concurrency}, nil
}

func (s *LocalStore) Path() string { return s.basePath }

// Find scans the directory for the first entry starting with prefix.
func (s *LocalStore) Find(prefix string) (Entry, bool, error) {
	entries, err := s.List()
	if err != nil {
		return Entry{}, false, err
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name, prefix) {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

// Put stages src in the cache directory, drops every prior entry for prefix
// and renames the staged file into place. The staged file is removed on every
// failure path.
func (s *LocalStore) Put(prefix, name, src string, move bool) (string, error) {
	target := filepath.Join(s.basePath, name)
	if filepath.Dir(target) != filepath.Clean(s.basePath) {
		return "", fmt.Errorf("invalid entry name %q", name)
	}

	staged, copied, err := stage(s.basePath, src, move)
	if err != nil {
		return "", err
	}
	defer func() {
		if staged == "" {
			return
		}
		// A renamed source goes back where the caller left it.
		if move && !copied && os.Rename(staged, src) == nil {
			return
		}
		_ = os.Remove(staged)
	}()

	if _, err := s.Remove(prefix); err != nil {
		return "", fmt.Errorf("remove previous entry: %w", err)
	}

	if err := os.Rename(staged, target); err != nil {
		return "", fmt.Errorf("commit entry: %w", err)
	}
	staged = ""

	if move && copied {
		if err := os.Remove(src); err != nil && !os.IsNotExist(err) {
			return target, fmt.Errorf("remove source: %w", err)
		}
	}
	return target, nil
}

// Remove deletes every entry starting with prefix.
func (s *LocalStore) Remove(prefix string) (int, error) {
	entries, err := s.List()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if !strings.HasPrefix(e.Name, prefix) {
			continue
		}
		if err := os.Remove(e.Path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("remove %s: %w", e.Name, err)
		}
		removed++
	}
	return removed, nil
}

// List returns regular, non-staged files in the directory.
func (s *LocalStore) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("read cache directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || strings.HasPrefix(de.Name(), ".") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		entries = append(entries, Entry{
			Name:    de.Name(),
			Path:    filepath.Join(s.basePath, de.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return entries, nil
}

// Relocate moves the whole directory to newPath. A missing destination is
// created by renaming the directory itself; an existing one receives each
// entry individually and is rolled back if any entry fails. Directories
// created here are removed again when the move fails.
func (s *LocalStore) Relocate(newPath string) (err error) {
	oldPath, err := filepath.Abs(s.basePath)
	if err != nil {
		return err
	}
	newPath, err = filepath.Abs(newPath)
	if err != nil {
		return err
	}
	if oldPath == newPath {
		return nil
	}
	if rel, err := filepath.Rel(oldPath, newPath); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("destination %s is inside the cache directory", newPath)
	}

	info, err := os.Stat(newPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		created := firstMissing(newPath)
		defer func() {
			if err != nil && !errors.Is(err, ErrSourceRemains) {
				_ = os.RemoveAll(created)
			}
		}()
		if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
			return fmt.Errorf("create parent directory: %w", err)
		}
		if err := os.Rename(oldPath, newPath); err == nil {
			s.basePath = newPath
			return nil
		}
		if err := os.Mkdir(newPath, 0o755); err != nil {
			return fmt.Errorf("create destination: %w", err)
		}
	case err != nil:
		return fmt.Errorf("stat destination: %w", err)
	case !info.IsDir():
		return fmt.Errorf("destination %s is not a directory", newPath)
	}

	if err := checkAccess(newPath); err != nil {
		return fmt.Errorf("destination %s: %w", newPath, err)
	}

	if err := s.copyAll(newPath); err != nil {
		return err
	}
	s.basePath = newPath
	if err := os.RemoveAll(oldPath); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSourceRemains, oldPath, err)
	}
	return nil
}

// copyAll copies every entry into newPath. Once all copies are committed,
// destination files sharing a key with a copied entry are dropped so each key
// still names a single file.
func (s *LocalStore) copyAll(newPath string) error {
	entries, err := s.List()
	if err != nil {
		return err
	}

	results := make([]string, len(entries))
	rollback := func() {
		for _, target := range results {
			if target != "" {
				_ = os.Remove(target)
			}
		}
	}

	p := pool.New().WithMaxGoroutines(s.concurrency).WithContext(context.Background()).WithCancelOnError()
	for i, e := range entries {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			staged, _, err := stage(newPath, e.Path, false)
			if err != nil {
				return err
			}
			target := filepath.Join(newPath, e.Name)
			if err := os.Rename(staged, target); err != nil {
				_ = os.Remove(staged)
				return fmt.Errorf("commit %s: %w", e.Name, err)
			}
			results[i] = target
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		rollback()
		return fmt.Errorf("copy entries: %w", err)
	}

	copied := make(map[string]string, len(entries))
	for _, e := range entries {
		copied[entryKey(e.Name)] = e.Name
	}
	dest := &LocalStore{basePath: newPath, concurrency: s.concurrency}
	existing, err := dest.List()
	if err != nil {
		rollback()
		return err
	}
	for _, e := range existing {
		name, ok := copied[entryKey(e.Name)]
		if !ok || name == e.Name {
			continue
		}
		if err := os.Remove(e.Path); err != nil && !os.IsNotExist(err) {
			rollback()
			return fmt.Errorf("remove superseded %s: %w", e.Name, err)
		}
	}
	return nil
}

// entryKey returns the part of an entry name before the first '-'.
func entryKey(name string) string {
	key, _, _ := strings.Cut(name, "-")
	return key
}

// firstMissing returns the outermost ancestor of path, path included, that
// does not exist yet.
func firstMissing(path string) string {
	for {
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		if _, err := os.Lstat(parent); err == nil {
			return path
		}
		path = parent
	}
}

// stage places src under a temporary name in dir. With move set it tries a
// rename first; copied reports whether the bytes were copied instead.
func stage(dir, src string, move bool) (staged string, copied bool, err error) {
	f, err := os.CreateTemp(dir, stagePattern)
	if err != nil {
		return "", false, fmt.Errorf("create staging file: %w", err)
	}
	staged = f.Name()

	if move {
		_ = f.Close()
		if err := os.Rename(src, staged); err == nil {
			return staged, false, nil
		}
		f, err = os.OpenFile(staged, os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			_ = os.Remove(staged)
			return "", false, fmt.Errorf("reopen staging file: %w", err)
		}
	}

	if err := copyInto(f, src); err != nil {
		_ = f.Close()
		_ = os.Remove(staged)
		return "", false, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(staged)
		return "", false, fmt.Errorf("close staging file: %w", err)
	}
	if err := os.Chmod(staged, 0o644); err != nil {
		_ = os.Remove(staged)
		return "", false, fmt.Errorf("chmod staging file: %w", err)
	}
	return staged, true, nil
}

func copyInto(dst *os.File, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	if _, err := io.Copy(dst, in); err != nil {
		return fmt.Errorf("copy source: %w", err)
	}
	if err := dst.Sync(); err != nil {
		return fmt.Errorf("sync staging file: %w", err)
	}
	return nil
}
