package modcache

import "errors"

var (
	ErrNotFound          = errors.New("modcache: not found")
	ErrDirectoryNotFound = errors.New("modcache: cache directory not found")
)

// DirectoryNotFoundError is returned by Open when an explicitly requested
// cache directory does not exist.
type DirectoryNotFoundError struct {
	Path string
}

func (e *DirectoryNotFoundError) Error() string {
	return "modcache: cache directory not found: " + e.Path
}

func (e *DirectoryNotFoundError) Unwrap() error {
	return ErrDirectoryNotFound
}
