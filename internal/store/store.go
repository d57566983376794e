// Package store implements the flat on-disk layout of the download cache.
//
// Layout:
//
//	basePath/
//	  ABCD1234-Mod-1.2.zip   (key, '-', description)
//	  .stage-123456          (in-flight write, never matched or listed)
//
// There is no index file: the directory listing is the index. Every write is
// staged under a dot-prefixed temporary name in the same directory and then
// renamed into place, so readers never observe a partially written entry.
package store

import "time"

// Store handles the local cache directory.
type Store interface {
	// Path returns the current directory.
	Path() string

	// Find returns the first entry whose name starts with prefix.
	Find(prefix string) (Entry, bool, error)

	// Put places src under name, replacing every entry that starts with
	// prefix. With move set, src is consumed.
	Put(prefix, name, src string, move bool) (path string, err error)

	// Remove deletes every entry that starts with prefix.
	Remove(prefix string) (removed int, err error)

	// List returns all entries.
	List() ([]Entry, error)

	// Relocate moves every entry to newPath and deletes the old directory.
	// Entries already in newPath that share a key with a moved entry are
	// replaced. ErrSourceRemains means the move succeeded but the old
	// directory is still there.
	Relocate(newPath string) error
}

// Entry is a file in the cache directory.
type Entry struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}
