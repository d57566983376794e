// Package modcache provides the local download cache of a mod package manager.
//
// Archives are addressed by the URL they were downloaded from: the first eight
// upper-case hex digits of the SHA-1 of the URL prefix every cached file name.
// The cache directory is flat and the directory listing is the index.
//
// Basic usage:
//
//	cache, _ := modcache.Open()
//
//	// Hand over a finished download
//	path, _ := cache.Store(url, tmpFile, modcache.WithDescription("Mod-1.2.zip"), modcache.WithMove())
//
//	// Look up before installing
//	if zip, ok := cache.GetCachedZip(url); ok {
//	    // zip passed a full CRC check
//	}
//
//	// Maintenance
//	bytes, count, _ := cache.Size()
//	removed, _ := cache.EnforceSizeLimit(2 << 30)
//	ok := cache.MoveDefaultCache("/mnt/big/modcache")
//
// Version ordering, relationship checks and metadata format gating live in
// the version, relationship and compat packages.
package modcache
