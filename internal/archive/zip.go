// Package archive validates downloaded zip archives.
//
// Validation is a full integrity pass: the central directory must parse and
// every entry must decompress to its declared size with a matching CRC-32.
package archive

import (
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
	"github.com/sourcegraph/conc/pool"
)

const DefaultConcurrency = 4

// Validate opens the zip at path and verifies every entry, using up to
// concurrency goroutines. It returns nil only for a fully intact archive.
func Validate(ctx context.Context, path string, concurrency int) error {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer rc.Close()

	registerMethods(&rc.Reader)

	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	p := pool.New().WithMaxGoroutines(concurrency).WithContext(ctx).WithCancelOnError()
	for _, f := range rc.File {
		p.Go(func(ctx context.Context) error {
			return verifyEntry(ctx, f)
		})
	}
	return p.Wait()
}

func verifyEntry(ctx context.Context, f *zip.File) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer r.Close()

	// The reader checks size and CRC-32 once it reaches EOF.
	if _, err := io.Copy(io.Discard, r); err != nil {
		return fmt.Errorf("read entry %s: %w", f.Name, err)
	}
	return nil
}
