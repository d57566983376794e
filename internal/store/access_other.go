//go:build !unix

package store

import (
	"fmt"
	"os"
)

// checkAccess probes dir by listing it and creating then deleting a file.
func checkAccess(dir string) error {
	if _, err := os.ReadDir(dir); err != nil {
		return fmt.Errorf("not readable: %w", err)
	}
	f, err := os.CreateTemp(dir, stagePattern)
	if err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
