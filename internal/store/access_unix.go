//go:build unix

package store

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// checkAccess requires read, write and traverse permission on dir.
func checkAccess(dir string) error {
	if err := unix.Access(dir, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("not accessible: %w", err)
	}
	return nil
}
