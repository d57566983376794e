// Package compat gates module metadata by the metadata format version it
// declares.
package compat

import (
	"errors"
	"fmt"

	"github.com/aweris/modcache/version"
)

const (
	// MaxSpecVersion is the newest metadata format this engine understands.
	MaxSpecVersion = "v1.34"

	// LegacySpecVersion is the pre-dotted format marker, always accepted.
	LegacySpecVersion = "1"
)

// ErrUnsupportedSpec indicates metadata written for a newer format.
var ErrUnsupportedSpec = errors.New("unsupported metadata spec version")

var maxSpec = version.Parse(MaxSpecVersion)

// UnsupportedSpecError reports a module whose metadata is from the future.
type UnsupportedSpecError struct {
	Identifier  string
	SpecVersion string
}

func (e *UnsupportedSpecError) Error() string {
	return fmt.Sprintf("module %s requires spec version %s, newest supported is %s",
		e.Identifier, e.SpecVersion, MaxSpecVersion)
}

func (e *UnsupportedSpecError) Unwrap() error {
	return ErrUnsupportedSpec
}

// IsSpecSupported reports whether raw names a metadata format this engine
// can read. Two- and three-component forms are both accepted since a prefix
// orders below its extensions.
func IsSpecSupported(raw string) bool {
	if raw == LegacySpecVersion {
		return true
	}
	return version.Parse(raw).AtMost(maxSpec)
}

// Check returns an *UnsupportedSpecError when specVersion is newer than
// MaxSpecVersion.
func Check(identifier, specVersion string) error {
	if IsSpecSupported(specVersion) {
		return nil
	}
	return &UnsupportedSpecError{Identifier: identifier, SpecVersion: specVersion}
}
