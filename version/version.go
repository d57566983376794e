// Package version implements mod version parsing and total ordering.
//
// Version format: [v|V][EPOCH:]FRAGMENT(.FRAGMENT)*
//   - EPOCH: optional non-negative integer tier, default 0
//   - FRAGMENT: alphanumeric token; the leading v/V stays on the first fragment
//
// Strings that do not match the grammar still produce a Version. They are
// marked invalid, sort below every valid version and compare ordinally among
// themselves by their raw text.
package version

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var versionPattern = regexp.MustCompile(
	`^(?P<prefix>[vV]?)(?:(?P<epoch>[0-9]+):)?(?P<body>[a-zA-Z0-9]+(?:\.[a-zA-Z0-9]+)*)$`,
)

// AutodetectedLabel is displayed for versions inferred from an installed binary.
const AutodetectedLabel = "autodetected dll"

type kind uint8

const (
	kindDeclared kind = iota
	kindAutodetected
	kindProvided
)

// zero is the ordering identity of the sentinel variants.
var zero = Parse("0")

// Version is an immutable parsed version. The zero value is an invalid,
// empty version.
type Version struct {
	raw       string
	valid     bool
	epoch     string // digits with leading zeros trimmed, "0" when absent
	fragments []string

	kind     kind
	provider string
}

// Parse parses s. It never fails: strings outside the grammar yield a
// Version with Valid() == false.
func Parse(s string) Version {
	match := versionPattern.FindStringSubmatch(s)
	if match == nil {
		return Version{raw: s}
	}

	epoch := "0"
	if match[2] != "" {
		epoch = trimZeros(match[2])
	}

	return Version{
		raw:       s,
		valid:     true,
		epoch:     epoch,
		fragments: strings.Split(match[1]+match[3], "."),
	}
}

// Autodetected returns the sentinel for a mod found on disk without metadata.
// It orders as "0".
func Autodetected() Version {
	return Version{kind: kindAutodetected}
}

// ProvidedBy returns the sentinel for a capability satisfied by the named
// module. It orders as "0" and displays the provider's name.
func ProvidedBy(name string) Version {
	return Version{kind: kindProvided, provider: name}
}

// String returns the original input for declared versions, the fixed label
// for autodetected ones and the provider name for provided ones.
func (v Version) String() string {
	switch v.kind {
	case kindAutodetected:
		return AutodetectedLabel
	case kindProvided:
		return v.provider
	default:
		return v.raw
	}
}

// Valid reports whether the version matched the grammar.
func (v Version) Valid() bool {
	return v.ordering().valid
}

// Epoch returns the numeric epoch, saturating at the maximum uint64.
func (v Version) Epoch() uint64 {
	o := v.ordering()
	if !o.valid {
		return 0
	}
	n, err := strconv.ParseUint(o.epoch, 10, 64)
	if err != nil {
		return ^uint64(0)
	}
	return n
}

// Fragments returns a copy of the dot-separated body tokens.
func (v Version) Fragments() []string {
	return slices.Clone(v.ordering().fragments)
}

// IsAutodetected reports whether v is the autodetected sentinel.
func (v Version) IsAutodetected() bool {
	return v.kind == kindAutodetected
}

// Provider returns the providing module name for a ProvidedBy sentinel.
func (v Version) Provider() (string, bool) {
	return v.provider, v.kind == kindProvided
}

// Key returns an identity key built from the same fields Compare uses, so
// that a.Compare(b) == 0 exactly when a.Key() == b.Key().
func (v Version) Key() string {
	o := v.ordering()
	if !o.valid {
		return "!" + o.raw
	}
	var b strings.Builder
	b.WriteString(o.epoch)
	b.WriteByte(':')
	for i, f := range o.fragments {
		if i > 0 {
			b.WriteByte('.')
		}
		if isDigits(f) {
			b.WriteString(trimZeros(f))
		} else {
			b.WriteString(f)
		}
	}
	return b.String()
}

// Compare returns -1 if v < other, 0 if v == other, 1 if v > other.
//
// Order:
//  1. A valid version is greater than an invalid one
//  2. Two invalid versions compare ordinally by raw text
//  3. Epochs compare numerically
//  4. Fragments compare pairwise: numerically when both are digits-only,
//     ordinally otherwise
//  5. When one fragment list is a prefix of the other, the shorter is less
func (v Version) Compare(other Version) int {
	a, b := v.ordering(), other.ordering()

	if a.valid != b.valid {
		if a.valid {
			return 1
		}
		return -1
	}
	if !a.valid {
		return strings.Compare(a.raw, b.raw)
	}

	if c := compareDigits(a.epoch, b.epoch); c != 0 {
		return c
	}

	for i := range min(len(a.fragments), len(b.fragments)) {
		if c := compareFragments(a.fragments[i], b.fragments[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.fragments), len(b.fragments))
}

// Equal reports whether v and other compare equal.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// Less reports whether v < other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// Greater reports whether v > other.
func (v Version) Greater(other Version) bool { return v.Compare(other) > 0 }

// AtLeast reports whether v >= other.
func (v Version) AtLeast(other Version) bool { return v.Compare(other) >= 0 }

// AtMost reports whether v <= other.
func (v Version) AtMost(other Version) bool { return v.Compare(other) <= 0 }

// Within reports whether v lies in the inclusive range [lo, hi]. A nil bound
// is unconstrained.
func (v Version) Within(lo, hi *Version) bool {
	if lo != nil && v.Less(*lo) {
		return false
	}
	if hi != nil && v.Greater(*hi) {
		return false
	}
	return true
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	*v = Parse(string(text))
	return nil
}

// ordering returns the value used for comparison: sentinels order as "0".
func (v Version) ordering() Version {
	if v.kind != kindDeclared {
		return zero
	}
	return v
}

func compareFragments(a, b string) int {
	if isDigits(a) && isDigits(b) {
		return compareDigits(trimZeros(a), trimZeros(b))
	}
	return strings.Compare(a, b)
}

// compareDigits compares two zero-trimmed digit strings of any length.
func compareDigits(a, b string) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func trimZeros(s string) string {
	t := strings.TrimLeft(s, "0")
	if t == "" {
		return "0"
	}
	return t
}

// Compare compares two versions, suitable for slices.SortFunc.
func Compare(a, b Version) int {
	return a.Compare(b)
}

// Sort sorts versions in ascending order.
func Sort(versions []Version) {
	slices.SortStableFunc(versions, Compare)
}

// Max returns the higher of two versions, preferring a on ties.
func Max(a, b Version) Version {
	if a.Compare(b) >= 0 {
		return a
	}
	return b
}

// Min returns the lower of two versions, preferring a on ties.
func Min(a, b Version) Version {
	if a.Compare(b) <= 0 {
		return a
	}
	return b
}

// Versions is a sortable slice of Version.
type Versions []Version

func (v Versions) Len() int           { return len(v) }
func (v Versions) Swap(i, j int)      { v[i], v[j] = v[j], v[i] }
func (v Versions) Less(i, j int) bool { return v[i].Less(v[j]) }
