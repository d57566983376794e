// Package relationship evaluates pairwise dependency and conflict
// relationships between mod modules.
//
// It answers whether one module's version satisfies another module's declared
// constraint. Picking a globally consistent install set is left to the caller.
package relationship

import (
	"slices"

	"github.com/aweris/modcache/version"
)

// Descriptor is a declared relationship naming a module identifier with an
// optional exact version or an inclusive min/max range.
type Descriptor struct {
	Name       string `json:"name"`
	Version    string `json:"version,omitempty"`
	MinVersion string `json:"min_version,omitempty"`
	MaxVersion string `json:"max_version,omitempty"`
}

// Unconstrained reports whether the descriptor accepts any version.
func (d Descriptor) Unconstrained() bool {
	return d.Version == "" && d.MinVersion == "" && d.MaxVersion == ""
}

// Satisfies reports whether v meets the descriptor's version constraint.
// An exact version takes precedence over min/max bounds; both bounds are
// inclusive.
func (d Descriptor) Satisfies(v version.Version) bool {
	if d.Version != "" {
		return v.Equal(version.Parse(d.Version))
	}

	var lo, hi *version.Version
	if d.MinVersion != "" {
		bound := version.Parse(d.MinVersion)
		lo = &bound
	}
	if d.MaxVersion != "" {
		bound := version.Parse(d.MaxVersion)
		hi = &bound
	}
	return v.Within(lo, hi)
}

// MatchesModule reports whether m, by identifier or through its provides
// list, satisfies the descriptor.
func (d Descriptor) MatchesModule(m Module) bool {
	v, ok := m.VersionFor(d.Name)
	if !ok {
		return false
	}
	return d.Satisfies(v)
}

// String renders the descriptor the way it is shown to users,
// e.g. "Foo 1.0", "Foo 1.0 - 2.0", "Foo >= 1.0".
func (d Descriptor) String() string {
	switch {
	case d.Version != "":
		return d.Name + " " + d.Version
	case d.MinVersion != "" && d.MaxVersion != "":
		return d.Name + " " + d.MinVersion + " - " + d.MaxVersion
	case d.MinVersion != "":
		return d.Name + " >= " + d.MinVersion
	case d.MaxVersion != "":
		return d.Name + " <= " + d.MaxVersion
	default:
		return d.Name
	}
}

// Module is the subset of a module's metadata used for relationship checks.
type Module struct {
	Identifier string
	Version    version.Version
	Provides   []string
	Depends    []Descriptor
	Conflicts  []Descriptor
}

// VersionFor returns the version m offers under name: its own version for
// its identifier, or a ProvidedBy sentinel for a name it provides.
func (m Module) VersionFor(name string) (version.Version, bool) {
	if name == m.Identifier {
		return m.Version, true
	}
	if slices.Contains(m.Provides, name) {
		return version.ProvidedBy(m.Identifier), true
	}
	return version.Version{}, false
}

// ConflictsWith reports whether either module declares a conflict satisfied
// by the other. The result does not depend on argument order.
func ConflictsWith(a, b Module) bool {
	return declaresConflict(a, b) || declaresConflict(b, a)
}

// DependsOn reports whether any of m's dependencies is satisfied by dep.
func DependsOn(m, dep Module) bool {
	for _, d := range m.Depends {
		if d.MatchesModule(dep) {
			return true
		}
	}
	return false
}

func declaresConflict(declarer, target Module) bool {
	for _, d := range declarer.Conflicts {
		if d.MatchesModule(target) {
			return true
		}
	}
	return false
}
