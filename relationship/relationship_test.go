package relationship

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aweris/modcache/version"
)

func TestConflictTruthTable(t *testing.T) {
	tests := []struct {
		ver           string
		exact, lo, hi string
		wantConflict  bool
	}{
		{"1.0", "", "", "", true},
		{"1.0", "1.0", "", "", true},
		{"1.0", "2.0", "", "", false},
		{"1.0", "", "0.5", "", true},
		{"1.0", "", "2.0", "", false},
		{"1.0", "", "", "0.5", false},
		{"1.0", "", "", "1.0", true},
		{"2.0", "", "0.5", "1.0", false},
		{"2.0", "", "0.5", "2.0", true},
		{"2.0", "", "2.0", "2.0", true},
		{"2.0", "", "3.0", "4.0", false},
	}

	for _, tt := range tests {
		d := Descriptor{Name: "A", Version: tt.exact, MinVersion: tt.lo, MaxVersion: tt.hi}
		t.Run(tt.ver+" conflicts "+d.String(), func(t *testing.T) {
			a := Module{Identifier: "A", Version: version.Parse(tt.ver)}
			b := Module{Identifier: "B", Version: version.Parse("1.0"), Conflicts: []Descriptor{d}}

			assert.Equal(t, tt.wantConflict, ConflictsWith(a, b))
			assert.Equal(t, ConflictsWith(a, b), ConflictsWith(b, a), "symmetry")
		})
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		v    string
		want bool
	}{
		{"unconstrained", Descriptor{Name: "X"}, "anything at all", true},
		{"exact equal", Descriptor{Name: "X", Version: "1.0"}, "1.0", true},
		{"exact numerically equal", Descriptor{Name: "X", Version: "1.0"}, "1.00", true},
		{"exact epoch differs", Descriptor{Name: "X", Version: "1.0"}, "1:1.0", false},
		{"exact wins over bounds", Descriptor{Name: "X", Version: "1.0", MinVersion: "5.0"}, "1.0", true},
		{"min inclusive", Descriptor{Name: "X", MinVersion: "1.2"}, "1.2", true},
		{"min prefix is less", Descriptor{Name: "X", MinVersion: "1.2.3"}, "1.2", false},
		{"max inclusive", Descriptor{Name: "X", MaxVersion: "1.2"}, "1.2", true},
		{"max prefix extension is greater", Descriptor{Name: "X", MaxVersion: "1.2"}, "1.2.1", false},
		{"invalid below any bound", Descriptor{Name: "X", MinVersion: "0"}, "1.0-beta", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.Satisfies(version.Parse(tt.v)))
		})
	}
}

func TestProvides(t *testing.T) {
	provider := Module{
		Identifier: "ModuleManagerFork",
		Version:    version.Parse("4.2"),
		Provides:   []string{"ModuleManager"},
	}

	v, ok := provider.VersionFor("ModuleManager")
	require.True(t, ok)
	name, _ := v.Provider()
	assert.Equal(t, "ModuleManagerFork", name)

	_, ok = provider.VersionFor("Other")
	assert.False(t, ok)

	// Provided versions order as "0".
	assert.True(t, Descriptor{Name: "ModuleManager"}.MatchesModule(provider))
	assert.True(t, Descriptor{Name: "ModuleManager", MaxVersion: "1.0"}.MatchesModule(provider))
	assert.False(t, Descriptor{Name: "ModuleManager", MinVersion: "1.0"}.MatchesModule(provider))

	other := Module{
		Identifier: "Legacy",
		Version:    version.Parse("1.0"),
		Conflicts:  []Descriptor{{Name: "ModuleManager"}},
	}
	assert.True(t, ConflictsWith(provider, other))
	assert.True(t, ConflictsWith(other, provider))
}

func TestConflictSymmetryBothDirections(t *testing.T) {
	a := Module{
		Identifier: "A",
		Version:    version.Parse("1.0"),
		Conflicts:  []Descriptor{{Name: "B", MaxVersion: "0.9"}},
	}
	b := Module{
		Identifier: "B",
		Version:    version.Parse("1.0"),
		Conflicts:  []Descriptor{{Name: "A", MinVersion: "2.0"}},
	}
	assert.False(t, ConflictsWith(a, b))
	assert.False(t, ConflictsWith(b, a))

	a.Conflicts = []Descriptor{{Name: "B", MaxVersion: "1.0"}}
	assert.True(t, ConflictsWith(a, b))
	assert.True(t, ConflictsWith(b, a))

	unrelated := Module{Identifier: "C", Version: version.Parse("1.0")}
	assert.False(t, ConflictsWith(a, unrelated))
	assert.False(t, ConflictsWith(unrelated, a))
}

func TestDependsOn(t *testing.T) {
	m := Module{
		Identifier: "Mod",
		Version:    version.Parse("1.0"),
		Depends:    []Descriptor{{Name: "Lib", MinVersion: "2.0"}},
	}
	assert.True(t, DependsOn(m, Module{Identifier: "Lib", Version: version.Parse("2.1")}))
	assert.False(t, DependsOn(m, Module{Identifier: "Lib", Version: version.Parse("1.9")}))
	assert.False(t, DependsOn(m, Module{Identifier: "Other", Version: version.Parse("3.0")}))
}

func TestDescriptorString(t *testing.T) {
	tests := []struct {
		d    Descriptor
		want string
	}{
		{Descriptor{Name: "Foo"}, "Foo"},
		{Descriptor{Name: "Foo", Version: "1.0"}, "Foo 1.0"},
		{Descriptor{Name: "Foo", MinVersion: "1.0", MaxVersion: "2.0"}, "Foo 1.0 - 2.0"},
		{Descriptor{Name: "Foo", MinVersion: "1.0"}, "Foo >= 1.0"},
		{Descriptor{Name: "Foo", MaxVersion: "2.0"}, "Foo <= 2.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.String())
	}
}

func TestDescriptorJSON(t *testing.T) {
	var d Descriptor
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Foo","min_version":"1.0","max_version":"2.0"}`), &d))
	assert.Equal(t, Descriptor{Name: "Foo", MinVersion: "1.0", MaxVersion: "2.0"}, d)
	assert.False(t, d.Unconstrained())
	assert.True(t, Descriptor{Name: "Foo"}.Unconstrained())
}
