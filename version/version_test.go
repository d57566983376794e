package version

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input         string
		wantValid     bool
		wantEpoch     uint64
		wantFragments []string
	}{
		{"1", true, 0, []string{"1"}},
		{"1.2.3", true, 0, []string{"1", "2", "3"}},
		{"v1.2.3", true, 0, []string{"v1", "2", "3"}},
		{"V0.23", true, 0, []string{"V0", "23"}},
		{"2:1.0", true, 2, []string{"1", "0"}},
		{"v3:1.0", true, 3, []string{"v1", "0"}},
		{"007:1", true, 7, []string{"1"}},
		{"1.0beta2", true, 0, []string{"1", "0beta2"}},
		{"", false, 0, nil},
		{"1.0-beta", false, 0, nil},
		{"1..2", false, 0, nil},
		{".1", false, 0, nil},
		{"1:", false, 0, nil},
		{"a:1.0", false, 0, nil},
		{"1.0 ", false, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := Parse(tt.input)
			assert.Equal(t, tt.wantValid, v.Valid())
			assert.Equal(t, tt.wantEpoch, v.Epoch())
			assert.Equal(t, tt.wantFragments, v.Fragments())
			assert.Equal(t, tt.input, v.String())
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "1", "v1.2.3", "1:2.3", "not a version", "1.0-rc1", "ünïcode", "  "} {
		assert.Equal(t, s, Parse(s).String(), "round trip %q", s)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1", "v0.23", -1},
		{"v0.23", "v1.2.3", -1},
		{"1", "v1.2.3", -1},
		{"v1.2.3", "v1.2", 1},
		{"v1.2.3", "v1.4", -1},
		{"1.2", "1.2.3", -1},
		{"1.2", "1.2", 0},
		{"1.10", "1.9", 1},
		{"1.02", "1.2", 0},
		{"1.0a", "1.0b", -1},
		{"1.0", "1.0a", -1},
		{"1.A", "1.a", -1},

		// Epochs dominate the body.
		{"1:0.1", "99.0", 1},
		{"1:0.1", "2:0.0", -1},
		{"0:1.0", "1.0", 0},

		// Numeric fragments larger than any machine integer.
		{"1.99999999999999999999999", "1.100000000000000000000000", -1},
		{"1:1", "18446744073709551616:1", -1},

		// Valid beats invalid; invalid compare by raw text.
		{"0", "1.0-beta", 1},
		{"1.0-beta", "0", -1},
		{"a b", "a c", -1},
		{"", "x y", -1},
		{"x y", "x y", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			a, b := Parse(tt.a), Parse(tt.b)
			assert.Equal(t, tt.want, a.Compare(b))
			assert.Equal(t, -tt.want, b.Compare(a), "antisymmetry")
			assert.Equal(t, tt.want == 0, a.Equal(b))
			assert.Equal(t, tt.want < 0, a.Less(b))
			assert.Equal(t, tt.want > 0, a.Greater(b))
			assert.Equal(t, tt.want >= 0, a.AtLeast(b))
			assert.Equal(t, tt.want <= 0, a.AtMost(b))
		})
	}
}

func TestKeyAgreesWithCompare(t *testing.T) {
	inputs := []string{
		"1", "01", "1.0", "1.00", "0:1.0", "1:1.0", "01:1.0", "v1.0", "V1.0",
		"1.0a", "1.0-beta", "1.0-beta ", "0", "", "x",
	}
	for _, a := range inputs {
		for _, b := range inputs {
			va, vb := Parse(a), Parse(b)
			assert.Equal(t, va.Equal(vb), va.Key() == vb.Key(), "%q vs %q", a, b)
		}
	}

	// Epoch participates in identity.
	assert.NotEqual(t, Parse("1.0").Key(), Parse("1:1.0").Key())
}

func TestTransitivity(t *testing.T) {
	inputs := []string{
		"1", "v0.23", "v1.2.3", "v1.2", "v1.4", "1.0-beta", "2:0", "0.9", "1.10",
		"1.9", "abc", "", "1.0a", "1:1", "V2",
	}
	for _, a := range inputs {
		for _, b := range inputs {
			for _, c := range inputs {
				va, vb, vc := Parse(a), Parse(b), Parse(c)
				if va.AtMost(vb) && vb.AtMost(vc) {
					assert.True(t, va.AtMost(vc), "%q <= %q <= %q", a, b, c)
				}
			}
		}
	}
}

func TestSentinels(t *testing.T) {
	auto := Autodetected()
	assert.True(t, auto.IsAutodetected())
	assert.Equal(t, AutodetectedLabel, auto.String())
	assert.True(t, auto.Equal(Parse("0")))
	assert.True(t, auto.Less(Parse("0.1")))
	assert.True(t, auto.Greater(Parse("bad version")))
	assert.True(t, auto.Valid())
	assert.Equal(t, Parse("0").Key(), auto.Key())

	provided := ProvidedBy("ModuleManager")
	name, ok := provided.Provider()
	assert.True(t, ok)
	assert.Equal(t, "ModuleManager", name)
	assert.Equal(t, "ModuleManager", provided.String())
	assert.True(t, provided.Equal(auto))
	assert.False(t, provided.IsAutodetected())

	_, ok = Parse("1.0").Provider()
	assert.False(t, ok)
}

func TestWithin(t *testing.T) {
	lo, hi := Parse("1.0"), Parse("2.0")

	assert.True(t, Parse("1.0").Within(&lo, &hi))
	assert.True(t, Parse("2.0").Within(&lo, &hi))
	assert.True(t, Parse("1.5").Within(&lo, &hi))
	assert.False(t, Parse("0.9").Within(&lo, &hi))
	assert.False(t, Parse("2.0.1").Within(&lo, &hi))
	assert.True(t, Parse("99").Within(&lo, nil))
	assert.True(t, Parse("0").Within(nil, &hi))
	assert.True(t, Parse("anything").Within(nil, nil))
}

func TestSortAndExtremes(t *testing.T) {
	vs := []Version{Parse("v1.2.3"), Parse("1.0-beta"), Parse("1"), Parse("1:0"), Parse("v0.23"), Parse("v1.2")}
	Sort(vs)

	got := make([]string, 0, len(vs))
	for _, v := range vs {
		got = append(got, v.String())
	}
	assert.Equal(t, []string{"1.0-beta", "1", "v0.23", "v1.2", "v1.2.3", "1:0"}, got)

	sorted := Versions{Parse("2"), Parse("10"), Parse("1")}
	sort.Sort(sorted)
	assert.Equal(t, "1", sorted[0].String())
	assert.Equal(t, "10", sorted[2].String())

	assert.Equal(t, "1.2", Max(Parse("1.2"), Parse("1.1")).String())
	assert.Equal(t, "1.1", Min(Parse("1.2"), Parse("1.1")).String())
	assert.Equal(t, "1.02", Max(Parse("1.02"), Parse("1.2")).String(), "ties keep the first argument")
}

func TestTextMarshaling(t *testing.T) {
	var got struct {
		Version Version `json:"version"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"version":"v1:2.0"}`), &got))
	assert.Equal(t, uint64(1), got.Version.Epoch())
	assert.Equal(t, "v1:2.0", got.Version.String())

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"v1:2.0"}`, string(out))
}

func TestZeroValue(t *testing.T) {
	var v Version
	assert.False(t, v.Valid())
	assert.Equal(t, "", v.String())
	assert.True(t, v.Equal(Parse("")))
}
