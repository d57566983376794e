package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCompareCommand(t *testing.T) {
	out, err := run(t, "compare", "v1.2.3", "v1.4")
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3 < v1.4\n", out)

	out, err = run(t, "compare", "1:0.1", "9.9")
	require.NoError(t, err)
	assert.Equal(t, "1:0.1 > 9.9\n", out)
}

func TestSatisfiesCommand(t *testing.T) {
	out, err := run(t, "satisfies", "2.0", "--min", "0.5", "--max", "2.0", "--exact", "")
	require.NoError(t, err)
	assert.Contains(t, out, "satisfies module 0.5 - 2.0")

	_, err = run(t, "satisfies", "2.0", "--min", "3.0", "--max", "4.0", "--exact", "")
	assert.Error(t, err)
}

func TestSpecCheckCommand(t *testing.T) {
	_, err := run(t, "spec-check", "v1.4")
	require.NoError(t, err)

	_, err = run(t, "spec-check", "v2000.99.99")
	assert.Error(t, err)
}

func TestCacheCommands(t *testing.T) {
	cacheDir := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	src := filepath.Join(t.TempDir(), "Mod-1.0.zip")
	require.NoError(t, os.WriteFile(src, []byte("not really a zip"), 0o644))

	base := []string{"--config", cfg, "--cache-dir", cacheDir}
	url := "https://example.com/mod.zip"

	out, err := run(t, append(base, "store", url, src, "--description", "Mod:1.0", "--move=false")...)
	require.NoError(t, err)
	assert.Contains(t, out, "-Mod-1.0")

	out, err = run(t, append(base, "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Mod-1.0")
	assert.Contains(t, out, "1 files")

	_, err = run(t, append(base, "check", url)...)
	assert.Error(t, err, "cached file is not a zip")

	out, err = run(t, append(base, "rm", url)...)
	require.NoError(t, err)
	assert.Equal(t, "removed\n", out)

	out, err = run(t, append(base, "rm", url)...)
	require.NoError(t, err)
	assert.Equal(t, "not cached\n", out)
}
