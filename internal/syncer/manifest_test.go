package syncer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRewriteManifest_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.yml")

	err := rewriteManifest(path,
		[]string{"licenses/a-b.txt"},
		[]string{"grammars/source.a.json", "grammars/source.b.json"})
	require.NoError(t, err)

	var manifest map[string]any
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &manifest))

	assert.Equal(t, []any{"licenses/a-b.txt"}, manifest["license-files"])
	assert.Equal(t,
		[]any{"grammars/source.a.json", "grammars/source.b.json"},
		manifest["grammar-files"])
}

func TestRewriteManifest_PreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.yml")
	require.NoError(t, os.WriteFile(path, []byte(
		"name: syntax-grammars\nversion: 1.2.0\nlicense-files:\n  - licenses/stale.txt\n"), 0o644))

	err := rewriteManifest(path, []string{"licenses/fresh.txt"}, nil)
	require.NoError(t, err)

	var manifest map[string]any
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &manifest))

	assert.Equal(t, "syntax-grammars", manifest["name"])
	assert.Equal(t, "1.2.0", manifest["version"])
	assert.Equal(t, []any{"licenses/fresh.txt"}, manifest["license-files"])
}

func TestRewriteManifest_Deterministic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.yml")

	licenses := []string{"licenses/a.txt", "licenses/b.txt"}
	grammars := []string{"grammars/source.a.json"}

	require.NoError(t, rewriteManifest(path, licenses, grammars))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, rewriteManifest(path, licenses, grammars))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestRewriteManifest_NormalizesWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.yml")

	require.NoError(t, rewriteManifest(path, []string{"licenses/a.txt"}, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "\t")
	for _, line := range strings.Split(string(data), "\n") {
		assert.Equal(t, strings.TrimRight(line, " "), line)
	}
}

func TestNormalizeText(t *testing.T) {
	out := normalizeText([]byte("a:\tvalue  \nb: x\t\n"))
	assert.Equal(t, "a:    value\nb: x\n", string(out))
}
