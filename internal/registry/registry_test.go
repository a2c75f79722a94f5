package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncerrors "github.com/conneroisu/grammarsync/internal/errors"
)

func writeRegistry(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "grammars.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad(t *testing.T) {
	path := writeRegistry(t, `
sources:
  - name: microsoft/TypeScript-TmLanguage
    version: ab7e235
    license: LICENSE.txt
    grammars: [TypeScript.tmLanguage, TypeScriptReact.tmLanguage]
  - name: atom/language-sass
    version: latest
    license: README.md#License
    grammars:
      - grammars/sass.cson
    todo: https://example.com/issues/1
`)

	sources, err := Load(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	ts := sources[0]
	assert.Equal(t, "microsoft/TypeScript-TmLanguage", ts.Name)
	assert.Equal(t, "ab7e235", ts.Version)
	assert.Equal(t, "LICENSE.txt", ts.LicensePath)
	assert.Equal(t, []string{"TypeScript.tmLanguage", "TypeScriptReact.tmLanguage"}, ts.GrammarPaths)
	assert.False(t, ts.TracksLatest())

	sass := sources[1]
	assert.True(t, sass.TracksLatest())
	assert.Equal(t, "https://example.com/issues/1", sass.TodoRef)
}

func TestLoad_DedupsGrammarPaths(t *testing.T) {
	path := writeRegistry(t, `
sources:
  - name: owner/repo
    version: abc1234
    license: LICENSE
    grammars: [a.cson, b.cson, a.cson]
`)

	sources, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.cson", "b.cson"}, sources[0].GrammarPaths)
}

func TestLoad_RejectsDuplicateNames(t *testing.T) {
	path := writeRegistry(t, `
sources:
  - name: owner/repo
    version: abc1234
    license: LICENSE
    grammars: [a.cson]
  - name: owner/repo
    version: def5678
    license: LICENSE
    grammars: [b.cson]
`)

	_, err := Load(path)
	assert.True(t, syncerrors.IsCode(err, syncerrors.CodeInvalidRegistry))
}

func TestLoad_RejectsEmptyGrammars(t *testing.T) {
	path := writeRegistry(t, `
sources:
  - name: owner/repo
    version: abc1234
    license: LICENSE
    grammars: []
`)

	_, err := Load(path)
	assert.True(t, syncerrors.IsCode(err, syncerrors.CodeInvalidRegistry))
}

func TestLoad_RejectsBareName(t *testing.T) {
	path := writeRegistry(t, `
sources:
  - name: repo-without-owner
    version: abc1234
    license: LICENSE
    grammars: [a.cson]
`)

	_, err := Load(path)
	assert.True(t, syncerrors.IsCode(err, syncerrors.CodeInvalidRegistry))
}

func TestLicensePathFragment(t *testing.T) {
	source := TrackedSource{LicensePath: "README.md#License"}
	assert.Equal(t, "README.md", source.LicenseFile())
	assert.Equal(t, "License", source.LicenseFragment())

	plain := TrackedSource{LicensePath: "LICENSE.txt"}
	assert.Equal(t, "LICENSE.txt", plain.LicenseFile())
	assert.Equal(t, "", plain.LicenseFragment())
}

func TestFetchRef(t *testing.T) {
	pinned := TrackedSource{Version: "ab7e235"}
	assert.Equal(t, "ab7e235", pinned.FetchRef())

	// The sentinel is not a commit; raw content is requested at HEAD.
	sentinel := TrackedSource{Version: VersionLatest}
	assert.Equal(t, "HEAD", sentinel.FetchRef())
}

func TestFind(t *testing.T) {
	sources := []TrackedSource{
		{Name: "a/b", Version: "1", LicensePath: "L", GrammarPaths: []string{"g"}},
	}

	found, err := Find(sources, "a/b")
	require.NoError(t, err)
	assert.Equal(t, "a/b", found.Name)

	_, err = Find(sources, "c/d")
	assert.True(t, syncerrors.IsCode(err, syncerrors.CodeUnknownSource))
}

func TestEqual(t *testing.T) {
	a := []TrackedSource{{Name: "a/b", Version: "1", LicensePath: "L", GrammarPaths: []string{"g"}}}
	b := []TrackedSource{{Name: "a/b", Version: "1", LicensePath: "L", GrammarPaths: []string{"g"}}}
	assert.True(t, Equal(a, b))

	b[0].Version = "2"
	assert.False(t, Equal(a, b))

	b[0].Version = "1"
	b[0].GrammarPaths = []string{"g", "h"}
	assert.False(t, Equal(a, b))
}
