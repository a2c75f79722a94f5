package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncerrors "github.com/conneroisu/grammarsync/internal/errors"
)

func TestNormalize_JSON(t *testing.T) {
	raw := []byte(`{
  "scopeName": "source.ts",
  "name": "TypeScript",
  "fileTypes": ["ts"],
  "patterns": [{"include": "#statements"}]
}`)

	doc, err := Normalize("TypeScript.tmLanguage.json", raw)
	require.NoError(t, err)

	scope, ok := doc.ScopeName()
	require.True(t, ok)
	assert.Equal(t, "source.ts", scope)
	assert.Equal(t, "TypeScript", doc["name"])
}

func TestNormalize_RelaxedJSON(t *testing.T) {
	// Brace-style CSON: comments, unquoted keys, no commas.
	raw := []byte(`{
  # the Sass grammar
  scopeName: source.sass
  name: Sass
  fileTypes: [
    sass
  ]
}`)

	doc, err := Normalize("sass.cson", raw)
	require.NoError(t, err)

	scope, ok := doc.ScopeName()
	require.True(t, ok)
	assert.Equal(t, "source.sass", scope)
	assert.Equal(t, []any{"sass"}, doc["fileTypes"])
}

func TestNormalize_Plist(t *testing.T) {
	raw := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>scopeName</key>
	<string>source.diff</string>
	<key>name</key>
	<string>Diff</string>
	<key>fileTypes</key>
	<array>
		<string>diff</string>
		<string>patch</string>
	</array>
</dict>
</plist>`)

	doc, err := Normalize("Diff.tmLanguage", raw)
	require.NoError(t, err)

	scope, ok := doc.ScopeName()
	require.True(t, ok)
	assert.Equal(t, "source.diff", scope)
	assert.Equal(t, []any{"diff", "patch"}, doc["fileTypes"])
}

func TestNormalize_StrategyOrderPrefersJSON(t *testing.T) {
	// Valid under both JSON and the relaxed decoder; must come back as the
	// canonical tree either way, proving a failed attempt leaves no state.
	raw := []byte(`{"scopeName": "source.x"}`)

	doc, err := Normalize("x.json", raw)
	require.NoError(t, err)
	assert.Equal(t, "source.x", doc["scopeName"])
}

func TestNormalize_AllStrategiesFail(t *testing.T) {
	_, err := Normalize("broken.cson", []byte("\x00\x01 not a grammar {"))
	require.Error(t, err)

	assert.True(t, syncerrors.IsCode(err, syncerrors.CodeParseFailure))
	assert.Contains(t, err.Error(), "broken.cson")
	// Diagnostics from every attempted strategy, in dispatch order.
	assert.Contains(t, err.Error(), "json:")
	assert.Contains(t, err.Error(), "cson:")
	assert.Contains(t, err.Error(), "plist:")
}

func TestNormalize_ScalarRootRejected(t *testing.T) {
	_, err := Normalize("scalar.json", []byte(`"just a string"`))
	assert.True(t, syncerrors.IsCode(err, syncerrors.CodeParseFailure))
}

func TestNormalize_RoundTrip(t *testing.T) {
	doc := Document{
		"scopeName": "source.test",
		"name":      "Test",
		"fileTypes": []any{"tst"},
		"patterns": []any{
			map[string]any{"match": "\\btest\\b", "name": "keyword.test"},
		},
		"repository": map[string]any{
			"strings": map[string]any{"begin": "\"", "end": "\""},
		},
	}

	serialized, err := doc.MarshalPretty()
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), serialized[len(serialized)-1])

	parsed, err := Normalize("roundtrip.json", serialized)
	require.NoError(t, err)
	assert.Equal(t, doc, parsed)
}

func TestScopeName_Missing(t *testing.T) {
	_, ok := Document{"name": "NoScope"}.ScopeName()
	assert.False(t, ok)

	_, ok = Document{"scopeName": 42}.ScopeName()
	assert.False(t, ok)

	_, ok = Document{"scopeName": ""}.ScopeName()
	assert.False(t, ok)
}
