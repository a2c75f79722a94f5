package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseGrammar() Document {
	return Document{
		"name":      "TypeScriptReact",
		"scopeName": "source.tsx",
		"fileTypes": []any{"tsx"},
		"patterns": []any{
			map[string]any{
				"name":        "meta.tag.tsx",
				"contentName": "meta.jsx.children.tsx",
				"begin":       "<",
				"patterns": []any{
					map[string]any{"name": "support.class.component.tsx"},
				},
			},
			map[string]any{"include": "#statements"},
		},
		"repository": map[string]any{
			"statements": map[string]any{
				"name":     "meta.statement.tsx",
				"patterns": []any{"scalar-kept", map[string]any{"name": "inner.tsx"}},
			},
		},
		"uuid": "00000000-0000-0000-0000-000000000000",
	}
}

func TestDerive_RewritesIdentityFields(t *testing.T) {
	derived := Derive(baseGrammar(), SuffixJS)

	assert.Equal(t, "JavaScriptReact", derived["name"])
	assert.Equal(t, "scope.js", derived["scopeName"])
	assert.Equal(t, []any{"js", "jsx", "es6", "mjs", "cjs"}, derived["fileTypes"])
}

func TestDerive_RewritesNestedNames(t *testing.T) {
	derived := Derive(baseGrammar(), SuffixJSX)

	patterns := derived["patterns"].([]any)
	tag := patterns[0].(map[string]any)
	assert.Equal(t, "meta.tag.js.jsx", tag["name"])
	assert.Equal(t, "meta.jsx.children.js.jsx", tag["contentName"])
	assert.Equal(t, "<", tag["begin"])

	inner := tag["patterns"].([]any)[0].(map[string]any)
	assert.Equal(t, "support.class.component.js.jsx", inner["name"])

	repo := derived["repository"].(map[string]any)
	statements := repo["statements"].(map[string]any)
	assert.Equal(t, "meta.statement.js.jsx", statements["name"])

	// Scalar list elements pass through untouched.
	assert.Equal(t, "scalar-kept", statements["patterns"].([]any)[0])
}

func TestDerive_PassesThroughUnknownFields(t *testing.T) {
	derived := Derive(baseGrammar(), SuffixJS)

	assert.Equal(t, "00000000-0000-0000-0000-000000000000", derived["uuid"])
	assert.Equal(t, map[string]any{"include": "#statements"}, derived["patterns"].([]any)[1])
}

func TestDerive_FileTypesInvariant(t *testing.T) {
	want := []any{"js", "jsx", "es6", "mjs", "cjs"}

	for _, fileTypes := range []any{
		[]any{"tsx"},
		[]any{},
		"not-even-a-list",
		nil,
	} {
		doc := Document{"scopeName": "source.tsx", "fileTypes": fileTypes}
		for _, suffix := range Suffixes() {
			assert.Equal(t, want, Derive(doc, suffix)["fileTypes"])
		}
	}
}

func TestDerive_Deterministic(t *testing.T) {
	doc := baseGrammar()

	first := Derive(doc, SuffixJS)
	second := Derive(doc, SuffixJS)
	assert.Equal(t, first, second)

	firstBytes, err := first.MarshalPretty()
	require.NoError(t, err)
	secondBytes, err := second.MarshalPretty()
	require.NoError(t, err)
	assert.Equal(t, firstBytes, secondBytes)
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	doc := baseGrammar()
	pristine := baseGrammar()

	_ = Derive(doc, SuffixJSX)

	assert.Equal(t, pristine, doc)
}

func TestDerive_DerivedOutputsShareNothing(t *testing.T) {
	doc := baseGrammar()

	js := Derive(doc, SuffixJS)
	jsx := Derive(doc, SuffixJSX)

	assert.Equal(t, "scope.js", js["scopeName"])
	assert.Equal(t, "scope.js.jsx", jsx["scopeName"])

	// Mutating one output must not leak into the other.
	js["fileTypes"].([]any)[0] = "mutated"
	assert.Equal(t, "js", jsx["fileTypes"].([]any)[0])
}
