package grammar

import "strings"

// Scope suffixes for the two derived JavaScript variants. The base grammar is
// the TypeScriptReact grammar; everything else is rewritten from it.
const (
	SuffixJS  = ".js"
	SuffixJSX = ".js.jsx"
)

// scopePrefix is the fixed prefix a derived grammar's scopeName starts with.
const scopePrefix = "scope"

// derivedFileTypes is the file-extension list every derived variant carries,
// replacing the base grammar's fileTypes wholesale.
var derivedFileTypes = []string{"js", "jsx", "es6", "mjs", "cjs"}

// Suffixes returns the supported scope suffixes in derivation order.
func Suffixes() []string {
	return []string{SuffixJS, SuffixJSX}
}

// Derive produces the JavaScript variant of a base grammar for one scope
// suffix. The transform is pure: the input document is never mutated, and the
// same document and suffix always yield the same output.
//
// Rewrite rules, applied at every level of the tree:
//   - name == "TypeScriptReact" becomes "JavaScriptReact"
//   - fileTypes is replaced wholesale with the derived extension list
//   - scopeName becomes the fixed prefix plus the suffix
//   - every ".tsx" inside a string-valued name or contentName becomes the suffix
//   - maps and list elements that are structured nodes recurse; scalar list
//     elements pass through untouched
func Derive(doc Document, suffix string) Document {
	return Document(deriveMap(doc, suffix))
}

func deriveMap(m map[string]any, suffix string) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = deriveField(key, value, suffix)
	}

	return out
}

func deriveField(key string, value any, suffix string) any {
	switch key {
	case "name", "contentName":
		if s, ok := value.(string); ok {
			if key == "name" && s == "TypeScriptReact" {
				return "JavaScriptReact"
			}

			return strings.ReplaceAll(s, ".tsx", suffix)
		}
	case "fileTypes":
		types := make([]any, len(derivedFileTypes))
		for i, t := range derivedFileTypes {
			types[i] = t
		}

		return types
	case "scopeName":
		return scopePrefix + suffix
	}

	return deriveValue(value, suffix)
}

func deriveValue(value any, suffix string) any {
	switch v := value.(type) {
	case map[string]any:
		return deriveMap(v, suffix)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			switch elem.(type) {
			case map[string]any, []any:
				out[i] = deriveValue(elem, suffix)
			default:
				out[i] = elem
			}
		}

		return out
	default:
		return value
	}
}
