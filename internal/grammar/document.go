// Package grammar parses raw grammar files into one canonical document form
// and mechanically derives the JavaScript grammar variants from the
// TypeScriptReact base grammar.
package grammar

import (
	"encoding/json"
	"fmt"
)

// Document is the canonical in-memory grammar tree: string-keyed maps, []any
// lists, and scalar leaves, regardless of which serialization format the raw
// bytes used.
type Document map[string]any

// ScopeName returns the document's identity field. Grammars without a string
// scopeName cannot be written (the scope name is the output filename).
func (d Document) ScopeName() (string, bool) {
	name, ok := d["scopeName"].(string)
	if !ok || name == "" {
		return "", false
	}

	return name, true
}

// MarshalPretty renders the document as indented JSON with a trailing
// newline, the on-disk form of every vendored grammar.
func (d Document) MarshalPretty() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize grammar: %w", err)
	}

	return append(data, '\n'), nil
}
