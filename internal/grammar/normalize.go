package grammar

import (
	"encoding/json"
	"fmt"

	"github.com/hjson/hjson-go/v4"
	"howett.net/plist"

	syncerrors "github.com/conneroisu/grammarsync/internal/errors"
)

// strategy is one format decoder. Decoders are pure: a failed attempt leaves
// no partial state behind, so the next strategy starts from the same bytes.
type strategy struct {
	name   string
	decode func(data []byte) (Document, error)
}

// strategies is the fixed dispatch order: strict JSON first, then the relaxed
// JSON superset used by brace-style CSON grammars, then XML property lists.
var strategies = []strategy{
	{name: "json", decode: decodeJSON},
	{name: "cson", decode: decodeRelaxedJSON},
	{name: "plist", decode: decodePlist},
}

// Normalize decodes raw grammar bytes with the first strategy that succeeds.
// When every strategy fails, the returned ParseFailure names the source path
// and carries each strategy's diagnostic in dispatch order.
func Normalize(path string, data []byte) (Document, error) {
	attempts := make([]error, 0, len(strategies))
	for _, s := range strategies {
		doc, err := s.decode(data)
		if err == nil {
			return doc, nil
		}
		attempts = append(attempts, fmt.Errorf("%s: %w", s.name, err))
	}

	return nil, syncerrors.NewParseFailure(path, attempts)
}

func decodeJSON(data []byte) (Document, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, err
	}

	return asDocument(value)
}

func decodeRelaxedJSON(data []byte) (Document, error) {
	var value any
	if err := hjson.Unmarshal(data, &value); err != nil {
		return nil, err
	}

	return asDocument(canonicalize(value))
}

func decodePlist(data []byte) (Document, error) {
	var value any
	if _, err := plist.Unmarshal(data, &value); err != nil {
		return nil, err
	}

	return asDocument(canonicalize(value))
}

func asDocument(value any) (Document, error) {
	doc, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document root is %T, not a mapping", value)
	}

	return Document(doc), nil
}

// canonicalize rewrites decoder-specific container types into the canonical
// map/list/scalar tree.
func canonicalize(value any) any {
	switch v := value.(type) {
	case *hjson.OrderedMap:
		out := make(map[string]any, len(v.Keys))
		for _, key := range v.Keys {
			out[key] = canonicalize(v.Map[key])
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, elem := range v {
			out[key] = canonicalize(elem)
		}

		return out
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = canonicalize(elem)
		}

		return out
	default:
		return value
	}
}
