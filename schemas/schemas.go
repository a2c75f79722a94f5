// Package schemas embeds the JSON schemas that vendored documents are
// validated against before they are written.
package schemas

import _ "embed"

// Grammar is the schema every normalized grammar document must satisfy.
//
//go:embed grammar.schema.json
var Grammar string
