package grammar

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/conneroisu/grammarsync/schemas"
)

// ValidateSchema checks a normalized document against the embedded grammar
// schema. Failures are fatal for the run, like any other parse problem.
func ValidateSchema(path string, doc Document) error {
	schemaLoader := gojsonschema.NewStringLoader(schemas.Grammar)
	documentLoader := gojsonschema.NewGoLoader(map[string]any(doc))

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate grammar %s: %w", path, err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return fmt.Errorf("grammar %s violates schema: %s", path, strings.Join(problems, "; "))
	}

	return nil
}
