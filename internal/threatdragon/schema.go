package threatdragon

import (
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateSchema checks the document against a Threat Dragon JSON schema.
// Violations are fatal: a document that fails its own schema has no reliable
// element inventory to merge into.
func ValidateSchema(doc *Document, schemaPath string) error {
	schemaBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema %q: %w", schemaPath, err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	schema, err := gojsonschema.NewSchema(schemaLoader)
	if err != nil {
		return fmt.Errorf("failed to load schema %q: %w", schemaPath, err)
	}

	documentLoader := gojsonschema.NewBytesLoader(doc.Raw)
	result, err := schema.Validate(documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var violations []string
		for _, desc := range result.Errors() {
			violations = append(violations, desc.String())
		}
		return NewMalformedDocumentError(doc.Path, "schema validation failed", strings.Join(violations, "; "))
	}

	return nil
}
