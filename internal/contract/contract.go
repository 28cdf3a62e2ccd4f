// Package contract checks the shape of summary payloads received from a
// dashboard backend before they are decoded into domain types.
package contract

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema names a payload contract.
type Schema string

const (
	// Repos is the contract of the repositories-created-in-year payload.
	Repos Schema = "repos"
	// Issues is the contract of the issues-created-in-year payload.
	Issues Schema = "issues"
)

// Violation is a single field that did not satisfy its contract.
type Violation struct {
	Field       string
	Description string
}

// ValidationError is returned when a payload does not satisfy its contract.
type ValidationError struct {
	Schema     Schema
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Description)
	}
	return fmt.Sprintf("%s payload does not match contract: %s", e.Schema, strings.Join(parts, "; "))
}

// Validate checks a raw JSON payload against the named contract.
// It returns a *ValidationError when the payload has the wrong shape and a
// plain error when the payload is not JSON at all.
func Validate(schema Schema, payload []byte) error {
	schemaBytes, err := schemaFS.ReadFile("schemas/" + string(schema) + ".json")
	if err != nil {
		return fmt.Errorf("unknown contract %q: %w", schema, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to validate %s payload: %w", schema, err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Schema: schema}
	for _, re := range result.Errors() {
		verr.Violations = append(verr.Violations, Violation{Field: re.Field(), Description: re.Description()})
	}
	return verr
}
