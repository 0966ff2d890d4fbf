package bridge

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/bridge.schema.json
var schemaFS embed.FS

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func loadSchema() {
	data, err := schemaFS.ReadFile("schema/bridge.schema.json")
	if err != nil {
		schemaErr = fmt.Errorf("bridge: read embedded schema: %w", err)
		return
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("bridge.schema.json", bytes.NewReader(data)); err != nil {
		schemaErr = fmt.Errorf("bridge: add schema resource: %w", err)
		return
	}
	s, err := c.Compile("bridge.schema.json")
	if err != nil {
		schemaErr = fmt.Errorf("bridge: compile schema: %w", err)
		return
	}
	schema = s
}

// Validate checks a raw payload against the bridge JSON schema. It reports
// the schema-mismatch error class of the taxonomy: callers treat a non-nil
// result as terminal for the conversion attempt.
func Validate(data []byte) error {
	schemaOnce.Do(loadSchema)
	if schemaErr != nil {
		return schemaErr
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("not valid JSON: %w", err)
	}
	return schema.Validate(v)
}
