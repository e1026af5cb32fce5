package storage

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/entity"
	"github.com/easymigrate/docintake/internal/merge"
)

// SchemaValidator checks filtered records against per-table JSON schemas
// derived from the column allow-lists. Every column is an optional
// string; unknown keys are rejected — anything the schema flags should
// already have been removed by the merge filter.
type SchemaValidator struct {
	logger  *slog.Logger
	once    sync.Once
	schemas map[string]*jsonschema.Schema
	initErr error
}

func NewSchemaValidator(logger *slog.Logger) *SchemaValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &SchemaValidator{logger: logger}
}

func (v *SchemaValidator) compile() {
	v.schemas = make(map[string]*jsonschema.Schema, 2)
	for _, table := range []string{constants.TableApplications, constants.TableNotifications} {
		c := jsonschema.NewCompiler()
		url := "mem://" + table + ".json"
		if err := c.AddResource(url, strings.NewReader(tableSchemaJSON(table))); err != nil {
			v.initErr = fmt.Errorf("add schema for %s: %w", table, err)
			return
		}
		schema, err := c.Compile(url)
		if err != nil {
			v.initErr = fmt.Errorf("compile schema for %s: %w", table, err)
			return
		}
		v.schemas[table] = schema
	}
}

// tableSchemaJSON renders the schema document for one table.
func tableSchemaJSON(table string) string {
	var b strings.Builder
	b.WriteString(`{"type":"object","additionalProperties":false,"properties":{`)
	for i, col := range merge.TableColumns(table) {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%q:{\"type\":\"string\"}", col)
	}
	b.WriteString(`}}`)
	return b.String()
}

// Validate checks rec against the table's schema.
func (v *SchemaValidator) Validate(table string, rec entity.CanonicalRecord) error {
	v.once.Do(v.compile)
	if v.initErr != nil {
		return v.initErr
	}
	schema, ok := v.schemas[table]
	if !ok {
		return fmt.Errorf("no schema for table %q", table)
	}

	doc := make(map[string]any, len(rec))
	for k, val := range rec {
		doc[k] = val
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("record does not match %s schema: %w", table, err)
	}
	return nil
}
