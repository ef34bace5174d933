package demostore

import (
	"embed"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Validator проверяет записи коллекций по встроенным JSON-схемам.
// Каждая схема несет $id с именем коллекции.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewValidator загружает схемы всех коллекций из встроенной файловой системы.
func NewValidator() (*Validator, error) {
	const op = "demostore.NewValidator"

	files, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	type schemaID struct {
		ID string `json:"$id"`
	}

	v := &Validator{schemas: make(map[string]*gojsonschema.Schema)}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		raw, err := schemaFS.ReadFile("schemas/" + f.Name())
		if err != nil {
			return nil, fmt.Errorf("%s: cannot read %s: %w", op, f.Name(), err)
		}
		var sid schemaID
		if err := json.Unmarshal(raw, &sid); err != nil {
			return nil, fmt.Errorf("%s: parse error in %s: %w", op, f.Name(), err)
		}
		if sid.ID == "" {
			return nil, fmt.Errorf("%s: schema %s has no $id", op, f.Name())
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: invalid schema %s: %w", op, f.Name(), err)
		}
		v.schemas[sid.ID] = schema
	}
	return v, nil
}

// Validate проверяет запись по схеме коллекции. Коллекция без схемы
// считается неизвестной.
func (v *Validator) Validate(collection string, rec Record) error {
	const op = "demostore.Validate"

	schema, ok := v.schemas[collection]
	if !ok {
		return fmt.Errorf("%s: %s: %w", op, collection, ErrUnknownCollection)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(rec))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("%s: %s: %s", op, collection, strings.Join(msgs, "; "))
	}
	return nil
}
