package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbind/internal/labels"
	"github.com/goliatone/go-formbind/pkg/model"
)

const (
	orderExtensionKey    = "x-formgen-order"
	categoryExtensionKey = "x-formgen-category"
	widgetExtensionKey   = "x-formgen-widget"
)

// ErrNotMap is returned when a schema-backed property is read from a source
// that is not a map[string]any.
var ErrNotMap = errors.New("openapi: source is not a map[string]any")

// SchemaFieldProvider lists the properties of an object schema so that
// map[string]any payloads can be edited as forms. Property order follows the
// x-formgen-order extension; properties it does not name follow
// alphabetically.
type SchemaFieldProvider struct {
	properties []model.Property
}

// NewSchemaFieldProvider builds a provider from an object schema.
func NewSchemaFieldProvider(schema *openapi3.Schema) (*SchemaFieldProvider, error) {
	if schema == nil {
		return nil, errors.New("openapi: schema is nil")
	}
	if t := schemaType(schema); t != "" && t != "object" {
		return nil, fmt.Errorf("openapi: schema type %q is not an object", t)
	}
	return &SchemaFieldProvider{properties: describeSchema(schema)}, nil
}

// LoadSchemaFieldProvider parses a JSON schema document and builds a provider.
func LoadSchemaFieldProvider(data []byte) (*SchemaFieldProvider, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("openapi: schema document is empty")
	}
	var schema openapi3.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("openapi: parse schema: %w", err)
	}
	return NewSchemaFieldProvider(&schema)
}

// Properties implements reflection.FieldProvider. Any non-nil map[string]any
// source exposes every schema property, present in the map or not.
func (p *SchemaFieldProvider) Properties(source any) []model.Property {
	if !isMapSource(source) {
		return nil
	}
	out := make([]model.Property, 0, len(p.properties))
	for _, prop := range p.properties {
		out = append(out, prop.Clone())
	}
	return out
}

// PropertiesNamed implements reflection.FieldProvider.
func (p *SchemaFieldProvider) PropertiesNamed(source any, names []string) []model.Property {
	if !isMapSource(source) || len(names) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(names))
	for _, name := range names {
		allowed[name] = struct{}{}
	}
	var out []model.Property
	for _, prop := range p.properties {
		if _, ok := allowed[prop.Name]; ok {
			out = append(out, prop.Clone())
		}
	}
	return out
}

func isMapSource(source any) bool {
	m, ok := source.(map[string]any)
	return ok && m != nil
}

func describeSchema(schema *openapi3.Schema) []model.Property {
	names := orderedNames(schema)
	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	props := make([]model.Property, 0, len(names))
	for _, name := range names {
		ref := schema.Properties[name]
		prop := model.Property{
			Name:     name,
			Index:    len(props),
			Label:    labels.FromName(name),
			Accessor: mapAccessor{key: name},
		}
		if _, ok := required[name]; ok {
			prop.Required = true
		}
		if ref != nil && ref.Value != nil {
			applySchema(&prop, ref.Value)
		}
		props = append(props, prop)
	}
	return props
}

func applySchema(prop *model.Property, schema *openapi3.Schema) {
	prop.TypeHint = typeHint(schema)
	if title := strings.TrimSpace(schema.Title); title != "" {
		prop.Label = title
	}
	prop.Description = strings.TrimSpace(schema.Description)
	prop.ReadOnly = schema.ReadOnly

	metadata := make(map[string]string)
	if len(schema.Enum) > 0 {
		values := make([]string, 0, len(schema.Enum))
		for _, value := range schema.Enum {
			values = append(values, fmt.Sprint(value))
		}
		metadata[model.MetadataEnum] = strings.Join(values, "|")
	}
	if category, ok := schema.Extensions[categoryExtensionKey].(string); ok {
		prop.Category = strings.TrimSpace(category)
	}
	if widget, ok := schema.Extensions[widgetExtensionKey].(string); ok && strings.TrimSpace(widget) != "" {
		metadata[model.MetadataWidget] = strings.TrimSpace(widget)
	}
	if len(metadata) > 0 {
		prop.Metadata = metadata
	}
}

func orderedNames(schema *openapi3.Schema) []string {
	var ordered []string
	seen := make(map[string]struct{}, len(schema.Properties))
	if raw, ok := schema.Extensions[orderExtensionKey].([]any); ok {
		for _, entry := range raw {
			name, ok := entry.(string)
			if !ok {
				continue
			}
			if _, exists := schema.Properties[name]; !exists {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			ordered = append(ordered, name)
		}
	}

	rest := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

func typeHint(schema *openapi3.Schema) model.FieldType {
	switch schemaType(schema) {
	case "string":
		if schema.Format == "date-time" || schema.Format == "date" {
			return model.FieldTypeTime
		}
		return model.FieldTypeString
	case "integer":
		return model.FieldTypeInteger
	case "number":
		return model.FieldTypeNumber
	case "boolean":
		return model.FieldTypeBoolean
	case "array":
		return model.FieldTypeArray
	case "object":
		return model.FieldTypeObject
	default:
		return ""
	}
}

func schemaType(schema *openapi3.Schema) string {
	if schema == nil || schema.Type == nil {
		return ""
	}
	for _, t := range schema.Type.Slice() {
		if t != "null" {
			return t
		}
	}
	return ""
}

type mapAccessor struct {
	key string
}

func (a mapAccessor) Get(source any) (any, error) {
	m, ok := source.(map[string]any)
	if !ok || m == nil {
		return nil, ErrNotMap
	}
	return m[a.key], nil
}

func (a mapAccessor) Set(source any, value any) error {
	m, ok := source.(map[string]any)
	if !ok || m == nil {
		return ErrNotMap
	}
	m[a.key] = value
	return nil
}
