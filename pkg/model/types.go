package model

import (
	"reflect"
	"slices"
)

// FieldType is the simplified enum for form-friendly field kinds. The zero
// value means the type could not be resolved.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
	FieldTypeTime    FieldType = "time"
)

// Resolved reports whether the type names a concrete field kind.
func (t FieldType) Resolved() bool {
	return t != ""
}

// Common metadata keys understood by the built-in filters and widgets.
const (
	MetadataCategory      = "category"
	MetadataCategoryIndex = "category.index"
	MetadataSide          = "side"
	MetadataVisual        = "visual"
	MetadataWidget        = "widget"
	MetadataEnum          = "enum"
)

// Accessor reads and writes one property on a concrete source instance.
type Accessor interface {
	Get(source any) (any, error)
	Set(source any, value any) error
}

// AccessorFuncs adapts a pair of functions into an Accessor. A nil Setter
// makes the property read-only.
type AccessorFuncs struct {
	Getter func(source any) (any, error)
	Setter func(source any, value any) error
}

// Get calls Getter.
func (a AccessorFuncs) Get(source any) (any, error) {
	if a.Getter == nil {
		return nil, ErrNoAccessor
	}
	return a.Getter(source)
}

// Set calls Setter.
func (a AccessorFuncs) Set(source any, value any) error {
	if a.Setter == nil {
		return ErrReadOnly
	}
	return a.Setter(source, value)
}

// Property describes one reflectable property of a source object. Index is the
// declaration position within the owning type and drives natural ordering.
type Property struct {
	Name        string
	Index       int
	GoType      reflect.Type
	TypeHint    FieldType
	Label       string
	Description string
	Category    string
	Tags        []string
	Required    bool
	ReadOnly    bool
	Metadata    map[string]string
	Accessor    Accessor
}

// Clone returns a copy whose slices and maps can be mutated independently.
func (p Property) Clone() Property {
	clone := p
	clone.Tags = slices.Clone(p.Tags)
	if p.Metadata != nil {
		clone.Metadata = make(map[string]string, len(p.Metadata))
		for key, value := range p.Metadata {
			clone.Metadata[key] = value
		}
	}
	return clone
}
