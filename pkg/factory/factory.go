// Package factory turns reflected properties into form elements.
package factory

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/goliatone/go-formbind/pkg/model"
)

// ErrUnsupportedType signals that a property type maps to no element kind.
var ErrUnsupportedType = errors.New("factory: unsupported property type")

// FormError reports a property the factory could not turn into an element.
type FormError struct {
	Property string
	Type     string
	Err      error
}

func (e *FormError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("factory: property %q (%s): %v", e.Property, e.Type, e.Err)
}

func (e *FormError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ElementFactory creates exactly one element per property or fails with a
// *FormError.
type ElementFactory interface {
	Create(property model.Property) (*model.Element, error)
}

// Func adapts a function into an ElementFactory.
type Func func(property model.Property) (*model.Element, error)

// Create calls the wrapped function.
func (fn Func) Create(property model.Property) (*model.Element, error) {
	return fn(property)
}

// KindMapper maps a Go type to a field type. Returning false defers to the
// next mapper and finally to the built-in mapping.
type KindMapper func(reflect.Type) (model.FieldType, bool)

// Option configures the default factory.
type Option func(*Default)

// WithKindMapper registers a custom mapper consulted before the built-in rules,
// in registration order.
func WithKindMapper(mapper KindMapper) Option {
	return func(f *Default) {
		if mapper != nil {
			f.mappers = append(f.mappers, mapper)
		}
	}
}

// Default maps Go kinds onto FieldTypes.
type Default struct {
	mappers []KindMapper
}

// New constructs the default factory.
func New(options ...Option) *Default {
	f := &Default{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

var timeType = reflect.TypeOf(time.Time{})

// Create implements ElementFactory. Properties without a Go type use their
// TypeHint; interface-typed properties without a hint yield an element whose
// type is unresolved.
func (f *Default) Create(property model.Property) (*model.Element, error) {
	if property.GoType == nil {
		return model.NewElement(property, property.TypeHint), nil
	}
	fieldType, err := f.resolve(property.GoType)
	if err != nil {
		return nil, &FormError{Property: property.Name, Type: property.GoType.String(), Err: err}
	}
	if !fieldType.Resolved() && property.TypeHint.Resolved() {
		fieldType = property.TypeHint
	}
	return model.NewElement(property, fieldType), nil
}

func (f *Default) resolve(typ reflect.Type) (model.FieldType, error) {
	for _, mapper := range f.mappers {
		if fieldType, ok := mapper(typ); ok {
			return fieldType, nil
		}
	}
	if typ == timeType {
		return model.FieldTypeTime, nil
	}
	switch typ.Kind() {
	case reflect.Pointer:
		return f.resolve(typ.Elem())
	case reflect.Bool:
		return model.FieldTypeBoolean, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return model.FieldTypeInteger, nil
	case reflect.Float32, reflect.Float64:
		return model.FieldTypeNumber, nil
	case reflect.String:
		return model.FieldTypeString, nil
	case reflect.Slice, reflect.Array:
		return model.FieldTypeArray, nil
	case reflect.Map, reflect.Struct:
		return model.FieldTypeObject, nil
	case reflect.Interface:
		return "", nil
	default:
		return "", ErrUnsupportedType
	}
}
