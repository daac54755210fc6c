package reflection

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

var (
	// ErrNotStruct is returned when an accessor is used on a non-struct source.
	ErrNotStruct = errors.New("reflection: source is not a struct")
	// ErrNotAddressable is returned when writing through a struct passed by value.
	ErrNotAddressable = errors.New("reflection: source must be a non-nil pointer to be written")
	// ErrIncompatibleValue is returned when a value cannot be assigned to the field.
	ErrIncompatibleValue = errors.New("reflection: incompatible value")
)

// fieldAccessor reads and writes a struct field. Sources of the declaring type
// use the cached index; other struct types (a multi-source may route elements
// to a sibling type) are resolved by field name.
type fieldAccessor struct {
	owner reflect.Type
	index []int
	name  string
}

func newFieldAccessor(owner reflect.Type, field reflect.StructField) fieldAccessor {
	return fieldAccessor{owner: owner, index: field.Index, name: field.Name}
}

func (a fieldAccessor) Get(source any) (any, error) {
	field, err := a.field(reflect.ValueOf(source))
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

func (a fieldAccessor) Set(source any, value any) error {
	rv := reflect.ValueOf(source)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotAddressable
	}
	field, err := a.field(rv)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return ErrNotAddressable
	}
	assigned, err := coerce(value, field.Type())
	if err != nil {
		return fmt.Errorf("%w: field %s: %v", ErrIncompatibleValue, a.name, err)
	}
	field.Set(assigned)
	return nil
}

func (a fieldAccessor) field(rv reflect.Value) (reflect.Value, error) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("reflection: read %s: nil source", a.name)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, ErrNotStruct
	}
	if rv.Type() == a.owner {
		return rv.FieldByIndexErr(a.index)
	}
	field := rv.FieldByName(a.name)
	if !field.IsValid() {
		return reflect.Value{}, fmt.Errorf("reflection: %s has no field %s", rv.Type(), a.name)
	}
	return field, nil
}

func coerce(value any, target reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(target), nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(target) {
		return rv, nil
	}
	if target.Kind() == reflect.Pointer && rv.Type().AssignableTo(target.Elem()) {
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(rv)
		return ptr, nil
	}
	if rv.Kind() == reflect.String && target.Kind() == reflect.String {
		return rv.Convert(target), nil
	}
	if isNumeric(rv.Kind()) && isNumeric(target.Kind()) {
		return convertNumber(rv, target)
	}
	return reflect.Value{}, fmt.Errorf("cannot assign %s to %s", rv.Type(), target)
}

// convertNumber converts between numeric kinds, rejecting values the target
// cannot represent exactly: overflow, negative to unsigned, and fractional
// floats to integers.
func convertNumber(rv reflect.Value, target reflect.Type) (reflect.Value, error) {
	out := reflect.New(target).Elem()
	switch {
	case isInt(target.Kind()):
		var n int64
		switch {
		case isInt(rv.Kind()):
			n = rv.Int()
		case isUint(rv.Kind()):
			u := rv.Uint()
			if u > math.MaxInt64 {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", u, target)
			}
			n = int64(u)
		default:
			f := rv.Float()
			if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
				return reflect.Value{}, fmt.Errorf("%v is not a whole number", f)
			}
			if f < math.MinInt64 || f >= math.MaxInt64 {
				return reflect.Value{}, fmt.Errorf("%v overflows %s", f, target)
			}
			n = int64(f)
		}
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, target)
		}
		out.SetInt(n)
	case isUint(target.Kind()):
		var u uint64
		switch {
		case isInt(rv.Kind()):
			n := rv.Int()
			if n < 0 {
				return reflect.Value{}, fmt.Errorf("%d is negative, %s is unsigned", n, target)
			}
			u = uint64(n)
		case isUint(rv.Kind()):
			u = rv.Uint()
		default:
			f := rv.Float()
			if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
				return reflect.Value{}, fmt.Errorf("%v is not a whole number", f)
			}
			if f < 0 {
				return reflect.Value{}, fmt.Errorf("%v is negative, %s is unsigned", f, target)
			}
			if f >= math.MaxUint64 {
				return reflect.Value{}, fmt.Errorf("%v overflows %s", f, target)
			}
			u = uint64(f)
		}
		if out.OverflowUint(u) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", u, target)
		}
		out.SetUint(u)
	default:
		var f float64
		switch {
		case isInt(rv.Kind()):
			f = float64(rv.Int())
		case isUint(rv.Kind()):
			f = float64(rv.Uint())
		default:
			f = rv.Float()
		}
		if out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%v overflows %s", f, target)
		}
		out.SetFloat(f)
	}
	return out, nil
}

func isInt(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(kind reflect.Kind) bool {
	switch kind {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
