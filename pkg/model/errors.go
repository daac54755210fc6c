package model

import "errors"

var (
	// ErrNoSource is returned when an element is read or written while its
	// effective source is nil.
	ErrNoSource = errors.New("model: element has no source")
	// ErrReadOnly is returned when writing a read-only property.
	ErrReadOnly = errors.New("model: property is read-only")
	// ErrNoAccessor is returned when a property carries no accessor.
	ErrNoAccessor = errors.New("model: property has no accessor")
)
