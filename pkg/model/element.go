package model

import (
	"fmt"

	"github.com/goliatone/go-formbind/pkg/binding"
)

// Element is the runtime representation of one form field: a resolved type,
// presentation attributes, and a reactive source the property is read from
// and written to.
//
// The source is a binding.Value so the provider can rebind an element to a
// new object without recreating it. Elements are confined to the goroutine
// that owns the form.
type Element struct {
	property    Property
	fieldType   FieldType
	label       string
	description string
	category    string
	metadata    map[string]string

	source      *binding.Value[any]
	observed    *binding.Value[any]
	releaseBind func()
	stopObserve func()
	disposed    bool
}

// NewElement creates an element for property with the resolved fieldType.
// Presentation attributes start from the property's label, description, and
// category.
func NewElement(property Property, fieldType FieldType) *Element {
	prop := property.Clone()
	metadata := prop.Metadata
	if metadata == nil {
		metadata = make(map[string]string)
	}
	if prop.Category != "" && metadata[MetadataCategory] == "" {
		metadata[MetadataCategory] = prop.Category
	}

	el := &Element{
		property:    prop,
		fieldType:   fieldType,
		label:       prop.Label,
		description: prop.Description,
		category:    prop.Category,
		metadata:    metadata,
		source:      binding.NewValue[any](nil),
		observed:    binding.NewValue[any](nil),
	}
	el.stopObserve = el.source.AddListener(func(_, _ any) {
		el.refresh()
	})
	return el
}

// Name returns the property name, which doubles as the element key.
func (e *Element) Name() string {
	return e.property.Name
}

// Property returns the descriptor the element was created from.
func (e *Element) Property() Property {
	return e.property
}

// Type returns the resolved field type. An empty type marks the element as not
// form-eligible.
func (e *Element) Type() FieldType {
	return e.fieldType
}

// Label returns the display label.
func (e *Element) Label() string {
	return e.label
}

// SetLabel overrides the display label.
func (e *Element) SetLabel(label string) {
	e.label = label
}

// Description returns the help text.
func (e *Element) Description() string {
	return e.description
}

// SetDescription overrides the help text.
func (e *Element) SetDescription(description string) {
	e.description = description
}

// Category returns the group the element belongs to, if any.
func (e *Element) Category() string {
	return e.category
}

func (e *Element) ReadOnly() bool {
	return e.property.ReadOnly
}

func (e *Element) Required() bool {
	return e.property.Required
}

// Metadata returns the element's mutable metadata map. Filters use it to
// annotate elements (side, widget, category index).
func (e *Element) Metadata() map[string]string {
	return e.metadata
}

// SetCategory updates the category and mirrors it into metadata.
func (e *Element) SetCategory(category string) {
	e.category = category
	if category == "" {
		delete(e.metadata, MetadataCategory)
		return
	}
	e.metadata[MetadataCategory] = category
}

// Source exposes the reactive effective source. Renderers may observe it; the
// element provider binds it.
func (e *Element) Source() *binding.Value[any] {
	return e.source
}

// BindSource binds the element's source to compute(top). Any previous binding
// is released first.
func (e *Element) BindSource(top *binding.Value[any], compute func(any) any) {
	e.Unbind()
	e.releaseBind = binding.Bind(e.source, top, compute)
}

// Unbind releases the source binding, leaving the last bound source in place.
func (e *Element) Unbind() {
	if e.releaseBind != nil {
		e.releaseBind()
		e.releaseBind = nil
	}
}

// Bound reports whether the element currently follows a top-level source.
func (e *Element) Bound() bool {
	return e.releaseBind != nil
}

// Value reads the property from the current effective source.
func (e *Element) Value() (any, error) {
	src := e.source.Get()
	if src == nil {
		return nil, ErrNoSource
	}
	if e.property.Accessor == nil {
		return nil, ErrNoAccessor
	}
	value, err := e.property.Accessor.Get(src)
	if err != nil {
		return nil, fmt.Errorf("model: read %s: %w", e.Name(), err)
	}
	return value, nil
}

// SetValue writes the property on the current effective source and notifies
// value listeners.
func (e *Element) SetValue(value any) error {
	if e.property.ReadOnly {
		return ErrReadOnly
	}
	src := e.source.Get()
	if src == nil {
		return ErrNoSource
	}
	if e.property.Accessor == nil {
		return ErrNoAccessor
	}
	if err := e.property.Accessor.Set(src, value); err != nil {
		return fmt.Errorf("model: write %s: %w", e.Name(), err)
	}
	e.refresh()
	return nil
}

// OnValueChange registers fn to be called after SetValue and after the
// effective source changes. It returns a function removing the listener.
func (e *Element) OnValueChange(fn func(old, current any)) func() {
	return e.observed.AddListener(fn)
}

// Dispose releases the source binding and internal listeners. A disposed
// element keeps answering reads but no longer follows its source.
func (e *Element) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.Unbind()
	if e.stopObserve != nil {
		e.stopObserve()
		e.stopObserve = nil
	}
}

// Disposed reports whether Dispose has been called.
func (e *Element) Disposed() bool {
	return e.disposed
}

func (e *Element) refresh() {
	value, err := e.Value()
	if err != nil {
		value = nil
	}
	e.observed.Set(value)
}

// String implements fmt.Stringer for diagnostics.
func (e *Element) String() string {
	return fmt.Sprintf("%s(%s)", e.Name(), e.fieldType)
}
