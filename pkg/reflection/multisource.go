package reflection

import "github.com/goliatone/go-formbind/pkg/model"

// MultipleBeanSource lets one logical source map each element to the object
// instance it should read from and write to, e.g. two records compared field
// by field.
type MultipleBeanSource interface {
	SourceFor(element *model.Element) any
}

// MultipleBeanSourceFunc adapts a function into a MultipleBeanSource.
type MultipleBeanSourceFunc func(element *model.Element) any

// SourceFor calls the wrapped function.
func (fn MultipleBeanSourceFunc) SourceFor(element *model.Element) any {
	return fn(element)
}

// AsMultipleBeanSource reports whether source implements the multi-source
// capability.
func AsMultipleBeanSource(source any) (MultipleBeanSource, bool) {
	if source == nil {
		return nil, false
	}
	multi, ok := source.(MultipleBeanSource)
	return multi, ok
}

// Prototyped is implemented by multi-sources whose sides share one shape.
// Prototype returns the object whose properties describe every side.
type Prototyped interface {
	Prototype() any
}

// Sides recognised by Pair.
const (
	SideLeft  = "left"
	SideRight = "right"
)

// Pair is a two-sided multi-source. Elements tagged with metadata
// side=right bind to Right; everything else binds to Left. Use the Sided
// filter to tag elements.
type Pair struct {
	Left  any
	Right any
}

// SourceFor implements MultipleBeanSource.
func (p *Pair) SourceFor(element *model.Element) any {
	if p == nil {
		return nil
	}
	if element != nil && element.Metadata()[model.MetadataSide] == SideRight {
		return p.Right
	}
	return p.Left
}

// Prototype implements Prototyped. It returns Left, or Right when Left is
// unset.
func (p *Pair) Prototype() any {
	if p == nil {
		return nil
	}
	if p.Left != nil {
		return p.Left
	}
	return p.Right
}

// EffectiveSource resolves the object element should bind to for the given
// top-level source value.
func EffectiveSource(top any, element *model.Element) any {
	if multi, ok := AsMultipleBeanSource(top); ok {
		return multi.SourceFor(element)
	}
	return top
}
