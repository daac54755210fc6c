// Package provider derives the observable element list for a form. It
// reflects the source object's properties, turns them into elements, runs the
// filter chain, and keeps the published list consistent as the filter list or
// the source object changes.
package provider

import (
	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/diagnostic"
	"github.com/goliatone/go-formbind/pkg/factory"
	"github.com/goliatone/go-formbind/pkg/filter"
	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/reflection"
)

// ElementProvider publishes the element list for a source and filter list.
type ElementProvider interface {
	Elements(source *binding.Value[any], filters *binding.List[filter.FieldFilter]) *binding.List[*model.Element]
}

// Option customises a Provider.
type Option func(*Provider)

// WithFieldProvider overrides the property reflection strategy.
func WithFieldProvider(fields reflection.FieldProvider) Option {
	return func(p *Provider) {
		if fields != nil {
			p.fields = fields
		}
	}
}

// WithElementFactory overrides the element factory.
func WithElementFactory(f factory.ElementFactory) Option {
	return func(p *Provider) {
		if f != nil {
			p.factory = f
		}
	}
}

// WithDiagnostics routes non-fatal failures to sink. Defaults to a warn-level
// zap logger.
func WithDiagnostics(sink diagnostic.Sink) Option {
	return func(p *Provider) {
		if sink != nil {
			p.sink = sink
		}
	}
}

// WithClearBeforeRefill publishes re-derivations as a Clear followed by a
// SetAll, so list listeners observe a transient empty list. The default is a
// single SetAll.
func WithClearBeforeRefill() Option {
	return func(p *Provider) {
		p.clearBeforeRefill = true
	}
}

// Provider is the default ElementProvider. Like the lists it manages, it must
// be used from the goroutine that owns the form.
type Provider struct {
	fields            reflection.FieldProvider
	factory           factory.ElementFactory
	sink              diagnostic.Sink
	clearBeforeRefill bool
	sessions          map[*binding.List[*model.Element]]*session
}

type session struct {
	source      *binding.Value[any]
	filters     *binding.List[filter.FieldFilter]
	elements    *binding.List[*model.Element]
	current     []*model.Element
	stopFilters func()
}

// New constructs a Provider with the struct field provider, the default
// element factory, and a zap-backed diagnostic sink unless overridden.
func New(options ...Option) *Provider {
	p := &Provider{
		sessions: make(map[*binding.List[*model.Element]]*session),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	if p.fields == nil {
		p.fields = reflection.NewStructFieldProvider()
	}
	if p.factory == nil {
		p.factory = factory.New()
	}
	if p.sink == nil {
		p.sink = diagnostic.DefaultSink()
	}
	return p
}

// Elements derives the element list synchronously and returns a long-lived
// handle to it. Every change to filters re-derives the list from scratch;
// every change to source rebinds the existing elements. The returned list is
// never replaced, only refilled. Nil arguments are treated as an empty source
// and an empty filter list.
func (p *Provider) Elements(source *binding.Value[any], filters *binding.List[filter.FieldFilter]) *binding.List[*model.Element] {
	if source == nil {
		source = binding.NewValue[any](nil)
	}
	if filters == nil {
		filters = binding.NewList[filter.FieldFilter]()
	}

	s := &session{
		source:   source,
		filters:  filters,
		elements: binding.NewList[*model.Element](),
	}
	p.refresh(s, false)
	s.stopFilters = filters.AddListener(func(binding.Change[filter.FieldFilter]) {
		p.refresh(s, p.clearBeforeRefill)
	})
	p.sessions[s.elements] = s
	return s.elements
}

// Derive runs one derivation pass against source and filters and returns the
// surviving elements. Each element's source is set to its effective source
// before the filters run, so filters may read values. The elements do not
// follow later changes to any top-level value.
func (p *Provider) Derive(source any, filters []filter.FieldFilter) []*model.Element {
	return p.derive(source, filters, func(el *model.Element) {
		el.Source().Set(reflection.EffectiveSource(source, el))
	})
}

// derive creates elements, attaches each one to its source as soon as it is
// created, then re-attaches the output of every filter stage so metadata set
// by a filter (such as a side) routes the values later stages read.
func (p *Provider) derive(source any, filters []filter.FieldFilter, attach func(*model.Element)) []*model.Element {
	candidates := p.createElements(source, filters, attach)
	onFailure := func(f filter.FieldFilter, err error) {
		p.sink.Report(diagnostic.Event{
			Kind:   diagnostic.KindFilterFailed,
			Filter: filter.NameOf(f),
			Err:    err,
		})
	}
	result := filter.ApplyStages(candidates, filters, onFailure, func(stage []*model.Element) {
		for _, el := range stage {
			attach(el)
		}
	})
	result = uniqueByName(result)
	disposeDropped(candidates, result)
	return result
}

// Release stops tracking the list returned by Elements: the filter listener
// is removed and the published elements are disposed. The list keeps its last
// contents.
func (p *Provider) Release(elements *binding.List[*model.Element]) {
	s, ok := p.sessions[elements]
	if !ok {
		return
	}
	delete(p.sessions, elements)
	s.stopFilters()
	disposeAll(s.current)
	s.current = nil
}

// Close releases every list handed out by Elements.
func (p *Provider) Close() {
	for elements := range p.sessions {
		p.Release(elements)
	}
}

func (p *Provider) refresh(s *session, clearFirst bool) {
	next := p.derive(s.source.Get(), s.filters.Items(), func(el *model.Element) {
		bindSource(el, s.source)
	})

	previous := s.current
	s.current = next
	if clearFirst {
		s.elements.Clear()
	}
	s.elements.SetAll(next)
	disposeDropped(previous, next)
}

func (p *Provider) createElements(source any, filters []filter.FieldFilter, attach func(*model.Element)) []*model.Element {
	var props []model.Property
	if include, ok := filter.FirstInclude(filters); ok {
		props = p.fields.PropertiesNamed(source, include.Names())
	} else {
		props = p.fields.Properties(source)
	}

	elements := make([]*model.Element, 0, len(props))
	for _, prop := range props {
		el, err := p.factory.Create(prop)
		if err != nil {
			p.sink.Report(diagnostic.Event{
				Kind:     diagnostic.KindElementCreateFailed,
				Property: prop.Name,
				Err:      err,
			})
			continue
		}
		if el == nil || !el.Type().Resolved() {
			if el != nil {
				el.Dispose()
			}
			p.sink.Report(diagnostic.Event{
				Kind:     diagnostic.KindElementUntyped,
				Property: prop.Name,
			})
			continue
		}
		attach(el)
		elements = append(elements, el)
	}
	return elements
}

func bindSource(el *model.Element, source *binding.Value[any]) {
	el.BindSource(source, func(top any) any {
		return reflection.EffectiveSource(top, el)
	})
}

func uniqueByName(elements []*model.Element) []*model.Element {
	seen := make(map[string]struct{}, len(elements))
	out := make([]*model.Element, 0, len(elements))
	for _, el := range elements {
		if el == nil {
			continue
		}
		if _, dup := seen[el.Name()]; dup {
			continue
		}
		seen[el.Name()] = struct{}{}
		out = append(out, el)
	}
	return out
}

func disposeDropped(candidates, kept []*model.Element) {
	survivors := make(map[*model.Element]struct{}, len(kept))
	for _, el := range kept {
		survivors[el] = struct{}{}
	}
	for _, el := range candidates {
		if _, ok := survivors[el]; !ok {
			el.Dispose()
		}
	}
}

func disposeAll(elements []*model.Element) {
	for _, el := range elements {
		el.Dispose()
	}
}
