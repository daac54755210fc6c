// Package formbind derives live-bound form elements from Go values. It wires
// the default reflection provider, element factory, and diagnostics so callers
// can start from a struct and a filter list.
package formbind

import (
	"io/fs"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/diagnostic"
	"github.com/goliatone/go-formbind/pkg/factory"
	"github.com/goliatone/go-formbind/pkg/filter"
	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/provider"
	"github.com/goliatone/go-formbind/pkg/reflection"
	"github.com/goliatone/go-formbind/pkg/uischema"
	"github.com/goliatone/go-formbind/pkg/widgets"
)

// Element aliases model.Element for callers that only import the root package.
type Element = model.Element

// FieldFilter aliases filter.FieldFilter.
type FieldFilter = filter.FieldFilter

// Option aliases provider.Option.
type Option = provider.Option

// Pair aliases reflection.Pair for side-by-side forms.
type Pair = reflection.Pair

// Provider option aliases exposed at the module root.
var (
	WithFieldProvider     = provider.WithFieldProvider
	WithElementFactory    = provider.WithElementFactory
	WithDiagnostics       = provider.WithDiagnostics
	WithClearBeforeRefill = provider.WithClearBeforeRefill
)

// NewProvider exposes the element provider constructor from the top-level
// module.
func NewProvider(options ...Option) *provider.Provider {
	return provider.New(options...)
}

// Form holds the live handles of one derivation. Setting Source rebinds the
// elements; changing Filters re-derives them.
type Form struct {
	Elements *binding.List[*Element]
	Source   *binding.Value[any]
	Filters  *binding.List[FieldFilter]
	Provider *provider.Provider
}

// Close detaches the form from Source and Filters and disposes its elements.
func (f *Form) Close() {
	f.Provider.Close()
}

// Elements derives a live element list for source using a fresh provider.
// Filters are wrapped in an observable list so callers can keep adding stages
// through the returned form.
func Elements(source any, filters ...FieldFilter) *Form {
	form := &Form{
		Source:   binding.NewValue[any](source),
		Filters:  binding.NewList(filters...),
		Provider: provider.New(),
	}
	form.Elements = form.Provider.Elements(form.Source, form.Filters)
	return form
}

// PresetFilters loads presets from fsys and returns the filter chain for form
// id, followed by the widget decorator.
func PresetFilters(fsys fs.FS, id string) ([]FieldFilter, error) {
	store, err := uischema.LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	chain, err := store.Filters(id)
	if err != nil {
		return nil, err
	}
	return append(chain, widgets.Decorate()), nil
}

// DefaultFactory returns the element factory used when none is configured.
func DefaultFactory() factory.ElementFactory {
	return factory.New()
}

// Discard drops diagnostics; pass it through WithDiagnostics to silence a
// provider.
var Discard = diagnostic.Discard
