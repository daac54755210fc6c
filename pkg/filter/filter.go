// Package filter defines the composable transformation stages applied to a
// candidate element list: inclusion, exclusion, ordering, grouping, and
// per-element patches. Filters run in sequence, each consuming the previous
// stage's output. A filter must treat its input slice as read-only and return
// a new slice.
package filter

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formbind/pkg/model"
)

// ErrInvalidConfig marks filters whose configuration cannot be applied.
var ErrInvalidConfig = errors.New("filter: invalid configuration")

// FieldFilter transforms an ordered element list.
type FieldFilter interface {
	Filter(elements []*model.Element) ([]*model.Element, error)
}

// IncludeFilter is a FieldFilter that also restricts which properties are
// reflected in the first place. The provider honours the first IncludeFilter
// in a chain when extracting properties.
type IncludeFilter interface {
	FieldFilter
	Names() []string
}

// AsIncludeFilter reports whether f carries an inclusion allow-list.
func AsIncludeFilter(f FieldFilter) (IncludeFilter, bool) {
	if f == nil {
		return nil, false
	}
	include, ok := f.(IncludeFilter)
	return include, ok
}

// FirstInclude returns the first IncludeFilter in filters.
func FirstInclude(filters []FieldFilter) (IncludeFilter, bool) {
	for _, f := range filters {
		if include, ok := AsIncludeFilter(f); ok {
			return include, true
		}
	}
	return nil, false
}

// Named is implemented by filters that can describe themselves in
// diagnostics.
type Named interface {
	Name() string
}

// NameOf returns a printable identifier for f.
func NameOf(f FieldFilter) string {
	if named, ok := f.(Named); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", f)
}

// FilterError reports a filter that could not process its input.
type FilterError struct {
	Filter string
	Err    error
}

func (e *FilterError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("filter: %s: %v", e.Filter, e.Err)
}

func (e *FilterError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Errorf builds a *FilterError wrapping ErrInvalidConfig.
func Errorf(filter, format string, args ...any) error {
	return &FilterError{Filter: filter, Err: fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))}
}

// Func adapts a function into a FieldFilter.
type Func func(elements []*model.Element) ([]*model.Element, error)

// Filter calls the wrapped function; a nil Func passes the input through.
func (fn Func) Filter(elements []*model.Element) ([]*model.Element, error) {
	if fn == nil {
		return elements, nil
	}
	return fn(elements)
}

// Apply runs filters in order over elements. A failing filter is skipped: its
// input flows unchanged into the next stage and onFailure, when non-nil,
// receives the error.
func Apply(elements []*model.Element, filters []FieldFilter, onFailure func(FieldFilter, error)) []*model.Element {
	return ApplyStages(elements, filters, onFailure, nil)
}

// ApplyStages is Apply with a hook that observes the output of every
// successful stage before the next one runs.
func ApplyStages(elements []*model.Element, filters []FieldFilter, onFailure func(FieldFilter, error), afterStage func([]*model.Element)) []*model.Element {
	current := elements
	for _, f := range filters {
		if f == nil {
			continue
		}
		next, err := f.Filter(readOnly(current))
		if err != nil {
			if onFailure != nil {
				onFailure(f, err)
			}
			continue
		}
		current = next
		if afterStage != nil {
			afterStage(current)
		}
	}
	return current
}

// readOnly caps capacity so a filter appending to its input cannot clobber
// the caller's backing array.
func readOnly(elements []*model.Element) []*model.Element {
	return elements[:len(elements):len(elements)]
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func cloneNames(names []string) []string {
	return append([]string(nil), names...)
}
