package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formbind/pkg/filter"
	"github.com/goliatone/go-formbind/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetToggle     = "toggle"
	WidgetSelect     = "select"
	WidgetChips      = "chips"
	WidgetDateTime   = "datetime"
	WidgetNumber     = "number"
	WidgetJSONEditor = "json-editor"
	WidgetText       = "text"
)

// Matcher decides whether a widget should handle the supplied element.
type Matcher func(el *model.Element) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for elements based on explicit metadata or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for an element. Explicit widget metadata is
// honoured before matcher evaluation.
func (r *Registry) Resolve(el *model.Element) (string, bool) {
	if el == nil {
		return "", false
	}
	if explicit := strings.TrimSpace(el.Metadata()[model.MetadataWidget]); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(el) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate returns a FieldFilter that records the resolved widget in each
// element's metadata. Existing widget metadata is preserved.
func (r *Registry) Decorate() filter.FieldFilter {
	return decorator{registry: r}
}

type decorator struct {
	registry *Registry
}

func (d decorator) Name() string { return "widgets" }

func (d decorator) Filter(elements []*model.Element) ([]*model.Element, error) {
	for _, el := range elements {
		if widget, ok := d.registry.Resolve(el); ok && widget != "" {
			el.Metadata()[model.MetadataWidget] = widget
		}
	}
	return append([]*model.Element(nil), elements...), nil
}

func hasEnum(el *model.Element) bool {
	return strings.TrimSpace(el.Metadata()[model.MetadataEnum]) != ""
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetToggle, 90, func(el *model.Element) bool {
		return el.Type() == model.FieldTypeBoolean
	})

	r.Register(WidgetChips, 80, func(el *model.Element) bool {
		return el.Type() == model.FieldTypeArray
	})

	r.Register(WidgetSelect, 70, func(el *model.Element) bool {
		if el.Type() == model.FieldTypeArray || el.Type() == model.FieldTypeObject {
			return false
		}
		return hasEnum(el)
	})

	r.Register(WidgetDateTime, 60, func(el *model.Element) bool {
		return el.Type() == model.FieldTypeTime
	})

	r.Register(WidgetNumber, 50, func(el *model.Element) bool {
		return el.Type() == model.FieldTypeInteger || el.Type() == model.FieldTypeNumber
	})

	r.Register(WidgetJSONEditor, 40, func(el *model.Element) bool {
		return el.Type() == model.FieldTypeObject
	})

	r.Register(WidgetText, 0, func(el *model.Element) bool {
		return el.Type() == model.FieldTypeString
	})
}

// Decorate returns a FieldFilter annotating elements using the built-in
// registry.
func Decorate() filter.FieldFilter {
	return NewRegistry().Decorate()
}
