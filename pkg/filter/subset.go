package filter

import (
	"strings"

	"github.com/goliatone/go-formbind/pkg/model"
)

// FieldSubset selects elements by category or tag. An element matches when
// any of its category or tags is listed. Matching is case-insensitive.
type FieldSubset struct {
	Categories []string
	Tags       []string
}

// Empty reports whether the subset selects nothing in particular.
func (s FieldSubset) Empty() bool {
	return len(normaliseTokens(s.Categories)) == 0 && len(normaliseTokens(s.Tags)) == 0
}

// SubsetElements keeps the elements matching a FieldSubset.
type SubsetElements struct {
	categories map[string]struct{}
	tags       map[string]struct{}
}

// Subset returns a filter keeping elements that match subset. An empty subset
// passes every element through.
func Subset(subset FieldSubset) *SubsetElements {
	return &SubsetElements{
		categories: normaliseTokens(subset.Categories),
		tags:       normaliseTokens(subset.Tags),
	}
}

func (f *SubsetElements) Name() string { return "subset" }

func (f *SubsetElements) Filter(elements []*model.Element) ([]*model.Element, error) {
	if len(f.categories) == 0 && len(f.tags) == 0 {
		return append([]*model.Element(nil), elements...), nil
	}
	out := make([]*model.Element, 0, len(elements))
	for _, el := range elements {
		if f.matches(el) {
			out = append(out, el)
		}
	}
	return out, nil
}

func (f *SubsetElements) matches(el *model.Element) bool {
	if category := normaliseToken(el.Category()); category != "" {
		if _, ok := f.categories[category]; ok {
			return true
		}
	}
	for _, tag := range el.Property().Tags {
		if _, ok := f.tags[normaliseToken(tag)]; ok {
			return true
		}
	}
	return false
}

func normaliseTokens(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		if token := normaliseToken(value); token != "" {
			out[token] = struct{}{}
		}
	}
	return out
}

func normaliseToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
