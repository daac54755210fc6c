package filter

import (
	"strconv"

	"github.com/goliatone/go-formbind/pkg/model"
)

// IncludeNames keeps only the named elements. As an IncludeFilter it also
// gates property extraction, so its own filtering pass is normally a no-op.
type IncludeNames struct {
	names []string
}

// Include returns an IncludeFilter for names.
func Include(names ...string) *IncludeNames {
	return &IncludeNames{names: cloneNames(names)}
}

// Names implements IncludeFilter.
func (f *IncludeNames) Names() []string {
	return cloneNames(f.names)
}

func (f *IncludeNames) Name() string { return "include" }

// Filter keeps named elements in their current order.
func (f *IncludeNames) Filter(elements []*model.Element) ([]*model.Element, error) {
	allowed := nameSet(f.names)
	out := make([]*model.Element, 0, len(elements))
	for _, el := range elements {
		if _, ok := allowed[el.Name()]; ok {
			out = append(out, el)
		}
	}
	return out, nil
}

// ExcludeNames drops the named elements.
type ExcludeNames struct {
	names []string
}

// Exclude returns a filter removing names.
func Exclude(names ...string) *ExcludeNames {
	return &ExcludeNames{names: cloneNames(names)}
}

func (f *ExcludeNames) Name() string { return "exclude" }

func (f *ExcludeNames) Filter(elements []*model.Element) ([]*model.Element, error) {
	denied := nameSet(f.names)
	out := make([]*model.Element, 0, len(elements))
	for _, el := range elements {
		if _, ok := denied[el.Name()]; !ok {
			out = append(out, el)
		}
	}
	return out, nil
}

// ReorderNames moves the named elements to the front in the given order. The
// remaining elements keep their relative order. Unknown names are ignored.
type ReorderNames struct {
	names []string
}

// Reorder returns a reordering filter.
func Reorder(names ...string) *ReorderNames {
	return &ReorderNames{names: cloneNames(names)}
}

func (f *ReorderNames) Name() string { return "reorder" }

func (f *ReorderNames) Filter(elements []*model.Element) ([]*model.Element, error) {
	byName := make(map[string]*model.Element, len(elements))
	for _, el := range elements {
		if _, exists := byName[el.Name()]; !exists {
			byName[el.Name()] = el
		}
	}
	out := make([]*model.Element, 0, len(elements))
	placed := make(map[*model.Element]struct{}, len(f.names))
	for _, name := range f.names {
		el, ok := byName[name]
		if !ok {
			continue
		}
		if _, dup := placed[el]; dup {
			continue
		}
		placed[el] = struct{}{}
		out = append(out, el)
	}
	for _, el := range elements {
		if _, ok := placed[el]; !ok {
			out = append(out, el)
		}
	}
	return out, nil
}

// LimitCount truncates the list to its first N elements.
type LimitCount struct {
	n int
}

// Limit returns a truncating filter. A negative n fails with a FilterError.
func Limit(n int) *LimitCount {
	return &LimitCount{n: n}
}

func (f *LimitCount) Name() string { return "limit" }

func (f *LimitCount) Filter(elements []*model.Element) ([]*model.Element, error) {
	if f.n < 0 {
		return nil, Errorf(f.Name(), "negative limit %d", f.n)
	}
	if len(elements) <= f.n {
		return append([]*model.Element(nil), elements...), nil
	}
	return append([]*model.Element(nil), elements[:f.n]...), nil
}

// CategorizeElements groups elements by category. Listed categories come
// first in the given order, then unlisted categories in first-seen order, then
// uncategorised elements. Ordering within a group is preserved and each
// element's group position is written to metadata "category.index".
type CategorizeElements struct {
	categories []string
}

// Categorize returns a grouping filter.
func Categorize(categories ...string) *CategorizeElements {
	return &CategorizeElements{categories: cloneNames(categories)}
}

func (f *CategorizeElements) Name() string { return "categorize" }

func (f *CategorizeElements) Filter(elements []*model.Element) ([]*model.Element, error) {
	order := cloneNames(f.categories)
	known := nameSet(order)
	groups := make(map[string][]*model.Element)
	var uncategorised []*model.Element
	for _, el := range elements {
		category := el.Category()
		if category == "" {
			uncategorised = append(uncategorised, el)
			continue
		}
		if _, ok := known[category]; !ok {
			known[category] = struct{}{}
			order = append(order, category)
		}
		groups[category] = append(groups[category], el)
	}

	out := make([]*model.Element, 0, len(elements))
	index := 0
	for _, category := range order {
		members := groups[category]
		if len(members) == 0 {
			continue
		}
		for _, el := range members {
			el.Metadata()[model.MetadataCategoryIndex] = strconv.Itoa(index)
		}
		out = append(out, members...)
		index++
	}
	return append(out, uncategorised...), nil
}

// NonVisualElements drops elements marked visual=false.
type NonVisualElements struct{}

// NonVisual returns a filter removing non-visual elements.
func NonVisual() NonVisualElements {
	return NonVisualElements{}
}

func (NonVisualElements) Name() string { return "nonvisual" }

func (NonVisualElements) Filter(elements []*model.Element) ([]*model.Element, error) {
	out := make([]*model.Element, 0, len(elements))
	for _, el := range elements {
		if el.Metadata()[model.MetadataVisual] == "false" {
			continue
		}
		out = append(out, el)
	}
	return out, nil
}

// SidedElements tags named elements with a side so multi-sources such as
// reflection.Pair can route them. With no names every element is tagged.
type SidedElements struct {
	side  string
	names []string
}

// Sided returns a side-tagging filter. An empty side fails with a
// FilterError.
func Sided(side string, names ...string) *SidedElements {
	return &SidedElements{side: side, names: cloneNames(names)}
}

func (f *SidedElements) Name() string { return "sided" }

func (f *SidedElements) Filter(elements []*model.Element) ([]*model.Element, error) {
	if f.side == "" {
		return nil, Errorf(f.Name(), "side is required")
	}
	targets := nameSet(f.names)
	for _, el := range elements {
		if len(targets) > 0 {
			if _, ok := targets[el.Name()]; !ok {
				continue
			}
		}
		el.Metadata()[model.MetadataSide] = f.side
	}
	return append([]*model.Element(nil), elements...), nil
}
