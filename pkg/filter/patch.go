package filter

import (
	"sort"

	"github.com/goliatone/go-formbind/pkg/model"
)

// Patch overrides presentation attributes of one element. Empty strings leave
// the attribute untouched.
type Patch struct {
	Label       string
	Description string
	Category    string
	Metadata    map[string]string
}

// PatchElements applies per-element patches keyed by element name.
type PatchElements struct {
	patches map[string]Patch
	strict  bool
}

// PatchOption configures a PatchElements filter.
type PatchOption func(*PatchElements)

// Lenient makes patches for names missing from the list a no-op instead of a
// FilterError.
func Lenient() PatchOption {
	return func(f *PatchElements) {
		f.strict = false
	}
}

// PatchFields returns a filter applying patches. By default a patch naming an
// element that is not in the list fails the stage.
func PatchFields(patches map[string]Patch, options ...PatchOption) *PatchElements {
	f := &PatchElements{patches: make(map[string]Patch, len(patches)), strict: true}
	for name, patch := range patches {
		f.patches[name] = patch
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

func (f *PatchElements) Name() string { return "patch" }

func (f *PatchElements) Filter(elements []*model.Element) ([]*model.Element, error) {
	byName := make(map[string]*model.Element, len(elements))
	for _, el := range elements {
		byName[el.Name()] = el
	}
	if f.strict {
		var missing []string
		for name := range f.patches {
			if _, ok := byName[name]; !ok {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return nil, Errorf(f.Name(), "unknown fields %v", missing)
		}
	}
	for name, patch := range f.patches {
		el, ok := byName[name]
		if !ok {
			continue
		}
		if patch.Label != "" {
			el.SetLabel(patch.Label)
		}
		if patch.Description != "" {
			el.SetDescription(patch.Description)
		}
		if patch.Category != "" {
			el.SetCategory(patch.Category)
		}
		for key, value := range patch.Metadata {
			el.Metadata()[key] = value
		}
	}
	return append([]*model.Element(nil), elements...), nil
}
