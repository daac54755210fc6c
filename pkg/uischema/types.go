package uischema

import (
	"github.com/goliatone/go-formbind/pkg/filter"
	"github.com/goliatone/go-formbind/pkg/model"
)

// Store holds the presets loaded from one or more documents keyed by form id.
type Store struct {
	forms map[string]Form
}

// Form describes the filter chain for one form id. A zero Limit means
// unlimited.
type Form struct {
	ID         string
	Source     string
	Include    []string
	Exclude    []string
	Subset     filter.FieldSubset
	Order      []string
	Categories []string
	Limit      int
	Fields     map[string]FieldConfig
}

// FieldConfig overrides presentation attributes of a single field.
type FieldConfig struct {
	Label       string            `json:"label" yaml:"label"`
	Description string            `json:"description" yaml:"description"`
	Category    string            `json:"category" yaml:"category"`
	Widget      string            `json:"widget" yaml:"widget"`
	Metadata    map[string]string `json:"metadata" yaml:"metadata"`
}

// Filters builds the chain: include, exclude, subset, reorder, field patches,
// categorize, then limit. Patches run before grouping so preset categories
// take part in it. Stages without configuration are omitted.
func (f Form) Filters() []filter.FieldFilter {
	var chain []filter.FieldFilter
	if len(f.Include) > 0 {
		chain = append(chain, filter.Include(f.Include...))
	}
	if len(f.Exclude) > 0 {
		chain = append(chain, filter.Exclude(f.Exclude...))
	}
	if !f.Subset.Empty() {
		chain = append(chain, filter.Subset(f.Subset))
	}
	if len(f.Order) > 0 {
		chain = append(chain, filter.Reorder(f.Order...))
	}
	if len(f.Fields) > 0 {
		chain = append(chain, filter.PatchFields(f.patches(), filter.Lenient()))
	}
	if len(f.Categories) > 0 {
		chain = append(chain, filter.Categorize(f.Categories...))
	}
	if f.Limit > 0 {
		chain = append(chain, filter.Limit(f.Limit))
	}
	return chain
}

func (f Form) patches() map[string]filter.Patch {
	out := make(map[string]filter.Patch, len(f.Fields))
	for name, cfg := range f.Fields {
		patch := filter.Patch{
			Label:       cfg.Label,
			Description: cfg.Description,
			Category:    cfg.Category,
		}
		if len(cfg.Metadata) > 0 || cfg.Widget != "" {
			patch.Metadata = make(map[string]string, len(cfg.Metadata)+1)
			for k, v := range cfg.Metadata {
				patch.Metadata[k] = v
			}
			if cfg.Widget != "" {
				patch.Metadata[model.MetadataWidget] = cfg.Widget
			}
		}
		out[name] = patch
	}
	return out
}
