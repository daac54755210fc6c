package uischema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbind/pkg/filter"
)

// LoadFS walks the provided filesystem and parses JSON/YAML preset files.
// When fsys is nil or no preset files are present, the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isPresetFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("uischema: read %s: %w", path, err)
		}
		return store.add(data, path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Load parses a single document. source names it in error messages.
func Load(data []byte, source string) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if err := store.add(data, source); err != nil {
		return nil, err
	}
	return store, nil
}

// Form returns the preset for the supplied form id.
func (s *Store) Form(id string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	form, ok := s.forms[strings.TrimSpace(id)]
	return form, ok
}

// Filters returns the filter chain for the supplied form id.
func (s *Store) Filters(id string) ([]filter.FieldFilter, error) {
	form, ok := s.Form(id)
	if !ok {
		return nil, fmt.Errorf("uischema: unknown form %q", id)
	}
	return form.Filters(), nil
}

// IDs lists the form ids in the store, sorted.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

type documentFile struct {
	Forms map[string]formFile `json:"forms" yaml:"forms"`
}

type subsetFile struct {
	Categories []string `json:"categories" yaml:"categories"`
	Tags       []string `json:"tags" yaml:"tags"`
}

type formFile struct {
	Include    []string               `json:"include" yaml:"include"`
	Exclude    []string               `json:"exclude" yaml:"exclude"`
	Subset     subsetFile             `json:"subset" yaml:"subset"`
	Order      []string               `json:"order" yaml:"order"`
	Categories []string               `json:"categories" yaml:"categories"`
	Limit      int                    `json:"limit" yaml:"limit"`
	Fields     map[string]FieldConfig `json:"fields" yaml:"fields"`
}

func (s *Store) add(data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}
	for rawID, raw := range doc.Forms {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return fmt.Errorf("uischema: file %s defines an empty form id", source)
		}
		if _, exists := s.forms[id]; exists {
			return fmt.Errorf("uischema: duplicate form %q (file %s)", id, source)
		}
		form, err := normaliseForm(raw, id, source)
		if err != nil {
			return err
		}
		s.forms[id] = form
	}
	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("uischema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("uischema: parse %s: %w", source, err)
	}
	return doc, nil
}

func normaliseForm(raw formFile, id, source string) (Form, error) {
	if raw.Limit < 0 {
		return Form{}, fmt.Errorf("uischema: form %q (file %s) has negative limit %d", id, source, raw.Limit)
	}
	subset := filter.FieldSubset{
		Categories: trimNames(raw.Subset.Categories),
		Tags:       trimNames(raw.Subset.Tags),
	}
	form := Form{
		ID:         id,
		Source:     source,
		Include:    trimNames(raw.Include),
		Exclude:    trimNames(raw.Exclude),
		Subset:     subset,
		Order:      trimNames(raw.Order),
		Categories: trimNames(raw.Categories),
		Limit:      raw.Limit,
	}
	if len(raw.Fields) == 0 {
		return form, nil
	}

	form.Fields = make(map[string]FieldConfig, len(raw.Fields))
	for key, cfg := range raw.Fields {
		name := strings.TrimSpace(key)
		if name == "" {
			return Form{}, fmt.Errorf("uischema: form %q (file %s) defines an empty field name", id, source)
		}
		if _, exists := form.Fields[name]; exists {
			return Form{}, fmt.Errorf("uischema: form %q (file %s) defines duplicate field %q", id, source, name)
		}
		form.Fields[name] = cloneFieldConfig(cfg)
	}
	return form, nil
}

func cloneFieldConfig(cfg FieldConfig) FieldConfig {
	out := FieldConfig{
		Label:       strings.TrimSpace(cfg.Label),
		Description: sanitizeDescription(cfg.Description),
		Category:    strings.TrimSpace(cfg.Category),
		Widget:      strings.TrimSpace(cfg.Widget),
	}
	if len(cfg.Metadata) > 0 {
		out.Metadata = make(map[string]string, len(cfg.Metadata))
		for k, v := range cfg.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

func trimNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func isPresetFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
