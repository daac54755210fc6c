package reflection

import (
	"reflect"
	"strings"
	"sync"

	"github.com/goliatone/go-formbind/internal/labels"
	"github.com/goliatone/go-formbind/pkg/model"
)

// FieldProvider returns the ordered reflectable properties of a source object.
// Implementations return an empty slice, never an error, for nil sources and
// for objects without eligible properties.
type FieldProvider interface {
	Properties(source any) []model.Property
	// PropertiesNamed returns the subset of Properties whose names appear in
	// names, preserving declaration order.
	PropertiesNamed(source any, names []string) []model.Property
}

// StructFieldProvider reflects over exported struct fields. Descriptor sets are
// cached per type and cloned on every call, so it is safe for concurrent use.
type StructFieldProvider struct {
	cache sync.Map // reflect.Type -> []model.Property
}

// NewStructFieldProvider constructs the default provider.
func NewStructFieldProvider() *StructFieldProvider {
	return &StructFieldProvider{}
}

// Properties implements FieldProvider.
func (p *StructFieldProvider) Properties(source any) []model.Property {
	typ := structType(source)
	if typ == nil {
		return nil
	}
	return cloneProperties(p.describe(typ))
}

// PropertiesNamed implements FieldProvider.
func (p *StructFieldProvider) PropertiesNamed(source any, names []string) []model.Property {
	typ := structType(source)
	if typ == nil || len(names) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(names))
	for _, name := range names {
		allowed[name] = struct{}{}
	}
	var out []model.Property
	for _, prop := range p.describe(typ) {
		if _, ok := allowed[prop.Name]; ok {
			out = append(out, prop.Clone())
		}
	}
	return out
}

func (p *StructFieldProvider) describe(typ reflect.Type) []model.Property {
	if cached, ok := p.cache.Load(typ); ok {
		return cached.([]model.Property)
	}
	props := describeStruct(typ)
	actual, _ := p.cache.LoadOrStore(typ, props)
	return actual.([]model.Property)
}

// structType resolves the struct type behind source. Nil sources, including
// typed nil pointers, resolve to nil. Prototyped sources resolve through
// their prototype.
func structType(source any) reflect.Type {
	if proto, ok := source.(Prototyped); ok {
		source = proto.Prototype()
	}
	if source == nil {
		return nil
	}
	rv := reflect.ValueOf(source)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	return rv.Type()
}

func describeStruct(typ reflect.Type) []model.Property {
	props := make([]model.Property, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		opts, skip := parseFormTag(field.Tag.Get("form"))
		if skip {
			continue
		}

		name := field.Name
		if opts.name != "" {
			name = opts.name
		}
		label := strings.TrimSpace(field.Tag.Get("label"))
		if label == "" {
			label = labels.FromName(name)
		}

		prop := model.Property{
			Name:        name,
			Index:       len(props),
			GoType:      field.Type,
			Label:       label,
			Description: strings.TrimSpace(field.Tag.Get("help")),
			Category:    strings.TrimSpace(field.Tag.Get("category")),
			Tags:        splitList(field.Tag.Get("tags"), ","),
			Required:    opts.required,
			ReadOnly:    opts.readOnly,
			Accessor:    newFieldAccessor(typ, field),
		}
		metadata := make(map[string]string)
		if opts.nonVisual {
			metadata[model.MetadataVisual] = "false"
		}
		if enum := splitList(field.Tag.Get("enum"), "|"); len(enum) > 0 {
			metadata[model.MetadataEnum] = strings.Join(enum, "|")
		}
		if widget := strings.TrimSpace(field.Tag.Get("widget")); widget != "" {
			metadata[model.MetadataWidget] = widget
		}
		if len(metadata) > 0 {
			prop.Metadata = metadata
		}
		props = append(props, prop)
	}
	return props
}

type formTag struct {
	name      string
	required  bool
	readOnly  bool
	nonVisual bool
}

func parseFormTag(raw string) (formTag, bool) {
	var tag formTag
	raw = strings.TrimSpace(raw)
	if raw == "-" {
		return tag, true
	}
	if raw == "" {
		return tag, false
	}
	parts := strings.Split(raw, ",")
	tag.name = strings.TrimSpace(parts[0])
	for _, opt := range parts[1:] {
		switch strings.ToLower(strings.TrimSpace(opt)) {
		case "required":
			tag.required = true
		case "readonly":
			tag.readOnly = true
		case "nonvisual":
			tag.nonVisual = true
		}
	}
	return tag, false
}

func splitList(raw, sep string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func cloneProperties(props []model.Property) []model.Property {
	if len(props) == 0 {
		return nil
	}
	out := make([]model.Property, len(props))
	for idx, prop := range props {
		out[idx] = prop.Clone()
	}
	return out
}
