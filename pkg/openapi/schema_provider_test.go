package openapi

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/model"
)

const articleSchema = `{
  "type": "object",
  "required": ["title"],
  "x-formgen-order": ["title", "body", "unknown"],
  "properties": {
    "title": {"type": "string", "title": "Headline", "description": "Shown on cards"},
    "body": {"type": "string", "x-formgen-widget": "textarea"},
    "published_at": {"type": "string", "format": "date-time"},
    "rating": {"type": "integer", "readOnly": true},
    "status": {"type": "string", "enum": ["draft", "live"], "x-formgen-category": "workflow"},
    "score": {"type": ["number", "null"]}
  }
}`

func names(props []model.Property) []string {
	out := make([]string, 0, len(props))
	for _, prop := range props {
		out = append(out, prop.Name)
	}
	return out
}

func TestSchemaFieldProvider_Order(t *testing.T) {
	provider, err := LoadSchemaFieldProvider([]byte(articleSchema))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	got := names(provider.Properties(map[string]any{}))

	want := []string{"title", "body", "published_at", "rating", "score", "status"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}

	subset := names(provider.PropertiesNamed(map[string]any{}, []string{"status", "title"}))
	if diff := cmp.Diff([]string{"title", "status"}, subset); diff != "" {
		t.Fatalf("unexpected subset (-want +got):\n%s", diff)
	}
}

func TestSchemaFieldProvider_Descriptors(t *testing.T) {
	provider, err := LoadSchemaFieldProvider([]byte(articleSchema))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	byName := make(map[string]model.Property)
	for _, prop := range provider.Properties(map[string]any{}) {
		byName[prop.Name] = prop
	}

	title := byName["title"]
	if title.Label != "Headline" || title.Description != "Shown on cards" || !title.Required || title.TypeHint != model.FieldTypeString {
		t.Fatalf("unexpected title: %+v", title)
	}
	if byName["published_at"].TypeHint != model.FieldTypeTime || byName["published_at"].Label != "Published At" {
		t.Fatalf("unexpected published_at: %+v", byName["published_at"])
	}
	if !byName["rating"].ReadOnly || byName["rating"].TypeHint != model.FieldTypeInteger {
		t.Fatalf("unexpected rating: %+v", byName["rating"])
	}
	if byName["score"].TypeHint != model.FieldTypeNumber {
		t.Fatalf("expected nullable number to resolve, got %q", byName["score"].TypeHint)
	}
	status := byName["status"]
	if status.Category != "workflow" || status.Metadata[model.MetadataEnum] != "draft|live" {
		t.Fatalf("unexpected status: %+v", status)
	}
	if byName["body"].Metadata[model.MetadataWidget] != "textarea" {
		t.Fatalf("expected widget extension on body")
	}
}

func TestSchemaFieldProvider_MapAccessor(t *testing.T) {
	provider, err := LoadSchemaFieldProvider([]byte(articleSchema))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	title := provider.Properties(map[string]any{})[0]
	payload := map[string]any{"title": "Hello"}

	got, err := title.Accessor.Get(payload)
	if err != nil || got != "Hello" {
		t.Fatalf("expected Hello, got %v (err=%v)", got, err)
	}
	if err := title.Accessor.Set(payload, "World"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if payload["title"] != "World" {
		t.Fatalf("expected map write, got %v", payload["title"])
	}
	if _, err := title.Accessor.Get(struct{}{}); !errors.Is(err, ErrNotMap) {
		t.Fatalf("expected ErrNotMap, got %v", err)
	}
}

func TestSchemaFieldProvider_RejectsInvalidInput(t *testing.T) {
	if _, err := LoadSchemaFieldProvider(nil); err == nil {
		t.Fatalf("expected empty document to fail")
	}
	if _, err := LoadSchemaFieldProvider([]byte(`{"type": "string"}`)); err == nil {
		t.Fatalf("expected non-object schema to fail")
	}
	provider, err := LoadSchemaFieldProvider([]byte(articleSchema))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := provider.Properties(nil); len(got) != 0 {
		t.Fatalf("expected nil source to yield nothing, got %v", names(got))
	}
	if got := provider.Properties(struct{}{}); len(got) != 0 {
		t.Fatalf("expected non-map source to yield nothing, got %v", names(got))
	}
}
