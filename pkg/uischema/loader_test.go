package uischema_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/filter"
	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/uischema"
)

const personYAML = `
forms:
  person:
    include: [name, email, age, notes]
    exclude: [notes]
    subset:
      tags: [core]
    order: [email]
    categories: [contact, identity]
    limit: 3
    fields:
      email:
        label: E-mail
        description: "<b>Work</b> address<script>alert(1)</script>"
        category: contact
        widget: email
      name:
        category: identity
`

const accountJSON = `{
  "forms": {
    "account": {
      "exclude": ["password"],
      "fields": {"login": {"label": "Login"}}
    }
  }
}`

func TestLoadFS_YAMLAndJSON(t *testing.T) {
	store, err := uischema.LoadFS(fstest.MapFS{
		"presets/person.yaml":  {Data: []byte(personYAML)},
		"presets/account.json": {Data: []byte(accountJSON)},
		"presets/README.md":    {Data: []byte("ignored")},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"account", "person"}, store.IDs()); diff != "" {
		t.Fatalf("unexpected form ids (-want +got):\n%s", diff)
	}

	person, ok := store.Form("person")
	if !ok {
		t.Fatalf("person form not found")
	}
	if person.Limit != 3 || person.Source != "presets/person.yaml" {
		t.Fatalf("unexpected form header: %#v", person)
	}
	email := person.Fields["email"]
	if email.Label != "E-mail" || email.Widget != "email" {
		t.Fatalf("unexpected email config: %#v", email)
	}
	if email.Description != "<b>Work</b> address" {
		t.Fatalf("expected sanitised description, got %q", email.Description)
	}

	account, _ := store.Form("account")
	if diff := cmp.Diff([]string{"password"}, account.Exclude); diff != "" {
		t.Fatalf("unexpected exclude (-want +got):\n%s", diff)
	}
}

func TestLoadFS_DuplicateFormID(t *testing.T) {
	_, err := uischema.LoadFS(fstest.MapFS{
		"a.yaml": {Data: []byte(personYAML)},
		"b.yaml": {Data: []byte(personYAML)},
	})
	if err == nil || !strings.Contains(err.Error(), `duplicate form "person"`) {
		t.Fatalf("expected duplicate form error, got %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":          "   ",
		"invalid":        "forms: [",
		"negative limit": "forms:\n  x:\n    limit: -1\n",
		"empty field":    "forms:\n  x:\n    fields:\n      \" \": {label: a}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := uischema.Load([]byte(doc), name); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFS_NilFS(t *testing.T) {
	store, err := uischema.LoadFS(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !store.Empty() {
		t.Fatalf("expected empty store")
	}
	if _, err := store.Filters("person"); err == nil {
		t.Fatalf("expected unknown form error")
	}
}

func TestFilters_BuildsChain(t *testing.T) {
	store, err := uischema.Load([]byte(personYAML), "person.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	chain, err := store.Filters("person")
	if err != nil {
		t.Fatalf("filters: %v", err)
	}

	var stages []string
	for _, f := range chain {
		stages = append(stages, filter.NameOf(f))
	}
	if diff := cmp.Diff([]string{"include", "exclude", "subset", "reorder", "patch", "categorize", "limit"}, stages); diff != "" {
		t.Fatalf("unexpected stages (-want +got):\n%s", diff)
	}

	var elements []*model.Element
	for _, name := range []string{"name", "email", "age", "notes", "extra"} {
		elements = append(elements, model.NewElement(model.Property{Name: name, Tags: []string{"core"}}, model.FieldTypeString))
	}
	got := filter.Apply(elements, chain, func(f filter.FieldFilter, err error) {
		t.Fatalf("stage %s failed: %v", filter.NameOf(f), err)
	})

	var names []string
	for _, el := range got {
		names = append(names, el.Name())
	}
	if diff := cmp.Diff([]string{"email", "name", "age"}, names); diff != "" {
		t.Fatalf("unexpected elements (-want +got):\n%s", diff)
	}
	email := got[0]
	if email.Label() != "E-mail" || email.Category() != "contact" {
		t.Fatalf("expected patched email, got label=%q category=%q", email.Label(), email.Category())
	}
	if email.Metadata()[model.MetadataWidget] != "email" {
		t.Fatalf("expected widget metadata, got %v", email.Metadata())
	}
}
