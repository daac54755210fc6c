package provider

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/diagnostic"
	"github.com/goliatone/go-formbind/pkg/filter"
	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/reflection"
)

type account struct {
	A     string
	B     int
	C     bool
	D     float64
	Inbox chan string
}

type person struct {
	Name  string
	Email string
	Age   int
}

func newTestProvider(t *testing.T) (*Provider, *diagnostic.Recorder) {
	t.Helper()
	recorder := &diagnostic.Recorder{}
	return New(WithDiagnostics(recorder)), recorder
}

func names(elements []*model.Element) []string {
	out := make([]string, 0, len(elements))
	for _, el := range elements {
		out = append(out, el.Name())
	}
	return out
}

func filters(fs ...filter.FieldFilter) *binding.List[filter.FieldFilter] {
	return binding.NewList(fs...)
}

func TestDerive_Deterministic(t *testing.T) {
	p, _ := newTestProvider(t)
	chain := []filter.FieldFilter{filter.Reorder("C"), filter.Exclude("B")}

	first := p.Derive(&account{}, chain)
	second := p.Derive(&account{}, chain)

	if diff := cmp.Diff(names(first), names(second)); diff != "" {
		t.Fatalf("derivation is not deterministic (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"C", "A", "D"}, names(first)); diff != "" {
		t.Fatalf("unexpected elements (-want +got):\n%s", diff)
	}
}

func TestDerive_IncludeFilterGatesExtraction(t *testing.T) {
	var requested [][]string
	fields := &recordingFields{
		FieldProvider: reflection.NewStructFieldProvider(),
		onNamed:       func(names []string) { requested = append(requested, names) },
	}
	recorder := &diagnostic.Recorder{}
	p := New(WithFieldProvider(fields), WithDiagnostics(recorder))

	got := p.Derive(&account{}, []filter.FieldFilter{filter.Include("C", "A"), filter.Include("A", "C", "D")})

	if diff := cmp.Diff([]string{"A", "C"}, names(got)); diff != "" {
		t.Fatalf("expected declaration order subset (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"C", "A"}}, requested); diff != "" {
		t.Fatalf("expected only the first include filter to gate extraction (-want +got):\n%s", diff)
	}
	if fields.unconstrained != 0 {
		t.Fatalf("expected no unconstrained extraction, got %d", fields.unconstrained)
	}
}

func TestDerive_TypeRejectionIsNonFatal(t *testing.T) {
	p, recorder := newTestProvider(t)

	got := p.Derive(&account{}, nil)

	if diff := cmp.Diff([]string{"A", "B", "C", "D"}, names(got)); diff != "" {
		t.Fatalf("unexpected elements (-want +got):\n%s", diff)
	}
	events := recorder.Events()
	if len(events) != 1 || events[0].Kind != diagnostic.KindElementCreateFailed || events[0].Property != "Inbox" {
		t.Fatalf("expected a single create failure for Inbox, got %v", events)
	}
	for _, el := range got {
		if !el.Type().Resolved() {
			t.Fatalf("published element %s has no type", el.Name())
		}
	}
}

func TestDerive_UntypedElementsDropped(t *testing.T) {
	type loose struct {
		Known   string
		Dynamic any
	}
	p, recorder := newTestProvider(t)

	got := p.Derive(&loose{}, nil)

	if diff := cmp.Diff([]string{"Known"}, names(got)); diff != "" {
		t.Fatalf("unexpected elements (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]diagnostic.Kind{diagnostic.KindElementUntyped}, recorder.Kinds()); diff != "" {
		t.Fatalf("unexpected diagnostics (-want +got):\n%s", diff)
	}
}

func TestDerive_FilterOrderSensitivity(t *testing.T) {
	p, _ := newTestProvider(t)
	reorder := filter.Reorder("D")
	limit := filter.Limit(2)

	reorderThenLimit := p.Derive(&account{}, []filter.FieldFilter{reorder, limit})
	limitThenReorder := p.Derive(&account{}, []filter.FieldFilter{limit, reorder})

	if diff := cmp.Diff([]string{"D", "A"}, names(reorderThenLimit)); diff != "" {
		t.Fatalf("reorder then limit (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B"}, names(limitThenReorder)); diff != "" {
		t.Fatalf("limit then reorder (-want +got):\n%s", diff)
	}
}

func TestDerive_FilterFailureIsolation(t *testing.T) {
	p, recorder := newTestProvider(t)
	failing := filter.Func(func([]*model.Element) ([]*model.Element, error) {
		return nil, errors.New("broken")
	})

	got := p.Derive(&account{}, []filter.FieldFilter{filter.Exclude("A"), failing, filter.Limit(2)})

	if diff := cmp.Diff([]string{"B", "C"}, names(got)); diff != "" {
		t.Fatalf("expected failing stage to pass its input through (-want +got):\n%s", diff)
	}
	kinds := recorder.Kinds()
	if len(kinds) != 2 || kinds[1] != diagnostic.KindFilterFailed {
		t.Fatalf("expected create failure then filter failure, got %v", kinds)
	}
}

func TestDerive_EmptyInput(t *testing.T) {
	p, recorder := newTestProvider(t)

	list := p.Elements(binding.NewValue[any](struct{}{}), filters())

	if list.Len() != 0 {
		t.Fatalf("expected empty list, got %v", names(list.Items()))
	}
	if len(recorder.Events()) != 0 {
		t.Fatalf("expected no diagnostics, got %v", recorder.Events())
	}

	if got := p.Derive(nil, nil); len(got) != 0 {
		t.Fatalf("expected nil source to derive nothing, got %v", names(got))
	}
}

func TestElements_FilterListReactivity(t *testing.T) {
	p, _ := newTestProvider(t)
	source := binding.NewValue[any](&account{})
	chain := filters()

	list := p.Elements(source, chain)
	var versions []uint64
	list.AddListener(func(change binding.Change[*model.Element]) {
		versions = append(versions, change.Version)
	})
	before := list.Items()

	chain.Append(filter.Include("D", "B"))

	fresh := New(WithDiagnostics(diagnostic.Discard)).Elements(
		binding.NewValue[any](&account{}),
		filters(filter.Include("D", "B")),
	)
	if diff := cmp.Diff(names(fresh.Items()), names(list.Items())); diff != "" {
		t.Fatalf("live re-derivation differs from a fresh provider (-fresh +live):\n%s", diff)
	}
	if len(versions) != 1 {
		t.Fatalf("expected a single atomic change notification, got %v", versions)
	}
	for _, el := range before {
		if !el.Disposed() {
			t.Fatalf("expected previous element %s to be disposed", el.Name())
		}
	}
	if source.Listeners() != list.Len() {
		t.Fatalf("expected one source binding per live element, got %d for %d elements", source.Listeners(), list.Len())
	}
}

func TestElements_ClearBeforeRefill(t *testing.T) {
	p := New(WithDiagnostics(diagnostic.Discard), WithClearBeforeRefill())
	chain := filters()
	list := p.Elements(binding.NewValue[any](&person{}), chain)

	var kinds []binding.ChangeKind
	var sizes []int
	list.AddListener(func(change binding.Change[*model.Element]) {
		kinds = append(kinds, change.Kind)
		sizes = append(sizes, len(change.Items))
	})

	chain.Append(filter.Exclude("Age"))

	if diff := cmp.Diff([]binding.ChangeKind{binding.ChangeClear, binding.ChangeReplace}, kinds); diff != "" {
		t.Fatalf("unexpected change kinds (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 2}, sizes); diff != "" {
		t.Fatalf("expected a transient empty list (-want +got):\n%s", diff)
	}
}

func TestElements_SourceRebinding(t *testing.T) {
	p, _ := newTestProvider(t)
	first := &person{Name: "ada"}
	second := &person{Name: "grace"}
	source := binding.NewValue[any](first)

	list := p.Elements(source, filters())
	name := list.At(0)
	if got, _ := name.Value(); got != "ada" {
		t.Fatalf("expected ada, got %v", got)
	}

	source.Set(second)

	if list.At(0) != name {
		t.Fatalf("expected the element to survive a source change")
	}
	if name.Source().Get() != second {
		t.Fatalf("expected element source to follow the top-level source")
	}
	if err := name.SetValue("hopper"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if second.Name != "hopper" || first.Name != "ada" {
		t.Fatalf("expected write to reach only the current source, got first=%q second=%q", first.Name, second.Name)
	}
}

func TestElements_MultiSourceRebinding(t *testing.T) {
	p, _ := newTestProvider(t)
	oldLeft, oldRight := &person{Name: "old-left"}, &person{Email: "old-right"}
	newLeft, newRight := &person{Name: "new-left"}, &person{Email: "new-right"}
	source := binding.NewValue[any](&reflection.Pair{Left: oldLeft, Right: oldRight})

	list := p.Elements(source, filters(filter.Sided(reflection.SideRight, "Email")))
	before := list.Items()
	version := list.Version()

	byName := func(name string) *model.Element {
		for _, el := range list.Items() {
			if el.Name() == name {
				return el
			}
		}
		t.Fatalf("element %s not found", name)
		return nil
	}
	if byName("Email").Source().Get() != oldRight || byName("Name").Source().Get() != oldLeft {
		t.Fatalf("expected elements to bind to their sides")
	}

	source.Set(&reflection.Pair{Left: newLeft, Right: newRight})

	if diff := cmp.Diff(before, list.Items(), cmp.Comparer(func(a, b *model.Element) bool { return a == b })); diff != "" {
		t.Fatalf("expected elements to be reused (-before +after):\n%s", diff)
	}
	if list.Version() != version {
		t.Fatalf("expected no list mutation on source change")
	}
	if byName("Email").Source().Get() != newRight || byName("Name").Source().Get() != newLeft {
		t.Fatalf("expected elements to rebind to the new pair")
	}
	if got, _ := byName("Email").Value(); got != "new-right" {
		t.Fatalf("expected right-side value, got %v", got)
	}

	source.Set(newLeft)
	if byName("Email").Source().Get() != newLeft {
		t.Fatalf("expected plain sources to bind every element directly")
	}
}

// keepSet drops elements whose current value is the zero value and records
// every read error.
func keepSet(readErrs *[]error) filter.FieldFilter {
	return filter.Func(func(elements []*model.Element) ([]*model.Element, error) {
		var out []*model.Element
		for _, el := range elements {
			v, err := el.Value()
			if err != nil {
				*readErrs = append(*readErrs, err)
				continue
			}
			if v != nil && !reflect.ValueOf(v).IsZero() {
				out = append(out, el)
			}
		}
		return out, nil
	})
}

func TestElements_FiltersReadBoundValues(t *testing.T) {
	p, _ := newTestProvider(t)
	var readErrs []error
	source := binding.NewValue[any](&person{Name: "ada", Age: 3})

	list := p.Elements(source, filters(keepSet(&readErrs)))

	if len(readErrs) != 0 {
		t.Fatalf("expected filters to read values, got errors %v", readErrs)
	}
	if diff := cmp.Diff([]string{"Name", "Age"}, names(list.Items())); diff != "" {
		t.Fatalf("unexpected elements (-want +got):\n%s", diff)
	}
	if source.Listeners() != list.Len() {
		t.Fatalf("expected one source listener per element, got %d for %d", source.Listeners(), list.Len())
	}
}

func TestDerive_FiltersReadBoundValues(t *testing.T) {
	p, _ := newTestProvider(t)
	var readErrs []error

	got := p.Derive(&person{Email: "a@b.c"}, []filter.FieldFilter{keepSet(&readErrs)})

	if len(readErrs) != 0 {
		t.Fatalf("expected filters to read values, got errors %v", readErrs)
	}
	if diff := cmp.Diff([]string{"Email"}, names(got)); diff != "" {
		t.Fatalf("unexpected elements (-want +got):\n%s", diff)
	}
	if v, err := got[0].Value(); err != nil || v != "a@b.c" {
		t.Fatalf("expected derived element to stay readable, got %v, %v", v, err)
	}
}

func TestElements_SideRoutesLaterStages(t *testing.T) {
	p, _ := newTestProvider(t)
	var readErrs []error
	pair := &reflection.Pair{Left: &person{Name: "left"}, Right: &person{Email: "right@x"}}
	source := binding.NewValue[any](pair)

	list := p.Elements(source, filters(filter.Sided(reflection.SideRight, "Email"), keepSet(&readErrs)))

	if len(readErrs) != 0 {
		t.Fatalf("unexpected read errors %v", readErrs)
	}
	if diff := cmp.Diff([]string{"Name", "Email"}, names(list.Items())); diff != "" {
		t.Fatalf("expected the right-side email to survive (-want +got):\n%s", diff)
	}
	for _, el := range list.Items() {
		if el.Name() == "Email" && el.Source().Get() != pair.Right {
			t.Fatalf("expected email to bind to the right side")
		}
	}
}

func TestElements_ReleaseDetaches(t *testing.T) {
	p, _ := newTestProvider(t)
	source := binding.NewValue[any](&person{})
	chain := filters()
	list := p.Elements(source, chain)
	version := list.Version()

	p.Release(list)

	if source.Listeners() != 0 || chain.Listeners() != 0 {
		t.Fatalf("expected release to detach listeners, got source=%d filters=%d", source.Listeners(), chain.Listeners())
	}
	chain.Append(filter.Limit(1))
	if list.Version() != version {
		t.Fatalf("expected released list to stop tracking filter changes")
	}
	p.Release(list)
}

func TestElements_NilArguments(t *testing.T) {
	p, _ := newTestProvider(t)

	list := p.Elements(nil, nil)

	if list == nil || list.Len() != 0 {
		t.Fatalf("expected an empty list handle")
	}
	p.Close()
}

type recordingFields struct {
	reflection.FieldProvider
	onNamed       func([]string)
	unconstrained int
}

func (r *recordingFields) Properties(source any) []model.Property {
	r.unconstrained++
	return r.FieldProvider.Properties(source)
}

func (r *recordingFields) PropertiesNamed(source any, names []string) []model.Property {
	r.onNamed(names)
	return r.FieldProvider.PropertiesNamed(source, names)
}
