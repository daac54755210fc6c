package reflection

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type measurements struct {
	Small uint8
	Count uint
	Whole int
	Tiny  int8
	Ratio float32
	Exact float64
}

func TestFieldAccessor_NumericConversion(t *testing.T) {
	props := NewStructFieldProvider().Properties(&measurements{})
	byName := make(map[string]int, len(props))
	for i, prop := range props {
		byName[prop.Name] = i
	}

	cases := []struct {
		name    string
		field   string
		value   any
		wantErr bool
	}{
		{"int fits uint8", "Small", int64(200), false},
		{"int overflows uint8", "Small", int64(300), true},
		{"negative to uint", "Count", int64(-1), true},
		{"negative float to uint", "Count", -2.0, true},
		{"whole float to int", "Whole", 4.0, false},
		{"fractional float to int", "Whole", 3.9, true},
		{"float overflows int", "Whole", 1e300, true},
		{"uint overflows int8", "Tiny", uint64(200), true},
		{"negative int fits int8", "Tiny", int64(-128), false},
		{"float overflows float32", "Ratio", math.MaxFloat64, true},
		{"int to float64", "Exact", int64(12), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := &measurements{}
			err := props[byName[tc.field]].Accessor.Set(target, tc.value)
			if tc.wantErr {
				if !errors.Is(err, ErrIncompatibleValue) {
					t.Fatalf("expected ErrIncompatibleValue, got %v", err)
				}
				if diff := cmp.Diff(&measurements{}, target); diff != "" {
					t.Fatalf("rejected write modified the target (-want +got):\n%s", diff)
				}
				return
			}
			if err != nil {
				t.Fatalf("set %s: %v", tc.field, err)
			}
		})
	}
}

func TestFieldAccessor_NumericValuesStored(t *testing.T) {
	props := NewStructFieldProvider().Properties(&measurements{})
	target := &measurements{}
	values := []any{int64(200), uint64(7), 4.0, int64(-128), 1.5, int64(12)}
	for i, value := range values {
		if err := props[i].Accessor.Set(target, value); err != nil {
			t.Fatalf("set %s: %v", props[i].Name, err)
		}
	}

	want := &measurements{Small: 200, Count: 7, Whole: 4, Tiny: -128, Ratio: 1.5, Exact: 12}
	if diff := cmp.Diff(want, target); diff != "" {
		t.Fatalf("unexpected values (-want +got):\n%s", diff)
	}
}
