package ot

import (
	"errors"
	"reflect"
	"testing"
)

func TestEncode(t *testing.T) {
	got := Encode(testSet{value: "hello"})
	want := map[string]any{
		"_type": map[string]any{"namespace": "test", "kind": "SET"},
		"value": "hello",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Encode = %#v, want %#v", got, want)
	}
}

func TestEncode_OmitsAbsentFields(t *testing.T) {
	got := Encode(testWrap{inner: testSet{value: 1.0}})
	if _, ok := got["items"]; ok {
		t.Error("absent items field was encoded")
	}
	if _, ok := got["label"]; ok {
		t.Error("absent label field was encoded")
	}
	if _, ok := got["inner"]; !ok {
		t.Error("present inner field was dropped")
	}
}

func TestRoundTrip(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name string
		op   Operation
	}{
		{"scalar field", testSet{value: "hello"}},
		{"numeric field", testSet{value: 42.5}},
		{"absent field", testSet{}},
		{"no fields", testLone{}},
		{"noop", NoOp{}},
		{"nested operation", testWrap{inner: testSet{value: "inner"}, label: "outer"}},
		{"operations inside arrays", testWrap{
			inner: testWrap{inner: testSet2{value: 1.0}},
			items: []any{"plain", testSet{value: "x"}, []any{2.0}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := r.Decode(Encode(tt.op))
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if decoded.Tag() != tt.op.Tag() {
				t.Fatalf("tag = %s, want %s", decoded.Tag(), tt.op.Tag())
			}
			if !reflect.DeepEqual(decoded, tt.op) {
				t.Errorf("decoded %#v, want %#v", decoded, tt.op)
			}
		})
	}
}

func TestRoundTrip_JSON(t *testing.T) {
	r := newTestRegistry(t)
	op := testWrap{inner: testSet{value: "inner"}, items: []any{1.0, "two"}}

	data, err := Marshal(op)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := r.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded, op) {
		t.Errorf("decoded %#v, want %#v", decoded, op)
	}
}

func TestDecode_Malformed(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name  string
		value any
	}{
		{"not an object", "just a string"},
		{"missing _type", map[string]any{"value": 1.0}},
		{"_type not an object", map[string]any{"_type": "test.SET"}},
		{"_type missing kind", map[string]any{"_type": map[string]any{"namespace": "test"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Decode(tt.value)
			var invalidErr *InvalidOperationError
			if !errors.As(err, &invalidErr) {
				t.Errorf("expected InvalidOperationError, got %v", err)
			}
		})
	}
}

func TestDecode_UnknownType(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Decode(map[string]any{
		"_type": map[string]any{"namespace": "ghost", "kind": "op"},
	})
	var unknownErr *UnknownOperationTypeError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownOperationTypeError, got %v", err)
	}
}

// A nested operation with an unknown type fails the whole decode rather than
// passing through as a plain map.
func TestDecode_UnknownNestedType(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Decode(map[string]any{
		"_type": map[string]any{"namespace": "test", "kind": "WRAP"},
		"inner": map[string]any{"_type": map[string]any{"namespace": "ghost", "kind": "op"}},
	})
	var unknownErr *UnknownOperationTypeError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownOperationTypeError, got %v", err)
	}
}

// Plain objects without a _type marker are opaque field data, not failed
// operations.
func TestDecode_PlainObjectFieldValue(t *testing.T) {
	r := newTestRegistry(t)
	decoded, err := r.Decode(map[string]any{
		"_type": map[string]any{"namespace": "test", "kind": "SET"},
		"value": map[string]any{"nested": "data"},
	})
	if err != nil {
		t.Fatal(err)
	}
	set, ok := decoded.(testSet)
	if !ok {
		t.Fatalf("decoded %T, want testSet", decoded)
	}
	if !reflect.DeepEqual(set.value, map[string]any{"nested": "data"}) {
		t.Errorf("value = %#v", set.value)
	}
}
