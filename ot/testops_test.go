package ot

import "testing"

// Test-only operation variants, registered on explicit registries so tests
// never depend on what collaborator packages put in the default registry.

var (
	testSetTag  = Tag{Namespace: "test", Kind: "SET"}
	testSet2Tag = Tag{Namespace: "test", Kind: "SET2"}
	testWrapTag = Tag{Namespace: "test", Kind: "WRAP"}
	testLoneTag = Tag{Namespace: "test", Kind: "LONE"}
)

// testSet has no transform table at all.
type testSet struct{ value any }

func (testSet) Tag() Tag          { return testSetTag }
func (s testSet) Fields() []Field { return []Field{{Name: "value", Value: s.value}} }

// testSet2 declares the one pairwise rule between itself and testSet.
type testSet2 struct{ value any }

func (testSet2) Tag() Tag          { return testSet2Tag }
func (s testSet2) Fields() []Field { return []Field{{Name: "value", Value: s.value}} }

// testWrap composes: an operation field, an array field, an optional label.
type testWrap struct {
	inner Operation
	items []any
	label any
}

func (testWrap) Tag() Tag { return testWrapTag }
func (w testWrap) Fields() []Field {
	return []Field{
		{Name: "inner", Value: opOrNil(w.inner)},
		{Name: "items", Value: w.items},
		{Name: "label", Value: w.label},
	}
}

func opOrNil(op Operation) any {
	if op == nil {
		return nil
	}
	return op
}

// testLone declares no rules and nothing declares rules about it.
type testLone struct{}

func (testLone) Tag() Tag        { return testLoneTag }
func (testLone) Fields() []Field { return nil }

// set2TransformCalls counts invocations so dispatch tests can assert the
// rule actually ran.
var set2TransformCalls int

// transformSet2Set marks its outputs so tests can tell which half of the
// pair the dispatcher picked.
func transformSet2Set(this, other Operation, conflictless bool) (Operation, Operation, bool) {
	set2TransformCalls++
	return testSet2{value: "rebased-set2"}, testSet{value: "rebased-set"}, true
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	variants := []*Variant{
		{
			Tag:    testSetTag,
			Params: []string{"value"},
			New:    func(args []any) Operation { return testSet{value: args[0]} },
		},
		{
			Tag:    testSet2Tag,
			Params: []string{"value"},
			New:    func(args []any) Operation { return testSet2{value: args[0]} },
			Rules: []Rule{
				{Guard: Is(testSetTag), Transform: transformSet2Set},
			},
		},
		{
			Tag:    testWrapTag,
			Params: []string{"inner", "items", "label"},
			New: func(args []any) Operation {
				w := testWrap{label: args[2]}
				if op, ok := args[0].(Operation); ok {
					w.inner = op
				}
				if items, ok := args[1].([]any); ok {
					w.items = items
				}
				return w
			},
		},
		{
			Tag:    testLoneTag,
			Params: nil,
			New:    func([]any) Operation { return testLone{} },
		},
		{
			Tag: NoOpTag,
			New: func([]any) Operation { return NoOp{} },
		},
	}
	for _, v := range variants {
		if err := r.Register(v); err != nil {
			t.Fatalf("register %s: %v", v.Tag, err)
		}
	}
	return r
}
