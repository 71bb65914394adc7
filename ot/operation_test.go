package ot

import "testing"

func TestInspect(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		want string
	}{
		{"noop", NoOp{}, "<core.NO_OP>"},
		{"string field", testSet{value: "hi"}, `<test.SET value="hi">`},
		{"numeric field", testSet{value: 4.0}, "<test.SET value=4>"},
		{"absent fields omitted", testWrap{label: "l"}, `<test.WRAP label="l">`},
		{
			"nested operation and array",
			testWrap{inner: testSet{value: 1.0}, items: []any{"a", 2.0}},
			`<test.WRAP inner=<test.SET value=1> items=["a" 2]>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Inspect(tt.op); got != tt.want {
				t.Errorf("Inspect = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGuards(t *testing.T) {
	if !Is(testSetTag)(testSetTag) {
		t.Error("Is did not match its own tag")
	}
	if Is(testSetTag)(testSet2Tag) {
		t.Error("Is matched a different tag")
	}
	if !InNamespace("test")(testSet2Tag) {
		t.Error("InNamespace did not match a tag in its namespace")
	}
	if InNamespace("test")(NoOpTag) {
		t.Error("InNamespace matched a foreign namespace")
	}
}
