// Package values provides the scalar-value operation kinds: SET overwrites a
// value, MATH adjusts a numeric value. Importing the package registers both
// with the default registry.
package values

import (
	"fmt"
	"reflect"

	"github.com/alimasry/go-ot-rebase/ot"
)

var (
	SetTag  = ot.Tag{Namespace: "values", Kind: "SET"}
	MathTag = ot.Tag{Namespace: "values", Kind: "MATH"}
)

// Math operators.
const (
	Add  = "add"
	Mult = "mult"
)

// Set overwrites the target with Value, discarding whatever was there.
type Set struct {
	Value any
}

// NewSet creates a SET operation.
func NewSet(value any) Set {
	return Set{Value: value}
}

func (Set) Tag() ot.Tag { return SetTag }

func (s Set) Fields() []ot.Field {
	return []ot.Field{{Name: "value", Value: s.Value}}
}

// Math applies a commutative arithmetic adjustment to a numeric target.
type Math struct {
	Op    string
	Value float64
}

// NewMath creates a MATH operation. The operator must be Add or Mult.
func NewMath(op string, value float64) (Math, error) {
	if op != Add && op != Mult {
		return Math{}, fmt.Errorf("unknown math operator %q", op)
	}
	return Math{Op: op, Value: value}, nil
}

func (Math) Tag() ot.Tag { return MathTag }

func (m Math) Fields() []ot.Field {
	return []ot.Field{
		{Name: "op", Value: m.Op},
		{Name: "value", Value: m.Value},
	}
}

func init() {
	ot.MustRegister(&ot.Variant{
		Tag:    SetTag,
		Params: []string{"value"},
		New: func(args []any) ot.Operation {
			return Set{Value: args[0]}
		},
		Rules: []ot.Rule{
			{Guard: ot.Is(SetTag), Transform: transformSetSet},
		},
	})
	ot.MustRegister(&ot.Variant{
		Tag:    MathTag,
		Params: []string{"op", "value"},
		New: func(args []any) ot.Operation {
			m := Math{}
			if op, ok := args[0].(string); ok {
				m.Op = op
			}
			if v, ok := args[1].(float64); ok {
				m.Value = v
			}
			return m
		},
		Rules: []ot.Rule{
			{Guard: ot.Is(MathTag), Transform: transformMathMath},
			{Guard: ot.Is(SetTag), Transform: transformMathSet},
		},
	})
}

// transformSetSet reconciles two concurrent overwrites. Identical values
// absorb each other; different values conflict unless conflictless mode asks
// for a resolution, in which case the comparator picks the surviving value —
// the same one on every peer, whichever side runs the rebase.
func transformSetSet(this, other ot.Operation, conflictless bool) (ot.Operation, ot.Operation, bool) {
	a, b := this.(Set), other.(Set)

	if reflect.DeepEqual(a.Value, b.Value) {
		return ot.NoOp{}, ot.NoOp{}, true
	}
	if !conflictless {
		return nil, nil, false
	}
	ord, err := ot.Compare(a.Value, b.Value)
	if err != nil {
		return nil, nil, false
	}
	switch ord {
	case ot.Greater:
		return a, ot.NoOp{}, true
	case ot.Less:
		return ot.NoOp{}, b, true
	default:
		// Distinct representations of the same point in the order.
		return ot.NoOp{}, ot.NoOp{}, true
	}
}

// transformMathMath: adjustments under the same operator commute, so both
// survive unchanged. Mixed operators don't commute and neither side can
// absorb the other without knowing the base value, so they conflict even in
// conflictless mode — the flag is advisory and this rule has nothing lossy
// yet convergent to offer.
func transformMathMath(this, other ot.Operation, _ bool) (ot.Operation, ot.Operation, bool) {
	a, b := this.(Math), other.(Math)

	if a.Op == b.Op {
		return a, b, true
	}
	return nil, nil, false
}

// transformMathSet reconciles a MATH against a concurrent SET. The overwrite
// always wins its own direction — a SET rebased over a MATH still lands its
// value, so the pair's second element is always resolved. The MATH side is
// superseded in conflictless mode and otherwise left unresolved, which the
// dispatcher reports as a conflict.
func transformMathSet(this, other ot.Operation, conflictless bool) (ot.Operation, ot.Operation, bool) {
	if conflictless {
		return ot.NoOp{}, other, true
	}
	return nil, other, true
}
