package ot

import (
	"fmt"
	"strings"
)

// Tag identifies an operation variant: a namespace (the collaborator module
// that declared it) and a kind name unique within that namespace.
type Tag struct {
	Namespace string `json:"namespace"`
	Kind      string `json:"kind"`
}

func (t Tag) String() string { return t.Namespace + "." + t.Kind }

// Field is one named slot of an operation. A nil Value means the field is
// absent; absent fields never appear in the encoded form.
type Field struct {
	Name  string
	Value any
}

// Operation is a single concurrent edit. Concrete variants are supplied by
// collaborator packages and registered with a Registry; the engine never
// mutates an operation — rebasing produces new values.
type Operation interface {
	// Tag returns the variant's registered discriminant. It is the same for
	// every instance of the variant.
	Tag() Tag

	// Fields returns the present fields in declared order. Values are
	// primitives, nested Operations, or arrays of such.
	Fields() []Field
}

// TransformFunc rebases a pair of concurrent operations. It returns the
// rebased pair (either element may be nil, meaning that side could not be
// resolved) or ok=false to signal an outright conflict. When conflictless is
// set the function should prefer a resolved, possibly lossy outcome over
// reporting a conflict.
type TransformFunc func(this, other Operation, conflictless bool) (thisPrime, otherPrime Operation, ok bool)

// Guard decides whether a transform rule applies to an operand's variant.
type Guard func(Tag) bool

// Is returns a guard matching exactly one variant tag.
func Is(tag Tag) Guard {
	return func(t Tag) bool { return t == tag }
}

// InNamespace returns a guard matching every variant of a namespace. Placing
// it after more specific rules lets a variant declare a catch-all without
// shadowing them.
func InNamespace(ns string) Guard {
	return func(t Tag) bool { return t.Namespace == ns }
}

// Rule pairs a guard with the transform to run when it matches. Rules are
// checked in declared order and only the first match is invoked.
type Rule struct {
	Guard     Guard
	Transform TransformFunc
}

// Inspect renders an operation for diagnostics, recursing into nested
// operations. The output is not a serialization format.
func Inspect(op Operation) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(op.Tag().String())
	for _, f := range op.Fields() {
		if f.Value == nil {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(f.Name)
		b.WriteByte('=')
		b.WriteString(inspectValue(f.Value))
	}
	b.WriteByte('>')
	return b.String()
}

func inspectValue(v any) string {
	switch val := v.(type) {
	case Operation:
		return Inspect(val)
	case string:
		return fmt.Sprintf("%q", val)
	case []any:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = inspectValue(e)
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return fmt.Sprintf("%v", val)
	}
}
