package ot

import "fmt"

// InvalidOperationError reports an encoded value that is not an operation at
// all, e.g. a plain object with no _type marker.
type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return "invalid operation: " + e.Reason
}

// UnknownOperationTypeError reports a _type marker naming a tag the registry
// has never seen — typically a vocabulary mismatch between writer and reader.
type UnknownOperationTypeError struct {
	Tag Tag
}

func (e *UnknownOperationTypeError) Error() string {
	return fmt.Sprintf("unknown operation type %s", e.Tag)
}

// NotComparableError reports a value kind the comparator defines no order
// for. Callers must never rely on comparing such values.
type NotComparableError struct {
	Kind string
}

func (e *NotComparableError) Error() string {
	return fmt.Sprintf("values of kind %q are not comparable", e.Kind)
}
