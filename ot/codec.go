package ot

import "encoding/json"

// typeKey marks an encoded object as an operation. Plain objects without it
// pass through encode and decode untouched.
const typeKey = "_type"

// Encode produces the portable form of an operation: a map carrying the
// _type marker plus one entry per present field. Nested operations are
// encoded recursively; absent fields are omitted entirely.
func Encode(op Operation) map[string]any {
	out := map[string]any{
		typeKey: map[string]any{
			"namespace": op.Tag().Namespace,
			"kind":      op.Tag().Kind,
		},
	}
	for _, f := range op.Fields() {
		if f.Value == nil {
			continue
		}
		out[f.Name] = encodeValue(f.Value)
	}
	return out
}

func encodeValue(v any) any {
	switch val := v.(type) {
	case Operation:
		return Encode(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = encodeValue(e)
		}
		return out
	default:
		return v
	}
}

// Decode reconstructs an operation from its portable form using the default
// registry. See Registry.Decode.
func Decode(value any) (Operation, error) {
	return DefaultRegistry().Decode(value)
}

// Decode reconstructs an operation from its portable form. The value must be
// an object carrying a _type marker (otherwise InvalidOperationError) naming
// a registered tag (otherwise UnknownOperationTypeError). Constructor
// parameters are pulled from the object in the variant's declared order,
// with absence meaning "not provided", and any field value that itself
// carries a _type marker is decoded recursively.
func (r *Registry) Decode(value any) (Operation, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, &InvalidOperationError{Reason: "encoded operation is not an object"}
	}
	raw, ok := obj[typeKey]
	if !ok {
		return nil, &InvalidOperationError{Reason: "missing _type marker"}
	}
	tag, err := decodeTag(raw)
	if err != nil {
		return nil, err
	}
	variant, err := r.Lookup(tag)
	if err != nil {
		return nil, err
	}

	args := make([]any, len(variant.Params))
	for i, name := range variant.Params {
		fieldVal, ok := obj[name]
		if !ok {
			continue
		}
		decoded, err := r.decodeValue(fieldVal)
		if err != nil {
			return nil, err
		}
		args[i] = decoded
	}
	return variant.New(args), nil
}

func (r *Registry) decodeValue(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		if _, ok := val[typeKey]; ok {
			return r.Decode(val)
		}
		return val, nil
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			decoded, err := r.decodeValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = decoded
		}
		return out, nil
	default:
		return v, nil
	}
}

func decodeTag(v any) (Tag, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Tag{}, &InvalidOperationError{Reason: "_type marker is not an object"}
	}
	ns, ok := obj["namespace"].(string)
	if !ok {
		return Tag{}, &InvalidOperationError{Reason: "_type marker missing namespace"}
	}
	kind, ok := obj["kind"].(string)
	if !ok {
		return Tag{}, &InvalidOperationError{Reason: "_type marker missing kind"}
	}
	return Tag{Namespace: ns, Kind: kind}, nil
}

// Marshal serializes an operation to JSON text.
func Marshal(op Operation) ([]byte, error) {
	return json.Marshal(Encode(op))
}

// Unmarshal parses JSON text and decodes it against the default registry.
func Unmarshal(data []byte) (Operation, error) {
	return DefaultRegistry().Unmarshal(data)
}

// Unmarshal parses JSON text and decodes it against this registry.
func (r *Registry) Unmarshal(data []byte) (Operation, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, &InvalidOperationError{Reason: err.Error()}
	}
	return r.Decode(value)
}
