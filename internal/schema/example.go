package schema

import "sort"

// Pair is one key of an ordered example.
type Pair struct {
	Key   string
	Value any
}

// Example is a mapping of field keys to sample values. Field order follows the
// declared order for Ordered examples and sorted keys otherwise.
type Example struct {
	keys    []string
	values  map[string]any
	ordered bool
}

// Ordered builds an example that keeps the given key order.
func Ordered(pairs ...Pair) Example {
	e := Example{values: make(map[string]any, len(pairs)), ordered: true}

	for _, p := range pairs {
		if _, dup := e.values[p.Key]; !dup {
			e.keys = append(e.keys, p.Key)
		}

		e.values[p.Key] = p.Value
	}

	return e
}

// From builds an example from an unordered mapping; keys are sorted.
func From(values map[string]any) Example {
	e := Example{values: make(map[string]any, len(values))}

	for k, v := range values {
		e.keys = append(e.keys, k)
		e.values[k] = v
	}

	sort.Strings(e.keys)

	return e
}

// Keys returns the field keys in field order.
func (e Example) Keys() []string {
	return append([]string(nil), e.keys...)
}

// Get returns the sample value of a key.
func (e Example) Get(key string) (any, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Len returns the number of keys.
func (e Example) Len() int {
	return len(e.keys)
}

// IsOrdered reports whether key order came from the caller.
func (e Example) IsOrdered() bool {
	return e.ordered
}

// Map returns a copy of the values.
func (e Example) Map() map[string]any {
	out := make(map[string]any, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}

	return out
}
