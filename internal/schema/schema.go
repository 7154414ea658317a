// Package schema describes setting values: typed fields, validation and the
// derivation of a schema from an example value.
package schema

import (
	"fmt"
	"reflect"
	"regexp"
)

// Schema is a named, ordered set of fields that validates a setting value.
type Schema struct {
	name   string
	fields []*Field
	index  map[string]int
}

// New builds a schema. Field names must be unique.
func New(name string, fields ...*Field) (*Schema, error) {
	s := &Schema{
		name:   name,
		fields: make([]*Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}

	for _, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s in %s", ErrDuplicateField, f.Name, name)
		}

		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}

	return s, nil
}

// MustNew is like New but panics on a duplicate field.
func MustNew(name string, fields ...*Field) *Schema {
	s, err := New(name, fields...)
	if err != nil {
		panic(err)
	}

	return s
}

// Name is the schema's display name.
func (s *Schema) Name() string {
	return s.name
}

// Fields returns the fields in order.
func (s *Schema) Fields() []*Field {
	return append([]*Field(nil), s.fields...)
}

// Field looks up a field by key.
func (s *Schema) Field(name string) (*Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}

	return s.fields[i], true
}

// Len is the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Keys returns the field keys in order.
func (s *Schema) Keys() []string {
	keys := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		keys = append(keys, f.Name)
	}

	return keys
}

// Initial returns the initial value of every field that has one.
func (s *Schema) Initial() map[string]any {
	out := make(map[string]any, len(s.fields))

	for _, f := range s.fields {
		if f.Initial != nil {
			out[f.Name] = f.Initial
		}
	}

	return out
}

// Validate cleans every field of the schema. Keys that are not fields are ignored.
// On failure the returned map still holds the fields that cleaned.
func (s *Schema) Validate(data map[string]any) (map[string]any, error) {
	return s.clean(data, false)
}

// ValidatePresent cleans only the fields present in data, so a value stored
// before a field was added still validates.
func (s *Schema) ValidatePresent(data map[string]any) (map[string]any, error) {
	return s.clean(data, true)
}

func (s *Schema) clean(data map[string]any, presentOnly bool) (map[string]any, error) {
	var verr ValidationError

	cleaned := make(map[string]any, len(s.fields))

	for _, f := range s.fields {
		raw, present := data[f.Name]
		if presentOnly && !present {
			continue
		}

		v, err := f.Clean(raw)
		if err != nil {
			verr.add(f.Name, err.Error())
			continue
		}

		cleaned[f.Name] = v
	}

	if len(verr.Fields) > 0 {
		return cleaned, &verr
	}

	return cleaned, nil
}

// Prepare replaces example-only values by the initial value of their field, so
// a default given as an example becomes storable: an option list becomes its
// first option and a sniffed string becomes its parsed value.
func (s *Schema) Prepare(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))

	for k, v := range values {
		v = Resolve(v)

		f, ok := s.Field(k)
		switch {
		case !ok:
		case f.isExample(v):
			v = f.Initial
		case f.Kind == MultipleChoice:
			if list, isList := listOf(v); isList {
				v = list
			}
		}

		out[k] = v
	}

	return out
}

func (f *Field) isExample(v any) bool {
	switch x := v.(type) {
	case Choices, *regexp.Regexp, EntityRef:
		return true
	case string:
		return f.example != "" && x == f.example
	}

	return reflect.ValueOf(v).Kind() == reflect.Map
}

// Catalog resolves schema references used in declarations.
type Catalog map[string]*Schema

// Lookup returns the schema registered under ref.
func (c Catalog) Lookup(ref string) (*Schema, bool) {
	s, ok := c[ref]
	return s, ok
}
