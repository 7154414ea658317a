package schema

import (
	"fmt"
	"html"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
)

// Synthesizer derives schemas from example values.
type Synthesizer struct {
	assets   []*AssetStore
	listings *lru.Cache[string, Choices]
	strict   *bluemonday.Policy
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithAssetStores makes strings referring to the stores become asset choices.
func WithAssetStores(stores ...*AssetStore) Option {
	return func(s *Synthesizer) { s.assets = append(s.assets, stores...) }
}

// NewSynthesizer returns a synthesizer with a shared asset listing cache.
func NewSynthesizer(opts ...Option) *Synthesizer {
	listings, _ := lru.New[string, Choices](listingCacheSize)

	s := &Synthesizer{
		listings: listings,
		strict:   bluemonday.StrictPolicy(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Synthesize builds a schema with one field per example key, in example order.
func (s *Synthesizer) Synthesize(example Example) (*Schema, error) {
	keys := example.Keys()
	fields := make([]*Field, 0, len(keys))

	for _, key := range keys {
		v, _ := example.Get(key)

		f, err := s.infer(key, v)
		if err != nil {
			return nil, err
		}

		fields = append(fields, f)
	}

	if len(fields) != example.Len() {
		return nil, fmt.Errorf("%w: built %d fields for %d keys", ErrSchemaGeneration, len(fields), example.Len())
	}

	return New(schemaName(keys), fields...)
}

// schemaName is built from the initials of the keys, e.g. "CUSchema" for count and user_id.
func schemaName(keys []string) string {
	var b strings.Builder

	for _, k := range keys {
		if k == "" {
			continue
		}

		b.WriteString(strings.ToUpper(k[:1]))
	}

	b.WriteString("Schema")

	return b.String()
}

type valueRule struct {
	match func(v any) bool
	build func(s *Synthesizer, key string, v any) (*Field, error)
}

// valueRules are tried in order and the first match wins. Temporal types are
// checked before numbers and booleans before integers.
var valueRules = []valueRule{
	{isNil, func(_ *Synthesizer, key string, _ any) (*Field, error) {
		return NewField(key, NullBoolean), nil
	}},
	{isType[time.Time], initialField(DateTime)},
	{isType[civil.DateTime], func(_ *Synthesizer, key string, v any) (*Field, error) {
		return NewField(key, DateTime, WithInitial(v.(civil.DateTime).In(time.UTC))), nil
	}},
	{isType[civil.Date], initialField(Date)},
	{isType[civil.Time], initialField(Time)},
	{isType[time.Duration], initialField(Duration)},
	{isType[decimal.Decimal], initialField(Decimal)},
	{isFloat, func(_ *Synthesizer, key string, v any) (*Field, error) {
		return NewField(key, Float, WithInitial(reflect.ValueOf(v).Float())), nil
	}},
	{isType[bool], initialField(Boolean)},
	{isInteger, func(_ *Synthesizer, key string, v any) (*Field, error) {
		return NewField(key, Integer, WithInitial(toInt64(v))), nil
	}},
	{isType[uuid.UUID], initialField(UUID)},
	{isType[Choices], func(_ *Synthesizer, key string, v any) (*Field, error) {
		choices := v.(Choices)
		return NewField(key, SingleChoice, WithChoices(choices), WithInitial(firstValue(choices))), nil
	}},
	{isMapping, func(_ *Synthesizer, key string, v any) (*Field, error) {
		choices, err := mappingChoices(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSchemaGeneration, key, err)
		}

		return NewField(key, SingleChoice, WithChoices(choices), WithInitial(firstValue(choices))), nil
	}},
	{isList, func(_ *Synthesizer, key string, v any) (*Field, error) {
		values, ok := listOf(v)
		if !ok {
			return nil, fmt.Errorf("%w: %s: list items must be scalars", ErrSchemaGeneration, key)
		}

		choices := make(Choices, 0, len(values))
		for _, value := range values {
			choices = append(choices, Choice{Value: value, Label: value})
		}

		return NewField(key, MultipleChoice, WithChoices(choices), WithInitial(values)), nil
	}},
	{isSet, func(_ *Synthesizer, key string, v any) (*Field, error) {
		values := sortedKeys(reflect.ValueOf(v))

		choices := make(Choices, 0, len(values))
		for _, value := range values {
			choices = append(choices, Choice{Value: value, Label: value})
		}

		return NewField(key, SingleChoice, WithChoices(choices), WithInitial(firstValue(choices))), nil
	}},
	{isType[EntityRef], func(_ *Synthesizer, key string, v any) (*Field, error) {
		ref := v.(EntityRef)
		return NewField(key, EntityChoice, WithCollection(ref.Collection), WithInitial(ref.ID)), nil
	}},
	{isType[EntitySet], func(_ *Synthesizer, key string, v any) (*Field, error) {
		set := v.(EntitySet)
		return NewField(key, EntityMultipleChoice, WithCollection(set.Collection), WithInitial(set)), nil
	}},
	{isType[*regexp.Regexp], func(_ *Synthesizer, key string, v any) (*Field, error) {
		return NewField(key, Pattern, WithPattern(v.(*regexp.Regexp)), WithInitial("")), nil
	}},
	{isType[string], func(s *Synthesizer, key string, v any) (*Field, error) {
		return s.sniff(key, v.(string)), nil
	}},
}

func (s *Synthesizer) infer(key string, v any) (*Field, error) {
	v = Resolve(v)

	for _, rule := range valueRules {
		if rule.match(v) {
			return rule.build(s, key, v)
		}
	}

	return nil, fmt.Errorf("%w: cannot figure out an appropriate field for %s (%T)", ErrSchemaGeneration, key, v)
}

func initialField(kind Kind) func(*Synthesizer, string, any) (*Field, error) {
	return func(_ *Synthesizer, key string, v any) (*Field, error) {
		return NewField(key, kind, WithInitial(v)), nil
	}
}

func isNil(v any) bool {
	return v == nil
}

func isType[T any](v any) bool {
	_, ok := v.(T)
	return ok
}

func isFloat(v any) bool {
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Float32 || k == reflect.Float64
}

func isInteger(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func toInt64(v any) int64 {
	rv := reflect.ValueOf(v)
	if rv.CanInt() {
		return rv.Int()
	}

	return int64(rv.Uint()) //nolint:gosec
}

var emptyStruct = reflect.TypeOf(struct{}{})

func isMapping(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String && rv.Type().Elem() != emptyStruct
}

func isSet(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Map && rv.Type().Elem() == emptyStruct
}

func isList(v any) bool {
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func sortedKeys(rv reflect.Value) []string {
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		s, _ := stringOf(k.Interface())
		keys = append(keys, s)
	}

	sort.Strings(keys)

	return keys
}

// mappingChoices turns an unordered value/label mapping into options sorted by value.
func mappingChoices(v any) (Choices, error) {
	rv := reflect.ValueOf(v)
	choices := make(Choices, 0, rv.Len())

	for _, value := range sortedKeys(rv) {
		label, ok := stringOf(rv.MapIndex(reflect.ValueOf(value).Convert(rv.Type().Key())).Interface())
		if !ok {
			return nil, fmt.Errorf("label of %q is not text", value)
		}

		choices = append(choices, Choice{Value: value, Label: label})
	}

	return choices, nil
}

func firstValue(choices Choices) string {
	if len(choices) == 0 {
		return ""
	}

	return choices[0].Value
}

type stringRule func(s *Synthesizer, key, str string) (*Field, bool)

// stringRules decide the field of a plain string, first match wins.
var stringRules = []stringRule{
	taggedRule("ip", IP),
	taggedRule(webURLTag, URL),
	taggedRule("email", Email),
	func(_ *Synthesizer, key, str string) (*Field, bool) {
		if !allDigits(str) {
			return nil, false
		}

		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return nil, false
		}

		return NewField(key, Integer, WithInitial(n)), true
	},
	func(_ *Synthesizer, key, str string) (*Field, bool) {
		d, err := decimal.NewFromString(str)
		if err != nil {
			return nil, false
		}

		return NewField(key, Decimal, WithInitial(d)), true
	},
	func(_ *Synthesizer, key, str string) (*Field, bool) {
		id, err := uuid.Parse(str)
		if err != nil {
			return nil, false
		}

		return NewField(key, UUID, WithInitial(id)), true
	},
	func(s *Synthesizer, key, str string) (*Field, bool) {
		store, rest, ok := matchAsset(s.assets, str)
		if !ok {
			return nil, false
		}

		choices := &AssetChoices{Store: store, cache: s.listings}
		if rest != "" {
			filter, err := regexp.Compile(rest)
			if err != nil {
				return nil, false
			}

			choices.Filter = filter
		}

		f := NewField(key, AssetChoice, WithInitial(""), WithRequired(false))
		f.Assets = choices

		return f, true
	},
	func(_ *Synthesizer, key, str string) (*Field, bool) {
		t, ok := parseTime(str)
		if !ok {
			return nil, false
		}

		return NewField(key, Time, WithInitial(t)), true
	},
	func(_ *Synthesizer, key, str string) (*Field, bool) {
		d, ok := parseDate(str)
		if !ok {
			return nil, false
		}

		return NewField(key, Date, WithInitial(d)), true
	},
	func(_ *Synthesizer, key, str string) (*Field, bool) {
		t, ok := parseDateTime(str, time.UTC)
		if !ok {
			return nil, false
		}

		return NewField(key, DateTime, WithInitial(t)), true
	},
	func(_ *Synthesizer, key, str string) (*Field, bool) {
		if !strings.Contains(str, "-") || !slug.IsSlug(str) {
			return nil, false
		}

		return NewField(key, Slug, WithInitial(str)), true
	},
	func(s *Synthesizer, key, str string) (*Field, bool) {
		if html.UnescapeString(s.strict.Sanitize(str)) == str {
			return nil, false
		}

		return NewField(key, RichText, WithInitial(str)), true
	},
}

func taggedRule(tag string, kind Kind) stringRule {
	return func(_ *Synthesizer, key, str string) (*Field, bool) {
		if validate.Var(str, tag) != nil {
			return nil, false
		}

		return NewField(key, kind, WithInitial(str)), true
	}
}

func (s *Synthesizer) sniff(key, str string) *Field {
	f := NewField(key, Text, WithInitial(str))

	for _, rule := range stringRules {
		if matched, ok := rule(s, key, str); ok {
			f = matched
			break
		}
	}

	f.example = str

	return f
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
