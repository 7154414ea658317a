package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GoStageSetting/GoStageSetting/internal/schema"
)

const (
	dateTimeLayout = "2006-01-02 15:04:05"
	microLayout    = ".000000"
	offsetLayout   = "-07:00"
)

// Serialize encodes a setting value as JSON text. Temporal values, numbers with
// arbitrary precision, identifiers and entities are turned into text first.
func Serialize(v any) (string, error) {
	normalized, err := Normalize(v)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("serialize: %w", err)
	}

	return string(out), nil
}

// Deserialize decodes the stored form of a setting value. Numbers are kept as
// json.Number so integers survive unchanged.
func Deserialize(raw string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("deserialize: %w", err)
	}

	if out == nil {
		return nil, fmt.Errorf("deserialize: %w", schema.ErrNotObject)
	}

	return out, nil
}

// Normalize converts v into values encoding/json renders the way settings are stored.
func Normalize(v any) (any, error) {
	switch x := schema.Resolve(v).(type) {
	case nil:
		return nil, nil
	case json.Number, json.RawMessage:
		return x, nil
	case time.Time:
		return FormatDateTime(x), nil
	case civil.DateTime:
		return x.Date.String() + " " + formatClock(x.Time), nil
	case civil.Date:
		return x.String(), nil
	case civil.Time:
		return formatClock(x), nil
	case time.Duration:
		return FormatDuration(x), nil
	case uuid.UUID:
		return x.String(), nil
	case decimal.Decimal:
		return x.String(), nil
	case *regexp.Regexp:
		return x.String(), nil
	case schema.EntitySet:
		return x.Identities()
	case schema.Entity:
		return x.EntityID(), nil
	case []schema.Entity:
		ids := make([]string, 0, len(x))
		for _, e := range x {
			ids = append(ids, e.EntityID())
		}

		return ids, nil
	case schema.Choices:
		pairs := make([][2]string, 0, len(x))
		for _, c := range x {
			pairs = append(pairs, [2]string{c.Value, c.Label})
		}

		return pairs, nil
	case map[string]any:
		return normalizeMap(x)
	case string, bool, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return x, nil
	}

	return normalizeReflect(reflect.ValueOf(v))
}

func normalizeMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))

	for k, v := range m {
		nv, err := Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}

		out[k] = nv
	}

	return out, nil
}

func normalizeReflect(rv reflect.Value) (any, error) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}, nil
		}

		out := make([]any, 0, rv.Len())
		for i := range rv.Len() {
			nv, err := Normalize(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}

			out = append(out, nv)
		}

		return out, nil
	case reflect.Map:
		if rv.Type().Elem() == reflect.TypeOf(struct{}{}) {
			keys := make([]string, 0, rv.Len())
			for _, k := range rv.MapKeys() {
				keys = append(keys, fmt.Sprint(k.Interface()))
			}

			sort.Strings(keys)

			return keys, nil
		}

		out := make(map[string]any, rv.Len())
		for _, k := range rv.MapKeys() {
			nv, err := Normalize(rv.MapIndex(k).Interface())
			if err != nil {
				return nil, err
			}

			out[fmt.Sprint(k.Interface())] = nv
		}

		return out, nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}

		return Normalize(rv.Elem().Interface())
	}

	if m, ok := rv.Interface().(json.Marshaler); ok {
		return m, nil
	}

	return nil, fmt.Errorf("serialize: unsupported value of type %s", rv.Type())
}

// FormatDateTime renders t as "2006-01-02 15:04:05", adding microseconds when
// present and the offset when it is not zero.
func FormatDateTime(t time.Time) string {
	var b bytes.Buffer

	b.WriteString(t.Format(dateTimeLayout))

	if t.Nanosecond()/int(time.Microsecond) != 0 {
		b.WriteString(t.Format(microLayout))
	}

	if _, offset := t.Zone(); offset != 0 {
		b.WriteString(t.Format(offsetLayout))
	}

	return b.String()
}

func formatClock(t civil.Time) string {
	clock := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if micro := t.Nanosecond / int(time.Microsecond); micro != 0 {
		clock += fmt.Sprintf(".%06d", micro)
	}

	return clock
}

// FormatDuration renders d as its total number of seconds, e.g. "840.0".
func FormatDuration(d time.Duration) string {
	s := strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}
