package snapshot

import (
	"encoding/json"
	"slices"
	"strconv"

	"github.com/go-viper/mapstructure/v2"

	"github.com/GoStageSetting/GoStageSetting/internal/schema"
)

// Values is the validated field mapping of one setting.
type Values map[string]any

// Int returns an integer field or 0.
func (v Values) Int(key string) int64 {
	switch n := v[key].(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	default:
		return 0
	}
}

// Float returns a float field or 0.
func (v Values) Float(key string) float64 {
	switch n := v[key].(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}

// Bool returns a boolean field or false.
func (v Values) Bool(key string) bool {
	b, _ := v[key].(bool)
	return b
}

// Text returns a string field or "".
func (v Values) Text(key string) string {
	s, _ := v[key].(string)
	return s
}

// Decode copies the fields into out, matching keys to `setting` struct tags.
func (v Values) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "setting",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	return dec.Decode(map[string]any(v))
}

// clone copies v down to its lists and nested mappings, so callers can not
// reach the cached value through what they were handed.
func (v Values) clone() Values {
	if v == nil {
		return nil
	}

	out := make(Values, len(v))
	for key, value := range v {
		out[key] = cloneValue(value)
	}

	return out
}

func cloneValue(value any) any {
	switch x := value.(type) {
	case []string:
		return slices.Clone(x)
	case []schema.Entity:
		return slices.Clone(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}

		return out
	case map[string]any:
		return map[string]any(Values(x).clone())
	case Values:
		return x.clone()
	default:
		return value
	}
}
