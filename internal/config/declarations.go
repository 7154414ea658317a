package config

import (
	"time"

	"cloud.google.com/go/civil"
)

// Location names the toml decoder gives local dates, times and datetimes.
const (
	tomlLocalDate     = "date-local"
	tomlLocalTime     = "time-local"
	tomlLocalDatetime = "datetime-local"
)

// Declarations returns the [Settings] table with TOML local dates, times and
// datetimes turned into civil values, so they synthesize to the matching field kind.
func (c *Config) Declarations() map[string]any {
	if c.Settings == nil {
		return map[string]any{}
	}

	out, _ := convertLocal(c.Settings).(map[string]any)

	return out
}

func convertLocal(v any) any {
	switch x := v.(type) {
	case time.Time:
		switch x.Location().String() {
		case tomlLocalDate:
			return civil.DateOf(x)
		case tomlLocalTime:
			return civil.TimeOf(x)
		case tomlLocalDatetime:
			return civil.DateTimeOf(x)
		default:
			return x
		}
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = convertLocal(item)
		}

		return out
	case []any:
		out := make([]any, 0, len(x))
		for _, item := range x {
			out = append(out, convertLocal(item))
		}

		return out
	case []map[string]any:
		out := make([]any, 0, len(x))
		for _, item := range x {
			out = append(out, convertLocal(item))
		}

		return out
	default:
		return v
	}
}
