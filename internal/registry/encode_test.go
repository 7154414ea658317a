package registry

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoStageSetting/GoStageSetting/internal/schema"
)

type fakeEntity string

func (e fakeEntity) EntityID() string { return string(e) }

type fakeCollection []string

func (c fakeCollection) Name() string { return "fake" }

func (c fakeCollection) All() ([]schema.Entity, error) {
	out := make([]schema.Entity, 0, len(c))
	for _, id := range c {
		out = append(out, fakeEntity(id))
	}

	return out, nil
}

func (c fakeCollection) Find(ids ...string) ([]schema.Entity, error) {
	out := make([]schema.Entity, 0, len(ids))
	for _, id := range ids {
		for _, known := range c {
			if id == known {
				out = append(out, fakeEntity(id))
			}
		}
	}

	return out, nil
}

func TestNormalize(t *testing.T) {
	users := fakeCollection{"1"}

	testCases := []struct {
		name  string
		value any
		want  any
	}{
		{
			name:  "datetime with microseconds",
			value: time.Date(2015, 8, 1, 16, 8, 51, 125068000, time.UTC),
			want:  "2015-08-01 16:08:51.125068",
		},
		{
			name:  "datetime without fraction",
			value: time.Date(2015, 8, 1, 16, 8, 51, 0, time.UTC),
			want:  "2015-08-01 16:08:51",
		},
		{
			name:  "datetime with offset",
			value: time.Date(2015, 8, 1, 16, 8, 51, 0, time.FixedZone("CEST", 2*60*60)),
			want:  "2015-08-01 16:08:51+02:00",
		},
		{
			name:  "civil datetime",
			value: civil.DateTime{Date: civil.Date{Year: 2015, Month: 8, Day: 1}, Time: civil.Time{Hour: 16, Minute: 8}},
			want:  "2015-08-01 16:08:00",
		},
		{name: "date", value: civil.Date{Year: 2015, Month: 8, Day: 1}, want: "2015-08-01"},
		{name: "time", value: civil.Time{Hour: 4, Minute: 23}, want: "04:23:00"},
		{name: "time with fraction", value: civil.Time{Hour: 4, Nanosecond: 5000}, want: "04:00:00.000005"},
		{name: "duration", value: 14 * time.Minute, want: "840.0"},
		{name: "fractional duration", value: 1500 * time.Millisecond, want: "1.5"},
		{
			name:  "uuid",
			value: uuid.MustParse("e6a5e3a2-0c6b-4b8e-9f3f-3c0b4a1d2e5f"),
			want:  "e6a5e3a2-0c6b-4b8e-9f3f-3c0b4a1d2e5f",
		},
		{name: "decimal", value: decimal.RequireFromString("1.50"), want: "1.5"},
		{name: "pattern", value: regexp.MustCompile(`^\d+$`), want: `^\d+$`},
		{name: "entity", value: schema.EntityRef{Collection: users, ID: "1"}, want: "1"},
		{name: "entity set", value: schema.EntitySet{Collection: users}, want: []string{"1"}},
		{name: "entities", value: []schema.Entity{fakeEntity("2"), fakeEntity("1")}, want: []string{"2", "1"}},
		{name: "deferred", value: schema.Deferred(func() any { return 14 * time.Minute }), want: "840.0"},
		{name: "set", value: map[string]struct{}{"y": {}, "x": {}}, want: []string{"x", "y"}},
		{name: "list", value: []int{1, 2}, want: []any{1, 2}},
		{name: "nil", value: nil, want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeUnsupported(t *testing.T) {
	_, err := Normalize(struct{ X int }{X: 1})
	require.Error(t, err)

	_, err = Serialize(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
}

func TestSerialize(t *testing.T) {
	raw, err := Serialize(map[string]any{
		"int":     1,
		"when":    time.Date(2015, 8, 1, 16, 8, 51, 125068000, time.UTC),
		"timeout": 14 * time.Minute,
		"user":    fakeEntity("1"),
		"nested":  map[string]any{"d": civil.Date{Year: 2016, Month: 1, Day: 1}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"int": 1,
		"when": "2015-08-01 16:08:51.125068",
		"timeout": "840.0",
		"user": "1",
		"nested": {"d": "2016-01-01"}
	}`, raw)
}

func TestDeserialize(t *testing.T) {
	got, err := Deserialize(`{"count": 25, "name": "x", "ids": ["1"]}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"count": json.Number("25"),
		"name":  "x",
		"ids":   []any{"1"},
	}, got)

	for _, raw := range []string{"", "[]", "null", "nope"} {
		_, err := Deserialize(raw)
		require.Error(t, err, raw)
	}
}

func TestRoundTripThroughSchema(t *testing.T) {
	s, err := schema.NewSynthesizer().Synthesize(schema.From(map[string]any{
		"when":    time.Date(2015, 8, 1, 16, 8, 51, 125068000, time.UTC),
		"timeout": 14 * time.Minute,
		"price":   decimal.RequireFromString("9.99"),
	}))
	require.NoError(t, err)

	raw, err := Serialize(s.Initial())
	require.NoError(t, err)

	data, err := Deserialize(raw)
	require.NoError(t, err)

	cleaned, err := s.Validate(data)
	require.NoError(t, err)

	assert.True(t, time.Date(2015, 8, 1, 16, 8, 51, 125068000, time.UTC).Equal(cleaned["when"].(time.Time)))
	assert.Equal(t, 14*time.Minute, cleaned["timeout"])
	assert.True(t, decimal.RequireFromString("9.99").Equal(cleaned["price"].(decimal.Decimal)))
}
