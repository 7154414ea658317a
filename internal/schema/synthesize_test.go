package schema

import (
	"regexp"
	"testing"
	"testing/fstest"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticStore() *AssetStore {
	return &AssetStore{
		Name:    "static",
		URL:     "/__static__/",
		Aliases: []string{"staticfiles"},
		FS: fstest.MapFS{
			"admin/js/core.js":    {Data: []byte("core")},
			"admin/css/login.css": {Data: []byte("login")},
			"robots.txt":          {Data: []byte("robots")},
		},
	}
}

func TestSynthesizeKinds(t *testing.T) {
	synth := NewSynthesizer(WithAssetStores(staticStore()))

	testCases := []struct {
		name  string
		value any
		kind  Kind
	}{
		{name: "nil", value: nil, kind: NullBoolean},
		{name: "time", value: time.Date(2015, 8, 1, 16, 8, 51, 0, time.UTC), kind: DateTime},
		{name: "civil datetime", value: civil.DateTime{Date: civil.Date{Year: 2015, Month: 8, Day: 1}}, kind: DateTime},
		{name: "civil date", value: civil.Date{Year: 2015, Month: 8, Day: 1}, kind: Date},
		{name: "civil time", value: civil.Time{Hour: 4, Minute: 23}, kind: Time},
		{name: "duration", value: 14 * time.Minute, kind: Duration},
		{name: "decimal", value: decimal.RequireFromString("1.5"), kind: Decimal},
		{name: "float", value: 1.5, kind: Float},
		{name: "bool", value: true, kind: Boolean},
		{name: "int", value: 1, kind: Integer},
		{name: "uint", value: uint8(1), kind: Integer},
		{name: "uuid", value: uuid.New(), kind: UUID},
		{name: "choices", value: Choices{{Value: "a", Label: "A"}}, kind: SingleChoice},
		{name: "mapping", value: map[string]string{"b": "B", "a": "A"}, kind: SingleChoice},
		{name: "list", value: []string{"x", "y"}, kind: MultipleChoice},
		{name: "set", value: map[string]struct{}{"z": {}, "y": {}}, kind: SingleChoice},
		{name: "entity", value: EntityRef{Collection: &fakeCollection{}, ID: "1"}, kind: EntityChoice},
		{name: "entities", value: EntitySet{Collection: &fakeCollection{}}, kind: EntityMultipleChoice},
		{name: "regexp", value: regexp.MustCompile(`^\d+$`), kind: Pattern},
		{name: "deferred", value: Deferred(func() any { return 5 }), kind: Integer},
		{name: "ip", value: "127.0.0.1", kind: IP},
		{name: "url", value: "https://news.bbc.co.uk/", kind: URL},
		{name: "ftp url", value: "ftp://files.example.com/pub", kind: URL},
		{name: "label with colon", value: "Status: on", kind: Text},
		{name: "note with colon", value: "note:hello", kind: Text},
		{name: "locale", value: "en:US", kind: Text},
		{name: "host and port", value: "redis:6379", kind: Text},
		{name: "localhost and port", value: "localhost:8080", kind: Text},
		{name: "url without host", value: "http://", kind: Text},
		{name: "mailto", value: "mailto:a@b.com", kind: Text},
		{name: "email", value: "a@b.com", kind: Email},
		{name: "digits", value: "1", kind: Integer},
		{name: "decimal string", value: "1.0", kind: Decimal},
		{name: "uuid string", value: "e6a5e3a2-0c6b-4b8e-9f3f-3c0b4a1d2e5f", kind: UUID},
		{name: "static base", value: "/__static__/", kind: AssetChoice},
		{name: "static prefix", value: `/__static__/\.js$`, kind: AssetChoice},
		{name: "static anchored", value: `^/__static__/\.css$`, kind: AssetChoice},
		{name: "static alias", value: "staticfiles", kind: AssetChoice},
		{name: "time string", value: "4:23", kind: Time},
		{name: "date string", value: "01/01/2016", kind: Date},
		{name: "datetime string", value: "01/01/2016 01:01:01", kind: DateTime},
		{name: "slug", value: "a-b", kind: Slug},
		{name: "punctuated", value: "a-b!!!", kind: Text},
		{name: "trailing space", value: "a-b ", kind: Text},
		{name: "markup", value: "<em>html!</em>", kind: RichText},
		{name: "plain", value: "hello", kind: Text},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := synth.Synthesize(Ordered(Pair{Key: "value", Value: tc.value}))
			require.NoError(t, err)

			f, ok := s.Field("value")
			require.True(t, ok)
			assert.Equal(t, tc.kind, f.Kind)
		})
	}
}

func TestSynthesizeInitial(t *testing.T) {
	synth := NewSynthesizer()

	s, err := synth.Synthesize(From(map[string]any{
		"digits":  "1",
		"mapping": map[string]string{"b": "B", "a": "A"},
		"set":     map[string]struct{}{"z": {}, "y": {}},
		"list":    []int{1, 2},
		"date":    "01/01/2016",
		"flag":    false,
		"text":    "hello",
	}))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"digits":  int64(1),
		"mapping": "a",
		"set":     "y",
		"list":    []string{"1", "2"},
		"date":    civil.Date{Year: 2016, Month: 1, Day: 1},
		"flag":    false,
		"text":    "hello",
	}, s.Initial())
}

func TestSynthesizeRequired(t *testing.T) {
	s, err := NewSynthesizer().Synthesize(From(map[string]any{
		"flag":    true,
		"maybe":   nil,
		"pattern": regexp.MustCompile("x"),
		"count":   1,
	}))
	require.NoError(t, err)

	for key, want := range map[string]bool{"flag": false, "maybe": false, "pattern": false, "count": true} {
		f, ok := s.Field(key)
		require.True(t, ok)
		assert.Equal(t, want, f.Required, key)
	}
}

func TestSynthesizeOrder(t *testing.T) {
	synth := NewSynthesizer()

	sorted, err := synth.Synthesize(From(map[string]any{"b": 1, "a": 2, "c": 3}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, sorted.Keys())

	ordered, err := synth.Synthesize(Ordered(Pair{"b", 1}, Pair{"a", 2}, Pair{"c", 3}))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, ordered.Keys())
	assert.Equal(t, "BACSchema", ordered.Name())
}

func TestSynthesizeUnsupported(t *testing.T) {
	testCases := []struct {
		name  string
		value any
	}{
		{name: "struct", value: struct{ X int }{X: 1}},
		{name: "channel", value: make(chan int)},
		{name: "nested list", value: [][]string{{"a"}}},
		{name: "mapping with composite labels", value: map[string]any{"a": []string{"x"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSynthesizer().Synthesize(From(map[string]any{"value": tc.value}))
			require.ErrorIs(t, err, ErrSchemaGeneration)
		})
	}
}

func TestSynthesizeAssetFilter(t *testing.T) {
	synth := NewSynthesizer(WithAssetStores(staticStore()))

	testCases := []struct {
		name  string
		value string
		want  []string
	}{
		{
			name:  "exact base lists everything",
			value: "/__static__/",
			want:  []string{"admin/css/login.css", "admin/js/core.js", "robots.txt"},
		},
		{
			name:  "prefix filters by remainder",
			value: `/__static__/\.js$`,
			want:  []string{"admin/js/core.js"},
		},
		{
			name:  "anchored prefix filters by remainder",
			value: `^/__static__/\.css$`,
			want:  []string{"admin/css/login.css"},
		},
		{
			name:  "alias lists everything",
			value: "staticfiles",
			want:  []string{"admin/css/login.css", "admin/js/core.js", "robots.txt"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := synth.Synthesize(From(map[string]any{"asset": tc.value}))
			require.NoError(t, err)

			f, _ := s.Field("asset")
			options, err := f.Options()
			require.NoError(t, err)
			assert.Equal(t, tc.want, options.Values())
		})
	}
}
