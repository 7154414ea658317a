package schema

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
)

type fakeEntity string

func (e fakeEntity) EntityID() string { return string(e) }

type fakeCollection struct {
	ids []string
}

func (c *fakeCollection) Name() string { return "fake" }

func (c *fakeCollection) All() ([]Entity, error) {
	out := make([]Entity, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, fakeEntity(id))
	}

	return out, nil
}

func (c *fakeCollection) Find(ids ...string) ([]Entity, error) {
	var out []Entity

	for _, id := range ids {
		for _, known := range c.ids {
			if id == known {
				out = append(out, fakeEntity(id))
			}
		}
	}

	return out, nil
}

func TestFieldClean(t *testing.T) {
	users := &fakeCollection{ids: []string{"1", "2"}}

	testCases := []struct {
		name    string
		field   *Field
		raw     any
		want    any
		wantErr string
	}{
		{name: "integer from text", field: NewField("n", Integer), raw: "5", want: int64(5)},
		{name: "integer from float", field: NewField("n", Integer), raw: 5.0, want: int64(5)},
		{name: "integer from json number", field: NewField("n", Integer), raw: json.Number("7"), want: int64(7)},
		{name: "integer with zero fraction", field: NewField("n", Integer), raw: "1.0", want: int64(1)},
		{name: "integer rejects text", field: NewField("n", Integer), raw: "abc", wantErr: msgInteger},
		{name: "integer rejects fraction", field: NewField("n", Integer), raw: 1.5, wantErr: msgInteger},
		{name: "integer required", field: NewField("n", Integer), raw: "", wantErr: msgRequired},
		{name: "integer optional", field: NewField("n", Integer, WithRequired(false)), raw: nil, want: nil},
		{
			name:    "integer below minimum",
			field:   NewField("n", Integer, WithMin(1)),
			raw:     0,
			wantErr: "Ensure this value is greater than or equal to 1.",
		},
		{name: "float", field: NewField("f", Float), raw: "1.25", want: 1.25},
		{name: "float rejects text", field: NewField("f", Float), raw: "x", wantErr: msgNumber},
		{name: "boolean empty", field: NewField("b", Boolean), raw: "", want: false},
		{name: "boolean zero", field: NewField("b", Boolean), raw: "0", want: false},
		{name: "boolean false text", field: NewField("b", Boolean), raw: "False", want: false},
		{name: "boolean checkbox", field: NewField("b", Boolean), raw: "on", want: true},
		{name: "boolean native", field: NewField("b", Boolean), raw: true, want: true},
		{name: "nullboolean zero is unknown", field: NewField("b", NullBoolean), raw: "0", want: nil},
		{name: "nullboolean yes", field: NewField("b", NullBoolean), raw: "2", want: true},
		{name: "nullboolean no", field: NewField("b", NullBoolean), raw: "3", want: false},
		{name: "nullboolean native", field: NewField("b", NullBoolean), raw: false, want: false},
		{name: "duration plain seconds", field: NewField("d", Duration), raw: "1", want: time.Second},
		{name: "duration float seconds", field: NewField("d", Duration), raw: "840.0", want: 14 * time.Minute},
		{name: "duration json seconds", field: NewField("d", Duration), raw: 840.0, want: 14 * time.Minute},
		{name: "duration clock", field: NewField("d", Duration), raw: "1 02:03:04", want: 26*time.Hour + 3*time.Minute + 4*time.Second},
		{name: "duration minutes", field: NewField("d", Duration), raw: "02:03", want: 2*time.Minute + 3*time.Second},
		{
			name:  "duration fraction",
			field: NewField("d", Duration),
			raw:   "00:00:01.5",
			want:  time.Second + 500*time.Millisecond,
		},
		{name: "duration units", field: NewField("d", Duration), raw: "1h30m", want: 90 * time.Minute},
		{name: "duration days", field: NewField("d", Duration), raw: "2d", want: 48 * time.Hour},
		{name: "duration rejects text", field: NewField("d", Duration), raw: "soon", wantErr: msgDuration},
		{name: "time short hour", field: NewField("t", Time), raw: "4:23", want: civil.Time{Hour: 4, Minute: 23}},
		{name: "time rejects text", field: NewField("t", Time), raw: "noon", wantErr: msgTime},
		{name: "date iso", field: NewField("d", Date), raw: "2016-01-01", want: civil.Date{Year: 2016, Month: 1, Day: 1}},
		{name: "date us", field: NewField("d", Date), raw: "01/01/2016", want: civil.Date{Year: 2016, Month: 1, Day: 1}},
		{name: "date rejects text", field: NewField("d", Date), raw: "someday", wantErr: msgDate},
		{name: "datetime rejects text", field: NewField("d", DateTime), raw: "later", wantErr: msgDateTime},
		{
			name:  "uuid",
			field: NewField("u", UUID),
			raw:   "e6a5e3a2-0c6b-4b8e-9f3f-3c0b4a1d2e5f",
			want:  uuid.MustParse("e6a5e3a2-0c6b-4b8e-9f3f-3c0b4a1d2e5f"),
		},
		{name: "uuid rejects text", field: NewField("u", UUID), raw: "nope", wantErr: msgUUID},
		{name: "email", field: NewField("e", Email), raw: " a@b.com ", want: "a@b.com"},
		{name: "email rejects text", field: NewField("e", Email), raw: "ab", wantErr: msgEmail},
		{name: "url", field: NewField("u", URL), raw: "https://example.com/", want: "https://example.com/"},
		{name: "url rejects text", field: NewField("u", URL), raw: "example", wantErr: msgURL},
		{name: "url ftps", field: NewField("u", URL), raw: "ftps://example.com", want: "ftps://example.com"},
		{name: "url rejects opaque", field: NewField("u", URL), raw: "en:US", wantErr: msgURL},
		{name: "url rejects host port", field: NewField("u", URL), raw: "localhost:8080", wantErr: msgURL},
		{name: "url rejects other schemes", field: NewField("u", URL), raw: "gopher://example.com", wantErr: msgURL},
		{name: "url rejects missing host", field: NewField("u", URL), raw: "https:///path", wantErr: msgURL},
		{name: "ip", field: NewField("i", IP), raw: "::1", want: "::1"},
		{name: "ip rejects host", field: NewField("i", IP), raw: "localhost", wantErr: msgIP},
		{name: "slug", field: NewField("s", Slug), raw: "a-b", want: "a-b"},
		{name: "slug rejects spaces", field: NewField("s", Slug), raw: "a b", wantErr: msgSlug},
		{name: "text", field: NewField("s", Text), raw: " hi ", want: "hi"},
		{name: "text optional", field: NewField("s", Text, WithRequired(false)), raw: "", want: ""},
		{
			name:  "rich text keeps safe markup",
			field: NewField("r", RichText),
			raw:   "<em>html!</em><script>alert(1)</script>",
			want:  "<em>html!</em>",
		},
		{
			name:  "pattern empty",
			field: NewField("p", Pattern, WithPattern(regexp.MustCompile(`^\d+$`))),
			raw:   "",
			want:  "",
		},
		{
			name:  "pattern match",
			field: NewField("p", Pattern, WithPattern(regexp.MustCompile(`^\d+$`))),
			raw:   "12",
			want:  "12",
		},
		{
			name:    "pattern mismatch",
			field:   NewField("p", Pattern, WithPattern(regexp.MustCompile(`^\d+$`))),
			raw:     "ab",
			wantErr: msgValue,
		},
		{
			name:  "choice",
			field: NewField("c", SingleChoice, WithChoices(Choices{{Value: "a"}, {Value: "b"}})),
			raw:   "b",
			want:  "b",
		},
		{
			name:    "choice unknown",
			field:   NewField("c", SingleChoice, WithChoices(Choices{{Value: "a"}})),
			raw:     "c",
			wantErr: "Select a valid choice. c is not one of the available choices.",
		},
		{
			name:  "choice from number",
			field: NewField("c", SingleChoice, WithChoices(Choices{{Value: "1"}})),
			raw:   1.0,
			want:  "1",
		},
		{
			name:  "multiple choice list",
			field: NewField("m", MultipleChoice, WithChoices(Choices{{Value: "a"}, {Value: "b"}})),
			raw:   []any{"a", "b"},
			want:  []string{"a", "b"},
		},
		{
			name:  "multiple choice single",
			field: NewField("m", MultipleChoice, WithChoices(Choices{{Value: "a"}})),
			raw:   "a",
			want:  []string{"a"},
		},
		{
			name:  "multiple choice optional empty",
			field: NewField("m", MultipleChoice, WithRequired(false)),
			raw:   []any{},
			want:  []string{},
		},
		{
			name:  "entity",
			field: NewField("u", EntityChoice, WithCollection(users)),
			raw:   "1",
			want:  fakeEntity("1"),
		},
		{
			name:    "entity unknown",
			field:   NewField("u", EntityChoice, WithCollection(users)),
			raw:     "9",
			wantErr: "Select a valid choice. 9 is not one of the available choices.",
		},
		{
			name:  "entities keep order",
			field: NewField("u", EntityMultipleChoice, WithCollection(users)),
			raw:   []any{"2", "1"},
			want:  []Entity{fakeEntity("2"), fakeEntity("1")},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.field.Clean(tc.raw)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tc.wantErr, err.Error())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFieldCleanDateTime(t *testing.T) {
	f := NewField("d", DateTime)

	testCases := []struct {
		name string
		raw  any
		want time.Time
	}{
		{
			name: "microseconds",
			raw:  "2015-08-01 16:08:51.125068",
			want: time.Date(2015, 8, 1, 16, 8, 51, 125068000, time.UTC),
		},
		{
			name: "us format",
			raw:  "01/01/2016 01:01:01",
			want: time.Date(2016, 1, 1, 1, 1, 1, 0, time.UTC),
		},
		{
			name: "offset",
			raw:  "2015-08-01T16:08:51+02:00",
			want: time.Date(2015, 8, 1, 14, 8, 51, 0, time.UTC),
		},
		{
			name: "date only",
			raw:  "2016-01-01",
			want: time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "civil",
			raw:  civil.DateTime{Date: civil.Date{Year: 2016, Month: 1, Day: 1}, Time: civil.Time{Hour: 2}},
			want: time.Date(2016, 1, 1, 2, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.Clean(tc.raw)
			require.NoError(t, err)

			parsed, ok := got.(time.Time)
			require.True(t, ok)
			assert.True(t, tc.want.Equal(parsed), "got %s", parsed)
		})
	}
}

func TestFieldCleanDecimal(t *testing.T) {
	f := NewField("d", Decimal)

	for _, raw := range []any{"1.50", 1.5, json.Number("1.5"), decimal.RequireFromString("1.5")} {
		got, err := f.Clean(raw)
		require.NoError(t, err)

		d, ok := got.(decimal.Decimal)
		require.True(t, ok)
		assert.True(t, d.Equal(decimal.RequireFromString("1.5")), "got %s", d)
	}

	_, err := f.Clean("x")
	require.Error(t, err)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Per page", Label("per_page"))
	assert.Equal(t, "List per page", Pretty("LIST_PER_PAGE"))
	assert.Empty(t, Label(""))
}
