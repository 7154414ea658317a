package schema

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Field describes one key of a setting value.
type Field struct {
	Name       string
	Kind       Kind
	Label      string
	Help       string
	Warning    string
	Required   bool
	Initial    any
	Choices    Choices
	Pattern    *regexp.Regexp
	Collection Collection
	Assets     *AssetChoices
	Min        *int64
	Max        *int64
	Location   *time.Location

	// example is the literal string the field was synthesized from, if any.
	example string
}

// FieldOption customizes a field.
type FieldOption func(*Field)

// NewField returns a field of the given kind. Booleans, tri-state booleans and
// patterns are optional, everything else is required unless overridden.
func NewField(name string, kind Kind, opts ...FieldOption) *Field {
	f := &Field{
		Name:     name,
		Kind:     kind,
		Label:    Label(name),
		Required: kind.requiredByDefault(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// WithInitial sets the value shown when nothing is stored.
func WithInitial(v any) FieldOption {
	return func(f *Field) { f.Initial = v }
}

// WithRequired overrides whether an empty value is accepted.
func WithRequired(required bool) FieldOption {
	return func(f *Field) { f.Required = required }
}

// WithLabel replaces the generated label.
func WithLabel(label string) FieldOption {
	return func(f *Field) { f.Label = label }
}

// WithHelp sets the help text.
func WithHelp(help string) FieldOption {
	return func(f *Field) { f.Help = help }
}

// WithChoices sets the options of a choice field.
func WithChoices(choices Choices) FieldOption {
	return func(f *Field) { f.Choices = choices }
}

// WithPattern constrains text to the given expression.
func WithPattern(re *regexp.Regexp) FieldOption {
	return func(f *Field) { f.Pattern = re }
}

// WithCollection scopes an entity field.
func WithCollection(c Collection) FieldOption {
	return func(f *Field) { f.Collection = c }
}

// WithMin sets the lower bound of an integer field.
func WithMin(v int64) FieldOption {
	return func(f *Field) { f.Min = &v }
}

// WithMax sets the upper bound of an integer field.
func WithMax(v int64) FieldOption {
	return func(f *Field) { f.Max = &v }
}

// WithLocation sets the zone used to interpret date/times without offset.
func WithLocation(loc *time.Location) FieldOption {
	return func(f *Field) { f.Location = loc }
}

// Options lists the selectable values of the field. Asset listings are built on demand.
func (f *Field) Options() (Choices, error) {
	if f.Assets != nil {
		return f.Assets.Choices()
	}

	if f.Collection != nil {
		entities, err := f.Collection.All()
		if err != nil {
			return nil, err
		}

		choices := make(Choices, 0, len(entities))
		for _, e := range entities {
			choices = append(choices, Choice{Value: e.EntityID(), Label: entityLabel(e)})
		}

		return choices, nil
	}

	return f.Choices, nil
}

func entityLabel(e Entity) string {
	if s, ok := e.(interface{ String() string }); ok {
		return s.String()
	}

	return e.EntityID()
}

func (f *Field) location() *time.Location {
	if f.Location != nil {
		return f.Location
	}

	return time.UTC
}

// Widget names the HTML input the admin renders for the field.
func (f *Field) Widget() string {
	return f.Kind.Widget()
}

// Label turns a field key into a human readable label: "per_page" becomes "Per page".
func Label(name string) string {
	s := strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if s == "" {
		return s
	}

	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])

	return string(r)
}

// Pretty turns a setting name into a title: "LIST_PER_PAGE" becomes "List per page".
func Pretty(name string) string {
	return Label(strings.ToLower(name))
}
