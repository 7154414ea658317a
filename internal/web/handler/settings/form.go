package settings

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/GoStageSetting/GoStageSetting/internal/registry"
	"github.com/GoStageSetting/GoStageSetting/internal/schema"
)

// FormField is one rendered input of the edit form.
type FormField struct {
	Name     string
	Label    string
	Help     string
	Warning  string
	Widget   string
	Required bool
	Value    string
	Checked  bool
	Selected map[string]bool
	Groups   []schema.ChoiceGroup
	Errors   []string
}

var nullBooleanChoices = schema.Choices{ //nolint:gochecknoglobals
	{Value: "unknown", Label: "Unknown"},
	{Value: "true", Label: "Yes"},
	{Value: "false", Label: "No"},
}

// buildForm renders values, which may be cleaned values or the raw submitted
// data, into the fields of sch.
func buildForm(sch *schema.Schema, values map[string]any, errs map[string][]string) ([]FormField, error) {
	fields := make([]FormField, 0, sch.Len())

	for _, f := range sch.Fields() {
		ff := FormField{
			Name:     f.Name,
			Label:    f.Label,
			Help:     f.Help,
			Warning:  f.Warning,
			Widget:   f.Widget(),
			Required: f.Required,
			Selected: map[string]bool{},
			Errors:   errs[f.Name],
		}

		v, err := registry.Normalize(values[f.Name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}

		switch f.Kind {
		case schema.Boolean:
			ff.Checked, _ = v.(bool)
		case schema.NullBoolean:
			ff.Groups = nullBooleanChoices.Grouped()
			ff.Selected[nullBooleanValue(v)] = true
		default:
			if f.Kind.Selectable() {
				options, err := f.Options()
				if err != nil {
					return nil, fmt.Errorf("%s: %w", f.Name, err)
				}

				ff.Groups = options.Grouped()
			}

			if list, ok := v.([]any); ok {
				for _, item := range list {
					ff.Selected[fmt.Sprint(item)] = true
				}
			} else if list, ok := v.([]string); ok {
				for _, item := range list {
					ff.Selected[item] = true
				}
			} else if v != nil {
				ff.Value = fmt.Sprint(v)
				ff.Selected[ff.Value] = true
			}
		}

		fields = append(fields, ff)
	}

	return fields, nil
}

func nullBooleanValue(v any) string {
	switch v {
	case true, "true":
		return "true"
	case false, "false":
		return "false"
	default:
		return "unknown"
	}
}

// parseForm reads the submitted inputs of every schema field.
func parseForm(c *fiber.Ctx, sch *schema.Schema) map[string]any {
	data := make(map[string]any, sch.Len())

	for _, f := range sch.Fields() {
		switch {
		case f.Kind == schema.Boolean:
			data[f.Name] = c.FormValue(f.Name) != ""
		case f.Kind.Multiple():
			data[f.Name] = formValues(c, f.Name)
		default:
			data[f.Name] = c.FormValue(f.Name)
		}
	}

	return data
}

func formValues(c *fiber.Ctx, key string) []string {
	if form, err := c.MultipartForm(); err == nil {
		return form.Value[key]
	}

	multi := c.Request().PostArgs().PeekMulti(key)

	out := make([]string, 0, len(multi))
	for _, v := range multi {
		out = append(out, string(v))
	}

	return out
}

// Change describes one edited key for the audit log.
type Change struct {
	Key string
	Old any
	New any
}

// changes compares the storage encoding of both values key by key.
func changes(before, after map[string]any) ([]Change, error) {
	var out []Change

	keys := make([]string, 0, len(after))
	for k := range after {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		oldV, err := registry.Normalize(before[k])
		if err != nil {
			return nil, err
		}

		newV, err := registry.Normalize(after[k])
		if err != nil {
			return nil, err
		}

		o, _ := json.Marshal(oldV)
		n, _ := json.Marshal(newV)

		if string(o) != string(n) {
			out = append(out, Change{Key: k, Old: oldV, New: newV})
		}
	}

	return out, nil
}
