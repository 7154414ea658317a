package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/GoStageSetting/GoStageSetting/internal/schema"
)

// Level is the severity of an Issue.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Issue is one problem found in the setting declarations.
type Issue struct {
	ID      string
	Level   Level
	Setting string
	Msg     string
	Hint    string
}

func (i Issue) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)", i.ID, i.Level)

	if i.Setting != "" {
		fmt.Fprintf(&b, " %s:", i.Setting)
	}

	b.WriteString(" " + i.Msg)

	if i.Hint != "" {
		b.WriteString(" HINT: " + i.Hint)
	}

	return b.String()
}

// Check inspects declarations without registering them and reports anything
// Ready would reject, plus schema fields a reference declaration has no default for.
func Check(declarations map[string]any, catalog schema.Catalog, synth *schema.Synthesizer) []Issue {
	if len(declarations) == 0 {
		return []Issue{{
			ID:    "stagesetting.W001",
			Level: LevelWarning,
			Msg:   "No runtime settings are declared",
			Hint:  "Add declarations to the [settings] table of the configuration",
		}}
	}

	if synth == nil {
		synth = schema.NewSynthesizer()
	}

	names := make([]string, 0, len(declarations))
	for name := range declarations {
		names = append(names, name)
	}

	sort.Strings(names)

	var issues []Issue

	for _, name := range names {
		issues = append(issues, checkDeclaration(name, declarations[name], catalog, synth)...)
	}

	return issues
}

func checkDeclaration(name string, decl any, catalog schema.Catalog, synth *schema.Synthesizer) []Issue {
	issue := func(id string, level Level, msg, hint string) Issue {
		return Issue{ID: id, Level: level, Setting: name, Msg: msg, Hint: hint}
	}

	var issues []Issue

	if err := ValidateName(name); err != nil {
		issues = append(issues, issue("stagesetting.E001", LevelError,
			"Setting name is invalid",
			"Names must be upper case letters, digits and underscores, start with a letter and not end with an underscore"))
	}

	if example, ok := asExample(decl); ok {
		if _, err := synth.Synthesize(example); err != nil {
			issues = append(issues, issue("stagesetting.E008", LevelError,
				"The mapping could not be turned into a schema", err.Error()))
		}

		return issues
	}

	params, ok := asList(decl)
	if !ok {
		return append(issues, issue("stagesetting.E002", LevelError,
			"Setting values should be mappings or lists", fmt.Sprintf("Got %T instead", decl)))
	}

	if len(params) < 1 || len(params) > 2 {
		return append(issues, issue("stagesetting.E003", LevelError,
			"Setting lists should have one or two items",
			"Use a schema reference or a mapping, optionally followed by a mapping of defaults"))
	}

	var s *schema.Schema

	fromExample := false

	if example, ok := asExample(params[0]); ok {
		fromExample = true

		built, err := synth.Synthesize(example)
		if err != nil {
			issues = append(issues, issue("stagesetting.E008", LevelError,
				"The mapping could not be turned into a schema", err.Error()))
		}

		s = built
	} else {
		switch ref := params[0].(type) {
		case *schema.Schema:
			s = ref
		case string:
			found, ok := catalog.Lookup(ref)
			if !ok {
				issues = append(issues, issue("stagesetting.E006", LevelError,
					fmt.Sprintf("Schema reference %q is unknown", ref), "Known references: "+knownRefs(catalog)))
			}

			s = found
		default:
			issues = append(issues, issue("stagesetting.E004", LevelError,
				"The first item should be a schema reference or a mapping", fmt.Sprintf("Got %T instead", ref)))
		}
	}

	if len(params) < 2 {
		return issues
	}

	defaults, ok := asExample(params[1])
	if !ok {
		return append(issues, issue("stagesetting.E005", LevelError,
			"The second item should be a mapping of defaults", fmt.Sprintf("Got %T instead", params[1])))
	}

	if s == nil {
		return issues
	}

	var unknown []string

	for _, key := range defaults.Keys() {
		if _, ok := s.Field(key); !ok {
			unknown = append(unknown, key)
		}
	}

	if len(unknown) > 0 {
		issues = append(issues, issue("stagesetting.I002", LevelInfo,
			"The following defaults have no field and are dropped: "+strings.Join(unknown, ", "),
			"Remove them or add them to the schema"))
	}

	if fromExample {
		return issues
	}

	var missing []string

	for _, key := range s.Keys() {
		if _, ok := defaults.Get(key); !ok {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		issues = append(issues, issue("stagesetting.I001", LevelInfo,
			"The following keys are not in the defaults: "+strings.Join(missing, ", "),
			"They will only be set once the setting is edited"))
	}

	return issues
}

func knownRefs(catalog schema.Catalog) string {
	refs := make([]string, 0, len(catalog))
	for ref := range catalog {
		refs = append(refs, ref)
	}

	sort.Strings(refs)

	return strings.Join(refs, ", ")
}
