package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoStageSetting/GoStageSetting/internal/schema"
)

func TestCheckEmpty(t *testing.T) {
	issues := Check(nil, schema.Presets(), nil)
	require.Len(t, issues, 1)
	assert.Equal(t, "stagesetting.W001", issues[0].ID)
	assert.Equal(t, LevelWarning, issues[0].Level)
}

func TestCheck(t *testing.T) {
	decls := map[string]any{
		"lower":      map[string]any{"a": 1},
		"STRING":     "abc",
		"EMPTY":      []any{},
		"NUMBER":     []any{5},
		"MISSINGREF": []any{"nope"},
		"BADDEF":     []any{schema.PaginationRef, "x"},
		"PARTIAL":    []any{schema.PaginationRef, map[string]any{"per_page": 1}},
		"BROKEN":     map[string]any{"a": struct{}{}},
		"FINE":       map[string]any{"a": 1},
		"COMPLETE":   []any{schema.PaginationRef, map[string]any{"per_page": 1, "allow_empty": true}},
		"EXTRA":      []any{schema.PaginationRef, map[string]any{"per_page": 1, "allow_empty": true, "bogus": 1}},
		"EXTRAEX":    []any{map[string]any{"a": 1}, map[string]any{"a": 2, "b": 3}},
	}

	issues := Check(decls, schema.Presets(), schema.NewSynthesizer())

	got := make([]string, 0, len(issues))
	for _, issue := range issues {
		got = append(got, issue.Setting+" "+issue.ID)
	}

	assert.Equal(t, []string{
		"BADDEF stagesetting.E005",
		"BROKEN stagesetting.E008",
		"EMPTY stagesetting.E003",
		"EXTRA stagesetting.I002",
		"EXTRAEX stagesetting.I002",
		"MISSINGREF stagesetting.E006",
		"NUMBER stagesetting.E004",
		"PARTIAL stagesetting.I001",
		"STRING stagesetting.E002",
		"lower stagesetting.E001",
	}, got)
}

func TestIssueString(t *testing.T) {
	issue := Issue{ID: "stagesetting.E002", Level: LevelError, Setting: "STRING", Msg: "bad", Hint: "fix it"}
	assert.Equal(t, "stagesetting.E002 (error) STRING: bad HINT: fix it", issue.String())
}

func TestCheckUnknownDefaults(t *testing.T) {
	issues := Check(map[string]any{
		"PAGES": []any{schema.PaginationRef, map[string]any{"per_page": 1, "allow_empty": true, "zeta": 1, "alpha": 2}},
	}, schema.Presets(), schema.NewSynthesizer())

	require.Len(t, issues, 1)
	assert.Equal(t, LevelInfo, issues[0].Level)
	assert.Contains(t, issues[0].Msg, "zeta")
	assert.Contains(t, issues[0].Msg, "alpha")
}
