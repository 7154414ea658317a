package registry

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoStageSetting/GoStageSetting/internal/db/controller/setting"
	"github.com/GoStageSetting/GoStageSetting/internal/db/models"
	"github.com/GoStageSetting/GoStageSetting/internal/schema"
)

// Ready registers every declaration and creates a row holding the default for
// each registered setting that has none. A declaration is either a mapping, used
// as example and default, or a list holding a schema reference or a mapping,
// optionally followed by a mapping of defaults.
//
// A missing settings table is logged and skipped so that startup can happen
// before the first migration.
func (r *Registry) Ready(ctx context.Context, db *gorm.DB, declarations map[string]any, catalog schema.Catalog) error {
	names := make([]string, 0, len(declarations))
	for name := range declarations {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if err := r.declare(name, declarations[name], catalog); err != nil {
			return err
		}
	}

	if db == nil {
		return nil
	}

	return r.reconcile(ctx, db)
}

func (r *Registry) declare(name string, decl any, catalog schema.Catalog) error {
	if example, ok := asExample(decl); ok {
		log.Info().Str("setting", name).
			Msg("declaration is a mapping, using it as both the schema example and the default")

		return r.RegisterExample(name, example)
	}

	params, ok := asList(decl)
	if !ok {
		return fmt.Errorf("%w: %s: expected a mapping or a list, got %T", ErrInvalidDeclaration, name, decl)
	}

	if len(params) < 1 || len(params) > 2 {
		return fmt.Errorf("%w: %s: expected 1 or 2 items, got %d", ErrInvalidDeclaration, name, len(params))
	}

	var override map[string]any

	if len(params) == 2 {
		example, ok := asExample(params[1])
		if !ok {
			return fmt.Errorf("%w: %s: got %T", ErrNotDictLike, name, params[1])
		}

		override = example.Map()
	}

	if example, ok := asExample(params[0]); ok {
		s, err := r.synth.Synthesize(example)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		def := example.Map()
		for key, value := range override {
			if _, known := def[key]; !known {
				log.Info().Str("setting", name).Str("key", key).
					Msg("dropping default for a key the example does not have")

				continue
			}

			def[key] = value
		}

		return r.Register(name, s, def)
	}

	s, err := resolveSchema(name, params[0], catalog)
	if err != nil {
		return err
	}

	def := make(map[string]any, len(override))
	for key, value := range override {
		if _, known := s.Field(key); !known {
			log.Info().Str("setting", name).Str("key", key).
				Msg("dropping default for a key the schema has no field for")

			continue
		}

		def[key] = value
	}

	return r.Register(name, s, def)
}

func resolveSchema(name string, ref any, catalog schema.Catalog) (*schema.Schema, error) {
	switch v := ref.(type) {
	case *schema.Schema:
		return v, nil
	case string:
		s, ok := catalog.Lookup(v)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %q", ErrUnknownSchema, name, v)
		}

		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s: first item must be a schema reference or a mapping, got %T",
			ErrInvalidDeclaration, name, ref)
	}
}

func (r *Registry) reconcile(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	if !db.Migrator().HasTable(&models.Setting{}) {
		log.Warn().Msg("settings table does not exist yet, skipping creation of missing settings")
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}

	sort.Strings(names)

	existing, err := setting.Names(db, names)
	if err != nil {
		return errors.Wrap(err, "failed to read existing settings")
	}

	have := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		have[name] = struct{}{}
	}

	var rows []models.Setting

	for _, name := range names {
		if _, ok := have[name]; ok {
			continue
		}

		entry := r.entries[name]

		raw, err := Serialize(entry.Schema.Prepare(entry.Default))
		if err != nil {
			return errors.Wrapf(err, "failed to serialize default of %s", name)
		}

		rows = append(rows, models.Setting{Name: name, RawValue: raw})
	}

	if err := setting.CreateMany(db, rows); err != nil {
		return errors.Wrap(err, "failed to create missing settings")
	}

	if len(rows) > 0 {
		log.Info().Int("count", len(rows)).Msg("created missing settings from defaults")
	}

	return nil
}

// asExample accepts the mapping shapes a declaration may use.
func asExample(v any) (schema.Example, bool) {
	switch m := v.(type) {
	case schema.Example:
		return m, true
	case map[string]any:
		return schema.From(m), true
	default:
		return schema.Example{}, false
	}
}

func asList(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]any, 0, rv.Len())
	for i := range rv.Len() {
		out = append(out, rv.Index(i).Interface())
	}

	return out, true
}
