// Package snapshot resolves the current value of every registered setting once
// per request.
package snapshot

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoStageSetting/GoStageSetting/internal/db/controller/setting"
	"github.com/GoStageSetting/GoStageSetting/internal/db/models"
	"github.com/GoStageSetting/GoStageSetting/internal/registry"
	"github.com/GoStageSetting/GoStageSetting/internal/schema"
)

// Snapshot is a lazily loaded, read only view of all settings. Stored values
// that no longer validate are replaced by defaults and keys added to a schema
// since the value was stored are filled from the default.
type Snapshot struct {
	ctx       context.Context
	registry  *registry.Registry
	db        *gorm.DB
	writeBack bool

	mu       sync.Mutex
	loaded   atomic.Bool
	settings map[string]Values
}

// Option configures a Snapshot.
type Option func(*Snapshot)

// WithWriteBack stores values completed with new default keys.
func WithWriteBack(enabled bool) Option {
	return func(s *Snapshot) { s.writeBack = enabled }
}

// WithContext sets the context of the storage read.
func WithContext(ctx context.Context) Option {
	return func(s *Snapshot) { s.ctx = ctx }
}

// New returns a snapshot that reads storage on first use.
func New(reg *registry.Registry, db *gorm.DB, opts ...Option) *Snapshot {
	s := &Snapshot{
		ctx:      context.Background(),
		registry: reg,
		db:       db,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Snapshot) String() string {
	if s.loaded.Load() {
		return "Evaluated Snapshot"
	}

	return "Unevaluated Snapshot"
}

// Loaded reports whether storage has been read.
func (s *Snapshot) Loaded() bool {
	return s.loaded.Load()
}

func (s *Snapshot) conn() *gorm.DB {
	if s.db == nil {
		return nil
	}

	return s.db.WithContext(s.ctx)
}

func (s *Snapshot) load() error {
	if s.loaded.Load() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded.Load() {
		return nil
	}

	names := s.registry.Names()

	rows, err := setting.Known(s.conn(), names)
	if err != nil {
		return errors.Wrap(err, "failed to read settings")
	}

	loadsTotal.Inc()

	stored := make(map[string]models.Setting, len(rows))
	resolved := make(map[string]Values, len(names))

	for _, row := range rows {
		stored[row.Name] = row

		if v, ok := s.validateRow(row); ok {
			resolved[row.Name] = v
		}
	}

	for _, name := range names {
		current, filled, err := s.complete(name, resolved[name])
		if err != nil {
			return err
		}

		resolved[name] = current

		if row, ok := stored[name]; ok && filled && s.writeBack {
			s.store(row, current)
		}
	}

	s.settings = resolved
	s.loaded.Store(true)

	return nil
}

func (s *Snapshot) validateRow(row models.Setting) (Values, bool) {
	sch, err := s.registry.Schema(row.Name)
	if err != nil {
		return nil, false
	}

	data, err := registry.Deserialize(row.RawValue)
	if err != nil {
		log.Warn().Err(err).Str("setting", row.Name).Msg("stored value is not valid JSON, using default")
		invalidRowsTotal.WithLabelValues(row.Name).Inc()

		return nil, false
	}

	cleaned, err := sch.ValidatePresent(data)
	if err != nil {
		log.Warn().Err(err).Str("setting", row.Name).Msg("stored value does not validate, using default")
		invalidRowsTotal.WithLabelValues(row.Name).Inc()

		return nil, false
	}

	return cleaned, true
}

// complete adds the default keys current lacks. filled reports whether any key
// was added to a value that came from storage.
func (s *Snapshot) complete(name string, current Values) (Values, bool, error) {
	sch, err := s.registry.Schema(name)
	if err != nil {
		return nil, false, err
	}

	raw, err := s.registry.GetDefault(name)
	if err != nil {
		return nil, false, err
	}

	defaults, err := registry.Deserialize(raw)
	if err != nil {
		return nil, false, err
	}

	fromStorage := current != nil
	if current == nil {
		current = Values{}
	}

	var missing []string

	for key := range defaults {
		if _, ok := current[key]; !ok {
			missing = append(missing, key)
		}
	}

	if len(missing) == 0 {
		return current, false, nil
	}

	cleaned, verr := sch.Validate(defaults)
	if verr != nil {
		log.Debug().Err(verr).Str("setting", name).Msg("default does not fully validate")
	}

	filled := false

	for _, key := range missing {
		if v, ok := cleaned[key]; ok {
			current[key] = v
			filled = true
		}
	}

	return current, filled && fromStorage, nil
}

func (s *Snapshot) store(row models.Setting, current Values) {
	raw, err := registry.Serialize(map[string]any(current))
	if err != nil {
		log.Error().Err(err).Str("setting", row.Name).Msg("failed to serialize completed value")
		return
	}

	if _, err := setting.UpdateByName(s.conn(), row.Name, raw); err != nil {
		log.Error().Err(err).Str("setting", row.Name).Msg("failed to store completed value")
		return
	}

	writeBacksTotal.Inc()
}

// Get returns the value of a registered setting.
func (s *Snapshot) Get(name string) (Values, error) {
	if err := registry.ValidateName(name); err != nil {
		return nil, &KeyError{Name: name, Err: err}
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	v, ok := s.settings[name]
	if !ok {
		return nil, &KeyError{Name: name}
	}

	return v.clone(), nil
}

// Attr is Get with the error of attribute style access.
func (s *Snapshot) Attr(name string) (Values, error) {
	v, err := s.Get(name)

	var kerr *KeyError
	if errors.As(err, &kerr) {
		return nil, &AttributeError{Name: name}
	}

	return v, err
}

// Lookup returns the value of a setting and whether it exists.
func (s *Snapshot) Lookup(name string) (Values, bool) {
	v, err := s.Get(name)
	return v, err == nil
}

// Setting returns the value of name, or nil when it is unknown or storage
// fails. Templates use it where an error would abort rendering.
func (s *Snapshot) Setting(name string) Values {
	v, err := s.Get(name)
	if err != nil {
		return nil
	}

	return v
}

// Contains reports whether the snapshot has a value for name.
func (s *Snapshot) Contains(name string) (bool, error) {
	if err := s.load(); err != nil {
		return false, err
	}

	_, ok := s.settings[name]

	return ok, nil
}

// Len returns the number of settings.
func (s *Snapshot) Len() (int, error) {
	if err := s.load(); err != nil {
		return 0, err
	}

	return len(s.settings), nil
}

// Names returns the setting names sorted.
func (s *Snapshot) Names() ([]string, error) {
	if err := s.load(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(s.settings))
	for name := range s.settings {
		names = append(names, name)
	}

	sort.Strings(names)

	return names, nil
}

// Item is one setting of the snapshot.
type Item struct {
	Name   string
	Values Values
}

// Items returns every setting sorted by name.
func (s *Snapshot) Items() ([]Item, error) {
	names, err := s.Names()
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(names))
	for _, name := range names {
		items = append(items, Item{Name: name, Values: s.settings[name].clone()})
	}

	return items, nil
}

// Decode copies the fields of a setting into out.
func (s *Snapshot) Decode(name string, out any) error {
	v, err := s.Get(name)
	if err != nil {
		return err
	}

	return v.Decode(out)
}

// Field returns the schema field of a setting, for callers rendering values.
func (s *Snapshot) Field(name, key string) (*schema.Field, bool) {
	sch, err := s.registry.Schema(name)
	if err != nil {
		return nil, false
	}

	return sch.Field(key)
}

// Set always fails; snapshots are read only.
func (s *Snapshot) Set(string, Values) error {
	return ErrReadOnly
}

// Delete always fails; snapshots are read only.
func (s *Snapshot) Delete(string) error {
	return ErrReadOnly
}
