// Package registry keeps the process wide table of setting names, their
// schemas and their default values.
package registry

import (
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/GoStageSetting/GoStageSetting/internal/schema"
)

// Entry is one registered setting.
type Entry struct {
	Name    string
	Schema  *schema.Schema
	Default map[string]any
}

// Registry maps setting names to schemas and defaults. It is written during
// startup and read afterwards.
type Registry struct {
	mu      sync.Mutex
	entries map[string]Entry
	synth   *schema.Synthesizer
}

// Option configures a Registry.
type Option func(*Registry)

// WithSynthesizer sets the synthesizer used for example declarations.
func WithSynthesizer(s *schema.Synthesizer) Option {
	return func(r *Registry) { r.synth = s }
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{entries: make(map[string]Entry)}

	for _, opt := range opts {
		opt(r)
	}

	if r.synth == nil {
		r.synth = schema.NewSynthesizer()
	}

	return r
}

// Synthesizer returns the synthesizer used for example declarations.
func (r *Registry) Synthesizer() *schema.Synthesizer {
	return r.synth
}

// Register adds a setting. A nil default is stored as an empty mapping.
func (r *Registry) Register(name string, s *schema.Schema, def map[string]any) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if s == nil {
		return fmt.Errorf("%w: %s", ErrNotSchema, name)
	}

	if def == nil {
		def = map[string]any{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}

	r.entries[name] = Entry{Name: name, Schema: s, Default: maps.Clone(def)}

	return nil
}

// RegisterExample synthesizes a schema from example and registers it with the
// example values as default.
func (r *Registry) RegisterExample(name string, example schema.Example) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	s, err := r.synth.Synthesize(example)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return r.Register(name, s, example.Map())
}

// Unregister removes a setting and returns what was registered.
func (r *Registry) Unregister(name string) (Entry, error) {
	if err := ValidateName(name); err != nil {
		return Entry{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}

	delete(r.entries, name)

	return entry, nil
}

func (r *Registry) entry(name string) (Entry, error) {
	r.mu.Lock()
	entry, ok := r.entries[name]
	r.mu.Unlock()

	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}

	return entry, nil
}

// Schema returns the schema of a setting.
func (r *Registry) Schema(name string) (*schema.Schema, error) {
	entry, err := r.entry(name)
	if err != nil {
		return nil, err
	}

	return entry.Schema, nil
}

// Default returns a copy of the default as it was registered.
func (r *Registry) Default(name string) (map[string]any, error) {
	entry, err := r.entry(name)
	if err != nil {
		return nil, err
	}

	return maps.Clone(entry.Default), nil
}

// GetDefault returns the default in its stored form.
func (r *Registry) GetDefault(name string) (string, error) {
	entry, err := r.entry(name)
	if err != nil {
		return "", err
	}

	return Serialize(entry.Schema.Prepare(entry.Default))
}

// Entries returns all settings sorted by name.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// Names returns all setting names sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.entries[name]

	return ok
}

// Len returns the number of registered settings.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}
