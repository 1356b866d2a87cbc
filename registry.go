// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package entity

import (
	"fmt"
	"maps"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDateFormat is the layout used by date and datetime casts when no
// layout is declared.
const DefaultDateFormat = "2006-01-02 15:04:05"

// Caster is a custom cast registered under a type name with
// [Registry.RegisterCaster]. Get converts a stored value on read; Set
// normalizes a value before it is stored. Neither is called with nil.
type Caster interface {
	Get(value any) (any, error)
	Set(value any) (any, error)
}

// CasterFuncs adapts a pair of functions to [Caster]. A nil SetFunc stores
// values unchanged.
type CasterFuncs struct {
	GetFunc func(value any) (any, error)
	SetFunc func(value any) (any, error)
}

// Get implements [Caster].
func (c CasterFuncs) Get(value any) (any, error) {
	if c.GetFunc == nil {
		return value, nil
	}
	return c.GetFunc(value)
}

// Set implements [Caster].
func (c CasterFuncs) Set(value any) (any, error) {
	if c.SetFunc == nil {
		return value, nil
	}
	return c.SetFunc(value)
}

// typeEntry is one registered name. Exactly one field is set.
type typeEntry struct {
	schema     *Schema
	collection *CollectionSchema
	caster     Caster
}

// isModel reports whether the entry constructs entities or collections.
func (t *typeEntry) isModel() bool {
	return t.schema != nil || t.collection != nil
}

// make delegates to the construction entry point of the entry.
func (t *typeEntry) make(payload any) (Model, error) {
	if t.schema != nil {
		return t.schema.Make(payload)
	}
	return t.collection.Make(payload)
}

// config holds registry-wide settings.
type config struct {
	location   *time.Location
	dateFormat string
	events     Events
}

func defaultConfig() *config {
	return &config{
		location:   time.UTC,
		dateFormat: DefaultDateFormat,
	}
}

func (c *config) validate() error {
	if c.location == nil {
		return fmt.Errorf("entity: location must not be nil")
	}
	if strings.TrimSpace(c.dateFormat) == "" {
		return fmt.Errorf("entity: date format must not be empty")
	}

	return nil
}

// Option configures a [Registry].
type Option func(*config)

// WithLocation sets the time zone used when parsing dates and timestamps.
// The default is [time.UTC].
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		c.location = loc
	}
}

// WithDateFormat sets the default layout for date and datetime casts.
// The default is [DefaultDateFormat].
//
// Example:
//
//	reg := entity.MustNewRegistry(entity.WithDateFormat(time.RFC3339))
func WithDateFormat(layout string) Option {
	return func(c *config) {
		c.dateFormat = layout
	}
}

// WithEvents sets observability hooks for every entity of the registry.
func WithEvents(events Events) Option {
	return func(c *config) {
		c.events = events
	}
}

// Registry maps type names to entity schemas, collection schemas and custom
// casters. Cast tags that are not built-in resolve against it.
//
// Registry is safe for concurrent use. Lookups are lock-free; definitions
// copy the table and swap it atomically.
type Registry struct {
	cfg *config

	types atomic.Pointer[map[string]*typeEntry]
	mu    sync.Mutex
}

// NewRegistry creates a [Registry] with the given options.
// Returns an error if the configuration is invalid.
func NewRegistry(opts ...Option) (*Registry, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	r := &Registry{cfg: cfg}
	m := make(map[string]*typeEntry)
	r.types.Store(&m)

	return r, nil
}

// MustNewRegistry is like [NewRegistry] but panics on invalid configuration.
func MustNewRegistry(opts ...Option) *Registry {
	r, err := NewRegistry(opts...)
	if err != nil {
		panic(fmt.Sprintf("entity.MustNewRegistry: %v", err))
	}

	return r
}

// Location returns the time zone used for date casts.
func (r *Registry) Location() *time.Location {
	return r.cfg.location
}

// DateFormat returns the default layout for date casts.
func (r *Registry) DateFormat() string {
	return r.cfg.dateFormat
}

// Define registers an entity type.
//
// Example:
//
//	point, err := reg.Define("Point",
//	    entity.WithAttributes("x", "y"),
//	    entity.WithCasts(map[string]string{"x": "int", "y": "int"}),
//	)
func (r *Registry) Define(name string, opts ...DefineOption) (*Schema, error) {
	s := newSchema(r, strings.TrimSpace(name))
	for _, opt := range opts {
		opt(s)
	}
	if s.err != nil {
		return nil, fmt.Errorf("define %s: %w", name, s.err)
	}
	if err := r.store(s.name, &typeEntry{schema: s}); err != nil {
		return nil, err
	}

	return s, nil
}

// MustDefine is like [Registry.Define] but panics on error.
func (r *Registry) MustDefine(name string, opts ...DefineOption) *Schema {
	s, err := r.Define(name, opts...)
	if err != nil {
		panic(fmt.Sprintf("entity.MustDefine: %v", err))
	}

	return s
}

// DefineCollection registers a collection type whose items are constructed
// as nested. The nested name is resolved when the first item is built, so
// the two may be defined in either order.
func (r *Registry) DefineCollection(name, nested string) (*CollectionSchema, error) {
	cs := &CollectionSchema{
		name:     strings.TrimSpace(name),
		nested:   strings.TrimSpace(nested),
		registry: r,
	}
	if err := r.store(cs.name, &typeEntry{collection: cs}); err != nil {
		return nil, err
	}

	return cs, nil
}

// MustDefineCollection is like [Registry.DefineCollection] but panics on error.
func (r *Registry) MustDefineCollection(name, nested string) *CollectionSchema {
	cs, err := r.DefineCollection(name, nested)
	if err != nil {
		panic(fmt.Sprintf("entity.MustDefineCollection: %v", err))
	}

	return cs
}

// RegisterCaster registers a custom cast under name.
//
// Example:
//
//	reg.RegisterCaster("upper", entity.CasterFuncs{
//	    GetFunc: func(v any) (any, error) { return strings.ToUpper(cast.ToString(v)), nil },
//	})
func (r *Registry) RegisterCaster(name string, c Caster) error {
	if c == nil {
		return fmt.Errorf("%w: nil caster for %q", ErrInvalidCast, name)
	}

	return r.store(strings.TrimSpace(name), &typeEntry{caster: c})
}

// Make constructs the registered entity or collection type name from payload.
func (r *Registry) Make(name string, payload any) (Model, error) {
	t := r.lookup(name)
	if t == nil || !t.isModel() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}

	return t.make(payload)
}

// Schema returns the entity schema registered under name.
func (r *Registry) Schema(name string) (*Schema, bool) {
	t := r.lookup(name)
	if t == nil || t.schema == nil {
		return nil, false
	}

	return t.schema, true
}

// Collection returns the collection schema registered under name.
func (r *Registry) Collection(name string) (*CollectionSchema, bool) {
	t := r.lookup(name)
	if t == nil || t.collection == nil {
		return nil, false
	}

	return t.collection, true
}

// Names returns every registered type name in no particular order.
func (r *Registry) Names() []string {
	m := r.types.Load()
	names := make([]string, 0, len(*m))
	for name := range *m {
		names = append(names, name)
	}

	return names
}

// lookup returns the entry registered under name, or nil.
func (r *Registry) lookup(name string) *typeEntry {
	m := r.types.Load()
	return (*m)[name]
}

// store adds an entry with copy-on-write.
func (r *Registry) store(name string, t *typeEntry) error {
	if name == "" || strings.ContainsAny(name, ": \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidTypeName, name)
	}
	if isBuiltinTag(name) {
		return fmt.Errorf("%w: %q", ErrReservedTypeName, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.types.Load()
	if _, ok := (*m)[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateType, name)
	}

	next := make(map[string]*typeEntry, len(*m)+1)
	maps.Copy(next, *m)
	next[name] = t
	r.types.Store(&next)

	return nil
}

// castNamedGet applies a registered name on read. Nil reads back as nil
// except under a collection, which builds an empty collection.
func (r *Registry) castNamedGet(target string, raw any) (any, error) {
	t := r.lookup(target)
	switch {
	case t == nil:
		return raw, nil
	case raw == nil && t.collection == nil:
		return nil, nil
	case t.caster != nil:
		return t.caster.Get(raw)
	default:
		return t.make(raw)
	}
}

// castNamedSet applies a registered name on write. Nested models are built
// and flattened straight away so the stored form is always plain.
func (r *Registry) castNamedSet(target string, value any) (any, error) {
	t := r.lookup(target)
	switch {
	case t == nil:
		return value, nil
	case value == nil && t.collection == nil:
		return nil, nil
	case t.caster != nil:
		return t.caster.Set(value)
	default:
		m, err := t.make(value)
		if err != nil {
			return nil, err
		}
		return m.Plain()
	}
}
