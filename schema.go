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
	"errors"
	"fmt"
	"slices"
)

// Accessor computes the value returned when an attribute is read.
// It receives the raw stored value. Results are memoized per entity until the
// attribute is written again.
type Accessor func(e *Entity, raw any) (any, error)

// Mutator replaces the default write path of an attribute. It is responsible
// for committing values with [Entity.SetRaw].
type Mutator func(e *Entity, value any) error

// DefineOption configures a [Schema] at definition time.
type DefineOption func(*Schema)

// WithAttributes declares attribute slots. Declared attributes are present
// (as nil) on every new entity, in declaration order.
func WithAttributes(names ...string) DefineOption {
	return func(s *Schema) {
		for _, name := range names {
			s.declare(name)
		}
	}
}

// WithDefault declares an attribute with a raw default value.
// The default is stored as is; it does not pass through casts.
func WithDefault(name string, value any) DefineOption {
	return func(s *Schema) {
		s.declare(name)
		s.defaults[name] = value
	}
}

// WithCast declares the cast of an attribute.
//
// Example:
//
//	entity.WithCast("born_at", "datetime:2006-01-02")
func WithCast(name, tag string) DefineOption {
	return func(s *Schema) {
		c, err := ParseCast(tag)
		if err != nil {
			s.err = errors.Join(s.err, fmt.Errorf("attribute %q: %w", name, err))
			return
		}
		s.casts[name] = c
	}
}

// WithCasts declares several casts at once.
func WithCasts(casts map[string]string) DefineOption {
	return func(s *Schema) {
		for name, tag := range casts {
			WithCast(name, tag)(s)
		}
	}
}

// WithAccessor registers a read accessor for an attribute.
func WithAccessor(name string, fn Accessor) DefineOption {
	return func(s *Schema) {
		if fn == nil {
			s.err = errors.Join(s.err, fmt.Errorf("attribute %q: nil accessor", name))
			return
		}
		s.accessors[name] = fn
	}
}

// WithMutator registers a write mutator for an attribute.
func WithMutator(name string, fn Mutator) DefineOption {
	return func(s *Schema) {
		if fn == nil {
			s.err = errors.Join(s.err, fmt.Errorf("attribute %q: nil mutator", name))
			return
		}
		s.mutators[name] = fn
	}
}

// WithStrict sets strict mode. Strict mode is on by default: reading or
// writing an attribute without slot, cast, accessor or mutator fails with
// [NotDefinedPropertyError].
func WithStrict(strict bool) DefineOption {
	return func(s *Schema) {
		s.strict = strict
	}
}

// Schema describes an entity type. It is immutable once defined and may be
// shared across goroutines.
type Schema struct {
	name     string
	registry *Registry

	declared  []string
	defaults  map[string]any
	casts     map[string]Cast
	accessors map[string]Accessor
	mutators  map[string]Mutator
	strict    bool

	err error
}

func newSchema(r *Registry, name string) *Schema {
	return &Schema{
		name:      name,
		registry:  r,
		defaults:  make(map[string]any),
		casts:     make(map[string]Cast),
		accessors: make(map[string]Accessor),
		mutators:  make(map[string]Mutator),
		strict:    true,
	}
}

func (s *Schema) declare(name string) {
	if !slices.Contains(s.declared, name) {
		s.declared = append(s.declared, name)
	}
}

// Name returns the type name.
func (s *Schema) Name() string {
	return s.name
}

// Registry returns the registry the schema belongs to.
func (s *Schema) Registry() *Registry {
	return s.registry
}

// Strict reports whether strict mode is enabled.
func (s *Schema) Strict() bool {
	return s.strict
}

// Attributes returns the declared attribute names in declaration order.
func (s *Schema) Attributes() []string {
	return slices.Clone(s.declared)
}

// CastOf returns the cast declared for an attribute.
func (s *Schema) CastOf(name string) (Cast, bool) {
	c, ok := s.casts[name]
	return c, ok
}

// HasAccessor reports whether a read accessor is registered for name.
func (s *Schema) HasAccessor(name string) bool {
	_, ok := s.accessors[name]
	return ok
}

// HasMutator reports whether a write mutator is registered for name.
func (s *Schema) HasMutator(name string) bool {
	_, ok := s.mutators[name]
	return ok
}

// TypeName implements part of the nested-type contract.
func (s *Schema) TypeName() string {
	return s.name
}

// Empty returns an entity holding only the declared defaults. It is the
// target to use with [encoding/json.Unmarshal].
func (s *Schema) Empty() *Entity {
	e := &Entity{
		schema:  s,
		values:  make(map[string]any, len(s.declared)),
		mutated: make(map[string]any),
	}
	for _, name := range s.declared {
		e.commit(name, s.defaults[name])
	}

	return e
}

// New constructs an entity from payload. Every payload key is written
// through the attribute pipeline, so construction obeys strict mode and
// casts exactly like later writes.
//
// Accepted payloads: nil, JSON text (string, []byte, json.RawMessage),
// maps, any [Model], a [Mapper], and structs or struct pointers.
//
// Example:
//
//	p, err := point.New(`{"x": "1", "y": 2}`)
func (s *Schema) New(payload any) (*Entity, error) {
	e := s.Empty()
	if err := e.Fill(payload); err != nil {
		return nil, err
	}

	return e, nil
}

// Make is [Schema.New] returning the [Model] interface.
func (s *Schema) Make(payload any) (Model, error) {
	e, err := s.New(payload)
	if err != nil {
		return nil, err
	}

	return e, nil
}
