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
	"slices"
)

// Entity is a single typed record: an ordered set of raw attribute values
// read and written through the casts, accessors and mutators of its
// [Schema].
//
// An Entity is not safe for concurrent use.
type Entity struct {
	schema *Schema

	keys    []string
	values  map[string]any
	mutated map[string]any
}

// Schema returns the schema the entity was built from.
func (e *Entity) Schema() *Schema {
	return e.schema
}

// TypeName returns the registered name of the entity type.
func (e *Entity) TypeName() string {
	if e.schema == nil {
		return ""
	}
	return e.schema.name
}

func (e *Entity) events() Events {
	return e.schema.registry.cfg.events
}

// Get reads an attribute.
//
// An accessor wins over a cast, and its result is memoized until the next
// write of name. Without either, an attribute that was never stored fails
// with [NotDefinedPropertyError] in strict mode and reads as nil otherwise.
func (e *Entity) Get(name string) (any, error) {
	s := e.schema
	raw, present := e.values[name]

	if fn, ok := s.accessors[name]; ok {
		if v, cached := e.mutated[name]; cached {
			e.events().read(s.name, name)
			return v, nil
		}
		v, err := fn(e, raw)
		if err != nil {
			return nil, err
		}
		e.mutated[name] = v
		e.events().read(s.name, name)

		return v, nil
	}

	if c, ok := s.casts[name]; ok {
		v, err := s.castGet(name, c, raw)
		if err != nil {
			return nil, err
		}
		e.events().read(s.name, name)

		return v, nil
	}

	if !present && s.strict {
		e.events().undefined(s.name, name, false)
		return nil, &NotDefinedPropertyError{Type: s.name, Attribute: name}
	}
	e.events().read(s.name, name)

	return raw, nil
}

// Set writes an attribute.
//
// A mutator takes over the write entirely and commits with [Entity.SetRaw].
// Otherwise the value is normalized by the declared cast and stored.
func (e *Entity) Set(name string, value any) error {
	s := e.schema
	_, present := e.values[name]
	c, hasCast := s.casts[name]
	mut, hasMutator := s.mutators[name]

	if s.strict && !present && !hasCast && !hasMutator {
		e.events().undefined(s.name, name, true)
		return &NotDefinedPropertyError{Type: s.name, Attribute: name, Write: true}
	}

	delete(e.mutated, name)

	if hasMutator {
		if err := mut(e, value); err != nil {
			return err
		}
		e.events().written(s.name, name)

		return nil
	}

	if hasCast {
		v, err := s.castSet(name, c, value)
		if err != nil {
			return err
		}
		value = v
	}

	e.commit(name, value)
	e.events().written(s.name, name)

	return nil
}

// Has reports whether name reads back as a non-nil value.
func (e *Entity) Has(name string) bool {
	v, err := e.Get(name)
	return err == nil && v != nil
}

// Unset removes an attribute and its memoized accessor value.
func (e *Entity) Unset(name string) {
	delete(e.mutated, name)
	if _, ok := e.values[name]; !ok {
		return
	}
	delete(e.values, name)
	e.keys = slices.DeleteFunc(e.keys, func(k string) bool { return k == name })
}

// Raw returns the stored value of name without casting.
func (e *Entity) Raw(name string) (any, bool) {
	v, ok := e.values[name]
	return v, ok
}

// SetRaw stores value under name as is, bypassing strict mode, casts and
// mutators. Mutators use it to commit.
func (e *Entity) SetRaw(name string, value any) {
	delete(e.mutated, name)
	e.commit(name, value)
}

// Keys returns the stored attribute names in order.
func (e *Entity) Keys() []string {
	return slices.Clone(e.keys)
}

// Len returns the number of stored attributes.
func (e *Entity) Len() int {
	return len(e.keys)
}

// Fill writes every key of payload through [Entity.Set], in payload order.
// It stops at the first error.
func (e *Entity) Fill(payload any) error {
	fields, err := entityFields(e.TypeName(), payload)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if err := e.Set(f.key, f.value); err != nil {
			return err
		}
	}

	return nil
}

// Clone returns a deep copy of the stored values. Memoized accessor values
// are not copied.
func (e *Entity) Clone() *Entity {
	c := &Entity{
		schema:  e.schema,
		keys:    slices.Clone(e.keys),
		values:  make(map[string]any, len(e.values)),
		mutated: make(map[string]any),
	}
	for k, v := range e.values {
		c.values[k] = clonePlain(v)
	}

	return c
}

// commit stores value, appending name to the key order when it is new.
func (e *Entity) commit(name string, value any) {
	if _, ok := e.values[name]; !ok {
		e.keys = append(e.keys, name)
	}
	e.values[name] = value
}
