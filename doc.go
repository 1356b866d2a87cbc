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

// Package entity provides typed access to loosely structured JSON data.
//
// A [Registry] holds entity and collection types. An entity type declares
// attributes, casts, accessors and mutators; every read and write of an
// attribute runs through the same pipeline, so JSON payloads behave like a
// statically described object graph.
//
// # Quick Start
//
//	reg := entity.MustNewRegistry()
//
//	point := reg.MustDefine("Point",
//	    entity.WithAttributes("x", "y"),
//	    entity.WithCasts(map[string]string{"x": "int", "y": "int"}),
//	)
//	points := reg.MustDefineCollection("Points", "Point")
//
//	p, err := point.New(`{"x": "1", "y": 2}`)
//	x, err := entity.Attr[int](p, "x") // 1
//
//	ps, err := points.New(`[{"x":1,"y":2},{"x":3,"y":4}]`)
//	b, err := ps.ToJSON() // [{"x":1,"y":2},{"x":3,"y":4}]
//
// # Casts
//
// Built-in cast tags are int, integer, real, float, double, decimal:N,
// string, bool, boolean, object, array, json, collection, date, datetime,
// datetime:LAYOUT, date:LAYOUT, timestamp and uuid. Layouts are Go time
// layouts. Any other tag names a registered entity, collection or [Caster].
// Nil values are never cast, except by entity and collection casts.
//
// Reads return typed values (int, float64, time.Time, [Object], nested
// models). Writes normalize values into a storable form: dates become
// formatted strings, JSON-like casts become JSON text and nested models
// are flattened.
//
// # Strict Mode
//
// Schemas are strict by default. Reading an attribute that was never stored
// and has no cast or accessor, or writing one without slot, cast or mutator,
// fails with [NotDefinedPropertyError]:
//
//	_, err := p.Get("z")
//	errors.Is(err, entity.ErrNotDefinedProperty) // true
//
// # Accessors and Mutators
//
// Accessors compute read values and are memoized until the attribute is
// written again. Mutators replace the write path and commit with
// [Entity.SetRaw]:
//
//	user := reg.MustDefine("User",
//	    entity.WithAttributes("name"),
//	    entity.WithMutator("name", func(e *entity.Entity, v any) error {
//	        e.SetRaw("name", strings.TrimSpace(cast.ToString(v)))
//	        return nil
//	    }),
//	)
//
// # Formats
//
// [Registry.Unmarshal] and [Marshal] move models through the codecs of
// package [rivaas.dev/entity/codec] (JSON, YAML, TOML, MessagePack and
// protobuf Value).
//
// # Observability
//
// [WithEvents] installs hooks; [LogEvents] adapts them to a [log/slog]
// logger.
package entity
