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
	"bytes"
	"encoding"
	"encoding/json"
	"time"
)

// Model is implemented by [*Entity] and [*Collection]. Nested casts and
// collection items are always Models.
type Model interface {
	// TypeName returns the registered type name.
	TypeName() string

	// Plain returns the recursively flattened form: map[string]any for
	// entities, []any or map[string]any for collections.
	Plain() (any, error)

	json.Marshaler
}

var (
	_ Model = (*Entity)(nil)
	_ Model = (*Collection)(nil)
)

// jsonConfig holds JSON output settings.
type jsonConfig struct {
	prefix     string
	indent     string
	escapeHTML bool
}

// JSONOption configures JSON output of [Entity.ToJSON] and [Collection.ToJSON].
type JSONOption func(*jsonConfig)

// WithIndent indents the output like [encoding/json.MarshalIndent].
func WithIndent(prefix, indent string) JSONOption {
	return func(c *jsonConfig) {
		c.prefix = prefix
		c.indent = indent
	}
}

// WithoutEscapeHTML keeps <, > and & unescaped in strings.
func WithoutEscapeHTML() JSONOption {
	return func(c *jsonConfig) {
		c.escapeHTML = false
	}
}

func newJSONConfig(opts []JSONOption) *jsonConfig {
	cfg := &jsonConfig{escapeHTML: true}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// fields reads every stored attribute in order. Date and datetime values
// are formatted back to strings; nested models are kept.
func (e *Entity) fields() ([]field, error) {
	out := make([]field, 0, len(e.keys))
	for _, k := range e.keys {
		v, err := e.Get(k)
		if err != nil {
			return nil, err
		}
		if c, ok := e.schema.casts[k]; ok && c.IsDate() {
			if t, ok := v.(time.Time); ok {
				v = t.Format(e.schema.layoutFor(c))
			}
		}
		out = append(out, field{key: k, value: v})
	}

	return out, nil
}

// plainFields is [Entity.fields] with every value flattened.
func (e *Entity) plainFields() ([]field, error) {
	fields, err := e.fields()
	if err != nil {
		return nil, err
	}
	for i := range fields {
		v, err := plainValue(fields[i].value)
		if err != nil {
			return nil, err
		}
		fields[i].value = v
	}

	return fields, nil
}

// ToMap returns the attributes as read through the pipeline, flattened to
// plain maps and slices.
func (e *Entity) ToMap() (map[string]any, error) {
	fields, err := e.plainFields()
	if err != nil {
		return nil, err
	}

	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.key] = f.value
	}

	return m, nil
}

// Plain implements [Model].
func (e *Entity) Plain() (any, error) {
	return e.ToMap()
}

// ToJSON encodes the entity as a JSON object in attribute order.
//
// Example:
//
//	b, err := p.ToJSON(entity.WithIndent("", "  "))
func (e *Entity) ToJSON(opts ...JSONOption) ([]byte, error) {
	cfg := newJSONConfig(opts)

	var buf bytes.Buffer
	if err := e.writeJSON(&buf, cfg); err != nil {
		return nil, err
	}

	return finishJSON(buf.Bytes(), cfg)
}

// MarshalJSON implements [json.Marshaler].
func (e *Entity) MarshalJSON() ([]byte, error) {
	return e.ToJSON()
}

// UnmarshalJSON implements [json.Unmarshaler]. The receiver must have been
// created by a [Schema]; its attributes are replaced.
func (e *Entity) UnmarshalJSON(data []byte) error {
	if e.schema == nil {
		return ErrNoSchema
	}

	fresh := e.schema.Empty()
	if err := fresh.Fill(data); err != nil {
		return err
	}
	*e = *fresh

	return nil
}

// String returns the JSON encoding, or an empty string if it fails.
func (e *Entity) String() string {
	b, err := e.ToJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

func (e *Entity) writeJSON(buf *bytes.Buffer, cfg *jsonConfig) error {
	fields, err := e.fields()
	if err != nil {
		return err
	}

	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeJSON(buf, f.key, cfg); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeJSONValue(buf, f.value, cfg); err != nil {
			return err
		}
	}
	buf.WriteByte('}')

	return nil
}

// writeJSONValue writes models in their own order and everything else with
// encoding/json.
func writeJSONValue(buf *bytes.Buffer, v any, cfg *jsonConfig) error {
	switch x := v.(type) {
	case *Entity:
		if x != nil {
			return x.writeJSON(buf, cfg)
		}
	case *Collection:
		if x != nil {
			return x.writeJSON(buf, cfg)
		}
	}

	return encodeJSON(buf, v, cfg)
}

func encodeJSON(buf *bytes.Buffer, v any, cfg *jsonConfig) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(cfg.escapeHTML)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)

	return nil
}

func finishJSON(b []byte, cfg *jsonConfig) ([]byte, error) {
	if cfg.prefix == "" && cfg.indent == "" {
		return b, nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, b, cfg.prefix, cfg.indent); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// plainValue flattens models, objects and text marshalers recursively.
// Maps and slices are copied.
func plainValue(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case Model:
		return x.Plain()
	case Object:
		return plainMap(x)
	case map[string]any:
		return plainMap(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			pv, err := plainValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = pv
		}
		return out, nil
	case time.Time:
		return x, nil
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}

	return v, nil
}

func plainMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, item := range m {
		pv, err := plainValue(item)
		if err != nil {
			return nil, err
		}
		out[k] = pv
	}

	return out, nil
}
